package handlers

import (
	"net/http"

	"github.com/voglerhub/club-system/middleware"
	"github.com/voglerhub/club-system/models"
	"github.com/voglerhub/club-system/services"
)

type TravelReportHandler struct {
	travelService services.TravelReportService
}

func NewTravelReportHandler(travelService services.TravelReportService) *TravelReportHandler {
	return &TravelReportHandler{travelService: travelService}
}

func (h *TravelReportHandler) CreateTravelReport(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.CreateTravelReportInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.CreatorID = userID

	report, err := h.travelService.CreateTravelReport(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"travel_report": report}, nil)
}

func (h *TravelReportHandler) ListTravelReports(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	reports, err := h.travelService.ListTravelReports(r.Context(), userID, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"travel_reports": reports}, nil)
}

func (h *TravelReportHandler) GetTravelReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := getIDFromURL(r, "reportID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	report, err := h.travelService.GetTravelReport(r.Context(), reportID, userID, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"travel_report": report}, nil)
}

func (h *TravelReportHandler) UpdateTravelReportStatus(w http.ResponseWriter, r *http.Request) {
	reportID, err := getIDFromURL(r, "reportID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input struct {
		Status models.PaymentStatus `json:"status"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.travelService.UpdateTravelReportStatus(r.Context(), reportID, input.Status, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"travel_report": report}, nil)
}

func (h *TravelReportHandler) DeleteTravelReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := getIDFromURL(r, "reportID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}
	role, err := middleware.GetUserRoleFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	if err := h.travelService.DeleteTravelReport(r.Context(), reportID, userID, role); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"message": "travel report deleted"}, nil)
}
