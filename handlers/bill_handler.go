package handlers

import (
	"net/http"

	"github.com/voglerhub/club-system/middleware"
	"github.com/voglerhub/club-system/models"
	"github.com/voglerhub/club-system/services"
)

type BillHandler struct {
	billService services.BillService
}

func NewBillHandler(billService services.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

func (h *BillHandler) CreateBill(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	var input services.CreateBillInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	input.CreatorID = userID

	bill, err := h.billService.CreateBill(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"bill": bill}, nil)
}

func (h *BillHandler) ListBills(w http.ResponseWriter, r *http.Request) {
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

	bills, err := h.billService.ListBills(r.Context(), userID, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"bills": bills}, nil)
}

func (h *BillHandler) GetBill(w http.ResponseWriter, r *http.Request) {
	billID, err := getIDFromURL(r, "billID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	details, err := h.billService.GetBillDetails(r.Context(), billID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"bill": details.Bill, "groups": details.Groups}, nil)
}

func (h *BillHandler) UpdateBillStatus(w http.ResponseWriter, r *http.Request) {
	billID, err := getIDFromURL(r, "billID")
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

	bill, err := h.billService.UpdateBillStatus(r.Context(), billID, input.Status, role)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"bill": bill}, nil)
}
