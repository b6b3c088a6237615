package handlers

import (
	"net/http"

	"github.com/voglerhub/club-system/services"
)

type TrainerHandler struct {
	trainerService services.TrainerService
}

func NewTrainerHandler(trainerService services.TrainerService) *TrainerHandler {
	return &TrainerHandler{trainerService: trainerService}
}

func (h *TrainerHandler) CreateTrainer(w http.ResponseWriter, r *http.Request) {
	var input services.TrainerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	trainer, err := h.trainerService.CreateTrainer(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{"trainer": trainer}, nil)
}

func (h *TrainerHandler) GetTrainer(w http.ResponseWriter, r *http.Request) {
	trainerID, err := getIDFromURL(r, "trainerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	trainer, err := h.trainerService.GetTrainerByID(r.Context(), trainerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"trainer": trainer}, nil)
}

func (h *TrainerHandler) ListTrainers(w http.ResponseWriter, r *http.Request) {
	trainers, err := h.trainerService.ListTrainers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"trainers": trainers}, nil)
}

func (h *TrainerHandler) UpdateTrainer(w http.ResponseWriter, r *http.Request) {
	trainerID, err := getIDFromURL(r, "trainerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.TrainerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	trainer, err := h.trainerService.UpdateTrainer(r.Context(), trainerID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"trainer": trainer}, nil)
}

func (h *TrainerHandler) DeleteTrainer(w http.ResponseWriter, r *http.Request) {
	trainerID, err := getIDFromURL(r, "trainerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.trainerService.DeleteTrainer(r.Context(), trainerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"message": "trainer deleted"}, nil)
}
