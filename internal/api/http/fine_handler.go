package http

import (
	"fmt"
	"net/http"

	"library-backend/internal/domain"
	"library-backend/internal/service"
)

type FineHandler struct {
	fines service.FineService
}

func NewFineHandler(fines service.FineService) *FineHandler {
	return &FineHandler{fines: fines}
}

func statusFilter(r *http.Request) (*domain.FineStatus, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}
	status := domain.FineStatus(raw)
	switch status {
	case domain.FineStatusPending, domain.FineStatusPaid, domain.FineStatusWaived:
		return &status, nil
	}
	return nil, fmt.Errorf("%w: unknown fine status %q", domain.ErrInvalidArgument, raw)
}

func (h *FineHandler) Pay(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	fine, err := h.fines.Pay(r.Context(), actor, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fine)
}

func (h *FineHandler) Waive(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	fine, err := h.fines.Waive(r.Context(), actor, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fine)
}

func (h *FineHandler) Mine(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	status, err := statusFilter(r)
	if err != nil {
		respondError(w, err)
		return
	}
	fines, err := h.fines.MyFines(r.Context(), actor, status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fines)
}

func (h *FineHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	userID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	status, err := statusFilter(r)
	if err != nil {
		respondError(w, err)
		return
	}
	fines, err := h.fines.FinesForUser(r.Context(), actor, userID, status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fines)
}

func (h *FineHandler) All(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	status, err := statusFilter(r)
	if err != nil {
		respondError(w, err)
		return
	}
	fines, err := h.fines.AllFines(r.Context(), actor, status)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, fines)
}
