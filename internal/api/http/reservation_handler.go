package http

import (
	"net/http"

	"library-backend/internal/service"
)

type ReservationHandler struct {
	reservations service.ReservationService
}

func NewReservationHandler(reservations service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

type reserveRequest struct {
	BookID int32 `json:"book_id"`
}

func (h *ReservationHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	var req reserveRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	reservation, err := h.reservations.Reserve(r.Context(), actor, req.BookID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, reservation)
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
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

	if err := h.reservations.Cancel(r.Context(), actor, id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (h *ReservationHandler) Mine(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	reservations, err := h.reservations.MyActiveReservations(r.Context(), actor)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reservations)
}

func (h *ReservationHandler) PendingForBook(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	bookID, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	reservations, err := h.reservations.PendingForBook(r.Context(), actor, bookID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reservations)
}

func (h *ReservationHandler) AllActive(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	reservations, err := h.reservations.AllActive(r.Context(), actor)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, reservations)
}
