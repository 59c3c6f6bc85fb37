package http

import (
	"net/http"
	"time"

	"library-backend/internal/domain"
	"library-backend/internal/service"
)

type LendingHandler struct {
	lending service.LendingService
}

func NewLendingHandler(lending service.LendingService) *LendingHandler {
	return &LendingHandler{lending: lending}
}

type borrowRequest struct {
	BookID  int32      `json:"book_id"`
	DueDate *time.Time `json:"due_date"`
}

type returnResponse struct {
	Loan *domain.Loan `json:"loan"`
	Fine *domain.Fine `json:"fine,omitempty"`
}

func (h *LendingHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	var req borrowRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	loan, err := h.lending.BorrowBook(r.Context(), actor, req.BookID, req.DueDate)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, loan)
}

func (h *LendingHandler) Return(w http.ResponseWriter, r *http.Request) {
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

	loan, fine, err := h.lending.ReturnLoan(r.Context(), actor, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, returnResponse{Loan: loan, Fine: fine})
}

func (h *LendingHandler) MyHistory(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	loans, err := h.lending.MyHistory(r.Context(), actor)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loans)
}

func (h *LendingHandler) UserHistory(w http.ResponseWriter, r *http.Request) {
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
	loans, err := h.lending.UserHistory(r.Context(), actor, userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loans)
}

func (h *LendingHandler) AllHistory(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	loans, err := h.lending.AllHistory(r.Context(), actor)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loans)
}

func (h *LendingHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	loans, err := h.lending.OverdueLoans(r.Context(), actor)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, loans)
}
