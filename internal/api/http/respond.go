package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"library-backend/internal/domain"
	"library-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// respondError maps the domain error taxonomy onto HTTP status codes. Unknown
// errors become opaque 500s so internal details never leak to callers.
func respondError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnavailable):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInvalidState):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrInvariantViolation):
		// A concurrency bug, not a caller mistake. Log loudly.
		logger.Error("Invariant violation surfaced to API", "error", err)
		status = http.StatusInternalServerError
	default:
		logger.Error("Unhandled error in API", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		return
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}
