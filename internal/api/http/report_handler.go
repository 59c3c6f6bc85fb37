package http

import (
	"net/http"

	"library-backend/internal/service"
)

type ReportHandler struct {
	reports service.ReportService
}

func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) TopBorrowedBooks(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	page, pageSize := queryPage(r)
	rows, total, err := h.reports.TopBorrowedBooks(r.Context(), actor, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pagedResponse{Items: rows, TotalCount: total, Page: page, PageSize: pageSize})
}

func (h *ReportHandler) UserActivity(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	page, pageSize := queryPage(r)
	rows, total, err := h.reports.UserActivityReport(r.Context(), actor, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pagedResponse{Items: rows, TotalCount: total, Page: page, PageSize: pageSize})
}
