package http

import (
	"net/http"

	"library-backend/internal/service"
)

type UserHandler struct {
	users service.UserService
}

func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type updateProfileRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	user, err := h.users.GetProfile(r.Context(), actor)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), actor, req.Email, req.FullName)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	page, pageSize := queryPage(r)
	users, total, err := h.users.ListUsers(r.Context(), actor, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pagedResponse{Items: users, TotalCount: total, Page: page, PageSize: pageSize})
}
