package handlers

import (
	"net/http"
	"strconv"

	apierrors "github.com/pribylovaa/qrmenu-backend/internal/errors"
	"github.com/pribylovaa/qrmenu-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ListUsers — GET /admin/users?limit=&offset= (только ADMIN, проверяется middleware).
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := h.Service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, userFromModel(&users[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// SuspendUser — POST /admin/users/{id}/suspend.
func (h *Handlers) SuspendUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	if err := h.Service.SuspendUser(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UnsuspendUser — POST /admin/users/{id}/unsuspend.
func (h *Handlers) UnsuspendUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	if err := h.Service.UnsuspendUser(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
