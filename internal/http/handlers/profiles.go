package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/qrmenu-backend/internal/errors"
	"github.com/pribylovaa/qrmenu-backend/internal/http/middleware"
	"github.com/pribylovaa/qrmenu-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateProfile — POST /profiles (квота тарифа проверяется до создания).
func (h *Handlers) CreateProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())
	if claims == nil {
		apierrors.WriteError(w, r, service.ErrMissingToken)
		return
	}

	var in profileRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	profile, err := h.Service.CreateProfile(r.Context(), claims.UserID, service.ProfileInput{
		Name:    in.Name,
		Address: in.Address,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, profileFromModel(profile))
}

// ListProfiles — GET /profiles (профили текущего пользователя).
func (h *Handlers) ListProfiles(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())
	if claims == nil {
		apierrors.WriteError(w, r, service.ErrMissingToken)
		return
	}

	profiles, err := h.Service.ListProfiles(r.Context(), claims.UserID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := make([]profileResponse, 0, len(profiles))
	for i := range profiles {
		out = append(out, profileFromModel(&profiles[i]))
	}

	writeJSON(w, http.StatusOK, out)
}

// GetProfile — GET /profiles/{id} (владелец или администратор).
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())
	if claims == nil {
		apierrors.WriteError(w, r, service.ErrMissingToken)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	profile, err := h.Service.GetProfile(r.Context(), claims, id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileFromModel(profile))
}

// ProfileQuota — GET /profiles/quota: текущее использование «N из M».
func (h *Handlers) ProfileQuota(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())
	if claims == nil {
		apierrors.WriteError(w, r, service.ErrMissingToken)
		return
	}

	decision, err := h.Service.ProfileQuota(r.Context(), claims.UserID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, quotaResponse{
		Current: decision.Current,
		Max:     decision.Max,
	})
}
