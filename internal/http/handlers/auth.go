package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/qrmenu-backend/internal/errors"
	"github.com/pribylovaa/qrmenu-backend/internal/http/middleware"
	"github.com/pribylovaa/qrmenu-backend/internal/service"
)

// Register — POST /auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	pair, userID, err := h.Service.RegisterUser(r.Context(), service.RegisterInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusCreated, authFromPair(pair, userID.String()))
}

// Login — POST /auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	pair, userID, err := h.Service.LoginUser(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, authFromPair(pair, userID.String()))
}

// Refresh — POST /auth/refresh.
// Тело не требуется: refresh-токен читается из cookie.
// 400 — если токена нет вовсе; 401 — если он невалиден/просрочен/не найден.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	refreshToken := middleware.ExtractRefreshToken(r)
	if refreshToken == "" {
		apierrors.WriteError(w, r, service.ErrValidation)
		return
	}

	pair, userID, err := h.Service.RefreshSession(r.Context(), refreshToken)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	h.setAuthCookies(w, pair)
	writeJSON(w, http.StatusOK, authFromPair(pair, userID.String()))
}

// Logout — POST /auth/logout.
// Терминальная операция: локальная сессия (cookie) сбрасывается всегда,
// даже если токены уже невалидны или хранилище частично недоступно.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	accessToken := middleware.ExtractAccessToken(r)
	refreshToken := middleware.ExtractRefreshToken(r)

	h.Service.Logout(r.Context(), accessToken, refreshToken)

	h.clearAuthCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me — GET /auth/me: identity из проверенных claims.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFrom(r.Context())
	if claims == nil {
		apierrors.WriteError(w, r, service.ErrMissingToken)
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		UserID: claims.UserID.String(),
		Email:  claims.Email,
		Role:   claims.Role.String(),
	})
}
