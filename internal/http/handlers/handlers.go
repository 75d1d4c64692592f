package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pribylovaa/qrmenu-backend/internal/config"
	"github.com/pribylovaa/qrmenu-backend/internal/http/middleware"
	"github.com/pribylovaa/qrmenu-backend/internal/models"
	"github.com/pribylovaa/qrmenu-backend/internal/service"
)

// Handlers агрегирует зависимости HTTP-слоя.
type Handlers struct {
	Service *service.Service
	Auth    config.AuthConfig
}

func New(svc *service.Service, authCfg config.AuthConfig) *Handlers {
	return &Handlers{Service: svc, Auth: authCfg}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// setAuthCookies выставляет транспортные cookie пары токенов:
// http-only, secure (вне local), SameSite=Strict, path /, max-age = TTL токена.
func (h *Handlers) setAuthCookies(w http.ResponseWriter, pair *models.TokenPair) {
	now := time.Now()

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(pair.AccessExpiresAt.Sub(now).Seconds()),
		HttpOnly: true,
		Secure:   h.Auth.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(pair.RefreshExpiresAt.Sub(now).Seconds()),
		HttpOnly: true,
		Secure:   h.Auth.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearAuthCookies сбрасывает обе cookie (MaxAge<0 удаляет их у клиента).
func (h *Handlers) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{middleware.AccessTokenCookie, middleware.RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.Auth.CookieSecure,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
