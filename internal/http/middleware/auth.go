package middleware

import (
	"context"
	"net/http"
	"strings"

	apierrors "github.com/pribylovaa/qrmenu-backend/internal/errors"
	"github.com/pribylovaa/qrmenu-backend/internal/models"
	"github.com/pribylovaa/qrmenu-backend/internal/service"
)

// Имена транспортных cookie. Мидлвар читает их, хендлеры auth — выставляют.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// Authenticator — контракт проверки access-токена (реализуется service.Service).
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*models.Claims, error)
}

// Authenticate — per-request гейт аутентификации: извлекает токен из запроса,
// прогоняет через проверку (чёрный список -> подпись/срок/вид) и кладёт
// claims в контекст. Любой отказ — 401; сбой хранилища — 500 (fail closed).
func Authenticate(auth Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractAccessToken(r)
			if token == "" {
				apierrors.WriteError(w, r, service.ErrMissingToken)
				return
			}

			claims, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				apierrors.WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(ClaimsInto(r.Context(), claims)))
		})
	}
}

// ExtractAccessToken извлекает access-токен из запроса.
// Предпочитается http-only cookie (защита в глубину); заголовок
// Authorization: Bearer — только совместимый fallback. Дублированный
// префикс схемы ("Bearer Bearer x") толерантно срезается один раз.
func ExtractAccessToken(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}

	token := strings.TrimSpace(auth[len(prefix):])
	token = strings.TrimSpace(strings.TrimPrefix(token, prefix))

	return token
}

// ExtractRefreshToken извлекает refresh-токен из cookie запроса.
func ExtractRefreshToken(r *http.Request) string {
	if c, err := r.Cookie(RefreshTokenCookie); err == nil {
		return c.Value
	}

	return ""
}
