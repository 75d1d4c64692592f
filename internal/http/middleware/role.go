package middleware

import (
	"net/http"

	apierrors "github.com/pribylovaa/qrmenu-backend/internal/errors"
	"github.com/pribylovaa/qrmenu-backend/internal/models"
	"github.com/pribylovaa/qrmenu-backend/internal/service"
)

// RequireRole пропускает запрос, только если ранг роли из claims не ниже
// требуемого. Ставится строго ПОСЛЕ Authenticate: отсутствие claims здесь —
// ошибка конфигурации роутера, а не запроса, отвечаем 401.
// Недостаточный ранг — 403, в отличие от 401 аутентификационных отказов.
func RequireRole(required models.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFrom(r.Context())
			if claims == nil {
				apierrors.WriteError(w, r, service.ErrMissingToken)
				return
			}

			if !claims.Role.HasAtLeast(required) {
				apierrors.WriteError(w, r, service.ErrPermissionDenied)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin — сокращение для админских маршрутов.
func RequireAdmin() Middleware {
	return RequireRole(models.RoleAdmin)
}
