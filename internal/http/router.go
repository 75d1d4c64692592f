// Package http собирает REST-поверхность сервиса: chi-роутер,
// цепочку middleware и регистрацию маршрутов.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/qrmenu-backend/internal/config"
	"github.com/pribylovaa/qrmenu-backend/internal/http/handlers"
	"github.com/pribylovaa/qrmenu-backend/internal/http/middleware"
	"github.com/pribylovaa/qrmenu-backend/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Timeout time.Duration
	Auth    config.AuthConfig
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(svc, opts.Auth)

	registerRoutes(root, h, svc)

	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, svc *service.Service) {
	// Публичные маршруты: аутентификация не требуется.
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)
	r.Post("/auth/logout", h.Logout)

	// Сканирование QR-кода гостем: токен не нужен, лимит тарифа — нужен.
	r.Post("/menus/{id}/scan", h.ScanMenu)

	// Маршруты под access-токеном.
	r.Group(func(priv chi.Router) {
		priv.Use(middleware.Authenticate(svc))

		priv.Get("/auth/me", h.Me)

		priv.Post("/profiles", h.CreateProfile)
		priv.Get("/profiles", h.ListProfiles)
		priv.Get("/profiles/quota", h.ProfileQuota)
		priv.Get("/profiles/{id}", h.GetProfile)
		priv.Post("/profiles/{id}/menus", h.CreateMenu)
		priv.Get("/profiles/{id}/menus", h.ListMenus)
		priv.Post("/menus/{id}/items", h.CreateItem)
		priv.Get("/menus/{id}/items", h.ListItems)

		// Административный контур.
		priv.Group(func(admin chi.Router) {
			admin.Use(middleware.RequireAdmin())

			admin.Get("/admin/users", h.ListUsers)
			admin.Post("/admin/users/{id}/suspend", h.SuspendUser)
			admin.Post("/admin/users/{id}/unsuspend", h.UnsuspendUser)
		})
	})
}
