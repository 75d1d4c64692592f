// metrics — счётчики Prometheus сервиса qrmenu-backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts — попытки логина с исходом (ok/invalid/suspended/error).
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qrmenu",
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	// TokenRefreshes — ротации refresh-токенов с исходом (ok/denied/error).
	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qrmenu",
		Subsystem: "auth",
		Name:      "token_refreshes_total",
		Help:      "Refresh token rotations by outcome.",
	}, []string{"outcome"})

	// QuotaDenials — отказы квоты по классу ресурса.
	QuotaDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qrmenu",
		Subsystem: "quota",
		Name:      "denials_total",
		Help:      "Quota denials by resource class.",
	}, []string{"resource"})

	// Scans — учтённые сканирования меню (включая отклонённые по лимиту).
	Scans = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "qrmenu",
		Subsystem: "quota",
		Name:      "scans_total",
		Help:      "Recorded menu scans.",
	})
)
