package middleware

import (
	"context"
	"net/http"

	"github.com/pribylovaa/qrmenu-backend/internal/models"
)

// Middleware — стандартный net/http мидлвар.
type Middleware func(http.Handler) http.Handler

// Chain применяет мидлвары к обработчику в порядке их перечисления.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

type ctxKeyClaims struct{}
type ctxKeyRequestID struct{}

// ClaimsInto кладёт проверенные claims в контекст запроса.
func ClaimsInto(ctx context.Context, c *models.Claims) context.Context {
	return context.WithValue(ctx, ctxKeyClaims{}, c)
}

// ClaimsFrom достаёт claims из контекста; nil — запрос не аутентифицирован.
func ClaimsFrom(ctx context.Context) *models.Claims {
	if v := ctx.Value(ctxKeyClaims{}); v != nil {
		if c, ok := v.(*models.Claims); ok {
			return c
		}
	}

	return nil
}

// RequestIDFrom достаёт request id из контекста ("" — если его нет).
func RequestIDFrom(ctx context.Context) string {
	if v := ctx.Value(ctxKeyRequestID{}); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}

	return ""
}

// statusWriter оборачивает ResponseWriter, чтобы перехватить статус и размер.
type statusWriter struct {
	http.ResponseWriter
	status int
	count  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	count, err := w.ResponseWriter.Write(p)
	w.count += count
	return count, err
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w}
}
