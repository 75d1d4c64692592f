package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pribylovaa/qrmenu-backend/internal/models"
	"github.com/pribylovaa/qrmenu-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// fakeAuth — ручная заглушка Authenticator для тестов мидлвара.
type fakeAuth struct {
	claims *models.Claims
	err    error
	gotTok string
}

func (f *fakeAuth) Authenticate(_ context.Context, accessToken string) (*models.Claims, error) {
	f.gotTok = accessToken
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func TestChain_Order(t *testing.T) {
	t.Parallel()

	var order []string
	mk := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(okHandler(), mk("outer"), mk("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"outer", "inner"}, order)
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	t.Parallel()

	var gotCtxID string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCtxID = RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}), RequestID())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	require.Equal(t, rec.Header().Get("X-Request-Id"), gotCtxID)
	require.Len(t, gotCtxID, 32)
}

func TestRequestID_RespectsIncomingHeader(t *testing.T) {
	t.Parallel()

	h := Chain(okHandler(), RequestID())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "incoming-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "incoming-42", rec.Header().Get("X-Request-Id"))
}

func TestRecover_PanicBecomes500(t *testing.T) {
	t.Parallel()

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), Logging(silentLogger()), Recover())

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestTimeout_SetsDeadline(t *testing.T) {
	t.Parallel()

	var hasDeadline bool
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
		w.WriteHeader(http.StatusOK)
	}), Timeout(50*time.Millisecond))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.True(t, hasDeadline)
}

func TestAuthenticate_CookiePreferred_OverBearer(t *testing.T) {
	t.Parallel()

	fa := &fakeAuth{claims: &models.Claims{UserID: uuid.New(), Role: models.RoleUser}}

	var gotClaims *models.Claims
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims = ClaimsFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}), Authenticate(fa))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "cookie-token", fa.gotTok)
	require.NotNil(t, gotClaims)
	require.Equal(t, fa.claims.UserID, gotClaims.UserID)
}

func TestAuthenticate_NoToken_401(t *testing.T) {
	t.Parallel()

	fa := &fakeAuth{claims: &models.Claims{}}
	h := Chain(okHandler(), Authenticate(fa))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "missing_credential")
}

func TestAuthenticate_ServiceDenied_MapsStatus(t *testing.T) {
	t.Parallel()

	fa := &fakeAuth{err: service.ErrTokenRevoked}
	h := Chain(okHandler(), Authenticate(fa))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "token_revoked")
}

func TestAuthenticate_StorageFailure_500_FailClosed(t *testing.T) {
	t.Parallel()

	fa := &fakeAuth{err: errors.New("db down")}
	h := Chain(okHandler(), Authenticate(fa))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestExtractAccessToken_BearerFallback_DoublePrefixTolerated(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	require.Equal(t, "abc.def.ghi", ExtractAccessToken(req))

	req.Header.Set("Authorization", "Bearer Bearer abc.def.ghi")
	require.Equal(t, "abc.def.ghi", ExtractAccessToken(req))

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	require.Empty(t, ExtractAccessToken(req))

	req.Header.Del("Authorization")
	require.Empty(t, ExtractAccessToken(req))
}

func TestRequireRole_RankComparison(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		claims     *models.Claims
		required   models.Role
		wantStatus int
	}{
		{"no_claims_401", nil, models.RoleAdmin, http.StatusUnauthorized},
		{"user_lt_admin_403", &models.Claims{Role: models.RoleUser}, models.RoleAdmin, http.StatusForbidden},
		{"owner_lt_admin_403", &models.Claims{Role: models.RoleRestaurantOwner}, models.RoleAdmin, http.StatusForbidden},
		{"admin_ok", &models.Claims{Role: models.RoleAdmin}, models.RoleAdmin, http.StatusOK},
		{"admin_ge_owner_ok", &models.Claims{Role: models.RoleAdmin}, models.RoleRestaurantOwner, http.StatusOK},
		{"owner_ge_user_ok", &models.Claims{Role: models.RoleRestaurantOwner}, models.RoleUser, http.StatusOK},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := Chain(okHandler(), RequireRole(tt.required))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.claims != nil {
				req = req.WithContext(ClaimsInto(req.Context(), tt.claims))
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestClaimsFrom_EmptyContext_Nil(t *testing.T) {
	t.Parallel()

	require.Nil(t, ClaimsFrom(context.Background()))
}
