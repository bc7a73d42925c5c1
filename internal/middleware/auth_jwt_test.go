package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"server/internal/domain"
)

func TestAuthJWT(t *testing.T) {
	secret := "test-secret"
	identity := domain.Identity{
		ID:       "7e6b84ad-9f5c-4c41-92fb-0a4f2e2d91aa",
		Name:     "Asha",
		Role:     domain.RoleVolunteer,
		Verified: true,
	}

	var got domain.Identity
	handler := AuthJWT(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("valid token", func(t *testing.T) {
		token, err := SignJWT(secret, identity, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, identity, got)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"unauthenticated","message":"missing bearer token"}`, rec.Body.String())
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := SignJWT("other-secret", identity, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := SignJWT(secret, identity, -time.Minute)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	var lastRec *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
		req.RemoteAddr = "203.0.113.7:1234"
		lastRec = httptest.NewRecorder()
		handler.ServeHTTP(lastRec, req)
		codes = append(codes, lastRec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "application/json", lastRec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"too_many_requests"}`, lastRec.Body.String())

	// distinct IP has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	req.RemoteAddr = "203.0.113.8:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestI18N(t *testing.T) {
	var locale string
	handler := I18N(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale = LocaleFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		value  string
		want   string
	}{
		{"hindi accept-language", "Accept-Language", "hi-IN,hi;q=0.9", "hi"},
		{"x-locale wins", "X-Locale", "hi", "hi"},
		{"unsupported falls back", "Accept-Language", "fr-FR", "en"},
		{"empty falls back", "", "", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, locale)
		})
	}
}
