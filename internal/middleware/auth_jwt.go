package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"server/internal/domain"
)

// TokenClaims is the bearer-token payload. Role mirrors the account role in
// profiles; handlers enforce role-specific access on top of it.
type TokenClaims struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
	jwt.RegisteredClaims
}

type identityKey struct{}

// SignJWT mints an HS256 bearer token for the given identity.
func SignJWT(secret string, identity domain.Identity, expiry time.Duration) (string, error) {
	claims := TokenClaims{
		Name:     identity.Name,
		Role:     string(identity.Role),
		Verified: identity.Verified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyJWT parses and validates a bearer token.
func VerifyJWT(secret, tokenStr string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// AuthJWT resolves the caller identity from the Authorization header and
// threads it through the request context. Requests without a valid token
// are rejected before any handler runs.
func AuthJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeJSONError(w, http.StatusUnauthorized, `{"error":"unauthenticated","message":"missing bearer token"}`)
				return
			}
			claims, err := VerifyJWT(secret, parts[1])
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, `{"error":"unauthenticated","message":"invalid or expired token"}`)
				return
			}
			identity := domain.Identity{
				ID:       claims.Subject,
				Name:     claims.Name,
				Role:     domain.Role(claims.Role),
				Verified: claims.Verified,
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// IdentityFromContext returns the resolved caller identity, if any.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}

// ContextWithIdentity injects an identity; used by the auth middleware and
// by handler tests.
func ContextWithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

func writeJSONError(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}
