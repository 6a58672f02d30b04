package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/xcel/profile/internal/model"
	"github.com/xcel/profile/internal/observability"
	"github.com/xcel/profile/internal/transport"
)

type TokenParser interface {
	Parse(token string) (*jwt.RegisteredClaims, error)
}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// JWT authenticates bearer tokens and rejects ones revoked by logout.
func JWT(tokens TokenParser, revoked RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := BearerToken(r)
			if err != nil {
				transport.WriteError(w, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}

			claims, err := tokens.Parse(raw)
			if err != nil {
				transport.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			isRevoked, err := revoked.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				observability.GetLogger(r.Context()).Error("revocation lookup failed", zap.Error(err))
				transport.WriteError(w, http.StatusServiceUnavailable, "unavailable", "service temporarily unavailable")
				return
			}
			if isRevoked {
				transport.HTTPError(r.Context(), w, model.ErrTokenRevoked)
				return
			}

			next.ServeHTTP(w, r.WithContext(InjectClaims(r.Context(), claims)))
		})
	}
}

var (
	errMissingToken = errors.New("missing token")
	errTokenFormat  = errors.New("invalid token format")
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errMissingToken
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || token == "" {
		return "", errTokenFormat
	}
	return token, nil
}
