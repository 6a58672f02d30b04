package middleware

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

const (
	claimsKey ctxKey = iota
	requestIDKey
)

func InjectClaims(ctx context.Context, c *jwt.RegisteredClaims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func Claims(ctx context.Context) *jwt.RegisteredClaims {
	c, _ := ctx.Value(claimsKey).(*jwt.RegisteredClaims)
	return c
}

// UserID returns the authenticated subject, or "" outside the JWT middleware.
func UserID(ctx context.Context) string {
	if c := Claims(ctx); c != nil {
		return c.Subject
	}
	return ""
}

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}
