package transport

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xcel/profile/internal/model"
	"github.com/xcel/profile/internal/observability"
)

// HTTPError translates a domain error into the status and envelope the API
// returns. Unknown errors are logged and hidden behind internal_error.
func HTTPError(ctx context.Context, w http.ResponseWriter, err error) {
	status, code, msg := MapError(err)
	if status == http.StatusInternalServerError {
		observability.GetLogger(ctx).Error("internal_error", zap.Error(err))
	}
	WriteError(w, status, code, msg)
}

func MapError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, model.ErrProfileNotFound):
		return http.StatusNotFound, "not_found", "User profile not found"
	case errors.Is(err, model.ErrInvalidUpdate):
		return http.StatusBadRequest, "invalid_argument", err.Error()
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, "unauthorized", "invalid email or password"
	case errors.Is(err, model.ErrTokenRevoked):
		return http.StatusUnauthorized, "unauthorized", "token has been revoked"
	case errors.Is(err, model.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthorized", "authentication failed"
	case errors.Is(err, model.ErrEmailConflict):
		return http.StatusConflict, "already_exists", err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout", "request timed out"
	default:
		return http.StatusInternalServerError, "internal_error", "an unexpected error occurred"
	}
}
