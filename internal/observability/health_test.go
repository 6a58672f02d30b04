package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthReadyHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name       string
		checks     map[string]Check
		wantStatus int
	}{
		{name: "No checks", checks: nil, wantStatus: http.StatusOK},
		{name: "All healthy", checks: map[string]Check{"postgres": ok, "redis": ok}, wantStatus: http.StatusOK},
		{name: "One failing", checks: map[string]Check{"postgres": ok, "redis": down}, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HealthReadyHandler(tt.checks)(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHealthLiveHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthLiveHandler(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
