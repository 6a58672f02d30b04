package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/xcel/profile/internal/middleware"
	"github.com/xcel/profile/internal/observability"
)

type RouterConfig struct {
	ServiceName       string
	UploadDir         string
	RateLimitRequests int
	RateLimitWindow   string
}

// NewRouter builds the API: /api/profile behind JWT, sign-in routes behind a
// per-IP rate limit, and uploaded profile images under /uploads.
func NewRouter(
	cfg RouterConfig,
	profiles ProfileService,
	auth AuthService,
	tokens middleware.TokenParser,
	revoked middleware.RevocationChecker,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(observability.MetricsMiddleware(cfg.ServiceName))
	r.Use(middleware.Recovery())
	r.Use(middleware.Timeout(15 * time.Second))
	r.Use(corsMiddleware)

	ph := NewProfileHandler(profiles)
	ah := NewAuthHandler(auth)

	r.Group(func(p chi.Router) {
		p.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))
		p.Post("/api/register", ah.Register)
		p.Post("/api/login", ah.Login)
	})
	r.Post("/api/logout", ah.Logout)

	r.Group(func(p chi.Router) {
		p.Use(middleware.JWT(tokens, revoked))

		profilePath := "/api/profile"
		p.Get(profilePath, ph.Get)
		p.Put(profilePath, ph.Update)
	})

	if cfg.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	}

	r.Get("/health/live", observability.HealthLiveHandler)

	return otelhttp.NewHandler(r, cfg.ServiceName)
}
