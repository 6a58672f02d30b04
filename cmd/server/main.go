package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/xcel/profile/internal/cache"
	"github.com/xcel/profile/internal/config"
	"github.com/xcel/profile/internal/handler"
	"github.com/xcel/profile/internal/kafka"
	"github.com/xcel/profile/internal/observability"
	"github.com/xcel/profile/internal/outbox"
	"github.com/xcel/profile/internal/repository"
	"github.com/xcel/profile/internal/security"
	"github.com/xcel/profile/internal/service"
	"github.com/xcel/profile/internal/tx"
)

func main() {
	cfg := config.LoadServer()

	observability.InitLogger(cfg.ServiceName, cfg.LogLevel)
	log := observability.Log
	defer log.Sync()

	if cfg.TracingEnabled {
		tp, err := observability.InitTracer(cfg.ServiceName, cfg.JaegerURL)
		if err != nil {
			log.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				log.Error("failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := repository.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		log.Fatal("db migrate failed", zap.Error(err))
	}

	// Redis
	rdb := cache.New(cfg.RedisAddr)
	defer rdb.Close()

	// Observability server
	obsMux := chi.NewRouter()
	obsMux.Handle("/metrics", promhttp.Handler())
	obsMux.Get("/health/live", observability.HealthLiveHandler)
	obsMux.Get("/health/ready", observability.HealthReadyHandler(map[string]observability.Check{
		"postgres": db.PingContext,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}))
	obsSrv := &http.Server{Addr: cfg.ObsHTTPAddr, Handler: obsMux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("HTTP observability server started", zap.String("addr", cfg.ObsHTTPAddr))
		if err := obsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP observability server failed", zap.Error(err))
		}
	}()

	// Repositories
	profileRepo := &repository.ProfileRepo{DB: db}
	userRepo := &repository.UserRepo{DB: db}
	outboxRepo := outbox.NewRepository(db)
	txm := &tx.Manager{DB: db}
	tokens := security.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTokenTTL)
	revocations := &cache.Revocations{R: rdb}

	// Services
	profileSvc := &service.ProfileService{
		Repo:   profileRepo,
		Users:  userRepo,
		Cache:  &cache.ProfileCache{R: rdb},
		Outbox: outboxRepo,
		Tx:     txm,
	}
	authSvc := &service.AuthService{
		Users:    userRepo,
		Profiles: profileRepo,
		Outbox:   outboxRepo,
		Tx:       txm,
		Tokens:   tokens,
		Revoked:  revocations,
	}

	// Kafka producer + outbox publisher
	producer := kafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	publisher := outbox.NewPublisher(outboxRepo, producer, cfg.OutboxInterval, log)
	go publisher.Start(ctx)

	// HTTP server
	mux := handler.NewRouter(handler.RouterConfig{
		ServiceName:       cfg.ServiceName,
		UploadDir:         cfg.UploadDir,
		RateLimitRequests: cfg.AuthRateLimitRequests,
		RateLimitWindow:   cfg.AuthRateLimitWindow,
	}, profileSvc, authSvc, tokens, revocations)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("profile API started", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("received signal, initiating shutdown")
	cancel() // stop outbox publisher

	ctxShut, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()

	_ = srv.Shutdown(ctxShut)
	_ = obsSrv.Shutdown(ctxShut)
	log.Info("profile API stopped")
}
