package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/xcel/profile/internal/apiclient"
	"github.com/xcel/profile/internal/config"
	"github.com/xcel/profile/internal/observability"
	"github.com/xcel/profile/internal/webui"
)

func main() {
	cfg := config.LoadWeb()

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

	ui, err := webui.New(apiclient.New(cfg.APIURL), webui.Config{
		ServiceName:  cfg.ServiceName,
		ImageBaseURL: cfg.ImageBaseURL,
		CookieSecure: cfg.CookieSecure,
	}, log)
	if err != nil {
		log.Fatal("failed to load templates", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           ui.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("profile web started", zap.String("addr", cfg.HTTPAddr), zap.String("api", cfg.APIURL))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("received signal, initiating shutdown")
	ctxShut, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctxShut)
	log.Info("profile web stopped")
}
