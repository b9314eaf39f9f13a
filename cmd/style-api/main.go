// cmd/style-api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"outfit-workers/internal/api"
	"outfit-workers/internal/bootstrap"
	"outfit-workers/internal/common/config"
	"outfit-workers/internal/common/logger"
	"outfit-workers/internal/common/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New("style-api")
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stylist, err := bootstrap.NewStylist(ctx, cfg, obs, log)
	if err != nil {
		zapLog.Fatal("stylist init failed", zap.Error(err))
	}
	defer stylist.Close()

	server := api.NewServer(cfg.API, stylist.Advisor, stylist.Weather, log)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("api server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zapLog.Info("Shutdown signal received, draining requests...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("api shutdown failed", zap.Error(err))
	}
	zapLog.Info("Style API stopped")
}
