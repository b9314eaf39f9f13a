// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"outfit-workers/internal/bootstrap"
	"outfit-workers/internal/common/camunda"
	"outfit-workers/internal/common/config"
	"outfit-workers/internal/common/logger"
	"outfit-workers/internal/common/observability"

	fw "outfit-workers/internal/workers/styling/fetch-weather"
	ro "outfit-workers/internal/workers/styling/recommend-outfit"
	scp "outfit-workers/internal/workers/styling/select-color-palette"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...", zap.String("environment", cfg.App.Environment))

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Model, weather and cache ---
	stylist, err := bootstrap.NewStylist(ctx, cfg, obs, log)
	if err != nil {
		zapLog.Fatal("stylist init failed", zap.Error(err))
	}
	defer stylist.Close()

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, camunda.ConfigFrom(cfg.Camunda), zapLog)
	if err != nil {
		zapLog.Fatal("zeebe connection failed", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- Workers ---
	var workers []worker.JobWorker
	register := func(taskType string, handler camunda.HandlerFunc) {
		wcfg := cfg.Workers[taskType]
		if !wcfg.Enabled {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), taskType, wcfg, handler, zapLog))
	}

	register(ro.TaskType, ro.NewHandler(
		ro.LoadConfig(cfg.Workers[ro.TaskType]), stylist.Advisor, obs, log,
	).Handle)
	register(fw.TaskType, fw.NewHandler(
		fw.LoadConfig(cfg.Workers[fw.TaskType]), stylist.Weather, obs, log,
	).Handle)
	register(scp.TaskType, scp.NewHandler(
		scp.LoadConfig(cfg.Workers[scp.TaskType]), obs, log,
	).Handle)
	zapLog.Info("workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ready",
			"modelId": stylist.Bundle.ModelID,
			"time":    time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: cfg.Server.Address, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	zapLog.Info("Shutdown signal received, stopping workers...")

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
