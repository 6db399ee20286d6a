// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"lookup-workers/internal/common/camunda"
	"lookup-workers/internal/common/config"
	"lookup-workers/internal/common/logger"
	"lookup-workers/internal/common/observability"
	"lookup-workers/internal/lookup/pipeline"
	"lookup-workers/pkg/registry"

	cq "lookup-workers/internal/workers/lookup/classify-query"
	rl "lookup-workers/internal/workers/lookup/record-lookup"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}
	if err := config.ValidateCamunda(cfg); err != nil {
		zap.NewExample().Fatal("camunda config invalid", zap.Error(err))
	}

	zapLog := logger.NewWithOptions(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	zapLog.Info("Starting worker manager...", zap.String("version", cfg.App.Version))

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.String("path", cfg.Registry.Path), zap.Error(err))
	}

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	svc := pipeline.NewFromConfig(cfg, log, pipeline.WithObservability(obs))

	// --- Register Workers ---
	var workers []*camunda.CamundaWorker

	if config.IsWorkerEnabled(cfg, cq.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, cq.TaskType)
		handler, err := cq.NewHandler(&cq.Config{
			Timeout:       config.GetDuration(wcfg.Timeout),
			Renderer:      cfg.Report.Renderer,
			InputSchema:   reg.InputSchemaFor(cq.TaskType),
			Observability: obs,
		}, &classifyLoggerAdapter{log})
		if err != nil {
			zapLog.Fatal("failed to create classify-query handler", zap.Error(err))
		}
		workers = append(workers, startWorker(zeebe, cq.TaskType, wcfg, handler, log))
	}

	if config.IsWorkerEnabled(cfg, rl.TaskType) {
		wcfg := config.GetWorkerConfig(cfg, rl.TaskType)
		handler, err := rl.NewHandler(&rl.Config{
			Timeout:       config.GetDuration(wcfg.Timeout),
			InputSchema:   reg.InputSchemaFor(rl.TaskType),
			Observability: obs,
		}, svc, log)
		if err != nil {
			zapLog.Fatal("failed to create record-lookup handler", zap.Error(err))
		}
		workers = append(workers, startWorker(zeebe, rl.TaskType, wcfg, handler, log))
	}
	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: cfg.Metrics.Address, Handler: mux}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client *camunda.Client, taskType string, wcfg config.WorkerConfig, handler camunda.JobHandler, log logger.Logger) *camunda.CamundaWorker {
	return camunda.NewWorker(client.GetClient(), taskType, camunda.WorkerOptions{
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       config.GetDuration(wcfg.Timeout),
	}, handler, log)
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}

// classifyLoggerAdapter satisfies the classify-query worker's Logger.
type classifyLoggerAdapter struct {
	logger.Logger
}

func (a *classifyLoggerAdapter) With(fields map[string]interface{}) cq.Logger {
	return &classifyLoggerAdapter{a.Logger.With(fields)}
}
