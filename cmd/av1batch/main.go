package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amorell/av1batch/internal/batch"
	"github.com/amorell/av1batch/internal/config"
	"github.com/amorell/av1batch/internal/health"
	"github.com/amorell/av1batch/internal/logger"
	"github.com/amorell/av1batch/internal/media"
	"github.com/amorell/av1batch/internal/observability"
	"github.com/amorell/av1batch/internal/storage"
)

const ShutdownTimeout = 5 * time.Second

func main() {
	log := logger.New()
	slog.SetDefault(log)

	if err := godotenv.Load(); err != nil {
		logger.Info(context.Background(), log, "No .env file found, relying on system ENV variables")
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, config.Usage)
		os.Exit(1)
	}

	os.Exit(run(cfg, log))
}

func run(cfg *config.Config, log *slog.Logger) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The external tools must exist before any file is touched.
	if err := media.CheckTools(); err != nil {
		logger.Error(ctx, log, "Required tool missing", "error", err)
		return 1
	}

	if err := cfg.EnsureDirs(); err != nil {
		logger.Error(ctx, log, "Directory setup failed", "error", err)
		return 1
	}

	shutdownTracer, err := observability.InitTracer(ctx, "av1batch", cfg.OTLPEndpoint)
	if err != nil {
		logger.Error(ctx, log, "Failed to initialize tracer", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			logger.Error(context.Background(), log, "Failed to shutdown tracer", "error", err)
		}
	}()

	var uploader batch.Uploader
	if cfg.UploadBucket != "" {
		up, err := storage.NewUploader(ctx, cfg.AWSRegion, cfg.UploadBucket)
		if err != nil {
			logger.Error(ctx, log, "Failed to initialize S3 uploader", "error", err)
			return 1
		}
		uploader = up
	}

	// Optional metrics/health listener for long batches.
	var metricsServer *http.Server
	if cfg.MetricsPort > 0 {
		metricsServer = startMetricsServer(ctx, cfg.MetricsPort, log)
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Info(context.Background(), log, "Shutting down...")
		cancel()
	}()

	runID := uuid.NewString()
	logger.Info(ctx, log, "Starting run", "runId", runID, "mode", string(cfg.Mode))

	runner := batch.NewRunner(cfg, media.NewFFprobe(), media.NewFFmpeg(log), uploader, log)
	summary, err := runner.Run(ctx)
	if err != nil {
		logger.Error(ctx, log, "Batch aborted", "runId", runID, "error", err)
		return 1
	}

	report := batch.NewReport(cfg.ReportDir, reportShard(cfg))
	if err := report.Write(summary); err != nil {
		logger.Error(ctx, log, "Failed to write report lists", "runId", runID, "error", err)
		return 1
	}

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error(context.Background(), log, "Failed to shutdown metrics server", "error", err)
		}
	}

	// A completed run with per-file failures exits non-zero so callers can
	// tell something went wrong.
	if summary.Failed > 0 {
		return 1
	}
	return 0
}

func reportShard(cfg *config.Config) int {
	if cfg.Mode == config.ModeShard {
		return cfg.Shard
	}
	return -1
}

func startMetricsServer(ctx context.Context, port int, log *slog.Logger) *http.Server {
	checker := health.NewChecker(health.DefaultConfig("av1batch", log))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", checker.Handler())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, log, "Starting metrics server", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, log, "Metrics server error", "error", err)
		}
	}()

	return srv
}
