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

	"github.com/bibbank/fraud-detection/internal/application/usecase"
	"github.com/bibbank/fraud-detection/internal/domain/port"
	"github.com/bibbank/fraud-detection/internal/infrastructure/artifact"
	"github.com/bibbank/fraud-detection/internal/infrastructure/config"
	"github.com/bibbank/fraud-detection/internal/infrastructure/messaging"
	"github.com/bibbank/fraud-detection/internal/infrastructure/telemetry"
	grpcpresentation "github.com/bibbank/fraud-detection/internal/presentation/grpc"
	"github.com/bibbank/fraud-detection/internal/presentation/rest"
	"github.com/bibbank/fraud-detection/pkg/observability"
)

const serviceName = "fraud-detection"

func main() {
	if err := run(); err != nil {
		slog.Error("fraudd exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	logger.Info("starting fraudd",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"environment", cfg.Environment,
	)

	// Initialize tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: serviceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer shutdownTracer(context.Background())
	}

	// Load model artifacts. Missing or unreadable artifacts leave the
	// service up in degraded mode.
	store := artifact.NewFileStore(cfg.ScalerPath, cfg.ModelPath)
	var model port.Model
	pipeline, err := usecase.NewLoadModel(store, logger).Execute(ctx)
	switch {
	case err == nil:
		model = pipeline
	case errors.Is(err, port.ErrArtifactNotFound):
		logger.Warn("model artifacts not found, serving in degraded mode; run `fraudctl train` first",
			"model_path", cfg.ModelPath,
			"scaler_path", cfg.ScalerPath,
		)
	default:
		logger.Error("failed to load model artifacts, serving in degraded mode", "error", err)
	}
	modelLoaded := func() bool { return model != nil }

	// Metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName:    serviceName,
		IncludeRuntime: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer meterProvider.Shutdown(context.Background())

	recorder, err := telemetry.NewPredictionMetrics(meterProvider.Meter(serviceName), modelLoaded)
	if err != nil {
		return fmt.Errorf("failed to register prediction metrics: %w", err)
	}

	// Event publisher.
	publisher, closePublisher, err := messaging.NewEventPublisher(cfg.Kafka(), cfg.KafkaTopic, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closePublisher(); err != nil {
			logger.Error("failed to close event publisher", "error", err)
		}
	}()

	// Wire use cases.
	predictUC := usecase.NewPredictTransaction(model, publisher, recorder, logger)

	// HTTP server.
	router, err := rest.NewRouter(predictUC, rest.RouterOptions{
		Metrics:   metricsHandler,
		RateLimit: cfg.RateLimit,
	}, logger)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Optional gRPC server.
	var grpcServer *grpcpresentation.Server
	if cfg.GRPCEnabled() {
		grpcHandler := grpcpresentation.NewFraudDetectionHandler(predictUC, logger)
		grpcServer, err = grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
			Address:     cfg.GRPCAddress(),
			Reflection:  cfg.GRPCReflection,
			TLSCertFile: cfg.GRPCTLSCertFile,
			TLSKeyFile:  cfg.GRPCTLSKeyFile,
		}, modelLoaded(), logger)
		if err != nil {
			return err
		}
	}

	// Start servers.
	errCh := make(chan error, 2)

	if grpcServer != nil {
		go func() {
			if err := grpcServer.Start(); err != nil {
				errCh <- fmt.Errorf("gRPC server error: %w", err)
			}
		}()
	}

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("fraudd started",
		"http_address", cfg.HTTPAddress(),
		"grpc_enabled", cfg.GRPCEnabled(),
		"model_loaded", modelLoaded(),
	)

	// Wait for shutdown signal.
	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error("server error", "error", serveErr)
	}

	// Graceful shutdown.
	logger.Info("shutting down fraudd")

	if grpcServer != nil {
		grpcServer.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("fraudd stopped")
	return serveErr
}
