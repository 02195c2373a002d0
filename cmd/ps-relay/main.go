package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tuanvumaihuynh/product-service/internal/config"
	"github.com/tuanvumaihuynh/product-service/internal/event"
	"github.com/tuanvumaihuynh/product-service/internal/log"
	"github.com/tuanvumaihuynh/product-service/internal/relay"
	"github.com/tuanvumaihuynh/product-service/internal/repository"
	"github.com/tuanvumaihuynh/product-service/internal/storage/db"
	"github.com/tuanvumaihuynh/product-service/internal/storage/mq"
	"github.com/tuanvumaihuynh/product-service/internal/telemetry"
	"github.com/tuanvumaihuynh/product-service/pkg/cmdutil"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running relay application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Postgres config.Postgres
		Relay    config.Relay
		Kafka    config.Kafka
		Otel     config.Otel
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	cleanupTracer, err := telemetry.InitTracer(ctx, cfg.Otel)
	if err != nil {
		return fmt.Errorf("error initializing tracer: %w", err)
	}
	defer func() {
		if err := cleanupTracer(ctx); err != nil {
			logger.ErrorContext(ctx, "error cleaning up tracer", slog.Any("error", err))
		}
	}()

	pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("error creating pgx pool: %w", err)
	}
	defer pgxPool.Close()

	dbClient := db.NewClient(pgxPool)

	if err := mq.EnsureTopics(ctx, cfg.Kafka, event.Topics()...); err != nil {
		return fmt.Errorf("error ensuring kafka topics: %w", err)
	}

	kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("error creating kafka producer: %w", err)
	}
	defer kafkaProducer.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	svc := relay.NewService(cfg.Relay, logger, dbClient,
		repository.NewOutboxMsgRepository(dbClient),
		kafkaProducer,
		relay.WithMetrics(relay.NewMetrics(registry)),
	)

	interruptChan := cmdutil.InterruptChan()

	stopOps := func(context.Context) error { return nil }
	if cfg.Relay.MetricsPort != 0 {
		stopOps = serveOps(ctx, logger, cfg.Relay.MetricsPort, registry, dbClient)
	}

	cleanup := svc.Run(ctx)
	logger.InfoContext(ctx, "relay service started",
		slog.Duration("interval", cfg.Relay.Interval),
		slog.Uint64("batch_size", uint64(cfg.Relay.BatchSize)),
	)

	<-interruptChan

	logger.InfoContext(ctx, "relay service is shutting down")
	cleanup()
	if err := stopOps(ctx); err != nil {
		logger.ErrorContext(ctx, "error stopping ops server", slog.Any("error", err))
	}

	logger.InfoContext(ctx, "relay service is stopped")

	return nil
}

// serveOps exposes /metrics and /healthz for the relay process.
func serveOps(
	ctx context.Context,
	logger *slog.Logger,
	port uint32,
	registry *prometheus.Registry,
	checker db.HealthChecker,
) func(context.Context) error {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if ok, err := checker.IsHealthy(r.Context()); err != nil || !ok {
			http.Error(w, "postgres is unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "ops server failed", slog.Any("error", err))
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
