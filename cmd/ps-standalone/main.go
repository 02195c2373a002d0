package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/tuanvumaihuynh/product-service/internal/auth"
	"github.com/tuanvumaihuynh/product-service/internal/config"
	"github.com/tuanvumaihuynh/product-service/internal/event"
	"github.com/tuanvumaihuynh/product-service/internal/http"
	"github.com/tuanvumaihuynh/product-service/internal/log"
	"github.com/tuanvumaihuynh/product-service/internal/relay"
	"github.com/tuanvumaihuynh/product-service/internal/repository"
	"github.com/tuanvumaihuynh/product-service/internal/service"
	"github.com/tuanvumaihuynh/product-service/internal/storage/cache"
	"github.com/tuanvumaihuynh/product-service/internal/storage/db"
	"github.com/tuanvumaihuynh/product-service/internal/storage/docdb"
	"github.com/tuanvumaihuynh/product-service/internal/storage/mq"
	"github.com/tuanvumaihuynh/product-service/internal/telemetry"
	"github.com/tuanvumaihuynh/product-service/pkg/cmdutil"
	"github.com/tuanvumaihuynh/product-service/pkg/validator"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running standalone application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		HTTP     config.HTTP
		Auth     config.Auth
		Store    config.Store
		Mongo    config.Mongo
		Postgres config.Postgres
		Redis    config.Redis
		Kafka    config.Kafka
		Events   config.Events
		Relay    config.Relay
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	checks := map[string]db.HealthChecker{}

	var dbClient *db.Client
	if cfg.Store.Driver == config.StoreDriverPostgres || cfg.Events.Delivery == config.EventsDeliveryOutbox {
		pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("error creating pgx pool: %w", err)
		}
		defer pgxPool.Close()

		dbClient = db.NewClient(pgxPool)
	}

	var productRepository repository.ProductRepository
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		productRepository = repository.NewPostgresProductRepository(dbClient)
		checks["postgres"] = dbClient
	case config.StoreDriverMemory:
		productRepository = repository.NewMemoryProductRepository()
	default:
		mongoClient, err := docdb.NewClient(ctx, cfg.Mongo)
		if err != nil {
			return fmt.Errorf("error creating mongo client: %w", err)
		}
		defer func() {
			if err := mongoClient.Close(context.Background()); err != nil {
				logger.ErrorContext(ctx, "error closing mongo client", slog.Any("error", err))
			}
		}()

		coll := mongoClient.Collection(cfg.Mongo.Collection)
		if err := repository.EnsureProductIndexes(ctx, coll); err != nil {
			return fmt.Errorf("error ensuring product indexes: %w", err)
		}

		productRepository = repository.NewMongoProductRepository(coll)
		checks["mongo"] = mongoClient
	}
	logger.InfoContext(ctx, "product store ready", slog.String("driver", cfg.Store.Driver.String()))

	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("error creating redis client: %w", err)
		}
		defer redisClient.Close()

		redisCache := cache.NewRedisCache(redisClient)
		productRepository = repository.NewCachedProductRepository(productRepository, redisCache, cfg.Redis.TTL, logger)
		checks["redis"] = redisCache
	}

	if err := mq.EnsureTopics(ctx, cfg.Kafka, event.Topics()...); err != nil {
		return fmt.Errorf("error ensuring kafka topics: %w", err)
	}

	kafkaProducer, err := mq.NewKafkaProducer(ctx, cfg.Kafka)
	if err != nil {
		return fmt.Errorf("error creating kafka producer: %w", err)
	}
	defer kafkaProducer.Close()

	var (
		publisher           event.Publisher
		outboxMsgRepository repository.OutboxMsgRepository
	)
	switch cfg.Events.Delivery {
	case config.EventsDeliveryOutbox:
		outboxMsgRepository = repository.NewOutboxMsgRepository(dbClient)
		publisher = event.NewOutboxPublisher(outboxMsgRepository)
	default:
		publisher = event.NewMQPublisher(kafkaProducer)
	}
	publisher = event.NewInstrumentedPublisher(publisher, registry)

	resolver, err := auth.NewResolver(cfg.Auth)
	if err != nil {
		return fmt.Errorf("error creating identity resolver: %w", err)
	}

	v, err := validator.NewDefaultValidator()
	if err != nil {
		return fmt.Errorf("error creating validator: %w", err)
	}

	productService := service.NewProductService(logger, v, productRepository, publisher)

	interruptChan := cmdutil.InterruptChan()
	var wg sync.WaitGroup

	if cfg.Kafka.ListenDeletions {
		kafkaConsumer, err := mq.NewKafkaConsumer(ctx, cfg.Kafka, logger)
		if err != nil {
			return fmt.Errorf("error creating kafka consumer: %w", err)
		}

		wg.Go(func() {
			svc := event.New(logger, kafkaConsumer)
			cleanup, err := svc.Run(ctx)
			if err != nil {
				panic(fmt.Errorf("error running event service: %w", err))
			}
			logger.InfoContext(ctx, "event service started")

			<-interruptChan

			logger.InfoContext(ctx, "event service is shutting down")
			cleanup()

			logger.InfoContext(ctx, "event service is stopped")
		})
	}

	if outboxMsgRepository != nil {
		wg.Go(func() {
			svc := relay.NewService(cfg.Relay, logger, dbClient, outboxMsgRepository, kafkaProducer,
				relay.WithMetrics(relay.NewMetrics(registry)))
			cleanup := svc.Run(ctx)
			logger.InfoContext(ctx, "relay service started")

			<-interruptChan

			logger.InfoContext(ctx, "relay service is shutting down")
			cleanup()

			logger.InfoContext(ctx, "relay service is stopped")
		})
	}

	wg.Go(func() {
		svc := http.New(cfg.HTTP, logger, registry, resolver, productService, checks)
		cleanup, err := svc.Run(ctx)
		if err != nil {
			panic(fmt.Errorf("error running http service: %w", err))
		}

		logger.InfoContext(ctx, "http service started", slog.String("address", fmt.Sprintf(":%d", cfg.HTTP.Port)))

		<-interruptChan

		logger.InfoContext(ctx, "http service is shutting down")
		if err := cleanup(ctx); err != nil {
			logger.ErrorContext(ctx, "error shutting down http service", slog.Any("error", err))
		}

		logger.InfoContext(ctx, "http service is stopped")
	})

	wg.Wait()

	return nil
}
