package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tuanvumaihuynh/product-service/internal/config"
	"github.com/tuanvumaihuynh/product-service/internal/event"
	"github.com/tuanvumaihuynh/product-service/internal/log"
	"github.com/tuanvumaihuynh/product-service/internal/repository"
	"github.com/tuanvumaihuynh/product-service/internal/storage/db"
	"github.com/tuanvumaihuynh/product-service/internal/storage/docdb"
	"github.com/tuanvumaihuynh/product-service/internal/storage/mq"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error running migrate application: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	time.Local = time.UTC

	type Config struct {
		Log      config.Log
		Store    config.Store
		Events   config.Events
		Postgres config.Postgres
		Mongo    config.Mongo
		Kafka    config.Kafka
	}
	cfg, err := config.New[Config]()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	logger := log.NewSlogLogger(cfg.Log)

	if cfg.Store.Driver == config.StoreDriverPostgres || cfg.Events.Delivery == config.EventsDeliveryOutbox {
		pgxPool, err := db.NewPgxPool(ctx, cfg.Postgres)
		if err != nil {
			return fmt.Errorf("error creating pgx pool: %w", err)
		}
		defer pgxPool.Close()

		logger.InfoContext(ctx, "starting database migration")

		if err := db.Migrate(pgxPool); err != nil {
			return fmt.Errorf("error migrating database: %w", err)
		}

		logger.InfoContext(ctx, "database migration completed successfully")
	}

	if cfg.Store.Driver == config.StoreDriverMongo {
		mongoClient, err := docdb.NewClient(ctx, cfg.Mongo)
		if err != nil {
			return fmt.Errorf("error creating mongo client: %w", err)
		}
		defer mongoClient.Close(context.Background()) //nolint:errcheck

		if err := repository.EnsureProductIndexes(ctx, mongoClient.Collection(cfg.Mongo.Collection)); err != nil {
			return fmt.Errorf("error ensuring product indexes: %w", err)
		}

		logger.InfoContext(ctx, "product indexes ensured")
	}

	if err := mq.EnsureTopics(ctx, cfg.Kafka, event.Topics()...); err != nil {
		return fmt.Errorf("error ensuring kafka topics: %w", err)
	}

	logger.InfoContext(ctx, "kafka topics ensured")

	return nil
}
