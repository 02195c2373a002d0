package docdb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"

	"github.com/tuanvumaihuynh/product-service/internal/config"
)

type Client struct {
	*mongo.Client
	database string
}

// NewClient connects to MongoDB and pings the primary.
func NewClient(ctx context.Context, cfg config.Mongo) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMonitor(otelmongo.NewMonitor())
	if cfg.Timeout > 0 {
		opts.SetConnectTimeout(cfg.Timeout)
	}

	cl, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()

	if err := cl.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = cl.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Client{Client: cl, database: cfg.Database}, nil
}

// Collection returns a handle to name in the configured database.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.Database(c.database).Collection(name)
}

func (c *Client) IsHealthy(ctx context.Context) (bool, error) {
	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		return false, fmt.Errorf("ping mongo: %w", err)
	}
	return true, nil
}

func (c *Client) Close(ctx context.Context) error {
	return c.Disconnect(ctx)
}
