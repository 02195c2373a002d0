package config

import (
	"errors"
	"time"
)

// Relay configures the outbox relay loop.
type Relay struct {
	// BatchSize caps how many pending messages one tick claims.
	BatchSize uint32 `env:"RELAY_BATCH_SIZE" envDefault:"100"`
	// Interval is the delay between two polls of the outbox table.
	Interval time.Duration `env:"RELAY_INTERVAL" envDefault:"1s"`
	// ShutdownTimeout bounds how long an in-flight batch may finish after stop.
	ShutdownTimeout time.Duration `env:"RELAY_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	// MetricsPort serves /metrics from the standalone relay. Zero disables it.
	MetricsPort uint32 `env:"RELAY_METRICS_PORT" envDefault:"9090"`
}

func (r *Relay) Validate() error {
	if r.BatchSize == 0 {
		return errors.New("batch size must be positive")
	}
	if r.Interval <= 0 {
		return errors.New("interval must be positive")
	}
	return nil
}
