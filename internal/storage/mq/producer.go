package mq

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/product-service/internal/config"
	"github.com/tuanvumaihuynh/product-service/pkg/outbox"
)

// ProduceMsg is a record to publish. A nil PartitionKey lets the
// partitioner pick the partition.
type ProduceMsg struct {
	Topic        string
	Headers      map[string]string
	Payload      []byte
	PartitionKey *string
}

type Producer interface {
	Produce(ctx context.Context, msg ProduceMsg) error
}

var _ Producer = (*KafkaProducer)(nil)

type KafkaProducer struct {
	cl *kgo.Client
}

// NewKafkaProducer creates a producer waiting for acknowledgement from all
// in-sync replicas.
func NewKafkaProducer(ctx context.Context, cfg config.Kafka) (*KafkaProducer, error) {
	opts := []kgo.Opt{kgo.RequiredAcks(kgo.AllISRAcks())}
	if cfg.ProduceTimeout > 0 {
		opts = append(opts, kgo.RecordDeliveryTimeout(cfg.ProduceTimeout))
	}

	cl, err := newClient(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}

	return &KafkaProducer{cl: cl}, nil
}

// Produce sends msg and blocks until the broker acknowledges it.
func (p *KafkaProducer) Produce(ctx context.Context, msg ProduceMsg) error {
	ctx, span := tracer.Start(ctx, "KafkaProducer.Produce",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.destination", msg.Topic),
			attribute.Int("messaging.message_payload_size_bytes", len(msg.Payload)),
		),
	)
	defer span.End()

	rec := buildProduceRecord(msg)
	if err := p.cl.ProduceSync(ctx, rec).FirstErr(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "produce failed")
		return fmt.Errorf("produce to %s: %w", msg.Topic, err)
	}

	span.SetAttributes(
		attribute.Int64("messaging.kafka.partition", int64(rec.Partition)),
		attribute.Int64("messaging.kafka.offset", rec.Offset),
	)
	return nil
}

func (p *KafkaProducer) IsHealthy(ctx context.Context) (bool, error) {
	if err := p.cl.Ping(ctx); err != nil {
		return false, fmt.Errorf("ping kafka: %w", err)
	}
	return true, nil
}

func (p *KafkaProducer) Close() {
	p.cl.Close()
}

func buildProduceRecord(msg ProduceMsg) *kgo.Record {
	rec := &kgo.Record{
		Topic: msg.Topic,
		Value: msg.Payload,
	}

	if msg.PartitionKey != nil {
		rec.Key = []byte(*msg.PartitionKey)
	}
	rec.Headers = outbox.Headers(msg.Headers).RecordHeaders()

	return rec
}
