package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tuanvumaihuynh/product-service/internal/repository"
	"github.com/tuanvumaihuynh/product-service/internal/storage/mq"
	"github.com/tuanvumaihuynh/product-service/pkg/outbox"
)

// Publisher hands domain events to the message broker.
type Publisher interface {
	PublishProductDeleted(ctx context.Context, ev ProductDeletedEvent) error
}

var (
	_ Publisher = (*mqPublisher)(nil)
	_ Publisher = (*outboxPublisher)(nil)
	_ Publisher = (*instrumentedPublisher)(nil)
)

type message struct {
	topic   string
	key     string
	headers outbox.Headers
	payload []byte
}

func productDeletedMessage(ctx context.Context, ev ProductDeletedEvent) (message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return message{}, fmt.Errorf("marshal product deleted event: %w", err)
	}

	return message{
		topic:   TopicProductDeleted,
		key:     ev.ProductID,
		headers: outbox.HeadersFromContext(ctx),
		payload: payload,
	}, nil
}

type mqPublisher struct {
	producer mq.Producer
}

// NewMQPublisher produces events straight to Kafka.
func NewMQPublisher(producer mq.Producer) Publisher {
	return &mqPublisher{producer: producer}
}

func (p *mqPublisher) PublishProductDeleted(ctx context.Context, ev ProductDeletedEvent) error {
	msg, err := productDeletedMessage(ctx, ev)
	if err != nil {
		return err
	}

	if err := p.producer.Produce(ctx, mq.ProduceMsg{
		Topic:        msg.topic,
		Headers:      msg.headers,
		Payload:      msg.payload,
		PartitionKey: &msg.key,
	}); err != nil {
		return fmt.Errorf("produce %s: %w", msg.topic, err)
	}

	return nil
}

type outboxPublisher struct {
	outboxMsgRepo repository.OutboxMsgRepository
}

// NewOutboxPublisher stores events in the outbox table for the relay to deliver.
func NewOutboxPublisher(outboxMsgRepo repository.OutboxMsgRepository) Publisher {
	return &outboxPublisher{outboxMsgRepo: outboxMsgRepo}
}

func (p *outboxPublisher) PublishProductDeleted(ctx context.Context, ev ProductDeletedEvent) error {
	msg, err := productDeletedMessage(ctx, ev)
	if err != nil {
		return err
	}

	if err := p.outboxMsgRepo.CreateOutboxMsg(ctx, repository.NewOutboxMsg{
		Topic:        msg.topic,
		Headers:      msg.headers,
		Payload:      msg.payload,
		PartitionKey: &msg.key,
	}); err != nil {
		return fmt.Errorf("outbox msg repository create outbox msg: %w", err)
	}

	return nil
}

type instrumentedPublisher struct {
	next      Publisher
	published *prometheus.CounterVec
}

// NewInstrumentedPublisher counts publish attempts by topic and result.
func NewInstrumentedPublisher(next Publisher, reg prometheus.Registerer) Publisher {
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "product_service",
		Name:      "events_published_total",
		Help:      "Number of domain events handed to the broker, by topic and result.",
	}, []string{"topic", "result"})
	reg.MustRegister(published)

	return &instrumentedPublisher{
		next:      next,
		published: published,
	}
}

func (p *instrumentedPublisher) PublishProductDeleted(ctx context.Context, ev ProductDeletedEvent) error {
	err := p.next.PublishProductDeleted(ctx, ev)

	result := "success"
	if err != nil {
		result = "error"
	}
	p.published.WithLabelValues(TopicProductDeleted, result).Inc()

	return err
}
