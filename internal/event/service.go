package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/product-service/internal/storage/mq"
)

// Service subscribes to the topics this service produces and handles the
// events found there. Today that means logging every deletion notice.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

func New(logger *slog.Logger, mqConsumer mq.Consumer) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	subscriptions := map[string]mq.HandlerFunc{
		TopicProductDeleted: decodeJSON(s.handleProductDeletedEvent),
	}

	for topic, handler := range subscriptions {
		if err := s.mqConsumer.RegisterHandler(topic, handler); err != nil {
			return nil, fmt.Errorf("register %s handler: %w", topic, err)
		}
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	return CleanupFunc(mqCleanup), nil
}

// decodeJSON adapts a typed event handler to the raw consumer signature.
func decodeJSON[T any](fn func(context.Context, T) error) mq.HandlerFunc {
	return func(ctx context.Context, msg mq.ConsumeMsg) error {
		var ev T
		if err := json.Unmarshal(msg.Payload, &ev); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", msg.Topic, err)
		}

		if err := fn(ctx, ev); err != nil {
			return fmt.Errorf("handle %s event: %w", msg.Topic, err)
		}

		return nil
	}
}
