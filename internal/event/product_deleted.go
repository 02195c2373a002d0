package event

import (
	"context"
	"errors"
	"log/slog"
)

const (
	TopicProductDeleted = "product-deleted"

	topicProductDeletedPartitions        int32 = 1
	topicProductDeletedReplicationFactor int16 = 1
)

// ProductDeletedEvent is emitted after a product is removed from the store.
type ProductDeletedEvent struct {
	ProductID string `json:"productId"`
	OwnerID   string `json:"ownerId"`
}

func (s *Service) handleProductDeletedEvent(ctx context.Context, ev ProductDeletedEvent) error {
	if ev.ProductID == "" {
		return errors.New("missing product id")
	}

	s.logger.InfoContext(ctx, "received product deleted event",
		slog.String("product_id", ev.ProductID),
		slog.String("owner_id", ev.OwnerID),
	)
	return nil
}
