package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tuanvumaihuynh/product-service/internal/storage/db"
	"github.com/tuanvumaihuynh/product-service/pkg/outbox"
)

// NewOutboxMsg is an event waiting to be stored in the outbox table.
type NewOutboxMsg struct {
	Topic        string
	Headers      outbox.Headers
	Payload      json.RawMessage
	PartitionKey *string
}

// OutboxMsg is a stored event the relay has not delivered yet.
type OutboxMsg struct {
	ID           uuid.UUID
	Topic        string
	Headers      outbox.Headers
	Payload      json.RawMessage
	PartitionKey *string
}

// OutboxMsgOutcome records the delivery result of one message. A nil Error
// means it reached Kafka.
type OutboxMsgOutcome struct {
	ID    uuid.UUID
	Error *string
}

type OutboxMsgRepository interface {
	WithDB(db db.DB) OutboxMsgRepository
	CreateOutboxMsg(ctx context.Context, msg NewOutboxMsg) error
	// ClaimOutboxMsgs locks up to limit undelivered messages, oldest first.
	// Rows locked by another relay are skipped. Must run inside a transaction.
	ClaimOutboxMsgs(ctx context.Context, limit int32) ([]OutboxMsg, error)
	MarkOutboxMsgsProcessed(ctx context.Context, outcomes []OutboxMsgOutcome) error
}

type outboxMsgRepository struct {
	db db.DB
}

func NewOutboxMsgRepository(db db.DB) OutboxMsgRepository {
	return &outboxMsgRepository{db: db}
}

func (r outboxMsgRepository) WithDB(db db.DB) OutboxMsgRepository {
	return &outboxMsgRepository{db: db}
}

func (r outboxMsgRepository) CreateOutboxMsg(ctx context.Context, msg NewOutboxMsg) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate uuid v7: %w", err)
	}

	headers := msg.Headers
	if headers == nil {
		headers = outbox.Headers{}
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO outbox_messages (id, topic, headers, payload, partition_key, created_at)
		VALUES (@id, @topic, @headers, @payload, @partition_key, @created_at)
	`, pgx.NamedArgs{
		"id":            id,
		"topic":         msg.Topic,
		"headers":       map[string]string(headers),
		"payload":       msg.Payload,
		"partition_key": msg.PartitionKey,
		"created_at":    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("outbox msg create: %w", err)
	}

	return nil
}

func (r outboxMsgRepository) ClaimOutboxMsgs(ctx context.Context, limit int32) ([]OutboxMsg, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, topic, COALESCE(headers, '{}'::jsonb), payload, partition_key
		FROM outbox_messages
		WHERE processed_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("outbox msg claim: %w", err)
	}

	msgs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (OutboxMsg, error) {
		var (
			msg     OutboxMsg
			headers map[string]string
		)
		if err := row.Scan(&msg.ID, &msg.Topic, &headers, &msg.Payload, &msg.PartitionKey); err != nil {
			return OutboxMsg{}, err
		}
		msg.Headers = headers
		return msg, nil
	})
	if err != nil {
		return nil, fmt.Errorf("outbox msg claim: %w", err)
	}

	return msgs, nil
}

func (r outboxMsgRepository) MarkOutboxMsgsProcessed(ctx context.Context, outcomes []OutboxMsgOutcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(outcomes))
	errs := make([]*string, len(outcomes))
	for i, o := range outcomes {
		ids[i] = o.ID
		errs[i] = o.Error
	}

	_, err := r.db.Exec(ctx, `
		UPDATE outbox_messages AS o
		SET processed_at = NOW(),
			error        = e.error
		FROM UNNEST(@ids::uuid[], @errors::text[]) AS e(id, error)
		WHERE o.id = e.id
	`, pgx.NamedArgs{
		"ids":    ids,
		"errors": errs,
	})
	if err != nil {
		return fmt.Errorf("outbox msg mark processed: %w", err)
	}

	return nil
}
