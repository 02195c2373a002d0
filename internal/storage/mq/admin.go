package mq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"

	"github.com/tuanvumaihuynh/product-service/internal/config"
)

// TopicSpec describes a topic to provision.
type TopicSpec struct {
	Name              string
	Partitions        int32
	ReplicationFactor int16
}

// EnsureTopics creates the given topics. Topics that already exist are left untouched.
func EnsureTopics(ctx context.Context, cfg config.Kafka, topics ...TopicSpec) error {
	cl, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer cl.Close()

	adm := kadm.NewClient(cl)

	for _, t := range topics {
		reqCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		resps, err := adm.CreateTopics(reqCtx, t.Partitions, t.ReplicationFactor, nil, t.Name)
		cancel()
		if err != nil {
			return fmt.Errorf("create topic %s: %w", t.Name, err)
		}

		for _, resp := range resps {
			if resp.Err != nil && !errors.Is(resp.Err, kerr.TopicAlreadyExists) {
				return fmt.Errorf("create topic %s: %w", resp.Topic, resp.Err)
			}
		}
	}

	return nil
}
