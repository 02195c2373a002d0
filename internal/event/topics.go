package event

import "github.com/tuanvumaihuynh/product-service/internal/storage/mq"

// Topics lists the topics this service produces to, with their layout.
func Topics() []mq.TopicSpec {
	return []mq.TopicSpec{
		{
			Name:              TopicProductDeleted,
			Partitions:        topicProductDeletedPartitions,
			ReplicationFactor: topicProductDeletedReplicationFactor,
		},
	}
}
