package mq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/tuanvumaihuynh/product-service/pkg/ptr"
)

func TestBuildProduceRecord(t *testing.T) {
	t.Run("Should copy key, payload and headers", func(t *testing.T) {
		rec := buildProduceRecord(ProduceMsg{
			Topic:        "product-deleted",
			Headers:      map[string]string{"x-correlation-id": "c1", "traceparent": "tp"},
			Payload:      []byte(`{"productId":"p1"}`),
			PartitionKey: ptr.New("p1"),
		})

		assert.Equal(t, "product-deleted", rec.Topic)
		assert.Equal(t, []byte("p1"), rec.Key)
		assert.JSONEq(t, `{"productId":"p1"}`, string(rec.Value))
		require.Len(t, rec.Headers, 2)
		assert.Equal(t, kgo.RecordHeader{Key: "traceparent", Value: []byte("tp")}, rec.Headers[0])
	})

	t.Run("Should leave key nil without partition key", func(t *testing.T) {
		rec := buildProduceRecord(ProduceMsg{Topic: "product-deleted"})

		assert.Nil(t, rec.Key)
		assert.Empty(t, rec.Headers)
	})
}
