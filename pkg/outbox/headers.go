// Package outbox carries request context across the outbox table and Kafka.
package outbox

import (
	"context"
	"maps"
	"slices"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/tuanvumaihuynh/product-service/pkg/correlationid"
)

// Headers are message headers stored with an outbox row and sent as Kafka
// record headers.
type Headers map[string]string

// HeadersFromContext captures the trace context and correlation id of ctx.
func HeadersFromContext(ctx context.Context) Headers {
	h := Headers{}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(h))

	if id, ok := correlationid.FromContext(ctx); ok {
		h[correlationid.Header] = id
	}

	return h
}

// HeadersFromRecord flattens Kafka record headers. Later duplicates win.
func HeadersFromRecord(rec *kgo.Record) Headers {
	h := make(Headers, len(rec.Headers))
	for _, rh := range rec.Headers {
		h[rh.Key] = string(rh.Value)
	}
	return h
}

// Context restores the trace context and correlation id held by h onto ctx.
func (h Headers) Context(ctx context.Context) context.Context {
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(h))

	if id, ok := h[correlationid.Header]; ok {
		ctx = correlationid.NewContext(ctx, id)
	}

	return ctx
}

// RecordHeaders converts h to Kafka record headers in key order.
func (h Headers) RecordHeaders() []kgo.RecordHeader {
	if len(h) == 0 {
		return nil
	}

	out := make([]kgo.RecordHeader, 0, len(h))
	for _, k := range slices.Sorted(maps.Keys(h)) {
		out = append(out, kgo.RecordHeader{Key: k, Value: []byte(h[k])})
	}
	return out
}
