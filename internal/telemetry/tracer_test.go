package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/tuanvumaihuynh/product-service/internal/config"
)

func TestInitTracerWithoutCollector(t *testing.T) {
	cleanup, err := InitTracer(context.Background(), config.Otel{ServiceName: "product-service"})
	require.NoError(t, err)

	assert.NoError(t, cleanup(context.Background()))
	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, otel.GetTextMapPropagator().Fields())
}

func TestResourceAttributes(t *testing.T) {
	attrs := resourceAttributes(config.Otel{
		ServiceName:  "product-service",
		K8sPodName:   "product-service-0",
		K8sNamespace: "shop",
	})

	got := make(map[string]string, len(attrs))
	for _, kv := range attrs {
		got[string(kv.Key)] = kv.Value.AsString()
	}

	assert.Equal(t, map[string]string{
		"service.name":       "product-service",
		"k8s.pod.name":       "product-service-0",
		"k8s.namespace.name": "shop",
	}, got)
}

func TestClientOptions(t *testing.T) {
	assert.Len(t, clientOptions(config.Otel{CollectorURL: "otel:4317", Insecure: true}), 2)
	assert.Len(t, clientOptions(config.Otel{CollectorURL: "otel:4317", CollectorAuth: "Bearer x"}), 3)
}
