package log

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/product-service/internal/auth"
	"github.com/tuanvumaihuynh/product-service/pkg/correlationid"
)

var _ slog.Handler = enrichedHandler{}

// enrichedHandler adds request-scoped attributes found in the context to
// every record before passing it on.
type enrichedHandler struct {
	slog.Handler
}

func (h enrichedHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(contextAttrs(ctx)...)
	return h.Handler.Handle(ctx, r)
}

func (h enrichedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return enrichedHandler{h.Handler.WithAttrs(attrs)}
}

func (h enrichedHandler) WithGroup(name string) slog.Handler {
	return enrichedHandler{h.Handler.WithGroup(name)}
}

// contextAttrs returns the correlation id, caller and trace ids carried by ctx.
func contextAttrs(ctx context.Context) []slog.Attr {
	var attrs []slog.Attr

	if id, ok := correlationid.FromContext(ctx); ok {
		attrs = append(attrs, slog.String("correlation_id", id))
	}

	if id, ok := auth.FromContext(ctx); ok && id.UserID != "" {
		attrs = append(attrs, slog.String("user_id", id.UserID))
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		attrs = append(attrs,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}

	return attrs
}
