package pagination

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// startFetchSpan opens the span covering one page fetch, from request to the
// moment its result is applied. The caller ends it.
//
//nolint:spancheck
func startFetchSpan(ctx context.Context, model, trigger string, offset, size int) (context.Context, trace.Span) {
	return otel.Tracer("pagination").Start(ctx, "pagination.fetch", //nolint:spancheck
		trace.WithAttributes(
			attribute.String("model", model),
			attribute.String("trigger", trigger),
			attribute.Int("offset", offset),
			attribute.Int("size", size),
		))
}
