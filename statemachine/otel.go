package statemachine

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// startApplySpan creates the span for one Apply call.
// The caller is responsible for calling span.End().
//
//nolint:spancheck // Span lifecycle managed by caller (factory pattern)
func startApplySpan(ctx context.Context, machine, from, action string) (context.Context, trace.Span) {
	tracer := otel.Tracer("statemachine")
	ctx, span := tracer.Start(ctx, "statemachine.apply")
	span.SetAttributes(
		attribute.String("machine", machine),
		attribute.String("from", from),
		attribute.String("action", action),
	)

	return ctx, span
}
