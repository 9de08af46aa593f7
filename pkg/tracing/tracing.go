// Package tracing wraps the OpenTelemetry tracer so call sites stay terse.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Ramsey-B/juniper"

// StartSpan starts a span on the global tracer provider.
func StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name)
}
