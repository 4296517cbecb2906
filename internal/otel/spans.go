package otel

import (
	"context"
	"io"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var stderr io.Writer = os.Stderr

// Standard attribute keys for ChillMCP spans and metrics.
var (
	AttrToolName     = attribute.Key("chillmcp.tool.name")
	AttrInvocationID = attribute.Key("chillmcp.invocation.id")
	AttrStress       = attribute.Key("chillmcp.stress")
	AttrBossAlert    = attribute.Key("chillmcp.boss_alert")
	AttrDelayed      = attribute.Key("chillmcp.delayed")
)

// StartServerSpan starts a span for an inbound tool call.
func StartServerSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}
