// Package tools provides MCP tool registration with dependency injection.
package tools

import (
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/vthunder/chillmcp/internal/activity"
	"github.com/vthunder/chillmcp/internal/breaks"
	"github.com/vthunder/chillmcp/internal/otel"
)

// Dependencies holds all services that MCP tools may need.
// Optional fields may be nil.
type Dependencies struct {
	// Core services (required)
	Invoker *breaks.Invoker

	// Optional services
	ActivityLog *activity.Log
	Tracer      trace.Tracer
	Metrics     *otel.Metrics

	// If set, called after every tool call with the tool name
	OnToolCall func(toolName string)
}

func (d *Dependencies) tracer() trace.Tracer {
	if d.Tracer == nil {
		return nooptrace.NewTracerProvider().Tracer(otel.TracerName)
	}
	return d.Tracer
}
