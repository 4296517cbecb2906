package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/codes"

	"github.com/vthunder/chillmcp/internal/activity"
	"github.com/vthunder/chillmcp/internal/breaks"
	"github.com/vthunder/chillmcp/internal/logging"
	"github.com/vthunder/chillmcp/internal/otel"
)

// RegisterAll registers the break tools and check_status with the given server.
func RegisterAll(s *server.MCPServer, deps *Dependencies) {
	for _, b := range breaks.Catalog() {
		name := b.Name
		s.AddTool(
			mcp.NewTool(name, mcp.WithDescription(b.Description)),
			deps.handler(name, func(ctx context.Context) (breaks.Result, error) {
				return deps.Invoker.Invoke(ctx, name)
			}),
		)
	}

	s.AddTool(
		mcp.NewTool(breaks.CheckStatusName,
			mcp.WithDescription("Check the current stress and boss alert levels without changing them."),
		),
		deps.handler(breaks.CheckStatusName, func(context.Context) (breaks.Result, error) {
			return deps.Invoker.CheckStatus(), nil
		}),
	)
}

// handler wraps one tool call with tracing, metrics and the activity journal.
func (d *Dependencies) handler(name string, call func(context.Context) (breaks.Result, error)) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := activity.NewInvocationID()
		ctx, span := otel.StartServerSpan(ctx, d.tracer(), "tool/"+name,
			otel.AttrToolName.String(name),
			otel.AttrInvocationID.String(id),
		)
		defer span.End()

		start := time.Now()
		res, err := call(ctx)
		d.Metrics.RecordToolCall(ctx, name, time.Since(start), res.Delayed, err)

		if d.OnToolCall != nil {
			d.OnToolCall(name)
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logging.Warn("mcp", "%s failed: %v", name, err)
			if lerr := d.ActivityLog.LogError(id, name, "tool call failed", err); lerr != nil {
				logging.Warn("activity", "write failed: %v", lerr)
			}
			return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", name, err)), nil
		}

		span.SetAttributes(
			otel.AttrStress.Int(res.Stress),
			otel.AttrBossAlert.Int(res.BossAlert),
			otel.AttrDelayed.Bool(res.Delayed),
		)

		summary := "Status check only, no changes made"
		if b, ok := breaks.Lookup(name); ok {
			summary = b.Summary
		}
		data := map[string]any{
			"decrease":     res.Decrease,
			"alert_raised": res.AlertRaised,
			"delayed":      res.Delayed,
			"stress":       res.Stress,
			"boss_alert":   res.BossAlert,
			"duration_ms":  time.Since(start).Milliseconds(),
		}
		if lerr := d.ActivityLog.LogToolCall(id, name, summary, data); lerr != nil {
			logging.Warn("activity", "write failed: %v", lerr)
		}

		logging.Debug("mcp", "%s → stress=%d alert=%d", name, res.Stress, res.BossAlert)
		return mcp.NewToolResultText(res.Text), nil
	}
}
