package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// GaugeReader returns the current stress and boss alert levels.
type GaugeReader func() (stress, bossAlert int64)

// Metrics holds all ChillMCP metrics instruments.
type Metrics struct {
	ToolCalls    metric.Int64Counter
	ToolDuration metric.Float64Histogram
	ToolErrors   metric.Int64Counter
	Delayed      metric.Int64Counter
	Stress       metric.Int64ObservableGauge
	BossAlert    metric.Int64ObservableGauge
}

// NewMetrics creates all metric instruments from the given meter. The two
// observable gauges pull from read on every collection.
func NewMetrics(meter metric.Meter, read GaugeReader) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.ToolCalls, err = meter.Int64Counter("chillmcp.tool.calls",
		metric.WithDescription("Tool calls handled"),
	)
	if err != nil {
		return nil, err
	}

	m.ToolDuration, err = meter.Float64Histogram("chillmcp.tool.duration",
		metric.WithDescription("Tool call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.ToolErrors, err = meter.Int64Counter("chillmcp.tool.errors",
		metric.WithDescription("Tool calls that failed"),
	)
	if err != nil {
		return nil, err
	}

	m.Delayed, err = meter.Int64Counter("chillmcp.tool.delayed",
		metric.WithDescription("Breaks stalled by a maxed-out boss alert"),
	)
	if err != nil {
		return nil, err
	}

	m.Stress, err = meter.Int64ObservableGauge("chillmcp.stress",
		metric.WithDescription("Current stress level (0-100)"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			stress, _ := read()
			o.Observe(stress)
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	m.BossAlert, err = meter.Int64ObservableGauge("chillmcp.boss_alert",
		metric.WithDescription("Current boss alert level (0-5)"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			_, alert := read()
			o.Observe(alert)
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordToolCall records one finished tool call. Safe on a nil receiver.
func (m *Metrics) RecordToolCall(ctx context.Context, tool string, d time.Duration, delayed bool, err error) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrToolName.String(tool))
	m.ToolCalls.Add(ctx, 1, attrs)
	m.ToolDuration.Record(ctx, d.Seconds(), attrs)
	if delayed {
		m.Delayed.Add(ctx, 1, attrs)
	}
	if err != nil {
		m.ToolErrors.Add(ctx, 1, attrs)
	}
}
