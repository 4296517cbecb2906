// Package breaks turns a tool name into a slacking session: an optional
// high-alert wait, a random stress relief, a roll of the boss alert dice and
// a formatted status report.
package breaks

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/vthunder/chillmcp/internal/gauge"
	"github.com/vthunder/chillmcp/internal/logging"
)

const (
	// CheckStatusName is the read-only status tool.
	CheckStatusName = "check_status"

	// DefaultHighAlertDelay is how long a break stalls while the boss alert
	// is maxed out.
	DefaultHighAlertDelay = 20 * time.Second
)

var ErrUnknownTool = errors.New("unknown tool")

// Gauges is the part of the state controller the invoker drives.
type Gauges interface {
	DecreaseStress(amount int)
	AttemptRaiseAlert() bool
	Snapshot() gauge.Snapshot
}

// Result is the outcome of one tool call
type Result struct {
	Tool        string
	Text        string
	Decrease    int
	AlertRaised bool
	Delayed     bool
	Stress      int
	BossAlert   int
}

// Invoker runs breaks against a shared set of gauges. It holds no gauge state.
type Invoker struct {
	gauges Gauges
	delay  time.Duration
	intN   func(n int) int
}

// NewInvoker creates an invoker with the default delay and a global random source
func NewInvoker(g Gauges) *Invoker {
	return &Invoker{
		gauges: g,
		delay:  DefaultHighAlertDelay,
		intN:   rand.IntN,
	}
}

// SetHighAlertDelay overrides the max-alert wait. Call before serving.
func (iv *Invoker) SetHighAlertDelay(d time.Duration) {
	iv.delay = d
}

// SetRandom overrides the relief draw. fn must return a value in [0, n)
// and be safe for concurrent use.
func (iv *Invoker) SetRandom(fn func(n int) int) {
	iv.intN = fn
}

// Invoke runs the named break. The max-alert check reads the gauge once,
// before any of this call's effects, and the wait happens outside the gauge
// lock so other callers keep making progress.
func (iv *Invoker) Invoke(ctx context.Context, name string) (Result, error) {
	b, ok := Lookup(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	logging.Info("breaks", "%s called", name)

	delayed := false
	if iv.gauges.Snapshot().BossAlert >= gauge.MaxBossAlert {
		logging.Warn("breaks", "boss alert at %d, %s stalls for %v", gauge.MaxBossAlert, name, iv.delay)
		if err := sleepCtx(ctx, iv.delay); err != nil {
			return Result{}, fmt.Errorf("%s: waiting out high alert: %w", name, err)
		}
		delayed = true
	}

	amount := b.Min + iv.intN(b.Max-b.Min+1)
	iv.gauges.DecreaseStress(amount)
	raised := iv.gauges.AttemptRaiseAlert()
	snap := iv.gauges.Snapshot()

	return Result{
		Tool:        name,
		Text:        formatBreak(b, snap),
		Decrease:    amount,
		AlertRaised: raised,
		Delayed:     delayed,
		Stress:      snap.Stress,
		BossAlert:   snap.BossAlert,
	}, nil
}

// CheckStatus reports the gauges without touching them.
func (iv *Invoker) CheckStatus() Result {
	logging.Info("breaks", "%s called", CheckStatusName)

	snap := iv.gauges.Snapshot()
	return Result{
		Tool:      CheckStatusName,
		Text:      formatStatus(snap),
		Stress:    snap.Stress,
		BossAlert: snap.BossAlert,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func formatBreak(b Break, snap gauge.Snapshot) string {
	var sb strings.Builder
	sb.WriteString(b.Message)
	sb.WriteString("\n\nBreak Summary: ")
	sb.WriteString(b.Summary)
	sb.WriteString("\n\n")
	writeLevels(&sb, snap)
	return sb.String()
}

func formatStatus(snap gauge.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("📊 Current status (no changes)\n\n")
	writeLevels(&sb, snap)
	fmt.Fprintf(&sb, "\n\n⏱️ Since last stress change: %ds (+1 every %ds idle)\n",
		int(snap.SinceStressDrift.Seconds()), int(snap.StressDriftPeriod.Seconds()))
	fmt.Fprintf(&sb, "⏱️ Since last boss alert cooldown: %ds (-1 every %ds)\n",
		int(snap.SinceAlertCooldown.Seconds()), int(snap.AlertCooldown.Seconds()))
	sb.WriteString("\nBreak Summary: Status check only, no changes made")
	return sb.String()
}

func writeLevels(sb *strings.Builder, snap gauge.Snapshot) {
	fmt.Fprintf(sb, "Stress Level: %d\nBoss Alert Level: %d", snap.Stress, snap.BossAlert)
}
