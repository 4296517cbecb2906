package tools

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vthunder/chillmcp/internal/activity"
	"github.com/vthunder/chillmcp/internal/breaks"
	"github.com/vthunder/chillmcp/internal/gauge"
)

func newDeps(t *testing.T, probability int) (*Dependencies, *gauge.Controller) {
	t.Helper()
	c, err := gauge.New(gauge.Config{AlertRiseProbability: probability, AlertCooldown: time.Hour}, gauge.Options{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(c.Close)

	return &Dependencies{
		Invoker:     breaks.NewInvoker(c),
		ActivityLog: activity.New(filepath.Join(t.TempDir(), "activity.jsonl")),
	}, c
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected one content block, got %d", len(res.Content))
	}
	tc, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return tc.Text
}

func TestHandler_NotifiesOnToolCall(t *testing.T) {
	deps, _ := newDeps(t, 0)

	var mu sync.Mutex
	var called []string
	deps.OnToolCall = func(name string) {
		mu.Lock()
		called = append(called, name)
		mu.Unlock()
	}

	h := deps.handler("show_meme", func(ctx context.Context) (breaks.Result, error) {
		return deps.Invoker.Invoke(ctx, "show_meme")
	})
	res, err := h(context.Background(), mcp.CallToolRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, res))
	}
	if len(called) != 1 || called[0] != "show_meme" {
		t.Errorf("OnToolCall: %v", called)
	}
}

func TestHandler_CancelledWaitIsToolError(t *testing.T) {
	deps, c := newDeps(t, 100)
	deps.Invoker.SetHighAlertDelay(time.Hour)
	for i := 0; i < gauge.MaxBossAlert; i++ {
		c.AttemptRaiseAlert()
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := deps.handler("take_a_break", func(ctx context.Context) (breaks.Result, error) {
		return deps.Invoker.Invoke(ctx, "take_a_break")
	})
	res, err := h(ctx, mcp.CallToolRequest{})
	if err != nil {
		t.Fatalf("handler should report failures in the result, got %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError for an abandoned call")
	}

	errs, _ := deps.ActivityLog.ByType(activity.TypeError, 5)
	if len(errs) != 1 || errs[0].Tool != "take_a_break" {
		t.Errorf("error journal: %+v", errs)
	}
	if got := c.Snapshot().Stress; got != gauge.InitialStress {
		t.Errorf("abandoned call changed stress to %d", got)
	}
}

func TestHandler_WorksWithoutOptionalDeps(t *testing.T) {
	c, err := gauge.New(gauge.Config{AlertRiseProbability: 50, AlertCooldown: time.Hour}, gauge.Options{})
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	deps := &Dependencies{Invoker: breaks.NewInvoker(c)}
	h := deps.handler(breaks.CheckStatusName, func(context.Context) (breaks.Result, error) {
		return deps.Invoker.CheckStatus(), nil
	})
	res, err := h(context.Background(), mcp.CallToolRequest{})
	if err != nil || res.IsError {
		t.Fatalf("check_status: %v %+v", err, res)
	}
	if text := textOf(t, res); text == "" {
		t.Error("empty status text")
	}
}
