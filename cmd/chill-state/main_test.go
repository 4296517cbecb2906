package main

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vthunder/chillmcp/internal/activity"
)

func seedJournal(t *testing.T) *activity.Log {
	t.Helper()
	journal := activity.New(filepath.Join(t.TempDir(), "activity.jsonl"))
	journal.LogStartup("ChillMCP started", map[string]any{"boss_alertness": 100})
	journal.LogToolCall("a", "take_a_break", "Basic break and relaxation", map[string]any{"stress": 30, "boss_alert": 1, "delayed": false})
	journal.LogTransition("stress_decrease", 50, 30, 20, time.Now())
	journal.LogToolCall("b", "take_a_break", "Basic break and relaxation", map[string]any{"stress": 12, "boss_alert": 5, "delayed": true})
	journal.LogToolCall("c", "check_status", "Status check only, no changes made", map[string]any{"stress": 12, "boss_alert": 5, "delayed": false})
	journal.LogError("d", "show_meme", "tool call failed", errors.New("context canceled"))
	return journal
}

func TestSummarize(t *testing.T) {
	journal := seedJournal(t)
	entries, err := journal.All()
	if err != nil {
		t.Fatal(err)
	}

	s := summarize(entries)
	if s.Calls["take_a_break"] != 2 || s.Calls["check_status"] != 1 {
		t.Errorf("calls: %v", s.Calls)
	}
	if s.Delayed != 1 || s.Errors != 1 {
		t.Errorf("delayed/errors: %d/%d", s.Delayed, s.Errors)
	}
	if !s.HasLast || s.LastStress != 12 || s.LastAlert != 5 {
		t.Errorf("last gauges: %+v", s)
	}
	if s.Transitions["stress_decrease"] != 1 {
		t.Errorf("transitions: %v", s.Transitions)
	}
}

func TestHandleSummary(t *testing.T) {
	var buf bytes.Buffer
	handleSummary(&buf, seedJournal(t))

	out := buf.String()
	for _, want := range []string{"(6 entries)", "Stress Level 12, Boss Alert Level 5", "take_a_break"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestHandleLogs(t *testing.T) {
	journal := seedJournal(t)

	var buf bytes.Buffer
	if err := handleLogs(&buf, io.Discard, journal, []string{"-n", "2"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Recent Journal Entries (2)") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	buf.Reset()
	if err := handleLogs(&buf, io.Discard, journal, []string{"--truncate", "3"}); err != nil {
		t.Fatal(err)
	}
	entries, _ := journal.All()
	if len(entries) != 3 {
		t.Errorf("expected 3 entries after truncate, got %d", len(entries))
	}
}

func TestHandleLogs_TypeFilter(t *testing.T) {
	journal := seedJournal(t)

	var buf bytes.Buffer
	if err := handleLogs(&buf, io.Discard, journal, []string{"--type", "tool_call", "-n", "2"}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Recent Journal Entries (2)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if strings.Contains(out, "[startup]") || strings.Contains(out, "[error") {
		t.Errorf("filter let other types through:\n%s", out)
	}
	// Oldest first: the take_a_break call precedes check_status.
	if strings.Index(out, "tool_call:take_a_break") > strings.Index(out, "tool_call:check_status") {
		t.Errorf("entries out of order:\n%s", out)
	}

	if err := handleLogs(&buf, io.Discard, journal, []string{"--type", "gossip"}); err == nil {
		t.Error("expected an error for an unknown type")
	}
}

func TestHandleLogs_RejectsNegativeCounts(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative n", []string{"-n", "-1"}},
		{"negative truncate", []string{"--truncate", "-3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			journal := seedJournal(t)
			var buf bytes.Buffer
			err := handleLogs(&buf, io.Discard, journal, tt.args)
			if !errors.Is(err, errNegative) {
				t.Fatalf("expected errNegative, got %v", err)
			}
			entries, _ := journal.All()
			if len(entries) != 6 {
				t.Errorf("journal changed: %d entries", len(entries))
			}
		})
	}
}

func TestHandleLogs_ZeroCount(t *testing.T) {
	var buf bytes.Buffer
	if err := handleLogs(&buf, io.Discard, seedJournal(t), []string{"-n", "0"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Recent Journal Entries (0)") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
