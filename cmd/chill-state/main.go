// chill-state inspects the ChillMCP activity journal offline.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"

	"github.com/vthunder/chillmcp/internal/activity"
	"github.com/vthunder/chillmcp/internal/logging"
)

func main() {
	path := os.Getenv("CHILL_ACTIVITY_LOG")
	if path == "" {
		path = "activity.jsonl"
	}

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	journal := activity.New(path)
	cmd := os.Args[1]

	switch cmd {
	case "summary":
		handleSummary(os.Stdout, journal)
	case "logs":
		if err := handleLogs(os.Stdout, os.Stderr, journal, os.Args[2:]); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`chill-state - Inspect the ChillMCP activity journal

Usage: chill-state <command> [options]

Commands:
  summary              Tool call counts and the last reported gauges
  logs                 Show recent entries
  logs -n 50           Show the last 50 entries
  logs --type error    Show only entries of one type
  logs --truncate 100  Keep only the last 100 entries

Environment:
  CHILL_ACTIVITY_LOG   Journal path (default: activity.jsonl)`)
}

// Summary aggregates a journal into per-tool counts
type Summary struct {
	Calls       map[string]int
	Delayed     int
	Errors      int
	Transitions map[string]int
	LastStress  int
	LastAlert   int
	HasLast     bool
}

func summarize(entries []activity.Entry) Summary {
	s := Summary{
		Calls:       make(map[string]int),
		Transitions: make(map[string]int),
	}
	for _, e := range entries {
		switch e.Type {
		case activity.TypeToolCall:
			s.Calls[e.Tool]++
			if delayed, _ := e.Data["delayed"].(bool); delayed {
				s.Delayed++
			}
			stress, okS := e.Data["stress"].(float64)
			alert, okA := e.Data["boss_alert"].(float64)
			if okS && okA {
				s.LastStress, s.LastAlert, s.HasLast = int(stress), int(alert), true
			}
		case activity.TypeTransition:
			s.Transitions[e.Summary]++
		case activity.TypeError:
			s.Errors++
		}
	}
	return s
}

func handleSummary(w io.Writer, journal *activity.Log) {
	entries, err := journal.All()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	s := summarize(entries)

	fmt.Fprintf(w, "Journal: %s (%d entries)\n", journal.Path(), len(entries))
	fmt.Fprintln(w, "======================")
	if s.HasLast {
		fmt.Fprintf(w, "Last reported: Stress Level %d, Boss Alert Level %d\n", s.LastStress, s.LastAlert)
	}
	fmt.Fprintf(w, "Delayed calls: %d\n", s.Delayed)
	fmt.Fprintf(w, "Errors: %d\n", s.Errors)

	fmt.Fprintln(w, "\nTool calls:")
	for _, name := range sortedKeys(s.Calls) {
		fmt.Fprintf(w, "  %-18s %d\n", name, s.Calls[name])
	}
	fmt.Fprintln(w, "\nGauge transitions:")
	for _, kind := range sortedKeys(s.Transitions) {
		fmt.Fprintf(w, "  %-18s %d\n", kind, s.Transitions[kind])
	}
}

var errNegative = errors.New("must not be negative")

func handleLogs(w, errOut io.Writer, journal *activity.Log, args []string) error {
	fs := flag.NewFlagSet("logs", flag.ContinueOnError)
	fs.SetOutput(errOut)
	truncate := fs.Int("truncate", 0, "Keep only last N entries")
	count := fs.Int("n", 20, "Number of entries to show")
	typ := fs.String("type", "", "Only show entries of this type (startup, tool_call, transition, error)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *count < 0 {
		return fmt.Errorf("-n %d: %w", *count, errNegative)
	}
	if *truncate < 0 {
		return fmt.Errorf("--truncate %d: %w", *truncate, errNegative)
	}

	if *truncate > 0 {
		if err := journal.Truncate(*truncate); err != nil {
			return err
		}
		fmt.Fprintf(w, "Truncated journal to last %d entries\n", *truncate)
		return nil
	}

	var entries []activity.Entry
	var err error
	switch activity.Type(*typ) {
	case "":
		entries, err = journal.Recent(*count)
	case activity.TypeStartup, activity.TypeToolCall, activity.TypeTransition, activity.TypeError:
		// ByType is newest first; print oldest first like the unfiltered view.
		entries, err = journal.ByType(activity.Type(*typ), *count)
		slices.Reverse(entries)
	default:
		return fmt.Errorf("unknown entry type %q", *typ)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Recent Journal Entries (%d)\n", len(entries))
	fmt.Fprintln(w, "======================")
	for _, e := range entries {
		label := string(e.Type)
		if e.Tool != "" {
			label += ":" + e.Tool
		}
		fmt.Fprintf(w, "[%s] %s: %s\n", label, e.Timestamp.Format("15:04:05"), logging.Truncate(e.Summary, 80))
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
