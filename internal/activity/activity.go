package activity

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type identifies what kind of activity this is
type Type string

const (
	TypeStartup    Type = "startup"    // Server came up with its settings
	TypeToolCall   Type = "tool_call"  // A tool finished
	TypeTransition Type = "transition" // A gauge moved
	TypeError      Type = "error"      // Something went wrong
)

// Entry represents a single activity log entry
type Entry struct {
	Timestamp    time.Time      `json:"ts"`
	Type         Type           `json:"type"`
	Summary      string         `json:"summary"`
	Tool         string         `json:"tool,omitempty"`          // Tool name if applicable
	InvocationID string         `json:"invocation_id,omitempty"` // Set on tool calls and their errors
	Data         map[string]any `json:"data,omitempty"`          // Structured details
}

// Log is an append-only JSONL journal. A nil *Log discards writes and
// returns no entries, so callers never need to check whether it is enabled.
type Log struct {
	path string
	mu   sync.Mutex
}

// New creates an activity logger writing to path. An empty path disables it.
func New(path string) *Log {
	if path == "" {
		return nil
	}
	return &Log{path: path}
}

// Path returns the journal file location
func (l *Log) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// NewInvocationID returns a fresh id for tying entries to one tool call
func NewInvocationID() string {
	return uuid.NewString()
}

// Log appends an entry to the activity log
func (l *Log) Log(entry Entry) error {
	if l == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Set timestamp if not provided
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	_, err = f.Write(append(data, '\n'))
	return err
}

// Helper methods for common event types

// LogStartup records the settings the server started with
func (l *Log) LogStartup(summary string, settings map[string]any) error {
	return l.Log(Entry{
		Type:    TypeStartup,
		Summary: summary,
		Data:    settings,
	})
}

// LogToolCall records the outcome of one tool call
func (l *Log) LogToolCall(invocationID, tool, summary string, data map[string]any) error {
	return l.Log(Entry{
		Type:         TypeToolCall,
		Summary:      summary,
		Tool:         tool,
		InvocationID: invocationID,
		Data:         data,
	})
}

// LogTransition records one gauge change
func (l *Log) LogTransition(kind string, from, to, amount int, at time.Time) error {
	return l.Log(Entry{
		Timestamp: at,
		Type:      TypeTransition,
		Summary:   kind,
		Data: map[string]any{
			"from":   from,
			"to":     to,
			"amount": amount,
		},
	})
}

// LogError logs an error
func (l *Log) LogError(invocationID, tool, summary string, err error) error {
	data := map[string]any{}
	if err != nil {
		data["error"] = err.Error()
	}
	return l.Log(Entry{
		Type:         TypeError,
		Summary:      summary,
		Tool:         tool,
		InvocationID: invocationID,
		Data:         data,
	})
}

// Query methods

// Recent returns the last n entries. n <= 0 returns nothing.
func (l *Log) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	entries, err := l.readAll()
	if err != nil {
		return nil, err
	}

	if n >= len(entries) {
		return entries, nil
	}
	return entries[len(entries)-n:], nil
}

// ByType returns up to limit entries of a specific type, most recent first
func (l *Log) ByType(t Type, limit int) ([]Entry, error) {
	entries, err := l.readAll()
	if err != nil {
		return nil, err
	}

	var result []Entry
	for i := len(entries) - 1; i >= 0 && len(result) < limit; i-- {
		if entries[i].Type == t {
			result = append(result, entries[i])
		}
	}
	return result, nil
}

// All returns every readable entry in file order
func (l *Log) All() ([]Entry, error) {
	return l.readAll()
}

// Truncate keeps only the last keep entries. keep <= 0 empties the journal.
func (l *Log) Truncate(keep int) error {
	if l == nil {
		return nil
	}
	entries, err := l.Recent(keep)
	if err != nil {
		return err
	}

	var sb strings.Builder
	for _, e := range entries {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		sb.Write(data)
		sb.WriteByte('\n')
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return os.WriteFile(l.path, []byte(sb.String()), 0644)
}

// readAll reads all entries from the log file
func (l *Log) readAll() ([]Entry, error) {
	if l == nil {
		return nil, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	lines := strings.Split(string(data), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue // skip malformed entries
		}
		entries = append(entries, entry)
	}

	return entries, nil
}
