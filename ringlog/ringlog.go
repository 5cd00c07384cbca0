// Package ringlog provides a bounded in-memory log of service interactions.
//
// The log is a fixed-capacity ring buffer. Appending to a full log evicts the
// oldest entry, so the log always holds the most recent interactions. All
// methods are safe for concurrent use.
//
// # Entries
//
// Each entry records one interaction: a timestamp, a direction (request,
// response, async, error, sync), the participant service, and a free-form
// message. Snapshot returns entries newest first for display; Export renders
// them oldest first, one per line.
package ringlog

import (
	"io"
	"strings"
	"sync"
	"time"
)

// Direction classifies an interaction log entry.
type Direction string

const (
	// DirectionRequest marks an outbound request to a service.
	DirectionRequest Direction = "request"
	// DirectionResponse marks a response received from a service.
	DirectionResponse Direction = "response"
	// DirectionAsync marks a background side effect.
	DirectionAsync Direction = "async"
	// DirectionError marks a failed interaction.
	DirectionError Direction = "error"
	// DirectionSync marks an internal state synchronization.
	DirectionSync Direction = "sync"
)

// Entry is a single interaction log record.
type Entry struct {
	// Timestamp is when the interaction happened.
	Timestamp time.Time `json:"timestamp"`
	// Direction classifies the interaction.
	Direction Direction `json:"direction"`
	// Participant is the logical service involved.
	Participant string `json:"participant"`
	// Message describes the interaction.
	Message string `json:"message"`
}

// Log is a bounded FIFO interaction log.
type Log struct {
	mu    sync.Mutex
	buf   []Entry
	head  int
	count int
}

// New creates a log with the configured capacity.
func New(cfg Config) *Log {
	cfg.ApplyDefaults()
	return &Log{buf: make([]Entry, cfg.Capacity)}
}

// Append adds an entry to the log, evicting the oldest entry if full.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf[l.head] = e
	l.head = (l.head + 1) % len(l.buf)
	if l.count < len(l.buf) {
		l.count++
	}
}

// Record appends an entry stamped with the current time.
func (l *Log) Record(dir Direction, participant, message string) {
	l.Append(Entry{
		Timestamp:   time.Now(),
		Direction:   dir,
		Participant: participant,
		Message:     message,
	})
}

// Snapshot returns a copy of all entries, newest first.
func (l *Log) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, l.count)
	for i := 0; i < l.count; i++ {
		out[i] = l.buf[(l.head-1-i+2*len(l.buf))%len(l.buf)]
	}
	return out
}

// oldestFirst returns a copy of all entries in insertion order.
func (l *Log) oldestFirst() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, l.count)
	start := (l.head - l.count + 2*len(l.buf)) % len(l.buf)
	for i := 0; i < l.count; i++ {
		out[i] = l.buf[(start+i)%len(l.buf)]
	}
	return out
}

// Export writes all entries to w in insertion order, one per line:
//
//	<timestamp> [<direction>] <participant>: <message>
//
// Entries are copied out before writing, so a slow writer never blocks
// concurrent appends.
func (l *Log) Export(w io.Writer) error {
	for _, e := range l.oldestFirst() {
		_, err := io.WriteString(w, formatEntry(e))
		if err != nil {
			return err
		}
	}
	return nil
}

func formatEntry(e Entry) string {
	var b strings.Builder
	b.WriteString(e.Timestamp.Format(time.RFC3339))
	b.WriteString(" [")
	b.WriteString(string(e.Direction))
	b.WriteString("] ")
	b.WriteString(e.Participant)
	b.WriteString(": ")
	b.WriteString(e.Message)
	b.WriteString("\n")
	return b.String()
}

// Clear removes all entries.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.head = 0
	l.count = 0
	for i := range l.buf {
		l.buf[i] = Entry{}
	}
}

// Len returns the number of entries currently held.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Cap returns the log's fixed capacity.
func (l *Log) Cap() int {
	return len(l.buf)
}
