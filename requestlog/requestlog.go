// Package requestlog implements the bounded, append-only rolling log
// described in SPEC_FULL.md §4.3. Append and Clear take an exclusive
// lock only long enough to mutate the ring; Snapshot takes a read lock
// and copies. Neither ever spans I/O.
package requestlog

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mockbridge/mockd"
	"github.com/mockbridge/mockd/metrics"
)

// Entry is one captured request/response pair plus metadata (§3).
type Entry struct {
	ID              string            `json:"id"`
	Timestamp       time.Time         `json:"timestamp"`
	Method          string            `json:"method"`
	Path            string            `json:"path"`
	Query           string            `json:"query,omitempty"`
	RequestHeaders  map[string]string `json:"request_headers"`
	RequestBody     json.RawMessage   `json:"request_body,omitempty"`
	Status          int               `json:"status"`
	ResponseHeaders map[string]string `json:"response_headers"`
	ResponseBody    json.RawMessage   `json:"response_body,omitempty"`
	MatchedEndpoint string            `json:"matched_endpoint,omitempty"`
	ProxiedTo       string            `json:"proxied_to,omitempty"`
	DurationMS      int64             `json:"duration_ms"`
}

// NewEntry stamps a fresh Entry with a generated ID and current UTC time,
// ready for the caller to fill in the rest of the fields.
func NewEntry() Entry {
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
	}
}

// Log is a fixed-capacity FIFO buffer of Entry, oldest first.
type Log struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

// New returns an empty Log bounded at capacity entries.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = mockd.MaxLogEntries
	}
	return &Log{capacity: capacity}
}

// Append enqueues entry, evicting the oldest entry first if at capacity.
func (l *Log) Append(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	if over := len(l.entries) - l.capacity; over > 0 {
		l.entries = l.entries[over:]
	}
	metrics.RequestLogSize.Set(float64(len(l.entries)))
}

// Snapshot returns a copy of the log's contents, oldest first.
func (l *Log) Snapshot() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear empties the log.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	metrics.RequestLogSize.Set(0)
}

// Len reports the current number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
