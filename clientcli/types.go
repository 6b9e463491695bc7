package clientcli

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GetResult is the decoded body of a single endpoint response.
type GetResult struct {
	Path string `json:"path"`
	// Key is the envelope key the server wrapped the items in.
	Key   string            `json:"key"`
	Items []json.RawMessage `json:"items"`
}

// WakeupResult is the server's liveness answer.
type WakeupResult struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Latency time.Duration `json:"latency_ns"`
}

// JournalOptions configures a journal listing.
type JournalOptions struct {
	Endpoint string
	Limit    int
	Cursor   string
	All      bool // auto-paginate through all results
}

// JournalResult contains paginated journal entries.
type JournalResult struct {
	Items      []JournalEntry `json:"items"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// JournalEntry describes one fetch the server made against the sheet.
type JournalEntry struct {
	ID         uuid.UUID `json:"id"`
	Endpoint   string    `json:"endpoint"`
	Range      string    `json:"range"`
	Rows       int       `json:"rows"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Failed reports whether the fetch did not complete.
func (e JournalEntry) Failed() bool {
	return e.Outcome != "ok"
}

type serverWakeup struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type serverError struct {
	Error string `json:"error"`
}
