package domain

import (
	"strings"
	"time"
)

// Event types reported by the browser extension.
const (
	EventTypeSearch = "search"
	EventTypeClick  = "click"
)

// RawEvent is an untrusted event as delivered by the extension. It only
// lives for the duration of pipeline processing.
type RawEvent struct {
	Type      string `json:"type"`
	Query     string `json:"query"`
	URL       string `json:"url,omitempty"`
	Engine    string `json:"engine"`
	Timestamp string `json:"timestamp,omitempty"`
	TabID     *int64 `json:"tabId,omitempty"`
	WindowID  *int64 `json:"windowId,omitempty"`
}

// ValidatedEvent is a RawEvent that passed validation: the query is trimmed
// and non-empty and the timestamp is resolved to a UTC instant.
type ValidatedEvent struct {
	Type      string
	Query     string
	URL       string
	Engine    string
	Timestamp time.Time
	TabID     *int64
	WindowID  *int64
}

// SearchRecord represents an event stored in ClickHouse. Immutable once
// inserted; retention is an external policy.
type SearchRecord struct {
	ID         string    `json:"id" ch:"id"`
	EventType  string    `json:"event_type" ch:"event_type"`
	Query      string    `json:"query" ch:"query"`
	URL        string    `json:"url" ch:"url"`
	Engine     string    `json:"engine" ch:"engine"`
	Timestamp  time.Time `json:"timestamp" ch:"timestamp"`
	Category   string    `json:"category" ch:"category"`
	Confidence float64   `json:"confidence" ch:"confidence"`
	TabID      *int64    `json:"tab_id,omitempty" ch:"tab_id"`
	WindowID   *int64    `json:"window_id,omitempty" ch:"window_id"`
	CreatedAt  time.Time `json:"-" ch:"created_at"`
	Version    uint64    `json:"-" ch:"version"`
}

// Categories returns the ranked category list stored in the comma-joined
// Category column.
func (r *SearchRecord) Categories() []string {
	parts := strings.Split(r.Category, ", ")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// IngestResult reports per-batch accept/skip counts.
type IngestResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}
