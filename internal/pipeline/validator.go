// Package pipeline implements the event ingestion pipeline: validation,
// deduplication, categorization, and atomic batch persistence.
package pipeline

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"go.uber.org/zap"

	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
)

// Soft per-event rejections. These are counted as skipped, never surfaced
// as errors to the caller.
var (
	ErrEmptyQuery     = errors.New("empty query")
	ErrStaleEvent     = errors.New("stale event")
	ErrDuplicateEvent = errors.New("duplicate event")
)

// DefaultMaxEventAge is the staleness window. Events older than this were
// queued while the browser was idle or offline, and replaying them as live
// activity would corrupt recency-based analytics.
const DefaultMaxEventAge = 10 * time.Second

// Validator checks raw events for empty queries and staleness and resolves
// their timestamps to UTC instants.
type Validator struct {
	maxAge time.Duration
	log    *zap.Logger
}

// NewValidator creates a validator with the given staleness window.
func NewValidator(maxAge time.Duration, log *zap.Logger) *Validator {
	return &Validator{maxAge: maxAge, log: log}
}

// Validate checks a raw event against now. A missing or unparsable
// timestamp is substituted with now rather than rejected: extension clock
// skew is expected, and the leniency is a deliberate policy, not a bug.
func (v *Validator) Validate(ev domain.RawEvent, now time.Time) (domain.ValidatedEvent, error) {
	query := strings.TrimSpace(ev.Query)
	if query == "" {
		return domain.ValidatedEvent{}, ErrEmptyQuery
	}

	now = now.UTC()
	timestamp := v.resolveTimestamp(ev.Timestamp, now)

	if now.Sub(timestamp) > v.maxAge {
		v.log.Debug("Skipping stale event",
			zap.String("query", query),
			zap.Duration("age", now.Sub(timestamp)))
		return domain.ValidatedEvent{}, ErrStaleEvent
	}

	eventType := ev.Type
	if eventType == "" {
		eventType = domain.EventTypeSearch
	}
	engine := ev.Engine
	if engine == "" {
		engine = "unknown"
	}

	return domain.ValidatedEvent{
		Type:      eventType,
		Query:     query,
		URL:       ev.URL,
		Engine:    engine,
		Timestamp: timestamp,
		TabID:     ev.TabID,
		WindowID:  ev.WindowID,
	}, nil
}

// resolveTimestamp parses the timestamp permissively and normalizes it to
// UTC, stripping any offset after conversion so stored times stay
// comparable.
func (v *Validator) resolveTimestamp(raw string, now time.Time) time.Time {
	if raw == "" {
		return now
	}

	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		v.log.Debug("Unparsable timestamp, substituting current time",
			zap.String("timestamp", raw),
			zap.Error(err))
		return now
	}
	return parsed.UTC()
}
