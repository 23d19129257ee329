package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
	"github.com/MarcelloBorromeo/SearchSift/internal/repository"
)

// DefaultDedupeWindow bounds how far back a stored record may be to count
// as a duplicate. It suppresses near-duplicate events from the same tab
// (a results page re-rendering) without suppressing legitimately repeated
// searches minutes apart.
const DefaultDedupeWindow = 5 * time.Second

// Deduplicator decides whether an event duplicates a recently recorded one.
// Two events are duplicates iff query and url are exactly equal, with no
// normalization, and the stored record's timestamp falls within the window
// before the candidate's. The storage scan itself is delegated to the
// repository.
type Deduplicator struct {
	repo   repository.SearchRecordRepository
	window time.Duration
	log    *zap.Logger
}

// NewDeduplicator creates a deduplicator with the given window.
func NewDeduplicator(repo repository.SearchRecordRepository, window time.Duration, log *zap.Logger) *Deduplicator {
	return &Deduplicator{repo: repo, window: window, log: log}
}

// IsDuplicate checks the candidate against records staged earlier in the
// same batch and against persisted records.
func (d *Deduplicator) IsDuplicate(ctx context.Context, ev domain.ValidatedEvent, pending []*domain.SearchRecord) (bool, error) {
	cutoff := ev.Timestamp.Add(-d.window)

	for _, rec := range pending {
		if rec.Query == ev.Query && rec.URL == ev.URL && !rec.Timestamp.Before(cutoff) {
			return true, nil
		}
	}

	existing, err := d.repo.FindRecent(ctx, ev.Query, ev.URL, cutoff)
	if err != nil {
		return false, fmt.Errorf("dedup lookup: %w", err)
	}
	if existing != nil {
		d.log.Debug("Skipping duplicate event",
			zap.String("query", ev.Query),
			zap.String("existing_id", existing.ID))
		return true, nil
	}
	return false, nil
}
