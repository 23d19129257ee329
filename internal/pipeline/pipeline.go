package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MarcelloBorromeo/SearchSift/internal/categorizer"
	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
	"github.com/MarcelloBorromeo/SearchSift/internal/repository"
)

// Config holds the pipeline's rejection windows.
type Config struct {
	MaxEventAge  time.Duration
	DedupeWindow time.Duration
}

// Pipeline orchestrates validate -> dedupe -> categorize -> persist for
// batches of raw events.
type Pipeline struct {
	validator   *Validator
	dedupe      *Deduplicator
	categorizer *categorizer.Categorizer
	repo        repository.SearchRecordRepository
	log         *zap.Logger
	nowFn       func() time.Time
}

// New creates an ingestion pipeline. Zero config durations fall back to the
// defaults.
func New(cfg Config, cat *categorizer.Categorizer, repo repository.SearchRecordRepository, log *zap.Logger) *Pipeline {
	if cfg.MaxEventAge <= 0 {
		cfg.MaxEventAge = DefaultMaxEventAge
	}
	if cfg.DedupeWindow <= 0 {
		cfg.DedupeWindow = DefaultDedupeWindow
	}

	return &Pipeline{
		validator:   NewValidator(cfg.MaxEventAge, log),
		dedupe:      NewDeduplicator(repo, cfg.DedupeWindow, log),
		categorizer: cat,
		repo:        repo,
		log:         log,
		nowFn:       time.Now,
	}
}

// IngestBatch processes a batch best-effort: one event's rejection never
// aborts the batch, and accepted records commit in a single atomic insert.
// A persistence failure aborts the whole batch and returns no partial
// counts.
func (p *Pipeline) IngestBatch(ctx context.Context, events []domain.RawEvent) (domain.IngestResult, error) {
	now := p.nowFn().UTC()

	var accepted []*domain.SearchRecord
	skipped := 0

	for _, raw := range events {
		validated, err := p.validator.Validate(raw, now)
		if err != nil {
			if errors.Is(err, ErrEmptyQuery) || errors.Is(err, ErrStaleEvent) {
				skipped++
				continue
			}
			return domain.IngestResult{}, err
		}

		dup, err := p.dedupe.IsDuplicate(ctx, validated, accepted)
		if err != nil {
			return domain.IngestResult{}, err
		}
		if dup {
			skipped++
			continue
		}

		result := p.categorizer.Categorize(validated.Query, validated.URL)

		accepted = append(accepted, &domain.SearchRecord{
			ID:         uuid.NewString(),
			EventType:  validated.Type,
			Query:      validated.Query,
			URL:        validated.URL,
			Engine:     validated.Engine,
			Timestamp:  validated.Timestamp,
			Category:   result.Joined(),
			Confidence: result.Confidence,
			TabID:      validated.TabID,
			WindowID:   validated.WindowID,
			CreatedAt:  now,
			Version:    uint64(now.UnixNano()),
		})
	}

	if len(accepted) > 0 {
		if _, err := p.repo.InsertBatch(ctx, accepted); err != nil {
			return domain.IngestResult{}, fmt.Errorf("failed to insert batch: %w", err)
		}
	}

	p.log.Info("Batch ingested",
		zap.Int("inserted", len(accepted)),
		zap.Int("skipped", skipped))

	return domain.IngestResult{Inserted: len(accepted), Skipped: skipped}, nil
}
