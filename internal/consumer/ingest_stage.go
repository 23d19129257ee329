package consumer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
)

// IngestStageConfig configures the ingest stage
type IngestStageConfig struct {
	MaxBatchSize int
	FlushTimeout time.Duration
}

// IngestStage accumulates queued batches and drains them through the
// ingestion pipeline. Per-event skips (stale, empty, duplicate) are part
// of normal pipeline output and still count as successful processing; only
// a pipeline error leaves messages on the queue for redelivery.
type IngestStage struct {
	ingester Ingester
	config   IngestStageConfig
	log      *zap.Logger
}

// NewIngestStage creates a new ingest stage
func NewIngestStage(ingester Ingester, config IngestStageConfig, log *zap.Logger) *IngestStage {
	return &IngestStage{
		ingester: ingester,
		config:   config,
		log:      log,
	}
}

// Start begins processing envelopes, batching events, and running them
// through the pipeline
func (w *IngestStage) Start(ctx context.Context, in <-chan *Envelope) {
	ticker := time.NewTicker(w.config.FlushTimeout)
	defer ticker.Stop()

	var pending []*Envelope
	pendingEvents := 0

	flush := func() {
		if len(pending) == 0 {
			return
		}
		w.processBatch(ctx, pending)
		pending = nil
		pendingEvents = 0
		ticker.Reset(w.config.FlushTimeout)
	}

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Ingest stage shutting down")
			flush()
			return

		case envelope, ok := <-in:
			if !ok {
				w.log.Info("Ingest stage input channel closed")
				flush()
				return
			}

			pending = append(pending, envelope)
			pendingEvents += len(envelope.Events)

			if pendingEvents >= w.config.MaxBatchSize {
				w.log.Info("Batch size threshold reached", zap.Int("event_count", pendingEvents))
				flush()
			}

		case <-ticker.C:
			if len(pending) > 0 {
				w.log.Info("Batch timeout reached", zap.Int("event_count", pendingEvents))
				flush()
			}
		}
	}
}

// processBatch runs the combined events of all pending envelopes through
// the pipeline and acks or nacks them as a unit, matching the pipeline's
// all-or-nothing commit.
func (w *IngestStage) processBatch(ctx context.Context, envelopes []*Envelope) {
	var events []domain.RawEvent
	for _, env := range envelopes {
		events = append(events, env.Events...)
	}

	result, err := w.ingester.IngestBatch(ctx, events)
	if err != nil {
		w.log.Error("Failed to ingest batch",
			zap.Error(err),
			zap.Int("event_count", len(events)))
		w.nackAll(ctx, envelopes)
		return
	}

	w.log.Info("Successfully ingested batch",
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped))
	w.ackAll(ctx, envelopes)
}

// ackAll acknowledges all envelopes (deletes from SQS)
func (w *IngestStage) ackAll(ctx context.Context, envelopes []*Envelope) {
	for _, env := range envelopes {
		if err := env.Ack(ctx); err != nil {
			w.log.Error("Failed to ack envelope", zap.Error(err))
		}
	}
}

// nackAll negatively acknowledges all envelopes (leaves in SQS for retry)
func (w *IngestStage) nackAll(ctx context.Context, envelopes []*Envelope) {
	for _, env := range envelopes {
		if err := env.Nack(ctx); err != nil {
			w.log.Error("Failed to nack envelope", zap.Error(err))
		}
	}
}
