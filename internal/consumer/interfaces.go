package consumer

import (
	"context"

	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
)

// MessageParser defines the interface for parsing raw message bytes into
// event batches
type MessageParser interface {
	Parse(body []byte) ([]domain.RawEvent, error)
}

// Ingester runs a raw event batch through the ingestion pipeline.
type Ingester interface {
	IngestBatch(ctx context.Context, events []domain.RawEvent) (domain.IngestResult, error)
}
