package consumer

import (
	"context"

	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
)

// Envelope wraps a queued event batch with acknowledgment callbacks
type Envelope struct {
	Events []domain.RawEvent
	ack    func(context.Context) error
	nack   func(context.Context) error
}

// NewEnvelope creates a new message envelope
func NewEnvelope(events []domain.RawEvent, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		Events: events,
		ack:    ack,
		nack:   nack,
	}
}

// Ack acknowledges successful processing
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack negatively acknowledges processing
func (e *Envelope) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}
