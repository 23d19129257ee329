package consumer

import (
	"encoding/json"
	"fmt"

	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
)

// JSONBatchParser implements MessageParser for JSON-formatted batch
// messages in the extension's `{"events": [...]}` shape. A single bare
// event object is also accepted.
type JSONBatchParser struct{}

// NewJSONBatchParser creates a new JSON batch parser
func NewJSONBatchParser() *JSONBatchParser {
	return &JSONBatchParser{}
}

// Parse parses a JSON message body into a batch of raw events
func (p *JSONBatchParser) Parse(body []byte) ([]domain.RawEvent, error) {
	var batch struct {
		Events []domain.RawEvent `json:"events"`
	}
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message body: %w", err)
	}

	if len(batch.Events) == 0 {
		// Single-event message format.
		var single domain.RawEvent
		if err := json.Unmarshal(body, &single); err != nil {
			return nil, fmt.Errorf("failed to unmarshal single event: %w", err)
		}
		if single.Query == "" {
			return nil, fmt.Errorf("message contains no events")
		}
		batch.Events = []domain.RawEvent{single}
	}

	return batch.Events, nil
}
