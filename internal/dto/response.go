package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"no events provided"`
}

// IngestResponse represents a successful synchronous ingest response
type IngestResponse struct {
	Status   string `json:"status" example:"ok"`
	Inserted int    `json:"inserted" example:"18"`
	Skipped  int    `json:"skipped" example:"2"`
}

// EnqueueResponse represents a successful async ingest response
type EnqueueResponse struct {
	Status string `json:"status" example:"queued"`
	Queued int    `json:"queued" example:"20"`
}

// QueryCountData is one top-queries ranking entry
type QueryCountData struct {
	Query string `json:"query" example:"python tutorial"`
	Count int    `json:"count" example:"7"`
}

// SummaryResponse represents aggregated statistics for a date range
type SummaryResponse struct {
	StartDate     string           `json:"start_date" example:"2024-06-01"`
	EndDate       string           `json:"end_date" example:"2024-06-07"`
	TotalSearches int              `json:"total_searches" example:"142"`
	TotalClicks   int              `json:"total_clicks" example:"89"`
	ByCategory    map[string]int   `json:"by_category"`
	ByEngine      map[string]int   `json:"by_engine"`
	TopQueries    []QueryCountData `json:"top_queries"`
}

// RecordData is the stable external shape of a persisted record
type RecordData struct {
	ID         string  `json:"id" example:"5f0c54a2-6a77-4bbf-8b3e-1a0d90c5a9f4"`
	EventType  string  `json:"event_type" example:"search"`
	Query      string  `json:"query" example:"python tutorial"`
	URL        string  `json:"url" example:"https://www.google.com/search?q=python+tutorial"`
	Engine     string  `json:"engine" example:"google"`
	Timestamp  string  `json:"timestamp" example:"2024-06-01T12:30:00Z"`
	Category   string  `json:"category" example:"Coding, Research"`
	Confidence float64 `json:"confidence" example:"0.84"`
	TabID      *int64  `json:"tab_id,omitempty" example:"123"`
	WindowID   *int64  `json:"window_id,omitempty" example:"456"`
}

// RecordsResponse represents a paginated records query response
type RecordsResponse struct {
	Total   uint64       `json:"total" example:"1042"`
	Limit   int          `json:"limit" example:"100"`
	Offset  int          `json:"offset" example:"0"`
	Records []RecordData `json:"records"`
}

// TrendResponse represents per-bucket per-category counts
type TrendResponse struct {
	Bucket     string           `json:"bucket" example:"day"`
	Categories []string         `json:"categories"`
	Data       []map[string]any `json:"data"`
}
