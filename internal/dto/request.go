package dto

// EventPayload represents one raw event in an ingest request
type EventPayload struct {
	Type      string `json:"type" example:"search"`
	Query     string `json:"query" example:"python tutorial"`
	URL       string `json:"url,omitempty" example:"https://www.google.com/search?q=python+tutorial"`
	Engine    string `json:"engine" example:"google"`
	Timestamp string `json:"timestamp,omitempty" example:"2024-06-01T12:30:00Z"`
	TabID     *int64 `json:"tabId,omitempty" example:"123"`
	WindowID  *int64 `json:"windowId,omitempty" example:"456"`
}

// IngestRequest represents an event batch from the browser extension
type IngestRequest struct {
	Events []EventPayload `json:"events"`
}

// SummaryRequest represents a summary query request
type SummaryRequest struct {
	Start string `form:"start" example:"2024-06-01"`
	End   string `form:"end" example:"2024-06-07"`
}

// RecordsRequest represents a filtered records query request
type RecordsRequest struct {
	Start    string `form:"start" example:"2024-06-01"`
	End      string `form:"end" example:"2024-06-07"`
	Category string `form:"category" example:"Coding"`
	Engine   string `form:"engine" example:"google"`
	Type     string `form:"type" example:"search"`
	Limit    int    `form:"limit" example:"100"`
	Offset   int    `form:"offset" example:"0"`
}

// TrendRequest represents a category trend query request
type TrendRequest struct {
	Start  string `form:"start" example:"2024-06-01"`
	End    string `form:"end" example:"2024-06-07"`
	Bucket string `form:"bucket" example:"day"`
}
