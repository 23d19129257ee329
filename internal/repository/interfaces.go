package repository

import (
	"context"
	"time"

	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
)

// RecordQuery filters a time-range scan over stored records.
type RecordQuery struct {
	Start     time.Time
	End       time.Time
	Category  string
	Engine    string
	EventType string
	Limit     int
	Offset    int
}

// SearchRecordRepository defines the semantic storage operations the core
// issues; it never runs raw storage queries beyond these.
type SearchRecordRepository interface {
	// InsertBatch atomically inserts a batch of records. All rows commit
	// together or none do.
	InsertBatch(ctx context.Context, records []*domain.SearchRecord) (int, error)

	// FindRecent returns a stored record with the exact query and url
	// timestamped at or after the cutoff, or nil when none exists.
	FindRecent(ctx context.Context, query, url string, after time.Time) (*domain.SearchRecord, error)

	// QueryByRange returns records in [Start, End] matching the filters,
	// ordered by timestamp descending.
	QueryByRange(ctx context.Context, query RecordQuery) ([]*domain.SearchRecord, error)

	// CountByRange returns the total number of records matching the query,
	// ignoring Limit and Offset.
	CountByRange(ctx context.Context, query RecordQuery) (uint64, error)

	// InitSchema initializes the database schema (creates tables if they don't exist)
	InitSchema(ctx context.Context) error

	// Ping checks if the database connection is alive
	Ping(ctx context.Context) error

	// Close closes the repository and releases resources
	Close() error
}
