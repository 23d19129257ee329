package clickhouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
	"github.com/MarcelloBorromeo/SearchSift/internal/repository"
)

// Repository implements SearchRecordRepository for ClickHouse
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema creates the search_records table. The ReplacingMergeTree key
// on (query, url, timestamp) is the storage-level uniqueness backstop for
// concurrent batches racing on the dedup check.
func (r *Repository) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS search_records (
		id String,
		event_type LowCardinality(String),
		query String,
		url String,
		engine LowCardinality(String),
		timestamp DateTime64(3, 'UTC'),
		category LowCardinality(String),
		confidence Float64,
		tab_id Nullable(Int64),
		window_id Nullable(Int64),
		created_at DateTime64(3) DEFAULT now64(3),
		version UInt64
	) ENGINE = ReplacingMergeTree(version)
	ORDER BY (query, url, timestamp)
	PARTITION BY toYYYYMM(timestamp)
	SETTINGS index_granularity = 8192
	`

	if err := r.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create search_records table: %w", err)
	}

	r.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// InsertBatch inserts a batch of records in a single prepared batch, which
// commits atomically on Send.
func (r *Repository) InsertBatch(ctx context.Context, records []*domain.SearchRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO search_records")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare batch: %w", err)
	}

	insertedCount := 0
	for _, record := range records {
		if record.Version == 0 {
			record.Version = uint64(time.Now().UnixNano())
		}
		if record.CreatedAt.IsZero() {
			record.CreatedAt = time.Now().UTC()
		}

		err := batch.Append(
			record.ID,
			record.EventType,
			record.Query,
			record.URL,
			record.Engine,
			record.Timestamp,
			record.Category,
			record.Confidence,
			record.TabID,
			record.WindowID,
			record.CreatedAt,
			record.Version,
		)

		if err != nil {
			return 0, fmt.Errorf("failed to append record to batch: %w", err)
		}
		insertedCount++
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send batch: %w", err)
	}

	return insertedCount, nil
}

const recordColumns = `id, event_type, query, url, engine, timestamp, category, confidence, tab_id, window_id, created_at, version`

// FindRecent returns the newest record with the exact query and url
// timestamped at or after the cutoff, or nil when none exists.
func (r *Repository) FindRecent(ctx context.Context, query, url string, after time.Time) (*domain.SearchRecord, error) {
	stmt := fmt.Sprintf(`
		SELECT %s
		FROM search_records FINAL
		WHERE query = ? AND url = ? AND timestamp >= ?
		ORDER BY timestamp DESC
		LIMIT 1
	`, recordColumns)

	row := r.client.Conn().QueryRow(ctx, stmt, query, url, after)

	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query recent record: %w", err)
	}
	return record, nil
}

// QueryByRange returns records in [Start, End] matching the filters,
// newest first.
func (r *Repository) QueryByRange(ctx context.Context, q repository.RecordQuery) ([]*domain.SearchRecord, error) {
	where, args := buildFilters(q)

	stmt := fmt.Sprintf(`
		SELECT %s
		FROM search_records FINAL
		%s
		ORDER BY timestamp DESC
	`, recordColumns, where)

	if q.Limit > 0 {
		stmt += fmt.Sprintf(" LIMIT %d OFFSET %d", q.Limit, q.Offset)
	}

	rows, err := r.client.Conn().Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func(rows driver.Rows) {
		if err := rows.Close(); err != nil {
			r.log.Error("Failed to close record rows", zap.Error(err))
		}
	}(rows)

	var records []*domain.SearchRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record rows: %w", err)
	}

	return records, nil
}

// CountByRange returns the total number of records matching the filters.
func (r *Repository) CountByRange(ctx context.Context, q repository.RecordQuery) (uint64, error) {
	where, args := buildFilters(q)

	stmt := fmt.Sprintf(`SELECT count() FROM search_records FINAL %s`, where)

	var total uint64
	row := r.client.Conn().QueryRow(ctx, stmt, args...)
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return total, nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}

func buildFilters(q repository.RecordQuery) (string, []interface{}) {
	where := "WHERE timestamp >= ? AND timestamp <= ?"
	args := []interface{}{q.Start, q.End}

	if q.Category != "" {
		where += " AND category = ?"
		args = append(args, q.Category)
	}
	if q.Engine != "" {
		where += " AND engine = ?"
		args = append(args, q.Engine)
	}
	if q.EventType != "" {
		where += " AND event_type = ?"
		args = append(args, q.EventType)
	}

	return where, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.SearchRecord, error) {
	var record domain.SearchRecord
	err := row.Scan(
		&record.ID,
		&record.EventType,
		&record.Query,
		&record.URL,
		&record.Engine,
		&record.Timestamp,
		&record.Category,
		&record.Confidence,
		&record.TabID,
		&record.WindowID,
		&record.CreatedAt,
		&record.Version,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
