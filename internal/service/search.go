package service

import (
	"context"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"go.uber.org/zap"

	"github.com/MarcelloBorromeo/SearchSift/internal/aggregate"
	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
	"github.com/MarcelloBorromeo/SearchSift/internal/dto"
	"github.com/MarcelloBorromeo/SearchSift/internal/pipeline"
	"github.com/MarcelloBorromeo/SearchSift/internal/queue"
	"github.com/MarcelloBorromeo/SearchSift/internal/repository"
)

const (
	defaultRecordLimit = 100
	maxRecordLimit     = 1000
)

// SearchService orchestrates the ingestion pipeline, the repository, and
// the aggregation functions behind the HTTP layer.
type SearchService struct {
	pipeline   *pipeline.Pipeline
	publisher  queue.QueuePublisher
	repository repository.SearchRecordRepository
	log        *zap.Logger
	nowFn      func() time.Time
}

// NewSearchService creates a new search event service
func NewSearchService(p *pipeline.Pipeline, publisher queue.QueuePublisher, repo repository.SearchRecordRepository, log *zap.Logger) *SearchService {
	return &SearchService{
		pipeline:   p,
		publisher:  publisher,
		repository: repo,
		log:        log,
		nowFn:      time.Now,
	}
}

// IngestBatch runs a raw batch through the pipeline synchronously.
func (s *SearchService) IngestBatch(ctx context.Context, events []dto.EventPayload) (*dto.IngestResponse, error) {
	result, err := s.pipeline.IngestBatch(ctx, toRawEvents(events))
	if err != nil {
		return nil, fmt.Errorf("failed to ingest batch: %w", err)
	}

	return &dto.IngestResponse{
		Status:   "ok",
		Inserted: result.Inserted,
		Skipped:  result.Skipped,
	}, nil
}

// EnqueueBatch publishes a raw batch to the async ingestion queue.
func (s *SearchService) EnqueueBatch(ctx context.Context, events []dto.EventPayload) error {
	if err := s.publisher.PublishBatch(ctx, toRawEvents(events)); err != nil {
		return fmt.Errorf("failed to enqueue batch: %w", err)
	}
	return nil
}

// GetSummary aggregates stored records over a date range.
func (s *SearchService) GetSummary(ctx context.Context, req *dto.SummaryRequest) (*dto.SummaryResponse, error) {
	startDay, endDay, err := s.parseRange(req.Start, req.End)
	if err != nil {
		return nil, err
	}

	records, err := s.repository.QueryByRange(ctx, repository.RecordQuery{
		Start: startDay,
		End:   endOfDay(endDay),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}

	summary := aggregate.Summarize(records)

	topQueries := make([]dto.QueryCountData, len(summary.TopQueries))
	for i, q := range summary.TopQueries {
		topQueries[i] = dto.QueryCountData{Query: q.Query, Count: q.Count}
	}

	return &dto.SummaryResponse{
		StartDate:     startDay.Format("2006-01-02"),
		EndDate:       endDay.Format("2006-01-02"),
		TotalSearches: summary.TotalSearches,
		TotalClicks:   summary.TotalClicks,
		ByCategory:    summary.ByCategory,
		ByEngine:      summary.ByEngine,
		TopQueries:    topQueries,
	}, nil
}

// GetRecords returns filtered, paginated records with a total count.
func (s *SearchService) GetRecords(ctx context.Context, req *dto.RecordsRequest) (*dto.RecordsResponse, error) {
	startDay, endDay, err := s.parseRange(req.Start, req.End)
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultRecordLimit
	}
	if limit > maxRecordLimit {
		limit = maxRecordLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	query := repository.RecordQuery{
		Start:     startDay,
		End:       endOfDay(endDay),
		Category:  req.Category,
		Engine:    req.Engine,
		EventType: req.Type,
		Limit:     limit,
		Offset:    offset,
	}

	total, err := s.repository.CountByRange(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	records, err := s.repository.QueryByRange(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}

	data := make([]dto.RecordData, len(records))
	for i, r := range records {
		data[i] = toRecordData(r)
	}

	return &dto.RecordsResponse{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		Records: data,
	}, nil
}

// GetCategoryTrend buckets records by hour or day. When no bucket is
// requested, ranges spanning at most one day bucket by hour.
func (s *SearchService) GetCategoryTrend(ctx context.Context, req *dto.TrendRequest) (*dto.TrendResponse, error) {
	startDay, endDay, err := s.parseRange(req.Start, req.End)
	if err != nil {
		return nil, err
	}

	bucket := req.Bucket
	switch bucket {
	case "":
		bucket = aggregate.AutoBucket(startDay, endDay)
	case aggregate.BucketHour, aggregate.BucketDay:
	default:
		return nil, fmt.Errorf("invalid bucket value: %s (supported: hour, day)", bucket)
	}

	records, err := s.repository.QueryByRange(ctx, repository.RecordQuery{
		Start: startDay,
		End:   endOfDay(endDay),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}

	trend := aggregate.CategoryTrend(records, bucket)

	return &dto.TrendResponse{
		Bucket:     trend.Bucket,
		Categories: trend.Categories,
		Data:       trend.Data,
	}, nil
}

// GetDailyReport builds the full report view for one day. An empty date
// defaults to yesterday.
func (s *SearchService) GetDailyReport(ctx context.Context, date string) (*aggregate.DailyReport, error) {
	now := s.nowFn().UTC()

	day := now.AddDate(0, 0, -1)
	if date != "" {
		parsed, err := dateparse.ParseAny(date)
		if err != nil {
			return nil, fmt.Errorf("invalid date format: %w", err)
		}
		day = parsed.UTC()
	}
	day = truncateToDay(day)

	records, err := s.repository.QueryByRange(ctx, repository.RecordQuery{
		Start: day,
		End:   endOfDay(day),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}

	report := aggregate.BuildDailyReport(day, records, now)
	return &report, nil
}

// RecordsInRange returns all records for a date range, newest first.
func (s *SearchService) RecordsInRange(ctx context.Context, start, end string) ([]*domain.SearchRecord, error) {
	startDay, endDay, err := s.parseRange(start, end)
	if err != nil {
		return nil, err
	}

	records, err := s.repository.QueryByRange(ctx, repository.RecordQuery{
		Start: startDay,
		End:   endOfDay(endDay),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	return records, nil
}

// parseRange resolves a start/end date pair. Missing start defaults to
// today; missing end defaults to the start day.
func (s *SearchService) parseRange(start, end string) (time.Time, time.Time, error) {
	startDay := truncateToDay(s.nowFn().UTC())
	if start != "" {
		parsed, err := dateparse.ParseAny(start)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
		}
		startDay = truncateToDay(parsed.UTC())
	}

	endDay := startDay
	if end != "" {
		parsed, err := dateparse.ParseAny(end)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
		}
		endDay = truncateToDay(parsed.UTC())
	}

	if endDay.Before(startDay) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date must not be before start date")
	}

	return startDay, endDay, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(day time.Time) time.Time {
	return day.Add(24*time.Hour - time.Nanosecond)
}

func toRawEvents(events []dto.EventPayload) []domain.RawEvent {
	raw := make([]domain.RawEvent, len(events))
	for i, e := range events {
		raw[i] = domain.RawEvent{
			Type:      e.Type,
			Query:     e.Query,
			URL:       e.URL,
			Engine:    e.Engine,
			Timestamp: e.Timestamp,
			TabID:     e.TabID,
			WindowID:  e.WindowID,
		}
	}
	return raw
}

func toRecordData(r *domain.SearchRecord) dto.RecordData {
	return dto.RecordData{
		ID:         r.ID,
		EventType:  r.EventType,
		Query:      r.Query,
		URL:        r.URL,
		Engine:     r.Engine,
		Timestamp:  r.Timestamp.UTC().Format(time.RFC3339),
		Category:   r.Category,
		Confidence: r.Confidence,
		TabID:      r.TabID,
		WindowID:   r.WindowID,
	}
}
