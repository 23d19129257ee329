package service

import (
	"context"

	"github.com/MarcelloBorromeo/SearchSift/internal/aggregate"
	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
	"github.com/MarcelloBorromeo/SearchSift/internal/dto"
)

// SearchServicer defines the interface for search event service operations
type SearchServicer interface {
	IngestBatch(ctx context.Context, events []dto.EventPayload) (*dto.IngestResponse, error)
	EnqueueBatch(ctx context.Context, events []dto.EventPayload) error
	GetSummary(ctx context.Context, req *dto.SummaryRequest) (*dto.SummaryResponse, error)
	GetRecords(ctx context.Context, req *dto.RecordsRequest) (*dto.RecordsResponse, error)
	GetCategoryTrend(ctx context.Context, req *dto.TrendRequest) (*dto.TrendResponse, error)
	GetDailyReport(ctx context.Context, date string) (*aggregate.DailyReport, error)
	RecordsInRange(ctx context.Context, start, end string) ([]*domain.SearchRecord, error)
}
