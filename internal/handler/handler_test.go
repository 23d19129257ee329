package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/MarcelloBorromeo/SearchSift/internal/aggregate"
	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
	"github.com/MarcelloBorromeo/SearchSift/internal/dto"
	"github.com/MarcelloBorromeo/SearchSift/internal/report"
)

const testAPIKey = "test-api-key"

func init() {
	gin.SetMode(gin.TestMode)
}

// MockSearchService is a mock implementation of service.SearchServicer
type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) IngestBatch(ctx context.Context, events []dto.EventPayload) (*dto.IngestResponse, error) {
	args := m.Called(ctx, events)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.IngestResponse), args.Error(1)
}

func (m *MockSearchService) EnqueueBatch(ctx context.Context, events []dto.EventPayload) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *MockSearchService) GetSummary(ctx context.Context, req *dto.SummaryRequest) (*dto.SummaryResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SummaryResponse), args.Error(1)
}

func (m *MockSearchService) GetRecords(ctx context.Context, req *dto.RecordsRequest) (*dto.RecordsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RecordsResponse), args.Error(1)
}

func (m *MockSearchService) GetCategoryTrend(ctx context.Context, req *dto.TrendRequest) (*dto.TrendResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TrendResponse), args.Error(1)
}

func (m *MockSearchService) GetDailyReport(ctx context.Context, date string) (*aggregate.DailyReport, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*aggregate.DailyReport), args.Error(1)
}

func (m *MockSearchService) RecordsInRange(ctx context.Context, start, end string) ([]*domain.SearchRecord, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SearchRecord), args.Error(1)
}

func newTestHandler(t *testing.T, mockService *MockSearchService) *Handler {
	renderer, err := report.NewRenderer()
	assert.NoError(t, err)

	return NewHandler(mockService, renderer, Config{
		APIKey:         testAPIKey,
		AllowedOrigins: []string{"chrome-extension://*", "moz-extension://*"},
		ReportsDir:     t.TempDir(),
	}, zap.NewNop())
}

func authedRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("X-API-Key", testAPIKey)
	return req
}

func TestHandler_HealthCheck(t *testing.T) {
	handler := newTestHandler(t, new(MockSearchService))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
}

func TestHandler_HealthCheck_NoAuthRequired(t *testing.T) {
	handler := newTestHandler(t, new(MockSearchService))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_Ingest_MissingAPIKey(t *testing.T) {
	handler := newTestHandler(t, new(MockSearchService))

	req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewReader([]byte(`{"events":[]}`)))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Ingest_InvalidAPIKey(t *testing.T) {
	handler := newTestHandler(t, new(MockSearchService))

	req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewReader([]byte(`{"events":[]}`)))
	req.Header.Set("X-API-Key", "wrong-key")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_Ingest_Success(t *testing.T) {
	mockService := new(MockSearchService)
	handler := newTestHandler(t, mockService)

	events := []dto.EventPayload{
		{Type: "search", Query: "python tutorial", Engine: "google"},
	}
	mockService.On("IngestBatch", mock.Anything, events).Return(&dto.IngestResponse{
		Status:   "ok",
		Inserted: 1,
		Skipped:  0,
	}, nil)

	body, _ := json.Marshal(dto.IngestRequest{Events: events})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, authedRequest(http.MethodPost, "/ingest", body))

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.IngestResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ok", response.Status)
	assert.Equal(t, 1, response.Inserted)
	mockService.AssertExpectations(t)
}

func TestHandler_Ingest_SingleBareEvent(t *testing.T) {
	mockService := new(MockSearchService)
	handler := newTestHandler(t, mockService)

	mockService.On("IngestBatch", mock.Anything, mock.MatchedBy(func(events []dto.EventPayload) bool {
		return len(events) == 1 && events[0].Query == "golang channels"
	})).Return(&dto.IngestResponse{Status: "ok", Inserted: 1}, nil)

	body := []byte(`{"type":"search","query":"golang channels","engine":"google"}`)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, authedRequest(http.MethodPost, "/ingest", body))

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestHandler_Ingest_InvalidJSON(t *testing.T) {
	mockService := new(MockSearchService)
	handler := newTestHandler(t, mockService)

	body := []byte(`{"events": [invalid}`)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, authedRequest(http.MethodPost, "/ingest", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "IngestBatch")
}

func TestHandler_Ingest_NoEvents(t *testing.T) {
	mockService := new(MockSearchService)
	handler := newTestHandler(t, mockService)

	body := []byte(`{"events": []}`)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, authedRequest(http.MethodPost, "/ingest", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "IngestBatch")
}

func TestHandler_Ingest_ServiceError(t *testing.T) {
	mockService := new(MockSearchService)
	handler := newTestHandler(t, mockService)

	mockService.On("IngestBatch", mock.Anything, mock.Anything).Return(nil, errors.New("storage unavailable"))

	body, _ := json.Marshal(dto.IngestRequest{Events: []dto.EventPayload{{Query: "q"}}})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, authedRequest(http.MethodPost, "/ingest", body))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandler_IngestAsync_Success(t *testing.T) {
	mockService := new(MockSearchService)
	handler := newTestHandler(t, mockService)

	mockService.On("EnqueueBatch", mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(dto.IngestRequest{Events: []dto.EventPayload{{Query: "q"}}})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, authedRequest(http.MethodPost, "/ingest/async", body))

	assert.Equal(t, http.StatusAccepted, w.Code)

	var response dto.EnqueueResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "queued", response.Status)
	assert.Equal(t, 1, response.Queued)
}

func TestHandler_GetSummary_Success(t *testing.T) {
	mockService := new(MockSearchService)
	handler := newTestHandler(t, mockService)

	mockService.On("GetSummary", mock.Anything, &dto.SummaryRequest{Start: "2025-06-01", End: "2025-06-07"}).
		Return(&dto.SummaryResponse{
			StartDate:     "2025-06-01",
			EndDate:       "2025-06-07",
			TotalSearches: 42,
		}, nil)

	w := httptest.NewRecorder()

	handler.ServeHTTP(w, authedRequest(http.MethodGet, "/api/summary?start=2025-06-01&end=2025-06-07", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.SummaryResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 42, response.TotalSearches)
	mockService.AssertExpectations(t)
}

func TestHandler_GetSummary_ServiceError(t *testing.T) {
	mockService := new(MockSearchService)
	handler := newTestHandler(t, mockService)

	mockService.On("GetSummary", mock.Anything, mock.Anything).Return(nil, errors.New("storage unavailable"))

	w := httptest.NewRecorder()

	handler.ServeHTTP(w, authedRequest(http.MethodGet, "/api/summary", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandler_GetRecords_Success(t *testing.T) {
	mockService := new(MockSearchService)
	handler := newTestHandler(t, mockService)

	mockService.On("GetRecords", mock.Anything, mock.MatchedBy(func(req *dto.RecordsRequest) bool {
		return req.Category == "Coding" && req.Limit == 50
	})).Return(&dto.RecordsResponse{Total: 1, Limit: 50, Records: []dto.RecordData{{ID: "id-1"}}}, nil)

	w := httptest.NewRecorder()

	handler.ServeHTTP(w, authedRequest(http.MethodGet, "/api/records?category=Coding&limit=50", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.RecordsResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response.Records, 1)
}

func TestHandler_GetCategoryTrend_Success(t *testing.T) {
	mockService := new(MockSearchService)
	handler := newTestHandler(t, mockService)

	mockService.On("GetCategoryTrend", mock.Anything, &dto.TrendRequest{Bucket: "day"}).
		Return(&dto.TrendResponse{Bucket: "day", Categories: []string{"Coding"}}, nil)

	w := httptest.NewRecorder()

	handler.ServeHTTP(w, authedRequest(http.MethodGet, "/api/category-trend?bucket=day", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_GetDailyReport_RendersHTML(t *testing.T) {
	mockService := new(MockSearchService)
	handler := newTestHandler(t, mockService)

	daily := aggregate.BuildDailyReport(
		time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		nil,
		time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC),
	)
	mockService.On("GetDailyReport", mock.Anything, "2025-06-01").Return(&daily, nil)

	w := httptest.NewRecorder()

	handler.ServeHTTP(w, authedRequest(http.MethodGet, "/report/daily?date=2025-06-01", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "2025-06-01")
}

func TestHandler_GetCSVExport_Success(t *testing.T) {
	mockService := new(MockSearchService)
	handler := newTestHandler(t, mockService)

	records := []*domain.SearchRecord{
		{
			ID:         "id-1",
			EventType:  "search",
			Query:      "python tutorial",
			Engine:     "google",
			Timestamp:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Category:   "Coding",
			Confidence: 0.95,
		},
	}
	mockService.On("RecordsInRange", mock.Anything, "2025-06-01", "2025-06-02").Return(records, nil)

	w := httptest.NewRecorder()

	handler.ServeHTTP(w, authedRequest(http.MethodGet, "/report/csv?date=2025-06-01&end=2025-06-02", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "id,event_type,query,url,engine,timestamp_utc,category,confidence")
	assert.Contains(t, w.Body.String(), "python tutorial")
}

func TestHandler_CORS_BlockedOrigin(t *testing.T) {
	handler := newTestHandler(t, new(MockSearchService))

	req := authedRequest(http.MethodPost, "/ingest", []byte(`{"events":[]}`))
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_CORS_AllowedExtensionOrigin(t *testing.T) {
	mockService := new(MockSearchService)
	handler := newTestHandler(t, mockService)

	mockService.On("IngestBatch", mock.Anything, mock.Anything).Return(&dto.IngestResponse{Status: "ok", Inserted: 1}, nil)

	body, _ := json.Marshal(dto.IngestRequest{Events: []dto.EventPayload{{Query: "q"}}})
	req := authedRequest(http.MethodPost, "/ingest", body)
	req.Header.Set("Origin", "chrome-extension://abcdefg")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "chrome-extension://abcdefg", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandler_CORS_PreflightRequest(t *testing.T) {
	handler := newTestHandler(t, new(MockSearchService))

	req := httptest.NewRequest(http.MethodOptions, "/ingest", nil)
	req.Header.Set("Origin", "chrome-extension://abcdefg")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-API-Key")
}
