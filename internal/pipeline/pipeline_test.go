package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/MarcelloBorromeo/SearchSift/internal/categorizer"
	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
	"github.com/MarcelloBorromeo/SearchSift/internal/repository"
	"github.com/MarcelloBorromeo/SearchSift/internal/ruleset"
)

// MockRepository is a mock implementation of repository.SearchRecordRepository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) InsertBatch(ctx context.Context, records []*domain.SearchRecord) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) FindRecent(ctx context.Context, query, url string, after time.Time) (*domain.SearchRecord, error) {
	args := m.Called(ctx, query, url, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchRecord), args.Error(1)
}

func (m *MockRepository) QueryByRange(ctx context.Context, query repository.RecordQuery) ([]*domain.SearchRecord, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.SearchRecord), args.Error(1)
}

func (m *MockRepository) CountByRange(ctx context.Context, query repository.RecordQuery) (uint64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestPipeline(repo repository.SearchRecordRepository) *Pipeline {
	log := zap.NewNop()
	cat := categorizer.New(ruleset.Default(), nil, log)
	p := New(Config{}, cat, repo, log)
	p.nowFn = func() time.Time { return testNow }
	return p
}

func searchEvent(query string) domain.RawEvent {
	return domain.RawEvent{
		Type:      domain.EventTypeSearch,
		Query:     query,
		Engine:    "google",
		Timestamp: testNow.Format(time.RFC3339),
	}
}

func TestPipeline_IngestBatch_Success(t *testing.T) {
	mockRepo := new(MockRepository)
	p := newTestPipeline(mockRepo)

	mockRepo.On("FindRecent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	mockRepo.On("InsertBatch", mock.Anything, mock.AnythingOfType("[]*domain.SearchRecord")).Return(2, nil)

	result, err := p.IngestBatch(context.Background(), []domain.RawEvent{
		searchEvent("python tutorial"),
		searchEvent("buy cheap laptop"),
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 0, result.Skipped)
	mockRepo.AssertExpectations(t)
}

func TestPipeline_IngestBatch_RecordsAreCategorized(t *testing.T) {
	mockRepo := new(MockRepository)
	p := newTestPipeline(mockRepo)

	var inserted []*domain.SearchRecord
	mockRepo.On("FindRecent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	mockRepo.On("InsertBatch", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		inserted = args.Get(1).([]*domain.SearchRecord)
	}).Return(1, nil)

	_, err := p.IngestBatch(context.Background(), []domain.RawEvent{
		searchEvent("python tutorial"),
	})

	assert.NoError(t, err)
	assert.Len(t, inserted, 1)
	assert.NotEmpty(t, inserted[0].ID)
	assert.Equal(t, "Coding, Research", inserted[0].Category)
	assert.Greater(t, inserted[0].Confidence, 0.5)
	assert.Equal(t, []string{"Coding", "Research"}, inserted[0].Categories())
}

func TestPipeline_IngestBatch_SkipsEmptyQuery(t *testing.T) {
	mockRepo := new(MockRepository)
	p := newTestPipeline(mockRepo)

	mockRepo.On("FindRecent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	mockRepo.On("InsertBatch", mock.Anything, mock.Anything).Return(1, nil)

	result, err := p.IngestBatch(context.Background(), []domain.RawEvent{
		searchEvent("   "),
		searchEvent("golang"),
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
}

func TestPipeline_IngestBatch_SkipsStaleEvent(t *testing.T) {
	mockRepo := new(MockRepository)
	p := newTestPipeline(mockRepo)

	stale := searchEvent("old search")
	stale.Timestamp = testNow.Add(-time.Minute).Format(time.RFC3339)

	result, err := p.IngestBatch(context.Background(), []domain.RawEvent{stale})

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
	mockRepo.AssertNotCalled(t, "InsertBatch")
}

func TestPipeline_IngestBatch_SkipsDuplicateWithinBatch(t *testing.T) {
	mockRepo := new(MockRepository)
	p := newTestPipeline(mockRepo)

	mockRepo.On("FindRecent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil).Once()
	mockRepo.On("InsertBatch", mock.Anything, mock.Anything).Return(1, nil)

	result, err := p.IngestBatch(context.Background(), []domain.RawEvent{
		searchEvent("python tutorial"),
		searchEvent("python tutorial"),
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
	mockRepo.AssertExpectations(t)
}

func TestPipeline_IngestBatch_SkipsPersistedDuplicate(t *testing.T) {
	mockRepo := new(MockRepository)
	p := newTestPipeline(mockRepo)

	existing := &domain.SearchRecord{ID: "existing-id", Query: "python tutorial"}
	mockRepo.On("FindRecent", mock.Anything, "python tutorial", "", mock.Anything).Return(existing, nil)

	result, err := p.IngestBatch(context.Background(), []domain.RawEvent{
		searchEvent("python tutorial"),
	})

	assert.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 1, result.Skipped)
	mockRepo.AssertNotCalled(t, "InsertBatch")
}

func TestPipeline_IngestBatch_SameQueryDifferentURLNotDuplicate(t *testing.T) {
	mockRepo := new(MockRepository)
	p := newTestPipeline(mockRepo)

	first := searchEvent("python tutorial")
	first.URL = "https://www.google.com/search?q=python+tutorial"
	second := searchEvent("python tutorial")
	second.URL = "https://duckduckgo.com/?q=python+tutorial"

	mockRepo.On("FindRecent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	mockRepo.On("InsertBatch", mock.Anything, mock.Anything).Return(2, nil)

	result, err := p.IngestBatch(context.Background(), []domain.RawEvent{first, second})

	assert.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
	assert.Equal(t, 0, result.Skipped)
}

func TestPipeline_IngestBatch_InsertFailureAbortsBatch(t *testing.T) {
	mockRepo := new(MockRepository)
	p := newTestPipeline(mockRepo)

	mockRepo.On("FindRecent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	mockRepo.On("InsertBatch", mock.Anything, mock.Anything).Return(0, errors.New("connection refused"))

	result, err := p.IngestBatch(context.Background(), []domain.RawEvent{
		searchEvent("python tutorial"),
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert batch")
	assert.Equal(t, domain.IngestResult{}, result)
}

func TestPipeline_IngestBatch_DedupLookupFailureAbortsBatch(t *testing.T) {
	mockRepo := new(MockRepository)
	p := newTestPipeline(mockRepo)

	mockRepo.On("FindRecent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	result, err := p.IngestBatch(context.Background(), []domain.RawEvent{
		searchEvent("python tutorial"),
	})

	assert.Error(t, err)
	assert.Equal(t, domain.IngestResult{}, result)
	mockRepo.AssertNotCalled(t, "InsertBatch")
}

func TestPipeline_IngestBatch_EmptyBatch(t *testing.T) {
	mockRepo := new(MockRepository)
	p := newTestPipeline(mockRepo)

	result, err := p.IngestBatch(context.Background(), nil)

	assert.NoError(t, err)
	assert.Equal(t, domain.IngestResult{}, result)
	mockRepo.AssertNotCalled(t, "InsertBatch")
}

func TestDeduplicator_IsDuplicate_OutsideWindow(t *testing.T) {
	mockRepo := new(MockRepository)
	d := NewDeduplicator(mockRepo, 5*time.Second, zap.NewNop())

	ev := domain.ValidatedEvent{Query: "python tutorial", Timestamp: testNow}
	pending := []*domain.SearchRecord{
		{Query: "python tutorial", Timestamp: testNow.Add(-10 * time.Second)},
	}

	mockRepo.On("FindRecent", mock.Anything, "python tutorial", "", testNow.Add(-5*time.Second)).Return(nil, nil)

	dup, err := d.IsDuplicate(context.Background(), ev, pending)

	assert.NoError(t, err)
	assert.False(t, dup)
	mockRepo.AssertExpectations(t)
}

func TestDeduplicator_IsDuplicate_PendingWithinWindow(t *testing.T) {
	mockRepo := new(MockRepository)
	d := NewDeduplicator(mockRepo, 5*time.Second, zap.NewNop())

	ev := domain.ValidatedEvent{Query: "python tutorial", Timestamp: testNow}
	pending := []*domain.SearchRecord{
		{Query: "python tutorial", Timestamp: testNow.Add(-2 * time.Second)},
	}

	dup, err := d.IsDuplicate(context.Background(), ev, pending)

	assert.NoError(t, err)
	assert.True(t, dup)
	mockRepo.AssertNotCalled(t, "FindRecent")
}
