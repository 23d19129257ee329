package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestValidator_Validate_Success(t *testing.T) {
	v := NewValidator(DefaultMaxEventAge, zap.NewNop())

	ev := domain.RawEvent{
		Type:      domain.EventTypeSearch,
		Query:     "python tutorial",
		URL:       "https://www.google.com/search?q=python+tutorial",
		Engine:    "google",
		Timestamp: testNow.Format(time.RFC3339),
	}

	validated, err := v.Validate(ev, testNow)

	assert.NoError(t, err)
	assert.Equal(t, "python tutorial", validated.Query)
	assert.Equal(t, "google", validated.Engine)
	assert.Equal(t, testNow, validated.Timestamp)
}

func TestValidator_Validate_EmptyQuery(t *testing.T) {
	v := NewValidator(DefaultMaxEventAge, zap.NewNop())

	_, err := v.Validate(domain.RawEvent{Query: ""}, testNow)

	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestValidator_Validate_WhitespaceOnlyQuery(t *testing.T) {
	v := NewValidator(DefaultMaxEventAge, zap.NewNop())

	_, err := v.Validate(domain.RawEvent{Query: "   \t  "}, testNow)

	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestValidator_Validate_TrimsQuery(t *testing.T) {
	v := NewValidator(DefaultMaxEventAge, zap.NewNop())

	validated, err := v.Validate(domain.RawEvent{Query: "  golang  "}, testNow)

	assert.NoError(t, err)
	assert.Equal(t, "golang", validated.Query)
}

func TestValidator_Validate_StaleEvent(t *testing.T) {
	v := NewValidator(10*time.Second, zap.NewNop())

	ev := domain.RawEvent{
		Query:     "old search",
		Timestamp: testNow.Add(-30 * time.Second).Format(time.RFC3339),
	}

	_, err := v.Validate(ev, testNow)

	assert.ErrorIs(t, err, ErrStaleEvent)
}

func TestValidator_Validate_EventAtWindowEdge(t *testing.T) {
	v := NewValidator(10*time.Second, zap.NewNop())

	ev := domain.RawEvent{
		Query:     "just in time",
		Timestamp: testNow.Add(-10 * time.Second).Format(time.RFC3339),
	}

	validated, err := v.Validate(ev, testNow)

	assert.NoError(t, err)
	assert.Equal(t, "just in time", validated.Query)
}

func TestValidator_Validate_MissingTimestampDefaultsToNow(t *testing.T) {
	v := NewValidator(DefaultMaxEventAge, zap.NewNop())

	validated, err := v.Validate(domain.RawEvent{Query: "golang"}, testNow)

	assert.NoError(t, err)
	assert.Equal(t, testNow, validated.Timestamp)
}

func TestValidator_Validate_UnparsableTimestampDefaultsToNow(t *testing.T) {
	v := NewValidator(DefaultMaxEventAge, zap.NewNop())

	ev := domain.RawEvent{Query: "golang", Timestamp: "not-a-timestamp"}

	validated, err := v.Validate(ev, testNow)

	assert.NoError(t, err)
	assert.Equal(t, testNow, validated.Timestamp)
}

func TestValidator_Validate_DefaultsTypeAndEngine(t *testing.T) {
	v := NewValidator(DefaultMaxEventAge, zap.NewNop())

	validated, err := v.Validate(domain.RawEvent{Query: "golang"}, testNow)

	assert.NoError(t, err)
	assert.Equal(t, domain.EventTypeSearch, validated.Type)
	assert.Equal(t, "unknown", validated.Engine)
}

func TestValidator_Validate_NormalizesOffsetToUTC(t *testing.T) {
	v := NewValidator(DefaultMaxEventAge, zap.NewNop())

	ev := domain.RawEvent{
		Query:     "golang",
		Timestamp: testNow.In(time.FixedZone("CEST", 2*3600)).Format(time.RFC3339),
	}

	validated, err := v.Validate(ev, testNow)

	assert.NoError(t, err)
	assert.Equal(t, time.UTC, validated.Timestamp.Location())
	assert.True(t, validated.Timestamp.Equal(testNow))
}
