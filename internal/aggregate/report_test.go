package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
)

func TestBuildDailyReport_Totals(t *testing.T) {
	generatedAt := testDay.AddDate(0, 0, 1).Add(time.Hour)
	records := []*domain.SearchRecord{
		record(domain.EventTypeSearch, "python tutorial", "Coding", "google", testDay.Add(9*time.Hour)),
		record(domain.EventTypeSearch, "python tutorial", "Coding", "google", testDay.Add(10*time.Hour)),
		record(domain.EventTypeSearch, "golang channels", "Coding", "duckduckgo", testDay.Add(10*time.Hour)),
	}
	click := record(domain.EventTypeClick, "python tutorial", "Coding", "google", testDay.Add(11*time.Hour))
	click.URL = "https://www.realpython.com/lessons"
	records = append(records, click)

	report := BuildDailyReport(testDay, records, generatedAt)

	assert.Equal(t, "2025-06-01", report.Date)
	assert.Equal(t, "2025-06-02T01:00:00Z", report.GeneratedAt)
	assert.Equal(t, 4, report.Summary.TotalEvents)
	assert.Equal(t, 3, report.Summary.TotalSearches)
	assert.Equal(t, 1, report.Summary.TotalClicks)
	assert.Equal(t, 2, report.Summary.UniqueQueries)
	assert.Equal(t, 1, report.Summary.UniqueDomains)
}

func TestBuildDailyReport_HourlyDistribution(t *testing.T) {
	records := []*domain.SearchRecord{
		record(domain.EventTypeSearch, "a", "Other", "google", testDay.Add(9*time.Hour)),
		record(domain.EventTypeSearch, "b", "Other", "google", testDay.Add(9*time.Hour+30*time.Minute)),
		record(domain.EventTypeSearch, "c", "Other", "google", testDay.Add(23*time.Hour)),
	}

	report := BuildDailyReport(testDay, records, testDay)

	assert.Len(t, report.HourlyDistribution, 24)
	assert.Equal(t, 2, report.HourlyDistribution[9])
	assert.Equal(t, 1, report.HourlyDistribution[23])
	assert.Equal(t, 0, report.HourlyDistribution[0])
}

func TestBuildDailyReport_TopDomains(t *testing.T) {
	mk := func(url string) *domain.SearchRecord {
		r := record(domain.EventTypeClick, "q", "Other", "google", testDay)
		r.URL = url
		return r
	}
	records := []*domain.SearchRecord{
		mk("https://www.github.com/a"),
		mk("https://github.com/b"),
		mk("https://news.ycombinator.com/item"),
	}

	report := BuildDailyReport(testDay, records, testDay)

	assert.Equal(t, []DomainCount{
		{Domain: "github.com", Count: 2},
		{Domain: "news.ycombinator.com", Count: 1},
	}, report.TopDomains)
}

func TestBuildDailyReport_CategoryConfidence(t *testing.T) {
	first := record(domain.EventTypeSearch, "a", "Coding", "google", testDay)
	first.Confidence = 0.9
	second := record(domain.EventTypeSearch, "b", "Coding", "google", testDay)
	second.Confidence = 0.7

	report := BuildDailyReport(testDay, []*domain.SearchRecord{first, second}, testDay)

	assert.Equal(t, 0.8, report.CategoryConfidence["Coding"])
}

func TestBuildDailyReport_EmptyDay(t *testing.T) {
	report := BuildDailyReport(testDay, nil, testDay)

	assert.Equal(t, 0, report.Summary.TotalEvents)
	assert.Empty(t, report.TopQueries)
	assert.Empty(t, report.TopDomains)
	assert.Len(t, report.HourlyDistribution, 24)
	assert.Empty(t, report.Records)
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "example.com", Domain("https://www.example.com/path?x=1"))
	assert.Equal(t, "example.com", Domain("https://example.com"))
	assert.Equal(t, "unknown", Domain("not a url"))
	assert.Equal(t, "unknown", Domain(""))
}
