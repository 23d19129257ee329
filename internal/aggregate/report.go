package aggregate

import (
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
)

// DomainCount is one entry of a top-domains ranking.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// ReportTotals holds the headline numbers of a daily report.
type ReportTotals struct {
	TotalEvents   int `json:"total_events"`
	TotalSearches int `json:"total_searches"`
	TotalClicks   int `json:"total_clicks"`
	UniqueQueries int `json:"unique_queries"`
	UniqueDomains int `json:"unique_domains"`
}

// DailyReport is the full derived view over one calendar day of records.
// It is recomputable at any time from the underlying records.
type DailyReport struct {
	Date               string                 `json:"date"`
	GeneratedAt        string                 `json:"generated_at"`
	Summary            ReportTotals           `json:"summary"`
	ByCategory         map[string]int         `json:"by_category"`
	ByEngine           map[string]int         `json:"by_engine"`
	TopQueries         []QueryCount           `json:"top_queries"`
	TopDomains         []DomainCount          `json:"top_domains"`
	HourlyDistribution []int                  `json:"hourly_distribution"`
	CategoryConfidence map[string]float64     `json:"category_confidence"`
	Records            []*domain.SearchRecord `json:"records"`
}

// BuildDailyReport aggregates one day's records into the daily report
// shape. The full report ranks the top 20 queries and click domains.
func BuildDailyReport(date time.Time, records []*domain.SearchRecord, generatedAt time.Time) DailyReport {
	report := DailyReport{
		Date:               date.Format("2006-01-02"),
		GeneratedAt:        generatedAt.UTC().Format(time.RFC3339),
		ByCategory:         make(map[string]int),
		ByEngine:           make(map[string]int),
		TopQueries:         []QueryCount{},
		TopDomains:         []DomainCount{},
		HourlyDistribution: make([]int, 24),
		CategoryConfidence: make(map[string]float64),
		Records:            records,
	}

	uniqueQueries := make(map[string]bool)
	uniqueDomains := make(map[string]bool)
	confidenceSum := make(map[string]float64)
	confidenceCnt := make(map[string]int)
	domainCounts := make(map[string]int)
	var domainOrder []string

	for _, r := range records {
		report.Summary.TotalEvents++
		report.ByCategory[r.Category]++
		report.ByEngine[r.Engine]++
		report.HourlyDistribution[r.Timestamp.Hour()]++

		if r.Confidence > 0 {
			confidenceSum[r.Category] += r.Confidence
			confidenceCnt[r.Category]++
		}

		switch r.EventType {
		case domain.EventTypeSearch:
			report.Summary.TotalSearches++
			uniqueQueries[r.Query] = true
		case domain.EventTypeClick:
			report.Summary.TotalClicks++
			if r.URL != "" {
				d := Domain(r.URL)
				uniqueDomains[d] = true
				if _, seen := domainCounts[d]; !seen {
					domainOrder = append(domainOrder, d)
				}
				domainCounts[d]++
			}
		}
	}

	report.Summary.UniqueQueries = len(uniqueQueries)
	report.Summary.UniqueDomains = len(uniqueDomains)
	report.TopQueries = TopQueries(records, 20)

	domains := make([]DomainCount, len(domainOrder))
	for i, d := range domainOrder {
		domains[i] = DomainCount{Domain: d, Count: domainCounts[d]}
	}
	sort.SliceStable(domains, func(i, j int) bool {
		return domains[i].Count > domains[j].Count
	})
	if len(domains) > 20 {
		domains = domains[:20]
	}
	report.TopDomains = domains

	for cat, sum := range confidenceSum {
		avg := sum / float64(confidenceCnt[cat])
		report.CategoryConfidence[cat] = float64(int(avg*100+0.5)) / 100
	}

	return report
}

// Domain extracts the host from a URL, dropping any www. prefix.
func Domain(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}
