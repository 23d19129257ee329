// Package aggregate folds slices of stored records into report summaries.
// Everything here is a pure function of its input records and performs no
// I/O; aggregates are recomputable views, never authoritative.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/MarcelloBorromeo/SearchSift/internal/domain"
)

// Bucketing granularities for trend data.
const (
	BucketHour = "hour"
	BucketDay  = "day"
)

// QueryCount is one entry of a top-queries ranking.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// Summary holds aggregate totals for a date range.
type Summary struct {
	TotalSearches int            `json:"total_searches"`
	TotalClicks   int            `json:"total_clicks"`
	ByCategory    map[string]int `json:"by_category"`
	ByEngine      map[string]int `json:"by_engine"`
	TopQueries    []QueryCount   `json:"top_queries"`
}

// Summarize partitions records by event type and groups them by category
// and engine. Categories and engines absent from the input are absent from
// the maps. TopQueries ranks the 10 most frequent search queries.
func Summarize(records []*domain.SearchRecord) Summary {
	s := Summary{
		ByCategory: make(map[string]int),
		ByEngine:   make(map[string]int),
		TopQueries: []QueryCount{},
	}

	for _, r := range records {
		switch r.EventType {
		case domain.EventTypeSearch:
			s.TotalSearches++
		case domain.EventTypeClick:
			s.TotalClicks++
		}
		s.ByCategory[r.Category]++
		s.ByEngine[r.Engine]++
	}

	s.TopQueries = TopQueries(records, 10)
	return s
}

// TopQueries counts identical search query strings (exact, case-sensitive)
// and returns the n most frequent. Ties keep first-encountered order, which
// follows the input sequence ordering.
func TopQueries(records []*domain.SearchRecord, n int) []QueryCount {
	counts := make(map[string]int)
	var order []string

	for _, r := range records {
		if r.EventType != domain.EventTypeSearch {
			continue
		}
		if _, seen := counts[r.Query]; !seen {
			order = append(order, r.Query)
		}
		counts[r.Query]++
	}

	ranked := make([]QueryCount, len(order))
	for i, q := range order {
		ranked[i] = QueryCount{Query: q, Count: counts[q]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Trend is per-bucket per-category counts, shaped for chart rendering.
// Each Data entry carries a "time" key plus one count per category.
type Trend struct {
	Bucket     string           `json:"bucket"`
	Categories []string         `json:"categories"`
	Data       []map[string]any `json:"data"`
}

// CategoryTrend buckets records by hour or day. Hour bucketing always
// emits all 24 hour keys, zero-filled, for a consistent chart x-axis; day
// bucketing only emits days that have data.
func CategoryTrend(records []*domain.SearchRecord, bucket string) Trend {
	buckets := make(map[string]map[string]int)
	categorySet := make(map[string]bool)

	for _, r := range records {
		var key string
		if bucket == BucketHour {
			key = fmt.Sprintf("%02d:00", r.Timestamp.Hour())
		} else {
			key = r.Timestamp.Format("2006-01-02")
		}
		if buckets[key] == nil {
			buckets[key] = make(map[string]int)
		}
		buckets[key][r.Category]++
		categorySet[r.Category] = true
	}

	categories := make([]string, 0, len(categorySet))
	for c := range categorySet {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var keys []string
	if bucket == BucketHour {
		for h := 0; h < 24; h++ {
			keys = append(keys, fmt.Sprintf("%02d:00", h))
		}
	} else {
		for k := range buckets {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}

	data := make([]map[string]any, 0, len(keys))
	for _, key := range keys {
		entry := map[string]any{"time": key}
		for _, c := range categories {
			entry[c] = buckets[key][c]
		}
		data = append(data, entry)
	}

	return Trend{Bucket: bucket, Categories: categories, Data: data}
}

// AutoBucket picks the bucket granularity for a date range: hour when the
// range spans at most one day, day otherwise.
func AutoBucket(start, end time.Time) string {
	if int(end.Sub(start).Hours()/24) <= 1 {
		return BucketHour
	}
	return BucketDay
}
