// Package categorizer assigns topical categories to search queries using
// whole-word keyword matching against a ruleset, with an optional fallback
// classifier for queries no rule matches.
package categorizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/MarcelloBorromeo/SearchSift/internal/ruleset"
)

// Result is a ranked categorization outcome. Categories holds 1 to 3 names
// ordered by score, highest first. Confidence is in [0, 1].
type Result struct {
	Categories []string `json:"categories"`
	Confidence float64  `json:"confidence"`
}

// Primary returns the top-ranked category.
func (r Result) Primary() string {
	return r.Categories[0]
}

// Joined returns the comma-joined ranked category list, the form stored in
// the category column.
func (r Result) Joined() string {
	return strings.Join(r.Categories, ", ")
}

// Categorizer scores free text against a ruleset. Pure with respect to its
// inputs and the current ruleset state.
type Categorizer struct {
	rules    *ruleset.Ruleset
	fallback Classifier
	log      *zap.Logger

	mu       sync.RWMutex
	patterns map[string]*regexp.Regexp
}

// New creates a Categorizer. fallback may be nil for rule-based-only
// operation.
func New(rules *ruleset.Ruleset, fallback Classifier, log *zap.Logger) *Categorizer {
	return &Categorizer{
		rules:    rules,
		fallback: fallback,
		log:      log,
		patterns: make(map[string]*regexp.Regexp),
	}
}

type categoryScore struct {
	name  string
	score int
}

// Categorize scores a query, with the URL (if any) concatenated into the
// match text so domain names can act as keywords.
func (c *Categorizer) Categorize(query, url string) Result {
	trimmed := strings.TrimSpace(strings.ToLower(query))
	if trimmed == "" {
		return c.fallbackResult(trimmed)
	}

	text := trimmed
	if url != "" {
		text = trimmed + " " + strings.ToLower(url)
	}

	var scores []categoryScore
	total := 0
	c.rules.Each(func(name string, keywords []string) {
		score := 0
		for _, kw := range keywords {
			score += c.countOccurrences(text, kw)
		}
		if score > 0 {
			scores = append(scores, categoryScore{name: name, score: score})
			total += score
		}
	})

	if len(scores) == 0 {
		return c.fallbackResult(text)
	}

	// Stable sort keeps declaration order for equal scores.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	top := scores
	if len(top) > 3 {
		top = top[:3]
	}
	categories := make([]string, len(top))
	for i, s := range top {
		categories[i] = s.name
	}

	confidence := math.Min(0.95, 0.5+float64(scores[0].score)/float64(total)*0.45)
	result := Result{Categories: categories, Confidence: round2(confidence)}

	c.log.Debug("Rule-based categorization",
		zap.String("query", trimmed),
		zap.Strings("categories", categories),
		zap.Float64("confidence", result.Confidence))

	return result
}

// fallbackResult consults the fallback classifier, if any, and only accepts
// its output when it names a non-fallback category.
func (c *Categorizer) fallbackResult(text string) Result {
	if c.fallback != nil && text != "" {
		if alt, ok := c.fallback.Classify(text); ok && alt.Primary() != ruleset.FallbackCategory {
			c.log.Debug("Fallback categorization",
				zap.String("category", alt.Primary()),
				zap.Float64("confidence", alt.Confidence))
			return alt
		}
	}
	return Result{
		Categories: []string{ruleset.FallbackCategory},
		Confidence: ruleset.DefaultConfidence,
	}
}

// countOccurrences counts whole-word matches of a keyword or phrase, so
// "ai" does not match inside "again".
func (c *Categorizer) countOccurrences(text, keyword string) int {
	re := c.pattern(keyword)
	return len(re.FindAllStringIndex(text, -1))
}

func (c *Categorizer) pattern(keyword string) *regexp.Regexp {
	c.mu.RLock()
	re, ok := c.patterns[keyword]
	c.mu.RUnlock()
	if ok {
		return re
	}

	re = regexp.MustCompile(`\b` + regexp.QuoteMeta(keyword) + `\b`)

	c.mu.Lock()
	c.patterns[keyword] = re
	c.mu.Unlock()
	return re
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
