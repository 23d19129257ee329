package categorizer

import (
	"math"
	"strings"

	"github.com/MarcelloBorromeo/SearchSift/internal/ruleset"
)

// Classifier is a pluggable secondary categorization strategy. It is only
// consulted when rule-based matching returned the fallback category, and its
// output is only accepted when it names a non-fallback category.
type Classifier interface {
	// Classify returns a result and whether a classification was produced.
	Classify(text string) (Result, bool)
}

// StatisticalClassifier scores queries by unigram overlap with the ruleset's
// keyword vocabulary. Tokens shared across categories contribute fractional
// weight, so category-exclusive vocabulary dominates.
type StatisticalClassifier struct {
	order       []string
	tokenTopics map[string][]string
}

// NewStatisticalClassifier builds the token index from the current ruleset
// contents. Later ruleset mutations are not reflected.
func NewStatisticalClassifier(rules *ruleset.Ruleset) *StatisticalClassifier {
	s := &StatisticalClassifier{tokenTopics: make(map[string][]string)}
	rules.Each(func(name string, keywords []string) {
		s.order = append(s.order, name)
		seen := make(map[string]bool)
		for _, kw := range keywords {
			for _, tok := range tokenize(kw) {
				if seen[tok] {
					continue
				}
				seen[tok] = true
				s.tokenTopics[tok] = append(s.tokenTopics[tok], name)
			}
		}
	})
	return s
}

// Classify scores the text's tokens against the vocabulary index.
func (s *StatisticalClassifier) Classify(text string) (Result, bool) {
	weights := make(map[string]float64)
	matched := 0

	for _, tok := range tokenize(text) {
		topics, ok := s.tokenTopics[tok]
		if !ok {
			continue
		}
		matched++
		for _, name := range topics {
			weights[name] += 1.0 / float64(len(topics))
		}
	}

	if matched == 0 {
		return Result{}, false
	}

	best := ""
	bestWeight := 0.0
	for _, name := range s.order {
		if w, ok := weights[name]; ok && w > bestWeight {
			best = name
			bestWeight = w
		}
	}

	confidence := math.Min(0.85, 0.5+float64(matched)*0.1)
	return Result{Categories: []string{best}, Confidence: round2(confidence)}, true
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}
