// Package ruleset holds the category keyword table used for rule-based
// categorization. The table is declaration-ordered so scoring ties resolve
// deterministically.
package ruleset

import (
	"strings"
	"sync"
)

// FallbackCategory is the reserved category assigned when no rule matches.
const FallbackCategory = "Other"

// DefaultConfidence is the confidence reported for fallback results.
const DefaultConfidence = 0.5

type category struct {
	name     string
	keywords []string
}

// Ruleset maps category names to lower-cased trigger keywords and phrases.
// Runtime mutations only affect the in-memory table for the process
// lifetime; permanent changes belong in the defaults.
type Ruleset struct {
	mu         sync.RWMutex
	categories []category
	index      map[string]int
}

// New builds a Ruleset from a category -> keywords table. The order slice
// fixes the declaration order; categories missing from it are ignored.
func New(order []string, table map[string][]string) *Ruleset {
	rs := &Ruleset{index: make(map[string]int, len(order))}
	for _, name := range order {
		keywords, ok := table[name]
		if !ok {
			continue
		}
		lowered := make([]string, len(keywords))
		for i, kw := range keywords {
			lowered[i] = strings.ToLower(kw)
		}
		rs.index[name] = len(rs.categories)
		rs.categories = append(rs.categories, category{name: name, keywords: lowered})
	}
	return rs
}

// Default returns a Ruleset with the built-in category table.
func Default() *Ruleset {
	return New(defaultOrder, defaultKeywords)
}

// KeywordsFor returns a copy of the keywords for a category, or an empty
// slice for an unknown category.
func (rs *Ruleset) KeywordsFor(name string) []string {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	i, ok := rs.index[name]
	if !ok {
		return []string{}
	}
	out := make([]string, len(rs.categories[i].keywords))
	copy(out, rs.categories[i].keywords)
	return out
}

// AllCategories returns every category name in declaration order, with the
// fallback category appended last.
func (rs *Ruleset) AllCategories() []string {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	out := make([]string, 0, len(rs.categories)+1)
	for _, c := range rs.categories {
		out = append(out, c.name)
	}
	return append(out, FallbackCategory)
}

// AddKeyword adds a keyword to a category at runtime. It reports false when
// the category is unknown or the keyword is already present.
func (rs *Ruleset) AddKeyword(name, keyword string) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	i, ok := rs.index[name]
	if !ok {
		return false
	}

	kw := strings.ToLower(keyword)
	for _, existing := range rs.categories[i].keywords {
		if existing == kw {
			return false
		}
	}
	rs.categories[i].keywords = append(rs.categories[i].keywords, kw)
	return true
}

// Each calls fn for every category in declaration order with its current
// keywords. The callback must not retain the keyword slice.
func (rs *Ruleset) Each(fn func(name string, keywords []string)) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	for _, c := range rs.categories {
		fn(c.name, c.keywords)
	}
}
