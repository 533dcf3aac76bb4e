package search

import (
	"strings"

	"github.com/runger/storefind/internal/catalog"
)

// Score weights.
const (
	weightHaystack = 3 // whole term found anywhere in name, category or slug
	weightName     = 3 // sub-token found in the name
	weightCategory = 2 // sub-token found in the category only

	// MaxReasons caps the matched terms reported per result.
	MaxReasons = 6
)

// Result is one scored catalog entry. Results are built fresh for every
// ranking pass and never mutated afterwards.
type Result struct {
	Entry   catalog.Entry `json:"entry"`
	Score   int           `json:"score"`
	Reasons []string      `json:"reasons,omitempty"`
}

// Score rates entry against an expanded query. Missing entry fields are
// treated as empty strings, so a malformed entry scores 0 rather than
// failing. The category boost is only added to entries that matched at
// least one term, and the total never drops below zero.
func Score(entry catalog.Entry, terms Terms, boost map[string]int) Result {
	name := Normalize(entry.Name)
	category := Normalize(entry.Category)
	haystack := name + " " + category + " " + Normalize(entry.Slug)

	var (
		score   int
		reasons reasonSet
	)
	for _, term := range terms.items {
		if len(term) > 2 && strings.Contains(haystack, term) {
			score += weightHaystack
			reasons.add(term)
			continue
		}

		for _, sub := range Tokenize(term) {
			if len(sub) <= 1 {
				continue
			}
			switch {
			case name != "" && strings.Contains(name, sub):
				score += weightName
				reasons.add(sub)
			case category != "" && strings.Contains(category, sub):
				score += weightCategory
				reasons.add(sub)
			}
		}
	}

	if score > 0 {
		score = max(score+boost[entry.Category], 0)
	}

	return Result{Entry: entry, Score: score, Reasons: reasons.items}
}

// reasonSet keeps the first MaxReasons distinct reasons in first-seen order.
type reasonSet struct {
	items []string
}

func (r *reasonSet) add(term string) {
	if len(r.items) >= MaxReasons {
		return
	}
	for _, existing := range r.items {
		if existing == term {
			return
		}
	}
	r.items = append(r.items, term)
}
