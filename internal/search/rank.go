package search

import (
	"cmp"
	"net/url"
	"slices"
	"strings"

	"github.com/runger/storefind/internal/catalog"
)

// DefaultLimit is the maximum number of results Rank returns when
// Options.Limit is not set.
const DefaultLimit = 8

// Options tunes a ranking pass. The zero value ranks with no boosts and
// DefaultLimit.
type Options struct {
	// CategoryBoost adds a fixed amount to the score of matching entries
	// in the named category. Negative values demote.
	CategoryBoost map[string]int

	// Limit caps the number of results (default DefaultLimit).
	Limit int
}

func (o Options) limit() int {
	if o.Limit <= 0 {
		return DefaultLimit
	}
	return o.Limit
}

// Rank scores every entry of corpus against query and returns the matches,
// best first. Equal scores are ordered by ascending name, then slug, so the
// output is fully deterministic. An empty or whitespace-only query returns
// no results: search never browses.
func Rank(corpus []catalog.Entry, query string, opts Options) []Result {
	if Normalize(query) == "" {
		return nil
	}

	terms := Expand(query)
	if terms.Len() == 0 {
		return nil
	}

	results := make([]Result, 0, len(corpus))
	for _, entry := range corpus {
		r := Score(entry, terms, opts.CategoryBoost)
		if r.Score > 0 {
			results = append(results, r)
		}
	}

	slices.SortStableFunc(results, compareResults)

	if limit := opts.limit(); len(results) > limit {
		results = results[:limit]
	}
	return results
}

func compareResults(a, b Result) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Entry.Name, b.Entry.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.Entry.Slug, b.Entry.Slug)
}

// SearchPath returns the locale-agnostic listing path for a committed term.
// Spaces are escaped as %20 rather than '+'.
func SearchPath(term string) string {
	return "/products?search=" + strings.ReplaceAll(url.QueryEscape(term), "+", "%20")
}
