package search

// Terms is an insertion-ordered, de-duplicated set of canonical tokens and
// short canonical phrases. The zero value is an empty set ready to use.
type Terms struct {
	items []string
	seen  map[string]struct{}
}

// NewTerms returns a set seeded with the given terms in order.
func NewTerms(terms ...string) Terms {
	var t Terms
	for _, term := range terms {
		t.Add(term)
	}
	return t
}

// Add inserts term unless it is empty or already present. It reports
// whether the set changed.
func (t *Terms) Add(term string) bool {
	if term == "" {
		return false
	}
	if t.seen == nil {
		t.seen = make(map[string]struct{})
	}
	if _, ok := t.seen[term]; ok {
		return false
	}
	t.seen[term] = struct{}{}
	t.items = append(t.items, term)
	return true
}

// Has reports whether term is in the set.
func (t Terms) Has(term string) bool {
	_, ok := t.seen[term]
	return ok
}

// Len returns the number of terms.
func (t Terms) Len() int { return len(t.items) }

// Slice returns a copy of the terms in insertion order.
func (t Terms) Slice() []string {
	out := make([]string, len(t.items))
	copy(out, t.items)
	return out
}

// crossLinks are applied after synonym lookup: any trigger token adds every
// listed expansion.
var crossLinks = []struct {
	triggers   []string
	expansions []string
}{
	{
		triggers:   []string{"air", "freshener", "airfreshener"},
		expansions: []string{"air freshener", "air-freshener", "airfreshener"},
	},
	{
		triggers:   []string{"pneu", "tire"},
		expansions: []string{"tyre"},
	},
}

// Expand tokenizes query and returns everything it could plausibly mean:
// the query tokens first, then their synonyms, then the fixed cross-links.
// The result always contains every token of the query.
func Expand(query string) Terms {
	tokens := Tokenize(query)
	expanded := NewTerms(tokens...)

	for _, tok := range tokens {
		for _, syn := range synonymIndex[tok] {
			expanded.Add(syn)
		}
	}

	for _, link := range crossLinks {
		if !containsAny(tokens, link.triggers) {
			continue
		}
		for _, e := range link.expansions {
			expanded.Add(e)
		}
	}

	return expanded
}

func containsAny(tokens, want []string) bool {
	for _, tok := range tokens {
		for _, w := range want {
			if tok == w {
				return true
			}
		}
	}
	return false
}
