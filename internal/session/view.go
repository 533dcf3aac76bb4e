package session

import (
	"github.com/runger/storefind/internal/catalog"
	"github.com/runger/storefind/internal/search"
)

// ItemKind tells which segment of the pool an item belongs to.
type ItemKind int

const (
	ItemRecent ItemKind = iota
	ItemResult
)

// Item is one navigable row of the pool.
type Item struct {
	Kind ItemKind

	// Text is the display text: the recent term or the product name.
	Text string

	// Highlight splits Text around the first case-insensitive occurrence
	// of the raw query. Recents are never highlighted.
	Highlight search.Highlight

	// Result is set for ItemResult.
	Result *search.Result
}

// View is an immutable snapshot of a session.
type View struct {
	State     State
	Query     string
	Committed string
	Recents   []string
	Results   []search.Result
	Selection int
}

// Len returns the pool length (recents shown plus results).
func (v View) Len() int {
	return len(v.Recents) + len(v.Results)
}

// Open reports whether the panel is visible.
func (v View) Open() bool {
	return v.State != StateIdle && v.State != StateClosed
}

// Pool merges shown recents and results into display rows, recents first.
func (v View) Pool() []Item {
	if v.Len() == 0 {
		return nil
	}
	items := make([]Item, 0, v.Len())
	for _, term := range v.Recents {
		items = append(items, Item{
			Kind:      ItemRecent,
			Text:      term,
			Highlight: search.Highlight{Before: term},
		})
	}
	for i := range v.Results {
		r := &v.Results[i]
		items = append(items, Item{
			Kind:      ItemResult,
			Text:      r.Entry.Name,
			Highlight: search.FindHighlight(r.Entry.Name, v.Query),
			Result:    r,
		})
	}
	return items
}

// Target is the kind of navigation produced by Enter.
type Target int

const (
	// TargetSearch navigates to the product listing filtered by a term.
	TargetSearch Target = iota
	// TargetProduct navigates to one product page.
	TargetProduct
)

func (t Target) String() string {
	if t == TargetProduct {
		return "product"
	}
	return "search"
}

// Navigation is the locale-agnostic destination chosen on Enter.
type Navigation struct {
	Kind  Target
	Path  string
	Term  string
	Entry *catalog.Entry
}
