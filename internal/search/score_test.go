package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runger/storefind/internal/catalog"
)

func TestScore_HaystackMatch(t *testing.T) {
	entry := catalog.Entry{Slug: "sheen-wipes", Name: "Sheen Wipes", Category: "interior"}

	r := Score(entry, NewTerms("wipes"), nil)
	assert.Equal(t, 3, r.Score)
	assert.Equal(t, []string{"wipes"}, r.Reasons)
	assert.Equal(t, entry, r.Entry)
}

func TestScore_SlugCountsAsHaystack(t *testing.T) {
	entry := catalog.Entry{Slug: "hydro-wax-spray", Name: "Hydro Spray", Category: "exterior"}

	r := Score(entry, NewTerms("wax"), nil)
	assert.Equal(t, 3, r.Score)
	assert.Equal(t, []string{"wax"}, r.Reasons)
}

func TestScore_SubTokensInName(t *testing.T) {
	entry := catalog.Entry{Slug: "gloss-spray", Name: "Gloss Spray", Category: "interior"}

	// The phrase is not a substring, so each sub-token is tried on the name.
	r := Score(entry, NewTerms("spray gloss"), nil)
	assert.Equal(t, 6, r.Score)
	assert.Equal(t, []string{"spray", "gloss"}, r.Reasons)
}

func TestScore_SubTokenInCategory(t *testing.T) {
	entry := catalog.Entry{Slug: "kit", Name: "Kit", Category: "detailing"}

	r := Score(entry, NewTerms("pro detailing"), nil)
	assert.Equal(t, 2, r.Score)
	assert.Equal(t, []string{"detailing"}, r.Reasons)
}

func TestScore_ShortTermsSkipHaystack(t *testing.T) {
	entry := catalog.Entry{Slug: "kit", Name: "Kit", Category: "cab"}

	// "ab" is too short for the haystack rule but still matches the
	// category as a sub-token.
	r := Score(entry, NewTerms("ab"), nil)
	assert.Equal(t, 2, r.Score)
	assert.Equal(t, []string{"ab"}, r.Reasons)

	// Single-character sub-tokens never score.
	r = Score(entry, NewTerms("k"), nil)
	assert.Equal(t, 0, r.Score)
	assert.Empty(t, r.Reasons)
}

func TestScore_ReasonsDeduplicated(t *testing.T) {
	entry := catalog.Entry{Slug: "sheen-wipes", Name: "Sheen Wipes", Category: "interior"}

	r := Score(entry, NewTerms("wipes", "sheen wipes x"), nil)
	// "wipes" (3) + "sheen wipes x" sub-tokens sheen (3) and wipes (3).
	assert.Equal(t, 9, r.Score)
	assert.Equal(t, []string{"wipes", "sheen"}, r.Reasons)
}

func TestScore_ReasonsCapped(t *testing.T) {
	entry := catalog.Entry{
		Slug:     "alphabet",
		Name:     "alpha bravo charlie delta echo foxtrot golf",
		Category: "misc",
	}
	terms := NewTerms("alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf")

	r := Score(entry, terms, nil)
	assert.Equal(t, 21, r.Score)
	assert.Len(t, r.Reasons, MaxReasons)
	assert.Equal(t, "alpha", r.Reasons[0])
	assert.NotContains(t, r.Reasons, "golf")
}

func TestScore_MissingFields(t *testing.T) {
	assert.NotPanics(t, func() {
		r := Score(catalog.Entry{}, Expand("wax"), nil)
		assert.Equal(t, 0, r.Score)
		assert.Empty(t, r.Reasons)
	})

	r := Score(catalog.Entry{Slug: "x", Name: "Hydro Wax"}, Expand("wax"), nil)
	assert.Positive(t, r.Score)
}

func TestScore_CategoryBoost(t *testing.T) {
	entry := catalog.Entry{Slug: "sheen-wipes", Name: "Sheen Wipes", Category: "interior"}
	terms := NewTerms("wipes")

	assert.Equal(t, 8, Score(entry, terms, map[string]int{"interior": 5}).Score)
	assert.Equal(t, 3, Score(entry, terms, map[string]int{"exterior": 5}).Score)
	assert.Equal(t, 1, Score(entry, terms, map[string]int{"interior": -2}).Score)
	assert.Equal(t, 0, Score(entry, terms, map[string]int{"interior": -10}).Score)
}

func TestScore_BoostNeedsAMatch(t *testing.T) {
	entry := catalog.Entry{Slug: "sheen-wipes", Name: "Sheen Wipes", Category: "interior"}

	r := Score(entry, NewTerms("zzz"), map[string]int{"interior": 5})
	assert.Equal(t, 0, r.Score)
}

func TestScore_DiacriticsInCatalog(t *testing.T) {
	entry := catalog.Entry{Slug: "desodorisant-cuir", Name: "Désodorisant Cuir", Category: "air-fresheners"}

	r := Score(entry, Expand("desodorisant"), nil)
	assert.Positive(t, r.Score)
	assert.Contains(t, r.Reasons, "desodorisant")
}
