// Package search implements catalog search for the storefront: query
// normalization, bilingual synonym expansion, per-entry scoring and a
// deterministic ranker over a small in-memory corpus.
//
// Every function in this package is pure and total. An empty or
// non-matching query yields an empty result, never an error.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes text, drops combining marks and recomposes what is
// left, so "é" and "e" compare equal.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize converts raw text to its canonical comparable form: lowercase,
// diacritic-free, with runs of whitespace collapsed to one space and no
// leading or trailing whitespace.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	lowered := strings.ToLower(text)
	stripped, _, err := transform.String(stripMarks, lowered)
	if err != nil {
		// transform only fails on invalid state; keep the lowercase form.
		stripped = lowered
	}
	return strings.Join(strings.Fields(stripped), " ")
}

// Tokenize normalizes text and splits it into canonical tokens. Any run of
// characters outside [a-z0-9+] separates tokens; empty tokens are dropped.
func Tokenize(text string) []string {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	return strings.FieldsFunc(normalized, func(r rune) bool {
		return !isTokenRune(r)
	})
}

func isTokenRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '+'
}
