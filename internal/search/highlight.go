package search

import (
	"strings"
	"unicode/utf8"
)

// Highlight splits display text around the first case-insensitive
// occurrence of the raw query.
type Highlight struct {
	Before string
	Match  string
	After  string
}

// Matched reports whether a span was found.
func (h Highlight) Matched() bool { return h.Match != "" }

// FindHighlight locates query (trimmed, otherwise as typed) inside text.
// Matches found only through synonym expansion have no literal span; in
// that case the whole text comes back in Before, unhighlighted.
func FindHighlight(text, query string) Highlight {
	q := strings.TrimSpace(query)
	if q == "" || text == "" {
		return Highlight{Before: text}
	}

	qLen := utf8.RuneCountInString(q)
	for offset := 0; offset < len(text); {
		end, n := offset, 0
		for n < qLen && end < len(text) {
			_, size := utf8.DecodeRuneInString(text[end:])
			end += size
			n++
		}
		if n < qLen {
			break
		}
		if strings.EqualFold(text[offset:end], q) {
			return Highlight{
				Before: text[:offset],
				Match:  text[offset:end],
				After:  text[end:],
			}
		}
		_, size := utf8.DecodeRuneInString(text[offset:])
		offset += size
	}
	return Highlight{Before: text}
}
