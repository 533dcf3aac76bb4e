// Package locale maps storefront paths to one of the supported locales and
// rewrites locale-agnostic paths for a target locale. The default locale is
// served without a prefix; every other locale lives under "/<code>".
package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported locale code such as "en" or "fr".
type Locale string

// Supported storefront locales.
const (
	English Locale = "en"
	French  Locale = "fr"
)

// Resolver resolves and rewrites paths for a fixed set of locales.
type Resolver struct {
	def       Locale
	supported []Locale
	matcher   language.Matcher
}

// NewResolver builds a resolver. def must be one of supported.
func NewResolver(def string, supported []string) (*Resolver, error) {
	if len(supported) == 0 {
		return nil, errors.New("at least one supported locale is required")
	}

	r := &Resolver{}
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", s, err)
		}
		base, _ := tag.Base()
		r.supported = append(r.supported, Locale(base.String()))
		tags = append(tags, tag)
	}

	defTag, err := language.Parse(def)
	if err != nil {
		return nil, fmt.Errorf("invalid default locale %q: %w", def, err)
	}
	base, _ := defTag.Base()
	r.def = Locale(base.String())
	if !r.IsSupported(r.def) {
		return nil, fmt.Errorf("default locale %q is not in the supported set", def)
	}

	// The default goes first so it wins when nothing matches.
	ordered := []language.Tag{defTag}
	for _, t := range tags {
		if b, _ := t.Base(); Locale(b.String()) != r.def {
			ordered = append(ordered, t)
		}
	}
	r.matcher = language.NewMatcher(ordered)
	return r, nil
}

// Default returns the unprefixed locale.
func (r *Resolver) Default() Locale { return r.def }

// IsSupported reports whether loc is served.
func (r *Resolver) IsSupported(loc Locale) bool {
	for _, s := range r.supported {
		if s == loc {
			return true
		}
	}
	return false
}

// Resolve splits a request path into its locale and the locale-agnostic
// remainder. Paths without a supported prefix belong to the default locale.
func (r *Resolver) Resolve(path string) (Locale, string) {
	trimmed := strings.TrimPrefix(path, "/")
	first, rest, _ := strings.Cut(trimmed, "/")
	// Strip query strings from the first segment ("/fr?x=1").
	first, query, hasQuery := strings.Cut(first, "?")

	loc := Locale(strings.ToLower(first))
	if loc == r.def || !r.IsSupported(loc) {
		return r.def, ensureLeadingSlash(path)
	}

	remainder := "/" + rest
	if hasQuery {
		remainder = "/?" + query
	}
	return loc, remainder
}

// Localize rewrites a locale-agnostic path for loc. Unsupported locales
// fall back to the default.
func (r *Resolver) Localize(path string, loc Locale) string {
	path = ensureLeadingSlash(path)
	if loc == r.def || !r.IsSupported(loc) {
		return path
	}
	if path == "/" {
		return "/" + string(loc)
	}
	return "/" + string(loc) + path
}

// Match picks the best supported locale for a language preference such as
// an Accept-Language header ("fr-CA,fr;q=0.9") or a POSIX LANG value
// ("fr_FR.UTF-8"). Anything unparseable yields the default.
func (r *Resolver) Match(pref string) Locale {
	pref = strings.TrimSpace(pref)
	if pref == "" || pref == "C" || pref == "POSIX" {
		return r.def
	}
	if !strings.ContainsAny(pref, ",;") {
		// POSIX form: drop the codeset and modifier.
		if i := strings.IndexAny(pref, ".@"); i >= 0 {
			pref = pref[:i]
		}
		pref = strings.ReplaceAll(pref, "_", "-")
	}

	tags, _, err := language.ParseAcceptLanguage(pref)
	if err != nil || len(tags) == 0 {
		return r.def
	}
	tag, _, conf := r.matcher.Match(tags...)
	if conf == language.No {
		return r.def
	}
	base, _ := tag.Base()
	loc := Locale(base.String())
	if !r.IsSupported(loc) {
		return r.def
	}
	return loc
}

func ensureLeadingSlash(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}
