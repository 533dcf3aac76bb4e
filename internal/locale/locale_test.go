package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver("en", []string{"en", "fr"})
	require.NoError(t, err)
	return r
}

func TestNewResolver(t *testing.T) {
	r := newResolver(t)
	assert.Equal(t, English, r.Default())
	assert.True(t, r.IsSupported(English))
	assert.True(t, r.IsSupported(French))
	assert.False(t, r.IsSupported("de"))
}

func TestNewResolver_RegionTags(t *testing.T) {
	r, err := NewResolver("fr-FR", []string{"en-GB", "fr-FR"})
	require.NoError(t, err)
	assert.Equal(t, French, r.Default())
	assert.True(t, r.IsSupported(English))
}

func TestNewResolver_Errors(t *testing.T) {
	_, err := NewResolver("en", nil)
	assert.Error(t, err)

	_, err = NewResolver("de", []string{"en", "fr"})
	assert.Error(t, err)

	_, err = NewResolver("en", []string{"en", "not a tag!"})
	assert.Error(t, err)

	_, err = NewResolver("", []string{"en"})
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	r := newResolver(t)
	tests := []struct {
		path     string
		wantLoc  Locale
		wantPath string
	}{
		{"/", English, "/"},
		{"", English, "/"},
		{"/products", English, "/products"},
		{"/fr", French, "/"},
		{"/fr/", French, "/"},
		{"/fr/products/interior/sheen-wipes", French, "/products/interior/sheen-wipes"},
		{"/FR/products", French, "/products"},
		{"/en/products", English, "/en/products"},
		{"/de/products", English, "/de/products"},
		{"/fr?search=wax", French, "/?search=wax"},
		{"/fresh", English, "/fresh"},
	}
	for _, tt := range tests {
		loc, path := r.Resolve(tt.path)
		assert.Equal(t, tt.wantLoc, loc, "Resolve(%q) locale", tt.path)
		assert.Equal(t, tt.wantPath, path, "Resolve(%q) path", tt.path)
	}
}

func TestLocalize(t *testing.T) {
	r := newResolver(t)
	tests := []struct {
		path string
		loc  Locale
		want string
	}{
		{"/products?search=wax", English, "/products?search=wax"},
		{"/products?search=wax", French, "/fr/products?search=wax"},
		{"/products/interior/sheen-wipes", French, "/fr/products/interior/sheen-wipes"},
		{"/", French, "/fr"},
		{"products", French, "/fr/products"},
		{"/products", "de", "/products"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Localize(tt.path, tt.loc), "Localize(%q, %q)", tt.path, tt.loc)
	}
}

func TestLocalizeResolveRoundTrip(t *testing.T) {
	r := newResolver(t)
	for _, loc := range []Locale{English, French} {
		for _, path := range []string{"/products", "/products/interior/sheen-wipes"} {
			gotLoc, gotPath := r.Resolve(r.Localize(path, loc))
			assert.Equal(t, loc, gotLoc)
			assert.Equal(t, path, gotPath)
		}
	}
}

func TestMatch(t *testing.T) {
	r := newResolver(t)
	tests := []struct {
		pref string
		want Locale
	}{
		{"", English},
		{"C", English},
		{"POSIX", English},
		{"fr", French},
		{"fr_FR.UTF-8", French},
		{"fr_CA@euro", French},
		{"en_US.UTF-8", English},
		{"fr-CA,fr;q=0.9,en;q=0.8", French},
		{"de-DE,en;q=0.5", English},
		{"de", English},
		{"ja", English},
		{";;;", English},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Match(tt.pref), "Match(%q)", tt.pref)
	}
}

func TestMatch_FrenchDefault(t *testing.T) {
	r, err := NewResolver("fr", []string{"fr", "en"})
	require.NoError(t, err)
	assert.Equal(t, French, r.Match("de"))
	assert.Equal(t, English, r.Match("en-GB"))
	assert.Equal(t, "/products", r.Localize("/products", French))
	assert.Equal(t, "/en/products", r.Localize("/products", English))
}
