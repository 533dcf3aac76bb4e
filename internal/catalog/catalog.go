// Package catalog holds the storefront's product records. The corpus is
// small, loaded once and treated as immutable for the lifetime of a search
// session.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

// ErrEmptyCatalog is returned when a catalog source holds no entries.
var ErrEmptyCatalog = errors.New("catalog is empty")

//go:embed products.yaml
var builtinYAML []byte

// Entry is a single product record. Slug is the unique key.
type Entry struct {
	Slug     string  `yaml:"slug" json:"slug"`
	Name     string  `yaml:"name" json:"name"`
	Category string  `yaml:"category" json:"category"`
	Image    string  `yaml:"img,omitempty" json:"img,omitempty"`
	Price    float64 `yaml:"price,omitempty" json:"price,omitempty"`
}

// Path returns the locale-agnostic product page path.
func (e Entry) Path() string {
	return "/products/" + e.Category + "/" + e.Slug
}

// file is the on-disk layout: either a bare list or {products: [...]}.
type file struct {
	Products []Entry `yaml:"products" json:"products"`
}

// Builtin returns the embedded sample catalog.
func Builtin() []Entry {
	entries, err := Parse(builtinYAML, ".yaml")
	if err != nil {
		// The embedded file is part of the binary; a parse failure is a build bug.
		panic(fmt.Sprintf("catalog: embedded products.yaml: %v", err))
	}
	return entries
}

// LoadFile reads a catalog from a YAML or JSON file, chosen by extension.
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	entries, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

// Parse decodes catalog data. ext selects the decoder (".json" for JSON,
// anything else for YAML, which also accepts JSON). Entries without a slug
// get one derived from their name.
func Parse(data []byte, ext string) ([]Entry, error) {
	var entries []Entry
	var err error
	if strings.EqualFold(ext, ".json") {
		entries, err = decodeJSON(data)
	} else {
		entries, err = decodeYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}

	for i := range entries {
		if entries[i].Slug == "" && entries[i].Name != "" {
			entries[i].Slug = Slugify(entries[i].Name)
		}
	}
	return entries, nil
}

func decodeJSON(data []byte) ([]Entry, error) {
	var list []Entry
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Products, nil
}

func decodeYAML(data []byte) ([]Entry, error) {
	var list []Entry
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.Products, nil
}

// Slugify derives a URL slug from a product name, folding accents
// ("Désodorisant Cuir" -> "desodorisant-cuir").
func Slugify(name string) string {
	return slug.Make(name)
}

// Merge concatenates several sources, keeping the first entry seen for each
// slug. Entries with an empty slug are dropped.
func Merge(sources ...[]Entry) []Entry {
	seen := make(map[string]struct{})
	var out []Entry
	for _, src := range sources {
		for _, e := range src {
			if e.Slug == "" {
				continue
			}
			if _, dup := seen[e.Slug]; dup {
				continue
			}
			seen[e.Slug] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

// Categories returns the distinct categories of entries in first-seen order.
func Categories(entries []Entry) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range entries {
		if e.Category == "" {
			continue
		}
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	return out
}
