package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runger/storefind/internal/search"
	"github.com/runger/storefind/internal/storage"
)

// Config represents the storefind configuration.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Recents RecentsConfig `yaml:"recents"`
	Catalog CatalogConfig `yaml:"catalog"`
	Locale  LocaleConfig  `yaml:"locale"`
	Log     LogConfig     `yaml:"log"`
}

// SearchConfig holds ranking settings.
type SearchConfig struct {
	MaxResults    int            `yaml:"max_results"`    // Results kept after ranking
	DebounceMs    int            `yaml:"debounce_ms"`    // Quiet window before ranking
	CategoryBoost map[string]int `yaml:"category_boost"` // Score added per category
}

// RecentsConfig holds recency store settings.
type RecentsConfig struct {
	Backend    string `yaml:"backend"`     // sqlite, badger, file or memory
	MaxEntries int    `yaml:"max_entries"` // List bound
	StorageKey string `yaml:"storage_key"` // Key holding the JSON array
	Path       string `yaml:"path"`        // Backend location (overrides default)
}

// CatalogConfig holds catalog settings.
type CatalogConfig struct {
	Path string `yaml:"path"` // YAML/JSON catalog file (empty = built-in sample)
}

// LocaleConfig holds locale routing settings.
type LocaleConfig struct {
	Default   string   `yaml:"default"`
	Supported []string `yaml:"supported"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // Log file path (empty = stderr)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			MaxResults:    search.DefaultLimit,
			DebounceMs:    150,
			CategoryBoost: map[string]int{},
		},
		Recents: RecentsConfig{
			Backend:    storage.BackendSQLite,
			MaxEntries: 6,
			StorageKey: "storefind.recent-searches",
		},
		Locale: LocaleConfig{
			Default:   "en",
			Supported: []string{"en", "fr"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFromFile(DefaultPaths().ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveToFile(DefaultPaths().ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SearchOptions returns the ranking options for every search in a session.
func (c *Config) SearchOptions() search.Options {
	return search.Options{
		CategoryBoost: maps.Clone(c.Search.CategoryBoost),
		Limit:         c.Search.MaxResults,
	}
}

// Debounce returns the search debounce window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Search.DebounceMs) * time.Millisecond
}

// RecentsPath returns where the configured recents backend keeps its data.
// The memory backend has no path.
func (c *Config) RecentsPath(p *Paths) string {
	if c.Recents.Path != "" {
		return c.Recents.Path
	}
	switch c.Recents.Backend {
	case storage.BackendSQLite:
		return p.DatabaseFile()
	case storage.BackendBadger:
		return p.BadgerDir()
	case storage.BackendFile:
		return p.RecentsFile()
	default:
		return ""
	}
}

// Get retrieves a configuration value by dot-separated key.
// For example: "search.max_results" or "recents.backend"
func (c *Config) Get(key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}

	switch section {
	case "search":
		return c.getSearchField(field)
	case "recents":
		return c.getRecentsField(field)
	case "catalog":
		if field == "path" {
			return c.Catalog.Path, nil
		}
		return "", fmt.Errorf("unknown field: catalog.%s", field)
	case "locale":
		return c.getLocaleField(field)
	case "log":
		return c.getLogField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by dot-separated key.
func (c *Config) Set(key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}

	switch section {
	case "search":
		return c.setSearchField(field, value)
	case "recents":
		return c.setRecentsField(field, value)
	case "catalog":
		if field == "path" {
			c.Catalog.Path = value
			return nil
		}
		return fmt.Errorf("unknown field: catalog.%s", field)
	case "locale":
		return c.setLocaleField(field, value)
	case "log":
		return c.setLogField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func splitKey(key string) (string, string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", "", errors.New("key must be in format 'section.key'")
	}
	return parts[0], parts[1], nil
}

func (c *Config) getSearchField(field string) (string, error) {
	switch field {
	case "max_results":
		return strconv.Itoa(c.Search.MaxResults), nil
	case "debounce_ms":
		return strconv.Itoa(c.Search.DebounceMs), nil
	case "category_boost":
		return FormatBoost(c.Search.CategoryBoost), nil
	default:
		return "", fmt.Errorf("unknown field: search.%s", field)
	}
}

func (c *Config) setSearchField(field, value string) error {
	switch field {
	case "max_results":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_results: %w", err)
		}
		if v < 1 {
			return errors.New("invalid max_results: must be >= 1")
		}
		c.Search.MaxResults = v
	case "debounce_ms":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for debounce_ms: %w", err)
		}
		if v < 0 {
			return errors.New("invalid debounce_ms: must be non-negative")
		}
		c.Search.DebounceMs = v
	case "category_boost":
		boost, err := ParseBoost(value)
		if err != nil {
			return err
		}
		c.Search.CategoryBoost = boost
	default:
		return fmt.Errorf("unknown field: search.%s", field)
	}
	return nil
}

func (c *Config) getRecentsField(field string) (string, error) {
	switch field {
	case "backend":
		return c.Recents.Backend, nil
	case "max_entries":
		return strconv.Itoa(c.Recents.MaxEntries), nil
	case "storage_key":
		return c.Recents.StorageKey, nil
	case "path":
		return c.Recents.Path, nil
	default:
		return "", fmt.Errorf("unknown field: recents.%s", field)
	}
}

func (c *Config) setRecentsField(field, value string) error {
	switch field {
	case "backend":
		if !slices.Contains(storage.Backends(), value) {
			return fmt.Errorf("invalid backend: %s (must be one of %s)", value, strings.Join(storage.Backends(), ", "))
		}
		c.Recents.Backend = value
	case "max_entries":
		v, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for max_entries: %w", err)
		}
		if v < 1 {
			return errors.New("invalid max_entries: must be >= 1")
		}
		c.Recents.MaxEntries = v
	case "storage_key":
		if strings.TrimSpace(value) == "" {
			return errors.New("invalid storage_key: must not be empty")
		}
		c.Recents.StorageKey = value
	case "path":
		c.Recents.Path = value
	default:
		return fmt.Errorf("unknown field: recents.%s", field)
	}
	return nil
}

func (c *Config) getLocaleField(field string) (string, error) {
	switch field {
	case "default":
		return c.Locale.Default, nil
	case "supported":
		return strings.Join(c.Locale.Supported, ","), nil
	default:
		return "", fmt.Errorf("unknown field: locale.%s", field)
	}
}

func (c *Config) setLocaleField(field, value string) error {
	switch field {
	case "default":
		c.Locale.Default = strings.TrimSpace(value)
	case "supported":
		var tags []string
		for _, tag := range strings.Split(value, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		if len(tags) == 0 {
			return errors.New("invalid supported: at least one locale is required")
		}
		c.Locale.Supported = tags
	default:
		return fmt.Errorf("unknown field: locale.%s", field)
	}
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	case "file":
		return c.Log.File, nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !isValidLogLevel(value) {
			return fmt.Errorf("invalid level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	case "file":
		c.Log.File = value
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Search.MaxResults < 1 {
		return errors.New("search.max_results must be >= 1")
	}

	if c.Search.DebounceMs < 0 {
		return errors.New("search.debounce_ms must be >= 0")
	}

	if !slices.Contains(storage.Backends(), c.Recents.Backend) {
		return fmt.Errorf("recents.backend must be one of %s (got: %s)",
			strings.Join(storage.Backends(), ", "), c.Recents.Backend)
	}

	if c.Recents.MaxEntries < 1 {
		return errors.New("recents.max_entries must be >= 1")
	}

	if strings.TrimSpace(c.Recents.StorageKey) == "" {
		return errors.New("recents.storage_key must not be empty")
	}

	if len(c.Locale.Supported) == 0 {
		return errors.New("locale.supported must list at least one locale")
	}

	if !slices.Contains(c.Locale.Supported, c.Locale.Default) {
		return fmt.Errorf("locale.default %q is not in locale.supported", c.Locale.Default)
	}

	if !isValidLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}

	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("STOREFIND_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil && b {
			c.Log.Level = "debug"
		}
	}
	if v := os.Getenv("STOREFIND_LOG_LEVEL"); v != "" {
		if isValidLogLevel(v) {
			c.Log.Level = v
		}
	}
	if v := os.Getenv("STOREFIND_RECENTS_BACKEND"); v != "" {
		if slices.Contains(storage.Backends(), v) {
			c.Recents.Backend = v
		}
	}
	if v := os.Getenv("STOREFIND_CATALOG"); v != "" {
		c.Catalog.Path = v
	}
	if v := os.Getenv("STOREFIND_LOCALE"); v != "" {
		c.Locale.Default = v
	}
}

// ListKeys returns user-facing configuration keys.
func ListKeys() []string {
	return []string{
		"search.max_results",
		"search.debounce_ms",
		"search.category_boost",
		"recents.backend",
		"recents.max_entries",
		"recents.storage_key",
		"recents.path",
		"catalog.path",
		"locale.default",
		"locale.supported",
		"log.level",
		"log.file",
	}
}

// ParseBoost parses "category=N,category=N" into a boost map. An empty
// string yields an empty map.
func ParseBoost(value string) (map[string]int, error) {
	boost := make(map[string]int)
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		category, n, ok := strings.Cut(pair, "=")
		category = strings.TrimSpace(category)
		if !ok || category == "" {
			return nil, fmt.Errorf("invalid boost %q: want category=N", pair)
		}
		v, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return nil, fmt.Errorf("invalid boost for %s: %w", category, err)
		}
		boost[category] = v
	}
	return boost, nil
}

// FormatBoost renders a boost map as ParseBoost input, sorted by category.
func FormatBoost(boost map[string]int) string {
	parts := make([]string, 0, len(boost))
	for _, category := range slices.Sorted(maps.Keys(boost)) {
		parts = append(parts, category+"="+strconv.Itoa(boost[category]))
	}
	return strings.Join(parts, ",")
}
