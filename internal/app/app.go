// Package app wires configuration, logging, the catalog and the recency
// store together for the storefind binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/runger/storefind/internal/catalog"
	"github.com/runger/storefind/internal/config"
	"github.com/runger/storefind/internal/locale"
	sflog "github.com/runger/storefind/internal/log"
	"github.com/runger/storefind/internal/metrics"
	"github.com/runger/storefind/internal/recents"
	"github.com/runger/storefind/internal/storage"
)

// Options selects where App reads its inputs from.
type Options struct {
	// ConfigPath overrides the default config file.
	ConfigPath string

	// CatalogPaths overrides catalog.path; entries are merged by slug,
	// first file wins.
	CatalogPaths []string

	// LogOutput receives log lines when log.file is unset (default stderr).
	LogOutput io.Writer
}

// App holds the long-lived collaborators of one process.
type App struct {
	Config  *config.Config
	Paths   *config.Paths
	Logger  *slog.Logger
	Metrics *metrics.Recorder
	Locales *locale.Resolver

	catalogPaths []string
	closers      []io.Closer
}

// Load reads configuration and builds the logger and locale resolver.
func Load(opts Options) (*App, error) {
	paths := config.DefaultPaths()

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = paths.ConfigFile()
	}
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	output := opts.LogOutput
	if output == nil {
		output = os.Stderr
	}
	logger, logCloser, err := sflog.Open(cfg.Log.Level, cfg.Log.File, output)
	if err != nil {
		return nil, err
	}

	resolver, err := locale.NewResolver(cfg.Locale.Default, cfg.Locale.Supported)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("invalid locale config: %w", err)
	}

	catalogPaths := opts.CatalogPaths
	if len(catalogPaths) == 0 && cfg.Catalog.Path != "" {
		catalogPaths = []string{cfg.Catalog.Path}
	}

	return &App{
		Config:       cfg,
		Paths:        paths,
		Logger:       logger,
		Metrics:      metrics.New(),
		Locales:      resolver,
		catalogPaths: catalogPaths,
		closers:      []io.Closer{logCloser},
	}, nil
}

// Catalog loads the configured catalog files, or the built-in sample when
// none are configured.
func (a *App) Catalog() ([]catalog.Entry, error) {
	if len(a.catalogPaths) == 0 {
		entries := catalog.Builtin()
		a.Logger.Debug("using built-in catalog", "entries", len(entries))
		return entries, nil
	}

	sources := make([][]catalog.Entry, 0, len(a.catalogPaths))
	for _, path := range a.catalogPaths {
		entries, err := catalog.LoadFile(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, entries)
	}

	merged := catalog.Merge(sources...)
	if len(merged) == 0 {
		return nil, catalog.ErrEmptyCatalog
	}
	a.Logger.Debug("catalog loaded", "files", len(a.catalogPaths), "entries", len(merged))
	return merged, nil
}

// Recents opens the configured storage backend and loads the recency
// store from it. A backend that cannot be opened degrades to a memory-only
// store; the failure is logged, never returned.
func (a *App) Recents(ctx context.Context) *recents.Store {
	rcfg := recents.Config{
		Key:     a.Config.Recents.StorageKey,
		Max:     a.Config.Recents.MaxEntries,
		Logger:  a.Logger,
		Metrics: a.Metrics,
	}

	backend := a.Config.Recents.Backend
	kv, err := storage.Open(backend, a.Config.RecentsPath(a.Paths), a.Logger)
	if err != nil {
		a.Logger.Warn("recents storage unavailable, keeping recents in memory",
			"backend", backend, "error", err)
		a.Metrics.StorageError()
		store := recents.New(nil, rcfg)
		store.Load(ctx)
		return store
	}
	a.closers = append(a.closers, kv)

	store := recents.New(kv, rcfg)
	store.Load(ctx)
	return store
}

// Close logs the process metrics at debug level, then releases storage
// handles and the log file.
func (a *App) Close() error {
	if a.closers == nil {
		return nil
	}
	a.Logger.Debug("metrics",
		"counters", a.Metrics.Snapshot(),
		"hit_rate", a.Metrics.HitRate())

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
