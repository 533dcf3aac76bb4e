// Package storage provides the small key-value stores that persist client
// state such as recent searches. Values are opaque strings; callers choose
// the encoding.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written or
// has been deleted.
var ErrNotFound = errors.New("key not found")

// Store is a persisted string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Backends lists every backend name Open understands.
func Backends() []string {
	return []string{BackendSQLite, BackendBadger, BackendFile, BackendMemory}
}

// Open opens the named backend at path. path is a database file for
// sqlite, a directory for badger and a JSON file for file; it is ignored
// for memory.
func Open(backend, path string, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch strings.ToLower(backend) {
	case BackendSQLite, "":
		return NewSQLiteStore(path)
	case BackendBadger:
		return OpenBadgerStore(path, false, logger)
	case BackendFile:
		return NewFileStore(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q (must be one of %s)",
			backend, strings.Join(Backends(), ", "))
	}
}
