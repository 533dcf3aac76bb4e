// Package recents keeps the list of prior search terms: most recent first,
// de-duplicated case-insensitively and bounded in length. The list is
// persisted as a JSON array of strings under a single storage key.
//
// Storage problems never reach the caller. A missing or corrupt value loads
// as an empty list, and once a write fails the store stops persisting and
// keeps the list in memory for the rest of the session.
package recents

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/runger/storefind/internal/metrics"
	"github.com/runger/storefind/internal/storage"
)

const (
	// DefaultMax is the number of terms kept.
	DefaultMax = 6

	// DefaultKey is the storage key holding the JSON array.
	DefaultKey = "storefind.recent-searches"
)

// Config configures a Store.
type Config struct {
	Key     string            // storage key (default DefaultKey)
	Max     int               // list bound (default DefaultMax)
	Logger  *slog.Logger      // default slog.Default()
	Metrics *metrics.Recorder // optional
}

// Store is the recency store. It is safe for concurrent use, though a
// search session is its only writer.
type Store struct {
	mu       sync.Mutex
	kv       storage.Store
	key      string
	max      int
	logger   *slog.Logger
	metrics  *metrics.Recorder
	list     []string
	degraded bool
}

// New creates a Store over kv. A nil kv gives a memory-only store.
func New(kv storage.Store, cfg Config) *Store {
	s := &Store{
		kv:      kv,
		key:     cfg.Key,
		max:     cfg.Max,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.max <= 0 {
		s.max = DefaultMax
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if kv == nil {
		s.degraded = true
	}
	return s
}

// Load reads the persisted list, replacing the in-memory one, and returns
// a copy of it.
func (s *Store) Load(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.list = nil
	if s.degraded {
		return nil
	}

	raw, err := s.kv.Get(ctx, s.key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil
	case err != nil:
		s.logger.Warn("recent searches unavailable; keeping them in memory",
			"key", s.key, "error", err)
		s.metrics.StorageError()
		s.degraded = true
		return nil
	}

	list, err := Decode(raw, s.max)
	if err != nil {
		s.logger.Warn("discarding corrupt recent searches", "key", s.key, "error", err)
		return nil
	}
	s.list = list
	return clone(s.list)
}

// List returns a copy of the current in-memory list.
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.list)
}

// Commit moves term to the front of the list and persists it. Blank terms
// are ignored.
func (s *Store) Commit(ctx context.Context, term string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.list = Push(s.list, term, s.max)
	s.metrics.RecentCommitted()
	s.persist(ctx)
}

// Clear empties the list and persists the empty list.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.list = nil
	s.persist(ctx)
}

// Degraded reports whether the store has fallen back to memory only.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// persist writes the list. Caller holds mu.
func (s *Store) persist(ctx context.Context) {
	if s.degraded {
		return
	}
	list := s.list
	if list == nil {
		list = []string{}
	}
	raw, err := json.Marshal(list)
	if err == nil {
		err = s.kv.Set(ctx, s.key, string(raw))
	}
	if err != nil {
		s.logger.Warn("failed to persist recent searches; keeping them in memory",
			"key", s.key, "error", err)
		s.metrics.StorageError()
		s.degraded = true
	}
}

// Push returns list with term prepended, any case-insensitive duplicate
// removed and the result truncated to limit entries. list is not modified.
func Push(list []string, term string, limit int) []string {
	term = strings.TrimSpace(term)
	if term == "" {
		return clone(list)
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, term)
	for _, existing := range list {
		if strings.EqualFold(existing, term) {
			continue
		}
		out = append(out, existing)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Decode parses a persisted JSON array and sanitizes it: blank entries and
// case-insensitive duplicates are dropped (first occurrence wins) and the
// result is truncated to limit.
func Decode(raw string, limit int) ([]string, error) {
	var stored []string
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, err
	}
	var out []string
	for _, term := range stored {
		term = strings.TrimSpace(term)
		if term == "" || containsFold(out, term) {
			continue
		}
		out = append(out, term)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func containsFold(list []string, term string) bool {
	for _, existing := range list {
		if strings.EqualFold(existing, term) {
			return true
		}
	}
	return false
}

func clone(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}
