// Package session drives one interactive search panel: it owns the raw
// query text, debounces ranking, merges recent searches with live results
// into a single navigable pool and tracks the active selection in it.
//
// The session is UI-agnostic. A renderer feeds it keystrokes and reads
// View snapshots; the session reports debounced result updates through
// Config.OnUpdate.
package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/runger/storefind/internal/catalog"
	"github.com/runger/storefind/internal/metrics"
	"github.com/runger/storefind/internal/recents"
	"github.com/runger/storefind/internal/search"
)

// DefaultDebounce is the quiet period after the last keystroke before the
// query is ranked.
const DefaultDebounce = 150 * time.Millisecond

// State is the panel's position in the query lifecycle.
type State int

const (
	StateIdle        State = iota // never focused
	StateOpenEmpty                // open, query empty, recents shown
	StateDebouncing               // keystroke received, ranking deferred
	StateOpenResults              // open, results for the committed query
	StateClosed                   // hidden; text and results kept
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpenEmpty:
		return "open-empty"
	case StateDebouncing:
		return "debouncing"
	case StateOpenResults:
		return "open-results"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Config configures a Session.
type Config struct {
	// Debounce is the quiet window (default DefaultDebounce).
	Debounce time.Duration

	// Search options applied to every ranking pass of the session.
	Search search.Options

	// Scheduler runs the debounce callback (default time.AfterFunc).
	Scheduler Scheduler

	// OnUpdate is called after a debounced ranking pass, outside the
	// session lock and possibly from another goroutine.
	OnUpdate func(View)

	Logger  *slog.Logger
	Metrics *metrics.Recorder
}

// Session is one search panel. All methods are safe for concurrent use;
// the debounce callback is the only work that runs off the caller's
// goroutine.
type Session struct {
	mu sync.Mutex

	id        string
	corpus    []catalog.Entry
	store     *recents.Store
	recents   []string // snapshot loaded at Open, refreshed on commit/clear
	debounce  time.Duration
	opts      search.Options
	scheduler Scheduler
	onUpdate  func(View)
	logger    *slog.Logger
	metrics   *metrics.Recorder

	state     State
	query     string // raw text as typed
	committed string // query the current results belong to
	results   []search.Result
	selection int

	timer      Timer
	generation uint64 // bumped on every (re)schedule; stale callbacks compare
	disposed   bool
}

// Open starts a session over corpus. store may be nil for a session
// without recent searches; otherwise its persisted list is loaded once here.
func Open(ctx context.Context, corpus []catalog.Entry, store *recents.Store, cfg Config) *Session {
	s := &Session{
		id:        uuid.NewString(),
		corpus:    corpus,
		store:     store,
		debounce:  cfg.Debounce,
		opts:      cfg.Search,
		scheduler: cfg.Scheduler,
		onUpdate:  cfg.OnUpdate,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		state:     StateIdle,
	}
	if s.debounce <= 0 {
		s.debounce = DefaultDebounce
	}
	if s.scheduler == nil {
		s.scheduler = realScheduler{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("session_id", s.id)

	if store != nil {
		s.recents = store.Load(ctx)
	}
	s.logger.Debug("search session opened", "corpus_size", len(corpus), "recents", len(s.recents))
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Dispose cancels any pending debounce and detaches the session. Further
// calls are no-ops and OnUpdate is never called again.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.cancelTimer()
	s.disposed = true
	s.logger.Debug("search session disposed")
}

// Focus opens the panel. Text typed before a close is still there; if it
// was never ranked, ranking is scheduled again.
func (s *Session) Focus() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	switch {
	case s.queryEmpty():
		s.state = StateOpenEmpty
	case s.committed != s.query:
		s.schedule()
	default:
		s.state = StateOpenResults
	}
	s.clampSelection()
}

// Close hides the panel (outside click, route change, Escape). Text and
// results are kept; a pending debounce is cancelled.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.cancelTimer()
	s.state = StateClosed
}

// SetQuery replaces the raw query text, as after a keystroke. The text is
// visible immediately; ranking waits for the debounce window. Clearing the
// text shows recent searches at once.
func (s *Session) SetQuery(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.query = text
	if s.queryEmpty() {
		s.cancelTimer()
		s.committed = ""
		s.results = nil
		s.state = StateOpenEmpty
		s.selection = 0
		s.clampSelection()
		return
	}
	s.schedule()
	s.clampSelection()
}

// Flush ranks a pending query immediately instead of waiting for the
// debounce window. It reports whether anything was pending.
func (s *Session) Flush() bool {
	s.mu.Lock()
	if s.disposed || s.state != StateDebouncing {
		s.mu.Unlock()
		return false
	}
	s.cancelTimer()
	s.rankLocked()
	view := s.viewLocked()
	notify := s.onUpdate
	s.mu.Unlock()

	if notify != nil {
		notify(view)
	}
	return true
}

// Next moves the selection down, wrapping at the end of the pool.
func (s *Session) Next() { s.move(1) }

// Prev moves the selection up, wrapping at the start of the pool.
func (s *Session) Prev() { s.move(-1) }

func (s *Session) move(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := max(1, s.poolLen())
	s.selection = ((s.selection+delta)%n + n) % n
}

// Select sets the selection directly, clamped to the pool.
func (s *Session) Select(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = i
	s.clampSelection()
}

// ClearRecents empties the recency store and the panel's recents view.
func (s *Session) ClearRecents(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	if s.store != nil {
		s.store.Clear(ctx)
	}
	s.recents = nil
	s.clampSelection()
}

// View returns a snapshot of the panel.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Enter acts on the selected pool entry and returns where to navigate.
//
// A recent search becomes the query again, is re-committed to the front of
// the recency store and navigates to the listing for that term. A product
// navigates to its page and commits the typed text, not the product name.
// With an empty pool, non-blank typed text is submitted as a search.
//
// A query still inside its debounce window is ranked first, so the pool
// always belongs to the typed text.
func (s *Session) Enter(ctx context.Context) (Navigation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return Navigation{}, false
	}
	if s.state == StateDebouncing {
		s.cancelTimer()
		s.rankLocked()
	}

	shown := s.shownRecents()
	n := len(shown) + len(s.results)

	switch {
	case n == 0:
		term := strings.TrimSpace(s.query)
		if term == "" {
			return Navigation{}, false
		}
		s.commitLocked(ctx, term)
		s.finishLocked()
		return Navigation{Kind: TargetSearch, Path: search.SearchPath(term), Term: term}, true

	case s.selection < len(shown):
		term := shown[s.selection]
		s.cancelTimer()
		s.query = term
		s.rankLocked()
		s.commitLocked(ctx, term)
		s.finishLocked()
		return Navigation{Kind: TargetSearch, Path: search.SearchPath(term), Term: term}, true

	default:
		r := s.results[s.selection-len(shown)]
		s.commitLocked(ctx, s.query)
		s.finishLocked()
		entry := r.Entry
		return Navigation{
			Kind:  TargetProduct,
			Path:  entry.Path(),
			Term:  strings.TrimSpace(s.query),
			Entry: &entry,
		}, true
	}
}

// schedule (re)starts the debounce timer. Caller holds mu.
func (s *Session) schedule() {
	s.cancelTimer()
	s.state = StateDebouncing
	s.generation++
	gen := s.generation
	s.timer = s.scheduler.AfterFunc(s.debounce, func() { s.fire(gen) })
}

// cancelTimer stops a pending debounce. Caller holds mu.
func (s *Session) cancelTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.generation++
}

// fire runs when the debounce window elapses.
func (s *Session) fire(gen uint64) {
	s.mu.Lock()
	if s.disposed || gen != s.generation || s.state != StateDebouncing {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.rankLocked()
	view := s.viewLocked()
	notify := s.onUpdate
	s.mu.Unlock()

	if notify != nil {
		notify(view)
	}
}

// rankLocked ranks the current query and resets the selection. Caller
// holds mu.
func (s *Session) rankLocked() {
	s.committed = s.query
	s.results = search.Rank(s.corpus, s.query, s.opts)
	s.selection = 0
	s.state = StateOpenResults
	s.metrics.ObserveSearch(len(s.results))
	s.logger.Debug("search ranked", "query", s.query, "results", len(s.results))
}

// commitLocked records term in the recency store and refreshes the
// snapshot. Caller holds mu.
func (s *Session) commitLocked(ctx context.Context, term string) {
	if s.store == nil {
		return
	}
	s.store.Commit(ctx, term)
	s.recents = s.store.List()
}

// finishLocked hides the panel after navigation. Caller holds mu.
func (s *Session) finishLocked() {
	s.cancelTimer()
	s.state = StateClosed
	s.clampSelection()
}

func (s *Session) queryEmpty() bool {
	return strings.TrimSpace(s.query) == ""
}

// shownRecents returns the recents segment of the pool: recents are only
// shown while the query is empty.
func (s *Session) shownRecents() []string {
	if !s.queryEmpty() {
		return nil
	}
	return s.recents
}

func (s *Session) poolLen() int {
	return len(s.shownRecents()) + len(s.results)
}

// clampSelection keeps the selection inside the current pool; an empty
// pool pins it to 0.
func (s *Session) clampSelection() {
	n := s.poolLen()
	switch {
	case n == 0, s.selection < 0:
		s.selection = 0
	case s.selection >= n:
		s.selection = n - 1
	}
}

func (s *Session) viewLocked() View {
	v := View{
		State:     s.state,
		Query:     s.query,
		Committed: s.committed,
		Selection: s.selection,
	}
	if shown := s.shownRecents(); len(shown) > 0 {
		v.Recents = append([]string(nil), shown...)
	}
	if len(s.results) > 0 {
		v.Results = append([]search.Result(nil), s.results...)
	}
	return v
}
