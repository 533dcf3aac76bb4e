package picker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/runger/storefind/internal/catalog"
	"github.com/runger/storefind/internal/locale"
	"github.com/runger/storefind/internal/metrics"
	"github.com/runger/storefind/internal/recents"
	"github.com/runger/storefind/internal/search"
	"github.com/runger/storefind/internal/session"
)

// debounceMsg fires after the debounce tick expires.
type debounceMsg struct {
	id uint64 // Must match current debounceID to be accepted
}

// initMsg is sent by Init() so the session is focused through Update,
// where state mutations are visible to the Bubble Tea runtime.
type initMsg struct{}

// Options configures a picker Model.
type Options struct {
	Search       search.Options
	Debounce     time.Duration // default session.DefaultDebounce
	InitialQuery string
	Locale       locale.Locale
	Logger       *slog.Logger
	Metrics      *metrics.Recorder
}

// Model is the Bubble Tea model for the product search panel. It renders
// a session.Session and forwards keys to it.
//
// The session's debounce timer runs on a ManualScheduler that the model
// fires from a tea.Tick, so ranking always happens on the Bubble Tea
// event loop.
type Model struct {
	ctx     context.Context
	session *session.Session
	sched   *session.ManualScheduler
	input   textinput.Model
	labels  labels

	debounce time.Duration
	// debounceID tracks the latest tick; only a matching debounceMsg
	// fires the session's pending debounce.
	debounceID   uint64
	initialQuery string

	width  int // Terminal width
	height int // Terminal height

	nav       *session.Navigation
	cancelled bool
}

// NewModel opens a search session over corpus and wraps it in a Model.
// store may be nil. Call Dispose when the program exits.
func NewModel(ctx context.Context, corpus []catalog.Entry, store *recents.Store, opts Options) Model {
	if opts.Debounce <= 0 {
		opts.Debounce = session.DefaultDebounce
	}
	sched := &session.ManualScheduler{}
	sess := session.Open(ctx, corpus, store, session.Config{
		Debounce:  opts.Debounce,
		Search:    opts.Search,
		Scheduler: sched,
		Logger:    opts.Logger,
		Metrics:   opts.Metrics,
	})

	lb := labelsFor(opts.Locale)
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = lb.placeholder
	ti.PromptStyle = queryStyle
	ti.CharLimit = 256

	return Model{
		ctx:          ctx,
		session:      sess,
		sched:        sched,
		input:        ti,
		labels:       lb,
		debounce:     opts.Debounce,
		initialQuery: opts.InitialQuery,
	}
}

// Result returns where to navigate after the user pressed Enter.
func (m Model) Result() (session.Navigation, bool) {
	if m.nav == nil {
		return session.Navigation{}, false
	}
	return *m.nav, true
}

// Cancelled reports whether the user dismissed the panel.
func (m Model) Cancelled() bool { return m.cancelled }

// Session exposes the underlying session.
func (m Model) Session() *session.Session { return m.session }

// Dispose releases the session.
func (m Model) Dispose() { m.session.Dispose() }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return initMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-len(m.input.Prompt)-1, 0)
		return m, nil

	case debounceMsg:
		return m.handleDebounce(msg)

	case initMsg:
		cmd := m.input.Focus()
		m.session.Focus()
		if m.initialQuery != "" {
			m.input.SetValue(m.initialQuery)
			m.input.CursorEnd()
			m.session.SetQuery(m.initialQuery)
			return m, tea.Batch(cmd, m.startDebounce())
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.cancelled = true
		m.session.Close()
		return m, tea.Quit

	case tea.KeyEnter:
		nav, ok := m.session.Enter(m.ctx)
		if !ok {
			return m, nil
		}
		m.nav = &nav
		return m, tea.Quit

	case tea.KeyUp, tea.KeyCtrlP, tea.KeyShiftTab:
		m.session.Prev()
		return m, nil

	case tea.KeyDown, tea.KeyCtrlN, tea.KeyTab:
		m.session.Next()
		return m, nil

	case tea.KeyCtrlX:
		if m.session.View().Query == "" {
			m.session.ClearRecents(m.ctx)
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.session.SetQuery(after)
		return m, tea.Batch(cmd, m.startDebounce())
	}
	return m, cmd
}

// handleDebounce fires the session's pending ranking if the tick is still
// current.
func (m Model) handleDebounce(msg debounceMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.debounceID {
		return m, nil // Stale tick; a later keystroke owns the window.
	}
	m.sched.Fire()
	return m, nil
}

// startDebounce increments the debounce counter and returns a tea.Tick
// command that fires after the debounce window.
func (m *Model) startDebounce() tea.Cmd {
	m.debounceID++
	id := m.debounceID
	return tea.Tick(m.debounce, func(time.Time) tea.Msg {
		return debounceMsg{id: id}
	})
}

// listHeight returns the number of visible list rows (terminal height minus
// query line, section headers and status line).
func (m Model) listHeight() int {
	const chrome = 4
	h := m.height - chrome
	if h < 1 {
		h = 20 // Sensible default before first WindowSizeMsg
	}
	return h
}

// --- View rendering ---

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	matchStyle     = lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("214"))
	queryStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedMarker = selectedStyle.Render("> ")
)

// View implements tea.Model.
func (m Model) View() string {
	v := m.session.View()

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteRune('\n')
	b.WriteString(m.viewContent(v))
	return b.String()
}

// viewContent renders the pool or a status line.
func (m Model) viewContent(v session.View) string {
	switch {
	case v.State == session.StateDebouncing && v.Len() == 0:
		return dimStyle.Render(m.labels.searching)
	case v.Len() == 0 && strings.TrimSpace(v.Query) != "":
		return dimStyle.Render(m.labels.noResults)
	case v.Len() == 0:
		return dimStyle.Render(m.labels.hint)
	}
	return m.viewList(v)
}

// viewList renders the recents and results segments with the selection
// marker. Only listHeight rows fit; the window scrolls to keep the
// selected row visible.
func (m Model) viewList(v session.View) string {
	pool := v.Pool()
	start, end := listWindow(v.Selection, len(pool), m.listHeight())

	var lines []string
	for i := start; i < end; i++ {
		item := pool[i]
		switch {
		case item.Kind == session.ItemRecent && i == start:
			lines = append(lines, headerStyle.Render(m.labels.recents))
		case item.Kind == session.ItemResult && (i == start || i == len(v.Recents)):
			lines = append(lines, headerStyle.Render(m.labels.products))
		}

		marker := "  "
		if i == v.Selection {
			marker = selectedMarker
		}
		lines = append(lines, marker+m.renderItem(item, i == v.Selection))
	}
	return strings.Join(lines, "\n")
}

// listWindow returns the [start, end) range of pool rows to draw so that
// selected is inside a window of at most height rows.
func listWindow(selected, n, height int) (int, int) {
	if height < 1 {
		height = 1
	}
	if n <= height {
		return 0, n
	}
	start := 0
	if selected >= height {
		start = selected - height + 1
	}
	if start > n-height {
		start = n - height
	}
	return start, start + height
}

// renderItem renders one pool row, highlighting the literal query match
// when the row fits the terminal untruncated.
func (m Model) renderItem(item session.Item, selected bool) string {
	base := normalStyle
	if selected {
		base = selectedStyle
	}

	suffix := ""
	if r := item.Result; r != nil {
		suffix = "  " + r.Entry.Category
		if r.Entry.Price > 0 {
			suffix += fmt.Sprintf("  %.2f", r.Entry.Price)
		}
	}

	avail := -1
	if m.width > 4 {
		avail = m.width - 4 - runewidth.StringWidth(suffix)
	}

	h := item.Highlight
	text := displayText(item.Text)
	if avail >= 0 && runewidth.StringWidth(text) > avail {
		return base.Render(MiddleTruncate(text, avail)) + dimStyle.Render(suffix)
	}
	if !h.Matched() {
		return base.Render(text) + dimStyle.Render(suffix)
	}
	return fmt.Sprintf("%s%s%s%s",
		base.Render(displayText(h.Before)),
		matchStyle.Render(displayText(h.Match)),
		base.Render(displayText(h.After)),
		dimStyle.Render(suffix),
	)
}

// labels holds the panel's user-facing strings for one locale.
type labels struct {
	placeholder string
	recents     string
	products    string
	searching   string
	noResults   string
	hint        string
}

func labelsFor(loc locale.Locale) labels {
	if loc == locale.French {
		return labels{
			placeholder: "Rechercher un produit",
			recents:     "Recherches récentes",
			products:    "Produits",
			searching:   "Recherche…",
			noResults:   "Aucun résultat",
			hint:        "Tapez pour rechercher",
		}
	}
	return labels{
		placeholder: "Search products",
		recents:     "Recent searches",
		products:    "Products",
		searching:   "Searching…",
		noResults:   "No results",
		hint:        "Type to search",
	}
}
