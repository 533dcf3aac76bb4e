package picker

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runger/storefind/internal/catalog"
	"github.com/runger/storefind/internal/locale"
	"github.com/runger/storefind/internal/recents"
	"github.com/runger/storefind/internal/session"
	"github.com/runger/storefind/internal/storage"
)

var testCorpus = []catalog.Entry{
	{Slug: "sheen-wipes", Name: "Sheen Wipes", Category: "interior", Price: 9.5},
	{Slug: "monster-fresh-vanilla", Name: "Monster Fresh Vanilla", Category: "air-fresheners"},
	{Slug: "hydro-wax-spray", Name: "Hydro Wax Spray", Category: "exterior"},
}

func newTestModel(t *testing.T, opts Options, seed ...string) (Model, *recents.Store) {
	t.Helper()
	ctx := context.Background()
	store := recents.New(storage.NewMemoryStore(), recents.Config{})
	for i := len(seed) - 1; i >= 0; i-- {
		store.Commit(ctx, seed[i])
	}
	m := NewModel(ctx, testCorpus, store, opts)
	t.Cleanup(m.Dispose)
	m.width = 80
	m.height = 24
	return m, store
}

// runCmd executes a tea.Cmd synchronously and returns the resulting message.
func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	result, cmd := m.Update(msg)
	next, ok := result.(Model)
	require.True(t, ok)
	return next, cmd
}

func focus(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, initMsg{})
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func key(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: k})
}

// settle delivers the current debounce tick.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	m, _ = update(t, m, debounceMsg{id: m.debounceID})
	return m
}

func isQuit(cmd tea.Cmd) bool {
	_, ok := runCmd(cmd).(tea.QuitMsg)
	return ok
}

func TestModel_InitFocusesSession(t *testing.T) {
	m, _ := newTestModel(t, Options{}, "wax")
	assert.NotNil(t, m.Init())

	m = focus(t, m)
	v := m.Session().View()
	assert.Equal(t, session.StateOpenEmpty, v.State)
	assert.Equal(t, []string{"wax"}, v.Recents)
	assert.Contains(t, m.View(), "Recent searches")
	assert.Contains(t, m.View(), "wax")
}

func TestModel_TypingDebounces(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = focus(t, m)

	m = typeText(t, m, "wipes")
	assert.Equal(t, "wipes", m.input.Value())
	assert.Equal(t, session.StateDebouncing, m.Session().View().State)
	assert.Contains(t, m.View(), "Searching")

	// A stale tick does nothing.
	m, _ = update(t, m, debounceMsg{id: m.debounceID - 1})
	assert.Equal(t, session.StateDebouncing, m.Session().View().State)

	m = settle(t, m)
	v := m.Session().View()
	assert.Equal(t, session.StateOpenResults, v.State)
	require.Len(t, v.Results, 1)
	assert.Contains(t, m.View(), "Products")
	assert.Contains(t, m.View(), "interior")
	assert.Contains(t, m.View(), "9.50")
}

func TestModel_DebounceTickUsesWindow(t *testing.T) {
	m, _ := newTestModel(t, Options{Debounce: 5 * time.Millisecond})
	m = focus(t, m)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	require.NotNil(t, cmd)
	assert.Equal(t, uint64(1), m.debounceID)
}

func TestModel_NoResults(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = focus(t, m)
	m = settle(t, typeText(t, m, "zzz"))
	assert.Contains(t, m.View(), "No results")
}

func TestModel_ArrowsWrap(t *testing.T) {
	m, _ := newTestModel(t, Options{}, "a", "b", "c")
	m = focus(t, m)

	m, _ = key(t, m, tea.KeyUp)
	assert.Equal(t, 2, m.Session().View().Selection)
	m, _ = key(t, m, tea.KeyDown)
	assert.Equal(t, 0, m.Session().View().Selection)
	m, _ = key(t, m, tea.KeyTab)
	assert.Equal(t, 1, m.Session().View().Selection)
}

func TestModel_EnterOnResult(t *testing.T) {
	m, store := newTestModel(t, Options{})
	m = focus(t, m)
	m = settle(t, typeText(t, m, "wax"))

	m, cmd := key(t, m, tea.KeyEnter)
	assert.True(t, isQuit(cmd))
	nav, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, session.TargetProduct, nav.Kind)
	assert.Equal(t, "/products/exterior/hydro-wax-spray", nav.Path)
	assert.Equal(t, []string{"wax"}, store.List())
	assert.False(t, m.Cancelled())
}

func TestModel_EnterRanksPendingQuery(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = focus(t, m)
	m = typeText(t, m, "wipes")

	m, cmd := key(t, m, tea.KeyEnter)
	assert.True(t, isQuit(cmd))
	nav, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, "/products/interior/sheen-wipes", nav.Path)
}

func TestModel_EnterOnEmptyPanelIgnored(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = focus(t, m)

	m, cmd := key(t, m, tea.KeyEnter)
	assert.Nil(t, cmd)
	_, ok := m.Result()
	assert.False(t, ok)
}

func TestModel_EscCancels(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m = focus(t, m)
	m = typeText(t, m, "wax")

	m, cmd := key(t, m, tea.KeyEsc)
	assert.True(t, isQuit(cmd))
	assert.True(t, m.Cancelled())
	assert.Equal(t, session.StateClosed, m.Session().View().State)
	_, ok := m.Result()
	assert.False(t, ok)
}

func TestModel_CtrlXClearsRecents(t *testing.T) {
	m, store := newTestModel(t, Options{}, "wax", "foam")
	m = focus(t, m)

	m, _ = key(t, m, tea.KeyCtrlX)
	assert.Empty(t, store.List())
	assert.Empty(t, m.Session().View().Recents)
	assert.Contains(t, m.View(), "Type to search")
}

func TestModel_InitialQuery(t *testing.T) {
	m, _ := newTestModel(t, Options{InitialQuery: "fresh"})
	m = focus(t, m)
	assert.Equal(t, "fresh", m.input.Value())
	assert.Equal(t, session.StateDebouncing, m.Session().View().State)

	m = settle(t, m)
	assert.NotEmpty(t, m.Session().View().Results)
}

func TestModel_FrenchLabels(t *testing.T) {
	m, _ := newTestModel(t, Options{Locale: locale.French}, "cire")
	m = focus(t, m)
	assert.Contains(t, m.View(), "Recherches récentes")

	m = settle(t, typeText(t, m, "qqq"))
	assert.Contains(t, m.View(), "Aucun résultat")
}

func TestModel_WindowSize(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 30, Height: 5})
	assert.Equal(t, 30, m.width)
	assert.Equal(t, 1, m.listHeight())

	m.height = 0
	assert.Equal(t, 20, m.listHeight())
}

func TestModel_ListRespectsHeight(t *testing.T) {
	m, _ := newTestModel(t, Options{}, "one", "two", "three", "four")
	m = focus(t, m)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 6})

	view := m.View()
	assert.Contains(t, view, "one")
	assert.Contains(t, view, "two")
	assert.NotContains(t, view, "three")
}

func TestModel_EnterAfterRetyping(t *testing.T) {
	m, store := newTestModel(t, Options{})
	m = focus(t, m)
	m = settle(t, typeText(t, m, "wax"))

	for range "wax" {
		m, _ = key(t, m, tea.KeyBackspace)
	}
	m = typeText(t, m, "wipes")

	m, cmd := key(t, m, tea.KeyEnter)
	assert.True(t, isQuit(cmd))
	nav, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, "/products/interior/sheen-wipes", nav.Path)
	assert.Equal(t, []string{"wipes"}, store.List())
}

func TestModel_ListScrollsToSelection(t *testing.T) {
	m, _ := newTestModel(t, Options{}, "one", "two", "three", "four")
	m = focus(t, m)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 6})

	m, _ = key(t, m, tea.KeyDown)
	m, _ = key(t, m, tea.KeyDown)
	m, _ = key(t, m, tea.KeyDown)
	require.Equal(t, 3, m.Session().View().Selection)

	view := m.View()
	assert.Contains(t, view, "four")
	assert.Contains(t, view, selectedMarker)
	assert.Contains(t, view, "Recent searches")
	assert.NotContains(t, view, "one")

	// Wrapping back to the top scrolls up again.
	m, _ = key(t, m, tea.KeyDown)
	view = m.View()
	assert.Contains(t, view, "one")
	assert.NotContains(t, view, "four")
}

func TestListWindow(t *testing.T) {
	tests := []struct {
		name                string
		selected, n, height int
		wantStart, wantEnd  int
	}{
		{"fits", 2, 3, 5, 0, 3},
		{"top", 0, 10, 4, 0, 4},
		{"inside first page", 3, 10, 4, 0, 4},
		{"scrolled", 5, 10, 4, 2, 6},
		{"last", 9, 10, 4, 6, 10},
		{"zero height", 3, 10, 0, 3, 4},
		{"empty", 0, 0, 4, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := listWindow(tt.selected, tt.n, tt.height)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestRenderItem_Truncates(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	m.width = 12
	item := session.Item{Kind: session.ItemRecent, Text: "a very long recent search"}
	assert.Contains(t, m.renderItem(item, false), "…")
}
