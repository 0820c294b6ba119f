package main

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/daviddao/agents_catalog_viewer/internal/catalog"
	"github.com/daviddao/agents_catalog_viewer/internal/snapshot"
	"github.com/daviddao/agents_catalog_viewer/internal/viewstate"
)

// --- Messages ---

// catalogChangedMsg asks for a silent reload, sent by the file watcher.
type catalogChangedMsg struct{}

// catalogLoadedMsg carries a load result. seq identifies the load that
// produced it; only the latest load is applied.
type catalogLoadedMsg struct {
	records []catalog.Agent
	err     error
	silent  bool
	seq     int
}

type tickMsg struct{}

// --- Key bindings ---

type keyMap struct {
	Quit     key.Binding
	Tab      key.Binding
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Enter    key.Binding
	Esc      key.Binding
	Search   key.Binding
	Sort     key.Binding
	Pricing  key.Binding
	ClearAll key.Binding
	Reload   key.Binding
	Help     key.Binding
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("k/up", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("j/down", "down")),
	Toggle:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle filter")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
	Esc:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
	Pricing:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "cycle pricing")),
	ClearAll: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
	Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Tab, k.Reload, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Tab, k.Toggle, k.Enter},
		{k.Search, k.Sort, k.Pricing, k.ClearAll},
		{k.Reload, k.Esc, k.Help, k.Quit},
	}
}

// --- Views ---

type viewID int

const (
	viewCatalog viewID = iota
	viewDetail
)

type focusArea int

const (
	focusSidebar focusArea = iota
	focusResults
)

// contextHelp returns help text appropriate for the current view and pane.
func contextHelp(v viewID, f focusArea, searching bool) string {
	switch {
	case searching:
		return "type to search | enter/esc: done"
	case v == viewDetail:
		return "j/k: scroll | esc: back | ?: help | q: quit"
	case f == focusSidebar:
		return "j/k: move | space: toggle | /: search | s/p: sort/pricing | c: clear | tab: results | q: quit"
	default:
		return "j/k: select | enter: details | /: search | s/p: sort/pricing | c: clear | tab: filters | q: quit"
	}
}

// --- Sidebar rows ---

type rowKind int

const (
	rowSearch rowKind = iota
	rowSort
	rowPricing
	rowStatus
	rowCategory
	rowClear
)

type sidebarRow struct {
	kind  rowKind
	value string
}

// sidebarRows lists the selectable sidebar rows. Facet rows come from the
// facet option sets of the last load.
func sidebarRows(snap *snapshot.DataSnapshot) []sidebarRow {
	rows := []sidebarRow{{kind: rowSearch}, {kind: rowSort}, {kind: rowPricing}}
	for _, s := range snap.Facets.Statuses {
		rows = append(rows, sidebarRow{kind: rowStatus, value: s})
	}
	for _, c := range snap.Facets.Categories {
		rows = append(rows, sidebarRow{kind: rowCategory, value: c})
	}
	return append(rows, sidebarRow{kind: rowClear})
}

// --- Model ---

type modelOptions struct {
	loadTimeout   time.Duration
	markdownStyle string
	// focusAgent opens this agent's detail view once it is loaded.
	focusAgent string
	log        *zap.Logger
}

type uiModel struct {
	state  *viewstate.State
	loader viewstate.Loader
	snap   *snapshot.DataSnapshot
	log    *zap.Logger

	loadTimeout   time.Duration
	markdownStyle string
	pendingAgent  string
	loadSeq       int // sequence of the most recently started load

	activeView    viewID
	focus         focusArea
	width         int
	height        int
	sidebarCursor int
	cardCursor    int
	scrollPos     int    // detail view
	detailID      string // agent shown in the detail view
	detailBody    string // rendered markdown, cached per width

	search    textinput.Model
	searching bool
	spinner   spinner.Model
	help      help.Model
	showHelp  bool
}

// newModel moves state into the loading phase; Init starts the load.
func newModel(state *viewstate.State, loader viewstate.Loader, opts modelOptions) uiModel {
	log := opts.log
	if log == nil {
		log = zap.NewNop()
	}
	state.BeginLoad()
	snap := state.Snapshot()

	ti := textinput.New()
	ti.Placeholder = "Search agents..."
	ti.Prompt = ""
	ti.CharLimit = 120
	ti.SetValue(snap.Criteria.SearchQuery)

	return uiModel{
		state:         state,
		loader:        loader,
		snap:          snap,
		log:           log,
		loadTimeout:   opts.loadTimeout,
		markdownStyle: opts.markdownStyle,
		pendingAgent:  opts.focusAgent,
		loadSeq:       1,
		search:        ti,
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:          help.New(),
	}
}

func (m uiModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadCatalog(false),
		tickEvery(),
	)
}

func tickEvery() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadCatalog runs the loader off the UI goroutine, stamped with the current
// load sequence. The result is applied to the view state in Update, which
// keeps the state single-writer.
func (m uiModel) loadCatalog(silent bool) tea.Cmd {
	loader, timeout, seq := m.loader, m.loadTimeout, m.loadSeq
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		records, err := loader.Load(ctx)
		return catalogLoadedMsg{records: records, err: err, silent: silent, seq: seq}
	}
}

// startLoad supersedes any load still in flight.
func (m uiModel) startLoad(silent bool) (uiModel, tea.Cmd) {
	m.loadSeq++
	return m, m.loadCatalog(silent)
}

// reload starts a visible reload unless one is already running.
func (m uiModel) reload() (uiModel, tea.Cmd) {
	if m.snap.Phase == snapshot.PhaseLoading {
		return m, nil
	}
	m.state.BeginLoad()
	m = m.refresh()
	m, load := m.startLoad(false)
	return m, tea.Batch(m.spinner.Tick, load)
}

// refresh swaps in a fresh snapshot and clamps the cursors to it.
func (m uiModel) refresh() uiModel {
	m.snap = m.state.Snapshot()
	if n := len(m.snap.Visible); m.cardCursor >= n {
		m.cardCursor = max(0, n-1)
	}
	if n := len(sidebarRows(m.snap)); m.sidebarCursor >= n {
		m.sidebarCursor = n - 1
	}
	return m
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.activeView == viewDetail {
			return m.updateDetail(msg)
		}
		return m.updateCatalog(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.activeView == viewDetail {
			m = m.openDetail(m.detailID)
		}

	case catalogChangedMsg:
		// A running load may have read the catalog before this change.
		return m.startLoad(true)

	case catalogLoadedMsg:
		if msg.seq != m.loadSeq {
			m.log.Debug("stale catalog load dropped", zap.Int("seq", msg.seq), zap.Int("latest", m.loadSeq))
			return m, nil
		}
		return m.applyLoad(msg), nil

	case spinner.TickMsg:
		if m.snap.Phase != snapshot.PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m, tickEvery()
	}

	return m, nil
}

func (m uiModel) applyLoad(msg catalogLoadedMsg) uiModel {
	if msg.err != nil {
		m.state.FailLoad(msg.err)
		return m.refresh()
	}
	if err := m.state.Load(msg.records); err != nil {
		return m.refresh()
	}
	m = m.refresh()
	if !msg.silent {
		m.log.Debug("catalog applied", zap.Int("visible", len(m.snap.Visible)))
	}

	if m.pendingAgent != "" {
		id := m.pendingAgent
		m.pendingAgent = ""
		if i := m.snap.IndexOf(id); i >= 0 {
			m.cardCursor = i
			m.focus = focusResults
			m = m.openDetail(id)
		} else {
			m.log.Warn("agent not visible", zap.String("id", id))
		}
	}
	// The detail view keeps showing its agent only while it stays visible.
	if m.activeView == viewDetail {
		if _, ok := m.snap.Find(m.detailID); !ok {
			m.activeView = viewCatalog
			m.detailID = ""
		}
	}
	return m
}

func (m uiModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter", "esc", "tab":
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if q := m.search.Value(); q != m.snap.Criteria.SearchQuery {
		m.state.SetSearchQuery(q)
		m = m.refresh()
	}
	return m, cmd
}

func (m uiModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Esc), key.Matches(msg, keys.Tab):
		m.activeView = viewCatalog
		m.detailID = ""
		m.scrollPos = 0
	case key.Matches(msg, keys.Up):
		if m.scrollPos > 0 {
			m.scrollPos--
		}
	case key.Matches(msg, keys.Down):
		// View() clamps if we overshoot.
		m.scrollPos++
	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m uiModel) updateCatalog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.focus == focusSidebar {
			m.focus = focusResults
		} else {
			m.focus = focusSidebar
		}

	case key.Matches(msg, keys.Search):
		return m.startSearch()

	case key.Matches(msg, keys.Sort):
		m = m.cycleSort()

	case key.Matches(msg, keys.Pricing):
		m = m.cyclePricing()

	case key.Matches(msg, keys.ClearAll):
		m = m.clearAll()

	case key.Matches(msg, keys.Reload):
		return m.reload()

	case key.Matches(msg, keys.Up):
		if m.focus == focusSidebar {
			if m.sidebarCursor > 0 {
				m.sidebarCursor--
			}
		} else if m.cardCursor > 0 {
			m.cardCursor--
		}

	case key.Matches(msg, keys.Down):
		if m.focus == focusSidebar {
			if m.sidebarCursor < len(sidebarRows(m.snap))-1 {
				m.sidebarCursor++
			}
		} else if m.cardCursor < len(m.snap.Visible)-1 {
			m.cardCursor++
		}

	case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
		if m.focus == focusSidebar {
			return m.activateRow()
		}
		if key.Matches(msg, keys.Enter) && m.cardCursor < len(m.snap.Visible) {
			m = m.openDetail(m.snap.Visible[m.cardCursor].ID)
		}

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m uiModel) startSearch() (tea.Model, tea.Cmd) {
	m.searching = true
	m.focus = focusSidebar
	m.sidebarCursor = 0
	return m, m.search.Focus()
}

// activateRow applies the action of the sidebar row under the cursor.
func (m uiModel) activateRow() (tea.Model, tea.Cmd) {
	rows := sidebarRows(m.snap)
	if m.sidebarCursor >= len(rows) {
		return m, nil
	}
	row := rows[m.sidebarCursor]
	switch row.kind {
	case rowSearch:
		return m.startSearch()
	case rowSort:
		m = m.cycleSort()
	case rowPricing:
		m = m.cyclePricing()
	case rowStatus:
		checked := !slices.Contains(m.snap.Criteria.Statuses, row.value)
		m.state.ToggleStatusFilter(row.value, checked)
		m = m.refresh()
	case rowCategory:
		checked := !slices.Contains(m.snap.Criteria.Categories, row.value)
		m.state.ToggleCategoryFilter(row.value, checked)
		m = m.refresh()
	case rowClear:
		m = m.clearAll()
	}
	return m, nil
}

func (m uiModel) cycleSort() uiModel {
	m.state.SetSortKey(m.snap.Criteria.SortBy.Next())
	return m.refresh()
}

// cyclePricing steps through "all" followed by the pricing facet values.
func (m uiModel) cyclePricing() uiModel {
	options := append([]string{catalog.PricingAll}, m.snap.Facets.PricingModels...)
	i := slices.Index(options, m.snap.Criteria.PricingModel)
	m.state.SetPricingModelFilter(options[(i+1)%len(options)])
	return m.refresh()
}

func (m uiModel) clearAll() uiModel {
	m.state.ClearAllFilters()
	m.search.SetValue("")
	m.cardCursor = 0
	return m.refresh()
}

func (m uiModel) openDetail(id string) uiModel {
	a, ok := m.snap.Find(id)
	if !ok {
		return m
	}
	if m.detailID != id {
		m.scrollPos = 0
	}
	m.activeView = viewDetail
	m.detailID = id
	m.detailBody = renderAgentMarkdown(a, m.markdownStyle, m.width)
	return m
}
