package main

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/daviddao/agents_catalog_viewer/internal/catalog"
	"github.com/daviddao/agents_catalog_viewer/internal/snapshot"
	"github.com/daviddao/agents_catalog_viewer/internal/viewstate"
)

// Sidebar row positions for testAgents: search, sort, pricing, two
// statuses, three categories, clear.
const (
	rowIdxActive   = 3
	rowIdxBeta     = 4
	rowIdxFinance  = 6
	rowIdxClearAll = 8
)

func testAgents() []catalog.Agent {
	return []catalog.Agent{
		{ID: "a1", Name: "Support Bot", Description: "Handles tickets", Category: "Customer Service", Status: "Active", PricingModel: "Subscription"},
		{ID: "a2", Name: "Ledger", Description: "Reconciles accounts", Category: "Finance", Status: "Beta", PricingModel: "Per-Use"},
		{ID: "a3", Name: "Scout", Description: "Finds leads", Category: "Marketing", Status: "Active", PricingModel: "Free Tier"},
	}
}

// testModel creates a loaded uiModel (no loader needed for render tests).
func testModel() uiModel {
	return testModelWith(modelOptions{markdownStyle: "notty"})
}

func testModelWith(opts modelOptions) uiModel {
	if opts.markdownStyle == "" {
		opts.markdownStyle = "notty"
	}
	m := newModel(viewstate.New(nil), nil, opts)
	m.width = 100
	m.height = 30
	m.help.Width = 100
	return m.applyLoad(catalogLoadedMsg{records: testAgents()})
}

func press(m uiModel, msgs ...tea.KeyMsg) uiModel {
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(uiModel)
	}
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

var spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func visibleNames(snap *snapshot.DataSnapshot) []string {
	names := make([]string, len(snap.Visible))
	for i, a := range snap.Visible {
		names[i] = a.Name
	}
	return names
}

func TestViewLoading(t *testing.T) {
	m := testModel()
	m.width = 0

	out := m.View()
	if out != "Loading..." {
		t.Errorf("expected 'Loading...' when width=0, got %q", out)
	}
}

func TestViewLoadingStateShowsSkeleton(t *testing.T) {
	m := newModel(viewstate.New(nil), nil, modelOptions{})
	m.width = 100
	m.height = 30

	if m.snap.Phase != snapshot.PhaseLoading {
		t.Fatalf("new model should be loading, got %s", m.snap.Phase)
	}
	out := m.View()
	if !strings.Contains(out, "Loading agents...") {
		t.Error("loading view should show the loading indicator")
	}
	if !strings.Contains(out, "░") {
		t.Error("loading view should show skeleton cards")
	}
	if !strings.Contains(out, "loading") {
		t.Error("status bar should report loading")
	}
}

func TestViewFailedState(t *testing.T) {
	m := newModel(viewstate.New(nil), nil, modelOptions{})
	m.width = 100
	m.height = 30
	m = m.applyLoad(catalogLoadedMsg{err: errors.New("Failed to load agents data")})

	if m.snap.Phase != snapshot.PhaseFailed {
		t.Fatalf("expected failed phase, got %s", m.snap.Phase)
	}
	out := m.View()
	for _, want := range []string{"Error loading agents", "Failed to load agents data", "press r to retry"} {
		if !strings.Contains(out, want) {
			t.Errorf("failed view should contain %q", want)
		}
	}
}

func TestRenderResultsShowsCards(t *testing.T) {
	m := testModel()
	out := m.renderResults(60, 30)

	for _, want := range []string{"Support Bot", "Ledger", "Scout", "Showing 3 of 3 AI agents"} {
		if !strings.Contains(out, want) {
			t.Errorf("results should contain %q", want)
		}
	}
	if strings.Contains(out, "(filtered)") {
		t.Error("unfiltered summary should not say (filtered)")
	}
	if !strings.Contains(out, "● Beta") || !strings.Contains(out, "● Free Tier") {
		t.Error("cards should show status and pricing badges")
	}
}

func TestRenderResultsEmptyState(t *testing.T) {
	m := testModel()
	m.state.SetSearchQuery("zzz")
	m = m.refresh()

	out := m.renderResults(60, 30)
	if !strings.Contains(out, "No AI agents found") {
		t.Error("empty result should show 'No AI agents found'")
	}
	if !strings.Contains(out, "Clear All Filters") {
		t.Error("empty result with active filters should offer Clear All Filters")
	}
	if !strings.Contains(out, "Showing 0 of 3 AI agents (filtered)") {
		t.Error("summary should report the filtered count")
	}
}

func TestRenderResultsEmptyCatalog(t *testing.T) {
	m := newModel(viewstate.New(nil), nil, modelOptions{})
	m = m.applyLoad(catalogLoadedMsg{records: []catalog.Agent{}})

	out := m.renderResults(60, 30)
	if !strings.Contains(out, "No AI agents found") {
		t.Error("empty catalog should show 'No AI agents found'")
	}
	if strings.Contains(out, "Press c to Clear All Filters") {
		t.Error("clear hint should only show with active filters")
	}
}

func TestRenderSidebar(t *testing.T) {
	m := testModel()
	out := m.renderSidebar()

	for _, want := range []string{
		"Filters", "Search:", "Sort by: Name", "Pricing: All",
		"Status", "[ ] Active", "[ ] Beta",
		"Category", "Customer Service", "Finance", "Marketing",
		"Clear All Filters",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("sidebar should contain %q", want)
		}
	}
	if !strings.Contains(out, "> ") {
		t.Error("sidebar should show cursor '> ' when focused")
	}
}

func TestSidebarRowsFollowFacets(t *testing.T) {
	m := testModel()
	rows := sidebarRows(m.snap)

	if len(rows) != rowIdxClearAll+1 {
		t.Fatalf("expected %d rows, got %d", rowIdxClearAll+1, len(rows))
	}
	if rows[rowIdxActive] != (sidebarRow{kind: rowStatus, value: "Active"}) {
		t.Errorf("row %d = %+v, want Active status", rowIdxActive, rows[rowIdxActive])
	}
	if rows[rowIdxFinance] != (sidebarRow{kind: rowCategory, value: "Finance"}) {
		t.Errorf("row %d = %+v, want Finance category", rowIdxFinance, rows[rowIdxFinance])
	}
	if rows[rowIdxClearAll].kind != rowClear {
		t.Error("last row should be clear-all")
	}
}

func TestUpdateToggleStatusFilter(t *testing.T) {
	m := testModel()
	m.sidebarCursor = rowIdxActive

	m = press(m, spaceKey)
	if got := m.state.Criteria().Statuses; !slices.Equal(got, []string{"Active"}) {
		t.Fatalf("space should select Active, got %v", got)
	}
	if got := visibleNames(m.snap); !slices.Equal(got, []string{"Scout", "Support Bot"}) {
		t.Errorf("visible = %v, want [Scout Support Bot]", got)
	}
	if out := m.View(); !strings.Contains(out, "[x] Active") || !strings.Contains(out, "(filtered)") {
		t.Error("view should show the checked status and the filtered summary")
	}

	// Union within the status dimension.
	m.sidebarCursor = rowIdxBeta
	m = press(m, spaceKey)
	if len(m.snap.Visible) != 3 {
		t.Errorf("Active+Beta should show all 3 agents, got %d", len(m.snap.Visible))
	}

	// Toggling again removes.
	m.sidebarCursor = rowIdxActive
	m = press(m, spaceKey)
	if got := visibleNames(m.snap); !slices.Equal(got, []string{"Ledger"}) {
		t.Errorf("visible = %v, want [Ledger]", got)
	}
}

func TestUpdateToggleCategoryWithEnter(t *testing.T) {
	m := testModel()
	m.sidebarCursor = rowIdxFinance

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := m.state.Criteria().Categories; !slices.Equal(got, []string{"Finance"}) {
		t.Fatalf("enter should select Finance, got %v", got)
	}
	if got := visibleNames(m.snap); !slices.Equal(got, []string{"Ledger"}) {
		t.Errorf("visible = %v, want [Ledger]", got)
	}
}

func TestUpdateSortCycle(t *testing.T) {
	m := testModel()
	if got := visibleNames(m.snap); !slices.Equal(got, []string{"Ledger", "Scout", "Support Bot"}) {
		t.Fatalf("name order = %v", got)
	}

	m = press(m, runeKey('s'))
	if m.snap.Criteria.SortBy != catalog.SortByCategory {
		t.Fatalf("s should switch to category, got %s", m.snap.Criteria.SortBy)
	}
	if got := visibleNames(m.snap); !slices.Equal(got, []string{"Support Bot", "Ledger", "Scout"}) {
		t.Errorf("category order = %v", got)
	}

	m = press(m, runeKey('s'), runeKey('s'), runeKey('s'))
	if m.snap.Criteria.SortBy != catalog.SortByName {
		t.Errorf("four presses should wrap to name, got %s", m.snap.Criteria.SortBy)
	}
}

func TestUpdatePricingCycle(t *testing.T) {
	m := testModel()
	want := []string{"Subscription", "Per-Use", "Free Tier", catalog.PricingAll}
	for i, w := range want {
		m = press(m, runeKey('p'))
		if got := m.snap.Criteria.PricingModel; got != w {
			t.Fatalf("press %d: pricing = %q, want %q", i+1, got, w)
		}
	}

	m = press(m, runeKey('p'), runeKey('p'))
	if got := visibleNames(m.snap); !slices.Equal(got, []string{"Ledger"}) {
		t.Errorf("Per-Use should show only Ledger, got %v", got)
	}
}

func TestUpdateClearAll(t *testing.T) {
	m := testModel()
	m.sidebarCursor = rowIdxActive
	m = press(m, spaceKey, runeKey('s'), runeKey('p'), runeKey('/'), runeKey('x'), tea.KeyMsg{Type: tea.KeyEsc})
	if !m.snap.HasActiveFilters {
		t.Fatal("setup should leave filters active")
	}

	m = press(m, runeKey('c'))
	if got := m.state.Criteria(); !reflect.DeepEqual(got, catalog.DefaultCriteria()) {
		t.Errorf("c should restore default criteria, got %+v", got)
	}
	if m.search.Value() != "" {
		t.Errorf("search input should be cleared, got %q", m.search.Value())
	}
	if len(m.snap.Visible) != 3 {
		t.Errorf("all agents should be visible after clear, got %d", len(m.snap.Visible))
	}
}

func TestUpdateClearAllRow(t *testing.T) {
	m := testModel()
	m.state.SetSearchQuery("ledg")
	m = m.refresh()
	m.sidebarCursor = rowIdxClearAll

	m = press(m, spaceKey)
	if m.snap.HasActiveFilters {
		t.Error("clear-all row should reset the filters")
	}
}

func TestUpdateSearchTyping(t *testing.T) {
	m := testModel()

	m = press(m, runeKey('/'))
	if !m.searching {
		t.Fatal("/ should start searching")
	}
	m = press(m, runeKey('L'), runeKey('e'), runeKey('d'), runeKey('g'))
	if got := m.state.Criteria().SearchQuery; got != "Ledg" {
		t.Fatalf("search query = %q, want Ledg", got)
	}
	if got := visibleNames(m.snap); !slices.Equal(got, []string{"Ledger"}) {
		t.Errorf("visible = %v, want [Ledger]", got)
	}

	// q types while searching instead of quitting.
	m = press(m, runeKey('q'))
	if !m.searching {
		t.Fatal("q should not leave the search")
	}
	if got := m.state.Criteria().SearchQuery; got != "Ledgq" {
		t.Errorf("search query = %q, want Ledgq", got)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.searching {
		t.Error("esc should end searching")
	}
	if m.state.Criteria().SearchQuery != "Ledgq" {
		t.Error("ending the search should keep the query")
	}
}

func TestUpdateTabSwitchesFocus(t *testing.T) {
	m := testModel()
	if m.focus != focusSidebar {
		t.Fatalf("initial focus should be the sidebar")
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusResults {
		t.Error("tab should focus the results")
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusSidebar {
		t.Error("tab should focus the sidebar again")
	}
}

func TestUpdateUpDownCards(t *testing.T) {
	m := testModel()
	m.focus = focusResults

	m = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.cardCursor != 2 {
		t.Errorf("down should stop at the last card, got %d", m.cardCursor)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyUp})
	if m.cardCursor != 0 {
		t.Errorf("up should stop at the first card, got %d", m.cardCursor)
	}
}

func TestUpdateUpDownSidebar(t *testing.T) {
	m := testModel()
	for i := 0; i < 20; i++ {
		m = press(m, runeKey('j'))
	}
	if m.sidebarCursor != rowIdxClearAll {
		t.Errorf("j should stop at the last row, got %d", m.sidebarCursor)
	}
	m = press(m, runeKey('k'))
	if m.sidebarCursor != rowIdxClearAll-1 {
		t.Errorf("k should move up, got %d", m.sidebarCursor)
	}
}

func TestCardCursorClampedOnFilter(t *testing.T) {
	m := testModel()
	m.focus = focusResults
	m.cardCursor = 2

	m.state.SetCategoryFilters([]string{"Finance"})
	m = m.refresh()
	if m.cardCursor != 0 {
		t.Errorf("card cursor should clamp to 0, got %d", m.cardCursor)
	}
}

func TestUpdateEnterOpensDetail(t *testing.T) {
	m := testModel()
	m.focus = focusResults
	m.cardCursor = 0

	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.activeView != viewDetail {
		t.Fatalf("enter should open the detail view")
	}
	if m.detailID != "a2" {
		t.Errorf("detail should show Ledger (a2), got %q", m.detailID)
	}
	out := m.View()
	if !strings.Contains(out, "Agent: Ledger") {
		t.Error("title bar should name the agent")
	}
	if !strings.Contains(out, "Reconciles") {
		t.Error("detail should show the description")
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.activeView != viewCatalog || m.detailID != "" {
		t.Error("esc should return to the catalog")
	}
}

func TestDetailScrollClampedInView(t *testing.T) {
	m := testModel()
	m = m.openDetail("a1")
	m.scrollPos = 9999

	out := m.View()
	if out == "" {
		t.Error("view with large scrollPos should still render")
	}
}

func TestViewTinyTerminal(t *testing.T) {
	for _, help := range []bool{false, true} {
		for h := 1; h <= 6; h++ {
			for _, detail := range []bool{false, true} {
				m := testModel()
				if detail {
					m = m.openDetail("a1")
				}
				m.showHelp = help
				updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: h})
				m = updated.(uiModel)
				if out := m.View(); out == "" {
					t.Errorf("help=%v height=%d detail=%v: empty view", help, h, detail)
				}
			}
		}
	}
}

func TestPendingAgentOpensDetail(t *testing.T) {
	m := testModelWith(modelOptions{focusAgent: "a3"})
	if m.activeView != viewDetail || m.detailID != "a3" {
		t.Errorf("--agent should open the detail view, got view %d id %q", m.activeView, m.detailID)
	}
	if m.pendingAgent != "" {
		t.Error("pending agent should be consumed")
	}
	if m.cardCursor != m.snap.IndexOf("a3") {
		t.Error("card cursor should point at the focused agent")
	}
}

func TestPendingAgentUnknown(t *testing.T) {
	m := testModelWith(modelOptions{focusAgent: "nope"})
	if m.activeView != viewCatalog {
		t.Error("unknown --agent should stay on the catalog")
	}
}

func TestCatalogReloadKeepsCriteria(t *testing.T) {
	m := testModel()
	m.state.SetStatusFilters([]string{"Active"})
	m = m.refresh()

	more := append(testAgents(), catalog.Agent{ID: "a4", Name: "Auditor", Category: "Legal", Status: "Active", PricingModel: "Per-Use"})
	m = m.applyLoad(catalogLoadedMsg{records: more, silent: true})

	if got := m.snap.Criteria.Statuses; !slices.Equal(got, []string{"Active"}) {
		t.Errorf("reload should keep criteria, got %v", got)
	}
	if got := visibleNames(m.snap); !slices.Equal(got, []string{"Auditor", "Scout", "Support Bot"}) {
		t.Errorf("visible = %v", got)
	}
	if !slices.Contains(m.snap.Facets.Categories, "Legal") {
		t.Error("facets should be recomputed on reload")
	}
}

func TestCatalogReloadFailureKeepsRecords(t *testing.T) {
	m := testModel()
	m = m.applyLoad(catalogLoadedMsg{err: errors.New("boom")})

	if m.snap.Phase != snapshot.PhaseFailed {
		t.Fatalf("expected failed phase, got %s", m.snap.Phase)
	}
	if m.snap.Total != 3 || len(m.snap.Visible) != 3 {
		t.Errorf("failed reload should keep records, got total %d", m.snap.Total)
	}
	if out := m.renderResults(60, 30); !strings.Contains(out, "Reload failed: boom") {
		t.Error("results should show the reload failure banner")
	}
}

func TestDetailClosesWhenAgentDisappears(t *testing.T) {
	m := testModel()
	m = m.openDetail("a2")

	m = m.applyLoad(catalogLoadedMsg{records: testAgents()[:1], silent: true})
	if m.activeView != viewCatalog {
		t.Error("detail should close when its agent is no longer visible")
	}
}

func TestUpdateReloadKey(t *testing.T) {
	m := testModel()

	updated, cmd := m.Update(runeKey('r'))
	m = updated.(uiModel)
	if cmd == nil {
		t.Fatal("r should start a load")
	}
	if m.snap.Phase != snapshot.PhaseLoading {
		t.Errorf("r should enter loading, got %s", m.snap.Phase)
	}
	if m.snap.Total != 3 {
		t.Error("records stay visible while reloading")
	}

	_, cmd = m.Update(runeKey('r'))
	if cmd != nil {
		t.Error("r while loading should be ignored")
	}
	updated, cmd = m.Update(catalogChangedMsg{})
	if cmd == nil {
		t.Error("a watch event while loading should start a newer load")
	}
	if updated.(uiModel).loadSeq != m.loadSeq+1 {
		t.Error("the newer load should supersede the running one")
	}
}

func TestStaleLoadResultsDropped(t *testing.T) {
	m := testModel()

	updated, _ := m.Update(catalogChangedMsg{})
	m = updated.(uiModel)
	older := m.loadSeq

	m = press(m, runeKey('r'))
	if m.loadSeq == older {
		t.Fatal("r should start a newer load")
	}

	updated, _ = m.Update(catalogLoadedMsg{records: testAgents()[:1], seq: m.loadSeq})
	m = updated.(uiModel)
	updated, _ = m.Update(catalogLoadedMsg{records: testAgents(), silent: true, seq: older})
	m = updated.(uiModel)
	if m.snap.Total != 1 {
		t.Errorf("older result overwrote newer records, total = %d", m.snap.Total)
	}

	updated, _ = m.Update(catalogLoadedMsg{err: errors.New("late"), silent: true, seq: older})
	m = updated.(uiModel)
	if m.snap.Phase != snapshot.PhaseReady {
		t.Errorf("late failure should be dropped, phase = %s", m.snap.Phase)
	}
}

func TestCatalogChangedStartsSilentLoad(t *testing.T) {
	m := testModel()
	updated, cmd := m.Update(catalogChangedMsg{})
	m = updated.(uiModel)
	if cmd == nil {
		t.Fatal("catalog change should start a load")
	}
	if m.snap.Phase != snapshot.PhaseReady {
		t.Errorf("silent reload should not leave ready, got %s", m.snap.Phase)
	}
}

type stubLoader struct {
	records []catalog.Agent
	err     error
}

func (s stubLoader) Load(context.Context) ([]catalog.Agent, error) {
	return s.records, s.err
}

func TestLoadCatalogCmd(t *testing.T) {
	m := newModel(viewstate.New(nil), stubLoader{records: testAgents()}, modelOptions{})
	msg, ok := m.loadCatalog(false)().(catalogLoadedMsg)
	if !ok {
		t.Fatal("loadCatalog should produce catalogLoadedMsg")
	}
	if msg.err != nil || len(msg.records) != 3 {
		t.Fatalf("unexpected load result: %+v", msg)
	}

	updated, _ := m.Update(msg)
	m = updated.(uiModel)
	if m.snap.Phase != snapshot.PhaseReady || len(m.snap.Visible) != 3 {
		t.Errorf("loaded model should be ready with 3 visible, got %s/%d", m.snap.Phase, len(m.snap.Visible))
	}
}

func TestSpinnerStopsWhenNotLoading(t *testing.T) {
	m := testModel()
	_, cmd := m.Update(spinner.TickMsg{})
	if cmd != nil {
		t.Error("spinner should stop ticking once loaded")
	}
}

func TestUpdateHelpToggle(t *testing.T) {
	m := testModel()
	m = press(m, runeKey('?'))
	if !m.showHelp {
		t.Fatal("? should show help")
	}
	if out := m.View(); !strings.Contains(out, "quit") {
		t.Error("help should list the quit binding")
	}
	m = press(m, runeKey('?'))
	if m.showHelp {
		t.Error("? should hide help")
	}
}

func TestUpdateQuit(t *testing.T) {
	m := testModel()
	_, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestUpdateWindowSizeMsg(t *testing.T) {
	m := testModel()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	m = updated.(uiModel)
	if m.width != 140 || m.height != 50 || m.help.Width != 140 {
		t.Errorf("window size not applied: %dx%d", m.width, m.height)
	}
}

func TestViewFullRender(t *testing.T) {
	m := testModel()
	out := m.View()

	if !strings.Contains(out, "AI Agents Catalog") {
		t.Error("view should contain the title")
	}
	if !strings.Contains(out, "3 agents | 3 categories | sort: Name") {
		t.Error("title bar should contain stats")
	}
	if !strings.Contains(out, "loaded") {
		t.Error("status bar should show the load age")
	}
	for i, line := range strings.Split(out, "\n") {
		if w := lipgloss.Width(line); w > m.width {
			t.Errorf("line %d is %d cells wide, terminal is %d", i, w, m.width)
		}
	}
}

func TestContextHelp(t *testing.T) {
	tests := []struct {
		view      viewID
		focus     focusArea
		searching bool
		want      string
	}{
		{viewCatalog, focusSidebar, false, "space: toggle"},
		{viewCatalog, focusResults, false, "enter: details"},
		{viewDetail, focusResults, false, "esc: back"},
		{viewCatalog, focusSidebar, true, "type to search"},
	}
	for _, tt := range tests {
		if got := contextHelp(tt.view, tt.focus, tt.searching); !strings.Contains(got, tt.want) {
			t.Errorf("contextHelp(%d, %d, %v) = %q, want it to contain %q", tt.view, tt.focus, tt.searching, got, tt.want)
		}
	}
}

func TestLookupTablesFallback(t *testing.T) {
	if categoryIcon("Finance") == defaultCategoryIcon {
		t.Error("Finance should have its own icon")
	}
	if categoryIcon("Astrology") != defaultCategoryIcon {
		t.Error("unknown categories should use the default icon")
	}
	if badgeColor(statusColors, "Active") == defaultBadgeColor {
		t.Error("Active should have its own color")
	}
	if badgeColor(statusColors, "Deprecated") != defaultBadgeColor {
		t.Error("unknown statuses should use the default color")
	}
	if badgeColor(pricingColors, "Enterprise") != defaultBadgeColor {
		t.Error("unknown pricing models should use the default color")
	}
	if got := statusBadge(""); !strings.Contains(got, "unknown") {
		t.Errorf("empty label should render as unknown, got %q", got)
	}
}

func TestAgentMarkdown(t *testing.T) {
	md := agentMarkdown(testAgents()[1])
	for _, want := range []string{"# Ledger", "**Status:** Beta", "**Pricing:** Per-Use", "`a2`", "Reconciles accounts"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown should contain %q", want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"", 5, ""},
	}

	for _, tt := range tests {
		got := truncate(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		input string
		width int
		want  []string
	}{
		{"short", 10, []string{"short"}},
		{"hello brave new world", 11, []string{"hello brave", "new world"}},
		{"abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"one\ntwo", 10, []string{"one", "two"}},
	}
	for _, tt := range tests {
		got := wrapText(tt.input, tt.width)
		if !slices.Equal(got, tt.want) {
			t.Errorf("wrapText(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
		}
	}
}

func TestTruncateLines(t *testing.T) {
	got := truncateLines("abcdef\nab", 4)
	if got != "abcd\nab" {
		t.Errorf("truncateLines = %q", got)
	}
	if truncateLines("abc", 0) != "abc" {
		t.Error("width 0 should leave content unchanged")
	}
}

func TestRenderSplitPane(t *testing.T) {
	out := renderSplitPane("left\nL2", "right", 6, 10, 10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "left   │ right") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "L2     │ ") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestBuildJSONOutput(t *testing.T) {
	m := testModel()
	m.state.SetStatusFilters([]string{"Active"})
	out := buildJSONOutput(m.state.Snapshot())

	if len(out.Agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(out.Agents))
	}
	if out.Stats.Total != 3 || out.Stats.Visible != 2 {
		t.Errorf("stats = %+v", out.Stats)
	}
	if !out.Stats.HasActiveFilters {
		t.Error("stats should report active filters")
	}
	if out.Stats.Summary != "Showing 2 of 3 AI agents (filtered)" {
		t.Errorf("summary = %q", out.Stats.Summary)
	}
	if out.Stats.LoadedAt == "" {
		t.Error("loadedAt should be set after a load")
	}
	if len(out.Facets.Categories) != 3 {
		t.Errorf("facets should cover the full store, got %v", out.Facets.Categories)
	}
}

func TestBuildJSONOutputEmptySnapshot(t *testing.T) {
	out := buildJSONOutput(&snapshot.DataSnapshot{Criteria: catalog.DefaultCriteria()})

	data, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"agents":[]`, `"selectedStatuses":[]`, `"statuses":[]`, `"loadedAt":""`, `"hasActiveFilters":false`} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s should contain %s", s, want)
		}
	}
}
