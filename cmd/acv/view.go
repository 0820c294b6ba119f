package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/daviddao/agents_catalog_viewer/internal/catalog"
	"github.com/daviddao/agents_catalog_viewer/internal/snapshot"
)

const (
	maxSidebarWidth = 34
	maxCardWidth    = 38
	descLines       = 2
	skeletonCards   = 3
)

func (m uiModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderTitleBar())
	b.WriteRune('\n')
	b.WriteRune('\n')

	contentHeight := m.height - 4 // title + gap + status + padding
	if m.showHelp {
		contentHeight -= 3
	}
	contentHeight = max(0, contentHeight)

	var content string
	if m.activeView == viewDetail {
		content = m.renderDetail(contentHeight)
	} else {
		leftWidth := min(maxSidebarWidth, m.width/3)
		rightWidth := m.width - leftWidth - 3 // 3 for separator
		left := m.renderSidebar()
		right := m.renderResults(rightWidth, contentHeight)
		content = renderSplitPane(left, right, leftWidth, rightWidth, contentHeight)
	}

	// Truncate each line to terminal width so content doesn't wrap
	// on resize.
	content = truncateLines(content, m.width)
	b.WriteString(content)

	// Pad to fill screen.
	rendered := strings.Count(b.String(), "\n")
	for rendered < m.height-2 {
		b.WriteRune('\n')
		rendered++
	}

	if m.showHelp {
		b.WriteString(m.help.View(keys))
	} else {
		b.WriteString(m.renderStatusBar())
	}

	return b.String()
}

func (m uiModel) renderTitleBar() string {
	title := titleStyle.Render("AI Agents Catalog")
	if m.activeView == viewDetail {
		if a, ok := m.snap.Find(m.detailID); ok {
			title += " " + tabActiveStyle.Render("Agent: "+a.Name)
		}
	}
	stats := dimStyle.Render(fmt.Sprintf("%d agents | %d categories | sort: %s",
		m.snap.Total, len(m.snap.Facets.Categories), m.snap.Criteria.SortBy.Label()))
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(title)-lipgloss.Width(stats)-2))
	return title + gap + stats
}

func (m uiModel) renderStatusBar() string {
	left := " " + contextHelp(m.activeView, m.focus, m.searching)
	var right string
	switch {
	case m.snap.Phase == snapshot.PhaseLoading:
		right = m.spinner.View() + " loading "
	case m.snap.LoadedAt.IsZero():
		right = "not loaded "
	default:
		right = "loaded " + humanize.Time(m.snap.LoadedAt) + " "
	}
	left = ansi.Truncate(left, max(0, m.width-lipgloss.Width(right)), "")
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right)))
	return statusBarStyle.Render(left + gap + right)
}

// --- Sidebar ---

func (m uiModel) renderSidebar() string {
	var b strings.Builder
	crit := m.snap.Criteria
	rows := sidebarRows(m.snap)

	b.WriteString(headerStyle.Render("Filters"))
	b.WriteRune('\n')

	var section rowKind = -1
	for i, row := range rows {
		// Section headers for the facet groups.
		if row.kind != section {
			switch row.kind {
			case rowStatus:
				b.WriteRune('\n')
				b.WriteString(headerStyle.Render("Status"))
				b.WriteRune('\n')
			case rowCategory:
				b.WriteRune('\n')
				b.WriteString(headerStyle.Render("Category"))
				b.WriteRune('\n')
			case rowClear:
				b.WriteRune('\n')
			}
			section = row.kind
		}

		marker := "  "
		if m.focus == focusSidebar && i == m.sidebarCursor && m.activeView == viewCatalog {
			marker = cursorStyle.Render("> ")
		}

		var label string
		switch row.kind {
		case rowSearch:
			if m.searching {
				label = "Search: " + m.search.View()
			} else if crit.SearchQuery != "" {
				label = "Search: " + crit.SearchQuery
			} else {
				label = "Search: " + dimStyle.Render("(none)")
			}
		case rowSort:
			label = "Sort by: " + crit.SortBy.Label()
		case rowPricing:
			label = "Pricing: " + pricingLabel(crit.PricingModel)
		case rowStatus:
			label = checkbox(slices.Contains(crit.Statuses, row.value)) + " " + row.value
		case rowCategory:
			label = checkbox(slices.Contains(crit.Categories, row.value)) + " " +
				categoryIcon(row.value) + " " + row.value
		case rowClear:
			if m.snap.HasActiveFilters {
				label = "Clear All Filters"
			} else {
				label = dimStyle.Render("Clear All Filters")
			}
		}
		b.WriteString(marker + label)
		b.WriteRune('\n')
	}
	return b.String()
}

func checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

func pricingLabel(v string) string {
	if v == catalog.PricingAll {
		return "All"
	}
	return v
}

// --- Results ---

func (m uiModel) renderResults(width, height int) string {
	snap := m.snap
	var b strings.Builder

	switch {
	case snap.Phase == snapshot.PhaseLoading && snap.Total == 0:
		b.WriteString(m.spinner.View() + " Loading agents...")
		b.WriteString("\n\n")
		b.WriteString(renderSkeleton(cardWidth(width)))
		return b.String()

	case snap.Phase == snapshot.PhaseFailed && snap.Total == 0:
		msg := errorStyle.Render("Error loading agents") + "\n\n" +
			strings.Join(wrapText(snap.Err, max(10, width-6)), "\n") + "\n\n" +
			dimStyle.Render("press r to retry")
		b.WriteString(errorCardStyle.Width(max(10, width-2)).Render(msg))
		return b.String()
	}

	b.WriteString(headerStyle.Render(snap.Summary()))
	b.WriteRune('\n')
	if snap.Phase == snapshot.PhaseFailed {
		b.WriteString(errorStyle.Render(truncate("Reload failed: "+snap.Err, width)))
		b.WriteRune('\n')
	}
	b.WriteRune('\n')

	if len(snap.Visible) == 0 {
		b.WriteString(headerStyle.Render("No AI agents found"))
		b.WriteRune('\n')
		b.WriteString(dimStyle.Render("Try adjusting your search or filters to find what you're looking for."))
		b.WriteRune('\n')
		if snap.HasActiveFilters {
			b.WriteRune('\n')
			b.WriteString("Press c to Clear All Filters")
			b.WriteRune('\n')
		}
		return b.String()
	}

	used := strings.Count(b.String(), "\n")
	b.WriteString(m.renderCardGrid(width, height-used))
	return b.String()
}

func cardWidth(paneWidth int) int {
	return max(16, min(maxCardWidth, paneWidth))
}

// renderCardGrid lays the visible agents out in rows of cards and scrolls so
// the selected card stays on screen.
func (m uiModel) renderCardGrid(width, height int) string {
	cw := cardWidth(width)
	perRow := max(1, (width+1)/(cw+1))

	var rows []string
	for start := 0; start < len(m.snap.Visible); start += perRow {
		end := min(start+perRow, len(m.snap.Visible))
		cards := make([]string, 0, perRow)
		for i := start; i < end; i++ {
			selected := m.focus == focusResults && i == m.cardCursor
			cards = append(cards, renderCard(m.snap.Visible[i], cw, selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, intersperse(cards, " ")...))
	}

	rowHeight := lipgloss.Height(rows[0])
	fit := max(1, height/rowHeight)
	first := max(0, m.cardCursor/perRow-(fit-1))
	last := min(len(rows), first+fit)
	return strings.Join(rows[first:last], "\n")
}

func intersperse(items []string, sep string) []string {
	out := make([]string, 0, 2*len(items))
	for i, it := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, it)
	}
	return out
}

// renderCard renders one agent as a fixed-height card of width w.
func renderCard(a catalog.Agent, w int, selected bool) string {
	inner := w - 4 // border + padding
	lines := []string{
		cardTitleStyle.Render(truncate(a.Name, inner)),
		truncate(categoryIcon(a.Category)+" "+a.Category, inner),
		statusBadge(a.Status) + "  " + pricingBadge(a.PricingModel),
	}

	desc := wrapText(a.Description, inner)
	if len(desc) > descLines {
		desc = desc[:descLines]
		desc[descLines-1] = truncate(desc[descLines-1]+" ...", inner)
	}
	for len(desc) < descLines {
		desc = append(desc, "")
	}
	for _, d := range desc {
		lines = append(lines, dimStyle.Render(d))
	}

	style := cardStyle
	if selected {
		style = cardSelectedStyle
	}
	return style.Width(w - 2).Render(truncateLines(strings.Join(lines, "\n"), inner))
}

// renderSkeleton draws placeholder cards shown while the first load runs.
func renderSkeleton(w int) string {
	bar := strings.Repeat("░", max(1, w-6))
	short := strings.Repeat("░", max(1, (w-6)/2))
	card := cardStyle.Width(w - 2).Render(strings.Join([]string{short, bar, short, bar, bar}, "\n"))
	cards := make([]string, skeletonCards)
	for i := range cards {
		cards[i] = dimStyle.Render(card)
	}
	return strings.Join(cards, "\n")
}

// --- Detail view ---

func (m uiModel) renderDetail(height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(strings.TrimRight(m.detailBody, "\n"), "\n")
	scrollPos := m.scrollPos
	if scrollPos >= len(lines) {
		scrollPos = max(0, len(lines)-1)
	}
	lines = lines[scrollPos:]
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// agentMarkdown renders the full record as a markdown document.
func agentMarkdown(a catalog.Agent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", a.Name)
	fmt.Fprintf(&b, "- **Category:** %s %s\n", categoryIcon(a.Category), a.Category)
	fmt.Fprintf(&b, "- **Status:** %s\n", a.Status)
	fmt.Fprintf(&b, "- **Pricing:** %s\n", a.PricingModel)
	fmt.Fprintf(&b, "- **ID:** `%s`\n\n", a.ID)
	b.WriteString(a.Description)
	b.WriteRune('\n')
	return b.String()
}

// renderAgentMarkdown renders the detail document through glamour. When the
// renderer cannot be built the markdown is word-wrapped as plain text.
func renderAgentMarkdown(a catalog.Agent, style string, width int) string {
	md := agentMarkdown(a)
	wrap := max(20, width-4)

	styleOpt := glamour.WithStandardStyle(style)
	if style == "" || style == "auto" {
		styleOpt = glamour.WithAutoStyle()
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
	if err == nil {
		if out, err := r.Render(md); err == nil {
			return out
		}
	}
	return strings.Join(wrapText(md, wrap), "\n")
}

// --- Layout helpers ---

func renderSplitPane(left, right string, leftWidth, rightWidth, maxHeight int) string {
	leftLines := strings.Split(left, "\n")
	rightLines := strings.Split(right, "\n")

	// Pad to equal height.
	maxLines := max(len(leftLines), len(rightLines))
	if maxLines > maxHeight {
		maxLines = maxHeight
	}
	for len(leftLines) < maxLines {
		leftLines = append(leftLines, "")
	}
	for len(rightLines) < maxLines {
		rightLines = append(rightLines, "")
	}

	sep := dimStyle.Render("│")
	var b strings.Builder
	for i := 0; i < maxLines; i++ {
		b.WriteString(padOrTruncate(leftLines[i], leftWidth))
		b.WriteString(" ")
		b.WriteString(sep)
		b.WriteString(" ")
		b.WriteString(ansi.Truncate(rightLines[i], rightWidth, ""))
		b.WriteRune('\n')
	}
	return b.String()
}

// padOrTruncate pads or truncates a styled line to the target visible width.
func padOrTruncate(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}

// truncateLines truncates each line in content to at most width visible
// characters, preserving ANSI escape codes.
func truncateLines(content string, width int) string {
	if width <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}

// wrapText breaks s into lines of at most width characters, splitting on word
// boundaries where possible. If a single word exceeds width it is hard-split.
// Embedded newlines are respected.
func wrapText(s string, width int) []string {
	if width <= 0 {
		width = 80
	}

	paragraphs := strings.Split(s, "\n")
	var lines []string
	for _, para := range paragraphs {
		lines = append(lines, wrapParagraph(para, width)...)
	}
	return lines
}

// wrapParagraph wraps a single paragraph (no embedded newlines) to width.
func wrapParagraph(s string, width int) []string {
	r := []rune(s)
	if len(r) <= width {
		return []string{s}
	}

	var lines []string
	for len(r) > 0 {
		if len(r) <= width {
			lines = append(lines, string(r))
			break
		}
		// Try to break at a space at or before position width.
		cut := -1
		for i := width; i > 0; i-- {
			if r[i] == ' ' {
				cut = i
				break
			}
		}
		if cut <= 0 {
			lines = append(lines, string(r[:width]))
			r = r[width:]
		} else {
			lines = append(lines, string(r[:cut]))
			r = r[cut+1:]
		}
	}
	return lines
}

// truncate shortens s to n visible cells, ending in "..." when cut.
func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	return ansi.Truncate(s, n, "...")
}
