package cli

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/wardrobe-go/internal/models"
)

const (
	defaultStudioWidth = 100
	paneRows           = 12
)

// View renders the studio.
func (m studioModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m studioModel) render() string {
	width := m.width
	if width <= 0 {
		width = defaultStudioWidth
	}
	half := max(width/2-2, 20)

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	left := m.theme.paneStyle(m.focus == paneCatalog).Width(half).
		Render(m.renderCatalog())
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.paneStyle(m.focus == paneLook).Width(half).Render(m.renderLook()),
		m.theme.paneStyle(m.focus == paneResults).Width(half).Render(m.renderResults()),
	)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m studioModel) renderHeader() string {
	targets := strings.Join(m.store.Targets(), ", ")
	header := fmt.Sprintf("%s  threshold: %.2f  targets: %s",
		m.theme.titleStyle().Render("wardrobe studio"),
		m.store.Threshold(),
		orDash(targets))
	if m.busy > 0 || m.store.Loading() {
		header += "  " + m.theme.statusStyle().Render("working...")
	}
	return header
}

func (m studioModel) renderCatalog() string {
	items := m.store.Catalog()
	title := "Catalog"
	if q := m.store.Query(); q != "" {
		title = fmt.Sprintf("Catalog / %q", q)
	}
	lines := make([]string, 0, len(items))
	for _, g := range items {
		lines = append(lines, formatGarment(g))
	}
	return m.renderList(title, paneCatalog, lines, "empty catalog")
}

func (m studioModel) renderLook() string {
	items := m.store.Look()
	lines := make([]string, 0, len(items))
	for _, g := range items {
		lines = append(lines, formatGarment(g))
	}
	return m.renderList(fmt.Sprintf("Look (%d)", len(items)), paneLook, lines, "add pieces from the catalog")
}

func (m studioModel) renderResults() string {
	block := m.store.Results()
	if block == nil {
		return m.renderList("Results", paneResults, nil, "press s to suggest or c to complete")
	}

	entries := m.resultEntries()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		line := formatScored(e.item)
		if e.category != "" {
			line = e.category + ": " + line
		}
		if !e.canAdd {
			line = m.theme.hintStyle().Render(line)
		}
		lines = append(lines, line)
	}

	empty := "No suggestions at the current threshold."
	if block.Kind == models.ResultComplete {
		empty = "no completion"
	}
	out := m.renderList("Results / "+block.Kind.String(), paneResults, lines, empty)
	if block.Completion != nil && len(block.Completion.Missing) > 0 {
		out += "\n" + m.theme.hintStyle().Render(
			"No items found for: "+strings.Join(block.Completion.Missing, ", ")+".")
	}
	return out
}

// renderList renders a titled list with the cursor marked and a scroll window.
func (m studioModel) renderList(title string, p pane, lines []string, empty string) string {
	var b strings.Builder
	b.WriteString(m.theme.titleStyle().Render(title))
	b.WriteString("\n")
	if len(lines) == 0 {
		b.WriteString(m.theme.hintStyle().Render(empty))
		return b.String()
	}

	cursor := m.cursor[p]
	start := 0
	if cursor >= paneRows {
		start = cursor - paneRows + 1
	}
	end := min(start+paneRows, len(lines))
	for i := start; i < end; i++ {
		marker := "  "
		if i == cursor && m.focus == p {
			marker = m.theme.statusStyle().Render("> ")
		}
		b.WriteString(marker + lines[i])
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m studioModel) renderFooter() string {
	var b strings.Builder

	switch m.mode {
	case modeSearch:
		b.WriteString("search " + m.input.View() + "\n")
	case modeTarget:
		b.WriteString("target " + m.input.View() + "\n")
	case modeForm:
		b.WriteString(fmt.Sprintf("new garment [%d/%d] %s\n", m.formStep+1, len(formFields), m.input.View()))
	case modeConfirmDelete:
		b.WriteString(m.theme.errorStyle().Render(
			fmt.Sprintf("Remove %q from the wardrobe? [y/N]", m.pendingDelete.Name)) + "\n")
	}

	if m.notice != "" {
		if m.noticeErr {
			b.WriteString(m.theme.errorStyle().Render(m.notice))
		} else {
			b.WriteString(m.theme.successStyle().Render(m.notice))
		}
		b.WriteString("\n")
	}

	if m.stats != nil {
		snap := m.stats.Snapshot()
		var failed int64
		for _, op := range snap.Operations {
			failed += op.Failures
		}
		b.WriteString(m.theme.statusStyle().Render(
			fmt.Sprintf("calls: %d  failed: %d", snap.Total(), failed)))
		b.WriteString("\n")
	}

	b.WriteString(m.theme.hintStyle().Render(
		"tab focus  enter add/remove  d delete  / search  t target  n new  s suggest  c complete  +/- threshold  r rebuild  C clear  q quit"))
	return b.String()
}
