package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/ai-session-repair/internal/query"
)

// linesPerItem is the number of terminal lines each session occupies.
const linesPerItem = 2

// renderList renders the left panel: session list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		return lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No sessions")
	}

	var lines []string
	for i, r := range m.results {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatSessionLine(r, width, i == m.cursor)...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatSessionLine formats one session as two lines:
//
//	line 1: [>] date  [B] summary
//	line 2:    cwd · N msgs (dimmed)
func formatSessionLine(r query.Result, width int, selected bool) []string {
	// short date from UpdatedAt (e.g. "2026-01-27" -> "01-27")
	date := r.UpdatedAt
	if len(date) >= 10 {
		date = date[5:10] // MM-DD
	}

	badge := "   "
	if r.HasBackup {
		badge = styleBackupBadge.Render("[B]")
	}

	summary := strings.ReplaceAll(r.Summary, "\n", " ")
	summaryMax := width - 2 - 6 - 4 - 2 // prefix + date + badge + padding
	if summaryMax < 0 {
		summaryMax = 0
	}
	if runewidth.StringWidth(summary) > summaryMax {
		summary = runewidth.Truncate(summary, summaryMax, "")
	}

	line1 := fmt.Sprintf("%s %s %s", date, badge, summary)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	detail := fmt.Sprintf("%s · %d msgs", r.RepoCwd, r.MessageCount)
	detailMax := width - 4
	if detailMax < 0 {
		detailMax = 0
	}
	if runewidth.StringWidth(detail) > detailMax {
		detail = runewidth.Truncate(detail, detailMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(detail)

	return []string{line1, line2}
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
