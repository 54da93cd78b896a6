package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/ai-session-repair/internal/query"
	"github.com/Zuo-Peng/ai-session-repair/internal/render"
)

// planRenderedMsg is sent when an async plan render completes.
type planRenderedMsg struct {
	sessionID string
	content   string
	err       error
}

// loadPlanCmd returns a tea.Cmd that renders the repair plan async.
func loadPlanCmd(r query.Result, interval, maxGapMs, width int) tea.Cmd {
	return func() tea.Msg {
		content, err := render.RenderPlan(r.FilePath, render.Options{
			Interval: interval,
			MaxGapMs: maxGapMs,
			Width:    width,
		})
		return planRenderedMsg{sessionID: r.SessionID, content: content, err: err}
	}
}
