package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/ai-session-repair/internal/index"
	"github.com/Zuo-Peng/ai-session-repair/internal/query"
	"github.com/Zuo-Peng/ai-session-repair/internal/repair"
)

const debounceDelay = 200 * time.Millisecond

// Options carries the list filters plus the repair knobs used for plan
// previews and the in-TUI repair action.
type Options struct {
	Query    query.Options
	Interval int
	MaxGapMs int
	Marker   string // marker char, expanded on use
}

// message types

type listResultMsg struct {
	filter  string
	results []query.Result
	err     error
}

type debounceTickMsg struct {
	filter string
}

type repairDoneMsg struct {
	sessionID string
	res       *repair.Result
}

// model

type model struct {
	db          *index.DB
	opts        Options
	filter      string
	results     []query.Result
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewKey  string // sessionID of the currently shown plan
	status      string // outcome of the last repair action
	width       int
	height      int
	ready       bool
	quitting    bool
	copyResult  *query.Result
}

// Run starts the session browser and blocks until it exits. If the user
// accepts a session with Enter, its resume command lands on the clipboard.
func Run(db *index.DB, opts Options) error {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Focus()
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	m := model{
		db:          db,
		opts:        opts,
		filterInput: ti,
		preview:     viewport.New(0, 0),
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.copyResult != nil {
		return copyResumeCommand(*fm.copyResult)
	}
	return nil
}

// copyResumeCommand puts a ready-to-paste resume command on the clipboard,
// falling back to stdout when no clipboard is available.
func copyResumeCommand(r query.Result) error {
	resumeCmd := fmt.Sprintf("claude --resume %s", r.SessionID)
	if r.RepoCwd != "" {
		resumeCmd = fmt.Sprintf("cd %s && %s", r.RepoCwd, resumeCmd)
	}

	if err := clipboard.WriteAll(resumeCmd); err != nil {
		fmt.Printf("%s\n", resumeCmd)
		return nil
	}
	fmt.Printf("Copied to clipboard: %s\n", resumeCmd)
	return nil
}

// Init triggers the initial list load.
func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.doList(""))
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = viewport.New(m.previewWidth(), m.panelHeight())
		m.preview.Style = stylePanelBorder
		m.previewKey = ""
		cmds = append(cmds, m.loadCurrentPlan())
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if len(m.results) > 0 && m.cursor < len(m.results) {
				r := m.results[m.cursor]
				m.copyResult = &r
				m.quitting = true
				return m, tea.Quit
			}

		case key.Matches(msg, keys.Repair):
			if len(m.results) > 0 && m.cursor < len(m.results) {
				r := m.results[m.cursor]
				m.status = fmt.Sprintf("repairing %s...", r.SessionID)
				return m, m.doRepair(r)
			}

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPlan())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.results)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPlan())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil
		}

		// Pass remaining keys to the filter input
		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		newFilter := m.filterInput.Value()
		if newFilter != m.filter {
			m.filter = newFilter
			cmds = append(cmds, m.scheduleDebouncedList(newFilter))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if !m.ready {
			return m, nil
		}
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			var vpCmd tea.Cmd
			m.preview, vpCmd = m.preview.Update(msg)
			return m, vpCmd
		}
		return m, nil

	case debounceTickMsg:
		// Only fire if the filter hasn't changed since the tick was scheduled
		if msg.filter == m.filter {
			cmds = append(cmds, m.doList(msg.filter))
		}
		return m, tea.Batch(cmds...)

	case listResultMsg:
		if msg.filter != m.filter {
			return m, nil
		}
		if msg.err != nil {
			m.results = nil
			m.cursor = 0
			m.listOffset = 0
			m.preview.SetContent("Error: " + msg.err.Error())
			m.previewKey = ""
			return m, nil
		}
		m.results = msg.results
		m.cursor = 0
		m.listOffset = 0
		m.previewKey = ""
		if len(m.results) > 0 {
			cmds = append(cmds, m.loadCurrentPlan())
		} else {
			m.preview.SetContent("")
		}
		return m, tea.Batch(cmds...)

	case planRenderedMsg:
		// Drop stale renders for sessions the cursor has left
		if len(m.results) == 0 || m.cursor >= len(m.results) ||
			m.results[m.cursor].SessionID != msg.sessionID {
			return m, nil
		}
		if msg.err != nil {
			m.preview.SetContent("Plan error: " + msg.err.Error())
		} else {
			m.preview.SetContent(msg.content)
			m.preview.GotoTop()
		}
		m.previewKey = msg.sessionID
		return m, nil

	case repairDoneMsg:
		res := msg.res
		switch {
		case !res.Ok():
			m.status = fmt.Sprintf("repair %s failed: %s", msg.sessionID, strings.Join(res.Errors, "; "))
		case res.Insertions == 0:
			m.status = fmt.Sprintf("repair %s: nothing to do", msg.sessionID)
		default:
			m.status = fmt.Sprintf("repair %s: inserted %d checkpoint(s)", msg.sessionID, res.Insertions)
		}
		m.previewKey = ""
		return m, m.loadCurrentPlan()
	}

	return m, tea.Batch(cmds...)
}

// View renders the full TUI.
func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	inputRow := m.filterInput.View()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)

	return lipgloss.JoinVertical(lipgloss.Left, inputRow, panels, m.statusBar())
}

// helper methods

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	w := m.width*40/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	w := m.width*60/100 - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// input row (1) + status bar (1) + borders (4)
	h := m.height - 6
	if h < 5 {
		h = 5
	}
	return h
}

func (m model) statusBar() string {
	if m.status != "" {
		return styleStatusBar.Render(m.status)
	}
	parts := []string{
		fmt.Sprintf("%d sessions", len(m.results)),
		"up/dn navigate",
		"C-u/C-d plan",
		"C-r repair",
		"Enter copy resume cmd",
		"Esc quit",
	}
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

func (m model) doList(filter string) tea.Cmd {
	db := m.db
	opts := m.opts.Query
	opts.Filter = filter
	return func() tea.Msg {
		results, err := query.List(db, opts)
		return listResultMsg{filter: filter, results: results, err: err}
	}
}

func (m model) doRepair(r query.Result) tea.Cmd {
	opts := repair.Options{
		Interval: m.opts.Interval,
		Marker:   repair.MarkerContent(m.opts.Marker),
		MaxGap:   time.Duration(m.opts.MaxGapMs) * time.Millisecond,
		Verify:   true,
	}
	return func() tea.Msg {
		return repairDoneMsg{sessionID: r.SessionID, res: repair.Run(r.FilePath, opts)}
	}
}

func (m model) scheduleDebouncedList(filter string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{filter: filter}
	})
}

func (m model) loadCurrentPlan() tea.Cmd {
	if len(m.results) == 0 || m.cursor >= len(m.results) {
		return nil
	}
	r := m.results[m.cursor]
	if r.SessionID == m.previewKey {
		return nil // already showing this plan
	}
	return loadPlanCmd(r, m.opts.Interval, m.opts.MaxGapMs, m.previewWidth())
}
