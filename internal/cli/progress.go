package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// ProgressModel - Live render progress
// =============================================================================

// progressMsg reports how many cells have completed so far.
type progressMsg struct {
	completed int
}

// finishedMsg reports the end of the run, successful or not.
type finishedMsg struct {
	err error
}

// progressModel is the bubbletea model for the render progress bar.
type progressModel struct {
	total     int
	completed int
	width     int
	done      bool
	err       error
}

// newProgressModel creates a progress model for total cells.
func newProgressModel(total int) progressModel {
	return progressModel{total: total, width: 30}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case progressMsg:
		m.completed = msg.completed
	case finishedMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width - 20
		if m.width < 10 {
			m.width = 10
		}
		if m.width > 60 {
			m.width = 60
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return ""
	}

	filled := 0
	if m.total > 0 {
		filled = m.completed * m.width / m.total
	}

	var b strings.Builder
	b.WriteString(styleProgressBar.Render(strings.Repeat("█", filled)))
	b.WriteString(StyleDim.Render(strings.Repeat("░", m.width-filled)))
	b.WriteString(fmt.Sprintf(" %d/%d cells", m.completed, m.total))
	return b.String()
}
