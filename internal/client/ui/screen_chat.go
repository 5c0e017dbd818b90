package ui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yourusername/backscroll/internal/chat"
	"github.com/yourusername/backscroll/internal/client/history"
)

// updateChat handles the conversation screen
func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if isScrollKey(msg) {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		if m.viewport.AtTop() && (msg.String() == "up" || msg.String() == "pgup" || msg.String() == "ctrl+u") {
			return m, tea.Batch(cmd, m.loadMore())
		}
		return m, cmd
	}

	switch msg.String() {
	case "enter":
		m.submit()
		return m, nil

	case "ctrl+r":
		if m.err != nil {
			return m, m.loadMore()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit appends the input as a local message; blank input is ignored
func (m *Model) submit() {
	sent, err := m.store.AppendLocal(m.input.Value())
	if err != nil {
		var verr *chat.ValidationError
		if !errors.As(err, &verr) {
			m.logger.Error("append failed", "err", err)
		}
		return
	}
	m.logger.Debug("message sent", "id", sent.ID)
	m.input.SetValue("")
	m.setContent()
	m.viewport.GotoBottom()
}

// viewChat renders the header, history, input and status bar
func (m Model) viewChat() string {
	header := headerStyle.Render("💬 BACKSCROLL") + mutedStyle.Render("  "+m.source)

	historyBox := historyBoxStyle.Render(m.viewport.View())

	inputBox := inputBoxStyle.
		Width(max(m.width-2, 10)).
		Render(m.input.View())

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		historyBox,
		inputBox,
		m.renderStatusBar(),
	)
}

// renderStatusBar shows paging progress and key hints
func (m Model) renderStatusBar() string {
	var state string
	switch {
	case m.pager.State() == history.StateRequesting:
		state = highlightStyle.Render("loading page " + fmt.Sprint(m.pager.NextPage()))
	case m.err != nil:
		state = errorStyle.Render("last load failed")
	case m.pager.Exhausted():
		state = mutedStyle.Render("all history loaded")
	default:
		state = mutedStyle.Render(fmt.Sprintf("next page %d", m.pager.NextPage()))
	}

	count := lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true).
		Render(fmt.Sprintf("%d messages", m.store.Len()))

	controls := mutedStyle.Render("↑/PgUp: Older  •  ENTER: Send  •  CTRL+R: Retry  •  ESC: Quit")

	return centerStyle.
		Width(m.width).
		Render(count + "  " + state + "  •  " + controls)
}
