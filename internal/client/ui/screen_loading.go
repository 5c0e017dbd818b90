package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"◐", "◓", "◑", "◒"}

// updateLoading handles keys while the first page is pending or has failed
func (m Model) updateLoading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.Close()
		return m, tea.Quit
	case "r", "ctrl+r":
		if m.err != nil {
			return m, m.loadMore()
		}
	}
	return m, nil
}

// viewLoading renders the loading screen shown until the newest page arrives
func (m Model) viewLoading() string {
	title := titleStyle.Render("💬 BACKSCROLL")
	subtitle := subtitleStyle.Render("Fetching the conversation...")

	spinner := spinnerStyle.Render(spinnerFrames[m.loadingDots%len(spinnerFrames)])
	loadingText := lipgloss.NewStyle().
		Foreground(mutedColor).
		Render("Loading newest messages" + dots(m.loadingDots))
	status := spinner + " " + loadingText

	var errorMsg string
	if m.err != nil {
		status = ""
		errorMsg = errorStyle.Render("✗ Couldn't load messages: "+m.err.Error()) +
			"\n" + mutedStyle.Render("Press R to retry  •  ESC to quit")
	}

	mainContent := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		subtitle,
		"\n",
		status,
		errorMsg,
	)

	instructions := instructionStyle.Render(
		mutedStyle.Render("Reading from ") + highlightStyle.Render(m.source) + "  •  " +
			mutedStyle.Render("ESC to quit"))

	centeredMain := lipgloss.Place(m.width, m.height-5, lipgloss.Center, lipgloss.Center, mainContent)
	bottomInstructions := lipgloss.Place(m.width, 3, lipgloss.Center, lipgloss.Bottom, instructions)

	return centeredMain + "\n" + bottomInstructions
}
