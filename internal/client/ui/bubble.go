package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yourusername/backscroll/internal/chat"
)

const (
	defaultWidth  = 72
	avatarGlyph   = "◉"
	bubbleChrome  = 4 // border + horizontal padding
	minBubbleText = 8
)

// RenderBubble renders one message aligned inside a row of the given width.
// Own messages sit on the right; others on the left behind an avatar.
func RenderBubble(msg chat.Message, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	textWidth := bubbleTextWidth(msg, width)
	body := lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Width(textWidth).Render(msg.Text),
		bubbleTimeStyle.Width(textWidth).Render(msg.SentAt),
	)

	if msg.IsOwn() {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, ownBubbleStyle.Render(body))
	}

	row := lipgloss.JoinHorizontal(
		lipgloss.Bottom,
		avatarStyle.Render(avatarGlyph),
		" ",
		otherBubbleStyle.Render(body),
	)
	return lipgloss.PlaceHorizontal(width, lipgloss.Left, row)
}

// bubbleTextWidth sizes the bubble to its content, capped at 70% of the row
func bubbleTextWidth(msg chat.Message, width int) int {
	limit := width*7/10 - bubbleChrome
	if !msg.IsOwn() {
		limit -= lipgloss.Width(avatarGlyph) + 1
	}
	if limit < minBubbleText {
		limit = minBubbleText
	}

	w := max(lipgloss.Width(msg.Text), lipgloss.Width(msg.SentAt), 1)
	return min(w, limit)
}

// RenderTranscript renders messages oldest first, one bubble per message
func RenderTranscript(msgs []chat.Message, width int) string {
	rows := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		rows = append(rows, RenderBubble(msg, width))
	}
	return strings.Join(rows, "\n")
}
