package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/backscroll/internal/chat"
	"github.com/yourusername/backscroll/internal/client/history"
)

// pageLoadedMsg carries the result of a page fetch back into Update
type pageLoadedMsg struct {
	page int
	msgs []chat.Message
	err  error
}

// tickMsg is sent periodically for animations. gen identifies the chain
// that scheduled it.
type tickMsg struct {
	gen int
	at  time.Time
}

// fetchPageCmd fetches a page started with Pager.Begin. Only the fetch runs
// off the Update loop; merging happens when pageLoadedMsg arrives.
func fetchPageCmd(p *history.Pager, page int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		msgs, err := p.Fetch(ctx, page)
		return pageLoadedMsg{page: page, msgs: msgs, err: err}
	}
}

// tickCmd returns a command that sends tick messages for animations
func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}
