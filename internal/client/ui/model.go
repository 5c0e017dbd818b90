package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/yourusername/backscroll/internal/chat"
	"github.com/yourusername/backscroll/internal/client/history"
	"github.com/yourusername/backscroll/internal/logging"
)

// ViewState represents the current view in the TUI
type ViewState int

const (
	ViewLoading ViewState = iota
	ViewChat
)

// chrome is the number of rows around the history viewport:
// header, history box border, input box, status bar
const chrome = 1 + 2 + 3 + 1

// Options configure the chat screen
type Options struct {
	Source       string // shown in the header
	FetchTimeout time.Duration
	Logger       *log.Logger
}

// Model is the main Bubble Tea model. The store and pager are owned by the
// caller; the model mutates the store only through AppendLocal and the pager.
type Model struct {
	viewState ViewState
	store     *chat.Store
	pager     *history.Pager
	logger    *log.Logger

	viewport viewport.Model
	input    textinput.Model
	ready    bool

	width  int
	height int

	source       string
	fetchTimeout time.Duration
	err          error // last failed page load
	loadingDots  int
	ticking      bool
	tickGen      int // only ticks of this generation are rescheduled
}

// NewModel creates the chat screen over a pager and its store
func NewModel(pager *history.Pager, opts Options) Model {
	input := textinput.New()
	input.Placeholder = "Type a message"
	input.Prompt = "> "
	input.CharLimit = 500
	input.Focus()

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return Model{
		viewState:    ViewLoading,
		store:        pager.Store(),
		pager:        pager,
		logger:       logger,
		input:        input,
		width:        80,
		height:       24,
		source:       opts.Source,
		fetchTimeout: opts.FetchTimeout,
	}
}

// Init starts loading the newest page. Its receiver is a copy, so the
// first tickMsg of generation zero marks the running model as ticking.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.requestPage(), tickCmd(0), textinput.Blink)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.Close()
			return m, tea.Quit
		}
		switch m.viewState {
		case ViewLoading:
			return m.updateLoading(msg)
		case ViewChat:
			return m.updateChat(msg)
		}

	case tea.MouseMsg:
		if m.viewState != ViewChat || !m.ready {
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		if msg.Button == tea.MouseButtonWheelUp && m.viewport.AtTop() {
			return m, tea.Batch(cmd, m.loadMore())
		}
		return m, cmd

	case pageLoadedMsg:
		return m.handlePageLoaded(msg)

	case tickMsg:
		if msg.gen != m.tickGen {
			return m, nil
		}
		if m.viewState == ViewLoading || m.pager.State() == history.StateRequesting {
			m.ticking = true
			m.loadingDots = (m.loadingDots + 1) % 4
			if m.viewState == ViewChat {
				// the banner stays one line, so the scroll offset is unaffected
				m.setContent()
			}
			return m, tickCmd(m.tickGen)
		}
		m.ticking = false
		return m, nil
	}

	return m, nil
}

// View renders the current view
func (m Model) View() string {
	switch m.viewState {
	case ViewLoading:
		return m.viewLoading()
	case ViewChat:
		return m.viewChat()
	}
	return ""
}

// Close stops the pager so fetches still in flight are discarded
func (m *Model) Close() {
	if m.pager != nil {
		m.pager.Close()
	}
}

// loadMore starts the next page if the pager allows it, plus a tick chain
// when none is running
func (m *Model) loadMore() tea.Cmd {
	fetch := m.requestPage()
	if fetch == nil || m.ticking {
		return fetch
	}
	m.ticking = true
	m.tickGen++
	return tea.Batch(fetch, tickCmd(m.tickGen))
}

func (m *Model) requestPage() tea.Cmd {
	page, ok := m.pager.Begin()
	if !ok {
		return nil
	}
	m.err = nil
	m.setContent()
	return fetchPageCmd(m.pager, page, m.fetchTimeout)
}

// handlePageLoaded applies a fetch result through the pager
func (m Model) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	event := m.pager.Complete(msg.page, msg.msgs, msg.err)

	switch e := event.(type) {
	case history.PageMergedEvent:
		if m.viewState == ViewLoading {
			m.viewState = ViewChat
			m.setContent()
			m.viewport.GotoBottom()
			return m, nil
		}
		added := m.setContent()
		// keep the rows the user was looking at in place
		m.viewport.SetYOffset(m.viewport.YOffset + added)
		m.logger.Debug("older page shown", "page", e.Page, "lines", added)

	case history.HistoryExhaustedEvent:
		m.viewState = ViewChat
		m.setContent()

	case history.PageFailedEvent:
		m.err = e.Err
		m.setContent()

	case history.DiscardedEvent:
		// screen closed or stale result
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	vpWidth := max(width-2, 10)
	vpHeight := max(height-chrome, 3)

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.viewport.KeyMap = scrollKeys()
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.input.Width = max(width-8, 10)

	atBottom := m.viewport.AtBottom()
	m.setContent()
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// setContent re-renders the history and returns how many lines it grew by
func (m *Model) setContent() int {
	if !m.ready {
		return 0
	}
	before := m.viewport.TotalLineCount()
	m.viewport.SetContent(m.renderHistory())
	return m.viewport.TotalLineCount() - before
}

// renderHistory renders a fixed one-line banner above the bubbles so that
// growth in line count comes only from new messages
func (m Model) renderHistory() string {
	width := m.viewport.Width

	var banner string
	switch {
	case m.pager.State() == history.StateRequesting:
		banner = spinnerStyle.Render("↻ loading older messages" + dots(m.loadingDots))
	case m.err != nil:
		banner = errorStyle.Render(fmt.Sprintf("✗ couldn't load page %d · ctrl+r to retry", m.pager.NextPage()))
	case m.pager.Exhausted():
		banner = mutedStyle.Render("── beginning of conversation ──")
	default:
		banner = mutedStyle.Render("↑ scroll up for older messages")
	}
	banner = lipgloss.PlaceHorizontal(width, lipgloss.Center, banner)

	if m.store.Len() == 0 {
		return banner
	}
	return banner + "\n" + RenderTranscript(m.store.Messages(), width)
}

func scrollKeys() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up")),
		Down:         key.NewBinding(key.WithKeys("down")),
	}
}

func isScrollKey(msg tea.KeyMsg) bool {
	keys := scrollKeys()
	return key.Matches(msg, keys.PageDown, keys.PageUp, keys.HalfPageUp, keys.HalfPageDown, keys.Up, keys.Down)
}

func dots(n int) string {
	return "..."[:n%4]
}
