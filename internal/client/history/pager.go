package history

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/yourusername/backscroll/internal/chat"
)

// State is the pager's position in a single page load
type State int

const (
	StateIdle State = iota
	StateRequesting
)

func (s State) String() string {
	if s == StateRequesting {
		return "requesting"
	}
	return "idle"
}

// Pager drives page loads into a store, one request at a time.
// Like the store it is confined to one goroutine; only Source.FetchPage
// may run elsewhere, between Begin and Complete.
type Pager struct {
	store     *chat.Store
	source    Source
	pageSize  int
	next      int
	state     State
	inFlight  int
	exhausted bool
	closed    bool
	logger    *log.Logger
}

// PagerOption configures a Pager
type PagerOption func(*Pager)

// WithPageSize treats any page shorter than size as the last one. Zero disables the check.
func WithPageSize(size int) PagerOption {
	return func(p *Pager) {
		if size > 0 {
			p.pageSize = size
		}
	}
}

// WithPagerLogger sets the logger for load outcomes
func WithPagerLogger(l *log.Logger) PagerOption {
	return func(p *Pager) {
		p.logger = l
	}
}

// NewPager creates a pager that starts at page 0
func NewPager(store *chat.Store, source Source, opts ...PagerOption) *Pager {
	p := &Pager{
		store:  store,
		source: source,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Begin moves Idle to Requesting and returns the page to fetch.
// ok is false while a request is in flight, after exhaustion, or once closed.
func (p *Pager) Begin() (page int, ok bool) {
	switch {
	case p.closed:
		return 0, false
	case p.state == StateRequesting:
		p.logger.Debug("load ignored, request in flight", "page", p.inFlight)
		return 0, false
	case p.exhausted:
		return 0, false
	}
	p.state = StateRequesting
	p.inFlight = p.next
	p.logger.Debug("requesting page", "page", p.next)
	return p.next, true
}

// Complete applies the result of the request started by Begin and returns to Idle
func (p *Pager) Complete(page int, msgs []chat.Message, err error) Event {
	if p.closed {
		p.logger.Debug("discarding late page", "page", page)
		return DiscardedEvent{Page: page}
	}
	if p.state != StateRequesting || page != p.inFlight {
		p.logger.Warn("discarding unexpected page", "page", page, "state", p.state)
		return DiscardedEvent{Page: page}
	}
	p.state = StateIdle

	if err != nil {
		p.logger.Error("page load failed", "page", page, "err", err)
		return PageFailedEvent{Page: page, Err: err}
	}

	if len(msgs) == 0 {
		p.exhausted = true
		p.logger.Info("history exhausted", "page", page)
		return HistoryExhaustedEvent{Page: page}
	}

	added := p.store.PrependPage(msgs)
	p.next = page + 1
	last := p.pageSize > 0 && len(msgs) < p.pageSize
	if last {
		p.exhausted = true
	}
	p.logger.Info("page merged", "page", page, "added", added, "total", p.store.Len(), "last", last)
	return PageMergedEvent{Page: page, Added: added, Last: last}
}

// Load fetches and merges the next page synchronously
func (p *Pager) Load(ctx context.Context) Event {
	page, ok := p.Begin()
	if !ok {
		return RefusedEvent{Err: p.refusal()}
	}
	msgs, err := p.source.FetchPage(ctx, page)
	return p.Complete(page, msgs, err)
}

// Fetch runs the source for a page started by Begin. It touches no pager state.
func (p *Pager) Fetch(ctx context.Context, page int) ([]chat.Message, error) {
	return p.source.FetchPage(ctx, page)
}

// Close stops the pager; results that arrive afterwards are discarded
func (p *Pager) Close() {
	p.closed = true
}

func (p *Pager) refusal() error {
	switch {
	case p.closed:
		return ErrClosed
	case p.state == StateRequesting:
		return ErrInFlight
	default:
		return ErrExhausted
	}
}

// State returns the current load state
func (p *Pager) State() State {
	return p.state
}

// NextPage returns the index the next Begin will request
func (p *Pager) NextPage() int {
	return p.next
}

// Exhausted reports whether older pages have run out
func (p *Pager) Exhausted() bool {
	return p.exhausted
}

// Closed reports whether Close was called
func (p *Pager) Closed() bool {
	return p.closed
}

// Store returns the store the pager merges into
func (p *Pager) Store() *chat.Store {
	return p.store
}
