package chat

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeLayout renders local send times like "3:04:05 PM"
const DefaultTimeLayout = "3:04:05 PM"

// Snapshot is the ordered sequence handed to change listeners
type Snapshot []Message

// Store holds the ordered message sequence, oldest first.
// It is not safe for concurrent use; drive it from a single goroutine
// (the Bubble Tea Update loop or a headless command).
type Store struct {
	messages  []Message
	ids       map[string]struct{}
	localSeq  uint64
	now       func() time.Time
	layout    string
	listeners []func(Snapshot)
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the wall clock used for local messages
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithTimeLayout sets the layout used to format local send times
func WithTimeLayout(layout string) Option {
	return func(s *Store) {
		if layout != "" {
			s.layout = layout
		}
	}
}

// NewStore creates an empty message store
func NewStore(opts ...Option) *Store {
	s := &Store{
		ids:    make(map[string]struct{}),
		now:    time.Now,
		layout: DefaultTimeLayout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnChange registers a listener called after every mutation
func (s *Store) OnChange(fn func(Snapshot)) {
	s.listeners = append(s.listeners, fn)
}

// PrependPage inserts an oldest-to-newest page before everything already held.
// Messages whose id is already present are dropped. It returns how many were inserted.
func (s *Store) PrependPage(page []Message) int {
	if len(page) == 0 {
		return 0
	}

	fresh := make([]Message, 0, len(page))
	for _, msg := range page {
		if _, dup := s.ids[msg.ID]; dup {
			continue
		}
		s.ids[msg.ID] = struct{}{}
		fresh = append(fresh, msg)
	}
	if len(fresh) == 0 {
		return 0
	}

	s.messages = append(fresh, s.messages...)
	s.notify()
	return len(fresh)
}

// AppendLocal trims text and appends it as a new self-authored message at the newest end
func (s *Store) AppendLocal(text string) (Message, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Message{}, &ValidationError{Input: text, Err: ErrEmptyText}
	}

	id := s.mintLocalID()
	msg := Message{
		ID:     id,
		Text:   trimmed,
		Sender: SenderSelf,
		SentAt: s.now().Format(s.layout),
		Page:   LocalPage,
	}
	s.ids[id] = struct{}{}
	s.messages = append(s.messages, msg)
	s.notify()
	return msg, nil
}

// mintLocalID skips any counter value a remote page already claimed
func (s *Store) mintLocalID() string {
	for {
		s.localSeq++
		id := fmt.Sprintf("local-%d", s.localSeq)
		if _, taken := s.ids[id]; !taken {
			return id
		}
	}
}

// Messages returns a copy of the sequence, oldest first
func (s *Store) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of stored messages
func (s *Store) Len() int {
	return len(s.messages)
}

// LocalCount returns how many local ids have been minted
func (s *Store) LocalCount() uint64 {
	return s.localSeq
}

// Oldest returns the first message in the sequence
func (s *Store) Oldest() (Message, bool) {
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[0], true
}

// Newest returns the last message in the sequence
func (s *Store) Newest() (Message, bool) {
	if len(s.messages) == 0 {
		return Message{}, false
	}
	return s.messages[len(s.messages)-1], true
}

func (s *Store) notify() {
	if len(s.listeners) == 0 {
		return
	}
	snap := Snapshot(s.Messages())
	for _, fn := range s.listeners {
		fn(snap)
	}
}
