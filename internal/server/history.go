package server

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/backscroll/internal/protocol"
)

// StoredMessage is one message in the fixture history
type StoredMessage struct {
	ID       string
	Message  string
	Time     time.Time
	FromSelf bool
}

// History holds a seeded conversation, oldest message first
type History struct {
	messages []StoredMessage
	pageSize int
	mu       sync.RWMutex
}

// Options control how the fixture history is generated
type Options struct {
	PageSize  int
	Messages  int
	Seed      int64
	SelfRatio float64
	Start     time.Time
}

// DefaultOptions mirror the page size the public endpoint uses
func DefaultOptions() Options {
	return Options{
		PageSize:  10,
		Messages:  95,
		Seed:      1,
		SelfRatio: 0.35,
		Start:     time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

var lines = []string{
	"Hey, are we still on for the ride tomorrow?",
	"Yes! Pickup at 8:30 near the metro station.",
	"Can we leave a bit earlier?",
	"Sure, 8:15 works.",
	"I'll share my live location once I start.",
	"Traffic looks heavy on the ring road.",
	"Let's take the service lane then.",
	"Running five minutes late, sorry.",
	"No problem, I'm grabbing coffee.",
	"Reached the gate.",
	"Thanks for the ride today!",
	"Same time next week?",
}

// NewHistory generates a deterministic conversation
func NewHistory(opts Options) *History {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultOptions().PageSize
	}
	if opts.Start.IsZero() {
		opts.Start = DefaultOptions().Start
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	ns := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("backscroll-fixture-%d", opts.Seed)))

	h := &History{
		messages: make([]StoredMessage, 0, opts.Messages),
		pageSize: opts.PageSize,
	}
	at := opts.Start
	for i := 0; i < opts.Messages; i++ {
		at = at.Add(time.Duration(1+rng.Intn(20)) * time.Minute)
		h.messages = append(h.messages, StoredMessage{
			ID:       uuid.NewSHA1(ns, []byte(fmt.Sprint(i))).String(),
			Message:  lines[rng.Intn(len(lines))],
			Time:     at,
			FromSelf: rng.Float64() < opts.SelfRatio,
		})
	}
	return h
}

// Add appends a message at the newest end
func (h *History) Add(msg StoredMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	h.messages = append(h.messages, msg)
}

// Len returns the number of stored messages
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// PageSize returns the configured page size
func (h *History) PageSize() int {
	return h.pageSize
}

// Page returns page n counted back from the newest message, newest first.
// Pages past the start of the conversation are empty.
func (h *History) Page(n int) protocol.ChatPage {
	h.mu.RLock()
	defer h.mu.RUnlock()

	page := protocol.ChatPage{Chats: []protocol.ChatRecord{}}
	// n*pageSize must not overflow for huge page numbers
	if n < 0 || len(h.messages) == 0 || n > (len(h.messages)-1)/h.pageSize {
		return page
	}
	end := len(h.messages) - n*h.pageSize
	start := max(end-h.pageSize, 0)

	for i := end - 1; i >= start; i-- {
		msg := h.messages[i]
		page.Chats = append(page.Chats, protocol.ChatRecord{
			ID:      protocol.RecordID(msg.ID),
			Message: msg.Message,
			Time:    msg.Time.Format("2006-01-02 15:04:05"),
			IsUser:  msg.FromSelf,
		})
	}
	return page
}
