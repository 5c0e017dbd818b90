package chat

import (
	"errors"
	"fmt"
)

// Sender classifies who authored a message
type Sender int

const (
	SenderOther Sender = iota
	SenderSelf
)

func (s Sender) String() string {
	if s == SenderSelf {
		return "self"
	}
	return "other"
}

// MarshalText lets exporters write the sender as "self"/"other"
func (s Sender) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LocalPage marks messages composed on this screen rather than fetched
const LocalPage = -1

// Message is a single chat message held by the store
type Message struct {
	ID     string `json:"id" yaml:"id"`
	Text   string `json:"text" yaml:"text"`
	Sender Sender `json:"sender" yaml:"sender"`
	SentAt string `json:"sentAt" yaml:"sentAt"`
	Page   int    `json:"page" yaml:"page"`
}

// IsOwn reports whether the viewing user wrote the message
func (m Message) IsOwn() bool {
	return m.Sender == SenderSelf
}

// ErrEmptyText is matched by every ValidationError raised for blank input
var ErrEmptyText = errors.New("message text is empty")

// ValidationError is returned when submitted text cannot become a message
type ValidationError struct {
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid message %q: %v", e.Input, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
