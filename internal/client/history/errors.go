package history

import (
	"errors"
	"fmt"
)

var (
	ErrInFlight  = errors.New("a page request is already in flight")
	ErrExhausted = errors.New("no older pages")
	ErrClosed    = errors.New("pager closed")
)

// FetchError is returned when a page cannot be retrieved or understood
type FetchError struct {
	Page   int
	Op     string // "request", "status", "decode"
	Status int    // HTTP status, 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch page %d: %s (HTTP %d): %v", e.Page, e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch page %d: %s: %v", e.Page, e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
