package history

// Event reports the outcome of a page load
type Event interface {
	isEvent()
}

// PageMergedEvent is sent when a page was prepended to the store
type PageMergedEvent struct {
	Page  int
	Added int
	Last  bool // short page, no older pages will be requested
}

func (PageMergedEvent) isEvent() {}

// PageFailedEvent is sent when a fetch failed; the store is untouched
type PageFailedEvent struct {
	Page int
	Err  error
}

func (PageFailedEvent) isEvent() {}

// HistoryExhaustedEvent is sent when a page came back empty
type HistoryExhaustedEvent struct {
	Page int
}

func (HistoryExhaustedEvent) isEvent() {}

// DiscardedEvent is sent when a result arrived after the pager was closed
type DiscardedEvent struct {
	Page int
}

func (DiscardedEvent) isEvent() {}

// RefusedEvent is returned by Load when no request could be started
type RefusedEvent struct {
	Err error
}

func (RefusedEvent) isEvent() {}
