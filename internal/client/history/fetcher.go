package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/yourusername/backscroll/internal/chat"
	"github.com/yourusername/backscroll/internal/protocol"
)

// maxPageBytes bounds how much of a page body is read
const maxPageBytes = 4 << 20

// idNamespace seeds ids derived for records the endpoint sends without one
var idNamespace = uuid.MustParse("6f1c0b9e-3a52-4f38-9d7e-8c2f4b1a0e55")

// Source produces one page of history, oldest message first
type Source interface {
	FetchPage(ctx context.Context, page int) ([]chat.Message, error)
}

// Fetcher reads history pages from the remote chat endpoint
type Fetcher struct {
	baseURL   string
	client    *http.Client
	userAgent string
	logger    *log.Logger
}

// FetcherOption configures a Fetcher
type FetcherOption func(*Fetcher)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *log.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// NewFetcher creates a fetcher for the endpoint rooted at baseURL
func NewFetcher(baseURL string, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 15 * time.Second},
		userAgent: "backscroll",
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// PageURL returns the request URL for a page index
func (f *Fetcher) PageURL(page int) string {
	return f.baseURL + protocol.ChatPath + "?" + protocol.PageQuery(page)
}

// FetchPage requests one page and returns its messages oldest first
func (f *Fetcher) FetchPage(ctx context.Context, page int) ([]chat.Message, error) {
	if page < 0 {
		return nil, &FetchError{Page: page, Op: "request", Err: fmt.Errorf("negative page index %d", page)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.PageURL(page), nil)
	if err != nil {
		return nil, &FetchError{Page: page, Op: "request", Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Page: page, Op: "request", Err: err}
	}
	defer resp.Body.Close()

	f.logger.Debug("page response", "page", page, "status", resp.StatusCode,
		"request_id", requestID, "elapsed", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Page: page, Op: "status", Status: resp.StatusCode,
			Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes+1))
	if err != nil {
		return nil, &FetchError{Page: page, Op: "request", Status: resp.StatusCode, Err: err}
	}
	if len(body) > maxPageBytes {
		return nil, &FetchError{Page: page, Op: "decode", Status: resp.StatusCode,
			Err: fmt.Errorf("body exceeds %d bytes", maxPageBytes)}
	}

	raw, err := protocol.DecodePage(body)
	if err != nil {
		return nil, &FetchError{Page: page, Op: "decode", Status: resp.StatusCode, Err: err}
	}
	return Normalize(page, raw.Chats), nil
}

// Normalize maps a newest-first page of records to messages ordered oldest first
func Normalize(page int, records []protocol.ChatRecord) []chat.Message {
	msgs := lo.Map(records, func(r protocol.ChatRecord, i int) chat.Message {
		sender := chat.SenderOther
		if r.IsUser {
			sender = chat.SenderSelf
		}
		return chat.Message{
			ID:     recordID(page, i, r),
			Text:   r.Message,
			Sender: sender,
			SentAt: r.Time,
			Page:   page,
		}
	})
	slices.Reverse(msgs)
	return msgs
}

// recordID keeps the served id, or derives one that is stable across refetches of the same page
func recordID(page, pos int, r protocol.ChatRecord) string {
	if r.ID != "" {
		return string(r.ID)
	}
	key := strconv.Itoa(page) + "\x00" + strconv.Itoa(pos) + "\x00" + r.Time + "\x00" + r.Message
	return uuid.NewSHA1(idNamespace, []byte(key)).String()
}
