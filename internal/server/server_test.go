package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/backscroll/internal/logging"
	"github.com/yourusername/backscroll/internal/protocol"
)

func smallHistory() *History {
	opts := DefaultOptions()
	opts.PageSize = 4
	opts.Messages = 10
	return NewHistory(opts)
}

func TestHistory_Pages(t *testing.T) {
	req := require.New(t)
	h := smallHistory()

	p0 := h.Page(0)
	p1 := h.Page(1)
	p2 := h.Page(2)
	p3 := h.Page(3)

	req.Len(p0.Chats, 4)
	req.Len(p1.Chats, 4)
	req.Len(p2.Chats, 2)
	req.Empty(p3.Chats)
	req.NotNil(p3.Chats)
	req.Empty(h.Page(-1).Chats)

	// newest first within a page, and page 0 holds the newest messages
	req.Greater(p0.Chats[0].Time, p0.Chats[3].Time)
	req.Greater(p0.Chats[3].Time, p1.Chats[0].Time)
	req.Greater(p1.Chats[3].Time, p2.Chats[0].Time)
}

func TestHistory_HugePageIsEmpty(t *testing.T) {
	h := NewHistory(DefaultOptions())
	require.NotPanics(t, func() {
		page := h.Page(1844674407370955161)
		assert.NotNil(t, page.Chats)
		assert.Empty(t, page.Chats)
	})
	assert.Empty(t, NewHistory(Options{Messages: 0}).Page(0).Chats)
}

func TestHistory_Deterministic(t *testing.T) {
	a := smallHistory().Page(1)
	b := smallHistory().Page(1)
	assert.Equal(t, a, b)

	seen := map[protocol.RecordID]bool{}
	h := smallHistory()
	for n := 0; n < 3; n++ {
		for _, r := range h.Page(n).Chats {
			assert.False(t, seen[r.ID])
			seen[r.ID] = true
		}
	}
	assert.Len(t, seen, 10)
}

func TestHistory_Add(t *testing.T) {
	h := smallHistory()
	h.Add(StoredMessage{Message: "fresh", FromSelf: true})

	assert.Equal(t, 11, h.Len())
	newest := h.Page(0).Chats[0]
	assert.Equal(t, "fresh", newest.Message)
	assert.True(t, newest.IsUser)
	assert.NotEmpty(t, newest.ID)
}

func TestServer_Chat(t *testing.T) {
	srv := NewServer(smallHistory(), logging.Discard(), false)

	tests := []struct {
		name   string
		target string
		status int
		count  int
	}{
		{"default page", "/chat", http.StatusOK, 4},
		{"second page", "/chat?page=1", http.StatusOK, 4},
		{"short page", "/chat?page=2", http.StatusOK, 2},
		{"past the end", "/chat?page=9", http.StatusOK, 0},
		{"huge page", "/chat?page=1844674407370955161", http.StatusOK, 0},
		{"negative", "/chat?page=-1", http.StatusBadRequest, -1},
		{"not a number", "/chat?page=abc", http.StatusBadRequest, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, tt.target, nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tt.status, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			if tt.count < 0 {
				assert.Contains(t, string(body), "non-negative")
				return
			}
			page, err := protocol.DecodePage(body)
			require.NoError(t, err)
			assert.Len(t, page.Chats, tt.count)
		})
	}
}

func TestServer_Healthz(t *testing.T) {
	srv := NewServer(smallHistory(), logging.Discard(), true)
	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
