package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/backscroll/internal/client/history"
	"github.com/yourusername/backscroll/internal/config"
	"github.com/yourusername/backscroll/internal/export"
	"github.com/yourusername/backscroll/internal/logging"
	"github.com/yourusername/backscroll/internal/server"
)

// fixtureURL serves ten messages in pages of four
func fixtureURL(t *testing.T) string {
	t.Helper()
	opts := server.DefaultOptions()
	opts.PageSize = 4
	opts.Messages = 10
	srv := server.NewServer(server.NewHistory(opts), logging.Discard(), false)

	ts := httptest.NewServer(adaptor.FiberApp(srv.App()))
	t.Cleanup(ts.Close)
	return ts.URL
}

func testConfig(baseURL string, pageSize int) config.Config {
	cfg := config.Default()
	cfg.BaseURL = baseURL
	cfg.PageSize = pageSize
	return cfg
}

func TestLoadTranscript_ShortPageEndsHistory(t *testing.T) {
	req := require.New(t)
	pager := newPager(testConfig(fixtureURL(t), 4), logging.Discard())

	tr, err := loadTranscript(context.Background(), pager, 0, logging.Discard())
	req.NoError(err)
	req.Equal(3, tr.Pages)
	req.True(tr.Complete)
	req.Len(tr.Messages, 10)
	req.Equal(2, tr.Messages[0].Page)
	req.Equal(0, tr.Messages[9].Page)
}

func TestLoadTranscript_EmptyPageEndsHistory(t *testing.T) {
	req := require.New(t)
	pager := newPager(testConfig(fixtureURL(t), 0), logging.Discard())

	tr, err := loadTranscript(context.Background(), pager, 0, logging.Discard())
	req.NoError(err)
	req.Equal(3, tr.Pages)
	req.True(tr.Complete)
	req.Len(tr.Messages, 10)
	req.True(pager.Exhausted())
}

func TestLoadTranscript_StopsAtMaxPages(t *testing.T) {
	req := require.New(t)
	pager := newPager(testConfig(fixtureURL(t), 4), logging.Discard())

	tr, err := loadTranscript(context.Background(), pager, 1, logging.Discard())
	req.NoError(err)
	req.Equal(1, tr.Pages)
	req.False(tr.Complete)
	req.Len(tr.Messages, 4)
	req.Equal(1, pager.NextPage())
}

func TestLoadTranscript_FailureAborts(t *testing.T) {
	req := require.New(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	pager := newPager(testConfig(ts.URL, 0), logging.Discard())
	_, err := loadTranscript(context.Background(), pager, 2, logging.Discard())
	req.Error(err)

	var ferr *history.FetchError
	req.True(errors.As(err, &ferr))
	req.Equal(http.StatusServiceUnavailable, ferr.Status)
	req.Zero(pager.Store().Len())
	req.Zero(pager.NextPage())
}

func TestHistoryCommand_WritesJSON(t *testing.T) {
	req := require.New(t)
	url := fixtureURL(t)

	// Given a root command pointed at the fixture
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"history", "--base-url", url, "--pages", "2", "--format", "json"})

	// When the history command runs
	req.NoError(cmd.Execute())

	// Then the two newest pages are written oldest first
	var got struct {
		Source   string           `json:"source"`
		Pages    int              `json:"pages"`
		Complete bool             `json:"complete"`
		Messages []map[string]any `json:"messages"`
	}
	req.NoError(json.Unmarshal(out.Bytes(), &got))
	req.Equal(url, got.Source)
	req.Equal(2, got.Pages)
	req.False(got.Complete)
	req.Len(got.Messages, 8)
	req.EqualValues(1, got.Messages[0]["page"])
	req.EqualValues(0, got.Messages[7]["page"])
}

func TestHistoryCommand_RejectsUnknownFormat(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"history", "--base-url", "http://127.0.0.1:1", "--format", "csv"})
	require.ErrorContains(t, cmd.Execute(), "unsupported format")
}

func TestHistoryCommand_OutputGetsFormatExtension(t *testing.T) {
	req := require.New(t)
	url := fixtureURL(t)
	dir := t.TempDir()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"history", "--base-url", url, "--format", "jsonl", "--output", filepath.Join(dir, "transcript")})
	req.NoError(cmd.Execute())

	data, err := os.ReadFile(filepath.Join(dir, "transcript.jsonl"))
	req.NoError(err)
	req.Len(bytes.Split(bytes.TrimSpace(data), []byte("\n")), 4)
	req.Empty(out.String())
}

func TestOutputPath(t *testing.T) {
	exp, err := export.NewExporter("yaml")
	require.NoError(t, err)

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"chat", "chat.yaml"},
		{"chat.yml", "chat.yml"},
		{"out/chat.txt", "out/chat.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, outputPath(tt.in, exp))
		})
	}
}
