package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/backscroll/internal/chat"
	"gopkg.in/yaml.v3"
)

func sampleTranscript() *Transcript {
	return &Transcript{
		Source:   "http://fixture",
		Pages:    1,
		Complete: true,
		Messages: []chat.Message{
			{ID: "1", Text: "hello there", Sender: chat.SenderOther, SentAt: "t1", Page: 0},
			{ID: "local-1", Text: "hi back", Sender: chat.SenderSelf, SentAt: "t2", Page: chat.LocalPage},
		},
	}
}

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		ext     string
		wantErr bool
	}{
		{"yaml", "yaml", false},
		{"yml", "yaml", false},
		{"json", "json", false},
		{"jsonl", "jsonl", false},
		{"text", "txt", false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exp, err := NewExporter(tt.format)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ext, exp.Extension())
		})
	}
}

func TestJSONExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONExporter{}).Export(sampleTranscript(), &buf))

	var got struct {
		Source   string `json:"source"`
		Messages []struct {
			ID     string `json:"id"`
			Sender string `json:"sender"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "http://fixture", got.Source)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "other", got.Messages[0].Sender)
	assert.Equal(t, "self", got.Messages[1].Sender)
}

func TestJSONLExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONLExporter{}).Export(sampleTranscript(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"id":"1"`)
	assert.Contains(t, lines[1], `"sender":"self"`)
}

func TestJSONLExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONLExporter{}).Export(&Transcript{}, &buf))
	assert.Empty(t, buf.String())
}

func TestYAMLExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&YAMLExporter{}).Export(sampleTranscript(), &buf))

	var got map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, true, got["complete"])
	assert.Contains(t, buf.String(), "sender: self")
	assert.Contains(t, buf.String(), "sentAt: t2")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestYAMLExporter_WriteError(t *testing.T) {
	err := (&YAMLExporter{}).Export(sampleTranscript(), failingWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestTextExporter_Export(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&TextExporter{Width: 60}).Export(sampleTranscript(), &buf))

	out := buf.String()
	assert.Contains(t, out, "hello there")
	assert.Contains(t, out, "hi back")
	assert.Less(t, strings.Index(out, "hello there"), strings.Index(out, "hi back"))
	assert.Contains(t, out, "2 messages from 1 pages of http://fixture (complete)")
}
