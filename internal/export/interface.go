package export

import (
	"fmt"
	"io"

	"github.com/yourusername/backscroll/internal/chat"
)

// Transcript is the loaded history handed to an exporter, oldest message first
type Transcript struct {
	Source   string         `json:"source" yaml:"source"`
	Pages    int            `json:"pages" yaml:"pages"`
	Complete bool           `json:"complete" yaml:"complete"`
	Messages []chat.Message `json:"messages" yaml:"messages"`
}

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(t *Transcript, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "text", "txt":
		return &TextExporter{Width: 72}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: yaml, json, jsonl, text)", format)
	}
}
