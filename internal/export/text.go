package export

import (
	"fmt"
	"io"

	"github.com/yourusername/backscroll/internal/client/ui"
)

// TextExporter renders the transcript as chat bubbles, the way the screen shows them
type TextExporter struct {
	Width int
}

// Export writes the rendered bubbles followed by a one-line summary
func (e *TextExporter) Export(t *Transcript, w io.Writer) error {
	if _, err := io.WriteString(w, ui.RenderTranscript(t.Messages, e.Width)); err != nil {
		return err
	}
	state := "more available"
	if t.Complete {
		state = "complete"
	}
	_, err := fmt.Fprintf(w, "\n%d messages from %d pages of %s (%s)\n", len(t.Messages), t.Pages, t.Source, state)
	return err
}

// Extension returns the file extension for this format
func (e *TextExporter) Extension() string {
	return "txt"
}
