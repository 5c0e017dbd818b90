package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/yourusername/backscroll/internal/client/history"
	"github.com/yourusername/backscroll/internal/export"
	"github.com/yourusername/backscroll/internal/logging"
)

type historyOptions struct {
	pages  int
	format string
	output string
}

func newHistoryCmd(root *rootOptions) *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Load pages of history and write the transcript",
		Long: `Load up to --pages pages, newest first, and write the messages
oldest first in the chosen format (yaml, json, jsonl, text).

Loading stops early when the history runs out. A failed page aborts
the command without writing a partial transcript.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root)
			if err != nil {
				return err
			}

			exporter, err := export.NewExporter(opts.format)
			if err != nil {
				return err
			}

			logger := logging.New(os.Stderr, cfg.LogLevel, "history")
			logging.SetVerbose(logger, root.verbose, cfg.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pager := newPager(cfg, logger)
			defer pager.Close()

			transcript, err := loadTranscript(ctx, pager, opts.pages, logger)
			if err != nil {
				return err
			}
			transcript.Source = cfg.BaseURL

			w := io.Writer(cmd.OutOrStdout())
			path := outputPath(opts.output, exporter)
			if path != "" {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			if err := exporter.Export(transcript, w); err != nil {
				return fmt.Errorf("failed to export transcript: %w", err)
			}
			if path != "" {
				logger.Info("transcript written", "path", path, "messages", len(transcript.Messages))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.pages, "pages", "n", 1, "Maximum pages to load (0 = until the history runs out)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "yaml", "Output format (yaml, json, jsonl, text)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to a file instead of stdout; the format's extension is added when missing")
	return cmd
}

// outputPath adds the exporter's extension to a file name that has none
func outputPath(output string, exporter export.Exporter) string {
	if output == "" || filepath.Ext(output) != "" {
		return output
	}
	return output + "." + exporter.Extension()
}

// loadTranscript drives the pager until maxPages pages merged or the history ran out
func loadTranscript(ctx context.Context, pager *history.Pager, maxPages int, logger *log.Logger) (*export.Transcript, error) {
	t := &export.Transcript{}

	for maxPages <= 0 || t.Pages < maxPages {
		switch e := pager.Load(ctx).(type) {
		case history.PageMergedEvent:
			t.Pages++
			if e.Last {
				t.Complete = true
			}
		case history.HistoryExhaustedEvent:
			t.Complete = true
		case history.PageFailedEvent:
			return nil, fmt.Errorf("load page %d: %w", e.Page, e.Err)
		case history.RefusedEvent:
			if !errors.Is(e.Err, history.ErrExhausted) {
				return nil, e.Err
			}
			t.Complete = true
		case history.DiscardedEvent:
			return nil, history.ErrClosed
		}
		if t.Complete {
			break
		}
	}

	t.Messages = pager.Store().Messages()
	logger.Debug("transcript loaded", "pages", t.Pages, "messages", len(t.Messages), "complete", t.Complete)
	return t, nil
}
