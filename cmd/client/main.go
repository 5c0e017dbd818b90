package main

import (
	"fmt"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/yourusername/backscroll/internal/chat"
	"github.com/yourusername/backscroll/internal/client/history"
	"github.com/yourusername/backscroll/internal/client/ui"
	"github.com/yourusername/backscroll/internal/config"
	"github.com/yourusername/backscroll/internal/logging"
)

var version = "dev"

// rootOptions are the flags shared by every command; set flags override the environment
type rootOptions struct {
	baseURL  string
	pageSize int
	logFile  string
	verbose  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "backscroll",
		Short: "Read a paginated chat history in the terminal",
		Long: `backscroll opens a chat screen on a remote history endpoint.

The newest page loads first; scrolling to the top loads older pages.
Messages you type are added locally below the history.

Quick Start:
  backscroll                                  # open the chat screen
  backscroll --base-url http://localhost:8080 # read a local fixture server
  backscroll history --pages 3 --format text  # print the newest three pages`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runTUI(cfg, opts.verbose)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", config.DefaultBaseURL, "History endpoint base URL")
	cmd.PersistentFlags().IntVar(&opts.pageSize, "page-size", 0, "Messages per page; a shorter page ends the history (0 = unknown)")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "backscroll.log", "File the chat screen logs to")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newHistoryCmd(opts))
	return cmd
}

// loadConfig reads the environment and applies the flags that were set explicitly
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = opts.baseURL
	}
	if flags.Changed("page-size") {
		cfg.PageSize = opts.pageSize
	}
	if flags.Changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newPager wires a store and HTTP fetcher behind a pager
func newPager(cfg config.Config, logger *log.Logger) *history.Pager {
	store := chat.NewStore(chat.WithTimeLayout(cfg.TimeLayout))
	store.OnChange(func(s chat.Snapshot) {
		logger.Debug("store changed", "messages", len(s))
	})

	fetcher := history.NewFetcher(cfg.BaseURL,
		history.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		history.WithUserAgent("backscroll/"+version),
		history.WithLogger(logger),
	)

	return history.NewPager(store, fetcher,
		history.WithPageSize(cfg.PageSize),
		history.WithPagerLogger(logger),
	)
}

func runTUI(cfg config.Config, verbose bool) error {
	f, err := logging.OpenFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer f.Close()

	logger := logging.New(f, cfg.LogLevel, "backscroll")
	logging.SetVerbose(logger, verbose, cfg.LogLevel)
	logger.Info("starting chat screen", "base_url", cfg.BaseURL, "page_size", cfg.PageSize)

	pager := newPager(cfg, logger)
	model := ui.NewModel(pager, ui.Options{
		Source:       cfg.BaseURL,
		FetchTimeout: cfg.HTTPTimeout,
		Logger:       logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	pager.Close()
	if err != nil {
		return fmt.Errorf("chat screen: %w", err)
	}

	logger.Info("chat screen closed", "messages", pager.Store().Len(), "local", pager.Store().LocalCount())
	return nil
}
