package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/yourusername/backscroll/internal/logging"
	"github.com/yourusername/backscroll/internal/server"
)

type serverOptions struct {
	addr     string
	logLevel string
	history  server.Options
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &serverOptions{history: server.DefaultOptions()}

	cmd := &cobra.Command{
		Use:          "backscroll-server",
		Short:        "Serve a seeded chat history over GET /chat?page=N",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "HTTP service address")
	cmd.Flags().IntVar(&opts.history.PageSize, "page-size", opts.history.PageSize, "Messages per page")
	cmd.Flags().IntVar(&opts.history.Messages, "messages", opts.history.Messages, "Messages in the seeded history")
	cmd.Flags().Int64Var(&opts.history.Seed, "seed", opts.history.Seed, "Seed for the generated conversation")
	cmd.Flags().Float64Var(&opts.history.SelfRatio, "self-ratio", opts.history.SelfRatio, "Share of messages sent by the reader")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	return cmd
}

func run(opts *serverOptions) error {
	logger := logging.New(os.Stderr, opts.logLevel, "server")
	srv := server.NewServer(server.NewHistory(opts.history), logger, true)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(opts.addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")
	if err := srv.Shutdown(); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
