package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/platform/web"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var flagWebAddr string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the board to browsers",
	Long: `Start an HTTP server with a canvas client. Each browser tab gets its
own board over a WebSocket at /ws/<board>; results go to the scores database.

Endpoints:
  /                     - Canvas client
  /ws/<board>           - WebSocket (?seed=N&player=NAME)
  /api/presets          - Board list
  /api/scores/<board>   - Top results (?limit=N)

Examples:
  t2048 web
  t2048 web --addr :9000`,
	Run: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address")
}

func runWeb(_ *cobra.Command, _ []string) {
	board := loadBoardConfig()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := web.DefaultConfig()
	cfg.Address = flagWebAddr
	cfg.TickRate = flagFPS
	cfg.Board = board

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := web.NewServer(cfg, store, logger.WithPrefix("t2048-web"))
	if err := server.ListenAndServe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
