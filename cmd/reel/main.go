package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gigglegrid/reel-cli/internal/app"
	"github.com/gigglegrid/reel-cli/internal/comments"
	"github.com/gigglegrid/reel-cli/internal/config"
	"github.com/gigglegrid/reel-cli/internal/identity"
	"github.com/gigglegrid/reel-cli/internal/pexels"
	"github.com/gigglegrid/reel-cli/internal/reel"
	"github.com/gigglegrid/reel-cli/internal/social"
	"github.com/gigglegrid/reel-cli/internal/syncstore"
	"github.com/gigglegrid/reel-cli/internal/tui"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// stderr belongs to the altscreen TUI; runtime events go to a file.
	logFile, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Fatalf("cannot open log file %s: %v", cfg.LogPath, err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, nil))

	store, err := syncstore.New(cfg.DBPath, cfg.Namespace)
	if err != nil {
		log.Fatalf("sync store init error: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := store.Init(ctx); err != nil {
		log.Fatalf("sync store schema error: %v", err)
	}
	if err := store.CheckWritable(ctx); err != nil {
		log.Fatalf("sync store write check failed (%v). Verify REEL_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	viewer := identity.Resolve(ctx, cfg.ViewerID, store, logger)
	if viewer.Degraded {
		logger.Warn("running with ephemeral identity; likes will not survive restarts")
	} else {
		logger.Info("viewer resolved", "viewer", viewer.ViewerID)
	}

	client := pexels.NewClient(cfg.APIBaseURL, cfg.APIKey, nil)
	service := app.NewService(client, store, cfg.Query, logger)

	tracker := social.NewTracker(social.StoreBackend{Store: store}, viewer.ViewerID, logger)
	defer tracker.Close()
	threads := comments.NewThreads(comments.StoreBackend{Store: store}, viewer.ViewerID)
	defer threads.Close()

	model := tui.NewModel(service, reel.New(), tracker, threads)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		log.Fatalf("tui error: %v", err)
	}
}
