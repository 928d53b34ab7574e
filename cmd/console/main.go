package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jwebster45206/storyweaver/internal/config"
	"github.com/jwebster45206/storyweaver/internal/logger"
	"github.com/jwebster45206/storyweaver/internal/services"
	"github.com/jwebster45206/storyweaver/internal/storage"
	"github.com/jwebster45206/storyweaver/pkg/story"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logOut, closeLog, err := openLog(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closeLog()
	log := logger.Setup(cfg, logOut)

	ctx := context.Background()
	startCtx, cancel := context.WithTimeout(ctx, 90*time.Second)
	defer cancel()

	cache, err := services.Open(startCtx, cfg, log)
	if err != nil {
		logger.WithError(log, err).Error("Failed to open store")
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}
	defer func() {
		_ = cache.Close() // Ignore error in defer
	}()

	content, err := storage.NewContentLoader(os.DirFS(cfg.DataDir), cache, log).Load(startCtx)
	if err != nil {
		logger.WithError(log, err).Error("Failed to load content")
		return fmt.Errorf("failed to load story content from %s: %w", cfg.DataDir, err)
	}

	store := storage.NewSessionStore(cache, cfg.SessionTTL, log)
	id, err := resolveSession(startCtx, cfg, store)
	if err != nil {
		return fmt.Errorf("failed to resolve session: %w", err)
	}
	sessionLog := logger.WithSession(log, id.String())

	snap, err := store.Load(startCtx, id)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	assembler := story.NewAssembler(content.Stories, story.NewRandomChooser(cfg.RandomSeed), sessionLog)
	game, err := NewGame(startCtx, snap, content.Questions.Questions, assembler, store, cfg.HistoryLimit, sessionLog)
	if err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	p := tea.NewProgram(NewConsoleUI(ctx, game),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// resolveSession picks SESSION_ID, then the last saved session, then a new id.
func resolveSession(ctx context.Context, cfg *config.Config, store *storage.SessionStore) (uuid.UUID, error) {
	if cfg.SessionID != "" {
		id, err := uuid.Parse(cfg.SessionID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid SESSION_ID %q: %w", cfg.SessionID, err)
		}
		return id, nil
	}
	id, ok, err := store.LastSession(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	if ok {
		return id, nil
	}
	return uuid.New(), nil
}

// openLog returns the log destination. The TUI owns the terminal, so logs are
// discarded unless LOG_FILE is set.
func openLog(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
