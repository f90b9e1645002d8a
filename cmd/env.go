package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/abhisek/lingodrill/internal/audio"
	"github.com/abhisek/lingodrill/internal/config"
	"github.com/abhisek/lingodrill/internal/history"
	"github.com/abhisek/lingodrill/internal/llm"
	"github.com/abhisek/lingodrill/internal/logging"
	"github.com/abhisek/lingodrill/internal/store"
	"github.com/abhisek/lingodrill/internal/tutor"
)

// env holds what every command needs: resolved config, the file logger and
// the open database.
type env struct {
	cfg       config.Config
	logger    *slog.Logger
	logCloser io.Closer
	store     *store.Store
}

func newEnv() (*env, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.Setup(cfg.Log.File, level)
	if err != nil {
		return nil, err
	}

	if err := store.EnsureDir(cfg.DBPath); err != nil {
		closer.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	logger.Debug("environment ready", "db", cfg.DBPath, "knowledge", cfg.KnowledgePath, "history_file", cfg.HistoryFile)
	return &env{cfg: cfg, logger: logger, logCloser: closer, store: st}, nil
}

func (e *env) Close() error {
	return errors.Join(e.store.Close(), e.logCloser.Close())
}

// historyStore returns the JSON file store when a history file is
// configured, otherwise the database.
func (e *env) historyStore() history.Store {
	if e.cfg.HistoryFile != "" {
		return history.NewFileStore(e.cfg.HistoryFile)
	}
	return e.store.HistoryRepo()
}

// tutor builds the explanation service. It returns nil when no LLM provider
// is configured.
func (e *env) tutor(ctx context.Context) *tutor.Service {
	if !e.cfg.LLM.Enabled() {
		return nil
	}
	provider, err := llm.NewProvider(ctx, e.cfg.LLM, e.logger, e.store.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Tutor explanations will be unavailable.")
		e.logger.Warn("tutor disabled", "error", err)
		return nil
	}
	return tutor.NewService(provider, tutor.DefaultConfig())
}

// pronouncer builds the TTS pipeline. It returns ErrDisabled when no audio
// provider is configured.
func (e *env) pronouncer() (*audio.Pronouncer, error) {
	provider, err := audio.NewProvider(e.cfg.Audio)
	if err != nil {
		return nil, err
	}
	player := audio.NewPlayer(e.cfg.Audio.Player, "")
	return audio.NewPronouncer(provider, player, e.logger), nil
}
