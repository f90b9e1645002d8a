package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingodrill/internal/app"
	"github.com/abhisek/lingodrill/internal/audio"
	"github.com/abhisek/lingodrill/internal/history"
	"github.com/abhisek/lingodrill/internal/knowledge"
	"github.com/abhisek/lingodrill/internal/practice"
	"github.com/abhisek/lingodrill/internal/screens/drill"
	"github.com/abhisek/lingodrill/internal/screens/home"
	"github.com/abhisek/lingodrill/internal/session"
)

// runApp loads the knowledge base and history, builds dependencies, and
// launches the TUI. Load failures are shown on a fatal screen.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	filterName, _ := cmd.Flags().GetString("type")
	filter, err := knowledge.ParseFilter(filterName)
	if err != nil {
		return err
	}

	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	var opts home.Options

	base, err := knowledge.LoadFile(e.cfg.KnowledgePath)
	if err != nil {
		e.logger.Error("load knowledge base", "path", e.cfg.KnowledgePath, "error", err)
		opts.Fatal = fmt.Errorf("could not load the knowledge base: %w", err)
	}

	hs := e.historyStore()
	h, err := hs.Load(ctx)
	switch {
	case errors.Is(err, history.ErrNotFound):
		if fs, ok := hs.(*history.FileStore); ok {
			opts.CreateHistory = fs.Create
			opts.HistoryPath = fs.Path
		}
	case err != nil && opts.Fatal == nil:
		e.logger.Error("load history", "error", err)
		opts.Fatal = fmt.Errorf("could not load the practice history: %w", err)
	}

	machine := session.NewMachine(base, h)
	p := practice.New(machine, hs,
		practice.WithEvents(e.store.EventRepo()),
		practice.WithLogger(e.logger),
	)

	pron, err := e.pronouncer()
	if err != nil && !errors.Is(err, audio.ErrDisabled) {
		fmt.Fprintln(os.Stderr, "Pronunciation unavailable:", err)
		e.logger.Warn("audio disabled", "error", err)
	}

	opts.Drill = drill.Deps{
		Practice:   p,
		Tutor:      e.tutor(ctx),
		Pronouncer: pron,
		ExportPath: e.cfg.ExportPath,
		Filter:     filter,
	}
	opts.History = hs

	e.logger.Info("starting", "items", len(base), "sessions", len(h))
	return app.Run(ctx, app.Options{Home: opts, Logger: e.logger})
}
