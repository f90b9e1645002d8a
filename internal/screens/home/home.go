package home

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	hist "github.com/abhisek/lingodrill/internal/history"
	"github.com/abhisek/lingodrill/internal/practice"
	"github.com/abhisek/lingodrill/internal/router"
	"github.com/abhisek/lingodrill/internal/screen"
	"github.com/abhisek/lingodrill/internal/screens/drill"
	"github.com/abhisek/lingodrill/internal/screens/history"
	"github.com/abhisek/lingodrill/internal/ui/components"
	"github.com/abhisek/lingodrill/internal/ui/layout"
)

type mode int

const (
	modeMenu mode = iota
	modeConfirm
	modeFatal
)

const storeTimeout = 10 * time.Second

// Options configures the home screen.
type Options struct {
	Drill drill.Deps

	// History is where the history screen reads sessions from.
	History hist.Store

	// CreateHistory is set when no history exists yet. The learner must
	// agree to create one before practicing.
	CreateHistory func(context.Context) error
	HistoryPath   string

	// Fatal makes the screen show the error and quit on the next key.
	Fatal error
}

type historyCreatedMsg struct {
	Err error
}

type exportedMsg struct {
	Sessions int
	Err      error
}

// HomeScreen is the entry screen of the application.
type HomeScreen struct {
	opts   Options
	menu   components.Menu
	mode   mode
	fatal  string
	notice *components.Notice
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.EscapeHandler = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	h := &HomeScreen{opts: opts}

	items := []components.MenuItem{
		{Label: "PRACTICE", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: drill.New(opts.Drill)}
			}
		}},
		{Label: "HISTORY", Disabled: opts.History == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(opts.History)}
			}
		}},
		{Label: "EXPORT HISTORY", Action: func() tea.Cmd {
			return h.export()
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)

	switch {
	case opts.Fatal != nil:
		h.mode, h.fatal = modeFatal, opts.Fatal.Error()
	case opts.CreateHistory != nil:
		h.mode = modeConfirm
	}
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// HandlesEscape keeps Esc on the home screen while a prompt is shown.
func (h *HomeScreen) HandlesEscape() bool {
	return h.mode != modeMenu || h.notice != nil
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	switch {
	case h.mode == modeFatal:
		return []layout.KeyHint{{Key: "any key", Description: "Quit"}}
	case h.mode == modeConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Create history"},
			{Key: "N", Description: "Quit"},
		}
	case h.notice != nil:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyCreatedMsg:
		if msg.Err != nil {
			h.mode, h.fatal = modeFatal, fmt.Sprintf("Could not create the practice history: %v", msg.Err)
			return h, nil
		}
		h.mode = modeMenu
		return h, nil

	case exportedMsg:
		switch {
		case errors.Is(msg.Err, practice.ErrNothingToExport):
			h.notice = &components.Notice{Text: "There is no practice history to export yet."}
		case msg.Err != nil:
			h.notice = &components.Notice{Text: fmt.Sprintf("Export failed: %v", msg.Err), Error: true}
		default:
			h.notice = &components.Notice{Text: fmt.Sprintf("Exported %d sessions to %s.", msg.Sessions, h.opts.Drill.ExportPath)}
		}
		return h, nil

	case tea.KeyPressMsg:
		return h.handleKey(msg)
	}
	return h, nil
}

func (h *HomeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch h.mode {
	case modeFatal:
		return h, tea.Quit
	case modeConfirm:
		switch strings.ToLower(msg.String()) {
		case "y", "enter":
			create := h.opts.CreateHistory
			return h, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
				defer cancel()
				return historyCreatedMsg{Err: create(ctx)}
			}
		case "n", "esc":
			h.mode, h.fatal = modeFatal, "A practice history is required to continue."
		}
		return h, nil
	}

	if h.notice != nil {
		h.notice = nil
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) export() tea.Cmd {
	p, path := h.opts.Drill.Practice, h.opts.Drill.ExportPath
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		n, err := p.Export(ctx, path)
		return exportedMsg{Sessions: n, Err: err}
	}
}
