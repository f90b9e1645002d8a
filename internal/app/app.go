package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingodrill/internal/practice"
	"github.com/abhisek/lingodrill/internal/router"
	"github.com/abhisek/lingodrill/internal/screen"
	"github.com/abhisek/lingodrill/internal/screens/home"
	"github.com/abhisek/lingodrill/internal/ui/layout"
)

// Options configures the application.
type Options struct {
	Home   home.Options
	Logger *slog.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router   *router.Router
	practice *practice.Practice
	width    int
	height   int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	return AppModel{
		router:   router.New(home.New(opts.Home)),
		practice: opts.Home.Drill.Practice,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if eh, ok := m.router.Active().(screen.EscapeHandler); ok && eh.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status(), m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(m.height-headerHeight-footerHeight, 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// status summarizes the open session for the header.
func (m AppModel) status() string {
	if m.practice == nil {
		return ""
	}
	cur, ok := m.practice.Machine().CurrentSession()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%d exercises  ", len(cur.Exercises))
}

// Run starts the Bubble Tea program. The open session is finalized and
// saved when the program exits.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	_, runErr := p.Run()

	if pr := opts.Home.Drill.Practice; pr != nil {
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		if _, _, err := pr.End(saveCtx); err != nil {
			logger.Error("save session on exit", "error", err)
			if runErr == nil {
				return err
			}
		}
	}

	if runErr != nil {
		return fmt.Errorf("run program: %w", runErr)
	}
	return nil
}
