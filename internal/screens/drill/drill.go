package drill

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lingodrill/internal/answer"
	"github.com/abhisek/lingodrill/internal/audio"
	"github.com/abhisek/lingodrill/internal/keyboard"
	"github.com/abhisek/lingodrill/internal/knowledge"
	"github.com/abhisek/lingodrill/internal/practice"
	"github.com/abhisek/lingodrill/internal/router"
	"github.com/abhisek/lingodrill/internal/screen"
	"github.com/abhisek/lingodrill/internal/screens/result"
	"github.com/abhisek/lingodrill/internal/screens/summary"
	"github.com/abhisek/lingodrill/internal/session"
	"github.com/abhisek/lingodrill/internal/tutor"
	"github.com/abhisek/lingodrill/internal/ui/components"
	"github.com/abhisek/lingodrill/internal/ui/layout"
)

const (
	inputWidth       = 48
	pronounceTimeout = 30 * time.Second
	persistTimeout   = 10 * time.Second
)

// Deps are the services a drill needs. Tutor and Pronouncer are optional.
type Deps struct {
	Practice   *practice.Practice
	Tutor      *tutor.Service
	Pronouncer *audio.Pronouncer
	ExportPath string
	Filter     knowledge.Filter
}

// DrillScreen presents one knowledge item at a time and grades the
// learner's answers.
type DrillScreen struct {
	deps   Deps
	filter knowledge.Filter

	current practice.Exercise
	hasItem bool
	inputs  []components.FieldInput
	focus   int

	palette components.KeyPalette
	notice  *components.Notice
	// afterNotice runs when the notice is dismissed.
	afterNotice tea.Cmd

	status string
	busy   bool
}

var _ screen.Screen = (*DrillScreen)(nil)
var _ screen.KeyHintProvider = (*DrillScreen)(nil)
var _ screen.EscapeHandler = (*DrillScreen)(nil)

// New creates a DrillScreen.
func New(deps Deps) *DrillScreen {
	filter := deps.Filter
	if filter == "" {
		filter = knowledge.FilterAny
	}
	return &DrillScreen{
		deps:    deps,
		filter:  filter,
		palette: components.NewKeyPalette(keyboard.German),
	}
}

func (s *DrillScreen) Init() tea.Cmd {
	p := s.deps.Practice
	return func() tea.Msg {
		if _, open := p.Machine().CurrentSession(); open {
			return sessionReadyMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		_, err := p.Start(ctx)
		return sessionReadyMsg{Err: err}
	}
}

func (s *DrillScreen) Title() string {
	return "Practice"
}

// HandlesEscape keeps Esc inside the drill while a notice or the keyboard
// palette has focus.
func (s *DrillScreen) HandlesEscape() bool {
	return s.notice != nil || s.palette.Focused
}

func (s *DrillScreen) KeyHints() []layout.KeyHint {
	if s.notice != nil {
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	}
	if s.palette.Focused {
		return []layout.KeyHint{
			{Key: "←→↑↓", Description: "Pick"},
			{Key: "Enter", Description: "Type"},
			{Key: "Esc", Description: "Back to fields"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Verify"},
		{Key: "^K", Description: "Keyboard"},
		{Key: "^T", Description: "Type"},
		{Key: "^E", Description: "End session"},
		{Key: "^S", Description: "Export"},
	}
	if s.canPronounce() {
		hints = append(hints, layout.KeyHint{Key: "^P", Description: "Listen"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}

func (s *DrillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionReadyMsg:
		if msg.Err != nil {
			s.showError(fmt.Sprintf("Could not save the previous session: %v", msg.Err))
		}
		return s, s.draw()

	case NextItemMsg:
		return s, s.draw()

	case restartedMsg:
		return s.handleRestarted(msg)

	case exportedMsg:
		return s.handleExported(msg)

	case pronouncedMsg:
		s.busy = false
		s.status = ""
		if msg.Err != nil {
			s.status = "Audio unavailable: " + msg.Err.Error()
		}
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	return s.forward(msg)
}

func (s *DrillScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.notice != nil {
		s.notice = nil
		cmd := s.afterNotice
		s.afterNotice = nil
		return s, cmd
	}

	if s.palette.Focused {
		if msg.String() == "esc" || msg.String() == "ctrl+k" {
			s.palette.Focused = false
			return s, s.focusInput(s.focus)
		}
		var key string
		s.palette, key = s.palette.Update(msg)
		if key != "" {
			s.compose(key)
		}
		return s, nil
	}

	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "ctrl+t":
		s.filter = s.filter.Next()
		return s, s.draw()
	case "ctrl+e":
		return s, s.restart(true)
	case "ctrl+s":
		return s, s.export()
	}

	if !s.hasItem {
		return s, nil
	}

	switch msg.String() {
	case "tab", "down":
		return s, s.focusInput(s.nextEditable(s.focus, 1))
	case "shift+tab", "up":
		return s, s.focusInput(s.nextEditable(s.focus, -1))
	case "ctrl+k":
		s.inputs[s.focus].Blur()
		s.palette.Focused = true
		return s, nil
	case "ctrl+p":
		return s, s.pronounce()
	case "enter":
		return s, s.submit()
	}

	return s.forward(msg)
}

func (s *DrillScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if !s.hasItem || s.notice != nil || s.palette.Focused {
		return s, nil
	}
	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

// draw presents the next unused item for the current filter.
func (s *DrillScreen) draw() tea.Cmd {
	s.status = ""
	p := s.deps.Practice
	ex, ok := p.Next(s.filter)
	if ok {
		s.current = ex
		s.hasItem = true
		s.resetInputs()
		return s.focusInput(s.nextEditable(-1, 1))
	}

	s.hasItem = false
	if p.Machine().KnowledgeBase().Count(s.filter) == 0 {
		s.showNotice(fmt.Sprintf("The knowledge base has no items of type %q.", s.filter.Label()), nil)
		return nil
	}
	s.showNotice("All items have been used in this session. The session is saved and a new one starts.", s.restart(false))
	return nil
}

func (s *DrillScreen) resetInputs() {
	s.inputs = make([]components.FieldInput, len(knowledge.Fields))
	for i, f := range knowledge.Fields {
		in := components.NewFieldInput(f.Label(), "", inputWidth)
		if f == s.current.Provided {
			in.Lock(s.current.Item.Value(f))
		}
		s.inputs[i] = in
	}
	s.focus = 0
}

func (s *DrillScreen) nextEditable(from, dir int) int {
	n := len(s.inputs)
	for step := 1; step <= n; step++ {
		i := ((from+dir*step)%n + n) % n
		if !s.inputs[i].Locked {
			return i
		}
	}
	return max(from, 0)
}

func (s *DrillScreen) focusInput(i int) tea.Cmd {
	if i < 0 || i >= len(s.inputs) {
		return nil
	}
	for j := range s.inputs {
		s.inputs[j].Blur()
	}
	s.focus = i
	return s.inputs[i].Focus()
}

// compose applies a virtual keyboard key to the last focused input.
func (s *DrillScreen) compose(key string) {
	if !s.hasItem || s.inputs[s.focus].Locked {
		return
	}
	in := &s.inputs[s.focus]
	pos := in.Cursor()
	edit := keyboard.Compose(in.Value(), pos, pos, key)
	in.Replace(edit.Text, edit.Cursor)
}

// values returns the learner inputs keyed by field, without the provided
// field.
func (s *DrillScreen) values() map[knowledge.Field]string {
	out := make(map[knowledge.Field]string, len(s.inputs))
	for i, f := range knowledge.Fields {
		if i < len(s.inputs) && f != s.current.Provided {
			out[f] = s.inputs[i].Value()
		}
	}
	return out
}

// CanSubmit reports whether the verify action is enabled.
func (s *DrillScreen) CanSubmit() bool {
	return s.hasItem && answer.CanSubmit(s.current.Provided, s.values())
}

func (s *DrillScreen) submit() tea.Cmd {
	if !s.CanSubmit() {
		return nil
	}
	graded, err := s.deps.Practice.Submit(s.current, s.values())
	if err != nil {
		s.showError(fmt.Sprintf("The exercise was not recorded: %v", err))
		return nil
	}
	next := func() tea.Msg { return NextItemMsg{} }
	res := result.New(s.current.Item, graded, s.deps.Tutor, next)
	return func() tea.Msg { return router.PushScreenMsg{Screen: res} }
}

func (s *DrillScreen) restart(manual bool) tea.Cmd {
	p := s.deps.Practice
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		ended, err := p.Restart(ctx)
		return restartedMsg{Ended: ended, Manual: manual, Err: err}
	}
}

func (s *DrillScreen) handleRestarted(msg restartedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.showError(fmt.Sprintf("Could not save the session: %v", msg.Err))
		return s, s.draw()
	}
	if !msg.Manual {
		return s, s.draw()
	}
	if msg.Ended == nil {
		s.showNotice("The session had no exercises, so nothing was saved. A new session has started.", nil)
		return s, s.draw()
	}
	sum := session.Summarize(*msg.Ended)
	return s, tea.Batch(
		s.draw(),
		func() tea.Msg { return router.PushScreenMsg{Screen: summary.New(&sum)} },
	)
}

func (s *DrillScreen) export() tea.Cmd {
	p, path := s.deps.Practice, s.deps.ExportPath
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		n, err := p.Export(ctx, path)
		return exportedMsg{Sessions: n, Path: path, Err: err}
	}
}

func (s *DrillScreen) handleExported(msg exportedMsg) (screen.Screen, tea.Cmd) {
	switch {
	case errors.Is(msg.Err, practice.ErrNothingToExport):
		s.showNotice("There is no practice history to export yet.", nil)
	case msg.Err != nil:
		s.showError(fmt.Sprintf("Export failed: %v", msg.Err))
	default:
		s.showNotice(fmt.Sprintf("Exported %d sessions to %s.", msg.Sessions, msg.Path), nil)
	}
	// Export always opens a new session; the shown item belongs to the old one.
	return s, s.draw()
}

func (s *DrillScreen) canPronounce() bool {
	return s.deps.Pronouncer != nil && s.hasItem && s.current.Provided == knowledge.FieldOriginalText
}

func (s *DrillScreen) pronounce() tea.Cmd {
	if !s.canPronounce() || s.busy {
		return nil
	}
	s.busy = true
	s.status = "Playing..."
	pr, text := s.deps.Pronouncer, s.current.Item.OriginalText
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), pronounceTimeout)
		defer cancel()
		return pronouncedMsg{Err: pr.Pronounce(ctx, text)}
	}
}

func (s *DrillScreen) showNotice(text string, then tea.Cmd) {
	s.notice = &components.Notice{Text: text}
	s.afterNotice = then
}

func (s *DrillScreen) showError(text string) {
	s.notice = &components.Notice{Text: text, Error: true}
	s.afterNotice = nil
}
