package result

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingodrill/internal/knowledge"
	"github.com/abhisek/lingodrill/internal/router"
	"github.com/abhisek/lingodrill/internal/screen"
	"github.com/abhisek/lingodrill/internal/session"
	"github.com/abhisek/lingodrill/internal/tutor"
	"github.com/abhisek/lingodrill/internal/ui/layout"
	"github.com/abhisek/lingodrill/internal/ui/theme"
)

const explainTimeout = 60 * time.Second

type explainedMsg struct {
	Explanation *tutor.Explanation
	Err         error
}

// ResultScreen shows the outcome of one submitted exercise.
type ResultScreen struct {
	item     knowledge.Item
	exercise session.Exercise
	tutor    *tutor.Service
	onNext   tea.Cmd

	explaining  bool
	explanation *tutor.Explanation
	errMsg      string
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)
var _ screen.EscapeHandler = (*ResultScreen)(nil)

// New creates a ResultScreen. onNext runs after the screen is popped; tu may
// be nil when no tutor is configured.
func New(item knowledge.Item, ex session.Exercise, tu *tutor.Service, onNext tea.Cmd) *ResultScreen {
	return &ResultScreen{item: item, exercise: ex, tutor: tu, onNext: onNext}
}

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	return "Result"
}

// HandlesEscape is always true: leaving the result moves on to the next item.
func (s *ResultScreen) HandlesEscape() bool {
	return true
}

func (s *ResultScreen) canExplain() bool {
	return s.tutor != nil && s.exercise.CorrectCount() < len(s.exercise.Correctness) && s.explanation == nil
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Next item"}}
	if s.canExplain() && !s.explaining {
		hints = append(hints, layout.KeyHint{Key: "X", Description: "Explain mistakes"})
	}
	return hints
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explainedMsg:
		s.explaining = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.explanation = msg.Explanation
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter", "esc", "space":
			pop := func() tea.Msg { return router.PopScreenMsg{} }
			if s.onNext == nil {
				return s, pop
			}
			return s, tea.Sequence(pop, s.onNext)
		case "x":
			if !s.canExplain() || s.explaining {
				return s, nil
			}
			s.explaining = true
			s.errMsg = ""
			return s, s.explain()
		}
	}
	return s, nil
}

func (s *ResultScreen) explain() tea.Cmd {
	tu, item, ex := s.tutor, s.item, s.exercise
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), explainTimeout)
		defer cancel()
		exp, err := tu.Explain(ctx, item, ex)
		if errors.Is(err, tutor.ErrNothingToExplain) {
			err = errors.New("every answer was correct")
		}
		return explainedMsg{Explanation: exp, Err: err}
	}
}

func (s *ResultScreen) View(width, height int) string {
	var b strings.Builder
	cw := min(width-4, 76)

	correct, total := s.exercise.CorrectCount(), len(s.exercise.Correctness)
	headline := fmt.Sprintf("%d of %d correct", correct, total)
	style := theme.Correct
	if correct < total {
		style = theme.Incorrect
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(headline)))
	b.WriteString("\n\n")

	var rows []string
	shown := s.exercise.ProvidedField
	rows = append(rows, theme.Label.Render(shown.Label())+"  "+theme.Phonetic.Render(s.item.Value(shown))+theme.Hint.Render("  (given)"))
	rows = append(rows, "")
	for i, f := range s.exercise.FilledFields {
		rows = append(rows, renderField(f, s.exercise.FilledValues[i], s.item.Value(f), s.exercise.Correctness[i]))
	}
	for _, f := range knowledge.Fields {
		if f == shown || filled(s.exercise, f) {
			continue
		}
		rows = append(rows, theme.Label.Render(f.Label())+"  "+theme.Hint.Render("skipped, answer: ")+theme.Phonetic.Render(s.item.Value(f)))
	}
	card := theme.Card.Width(cw).Render(strings.Join(rows, "\n"))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, card))
	b.WriteString("\n\n")

	switch {
	case s.explaining:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("Asking the tutor...")))
	case s.errMsg != "":
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.ErrorBox.Width(cw).Render("Tutor unavailable: "+s.errMsg)))
	case s.explanation != nil:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, renderExplanation(s.explanation, cw)))
	}
	return b.String()
}

func renderField(f knowledge.Field, got, want string, ok bool) string {
	line := theme.Label.Render(f.Label()) + "  " + theme.Phonetic.Render(got)
	if ok {
		return line + "  " + theme.Correct.Render("✓")
	}
	return line + "  " + theme.Incorrect.Render("✗") + theme.Hint.Render("  correct: ") + theme.Phonetic.Render(want)
}

func renderExplanation(e *tutor.Explanation, width int) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render("Tutor"))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(e.Text))
	for _, tip := range e.Tips {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("• " + tip))
	}
	return theme.Notice.Width(width).Render(b.String())
}

func filled(ex session.Exercise, f knowledge.Field) bool {
	for _, ff := range ex.FilledFields {
		if ff == f {
			return true
		}
	}
	return false
}
