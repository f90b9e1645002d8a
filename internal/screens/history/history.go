package history

import (
	"context"
	"fmt"
	"image/color"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	hist "github.com/abhisek/lingodrill/internal/history"
	"github.com/abhisek/lingodrill/internal/router"
	"github.com/abhisek/lingodrill/internal/screen"
	"github.com/abhisek/lingodrill/internal/screens/summary"
	"github.com/abhisek/lingodrill/internal/session"
	"github.com/abhisek/lingodrill/internal/ui/layout"
	"github.com/abhisek/lingodrill/internal/ui/theme"
)

type historyLoadedMsg struct {
	Sessions session.History
	Err      error
}

// entry is one listed session with its precomputed summary.
type entry struct {
	session  session.Session
	summary  session.Summary
	expanded bool
}

// HistoryScreen lists finalized sessions, newest first.
type HistoryScreen struct {
	source   hist.Store
	sessions session.History
	entries  []entry
	selected int
	offset   int
	loaded   bool
	err      error
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a HistoryScreen reading from source.
func New(source hist.Store) *HistoryScreen {
	return &HistoryScreen{source: source}
}

func (s *HistoryScreen) Init() tea.Cmd {
	source := s.source
	return func() tea.Msg {
		h, err := source.Load(context.Background())
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		h = slices.Clone(h)
		slices.Reverse(h)
		return historyLoadedMsg{Sessions: h}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Select"},
		{Key: "Enter", Description: "Fields"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded, s.err = true, msg.Err
		s.sessions = msg.Sessions
		s.entries = make([]entry, len(msg.Sessions))
		for i, sess := range msg.Sessions {
			s.entries[i] = entry{session: sess, summary: session.Summarize(sess)}
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			s.selected = max(s.selected-1, 0)
		case "down", "j":
			s.selected = max(min(s.selected+1, len(s.entries)-1), 0)
		case "enter", "space":
			if s.selected < len(s.entries) {
				s.entries[s.selected].expanded = !s.entries[s.selected].expanded
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}
	switch {
	case s.err != nil:
		return center(lipgloss.NewStyle().Foreground(theme.Error), "\n\nError: "+s.err.Error())
	case !s.loaded:
		return center(theme.Hint, "\n\nLoading history...")
	case len(s.entries) == 0:
		return center(theme.Hint, "\n\nNo sessions yet. Start practicing!")
	}

	var totalExercises int
	for _, e := range s.entries {
		totalExercises += e.summary.Exercises
	}
	head := center(theme.Subtitle, fmt.Sprintf("%d sessions, %d exercises", len(s.entries), totalExercises))

	// Each entry needs one line plus one per field when expanded.
	rows := max(height-3, 1)
	s.scrollTo(rows)

	var lines []string
	for i := s.offset; i < len(s.entries) && len(lines) < rows; i++ {
		lines = append(lines, s.renderEntry(i)...)
	}
	if len(lines) > rows {
		lines = lines[:rows]
	}

	body := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
	return "\n" + head + "\n\n" + body
}

// scrollTo moves the window so the selected entry is visible.
func (s *HistoryScreen) scrollTo(rows int) {
	if s.selected < s.offset {
		s.offset = s.selected
	}
	for s.offset < s.selected && s.linesBetween(s.offset, s.selected) > rows {
		s.offset++
	}
}

func (s *HistoryScreen) linesBetween(from, to int) int {
	n := 0
	for i := from; i <= to; i++ {
		n++
		if s.entries[i].expanded {
			n += len(s.entries[i].summary.FieldResults)
		}
	}
	return n
}

func (s *HistoryScreen) renderEntry(i int) []string {
	e := s.entries[i]
	marker, style := "  ", lipgloss.NewStyle().Foreground(theme.Text)
	if i == s.selected {
		marker, style = "▸ ", theme.Selected
	}

	line := fmt.Sprintf("%s%s  %5s  %3d exercises  %3.0f%% accuracy",
		marker,
		e.session.StartedAt.Local().Format("Jan 02, 2006 15:04"),
		summary.FormatDuration(e.summary.Duration),
		e.summary.Exercises,
		e.summary.Accuracy*100)
	out := []string{style.Render(line)}

	if e.expanded {
		for _, fr := range e.summary.FieldResults {
			detail := fmt.Sprintf("%-20s %d/%d correct", fr.Field.Label(), fr.Correct, fr.Attempted)
			out = append(out, lipgloss.NewStyle().Foreground(accuracyColor(fr.Accuracy())).Render(detail))
		}
	}
	return out
}

func accuracyColor(acc float64) color.Color {
	switch {
	case acc >= 0.8:
		return theme.Success
	case acc >= 0.5:
		return theme.Accent
	default:
		return theme.Error
	}
}
