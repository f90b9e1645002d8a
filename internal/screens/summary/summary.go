package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingodrill/internal/router"
	"github.com/abhisek/lingodrill/internal/screen"
	"github.com/abhisek/lingodrill/internal/session"
	"github.com/abhisek/lingodrill/internal/ui/components"
	"github.com/abhisek/lingodrill/internal/ui/layout"
	"github.com/abhisek/lingodrill/internal/ui/theme"
)

// SummaryScreen displays the summary of a finalized session.
type SummaryScreen struct {
	summary *session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	var b strings.Builder
	center := func(str string) {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, str))
		b.WriteString("\n")
	}

	center(theme.Title.Render("Session saved"))
	b.WriteString("\n")
	center(theme.Hint.Render("Duration: " + FormatDuration(sum.Duration)))
	b.WriteString("\n")

	center(theme.Body.Render(fmt.Sprintf("Exercises: %d        Fields: %d/%d correct        Accuracy: %.0f%%",
		sum.Exercises, sum.TotalCorrect, sum.TotalFields, sum.Accuracy*100)))
	b.WriteString("\n")

	if len(sum.FieldResults) == 0 {
		return b.String()
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	center(theme.Hint.Render("Fields"))
	center(divider)
	b.WriteString("\n")

	barWidth := min(width-8, 60)
	for _, fr := range sum.FieldResults {
		label := fmt.Sprintf("%-18s %2d/%-2d", fr.Field.Label(), fr.Correct, fr.Attempted)
		bar := components.NewProgressBar(label, fr.Accuracy(), true, barWidth)
		center(bar.View())
	}
	return b.String()
}

// FormatDuration renders d as m:ss.
func FormatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
