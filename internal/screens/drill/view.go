package drill

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingodrill/internal/ui/components"
	"github.com/abhisek/lingodrill/internal/ui/layout"
	"github.com/abhisek/lingodrill/internal/ui/theme"
)

func (s *DrillScreen) View(width, height int) string {
	if s.notice != nil {
		return s.notice.View(width, height)
	}

	var sections []string
	sections = append(sections, s.renderStatusBar(width))

	if !s.hasItem {
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render("No item to practice. Press ^T to change the type.")))
		return strings.Join(sections, "\n\n")
	}

	sections = append(sections, s.renderForm(width))

	verify := components.NewButton("Verify", s.CanSubmit(), nil)
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center, verify.View()))

	if !layout.IsCompactHeight(height) || s.palette.Focused {
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
			s.palette.View(min(width-4, 80))))
	}

	if s.status != "" {
		sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render(s.status)))
	}

	return strings.Join(sections, "\n")
}

func (s *DrillScreen) renderStatusBar(width int) string {
	m := s.deps.Practice.Machine()
	exercises := 0
	if cur, ok := m.CurrentSession(); ok {
		exercises = len(cur.Exercises)
	}

	parts := []string{
		theme.Label.Render("Type: ") + theme.Selected.Render(s.filter.Label()),
		fmt.Sprintf("%d left", m.Remaining(s.filter)),
		fmt.Sprintf("%d done this session", exercises),
	}
	if s.hasItem {
		item := s.current.Item
		parts = append([]string{theme.Subtitle.Render(fmt.Sprintf("%s %s", item.Language, item.Kind))}, parts...)
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(parts, theme.Hint.Render("  ·  ")))
}

func (s *DrillScreen) renderForm(width int) string {
	rows := make([]string, 0, len(s.inputs))
	for _, in := range s.inputs {
		rows = append(rows, in.View(inputWidth))
	}
	card := theme.Card.Render(strings.Join(rows, "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}
