package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingodrill/internal/knowledge"
	"github.com/abhisek/lingodrill/internal/ui/components"
	"github.com/abhisek/lingodrill/internal/ui/theme"
)

const titleFull = ` _ _                       _      _ _ _
| (_)_ __   __ _  ___   __| |_ __(_) | |
| | | '_ \ / _' |/ _ \ / _' | '__| | | |
| | | | | | (_| | (_) | (_| | |  | | | |
|_|_|_| |_|\__, |\___/ \__,_|_|  |_|_|_|
           |___/`

const titleCompact = "L I N G O D R I L L"

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	return max(min(frameWidth-6, 60), 20)
}

func (h *HomeScreen) View(width, height int) string {
	cw := contentWidth(width)

	switch {
	case h.mode == modeFatal:
		box := theme.ErrorBox.Width(cw).Render(h.fatal + "\n\n" + theme.Hint.Render("Press any key to quit"))
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
	case h.mode == modeConfirm:
		text := "No practice history was found"
		if h.opts.HistoryPath != "" {
			text += " at " + h.opts.HistoryPath
		}
		text += ".\n\nCreate a new, empty history? (y/n)"
		box := theme.Notice.Width(cw).Render(text)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
	case h.notice != nil:
		return h.notice.View(width, height)
	}

	compact := height < 24 || width < 100
	sections := []string{
		renderTitle(cw, compact),
		h.renderStatsBar(cw),
		renderMenu(h.menu.Items, h.menu.Selected, cw),
	}
	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	title := titleFull
	if compact {
		title = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar shows knowledge base size and practice count.
func (h *HomeScreen) renderStatsBar(cw int) string {
	var words, phrases, sessions int
	if p := h.opts.Drill.Practice; p != nil {
		base := p.Machine().KnowledgeBase()
		words = base.Count(knowledge.FilterWord)
		phrases = base.Count(knowledge.FilterPhrase)
		sessions = len(p.Machine().History())
	}

	wordStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	sessionStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)

	stats := fmt.Sprintf("%s  %s  %s",
		wordStyle.Render(fmt.Sprintf("%d WORDS", words)),
		wordStyle.Render(fmt.Sprintf("%d PHRASES", phrases)),
		sessionStyle.Render(fmt.Sprintf("%d SESSIONS", sessions)),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderMenu renders each menu item as a fixed-width button.
func renderMenu(items []components.MenuItem, selected int, cw int) string {
	base := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	selectedBtn := base.
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		BorderForeground(theme.Primary)
	normalBtn := base.
		Foreground(theme.Text).
		BorderForeground(theme.Border)
	disabledBtn := base.
		Foreground(theme.TextDim).
		BorderForeground(theme.Border)

	buttons := make([]string, 0, len(items))
	for i, item := range items {
		switch {
		case item.Disabled:
			buttons = append(buttons, disabledBtn.Render(item.Label))
		case i == selected:
			buttons = append(buttons, selectedBtn.Render("▸ "+item.Label))
		default:
			buttons = append(buttons, normalBtn.Render(item.Label))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}
