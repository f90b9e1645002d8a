package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingodrill/internal/ui/theme"
)

// ProgressBar draws a labeled horizontal bar, e.g. per-field accuracy.
type ProgressBar struct {
	Label       string
	Percent     float64 // 0..1, clamped when drawn
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a progress bar that fits in width cells.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, ShowPercent: showPercent, Width: width}
}

// View renders the label, bar and optional percentage on one line.
func (p ProgressBar) View() string {
	pct := min(max(p.Percent, 0), 1)

	var label, suffix string
	if p.Label != "" {
		label = theme.Body.Render(p.Label) + "  "
	}
	if p.ShowPercent {
		suffix = lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %3.0f%%", pct*100))
	}

	width := max(p.Width-lipgloss.Width(label)-lipgloss.Width(suffix), 4)
	filled := int(float64(width) * pct)

	return label +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", width-filled)) +
		suffix
}
