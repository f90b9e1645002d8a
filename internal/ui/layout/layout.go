package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingodrill/internal/ui/theme"
)

// Terminal size limits. Below the minimum only a resize hint is drawn.
const (
	MinWidth  = 80
	MinHeight = 24

	// CompactContentHeight is the content height below which screens drop
	// optional panels such as the virtual keyboard.
	CompactContentHeight = 28
)

// KeyHint is a key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// bar is the bordered strip shared by header and footer.
var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border).
	Padding(0, 1)

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// IsCompactHeight reports whether contentHeight leaves no room for optional
// panels.
func IsCompactHeight(contentHeight int) bool {
	return contentHeight < CompactContentHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	text := fmt.Sprintf("Terminal too small!\n\nlingodrill needs at least %d x %d.\nCurrent size: %d x %d",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(text))
}

// RenderHeader draws the app name and screen title on the left and status on
// the right.
func RenderHeader(title, status string, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("lingodrill")
	if title != "" {
		left += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  │  ") +
			lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	}
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status)

	inner := max(width-4, 0)
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return bar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// RenderFooter draws the key hints of the active screen.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
	}
	return bar.Width(width).Render(strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, padding the content to fill
// the remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(contentHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
