package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingodrill/internal/ui/theme"
)

// Notice is a blocking message box. Any key dismisses it.
type Notice struct {
	Text  string
	Error bool
}

// View renders the notice centered in a width x height area.
func (n Notice) View(width, height int) string {
	style := theme.Notice
	if n.Error {
		style = theme.ErrorBox
	}
	box := style.Width(min(width-4, 64)).Render(n.Text + "\n\n" + theme.Hint.Render("Press any key to continue"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
