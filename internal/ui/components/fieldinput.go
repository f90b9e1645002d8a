package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingodrill/internal/ui/theme"
)

// FieldInput is a labelled text input. A locked input shows a fixed value
// and ignores edits.
type FieldInput struct {
	Label  string
	Model  textinput.Model
	Locked bool
}

// NewFieldInput creates an empty, unfocused input.
func NewFieldInput(label, placeholder string, width int) FieldInput {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 200

	styles := ti.Styles()
	styles.Cursor.Blink = false
	styles.Cursor.Color = theme.Accent
	ti.SetStyles(styles)
	if width > 0 {
		ti.SetWidth(width)
	}
	return FieldInput{Label: label, Model: ti}
}

// Lock fixes the input to value. The character limit only applies to
// learner input, so value is never truncated.
func (f *FieldInput) Lock(value string) {
	f.Model.CharLimit = 0
	f.Model.SetValue(value)
	f.Model.Blur()
	f.Locked = true
}

// Focus focuses the input unless it is locked.
func (f *FieldInput) Focus() tea.Cmd {
	if f.Locked {
		return nil
	}
	return f.Model.Focus()
}

// Blur removes focus.
func (f *FieldInput) Blur() {
	f.Model.Blur()
}

// Update forwards msg to the text input unless the input is locked.
func (f FieldInput) Update(msg tea.Msg) (FieldInput, tea.Cmd) {
	if f.Locked {
		return f, nil
	}
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// Value returns the current text.
func (f FieldInput) Value() string {
	return f.Model.Value()
}

// Cursor returns the cursor position in runes.
func (f FieldInput) Cursor() int {
	return f.Model.Position()
}

// Replace sets the text and moves the cursor to pos.
func (f *FieldInput) Replace(text string, pos int) {
	f.Model.SetValue(text)
	f.Model.SetCursor(pos)
}

// View renders the label above the input.
func (f FieldInput) View(width int) string {
	label := theme.Label.Render(f.Label)
	var body string
	switch {
	case f.Locked:
		label += theme.Hint.Render("  (given)")
		body = theme.Locked.Render(f.Model.Value())
	default:
		body = f.Model.View()
	}

	border := theme.Border
	if f.Model.Focused() {
		border = theme.Primary
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(max(width, 10)).
		Padding(0, 1).
		Render(body)
	return label + "\n" + box
}
