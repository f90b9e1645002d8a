package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lingodrill/internal/keyboard"
	"github.com/abhisek/lingodrill/internal/ui/theme"
)

// KeyPalette is a navigable virtual keyboard.
type KeyPalette struct {
	Layout  keyboard.Layout
	Section int
	Index   int
	Focused bool
}

// NewKeyPalette creates a palette positioned on the first key.
func NewKeyPalette(layout keyboard.Layout) KeyPalette {
	return KeyPalette{Layout: layout}
}

// Selected returns the key under the cursor, or "" for an empty layout.
func (p KeyPalette) Selected() string {
	if p.Section >= len(p.Layout) || p.Index >= len(p.Layout[p.Section].Keys) {
		return ""
	}
	return p.Layout[p.Section].Keys[p.Index]
}

// Update moves the cursor with the arrow keys. It reports the chosen key
// when enter or space is pressed.
func (p KeyPalette) Update(msg tea.Msg) (KeyPalette, string) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || !p.Focused || len(p.Layout) == 0 {
		return p, ""
	}

	switch kmsg.String() {
	case "left", "h":
		if p.Index > 0 {
			p.Index--
		} else if p.Section > 0 {
			p.Section--
			p.Index = len(p.Layout[p.Section].Keys) - 1
		}
	case "right", "l":
		if p.Index < len(p.Layout[p.Section].Keys)-1 {
			p.Index++
		} else if p.Section < len(p.Layout)-1 {
			p.Section++
			p.Index = 0
		}
	case "up", "k":
		if p.Section > 0 {
			p.Section--
			p.Index = min(p.Index, len(p.Layout[p.Section].Keys)-1)
		}
	case "down", "j":
		if p.Section < len(p.Layout)-1 {
			p.Section++
			p.Index = min(p.Index, len(p.Layout[p.Section].Keys)-1)
		}
	case "enter", "space":
		return p, p.Selected()
	}
	return p, ""
}

// View renders one row per section.
func (p KeyPalette) View(width int) string {
	var b strings.Builder
	for si, sec := range p.Layout {
		keys := make([]string, 0, len(sec.Keys))
		for ki, k := range sec.Keys {
			style := theme.Key
			if p.Focused && si == p.Section && ki == p.Index {
				style = theme.KeySelected
			}
			keys = append(keys, style.Render(keyboard.Label(k)))
		}
		title := theme.Hint.Render(sec.Title)
		row := lipgloss.JoinHorizontal(lipgloss.Top, keys...)
		b.WriteString(title)
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().MaxWidth(width).Render(row))
		b.WriteString("\n")
	}
	return b.String()
}
