package keyboard

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Combining diacritics that attach to the preceding letter.
const (
	NonSyllabic = "\u032f" // combining inverted breve below
	Syllabic    = "\u0329" // combining vertical line below
)

// combinations maps a diacritic to base letter → combined grapheme.
var combinations = map[string]map[rune]string{
	NonSyllabic: {
		'ə': "ə\u032f",
		'ɪ': "ɪ\u032f",
		'ɛ': "ɛ\u032f",
		'ʏ': "ʏ\u032f",
		'ɐ': "ɐ\u032f",
		'ʊ': "ʊ\u032f",
		'ɔ': "ɔ\u032f",
	},
	Syllabic: {
		'm': "m\u0329",
		'n': "n\u0329",
		'ŋ': "ŋ\u0329",
		'l': "l\u0329",
		'r': "r\u0329",
		'ɹ': "ɹ\u0329",
	},
}

// Edit is the outcome of a key press against a text buffer.
type Edit struct {
	// Text is the new buffer content.
	Text string

	// Cursor is the new caret position in runes.
	Cursor int

	// Combined is true when the key was merged into the preceding letter.
	Combined bool
}

// IsCombining reports whether key is one of the combining diacritics.
func IsCombining(key string) bool {
	_, ok := combinations[key]
	return ok
}

// Compose applies key to text with the selection [start, end), both in
// runes. A combining diacritic is merged into the grapheme cluster before
// start when that cluster's base letter accepts it; every other key, and
// any diacritic that cannot be merged, is inserted in place of the
// selection.
func Compose(text string, start, end int, key string) Edit {
	runes := []rune(text)
	start, end = clampSelection(len(runes), start, end)

	table, ok := combinations[key]
	if !ok || start == 0 {
		return Insert(text, start, end, key)
	}

	cluster := lastCluster(string(runes[:start]))
	base, size := utf8.DecodeRuneInString(cluster)
	combined, ok := table[base]
	if !ok {
		return Insert(text, start, end, key)
	}

	// Marks already attached to the base letter are kept after the new one.
	marks := cluster[size:]
	for _, m := range marks {
		if !strings.ContainsRune(combined, m) {
			combined += string(m)
		}
	}

	clusterStart := start - utf8.RuneCountInString(cluster)
	var b strings.Builder
	b.WriteString(string(runes[:clusterStart]))
	b.WriteString(combined)
	b.WriteString(string(runes[end:]))
	return Edit{
		Text:     b.String(),
		Cursor:   clusterStart + utf8.RuneCountInString(combined),
		Combined: true,
	}
}

// Insert replaces the selection [start, end) with s.
func Insert(text string, start, end int, s string) Edit {
	runes := []rune(text)
	start, end = clampSelection(len(runes), start, end)

	var b strings.Builder
	b.WriteString(string(runes[:start]))
	b.WriteString(s)
	b.WriteString(string(runes[end:]))
	return Edit{
		Text:   b.String(),
		Cursor: start + utf8.RuneCountInString(s),
	}
}

// lastCluster returns the final extended grapheme cluster of s.
func lastCluster(s string) string {
	var cluster string
	state := -1
	for len(s) > 0 {
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
	}
	return cluster
}

func clampSelection(n, start, end int) (int, int) {
	start = max(0, min(start, n))
	end = max(0, min(end, n))
	if end < start {
		start, end = end, start
	}
	return start, end
}
