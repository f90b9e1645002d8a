package keyboard

import "github.com/abhisek/lingodrill/internal/knowledge"

// Section is a titled group of keys on the virtual keyboard.
type Section struct {
	Title string
	Keys  []string
}

// Layout is an ordered set of keyboard sections.
type Layout []Section

// German is the palette for German transcriptions.
var German = Layout{
	{Title: "Language letters", Keys: []string{"ß"}},
	{Title: "IPA vowels", Keys: []string{"ə", "ɪ", "ɛ", "ʏ", "ɐ", "ʊ", "ɔ"}},
	{Title: "IPA consonants", Keys: []string{"ŋ", "ʁ", "ʒ", "ʃ", "ɲ"}},
	{Title: "Diacritics", Keys: []string{Syllabic, NonSyllabic}},
	{Title: "Suprasegmentals", Keys: []string{"ˈ", "ˌ", "ː"}},
	{Title: "Other IPA symbols", Keys: []string{"\u0361"}},
}

// For returns the layout used for items in lang. Only the German palette
// exists so far; English items share it.
func For(lang knowledge.Language) Layout {
	return German
}

// Keys returns every key of the layout in display order.
func (l Layout) Keys() []string {
	var keys []string
	for _, s := range l {
		keys = append(keys, s.Keys...)
	}
	return keys
}

// Label returns a printable label for key. Combining marks are shown on a
// dotted circle so they do not attach to neighbouring text.
func Label(key string) string {
	if IsCombining(key) || key == "\u0361" {
		return "◌" + key
	}
	return key
}
