package keyboard

import (
	"testing"

	"github.com/abhisek/lingodrill/internal/knowledge"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		start, end   int
		key          string
		wantText     string
		wantCursor   int
		wantCombined bool
	}{
		{
			name: "non-syllabic after vowel", text: "aɪ", start: 2, end: 2, key: NonSyllabic,
			wantText: "aɪ\u032f", wantCursor: 3, wantCombined: true,
		},
		{
			name: "non-syllabic after unsupported letter", text: "a", start: 1, end: 1, key: NonSyllabic,
			wantText: "a\u032f", wantCursor: 2,
		},
		{
			name: "syllabic after n mid-word", text: "haːbnx", start: 5, end: 5, key: Syllabic,
			wantText: "haːbn\u0329x", wantCursor: 6, wantCombined: true,
		},
		{
			name: "syllabic at start of buffer", text: "n", start: 0, end: 0, key: Syllabic,
			wantText: "\u0329n", wantCursor: 1,
		},
		{
			name: "syllabic on consonant", text: "zaːgŋ", start: 5, end: 5, key: Syllabic,
			wantText: "zaːgŋ\u0329", wantCursor: 6, wantCombined: true,
		},
		{
			name: "selection is replaced", text: "ʊxyz", start: 1, end: 4, key: NonSyllabic,
			wantText: "ʊ\u032f", wantCursor: 2, wantCombined: true,
		},
		{
			name: "plain key replaces selection", text: "strasse", start: 4, end: 6, key: "ß",
			wantText: "straße", wantCursor: 5,
		},
		{
			name: "plain key at end", text: "haʊ", start: 3, end: 3, key: "ː",
			wantText: "haʊː", wantCursor: 4,
		},
		{
			name: "consonant key is not combined", text: "n", start: 1, end: 1, key: "ŋ",
			wantText: "nŋ", wantCursor: 2,
		},
		{
			name: "cursor beyond text is clamped", text: "ə", start: 10, end: 10, key: NonSyllabic,
			wantText: "ə\u032f", wantCursor: 2, wantCombined: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Compose(tc.text, tc.start, tc.end, tc.key)
			if got.Text != tc.wantText {
				t.Errorf("Text = %q, want %q", got.Text, tc.wantText)
			}
			if got.Cursor != tc.wantCursor {
				t.Errorf("Cursor = %d, want %d", got.Cursor, tc.wantCursor)
			}
			if got.Combined != tc.wantCombined {
				t.Errorf("Combined = %v, want %v", got.Combined, tc.wantCombined)
			}
		})
	}
}

func TestCompose_ClusterWithExistingMark(t *testing.T) {
	// A syllabic n is one grapheme; the same mark is not stacked twice.
	got := Compose("n\u0329", 2, 2, Syllabic)
	if got.Text != "n\u0329" || got.Cursor != 2 || !got.Combined {
		t.Errorf("repeat mark: got %+v", got)
	}

	// A different mark already on the letter is kept after the new one.
	got = Compose("ɪ\u0303", 2, 2, NonSyllabic)
	if got.Text != "ɪ\u032f\u0303" || got.Cursor != 3 || !got.Combined {
		t.Errorf("existing mark: got %+v", got)
	}

	// The base letter decides, not the mark already attached.
	got = Compose("m\u0329a", 2, 2, NonSyllabic)
	if got.Combined {
		t.Errorf("syllabic m does not take the non-syllabic mark: got %+v", got)
	}
}

func TestCompose_Pure(t *testing.T) {
	a := Compose("ʏ", 1, 1, NonSyllabic)
	b := Compose("ʏ", 1, 1, NonSyllabic)
	if a != b {
		t.Errorf("Compose is not deterministic: %+v vs %+v", a, b)
	}
}

func TestLayout(t *testing.T) {
	l := For(knowledge.LanguageGerman)
	if len(l) != 6 {
		t.Fatalf("sections = %d, want 6", len(l))
	}
	keys := l.Keys()
	var combining int
	for _, k := range keys {
		if IsCombining(k) {
			combining++
		}
	}
	if combining != 2 {
		t.Errorf("combining keys = %d, want 2", combining)
	}
	if Label(Syllabic) != "◌\u0329" {
		t.Errorf("Label(Syllabic) = %q", Label(Syllabic))
	}
	if Label("ß") != "ß" {
		t.Errorf("Label(ß) = %q", Label("ß"))
	}
}
