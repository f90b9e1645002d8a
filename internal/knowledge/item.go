package knowledge

import (
	"fmt"
	"time"
)

// Language is the language a knowledge item belongs to.
type Language string

const (
	LanguageGerman  Language = "German"
	LanguageEnglish Language = "English"
)

// Kind distinguishes single words from whole phrases.
type Kind string

const (
	KindPhrase Kind = "Phrase"
	KindWord   Kind = "Word"
)

// Field names one of the four comparable fields of an Item.
type Field string

const (
	FieldOriginalText     Field = "original_text"
	FieldSyllableDivision Field = "syllable_division"
	FieldIPATranscription Field = "ipa_transcription"
	FieldTranslation      Field = "translation"
)

// Fields lists the comparable fields in form order.
var Fields = []Field{
	FieldOriginalText,
	FieldSyllableDivision,
	FieldIPATranscription,
	FieldTranslation,
}

// Label returns the human-readable name of the field.
func (f Field) Label() string {
	switch f {
	case FieldOriginalText:
		return "Original text"
	case FieldSyllableDivision:
		return "Syllable division"
	case FieldIPATranscription:
		return "IPA transcription"
	case FieldTranslation:
		return "Translation"
	}
	return string(f)
}

// ParseField parses a field name as stored in exercises.
func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// Item is one language-knowledge record. Items are loaded once and never
// mutated.
type Item struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	Language         Language  `json:"language"`
	Kind             Kind      `json:"kind"`
	OriginalText     string    `json:"original_text"`
	IPATranscription string    `json:"ipa_transcription"`
	Translation      string    `json:"translation"`
	SyllableDivision string    `json:"syllable_division"`
}

// Value returns the ground-truth value of field f.
func (it Item) Value(f Field) string {
	switch f {
	case FieldOriginalText:
		return it.OriginalText
	case FieldSyllableDivision:
		return it.SyllableDivision
	case FieldIPATranscription:
		return it.IPATranscription
	case FieldTranslation:
		return it.Translation
	}
	return ""
}

// Base is the ordered, read-only knowledge base.
type Base []Item
