package answer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/abhisek/lingodrill/internal/knowledge"
	"github.com/abhisek/lingodrill/internal/session"
)

var punctuation = strings.NewReplacer(
	".", "", "!", "", "?", "",
	"[", "", "]", "", "{", "", "}", "",
	"(", "", ")", "",
	`"`, "", "'", "", ",", "", ";", "", ":", "", "`", "",
)

// Normalize prepares a value for comparison.
//
// Normalization rules:
// - Lower-cased
// - Surrounding whitespace is trimmed
// - The characters . ! ? [ ] { } ( ) " ' , ; : ` are removed
func Normalize(s string) string {
	s = cases.Lower(language.Und).String(s)
	s = strings.TrimSpace(s)
	return punctuation.Replace(s)
}

// Equal reports whether a and b are equal after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Grade builds the exercise for a submission against item. inputs maps each
// field to the learner's raw value. The provided field and blank values are
// skipped; recorded fields follow form order.
func Grade(item knowledge.Item, provided knowledge.Field, inputs map[knowledge.Field]string) session.Exercise {
	ex := session.Exercise{
		KnowledgeID:   item.ID,
		ProvidedField: provided,
		FilledFields:  []knowledge.Field{},
		FilledValues:  []string{},
		Correctness:   []bool{},
	}
	for _, f := range knowledge.Fields {
		if f == provided {
			continue
		}
		v := inputs[f]
		if strings.TrimSpace(v) == "" {
			continue
		}
		ex.FilledFields = append(ex.FilledFields, f)
		ex.FilledValues = append(ex.FilledValues, v)
		ex.Correctness = append(ex.Correctness, Equal(v, item.Value(f)))
	}
	return ex
}

// CanSubmit reports whether at least one editable field has a value.
func CanSubmit(provided knowledge.Field, inputs map[knowledge.Field]string) bool {
	for f, v := range inputs {
		if f != provided && strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// RandomField picks the field to show the learner.
func RandomField(r session.Rand) knowledge.Field {
	return knowledge.Fields[r.IntN(len(knowledge.Fields))]
}
