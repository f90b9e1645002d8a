package session

import (
	"time"

	"github.com/abhisek/lingodrill/internal/knowledge"
)

// FieldResult tracks per-field performance.
type FieldResult struct {
	Field     knowledge.Field
	Attempted int
	Correct   int
}

// Accuracy returns Correct/Attempted, or 0 when nothing was attempted.
func (r FieldResult) Accuracy() float64 {
	if r.Attempted == 0 {
		return 0
	}
	return float64(r.Correct) / float64(r.Attempted)
}

// Summary holds the aggregate numbers shown for a session.
type Summary struct {
	Duration     time.Duration
	Exercises    int
	TotalFields  int
	TotalCorrect int
	Accuracy     float64
	FieldResults []FieldResult
}

// Summarize builds a Summary for s. Field results follow form order and
// only include fields that were attempted.
func Summarize(s Session) Summary {
	byField := make(map[knowledge.Field]*FieldResult)
	sum := Summary{Exercises: len(s.Exercises)}

	for _, ex := range s.Exercises {
		for i, f := range ex.FilledFields {
			fr := byField[f]
			if fr == nil {
				fr = &FieldResult{Field: f}
				byField[f] = fr
			}
			fr.Attempted++
			sum.TotalFields++
			if i < len(ex.Correctness) && ex.Correctness[i] {
				fr.Correct++
				sum.TotalCorrect++
			}
		}
	}

	for _, f := range knowledge.Fields {
		if fr, ok := byField[f]; ok {
			sum.FieldResults = append(sum.FieldResults, *fr)
		}
	}

	if sum.TotalFields > 0 {
		sum.Accuracy = float64(sum.TotalCorrect) / float64(sum.TotalFields)
	}
	if !s.EndedAt.IsZero() {
		sum.Duration = s.EndedAt.Sub(s.StartedAt)
	}
	return sum
}
