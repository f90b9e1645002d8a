package session

import (
	"fmt"
	"time"

	"github.com/abhisek/lingodrill/internal/knowledge"
)

// Exercise records one completed drill against a knowledge item.
// FilledFields, FilledValues and Correctness are parallel slices.
type Exercise struct {
	// KnowledgeID references the item the exercise was drawn from.
	KnowledgeID string `json:"knowledge_id"`

	// ProvidedField is the field shown to the learner.
	ProvidedField knowledge.Field `json:"provided_field"`

	// FilledFields are the fields the learner answered, in form order.
	FilledFields []knowledge.Field `json:"filled_fields"`

	// FilledValues holds the raw learner input per filled field.
	FilledValues []string `json:"filled_values"`

	// Correctness holds the normalized comparison outcome per filled field.
	Correctness []bool `json:"correctness"`
}

// CorrectCount returns how many filled fields were answered correctly.
func (e Exercise) CorrectCount() int {
	n := 0
	for _, ok := range e.Correctness {
		if ok {
			n++
		}
	}
	return n
}

// Validate checks that every field name is known and the parallel slices
// have equal length.
func (e Exercise) Validate() error {
	if _, err := knowledge.ParseField(string(e.ProvidedField)); err != nil {
		return fmt.Errorf("provided field: %w", err)
	}
	for _, f := range e.FilledFields {
		if _, err := knowledge.ParseField(string(f)); err != nil {
			return fmt.Errorf("filled field: %w", err)
		}
	}
	if len(e.FilledValues) != len(e.FilledFields) || len(e.Correctness) != len(e.FilledFields) {
		return fmt.Errorf("exercise %s: %d fields, %d values, %d results",
			e.KnowledgeID, len(e.FilledFields), len(e.FilledValues), len(e.Correctness))
	}
	return nil
}

// Session is a contiguous practice period.
type Session struct {
	SessionID string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`

	// EndedAt is zero while the session is open.
	EndedAt time.Time `json:"ended_at,omitzero"`

	Exercises []Exercise `json:"exercises"`
}

// Open reports whether the session has not been finalized yet.
func (s Session) Open() bool {
	return s.EndedAt.IsZero()
}

// History is the ordered list of finalized sessions.
type History []Session

// Validate checks every exercise of every session.
func (h History) Validate() error {
	for _, s := range h {
		for i, ex := range s.Exercises {
			if err := ex.Validate(); err != nil {
				return fmt.Errorf("session %s exercise %d: %w", s.SessionID, i, err)
			}
		}
	}
	return nil
}

func (s Session) clone() Session {
	c := s
	c.Exercises = append([]Exercise(nil), s.Exercises...)
	return c
}
