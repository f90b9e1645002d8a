package store

import (
	"context"
	"time"

	"github.com/abhisek/lingodrill/internal/knowledge"
	"github.com/abhisek/lingodrill/internal/session"
)

// HistoryRepo persists finalized practice sessions.
type HistoryRepo interface {
	// Load returns all sessions in the order they were stored.
	Load(ctx context.Context) (session.History, error)

	// Save stores every session of h not yet present. Stored sessions are
	// never rewritten.
	Save(ctx context.Context, h session.History) error

	// Stats aggregates accuracy over all stored exercises.
	Stats(ctx context.Context) (*Stats, error)
}

// FieldStats is the accuracy for one field across all exercises.
type FieldStats struct {
	Field     knowledge.Field
	Attempted int
	Correct   int
}

// Accuracy returns Correct/Attempted, or 0 when nothing was attempted.
func (f FieldStats) Accuracy() float64 {
	if f.Attempted == 0 {
		return 0
	}
	return float64(f.Correct) / float64(f.Attempted)
}

// Stats summarizes the stored history.
type Stats struct {
	Sessions      int
	Exercises     int
	LastPracticed time.Time
	Fields        []FieldStats
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	Purpose      string `json:"purpose"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	LatencyMs    int64  `json:"latency_ms"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// SessionEventData records a session lifecycle transition.
type SessionEventData struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"` // "start", "end", "discard", "export"
	Exercises int    `json:"exercises"`
}

// Event is a stored event row.
type Event struct {
	Sequence  int64
	Timestamp time.Time
	Kind      string
	Data      []byte
}

// EventRepo provides append access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendSessionEvent records a session lifecycle event.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// Recent returns the latest events, newest first.
	Recent(ctx context.Context, limit int) ([]Event, error)
}
