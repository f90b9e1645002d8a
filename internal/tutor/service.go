package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/lingodrill/internal/knowledge"
	"github.com/abhisek/lingodrill/internal/llm"
	"github.com/abhisek/lingodrill/internal/session"
)

// ErrNothingToExplain is returned when every filled field was correct.
var ErrNothingToExplain = errors.New("tutor: no incorrect fields")

// Explanation is the tutor's feedback on one exercise.
type Explanation struct {
	Text string
	Tips []string
}

// Service explains graded exercises through an LLM.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a tutor. provider must not be nil.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

type explanationOutput struct {
	Explanation string   `json:"explanation"`
	Tips        []string `json:"tips"`
}

// Explain asks the model why the incorrect fields of ex are wrong.
func (s *Service) Explain(ctx context.Context, item knowledge.Item, ex session.Exercise) (*Explanation, error) {
	if ex.CorrectCount() == len(ex.Correctness) {
		return nil, ErrNothingToExplain
	}

	ctx = llm.WithPurpose(ctx, "explain")
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      buildUserMessage(item, ex),
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("explanation: %w", err)
	}

	var out explanationOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation response: %w", err)
	}
	return &Explanation{Text: out.Explanation, Tips: out.Tips}, nil
}
