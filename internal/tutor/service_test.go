package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingodrill/internal/knowledge"
	"github.com/abhisek/lingodrill/internal/llm"
	"github.com/abhisek/lingodrill/internal/session"
)

func hund() knowledge.Item {
	return knowledge.Item{
		ID:               "5f1c9a4e-7a1b-4c3d-9e2f-0a1b2c3d4e5f",
		Language:         knowledge.LanguageGerman,
		Kind:             knowledge.KindWord,
		OriginalText:     "Hund",
		SyllableDivision: "Hund",
		IPATranscription: "hʊnt",
		Translation:      "dog",
	}
}

func wrongIPA() session.Exercise {
	return session.Exercise{
		KnowledgeID:   hund().ID,
		ProvidedField: knowledge.FieldOriginalText,
		FilledFields:  []knowledge.Field{knowledge.FieldIPATranscription, knowledge.FieldTranslation},
		FilledValues:  []string{"hʊnd", "dog"},
		Correctness:   []bool{false, true},
	}
}

func TestExplain(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"explanation":"Final d is devoiced to t.","tips":["Final b, d, g sound like p, t, k"]}`),
	})
	svc := NewService(mock, DefaultConfig())

	got, err := svc.Explain(context.Background(), hund(), wrongIPA())
	require.NoError(t, err)
	assert.Equal(t, "Final d is devoiced to t.", got.Text)
	assert.Len(t, got.Tips, 1)

	require.Equal(t, 1, mock.CallCount())
	req := mock.Calls[0]
	assert.Equal(t, ExplanationSchema, req.Schema)
	assert.Contains(t, req.Prompt, `learner wrote "hʊnd", expected "hʊnt" (incorrect)`)
	assert.Contains(t, req.Prompt, `Shown: Original text = "Hund"`)
}

func TestExplain_AllCorrect(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := NewService(mock, DefaultConfig())

	ex := wrongIPA()
	ex.Correctness = []bool{true, true}
	_, err := svc.Explain(context.Background(), hund(), ex)
	assert.ErrorIs(t, err, ErrNothingToExplain)
	assert.Zero(t, mock.CallCount())
}

func TestExplain_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Explain(context.Background(), hund(), wrongIPA())
	var rl *llm.ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected wrapped ErrRateLimit, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "explanation:") {
		t.Errorf("error = %q", err)
	}
}

func TestExplain_SchemaMismatch(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"explanation":"x"}`)})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Explain(context.Background(), hund(), wrongIPA())
	var inv *llm.ErrInvalidResponse
	assert.ErrorAs(t, err, &inv)
}
