package practice

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingodrill/internal/history"
	"github.com/abhisek/lingodrill/internal/knowledge"
	"github.com/abhisek/lingodrill/internal/logging"
	"github.com/abhisek/lingodrill/internal/session"
	"github.com/abhisek/lingodrill/internal/store"
)

type fixedRand int

func (r fixedRand) IntN(n int) int { return int(r) % n }

type recordingEvents struct {
	sessions []store.SessionEventData
}

func (r *recordingEvents) AppendLLMRequest(context.Context, store.LLMRequestEventData) error {
	return nil
}

func (r *recordingEvents) AppendSessionEvent(_ context.Context, d store.SessionEventData) error {
	r.sessions = append(r.sessions, d)
	return nil
}

func (r *recordingEvents) Recent(context.Context, int) ([]store.Event, error) { return nil, nil }

func (r *recordingEvents) actions() []string {
	var out []string
	for _, e := range r.sessions {
		out = append(out, e.Action)
	}
	return out
}

func testBase() knowledge.Base {
	return knowledge.Base{
		{
			ID:               "0b6f9d0e-3f4a-4a57-9a43-8c1c1f0f7a01",
			Language:         knowledge.LanguageGerman,
			Kind:             knowledge.KindWord,
			OriginalText:     "Hund",
			SyllableDivision: "Hund",
			IPATranscription: "hʊnt",
			Translation:      "dog",
		},
	}
}

func newPractice(t *testing.T) (*Practice, *history.FileStore, *recordingEvents) {
	t.Helper()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	m := session.NewMachine(testBase(), nil,
		session.WithRand(fixedRand(0)),
		session.WithClock(func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		}),
	)
	fs := history.NewFileStore(filepath.Join(t.TempDir(), "history.json"))
	events := &recordingEvents{}
	p := New(m, fs,
		WithEvents(events),
		WithLogger(logging.Discard()),
		WithRand(fixedRand(3)), // translation is provided
	)
	return p, fs, events
}

func TestPractice_DrillAndEnd(t *testing.T) {
	p, fs, events := newPractice(t)
	ctx := context.Background()

	_, err := p.Start(ctx)
	require.NoError(t, err)

	ex, ok := p.Next(knowledge.FilterWord)
	require.True(t, ok)
	assert.Equal(t, knowledge.FieldTranslation, ex.Provided)

	graded, err := p.Submit(ex, map[knowledge.Field]string{
		knowledge.FieldOriginalText:     "hund.",
		knowledge.FieldIPATranscription: "hʊnd",
	})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false}, graded.Correctness)

	_, ok = p.Next(knowledge.FilterWord)
	assert.False(t, ok, "single item must be exhausted")

	done, ok, err := p.End(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, done.Exercises, 1)
	assert.False(t, done.EndedAt.IsZero())

	stored, err := fs.Load(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, done.SessionID, stored[0].SessionID)

	assert.Equal(t, []string{"start", "end"}, events.actions())
}

func TestPractice_EmptySessionDiscarded(t *testing.T) {
	p, fs, events := newPractice(t)
	ctx := context.Background()

	_, err := p.Start(ctx)
	require.NoError(t, err)
	_, ok, err := p.End(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = fs.Load(ctx)
	assert.ErrorIs(t, err, history.ErrNotFound, "nothing should be written")
	assert.Equal(t, []string{"start", "discard"}, events.actions())
}

func TestPractice_Restart(t *testing.T) {
	p, _, _ := newPractice(t)
	ctx := context.Background()

	first, err := p.Start(ctx)
	require.NoError(t, err)
	ex, _ := p.Next(knowledge.FilterAny)
	_, err = p.Submit(ex, map[knowledge.Field]string{knowledge.FieldOriginalText: "Hund"})
	require.NoError(t, err)

	done, err := p.Restart(ctx)
	require.NoError(t, err)
	require.NotNil(t, done)
	assert.Equal(t, first.SessionID, done.SessionID)

	cur, open := p.Machine().CurrentSession()
	require.True(t, open)
	assert.NotEqual(t, first.SessionID, cur.SessionID)

	_, ok := p.Next(knowledge.FilterAny)
	assert.True(t, ok, "used set resets with the new session")
}

func TestPractice_Export(t *testing.T) {
	p, _, events := newPractice(t)
	ctx := context.Background()
	out := filepath.Join(t.TempDir(), "export.json")

	_, err := p.Start(ctx)
	require.NoError(t, err)

	_, err = p.Export(ctx, out)
	assert.ErrorIs(t, err, ErrNothingToExport)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))

	ex, _ := p.Next(knowledge.FilterAny)
	_, err = p.Submit(ex, map[knowledge.Field]string{knowledge.FieldOriginalText: "Hund"})
	require.NoError(t, err)

	n, err := p.Export(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var h session.History
	require.NoError(t, json.Unmarshal(data, &h))
	require.Len(t, h, 1)
	assert.Contains(t, string(data), "\n  {\n    \"session_id\"")

	_, open := p.Machine().CurrentSession()
	assert.True(t, open, "practice continues after export")
	assert.Contains(t, events.actions(), "export")
}

func TestPractice_SubmitWithoutSession(t *testing.T) {
	p, _, _ := newPractice(t)
	ex := Exercise{Item: testBase()[0], Provided: knowledge.FieldTranslation}
	_, err := p.Submit(ex, map[knowledge.Field]string{knowledge.FieldOriginalText: "Hund"})
	assert.ErrorIs(t, err, session.ErrNoOpenSession)
}
