package session

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingodrill/internal/knowledge"
)

func testBase() knowledge.Base {
	return knowledge.Base{
		{ID: "w1", Kind: knowledge.KindWord, OriginalText: "Hund"},
		{ID: "w2", Kind: knowledge.KindWord, OriginalText: "Katze"},
		{ID: "w3", Kind: knowledge.KindWord, OriginalText: "Maus"},
		{ID: "p1", Kind: knowledge.KindPhrase, OriginalText: "Guten Morgen"},
		{ID: "p2", Kind: knowledge.KindPhrase, OriginalText: "Wie geht's?"},
	}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func testMachine(base knowledge.Base) (*Machine, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	n := 0
	m := NewMachine(base, nil,
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithClock(clock.now),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("session-%d", n)
		}),
	)
	return m, clock
}

func sampleExercise(id string) Exercise {
	return Exercise{
		KnowledgeID:   id,
		ProvidedField: knowledge.FieldOriginalText,
		FilledFields:  []knowledge.Field{knowledge.FieldTranslation},
		FilledValues:  []string{"dog"},
		Correctness:   []bool{true},
	}
}

func TestStartNewSession_OpensFreshSession(t *testing.T) {
	m, _ := testMachine(testBase())

	_, ok := m.CurrentSession()
	require.False(t, ok, "no session should be open before start")

	s := m.StartNewSession()
	assert.Equal(t, "session-1", s.SessionID)
	assert.True(t, s.Open())
	assert.Empty(t, s.Exercises)

	cur, ok := m.CurrentSession()
	require.True(t, ok)
	assert.Equal(t, s.SessionID, cur.SessionID)
}

func TestStartNewSession_FinalizesPreviousWithExercises(t *testing.T) {
	m, _ := testMachine(testBase())
	m.StartNewSession()
	require.NoError(t, m.AddExercise(sampleExercise("w1")))

	m.StartNewSession()

	h := m.History()
	require.Len(t, h, 1)
	assert.Equal(t, "session-1", h[0].SessionID)
	assert.False(t, h[0].Open())
	assert.True(t, h[0].EndedAt.After(h[0].StartedAt))

	cur, ok := m.CurrentSession()
	require.True(t, ok)
	assert.Equal(t, "session-2", cur.SessionID)
}

func TestStartNewSession_DiscardsEmptySession(t *testing.T) {
	m, _ := testMachine(testBase())
	m.StartNewSession()
	m.StartNewSession()
	assert.Empty(t, m.History())
}

func TestStartNewSession_ResetsSelectionSet(t *testing.T) {
	m, _ := testMachine(testBase())
	m.StartNewSession()
	for {
		if _, ok := m.NextKnowledgeItem(knowledge.FilterWord); !ok {
			break
		}
	}
	assert.Equal(t, 0, m.Remaining(knowledge.FilterWord))

	m.StartNewSession()
	assert.Equal(t, 3, m.Remaining(knowledge.FilterWord))
	_, ok := m.NextKnowledgeItem(knowledge.FilterWord)
	assert.True(t, ok, "items should be eligible again in a new session")
}

func TestEndCurrentSession(t *testing.T) {
	t.Run("nothing open", func(t *testing.T) {
		m, _ := testMachine(testBase())
		s, ok := m.EndCurrentSession()
		assert.False(t, ok)
		assert.Nil(t, s)
		assert.Empty(t, m.History())
	})

	t.Run("empty session discarded", func(t *testing.T) {
		m, _ := testMachine(testBase())
		m.StartNewSession()
		_, ok := m.EndCurrentSession()
		assert.False(t, ok)
		assert.Empty(t, m.History())
		_, open := m.CurrentSession()
		assert.False(t, open)
	})

	t.Run("appends in finalization order", func(t *testing.T) {
		m, _ := testMachine(testBase())
		for i := range 3 {
			m.StartNewSession()
			require.NoError(t, m.AddExercise(sampleExercise(fmt.Sprintf("w%d", i+1))))
			s, ok := m.EndCurrentSession()
			require.True(t, ok)
			assert.Equal(t, fmt.Sprintf("session-%d", i+1), s.SessionID)
		}
		h := m.History()
		require.Len(t, h, 3)
		for i := 1; i < len(h); i++ {
			assert.True(t, h[i].EndedAt.After(h[i-1].EndedAt))
		}
	})

	t.Run("second end is a no-op", func(t *testing.T) {
		m, _ := testMachine(testBase())
		m.StartNewSession()
		require.NoError(t, m.AddExercise(sampleExercise("w1")))
		_, ok := m.EndCurrentSession()
		require.True(t, ok)
		_, ok = m.EndCurrentSession()
		assert.False(t, ok)
		assert.Len(t, m.History(), 1)
	})
}

func TestNextKnowledgeItem_NoRepeatsWithinSession(t *testing.T) {
	filters := []knowledge.Filter{knowledge.FilterAny, knowledge.FilterWord, knowledge.FilterPhrase}
	for _, f := range filters {
		t.Run(string(f), func(t *testing.T) {
			m, _ := testMachine(testBase())
			m.StartNewSession()

			want := testBase().Count(f)
			seen := map[string]bool{}
			for {
				it, ok := m.NextKnowledgeItem(f)
				if !ok {
					break
				}
				if seen[it.ID] {
					t.Fatalf("item %s returned twice", it.ID)
				}
				if !f.Match(it) {
					t.Fatalf("item %s does not match filter %s", it.ID, f)
				}
				seen[it.ID] = true
			}
			if len(seen) != want {
				t.Errorf("drew %d items, want %d", len(seen), want)
			}
			for range 3 {
				if _, ok := m.NextKnowledgeItem(f); ok {
					t.Error("exhausted selection returned an item")
				}
			}
		})
	}
}

func TestNextKnowledgeItem_EmptyBase(t *testing.T) {
	m, _ := testMachine(nil)
	m.StartNewSession()
	_, ok := m.NextKnowledgeItem(knowledge.FilterAny)
	assert.False(t, ok)
}

func TestNextKnowledgeItem_UniformPick(t *testing.T) {
	counts := map[string]int{}
	for seed := range uint64(600) {
		m := NewMachine(testBase(), nil, WithRand(rand.New(rand.NewPCG(seed, seed*7+1))))
		m.StartNewSession()
		it, ok := m.NextKnowledgeItem(knowledge.FilterWord)
		require.True(t, ok)
		counts[it.ID]++
	}
	for _, id := range []string{"w1", "w2", "w3"} {
		if counts[id] < 120 {
			t.Errorf("item %s picked %d/600 times, selection looks biased: %v", id, counts[id], counts)
		}
	}
}

func TestAddExercise_NoOpenSession(t *testing.T) {
	m, _ := testMachine(testBase())
	err := m.AddExercise(sampleExercise("w1"))
	assert.ErrorIs(t, err, ErrNoOpenSession)

	m.StartNewSession()
	_, ok := m.EndCurrentSession()
	assert.False(t, ok, "dropped exercise must not leak into a later session")
}

func TestAddExercise_PreservesOrder(t *testing.T) {
	m, _ := testMachine(testBase())
	m.StartNewSession()
	for _, id := range []string{"w2", "p1", "w1"} {
		require.NoError(t, m.AddExercise(sampleExercise(id)))
	}
	cur, _ := m.CurrentSession()
	var ids []string
	for _, ex := range cur.Exercises {
		ids = append(ids, ex.KnowledgeID)
	}
	assert.Equal(t, []string{"w2", "p1", "w1"}, ids)
}

func TestHistory_ReturnsCopy(t *testing.T) {
	m, _ := testMachine(testBase())
	m.StartNewSession()
	require.NoError(t, m.AddExercise(sampleExercise("w1")))
	m.EndCurrentSession()

	h := m.History()
	h[0].SessionID = "mutated"
	h[0].Exercises[0].KnowledgeID = "mutated"

	again := m.History()
	assert.Equal(t, "session-1", again[0].SessionID)
	assert.Equal(t, "w1", again[0].Exercises[0].KnowledgeID)
}

func TestSetHistory_AppendsAfterInjected(t *testing.T) {
	m, _ := testMachine(testBase())
	m.SetHistory(History{{SessionID: "old", Exercises: []Exercise{sampleExercise("w1")}}})
	m.StartNewSession()
	require.NoError(t, m.AddExercise(sampleExercise("w2")))
	m.EndCurrentSession()

	h := m.History()
	require.Len(t, h, 2)
	assert.Equal(t, "old", h[0].SessionID)
	assert.Equal(t, "session-1", h[1].SessionID)
}

func TestDefaultIDsAreUUIDs(t *testing.T) {
	m := NewMachine(testBase(), nil)
	a := m.StartNewSession()
	b := m.StartNewSession()
	assert.Len(t, a.SessionID, 36)
	assert.NotEqual(t, a.SessionID, b.SessionID)
}

func TestSingleWordScenario(t *testing.T) {
	base := knowledge.Base{{
		ID:               "k1",
		Kind:             knowledge.KindWord,
		OriginalText:     "Hund",
		IPATranscription: "hʊnt",
		Translation:      "dog",
		SyllableDivision: "Hund",
	}}
	m, _ := testMachine(base)
	m.StartNewSession()

	it, ok := m.NextKnowledgeItem(knowledge.FilterWord)
	require.True(t, ok)
	assert.Equal(t, "k1", it.ID)

	_, ok = m.NextKnowledgeItem(knowledge.FilterWord)
	assert.False(t, ok)

	require.NoError(t, m.AddExercise(Exercise{
		KnowledgeID:   it.ID,
		ProvidedField: knowledge.FieldOriginalText,
		FilledFields:  []knowledge.Field{knowledge.FieldTranslation},
		FilledValues:  []string{"dog "},
		Correctness:   []bool{true},
	}))

	s, ok := m.EndCurrentSession()
	require.True(t, ok)
	require.Len(t, s.Exercises, 1)

	h := m.History()
	require.Len(t, h, 1)
	assert.Equal(t, []bool{true}, h[0].Exercises[0].Correctness)
}
