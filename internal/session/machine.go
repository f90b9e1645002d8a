package session

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lingodrill/internal/knowledge"
)

// ErrNoOpenSession is returned by AddExercise when no session is open.
var ErrNoOpenSession = errors.New("no open session")

// Rand is the random source used to pick the next knowledge item.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Machine owns the knowledge base, the practice history and the open
// session. It is safe for concurrent use; all mutations are serialized.
type Machine struct {
	mu sync.Mutex

	base    knowledge.Base
	history History
	current *Session
	used    map[string]struct{}

	rand  Rand
	now   func() time.Time
	newID func() string
}

// Option configures a Machine.
type Option func(*Machine)

// WithRand sets the random source for item selection.
func WithRand(r Rand) Option {
	return func(m *Machine) { m.rand = r }
}

// WithClock sets the clock used to stamp session start and end times.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithIDGenerator sets the session id generator.
func WithIDGenerator(f func() string) Option {
	return func(m *Machine) { m.newID = f }
}

// NewMachine creates a machine over the given knowledge base and history.
// No session is open until StartNewSession is called.
func NewMachine(base knowledge.Base, history History, opts ...Option) *Machine {
	m := &Machine{
		base:    base,
		history: append(History(nil), history...),
		used:    make(map[string]struct{}),
		rand:    globalRand{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetKnowledgeBase replaces the knowledge base.
func (m *Machine) SetKnowledgeBase(base knowledge.Base) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.base = base
}

// KnowledgeBase returns the current knowledge base.
func (m *Machine) KnowledgeBase() knowledge.Base {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.base
}

// SetHistory replaces the practice history.
func (m *Machine) SetHistory(h History) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(History(nil), h...)
}

// History returns a copy of the practice history.
func (m *Machine) History() History {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(History, len(m.history))
	for i, s := range m.history {
		out[i] = s.clone()
	}
	return out
}

// CurrentSession returns a snapshot of the open session.
func (m *Machine) CurrentSession() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Session{}, false
	}
	return m.current.clone(), true
}

// StartNewSession finalizes the open session, if any, and opens a fresh one
// with an empty selection set.
func (m *Machine) StartNewSession() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.endLocked()
	m.current = &Session{
		SessionID: m.newID(),
		StartedAt: m.now(),
		Exercises: []Exercise{},
	}
	m.used = make(map[string]struct{})
	return m.current.clone()
}

// EndCurrentSession finalizes the open session. A session without exercises
// is discarded. The finalized session is returned when one was appended to
// the history.
func (m *Machine) EndCurrentSession() (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.endLocked()
}

func (m *Machine) endLocked() (*Session, bool) {
	if m.current == nil {
		return nil, false
	}
	s := m.current
	m.current = nil
	if len(s.Exercises) == 0 {
		return nil, false
	}
	s.EndedAt = m.now()
	m.history = append(m.history, *s)
	out := s.clone()
	return &out, true
}

// NextKnowledgeItem picks a random item matching filter that has not been
// presented in the current session. It returns false once every matching
// item has been used.
func (m *Machine) NextKnowledgeItem(filter knowledge.Filter) (knowledge.Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var candidates []knowledge.Item
	for _, it := range m.base {
		if !filter.Match(it) {
			continue
		}
		if _, seen := m.used[it.ID]; seen {
			continue
		}
		candidates = append(candidates, it)
	}
	if len(candidates) == 0 {
		return knowledge.Item{}, false
	}

	picked := candidates[m.rand.IntN(len(candidates))]
	m.used[picked.ID] = struct{}{}
	return picked, true
}

// Remaining returns how many items matching filter are still unused in the
// current session.
func (m *Machine) Remaining(filter knowledge.Filter) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, it := range m.base {
		if _, seen := m.used[it.ID]; !seen && filter.Match(it) {
			n++
		}
	}
	return n
}

// AddExercise appends ex to the open session.
func (m *Machine) AddExercise(ex Exercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return ErrNoOpenSession
	}
	m.current.Exercises = append(m.current.Exercises, ex)
	return nil
}
