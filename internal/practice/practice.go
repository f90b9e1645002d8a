// Package practice drives a drill: it owns the session machine and persists
// every finalized session through a history store.
package practice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abhisek/lingodrill/internal/answer"
	"github.com/abhisek/lingodrill/internal/history"
	"github.com/abhisek/lingodrill/internal/knowledge"
	"github.com/abhisek/lingodrill/internal/session"
	"github.com/abhisek/lingodrill/internal/store"
)

// ErrNothingToExport is returned by Export when the history is empty.
var ErrNothingToExport = errors.New("no history to export")

// Practice coordinates the session machine with persistence.
type Practice struct {
	machine *session.Machine
	store   history.Store
	events  store.EventRepo
	logger  *slog.Logger
	rand    session.Rand
}

// Option configures a Practice.
type Option func(*Practice)

// WithEvents records session lifecycle events.
func WithEvents(events store.EventRepo) Option {
	return func(p *Practice) { p.events = events }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Practice) { p.logger = l }
}

// WithRand sets the source used to pick the provided field.
func WithRand(r session.Rand) Option {
	return func(p *Practice) { p.rand = r }
}

// New wraps machine. hs may be nil, in which case finalized sessions only
// live in memory.
func New(machine *session.Machine, hs history.Store, opts ...Option) *Practice {
	p := &Practice{
		machine: machine,
		store:   hs,
		logger:  slog.Default(),
		rand:    randSource{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Machine returns the underlying state machine.
func (p *Practice) Machine() *session.Machine { return p.machine }

// Start finalizes and persists any open session, then opens a new one.
func (p *Practice) Start(ctx context.Context) (session.Session, error) {
	err := p.finalize(ctx)
	s := p.machine.StartNewSession()
	p.record(ctx, store.SessionEventData{SessionID: s.SessionID, Action: "start"})
	p.logger.Info("session started", "session_id", s.SessionID)
	return s, err
}

// End finalizes the open session and persists it. It reports the finalized
// session, or false when it was empty and discarded.
func (p *Practice) End(ctx context.Context) (*session.Session, bool, error) {
	cur, open := p.machine.CurrentSession()
	done, ok := p.machine.EndCurrentSession()
	if !ok {
		if open {
			p.record(ctx, store.SessionEventData{SessionID: cur.SessionID, Action: "discard"})
			p.logger.Debug("empty session discarded", "session_id", cur.SessionID)
		}
		return nil, false, nil
	}
	return done, true, p.persist(ctx, done)
}

// Restart ends the open session and immediately starts a new one.
func (p *Practice) Restart(ctx context.Context) (*session.Session, error) {
	done, _, err := p.End(ctx)
	s := p.machine.StartNewSession()
	p.record(ctx, store.SessionEventData{SessionID: s.SessionID, Action: "start"})
	return done, err
}

func (p *Practice) finalize(ctx context.Context) error {
	_, _, err := p.End(ctx)
	return err
}

func (p *Practice) persist(ctx context.Context, s *session.Session) error {
	p.record(ctx, store.SessionEventData{
		SessionID: s.SessionID,
		Action:    "end",
		Exercises: len(s.Exercises),
	})
	p.logger.Info("session finalized", "session_id", s.SessionID, "exercises", len(s.Exercises))
	if p.store == nil {
		return nil
	}
	if err := p.store.Save(ctx, p.machine.History()); err != nil {
		p.logger.Error("save history", "error", err)
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Exercise is the next prompt of a drill.
type Exercise struct {
	Item     knowledge.Item
	Provided knowledge.Field
}

// Next draws an unused item for filter and picks the field shown to the
// learner. It returns false when every matching item was used.
func (p *Practice) Next(filter knowledge.Filter) (Exercise, bool) {
	item, ok := p.machine.NextKnowledgeItem(filter)
	if !ok {
		return Exercise{}, false
	}
	return Exercise{Item: item, Provided: answer.RandomField(p.rand)}, true
}

// Submit grades inputs and records the exercise in the open session.
func (p *Practice) Submit(ex Exercise, inputs map[knowledge.Field]string) (session.Exercise, error) {
	graded := answer.Grade(ex.Item, ex.Provided, inputs)
	if err := p.machine.AddExercise(graded); err != nil {
		p.logger.Warn("exercise not recorded", "knowledge_id", ex.Item.ID, "error", err)
		return graded, err
	}
	p.logger.Debug("exercise recorded",
		"knowledge_id", ex.Item.ID,
		"provided", ex.Provided,
		"correct", graded.CorrectCount(),
		"filled", len(graded.FilledFields))
	return graded, nil
}

// Export ends the open session and writes the whole history to path as
// indented JSON. A new session is started afterwards so practice can go on.
func (p *Practice) Export(ctx context.Context, path string) (int, error) {
	_, _, err := p.End(ctx)
	defer func() {
		s := p.machine.StartNewSession()
		p.record(ctx, store.SessionEventData{SessionID: s.SessionID, Action: "start"})
	}()
	if err != nil {
		return 0, err
	}

	h := p.machine.History()
	if len(h) == 0 {
		return 0, ErrNothingToExport
	}
	if err := history.Write(path, h); err != nil {
		return 0, fmt.Errorf("export history: %w", err)
	}
	total := 0
	for _, s := range h {
		total += len(s.Exercises)
	}
	p.record(ctx, store.SessionEventData{Action: "export", Exercises: total})
	p.logger.Info("history exported", "path", path, "sessions", len(h))
	return len(h), nil
}

func (p *Practice) record(ctx context.Context, data store.SessionEventData) {
	if p.events == nil {
		return
	}
	if err := p.events.AppendSessionEvent(ctx, data); err != nil {
		p.logger.Warn("failed to record session event", "action", data.Action, "error", err)
	}
}
