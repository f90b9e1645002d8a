package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/abhisek/lingodrill/internal/knowledge"
	"github.com/abhisek/lingodrill/internal/session"
)

// historyRepo implements HistoryRepo on the sessions and exercises tables.
type historyRepo struct {
	db *sql.DB
}

func (r *historyRepo) Load(ctx context.Context) (session.History, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT session_id, started_at, ended_at FROM sessions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	h := session.History{}
	index := make(map[string]int)
	for rows.Next() {
		var (
			s       session.Session
			started string
			ended   sql.NullString
		)
		if err := rows.Scan(&s.SessionID, &started, &ended); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if s.StartedAt, err = parseTime(started); err != nil {
			rows.Close()
			return nil, err
		}
		if ended.Valid && ended.String != "" {
			if s.EndedAt, err = parseTime(ended.String); err != nil {
				rows.Close()
				return nil, err
			}
		}
		s.Exercises = []session.Exercise{}
		index[s.SessionID] = len(h)
		h = append(h, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	rows.Close()

	exRows, err := r.db.QueryContext(ctx,
		`SELECT session_id, knowledge_id, provided_field, filled_fields, filled_values, correctness
		 FROM exercises ORDER BY session_id, position`)
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer exRows.Close()

	for exRows.Next() {
		var (
			sessionID, provided, fields, values, correct string
			ex                                           session.Exercise
		)
		if err := exRows.Scan(&sessionID, &ex.KnowledgeID, &provided, &fields, &values, &correct); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		if ex.ProvidedField, err = knowledge.ParseField(provided); err != nil {
			return nil, fmt.Errorf("session %s: %w", sessionID, err)
		}
		if err := json.Unmarshal([]byte(fields), &ex.FilledFields); err != nil {
			return nil, fmt.Errorf("decode filled_fields: %w", err)
		}
		if err := json.Unmarshal([]byte(values), &ex.FilledValues); err != nil {
			return nil, fmt.Errorf("decode filled_values: %w", err)
		}
		if err := json.Unmarshal([]byte(correct), &ex.Correctness); err != nil {
			return nil, fmt.Errorf("decode correctness: %w", err)
		}
		if err := ex.Validate(); err != nil {
			return nil, fmt.Errorf("session %s: %w", sessionID, err)
		}
		i, ok := index[sessionID]
		if !ok {
			continue
		}
		h[i].Exercises = append(h[i].Exercises, ex)
	}
	if err := exRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exercises: %w", err)
	}
	return h, nil
}

func (r *historyRepo) Save(ctx context.Context, h session.History) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, s := range h {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (session_id, started_at, ended_at) VALUES (?, ?, ?)
			 ON CONFLICT (session_id) DO NOTHING`,
			s.SessionID, formatTime(s.StartedAt), nullTime(s.EndedAt),
		)
		if err != nil {
			return fmt.Errorf("insert session %s: %w", s.SessionID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if n == 0 {
			continue
		}

		for pos, ex := range s.Exercises {
			if err := insertExercise(ctx, tx, s.SessionID, pos, ex); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertExercise(ctx context.Context, tx *sql.Tx, sessionID string, pos int, ex session.Exercise) error {
	fields, err := marshalSlice(ex.FilledFields)
	if err != nil {
		return err
	}
	values, err := marshalSlice(ex.FilledValues)
	if err != nil {
		return err
	}
	correct, err := marshalSlice(ex.Correctness)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO exercises
		 (session_id, position, knowledge_id, provided_field, filled_fields, filled_values, correctness)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sessionID, pos, ex.KnowledgeID, string(ex.ProvidedField), fields, values, correct,
	)
	if err != nil {
		return fmt.Errorf("insert exercise %d of session %s: %w", pos, sessionID, err)
	}
	return nil
}

func (r *historyRepo) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}

	var last sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MAX(ended_at) FROM sessions`).Scan(&st.Sessions, &last)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}
	if last.Valid {
		if st.LastPracticed, err = parseTime(last.String); err != nil {
			return nil, err
		}
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exercises`).Scan(&st.Exercises); err != nil {
		return nil, fmt.Errorf("count exercises: %w", err)
	}

	// filled_fields and correctness are parallel JSON arrays; pair them by index.
	rows, err := r.db.QueryContext(ctx, `
		SELECT f.value, COUNT(*), SUM(CASE WHEN c.value THEN 1 ELSE 0 END)
		FROM exercises e, json_each(e.filled_fields) f, json_each(e.correctness) c
		WHERE f.key = c.key
		GROUP BY f.value`)
	if err != nil {
		return nil, fmt.Errorf("query field stats: %w", err)
	}
	defer rows.Close()

	byField := make(map[knowledge.Field]FieldStats)
	for rows.Next() {
		var (
			name string
			fs   FieldStats
		)
		if err := rows.Scan(&name, &fs.Attempted, &fs.Correct); err != nil {
			return nil, fmt.Errorf("scan field stats: %w", err)
		}
		fs.Field = knowledge.Field(name)
		byField[fs.Field] = fs
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate field stats: %w", err)
	}

	for _, f := range knowledge.Fields {
		if fs, ok := byField[f]; ok {
			st.Fields = append(st.Fields, fs)
		}
	}
	return st, nil
}

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

func marshalSlice[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal %T: %w", v, err)
	}
	return string(b), nil
}
