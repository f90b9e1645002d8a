package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingodrill/internal/history"
	"github.com/abhisek/lingodrill/internal/knowledge"
	"github.com/abhisek/lingodrill/internal/session"
	"github.com/abhisek/lingodrill/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show accuracy across the practice history",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		var st *store.Stats
		if e.cfg.HistoryFile != "" {
			h, err := e.historyStore().Load(cmd.Context())
			if err != nil && !errorsIsNotFound(err) {
				return err
			}
			st = statsFromHistory(h)
		} else {
			st, err = e.store.HistoryRepo().Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("compute stats: %w", err)
			}
		}

		printStats(st)
		return nil
	},
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, history.ErrNotFound)
}

// statsFromHistory aggregates a history the same way the database does.
func statsFromHistory(h session.History) *store.Stats {
	st := &store.Stats{Sessions: len(h)}
	byField := make(map[knowledge.Field]*store.FieldStats)
	for _, f := range knowledge.Fields {
		byField[f] = &store.FieldStats{Field: f}
	}
	for _, s := range h {
		if s.EndedAt.After(st.LastPracticed) {
			st.LastPracticed = s.EndedAt
		}
		for _, ex := range s.Exercises {
			st.Exercises++
			for i, f := range ex.FilledFields {
				fs, ok := byField[f]
				if !ok || i >= len(ex.Correctness) {
					continue
				}
				fs.Attempted++
				if ex.Correctness[i] {
					fs.Correct++
				}
			}
		}
	}
	for _, f := range knowledge.Fields {
		if fs := byField[f]; fs.Attempted > 0 {
			st.Fields = append(st.Fields, *fs)
		}
	}
	return st
}

func printStats(st *store.Stats) {
	if st.Sessions == 0 {
		fmt.Println("No practice sessions yet.")
		return
	}
	fmt.Printf("Sessions:        %d\n", st.Sessions)
	fmt.Printf("Exercises:       %d\n", st.Exercises)
	if !st.LastPracticed.IsZero() {
		fmt.Printf("Last practiced:  %s\n", st.LastPracticed.Local().Format(time.DateTime))
	}
	if len(st.Fields) == 0 {
		return
	}
	fmt.Println()
	fmt.Printf("%-20s %10s %10s %10s\n", "FIELD", "ATTEMPTED", "CORRECT", "ACCURACY")
	for _, f := range st.Fields {
		fmt.Printf("%-20s %10d %10d %9.0f%%\n", f.Field, f.Attempted, f.Correct, f.Accuracy()*100)
	}
}
