package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingodrill/internal/history"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge an exported history file",
	Long:  "Read a JSON history file and store the sessions not yet known. Stored sessions are never overwritten.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		incoming, err := history.Read(args[0])
		if err != nil {
			return err
		}

		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		hs := e.historyStore()
		before, err := hs.Load(ctx)
		if err != nil && !errorsIsNotFound(err) {
			return fmt.Errorf("load history: %w", err)
		}
		if err := hs.Save(ctx, incoming); err != nil {
			return fmt.Errorf("save history: %w", err)
		}

		added := len(history.Merge(before, incoming)) - len(before)
		fmt.Printf("Imported %d new sessions (%d in file)\n", added, len(incoming))
		return nil
	},
}
