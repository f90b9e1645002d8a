package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingodrill/internal/history"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write the practice history as JSON",
	Long:  "Write every finalized session to a JSON file. The file defaults to the export setting from the config.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		path := e.cfg.ExportPath
		if len(args) == 1 {
			path = args[0]
		}

		h, err := e.historyStore().Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load history: %w", err)
		}
		if len(h) == 0 {
			fmt.Println("Nothing to export yet.")
			return nil
		}
		if err := history.Write(path, h); err != nil {
			return err
		}
		fmt.Printf("Exported %d sessions to %s\n", len(h), path)
		return nil
	},
}
