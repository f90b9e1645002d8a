package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingodrill/internal/config"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the practice history database",
	Long:  "Delete the SQLite database holding the practice history and events. A JSON history file is left alone.",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		if !yes {
			fmt.Printf("This deletes %s. Re-run with --yes to confirm.\n", cfg.DBPath)
			return nil
		}

		for _, p := range []string{cfg.DBPath, cfg.DBPath + "-wal", cfg.DBPath + "-shm"} {
			if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove %s: %w", p, err)
			}
		}
		fmt.Println("Deleted", cfg.DBPath)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
