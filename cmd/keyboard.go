package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingodrill/internal/keyboard"
)

var keyboardCmd = &cobra.Command{
	Use:   "keyboard",
	Short: "List the virtual keyboard keys",
	Run: func(cmd *cobra.Command, args []string) {
		for _, s := range keyboard.German {
			labels := make([]string, len(s.Keys))
			for i, k := range s.Keys {
				labels[i] = keyboard.Label(k)
			}
			fmt.Printf("%-20s %s\n", s.Title, strings.Join(labels, "  "))
		}
	},
}
