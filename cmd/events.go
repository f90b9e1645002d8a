package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingodrill/internal/store"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show recent session and LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")

		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.store.EventRepo().Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}

		var shown int
		fmt.Printf("%-6s %-20s %-12s %s\n", "SEQ", "TIME", "KIND", "DETAIL")
		fmt.Println(strings.Repeat("─", 80))
		for _, ev := range events {
			if kind != "" && ev.Kind != kind {
				continue
			}
			fmt.Printf("%-6d %-20s %-12s %s\n",
				ev.Sequence, ev.Timestamp.Local().Format("2006-01-02 15:04:05"), ev.Kind, eventDetail(ev))
			shown++
		}
		if shown == 0 {
			fmt.Println("No events recorded.")
		}
		return nil
	},
}

func init() {
	eventsCmd.Flags().Int("limit", 50, "Number of events to show")
	eventsCmd.Flags().String("kind", "", "Only show events of this kind (session or llm_request)")
}

func eventDetail(ev store.Event) string {
	switch ev.Kind {
	case "session":
		var d store.SessionEventData
		if err := json.Unmarshal(ev.Data, &d); err != nil {
			break
		}
		return fmt.Sprintf("%-8s %s  %d exercises", d.Action, shortID(d.SessionID), d.Exercises)
	case "llm_request":
		var d store.LLMRequestEventData
		if err := json.Unmarshal(ev.Data, &d); err != nil {
			break
		}
		status := "ok"
		if !d.Success {
			status = "FAIL " + d.ErrorMessage
		}
		return fmt.Sprintf("%s/%s %s in=%d out=%d %dms %s",
			d.Provider, d.Model, d.Purpose, d.InputTokens, d.OutputTokens, d.LatencyMs, status)
	}
	return string(ev.Data)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
