package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingodrill/internal/audio"
)

var sayCmd = &cobra.Command{
	Use:   "say <text>",
	Short: "Pronounce text with the configured TTS provider",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		p, err := e.pronouncer()
		if errors.Is(err, audio.ErrDisabled) {
			return fmt.Errorf("pronunciation is disabled; set audio.provider in %s", cfgPath())
		}
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		return p.Pronounce(ctx, strings.Join(args, " "))
	},
}

func cfgPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if v != nil && v.ConfigFileUsed() != "" {
		return v.ConfigFileUsed()
	}
	return "the config file"
}
