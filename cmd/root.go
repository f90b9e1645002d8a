package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/lingodrill/internal/config"
)

var (
	cfgFile string
	v       *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:   "lingodrill",
	Short: "Terminal language drills",
	Long:  "lingodrill shows one field of a vocabulary record and asks you to fill in the others: spelling, syllables, IPA and translation.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		v, err = config.NewViper(cfgFile)
		if err != nil {
			return err
		}
		return bindFlags(v, cmd.Root().PersistentFlags())
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", fmt.Sprintf("Config file (default %s)", config.ConfigFile()))
	pf.String("db", "", "Path to SQLite database file (overrides LINGODRILL_DB env var)")
	pf.String("knowledge", "", "Knowledge base JSON file")
	pf.String("history-file", "", "Keep history in this JSON file instead of the database")
	pf.String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.Flags().String("type", "any", "Item type to practice: any, word or phrase")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(sayCmd)
	rootCmd.AddCommand(keyboardCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// bindFlags lets persistent flags override file and env values.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	bindings := map[string]string{
		"db":           "db",
		"knowledge":    "knowledge",
		"history_file": "history-file",
		"log.level":    "log-level",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("bind --%s: %w", flag, err)
		}
	}
	return nil
}
