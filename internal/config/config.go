// Package config loads lingodrill settings from a YAML file, LINGODRILL_*
// environment variables and command-line flags through viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/lingodrill/internal/audio"
	"github.com/abhisek/lingodrill/internal/llm"
	"github.com/abhisek/lingodrill/internal/store"
)

// EnvPrefix is prepended to every environment override, e.g. LINGODRILL_LOG_LEVEL.
const EnvPrefix = "LINGODRILL"

// Config is the resolved application configuration.
type Config struct {
	// DBPath is the SQLite history database. Empty resolves to
	// store.DefaultDBPath.
	DBPath string

	// KnowledgePath is the JSON knowledge base.
	KnowledgePath string

	// HistoryFile, when set, replaces the database with a JSON history file.
	HistoryFile string

	// ExportPath is the default target of history export.
	ExportPath string

	Log   LogConfig
	Audio audio.Config
	LLM   llm.Config
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string
	File  string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		KnowledgePath: filepath.Join(dataDir(), "knowledge.json"),
		ExportPath:    "practice_history.json",
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(stateDir(), "lingodrill.log"),
		},
		Audio: audio.DefaultConfig(),
		LLM:   llm.DefaultConfig(),
	}
}

// NewViper returns a viper instance with defaults registered, environment
// overrides enabled and the config file read. cfgFile may be empty, in which
// case $XDG_CONFIG_HOME/lingodrill/config.yaml is used when present.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v, Default())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("db", d.DBPath)
	v.SetDefault("knowledge", d.KnowledgePath)
	v.SetDefault("history_file", d.HistoryFile)
	v.SetDefault("export", d.ExportPath)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)

	v.SetDefault("audio.provider", d.Audio.Provider)
	v.SetDefault("audio.endpoint", d.Audio.Endpoint)
	v.SetDefault("audio.speed", d.Audio.Speed)
	v.SetDefault("audio.timeout", d.Audio.Timeout)
	v.SetDefault("audio.openai_key", "")
	v.SetDefault("audio.openai_model", d.Audio.OpenAIModel)
	v.SetDefault("audio.openai_voice", d.Audio.OpenAIVoice)
	v.SetDefault("audio.openai_instruction", d.Audio.OpenAIInstruction)
	v.SetDefault("audio.cache", true)
	v.SetDefault("audio.player", "")

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.discover", false)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
}

// Load resolves a Config from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()

	cfg.DBPath = v.GetString("db")
	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return cfg, err
		}
		cfg.DBPath = p
	}
	cfg.KnowledgePath = v.GetString("knowledge")
	cfg.HistoryFile = v.GetString("history_file")
	cfg.ExportPath = v.GetString("export")

	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.File = v.GetString("log.file")
	if _, err := ParseLevel(cfg.Log.Level); err != nil {
		return cfg, err
	}

	cfg.Audio.Provider = v.GetString("audio.provider")
	cfg.Audio.Endpoint = v.GetString("audio.endpoint")
	cfg.Audio.Speed = v.GetFloat64("audio.speed")
	cfg.Audio.Timeout = v.GetDuration("audio.timeout")
	cfg.Audio.OpenAIKey = v.GetString("audio.openai_key")
	if cfg.Audio.OpenAIKey == "" {
		cfg.Audio.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	cfg.Audio.OpenAIModel = v.GetString("audio.openai_model")
	cfg.Audio.OpenAIVoice = v.GetString("audio.openai_voice")
	cfg.Audio.OpenAIInstruction = v.GetString("audio.openai_instruction")
	cfg.Audio.Player = v.GetString("audio.player")
	if v.GetBool("audio.cache") {
		cfg.Audio.CacheDir = filepath.Join(cacheDir(), "audio")
	}
	if cfg.Audio.Speed < 0.25 || cfg.Audio.Speed > 4.0 {
		return cfg, fmt.Errorf("audio.speed must be between 0.25 and 4.0, got %.2f", cfg.Audio.Speed)
	}

	cfg.LLM.Provider = v.GetString("llm.provider")
	cfg.LLM.Timeout = v.GetDuration("llm.timeout")
	cfg.LLM.ApplyEnv()
	if model := v.GetString("llm.model"); model != "" {
		setModel(&cfg.LLM, model)
	}
	if v.GetBool("llm.discover") {
		cfg.LLM.Discover()
	}
	if err := cfg.LLM.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setModel(c *llm.Config, model string) {
	switch c.Provider {
	case "anthropic":
		c.Anthropic.Model = model
	case "openai":
		c.OpenAI.Model = model
	case "gemini":
		c.Gemini.Model = model
	case "openrouter":
		c.OpenRouter.Model = model
	}
}

// Timeout returns d, or fallback when d is not positive.
func Timeout(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// ConfigFile returns the default config file location.
func ConfigFile() string {
	return filepath.Join(configDir(), "config.yaml")
}

func configDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

func dataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func stateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func cacheDir() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, "lingodrill")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, fallback, "lingodrill")
}
