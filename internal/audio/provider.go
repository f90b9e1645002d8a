package audio

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDisabled is returned by NewProvider when no TTS backend is configured.
	ErrDisabled = errors.New("audio: no TTS provider configured")

	// ErrEmptyText is returned when there is nothing to pronounce.
	ErrEmptyText = errors.New("audio: empty text")
)

// Provider synthesizes speech.
type Provider interface {
	// Synthesize returns encoded audio (mp3) for text.
	Synthesize(ctx context.Context, text string) ([]byte, error)

	// Name returns the provider name.
	Name() string
}

// Config holds TTS and playback settings.
type Config struct {
	// Provider is "http", "openai" or empty to disable pronunciation.
	Provider string

	// Endpoint is the local TTS service used by the http provider.
	Endpoint string
	Speed    float64
	Timeout  time.Duration

	OpenAIKey         string
	OpenAIModel       string
	OpenAIVoice       string
	OpenAIInstruction string // only honoured by gpt-4o-mini-tts

	// CacheDir enables the on-disk audio cache when set.
	CacheDir string

	// Player overrides player discovery, e.g. "mpv --really-quiet {file}".
	Player string
}

// DefaultConfig returns default configuration with pronunciation disabled.
func DefaultConfig() Config {
	return Config{
		Endpoint:          "http://localhost:8000/api/generate-audio",
		Speed:             1.0,
		Timeout:           10 * time.Second,
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "alloy",
		OpenAIInstruction: "Pronounce the text as a native speaker would, slowly and clearly for language learners.",
	}
}

// NewProvider builds the configured provider, wrapped as
// breaker → cache → base.
func NewProvider(cfg Config) (Provider, error) {
	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case "":
		return nil, ErrDisabled
	case "http":
		base = NewHTTPProvider(cfg.Endpoint, cfg.Speed, cfg.Timeout)
	case "openai":
		base, err = NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown audio provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	p := base
	if cfg.CacheDir != "" {
		p, err = NewCachedProvider(p, cfg.CacheDir, cacheKeyParts(cfg)...)
		if err != nil {
			return nil, err
		}
	}
	return NewBreakerProvider(p), nil
}

func cacheKeyParts(cfg Config) []string {
	parts := []string{cfg.Provider, fmt.Sprintf("%.2f", cfg.Speed)}
	if cfg.Provider == "openai" {
		parts = append(parts, cfg.OpenAIModel, cfg.OpenAIVoice, cfg.OpenAIInstruction)
	}
	return parts
}
