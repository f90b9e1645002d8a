package audio

import (
	"context"
	"log/slog"
	"strings"
)

// Speaker plays encoded audio.
type Speaker interface {
	Play(ctx context.Context, audio []byte) error
}

// Pronouncer synthesizes text and plays it.
type Pronouncer struct {
	provider Provider
	speaker  Speaker
	logger   *slog.Logger
}

// NewPronouncer joins a provider and a speaker. logger may be nil.
func NewPronouncer(provider Provider, speaker Speaker, logger *slog.Logger) *Pronouncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pronouncer{provider: provider, speaker: speaker, logger: logger}
}

// Pronounce speaks text and blocks until playback finishes.
func (p *Pronouncer) Pronounce(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}

	audio, err := p.provider.Synthesize(ctx, text)
	if err != nil {
		p.logger.Warn("tts failed", "provider", p.provider.Name(), "error", err)
		return err
	}
	p.logger.Debug("tts ok", "provider", p.provider.Name(), "bytes", len(audio))
	return p.speaker.Play(ctx, audio)
}
