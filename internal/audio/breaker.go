package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrUnavailable is returned while the breaker is open after repeated
// TTS failures.
var ErrUnavailable = errors.New("audio: TTS temporarily unavailable")

// BreakerProvider stops calling a failing TTS backend for a cool-down
// period so the drill does not stall on every pronounce request.
type BreakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerProvider trips after three consecutive failures and probes
// again after 30 seconds.
func NewBreakerProvider(inner Provider) *BreakerProvider {
	return newBreakerProvider(inner, 3, 30*time.Second)
}

func newBreakerProvider(inner Provider, failures uint32, cooldown time.Duration) *BreakerProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "tts-" + inner.Name(),
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrEmptyText) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Info("tts breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return &BreakerProvider{inner: inner, cb: cb}
}

func (b *BreakerProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Synthesize(ctx, text)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

func (b *BreakerProvider) Name() string { return b.inner.Name() }
