package tutor

// Config holds explanation generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for explanations.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   512,
		Temperature: 0.4,
	}
}
