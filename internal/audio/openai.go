package audio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider with the OpenAI speech endpoint.
type OpenAIProvider struct {
	client *openai.Client
	cfg    Config
}

// NewOpenAIProvider creates a new OpenAI TTS provider.
func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return newOpenAIProvider(openai.NewClient(cfg.OpenAIKey), cfg), nil
}

func newOpenAIProvider(client *openai.Client, cfg Config) *OpenAIProvider {
	return &OpenAIProvider{client: client, cfg: cfg}
}

func (p *OpenAIProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.cfg.OpenAIModel),
		Input:          text,
		Voice:          openai.SpeechVoice(p.cfg.OpenAIVoice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          p.cfg.Speed,
	}
	if p.cfg.OpenAIInstruction != "" && p.cfg.OpenAIModel == string(openai.TTSModelGPT4oMini) {
		req.Instructions = p.cfg.OpenAIInstruction
	}

	resp, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer resp.Close()

	data, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("no audio data received from OpenAI")
	}
	return data, nil
}

func (p *OpenAIProvider) Name() string { return "openai" }
