package audio

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPProvider calls a local TTS service that answers
// {"text", "speed"} with {"audio": <base64>}.
type HTTPProvider struct {
	endpoint string
	speed    float64
	client   *http.Client
}

// NewHTTPProvider creates a provider for the service at endpoint.
func NewHTTPProvider(endpoint string, speed float64, timeout time.Duration) *HTTPProvider {
	if speed <= 0 {
		speed = 1.0
	}
	return &HTTPProvider{
		endpoint: endpoint,
		speed:    speed,
		client:   &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Text  string  `json:"text"`
	Speed float64 `json:"speed"`
}

type generateResponse struct {
	Audio  string `json:"audio"`
	Detail string `json:"detail"`
}

func (p *HTTPProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	body, err := json.Marshal(generateRequest{Text: text, Speed: p.speed})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build TTS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contact audio service: %w", err)
	}
	defer resp.Body.Close()

	var out generateResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)
	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && out.Detail != "" {
			return nil, fmt.Errorf("audio service: %s", out.Detail)
		}
		return nil, fmt.Errorf("audio service: HTTP status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode audio response: %w", decodeErr)
	}

	data, err := base64.StdEncoding.DecodeString(out.Audio)
	if err != nil {
		return nil, fmt.Errorf("decode audio payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("audio service returned no audio")
	}
	return data, nil
}

func (p *HTTPProvider) Name() string { return "http" }
