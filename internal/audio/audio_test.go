package audio

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mp3 = []byte("ID3\x03fake-mp3")

type countingProvider struct {
	calls int
	err   error
}

func (c *countingProvider) Synthesize(_ context.Context, text string) ([]byte, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return append([]byte(text+":"), mp3...), nil
}

func (c *countingProvider) Name() string { return "counting" }

func TestHTTPProvider(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]string{"audio": base64.StdEncoding.EncodeToString(mp3)})
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, 0, time.Second)
	data, err := p.Synthesize(context.Background(), "  Hund ")
	require.NoError(t, err)
	assert.Equal(t, mp3, data)
	assert.Equal(t, generateRequest{Text: "Hund", Speed: 1.0}, got)
}

func TestHTTPProvider_ErrorDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"unsupported language"}`))
	}))
	defer srv.Close()

	_, err := NewHTTPProvider(srv.URL, 1, time.Second).Synthesize(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
}

func TestHTTPProvider_EmptyText(t *testing.T) {
	_, err := NewHTTPProvider("http://127.0.0.1:1", 1, time.Second).Synthesize(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestOpenAIProvider(t *testing.T) {
	var got openai.CreateSpeechRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(mp3)
	}))
	defer srv.Close()

	cc := openai.DefaultConfig("test-key")
	cc.BaseURL = srv.URL + "/v1"
	cfg := DefaultConfig()
	p := newOpenAIProvider(openai.NewClientWithConfig(cc), cfg)

	data, err := p.Synthesize(context.Background(), "Guten Tag")
	require.NoError(t, err)
	assert.Equal(t, mp3, data)
	assert.Equal(t, "Guten Tag", got.Input)
	assert.Equal(t, openai.TTSModelGPT4oMini, got.Model)
	assert.Equal(t, cfg.OpenAIInstruction, got.Instructions)
	assert.Equal(t, openai.SpeechResponseFormatMp3, got.ResponseFormat)
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(DefaultConfig())
	assert.Error(t, err)
}

func TestCachedProvider(t *testing.T) {
	inner := &countingProvider{}
	c, err := NewCachedProvider(inner, t.TempDir(), "http", "1.00")
	require.NoError(t, err)

	first, err := c.Synthesize(context.Background(), "Hund")
	require.NoError(t, err)
	second, err := c.Synthesize(context.Background(), "Hund")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)

	_, err = c.Synthesize(context.Background(), "Katze")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)

	other, err := NewCachedProvider(inner, c.dir, "http", "0.75")
	require.NoError(t, err)
	_, err = other.Synthesize(context.Background(), "Hund")
	require.NoError(t, err)
	assert.Equal(t, 3, inner.calls, "different salt must miss the cache")
}

func TestBreakerProvider(t *testing.T) {
	inner := &countingProvider{err: errors.New("connection refused")}
	b := newBreakerProvider(inner, 2, time.Hour)

	for range 2 {
		_, err := b.Synthesize(context.Background(), "Hund")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}

	_, err := b.Synthesize(context.Background(), "Hund")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 2, inner.calls, "open breaker must not call the backend")
}

func TestBreakerProvider_EmptyTextDoesNotTrip(t *testing.T) {
	inner := &countingProvider{err: ErrEmptyText}
	b := newBreakerProvider(inner, 1, time.Hour)

	for range 3 {
		_, err := b.Synthesize(context.Background(), "")
		assert.ErrorIs(t, err, ErrEmptyText)
	}
	assert.Equal(t, 3, inner.calls)
}

func TestNewProvider(t *testing.T) {
	cfg := DefaultConfig()
	_, err := NewProvider(cfg)
	assert.ErrorIs(t, err, ErrDisabled)

	cfg.Provider = "http"
	cfg.CacheDir = t.TempDir()
	p, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "http", p.Name())

	cfg.Provider = "espeak"
	_, err = NewProvider(cfg)
	assert.Error(t, err)
}

func TestPlayer_Resolve(t *testing.T) {
	p := NewPlayer("mpv --really-quiet {file}", "")
	name, args, err := p.resolve("/tmp/a.mp3")
	require.NoError(t, err)
	assert.Equal(t, "mpv", name)
	assert.Equal(t, []string{"--really-quiet", "/tmp/a.mp3"}, args)

	p = NewPlayer("cvlc --play-and-exit", "")
	_, args, err = p.resolve("/tmp/a.mp3")
	require.NoError(t, err)
	assert.Equal(t, []string{"--play-and-exit", "/tmp/a.mp3"}, args)
}

func TestPlayer_Discovery(t *testing.T) {
	p := NewPlayer("", "")
	p.lookPath = func(name string) (string, error) {
		if name == "paplay" {
			return "/usr/bin/paplay", nil
		}
		return "", errors.New("not found")
	}
	name, args, err := p.resolve("/tmp/a.mp3")
	require.NoError(t, err)
	if name == "afplay" {
		return
	}
	assert.Equal(t, "paplay", name)
	assert.Equal(t, []string{"/tmp/a.mp3"}, args)

	p.lookPath = func(string) (string, error) { return "", errors.New("not found") }
	if _, _, err := p.resolve("/tmp/a.mp3"); err == nil {
		t.Error("expected error when no player is installed")
	}
}

func TestPlayer_Play(t *testing.T) {
	dir := t.TempDir()
	p := NewPlayer("fake {file}", dir)

	var played []byte
	p.run = func(_ context.Context, name string, args ...string) error {
		assert.Equal(t, "fake", name)
		require.Len(t, args, 1)
		data, err := os.ReadFile(args[0])
		played = data
		return err
	}

	require.NoError(t, p.Play(context.Background(), mp3))
	assert.Equal(t, mp3, played)

	left, _ := filepath.Glob(filepath.Join(dir, "*"))
	assert.Empty(t, left, "temporary audio file must be removed")
}

type recordingSpeaker struct{ audio []byte }

func (r *recordingSpeaker) Play(_ context.Context, audio []byte) error {
	r.audio = audio
	return nil
}

func TestPronouncer(t *testing.T) {
	speaker := &recordingSpeaker{}
	p := NewPronouncer(&countingProvider{}, speaker, nil)

	require.NoError(t, p.Pronounce(context.Background(), " Hund "))
	assert.Equal(t, append([]byte("Hund:"), mp3...), speaker.audio)

	assert.ErrorIs(t, p.Pronounce(context.Background(), ""), ErrEmptyText)
}
