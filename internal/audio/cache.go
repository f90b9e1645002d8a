package audio

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// CachedProvider stores synthesized audio on disk keyed by text and
// provider settings.
type CachedProvider struct {
	inner Provider
	dir   string
	salt  []string
}

// NewCachedProvider wraps inner with a cache rooted at dir. salt is mixed
// into every key so that changing voice or speed misses the cache.
func NewCachedProvider(inner Provider, dir string, salt ...string) (*CachedProvider, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &CachedProvider{inner: inner, dir: dir, salt: salt}, nil
}

func (c *CachedProvider) Synthesize(ctx context.Context, text string) ([]byte, error) {
	path := c.path(text)
	if data, err := os.ReadFile(path); err == nil && len(data) > 0 {
		return data, nil
	}

	data, err := c.inner.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		_ = os.WriteFile(path, data, 0o644) // cache errors are not fatal
	}
	return data, nil
}

func (c *CachedProvider) Name() string { return c.inner.Name() }

// path uses the first two hash characters as a subdirectory.
func (c *CachedProvider) path(text string) string {
	h := md5.New()
	h.Write([]byte(text))
	for _, s := range c.salt {
		h.Write([]byte{0})
		h.Write([]byte(s))
	}
	sum := hex.EncodeToString(h.Sum(nil))
	return filepath.Join(c.dir, sum[:2], sum[2:]+".mp3")
}

// Clear removes every cached file.
func (c *CachedProvider) Clear() error {
	return os.RemoveAll(c.dir)
}
