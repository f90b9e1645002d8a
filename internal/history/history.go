package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/abhisek/lingodrill/internal/session"
)

// ErrNotFound is returned when the history file does not exist.
var ErrNotFound = errors.New("history not found")

// Store loads and persists the practice history.
type Store interface {
	// Load returns all finalized sessions in finalization order.
	Load(ctx context.Context) (session.History, error)

	// Save persists h. Sessions already stored are left untouched.
	Save(ctx context.Context, h session.History) error
}

// Read decodes the JSON history at path.
func Read(path string) (session.History, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	var h session.History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("decode history %s: %w", path, err)
	}
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("invalid history %s: %w", path, err)
	}
	return h, nil
}

// Marshal encodes h as indented JSON. A nil history encodes as [].
func Marshal(h session.History) ([]byte, error) {
	if h == nil {
		h = session.History{}
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	return data, nil
}

// Write stores h at path as indented JSON, replacing the file atomically.
func Write(path string, h session.History) error {
	data, err := Marshal(h)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data, 0o644)
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-history-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	var success bool
	defer func() {
		if !success {
			if err := os.Remove(tmp.Name()); err != nil && !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("failed to remove temporary file", "path", tmp.Name(), "error", err)
			}
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("rename history file: %w", err)
	}
	success = true
	return nil
}
