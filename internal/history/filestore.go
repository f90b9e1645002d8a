package history

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/lingodrill/internal/session"
)

// FileStore keeps the history in a single JSON file.
type FileStore struct {
	Path string

	mu sync.Mutex
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the history file. A missing file yields ErrNotFound so the
// caller can decide whether to start a new history.
func (s *FileStore) Load(ctx context.Context) (session.History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Read(s.Path)
}

// Create writes an empty history file.
func (s *FileStore) Create(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Write(s.Path, session.History{})
}

// Save merges h into the file. Sessions are matched by id; sessions already
// in the file keep their stored content.
func (s *FileStore) Save(ctx context.Context, h session.History) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := Read(s.Path)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return Write(s.Path, Merge(existing, h))
}

// Merge appends the sessions of add that are not already in base.
func Merge(base, add session.History) session.History {
	seen := make(map[string]struct{}, len(base))
	out := make(session.History, 0, len(base)+len(add))
	for _, s := range base {
		seen[s.SessionID] = struct{}{}
		out = append(out, s)
	}
	for _, s := range add {
		if _, ok := seen[s.SessionID]; ok {
			continue
		}
		seen[s.SessionID] = struct{}{}
		out = append(out, s)
	}
	return out
}
