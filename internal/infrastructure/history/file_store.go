package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/doeshing/wtf-go/internal/domain"
	"github.com/doeshing/wtf-go/internal/pkg/filesystem"
	"github.com/doeshing/wtf-go/internal/ports"
)

// FileStore keeps the history as a JSON list in a single file, capped at a
// fixed number of entries.
type FileStore struct {
	path  string
	limit int
	now   func() time.Time
	mu    sync.Mutex
}

// Option customizes a FileStore.
type Option func(*FileStore)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) {
		s.now = now
	}
}

// WithLimit changes the maximum number of entries kept.
func WithLimit(limit int) Option {
	return func(s *FileStore) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// NewFileStore creates a store backed by the file at path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:  path,
		limit: domain.MaxHistoryEntries,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Ensure creates an empty history file if none exists.
func (s *FileStore) Ensure() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return s.save([]domain.HistoryEntry{})
}

// Load implements ports.HistoryRepository. A missing or empty file yields no
// entries; anything else that is not a JSON list of entries is a
// *domain.HistoryDecodeError.
func (s *FileStore) Load() ([]domain.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Append implements ports.HistoryRepository.
func (s *FileStore) Append(prompt, command string, success bool, metadata map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	entries = append(entries, domain.HistoryEntry{
		Timestamp: s.now(),
		Prompt:    prompt,
		Command:   command,
		Success:   success,
		Metadata:  metadata,
	})
	if len(entries) > s.limit {
		entries = entries[len(entries)-s.limit:]
	}
	return s.save(entries)
}

func (s *FileStore) load() ([]domain.HistoryEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []domain.HistoryEntry{}, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}
	if len(data) == 0 {
		return []domain.HistoryEntry{}, nil
	}
	var entries []domain.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &domain.HistoryDecodeError{Path: s.path, Err: err}
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}

func (s *FileStore) save(entries []domain.HistoryEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := filesystem.WriteFileAtomic(s.path, data, domain.FilePermissions); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

var _ ports.HistoryRepository = (*FileStore)(nil)
