package state

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type fileState struct {
	LastSentDate string `json:"last_sent_date"`
}

// FileStore keeps the dispatch date in a small JSON file. A missing or
// corrupt file reads as "never sent" so a damaged state file can only cause
// an extra notification, never a missed run failure.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) LastSent(ctx context.Context) (time.Time, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return time.Time{}, false, nil
	}

	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		return time.Time{}, false, nil
	}
	if st.LastSentDate == "" {
		return time.Time{}, false, nil
	}

	day, err := time.Parse(dayLayout, st.LastSentDate)
	if err != nil {
		return time.Time{}, false, nil
	}
	return day, true, nil
}

func (s *FileStore) SetLastSent(ctx context.Context, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}

	data, err := json.MarshalIndent(fileState{LastSentDate: day.Format(dayLayout)}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
