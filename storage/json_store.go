package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"naukri-scraper/models"
)

// JSONStore writes the result set of the most recent completed run to a JSON
// file and reads it back. It is safe for concurrent use.
type JSONStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONStore creates a store writing to the given path. Intermediate
// directories are created on first save.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Save writes the result set, replacing any previous run's artifact. The
// write goes through a temp file and rename so a crash mid-write never
// leaves a truncated artifact behind.
func (s *JSONStore) Save(results *models.ResultSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("json store: create output dir: %w", err)
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("json store: marshal: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("json store: write %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("json store: rename: %w", err)
	}
	return nil
}

// Load reads the persisted artifact. It returns os.ErrNotExist (wrapped) when
// no completed run has been saved yet.
func (s *JSONStore) Load() (*models.ResultSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("json store: read %q: %w", s.path, err)
	}

	var results models.ResultSet
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("json store: unmarshal %q: %w", s.path, err)
	}
	return &results, nil
}
