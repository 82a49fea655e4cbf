// Package file provides file-based storage for builder session records.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flowsmith/flowsmith/pkg/persistence"
)

// Store keeps one JSON file per key under a root directory.
type Store struct {
	root string
}

// NewStore creates a file store rooted at the given directory. A file://
// prefix is accepted and stripped.
func NewStore(root string) *Store {
	return &Store{root: strings.Replace(root, "file://", "", 1)}
}

func (s *Store) Save(_ context.Context, key string, record *persistence.Record) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	return nil
}

func (s *Store) Load(_ context.Context, key string) (*persistence.Record, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrRecordNotFound
		}

		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	var record persistence.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse record: %w", err)
	}

	return &record, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	return nil
}

// HealthCheck verifies the root directory exists.
func (s *Store) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(s.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (s *Store) Close(_ context.Context) error {
	return nil
}

// path maps a key to a file name. Keys may carry a session suffix separated
// by a colon, which is not a valid file name character everywhere.
func (s *Store) path(key string) string {
	name := strings.ReplaceAll(key, ":", "_")

	return filepath.Join(s.root, name+".json")
}
