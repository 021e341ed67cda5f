package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/krishakhanal/Tasks-API/internal/apperrors"
	"github.com/krishakhanal/Tasks-API/internal/models"
)

// FileStore keeps the task collection in one JSON file, pretty-printed with
// two-space indentation.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the file at path. The parent
// directory is created and the file is seeded with an empty array if it
// does not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &FileStore{path: path}

	_, err := os.Stat(path)
	if err == nil {
		return s, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat tasks file: %w", err)
	}

	if err := s.Save(context.Background(), nil); err != nil {
		return nil, fmt.Errorf("failed to seed tasks file: %w", err)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and parses the whole file.
func (s *FileStore) Load(ctx context.Context) ([]models.Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, apperrors.NewStorageReadError(fmt.Errorf("reading %s: %w", s.path, err))
	}

	var tasks []models.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, apperrors.NewStorageReadError(fmt.Errorf("parsing %s: %w", s.path, err))
	}
	if tasks == nil {
		// A literal "null" in the file is treated as an empty collection.
		tasks = []models.Task{}
	}
	return tasks, nil
}

// Save overwrites the file with tasks. The content goes to a temp file in
// the same directory first and is renamed into place.
func (s *FileStore) Save(ctx context.Context, tasks []models.Task) error {
	if tasks == nil {
		tasks = []models.Task{}
	}

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tasks-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing tasks: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *FileStore) Close() error {
	return nil
}
