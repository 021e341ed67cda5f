package store

import (
	"context"
	"fmt"

	"github.com/krishakhanal/Tasks-API/internal/models"
)

// Store persists the task collection as a single unit. Callers load the
// whole collection, change it in memory and save the whole collection back.
type Store interface {
	// Load returns every task in stored order. A missing or unreadable
	// backing store yields an apperrors StorageReadError.
	Load(ctx context.Context) ([]models.Task, error)

	// Save replaces the stored collection with tasks.
	Save(ctx context.Context, tasks []models.Task) error

	// Lifecycle
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Open builds the store for the named backend. path is the JSON file for
// the file backend and the database file for the sqlite backend.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendFile:
		return NewFileStore(path)
	case BackendSQLite:
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}
