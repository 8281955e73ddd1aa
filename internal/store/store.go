// Package store persists the application snapshot: one serialized blob
// under one key, loaded at start and rewritten on every change.
package store

import (
	"context"
	"errors"
	"strings"

	"github.com/rcliao/grimoire/internal/model"
)

// StateKey is the key the snapshot blob is stored under.
const StateKey = "grimoire_data"

// ErrNoState is returned by Load when nothing has been saved yet.
var ErrNoState = errors.New("no saved state")

// ErrCorruptState is returned by Load when the saved blob cannot be decoded.
var ErrCorruptState = errors.New("corrupt saved state")

// Stats describes the persisted blob.
type Stats struct {
	Backend   string `json:"backend"`
	Location  string `json:"location"`
	SizeBytes int64  `json:"size_bytes"`
	BlobBytes int    `json:"blob_bytes"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Store defines the snapshot persistence interface.
type Store interface {
	// Load returns the saved snapshot, or ErrNoState.
	Load(ctx context.Context) (*model.Snapshot, error)

	// Save replaces the saved snapshot.
	Save(ctx context.Context, snap *model.Snapshot) error

	// Stats reports storage statistics.
	Stats(ctx context.Context) (*Stats, error)

	// Close closes the store.
	Close() error
}

// Open picks a backend from dsn: postgres:// and postgresql:// URLs open
// Postgres, anything else (optionally prefixed sqlite://) is a SQLite path.
func Open(ctx context.Context, dsn string) (Store, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgresStore(ctx, dsn)
	default:
		return NewSQLiteStore(strings.TrimPrefix(dsn, "sqlite://"))
	}
}
