package persistence

import (
	"context"
	"errors"
)

// DefaultKey is the slot the editor autosaves into.
const DefaultKey = "workflow-autosave"

var (
	// ErrSnapshotNotFound is returned when no value is stored under a key.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrCorruptSnapshot is returned when a stored value cannot be decoded
	// into a snapshot.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// SnapshotStore is a durable key/value slot holding serialized snapshots.
//
// Implementations must treat Set as a full replacement of the previous
// value and Delete as idempotent.
type SnapshotStore interface {
	// Get returns the value stored under key, or ErrSnapshotNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the value stored under key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error
}
