package session

import (
	"context"
	"errors"
)

// StorageKey is the single key the authenticated user is persisted under
const StorageKey = "user"

var (
	// ErrNotFound is returned by Storage.Get when the key is absent
	ErrNotFound = errors.New("session: key not found")
	// ErrNotActive is returned when Login or Logout run before Restore
	ErrNotActive = errors.New("session: holder not restored yet")
	// ErrDisposed is returned for any mutation after Dispose
	ErrDisposed = errors.New("session: holder disposed")
)

// Storage is the client-scoped key/value store a Holder persists into.
// One Storage instance belongs to exactly one client.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
