// Package snapshot defines the pluggable blob store the durability gateway
// pushes state snapshots to. Providers only move opaque bytes; the envelope
// format belongs to the caller.
package snapshot

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Pull when the backend holds no snapshot yet.
var ErrNotFound = errors.New("snapshot not found")

// Store is the durability backend contract. Both operations are idempotent
// and safe to retry; a failed Push leaves the previous snapshot intact.
type Store interface {
	Push(ctx context.Context, blob []byte) error
	Pull(ctx context.Context) ([]byte, error)
}
