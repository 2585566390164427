// Package cache implements the artifact handoff channel between render
// workers and the grid assembler.
//
// Rendered cells are not passed through memory: each worker persists its
// encoded artifact under its task index, and the assembler reads it back
// exactly once. The Store interface keeps the medium abstract; a scoped
// on-disk directory is the default, with Redis and in-memory backends for
// shared and test deployments.
//
// A store is a scoped resource: opened once per grid invocation, shared by
// all workers for writes and by the assembler for reads, and released by
// Close. Closing with retain=true leaves the namespace intact for
// inspection.
package cache

import "context"

// DefaultDir is the default on-disk namespace, relative to the working
// directory.
const DefaultDir = ".figcache"

// Handle identifies one persisted artifact. It is created by Put, consumed
// exactly once by the assembler, and is not valid after the store is closed.
type Handle struct {
	// Index is the task index the artifact was written under.
	Index int

	// Location is a backend-specific reference (file path, Redis key).
	// It is an implementation detail, useful for logging and debugging.
	Location string
}

// Store is an artifact channel. Implementations must support concurrent Put
// calls from multiple workers; each task writes a distinct index, so
// implementations need no write-write coordination beyond that.
type Store interface {
	// Put persists one artifact under the given index. Writing the same
	// index twice is allowed and last-write-wins.
	Put(ctx context.Context, index int, data []byte) (Handle, error)

	// Get loads a previously written artifact. It returns ErrNotFound if
	// the handle's index was never written or was already released.
	Get(ctx context.Context, h Handle) ([]byte, error)

	// Close releases the namespace. If retain is true the namespace and its
	// contents are left intact. Close is idempotent.
	Close(retain bool) error
}
