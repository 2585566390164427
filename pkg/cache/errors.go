package cache

import "errors"

// Sentinel errors for artifact store operations.
var (
	// ErrNotFound is returned when a requested artifact does not exist.
	ErrNotFound = errors.New("artifact not found")

	// ErrClosed is returned when an operation is attempted on a closed store.
	ErrClosed = errors.New("artifact store closed")

	// ErrNamespaceExists is returned when the on-disk namespace already
	// exists and was not created by this invocation. A stale namespace from
	// an unclean run is reported rather than silently reused.
	ErrNamespaceExists = errors.New("cache namespace already exists")
)
