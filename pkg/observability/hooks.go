// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about grid generation and artifact
// store operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetGridHooks(&myGridHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Grid().OnTaskComplete(ctx, index, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// GridHooks receives events from grid generation.
type GridHooks interface {
	// OnGenerateStart fires once per invocation, after configuration has
	// been validated and before any worker starts.
	OnGenerateStart(ctx context.Context, total, rows, cols, workers int)

	// OnTaskComplete fires once per task, on success or failure, in
	// completion order.
	OnTaskComplete(ctx context.Context, index int, duration time.Duration, err error)

	// OnGenerateComplete fires once per invocation, after the artifact
	// store has been released.
	OnGenerateComplete(ctx context.Context, duration time.Duration, err error)
}

// StoreHooks receives events from artifact store operations.
type StoreHooks interface {
	// OnPut records a persisted artifact.
	OnPut(ctx context.Context, index, size int)

	// OnGet records an artifact read by the assembler.
	OnGet(ctx context.Context, index, size int)

	// OnRelease records the namespace teardown.
	OnRelease(ctx context.Context, retained bool)
}

// NoopGridHooks is a no-op implementation of GridHooks.
type NoopGridHooks struct{}

func (NoopGridHooks) OnGenerateStart(context.Context, int, int, int, int)       {}
func (NoopGridHooks) OnTaskComplete(context.Context, int, time.Duration, error) {}
func (NoopGridHooks) OnGenerateComplete(context.Context, time.Duration, error)  {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnPut(context.Context, int, int) {}
func (NoopStoreHooks) OnGet(context.Context, int, int) {}
func (NoopStoreHooks) OnRelease(context.Context, bool) {}

var (
	gridHooks  GridHooks  = NoopGridHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	hooksMu    sync.RWMutex
)

// SetGridHooks registers custom grid hooks.
// This should be called once at application startup before any generation.
func SetGridHooks(h GridHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		gridHooks = h
	}
}

// SetStoreHooks registers custom artifact store hooks.
// This should be called once at application startup before any generation.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Grid returns the registered grid hooks.
func Grid() GridHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return gridHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	gridHooks = NoopGridHooks{}
	storeHooks = NoopStoreHooks{}
}
