// Package observability provides hooks for metrics and tracing of the spawner.
//
// The spawner and the server emit events through globally registered hooks.
// Defaults are no-ops, so libraries never depend on a metrics backend; the
// server registers a Prometheus implementation at startup.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSpawnerHooks(&myHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Spawner().OnSpawn(ctx, shape, live)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Spawner Hooks
// =============================================================================

// SpawnerHooks receives events from drawing spawners.
type SpawnerHooks interface {
	// OnSpawn records an instance attached to its container.
	OnSpawn(ctx context.Context, shape string, live int)

	// OnRemove records an instance detached after its lifetime (or on stop).
	OnRemove(ctx context.Context, shape string, lifetime time.Duration, live int)

	// OnSkip records a spawn attempt that did not attach anything.
	OnSkip(ctx context.Context, reason string)

	// OnMeasureFallback records a path whose length could not be measured.
	OnMeasureFallback(ctx context.Context, shape string, err error)
}

// =============================================================================
// Session Hooks
// =============================================================================

// SessionHooks receives events from display sessions served over the network.
type SessionHooks interface {
	// OnSessionOpen records a display surface becoming ready.
	OnSessionOpen(ctx context.Context, sessionID string)

	// OnSessionClose records a display surface going away.
	OnSessionClose(ctx context.Context, sessionID string, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSpawnerHooks is a no-op implementation of SpawnerHooks.
type NoopSpawnerHooks struct{}

func (NoopSpawnerHooks) OnSpawn(context.Context, string, int) {}
func (NoopSpawnerHooks) OnRemove(context.Context, string, time.Duration, int) {}
func (NoopSpawnerHooks) OnSkip(context.Context, string) {}
func (NoopSpawnerHooks) OnMeasureFallback(context.Context, string, error) {}

// NoopSessionHooks is a no-op implementation of SessionHooks.
type NoopSessionHooks struct{}

func (NoopSessionHooks) OnSessionOpen(context.Context, string) {}
func (NoopSessionHooks) OnSessionClose(context.Context, string, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	spawnerHooks SpawnerHooks = NoopSpawnerHooks{}
	sessionHooks SessionHooks = NoopSessionHooks{}
	hooksMu      sync.RWMutex
)

// SetSpawnerHooks registers custom spawner hooks.
// This should be called once at application startup before any spawner runs.
func SetSpawnerHooks(h SpawnerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		spawnerHooks = h
	}
}

// SetSessionHooks registers custom session hooks.
func SetSessionHooks(h SessionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sessionHooks = h
	}
}

// Spawner returns the registered spawner hooks.
func Spawner() SpawnerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return spawnerHooks
}

// Session returns the registered session hooks.
func Session() SessionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sessionHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	spawnerHooks = NoopSpawnerHooks{}
	sessionHooks = NoopSessionHooks{}
}
