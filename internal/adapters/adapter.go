// Package adapters provides the concrete persistence backends behind the
// configuration layer.
//
// DESIGN: Each backend kind ("sql", "memory", "document") implements the
// Adapter interface. Construction happens through the kind registry in
// registry.go, which maps a symbolic kind to a factory function. Any blocking
// I/O (opening a database file, reading a document store) happens inside the
// factory, never later in the configuration layer.
//
// To add a new backend: implement Adapter and register a factory in an init()
// via RegisterKind, or call RegisterKind from host startup code.
package adapters

import (
	"context"
)

// Adapter is the unified interface for a live persistence backend.
// Instances are created from registered specs; they hold whatever handle the
// backend needs (a *sql.DB, an in-memory cache, a document tree).
type Adapter interface {
	// Name returns the registered adapter name (e.g., "postgres", "sessions").
	Name() string

	// Kind returns the backend kind that built this adapter (e.g., "sql").
	Kind() string

	// Ping verifies the backend is reachable and usable.
	Ping(ctx context.Context) error

	// Close releases the backend handle. Safe to call more than once.
	Close() error
}

// BaseAdapter provides the common identity fields for all adapters.
type BaseAdapter struct {
	name string
	kind string
}

// Name returns the adapter name.
func (a *BaseAdapter) Name() string {
	return a.name
}

// Kind returns the backend kind.
func (a *BaseAdapter) Kind() string {
	return a.kind
}
