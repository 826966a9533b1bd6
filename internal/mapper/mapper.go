// Package mapper resolves declared collections to live persistence backends.
//
// DESIGN: The host describes its collections through a Definition builder
// (invoked eagerly when the mapper is constructed); the configuration layer
// pushes built adapters in via SetAdapters, and Load binds every collection
// to its backend. The attribute/type system a full mapping DSL would carry
// lives elsewhere; this mapper owns only the collection-to-adapter binding.
package mapper

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/relmap/relmap/internal/adapters"
)

// Definition accumulates collection declarations from the host's builder.
type Definition struct {
	collections []collectionDecl
}

type collectionDecl struct {
	name    string
	adapter string // empty means use the default adapter
}

// Option customizes one collection declaration.
type Option func(*collectionDecl)

// UseAdapter binds the collection to a named adapter instead of the default.
func UseAdapter(name string) Option {
	return func(d *collectionDecl) {
		d.adapter = name
	}
}

// Collection declares a collection. Declaring the same name twice keeps the
// last declaration.
func (d *Definition) Collection(name string, opts ...Option) {
	decl := collectionDecl{name: name}
	for _, opt := range opts {
		opt(&decl)
	}
	for i, existing := range d.collections {
		if existing.name == name {
			d.collections[i] = decl
			return
		}
	}
	d.collections = append(d.collections, decl)
}

// Collection is a declared collection bound (after Load) to a live adapter.
type Collection struct {
	Name        string
	AdapterName string // as declared; empty means default
	adapter     adapters.Adapter
}

// Adapter returns the live backend resolved for this collection, nil before
// the mapper has loaded.
func (c *Collection) Adapter() adapters.Adapter {
	return c.adapter
}

// UnboundCollectionError reports a collection whose adapter could not be
// resolved at load time.
type UnboundCollectionError struct {
	Collection string
	Adapter    string // empty when the collection relied on a missing default
}

func (e *UnboundCollectionError) Error() string {
	if e.Adapter == "" {
		return fmt.Sprintf("collection %q needs a default adapter and none is configured", e.Collection)
	}
	return fmt.Sprintf("collection %q references unknown adapter %q", e.Collection, e.Adapter)
}

// Mapper owns the declared collections and, once loaded, their bindings.
type Mapper struct {
	collections map[string]*Collection
	order       []string

	adapters       map[string]adapters.Adapter
	defaultAdapter adapters.Adapter

	generation string
	loaded     bool
}

// New materializes a mapper from a definition builder. The builder runs
// eagerly, so declaration mistakes surface at construction, not at load.
func New(build func(*Definition)) *Mapper {
	var def Definition
	build(&def)

	m := &Mapper{
		collections: make(map[string]*Collection, len(def.collections)),
	}
	for _, decl := range def.collections {
		m.collections[decl.name] = &Collection{
			Name:        decl.name,
			AdapterName: decl.adapter,
		}
		m.order = append(m.order, decl.name)
	}
	return m
}

// SetAdapters receives the built adapter set from the registry.
func (m *Mapper) SetAdapters(set map[string]adapters.Adapter, def adapters.Adapter) {
	m.adapters = set
	m.defaultAdapter = def
}

// Load binds every collection to its adapter and pings the backends it
// touches. Calling Load again re-resolves from the current adapter set.
func (m *Mapper) Load(ctx context.Context) error {
	generation := uuid.NewString()

	for _, name := range m.order {
		c := m.collections[name]

		adapter := m.defaultAdapter
		if c.AdapterName != "" {
			adapter = m.adapters[c.AdapterName]
			if adapter == nil {
				return &UnboundCollectionError{Collection: c.Name, Adapter: c.AdapterName}
			}
		} else if adapter == nil {
			return &UnboundCollectionError{Collection: c.Name}
		}

		if err := adapter.Ping(ctx); err != nil {
			return fmt.Errorf("collection %q: adapter %q: %w", c.Name, adapter.Name(), err)
		}
		c.adapter = adapter
	}

	m.generation = generation
	m.loaded = true

	log.Debug().
		Str("generation", generation).
		Int("collections", len(m.collections)).
		Int("adapters", len(m.adapters)).
		Msg("mapper loaded")

	return nil
}

// Collection looks up a declared collection by name.
func (m *Mapper) Collection(name string) (*Collection, bool) {
	c, ok := m.collections[name]
	return c, ok
}

// Adapters returns the adapter set the mapper was last given.
func (m *Mapper) Adapters() map[string]adapters.Adapter {
	return m.adapters
}

// DefaultAdapter returns the default backend, nil when none is configured.
func (m *Mapper) DefaultAdapter() adapters.Adapter {
	return m.defaultAdapter
}

// Loaded reports whether Load has completed successfully.
func (m *Mapper) Loaded() bool {
	return m.loaded
}

// Generation identifies the last successful load, for log correlation.
func (m *Mapper) Generation() string {
	return m.generation
}
