// Package relmap is the configuration and adapter-registration layer of the
// data-mapping framework.
//
// A host declares one or more named persistence backends, optionally flags
// one as default, attaches a collection mapping, and calls Load to
// materialize both into a ready runtime state:
//
//	cfg := relmap.New()
//	cfg.Adapter(relmap.Spec{Name: "postgres", Kind: "sql", URI: dbURL, Default: true})
//	cfg.Mapping(func(d *relmap.Definition) {
//	    d.Collection("users")
//	    d.Collection("events", relmap.UseAdapter("postgres"))
//	})
//	err := cfg.Load(ctx)
//
// The configuration carries no locking: the host performs registration,
// mapping, and load sequentially during bootstrap, then treats the loaded
// state as immutable.
package relmap

import (
	"context"

	"github.com/relmap/relmap/internal/adapters"
	"github.com/relmap/relmap/internal/mapper"
	"github.com/relmap/relmap/internal/registry"
)

// Re-exports so hosts only import this package.
type (
	// Spec is an adapter declaration: Name and Kind are required, URI and
	// Default are optional.
	Spec = registry.Spec

	// Adapter is a live persistence backend built from a Spec.
	Adapter = adapters.Adapter

	// Definition is the collection-declaration builder passed to Mapping.
	Definition = mapper.Definition

	// Option customizes a collection declaration.
	Option = mapper.Option

	// Collection is a declared collection, bound to its backend after Load.
	Collection = mapper.Collection

	// UnknownKindError reports a spec whose kind has no registered factory.
	UnknownKindError = adapters.UnknownKindError
)

// UseAdapter binds a collection to a named adapter instead of the default.
var UseAdapter = mapper.UseAdapter

// RegisterKind extends the backend factory table with a host-provided kind.
// Call during process startup, before Load.
var RegisterKind = adapters.RegisterKind

// Mapper is what Load drives: it receives the built adapter set and then
// finalizes itself. Satisfied by the mapper constructed via Mapping.
type Mapper interface {
	registry.Binder
	Load(ctx context.Context) error
	Collection(name string) (*Collection, bool)
}

// Configuration is the process-wide entry point. Construct one per process
// with New and pass it to whatever needs it.
type Configuration struct {
	registry *registry.Registry
	mapper   Mapper
}

// New constructs a Configuration with an empty adapter registry.
func New() *Configuration {
	c := &Configuration{
		registry: registry.New(),
	}
	c.Reset()
	return c
}

// Reset clears all registered adapters and drops the mapping, returning the
// configuration to its freshly constructed state. The registry instance is
// reused, not replaced. Idempotent.
func (c *Configuration) Reset() {
	c.registry.Reset()
	c.mapper = nil
}

// Unload is an alias for Reset.
func (c *Configuration) Unload() {
	c.Reset()
}

// Adapter validates and registers an adapter declaration. Missing Name or
// Kind fails with MissingFieldError (Name is checked first); URI and Default
// keep their zero-value defaults. Re-registering a Name overwrites the
// previous declaration, and the last declaration flagged Default wins.
func (c *Configuration) Adapter(spec Spec) error {
	if spec.Name == "" {
		return &MissingFieldError{Field: "name"}
	}
	if spec.Kind == "" {
		return &MissingFieldError{Field: "kind"}
	}
	c.registry.Register(spec)
	return nil
}

// Mapping materializes the collection mapping from a definition builder and
// stores it, replacing any previous mapping. A nil builder fails with
// ErrInvalidMapping and leaves the previous mapping in place.
func (c *Configuration) Mapping(build func(*Definition)) error {
	if build == nil {
		return ErrInvalidMapping
	}
	c.mapper = mapper.New(build)
	return nil
}

// Load activates the configuration in two steps: build live adapters from
// every registered spec and bind them onto the mapper, then let the mapper
// finalize itself. Errors from either step propagate to the caller
// unrecovered; a dispatch failure aborts the build before any adapter set is
// committed, and the mapper is never finalized. Calling Load again re-runs
// the full sequence from current spec and mapping state.
func (c *Configuration) Load(ctx context.Context) error {
	if c.mapper == nil {
		return ErrNoMapping
	}
	if err := c.registry.Build(c.mapper); err != nil {
		return err
	}
	return c.mapper.Load(ctx)
}

// Collection looks up a declared collection on the current mapping.
// Its backend binding is populated once Load has run.
func (c *Configuration) Collection(name string) (*Collection, bool) {
	if c.mapper == nil {
		return nil, false
	}
	return c.mapper.Collection(name)
}

// Specs returns the registered adapter declarations, keyed by name.
func (c *Configuration) Specs() map[string]Spec {
	return c.registry.Specs()
}

// DefaultName returns the name of the declaration flagged default, if any.
func (c *Configuration) DefaultName() (string, bool) {
	return c.registry.DefaultName()
}

// Adapters returns the live adapter set from the last successful Load, nil
// before any Load.
func (c *Configuration) Adapters() map[string]Adapter {
	return c.registry.Adapters()
}

// DefaultAdapter returns the live default adapter, nil when no declaration
// was flagged default or Load has not run.
func (c *Configuration) DefaultAdapter() Adapter {
	return c.registry.DefaultAdapter()
}
