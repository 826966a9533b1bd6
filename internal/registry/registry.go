// Package registry holds named adapter specifications and turns them into
// live backends on demand.
//
// DESIGN: Specs are declarations, not connections. Register/Reset mutate the
// spec set during host bootstrap; Build derives live adapters from the
// current specs and binds them onto the mapper. The registry carries no lock:
// the host performs all registration, reset, and load calls on a single
// setup goroutine before the application goes concurrent.
package registry

import (
	"github.com/relmap/relmap/internal/adapters"
)

// Spec is a registered adapter declaration. Name keys the registry and Kind
// selects the backend factory; both are required (validated by the
// configuration layer before Register is called). URI and Default are
// optional with zero-value defaults.
type Spec struct {
	Name    string
	Kind    string
	URI     string
	Default bool
}

// Binder receives the built adapter set. Satisfied by the mapper.
type Binder interface {
	SetAdapters(set map[string]adapters.Adapter, def adapters.Adapter)
}

// Registry is the process-wide store of adapter specs plus, after a
// successful Build, the live adapters derived from them.
type Registry struct {
	specs       map[string]Spec
	defaultName string

	adapters       map[string]adapters.Adapter
	defaultAdapter adapters.Adapter
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		specs: make(map[string]Spec),
	}
}

// Reset clears all specs, the default pointer, and any built adapters.
// Built adapters are closed on the way out. Idempotent.
func (r *Registry) Reset() {
	for _, a := range r.adapters {
		_ = a.Close()
	}
	r.specs = make(map[string]Spec)
	r.defaultName = ""
	r.adapters = nil
	r.defaultAdapter = nil
}

// Register adds a spec, keyed by name. Re-registering a name overwrites the
// previous spec. A spec flagged Default moves the default pointer to itself
// unconditionally: last registered default wins.
func (r *Registry) Register(spec Spec) {
	r.specs[spec.Name] = spec
	if spec.Default {
		r.defaultName = spec.Name
	}
}

// Build instantiates a live adapter for every spec by dispatching on Kind,
// resolves the default, and hands the set to the binder. Build is atomic
// with respect to dispatch and construction failures: on error the adapters
// built so far are closed, the registry's adapter set is left untouched, and
// the binder is never called. A successful rebuild replaces the previous live
// set and closes its handles.
func (r *Registry) Build(m Binder) error {
	built := make(map[string]adapters.Adapter, len(r.specs))
	for name, spec := range r.specs {
		a, err := adapters.New(spec.Kind, spec.Name, spec.URI)
		if err != nil {
			for _, b := range built {
				_ = b.Close()
			}
			return err
		}
		built[name] = a
	}

	var def adapters.Adapter
	if r.defaultName != "" {
		def = built[r.defaultName]
	}

	// A rebuild supersedes the previous live set; release its handles.
	for _, old := range r.adapters {
		_ = old.Close()
	}
	r.adapters = built
	r.defaultAdapter = def

	if m != nil {
		m.SetAdapters(built, def)
	}
	return nil
}

// Specs returns a copy of the registered specs, keyed by name.
func (r *Registry) Specs() map[string]Spec {
	out := make(map[string]Spec, len(r.specs))
	for name, spec := range r.specs {
		out[name] = spec
	}
	return out
}

// DefaultName returns the name of the spec flagged default, if any.
func (r *Registry) DefaultName() (string, bool) {
	return r.defaultName, r.defaultName != ""
}

// Adapters returns the live adapter set from the last successful Build, or
// nil when Build has not run.
func (r *Registry) Adapters() map[string]adapters.Adapter {
	return r.adapters
}

// DefaultAdapter returns the live default adapter, or nil when no spec was
// flagged default or Build has not run.
func (r *Registry) DefaultAdapter() adapters.Adapter {
	return r.defaultAdapter
}
