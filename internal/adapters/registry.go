// Kind registry: maps backend kind → factory.
//
// DESIGN: Thread-safe map of kind → Factory, process-global. Built-in kinds
// register themselves in init() from their own files; hosts extend it via
// RegisterKind before any Build runs.
package adapters

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs a live adapter. The uri may be empty for backends that
// need no external endpoint.
type Factory func(name, uri string) (Adapter, error)

var (
	kindsMu sync.RWMutex
	kinds   = make(map[string]Factory)
)

// RegisterKind adds a backend factory under a symbolic kind. A second
// registration for the same kind replaces the first.
func RegisterKind(kind string, factory Factory) {
	kindsMu.Lock()
	defer kindsMu.Unlock()
	kinds[kind] = factory
}

// Kinds returns all registered kind identifiers, sorted.
func Kinds() []string {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds a live adapter by dispatching on kind.
// Returns UnknownKindError when no factory is registered for the kind.
func New(kind, name, uri string) (Adapter, error) {
	kindsMu.RLock()
	factory, ok := kinds[kind]
	kindsMu.RUnlock()
	if !ok {
		return nil, &UnknownKindError{Kind: kind, Available: Kinds()}
	}
	return factory(name, uri)
}

// UnknownKindError reports a spec whose kind has no registered factory.
type UnknownKindError struct {
	Kind      string
	Available []string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown adapter kind %q (available: %v)", e.Kind, e.Available)
}
