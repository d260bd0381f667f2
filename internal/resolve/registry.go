// Package resolve turns "<module>:<entity>" names into rule, ruleset and
// reporter implementations. Modules are registered in-process; a module is
// only loaded the first time one of its names is resolved.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Export names a module must use for its rules and reporters.
const (
	RulesExport     = "packagelintRules"
	ReportersExport = "packagelintReporters"
)

// ErrModuleNotFound is returned by a Loader when nothing is registered under a module name.
var ErrModuleNotFound = errors.New("module not found")

// Exports is what a module makes available, keyed by export name.
type Exports map[string]any

// Lazy defers construction of an export or entity until it is resolved.
type Lazy func(ctx context.Context) (any, error)

// Provider loads a module's exports.
type Provider func(ctx context.Context) (Exports, error)

// Loader locates modules by name.
type Loader interface {
	Load(ctx context.Context, module string) (Exports, error)
}

// Registry is an in-process Loader.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds or replaces the provider for module.
func (r *Registry) Register(module string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[module] = p
}

// RegisterExports registers a module whose exports are already built.
func (r *Registry) RegisterExports(module string, exports Exports) {
	r.Register(module, func(context.Context) (Exports, error) {
		return exports, nil
	})
}

// Load implements Loader.
func (r *Registry) Load(ctx context.Context, module string) (Exports, error) {
	r.mu.RLock()
	p, ok := r.providers[module]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrModuleNotFound
	}
	exports, err := p(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading: %w", err)
	}
	return exports, nil
}

// Modules returns the registered module names in sorted order.
func (r *Registry) Modules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Value resolves v one step: a Lazy (or equivalent func) is called, anything else is returned as is.
func Value(ctx context.Context, v any) (any, error) {
	switch fn := v.(type) {
	case Lazy:
		return fn(ctx)
	case func(context.Context) (any, error):
		return fn(ctx)
	default:
		return v, nil
	}
}
