package resolve

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/packagelint/packagelint/internal/cache"
	"github.com/packagelint/packagelint/internal/lint"
	"github.com/packagelint/packagelint/internal/logger"
)

// Resolver looks up rules, rulesets and reporters by name.
type Resolver struct {
	loader  Loader
	modules *cache.LRU[string, Exports]
	log     *logger.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(r *Resolver) {
		r.log = l
	}
}

// WithCacheSize bounds how many loaded modules are kept.
func WithCacheSize(size int) Option {
	return func(r *Resolver) {
		if c, err := cache.NewLRU[string, Exports](size); err == nil {
			r.modules = c
		}
	}
}

// NewResolver creates a resolver backed by loader.
func NewResolver(loader Loader, opts ...Option) *Resolver {
	modules, _ := cache.NewLRU[string, Exports](cache.DefaultSize)
	r := &Resolver{
		loader:  loader,
		modules: modules,
		log:     logger.Default().WithPrefix("RESOLVE"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SplitName splits "<module>:<entity>" at the first colon. Both parts must be non-empty.
func SplitName(kind, name string) (module, entity string, err error) {
	module, entity, ok := strings.Cut(name, ":")
	if !ok || module == "" || entity == "" {
		return "", "", &lint.InvalidNameError{Kind: kind, Name: name}
	}
	return module, entity, nil
}

// CacheStats reports how often module loads were served from the cache.
func (r *Resolver) CacheStats() cache.Stats {
	return r.modules.Stats()
}

func (r *Resolver) loadModule(ctx context.Context, module string) (Exports, error) {
	return r.modules.GetOrLoad(module, func() (Exports, error) {
		r.log.Debug("loading module %s", module)
		exports, err := r.loader.Load(ctx, module)
		if err != nil {
			if errors.Is(err, ErrModuleNotFound) {
				return nil, &lint.ImportError{Module: module, Message: "could not be found"}
			}
			return nil, &lint.ImportError{Module: module, Message: "could not be loaded", Err: err}
		}
		return exports, nil
	})
}

// exportMap returns the named export of module as a generic map.
func (r *Resolver) exportMap(ctx context.Context, module, export string) (map[string]any, error) {
	exports, err := r.loadModule(ctx, module)
	if err != nil {
		return nil, err
	}
	raw, ok := exports[export]
	if !ok {
		return nil, &lint.ImportError{Module: module, Message: fmt.Sprintf("does not export %s", export)}
	}
	raw, err = Value(ctx, raw)
	if err != nil {
		return nil, &lint.ImportError{Module: module, Message: "could not load " + export, Err: err}
	}

	switch m := raw.(type) {
	case map[string]any:
		return m, nil
	case map[string]lint.Entity:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	case map[string]*lint.RuleDefinition:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	case map[string]lint.ReporterFactory:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	default:
		return nil, &lint.ImportError{Module: module, Message: fmt.Sprintf("export %s is not a map (got %T)", export, raw)}
	}
}

func (r *Resolver) lookup(ctx context.Context, kind, export, name string) (string, any, error) {
	module, entity, err := SplitName(kind, name)
	if err != nil {
		return "", nil, err
	}
	m, err := r.exportMap(ctx, module, export)
	if err != nil {
		return "", nil, err
	}
	raw, ok := m[entity]
	if !ok {
		return "", nil, &lint.ImportError{Module: module, Message: fmt.Sprintf("does not contain %s %q", kind, entity)}
	}
	v, err := Value(ctx, raw)
	if err != nil {
		return "", nil, &lint.ImportError{Module: module, Message: fmt.Sprintf("could not load %s %q", kind, entity), Err: err}
	}
	return module, v, nil
}

// ResolveRuleOrRuleset returns the rule or ruleset definition registered under name.
func (r *Resolver) ResolveRuleOrRuleset(ctx context.Context, name string) (lint.Entity, error) {
	module, v, err := r.lookup(ctx, "rule", RulesExport, name)
	if err != nil {
		return nil, err
	}
	switch e := v.(type) {
	case *lint.RuleDefinition:
		if e == nil {
			break
		}
		return e, nil
	case *lint.RulesetDefinition:
		if e == nil {
			break
		}
		return e, nil
	}
	return nil, &lint.ImportError{Module: module, Message: fmt.Sprintf("entry for %q is not a rule or ruleset (got %T)", name, v)}
}

// ResolveRule is ResolveRuleOrRuleset restricted to rules.
func (r *Resolver) ResolveRule(ctx context.Context, name string) (*lint.RuleDefinition, error) {
	e, err := r.ResolveRuleOrRuleset(ctx, name)
	if err != nil {
		return nil, err
	}
	def, ok := e.(*lint.RuleDefinition)
	if !ok {
		module, _, _ := SplitName("rule", name)
		return nil, &lint.ImportError{Module: module, Message: fmt.Sprintf("entry for %q is a ruleset, not a rule", name)}
	}
	return def, nil
}

// ResolveReporter returns the factory registered under name.
func (r *Resolver) ResolveReporter(ctx context.Context, name string) (lint.ReporterFactory, error) {
	module, v, err := r.lookup(ctx, "reporter", ReportersExport, name)
	if err != nil {
		return nil, err
	}
	switch f := v.(type) {
	case lint.ReporterFactory:
		if f != nil {
			return f, nil
		}
	case func(lint.Options) (lint.Reporter, error):
		if f != nil {
			return f, nil
		}
	case lint.Reporter:
		return func(lint.Options) (lint.Reporter, error) { return f, nil }, nil
	}
	return nil, &lint.ImportError{Module: module, Message: fmt.Sprintf("entry for %q is not a reporter (got %T)", name, v)}
}

// ListRules returns the fully qualified rule and ruleset names exported by module, sorted.
func (r *Resolver) ListRules(ctx context.Context, module string) ([]string, error) {
	m, err := r.exportMap(ctx, module, RulesExport)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, module+":"+k)
	}
	sort.Strings(names)
	return names, nil
}
