// Package core is the built-in "packagelint" module: a handful of generic rules,
// the rulesets that combine them, and the standard reporters.
package core

import (
	"context"
	"fmt"

	"github.com/packagelint/packagelint/internal/lint"
	"github.com/packagelint/packagelint/internal/report"
	"github.com/packagelint/packagelint/internal/resolve"
)

// Module is the name the built-ins are registered under, as in "packagelint:nvmrc".
const Module = "packagelint"

// Rules returns the built-in rule definitions keyed by name.
func Rules() map[string]*lint.RuleDefinition {
	defs := []*lint.RuleDefinition{
		alwaysPassRule,
		alwaysFailRule,
		alwaysThrowRule,
		fileExistsRule,
		nvmrcRule,
	}
	out := make(map[string]*lint.RuleDefinition, len(defs))
	for _, d := range defs {
		out[d.Name] = d
	}
	return out
}

// Reporters returns the built-in reporter factories keyed by name.
func Reporters() map[string]lint.ReporterFactory {
	return map[string]lint.ReporterFactory{
		"debug":    report.NewDebugReporter,
		"json":     report.NewJSONReporter,
		"markdown": report.NewMarkdownReporter,
	}
}

// Exports builds the module's exports. Rulesets are parsed from the embedded
// YAML on every call.
func Exports(context.Context) (resolve.Exports, error) {
	rulesets, err := loadEmbeddedRulesets()
	if err != nil {
		return nil, fmt.Errorf("loading built-in rulesets: %w", err)
	}

	entities := make(map[string]lint.Entity, len(rulesets)+5)
	for name, def := range Rules() {
		entities[name] = def
	}
	for _, rs := range rulesets {
		if _, dup := entities[rs.Name]; dup {
			return nil, fmt.Errorf("built-in ruleset %q shadows a rule", rs.Name)
		}
		entities[rs.Name] = rs
	}

	return resolve.Exports{
		resolve.RulesExport:     entities,
		resolve.ReportersExport: Reporters(),
	}, nil
}

// Register adds the built-in module to reg.
func Register(reg *resolve.Registry) {
	reg.Register(Module, Exports)
}

// NewRegistry returns a registry holding only the built-in module.
func NewRegistry() *resolve.Registry {
	reg := resolve.NewRegistry()
	Register(reg)
	return reg
}
