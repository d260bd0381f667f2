package prepare

import (
	"context"
	"fmt"
	"strings"

	"github.com/packagelint/packagelint/internal/lint"
)

// EntityResolver finds the rule or ruleset definition registered under a name.
type EntityResolver interface {
	ResolveRuleOrRuleset(ctx context.Context, name string) (lint.Entity, error)
}

// Accumulator expands rule and ruleset entries into prepared rules.
// Entries are applied in order; a later entry sees everything earlier ones produced.
type Accumulator struct {
	resolver EntityResolver
	order    []string
	rules    map[string]*accumulated
	stack    []string
}

type accumulated struct {
	rule *lint.PreparedRule
	// def is the definition the rule was built from, used by resetOptions.
	def *lint.RuleDefinition
	// origin is the base the name was claimed for: its own name, or the extended rule.
	origin string
}

// rulesetDefaults are the enabled/errorLevel values a ruleset entry passes to its rules.
type rulesetDefaults struct {
	enabled    *bool
	errorLevel lint.ErrorLevel
}

func (d rulesetDefaults) overlay(e lint.Entry) rulesetDefaults {
	if e.Enabled != nil {
		d.enabled = e.Enabled
	}
	if e.ErrorLevel != "" {
		d.errorLevel = e.ErrorLevel
	}
	return d
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator(resolver EntityResolver) *Accumulator {
	return &Accumulator{
		resolver: resolver,
		rules:    make(map[string]*accumulated),
	}
}

// AddAll applies entries in order, stopping at the first error.
func (a *Accumulator) AddAll(ctx context.Context, entries []lint.Entry) error {
	for _, e := range entries {
		if err := a.Add(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// Add applies one user entry.
func (a *Accumulator) Add(ctx context.Context, entry lint.Entry) error {
	return a.add(ctx, entry, rulesetDefaults{})
}

// Rules returns the prepared rules in the order they were first introduced.
func (a *Accumulator) Rules() []*lint.PreparedRule {
	out := make([]*lint.PreparedRule, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, a.rules[name].rule)
	}
	return out
}

func (a *Accumulator) add(ctx context.Context, entry lint.Entry, defaults rulesetDefaults) error {
	if entry.Name == "" {
		return &lint.ConfigError{Message: "rule entry has no name"}
	}
	if entry.ErrorLevel != "" && !lint.IsValidErrorLevel(entry.ErrorLevel) {
		return &lint.ConfigError{Message: fmt.Sprintf("rule %q: %q is not a valid error level", entry.Name, entry.ErrorLevel)}
	}

	lookup := entry.Name
	if entry.ExtendRule != "" {
		lookup = entry.ExtendRule
		if _, err := a.resolver.ResolveRuleOrRuleset(ctx, entry.Name); err == nil {
			return &lint.ConfigError{Message: fmt.Sprintf("rule %q already exists: extending %q needs a new name", entry.Name, entry.ExtendRule)}
		}
	}

	// Names prepared earlier in this run, including custom ones, need no module.
	if base, ok := a.rules[lookup]; ok {
		return a.addRule(entry, base.def, base, defaults)
	}

	entity, err := a.resolver.ResolveRuleOrRuleset(ctx, lookup)
	if err != nil {
		return err
	}
	switch def := entity.(type) {
	case *lint.RulesetDefinition:
		return a.addRuleset(ctx, entry, def, defaults)
	case *lint.RuleDefinition:
		if def.IsAbstract && entry.ExtendRule == "" {
			return &lint.ConfigError{Message: fmt.Sprintf("rule %q is abstract: use it through extendRule under a new name", lookup)}
		}
		if def.Validate == nil {
			return &lint.ConfigError{Message: fmt.Sprintf("rule %q has no validation function", lookup)}
		}
		if def.DefaultErrorLevel != "" && !lint.IsValidErrorLevel(def.DefaultErrorLevel) {
			return &lint.ConfigError{Message: fmt.Sprintf("rule %q: default %q is not a valid error level", lookup, def.DefaultErrorLevel)}
		}
		return a.addRule(entry, def, nil, defaults)
	default:
		return &lint.ConfigError{Message: fmt.Sprintf("%q is neither a rule nor a ruleset", lookup)}
	}
}

func (a *Accumulator) addRuleset(ctx context.Context, entry lint.Entry, def *lint.RulesetDefinition, defaults rulesetDefaults) error {
	if entry.ExtendRule != "" || entry.ResetOptions || len(entry.Options) > 0 || len(entry.Messages) > 0 {
		return &lint.ConfigError{Message: fmt.Sprintf("ruleset %q only accepts enabled and errorLevel", entry.Name)}
	}
	for _, name := range a.stack {
		if name == entry.Name {
			cycle := append(append([]string{}, a.stack...), entry.Name)
			return &lint.ConfigError{Message: "ruleset cycle: " + strings.Join(cycle, " -> ")}
		}
	}

	a.stack = append(a.stack, entry.Name)
	defer func() { a.stack = a.stack[:len(a.stack)-1] }()

	inner := defaults.overlay(entry)
	for _, e := range def.Rules {
		if err := a.add(ctx, e, inner); err != nil {
			return fmt.Errorf("in ruleset %q: %w", entry.Name, err)
		}
	}
	return nil
}

// addRule creates or refines the prepared rule named by entry. base is the
// already prepared state of the looked-up name, if any.
func (a *Accumulator) addRule(entry lint.Entry, def *lint.RuleDefinition, base *accumulated, defaults rulesetDefaults) error {
	origin := entry.Name
	if entry.ExtendRule != "" {
		origin = entry.ExtendRule
	}

	existing, exists := a.rules[entry.Name]
	if exists && entry.ExtendRule != "" && existing.origin != origin {
		return &lint.ConfigError{Message: fmt.Sprintf(
			"rule name %q is claimed by both %q and %q", entry.Name, existing.origin, origin)}
	}

	var target *accumulated
	switch {
	case exists && !(entry.ExtendRule != "" && entry.ResetOptions):
		target = existing
	case entry.ExtendRule != "":
		target = a.extend(entry, def, base)
	default:
		target = &accumulated{rule: fromDefinition(entry.Name, def), def: def, origin: origin}
	}

	applyEntry(target.rule, entry, defaults)

	if !exists {
		a.order = append(a.order, entry.Name)
	}
	a.rules[entry.Name] = target
	return nil
}

// extend builds a new prepared rule on top of base's current state, or on the
// definition's defaults when there is no prepared base or resetOptions is set.
func (a *Accumulator) extend(entry lint.Entry, def *lint.RuleDefinition, base *accumulated) *accumulated {
	rule := fromDefinition(entry.Name, def)
	if base != nil && !entry.ResetOptions {
		rule.Docs = base.rule.Docs
		rule.Options = cloneOptions(base.rule.Options)
		rule.DefaultOptions = cloneOptions(base.rule.Options)
		rule.Messages = mergeMessages(base.rule.Messages, nil)
		rule.Validate = base.rule.Validate
	}
	rule.ExtendedFrom = entry.ExtendRule
	return &accumulated{rule: rule, def: def, origin: entry.ExtendRule}
}

func fromDefinition(name string, def *lint.RuleDefinition) *lint.PreparedRule {
	level := def.DefaultErrorLevel
	if level == "" {
		level = lint.DefaultErrorLevel
	}
	return &lint.PreparedRule{
		PreparedRuleName:  name,
		Docs:              def.Docs,
		Enabled:           true,
		DefaultErrorLevel: level,
		ErrorLevel:        level,
		DefaultOptions:    cloneOptions(def.DefaultOptions),
		Options:           cloneOptions(def.DefaultOptions),
		Messages:          mergeMessages(def.Messages, nil),
		Validate:          def.Validate,
	}
}

// applyEntry layers an entry's overrides onto rule. Explicit entry values win,
// then ruleset defaults. An entry that omits enabled turns the rule on; other
// omitted fields keep what a refined rule already had.
func applyEntry(rule *lint.PreparedRule, entry lint.Entry, defaults rulesetDefaults) {
	switch {
	case entry.Enabled != nil:
		rule.Enabled = *entry.Enabled
	case defaults.enabled != nil:
		rule.Enabled = *defaults.enabled
	default:
		rule.Enabled = true
	}

	switch {
	case entry.ErrorLevel != "":
		rule.ErrorLevel = entry.ErrorLevel
	case defaults.errorLevel != "":
		rule.ErrorLevel = defaults.errorLevel
	}

	if len(entry.Options) > 0 {
		rule.Options = mergeOptions(rule.Options, entry.Options)
	}
	if len(entry.Messages) > 0 {
		rule.Messages = mergeMessages(rule.Messages, entry.Messages)
	}
}
