// Package prepare turns a raw user configuration into a prepared one: rules are
// resolved and merged with their overrides, reporters are instantiated and the
// validator strategy is chosen.
package prepare

import (
	"context"
	"errors"
	"fmt"

	"github.com/packagelint/packagelint/internal/lint"
	"github.com/packagelint/packagelint/internal/logger"
	"github.com/packagelint/packagelint/internal/validate"
)

// Resolver is what preparation needs from the name resolver.
type Resolver interface {
	EntityResolver
	ResolveReporter(ctx context.Context, name string) (lint.ReporterFactory, error)
}

// DefaultPreparer is the standard lint.Preparer.
type DefaultPreparer struct {
	resolver     Resolver
	newValidator func() lint.Validator
	log          *logger.Logger
}

// Option configures a DefaultPreparer.
type Option func(*DefaultPreparer)

// WithValidator sets the validator used when the user config does not name one.
func WithValidator(newValidator func() lint.Validator) Option {
	return func(p *DefaultPreparer) {
		p.newValidator = newValidator
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(p *DefaultPreparer) {
		p.log = l
	}
}

// NewDefaultPreparer creates a preparer that resolves names with resolver.
func NewDefaultPreparer(resolver Resolver, opts ...Option) *DefaultPreparer {
	p := &DefaultPreparer{
		resolver: resolver,
		newValidator: func() lint.Validator {
			return validate.NewDefaultValidator()
		},
		log: logger.Default().WithPrefix("PREPARE"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PrepareUserConfig implements lint.Preparer. Nothing is returned unless every
// rule and reporter resolves.
func (p *DefaultPreparer) PrepareUserConfig(ctx context.Context, cfg *lint.UserConfig) (*lint.PreparedConfig, error) {
	if cfg == nil {
		return nil, &lint.InternalError{Op: "prepare config", Message: "no user config given"}
	}

	failOn := cfg.FailOnErrorLevel
	if failOn == "" {
		failOn = lint.DefaultErrorLevel
	}
	if !lint.IsValidErrorLevel(failOn) {
		return nil, &lint.ConfigError{Message: fmt.Sprintf("failOnErrorLevel %q is not a valid error level", failOn)}
	}

	acc := NewAccumulator(p.resolver)
	for i, entry := range cfg.Rules {
		if err := acc.Add(ctx, entry); err != nil {
			return nil, asConfigError(fmt.Sprintf("rules[%d] %q", i, entry.Name), err)
		}
	}
	rules := acc.Rules()

	reporters := make([]lint.NamedReporter, 0, len(cfg.Reporters))
	for _, re := range cfg.Reporters {
		r, err := p.instantiateReporter(ctx, re)
		if err != nil {
			return nil, asConfigError(fmt.Sprintf("reporter %q", re.Name), err)
		}
		reporters = append(reporters, r)
	}

	newValidator := p.newValidator
	if cfg.NewValidator != nil {
		newValidator = cfg.NewValidator
	}
	validator := newValidator()
	if validator == nil {
		return nil, &lint.InternalError{Op: "prepare config", Message: "validator constructor returned nil"}
	}

	p.log.Debug("prepared %d rules and %d reporters", len(rules), len(reporters))

	return &lint.PreparedConfig{
		FailOnErrorLevel: failOn,
		Rules:            rules,
		Reporters:        reporters,
		Preparer:         p,
		Validator:        validator,
	}, nil
}

func (p *DefaultPreparer) instantiateReporter(ctx context.Context, re lint.ReporterEntry) (lint.NamedReporter, error) {
	factory, err := p.resolver.ResolveReporter(ctx, re.Name)
	if err != nil {
		return lint.NamedReporter{}, err
	}
	opts := re.Options
	if opts == nil {
		opts = lint.Options{}
	}
	r, err := factory(opts)
	if err != nil {
		return lint.NamedReporter{}, fmt.Errorf("constructing: %w", err)
	}
	if r == nil {
		return lint.NamedReporter{}, errors.New("constructor returned no reporter")
	}
	return lint.NamedReporter{Name: re.Name, Options: opts, Reporter: r}, nil
}

// asConfigError surfaces err as an invalid-config error, keeping the original in the chain.
func asConfigError(where string, err error) error {
	return &lint.ConfigError{Message: where, Err: err}
}

// PrepareConfig prepares cfg with the preparer it names, or a DefaultPreparer over resolver.
func PrepareConfig(ctx context.Context, cfg *lint.UserConfig, resolver Resolver) (*lint.PreparedConfig, error) {
	if cfg == nil {
		return nil, &lint.InternalError{Op: "prepare config", Message: "no user config given"}
	}
	var preparer lint.Preparer
	if cfg.NewPreparer != nil {
		preparer = cfg.NewPreparer()
	}
	if preparer == nil {
		preparer = NewDefaultPreparer(resolver)
	}
	return preparer.PrepareUserConfig(ctx, cfg)
}
