// Package runner ties preparation and validation together into one call.
package runner

import (
	"context"
	"time"

	"github.com/packagelint/packagelint/internal/core"
	"github.com/packagelint/packagelint/internal/lint"
	"github.com/packagelint/packagelint/internal/logger"
	"github.com/packagelint/packagelint/internal/prepare"
	"github.com/packagelint/packagelint/internal/resolve"
	"github.com/packagelint/packagelint/internal/validate"
)

// Runner prepares and validates user configurations.
type Runner struct {
	resolver      prepare.Resolver
	validatorOpts []validate.Option
	log           *logger.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithResolver replaces the resolver, which by default only knows the built-in module.
func WithResolver(r prepare.Resolver) Option {
	return func(rn *Runner) {
		rn.resolver = r
	}
}

// WithValidatorOptions configures the default validator.
func WithValidatorOptions(opts ...validate.Option) Option {
	return func(rn *Runner) {
		rn.validatorOpts = append(rn.validatorOpts, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(rn *Runner) {
		rn.log = l
	}
}

// New creates a runner.
func New(opts ...Option) *Runner {
	rn := &Runner{
		log: logger.Default().WithPrefix("RUNNER"),
	}
	for _, opt := range opts {
		opt(rn)
	}
	if rn.resolver == nil {
		rn.resolver = resolve.NewResolver(core.NewRegistry())
	}
	return rn
}

// Prepare resolves cfg into a prepared configuration.
func (rn *Runner) Prepare(ctx context.Context, cfg *lint.UserConfig) (*lint.PreparedConfig, error) {
	if cfg == nil {
		return nil, &lint.InternalError{Op: "prepare config", Message: "no user config given"}
	}
	if cfg.NewPreparer != nil {
		return prepare.PrepareConfig(ctx, cfg, rn.resolver)
	}
	p := prepare.NewDefaultPreparer(rn.resolver, prepare.WithValidator(func() lint.Validator {
		return validate.NewDefaultValidator(rn.validatorOpts...)
	}))
	return p.PrepareUserConfig(ctx, cfg)
}

// Run prepares cfg and validates it. A preparation error is returned as is;
// use ExitCode to map it to a process exit code.
func (rn *Runner) Run(ctx context.Context, cfg *lint.UserConfig) (*lint.Output, error) {
	start := time.Now()

	prepared, err := rn.Prepare(ctx, cfg)
	if err != nil {
		rn.log.Error("preparing config: %v", err)
		return nil, err
	}
	rn.log.Debug("prepared %d rules and %d reporters in %v",
		len(prepared.Rules), len(prepared.Reporters), time.Since(start))

	return validate.ValidatePreparedConfig(ctx, prepared)
}

// Run runs cfg with a runner built from opts.
func Run(ctx context.Context, cfg *lint.UserConfig, opts ...Option) (*lint.Output, error) {
	return New(opts...).Run(ctx, cfg)
}

// ExitCode returns the process exit code for the outcome of Run.
func ExitCode(out *lint.Output, err error) lint.ExitCode {
	if err != nil {
		return lint.ExitCodeFor(err)
	}
	if out == nil {
		return lint.ExitFailureUnknown
	}
	return out.ExitCode
}
