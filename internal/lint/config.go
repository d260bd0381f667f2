package lint

import "context"

// Preparer turns a raw user configuration into a prepared one.
type Preparer interface {
	PrepareUserConfig(ctx context.Context, cfg *UserConfig) (*PreparedConfig, error)
}

// Validator runs a prepared configuration and produces its output.
type Validator interface {
	ValidatePreparedConfig(ctx context.Context, cfg *PreparedConfig) (*Output, error)
}

// UserConfig is the unprocessed configuration, usually read from .packagelint.yaml.
// Nothing is loaded or evaluated unless it is reachable from here.
type UserConfig struct {
	// FailOnErrorLevel makes a run fail when any rule fails at or above this level.
	FailOnErrorLevel ErrorLevel `yaml:"failOnErrorLevel"`
	// Rules lists rules and rulesets in shorthand or full form.
	Rules []Entry `yaml:"rules"`
	// Reporters lists the reporters to notify and their options.
	Reporters ReporterEntries `yaml:"reporters"`

	// NewPreparer and NewValidator replace the default strategies. Leave them nil
	// unless you are forking the engine.
	NewPreparer  func() Preparer  `yaml:"-"`
	NewValidator func() Validator `yaml:"-"`
}

// DefaultUserConfig returns the configuration used when a field is not set.
func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		FailOnErrorLevel: DefaultErrorLevel,
		Rules:            []Entry{},
		Reporters:        ReporterEntries{},
	}
}

// PreparedConfig is fully resolved and ready to run.
type PreparedConfig struct {
	FailOnErrorLevel ErrorLevel
	Rules            []*PreparedRule
	Reporters        []NamedReporter
	Preparer         Preparer
	Validator        Validator
}
