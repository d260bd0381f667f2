package lint

import (
	"context"
	"time"
)

// Options are rule-specific settings. Values come from YAML, so nested maps are map[string]any.
type Options map[string]any

// ErrorData is diagnostic information a rule attaches to a failure.
type ErrorData map[string]any

// Messages maps an error name to a human-readable message template.
type Messages map[string]string

// Docs is human-readable information about a rule or ruleset.
type Docs struct {
	Description string `json:"description" yaml:"description"`
	URL         string `json:"url,omitempty" yaml:"url,omitempty"`
}

// Failure is the signal a rule returns when its check does not pass.
type Failure struct {
	ErrorName string
	ErrorData ErrorData
}

// ValidationContext is the per-invocation surface a rule uses while it runs.
// Data set through it is private to one rule invocation.
type ValidationContext interface {
	// PreparedRuleName returns the final identifier of the running rule.
	PreparedRuleName() string

	// FindFileUp looks for pattern in the working directory and its ancestors.
	// It returns nil when nothing matches.
	FindFileUp(pattern string) ([]string, error)

	// ReadFile returns the contents of a file found with FindFileUp.
	ReadFile(path string) ([]byte, error)

	// SetErrorData merges fields into the invocation's error data.
	SetErrorData(data ErrorData)

	// CreateErrorToReturn merges extra into the error data and returns the failure signal.
	CreateErrorToReturn(errorName string, extra ErrorData) *Failure
}

// ValidationFunc implements a rule's check. A nil failure and nil error mean the
// rule passed; a returned error (or a panic) is treated as an exception.
type ValidationFunc func(ctx context.Context, options Options, vc ValidationContext) (*Failure, error)

// Entity is anything a rules export may contain: a rule or a ruleset definition.
type Entity interface {
	EntityName() string
}

// RuleDefinition is the immutable implementation of a rule.
type RuleDefinition struct {
	Name string
	Docs Docs
	// IsAbstract rules must be extended under a new name before they can run.
	IsAbstract        bool
	DefaultErrorLevel ErrorLevel
	DefaultOptions    Options
	Messages          Messages
	Validate          ValidationFunc
}

// EntityName returns the rule's name.
func (d *RuleDefinition) EntityName() string { return d.Name }

// RulesetDefinition is a named, ordered list of entries that may reference further rulesets.
type RulesetDefinition struct {
	Name  string  `yaml:"name"`
	Docs  Docs    `yaml:"docs"`
	Rules []Entry `yaml:"rules"`
}

// EntityName returns the ruleset's name.
func (d *RulesetDefinition) EntityName() string { return d.Name }

// PreparedRule is a rule definition merged with every override that applies to it.
type PreparedRule struct {
	PreparedRuleName  string         `json:"preparedRuleName"`
	Docs              Docs           `json:"docs"`
	Enabled           bool           `json:"enabled"`
	ExtendedFrom      string         `json:"extendedFrom,omitempty"`
	DefaultErrorLevel ErrorLevel     `json:"defaultErrorLevel"`
	ErrorLevel        ErrorLevel     `json:"errorLevel"`
	DefaultOptions    Options        `json:"defaultOptions"`
	Options           Options        `json:"options"`
	Messages          Messages       `json:"messages"`
	Validate          ValidationFunc `json:"-"`
}

// Status describes what happened to one prepared rule during a run.
type Status string

const (
	StatusSkipped   Status = "skipped"
	StatusPassed    Status = "passed"
	StatusFailed    Status = "failed"
	StatusException Status = "exception"
)

// ValidationError describes a failed or excepted rule.
type ValidationError struct {
	PreparedRuleName string     `json:"preparedRuleName"`
	ErrorLevel       ErrorLevel `json:"errorLevel"`
	// ErrorName and ErrorData are empty for exceptions.
	ErrorName string    `json:"errorName,omitempty"`
	ErrorData ErrorData `json:"errorData,omitempty"`
	Message   string    `json:"message"`
}

// ValidationResult is the outcome of one prepared rule. Error is set for failed and excepted rules.
type ValidationResult struct {
	PreparedRuleName string           `json:"preparedRuleName"`
	Status           Status           `json:"status"`
	Error            *ValidationError `json:"error,omitempty"`
}

// Ran reports whether the rule was executed at all.
func (r ValidationResult) Ran() bool {
	return r.Status != StatusSkipped
}

// ReporterFailure records a reporter hook that returned an error or panicked.
type ReporterFailure struct {
	Reporter string `json:"reporter"`
	Event    string `json:"event"`
	Error    string `json:"error"`
}

// Output is the terminal artifact of one run. It is not modified once built.
type Output struct {
	NumRulesEnabled  int `json:"numRulesEnabled"`
	NumRulesDisabled int `json:"numRulesDisabled"`
	NumRulesPassed   int `json:"numRulesPassed"`
	NumRulesFailed   int `json:"numRulesFailed"`

	ExitCode          ExitCode         `json:"exitCode"`
	HighestErrorLevel ErrorLevel       `json:"highestErrorLevel,omitempty"`
	ErrorLevelCounts  ErrorLevelCounts `json:"errorLevelCounts"`

	Rules        []*PreparedRule    `json:"rules"`
	AllResults   []ValidationResult `json:"allResults"`
	ErrorResults []ValidationError  `json:"errorResults"`

	ReporterFailures []ReporterFailure `json:"reporterFailures,omitempty"`
	Duration         time.Duration     `json:"duration"`
}
