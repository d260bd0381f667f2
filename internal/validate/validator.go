// Package validate runs a prepared configuration: every enabled rule is
// executed in its own context, outcomes are turned into results, and reporters
// are notified around the run and around each rule.
package validate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/packagelint/packagelint/internal/finder"
	"github.com/packagelint/packagelint/internal/lint"
	"github.com/packagelint/packagelint/internal/logger"
	"github.com/packagelint/packagelint/internal/metrics"
	"github.com/packagelint/packagelint/internal/report"
	"github.com/packagelint/packagelint/internal/worker"
)

// DefaultValidator is the standard lint.Validator.
//
// There is no timeout: a rule or reporter that never returns stalls the run.
// The context given to ValidatePreparedConfig is passed to rules and reporters.
type DefaultValidator struct {
	finder         FileFinder
	maxConcurrency int
	metrics        *metrics.Collector
	log            *logger.Logger
}

// Option configures a DefaultValidator.
type Option func(*DefaultValidator)

// WithFinder sets the filesystem rules search. The default is the real
// filesystem from the working directory.
func WithFinder(f FileFinder) Option {
	return func(v *DefaultValidator) {
		v.finder = f
	}
}

// WithMaxConcurrency limits how many rules run at once. Zero means no limit.
func WithMaxConcurrency(n int) Option {
	return func(v *DefaultValidator) {
		v.maxConcurrency = n
	}
}

// WithMetrics sets the collector run metrics are recorded in.
func WithMetrics(c *metrics.Collector) Option {
	return func(v *DefaultValidator) {
		v.metrics = c
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(v *DefaultValidator) {
		v.log = l
	}
}

// NewDefaultValidator creates a validator.
func NewDefaultValidator(opts ...Option) *DefaultValidator {
	v := &DefaultValidator{
		metrics: metrics.Global(),
		log:     logger.Default().WithPrefix("VALIDATE"),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidatePreparedConfig runs cfg through the validator it carries.
func ValidatePreparedConfig(ctx context.Context, cfg *lint.PreparedConfig) (*lint.Output, error) {
	if cfg == nil {
		return nil, &lint.InternalError{Op: "validate", Message: "missing prepared config"}
	}
	if cfg.Validator == nil {
		return nil, &lint.InternalError{Op: "validate", Message: "missing validator in prepared config"}
	}
	return cfg.Validator.ValidatePreparedConfig(ctx, cfg)
}

// ruleOutcome is what one rule task produces.
type ruleOutcome struct {
	result           lint.ValidationResult
	reporterFailures []lint.ReporterFailure
	done             bool
}

// ValidatePreparedConfig implements lint.Validator. Rule exceptions and
// reporter failures are recorded in the output; an error is only returned
// when cfg is unusable.
func (v *DefaultValidator) ValidatePreparedConfig(ctx context.Context, cfg *lint.PreparedConfig) (*lint.Output, error) {
	if cfg == nil {
		return nil, &lint.InternalError{Op: "validate", Message: "missing prepared config"}
	}
	start := time.Now()
	v.metrics.Counter(metrics.MetricRunsTotal).Inc()

	failures := v.collectFailures(report.Broadcast(ctx, cfg, lint.EventValidationStart, cfg))

	ff := v.finder
	if ff == nil {
		ff = osFinder()
	}

	outcomes := make([]ruleOutcome, len(cfg.Rules))
	tasks := make([]worker.Task, len(cfg.Rules))
	for i, rule := range cfg.Rules {
		i, rule := i, rule
		tasks[i] =worker.NewFuncTask(rule.PreparedRuleName, func(ctx context.Context) error {
			outcomes[i] = v.runRule(ctx, cfg, rule, ff)
			return nil
		})
	}
	results, stats := worker.RunAll(ctx, tasks, v.maxConcurrency)
	v.log.Debug("rule tasks finished: %s", stats)

	for i, o := range outcomes {
		if !o.done {
			// The task never completed; surface the pool's reason as an exception.
			err := results[i].Error
			if err == nil {
				err = errors.New("rule did not run")
			}
			outcomes[i].result = exceptionResult(cfg.Rules[i], err)
		}
		failures = append(failures, outcomes[i].reporterFailures...)
	}

	output, err := v.buildOutput(cfg, outcomes, failures, time.Since(start))
	if err != nil {
		return nil, err
	}

	// Output is final once built; late reporter failures are only logged.
	v.collectFailures(report.Broadcast(ctx, cfg, lint.EventValidationComplete, output))

	v.metrics.Timer(metrics.MetricRunDuration).Observe(output.Duration)
	v.log.Info("validation completed: %d enabled, %d disabled, %d passed, %d failed, exit code %s in %v",
		output.NumRulesEnabled, output.NumRulesDisabled, output.NumRulesPassed, output.NumRulesFailed,
		output.ExitCode, output.Duration)

	return output, nil
}

func (v *DefaultValidator) runRule(ctx context.Context, cfg *lint.PreparedConfig, rule *lint.PreparedRule, ff FileFinder) ruleOutcome {
	if !rule.Enabled {
		v.metrics.Counter(metrics.MetricRulesSkipped).Inc()
		return ruleOutcome{
			result: lint.ValidationResult{PreparedRuleName: rule.PreparedRuleName, Status: lint.StatusSkipped},
			done:   true,
		}
	}

	failures := v.collectFailures(report.Broadcast(ctx, cfg, lint.EventRuleStart, rule))

	timer := v.metrics.Timer(metrics.MetricRuleDuration).Start()
	failure, err := callValidate(ctx, rule, NewContext(rule, ff))
	timer.Stop()

	var result lint.ValidationResult
	switch {
	case err != nil:
		v.metrics.Counter(metrics.MetricRulesExcepted).Inc()
		v.log.WithField("rule", rule.PreparedRuleName).Warn("rule threw an exception: %v", err)
		result = exceptionResult(rule, err)
	case failure != nil:
		v.metrics.Counter(metrics.MetricRulesFailed).Inc()
		result = lint.ValidationResult{
			PreparedRuleName: rule.PreparedRuleName,
			Status:           lint.StatusFailed,
			Error: &lint.ValidationError{
				PreparedRuleName: rule.PreparedRuleName,
				ErrorLevel:       rule.ErrorLevel,
				ErrorName:        failure.ErrorName,
				ErrorData:        failure.ErrorData,
				Message:          rule.MessageFor(failure.ErrorName, failure.ErrorData),
			},
		}
	default:
		v.metrics.Counter(metrics.MetricRulesPassed).Inc()
		result = lint.ValidationResult{PreparedRuleName: rule.PreparedRuleName, Status: lint.StatusPassed}
	}

	payload := report.RuleResultPayload{Rule: rule, Result: result}
	failures = append(failures, v.collectFailures(report.Broadcast(ctx, cfg, lint.EventRuleResult, payload))...)

	return ruleOutcome{result: result, reporterFailures: failures, done: true}
}

// callValidate runs the rule's check, turning a panic into an error.
func callValidate(ctx context.Context, rule *lint.PreparedRule, vc lint.ValidationContext) (failure *lint.Failure, err error) {
	if rule.Validate == nil {
		return nil, &lint.InternalError{Op: "run " + rule.PreparedRuleName, Message: "rule has no validation function"}
	}
	var catcher panics.Catcher
	catcher.Try(func() {
		failure, err = rule.Validate(ctx, rule.Options, vc)
	})
	if rec := catcher.Recovered(); rec != nil {
		return nil, fmt.Errorf("%v", rec.Value)
	}
	return failure, err
}

func exceptionResult(rule *lint.PreparedRule, err error) lint.ValidationResult {
	return lint.ValidationResult{
		PreparedRuleName: rule.PreparedRuleName,
		Status:           lint.StatusException,
		Error: &lint.ValidationError{
			PreparedRuleName: rule.PreparedRuleName,
			ErrorLevel:       lint.ErrorLevelException,
			Message:          err.Error(),
		},
	}
}

func (v *DefaultValidator) collectFailures(results []report.HookResult) []lint.ReporterFailure {
	failures := report.Failures(results)
	for _, f := range failures {
		v.metrics.Counter(metrics.MetricReporterFailures).Inc()
		v.log.WithField("reporter", f.Reporter).Warn("%s hook failed: %s", f.Event, f.Error)
	}
	return failures
}

func (v *DefaultValidator) buildOutput(cfg *lint.PreparedConfig, outcomes []ruleOutcome, failures []lint.ReporterFailure, d time.Duration) (*lint.Output, error) {
	if len(outcomes) != len(cfg.Rules) {
		return nil, &lint.InternalError{Op: "build output", Message: "results do not match the prepared rules"}
	}

	out := &lint.Output{
		Rules:            cfg.Rules,
		AllResults:       make([]lint.ValidationResult, 0, len(outcomes)),
		ErrorResults:     []lint.ValidationError{},
		ReporterFailures: failures,
		Duration:         d,
	}
	for _, o := range outcomes {
		r := o.result
		out.AllResults = append(out.AllResults, r)
		switch r.Status {
		case lint.StatusSkipped:
			out.NumRulesDisabled++
			continue
		case lint.StatusPassed:
			out.NumRulesPassed++
		default:
			out.NumRulesFailed++
			out.ErrorResults = append(out.ErrorResults, *r.Error)
		}
		out.NumRulesEnabled++
	}

	out.ErrorLevelCounts = lint.CountErrorTypes(out.ErrorResults)
	out.HighestErrorLevel = lint.GetHighestErrorLevel(out.ErrorLevelCounts)
	out.ExitCode = exitCodeFor(out.HighestErrorLevel, cfg.FailOnErrorLevel)
	return out, nil
}

func exitCodeFor(highest, failOn lint.ErrorLevel) lint.ExitCode {
	if failOn == "" {
		failOn = lint.DefaultErrorLevel
	}
	if highest == "" || lint.IsLessSevereThan(highest, failOn) {
		return lint.ExitSuccess
	}
	return lint.ExitFailureValidation
}

type brokenFinder struct{ err error }

func (b brokenFinder) FindFileUp(string) ([]string, error) { return nil, b.err }

func (b brokenFinder) ReadFile(string) ([]byte, error) { return nil, b.err }

func osFinder() FileFinder {
	f, err := finder.NewOS("")
	if err != nil {
		return brokenFinder{err: err}
	}
	return f
}
