package report

import (
	"context"
	"sync"

	"github.com/packagelint/packagelint/internal/lint"
	"github.com/packagelint/packagelint/internal/logger"
)

// RecordedEvent is one hook call seen by a DebugReporter.
type RecordedEvent struct {
	Event lint.Event
	// Rule is empty for run-level events.
	Rule   string
	Status lint.Status
}

// DebugReporter logs every event and keeps a record of them.
type DebugReporter struct {
	log    *logger.Logger
	mu     sync.Mutex
	events []RecordedEvent
}

// NewDebugReporter builds a DebugReporter. It takes no options.
func NewDebugReporter(options lint.Options) (lint.Reporter, error) {
	if err := decodeOptions(options, &struct{}{}); err != nil {
		return nil, err
	}
	return &DebugReporter{log: logger.Default().WithPrefix("DEBUG")}, nil
}

func (r *DebugReporter) record(e RecordedEvent) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events in the order they were received.
func (r *DebugReporter) Events() []RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedEvent(nil), r.events...)
}

func (r *DebugReporter) OnValidationStart(_ context.Context, cfg *lint.PreparedConfig) error {
	r.record(RecordedEvent{Event: lint.EventValidationStart})
	r.log.Debug("%s: %d rules", lint.EventValidationStart, len(cfg.Rules))
	return nil
}

func (r *DebugReporter) OnRuleStart(_ context.Context, rule *lint.PreparedRule) error {
	r.record(RecordedEvent{Event: lint.EventRuleStart, Rule: rule.PreparedRuleName})
	r.log.Debug("%s: %s", lint.EventRuleStart, rule.PreparedRuleName)
	return nil
}

func (r *DebugReporter) OnRuleResult(_ context.Context, rule *lint.PreparedRule, result lint.ValidationResult) error {
	r.record(RecordedEvent{Event: lint.EventRuleResult, Rule: rule.PreparedRuleName, Status: result.Status})
	r.log.WithField("status", result.Status).Debug("%s: %s", lint.EventRuleResult, rule.PreparedRuleName)
	return nil
}

func (r *DebugReporter) OnValidationComplete(_ context.Context, output *lint.Output) error {
	r.record(RecordedEvent{Event: lint.EventValidationComplete})
	r.log.WithField("exitCode", output.ExitCode).Debug("%s: %d passed, %d failed",
		lint.EventValidationComplete, output.NumRulesPassed, output.NumRulesFailed)
	return nil
}
