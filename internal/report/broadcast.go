// Package report delivers run events to reporters and provides the built-in
// reporter implementations.
package report

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/packagelint/packagelint/internal/lint"
)

// HookResult is the outcome of one reporter's hook for one event.
type HookResult struct {
	Reporter string
	Event    lint.Event
	Err      error
}

// RuleResultPayload is the payload of lint.EventRuleResult.
type RuleResultPayload struct {
	Rule   *lint.PreparedRule
	Result lint.ValidationResult
}

// BroadcastUsingReporters calls the hook for event on every reporter. Calls run
// concurrently and are all awaited; a failing or panicking reporter does not
// stop delivery to the others. Results are in reporter order.
//
// The payload must match the event: *lint.PreparedConfig, *lint.PreparedRule,
// RuleResultPayload or *lint.Output.
func BroadcastUsingReporters(ctx context.Context, reporters []lint.NamedReporter, event lint.Event, payload any) []HookResult {
	results := make([]HookResult, len(reporters))
	var wg conc.WaitGroup
	for i, nr := range reporters {
		i, nr := i, nr
		wg.Go(func() {
			results[i] = HookResult{
				Reporter: nr.Name,
				Event:    event,
				Err:      callHook(ctx, nr.Reporter, event, payload),
			}
		})
	}
	wg.Wait()
	return results
}

// Broadcast sends event to the reporters of a prepared config.
func Broadcast(ctx context.Context, cfg *lint.PreparedConfig, event lint.Event, payload any) []HookResult {
	if cfg == nil {
		return nil
	}
	return BroadcastUsingReporters(ctx, cfg.Reporters, event, payload)
}

func callHook(ctx context.Context, r lint.Reporter, event lint.Event, payload any) (err error) {
	if r == nil {
		return fmt.Errorf("reporter is nil")
	}
	var catcher panics.Catcher
	catcher.Try(func() {
		err = dispatch(ctx, r, event, payload)
	})
	if rec := catcher.Recovered(); rec != nil {
		return fmt.Errorf("%s panicked: %v", event, rec.Value)
	}
	return err
}

func dispatch(ctx context.Context, r lint.Reporter, event lint.Event, payload any) error {
	switch event {
	case lint.EventValidationStart:
		cfg, ok := payload.(*lint.PreparedConfig)
		if !ok {
			return payloadError(event, payload)
		}
		return r.OnValidationStart(ctx, cfg)
	case lint.EventRuleStart:
		rule, ok := payload.(*lint.PreparedRule)
		if !ok {
			return payloadError(event, payload)
		}
		return r.OnRuleStart(ctx, rule)
	case lint.EventRuleResult:
		p, ok := payload.(RuleResultPayload)
		if !ok {
			return payloadError(event, payload)
		}
		return r.OnRuleResult(ctx, p.Rule, p.Result)
	case lint.EventValidationComplete:
		out, ok := payload.(*lint.Output)
		if !ok {
			return payloadError(event, payload)
		}
		return r.OnValidationComplete(ctx, out)
	default:
		return fmt.Errorf("unknown reporter event %q", event)
	}
}

func payloadError(event lint.Event, payload any) error {
	return &lint.InternalError{Op: "broadcast " + string(event), Message: fmt.Sprintf("unexpected payload %T", payload)}
}

// Failures converts the failed hook calls in results to reporter failures.
func Failures(results []HookResult) []lint.ReporterFailure {
	var out []lint.ReporterFailure
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		out = append(out, lint.ReporterFailure{
			Reporter: r.Reporter,
			Event:    string(r.Event),
			Error:    r.Err.Error(),
		})
	}
	return out
}
