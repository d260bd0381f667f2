package metrics

import "sync"

var (
	globalCollector *Collector
	once            sync.Once
)

// Global returns the global metrics collector.
func Global() *Collector {
	once.Do(func() {
		globalCollector = NewCollector()
	})
	return globalCollector
}

// IncCounter increments a global counter by 1.
func IncCounter(name string) {
	Global().Counter(name).Inc()
}

// StartTimer starts a global timer.
func StartTimer(name string) *TimerContext {
	return Global().Timer(name).Start()
}

// Metric names for packagelint
const (
	MetricRunsTotal        = "packagelint_runs_total"
	MetricRunDuration      = "packagelint_run_duration"
	MetricRulesPassed      = "packagelint_rules_passed_total"
	MetricRulesFailed      = "packagelint_rules_failed_total"
	MetricRulesExcepted    = "packagelint_rules_excepted_total"
	MetricRulesSkipped     = "packagelint_rules_skipped_total"
	MetricRuleDuration     = "packagelint_rule_duration"
	MetricReporterFailures = "packagelint_reporter_failures_total"
)
