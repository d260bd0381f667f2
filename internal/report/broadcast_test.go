package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packagelint/packagelint/internal/lint"
)

type startHook struct {
	lint.BaseReporter
	err   error
	panic bool
	delay time.Duration
	calls *atomic.Int32
}

func (s *startHook) OnValidationStart(context.Context, *lint.PreparedConfig) error {
	time.Sleep(s.delay)
	if s.calls != nil {
		s.calls.Add(1)
	}
	if s.panic {
		panic("boom")
	}
	return s.err
}

func TestBroadcastUsingReportersKeepsOrderAndIsolatesFailures(t *testing.T) {
	var calls atomic.Int32
	reporters := []lint.NamedReporter{
		{Name: "r:slow", Reporter: &startHook{delay: 20 * time.Millisecond, calls: &calls}},
		{Name: "r:error", Reporter: &startHook{err: errors.New("nope"), calls: &calls}},
		{Name: "r:panic", Reporter: &startHook{panic: true, calls: &calls}},
		{Name: "r:nil"},
		{Name: "r:ok", Reporter: &startHook{calls: &calls}},
	}

	results := BroadcastUsingReporters(context.Background(), reporters, lint.EventValidationStart, &lint.PreparedConfig{})
	require.Len(t, results, 5)
	assert.Equal(t, int32(4), calls.Load())

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Reporter
		assert.Equal(t, lint.EventValidationStart, r.Event)
	}
	assert.Equal(t, []string{"r:slow", "r:error", "r:panic", "r:nil", "r:ok"}, names)

	assert.NoError(t, results[0].Err)
	assert.EqualError(t, results[1].Err, "nope")
	assert.Contains(t, results[2].Err.Error(), "panicked: boom")
	assert.Error(t, results[3].Err)
	assert.NoError(t, results[4].Err)

	failures := Failures(results)
	require.Len(t, failures, 3)
	assert.Equal(t, "r:error", failures[0].Reporter)
	assert.Equal(t, "onValidationStart", failures[0].Event)
}

func TestBroadcastRejectsMismatchedPayload(t *testing.T) {
	results := BroadcastUsingReporters(context.Background(),
		[]lint.NamedReporter{{Name: "r:x", Reporter: lint.BaseReporter{}}},
		lint.EventRuleStart, "not a rule")
	var internal *lint.InternalError
	require.ErrorAs(t, results[0].Err, &internal)
}

func TestBroadcastWithoutConfig(t *testing.T) {
	assert.Nil(t, Broadcast(context.Background(), nil, lint.EventValidationStart, nil))
	assert.Empty(t, Broadcast(context.Background(), &lint.PreparedConfig{}, lint.EventValidationStart, &lint.PreparedConfig{}))
}

func sampleOutput() *lint.Output {
	errs := []lint.ValidationError{{
		PreparedRuleName: "packagelint:nvmrc",
		ErrorLevel:       lint.ErrorLevelError,
		ErrorName:        "fileNotFound",
		Message:          ".nvmrc not found",
	}}
	return &lint.Output{
		NumRulesEnabled:   2,
		NumRulesPassed:    1,
		NumRulesFailed:    1,
		ExitCode:          lint.ExitFailureValidation,
		HighestErrorLevel: lint.ErrorLevelError,
		ErrorLevelCounts:  lint.CountErrorTypes(errs),
		ErrorResults:      errs,
	}
}

func TestJSONReporter(t *testing.T) {
	rep, err := NewJSONReporter(lint.Options{"indent": false})
	require.NoError(t, err)
	jr := rep.(*JSONReporter)
	assert.False(t, jr.Indent)

	var buf bytes.Buffer
	jr.Writer = &buf
	require.NoError(t, jr.OnValidationComplete(context.Background(), sampleOutput()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(lint.ExitFailureValidation), decoded["exitCode"])
	assert.Equal(t, "error", decoded["highestErrorLevel"])
}

func TestJSONReporterWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "result.json")
	rep, err := NewJSONReporter(lint.Options{"outputFile": path})
	require.NoError(t, err)
	require.NoError(t, rep.OnValidationComplete(context.Background(), sampleOutput()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"numRulesEnabled\": 2")
}

func TestReporterOptionsAreChecked(t *testing.T) {
	_, err := NewJSONReporter(lint.Options{"outfile": "x.json"})
	var cfgErr *lint.ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, err = NewDebugReporter(lint.Options{"verbose": true})
	require.ErrorAs(t, err, &cfgErr)
}

func TestMarkdownReporter(t *testing.T) {
	rep, err := NewMarkdownReporter(nil)
	require.NoError(t, err)
	mr := rep.(*MarkdownReporter)

	var buf bytes.Buffer
	mr.Writer = &buf
	require.NoError(t, mr.OnValidationComplete(context.Background(), sampleOutput()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Packagelint Report"))
	assert.Contains(t, out, "- **Exit Code:** FAILURE_VALIDATION")
	assert.Contains(t, out, "### [ERROR] packagelint:nvmrc")
	assert.Contains(t, out, "**Error:** `fileNotFound`")

	buf.Reset()
	require.NoError(t, mr.Write(&lint.Output{}, &buf))
	assert.Contains(t, buf.String(), "All rules passed.")
}

func TestDebugReporterRecordsEvents(t *testing.T) {
	rep, err := NewDebugReporter(nil)
	require.NoError(t, err)
	dr := rep.(*DebugReporter)
	ctx := context.Background()
	rule := &lint.PreparedRule{PreparedRuleName: "packagelint:always-pass"}

	require.NoError(t, dr.OnValidationStart(ctx, &lint.PreparedConfig{Rules: []*lint.PreparedRule{rule}}))
	require.NoError(t, dr.OnRuleStart(ctx, rule))
	require.NoError(t, dr.OnRuleResult(ctx, rule, lint.ValidationResult{PreparedRuleName: rule.PreparedRuleName, Status: lint.StatusPassed}))
	require.NoError(t, dr.OnValidationComplete(ctx, &lint.Output{}))

	assert.Equal(t, []RecordedEvent{
		{Event: lint.EventValidationStart},
		{Event: lint.EventRuleStart, Rule: "packagelint:always-pass"},
		{Event: lint.EventRuleResult, Rule: "packagelint:always-pass", Status: lint.StatusPassed},
		{Event: lint.EventValidationComplete},
	}, dr.Events())
}
