package lint

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareIsStrictTotalOrder(t *testing.T) {
	levels := ErrorLevelsInSeverityOrder
	for i, a := range levels {
		for j, b := range levels {
			switch {
			case i == j:
				assert.Zero(t, Compare(a, b), "%s vs %s", a, b)
				assert.False(t, IsLessSevereThan(a, b))
				assert.False(t, IsMoreSevereThan(a, b))
			case i < j:
				// earlier in the list is more severe
				assert.Positive(t, Compare(a, b), "%s vs %s", a, b)
				assert.True(t, IsMoreSevereThan(a, b))
				assert.Equal(t, IsLessSevereThan(b, a), IsMoreSevereThan(a, b))
			default:
				assert.Negative(t, Compare(a, b), "%s vs %s", a, b)
				assert.True(t, IsLessSevereThan(a, b))
				assert.Equal(t, IsLessSevereThan(a, b), IsMoreSevereThan(b, a))
			}
		}
	}
}

func TestNoFailureIsLessSevereThanEverything(t *testing.T) {
	for _, l := range ErrorLevelsInSeverityOrder {
		assert.True(t, IsLessSevereThan("", l), l)
	}
}

func TestIsValidErrorLevel(t *testing.T) {
	tests := []struct {
		level ErrorLevel
		want  bool
	}{
		{ErrorLevelException, true},
		{ErrorLevelError, true},
		{ErrorLevelWarning, true},
		{ErrorLevelSuggestion, true},
		{ErrorLevelIgnore, true},
		{"info", false},
		{"ERROR", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidErrorLevel(tt.level), "level %q", tt.level)
	}
}

func TestParseErrorLevel(t *testing.T) {
	l, err := ParseErrorLevel("warning")
	require.NoError(t, err)
	assert.Equal(t, ErrorLevelWarning, l)

	_, err = ParseErrorLevel("critical")
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "critical")
}

func TestGetHighestErrorLevel(t *testing.T) {
	tests := []struct {
		name   string
		counts ErrorLevelCounts
		want   ErrorLevel
	}{
		{"nil", nil, ""},
		{"empty", ErrorLevelCounts{}, ""},
		{"all zero", ErrorLevelCounts{ErrorLevelError: 0, ErrorLevelWarning: 0}, ""},
		{"error and warning", ErrorLevelCounts{ErrorLevelError: 1, ErrorLevelWarning: 3}, ErrorLevelError},
		{"ignore only", ErrorLevelCounts{ErrorLevelIgnore: 2}, ErrorLevelIgnore},
		{"exception wins", ErrorLevelCounts{ErrorLevelSuggestion: 9, ErrorLevelException: 1}, ErrorLevelException},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHighestErrorLevel(tt.counts))
		})
	}
}

func TestCountErrorTypes(t *testing.T) {
	counts := CountErrorTypes([]ValidationError{
		{PreparedRuleName: "a", ErrorLevel: ErrorLevelWarning},
		{PreparedRuleName: "b", ErrorLevel: ErrorLevelWarning},
		{PreparedRuleName: "c", ErrorLevel: ErrorLevelException},
	})

	assert.Len(t, counts, len(ErrorLevelsInSeverityOrder))
	assert.Equal(t, 2, counts[ErrorLevelWarning])
	assert.Equal(t, 1, counts[ErrorLevelException])
	assert.Equal(t, 0, counts[ErrorLevelError])
	assert.Equal(t, ErrorLevelException, GetHighestErrorLevel(counts))
}

func TestExitCodes(t *testing.T) {
	assert.True(t, IsSuccessExitCode(ExitSuccess))
	assert.False(t, IsFailureExitCode(ExitSuccess))

	for _, c := range AllExitCodes[1:] {
		assert.True(t, IsFailureExitCode(c), c.String())
		assert.False(t, IsSuccessExitCode(c), c.String())
	}

	assert.False(t, IsValidExitCode(42))
	assert.Panics(t, func() { IsSuccessExitCode(42) })
	assert.Panics(t, func() { IsFailureExitCode(-1) })
}

func TestExitCodeFor(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCodeFor(nil))
	assert.Equal(t, ExitFailureInvalidConfig, ExitCodeFor(&ConfigError{Message: "x"}))
	assert.Equal(t, ExitFailureInvalidConfig, ExitCodeFor(&ImportError{Module: "m", Message: "y"}))
	assert.Equal(t, ExitFailureUnknown, ExitCodeFor(&InternalError{Op: "x", Message: "y"}))
	assert.Equal(t, ExitFailureNoConfig, ExitCodeFor(fmt.Errorf("loading: %w", ErrNoConfig)))
	assert.Equal(t, ExitFailureInvalidConfig, ExitCodeFor(fmt.Errorf("wrapped: %w", &InvalidNameError{Kind: "rule", Name: "x"})))
}
