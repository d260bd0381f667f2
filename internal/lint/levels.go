// Package lint holds the data model shared by every stage of a packagelint run:
// error levels, exit codes, rule and ruleset definitions, user entries, prepared
// rules and the final output.
package lint

import "fmt"

// ErrorLevel indicates how severe a rule failure is.
type ErrorLevel string

const (
	// ErrorLevelException is reserved for unexpected failures inside a rule implementation.
	ErrorLevelException  ErrorLevel = "exception"
	ErrorLevelError      ErrorLevel = "error"
	ErrorLevelWarning    ErrorLevel = "warning"
	ErrorLevelSuggestion ErrorLevel = "suggestion"
	// ErrorLevelIgnore never fails a run.
	ErrorLevelIgnore ErrorLevel = "ignore"
)

// DefaultErrorLevel is used when neither the user nor the rule definition sets a level.
const DefaultErrorLevel = ErrorLevelError

// ErrorLevelsInSeverityOrder lists every level from most to least severe.
var ErrorLevelsInSeverityOrder = []ErrorLevel{
	ErrorLevelException,
	ErrorLevelError,
	ErrorLevelWarning,
	ErrorLevelSuggestion,
	ErrorLevelIgnore,
}

var errorLevelRank = map[ErrorLevel]int{
	ErrorLevelException:  4,
	ErrorLevelError:      3,
	ErrorLevelWarning:    2,
	ErrorLevelSuggestion: 1,
	ErrorLevelIgnore:     0,
}

// ErrorLevelCounts maps each level to the number of failures reported at it.
type ErrorLevelCounts map[ErrorLevel]int

// String returns the level name.
func (l ErrorLevel) String() string {
	return string(l)
}

// IsValidErrorLevel reports whether l belongs to the closed set of levels.
func IsValidErrorLevel(l ErrorLevel) bool {
	_, ok := errorLevelRank[l]
	return ok
}

// ParseErrorLevel converts user input to an ErrorLevel.
func ParseErrorLevel(s string) (ErrorLevel, error) {
	l := ErrorLevel(s)
	if !IsValidErrorLevel(l) {
		return "", &ConfigError{Message: fmt.Sprintf("%q is not a valid error level", s)}
	}
	return l, nil
}

// Compare returns a negative number when a is less severe than b, zero when they
// are equal and a positive number when a is more severe. The empty level (no
// failure) ranks below ignore.
func Compare(a, b ErrorLevel) int {
	return rank(a) - rank(b)
}

func rank(l ErrorLevel) int {
	if r, ok := errorLevelRank[l]; ok {
		return r
	}
	return -1
}

// IsLessSevereThan reports whether a ranks strictly below b.
func IsLessSevereThan(a, b ErrorLevel) bool {
	return Compare(a, b) < 0
}

// IsMoreSevereThan reports whether a ranks strictly above b.
func IsMoreSevereThan(a, b ErrorLevel) bool {
	return Compare(a, b) > 0
}

// CountErrorTypes tallies failures per level. Every level is present in the result.
func CountErrorTypes(results []ValidationError) ErrorLevelCounts {
	counts := make(ErrorLevelCounts, len(ErrorLevelsInSeverityOrder))
	for _, l := range ErrorLevelsInSeverityOrder {
		counts[l] = 0
	}
	for _, r := range results {
		counts[r.ErrorLevel]++
	}
	return counts
}

// GetHighestErrorLevel returns the most severe level with a nonzero count, or
// the empty level when there is none.
func GetHighestErrorLevel(counts ErrorLevelCounts) ErrorLevel {
	for _, l := range ErrorLevelsInSeverityOrder {
		if counts[l] > 0 {
			return l
		}
	}
	return ""
}
