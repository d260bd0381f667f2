package lint

import "fmt"

// ExitCode is the process-level outcome of a run.
type ExitCode int

const (
	ExitSuccess              ExitCode = 0
	ExitFailureValidation    ExitCode = 1
	ExitFailureInvalidConfig ExitCode = 2
	ExitFailureNoConfig      ExitCode = 3
	ExitFailureUnknown       ExitCode = 9
)

// AllExitCodes lists the closed set of exit codes.
var AllExitCodes = []ExitCode{
	ExitSuccess,
	ExitFailureValidation,
	ExitFailureInvalidConfig,
	ExitFailureNoConfig,
	ExitFailureUnknown,
}

// String returns the symbolic name of the code.
func (c ExitCode) String() string {
	switch c {
	case ExitSuccess:
		return "SUCCESS"
	case ExitFailureValidation:
		return "FAILURE_VALIDATION"
	case ExitFailureInvalidConfig:
		return "FAILURE_INVALID_CONFIG"
	case ExitFailureNoConfig:
		return "FAILURE_NO_CONFIG"
	case ExitFailureUnknown:
		return "FAILURE_UNKNOWN"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(c))
	}
}

// IsValidExitCode reports whether c is one of AllExitCodes.
func IsValidExitCode(c ExitCode) bool {
	for _, known := range AllExitCodes {
		if c == known {
			return true
		}
	}
	return false
}

// IsSuccessExitCode reports whether c means success. It panics on a code outside the closed set.
func IsSuccessExitCode(c ExitCode) bool {
	mustBeValidExitCode(c)
	return c == ExitSuccess
}

// IsFailureExitCode reports whether c means failure. It panics on a code outside the closed set.
func IsFailureExitCode(c ExitCode) bool {
	mustBeValidExitCode(c)
	return c != ExitSuccess
}

func mustBeValidExitCode(c ExitCode) {
	if !IsValidExitCode(c) {
		panic(&InternalError{Op: "classify exit code", Message: fmt.Sprintf("unknown exit code %d", int(c))})
	}
}
