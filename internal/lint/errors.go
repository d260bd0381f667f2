package lint

import (
	"errors"
	"fmt"
)

// ErrorCode classifies configuration-time and internal errors.
// Codes are strings so they read well in logs and JSON.
type ErrorCode string

const (
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"
	CodeInvalidName   ErrorCode = "INVALID_NAME"
	CodeImportFailed  ErrorCode = "IMPORT_FAILED"
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// ErrNoConfig means no configuration file could be found to run.
var ErrNoConfig = errors.New("no packagelint configuration found")

// ConfigError reports a structural problem in the user configuration.
// Preparation stops at the first one.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return "invalid config: " + e.Message + ": " + e.Err.Error()
	}
	return "invalid config: " + e.Message
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Code returns CodeInvalidConfig.
func (e *ConfigError) Code() ErrorCode { return CodeInvalidConfig }

// InvalidNameError reports a name that is not of the form "<module>:<entity>".
type InvalidNameError struct {
	Kind string // "rule" or "reporter"
	Name string
}

func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("%s %q is not a valid %s name", capitalize(e.Kind), e.Name, e.Kind)
}

// Code returns CodeInvalidName.
func (e *InvalidNameError) Code() ErrorCode { return CodeInvalidName }

// ImportError reports that a module could not supply a named entity.
type ImportError struct {
	Module  string
	Message string
	Err     error
}

func (e *ImportError) Error() string {
	msg := fmt.Sprintf("module %q %s", e.Module, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ImportError) Unwrap() error { return e.Err }

// Code returns CodeImportFailed.
func (e *ImportError) Code() ErrorCode { return CodeImportFailed }

// InternalError is a programmer error: an operation ran without the state it needs.
type InternalError struct {
	Op      string
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("packagelint internal error: cannot %s: %s", e.Op, e.Message)
}

// Code returns CodeInternal.
func (e *InternalError) Code() ErrorCode { return CodeInternal }

// ErrorCodeOf returns the code of the first coded error in err's chain, or "".
func ErrorCodeOf(err error) ErrorCode {
	var coded interface{ Code() ErrorCode }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}

// ExitCodeFor maps an error returned by preparation to a process exit code.
func ExitCodeFor(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, ErrNoConfig) {
		return ExitFailureNoConfig
	}
	switch ErrorCodeOf(err) {
	case CodeInvalidConfig, CodeInvalidName, CodeImportFailed:
		return ExitFailureInvalidConfig
	default:
		return ExitFailureUnknown
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
