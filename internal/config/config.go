// Package config loads packagelint's configuration.
//
// Configuration is loaded from multiple sources in order of precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables (PACKAGELINT_*)
// 3. Configuration file (.packagelint.yaml)
// 4. Default values (lowest priority)
//
// The rules and reporters sections are only read from the file.
package config

import (
	"fmt"

	"github.com/packagelint/packagelint/internal/lint"
	"github.com/packagelint/packagelint/internal/logger"
)

// Config is everything needed to run packagelint once.
type Config struct {
	Settings Settings
	// User holds the rules and reporters sections, with failOnErrorLevel
	// taken from Settings.
	User *lint.UserConfig
	// File is the configuration file that was read.
	File string
}

// Settings are the process-level options.
type Settings struct {
	// FailOnErrorLevel is the least severe level that fails a run.
	FailOnErrorLevel string `mapstructure:"failOnErrorLevel" yaml:"failOnErrorLevel" json:"failOnErrorLevel"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`

	// RootDir is where rules start looking for files (default: current directory).
	RootDir string `mapstructure:"root_dir" yaml:"root_dir" json:"root_dir"`

	// MaxConcurrency limits how many rules run at once (0 = unlimited).
	MaxConcurrency int `mapstructure:"max_concurrency" yaml:"max_concurrency" json:"max_concurrency"`
}

// Validate validates the settings and returns an error if invalid.
func (s *Settings) Validate() error {
	if !lint.IsValidErrorLevel(lint.ErrorLevel(s.FailOnErrorLevel)) {
		return &ValidationError{Field: "failOnErrorLevel", Message: fmt.Sprintf("%q is not a valid error level", s.FailOnErrorLevel)}
	}

	if _, err := logger.ParseLevel(s.LogLevel); err != nil {
		return &ValidationError{Field: "log_level", Message: "invalid level, must be one of: debug, info, warn, error"}
	}

	if s.MaxConcurrency < 0 {
		return &ValidationError{Field: "max_concurrency", Message: "must not be negative"}
	}

	return nil
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "config validation error: " + e.Field + ": " + e.Message
}

// Code makes validation errors count as invalid configuration.
func (e *ValidationError) Code() lint.ErrorCode {
	return lint.CodeInvalidConfig
}
