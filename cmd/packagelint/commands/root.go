// Package commands contains all CLI commands for packagelint.
//
// Each command is defined in its own file and registered in init().
package commands

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/packagelint/packagelint/internal/config"
	"github.com/packagelint/packagelint/internal/lint"
	"github.com/packagelint/packagelint/internal/logger"
)

var (
	// cfgFile holds the path to the config file (from --config flag)
	cfgFile string

	// verbose enables debug logging
	verbose bool

	// quiet suppresses all logging except errors
	quiet bool
)

var rootCmd = &cobra.Command{
	Use:   "packagelint",
	Short: "Validate a package against configurable rules",
	Long: `Packagelint checks a package against the rules, rulesets and reporters
named in .packagelint.yaml.

Examples:
  # Validate the package in the current directory
  packagelint validate

  # List the built-in rules and rulesets
  packagelint rules

  # Show the effective configuration
  packagelint config show`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initialize()
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	var exitErr *ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is .packagelint.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log errors")
}

// initialize loads .env and sets the log level from the flags.
func initialize() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	applyLogFlags()
	return nil
}

// applyLogFlags lets --verbose and --quiet win over the configured level.
func applyLogFlags() bool {
	switch {
	case quiet:
		logger.SetLevel(logger.LevelError)
	case verbose:
		logger.SetLevel(logger.LevelDebug)
	default:
		return false
	}
	return true
}

// newLoader returns a config loader honouring --config.
func newLoader() *config.Loader {
	loader := config.NewLoader()
	if cfgFile != "" {
		loader.SetConfigFile(cfgFile)
	}
	return loader
}

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code lint.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("exit %s: %v", e.Code, e.Err)
	}
	return "exit " + e.Code.String()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps the error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return int(lint.ExitSuccess)
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.Code)
	}
	return int(lint.ExitCodeFor(err))
}
