package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packagelint/packagelint/internal/finder"
	"github.com/packagelint/packagelint/internal/lint"
	"github.com/packagelint/packagelint/internal/logger"
	"github.com/packagelint/packagelint/internal/metrics"
	"github.com/packagelint/packagelint/internal/runner"
	"github.com/packagelint/packagelint/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the configured rules",
	Long: `Run every rule enabled in .packagelint.yaml and notify its reporters.

The exit code is 0 on success, 1 when a rule failed at or above
failOnErrorLevel, 2 for an invalid configuration and 3 when no
configuration file was found.

Examples:
  # Validate the current package
  packagelint validate

  # Fail on warnings too, running at most 4 rules at once
  packagelint validate --fail-on warning --max-concurrency 4

  # Print run metrics in Prometheus text format
  packagelint validate --metrics`,

	Args: cobra.NoArgs,
	RunE: runValidate,
}

// Flags for validate command
var (
	validateRoot           string
	validateMaxConcurrency int
	validateFailOn         string
	validateMetrics        bool
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateRoot, "root", "", "directory rules search from (default: current directory)")
	validateCmd.Flags().IntVar(&validateMaxConcurrency, "max-concurrency", 0, "maximum rules running at once (0 = unlimited)")
	validateCmd.Flags().StringVar(&validateFailOn, "fail-on", "", "least severe error level that fails the run")
	validateCmd.Flags().BoolVar(&validateMetrics, "metrics", false, "print run metrics when done")
}

func runValidate(cmd *cobra.Command, args []string) error {
	log := logger.Default().WithPrefix("CLI")

	loader := newLoader()
	v := loader.GetViper()
	_ = v.BindPFlag("root_dir", cmd.Flags().Lookup("root"))
	_ = v.BindPFlag("max_concurrency", cmd.Flags().Lookup("max-concurrency"))
	_ = v.BindPFlag("failOnErrorLevel", cmd.Flags().Lookup("fail-on"))

	cfg, err := loader.Load()
	if err != nil {
		log.Error("%v", err)
		return &ExitError{Code: lint.ExitCodeFor(err), Err: err}
	}

	if !applyLogFlags() {
		if level, err := logger.ParseLevel(cfg.Settings.LogLevel); err == nil {
			logger.SetLevel(level)
		}
	}
	log.Debug("using config file %s", cfg.File)

	f, err := finder.NewOS(cfg.Settings.RootDir)
	if err != nil {
		log.Error("resolving root directory: %v", err)
		return &ExitError{Code: lint.ExitFailureUnknown, Err: err}
	}

	out, err := runner.Run(cmd.Context(), cfg.User, runner.WithValidatorOptions(
		validate.WithFinder(f),
		validate.WithMaxConcurrency(cfg.Settings.MaxConcurrency),
	))
	code := runner.ExitCode(out, err)
	if err != nil {
		return &ExitError{Code: code, Err: err}
	}

	for _, e := range out.ErrorResults {
		log.Warn("[%s] %s: %s", e.ErrorLevel, e.PreparedRuleName, e.Message)
	}
	log.Info("%d passed, %d failed, %d disabled: %s", out.NumRulesPassed, out.NumRulesFailed, out.NumRulesDisabled, code)

	if validateMetrics {
		fmt.Fprint(cmd.OutOrStdout(), metrics.Global().ExportPrometheus())
	}

	if code != lint.ExitSuccess {
		return &ExitError{Code: code}
	}
	return nil
}
