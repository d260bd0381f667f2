package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/packagelint/packagelint/internal/config"
	"github.com/packagelint/packagelint/internal/lint"
	"github.com/packagelint/packagelint/internal/logger"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View packagelint configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the current configuration, including values from
the config file, environment variables, and defaults.

Examples:
  # Show config in YAML format
  packagelint config show

  # Show config as JSON
  packagelint config show --json`,

	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowJSON bool

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output as JSON")
}

// configView is what config show prints.
type configView struct {
	Settings  config.Settings      `json:"settings" yaml:"settings"`
	Rules     []lint.Entry         `json:"rules" yaml:"rules"`
	Reporters lint.ReporterEntries `json:"reporters" yaml:"reporters"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	loader := newLoader()
	cfg, err := loader.Load()
	switch {
	case errors.Is(err, lint.ErrNoConfig):
		cfg = &config.Config{Settings: config.DefaultSettings(), User: lint.DefaultUserConfig()}
		if !quiet {
			fmt.Fprintln(out, "# No config file found, using defaults")
			fmt.Fprintln(out)
		}
	case err != nil:
		return fmt.Errorf("failed to load config: %w", err)
	default:
		if !quiet {
			fmt.Fprintf(out, "# Config file: %s\n\n", cfg.File)
		}
	}

	view := maskView(configView{
		Settings:  cfg.Settings,
		Rules:     cfg.User.Rules,
		Reporters: cfg.User.Reporters,
	})

	if configShowJSON {
		data, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return enc.Close()
}

// maskView hides secrets in rule and reporter options.
func maskView(v configView) configView {
	rules := make([]lint.Entry, len(v.Rules))
	for i, e := range v.Rules {
		e.Options = lint.Options(maskMap(e.Options))
		rules[i] = e
	}
	reporters := make(lint.ReporterEntries, len(v.Reporters))
	for i, r := range v.Reporters {
		r.Options = lint.Options(maskMap(r.Options))
		reporters[i] = r
	}
	v.Rules, v.Reporters = rules, reporters
	return v
}

func maskMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, val := range m {
		out[k] = maskValue(k, val)
	}
	return out
}

func maskValue(key string, val any) any {
	switch t := val.(type) {
	case string:
		if logger.IsSensitiveKey(key) {
			return "***"
		}
		return logger.MaskSecrets(t)
	case map[string]any:
		return maskMap(t)
	case lint.Options:
		return maskMap(t)
	default:
		return val
	}
}
