package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/packagelint/packagelint/internal/core"
	"github.com/packagelint/packagelint/internal/lint"
	"github.com/packagelint/packagelint/internal/resolve"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [module]",
	Short: "List the rules and rulesets a module provides",
	Long: `List every rule and ruleset exported by a module (default: packagelint).

Examples:
  packagelint rules
  packagelint rules --json`,

	Args: cobra.MaximumNArgs(1),
	RunE: runRules,
}

var rulesJSON bool

func init() {
	rootCmd.AddCommand(rulesCmd)

	rulesCmd.Flags().BoolVar(&rulesJSON, "json", false, "output as JSON")
}

// RuleInfo describes one exported rule or ruleset.
type RuleInfo struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Abstract    bool   `json:"abstract,omitempty"`
	Description string `json:"description"`
}

func runRules(cmd *cobra.Command, args []string) error {
	module := core.Module
	if len(args) == 1 {
		module = args[0]
	}

	infos, err := listRules(cmd, module)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if rulesJSON {
		data, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal rules: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, info := range infos {
		kind := info.Kind
		if info.Abstract {
			kind += " (abstract)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, kind, info.Description)
	}
	return w.Flush()
}

func listRules(cmd *cobra.Command, module string) ([]RuleInfo, error) {
	r := resolve.NewResolver(core.NewRegistry())
	names, err := r.ListRules(cmd.Context(), module)
	if err != nil {
		return nil, err
	}

	infos := make([]RuleInfo, 0, len(names))
	for _, name := range names {
		entity, err := r.ResolveRuleOrRuleset(cmd.Context(), name)
		if err != nil {
			return nil, err
		}
		switch def := entity.(type) {
		case *lint.RuleDefinition:
			infos = append(infos, RuleInfo{Name: name, Kind: "rule", Abstract: def.IsAbstract, Description: def.Docs.Description})
		case *lint.RulesetDefinition:
			infos = append(infos, RuleInfo{Name: name, Kind: "ruleset", Description: def.Docs.Description})
		}
	}
	return infos, nil
}
