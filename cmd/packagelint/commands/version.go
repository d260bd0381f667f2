package commands

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"slices"

	"github.com/spf13/cobra"

	"github.com/packagelint/packagelint/internal/core"
)

// Set at build time via ldflags. Left at their defaults, they are filled from
// the module build info when the binary was built with go install.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print the packagelint version, the commit it was built from and
what the built-in module provides.

Examples:
  packagelint version
  packagelint version --short
  packagelint version --json`,

	Args: cobra.NoArgs,
	RunE: runVersion,
}

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVarP(&versionShort, "short", "s", false, "print only version number")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output as JSON")
}

// VersionInfo describes the binary and its built-in module.
type VersionInfo struct {
	Version   string   `json:"version"`
	Commit    string   `json:"commit"`
	BuildDate string   `json:"build_date"`
	GoVersion string   `json:"go_version"`
	Platform  string   `json:"platform"`
	Module    string   `json:"module"`
	Rules     int      `json:"rules"`
	Reporters []string `json:"reporters"`
}

func runVersion(cmd *cobra.Command, _ []string) error {
	info := GetVersionInfo()
	out := cmd.OutOrStdout()

	switch {
	case versionShort:
		fmt.Fprintln(out, info.Version)
	case versionJSON:
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info: %w", err)
		}
		fmt.Fprintln(out, string(data))
	default:
		fmt.Fprintf(out, "packagelint version %s\n", info.Version)
		fmt.Fprintf(out, "  Commit:     %s\n", info.Commit)
		fmt.Fprintf(out, "  Built:      %s\n", info.BuildDate)
		fmt.Fprintf(out, "  Go version: %s (%s)\n", info.GoVersion, info.Platform)
		fmt.Fprintf(out, "  Module:     %s (%d rules, reporters %v)\n", info.Module, info.Rules, info.Reporters)
	}
	return nil
}

// GetVersionInfo returns the version of the running binary.
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Module:    core.Module,
		Rules:     len(core.Rules()),
	}
	for name := range core.Reporters() {
		info.Reporters = append(info.Reporters, name)
	}
	slices.Sort(info.Reporters)

	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}
	return info
}

// fillFromBuildInfo replaces default version fields with what the go tool
// recorded in the binary.
func fillFromBuildInfo(info *VersionInfo, bi *debug.BuildInfo) {
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		}
	}
}
