package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packagelint/packagelint/internal/lint"
)

const sampleConfig = `
failOnErrorLevel: warning
max_concurrency: 2
rules:
  - packagelint:recommended
  - ["packagelint:nvmrc", {version: "^20"}]
  - name: changelog
    extendRule: packagelint:file-exists
    options:
      fileName: CHANGELOG.md
reporters:
  packagelint:json:
    outputFile: report.json
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, configFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, "error", s.FailOnErrorLevel)
	assert.Equal(t, "info", s.LogLevel)
	assert.Zero(t, s.MaxConcurrency)
	assert.NoError(t, s.Validate())
}

func TestSettingsValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		field  string
	}{
		{"valid defaults", func(*Settings) {}, ""},
		{"bad fail level", func(s *Settings) { s.FailOnErrorLevel = "fatal" }, "failOnErrorLevel"},
		{"bad log level", func(s *Settings) { s.LogLevel = "loud" }, "log_level"},
		{"negative concurrency", func(s *Settings) { s.MaxConcurrency = -1 }, "max_concurrency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(&s)
			err := s.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, lint.ExitFailureInvalidConfig, lint.ExitCodeFor(err))
		})
	}
}

func TestLoadFromSearchPath(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, sampleConfig)

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, 2, cfg.Settings.MaxConcurrency)
	assert.Equal(t, lint.ErrorLevelWarning, cfg.User.FailOnErrorLevel)

	require.Len(t, cfg.User.Rules, 3)
	assert.Equal(t, "packagelint:recommended", cfg.User.Rules[0].Name)
	assert.Equal(t, lint.Options{"version": "^20"}, cfg.User.Rules[1].Options)
	assert.Equal(t, "CHANGELOG.md", cfg.User.Rules[2].Options["fileName"], "option key case is kept")

	require.Len(t, cfg.User.Reporters, 1)
	assert.Equal(t, "report.json", cfg.User.Reporters[0].Options["outputFile"])
}

func TestEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, sampleConfig)

	t.Setenv("PACKAGELINT_FAILONERRORLEVEL", "error")
	t.Setenv("PACKAGELINT_MAX_CONCURRENCY", "8")
	t.Setenv("PACKAGELINT_LOG_LEVEL", "debug")
	t.Setenv("PACKAGELINT_ROOT_DIR", "/srv/pkg")

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, lint.ErrorLevelError, cfg.User.FailOnErrorLevel)
	assert.Equal(t, 8, cfg.Settings.MaxConcurrency)
	assert.Equal(t, "debug", cfg.Settings.LogLevel)
	assert.Equal(t, "/srv/pkg", cfg.Settings.RootDir)
}

func TestLoadWithoutConfig(t *testing.T) {
	_, err := NewLoader(t.TempDir()).Load()
	require.True(t, errors.Is(err, lint.ErrNoConfig), "got %v", err)
	assert.Equal(t, lint.ExitFailureNoConfig, lint.ExitCodeFor(err))

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, lint.ErrNoConfig)
}

func TestLoadInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad fail level", "failOnErrorLevel: fatal\n"},
		{"malformed entry", "rules:\n  - [a, b, c]\n"},
		{"bad yaml", "rules: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := LoadFromFile(path)
			require.Error(t, err)
			assert.Equal(t, lint.ExitFailureInvalidConfig, lint.ExitCodeFor(err))
		})
	}
}

func TestParseUserConfigDefaults(t *testing.T) {
	user, err := ParseUserConfig([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, lint.DefaultErrorLevel, user.FailOnErrorLevel)
	assert.NotNil(t, user.Rules)
	assert.NotNil(t, user.Reporters)
}
