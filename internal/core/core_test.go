package core

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packagelint/packagelint/internal/finder"
	"github.com/packagelint/packagelint/internal/lint"
	"github.com/packagelint/packagelint/internal/metrics"
	"github.com/packagelint/packagelint/internal/prepare"
	"github.com/packagelint/packagelint/internal/resolve"
	"github.com/packagelint/packagelint/internal/validate"
)

// run prepares entries against the built-in module and validates them inside
// a memory filesystem rooted at /pkg.
func run(t *testing.T, files map[string]string, entries ...lint.Entry) *lint.Output {
	t.Helper()

	fs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}
	v := validate.NewDefaultValidator(
		validate.WithFinder(finder.New(fs, "/pkg")),
		validate.WithMetrics(metrics.NewCollector()),
	)

	p := prepare.NewDefaultPreparer(resolve.NewResolver(NewRegistry()),
		prepare.WithValidator(func() lint.Validator { return v }))
	cfg, err := p.PrepareUserConfig(context.Background(), &lint.UserConfig{Rules: entries})
	require.NoError(t, err)

	out, err := validate.ValidatePreparedConfig(context.Background(), cfg)
	require.NoError(t, err)
	return out
}

func TestListRules(t *testing.T) {
	names, err := resolve.NewResolver(NewRegistry()).ListRules(context.Background(), Module)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"packagelint:always-fail",
		"packagelint:always-pass",
		"packagelint:always-throw",
		"packagelint:file-exists",
		"packagelint:nvmrc",
		"packagelint:recommended",
		"packagelint:strict",
	}, names)
}

func TestAlwaysRules(t *testing.T) {
	out := run(t, nil,
		lint.Entry{Name: "packagelint:always-pass"},
		lint.Entry{Name: "packagelint:always-fail"},
		lint.Entry{Name: "packagelint:always-throw"},
	)

	require.Len(t, out.AllResults, 3)
	assert.Equal(t, lint.StatusPassed, out.AllResults[0].Status)

	failed := out.AllResults[1]
	assert.Equal(t, lint.StatusFailed, failed.Status)
	assert.Equal(t, "alwaysFail", failed.Error.ErrorName)
	assert.Equal(t, "This rule will always fail", failed.Error.Message)

	thrown := out.AllResults[2]
	assert.Equal(t, lint.StatusException, thrown.Status)
	assert.Equal(t, lint.ErrorLevelException, thrown.Error.ErrorLevel)
	assert.Equal(t, errAlwaysThrow.Error(), thrown.Error.Message)

	assert.Equal(t, lint.ErrorLevelException, out.HighestErrorLevel)
	assert.Equal(t, lint.ExitFailureValidation, out.ExitCode)
}

func TestNvmrc(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		options   lint.Options
		status    lint.Status
		errorName string
		message   string
	}{
		{
			name:   "satisfies default",
			files:  map[string]string{"/pkg/.nvmrc": "18.17.1\n"},
			status: lint.StatusPassed,
		},
		{
			name:   "found in parent",
			files:  map[string]string{"/.nvmrc": "v20.1.0"},
			status: lint.StatusPassed,
		},
		{
			name:      "missing",
			files:     map[string]string{"/pkg/package.json": "{}"},
			status:    lint.StatusFailed,
			errorName: "fileNotFound",
			message:   ".nvmrc not found",
		},
		{
			name:      "not a version",
			files:     map[string]string{"/pkg/.nvmrc": "lts/hydrogen"},
			status:    lint.StatusFailed,
			errorName: "invalidNvmrc",
			message:   "Invalid .nvmrc: must contain a version number",
		},
		{
			name:      "too old",
			files:     map[string]string{"/pkg/.nvmrc": "8.1.0"},
			status:    lint.StatusFailed,
			errorName: "invalidVersion",
			message:   `Invalid Node version in .nvmrc: must match ">=10"`,
		},
		{
			name:    "custom constraint",
			files:   map[string]string{"/pkg/.nvmrc": "14.17.0"},
			options: lint.Options{"version": "^14"},
			status:  lint.StatusPassed,
		},
		{
			name:      "custom file name",
			files:     map[string]string{"/pkg/.nvmrc": "20.0.0"},
			options:   lint.Options{"fileName": ".node-version"},
			status:    lint.StatusFailed,
			errorName: "fileNotFound",
			message:   ".node-version not found",
		},
		{
			name:    "bad constraint",
			files:   map[string]string{"/pkg/.nvmrc": "20.0.0"},
			options: lint.Options{"version": "not a range"},
			status:  lint.StatusException,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := run(t, tt.files, lint.Entry{Name: "packagelint:nvmrc", Options: tt.options})
			require.Len(t, out.AllResults, 1)

			res := out.AllResults[0]
			assert.Equal(t, tt.status, res.Status)
			if tt.errorName != "" {
				require.NotNil(t, res.Error)
				assert.Equal(t, tt.errorName, res.Error.ErrorName)
				assert.Equal(t, tt.message, res.Error.Message)
				assert.Contains(t, res.Error.ErrorData, "nvmrcFilePaths")
			}
		})
	}
}

func TestFileExists(t *testing.T) {
	readme := lint.Entry{Name: "readme", ExtendRule: "packagelint:file-exists", Options: lint.Options{"fileName": "README*"}}

	out := run(t, map[string]string{"/pkg/README.md": "# pkg"}, readme)
	assert.Equal(t, lint.StatusPassed, out.AllResults[0].Status)

	out = run(t, map[string]string{"/pkg/index.js": ""}, readme)
	res := out.AllResults[0]
	assert.Equal(t, lint.StatusFailed, res.Status)
	assert.Equal(t, "README* not found", res.Error.Message)

	out = run(t, nil, lint.Entry{Name: "empty", ExtendRule: "packagelint:file-exists"})
	assert.Equal(t, lint.StatusException, out.AllResults[0].Status)
}

func TestBuiltInRulesets(t *testing.T) {
	files := map[string]string{
		"/pkg/.nvmrc":    "20.0.0",
		"/pkg/README.md": "",
	}

	out := run(t, files, lint.Entry{Name: "packagelint:recommended"})
	require.Len(t, out.Rules, 2)
	assert.Equal(t, "packagelint:nvmrc", out.Rules[0].PreparedRuleName)
	assert.Equal(t, "readme", out.Rules[1].PreparedRuleName)
	assert.Equal(t, lint.ErrorLevelWarning, out.Rules[1].ErrorLevel)
	assert.Equal(t, lint.ExitSuccess, out.ExitCode)

	out = run(t, files, lint.Entry{Name: "packagelint:strict"})
	require.Len(t, out.Rules, 3)
	levels := map[string]lint.ErrorLevel{}
	for _, r := range out.Rules {
		levels[r.PreparedRuleName] = r.ErrorLevel
	}
	assert.Equal(t, map[string]lint.ErrorLevel{
		"packagelint:nvmrc": lint.ErrorLevelError,
		"readme":            lint.ErrorLevelWarning,
		"license":           lint.ErrorLevelError,
	}, levels)
	assert.Equal(t, lint.ExitFailureValidation, out.ExitCode, "no LICENSE file")
	assert.Equal(t, "LICENSE* not found", out.ErrorResults[0].Message)
}

func TestLoadRulesets(t *testing.T) {
	fsys := fstest.MapFS{
		"sets/team.yaml":  {Data: []byte("rules:\n  - packagelint:nvmrc\n")},
		"sets/named.yml":  {Data: []byte("name: other\nrules: []\n")},
		"sets/notes.txt":  {Data: []byte("ignored")},
		"sets/nested/x.y": {Data: []byte("ignored")},
	}

	rulesets, err := LoadRulesets(fsys, "sets")
	require.NoError(t, err)
	require.Len(t, rulesets, 2)
	assert.Equal(t, "other", rulesets[0].Name)
	assert.Empty(t, rulesets[0].Rules)
	assert.Equal(t, "team", rulesets[1].Name)
	assert.Equal(t, []lint.Entry{{Name: "packagelint:nvmrc"}}, rulesets[1].Rules)

	_, err = LoadRulesets(fstest.MapFS{"bad/x.yaml": {Data: []byte("rules:\n  - [a, b, c]\n")}}, "bad")
	assert.ErrorContains(t, err, "parsing x.yaml")
}

func TestReportersResolve(t *testing.T) {
	r := resolve.NewResolver(NewRegistry())
	for name := range Reporters() {
		factory, err := r.ResolveReporter(context.Background(), Module+":"+name)
		require.NoError(t, err, name)
		rep, err := factory(lint.Options{})
		require.NoError(t, err, name)
		assert.NotNil(t, rep, name)
	}
}
