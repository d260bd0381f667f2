package core

import (
	"context"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/packagelint/packagelint/internal/lint"
)

var nvmrcRule = &lint.RuleDefinition{
	Name: "nvmrc",
	Docs: lint.Docs{
		Description: "require a .nvmrc file",
		URL:         docsURL,
	},
	DefaultOptions: lint.Options{
		"fileName": ".nvmrc",
		"version":  ">=10",
	},
	Messages: lint.Messages{
		"fileNotFound":   "{{fileName}} not found",
		"invalidNvmrc":   "Invalid {{fileName}}: must contain a version number",
		"invalidVersion": `Invalid Node version in {{fileName}}: must match "{{version}}"`,
	},
	Validate: validateNvmrc,
}

// validateNvmrc requires exactly one version file whose content satisfies the
// version constraint. A malformed constraint is an exception, not a failure.
func validateNvmrc(_ context.Context, options lint.Options, vc lint.ValidationContext) (*lint.Failure, error) {
	fileName, err := stringOption(options, "fileName")
	if err != nil {
		return nil, err
	}
	constraintText, err := stringOption(options, "version")
	if err != nil {
		return nil, err
	}
	constraint, err := semver.NewConstraint(constraintText)
	if err != nil {
		return nil, err
	}

	paths, err := vc.FindFileUp(fileName)
	if err != nil {
		return nil, err
	}
	vc.SetErrorData(lint.ErrorData{"nvmrcFilePaths": paths})
	if len(paths) != 1 {
		return vc.CreateErrorToReturn("fileNotFound", nil), nil
	}

	content, err := vc.ReadFile(paths[0])
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(content))
	vc.SetErrorData(lint.ErrorData{"nvmrcFileContent": text})

	version, err := semver.NewVersion(text)
	if err != nil {
		return vc.CreateErrorToReturn("invalidNvmrc", nil), nil
	}
	if !constraint.Check(version) {
		return vc.CreateErrorToReturn("invalidVersion", nil), nil
	}
	return nil, nil
}
