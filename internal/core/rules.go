package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/packagelint/packagelint/internal/lint"
)

const docsURL = "https://github.com/packagelint/packagelint"

var alwaysPassRule = &lint.RuleDefinition{
	Name: "always-pass",
	Docs: lint.Docs{
		Description: "This rule will always pass.",
		URL:         docsURL,
	},
	DefaultOptions: lint.Options{},
	Messages:       lint.Messages{},
	Validate: func(context.Context, lint.Options, lint.ValidationContext) (*lint.Failure, error) {
		return nil, nil
	},
}

var alwaysFailRule = &lint.RuleDefinition{
	Name: "always-fail",
	Docs: lint.Docs{
		Description: "This rule will always fail.",
		URL:         docsURL,
	},
	DefaultErrorLevel: lint.ErrorLevelError,
	DefaultOptions:    lint.Options{},
	Messages: lint.Messages{
		"alwaysFail": "This rule will always fail",
	},
	Validate: func(_ context.Context, _ lint.Options, vc lint.ValidationContext) (*lint.Failure, error) {
		return vc.CreateErrorToReturn("alwaysFail", nil), nil
	},
}

// errAlwaysThrow is what always-throw returns; it surfaces as an exception result.
var errAlwaysThrow = errors.New("this rule always throws")

var alwaysThrowRule = &lint.RuleDefinition{
	Name: "always-throw",
	Docs: lint.Docs{
		Description: "This rule will always throw an exception.",
		URL:         docsURL,
	},
	DefaultOptions: lint.Options{},
	Messages:       lint.Messages{},
	Validate: func(context.Context, lint.Options, lint.ValidationContext) (*lint.Failure, error) {
		return nil, errAlwaysThrow
	},
}

// fileExistsRule must be extended with a fileName option, e.g. README.md.
var fileExistsRule = &lint.RuleDefinition{
	Name: "file-exists",
	Docs: lint.Docs{
		Description: "require a file to exist in the package or one of its parents",
		URL:         docsURL,
	},
	IsAbstract:     true,
	DefaultOptions: lint.Options{"fileName": ""},
	Messages: lint.Messages{
		"fileNotFound": "{{fileName}} not found",
	},
	Validate: validateFileExists,
}

func validateFileExists(_ context.Context, options lint.Options, vc lint.ValidationContext) (*lint.Failure, error) {
	fileName, err := stringOption(options, "fileName")
	if err != nil {
		return nil, err
	}

	paths, err := vc.FindFileUp(fileName)
	if err != nil {
		return nil, err
	}
	vc.SetErrorData(lint.ErrorData{"filePaths": paths})
	if len(paths) == 0 {
		return vc.CreateErrorToReturn("fileNotFound", nil), nil
	}
	return nil, nil
}

// stringOption returns a required, non-empty string option.
func stringOption(options lint.Options, key string) (string, error) {
	raw, ok := options[key]
	if !ok {
		return "", fmt.Errorf("option %q is required", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("option %q must be a string, got %T", key, raw)
	}
	if s == "" {
		return "", fmt.Errorf("option %q must not be empty", key)
	}
	return s, nil
}
