package config

import "github.com/packagelint/packagelint/internal/lint"

// Config file names, without and with extension.
const (
	configName     = ".packagelint"
	configFileName = configName + ".yaml"
)

// DefaultSettings returns the settings used when nothing else is configured.
func DefaultSettings() Settings {
	return Settings{
		FailOnErrorLevel: string(lint.DefaultErrorLevel),
		LogLevel:         "info",
		RootDir:          "",
		MaxConcurrency:   0,
	}
}
