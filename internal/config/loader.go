package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/packagelint/packagelint/internal/lint"
)

// Loader handles configuration loading from multiple sources.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader creates a loader that searches paths for .packagelint.yaml.
// Without paths it searches the current directory, then $HOME.
func NewLoader(paths ...string) *Loader {
	v := viper.New()

	v.SetConfigName(configName)
	v.SetConfigType("yaml")

	if len(paths) == 0 {
		paths = []string{".", "$HOME"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("PACKAGELINT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// SetConfigFile sets a specific config file to use.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
	l.v.SetConfigFile(path)
}

// Load reads the configuration file and applies environment overrides.
// It returns an error wrapping lint.ErrNoConfig when there is no file.
func (l *Loader) Load() (*Config, error) {
	settings := DefaultSettings()
	l.setDefaults(settings)

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", lint.ErrNoConfig, err)
		}
		return nil, &lint.ConfigError{Message: "reading config file", Err: err}
	}

	if err := l.v.Unmarshal(&settings); err != nil {
		return nil, &lint.ConfigError{Message: "decoding settings", Err: err}
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	file := l.v.ConfigFileUsed()
	user, err := readUserConfig(file)
	if err != nil {
		return nil, err
	}
	user.FailOnErrorLevel = lint.ErrorLevel(settings.FailOnErrorLevel)

	return &Config{Settings: settings, User: user, File: file}, nil
}

// setDefaults sets all default values in viper.
func (l *Loader) setDefaults(s Settings) {
	l.v.SetDefault("failOnErrorLevel", s.FailOnErrorLevel)
	l.v.SetDefault("log_level", s.LogLevel)
	l.v.SetDefault("root_dir", s.RootDir)
	l.v.SetDefault("max_concurrency", s.MaxConcurrency)
}

// readUserConfig decodes the rules and reporters sections with yaml.v3, which
// keeps entry shorthand and the case of option keys.
func readUserConfig(path string) (*lint.UserConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &lint.ConfigError{Message: "reading config file", Err: err}
	}
	user, err := ParseUserConfig(data)
	if err != nil {
		return nil, &lint.ConfigError{Message: filepath.Base(path), Err: err}
	}
	return user, nil
}

// ParseUserConfig decodes a configuration document.
func ParseUserConfig(data []byte) (*lint.UserConfig, error) {
	user := lint.DefaultUserConfig()
	if err := yaml.Unmarshal(data, user); err != nil {
		return nil, err
	}
	if user.Rules == nil {
		user.Rules = []lint.Entry{}
	}
	if user.Reporters == nil {
		user.Reporters = lint.ReporterEntries{}
	}
	return user, nil
}

// ConfigFileUsed returns the path of the config file used, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance, for binding flags.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// LoadFromFile loads configuration from a specific file.
func LoadFromFile(path string) (*Config, error) {
	loader := NewLoader()
	loader.SetConfigFile(path)
	return loader.Load()
}
