package lint

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Entry is one rule or ruleset reference as written by a user or a ruleset,
// normalized to the full override form.
//
// Shorthand accepted by ParseEntry:
//   - "pkg:name"                   enable with defaults
//   - ["pkg:name", true|false]     enable or disable
//   - ["pkg:name", "warning"]      enable and set the error level
//   - ["pkg:name", {key: value}]   enable and set options
//   - {name: ..., enabled: ..., extendRule: ..., errorLevel: ..., options: ..., resetOptions: ..., messages: ...}
type Entry struct {
	// Name is the rule to customize, or the new identifier when ExtendRule is set.
	Name string `json:"name" yaml:"name"`
	// Enabled is nil when the entry does not say.
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	// ExtendRule names the definition whose implementation and options are copied.
	ExtendRule string     `json:"extendRule,omitempty" yaml:"extendRule,omitempty"`
	ErrorLevel ErrorLevel `json:"errorLevel,omitempty" yaml:"errorLevel,omitempty"`
	Options    Options    `json:"options,omitempty" yaml:"options,omitempty"`
	// ResetOptions makes an extension start from the base's original defaults.
	ResetOptions bool     `json:"resetOptions,omitempty" yaml:"resetOptions,omitempty"`
	Messages     Messages `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// entryRecord is the decoding target for the full override form.
type entryRecord struct {
	Name         string            `mapstructure:"name"`
	Enabled      *bool             `mapstructure:"enabled"`
	ExtendRule   string            `mapstructure:"extendRule"`
	ErrorLevel   string            `mapstructure:"errorLevel"`
	Options      map[string]any    `mapstructure:"options"`
	ResetOptions bool              `mapstructure:"resetOptions"`
	Messages     map[string]string `mapstructure:"messages"`
}

// Bool returns a pointer to b, for building entries in code.
func Bool(b bool) *bool {
	return &b
}

// ParseEntry normalizes any supported shorthand into an Entry.
func ParseEntry(raw any) (Entry, error) {
	switch v := raw.(type) {
	case Entry:
		return v, v.validate()
	case *Entry:
		if v == nil {
			return Entry{}, &ConfigError{Message: "rule entry is empty"}
		}
		return *v, v.validate()
	case string:
		e := Entry{Name: v}
		return e, e.validate()
	case []any:
		return parseTuple(v)
	case map[string]any:
		return parseRecord(v)
	case nil:
		return Entry{}, &ConfigError{Message: "rule entry is empty"}
	default:
		return Entry{}, &ConfigError{Message: fmt.Sprintf("unsupported rule entry %v (%T)", raw, raw)}
	}
}

func parseTuple(t []any) (Entry, error) {
	if len(t) != 2 {
		return Entry{}, &ConfigError{Message: fmt.Sprintf("shorthand rule entry must have 2 elements, got %d", len(t))}
	}
	name, ok := t[0].(string)
	if !ok {
		return Entry{}, &ConfigError{Message: fmt.Sprintf("shorthand rule entry must start with a name, got %T", t[0])}
	}

	e := Entry{Name: name}
	switch second := t[1].(type) {
	case bool:
		e.Enabled = Bool(second)
	case string:
		level, err := ParseErrorLevel(second)
		if err != nil {
			return Entry{}, err
		}
		e.ErrorLevel = level
	case map[string]any:
		e.Options = Options(second)
	case Options:
		e.Options = second
	default:
		return Entry{}, &ConfigError{Message: fmt.Sprintf("rule %q: unsupported shorthand value %v (%T)", name, t[1], t[1])}
	}
	return e, e.validate()
}

func parseRecord(m map[string]any) (Entry, error) {
	var rec entryRecord
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &rec,
		ErrorUnused: true,
	})
	if err != nil {
		return Entry{}, err
	}
	if err := dec.Decode(m); err != nil {
		return Entry{}, &ConfigError{Message: "malformed rule entry", Err: err}
	}

	e := Entry{
		Name:         rec.Name,
		Enabled:      rec.Enabled,
		ExtendRule:   rec.ExtendRule,
		ErrorLevel:   ErrorLevel(rec.ErrorLevel),
		ResetOptions: rec.ResetOptions,
	}
	if rec.Options != nil {
		e.Options = Options(rec.Options)
	}
	if rec.Messages != nil {
		e.Messages = Messages(rec.Messages)
	}
	return e, e.validate()
}

func (e Entry) validate() error {
	if e.Name == "" {
		return &ConfigError{Message: "rule entry has no name"}
	}
	if e.ErrorLevel != "" && !IsValidErrorLevel(e.ErrorLevel) {
		return &ConfigError{Message: fmt.Sprintf("rule %q: %q is not a valid error level", e.Name, e.ErrorLevel)}
	}
	return nil
}

// UnmarshalYAML accepts every shorthand form.
func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseEntry(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*e = parsed
	return nil
}
