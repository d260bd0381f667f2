package lint

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Event names a reporter lifecycle hook.
type Event string

const (
	EventValidationStart    Event = "onValidationStart"
	EventRuleStart          Event = "onRuleStart"
	EventRuleResult         Event = "onRuleResult"
	EventValidationComplete Event = "onValidationComplete"
)

// Reporter observes a run. Embed BaseReporter to implement only the hooks you need.
type Reporter interface {
	OnValidationStart(ctx context.Context, cfg *PreparedConfig) error
	OnRuleStart(ctx context.Context, rule *PreparedRule) error
	OnRuleResult(ctx context.Context, rule *PreparedRule, result ValidationResult) error
	OnValidationComplete(ctx context.Context, output *Output) error
}

// BaseReporter implements every hook as a no-op.
type BaseReporter struct{}

func (BaseReporter) OnValidationStart(context.Context, *PreparedConfig) error {
	return nil
}

func (BaseReporter) OnRuleStart(context.Context, *PreparedRule) error {
	return nil
}

func (BaseReporter) OnRuleResult(context.Context, *PreparedRule, ValidationResult) error {
	return nil
}

func (BaseReporter) OnValidationComplete(context.Context, *Output) error {
	return nil
}

// ReporterFactory builds a reporter from its user-supplied options.
type ReporterFactory func(options Options) (Reporter, error)

// NamedReporter is an instantiated reporter together with the name it was resolved from.
type NamedReporter struct {
	Name     string
	Options  Options
	Reporter Reporter
}

// ReporterEntry names a reporter and the options to construct it with.
type ReporterEntry struct {
	Name    string  `json:"name" yaml:"name"`
	Options Options `json:"options,omitempty" yaml:"options,omitempty"`
}

// ReporterEntries keeps reporters in the order the user listed them.
type ReporterEntries []ReporterEntry

// UnmarshalYAML accepts either a mapping of name to options (order preserved)
// or a sequence of names / {name, options} records.
func (r *ReporterEntries) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.MappingNode:
		entries := make(ReporterEntries, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			var opts Options
			if err := value.Content[i+1].Decode(&opts); err != nil {
				return fmt.Errorf("reporter %q: %w", value.Content[i].Value, err)
			}
			entries = append(entries, ReporterEntry{Name: value.Content[i].Value, Options: opts})
		}
		*r = entries
	case yaml.SequenceNode:
		entries := make(ReporterEntries, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind == yaml.ScalarNode {
				entries = append(entries, ReporterEntry{Name: item.Value})
				continue
			}
			var entry ReporterEntry
			if err := item.Decode(&entry); err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		*r = entries
	default:
		return &ConfigError{Message: fmt.Sprintf("line %d: reporters must be a mapping or a list", value.Line)}
	}
	return nil
}
