package core

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/packagelint/packagelint/internal/lint"
)

//go:embed rulesets/*.yaml
var embeddedRulesets embed.FS

// LoadRulesets parses every .yaml/.yml file in dir of fsys as a ruleset
// definition. A file without a name takes its base name.
func LoadRulesets(fsys fs.FS, dir string) ([]*lint.RulesetDefinition, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var rulesets []*lint.RulesetDefinition
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := path.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		rs, err := parseRulesetYAML(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", entry.Name(), err)
		}
		if rs.Name == "" {
			rs.Name = strings.TrimSuffix(entry.Name(), ext)
		}
		rulesets = append(rulesets, rs)
	}
	return rulesets, nil
}

func parseRulesetYAML(data []byte) (*lint.RulesetDefinition, error) {
	var rs lint.RulesetDefinition
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, err
	}
	if rs.Rules == nil {
		rs.Rules = []lint.Entry{}
	}
	return &rs, nil
}

func loadEmbeddedRulesets() ([]*lint.RulesetDefinition, error) {
	return LoadRulesets(embeddedRulesets, "rulesets")
}
