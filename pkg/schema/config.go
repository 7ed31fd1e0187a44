// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the serialisable form of the schema definitions. It can be
// provided through a YAML file to replace the built in vocabulary without
// code changes; the matching logic is identical for every field and language.
type Config struct {
	Fields []FieldConfig `yaml:"fields" mapstructure:"fields"`
	// OperatorSynonyms extends the built in operator phrase table. Keys are
	// canonical operator symbols, values additional surface forms.
	OperatorSynonyms map[string][]string `yaml:"operator_synonyms" mapstructure:"operator_synonyms"`
}

type FieldConfig struct {
	Name    string   `yaml:"name" mapstructure:"name"`
	Type    string   `yaml:"type" mapstructure:"type"`
	Aliases []string `yaml:"aliases" mapstructure:"aliases"`
	// ExtraOperators allows a string or enum field to opt into operators
	// beyond equality.
	ExtraOperators []string `yaml:"extra_operators" mapstructure:"extra_operators"`
	// Values maps each canonical value to its accepted surface forms in any
	// supported language. Only meaningful for enum fields.
	Values map[string][]string `yaml:"values" mapstructure:"values"`
}

// LoadFile builds a registry from a YAML schema definition file.
func LoadFile(path string) (*Registry, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("parsing schema file: %w", err)
	}

	registry, err := New(cfg)
	if err != nil {
		return nil, fmt.Errorf("building schema registry: %w", err)
	}
	return registry, nil
}
