package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Aliases is the YAML shape of PREPARE_ALIASES_FILE:
//
//	identifier: ["Código Barras", "EAN"]
//	label: ["Artigo", "Descrição"]
//
// A list left out keeps the current names for that role.
type Aliases struct {
	Identifier []string `yaml:"identifier"`
	Label      []string `yaml:"label"`
}

func LoadAliases(path string) (Aliases, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return Aliases{}, fmt.Errorf("read aliases file: %w", err)
	}
	var a Aliases
	if err := yaml.Unmarshal(blob, &a); err != nil {
		return Aliases{}, fmt.Errorf("parse aliases file %s: %w", path, err)
	}
	a.Identifier = compact(a.Identifier)
	a.Label = compact(a.Label)
	return a, nil
}

func (a Aliases) Apply(cfg *Config) {
	if len(a.Identifier) > 0 {
		cfg.IdentifierNames = a.Identifier
	}
	if len(a.Label) > 0 {
		cfg.LabelNames = a.Label
	}
}

func compact(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}
