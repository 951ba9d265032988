package rules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CategoryRule is one user-maintained keyword rule. Extra rules extend
// the built-in expense cascade without a code change: they are checked
// after the built-in rules and before the catch-all, in file order.
type CategoryRule struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

type extraFile struct {
	Categories []CategoryRule `yaml:"categories"`
}

// LoadExtra reads extra keyword rules from a YAML file. Keywords are
// lowercased on load so matching stays case-insensitive.
func LoadExtra(path string) ([]CategoryRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadExtra: reading %s: %w", path, err)
	}

	var f extraFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("LoadExtra: parsing %s: %w", path, err)
	}

	out := make([]CategoryRule, 0, len(f.Categories))
	for _, c := range f.Categories {
		if c.Name == "" || len(c.Keywords) == 0 {
			continue
		}
		kws := make([]string, 0, len(c.Keywords))
		for _, kw := range c.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				kws = append(kws, kw)
			}
		}
		out = append(out, CategoryRule{Name: c.Name, Keywords: kws})
	}
	return out, nil
}
