package router

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katakuxiko/agentchat/internal/model"
)

type rulesFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

type ruleSpec struct {
	Name     string   `yaml:"name"`
	Route    string   `yaml:"route"`
	Keywords []string `yaml:"keywords"`
}

// LoadRules reads keyword rules from a YAML file, keeping file order:
//
//	rules:
//	  - name: sales
//	    route: sales_data
//	    keywords: [sales, revenue]
func LoadRules(path string) ([]Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("router: read rules: %w", err)
	}
	return ParseRules(raw)
}

func ParseRules(raw []byte) ([]Rule, error) {
	var f rulesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("router: parse rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("router: rules file defines no rules")
	}

	rules := make([]Rule, 0, len(f.Rules))
	for i, spec := range f.Rules {
		route, ok := model.ParseRoute(spec.Route)
		if !ok {
			return nil, fmt.Errorf("router: rule %d (%s): unknown route %q", i, spec.Name, spec.Route)
		}
		if len(spec.Keywords) == 0 {
			return nil, fmt.Errorf("router: rule %d (%s): no keywords", i, spec.Name)
		}
		name := spec.Name
		if name == "" {
			name = spec.Route
		}
		rules = append(rules, KeywordRule(name, route, spec.Keywords...))
	}
	return rules, nil
}
