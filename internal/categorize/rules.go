// Package categorize assigns a spending category to every transaction.
//
// Rules are authoritative: a matching keyword rule always wins so category
// assignment stays auditable for known merchants. A trained statistical
// model, when present, only covers the gap the rules leave.
package categorize

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Uncategorized is the terminal fallback label. No record ever leaves the
// categorizer without a category.
const Uncategorized = "Uncategorized"

// Rule maps one category to its substring patterns.
type Rule struct {
	Category string
	Patterns []string
}

// RuleSet is an ordered list of rules. Order is the configuration file's
// document order and decides precedence: the first match wins.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet builds a rule set from explicit rules, mostly for tests.
func NewRuleSet(rules ...Rule) *RuleSet {
	return &RuleSet{rules: rules}
}

// LoadRules reads a `rules: {category: [patterns...]}` YAML document,
// preserving the category order of the file. A missing file yields an empty
// set; a malformed file is an error.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &RuleSet{}, nil
		}
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	return ParseRules(data)
}

// ParseRules parses the rules document. Decoding goes through the yaml node
// API because map order is semantically load-bearing here and
// map[string][]string would shuffle it.
func ParseRules(data []byte) (*RuleSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if len(doc.Content) == 0 {
		return &RuleSet{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse rules: top level must be a mapping")
	}

	var rulesNode *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "rules" {
			rulesNode = root.Content[i+1]
			break
		}
	}
	if rulesNode == nil {
		return &RuleSet{}, nil
	}
	if rulesNode.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse rules: 'rules' must be a mapping")
	}

	rs := &RuleSet{}
	for i := 0; i+1 < len(rulesNode.Content); i += 2 {
		keyNode, valNode := rulesNode.Content[i], rulesNode.Content[i+1]
		var patterns []string
		if err := valNode.Decode(&patterns); err != nil {
			return nil, fmt.Errorf("parse rules for %q: %w", keyNode.Value, err)
		}
		rs.rules = append(rs.rules, Rule{Category: keyNode.Value, Patterns: patterns})
	}
	return rs, nil
}

// Match returns the first category whose pattern set contains the text as a
// case-insensitive substring.
func (rs *RuleSet) Match(text string) (string, bool) {
	t := strings.ToLower(text)
	for _, rule := range rs.rules {
		for _, pat := range rule.Patterns {
			if pat != "" && strings.Contains(t, strings.ToLower(pat)) {
				return rule.Category, true
			}
		}
	}
	return "", false
}

// Len returns the number of configured rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}
