// Package kb holds the static fix-suggestion knowledge base: per exception
// type, an ordered list of (substring pattern -> remediation) rules evaluated
// first-match-wins. The table is data, not code, so deployments can extend it
// with a YAML file.
package kb

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mediascribe/loglens/internal/model"
)

// Rule pairs a case-insensitive substring pattern with its remediation.
type Rule struct {
	Pattern    string `yaml:"pattern"`
	Diagnosis  string `yaml:"diagnosis"`
	Fix        string `yaml:"fix"`
	File       string `yaml:"file"`
	Prevention string `yaml:"prevention"`
}

// KnowledgeBase maps exception type to its ordered rule list.
type KnowledgeBase map[string][]Rule

// Match returns the first rule whose pattern occurs in the message or the
// full trace text, or nil when the exception type is unknown or nothing
// matches. Absence of a suggestion is not an error.
func (k KnowledgeBase) Match(exceptionType, message, traceText string) *model.FixSuggestion {
	rules, ok := k[exceptionType]
	if !ok {
		return nil
	}

	message = strings.ToLower(message)
	traceText = strings.ToLower(traceText)

	for _, rule := range rules {
		pattern := strings.ToLower(rule.Pattern)
		if strings.Contains(message, pattern) || strings.Contains(traceText, pattern) {
			return &model.FixSuggestion{
				Diagnosis:  rule.Diagnosis,
				Fix:        rule.Fix,
				File:       rule.File,
				Prevention: rule.Prevention,
			}
		}
	}
	return nil
}

// LoadFile reads a YAML knowledge base and merges it over base. Rules for an
// exception type already in base are appended after the builtin ones, so
// builtin matches keep priority.
func LoadFile(path string, base KnowledgeBase) (KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("kb: read %s: %w", path, err)
	}

	var extra KnowledgeBase
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return nil, fmt.Errorf("kb: parse %s: %w", path, err)
	}

	merged := make(KnowledgeBase, len(base)+len(extra))
	for exc, rules := range base {
		merged[exc] = append([]Rule(nil), rules...)
	}
	for exc, rules := range extra {
		merged[exc] = append(merged[exc], rules...)
	}
	return merged, nil
}
