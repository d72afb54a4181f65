// Package classification implements the keyword-evidence document classifier.
package classification

import (
	"strings"

	"document_server/core/domain"
	"document_server/pkg/apperr"
)

// =============================================================================
// Category Rule Table
// =============================================================================

// CategoryRule maps one document type to its ordered keyword evidence.
// Keywords are lowercase phrases matched by substring containment.
type CategoryRule struct {
	Type     domain.DocumentType
	Keywords []string
}

// RuleTable is the immutable set of category rules the classifier scores
// against. Iteration order is definition order and drives tie-breaking.
type RuleTable struct {
	rules []CategoryRule
}

// NewRuleTable validates and freezes a rule set. Validation failures are
// configuration errors and must abort startup: a category with no keywords
// would make confidence undefined at request time.
func NewRuleTable(rules []CategoryRule) (*RuleTable, error) {
	if len(rules) == 0 {
		return nil, apperr.ConfigError("rule table has no categories")
	}

	seen := make(map[domain.DocumentType]bool, len(rules))
	for _, rule := range rules {
		if !rule.Type.Recognized() {
			return nil, apperr.ConfigError("rule table contains unrecognized category: " + string(rule.Type))
		}
		if seen[rule.Type] {
			return nil, apperr.ConfigError("duplicate category in rule table: " + string(rule.Type))
		}
		seen[rule.Type] = true

		if len(rule.Keywords) == 0 {
			return nil, apperr.ConfigError("category has empty keyword list: " + string(rule.Type))
		}

		kwSeen := make(map[string]bool, len(rule.Keywords))
		for _, kw := range rule.Keywords {
			if kw == "" {
				return nil, apperr.ConfigError("category has empty keyword: " + string(rule.Type))
			}
			if kw != strings.ToLower(kw) {
				return nil, apperr.ConfigError("keyword must be lowercase: " + kw)
			}
			if kwSeen[kw] {
				return nil, apperr.ConfigError("duplicate keyword in category " + string(rule.Type) + ": " + kw)
			}
			kwSeen[kw] = true
		}
	}

	// Deep copy so callers cannot mutate the table after construction.
	frozen := make([]CategoryRule, len(rules))
	for i, rule := range rules {
		frozen[i] = CategoryRule{
			Type:     rule.Type,
			Keywords: append([]string(nil), rule.Keywords...),
		}
	}

	return &RuleTable{rules: frozen}, nil
}

// DefaultRules returns the built-in internship document rule set.
func DefaultRules() []CategoryRule {
	return []CategoryRule{
		{Type: domain.TypePermissionLetter, Keywords: []string{"permission letter", "signed letter", "approval"}},
		{Type: domain.TypeOfferLetter, Keywords: []string{"offer letter", "employment offer", "job offer"}},
		{Type: domain.TypeCompletionCertificate, Keywords: []string{"completion certificate", "certification", "internship completed"}},
		{Type: domain.TypeInternshipReport, Keywords: []string{"internship report", "work summary", "project report"}},
		{Type: domain.TypeStudentFeedback, Keywords: []string{"student feedback", "internship experience", "review"}},
		{Type: domain.TypeEmployerFeedback, Keywords: []string{"employer feedback", "performance review", "student evaluation"}},
	}
}

// NewDefaultRuleTable builds the table from DefaultRules.
func NewDefaultRuleTable() (*RuleTable, error) {
	return NewRuleTable(DefaultRules())
}

// Categories returns the rules in table order.
func (t *RuleTable) Categories() []CategoryRule {
	return t.rules
}

// Lookup returns the rule for a type, or nil if the table has none.
func (t *RuleTable) Lookup(dt domain.DocumentType) *CategoryRule {
	for i := range t.rules {
		if t.rules[i].Type == dt {
			return &t.rules[i]
		}
	}
	return nil
}

// Len returns the number of configured categories.
func (t *RuleTable) Len() int {
	return len(t.rules)
}
