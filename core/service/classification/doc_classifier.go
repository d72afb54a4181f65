package classification

import (
	"strings"

	"document_server/core/domain"
)

// =============================================================================
// Classifier
// =============================================================================

// Classifier scores extracted text against a rule table and selects the
// best-matching document type. It is stateless over an immutable table and
// safe for concurrent use without locking.
type Classifier struct {
	table *RuleTable
}

// NewClassifier creates a classifier over a validated rule table.
func NewClassifier(table *RuleTable) *Classifier {
	return &Classifier{table: table}
}

// Table exposes the rule table for metadata endpoints.
func (c *Classifier) Table() *RuleTable {
	return c.table
}

// Score counts how many of a rule's keywords appear in the normalized text.
// The text must already be lowercased; keywords are lowercase by table
// construction, so containment is case-insensitive overall.
// Matched keywords keep rule order. Confidence is the integer percentage of
// the rule's keywords found, truncated.
func Score(normalizedText string, rule CategoryRule) domain.CategoryScore {
	score := domain.CategoryScore{
		Type:    rule.Type,
		Matched: []string{},
	}

	for _, kw := range rule.Keywords {
		if strings.Contains(normalizedText, kw) {
			score.Hits++
			score.Matched = append(score.Matched, kw)
		}
	}

	if len(rule.Keywords) > 0 {
		score.Confidence = 100 * score.Hits / len(rule.Keywords)
	}

	return score
}

// Classify scores every category in table order and returns the best match.
// The best category must strictly beat the running best on hit count, so the
// first-seen category wins ties. When no category scores a hit the result is
// TypeUnknown with zero confidence — a valid outcome, never an error.
//
// expected is optional; pass the empty string for no expectation. When set,
// MatchesExpected is true if expected equals the detected type, or if the
// detected type is unknown, expected is a recognized category, and the
// winning match list still carries keywords (benefit of the doubt).
func (c *Classifier) Classify(text string, expected domain.DocumentType) domain.ClassificationResult {
	normalized := strings.ToLower(text)

	best := domain.CategoryScore{
		Type:    domain.TypeUnknown,
		Matched: []string{},
	}

	for _, rule := range c.table.Categories() {
		score := Score(normalized, rule)
		if score.Hits > best.Hits {
			best = score
		}
	}

	result := domain.ClassificationResult{
		DocumentType:    best.Type,
		Confidence:      best.Confidence,
		MatchedKeywords: best.Matched,
	}

	if expected != "" {
		switch {
		case expected == best.Type:
			result.MatchesExpected = true
		case best.Type == domain.TypeUnknown && expected.Recognized() && len(best.Matched) > 0:
			result.MatchesExpected = true
		}
	}

	return result
}
