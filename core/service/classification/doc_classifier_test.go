package classification

import (
	"reflect"
	"testing"

	"document_server/core/domain"
)

func mustTable(t *testing.T, rules []CategoryRule) *RuleTable {
	t.Helper()
	table, err := NewRuleTable(rules)
	if err != nil {
		t.Fatalf("failed to build rule table: %v", err)
	}
	return table
}

func defaultClassifier(t *testing.T) *Classifier {
	t.Helper()
	table, err := NewDefaultRuleTable()
	if err != nil {
		t.Fatalf("failed to build default rule table: %v", err)
	}
	return NewClassifier(table)
}

// TestClassify covers category selection, confidence, and keyword order.
func TestClassify(t *testing.T) {
	classifier := defaultClassifier(t)

	tests := []struct {
		name           string
		text           string
		expected       domain.DocumentType
		wantType       domain.DocumentType
		wantConfidence int
		wantMatches    bool
		wantKeywords   []string
	}{
		{
			name:           "empty text yields unknown",
			text:           "",
			wantType:       domain.TypeUnknown,
			wantConfidence: 0,
			wantKeywords:   []string{},
		},
		{
			name:           "no relevant vocabulary yields unknown",
			text:           "Nothing relevant here.",
			expected:       domain.TypeOfferLetter,
			wantType:       domain.TypeUnknown,
			wantConfidence: 0,
			wantMatches:    false,
			wantKeywords:   []string{},
		},
		{
			name:           "single keyword hit",
			text:           "Please find the attached permission letter for the internship.",
			wantType:       domain.TypePermissionLetter,
			wantConfidence: 33,
			wantKeywords:   []string{"permission letter"},
		},
		{
			name:           "two of three keywords",
			text:           "This is an offer letter for the job offer position.",
			wantType:       domain.TypeOfferLetter,
			wantConfidence: 66,
			wantKeywords:   []string{"offer letter", "job offer"},
		},
		{
			name:           "all keywords present gives confidence 100",
			text:           "offer letter with an employment offer; congratulations on the job offer",
			wantType:       domain.TypeOfferLetter,
			wantConfidence: 100,
			wantKeywords:   []string{"offer letter", "employment offer", "job offer"},
		},
		{
			name:           "matched keywords follow rule order not text order",
			text:           "the job offer came after the offer letter",
			wantType:       domain.TypeOfferLetter,
			wantConfidence: 66,
			wantKeywords:   []string{"offer letter", "job offer"},
		},
		{
			name:           "expected type matches detection",
			text:           "completion certificate for the internship completed in June",
			expected:       domain.TypeCompletionCertificate,
			wantType:       domain.TypeCompletionCertificate,
			wantConfidence: 66,
			wantMatches:    true,
			wantKeywords:   []string{"completion certificate", "internship completed"},
		},
		{
			name:           "expected type differs from detection",
			text:           "internship report with a work summary",
			expected:       domain.TypeOfferLetter,
			wantType:       domain.TypeInternshipReport,
			wantConfidence: 66,
			wantMatches:    false,
			wantKeywords:   []string{"internship report", "work summary"},
		},
		{
			name:           "uppercase input classifies identically",
			text:           "THIS IS AN OFFER LETTER FOR THE JOB OFFER POSITION.",
			wantType:       domain.TypeOfferLetter,
			wantConfidence: 66,
			wantKeywords:   []string{"offer letter", "job offer"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifier.Classify(tt.text, tt.expected)

			if result.DocumentType != tt.wantType {
				t.Errorf("DocumentType = %q, want %q", result.DocumentType, tt.wantType)
			}
			if result.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %d, want %d", result.Confidence, tt.wantConfidence)
			}
			if result.MatchesExpected != tt.wantMatches {
				t.Errorf("MatchesExpected = %v, want %v", result.MatchesExpected, tt.wantMatches)
			}
			if !reflect.DeepEqual(result.MatchedKeywords, tt.wantKeywords) {
				t.Errorf("MatchedKeywords = %v, want %v", result.MatchedKeywords, tt.wantKeywords)
			}
		})
	}
}

// TestClassifyCaseInsensitive verifies identical results regardless of case.
func TestClassifyCaseInsensitive(t *testing.T) {
	classifier := defaultClassifier(t)

	upper := classifier.Classify("OFFER LETTER", "")
	lower := classifier.Classify("offer letter", "")

	if !reflect.DeepEqual(upper, lower) {
		t.Errorf("case-folded inputs diverged: %+v vs %+v", upper, lower)
	}
}

// TestClassifyTieBreak verifies the first category in table order wins ties,
// reproducibly.
func TestClassifyTieBreak(t *testing.T) {
	table := mustTable(t, []CategoryRule{
		{Type: domain.TypeOfferLetter, Keywords: []string{"alpha", "beta"}},
		{Type: domain.TypeInternshipReport, Keywords: []string{"gamma", "delta"}},
	})
	classifier := NewClassifier(table)

	// Both categories score exactly one hit.
	text := "alpha and gamma walk into a bar"
	for i := 0; i < 50; i++ {
		result := classifier.Classify(text, "")
		if result.DocumentType != domain.TypeOfferLetter {
			t.Fatalf("iteration %d: DocumentType = %q, want %q", i, result.DocumentType, domain.TypeOfferLetter)
		}
	}
}

// TestClassifyStrictlyGreaterSelection verifies a later category must beat,
// not merely equal, the running best.
func TestClassifyStrictlyGreaterSelection(t *testing.T) {
	table := mustTable(t, []CategoryRule{
		{Type: domain.TypeOfferLetter, Keywords: []string{"alpha"}},
		{Type: domain.TypeInternshipReport, Keywords: []string{"beta", "gamma"}},
	})
	classifier := NewClassifier(table)

	result := classifier.Classify("alpha beta gamma", "")
	if result.DocumentType != domain.TypeInternshipReport {
		t.Errorf("DocumentType = %q, want %q", result.DocumentType, domain.TypeInternshipReport)
	}
	if result.Confidence != 100 {
		t.Errorf("Confidence = %d, want 100", result.Confidence)
	}
}

// TestClassifyExclusiveCategory verifies a text containing every keyword of
// exactly one category selects that category with confidence 100.
func TestClassifyExclusiveCategory(t *testing.T) {
	classifier := defaultClassifier(t)

	text := "employer feedback including a performance review and student evaluation"
	result := classifier.Classify(text, "")

	if result.DocumentType != domain.TypeEmployerFeedback {
		t.Errorf("DocumentType = %q, want %q", result.DocumentType, domain.TypeEmployerFeedback)
	}
	if result.Confidence != 100 {
		t.Errorf("Confidence = %d, want 100", result.Confidence)
	}
}

// TestClassifyMatchesExpectedForEveryCategory verifies the expectation flag
// for each recognized category against a text built from its own keywords.
func TestClassifyMatchesExpectedForEveryCategory(t *testing.T) {
	classifier := defaultClassifier(t)

	texts := map[domain.DocumentType]string{
		domain.TypePermissionLetter:      "permission letter with approval attached",
		domain.TypeOfferLetter:           "offer letter and employment offer",
		domain.TypeCompletionCertificate: "completion certificate and certification",
		domain.TypeInternshipReport:      "internship report with project report",
		domain.TypeStudentFeedback:       "student feedback on the internship experience",
		domain.TypeEmployerFeedback:      "employer feedback with student evaluation",
	}

	for _, dt := range domain.AllDocumentTypes {
		result := classifier.Classify(texts[dt], dt)
		if result.DocumentType != dt {
			t.Errorf("category %s: detected %q", dt, result.DocumentType)
		}
		if !result.MatchesExpected {
			t.Errorf("category %s: MatchesExpected = false, want true", dt)
		}
	}
}

// TestScoreConfidenceBounds verifies confidence stays within [0, 100].
func TestScoreConfidenceBounds(t *testing.T) {
	rule := CategoryRule{
		Type:     domain.TypeStudentFeedback,
		Keywords: []string{"student feedback", "internship experience", "review"},
	}

	tests := []struct {
		name string
		text string
		want int
	}{
		{"no hits", "unrelated text", 0},
		{"one of three", "a review of the program", 33},
		{"two of three", "review of the internship experience", 66},
		{"all three", "student feedback review internship experience", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := Score(tt.text, rule)
			if score.Confidence != tt.want {
				t.Errorf("Confidence = %d, want %d", score.Confidence, tt.want)
			}
			if score.Confidence < 0 || score.Confidence > 100 {
				t.Errorf("Confidence %d out of bounds", score.Confidence)
			}
		})
	}
}
