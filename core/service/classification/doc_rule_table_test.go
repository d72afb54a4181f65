package classification

import (
	"testing"

	"document_server/core/domain"
	"document_server/pkg/apperr"
)

// TestNewRuleTableValidation rejects configurations that would make
// confidence undefined or matching ambiguous.
func TestNewRuleTableValidation(t *testing.T) {
	tests := []struct {
		name    string
		rules   []CategoryRule
		wantErr bool
	}{
		{
			name:    "default rules are valid",
			rules:   DefaultRules(),
			wantErr: false,
		},
		{
			name:    "empty table rejected",
			rules:   nil,
			wantErr: true,
		},
		{
			name: "empty keyword list rejected",
			rules: []CategoryRule{
				{Type: domain.TypeOfferLetter, Keywords: []string{}},
			},
			wantErr: true,
		},
		{
			name: "empty keyword rejected",
			rules: []CategoryRule{
				{Type: domain.TypeOfferLetter, Keywords: []string{"offer letter", ""}},
			},
			wantErr: true,
		},
		{
			name: "uppercase keyword rejected",
			rules: []CategoryRule{
				{Type: domain.TypeOfferLetter, Keywords: []string{"Offer Letter"}},
			},
			wantErr: true,
		},
		{
			name: "duplicate keyword rejected",
			rules: []CategoryRule{
				{Type: domain.TypeOfferLetter, Keywords: []string{"offer letter", "offer letter"}},
			},
			wantErr: true,
		},
		{
			name: "duplicate category rejected",
			rules: []CategoryRule{
				{Type: domain.TypeOfferLetter, Keywords: []string{"offer letter"}},
				{Type: domain.TypeOfferLetter, Keywords: []string{"job offer"}},
			},
			wantErr: true,
		},
		{
			name: "unrecognized category rejected",
			rules: []CategoryRule{
				{Type: "mysteryDocument", Keywords: []string{"mystery"}},
			},
			wantErr: true,
		},
		{
			name: "unknown sentinel rejected as category",
			rules: []CategoryRule{
				{Type: domain.TypeUnknown, Keywords: []string{"unknown"}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRuleTable(tt.rules)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRuleTable() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				appErr := apperr.AsAppError(err)
				if appErr.Code != apperr.CodeConfigError {
					t.Errorf("error code = %s, want %s", appErr.Code, apperr.CodeConfigError)
				}
			}
		})
	}
}

// TestRuleTableOrder verifies the table preserves definition order.
func TestRuleTableOrder(t *testing.T) {
	table, err := NewDefaultRuleTable()
	if err != nil {
		t.Fatalf("failed to build default rule table: %v", err)
	}

	rules := table.Categories()
	if len(rules) != len(domain.AllDocumentTypes) {
		t.Fatalf("table has %d categories, want %d", len(rules), len(domain.AllDocumentTypes))
	}
	for i, dt := range domain.AllDocumentTypes {
		if rules[i].Type != dt {
			t.Errorf("rules[%d].Type = %q, want %q", i, rules[i].Type, dt)
		}
	}
}

// TestRuleTableImmutable verifies callers cannot mutate the table through
// the input slice.
func TestRuleTableImmutable(t *testing.T) {
	input := []CategoryRule{
		{Type: domain.TypeOfferLetter, Keywords: []string{"offer letter"}},
	}
	table, err := NewRuleTable(input)
	if err != nil {
		t.Fatalf("failed to build rule table: %v", err)
	}

	input[0].Keywords[0] = "tampered"

	if got := table.Categories()[0].Keywords[0]; got != "offer letter" {
		t.Errorf("keyword = %q after input mutation, want %q", got, "offer letter")
	}
}

// TestRuleTableLookup verifies lookup by type.
func TestRuleTableLookup(t *testing.T) {
	table, err := NewDefaultRuleTable()
	if err != nil {
		t.Fatalf("failed to build default rule table: %v", err)
	}

	if rule := table.Lookup(domain.TypeInternshipReport); rule == nil {
		t.Error("Lookup(internshipReport) = nil, want rule")
	}
	if rule := table.Lookup(domain.TypeUnknown); rule != nil {
		t.Errorf("Lookup(unknown) = %+v, want nil", rule)
	}
}
