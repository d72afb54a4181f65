package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType represents the kind of internship document a file was
// classified as.
type DocumentType string

const (
	TypePermissionLetter      DocumentType = "permissionLetter"
	TypeOfferLetter           DocumentType = "offerLetter"
	TypeCompletionCertificate DocumentType = "completionCertificate"
	TypeInternshipReport      DocumentType = "internshipReport"
	TypeStudentFeedback       DocumentType = "studentFeedback"
	TypeEmployerFeedback      DocumentType = "employerFeedback"

	// TypeUnknown is the sentinel for documents where no category scored
	// any keyword hits. It is a normal outcome, not an error.
	TypeUnknown DocumentType = "unknown"
)

// AllDocumentTypes lists every recognized category in canonical order.
// This order is also the rule-table iteration order, which drives
// tie-breaking in the classifier.
var AllDocumentTypes = []DocumentType{
	TypePermissionLetter,
	TypeOfferLetter,
	TypeCompletionCertificate,
	TypeInternshipReport,
	TypeStudentFeedback,
	TypeEmployerFeedback,
}

// IsValid reports whether t is a known document type, including unknown.
func (t DocumentType) IsValid() bool {
	if t == TypeUnknown {
		return true
	}
	return t.Recognized()
}

// Recognized reports whether t is one of the concrete categories,
// excluding the unknown sentinel.
func (t DocumentType) Recognized() bool {
	for _, dt := range AllDocumentTypes {
		if t == dt {
			return true
		}
	}
	return false
}

// Document is a processed upload and its classification outcome.
type Document struct {
	ID              uuid.UUID     `json:"id"`
	FileName        string        `json:"file_name"`
	ContentHash     string        `json:"content_hash"`
	SizeBytes       int64         `json:"size_bytes"`
	DocumentType    DocumentType  `json:"document_type"`
	Confidence      int           `json:"confidence"`
	MatchedKeywords []string      `json:"matched_keywords"`
	ExpectedType    *DocumentType `json:"expected_type,omitempty"`
	MatchesExpected bool          `json:"matches_expected"`
	CreatedAt       time.Time     `json:"created_at"`
}
