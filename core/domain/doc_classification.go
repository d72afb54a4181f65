package domain

// CategoryScore is the per-category evidence collected while classifying
// a single text. Matched preserves rule-table keyword order, not the
// order keywords appear in the text.
type CategoryScore struct {
	Type       DocumentType `json:"type"`
	Hits       int          `json:"hits"`
	Confidence int          `json:"confidence"`
	Matched    []string     `json:"matched"`
}

// ClassificationResult is the outcome of one classification call.
type ClassificationResult struct {
	DocumentType    DocumentType `json:"document_type"`
	Confidence      int          `json:"confidence"`
	MatchesExpected bool         `json:"matches_expected"`
	MatchedKeywords []string     `json:"matched_keywords"`
}
