// Package in defines inbound ports consumed by transport adapters.
package in

import (
	"context"

	"document_server/core/domain"

	"github.com/google/uuid"
)

// Upload describes one submitted document.
type Upload struct {
	FileName     string
	ContentType  string
	Content      []byte
	ExpectedType domain.DocumentType // empty for no expectation
}

// ProcessedDocument is the outcome of processing one upload.
type ProcessedDocument struct {
	DocumentID uuid.UUID                   `json:"document_id"`
	FileName   string                      `json:"file_name"`
	Hash       string                      `json:"content_hash"`
	Result     domain.ClassificationResult `json:"result"`
	Cached     bool                        `json:"cached"`
}

// DocumentService is the application boundary for document processing.
type DocumentService interface {
	// SubmitDocument extracts, classifies, and records an upload.
	SubmitDocument(ctx context.Context, upload Upload) (*ProcessedDocument, error)

	// ClassifyText runs the classifier directly over caller-supplied text.
	ClassifyText(ctx context.Context, text string, expected domain.DocumentType) (domain.ClassificationResult, error)

	// GetDocument returns a stored record with its archived text when available.
	GetDocument(ctx context.Context, id uuid.UUID) (*domain.Document, string, error)

	// ListDocuments pages through stored records, newest first.
	ListDocuments(ctx context.Context, limit, offset int) ([]*domain.Document, int, error)
}
