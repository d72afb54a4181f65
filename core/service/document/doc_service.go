// Package document orchestrates upload processing: extraction,
// classification, persistence, and result caching.
package document

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"document_server/core/domain"
	"document_server/core/port/in"
	"document_server/core/port/out"
	"document_server/core/service/classification"
	"document_server/pkg/apperr"
	"document_server/pkg/logger"

	"github.com/google/uuid"
)

// Service implements in.DocumentService.
type Service struct {
	classifier *classification.Classifier
	extractor  out.TextExtractor
	repo       out.DocumentRepository
	archive    out.TextArchive // optional
	cache      out.ResultCache // optional
	cacheTTL   time.Duration
}

// NewService creates the document service. archive and cache may be nil;
// the service degrades to extraction + classification + persistence.
func NewService(
	classifier *classification.Classifier,
	extractor out.TextExtractor,
	repo out.DocumentRepository,
	archive out.TextArchive,
	cache out.ResultCache,
	cacheTTL time.Duration,
) *Service {
	return &Service{
		classifier: classifier,
		extractor:  extractor,
		repo:       repo,
		archive:    archive,
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

var _ in.DocumentService = (*Service)(nil)

// SubmitDocument extracts text from an upload, classifies it, records the
// outcome, and archives the extracted text.
func (s *Service) SubmitDocument(ctx context.Context, upload in.Upload) (*in.ProcessedDocument, error) {
	if len(upload.Content) == 0 {
		return nil, apperr.BadRequest("uploaded document is empty")
	}
	if upload.ExpectedType != "" && !upload.ExpectedType.Recognized() {
		return nil, apperr.InvalidInput("expected_type", "unrecognized document type: "+string(upload.ExpectedType))
	}
	if !s.extractor.Supports(upload.ContentType) {
		return nil, apperr.UnsupportedMedia(upload.ContentType)
	}

	hash := contentHash(upload.Content)

	// Identical content with the same expectation always classifies the
	// same way, so the cached result is authoritative.
	cacheKey := resultCacheKey(hash, upload.ExpectedType)
	if s.cache != nil {
		var cached in.ProcessedDocument
		hit, err := s.cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			logger.WithError(err).Warn("Result cache lookup failed for %s", hash)
		} else if hit {
			cached.Cached = true
			return &cached, nil
		}
	}

	text, err := s.extractor.Extract(ctx, bytes.NewReader(upload.Content), int64(len(upload.Content)), upload.ContentType)
	if err != nil {
		return nil, apperr.ExtractionFailed(upload.FileName, err)
	}

	result := s.classifier.Classify(text, upload.ExpectedType)

	doc := &domain.Document{
		ID:              uuid.New(),
		FileName:        upload.FileName,
		ContentHash:     hash,
		SizeBytes:       int64(len(upload.Content)),
		DocumentType:    result.DocumentType,
		Confidence:      result.Confidence,
		MatchedKeywords: result.MatchedKeywords,
		MatchesExpected: result.MatchesExpected,
		CreatedAt:       time.Now().UTC(),
	}
	if upload.ExpectedType != "" {
		expected := upload.ExpectedType
		doc.ExpectedType = &expected
	}

	if err := s.repo.Save(ctx, doc); err != nil {
		return nil, apperr.DatabaseError("save document", err)
	}

	// Archive failures must not fail the request: the classification has
	// already been recorded.
	if s.archive != nil && text != "" {
		if err := s.archive.Store(ctx, doc.ID, text); err != nil {
			logger.WithError(err).Warn("Failed to archive extracted text for %s", doc.ID)
		}
	}

	processed := &in.ProcessedDocument{
		DocumentID: doc.ID,
		FileName:   doc.FileName,
		Hash:       hash,
		Result:     result,
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, processed, s.cacheTTL); err != nil {
			logger.WithError(err).Warn("Failed to cache result for %s", hash)
		}
	}

	return processed, nil
}

// ClassifyText runs the classifier over raw text without persisting
// anything. Empty text is valid and yields an unknown result.
func (s *Service) ClassifyText(ctx context.Context, text string, expected domain.DocumentType) (domain.ClassificationResult, error) {
	if expected != "" && !expected.Recognized() {
		return domain.ClassificationResult{}, apperr.InvalidInput("expected_type", "unrecognized document type: "+string(expected))
	}
	return s.classifier.Classify(text, expected), nil
}

// GetDocument loads a stored record and, when archived, its extracted text.
func (s *Service) GetDocument(ctx context.Context, id uuid.UUID) (*domain.Document, string, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", apperr.DatabaseError("get document", err)
	}
	if doc == nil {
		return nil, "", apperr.NotFound("document")
	}

	text := ""
	if s.archive != nil {
		text, err = s.archive.Fetch(ctx, id)
		if err != nil {
			logger.WithError(err).Warn("Failed to fetch archived text for %s", id)
			text = ""
		}
	}

	return doc, text, nil
}

// ListDocuments pages through stored records, newest first.
func (s *Service) ListDocuments(ctx context.Context, limit, offset int) ([]*domain.Document, int, error) {
	docs, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperr.DatabaseError("list documents", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, apperr.DatabaseError("count documents", err)
	}
	return docs, total, nil
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func resultCacheKey(hash string, expected domain.DocumentType) string {
	if expected == "" {
		return fmt.Sprintf("doc:result:%s", hash)
	}
	return fmt.Sprintf("doc:result:%s:%s", hash, expected)
}
