// Package extractor implements the text extraction port for uploaded
// documents.
package extractor

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"
)

// =============================================================================
// PDF Text Extractor
// =============================================================================

// PDFExtractor extracts plain text from PDF uploads and passes text
// uploads through unchanged.
type PDFExtractor struct {
	log zerolog.Logger
}

// NewPDFExtractor creates a new PDF extractor.
func NewPDFExtractor(log zerolog.Logger) *PDFExtractor {
	return &PDFExtractor{log: log}
}

// Supports reports whether the extractor can handle the content type.
func (e *PDFExtractor) Supports(contentType string) bool {
	mediaType := normalizeMediaType(contentType)
	return mediaType == "application/pdf" || strings.HasPrefix(mediaType, "text/")
}

// Extract returns the document's text content. Plain-text uploads are read
// as-is; PDFs go through the content-stream reader.
func (e *PDFExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mediaType := normalizeMediaType(contentType)
	if strings.HasPrefix(mediaType, "text/") {
		data, err := io.ReadAll(io.NewSectionReader(r, 0, size))
		if err != nil {
			return "", fmt.Errorf("failed to read text upload: %w", err)
		}
		return string(data), nil
	}

	text, err := e.extractPDF(r, size)
	if err != nil {
		e.log.Warn().Err(err).Int64("size", size).Msg("pdf extraction failed")
		return "", err
	}

	e.log.Debug().Int64("size", size).Int("text_len", len(text)).Msg("pdf extracted")
	return text, nil
}

// extractPDF recovers from parser panics: the reader panics on some
// malformed cross-reference tables instead of returning an error.
func (e *PDFExtractor) extractPDF(r io.ReaderAt, size int64) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}

	return sb.String(), nil
}

// normalizeMediaType strips parameters like "; charset=utf-8".
func normalizeMediaType(contentType string) string {
	mediaType, _, found := strings.Cut(contentType, ";")
	if found {
		mediaType = strings.TrimSpace(mediaType)
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}
