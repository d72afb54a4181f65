// Package http implements the Fiber HTTP handlers.
package http

import (
	"io"
	nethttp "net/http"
	"strings"

	"document_server/core/domain"
	"document_server/core/port/in"
	"document_server/pkg/apperr"
	"document_server/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// DocumentHandler handles document upload and classification endpoints.
type DocumentHandler struct {
	service in.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(service in.DocumentService) *DocumentHandler {
	return &DocumentHandler{service: service}
}

// Register registers document routes.
func (h *DocumentHandler) Register(app fiber.Router) {
	docs := app.Group("/documents")
	docs.Post("/", h.Upload)
	docs.Get("/", h.List)
	docs.Get("/:id", h.Get)

	app.Post("/classify", h.Classify)
}

// RegisterLegacy registers the pre-versioning upload route.
func (h *DocumentHandler) RegisterLegacy(app *fiber.App) {
	app.Post("/upload", h.Upload)
}

// =============================================================================
// Upload
// =============================================================================

// uploadResponse is the upload endpoint payload.
type uploadResponse struct {
	DocumentID      string   `json:"document_id"`
	FileName        string   `json:"file_name"`
	ContentHash     string   `json:"content_hash"`
	DocumentType    string   `json:"document_type"`
	Confidence      int      `json:"confidence"`
	MatchesExpected bool     `json:"matches_expected"`
	MatchedKeywords []string `json:"matched_keywords"`
	Cached          bool     `json:"cached"`
}

// Upload accepts a multipart document, classifies it, and returns the result.
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("document")
	if err != nil {
		// Legacy clients upload under the "pdf" field.
		fileHeader, err = c.FormFile("pdf")
	}
	if err != nil {
		return apperr.MissingField("document")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperr.BadRequest("failed to open uploaded file")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return apperr.BadRequest("failed to read uploaded file")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = sniffContentType(fileHeader.Filename, content)
	}

	expected := strings.TrimSpace(c.FormValue("expected_type", c.Query("expected_type")))

	processed, err := h.service.SubmitDocument(c.Context(), in.Upload{
		FileName:     fileHeader.Filename,
		ContentType:  contentType,
		Content:      content,
		ExpectedType: domain.DocumentType(expected),
	})
	if err != nil {
		return err
	}

	return response.Created(c, uploadResponse{
		DocumentID:      processed.DocumentID.String(),
		FileName:        processed.FileName,
		ContentHash:     processed.Hash,
		DocumentType:    string(processed.Result.DocumentType),
		Confidence:      processed.Result.Confidence,
		MatchesExpected: processed.Result.MatchesExpected,
		MatchedKeywords: processed.Result.MatchedKeywords,
		Cached:          processed.Cached,
	})
}

// sniffContentType falls back to extension, then content sniffing.
func sniffContentType(filename string, content []byte) string {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return "application/pdf"
	}
	if strings.HasSuffix(strings.ToLower(filename), ".txt") {
		return "text/plain"
	}
	return nethttp.DetectContentType(content)
}

// =============================================================================
// Classify
// =============================================================================

type classifyRequest struct {
	Text         string `json:"text"`
	ExpectedType string `json:"expected_type"`
}

// Classify runs the classifier directly over caller-supplied text.
func (h *DocumentHandler) Classify(c *fiber.Ctx) error {
	var req classifyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.BadRequest("invalid request body")
	}

	result, err := h.service.ClassifyText(c.Context(), req.Text, domain.DocumentType(strings.TrimSpace(req.ExpectedType)))
	if err != nil {
		return err
	}

	return response.OK(c, result)
}

// =============================================================================
// History
// =============================================================================

// List returns stored classification records, newest first.
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	params := response.GetPagination(c, 20, 100)

	docs, total, err := h.service.ListDocuments(c.Context(), params.Limit, params.Offset)
	if err != nil {
		return err
	}

	return response.OKWithMeta(c, docs, &response.Meta{
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
		HasMore:  params.Offset+len(docs) < total,
	})
}

// documentDetail is the single-record payload including archived text.
type documentDetail struct {
	*domain.Document
	ExtractedText string `json:"extracted_text,omitempty"`
}

// Get returns one stored record with its archived text when available.
func (h *DocumentHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.InvalidInput("id", "must be a valid UUID")
	}

	doc, text, err := h.service.GetDocument(c.Context(), id)
	if err != nil {
		return err
	}

	return response.OK(c, documentDetail{
		Document:      doc,
		ExtractedText: text,
	})
}
