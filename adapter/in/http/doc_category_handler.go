package http

import (
	"document_server/core/service/classification"
	"document_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler exposes the configured rule table.
type CategoryHandler struct {
	table *classification.RuleTable
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(table *classification.RuleTable) *CategoryHandler {
	return &CategoryHandler{table: table}
}

// Register registers category routes.
func (h *CategoryHandler) Register(app fiber.Router) {
	app.Get("/categories", h.ListCategories)
}

// CategoryMeta contains metadata for a category.
type CategoryMeta struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// categoryNames maps category keys to display names.
var categoryNames = map[string]string{
	"permissionLetter":      "Permission Letter",
	"offerLetter":           "Offer Letter",
	"completionCertificate": "Completion Certificate",
	"internshipReport":      "Internship Report",
	"studentFeedback":       "Student Feedback",
	"employerFeedback":      "Employer Feedback",
}

// ListCategories returns all configured categories and their keyword evidence.
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	rules := h.table.Categories()
	metas := make([]CategoryMeta, len(rules))
	for i, rule := range rules {
		name := categoryNames[string(rule.Type)]
		if name == "" {
			name = string(rule.Type)
		}
		metas[i] = CategoryMeta{
			Key:      string(rule.Type),
			Name:     name,
			Keywords: rule.Keywords,
		}
	}

	return response.OK(c, metas)
}
