// Package persistence provides database adapters implementing outbound ports.
package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"document_server/core/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// =============================================================================
// Document Adapter
// =============================================================================

// DocumentAdapter implements out.DocumentRepository using PostgreSQL.
type DocumentAdapter struct {
	db *sqlx.DB
}

// NewDocumentAdapter creates a new DocumentAdapter.
func NewDocumentAdapter(db *sqlx.DB) *DocumentAdapter {
	return &DocumentAdapter{db: db}
}

// documentRow represents the database row.
type documentRow struct {
	ID              uuid.UUID      `db:"id"`
	FileName        string         `db:"file_name"`
	ContentHash     string         `db:"content_hash"`
	SizeBytes       int64          `db:"size_bytes"`
	DocumentType    string         `db:"document_type"`
	Confidence      int            `db:"confidence"`
	MatchedKeywords pq.StringArray `db:"matched_keywords"`
	ExpectedType    sql.NullString `db:"expected_type"`
	MatchesExpected bool           `db:"matches_expected"`
	CreatedAt       sql.NullTime   `db:"created_at"`
}

func (r *documentRow) toEntity() *domain.Document {
	doc := &domain.Document{
		ID:              r.ID,
		FileName:        r.FileName,
		ContentHash:     r.ContentHash,
		SizeBytes:       r.SizeBytes,
		DocumentType:    domain.DocumentType(r.DocumentType),
		Confidence:      r.Confidence,
		MatchedKeywords: []string(r.MatchedKeywords),
		MatchesExpected: r.MatchesExpected,
	}
	if doc.MatchedKeywords == nil {
		doc.MatchedKeywords = []string{}
	}
	if r.ExpectedType.Valid {
		expected := domain.DocumentType(r.ExpectedType.String)
		doc.ExpectedType = &expected
	}
	if r.CreatedAt.Valid {
		doc.CreatedAt = r.CreatedAt.Time
	}
	return doc
}

// Save inserts a classification record.
func (a *DocumentAdapter) Save(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (
			id, file_name, content_hash, size_bytes, document_type,
			confidence, matched_keywords, expected_type, matches_expected, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var expected sql.NullString
	if doc.ExpectedType != nil {
		expected = sql.NullString{String: string(*doc.ExpectedType), Valid: true}
	}

	_, err := a.db.ExecContext(ctx, query,
		doc.ID,
		doc.FileName,
		doc.ContentHash,
		doc.SizeBytes,
		string(doc.DocumentType),
		doc.Confidence,
		pq.StringArray(doc.MatchedKeywords),
		expected,
		doc.MatchesExpected,
		doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	return nil
}

// GetByID retrieves a record by ID. Returns nil when not found.
func (a *DocumentAdapter) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	var row documentRow
	query := `SELECT * FROM documents WHERE id = $1`

	if err := a.db.GetContext(ctx, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return row.toEntity(), nil
}

// List retrieves records, newest first.
func (a *DocumentAdapter) List(ctx context.Context, limit, offset int) ([]*domain.Document, error) {
	var rows []documentRow
	query := `SELECT * FROM documents ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	if err := a.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	docs := make([]*domain.Document, len(rows))
	for i, row := range rows {
		docs[i] = row.toEntity()
	}

	return docs, nil
}

// Count returns the total number of stored records.
func (a *DocumentAdapter) Count(ctx context.Context) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM documents`

	if err := a.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}

	return count, nil
}
