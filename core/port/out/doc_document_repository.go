package out

import (
	"context"

	"document_server/core/domain"

	"github.com/google/uuid"
)

// DocumentRepository persists classification records.
type DocumentRepository interface {
	Save(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Document, error)
	Count(ctx context.Context) (int, error)
}

// TextArchive stores the extracted text of processed documents. Writes are
// best-effort: the classification result does not depend on the archive.
type TextArchive interface {
	Store(ctx context.Context, documentID uuid.UUID, text string) error
	Fetch(ctx context.Context, documentID uuid.UUID) (string, error)
}
