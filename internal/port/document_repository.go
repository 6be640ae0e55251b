package port

import (
	"context"

	"github.com/google/uuid"

	"invoiceflow/internal/domain"
)

// DocumentRepository defines the contract for document persistence.
// Reads return whatever is currently committed; no read-after-write or
// read-after-delete guarantee is assumed.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	// GetByID returns domain.ErrDocumentNotFound when the document is absent.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	// ListByKind returns documents most-recent-first.
	ListByKind(ctx context.Context, kind domain.DocumentKind) ([]domain.Document, error)
	UpdateContent(ctx context.Context, id uuid.UUID, title, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}
