package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"invoiceflow/internal/domain"
	"invoiceflow/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO documents (id, kind, title, content, created_at, updated_at)
		 VALUES (:id, :kind, :title, :content, :created_at, :updated_at)`, doc)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc,
		"SELECT id, kind, title, content, created_at, updated_at FROM documents WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) ListByKind(ctx context.Context, kind domain.DocumentKind) ([]domain.Document, error) {
	docs := []domain.Document{}
	err := r.db.SelectContext(ctx, &docs,
		`SELECT id, kind, title, content, created_at, updated_at FROM documents
		 WHERE kind = $1
		 ORDER BY created_at DESC, id DESC`, kind)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListByKind: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) UpdateContent(ctx context.Context, id uuid.UUID, title, content string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET title = $1, content = $2, updated_at = $3 WHERE id = $4`,
		title, content, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateContent: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
