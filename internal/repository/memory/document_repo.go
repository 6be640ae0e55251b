// Package memory holds in-process repositories used by the CLI and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"invoiceflow/internal/domain"
	"invoiceflow/internal/port"
)

type entry struct {
	doc domain.Document
	seq uint64
}

// DocumentRepo is a mutex-guarded map of documents. Callers always receive copies.
type DocumentRepo struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]entry
	seq  uint64
	now  func() time.Time
}

var _ port.DocumentRepository = (*DocumentRepo)(nil)

// NewDocumentRepo creates an empty in-memory DocumentRepository.
func NewDocumentRepo() *DocumentRepo {
	return &DocumentRepo{
		docs: make(map[uuid.UUID]entry),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (r *DocumentRepo) Create(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	r.seq++
	r.docs[doc.ID] = entry{doc: *doc, seq: r.seq}
	return nil
}

func (r *DocumentRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	doc := e.doc
	return &doc, nil
}

func (r *DocumentRepo) ListByKind(_ context.Context, kind domain.DocumentKind) ([]domain.Document, error) {
	r.mu.RLock()
	matched := make([]entry, 0, len(r.docs))
	for _, e := range r.docs {
		if e.doc.Kind == kind {
			matched = append(matched, e)
		}
	}
	r.mu.RUnlock()

	// Most recent first; insertion order breaks timestamp ties.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].doc.CreatedAt.Equal(matched[j].doc.CreatedAt) {
			return matched[i].doc.CreatedAt.After(matched[j].doc.CreatedAt)
		}
		return matched[i].seq > matched[j].seq
	})

	docs := make([]domain.Document, len(matched))
	for i, e := range matched {
		docs[i] = e.doc
	}
	return docs, nil
}

func (r *DocumentRepo) UpdateContent(_ context.Context, id uuid.UUID, title, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.docs[id]
	if !ok {
		return domain.ErrDocumentNotFound
	}
	e.doc.Title = title
	e.doc.Content = content
	e.doc.UpdatedAt = r.now()
	r.docs[id] = e
	return nil
}

func (r *DocumentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[id]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(r.docs, id)
	return nil
}

// PingContext always succeeds.
func (r *DocumentRepo) PingContext(context.Context) error {
	return nil
}
