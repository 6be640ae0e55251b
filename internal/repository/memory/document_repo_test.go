package memory_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceflow/internal/domain"
	"invoiceflow/internal/repository/memory"
)

func newDoc(title string) *domain.Document {
	return &domain.Document{
		ID:      uuid.New(),
		Kind:    domain.DocumentKindInvoice,
		Title:   title,
		Content: `{"invoices":[]}`,
	}
}

func TestDocumentRepo_CreateAndGet(t *testing.T) {
	repo := memory.NewDocumentRepo()
	ctx := context.Background()

	doc := newDoc("Invoice: Acme - 1")
	require.NoError(t, repo.Create(ctx, doc))
	assert.False(t, doc.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Title, got.Title)

	got.Title = "mutated"
	again, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Invoice: Acme - 1", again.Title)
}

func TestDocumentRepo_GetByID_NotFound(t *testing.T) {
	repo := memory.NewDocumentRepo()

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestDocumentRepo_ListByKind_MostRecentFirst(t *testing.T) {
	repo := memory.NewDocumentRepo()
	ctx := context.Background()

	first, second, third := newDoc("first"), newDoc("second"), newDoc("third")
	for _, d := range []*domain.Document{first, second, third} {
		require.NoError(t, repo.Create(ctx, d))
	}
	other := newDoc("other")
	other.Kind = "receipt"
	require.NoError(t, repo.Create(ctx, other))

	docs, err := repo.ListByKind(ctx, domain.DocumentKindInvoice)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "third", docs[0].Title)
	assert.Equal(t, "second", docs[1].Title)
	assert.Equal(t, "first", docs[2].Title)
}

func TestDocumentRepo_ListByKind_Empty(t *testing.T) {
	docs, err := memory.NewDocumentRepo().ListByKind(context.Background(), domain.DocumentKindInvoice)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestDocumentRepo_UpdateContent(t *testing.T) {
	repo := memory.NewDocumentRepo()
	ctx := context.Background()
	doc := newDoc("before")
	require.NoError(t, repo.Create(ctx, doc))

	require.NoError(t, repo.UpdateContent(ctx, doc.ID, "after", `{"invoices":[{}]}`))
	got, err := repo.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, `{"invoices":[{}]}`, got.Content)

	err = repo.UpdateContent(ctx, uuid.New(), "x", "y")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestDocumentRepo_Delete(t *testing.T) {
	repo := memory.NewDocumentRepo()
	ctx := context.Background()
	doc := newDoc("gone")
	require.NoError(t, repo.Create(ctx, doc))

	require.NoError(t, repo.Delete(ctx, doc.ID))
	_, err := repo.GetByID(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, doc.ID), domain.ErrDocumentNotFound)
}
