package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"invoiceflow/internal/config"
	"invoiceflow/internal/domain"
	"invoiceflow/internal/port"
)

// SourceArchive keeps the raw text each invoice was extracted from in object storage.
type SourceArchive interface {
	Store(ctx context.Context, docID uuid.UUID, rawText string) error
	Fetch(ctx context.Context, docID uuid.UUID) (string, error)
	Remove(ctx context.Context, docID uuid.UUID) error
}

type sourceArchive struct {
	storage port.ObjectStorage
	cfg     *config.S3Config
}

// NewSourceArchive returns an archive over storage, or a no-op archive when
// archiving is disabled or storage is nil.
func NewSourceArchive(storage port.ObjectStorage, cfg *config.S3Config) SourceArchive {
	if storage == nil || cfg == nil || !cfg.ArchiveEnabled {
		return disabledArchive{}
	}
	return &sourceArchive{storage: storage, cfg: cfg}
}

// ArchiveKey is the object key of a document's source text.
func ArchiveKey(prefix string, docID uuid.UUID) string {
	return path.Join(strings.Trim(prefix, "/"), docID.String()+".txt")
}

func (a *sourceArchive) Store(ctx context.Context, docID uuid.UUID, rawText string) error {
	_, err := a.storage.Upload(ctx, port.UploadInput{
		Bucket:      a.cfg.Bucket,
		Key:         ArchiveKey(a.cfg.ArchivePrefix, docID),
		Body:        strings.NewReader(rawText),
		ContentType: "text/plain; charset=utf-8",
		Size:        int64(len(rawText)),
	})
	if err != nil {
		return fmt.Errorf("sourceArchive.Store: %w", err)
	}
	return nil
}

func (a *sourceArchive) Fetch(ctx context.Context, docID uuid.UUID) (string, error) {
	b, err := a.storage.Download(ctx, a.cfg.Bucket, ArchiveKey(a.cfg.ArchivePrefix, docID))
	if err != nil {
		return "", fmt.Errorf("sourceArchive.Fetch: %w", err)
	}
	return string(b), nil
}

func (a *sourceArchive) Remove(ctx context.Context, docID uuid.UUID) error {
	if err := a.storage.Delete(ctx, a.cfg.Bucket, ArchiveKey(a.cfg.ArchivePrefix, docID)); err != nil {
		return fmt.Errorf("sourceArchive.Remove: %w", err)
	}
	return nil
}

type disabledArchive struct{}

func (disabledArchive) Store(context.Context, uuid.UUID, string) error { return nil }

func (disabledArchive) Fetch(context.Context, uuid.UUID) (string, error) {
	return "", domain.ErrArchiveDisabled
}

func (disabledArchive) Remove(context.Context, uuid.UUID) error { return nil }
