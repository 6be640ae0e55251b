package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"invoiceflow/internal/domain"
	"invoiceflow/internal/invoicedoc"
	"invoiceflow/internal/port"
)

// ExistingInvoice is the result of a lookup by vendor, number and amount.
type ExistingInvoice struct {
	Exists     bool            `json:"exists"`
	DocumentID string          `json:"documentId,omitempty"`
	Invoice    *domain.Invoice `json:"invoice,omitempty"`
}

// DuplicateService finds stored invoices matching a duplicate key.
type DuplicateService interface {
	FindDuplicate(ctx context.Context, key invoicedoc.Key) (*port.DuplicateMatch, error)
	GetExistingByDetails(ctx context.Context, key invoicedoc.Key) (*ExistingInvoice, error)
}

type duplicateService struct {
	repo port.DocumentRepository
	log  *zap.Logger
}

// NewDuplicateService creates a DuplicateService that scans every invoice document.
func NewDuplicateService(repo port.DocumentRepository, log *zap.Logger) DuplicateService {
	return &duplicateService{repo: repo, log: log}
}

// FindDuplicate scans documents in store order (most recent first) and
// returns the first invoice whose key matches. Undecodable documents are skipped.
func (s *duplicateService) FindDuplicate(ctx context.Context, key invoicedoc.Key) (*port.DuplicateMatch, error) {
	if !key.Complete() {
		return nil, nil
	}

	docs, err := s.repo.ListByKind(ctx, domain.DocumentKindInvoice)
	if err != nil {
		return nil, fmt.Errorf("duplicateService.FindDuplicate: %w", err)
	}

	for i := range docs {
		content, err := invoicedoc.DecodeStrict(docs[i].Content)
		if err != nil {
			s.log.Debug("duplicateService.FindDuplicate: skipping undecodable document",
				zap.String("document_id", docs[i].ID.String()), zap.Error(err))
			continue
		}
		for _, inv := range content.Invoices(docs[i].ID.String()) {
			if inv.IsRejection() {
				continue
			}
			if key.Matches(invoicedoc.KeyOf(inv)) {
				return &port.DuplicateMatch{DocumentID: docs[i].ID.String(), Invoice: inv}, nil
			}
		}
	}
	return nil, nil
}

func (s *duplicateService) GetExistingByDetails(ctx context.Context, key invoicedoc.Key) (*ExistingInvoice, error) {
	match, err := s.FindDuplicate(ctx, key)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return &ExistingInvoice{}, nil
	}
	inv := match.Invoice
	return &ExistingInvoice{Exists: true, DocumentID: match.DocumentID, Invoice: &inv}, nil
}
