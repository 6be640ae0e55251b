package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"invoiceflow/internal/accounting"
	"invoiceflow/internal/domain"
	"invoiceflow/internal/export"
	"invoiceflow/internal/invoicedoc"
	"invoiceflow/internal/port"
	"invoiceflow/internal/stream"
)

const (
	TitleInvoiceCollection = "Invoice Collection"
	MessageDisplayed       = "The invoice data is now displayed in the invoice block."
	MessageRegenerated     = "The invoice has been updated."
	MessageOperationFailed = "The operation could not be completed. Please try again."
)

// DefaultDeleteSettleDelay is how long DeleteInvoice waits before verifying.
const DefaultDeleteSettleDelay = 500 * time.Millisecond

// OperationResult reports the outcome of an interactive edit or delete.
// These operations never return a Go error.
type OperationResult struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Invoice *domain.Invoice `json:"invoice,omitempty"`
}

// DisplayResult is the report of a display request.
type DisplayResult struct {
	ID      string              `json:"id"`
	Title   string              `json:"title"`
	Kind    domain.DocumentKind `json:"kind"`
	Content string              `json:"content"`
}

// RegenerateResult is the report of a structured update.
type RegenerateResult struct {
	ID      string              `json:"id"`
	Title   string              `json:"title"`
	Kind    domain.DocumentKind `json:"kind"`
	Content string              `json:"content"`
	Invoice domain.Invoice      `json:"invoice"`
	Usage   domain.TokenUsage   `json:"tokenUsage"`
}

// InvoiceService covers everything done to invoices after processing:
// display, structured updates, direct edits, deletion, listing and export.
type InvoiceService interface {
	DisplayExisting(ctx context.Context, invoiceID string, sink port.StreamSink) (*DisplayResult, error)
	Regenerate(ctx context.Context, documentID, description string, sink port.StreamSink) (*RegenerateResult, error)
	UpdateInvoice(ctx context.Context, documentID, content string) OperationResult
	SaveInvoiceEdit(ctx context.Context, invoice domain.Invoice) OperationResult
	EditLineItem(ctx context.Context, documentID string, invoiceIndex, lineIndex int, edit invoicedoc.LineItemEdit) OperationResult
	DeleteInvoice(ctx context.Context, documentID string) OperationResult
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	Source(ctx context.Context, documentID string) (string, error)
	Export(ctx context.Context, format domain.ExportFormat, w io.Writer) error
}

type invoiceService struct {
	repo        port.DocumentRepository
	updater     port.InvoiceUpdater
	archive     SourceArchive
	settleDelay time.Duration
	log         *zap.Logger
}

// NewInvoiceService creates a new InvoiceService. A non-positive settleDelay
// uses DefaultDeleteSettleDelay.
func NewInvoiceService(
	repo port.DocumentRepository,
	updater port.InvoiceUpdater,
	archive SourceArchive,
	settleDelay time.Duration,
	log *zap.Logger,
) InvoiceService {
	if settleDelay <= 0 {
		settleDelay = DefaultDeleteSettleDelay
	}
	if archive == nil {
		archive = disabledArchive{}
	}
	return &invoiceService{
		repo:        repo,
		updater:     updater,
		archive:     archive,
		settleDelay: settleDelay,
		log:         log,
	}
}

func parseDocumentID(id string) (uuid.UUID, error) {
	if id == "" {
		return uuid.Nil, domain.ErrMissingDocumentID
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidDocumentID
	}
	return parsed, nil
}

// OperationErrors are the failures reported to callers by name. Any other
// error is a hard failure: it is logged and reported as MessageOperationFailed.
var OperationErrors = []error{
	domain.ErrDocumentNotFound,
	domain.ErrInvalidDocumentID,
	domain.ErrMissingDocumentID,
	domain.ErrInvalidContent,
	domain.ErrLineItemOutOfRange,
	domain.ErrInvalidLineItem,
	domain.ErrDeletionIncomplete,
}

func (s *invoiceService) failed(op, documentID string, err error) OperationResult {
	for _, known := range OperationErrors {
		if errors.Is(err, known) {
			return OperationResult{Success: false, Error: known.Error()}
		}
	}
	s.log.Error("invoiceService."+op+": operation failed", zap.String("document_id", documentID), zap.Error(err))
	return OperationResult{Success: false, Error: MessageOperationFailed}
}

func (s *invoiceService) DisplayExisting(ctx context.Context, invoiceID string, sink port.StreamSink) (*DisplayResult, error) {
	docs, err := s.repo.ListByKind(ctx, domain.DocumentKindInvoice)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.DisplayExisting: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrNoInvoices
	}

	pub := stream.NewPublisher(sink)
	id := invoiceID

	if invoiceID != "" {
		var found *domain.Document
		for i := range docs {
			if docs[i].ID.String() == invoiceID {
				found = &docs[i]
				break
			}
		}
		if found == nil || found.Content == "" {
			return nil, domain.ErrInvoiceNotFound
		}
		if err := pub.PublishDocument(ctx, found.ID.String(), found.Title, found.Content); err != nil {
			s.log.Warn("invoiceService.DisplayExisting: stream delivery failed", zap.Error(err))
		}
	} else {
		all := invoicedoc.Aggregate(docs)
		if len(all) == 0 {
			return nil, domain.ErrNoValidInvoices
		}
		payload, err := invoicedoc.EncodePretty(all, domain.TokenUsage{})
		if err != nil {
			return nil, err
		}
		id = docs[0].ID.String()
		if err := pub.PublishDocument(ctx, id, TitleAllInvoices, payload); err != nil {
			s.log.Warn("invoiceService.DisplayExisting: stream delivery failed", zap.Error(err))
		}
	}

	return &DisplayResult{
		ID:      id,
		Title:   TitleInvoiceCollection,
		Kind:    domain.DocumentKindInvoice,
		Content: MessageDisplayed,
	}, nil
}

func (s *invoiceService) Regenerate(ctx context.Context, documentID, description string, sink port.StreamSink) (*RegenerateResult, error) {
	id, err := parseDocumentID(documentID)
	if err != nil {
		return nil, err
	}
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	out, err := s.updater.Update(ctx, doc.Content, description)
	if err != nil {
		return nil, err
	}

	extraction, err := invoicedoc.ParseExtraction(out.Text)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.Regenerate: %w: %v", domain.ErrInvalidContent, err)
	}
	if extraction.Rejected() {
		return nil, fmt.Errorf("invoiceService.Regenerate: %w: %s", domain.ErrInvalidContent, extraction.Rejection)
	}

	inv := extraction.Invoice
	if inv.DocumentID == "" {
		inv.DocumentID = doc.ID.String()
	}
	inv.TokenUsage = nil
	usage := accounting.Compute(out.InputTokens, out.OutputTokens)
	title := fmt.Sprintf("Invoice: %s - %s", inv.VendorName, inv.InvoiceNumber)

	content, err := invoicedoc.Encode([]domain.Invoice{inv}, usage)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateContent(ctx, doc.ID, title, content); err != nil {
		return nil, fmt.Errorf("invoiceService.Regenerate: %w", err)
	}

	payload, err := invoicedoc.EncodePretty([]domain.Invoice{inv}, usage)
	if err != nil {
		return nil, err
	}
	if err := stream.NewPublisher(sink).PublishDocument(ctx, doc.ID.String(), title, payload); err != nil {
		s.log.Warn("invoiceService.Regenerate: stream delivery failed", zap.Error(err))
	}

	return &RegenerateResult{
		ID:      doc.ID.String(),
		Title:   title,
		Kind:    domain.DocumentKindInvoice,
		Content: MessageRegenerated,
		Invoice: inv,
		Usage:   usage,
	}, nil
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, documentID, content string) OperationResult {
	id, err := parseDocumentID(documentID)
	if err != nil {
		return s.failed("UpdateInvoice", documentID, err)
	}
	if !json.Valid([]byte(content)) {
		return s.failed("UpdateInvoice", documentID, domain.ErrInvalidContent)
	}

	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.failed("UpdateInvoice", documentID, err)
	}
	if err := s.repo.UpdateContent(ctx, id, doc.Title, content); err != nil {
		return s.failed("UpdateInvoice", documentID, err)
	}
	return OperationResult{Success: true}
}

func (s *invoiceService) SaveInvoiceEdit(ctx context.Context, invoice domain.Invoice) OperationResult {
	id, err := parseDocumentID(invoice.DocumentID)
	if err != nil {
		return s.failed("SaveInvoiceEdit", invoice.DocumentID, err)
	}

	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.failed("SaveInvoiceEdit", invoice.DocumentID, err)
	}
	usage := invoicedoc.Decode(doc.Content).Usage()
	invoice.TokenUsage = nil

	content, err := invoicedoc.Encode([]domain.Invoice{invoice}, usage)
	if err != nil {
		return s.failed("SaveInvoiceEdit", invoice.DocumentID, err)
	}
	if err := s.repo.UpdateContent(ctx, id, doc.Title, content); err != nil {
		return s.failed("SaveInvoiceEdit", invoice.DocumentID, err)
	}
	return OperationResult{Success: true, Invoice: &invoice}
}

func (s *invoiceService) EditLineItem(ctx context.Context, documentID string, invoiceIndex, lineIndex int, edit invoicedoc.LineItemEdit) OperationResult {
	id, err := parseDocumentID(documentID)
	if err != nil {
		return s.failed("EditLineItem", documentID, err)
	}

	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.failed("EditLineItem", documentID, err)
	}
	content, err := invoicedoc.DecodeStrict(doc.Content)
	if err != nil {
		return s.failed("EditLineItem", documentID, domain.ErrInvalidContent)
	}

	// invoiceIndex counts valid entries only, matching the aggregate view.
	invoices := content.Invoices(doc.ID.String())
	var positions []int
	for i := range invoices {
		if !invoices[i].IsRejection() {
			positions = append(positions, i)
		}
	}
	if invoiceIndex < 0 || invoiceIndex >= len(positions) {
		return s.failed("EditLineItem", documentID, domain.ErrLineItemOutOfRange)
	}
	target := positions[invoiceIndex]
	if err := invoicedoc.ApplyLineItemEdit(&invoices[target], lineIndex, edit); err != nil {
		return s.failed("EditLineItem", documentID, err)
	}

	encoded, err := invoicedoc.Encode(invoices, content.Usage())
	if err != nil {
		return s.failed("EditLineItem", documentID, err)
	}
	if err := s.repo.UpdateContent(ctx, id, doc.Title, encoded); err != nil {
		return s.failed("EditLineItem", documentID, err)
	}
	updated := invoices[target]
	return OperationResult{Success: true, Invoice: &updated}
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, documentID string) OperationResult {
	id, err := parseDocumentID(documentID)
	if err != nil {
		return s.failed("DeleteInvoice", documentID, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.failed("DeleteInvoice", documentID, err)
	}

	timer := time.NewTimer(s.settleDelay)
	select {
	case <-timer.C:
	case <-ctx.Done():
		timer.Stop()
		return s.failed("DeleteInvoice", documentID, ctx.Err())
	}

	_, err = s.repo.GetByID(ctx, id)
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
	case err != nil:
		return s.failed("DeleteInvoice", documentID, err)
	default:
		s.log.Error("invoiceService.DeleteInvoice: document still exists after deletion", zap.String("document_id", documentID))
		return s.failed("DeleteInvoice", documentID, domain.ErrDeletionIncomplete)
	}

	if err := s.archive.Remove(ctx, id); err != nil {
		s.log.Warn("invoiceService.DeleteInvoice: removing archived source failed", zap.String("document_id", documentID), zap.Error(err))
	}
	return OperationResult{Success: true}
}

func (s *invoiceService) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	docs, err := s.repo.ListByKind(ctx, domain.DocumentKindInvoice)
	if err != nil {
		return nil, fmt.Errorf("invoiceService.ListInvoices: %w", err)
	}
	return invoicedoc.Aggregate(docs), nil
}

func (s *invoiceService) Source(ctx context.Context, documentID string) (string, error) {
	id, err := parseDocumentID(documentID)
	if err != nil {
		return "", err
	}
	return s.archive.Fetch(ctx, id)
}

func (s *invoiceService) Export(ctx context.Context, format domain.ExportFormat, w io.Writer) error {
	if !domain.ValidExportFormats[format] {
		return domain.ErrUnsupportedExportFormat
	}
	invoices, err := s.ListInvoices(ctx)
	if err != nil {
		return err
	}
	switch format {
	case domain.ExportFormatXLSX:
		return export.WriteXLSX(w, invoices)
	default:
		return export.WriteCSV(w, invoices)
	}
}
