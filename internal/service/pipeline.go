package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"invoiceflow/internal/accounting"
	"invoiceflow/internal/domain"
	"invoiceflow/internal/invoicedoc"
	"invoiceflow/internal/port"
	"invoiceflow/internal/stream"
)

// Result titles and messages shown to the user.
const (
	TitleInvalidInvoice   = "Invalid Invoice"
	TitleProcessingError  = "Invoice Processing Error"
	TitleDuplicateInvoice = "Duplicate Invoice"
	TitleAllInvoices      = "All Invoices"

	MessageParseFailure      = "Failed to parse invoice data. Please check the document format."
	MessageRetrievalFailure  = "Error: Failed to retrieve invoices after processing."
	MessageProcessed         = "The invoice has been processed and is now visible with all other invoices in the invoice block."
	duplicateMessageTemplate = "Duplicate invoice detected: %s from %s for $%s"
)

// ProcessInput is the DTO for one processing request.
type ProcessInput struct {
	InvoiceContent  string `json:"invoiceContent"`
	ExistingBlockID string `json:"existingBlockId,omitempty"`
}

// ProcessResult is the terminal report of a processing run.
type ProcessResult struct {
	ID                string               `json:"id"`
	Title             string               `json:"title"`
	Kind              domain.DocumentKind  `json:"kind"`
	Content           string               `json:"content"`
	State             domain.PipelineState `json:"state"`
	IsDuplicate       bool                 `json:"isDuplicate,omitempty"`
	IsError           bool                 `json:"isError,omitempty"`
	InvoiceDetails    *domain.Invoice      `json:"invoiceDetails,omitempty"`
	ExistingInvoiceID string               `json:"existingInvoiceId,omitempty"`
}

// InvoicePipeline runs extraction, duplicate detection, persistence and
// re-aggregation for one submitted document.
type InvoicePipeline interface {
	Process(ctx context.Context, input *ProcessInput, sink port.StreamSink) (*ProcessResult, error)
}

type invoicePipeline struct {
	repo      port.DocumentRepository
	extractor port.InvoiceExtractor
	finder    port.DuplicateInvoiceFinder
	notifier  port.DuplicateNotifier
	archive   SourceArchive
	locks     *KeyLocks
	log       *zap.Logger
}

// NewInvoicePipeline creates a new InvoicePipeline.
func NewInvoicePipeline(
	repo port.DocumentRepository,
	extractor port.InvoiceExtractor,
	finder port.DuplicateInvoiceFinder,
	notifier port.DuplicateNotifier,
	archive SourceArchive,
	log *zap.Logger,
) InvoicePipeline {
	if archive == nil {
		archive = disabledArchive{}
	}
	return &invoicePipeline{
		repo:      repo,
		extractor: extractor,
		finder:    finder,
		notifier:  notifier,
		archive:   archive,
		locks:     NewKeyLocks(),
		log:       log,
	}
}

// run carries per-request state through the pipeline.
type run struct {
	log   *zap.Logger
	state domain.PipelineState
}

func (r *run) enter(s domain.PipelineState) {
	r.log.Debug("invoicePipeline.Process: state transition",
		zap.String("from", string(r.state)), zap.String("to", string(s)))
	r.state = s
}

func (p *invoicePipeline) Process(ctx context.Context, input *ProcessInput, sink port.StreamSink) (*ProcessResult, error) {
	r := &run{log: p.log.With(zap.String("existing_block_id", input.ExistingBlockID))}
	r.enter(domain.StateReceived)

	r.enter(domain.StateExtracting)
	out, err := p.extractor.Extract(ctx, input.InvoiceContent)
	if err != nil {
		return nil, err
	}
	r.enter(domain.StateExtracted)

	extraction, err := invoicedoc.ParseExtraction(out.Text)
	if err != nil {
		r.log.Info("invoicePipeline.Process: extraction output not decodable", zap.Error(err))
		r.enter(domain.StateProcessingError)
		return p.errorResult(input, TitleProcessingError, MessageParseFailure, r.state), nil
	}
	if extraction.Rejected() {
		r.enter(domain.StateRejected)
		return p.errorResult(input, TitleInvalidInvoice, extraction.Rejection, r.state), nil
	}

	candidate := extraction.Invoice
	candidate.DocumentID = ""
	candidate.TokenUsage = nil
	key := invoicedoc.KeyOf(candidate)

	release := func() {}
	if key.Complete() {
		r.enter(domain.StateDuplicateCheckPending)
		release, err = p.locks.Acquire(ctx, key)
		if err != nil {
			return nil, err
		}
		defer release()

		match, err := p.finder.FindDuplicate(ctx, key)
		if err != nil {
			return nil, err
		}
		if match != nil {
			r.enter(domain.StateDuplicateReported)
			return p.duplicateResult(ctx, r, candidate, match), nil
		}
	} else {
		r.log.Debug("invoicePipeline.Process: incomplete duplicate key, skipping duplicate check",
			zap.String("key", key.String()))
	}

	r.enter(domain.StatePersisting)
	docID := uuid.New()
	candidate.DocumentID = docID.String()
	usage := accounting.Compute(out.InputTokens, out.OutputTokens)
	title := fmt.Sprintf("Invoice: %s - %s", candidate.VendorName, candidate.InvoiceNumber)

	content, err := invoicedoc.Encode([]domain.Invoice{candidate}, usage)
	if err != nil {
		return nil, err
	}
	doc := &domain.Document{
		ID:      docID,
		Kind:    domain.DocumentKindInvoice,
		Title:   title,
		Content: content,
	}
	if err := p.repo.Create(ctx, doc); err != nil {
		r.log.Warn("invoicePipeline.Process: create document failed, continuing",
			zap.String("document_id", docID.String()), zap.Error(err))
	} else if err := p.archive.Store(ctx, docID, input.InvoiceContent); err != nil {
		r.log.Warn("invoicePipeline.Process: archiving source text failed",
			zap.String("document_id", docID.String()), zap.Error(err))
	}
	release()

	r.enter(domain.StateAggregating)
	docs, err := p.repo.ListByKind(ctx, domain.DocumentKindInvoice)
	if err != nil {
		return nil, fmt.Errorf("invoicePipeline.Process: %w", err)
	}
	all := invoicedoc.Aggregate(docs)
	if len(all) == 0 {
		r.enter(domain.StateAggregationInconsistency)
		r.log.Error("invoicePipeline.Process: aggregate empty after persisting",
			zap.String("document_id", docID.String()))
		return &ProcessResult{
			ID:      docID.String(),
			Title:   title,
			Kind:    domain.DocumentKindInvoice,
			Content: MessageRetrievalFailure,
			State:   r.state,
			IsError: true,
		}, nil
	}

	r.enter(domain.StateStreaming)
	payload, err := invoicedoc.EncodePretty(all, accounting.ForDisplay(usage))
	if err != nil {
		return nil, err
	}
	if err := stream.NewPublisher(sink).PublishCollection(ctx, docID.String(), TitleAllInvoices, payload); err != nil {
		r.log.Warn("invoicePipeline.Process: stream delivery failed", zap.Error(err))
	}

	r.enter(domain.StateCompleted)
	return &ProcessResult{
		ID:             docID.String(),
		Title:          TitleAllInvoices,
		Kind:           domain.DocumentKindInvoice,
		Content:        MessageProcessed,
		State:          r.state,
		InvoiceDetails: &candidate,
	}, nil
}

func (p *invoicePipeline) errorResult(input *ProcessInput, title, content string, state domain.PipelineState) *ProcessResult {
	id := input.ExistingBlockID
	if id == "" {
		id = uuid.NewString()
	}
	return &ProcessResult{
		ID:      id,
		Title:   title,
		Kind:    domain.DocumentKindInvoice,
		Content: content,
		State:   state,
		IsError: true,
	}
}

func (p *invoicePipeline) duplicateResult(ctx context.Context, r *run, candidate domain.Invoice, match *port.DuplicateMatch) *ProcessResult {
	amount := candidate.Amount.String()
	notice := port.DuplicateNotice{
		VendorName:        candidate.VendorName,
		InvoiceNumber:     candidate.InvoiceNumber,
		Amount:            amount,
		ExistingInvoiceID: match.DocumentID,
	}
	if p.notifier != nil {
		if err := p.notifier.NotifyDuplicate(ctx, notice); err != nil {
			r.log.Warn("invoicePipeline.Process: duplicate notification failed", zap.Error(err))
		}
	}

	return &ProcessResult{
		ID:                match.DocumentID,
		Title:             TitleDuplicateInvoice,
		Kind:              domain.DocumentKindInvoice,
		Content:           fmt.Sprintf(duplicateMessageTemplate, candidate.InvoiceNumber, candidate.VendorName, amount),
		State:             r.state,
		IsDuplicate:       true,
		InvoiceDetails:    &candidate,
		ExistingInvoiceID: match.DocumentID,
	}
}
