package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"invoiceflow/internal/domain"
	"invoiceflow/internal/invoicedoc"
	"invoiceflow/internal/port"
	"invoiceflow/internal/repository/memory"
	"invoiceflow/internal/service"
	"invoiceflow/internal/stream"
	"invoiceflow/mocks"
)

const acmeExtraction = `{
  "customerName": "Globex",
  "vendorName": "Acme Corp",
  "invoiceNumber": "INV-001",
  "invoiceDate": "2024-01-15",
  "dueDate": "2024-02-15",
  "amount": 1500.50,
  "lineItems": [
    {"description": "Widget", "quantity": 10, "unitPrice": 100, "amount": 1000},
    {"description": "Service", "quantity": 1, "unitPrice": 500.5, "amount": 500.5}
  ]
}`

func acmeOutput() *port.CompletionOutput {
	return &port.CompletionOutput{Text: acmeExtraction, InputTokens: 1200, OutputTokens: 300}
}

func newPipeline(repo port.DocumentRepository, extractor port.InvoiceExtractor, notifier port.DuplicateNotifier) service.InvoicePipeline {
	log := zap.NewNop()
	return service.NewInvoicePipeline(repo, extractor, service.NewDuplicateService(repo, log), notifier, nil, log)
}

func TestInvoicePipeline_Process_Completed(t *testing.T) {
	repo := memory.NewDocumentRepo()
	extractor := new(mocks.MockInvoiceExtractor)
	extractor.On("Extract", mock.Anything, "raw acme text").Return(acmeOutput(), nil)
	rec := stream.NewRecorder()

	p := newPipeline(repo, extractor, nil)
	result, err := p.Process(context.Background(), &service.ProcessInput{InvoiceContent: "raw acme text"}, rec)

	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, result.State)
	assert.Equal(t, service.TitleAllInvoices, result.Title)
	assert.Equal(t, service.MessageProcessed, result.Content)
	assert.False(t, result.IsError)
	assert.False(t, result.IsDuplicate)
	require.NotNil(t, result.InvoiceDetails)
	assert.Equal(t, result.ID, result.InvoiceDetails.DocumentID)

	docs, err := repo.ListByKind(context.Background(), domain.DocumentKindInvoice)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, result.ID, docs[0].ID.String())
	assert.Equal(t, "Invoice: Acme Corp - INV-001", docs[0].Title)

	stored := invoicedoc.Decode(docs[0].Content)
	assert.Equal(t, invoicedoc.ShapeEnveloped, stored.Shape)
	assert.Equal(t, int64(1500), stored.Usage().Total)

	assert.Equal(t, []domain.StreamEventType{
		domain.EventKind, domain.EventID, domain.EventTitle,
		domain.EventClear, domain.EventInvoiceData, domain.EventFinish,
	}, rec.Types())

	view := stream.Reduce(rec.Events())
	assert.Equal(t, result.ID, view.ID)
	assert.Equal(t, service.TitleAllInvoices, view.Title)
	shown := invoicedoc.Decode(view.Content)
	require.Len(t, shown.Entries, 1)
	assert.Equal(t, "INV-001", shown.Entries[0].InvoiceNumber)

	extractor.AssertExpectations(t)
}

func TestInvoicePipeline_Process_ZeroUsageIsFlooredOnlyForDisplay(t *testing.T) {
	repo := memory.NewDocumentRepo()
	extractor := new(mocks.MockInvoiceExtractor)
	extractor.On("Extract", mock.Anything, "raw acme text").
		Return(&port.CompletionOutput{Text: acmeExtraction, InputTokens: 0, OutputTokens: 0}, nil)
	rec := stream.NewRecorder()

	p := newPipeline(repo, extractor, nil)
	result, err := p.Process(context.Background(), &service.ProcessInput{InvoiceContent: "raw acme text"}, rec)

	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, result.State)

	docs, err := repo.ListByKind(context.Background(), domain.DocumentKindInvoice)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, domain.TokenUsage{}, invoicedoc.Decode(docs[0].Content).Usage())

	shown := invoicedoc.Decode(stream.Reduce(rec.Events()).Content)
	assert.Equal(t, domain.TokenUsage{Input: 1, Output: 1, Total: 1, EstimatedCost: 0.0001}, shown.Usage())
}

func TestInvoicePipeline_Process_OffTypeExtractionCompletes(t *testing.T) {
	repo := memory.NewDocumentRepo()
	extractor := new(mocks.MockInvoiceExtractor)
	extractor.On("Extract", mock.Anything, "raw text").Return(&port.CompletionOutput{Text: `{
  "vendorName": "Acme Corp",
  "invoiceNumber": 12345,
  "invoiceDate": "2024-01-15",
  "amount": "$1,250.00",
  "lineItems": [{"description": "Widget", "quantity": "", "unitPrice": 1250, "amount": 1250}]
}`}, nil)

	p := newPipeline(repo, extractor, nil)
	result, err := p.Process(context.Background(), &service.ProcessInput{InvoiceContent: "raw text"}, stream.NewRecorder())

	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, result.State)
	require.NotNil(t, result.InvoiceDetails)
	assert.Equal(t, "12345", result.InvoiceDetails.InvoiceNumber)

	again, err := p.Process(context.Background(), &service.ProcessInput{InvoiceContent: "raw text"}, stream.NewRecorder())
	require.NoError(t, err)
	assert.Equal(t, domain.StateDuplicateReported, again.State)
	assert.Equal(t, result.ID, again.ExistingInvoiceID)
}

func TestInvoicePipeline_Process_Rejected(t *testing.T) {
	repo := memory.NewDocumentRepo()
	extractor := new(mocks.MockInvoiceExtractor)
	extractor.On("Extract", mock.Anything, "a cookie recipe").
		Return(&port.CompletionOutput{Text: `{"error": "The document is not an invoice."}`}, nil)
	rec := stream.NewRecorder()

	p := newPipeline(repo, extractor, nil)
	result, err := p.Process(context.Background(), &service.ProcessInput{
		InvoiceContent:  "a cookie recipe",
		ExistingBlockID: "block-7",
	}, rec)

	require.NoError(t, err)
	assert.Equal(t, domain.StateRejected, result.State)
	assert.Equal(t, "block-7", result.ID)
	assert.Equal(t, service.TitleInvalidInvoice, result.Title)
	assert.Equal(t, "The document is not an invoice.", result.Content)
	assert.True(t, result.IsError)
	assert.Empty(t, rec.Events())

	docs, _ := repo.ListByKind(context.Background(), domain.DocumentKindInvoice)
	assert.Empty(t, docs)
}

func TestInvoicePipeline_Process_UnparseableExtraction(t *testing.T) {
	repo := memory.NewDocumentRepo()
	extractor := new(mocks.MockInvoiceExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).
		Return(&port.CompletionOutput{Text: "I could not read that"}, nil)

	p := newPipeline(repo, extractor, nil)
	result, err := p.Process(context.Background(), &service.ProcessInput{InvoiceContent: "???"}, stream.NewRecorder())

	require.NoError(t, err)
	assert.Equal(t, domain.StateProcessingError, result.State)
	assert.Equal(t, service.TitleProcessingError, result.Title)
	assert.Equal(t, service.MessageParseFailure, result.Content)
	assert.NotEmpty(t, result.ID)
	assert.True(t, result.IsError)
}

func TestInvoicePipeline_Process_ExtractorError(t *testing.T) {
	extractor := new(mocks.MockInvoiceExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(nil, errors.New("provider down"))

	p := newPipeline(memory.NewDocumentRepo(), extractor, nil)
	result, err := p.Process(context.Background(), &service.ProcessInput{InvoiceContent: "x"}, stream.NewRecorder())

	assert.Nil(t, result)
	assert.EqualError(t, err, "provider down")
}

func TestInvoicePipeline_Process_Duplicate(t *testing.T) {
	repo := memory.NewDocumentRepo()
	extractor := new(mocks.MockInvoiceExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(acmeOutput(), nil)
	notifier := new(mocks.MockDuplicateNotifier)
	notifier.On("NotifyDuplicate", mock.Anything, mock.AnythingOfType("port.DuplicateNotice")).
		Return(errors.New("smtp unavailable"))

	p := newPipeline(repo, extractor, notifier)
	first, err := p.Process(context.Background(), &service.ProcessInput{InvoiceContent: "acme"}, stream.NewRecorder())
	require.NoError(t, err)
	require.Equal(t, domain.StateCompleted, first.State)

	rec := stream.NewRecorder()
	second, err := p.Process(context.Background(), &service.ProcessInput{InvoiceContent: "acme again"}, rec)
	require.NoError(t, err)

	assert.Equal(t, domain.StateDuplicateReported, second.State)
	assert.True(t, second.IsDuplicate)
	assert.Equal(t, service.TitleDuplicateInvoice, second.Title)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.ID, second.ExistingInvoiceID)
	assert.Equal(t, "Duplicate invoice detected: INV-001 from Acme Corp for $1500.5", second.Content)
	assert.Empty(t, rec.Events())

	docs, _ := repo.ListByKind(context.Background(), domain.DocumentKindInvoice)
	assert.Len(t, docs, 1)

	notice := notifier.Calls[0].Arguments.Get(1).(port.DuplicateNotice)
	assert.Equal(t, first.ID, notice.ExistingInvoiceID)
	assert.Equal(t, "INV-001", notice.InvoiceNumber)
}

func TestInvoicePipeline_Process_ConcurrentSameKeyPersistsOnce(t *testing.T) {
	repo := memory.NewDocumentRepo()
	extractor := new(mocks.MockInvoiceExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(acmeOutput(), nil)
	p := newPipeline(repo, extractor, nil)

	const n = 8
	results := make([]*service.ProcessResult, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := p.Process(context.Background(), &service.ProcessInput{InvoiceContent: "acme"}, stream.NewRecorder())
			if err == nil {
				results[i] = res
			}
		}(i)
	}
	wg.Wait()

	completed, duplicates := 0, 0
	for _, res := range results {
		require.NotNil(t, res)
		switch res.State {
		case domain.StateCompleted:
			completed++
		case domain.StateDuplicateReported:
			duplicates++
		}
	}
	assert.Equal(t, 1, completed)
	assert.Equal(t, n-1, duplicates)

	docs, _ := repo.ListByKind(context.Background(), domain.DocumentKindInvoice)
	assert.Len(t, docs, 1)
}

func TestInvoicePipeline_Process_IncompleteKeySkipsDuplicateCheck(t *testing.T) {
	repo := memory.NewDocumentRepo()
	extractor := new(mocks.MockInvoiceExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).
		Return(&port.CompletionOutput{Text: `{"vendorName": "Acme Corp", "invoiceNumber": "", "amount": 10}`}, nil)
	p := newPipeline(repo, extractor, nil)

	for i := 0; i < 2; i++ {
		result, err := p.Process(context.Background(), &service.ProcessInput{InvoiceContent: "acme"}, stream.NewRecorder())
		require.NoError(t, err)
		assert.Equal(t, domain.StateCompleted, result.State)
	}

	docs, _ := repo.ListByKind(context.Background(), domain.DocumentKindInvoice)
	assert.Len(t, docs, 2)
}

func TestInvoicePipeline_Process_AggregationInconsistency(t *testing.T) {
	repo := new(mocks.MockDocumentRepo)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document")).Return(nil)
	repo.On("ListByKind", mock.Anything, domain.DocumentKindInvoice).Return([]domain.Document{}, nil)
	extractor := new(mocks.MockInvoiceExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(acmeOutput(), nil)
	finder := new(mocks.MockDuplicateFinder)
	finder.On("FindDuplicate", mock.Anything, mock.Anything).Return(nil, nil)
	rec := stream.NewRecorder()

	p := service.NewInvoicePipeline(repo, extractor, finder, nil, nil, zap.NewNop())
	result, err := p.Process(context.Background(), &service.ProcessInput{InvoiceContent: "acme"}, rec)

	require.NoError(t, err)
	assert.Equal(t, domain.StateAggregationInconsistency, result.State)
	assert.Equal(t, "Invoice: Acme Corp - INV-001", result.Title)
	assert.Equal(t, service.MessageRetrievalFailure, result.Content)
	assert.True(t, result.IsError)
	assert.Empty(t, rec.Events())

	created := repo.Calls[0].Arguments.Get(1).(*domain.Document)
	assert.Equal(t, created.ID.String(), result.ID)
}

func TestInvoicePipeline_Process_SinkErrorIsNotFatal(t *testing.T) {
	repo := memory.NewDocumentRepo()
	extractor := new(mocks.MockInvoiceExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(acmeOutput(), nil)
	sink := new(mocks.MockStreamSink)
	sink.On("Write", mock.Anything, mock.Anything).Return(errors.New("client gone")).Once()

	p := newPipeline(repo, extractor, nil)
	result, err := p.Process(context.Background(), &service.ProcessInput{InvoiceContent: "acme"}, sink)

	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, result.State)
	sink.AssertNumberOfCalls(t, "Write", 1)

	docs, _ := repo.ListByKind(context.Background(), domain.DocumentKindInvoice)
	assert.Len(t, docs, 1)
}

func TestInvoicePipeline_Process_ArchivesSource(t *testing.T) {
	repo := memory.NewDocumentRepo()
	extractor := new(mocks.MockInvoiceExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return(acmeOutput(), nil)
	storage := new(mocks.MockObjectStorage)
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{}, nil)

	archive := service.NewSourceArchive(storage, archiveConfig())
	log := zap.NewNop()
	p := service.NewInvoicePipeline(repo, extractor, service.NewDuplicateService(repo, log), nil, archive, log)

	result, err := p.Process(context.Background(), &service.ProcessInput{InvoiceContent: "acme"}, stream.NewRecorder())
	require.NoError(t, err)

	in := storage.Calls[0].Arguments.Get(1).(port.UploadInput)
	assert.Equal(t, "sources/"+result.ID+".txt", in.Key)
	assert.Equal(t, "invoices-bucket", in.Bucket)
}
