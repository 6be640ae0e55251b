package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoiceflow/internal/port"
)

// MockLanguageModel is a mock implementation of port.LanguageModel.
type MockLanguageModel struct {
	mock.Mock
}

func (m *MockLanguageModel) Complete(ctx context.Context, input port.CompletionInput) (*port.CompletionOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.CompletionOutput), args.Error(1)
}

// MockInvoiceExtractor is a mock implementation of port.InvoiceExtractor.
type MockInvoiceExtractor struct {
	mock.Mock
}

func (m *MockInvoiceExtractor) Extract(ctx context.Context, rawText string) (*port.CompletionOutput, error) {
	args := m.Called(ctx, rawText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.CompletionOutput), args.Error(1)
}

// MockInvoiceUpdater is a mock implementation of port.InvoiceUpdater.
type MockInvoiceUpdater struct {
	mock.Mock
}

func (m *MockInvoiceUpdater) Update(ctx context.Context, currentContent, description string) (*port.CompletionOutput, error) {
	args := m.Called(ctx, currentContent, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.CompletionOutput), args.Error(1)
}
