package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoiceflow/internal/invoicedoc"
	"invoiceflow/internal/port"
)

// MockDuplicateFinder is a mock implementation of port.DuplicateInvoiceFinder.
type MockDuplicateFinder struct {
	mock.Mock
}

func (m *MockDuplicateFinder) FindDuplicate(ctx context.Context, key invoicedoc.Key) (*port.DuplicateMatch, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.DuplicateMatch), args.Error(1)
}

// MockDuplicateNotifier is a mock implementation of port.DuplicateNotifier.
type MockDuplicateNotifier struct {
	mock.Mock
}

func (m *MockDuplicateNotifier) NotifyDuplicate(ctx context.Context, notice port.DuplicateNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}
