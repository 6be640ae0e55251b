package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"invoiceflow/internal/domain"
)

// MockStreamSink is a mock implementation of port.StreamSink.
type MockStreamSink struct {
	mock.Mock
}

func (m *MockStreamSink) Write(ctx context.Context, event domain.StreamEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
