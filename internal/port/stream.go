package port

import (
	"context"

	"invoiceflow/internal/domain"
)

// StreamSink accepts stream events in order. No per-event acknowledgment
// is expected beyond the returned error.
type StreamSink interface {
	Write(ctx context.Context, event domain.StreamEvent) error
}
