package stream

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"invoiceflow/internal/domain"
)

// WriterSink writes each event as one line of JSON.
type WriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriterSink creates a newline-delimited JSON sink over w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{enc: json.NewEncoder(w)}
}

func (s *WriterSink) Write(ctx context.Context, event domain.StreamEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(event)
}
