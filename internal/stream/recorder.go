package stream

import (
	"context"
	"sync"

	"invoiceflow/internal/domain"
)

// Recorder is an in-memory sink that keeps every event it receives.
type Recorder struct {
	mu     sync.Mutex
	events []domain.StreamEvent
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Write(_ context.Context, event domain.StreamEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the recorded events, never nil.
func (r *Recorder) Events() []domain.StreamEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.StreamEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Types returns the recorded event types in order.
func (r *Recorder) Types() []domain.StreamEventType {
	events := r.Events()
	types := make([]domain.StreamEventType, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	return types
}
