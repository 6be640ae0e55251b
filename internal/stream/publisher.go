// Package stream emits and consumes the ordered display-update events of a
// processing run.
package stream

import (
	"context"
	"fmt"

	"invoiceflow/internal/domain"
	"invoiceflow/internal/port"
)

// Publisher writes event sequences to a sink. After the first sink error,
// remaining events are skipped and that error is returned.
type Publisher struct {
	sink port.StreamSink
	err  error
}

// NewPublisher creates a Publisher over sink.
func NewPublisher(sink port.StreamSink) *Publisher {
	return &Publisher{sink: sink}
}

// PublishCollection emits kind, id, title, clear, invoice-data, finish.
func (p *Publisher) PublishCollection(ctx context.Context, id, title, payload string) error {
	return p.publish(ctx, []domain.StreamEvent{
		{Type: domain.EventKind, Content: string(domain.DocumentKindInvoice)},
		{Type: domain.EventID, Content: id},
		{Type: domain.EventTitle, Content: title},
		{Type: domain.EventClear},
		{Type: domain.EventInvoiceData, Content: payload},
		{Type: domain.EventFinish},
	})
}

// PublishDocument emits the single-document sequence, which has no clear.
func (p *Publisher) PublishDocument(ctx context.Context, id, title, payload string) error {
	return p.publish(ctx, []domain.StreamEvent{
		{Type: domain.EventKind, Content: string(domain.DocumentKindInvoice)},
		{Type: domain.EventID, Content: id},
		{Type: domain.EventTitle, Content: title},
		{Type: domain.EventInvoiceData, Content: payload},
		{Type: domain.EventFinish},
	})
}

// Err returns the latched sink error, if any.
func (p *Publisher) Err() error {
	return p.err
}

func (p *Publisher) publish(ctx context.Context, events []domain.StreamEvent) error {
	for _, ev := range events {
		if p.err != nil {
			break
		}
		if err := p.sink.Write(ctx, ev); err != nil {
			p.err = fmt.Errorf("stream.Publisher: writing %s event: %w", ev.Type, err)
		}
	}
	return p.err
}
