package stream

import "invoiceflow/internal/domain"

// View is the display state rebuilt from a stream.
type View struct {
	Kind     string `json:"kind"`
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Finished bool   `json:"finished"`
}

// Reducer applies events strictly in arrival order.
type Reducer struct {
	view View
}

// Apply folds one event into the view. Events after finish are ignored.
func (r *Reducer) Apply(event domain.StreamEvent) {
	if r.view.Finished {
		return
	}
	switch event.Type {
	case domain.EventKind:
		r.view.Kind = event.Content
	case domain.EventID:
		r.view.ID = event.Content
	case domain.EventTitle:
		r.view.Title = event.Content
	case domain.EventClear:
		r.view.Content = ""
	case domain.EventInvoiceData:
		r.view.Content = event.Content
	case domain.EventFinish:
		r.view.Finished = true
	}
}

// View returns the current display state.
func (r *Reducer) View() View {
	return r.view
}

// Reduce replays events into a fresh view.
func Reduce(events []domain.StreamEvent) View {
	var r Reducer
	for _, ev := range events {
		r.Apply(ev)
	}
	return r.View()
}
