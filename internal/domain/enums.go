package domain

// DocumentKind tags a persisted document with its category.
type DocumentKind string

const (
	DocumentKindInvoice DocumentKind = "invoice"
)

// PipelineState is a step of the invoice processing state machine.
type PipelineState string

const (
	StateReceived              PipelineState = "received"
	StateExtracting            PipelineState = "extracting"
	StateExtracted             PipelineState = "extracted"
	StateDuplicateCheckPending PipelineState = "duplicate_check_pending"
	StatePersisting            PipelineState = "persisting"
	StateAggregating           PipelineState = "aggregating"
	StateStreaming             PipelineState = "streaming"

	// Terminal states.
	StateRejected                 PipelineState = "rejected"
	StateDuplicateReported        PipelineState = "duplicate_reported"
	StateProcessingError          PipelineState = "processing_error"
	StateAggregationInconsistency PipelineState = "aggregation_inconsistency"
	StateCompleted                PipelineState = "completed"
)

// IsTerminal reports whether no further transition follows s.
func (s PipelineState) IsTerminal() bool {
	switch s {
	case StateRejected, StateDuplicateReported, StateProcessingError,
		StateAggregationInconsistency, StateCompleted:
		return true
	}
	return false
}

// StreamEventType identifies the kind of a stream event.
type StreamEventType string

const (
	EventKind        StreamEventType = "kind"
	EventID          StreamEventType = "id"
	EventTitle       StreamEventType = "title"
	EventClear       StreamEventType = "clear"
	EventInvoiceData StreamEventType = "invoice-data"
	EventFinish      StreamEventType = "finish"
)

// ExportFormat selects the file format of an invoice export.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ValidExportFormats lists the accepted export formats.
var ValidExportFormats = map[ExportFormat]bool{
	ExportFormatCSV:  true,
	ExportFormatXLSX: true,
}
