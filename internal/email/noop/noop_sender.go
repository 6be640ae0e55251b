package noop

import (
	"context"

	"go.uber.org/zap"

	"invoiceflow/internal/port"
)

type noopNotifier struct {
	log *zap.Logger
}

// NewNoopNotifier creates a DuplicateNotifier that only logs the notice.
func NewNoopNotifier(log *zap.Logger) port.DuplicateNotifier {
	return &noopNotifier{log: log}
}

func (n *noopNotifier) NotifyDuplicate(_ context.Context, notice port.DuplicateNotice) error {
	n.log.Info("[NOOP EMAIL] duplicate invoice",
		zap.String("vendor", notice.VendorName),
		zap.String("invoice_number", notice.InvoiceNumber),
		zap.String("amount", notice.Amount),
		zap.String("existing_invoice_id", notice.ExistingInvoiceID))
	return nil
}
