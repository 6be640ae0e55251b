package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"invoiceflow/internal/domain"
)

const (
	invoicesSheet  = "Invoices"
	lineItemsSheet = "Line Items"
)

var lineItemColumns = []string{
	"Document ID",
	"Invoice Number",
	"Line",
	"Description",
	"Quantity",
	"Unit Price",
	"Amount",
}

// WriteXLSX writes a workbook with an "Invoices" sheet (one row per invoice)
// and a "Line Items" sheet (one row per line).
func WriteXLSX(out io.Writer, invoices []domain.Invoice) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", invoicesSheet); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	if _, err := f.NewSheet(lineItemsSheet); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}

	if err := writeRow(f, invoicesSheet, 1, toCells(invoiceColumns)); err != nil {
		return err
	}
	if err := writeRow(f, lineItemsSheet, 1, toCells(lineItemColumns)); err != nil {
		return err
	}

	lineRow := 2
	for i := range invoices {
		inv := &invoices[i]
		row := []interface{}{
			inv.DocumentID,
			inv.InvoiceNumber,
			inv.VendorName,
			inv.CustomerName,
			inv.InvoiceDate,
			inv.DueDate,
			amountCell(inv.Amount),
			len(inv.LineItems),
			lineTotal(inv.LineItems),
		}
		if err := writeRow(f, invoicesSheet, i+2, row); err != nil {
			return err
		}

		for j, li := range inv.LineItems {
			cells := []interface{}{
				inv.DocumentID,
				inv.InvoiceNumber,
				j + 1,
				li.Description,
				li.Quantity,
				li.UnitPrice,
				li.Amount,
			}
			if err := writeRow(f, lineItemsSheet, lineRow, cells); err != nil {
				return err
			}
			lineRow++
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("export.writeRow: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("export.writeRow: %w", err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

// amountCell leaves absent amounts blank rather than writing zero.
// Non-numeric amounts are written as text.
func amountCell(a domain.Amount) interface{} {
	if !a.Valid {
		return a.Raw
	}
	return a.Float64()
}
