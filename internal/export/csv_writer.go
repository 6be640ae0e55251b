// Package export writes aggregate invoice views as CSV or XLSX files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"invoiceflow/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// invoiceColumns is the header row shared by the CSV export and the XLSX "Invoices" sheet.
var invoiceColumns = []string{
	"Document ID",
	"Invoice Number",
	"Vendor Name",
	"Customer Name",
	"Invoice Date",
	"Due Date",
	"Amount",
	"Line Item Count",
	"Line Item Total",
}

// CSVWriter wraps csv.Writer for exporting invoices.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(invoiceColumns)
}

// WriteInvoices writes one row per invoice.
func (w *CSVWriter) WriteInvoices(invoices []domain.Invoice) error {
	for i := range invoices {
		if err := w.csv.Write(invoiceRow(&invoices[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

// WriteCSV writes BOM, header and rows, then flushes.
func WriteCSV(out io.Writer, invoices []domain.Invoice) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewCSVWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteInvoices(invoices); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func invoiceRow(inv *domain.Invoice) []string {
	return []string{
		inv.DocumentID,
		inv.InvoiceNumber,
		inv.VendorName,
		inv.CustomerName,
		inv.InvoiceDate,
		inv.DueDate,
		formatAmount(inv.Amount),
		strconv.Itoa(len(inv.LineItems)),
		formatMoney(lineTotal(inv.LineItems)),
	}
}

func lineTotal(items []domain.LineItem) float64 {
	var sum float64
	for _, li := range items {
		sum += li.Amount
	}
	return sum
}

func formatAmount(a domain.Amount) string {
	if !a.Valid {
		return a.Raw
	}
	return a.Value.StringFixed(2)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{format}.
func BuildFilename(name string, format domain.ExportFormat, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), now.Format("2006-01-02"), format)
}

// ContentType returns the MIME type of an export format.
func ContentType(format domain.ExportFormat) string {
	if format == domain.ExportFormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}
