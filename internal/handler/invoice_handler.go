package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoiceflow/internal/domain"
	"invoiceflow/internal/export"
	"invoiceflow/internal/invoicedoc"
	"invoiceflow/internal/middleware"
	"invoiceflow/internal/port"
	"invoiceflow/internal/service"
	"invoiceflow/internal/stream"
)

// InvoiceHandler handles invoice processing, display, edit and export endpoints.
type InvoiceHandler struct {
	pipeline   service.InvoicePipeline
	invoices   service.InvoiceService
	duplicates service.DuplicateService
	now        func() time.Time
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(pipeline service.InvoicePipeline, invoices service.InvoiceService, duplicates service.DuplicateService) *InvoiceHandler {
	return &InvoiceHandler{
		pipeline:   pipeline,
		invoices:   invoices,
		duplicates: duplicates,
		now:        time.Now,
	}
}

func wantsEventStream(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

// streamed runs op against an SSE sink when the client asked for an event
// stream, otherwise against a recorder whose events are returned with the result.
func streamed(c *gin.Context, op func(sink port.StreamSink) (interface{}, error)) {
	if wantsEventStream(c) {
		sink := stream.NewSSESink(c)
		result, err := op(sink)
		if err != nil {
			status, code, msg := MapDomainError(err)
			if status >= 500 {
				middleware.GetLogger(c).Error("internal error", zap.Error(err))
			}
			c.SSEvent("error", APIError{Code: code, Message: msg})
		} else {
			c.SSEvent("result", result)
		}
		c.Writer.Flush()
		return
	}

	rec := stream.NewRecorder()
	result, err := op(rec)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, StreamedResponse{Result: result, Events: rec.Events()})
}

// Process handles POST /api/v1/invoices/process
// @Summary Process an invoice
// @Description Extract an invoice from raw document text, check for duplicates, persist it and stream the updated collection
// @Tags invoices
// @Accept json
// @Produce json
// @Produce text/event-stream
// @Param request body ProcessInvoiceRequest true "Raw document text"
// @Success 200 {object} Response{data=StreamedResponse} "Processing result and stream events"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 429 {object} ErrorResponseBody "Model provider rate limited"
// @Router /invoices/process [post]
func (h *InvoiceHandler) Process(c *gin.Context) {
	var req ProcessInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invoiceContent is required")
		return
	}

	streamed(c, func(sink port.StreamSink) (interface{}, error) {
		res, err := h.pipeline.Process(c.Request.Context(), &service.ProcessInput{
			InvoiceContent:  req.InvoiceContent,
			ExistingBlockID: req.ExistingBlockID,
		}, sink)
		if err != nil {
			return nil, err
		}
		return res, nil
	})
}

// Regenerate handles POST /api/v1/invoices/:id/regenerate
// @Summary Regenerate an invoice
// @Description Apply a natural-language change description to a stored invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Produce text/event-stream
// @Param id path string true "Document ID (UUID)"
// @Param request body RegenerateInvoiceRequest true "Change description"
// @Success 200 {object} Response{data=StreamedResponse} "Updated invoice and stream events"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Router /invoices/{id}/regenerate [post]
func (h *InvoiceHandler) Regenerate(c *gin.Context) {
	var req RegenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "description is required")
		return
	}

	streamed(c, func(sink port.StreamSink) (interface{}, error) {
		res, err := h.invoices.Regenerate(c.Request.Context(), c.Param("id"), req.Description, sink)
		if err != nil {
			return nil, err
		}
		return res, nil
	})
}

// Display handles GET /api/v1/invoices/display
// @Summary Display invoices
// @Description Stream one stored invoice document, or all valid invoices when no id is given
// @Tags invoices
// @Produce json
// @Produce text/event-stream
// @Param id query string false "Document ID (UUID)"
// @Success 200 {object} Response{data=StreamedResponse} "Display result and stream events"
// @Failure 404 {object} ErrorResponseBody "No invoices or invoice not found"
// @Router /invoices/display [get]
func (h *InvoiceHandler) Display(c *gin.Context) {
	streamed(c, func(sink port.StreamSink) (interface{}, error) {
		res, err := h.invoices.DisplayExisting(c.Request.Context(), c.Query("id"), sink)
		if err != nil {
			return nil, err
		}
		return res, nil
	})
}

// List handles GET /api/v1/invoices
// @Summary List invoices
// @Description List every valid invoice across all documents, most recent document first
// @Tags invoices
// @Produce json
// @Success 200 {object} Response{data=[]domain.Invoice} "All invoices"
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.invoices.ListInvoices(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, invoices)
}

// Lookup handles GET /api/v1/invoices/lookup
// @Summary Look up an invoice by its details
// @Description Find a stored invoice by vendor name (case-insensitive), invoice number and amount
// @Tags invoices
// @Produce json
// @Param vendor_name query string true "Vendor name"
// @Param invoice_number query string true "Invoice number"
// @Param amount query string true "Invoice amount"
// @Success 200 {object} Response{data=service.ExistingInvoice} "Lookup result"
// @Failure 400 {object} ErrorResponseBody "Missing or invalid parameters"
// @Router /invoices/lookup [get]
func (h *InvoiceHandler) Lookup(c *gin.Context) {
	key := invoicedoc.NewKey(c.Query("vendor_name"), c.Query("invoice_number"), c.Query("amount"))
	if !key.Complete() {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "vendor_name, invoice_number and amount are required")
		return
	}

	found, err := h.duplicates.GetExistingByDetails(c.Request.Context(), key)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, found)
}

// Export handles GET /api/v1/invoices/export
// @Summary Export invoices
// @Description Download every valid invoice as CSV or XLSX
// @Tags invoices
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file "Export file"
// @Failure 400 {object} ErrorResponseBody "Unsupported format"
// @Router /invoices/export [get]
func (h *InvoiceHandler) Export(c *gin.Context) {
	format := domain.ExportFormat(strings.ToLower(c.DefaultQuery("format", string(domain.ExportFormatCSV))))

	var buf bytes.Buffer
	if err := h.invoices.Export(c.Request.Context(), format, &buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := export.BuildFilename("invoices", format, h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType(format), buf.Bytes())
}

// Source handles GET /api/v1/invoices/:id/source
// @Summary Get archived source text
// @Description Return the raw text an invoice was extracted from, when source archiving is enabled
// @Tags invoices
// @Produce plain
// @Param id path string true "Document ID (UUID)"
// @Success 200 {string} string "Source text"
// @Failure 404 {object} ErrorResponseBody "Archive disabled or source not found"
// @Router /invoices/{id}/source [get]
func (h *InvoiceHandler) Source(c *gin.Context) {
	text, err := h.invoices.Source(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	c.String(http.StatusOK, text)
}

// Update handles PUT /api/v1/invoices/:id
// @Summary Replace invoice content
// @Description Replace a document's content with the given JSON, keeping its title
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param request body UpdateInvoiceRequest true "New content"
// @Success 200 {object} Response{data=service.OperationResult} "Update succeeded"
// @Failure 400 {object} ErrorResponseBody "Invalid content"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	var req UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "content is required")
		return
	}
	RespondOperation(c, h.invoices.UpdateInvoice(c.Request.Context(), c.Param("id"), req.Content))
}

// SaveEdit handles PUT /api/v1/invoices/:id/edit
// @Summary Save an edited invoice
// @Description Overwrite a document with a single edited invoice, keeping stored token usage
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param request body domain.Invoice true "Edited invoice"
// @Success 200 {object} Response{data=service.OperationResult} "Edit saved"
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Router /invoices/{id}/edit [put]
func (h *InvoiceHandler) SaveEdit(c *gin.Context) {
	var inv domain.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "body must be an invoice object")
		return
	}
	inv.DocumentID = c.Param("id")
	RespondOperation(c, h.invoices.SaveInvoiceEdit(c.Request.Context(), inv))
}

// EditLineItem handles PATCH /api/v1/invoices/:id/line-items/:line
// @Summary Edit a line item
// @Description Change a line's description, quantity or unit price; the line amount is recomputed
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param line path int true "Line index"
// @Param invoice_index query int false "Index among the document's valid invoices, rejections excluded" default(0)
// @Param request body invoicedoc.LineItemEdit true "Changed fields"
// @Success 200 {object} Response{data=service.OperationResult} "Line updated"
// @Failure 400 {object} ErrorResponseBody "Invalid index or values"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Router /invoices/{id}/line-items/{line} [patch]
func (h *InvoiceHandler) EditLineItem(c *gin.Context) {
	line, err := strconv.Atoi(c.Param("line"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "line must be an integer")
		return
	}
	invoiceIndex, err := strconv.Atoi(c.DefaultQuery("invoice_index", "0"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invoice_index must be an integer")
		return
	}

	var edit invoicedoc.LineItemEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid line item edit")
		return
	}
	RespondOperation(c, h.invoices.EditLineItem(c.Request.Context(), c.Param("id"), invoiceIndex, line, edit))
}

// Delete handles DELETE /api/v1/invoices/:id
// @Summary Delete an invoice
// @Description Delete a document and verify it is gone
// @Tags invoices
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=service.OperationResult} "Deleted"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 409 {object} ErrorResponseBody "Deletion did not complete"
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	RespondOperation(c, h.invoices.DeleteInvoice(c.Request.Context(), c.Param("id")))
}
