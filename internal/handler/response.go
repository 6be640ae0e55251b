package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"invoiceflow/internal/domain"
	"invoiceflow/internal/middleware"
	"invoiceflow/internal/parser"
	"invoiceflow/internal/service"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var rateLimited *parser.RateLimitError
	switch {
	case errors.As(err, &rateLimited):
		return http.StatusTooManyRequests, "RATE_LIMITED", "language model provider is rate limited; try again later"
	case errors.Is(err, domain.ErrDocumentNotFound), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found"
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return http.StatusNotFound, "INVOICE_NOT_FOUND", domain.ErrInvoiceNotFound.Error()
	case errors.Is(err, domain.ErrNoInvoices):
		return http.StatusNotFound, "NO_INVOICES", domain.ErrNoInvoices.Error()
	case errors.Is(err, domain.ErrNoValidInvoices):
		return http.StatusNotFound, "NO_VALID_INVOICES", domain.ErrNoValidInvoices.Error()
	case errors.Is(err, domain.ErrInvalidDocumentID), errors.Is(err, domain.ErrMissingDocumentID):
		return http.StatusBadRequest, "INVALID_ID", "invalid document ID"
	case errors.Is(err, domain.ErrInvalidContent):
		return http.StatusBadRequest, "INVALID_CONTENT", "content is not valid invoice JSON"
	case errors.Is(err, domain.ErrLineItemOutOfRange):
		return http.StatusBadRequest, "LINE_ITEM_OUT_OF_RANGE", "line item index out of range"
	case errors.Is(err, domain.ErrInvalidLineItem):
		return http.StatusBadRequest, "INVALID_LINE_ITEM", "quantity and unit price must not be negative"
	case errors.Is(err, domain.ErrUnsupportedExportFormat):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported export format; allowed: csv, xlsx"
	case errors.Is(err, domain.ErrArchiveDisabled):
		return http.StatusNotFound, "ARCHIVE_DISABLED", "source archiving is disabled"
	case errors.Is(err, domain.ErrDeletionIncomplete):
		return http.StatusConflict, "DELETION_INCOMPLETE", domain.ErrDeletionIncomplete.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		middleware.GetLogger(c).Error("internal error", zap.Error(err))
	}
	RespondError(c, status, code, msg)
}

// RespondOperation sends an OperationResult. Failures keep the result body
// and take their status from the matching domain error.
func RespondOperation(c *gin.Context, res service.OperationResult) {
	if res.Success {
		RespondOK(c, res)
		return
	}
	status := http.StatusInternalServerError
	code := "OPERATION_FAILED"
	for _, known := range service.OperationErrors {
		if res.Error == known.Error() {
			status, code, _ = MapDomainError(known)
			break
		}
	}
	c.JSON(status, APIResponse{
		Success: false,
		Data:    res,
		Error:   &APIError{Code: code, Message: res.Error},
	})
}
