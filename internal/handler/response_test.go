package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceflow/internal/domain"
	"invoiceflow/internal/handler"
	"invoiceflow/internal/parser"
	"invoiceflow/internal/repository/memory"
	"invoiceflow/internal/service"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"document not found", fmt.Errorf("wrapped: %w", domain.ErrDocumentNotFound), http.StatusNotFound, "DOCUMENT_NOT_FOUND"},
		{"invoice not found", domain.ErrInvoiceNotFound, http.StatusNotFound, "INVOICE_NOT_FOUND"},
		{"no valid invoices", domain.ErrNoValidInvoices, http.StatusNotFound, "NO_VALID_INVOICES"},
		{"invalid id", domain.ErrInvalidDocumentID, http.StatusBadRequest, "INVALID_ID"},
		{"missing id", domain.ErrMissingDocumentID, http.StatusBadRequest, "INVALID_ID"},
		{"invalid content", fmt.Errorf("x: %w: detail", domain.ErrInvalidContent), http.StatusBadRequest, "INVALID_CONTENT"},
		{"negative quantity", domain.ErrInvalidLineItem, http.StatusBadRequest, "INVALID_LINE_ITEM"},
		{"deletion incomplete", domain.ErrDeletionIncomplete, http.StatusConflict, "DELETION_INCOMPLETE"},
		{"rate limited", fmt.Errorf("extractor.Extract: %w", parser.NewRateLimitError("claude", errors.New("429"), 10)), http.StatusTooManyRequests, "RATE_LIMITED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, _ := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestRespondOperation_Failure(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handler.RespondOperation(c, service.OperationResult{Success: false, Error: domain.ErrLineItemOutOfRange.Error()})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "LINE_ITEM_OUT_OF_RANGE", body.Error.Code)
	assert.Equal(t, domain.ErrLineItemOutOfRange.Error(), body.Error.Message)
}

func TestRespondOperation_UnknownFailure(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handler.RespondOperation(c, service.OperationResult{Error: service.MessageOperationFailed})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "OPERATION_FAILED", body.Error.Code)
	assert.Equal(t, service.MessageOperationFailed, body.Error.Message)
}

type downStore struct{}

func (downStore) PingContext(context.Context) error { return errors.New("connection refused") }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		h      *handler.HealthHandler
		status int
	}{
		{"ready", handler.NewHealthHandler(memory.NewDocumentRepo()), http.StatusOK},
		{"store down", handler.NewHealthHandler(downStore{}), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/healthz", tt.h.Liveness)
			r.GET("/readyz", tt.h.Readiness)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)

			w = httptest.NewRecorder()
			req, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
