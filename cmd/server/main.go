// @title Invoiceflow API
// @version 1.0
// @description Invoice extraction, duplicate detection and aggregation service.
// @BasePath /api/v1
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"invoiceflow/internal/bootstrap"
	"invoiceflow/internal/config"
	"invoiceflow/internal/handler"
	"invoiceflow/internal/logger"
	"invoiceflow/internal/router"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	app, err := bootstrap.New(cfg, zl)
	if err != nil {
		return err
	}
	defer app.Close()

	// Initialize handlers
	invoiceH := handler.NewInvoiceHandler(app.Pipeline, app.Invoices, app.Duplicates)
	healthH := handler.NewHealthHandler(app.Store)

	// Setup router
	r := router.Setup(zl, cfg.CORS.AllowedOrigins, invoiceH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zl.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
