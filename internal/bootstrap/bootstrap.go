// Package bootstrap wires configuration into the services shared by the
// HTTP server and the CLI.
package bootstrap

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"invoiceflow/internal/config"
	"invoiceflow/internal/email/noop"
	"invoiceflow/internal/email/ses"
	"invoiceflow/internal/parser"
	"invoiceflow/internal/parser/claude"
	"invoiceflow/internal/parser/gemini"
	"invoiceflow/internal/parser/openai"
	"invoiceflow/internal/port"
	"invoiceflow/internal/repository/memory"
	"invoiceflow/internal/repository/postgres"
	"invoiceflow/internal/service"
	s3storage "invoiceflow/internal/storage/s3"
)

var registerOnce sync.Once

// RegisterProviders registers every built-in language model provider.
func RegisterProviders() {
	registerOnce.Do(func() {
		parser.RegisterProvider("openai", func(cfg *config.ParserProviderConfig) (port.LanguageModel, error) {
			return openai.NewParser(cfg), nil
		})
		parser.RegisterProvider("claude", func(cfg *config.ParserProviderConfig) (port.LanguageModel, error) {
			return claude.NewParser(cfg), nil
		})
		parser.RegisterProvider("gemini", func(cfg *config.ParserProviderConfig) (port.LanguageModel, error) {
			return gemini.NewParser(cfg), nil
		})
	})
}

// App holds the wired services.
type App struct {
	Config     *config.Config
	Log        *zap.Logger
	Repo       port.DocumentRepository
	Store      port.Pinger
	Pipeline   service.InvoicePipeline
	Invoices   service.InvoiceService
	Duplicates service.DuplicateService

	closers []func() error
}

// New builds the document store, model chain, notifier and archive from cfg.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	RegisterProviders()
	app := &App{Config: cfg, Log: log}

	switch cfg.Store.Driver {
	case "memory":
		repo := memory.NewDocumentRepo()
		app.Repo, app.Store = repo, repo
	default:
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.closers = append(app.closers, db.Close)
		app.Repo, app.Store = postgres.NewDocumentRepo(db), db
	}

	model, err := parser.NewFromConfig(&cfg.Parser, log)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize parser: %w", err)
	}

	notifier, err := newNotifier(&cfg.Notify, log)
	if err != nil {
		app.Close()
		return nil, err
	}

	archive, err := newArchive(&cfg.S3)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.Duplicates = service.NewDuplicateService(app.Repo, log)
	app.Pipeline = service.NewInvoicePipeline(app.Repo, parser.NewExtractor(model), app.Duplicates, notifier, archive, log)
	app.Invoices = service.NewInvoiceService(app.Repo, parser.NewUpdater(model), archive, cfg.Invoice.DeleteSettleDelay, log)

	log.Info("bootstrap: services ready",
		zap.String("store", cfg.Store.Driver),
		zap.String("parser", cfg.Parser.PrimaryConfig().Provider),
		zap.String("notify", cfg.Notify.Provider),
		zap.Bool("archive", cfg.S3.ArchiveEnabled))
	return app, nil
}

// BatchWorker returns a batch worker over the app's pipeline.
func (a *App) BatchWorker() *service.BatchWorker {
	return service.NewBatchWorker(a.Pipeline, service.BatchConfig{
		Concurrency:    a.Config.Invoice.BatchConcurrency,
		ProcessTimeout: a.Config.Invoice.ProcessTimeout,
	}, a.Log)
}

// Close releases the store connection, if any.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.Log.Warn("bootstrap: close failed", zap.Error(err))
		}
	}
	a.closers = nil
}

func newNotifier(cfg *config.NotifyConfig, log *zap.Logger) (port.DuplicateNotifier, error) {
	switch cfg.Provider {
	case "ses":
		n, err := ses.NewSESNotifier(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES notifier: %w", err)
		}
		return n, nil
	default:
		return noop.NewNoopNotifier(log), nil
	}
}

func newArchive(cfg *config.S3Config) (service.SourceArchive, error) {
	if !cfg.ArchiveEnabled {
		return service.NewSourceArchive(nil, cfg), nil
	}
	storage, err := s3storage.NewS3Client(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	return service.NewSourceArchive(storage, cfg), nil
}
