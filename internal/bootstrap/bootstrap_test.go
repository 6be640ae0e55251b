package bootstrap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"invoiceflow/internal/bootstrap"
	"invoiceflow/internal/config"
	"invoiceflow/internal/domain"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Store:   config.StoreConfig{Driver: "memory"},
		Notify:  config.NotifyConfig{Provider: "noop"},
		Invoice: config.InvoiceConfig{BatchConcurrency: 2},
		Parser: config.ParserConfig{
			Primary: config.ParserProviderConfig{Provider: "openai", APIKey: "test-key"},
		},
	}
}

func TestNew_MemoryStore(t *testing.T) {
	app, err := bootstrap.New(memoryConfig(), zap.NewNop())
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.Pipeline)
	assert.NotNil(t, app.Invoices)
	assert.NotNil(t, app.Duplicates)
	assert.NotNil(t, app.BatchWorker())
	require.NoError(t, app.Store.PingContext(context.Background()))

	_, err = app.Invoices.DisplayExisting(context.Background(), "", nil)
	assert.ErrorIs(t, err, domain.ErrNoInvoices)
}

func TestNew_FallbackChain(t *testing.T) {
	cfg := memoryConfig()
	cfg.Parser.Secondary = config.ParserProviderConfig{Provider: "claude", APIKey: "k"}
	cfg.Parser.Tertiary = config.ParserProviderConfig{Provider: "gemini", APIKey: "k"}

	app, err := bootstrap.New(cfg, zap.NewNop())
	require.NoError(t, err)
	app.Close()
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := memoryConfig()
	cfg.Parser.Primary.Provider = "nonexistent"

	_, err := bootstrap.New(cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unknown parser provider: nonexistent")
}
