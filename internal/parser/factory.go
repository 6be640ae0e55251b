package parser

import (
	"fmt"

	"go.uber.org/zap"

	"invoiceflow/internal/config"
	"invoiceflow/internal/port"
)

// ProviderFactory creates a LanguageModel from a provider config.
type ProviderFactory func(cfg *config.ParserProviderConfig) (port.LanguageModel, error)

// providers is populated by RegisterProvider, normally from main.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a model provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewParser creates a LanguageModel from a provider config using the registered factory.
func NewParser(cfg *config.ParserProviderConfig) (port.LanguageModel, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown parser provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewFromConfig builds the configured provider chain. A single provider is
// returned as-is; more than one is wrapped in a FallbackParser.
func NewFromConfig(cfg *config.ParserConfig, log *zap.Logger) (port.LanguageModel, error) {
	chain := cfg.ProviderChain()
	models := make([]port.LanguageModel, 0, len(chain))
	names := make([]string, 0, len(chain))
	for _, pc := range chain {
		m, err := NewParser(pc)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
		names = append(names, pc.Provider)
	}
	if len(models) == 1 {
		return models[0], nil
	}
	return NewFallbackParser(models, names, log), nil
}
