package parser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"invoiceflow/internal/port"
)

// circuitState tracks rate-limit backoff for a single provider.
type circuitState struct {
	mu      sync.RWMutex
	resetAt time.Time // zero value = closed (healthy)
}

func (c *circuitState) isOpenWithReset(now time.Time) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.resetAt, !c.resetAt.IsZero() && now.Before(c.resetAt)
}

func (c *circuitState) open(resetAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetAt = resetAt
}

// FallbackParser tries language models in order, skipping those whose
// circuit is open after a rate limit. It implements port.LanguageModel.
type FallbackParser struct {
	models   []port.LanguageModel
	circuits []*circuitState
	names    []string
	log      *zap.Logger
}

// NewFallbackParser creates a FallbackParser from an ordered list of models and their names.
func NewFallbackParser(models []port.LanguageModel, names []string, log *zap.Logger) *FallbackParser {
	circuits := make([]*circuitState, len(models))
	for i := range circuits {
		circuits[i] = &circuitState{}
	}
	return &FallbackParser{
		models:   models,
		circuits: circuits,
		names:    names,
		log:      log,
	}
}

func (f *FallbackParser) Complete(ctx context.Context, input port.CompletionInput) (*port.CompletionOutput, error) {
	now := time.Now()
	var lastErr error
	allRateLimited := true
	var earliestReset time.Time

	for i, m := range f.models {
		if resetAt, open := f.circuits[i].isOpenWithReset(now); open {
			f.log.Debug("parser.FallbackParser: skipping provider, circuit open",
				zap.String("provider", f.names[i]), zap.Time("reset_at", resetAt))
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
			continue
		}

		out, err := m.Complete(ctx, input)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}

		f.log.Warn("parser.FallbackParser: provider failed",
			zap.String("provider", f.names[i]), zap.Error(err))
		lastErr = err

		var rlErr *RateLimitError
		if errors.As(err, &rlErr) {
			resetAt := now.Add(rlErr.RetryAfter)
			f.circuits[i].open(resetAt)
			if earliestReset.IsZero() || resetAt.Before(earliestReset) {
				earliestReset = resetAt
			}
		} else {
			allRateLimited = false
		}
	}

	// lastErr == nil means every provider was skipped.
	if lastErr == nil || allRateLimited {
		retryAfter := time.Until(earliestReset)
		if retryAfter < time.Second {
			retryAfter = time.Second
		}
		return nil, NewRateLimitError("all", fmt.Errorf("all providers rate limited"), int(retryAfter.Seconds()))
	}

	return nil, fmt.Errorf("all providers failed: %w", lastErr)
}
