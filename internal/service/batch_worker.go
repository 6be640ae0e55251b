package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"invoiceflow/internal/port"
)

// BatchConfig holds settings for the batch worker.
type BatchConfig struct {
	Concurrency    int
	ProcessTimeout time.Duration
}

// BatchItem is one document submitted as part of a batch.
type BatchItem struct {
	Name  string
	Input ProcessInput
	Sink  port.StreamSink
}

// BatchOutcome pairs a batch item with its pipeline result.
type BatchOutcome struct {
	Name   string
	Result *ProcessResult
	Err    error
}

// BatchWorker runs many documents through the pipeline with bounded concurrency.
type BatchWorker struct {
	pipeline InvoicePipeline
	cfg      BatchConfig
	log      *zap.Logger
}

// NewBatchWorker creates a new BatchWorker.
func NewBatchWorker(pipeline InvoicePipeline, cfg BatchConfig, log *zap.Logger) *BatchWorker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &BatchWorker{pipeline: pipeline, cfg: cfg, log: log}
}

// Run processes items and returns one outcome per item, in input order.
// Items not yet started when ctx is canceled report ctx.Err().
func (w *BatchWorker) Run(ctx context.Context, items []BatchItem) []BatchOutcome {
	outcomes := make([]BatchOutcome, len(items))
	sem := make(chan struct{}, w.cfg.Concurrency)
	var wg sync.WaitGroup

	w.log.Info("batchWorker: started",
		zap.Int("items", len(items)), zap.Int("concurrency", w.cfg.Concurrency))

	for i := range items {
		item := items[i]
		outcomes[i].Name = item.Name

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			outcomes[i].Err = ctx.Err()
			continue
		}

		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			runCtx := ctx
			if w.cfg.ProcessTimeout > 0 {
				var cancel context.CancelFunc
				runCtx, cancel = context.WithTimeout(ctx, w.cfg.ProcessTimeout)
				defer cancel()
			}

			w.log.Debug("batchWorker: dispatching", zap.String("name", item.Name))
			input := item.Input
			res, err := w.pipeline.Process(runCtx, &input, item.Sink)
			outcomes[i].Result = res
			outcomes[i].Err = err
			if err != nil {
				w.log.Warn("batchWorker: processing failed", zap.String("name", item.Name), zap.Error(err))
			}
		}(i)
	}

	wg.Wait()
	w.log.Info("batchWorker: complete", zap.Int("items", len(items)))
	return outcomes
}
