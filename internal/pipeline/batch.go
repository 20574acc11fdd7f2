package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/redactpdf/internal/config"
	"github.com/nao1215/redactpdf/internal/model"
)

// Result is the outcome of one request in a batch.
type Result struct {
	// Request is the request as submitted.
	Request Request

	// Run is the finished run. It is nil when the run never started,
	// for example on an unknown document type.
	Run *model.Run

	// Err is the error that failed the run, if any.
	Err error
}

// BatchProcessor runs several requests concurrently.
// Each request gets its own sequential pipeline; only independent PDFs run
// in parallel, never pages of the same PDF.
type BatchProcessor struct {
	// engine executes each request.
	engine *Engine

	// concurrency is the maximum number of concurrent runs.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent runs.
// Default is config.DefaultWorkers if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor around engine.
func NewBatchProcessor(engine *Engine, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		engine:      engine,
		concurrency: config.DefaultWorkers,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs every request and returns results in input order.
// A failed request does not stop the others; its error is recorded in its
// Result. The returned error is only set when ctx is cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, reqs []Request) ([]Result, error) {
	bp.logger.Info("starting batch processing",
		"total_files", len(reqs),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Each goroutine writes only its own index.
	results := make([]Result, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Request: req, Err: err}
				return err
			}

			bp.logger.Debug("redacting file",
				"file", req.PDFPath,
				"index", i+1,
				"total", len(reqs),
			)

			run, err := bp.engine.Execute(ctx, req)
			results[i] = Result{Request: req, Run: run, Err: err}
			if err != nil {
				bp.logger.Warn("run failed",
					"file", req.PDFPath,
					"error", err,
				)
			}

			// Other runs continue regardless.
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_files", len(reqs),
		"elapsed", time.Since(startTime),
	)

	return results, err
}
