package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/codefactor/internal/log"
	"github.com/nao1215/codefactor/internal/model"
)

// FileFunc processes one file, recording its log entries to rec.
type FileFunc func(ctx context.Context, path string, rec log.Recorder) *model.FileReport

// BatchProcessor processes files concurrently.
// Each file records into its own log.Buffer, which is flushed to the run
// log as one block when the file is done. Entries keep the time they were
// recorded, so blocks of different files may interleave out of time order.
type BatchProcessor struct {
	process     FileFunc
	runLog      *log.RunLog
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of files processed at once.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// DefaultBatchConcurrency is used when WithConcurrency is not given.
const DefaultBatchConcurrency = 4

// NewBatchProcessor creates a BatchProcessor writing to runLog.
func NewBatchProcessor(runLog *log.RunLog, process FileFunc, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		process:     process,
		runLog:      runLog,
		concurrency: DefaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch processes paths and returns their reports in input order.
// Files not started because ctx was cancelled have no report; the
// context error is returned in that case.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, paths []string) ([]*model.FileReport, error) {
	bp.logger.Debug("starting batch processing",
		"total_files", len(paths),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	// Each goroutine writes only its own index.
	results := make([]*model.FileReport, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			buf := log.NewBuffer(bp.runLog.Now)
			report := bp.process(gctx, path, buf)
			buf.FlushTo(bp.runLog)
			results[i] = report
			return nil
		})
	}
	err := g.Wait()

	reports := make([]*model.FileReport, 0, len(results))
	for _, r := range results {
		if r != nil {
			reports = append(reports, r)
		}
	}

	bp.logger.Debug("batch processing complete",
		"total_files", len(paths),
		"processed", len(reports),
		"elapsed", time.Since(startTime),
	)
	return reports, err
}
