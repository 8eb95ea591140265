package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/codefactor/internal/analyzer"
	"github.com/nao1215/codefactor/internal/fsys"
	"github.com/nao1215/codefactor/internal/log"
	"github.com/nao1215/codefactor/internal/model"
)

// Processor runs the per-file pipeline over every matching file in a directory tree.
type Processor struct {
	settings Settings
	fs       fsys.FileSystem
	analyzer *analyzer.Analyzer
	now      func() time.Time
	console  io.Writer
	logger   *slog.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithFileSystem sets the file system. The default is the host file system.
func WithFileSystem(fs fsys.FileSystem) ProcessorOption {
	return func(p *Processor) {
		p.fs = fs
	}
}

// WithAnalyzer sets the analyzer. The default is analyzer.New().
func WithAnalyzer(a *analyzer.Analyzer) ProcessorOption {
	return func(p *Processor) {
		p.analyzer = a
	}
}

// WithClock sets the time source for headers and log entries.
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) {
		p.now = now
	}
}

// WithConsole sets where log entries and errors are mirrored. The default is os.Stdout.
func WithConsole(w io.Writer) ProcessorOption {
	return func(p *Processor) {
		p.console = w
	}
}

// WithProcessorLogger sets the diagnostic logger.
func WithProcessorLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = logger
	}
}

// NewProcessor creates a Processor for the given settings.
func NewProcessor(settings Settings, opts ...ProcessorOption) (*Processor, error) {
	p := &Processor{
		settings: settings,
		now:      time.Now,
		console:  os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fs == nil {
		p.fs = fsys.NewOS()
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.analyzer == nil {
		a, err := analyzer.New()
		if err != nil {
			return nil, err
		}
		p.analyzer = a
	}
	return p, nil
}

// Run processes every file under root whose name ends with the configured
// extension. Discovery completes before the first file is touched.
//
// A root that is not a directory is reported on the console and returns
// ErrInvalidRoot without creating anything. Per-file failures never stop
// the run; they are logged and recorded in the returned summary.
func (p *Processor) Run(ctx context.Context, root string) (summary *model.RunSummary, err error) {
	if !p.fs.IsDir(root) {
		fmt.Fprintf(p.console, "Error: %s is not a valid directory.\n", root)
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoot, root)
	}

	logPath := filepath.Join(root, p.settings.LogFileName)
	runLog, err := log.OpenRunLog(logPath, log.WithClock(p.now), log.WithConsole(p.console))
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := runLog.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	summary = model.NewRunSummary(root, logPath)
	summary.StartedAt = p.now()
	runLog.Recordf("Starting processing in directory: %s", root)

	files, err := p.fs.Discover(root, p.settings.Extension)
	if err != nil {
		runLog.Recordf("Failed to scan %s: %v", root, err)
		return summary, err
	}
	p.logger.Debug("discovered files", "root", root, "count", len(files))

	if p.settings.Concurrency > 1 {
		bp := NewBatchProcessor(runLog, p.processFile,
			WithConcurrency(p.settings.Concurrency),
			WithBatchLogger(p.logger),
		)
		summary.Files, err = bp.ProcessBatch(ctx, files)
	} else {
		summary.Files, err = p.processSequential(ctx, files, runLog)
	}
	summary.FinishedAt = p.now()

	if err != nil {
		runLog.Recordf("Processing interrupted: %v", err)
		return summary, err
	}
	runLog.Record("Processing complete.")
	return summary, nil
}

// processSequential handles files one at a time, recording straight to the run log.
func (p *Processor) processSequential(ctx context.Context, files []string, runLog *log.RunLog) ([]*model.FileReport, error) {
	reports := make([]*model.FileReport, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		reports = append(reports, p.processFile(ctx, path, runLog))
	}
	return reports, nil
}

// processFile drives one file through the pipeline.
func (p *Processor) processFile(ctx context.Context, path string, rec log.Recorder) *model.FileReport {
	report := model.NewFileReport(path)
	report.StartedAt = p.now()
	rec.Recordf("Processing file: %s", path)

	pl := DefaultPipeline(p.settings, p.fs, p.analyzer, p.now, rec, WithLogger(p.logger))
	if err := pl.Execute(ctx, report); err != nil {
		p.logger.Debug("file abandoned", "path", path, "error", err)
	}
	report.FinishedAt = p.now()
	return report
}
