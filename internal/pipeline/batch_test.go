package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nao1215/codefactor/internal/log"
	"github.com/nao1215/codefactor/internal/model"
)

// TestBatchProcessorOrderAndContiguity tests that reports keep input order
// and each file's entries reach the run log as one block.
func TestBatchProcessorOrderAndContiguity(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	runLog := log.NewRunLog(&out, log.WithClock(fixedClock), log.WithConsole(nil))

	process := func(_ context.Context, path string, rec log.Recorder) *model.FileReport {
		for step := range 5 {
			rec.Recordf("%s step %d", path, step)
		}
		return model.NewFileReport(path)
	}

	paths := make([]string, 20)
	for i := range paths {
		paths[i] = fmt.Sprintf("f%02d.py", i)
	}

	bp := NewBatchProcessor(runLog, process, WithConcurrency(4))
	reports, err := bp.ProcessBatch(context.Background(), paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reports) != len(paths) {
		t.Fatalf("got %d reports, want %d", len(reports), len(paths))
	}
	for i, r := range reports {
		if r.Path != paths[i] {
			t.Errorf("reports[%d].Path = %q, want %q", i, r.Path, paths[i])
		}
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != len(paths)*5 {
		t.Fatalf("got %d log lines, want %d", len(lines), len(paths)*5)
	}
	for block := 0; block < len(lines); block += 5 {
		msg := strings.SplitN(lines[block], " - ", 2)[1]
		path := strings.SplitN(msg, " ", 2)[0]
		for step := range 5 {
			want := fmt.Sprintf("%s step %d", path, step)
			if !strings.HasSuffix(lines[block+step], want) {
				t.Errorf("line %d = %q, want suffix %q", block+step, lines[block+step], want)
			}
		}
	}
	if runLog.Count() != len(paths)*5 {
		t.Errorf("Count() = %d", runLog.Count())
	}
}

// TestBatchProcessorCancelled tests that a cancelled batch reports the context error.
func TestBatchProcessorCancelled(t *testing.T) {
	t.Parallel()

	runLog := log.NewRunLog(&bytes.Buffer{}, log.WithConsole(nil))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	bp := NewBatchProcessor(runLog, func(_ context.Context, path string, _ log.Recorder) *model.FileReport {
		called = true
		return model.NewFileReport(path)
	}, WithConcurrency(1))

	reports, err := bp.ProcessBatch(ctx, []string{"a.py", "b.py"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if called || len(reports) != 0 {
		t.Errorf("expected no files processed, got %d reports", len(reports))
	}
}

// TestWithConcurrency tests that non-positive values keep the default.
func TestWithConcurrency(t *testing.T) {
	t.Parallel()

	runLog := log.NewRunLog(&bytes.Buffer{}, log.WithConsole(nil))
	bp := NewBatchProcessor(runLog, nil, WithConcurrency(0))
	if bp.concurrency != DefaultBatchConcurrency {
		t.Errorf("concurrency = %d, want %d", bp.concurrency, DefaultBatchConcurrency)
	}
	bp = NewBatchProcessor(runLog, nil, WithConcurrency(8))
	if bp.concurrency != 8 {
		t.Errorf("concurrency = %d, want 8", bp.concurrency)
	}
}
