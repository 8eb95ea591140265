package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/codefactor/internal/model"
)

// SimpleWriter outputs human-readable text reports for the terminal.
type SimpleWriter struct {
	baseWriter

	// verbose lists every file's errors and new name.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables per-file detail in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.RunSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeCounts(&sb, summary)
	w.writeTags(&sb, summary)
	w.writeFiles(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        CODEFACTOR SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	if summary.ID != 0 {
		fmt.Fprintf(sb, "Run:         #%d\n", summary.ID)
	}
	fmt.Fprintf(sb, "Directory:   %s\n", summary.Root)
	fmt.Fprintf(sb, "Log:         %s\n", summary.LogPath)
	fmt.Fprintf(sb, "Started:     %s\n", summary.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(sb, "Duration:    %s\n", summary.Duration().Round(time.Millisecond))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeCounts(sb *strings.Builder, summary *model.RunSummary) {
	fmt.Fprintf(sb, "  FILES:         %d\n", summary.Total())
	fmt.Fprintf(sb, "  VALIDATED:     %d\n", summary.ValidatedCount())
	fmt.Fprintf(sb, "  FAILED:        %d\n", summary.FailedCount())
	fmt.Fprintf(sb, "  SYNTAX ERRORS: %d\n", summary.SyntaxErrorCount())
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeTags(sb *strings.Builder, summary *model.RunSummary) {
	tags := summary.TagDistribution()
	if len(tags) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nTAGS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
	for _, tc := range tags {
		fmt.Fprintf(sb, "  %-16s %d\n", tc.Tag, tc.Count)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFiles(sb *strings.Builder, summary *model.RunSummary) {
	if len(summary.Files) == 0 {
		sb.WriteString("No matching files found.\n")
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\nFILES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
	for _, f := range summary.Files {
		fmt.Fprintf(sb, "  [%s] %s\n", indicator(f), f.Path)
		if !w.verbose {
			continue
		}
		if f.NewPath != "" {
			fmt.Fprintf(sb, "      -> %s\n", f.NewPath)
		}
		for _, e := range f.Errors {
			fmt.Fprintf(sb, "      ! %s\n", e)
		}
	}
	sb.WriteString("\n")
}

// indicator returns a short marker for the file outcome.
func indicator(f *model.FileReport) string {
	switch {
	case f.Failed():
		return "!!"
	case f.Validated && f.SyntaxError:
		return "~ "
	case f.Validated:
		return "ok"
	default:
		return "? "
	}
}
