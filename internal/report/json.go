package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/codefactor/internal/model"
)

// JSONWriter outputs run summaries in JSON format.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is written alongside the summary when non-empty.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion wraps the summary in a JSONReport carrying the tool version.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the summary in JSON format.
func (w *JSONWriter) Write(summary *model.RunSummary) (int, error) {
	if w.version != "" {
		return w.writeJSON(NewJSONReport(summary, w.version))
	}
	return w.writeJSON(summary)
}

// writeJSON marshals v and writes it followed by a newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}

// JSONReport wraps a summary with metadata for tool integration.
type JSONReport struct {
	// Version is the codefactor version that produced the run.
	Version string `json:"version"`

	// Counts repeats the summary counters so consumers need not recount.
	Counts Counts `json:"counts"`

	// Tags is the number of files per tag, most frequent first.
	Tags []model.TagCount `json:"tags"`

	// Run is the full summary.
	Run *model.RunSummary `json:"run"`
}

// Counts are the aggregate numbers of a run.
type Counts struct {
	Total        int `json:"total"`
	Validated    int `json:"validated"`
	Failed       int `json:"failed"`
	SyntaxErrors int `json:"syntax_errors"`
}

// NewJSONReport creates a JSONReport for summary.
func NewJSONReport(summary *model.RunSummary, version string) *JSONReport {
	return &JSONReport{
		Version: version,
		Counts: Counts{
			Total:        summary.Total(),
			Validated:    summary.ValidatedCount(),
			Failed:       summary.FailedCount(),
			SyntaxErrors: summary.SyntaxErrorCount(),
		},
		Tags: summary.TagDistribution(),
		Run:  summary,
	}
}
