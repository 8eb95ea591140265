package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/codefactor/internal/model"
)

// MarkdownWriter outputs run summaries in Markdown format for sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeTags(md, summary)
	w.writeFiles(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.RunSummary) {
	md.H1("codefactor Report")
	md.PlainText("")

	rows := [][]string{
		{"Directory", "`" + summary.Root + "`"},
		{"Log", "`" + summary.LogPath + "`"},
		{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
		{"Files", strconv.Itoa(summary.Total())},
		{"Validated", strconv.Itoa(summary.ValidatedCount())},
		{"Failed", strconv.Itoa(summary.FailedCount())},
		{"Syntax errors", strconv.Itoa(summary.SyntaxErrorCount())},
	}
	if summary.ID != 0 {
		rows = append([][]string{{"Run", "#" + strconv.FormatInt(summary.ID, 10)}}, rows...)
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeAlert(md, summary)
}

// writeAlert writes an alert matching the worst outcome of the run.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.RunSummary) {
	unvalidated := summary.Total() - summary.ValidatedCount() - summary.FailedCount()
	switch {
	case summary.FailedCount() > 0:
		md.Cautionf("%d file(s) could not be processed. See the log for the cause.", summary.FailedCount())
	case unvalidated > 0:
		md.Warningf("%d file(s) did not pass validation.", unvalidated)
	case summary.SyntaxErrorCount() > 0:
		md.Importantf("%d file(s) could not be parsed and received the fallback description.", summary.SyntaxErrorCount())
	case summary.Total() == 0:
		md.Note("No matching files were found.")
	default:
		md.Tip("All files were annotated and validated.")
	}
	md.PlainText("")
}

// writeTags writes the tag distribution as a table and a mermaid pie chart.
func (w *MarkdownWriter) writeTags(md *markdown.Markdown, summary *model.RunSummary) {
	tags := summary.TagDistribution()
	if len(tags) == 0 {
		return
	}

	md.H2("Tags")
	md.PlainText("")

	rows := make([][]string, len(tags))
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Files per Tag"),
		piechart.WithShowData(true),
	)
	for i, tc := range tags {
		rows[i] = []string{"`" + tc.Tag + "`", strconv.Itoa(tc.Count)}
		chart.LabelAndIntValue(tc.Tag, uint64(tc.Count)) //nolint:gosec // counts are never negative
	}
	md.Table(markdown.TableSet{
		Header: []string{"Tag", "Files"},
		Rows:   rows,
	})
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeFiles writes one table row per file and the recorded errors.
func (w *MarkdownWriter) writeFiles(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Files")
	md.PlainText("")

	if len(summary.Files) == 0 {
		md.PlainText("No matching files found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Files))
	for i, f := range summary.Files {
		rows[i] = []string{
			"`" + f.Path + "`",
			dash(f.NewPath),
			dash(strings.Join(f.Tags, ", ")),
			dash(f.Hash),
			outcome(f),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", "New Name", "Tags", "Hash", "Outcome"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, f := range summary.Files {
		if len(f.Errors) > 0 {
			md.Details(f.Path, strings.Join(f.Errors, "\n"))
		}
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [codefactor](https://github.com/nao1215/codefactor)*")
}
