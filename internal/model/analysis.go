package model

// Comment is an annotation to insert immediately before an original line.
type Comment struct {
	// Line is the 0-based index into the original (pre-header) lines.
	Line int `json:"line"`

	// Text is the full comment including the leading "#".
	Text string `json:"text"`
}

// AnalysisResult is the outcome of analyzing one source file.
// It is consumed by the annotator and the filename synthesizer and then discarded.
type AnalysisResult struct {
	// Description is the synthesized prose, always starting with "This script ".
	Description string `json:"description"`

	// Comments are ordered by Line; each Line appears at most once.
	Comments []Comment `json:"comments,omitempty"`

	// Tags is the sorted, deduplicated set of category tags.
	Tags []string `json:"tags,omitempty"`

	// ContentHash is the truncated digest of the analyzed text.
	ContentHash string `json:"content_hash"`

	// SyntaxError is non-nil when the parser rejected the source.
	// The result then carries the fallback description and tag.
	SyntaxError error `json:"-"`
}

// Degraded reports whether the analysis fell back because of a parse failure.
func (r *AnalysisResult) Degraded() bool {
	return r.SyntaxError != nil
}

// CommentAt returns the comment mapped to the given line, if any.
func (r *AnalysisResult) CommentAt(line int) (Comment, bool) {
	for _, c := range r.Comments {
		if c.Line == line {
			return c, true
		}
	}
	return Comment{}, false
}
