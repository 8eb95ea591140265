package model

import "time"

// FileReport is the record of one file's trip through the pipeline.
// Pipeline steps receive it, read what earlier steps produced, and fill in
// their own results.
type FileReport struct {
	// Path is the discovered file path. It is rewritten in place and never deleted.
	Path string `json:"path"`

	// BackupPath is where the pre-processing content was copied.
	BackupPath string `json:"backup_path,omitempty"`

	// NewPath is the content-derived sibling path the annotated file was copied to.
	NewPath string `json:"new_path,omitempty"`

	// Hash is the truncated content hash of the original text.
	Hash string `json:"hash,omitempty"`

	// Tags is the sorted category tag set.
	Tags []string `json:"tags,omitempty"`

	// Description is the synthesized description written into the header.
	Description string `json:"description,omitempty"`

	// State is the last state reached.
	State FileState `json:"state"`

	// Validated is true when the validation step passed.
	Validated bool `json:"validated"`

	// SyntaxError is true when analysis fell back because the file did not parse.
	SyntaxError bool `json:"syntax_error"`

	// Errors holds the messages of every failure recorded for this file,
	// fatal or not, in the order they happened.
	Errors []string `json:"errors,omitempty"`

	// PerformedSteps lists the names of the steps that ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// StartedAt and FinishedAt bound the processing of this file.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Source is the content read during analysis. Not serialized.
	Source *SourceFile `json:"-"`

	// Analysis is the analyzer output. Not serialized.
	Analysis *AnalysisResult `json:"-"`

	// Annotated is the new file content produced by the annotator. Not serialized.
	Annotated string `json:"-"`
}

// NewFileReport creates a report for a freshly discovered file.
func NewFileReport(path string) *FileReport {
	return &FileReport{
		Path:      path,
		State:     StateDiscovered,
		StartedAt: time.Now(),
	}
}

// AddError records a failure message.
func (r *FileReport) AddError(err error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, err.Error())
}

// Fail moves the report to StateFailed and records the cause.
func (r *FileReport) Fail(err error) {
	r.AddError(err)
	r.State = StateFailed
}

// Failed reports whether the file was abandoned.
func (r *FileReport) Failed() bool {
	return r.State == StateFailed
}

// HasErrors reports whether any failure, fatal or not, was recorded.
func (r *FileReport) HasErrors() bool {
	return len(r.Errors) > 0
}
