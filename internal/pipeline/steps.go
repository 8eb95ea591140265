package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nao1215/codefactor/internal/analyzer"
	"github.com/nao1215/codefactor/internal/annotate"
	"github.com/nao1215/codefactor/internal/fsys"
	"github.com/nao1215/codefactor/internal/log"
	"github.com/nao1215/codefactor/internal/model"
	"github.com/nao1215/codefactor/internal/naming"
)

// PlaceholderMarker is the text a finished file must not contain.
const PlaceholderMarker = "[Explain what this line does]"

// DescriptionMarker is the header field a finished file must contain.
const DescriptionMarker = "Description:"

// Step names, in execution order.
const (
	StepBackup   = "backup"
	StepAnalyze  = "analyze"
	StepAnnotate = "annotate"
	StepRename   = "rename"
	StepValidate = "validate"
)

// BackupStep copies the file to <path><suffix> before anything else touches it.
// A failed backup abandons the file.
type BackupStep struct {
	fs     fsys.FileSystem
	suffix string
	rec    log.Recorder
}

// NewBackupStep creates a backup step.
func NewBackupStep(fs fsys.FileSystem, suffix string, rec log.Recorder) *BackupStep {
	return &BackupStep{fs: fs, suffix: suffix, rec: rec}
}

// Name returns the step name.
func (s *BackupStep) Name() string {
	return StepBackup
}

// Do executes the backup step.
func (s *BackupStep) Do(_ context.Context, report *model.FileReport) error {
	backupPath := report.Path + s.suffix
	if err := s.fs.CopyFile(report.Path, backupPath); err != nil {
		s.rec.Recordf("Skipping processing for %s due to backup failure: %v", report.Path, err)
		err = fmt.Errorf("%w: %w", ErrBackup, err)
		report.Fail(err)
		return err
	}
	report.BackupPath = backupPath
	report.State = model.StateBackedUp
	s.rec.Recordf("Created backup for %s at %s.", report.Path, backupPath)
	return nil
}

// AnalyzeStep reads the file once and derives its description, comments,
// tags and content hash. Unparseable source degrades the analysis but does
// not fail the file.
type AnalyzeStep struct {
	fs       fsys.FileSystem
	analyzer *analyzer.Analyzer
	rec      log.Recorder
}

// NewAnalyzeStep creates an analyze step.
func NewAnalyzeStep(fs fsys.FileSystem, a *analyzer.Analyzer, rec log.Recorder) *AnalyzeStep {
	return &AnalyzeStep{fs: fs, analyzer: a, rec: rec}
}

// Name returns the step name.
func (s *AnalyzeStep) Name() string {
	return StepAnalyze
}

// Do executes the analyze step.
func (s *AnalyzeStep) Do(_ context.Context, report *model.FileReport) error {
	content, err := s.fs.ReadFile(report.Path)
	if err != nil {
		s.rec.Recordf("Failed to read %s: %v", report.Path, err)
		err = fmt.Errorf("%w: %w", ErrRead, err)
		report.Fail(err)
		return err
	}

	result := s.analyzer.Analyze(content)
	report.Source = &model.SourceFile{Path: report.Path, Content: content, Hash: result.ContentHash}
	report.Analysis = &result
	report.Hash = result.ContentHash
	report.Tags = result.Tags
	report.Description = result.Description
	report.SyntaxError = result.Degraded()
	report.State = model.StateAnalyzed

	if result.Degraded() {
		s.rec.Recordf("Syntax error in %s: %v", report.Path, result.SyntaxError)
		return nil
	}
	s.rec.Recordf("Analyzed %s: tags [%s], hash %s.", report.Path, strings.Join(result.Tags, ", "), result.ContentHash)
	return nil
}

// AnnotateStep rewrites the file in place with the header and comments.
type AnnotateStep struct {
	fs        fsys.FileSystem
	developer string
	now       func() time.Time
	rec       log.Recorder
}

// NewAnnotateStep creates an annotate step. now stamps the header.
func NewAnnotateStep(fs fsys.FileSystem, developer string, now func() time.Time, rec log.Recorder) *AnnotateStep {
	if now == nil {
		now = time.Now
	}
	return &AnnotateStep{fs: fs, developer: developer, now: now, rec: rec}
}

// Name returns the step name.
func (s *AnnotateStep) Name() string {
	return StepAnnotate
}

// Do executes the annotate step. A write failure is recorded and the file
// continues to the next step.
func (s *AnnotateStep) Do(_ context.Context, report *model.FileReport) error {
	if report.Source == nil || report.Analysis == nil {
		return fmt.Errorf("%s: annotate requires an analyzed file", report.Path)
	}

	header := annotate.Header{
		Developer:    s.developer,
		LastModified: s.now(),
		Description:  report.Analysis.Description,
	}
	annotated := annotate.Annotate(annotate.SplitLines(string(report.Source.Content)), header, report.Analysis.Comments)

	if err := s.fs.WriteFile(report.Path, []byte(annotated)); err != nil {
		s.rec.Recordf("Failed to modify %s: %v", report.Path, err)
		report.AddError(fmt.Errorf("%w: %w", ErrWrite, err))
		return nil
	}
	report.Annotated = annotated
	report.State = model.StateAnnotated
	s.rec.Recordf("Added header and comments to %s.", report.Path)
	return nil
}

// RenameStep copies the file to its content-addressed name next to it.
// The original path is kept; validation and the log refer to it.
type RenameStep struct {
	fs  fsys.FileSystem
	ext string
	rec log.Recorder
}

// NewRenameStep creates a rename step. ext is appended to the synthesized name.
func NewRenameStep(fs fsys.FileSystem, ext string, rec log.Recorder) *RenameStep {
	return &RenameStep{fs: fs, ext: ext, rec: rec}
}

// Name returns the step name.
func (s *RenameStep) Name() string {
	return StepRename
}

// Do executes the rename step. A copy failure is recorded and the file
// continues to validation.
func (s *RenameStep) Do(_ context.Context, report *model.FileReport) error {
	newName := naming.Synthesize(report.Tags, report.Hash, s.ext)
	newPath := filepath.Join(filepath.Dir(report.Path), newName)

	// Copying a file onto itself would truncate it.
	if filepath.Clean(newPath) == filepath.Clean(report.Path) {
		report.NewPath = newPath
		report.State = model.StateRenamed
		s.rec.Recordf("Skipped copy of %s: already named %s.", report.Path, newName)
		return nil
	}

	if err := s.fs.CopyFile(report.Path, newPath); err != nil {
		s.rec.Recordf("Failed to copy %s to %s: %v", report.Path, newPath, err)
		report.AddError(fmt.Errorf("%w: %w", ErrCopy, err))
		return nil
	}
	report.NewPath = newPath
	report.State = model.StateRenamed
	s.rec.Recordf("Copied %s to %s.", report.Path, newPath)
	return nil
}

// ValidateStep checks that the processed file carries a description and no
// placeholder text. A failed check is a warning.
type ValidateStep struct {
	fs  fsys.FileSystem
	rec log.Recorder
}

// NewValidateStep creates a validate step.
func NewValidateStep(fs fsys.FileSystem, rec log.Recorder) *ValidateStep {
	return &ValidateStep{fs: fs, rec: rec}
}

// Name returns the step name.
func (s *ValidateStep) Name() string {
	return StepValidate
}

// Do executes the validate step.
func (s *ValidateStep) Do(_ context.Context, report *model.FileReport) error {
	content, err := s.fs.ReadFile(report.Path)
	if err != nil {
		s.rec.Recordf("Failed to validate %s: %v", report.Path, err)
		report.AddError(fmt.Errorf("%w: %w", ErrRead, err))
		return nil
	}

	if !Valid(content) {
		s.rec.Recordf("Validation failed for %s: Missing description or placeholders remain.", report.Path)
		report.AddError(fmt.Errorf("%w: %s", ErrValidation, report.Path))
		return nil
	}
	report.Validated = true
	report.State = model.StateValidated
	s.rec.Recordf("Validation passed for %s.", report.Path)
	return nil
}

// Valid reports whether content has a description and no placeholder text.
func Valid(content []byte) bool {
	text := string(content)
	return strings.Contains(text, DescriptionMarker) && !strings.Contains(text, PlaceholderMarker)
}

// Settings are the immutable per-run values the steps need.
type Settings struct {
	// Developer is written to every header.
	Developer string

	// Extension selects the files to process and ends every new name.
	Extension string

	// BackupSuffix is appended to a path to name its backup.
	BackupSuffix string

	// LogFileName is the run log created in the root directory.
	LogFileName string

	// Concurrency is the number of files processed at once.
	Concurrency int
}

// DefaultPipeline builds the five-step pipeline for one file, recording to rec.
func DefaultPipeline(settings Settings, fs fsys.FileSystem, a *analyzer.Analyzer, now func() time.Time, rec log.Recorder, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewBackupStep(fs, settings.BackupSuffix, rec),
		NewAnalyzeStep(fs, a, rec),
		NewAnnotateStep(fs, settings.Developer, now, rec),
		NewRenameStep(fs, settings.Extension, rec),
		NewValidateStep(fs, rec),
	)
	return p
}
