// Package model defines the core data structures used throughout codefactor.
//
// This package contains the following main types:
//   - SourceFile: A Python file read for one processing pass
//   - Declaration: An import, function or class extracted by the parser
//   - AnalysisResult: Description, comments, tags and content hash of a file
//   - FileReport: The per-file record of what the pipeline did
//   - RunSummary: The aggregate of all file reports in one run
//
// Models live in their own package so that the parser, analyzer, pipeline,
// report and database packages can share them without import cycles.
// FileReport and RunSummary are JSON-serializable for report output and
// history storage.
package model
