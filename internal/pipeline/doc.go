// Package pipeline runs the per-file transformation of codefactor and drives
// it over a directory.
//
// Every file moves through the states
//
//	Discovered -> BackedUp -> Analyzed -> Annotated -> Renamed -> Validated
//
// with one Step per transition. A step that cannot continue (the backup
// could not be written, the file could not be read) fails the file and
// stops its pipeline; every other problem is recorded in the file's report
// and logged, and the remaining steps still run. Each transition, successful
// or not, produces one entry in the run log.
//
// Processor discovers the files under a root directory before touching any
// of them and then processes them one by one, or concurrently with a
// BatchProcessor when more than one worker is configured. In batch mode the
// entries of a file are buffered and written as one contiguous block.
package pipeline
