package pipeline

import "errors"

var (
	// ErrInvalidRoot is returned when the directory to process does not exist
	// or is not a directory. Nothing is written in that case.
	ErrInvalidRoot = errors.New("not a valid directory")

	// ErrBackup marks a file abandoned because its backup could not be created.
	ErrBackup = errors.New("backup failed")

	// ErrRead marks a file whose content could not be read.
	ErrRead = errors.New("read failed")

	// ErrWrite marks a file whose annotated content could not be written.
	ErrWrite = errors.New("write failed")

	// ErrCopy marks a file whose content-addressed copy could not be created.
	ErrCopy = errors.New("copy failed")

	// ErrValidation marks a processed file that lacks a description or still
	// contains placeholders. It is a warning: the file is left as processed.
	ErrValidation = errors.New("validation failed")
)
