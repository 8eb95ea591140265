package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoRoot is returned when no directory to process is given.
	ErrNoRoot = errors.New("no directory specified: provide a directory argument or enter one at the prompt")

	// ErrEmptyDeveloper is returned when the developer name is blank or multi-line.
	ErrEmptyDeveloper = errors.New("invalid developer: must not be empty or span several lines")

	// ErrInvalidExtension is returned when the extension does not look like ".py".
	ErrInvalidExtension = errors.New("invalid extension: must start with '.' and must not contain a path separator")

	// ErrInvalidBackupSuffix is returned when backups would be unusable or
	// would themselves be discovered as source files.
	ErrInvalidBackupSuffix = errors.New("invalid backup suffix: must be non-empty, contain no path separator and not end with the extension")

	// ErrInvalidLogFileName is returned when the log file name is not a plain
	// file name or would be discovered as a source file.
	ErrInvalidLogFileName = errors.New("invalid log file name: must be a plain file name that does not end with the extension")

	// ErrInvalidConcurrency is returned when concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrUnknownHashAlgorithm is returned for an unsupported hash algorithm name.
	ErrUnknownHashAlgorithm = errors.New("unknown hash algorithm")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
