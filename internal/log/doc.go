// Package log provides the two kinds of logging codefactor does.
//
// # Run log
//
// RunLog is the audit trail of a processing run. Every state transition of
// every file produces one Entry, rendered as
//
//	2006-01-02 15:04:05 - <message>
//
// Entries are appended to the log file at the root of the processed
// directory and mirrored to the console. The log file is opened in append
// mode, so successive runs accumulate in one file.
//
// A Buffer collects the entries of one file so that concurrent workers can
// flush them as one contiguous block.
//
// # Diagnostics
//
// NewLogger builds the slog logger used for diagnostics. Its PathHandler
// rewrites paths under the user's home directory to "~" so that logs pasted
// into bug reports do not reveal account names:
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("analyzed file", "path", "/home/alice/src/a.py") // path=~/src/a.py
package log
