package parser

import (
	"errors"
	"fmt"
)

// ErrSyntax is the sentinel wrapped by every parse failure.
var ErrSyntax = errors.New("syntax error")

// SyntaxError describes where and why parsing failed.
type SyntaxError struct {
	// Line is the 0-based line index where the problem was detected.
	Line int

	// Msg is a short description in the style of the Python compiler.
	Msg string
}

// Error implements the error interface. Line numbers are shown 1-based.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (line %d)", e.Msg, e.Line+1)
}

// Unwrap returns ErrSyntax so callers can use errors.Is.
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// newSyntaxError builds a SyntaxError at the given 0-based line.
func newSyntaxError(line int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
