// Package annotate rewrites source text with a descriptive header block and
// per-line comments.
//
// Original lines are never altered: comments are inserted on their own line
// immediately before the line they describe, indented like it, so the code
// keeps its meaning.
package annotate

import (
	"strings"
	"time"

	"github.com/nao1215/codefactor/internal/model"
)

// TimestampLayout is the layout of the Last Modified header field.
const TimestampLayout = "2006-01-02 15:04:05"

// Header is the metadata block written at the top of an annotated file.
type Header struct {
	// Developer is the name recorded as the author of the annotation.
	Developer string

	// LastModified is the annotation time.
	LastModified time.Time

	// Description is the synthesized description of the file.
	Description string
}

// String renders the header with "\n" line endings.
func (h Header) String() string {
	return h.Render("\n")
}

// Render renders the header block using newline as the line terminator.
// The block is a module-level string literal followed by a blank line.
func (h Header) Render(newline string) string {
	var sb strings.Builder
	sb.WriteString(`"""` + newline + newline)
	sb.WriteString("Developer: " + h.Developer + newline)
	sb.WriteString("Last Modified: " + h.LastModified.Format(TimestampLayout) + newline)
	sb.WriteString("Description: " + escapeLiteral(h.Description) + newline + newline)
	sb.WriteString(`"""` + newline + newline)
	return sb.String()
}

// escapeLiteral keeps text from terminating or corrupting a triple-quoted string.
func escapeLiteral(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	return strings.ReplaceAll(text, `"""`, `\"\"\"`)
}

// Annotate returns header followed by lines, with each comment inserted
// before the line it maps to. Comments whose Line is out of range are ignored.
func Annotate(lines []string, header Header, comments []model.Comment) string {
	newline := DetectNewline(lines)
	byLine := make(map[int]string, len(comments))
	for _, c := range comments {
		if c.Line < 0 || c.Line >= len(lines) {
			continue
		}
		if _, dup := byLine[c.Line]; !dup {
			byLine[c.Line] = c.Text
		}
	}

	var sb strings.Builder
	sb.WriteString(header.Render(newline))
	for i, line := range lines {
		if text, ok := byLine[i]; ok {
			sb.WriteString(indentOf(line))
			sb.WriteString(text)
			sb.WriteString(terminatorOf(line, newline))
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// SplitLines splits text into lines that keep their terminators.
// "\r\n", "\n" and a lone "\r" all end a line.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i+1])
			start = i + 1
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			lines = append(lines, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

// DetectNewline returns the terminator of the first terminated line, or "\n".
func DetectNewline(lines []string) string {
	for _, line := range lines {
		if t := terminatorOf(line, ""); t != "" {
			return t
		}
	}
	return "\n"
}

func terminatorOf(line, fallback string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	case strings.HasSuffix(line, "\r"):
		return "\r"
	default:
		return fallback
	}
}

func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t\f"))]
}
