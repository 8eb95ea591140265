// Package parser extracts structural declarations from Python source text.
//
// The Parser interface lets the analyzer work with any implementation. The
// Python implementation parses with the tree-sitter Python grammar and walks
// the resulting tree for the statements codefactor needs:
//   - import statements (first imported name only)
//   - def, at any nesting level, with its docstring
//   - class, at any nesting level, with its docstring
//
// A tree containing an ERROR or MISSING node, or a Python 2 print/exec
// statement, is reported as a *SyntaxError wrapping ErrSyntax.
//
// Declaration lines point at the first physical line of the logical line
// holding the statement, so a comment inserted before that line never lands
// inside a continuation or a multi-line string.
package parser
