package parser

import (
	"bytes"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/nao1215/codefactor/internal/model"
)

// Parser turns raw source text into declarations.
// Implementations return a *SyntaxError (wrapping ErrSyntax) for input they
// cannot analyze; callers degrade instead of aborting.
type Parser interface {
	// Parse returns the declarations of src in source order.
	Parse(src []byte) ([]model.Declaration, error)

	// Language returns the name of the language the parser understands.
	Language() string
}

// pythonLanguage is shared by every parse; tree-sitter languages are immutable.
var pythonLanguage = tree_sitter.NewLanguage(tree_sitter_python.Language())

// legacyStatements are Python 2 statements the grammar accepts but Python 3 rejects.
var legacyStatements = map[string]string{
	"print_statement": "Missing parentheses in call to 'print'",
	"exec_statement":  "Missing parentheses in call to 'exec'",
}

// Python extracts imports, functions and classes from Python 3 source
// using the tree-sitter Python grammar.
type Python struct{}

// NewPython creates a Python parser.
func NewPython() *Python {
	return &Python{}
}

// Language returns "python".
func (p *Python) Language() string {
	return "python"
}

// Parse extracts declarations from src.
//
// Every def and class at every nesting level is returned exactly once, in
// source order. async def is not a declaration, but the definitions inside
// its body are. Plain import statements contribute their first imported
// name; repeated imports keep their first occurrence only.
func (p *Python) Parse(src []byte) ([]model.Declaration, error) {
	text := normalizeNewlines(src)

	tsParser := tree_sitter.NewParser()
	defer tsParser.Close()
	if err := tsParser.SetLanguage(pythonLanguage); err != nil {
		return nil, newSyntaxError(0, "python grammar unavailable: %v", err)
	}

	tree := tsParser.Parse(text, nil)
	if tree == nil {
		return nil, newSyntaxError(0, "source could not be parsed")
	}
	defer tree.Close()

	root := tree.RootNode()
	if err := checkSyntax(root); err != nil {
		return nil, err
	}

	w := &walker{src: text, seenImports: make(map[string]bool)}
	w.visit(root, 0)
	return w.decls, nil
}

// normalizeNewlines turns "\r\n" and lone "\r" into "\n" so that tree rows
// match the line split used by the annotator.
func normalizeNewlines(src []byte) []byte {
	if !bytes.ContainsRune(src, '\r') {
		return src
	}
	out := bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(out, []byte("\r"), []byte("\n"))
}

// checkSyntax returns the first error, missing token or legacy statement in the tree.
func checkSyntax(root *tree_sitter.Node) *SyntaxError {
	if root.HasError() {
		if n := findNode(root, func(n *tree_sitter.Node) bool { return n.IsError() || n.IsMissing() }); n != nil {
			line := int(n.StartPosition().Row) //nolint:gosec // rows fit in int
			if n.IsMissing() {
				return newSyntaxError(line, "invalid syntax: expected '%s'", n.Kind())
			}
			return newSyntaxError(line, "invalid syntax")
		}
		return newSyntaxError(0, "invalid syntax")
	}
	if n := findNode(root, func(n *tree_sitter.Node) bool { _, ok := legacyStatements[n.Kind()]; return ok }); n != nil {
		return newSyntaxError(int(n.StartPosition().Row), "%s", legacyStatements[n.Kind()]) //nolint:gosec // rows fit in int
	}
	return nil
}

// findNode returns the first node in document order that matches, or nil.
func findNode(n *tree_sitter.Node, match func(*tree_sitter.Node) bool) *tree_sitter.Node {
	if match(n) {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if found := findNode(n.Child(i), match); found != nil {
			return found
		}
	}
	return nil
}

// walker collects declarations from a syntax tree.
type walker struct {
	src         []byte
	decls       []model.Declaration
	seenImports map[string]bool
}

// visit walks the named children of n. depth counts the enclosing blocks.
func (w *walker) visit(n *tree_sitter.Node, depth int) {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		switch child.Kind() {
		case "import_statement":
			w.importStmt(child, depth)
		case "function_definition":
			if !isAsync(child) {
				w.declare(model.DeclFunction, child, depth)
			}
		case "class_definition":
			w.declare(model.DeclClass, child, depth)
		}

		if child.Kind() == "block" {
			w.visit(child, depth+1)
		} else {
			w.visit(child, depth)
		}
	}
}

// isAsync reports whether a function_definition starts with the async keyword.
func isAsync(n *tree_sitter.Node) bool {
	first := n.Child(0)
	return first != nil && first.Kind() == "async"
}

// declare records a def or class with its docstring.
func (w *walker) declare(kind model.DeclarationKind, n *tree_sitter.Node, depth int) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	d := model.Declaration{
		Kind:  kind,
		Name:  name.Utf8Text(w.src),
		Line:  w.statementLine(n),
		Depth: depth,
	}
	if body := n.ChildByFieldName("body"); body != nil {
		d.Docstring, d.HasDocstring = w.docstring(body)
	}
	w.decls = append(w.decls, d)
}

// importStmt records the first dotted name of `import a.b [as c], ...`.
func (w *walker) importStmt(n *tree_sitter.Node, depth int) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	if name.Kind() == "aliased_import" {
		if inner := name.ChildByFieldName("name"); inner != nil {
			name = inner
		}
	}
	first := strings.Join(strings.Fields(name.Utf8Text(w.src)), "")
	if first == "" || w.seenImports[first] {
		return
	}
	w.seenImports[first] = true
	w.decls = append(w.decls, model.Declaration{
		Kind:  model.DeclImport,
		Name:  first,
		Line:  w.statementLine(n),
		Depth: depth,
	})
}

// statementLine returns the first physical line of the logical line that
// holds n. A statement after a semicolon, inside a one-line compound
// statement, or after a backslash continuation starts its logical line
// earlier than its own first token.
func (w *walker) statementLine(n *tree_sitter.Node) int {
	cur := n
	for {
		if prev := cur.PrevSibling(); prev != nil {
			gap := w.src[prev.EndByte():cur.StartByte()]
			if prev.EndPosition().Row == cur.StartPosition().Row || bytes.ContainsRune(gap, '\\') {
				cur = prev
				continue
			}
			break
		}
		parent := cur.Parent()
		if parent == nil || parent.Kind() == "module" {
			break
		}
		cur = parent
	}
	return int(cur.StartPosition().Row) //nolint:gosec // rows fit in int
}

// docstring returns the cleaned docstring when the first statement of body
// is a plain or raw string literal.
func (w *walker) docstring(body *tree_sitter.Node) (string, bool) {
	var first *tree_sitter.Node
	for i := uint(0); i < body.NamedChildCount(); i++ {
		if c := body.NamedChild(i); c.Kind() != "comment" {
			first = c
			break
		}
	}
	if first == nil || first.Kind() != "expression_statement" || first.NamedChildCount() != 1 {
		return "", false
	}

	lit := first.NamedChild(0)
	var parts []*tree_sitter.Node
	switch lit.Kind() {
	case "string":
		parts = []*tree_sitter.Node{lit}
	case "concatenated_string":
		for i := uint(0); i < lit.NamedChildCount(); i++ {
			if c := lit.NamedChild(i); c.Kind() == "string" {
				parts = append(parts, c)
			}
		}
	default:
		return "", false
	}

	var sb strings.Builder
	for _, part := range parts {
		body, ok := w.stringBody(part)
		if !ok {
			return "", false
		}
		sb.WriteString(body)
	}
	return CleanDocstring(sb.String()), true
}

// stringBody returns the decoded contents of a string node.
// f-strings and bytes literals are rejected.
func (w *walker) stringBody(n *tree_sitter.Node) (string, bool) {
	count := n.ChildCount()
	if count < 2 {
		return "", false
	}
	start, end := n.Child(0), n.Child(count-1)
	if start.Kind() != "string_start" || end.Kind() != "string_end" {
		return "", false
	}

	opener := start.Utf8Text(w.src)
	prefix := strings.ToLower(strings.TrimRight(opener, `"'`))
	if strings.ContainsAny(prefix, "fb") {
		return "", false
	}

	body := string(w.src[start.EndByte():end.StartByte()])
	if strings.Contains(prefix, "r") {
		return body, true
	}
	return decodeEscapes(body), true
}
