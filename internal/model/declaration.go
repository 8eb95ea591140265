package model

// DeclarationKind identifies the kind of a parsed declaration.
// The set is closed: the analyzer switches over it exhaustively.
type DeclarationKind int

const (
	// DeclImport is a plain `import` statement.
	// Only the first imported name is recorded.
	DeclImport DeclarationKind = iota

	// DeclFunction is a `def` statement at any nesting level.
	// `async def` is not recorded.
	DeclFunction

	// DeclClass is a `class` statement at any nesting level.
	DeclClass
)

// String returns the lower-case name of the declaration kind.
func (k DeclarationKind) String() string {
	switch k {
	case DeclImport:
		return "import"
	case DeclFunction:
		return "function"
	case DeclClass:
		return "class"
	default:
		return "unknown"
	}
}

// Declaration is a single structural unit extracted from source text.
type Declaration struct {
	// Kind is the declaration kind.
	Kind DeclarationKind

	// Name is the module name for imports, or the identifier for functions and classes.
	Name string

	// Docstring is the cleaned docstring of a function or class.
	// Empty when HasDocstring is false.
	Docstring string

	// HasDocstring reports whether the body started with a string literal.
	HasDocstring bool

	// Line is the 0-based index of the first physical line of the logical
	// line holding the statement.
	Line int

	// Depth is the nesting level; 0 for module-level statements.
	Depth int
}

// SourceFile is a file read once for a processing pass.
type SourceFile struct {
	// Path is the file-system path the content was read from.
	Path string

	// Content is the raw text at analysis time.
	Content []byte

	// Hash is the truncated content digest (8 lowercase hex characters).
	Hash string
}
