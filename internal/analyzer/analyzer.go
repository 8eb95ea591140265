package analyzer

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/text/cases"

	"github.com/nao1215/codefactor/internal/model"
	"github.com/nao1215/codefactor/internal/parser"
)

const (
	// FallbackDescription is used when the source cannot be parsed.
	FallbackDescription = "This script could not be fully analyzed due to syntax issues."

	// SyntaxErrorTag is the only tag of a file that cannot be parsed.
	SyntaxErrorTag = "syntax_error"

	// NoDescription replaces a missing or empty docstring.
	NoDescription = "No description available."

	// ImportComment annotates the first import statement.
	ImportComment = "# Importing necessary libraries."

	// DefaultCacheSize is the number of analysis results kept per Analyzer.
	DefaultCacheSize = 256
)

// DefaultImportTags maps imported module names to category tags.
func DefaultImportTags() map[string]string {
	return map[string]string{
		"pandas":   "excel",
		"openpyxl": "excel",
		"os":       "files",
		"xml":      "xml",
	}
}

// DefaultKeywordTags maps function-name substrings to category tags.
func DefaultKeywordTags() map[string]string {
	return map[string]string{
		"parse":   "parse",
		"process": "process",
		"update":  "update",
	}
}

// Analyzer synthesizes descriptions, comments and tags from parsed declarations.
type Analyzer struct {
	parser      parser.Parser
	algorithm   Algorithm
	importTags  map[string]string
	keywordTags []keywordTag
	cache       *lru.Cache[string, model.AnalysisResult]
	cacheSize   int
}

// keywordTag is a case-folded keyword and the tag it adds.
type keywordTag struct {
	folded string
	tag    string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithParser sets the parser. The default is the Python parser.
func WithParser(p parser.Parser) Option {
	return func(a *Analyzer) {
		a.parser = p
	}
}

// WithAlgorithm sets the content hash algorithm. The default is MD5.
func WithAlgorithm(alg Algorithm) Option {
	return func(a *Analyzer) {
		a.algorithm = alg
	}
}

// WithImportTags replaces the import tag table.
func WithImportTags(tags map[string]string) Option {
	return func(a *Analyzer) {
		a.importTags = copyTable(tags)
	}
}

// WithKeywordTags replaces the function-name keyword tag table.
func WithKeywordTags(tags map[string]string) Option {
	return func(a *Analyzer) {
		a.keywordTags = foldKeywords(tags)
	}
}

// WithCacheSize sets how many analysis results are cached.
func WithCacheSize(size int) Option {
	return func(a *Analyzer) {
		a.cacheSize = size
	}
}

// New creates an Analyzer with the default tables and the given options applied.
func New(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		parser:      parser.NewPython(),
		algorithm:   MD5,
		importTags:  DefaultImportTags(),
		keywordTags: foldKeywords(DefaultKeywordTags()),
		cacheSize:   DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.cacheSize <= 0 {
		return nil, ErrInvalidCacheSize
	}

	cache, err := lru.New[string, model.AnalysisResult](a.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis cache: %w", err)
	}
	a.cache = cache
	return a, nil
}

// Algorithm returns the configured hash algorithm.
func (a *Analyzer) Algorithm() Algorithm {
	return a.algorithm
}

// Analyze derives the analysis result for src.
//
// A parse failure is not an error: the result carries FallbackDescription,
// the SyntaxErrorTag tag and the parser error in SyntaxError.
func (a *Analyzer) Analyze(src []byte) model.AnalysisResult {
	digest := a.algorithm.Digest(src)
	if cached, ok := a.cache.Get(digest); ok {
		return clone(cached)
	}

	result := a.analyze(src)
	result.ContentHash = digest[:HashLength]
	a.cache.Add(digest, result)
	return clone(result)
}

func (a *Analyzer) analyze(src []byte) model.AnalysisResult {
	decls, err := a.parser.Parse(src)
	if err != nil {
		var syntaxErr *parser.SyntaxError
		if !errors.As(err, &syntaxErr) {
			err = fmt.Errorf("%w: %w", parser.ErrSyntax, err)
		}
		return model.AnalysisResult{
			Description: FallbackDescription,
			Tags:        []string{SyntaxErrorTag},
			SyntaxError: err,
		}
	}

	var (
		clauses  []string
		comments []model.Comment
		imports  []string
		tags     = make(map[string]struct{})
		used     = make(map[int]bool)
	)
	addComment := func(line int, text string) {
		// A line holds at most one comment; the first one added wins.
		if used[line] {
			return
		}
		used[line] = true
		comments = append(comments, model.Comment{Line: line, Text: text})
	}

	for _, d := range decls {
		if d.Kind != model.DeclImport {
			continue
		}
		if len(imports) == 0 {
			addComment(d.Line, ImportComment)
		}
		imports = append(imports, d.Name)
		if tag, ok := a.importTags[d.Name]; ok {
			tags[tag] = struct{}{}
		}
	}
	if len(imports) > 0 {
		clauses = append(clauses, "uses libraries like "+strings.Join(imports, ", "))
	}

	fold := cases.Fold()
	for _, d := range decls {
		switch d.Kind {
		case model.DeclFunction:
			doc := docText(d)
			clauses = append(clauses, fmt.Sprintf("includes function `%s`: %s", d.Name, doc))
			addComment(d.Line, fmt.Sprintf("# Function `%s`: %s", d.Name, doc))
			name := fold.String(d.Name)
			for _, kw := range a.keywordTags {
				if strings.Contains(name, kw.folded) {
					tags[kw.tag] = struct{}{}
				}
			}
		case model.DeclClass:
			doc := docText(d)
			clauses = append(clauses, fmt.Sprintf("defines class `%s`: %s", d.Name, doc))
			addComment(d.Line, fmt.Sprintf("# Class `%s`: %s", d.Name, doc))
		case model.DeclImport:
		}
	}

	if len(clauses) == 0 {
		clauses = append(clauses, "performs general operations")
	}

	slices.SortFunc(comments, func(x, y model.Comment) int {
		return x.Line - y.Line
	})

	return model.AnalysisResult{
		Description: "This script " + strings.Join(clauses, "; ") + ".",
		Comments:    comments,
		Tags:        sortedTags(tags),
	}
}

// docText flattens a docstring to a single line, or returns NoDescription.
func docText(d model.Declaration) string {
	flat := strings.Join(strings.Fields(d.Docstring), " ")
	if flat == "" {
		return NoDescription
	}
	return flat
}

func sortedTags(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

func foldKeywords(table map[string]string) []keywordTag {
	fold := cases.Fold()
	out := make([]keywordTag, 0, len(table))
	for kw, tag := range table {
		if kw == "" || tag == "" {
			continue
		}
		out = append(out, keywordTag{folded: fold.String(kw), tag: tag})
	}
	slices.SortFunc(out, func(x, y keywordTag) int {
		return strings.Compare(x.folded, y.folded)
	})
	return out
}

func copyTable(table map[string]string) map[string]string {
	out := make(map[string]string, len(table))
	for k, v := range table {
		if k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// clone copies the slices of r so callers cannot corrupt cached results.
func clone(r model.AnalysisResult) model.AnalysisResult {
	r.Comments = slices.Clone(r.Comments)
	r.Tags = slices.Clone(r.Tags)
	return r
}
