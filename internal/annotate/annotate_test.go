package annotate

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/codefactor/internal/analyzer"
	"github.com/nao1215/codefactor/internal/model"
	"github.com/nao1215/codefactor/internal/parser"
)

var fixedTime = time.Date(2024, 11, 26, 12, 52, 53, 0, time.UTC)

func TestHeader_String(t *testing.T) {
	t.Parallel()

	h := Header{Developer: "Ada", LastModified: fixedTime, Description: "This script performs general operations."}
	want := "\"\"\"\n\nDeveloper: Ada\nLast Modified: 2024-11-26 12:52:53\n" +
		"Description: This script performs general operations.\n\n\"\"\"\n\n"
	if got := h.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestHeader_EscapesDescription(t *testing.T) {
	t.Parallel()

	h := Header{Developer: "Ada", LastModified: fixedTime, Description: `uses """quotes""" and C:\path`}
	got := h.String()
	want := `Description: uses \"\"\"quotes\"\"\" and C:\\path`
	if !containsLine(got, want) {
		t.Errorf("String() = %q, want line %q", got, want)
	}
}

func TestAnnotate(t *testing.T) {
	t.Parallel()

	h := Header{Developer: "Ada", LastModified: fixedTime, Description: "D."}

	tests := []struct {
		name     string
		src      string
		comments []model.Comment
		wantBody string
	}{
		{
			name: "comments precede their lines",
			src:  "import os\ndef add(a, b):\n    return a + b\n",
			comments: []model.Comment{
				{Line: 0, Text: "# Importing necessary libraries."},
				{Line: 1, Text: "# Function `add`: Adds."},
			},
			wantBody: "# Importing necessary libraries.\nimport os\n# Function `add`: Adds.\ndef add(a, b):\n    return a + b\n",
		},
		{
			name:     "comment takes the indentation of its line",
			src:      "class A:\n    def m(self):\n        pass\n",
			comments: []model.Comment{{Line: 1, Text: "# Function `m`: x"}},
			wantBody: "class A:\n    # Function `m`: x\n    def m(self):\n        pass\n",
		},
		{
			name:     "out of range comments are ignored",
			src:      "x = 1\n",
			comments: []model.Comment{{Line: 5, Text: "# nope"}, {Line: -1, Text: "# nope"}},
			wantBody: "x = 1\n",
		},
		{
			name:     "last line without terminator",
			src:      "import os",
			comments: []model.Comment{{Line: 0, Text: "# c"}},
			wantBody: "# c\nimport os",
		},
		{
			name:     "empty file gets only the header",
			src:      "",
			wantBody: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Annotate(SplitLines(tt.src), h, tt.comments)
			want := h.String() + tt.wantBody
			if got != want {
				t.Errorf("Annotate() = %q, want %q", got, want)
			}
		})
	}
}

func TestAnnotate_PreservesCRLF(t *testing.T) {
	t.Parallel()

	h := Header{Developer: "Ada", LastModified: fixedTime, Description: "D."}
	got := Annotate(SplitLines("import os\r\nx = 1\r\n"), h, []model.Comment{{Line: 0, Text: "# c"}})
	want := h.Render("\r\n") + "# c\r\nimport os\r\nx = 1\r\n"
	if got != want {
		t.Errorf("Annotate() = %q, want %q", got, want)
	}
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty", text: "", want: nil},
		{name: "lf", text: "a\nb\n", want: []string{"a\n", "b\n"}},
		{name: "no trailing newline", text: "a\nb", want: []string{"a\n", "b"}},
		{name: "crlf", text: "a\r\nb\r\n", want: []string{"a\r\n", "b\r\n"}},
		{name: "lone cr", text: "a\rb", want: []string{"a\r", "b"}},
		{name: "blank lines", text: "\n\n", want: []string{"\n", "\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SplitLines(tt.text); !slices.Equal(got, tt.want) {
				t.Errorf("SplitLines(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func containsLine(text, line string) bool {
	return slices.Contains(SplitLines(text), line+"\n")
}

// TestAnnotate_KeepsStatementsIntact tests that comments for statements
// sharing a logical line with earlier code are placed before that logical
// line and that the annotated text parses to the same declarations.
func TestAnnotate_KeepsStatementsIntact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "import after a backslash continuation",
			src:  "x = 1 + \\\n    2; import os\n",
			want: "# Importing necessary libraries.\nx = 1 + \\\n    2; import os\n",
		},
		{
			name: "import after a multi-line string",
			src:  "s = \"\"\"doc\n\"\"\"; import os\n",
			want: "# Importing necessary libraries.\ns = \"\"\"doc\n\"\"\"; import os\n",
		},
		{
			name: "function inside a one-line compound statement",
			src:  "if True: import os\nclass A:\n    def run(self): pass\n",
			want: "    # Function `run`: No description available.\n    def run(self): pass\n",
		},
	}

	a, err := analyzer.New()
	if err != nil {
		t.Fatalf("analyzer.New() error = %v", err)
	}
	p := parser.NewPython()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := a.Analyze([]byte(tt.src))
			if result.SyntaxError != nil {
				t.Fatalf("Analyze() syntax error = %v", result.SyntaxError)
			}
			h := Header{Developer: "Ada", LastModified: fixedTime, Description: result.Description}
			got := Annotate(SplitLines(tt.src), h, result.Comments)

			if !strings.Contains(got, tt.want) {
				t.Errorf("Annotate() = %q, want it to contain %q", got, tt.want)
			}

			before, err := p.Parse([]byte(tt.src))
			if err != nil {
				t.Fatalf("Parse(original) error = %v", err)
			}
			after, err := p.Parse([]byte(got))
			if err != nil {
				t.Fatalf("Parse(annotated) error = %v\n%s", err, got)
			}
			if len(before) != len(after) {
				t.Fatalf("annotated file has %d declarations, want %d", len(after), len(before))
			}
			for i := range before {
				if before[i].Kind != after[i].Kind || before[i].Name != after[i].Name {
					t.Errorf("declaration %d = %v %s, want %v %s",
						i, after[i].Kind, after[i].Name, before[i].Kind, before[i].Name)
				}
			}
		})
	}
}
