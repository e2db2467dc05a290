package lsp

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/c3kit/c3/codebase"
	"github.com/dhamidi/c3kit/c3/parser"
)

const addSource = `/* a
   b */
<* Adds. *>
fn int add(int a, int b)
{
	return a + b;
}
`

func TestDiagnostics(t *testing.T) {
	tree := parser.Parse([]byte("}"))
	got := Diagnostics(tree)
	if len(got) != 1 {
		t.Fatalf("Diagnostics() = %+v", got)
	}
	d := got[0]
	if *d.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("Severity = %v", *d.Severity)
	}
	if d.Code.Value != "syntax" {
		t.Errorf("Code = %v", d.Code.Value)
	}
	if *d.Source != "c3kit" {
		t.Errorf("Source = %q", *d.Source)
	}
	if d.Range.Start != (protocol.Position{Line: 0, Character: 0}) {
		t.Errorf("Range = %+v", d.Range)
	}
}

func TestDiagnosticsResourceIsWarning(t *testing.T) {
	tree := &parser.Tree{
		Source: []byte("int x;"),
		Diagnostics: []parser.Diagnostic{{
			Kind:    parser.DiagResource,
			Message: "node limit exceeded",
			Span: parser.Span{
				Start: parser.Position{Offset: 4, Line: 1, Column: 5},
				End:   parser.Position{Offset: 5, Line: 1, Column: 6},
			},
		}},
	}
	got := Diagnostics(tree)
	if len(got) != 1 || *got[0].Severity != protocol.DiagnosticSeverityWarning {
		t.Fatalf("Diagnostics() = %+v", got)
	}
	want := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 4},
		End:   protocol.Position{Line: 0, Character: 5},
	}
	if diff := cmp.Diff(want, got[0].Range); diff != "" {
		t.Errorf("Range mismatch (-want +got):\n%s", diff)
	}
}

func TestDiagnosticsClean(t *testing.T) {
	got := Diagnostics(parser.Parse([]byte("int x;")))
	if got == nil || len(got) != 0 {
		t.Errorf("Diagnostics() = %#v, want empty non-nil", got)
	}
}

func TestDocumentSymbols(t *testing.T) {
	tree := parser.Parse([]byte("struct Point { int x; }\nfn void main() {}\n"))
	got := DocumentSymbols(tree, codebase.ExtractSymbols("a.c3", tree))
	if len(got) != 2 {
		t.Fatalf("DocumentSymbols() = %+v", got)
	}

	point := got[0]
	if point.Name != "Point" || point.Kind != protocol.SymbolKindStruct {
		t.Errorf("first symbol = %s %v", point.Name, point.Kind)
	}
	wantSel := protocol.Range{
		Start: protocol.Position{Line: 0, Character: 7},
		End:   protocol.Position{Line: 0, Character: 12},
	}
	if diff := cmp.Diff(wantSel, point.SelectionRange); diff != "" {
		t.Errorf("SelectionRange mismatch (-want +got):\n%s", diff)
	}
	if len(point.Children) != 1 || point.Children[0].Name != "x" || point.Children[0].Kind != protocol.SymbolKindField {
		t.Errorf("Point children = %+v", point.Children)
	}

	if got[1].Name != "main" || got[1].Kind != protocol.SymbolKindFunction {
		t.Errorf("second symbol = %s %v", got[1].Name, got[1].Kind)
	}
	if got[1].Range.Start.Line != 1 {
		t.Errorf("main range = %+v", got[1].Range)
	}
}

func TestFoldingRanges(t *testing.T) {
	got := FoldingRanges(parser.Parse([]byte(addSource)))
	want := []protocol.FoldingRange{
		{StartLine: 4, EndLine: 6},
		{StartLine: 0, EndLine: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FoldingRanges mismatch (-want +got):\n%s", diff)
	}
}

func TestHover(t *testing.T) {
	tree := parser.Parse([]byte(addSource))
	syms := codebase.ExtractSymbols("add.c3", tree)

	tests := []struct {
		name string
		pos  protocol.Position
		want string
	}{
		{"on name", protocol.Position{Line: 3, Character: 8}, "```c3\nfn int add(int a, int b)\n```\n\nAdds."},
		{"on name start", protocol.Position{Line: 3, Character: 7}, "```c3\nfn int add(int a, int b)\n```\n\nAdds."},
		{"on keyword", protocol.Position{Line: 3, Character: 0}, ""},
		{"in body", protocol.Position{Line: 5, Character: 2}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Hover(tree, syms, tt.pos)
			if tt.want == "" {
				if h != nil {
					t.Errorf("Hover() = %+v, want nil", h)
				}
				return
			}
			if h == nil {
				t.Fatal("Hover() = nil")
			}
			content := h.Contents.(protocol.MarkupContent)
			if content.Kind != protocol.MarkupKindMarkdown {
				t.Errorf("Kind = %v", content.Kind)
			}
			if diff := cmp.Diff(tt.want, content.Value); diff != "" {
				t.Errorf("Hover mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDeclHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"fn void f() {\n}", "fn void f()"},
		{"fn int sq(int x) => x * x;", "fn int sq(int x)"},
		{"struct Point\n{\n\tint x;\n}", "struct Point"},
		{"int x;", "int x;"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := declHeader(tt.input); got != tt.want {
				t.Errorf("declHeader(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWorkspaceSymbols(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.c3")
	c := codebase.New(dir)
	c.UpdateFile(path, []byte("struct Point { int x; }\nfn void main() {}\n"))

	got := WorkspaceSymbols(c, "poi")
	if len(got) != 1 {
		t.Fatalf("WorkspaceSymbols() = %+v", got)
	}
	if got[0].Name != "Point" || got[0].Kind != protocol.SymbolKindStruct {
		t.Errorf("symbol = %s %v", got[0].Name, got[0].Kind)
	}
	uri := string(got[0].Location.URI)
	if !strings.HasPrefix(uri, "file://") || !strings.HasSuffix(uri, "/a.c3") {
		t.Errorf("URI = %s", uri)
	}
	if got[0].Location.Range.Start != (protocol.Position{Line: 0, Character: 7}) {
		t.Errorf("Range = %+v", got[0].Location.Range)
	}
}

func TestPositions(t *testing.T) {
	src := []byte("é𝄞x\nab")
	x := parser.Position{Offset: 6, Line: 1, Column: 7}
	if got := toPosition(src, x); got != (protocol.Position{Line: 0, Character: 3}) {
		t.Errorf("toPosition() = %+v", got)
	}

	tests := []struct {
		name string
		pos  protocol.Position
		want int
	}{
		{"start", protocol.Position{Line: 0, Character: 0}, 0},
		{"after surrogate pair", protocol.Position{Line: 0, Character: 3}, 6},
		{"second line", protocol.Position{Line: 1, Character: 1}, 9},
		{"past line end", protocol.Position{Line: 0, Character: 40}, 7},
		{"past last line", protocol.Position{Line: 5, Character: 0}, len(src)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := offsetAt(src, tt.pos); got != tt.want {
				t.Errorf("offsetAt(%+v) = %d, want %d", tt.pos, got, tt.want)
			}
		})
	}
}

func TestURIs(t *testing.T) {
	path, err := uriToPath("file:///tmp/a%20b.c3")
	if err != nil {
		t.Fatalf("uriToPath: %v", err)
	}
	if path != "/tmp/a b.c3" {
		t.Errorf("uriToPath() = %q", path)
	}
	if got := pathToURI("/tmp/a b.c3"); got != "file:///tmp/a%20b.c3" {
		t.Errorf("pathToURI() = %q", got)
	}
}
