package codebase

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dhamidi/c3kit/c3/parser"
	"github.com/google/go-cmp/cmp"
)

const mainSource = `module app::main;

struct Point { int x, y; union { int a; float b; } }
enum Color { RED, GREEN }
faultdef NOT_FOUND;
fn int Point.sum(Point* p) => p.x + p.y;
fn void main() {}
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main.c3"), mainSource)
	writeFile(t, filepath.Join(root, "src", "broken.c3"), "fn void broken( {\n")
	writeFile(t, filepath.Join(root, "src", "api.c3i"), "fn void api();\n")
	writeFile(t, filepath.Join(root, "vendor", "skip.c3"), "int skipped;\n")
	writeFile(t, filepath.Join(root, ".cache", "hidden.c3"), "int hidden;\n")
	writeFile(t, filepath.Join(root, "notes.txt"), "not c3\n")
	return root
}

func relFiles(t *testing.T, root string, paths []string) []string {
	t.Helper()
	var rel []string
	for _, p := range paths {
		r, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatal(err)
		}
		rel = append(rel, filepath.ToSlash(r))
	}
	return rel
}

func TestScanAll(t *testing.T) {
	root := newProject(t)
	c := New(root, WithWorkers(2), WithExclude("vendor"))
	if err := c.ScanAll(context.Background()); err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}

	want := []string{"src/api.c3i", "src/broken.c3", "src/main.c3"}
	if diff := cmp.Diff(want, relFiles(t, root, c.Files())); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"src/broken.c3"}, relFiles(t, root, c.FailedFiles())); diff != "" {
		t.Errorf("FailedFiles mismatch (-want +got):\n%s", diff)
	}

	info := c.GetFile(filepath.Join(root, "src", "main.c3"))
	if info == nil || info.Tree == nil {
		t.Fatal("main.c3 not parsed")
	}
	if info.Tree.HasErrors() {
		t.Errorf("main.c3 diagnostics: %v", info.Tree.Diagnostics)
	}
}

func TestScanAllWithDirs(t *testing.T) {
	root := newProject(t)
	c := New(root, WithDirs("vendor"))
	if err := c.ScanAll(context.Background()); err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}
	if diff := cmp.Diff([]string{"vendor/skip.c3"}, relFiles(t, root, c.Files())); diff != "" {
		t.Errorf("Files mismatch (-want +got):\n%s", diff)
	}
}

func TestScanAllMissingDir(t *testing.T) {
	c := New(t.TempDir(), WithDirs("nope"))
	if err := c.ScanAll(context.Background()); err == nil {
		t.Error("ScanAll succeeded on a missing directory")
	}
}

func TestScanAllCancelled(t *testing.T) {
	root := newProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(root)
	if err := c.ScanAll(ctx); err == nil {
		t.Error("ScanAll succeeded with a cancelled context")
	}
}

// cancellingScanner cancels the scan from inside the parse of a file.
type cancellingScanner struct {
	cancel context.CancelFunc
}

func (s cancellingScanner) Scan(state parser.ScanState, src []byte, pos int) parser.ScanResult {
	s.cancel()
	return parser.DefaultScanner.Scan(state, src, pos)
}

func TestScanAllCancelledMidScan(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c3"), "/* c */ int a;\n")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := New(root, WithWorkers(1), WithParserOptions(parser.WithScanner(cancellingScanner{cancel})))
	if err := c.ScanAll(ctx); err == nil {
		t.Error("ScanAll succeeded after being cancelled mid-scan")
	}
	if files := c.Files(); len(files) != 0 {
		t.Errorf("Files() = %v, want no trees from a cancelled scan", files)
	}
}

func TestScanAllParserOptions(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "deep.c3")
	writeFile(t, path, "int x = ((((((1))))));\n")
	c := New(root, WithParserOptions(parser.WithMaxDepth(5)))
	if err := c.ScanAll(context.Background()); err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}
	if !c.GetFile(path).Tree.Aborted {
		t.Error("parser options were not applied")
	}
}

type symbolSummary struct {
	Name     string
	Kind     string
	Children []string
}

func summarize(syms []Symbol) []symbolSummary {
	var out []symbolSummary
	for _, s := range syms {
		sum := symbolSummary{Name: s.Qualified(), Kind: s.Kind.String()}
		for _, c := range s.Children {
			sum.Children = append(sum.Children, c.Name)
		}
		out = append(out, sum)
	}
	return out
}

func TestExtractSymbols(t *testing.T) {
	tree := parser.Parse([]byte(mainSource))
	got := summarize(ExtractSymbols("main.c3", tree))
	want := []symbolSummary{
		{Name: "app::main", Kind: "module"},
		{Name: "Point", Kind: "struct", Children: []string{"x", "y", "a", "b"}},
		{Name: "Color", Kind: "enum", Children: []string{"RED", "GREEN"}},
		{Name: "NOT_FOUND", Kind: "fault"},
		{Name: "Point.sum", Kind: "method"},
		{Name: "main", Kind: "function"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("symbols mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractSymbolsDeclarations(t *testing.T) {
	src := `interface Shape { fn double area(); }
bitstruct Flags : uint { bool a : 0; bool b : 1; }
alias Callback = fn void(int);
typedef Id = int;
attrdef @Hot = @inline;
const int MAX = 4;
int a, b;
macro @swap(#x, #y) {}
`
	tree := parser.Parse([]byte(src))
	if tree.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", tree.Diagnostics)
	}
	got := summarize(ExtractSymbols("decls.c3", tree))
	want := []symbolSummary{
		{Name: "Shape", Kind: "interface", Children: []string{"area"}},
		{Name: "Flags", Kind: "bitstruct", Children: []string{"a", "b"}},
		{Name: "Callback", Kind: "alias"},
		{Name: "Id", Kind: "typedef"},
		{Name: "@Hot", Kind: "attrdef"},
		{Name: "MAX", Kind: "constant"},
		{Name: "a", Kind: "variable"},
		{Name: "b", Kind: "variable"},
		{Name: "@swap", Kind: "macro"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("symbols mismatch (-want +got):\n%s", diff)
	}
}

func TestSymbolSpans(t *testing.T) {
	tree := parser.Parse([]byte(mainSource))
	syms := ExtractSymbols("main.c3", tree)
	point := syms[1]
	if point.NameSpan.Start.Line != 3 || point.NameSpan.Start.Column != 8 {
		t.Errorf("Point name at %v, want 3:8", point.NameSpan.Start)
	}
	if !point.Span.Contains(point.NameSpan) {
		t.Error("declaration span does not contain the name")
	}
	if point.File != "main.c3" {
		t.Errorf("File = %q", point.File)
	}
}

func TestUpdateAndRemoveFile(t *testing.T) {
	c := New(t.TempDir())
	info := c.UpdateFile("a.c3", []byte("fn void a() {}\n"))
	if info.Failed() {
		t.Errorf("a.c3 failed: %v", info.Tree.Diagnostics)
	}
	c.UpdateFile("b.c3", []byte("int b;\n"))

	if diff := cmp.Diff([]string{"a", "b"}, symbolNames(c.Symbols())); diff != "" {
		t.Errorf("Symbols mismatch (-want +got):\n%s", diff)
	}

	c.UpdateFile("a.c3", []byte("fn void renamed() {}\n"))
	if diff := cmp.Diff([]string{"renamed", "b"}, symbolNames(c.Symbols())); diff != "" {
		t.Errorf("after update (-want +got):\n%s", diff)
	}

	c.RemoveFile("a.c3")
	if c.GetFile("a.c3") != nil {
		t.Error("a.c3 still present")
	}
	if diff := cmp.Diff([]string{"b"}, symbolNames(c.Symbols())); diff != "" {
		t.Errorf("after remove (-want +got):\n%s", diff)
	}
}

func symbolNames(syms []Symbol) []string {
	var names []string
	for _, s := range syms {
		names = append(names, s.Name)
	}
	return names
}

func TestFindSymbols(t *testing.T) {
	c := New(t.TempDir())
	c.UpdateFile("main.c3", []byte(mainSource))

	tests := []struct {
		query string
		want  []string
	}{
		{"point", []string{"Point", "sum"}},
		{"RED", []string{"RED"}},
		{"zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, symbolNames(c.FindSymbols(tt.query))); diff != "" {
				t.Errorf("FindSymbols(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
	if got := len(c.FindSymbols("")); got != 6 {
		t.Errorf("FindSymbols(\"\") returned %d symbols, want 6", got)
	}
}

func TestFileWatcherPoll(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a.c3")
	b := filepath.Join(root, "b.c3")
	writeFile(t, a, "int a;\n")
	writeFile(t, b, "int b;\n")

	c := New(root)
	w := NewFileWatcher(c, time.Hour)
	var changed, removed []string
	w.OnChange = func(ch, rm []string) {
		changed, removed = ch, rm
	}

	w.Poll()
	if diff := cmp.Diff([]string{a, b}, changed); diff != "" {
		t.Errorf("first poll changed (-want +got):\n%s", diff)
	}

	changed = nil
	w.Poll()
	if changed != nil {
		t.Errorf("unchanged poll reported %v", changed)
	}

	writeFile(t, a, "int renamed;\n")
	future := time.Now().Add(time.Minute)
	if err := os.Chtimes(a, future, future); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(b); err != nil {
		t.Fatal(err)
	}
	w.Poll()
	if diff := cmp.Diff([]string{a}, changed); diff != "" {
		t.Errorf("changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{b}, removed); diff != "" {
		t.Errorf("removed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"renamed"}, symbolNames(c.Symbols())); diff != "" {
		t.Errorf("symbols (-want +got):\n%s", diff)
	}
}

func TestFileWatcherStartStop(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c3"), "int a;\n")
	c := New(root)
	w := NewFileWatcher(c, time.Hour)
	w.Start()
	w.Stop()
	w.Stop()
	if len(c.Files()) != 1 {
		t.Errorf("Files() = %v, want the initial poll to have run", c.Files())
	}
}

func TestFileWatcherPrime(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.c3")
	writeFile(t, path, "int a;\n")
	c := New(root)
	w := NewFileWatcher(c, time.Hour)
	if err := w.Prime(); err != nil {
		t.Fatalf("Prime: %v", err)
	}
	var calls int
	w.OnChange = func(changed, removed []string) { calls++ }

	w.Poll()
	if calls != 0 || len(c.Files()) != 0 {
		t.Errorf("poll after Prime rescanned unchanged files: %d calls, files %v", calls, c.Files())
	}

	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	w.Poll()
	if calls != 1 || c.GetFile(path) == nil {
		t.Errorf("poll missed a file changed after Prime: %d calls", calls)
	}
}

func TestFileWatcherStopWithoutStart(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.c3"), "int a;\n")
	c := New(root)
	w := NewFileWatcher(c, time.Hour)

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		w.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop blocked on a watcher that was never started")
	}

	w.Start()
	if len(c.Files()) != 0 {
		t.Errorf("Files() = %v, want Start after Stop to do nothing", c.Files())
	}
}
