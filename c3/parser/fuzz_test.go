package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// FuzzParse checks that any input yields a tree whose spans nest, from
// which the input can be rebuilt and which comes out the same on a second
// parse.
func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"module foo::bar;",
		"import std::io, std::math;",
		"fn void main() { io::printn(\"hi\"); }",
		"fn int add(int a, int b) => a + b;",
		"macro @swap(#a, #b) { var $T = $typeof(#a); }",
		"struct Foo { int x; union { int a; float b; } }",
		"bitstruct Flags : uint { bool a : 0; bool b : 1..3; }",
		"enum Color : int (String name) { RED = \"red\", GREEN = \"green\" }",
		"faultdef NOT_FOUND, BAD;",
		"interface Shape { fn double area(); }",
		"alias Callback = fn void(int);",
		"typedef Id = inline int;",
		"attrdef @Hot = @inline;",
		"const int MAX = 1 << 4;",
		"$if $defined(Foo): int x; $endif",
		"fn void f() { for (int i = 0; i < 10; i++) { if (i == 5) break; } }",
		"fn void f() { foreach (i, &v : list) v += i; }",
		"fn void f() { switch (x) { case 1: case 2..3: nextcase; default: return; } }",
		"fn void f() { defer catch (err) io::printn(err); }",
		"fn void f() { if (try v = foo()) return v!; }",
		"fn void f() { int[<4>] v = { 1, 2, 3, 4 }; v[1..2] = 0; }",
		"fn void f() { Foo f = { .x = 1, .y[0] = 2 }; }",
		"fn void f() { x = (int)y ?: z ? a : b; }",
		"<* Adds.\n @param a \"first\"\n @require a > 0\n*>\nfn int inc(int a) => a + 1;",
		"/* outer /* inner */ still */ int x;",
		"int x = 0x1.8p3 + 1e9 + 2f;",
		"char c = '\\n'; String s = `raw` \"cooked\";",
		"char[*] b = x\"DEADBEEF\";",
		"fn void f() { int x = ; return; }",
		"fn void a() { x = 1;\nfn void b() {}",
		"%%% } ] )",
		"fn void f() { (((( }",
		"fn void f()\n{\n\tfoo(;\n\tb = 2;\n}",
		"fn void f() { x = (Foo{(Foo[(int[(y; }",
		"int x = a + b?!;",
		"int x = 0xFF.abs();",
		"<* unterminated",
		"\"unterminated",
		"int x = 12ab;",
		"\xff\xfe\x00",
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}

	f.Fuzz(func(t *testing.T, src []byte) {
		tree := Parse(src)
		if tree.Root == nil {
			t.Fatal("Root = nil")
		}
		checkSpans(t, tree.Root)
		checkTokensCoverSource(t, tree)
		checkSourceRebuilt(t, tree)
		for i := 1; i < len(tree.Diagnostics); i++ {
			if tree.Diagnostics[i].Span.Start.Offset < tree.Diagnostics[i-1].Span.Start.Offset {
				t.Fatalf("diagnostics out of order: %v", tree.Diagnostics)
			}
		}
		if tree.Root.HasError() && !tree.HasErrors() {
			t.Error("error node without a diagnostic")
		}

		again := Parse(src)
		if diff := cmp.Diff(tree, again); diff != "" {
			t.Errorf("parse is not deterministic (-first +second):\n%s", diff)
		}
	})
}
