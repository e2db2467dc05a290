package parser

import (
	"context"
	"strings"
	"testing"
	"time"
)

func kindsOf(nodes []*Node) []NodeKind {
	kinds := make([]NodeKind, len(nodes))
	for i, n := range nodes {
		kinds[i] = n.Kind
	}
	return kinds
}

func equalNodeKinds(a, b []NodeKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRecoveryLocalizesErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		top   []NodeKind
		body  []NodeKind
		diags int
	}{
		{
			name:  "bad initializer",
			input: "fn void main()\n{\n\tint x = ;\n\treturn;\n}\n",
			top:   []NodeKind{KindFuncDefinition},
			body:  []NodeKind{KindError, KindReturnStmt},
			diags: 1,
		},
		{
			name:  "two bad statements",
			input: "fn void main()\n{\n\ta = ;\n\tb = 1;\n\tc = );\n\td = 2;\n}\n",
			top:   []NodeKind{KindFuncDefinition},
			body:  []NodeKind{KindError, KindExprStmt, KindError, KindExprStmt},
			diags: 2,
		},
		{
			name:  "missing closing brace",
			input: "fn void a()\n{\n\tx = 1;\nfn void b() {}\n",
			top:   []NodeKind{KindFuncDefinition, KindFuncDefinition},
			body:  []NodeKind{KindExprStmt},
			diags: 1,
		},
		{
			name:  "garbage between declarations",
			input: "fn void a() {}\n%%%\nfn void b() {}\n",
			top:   []NodeKind{KindFuncDefinition, KindError, KindFuncDefinition},
			diags: 1,
		},
		{
			name:  "stray closing brace",
			input: "int x;\n}\nint y;\n",
			top:   []NodeKind{KindGlobalDeclaration, KindError, KindGlobalDeclaration},
			diags: 1,
		},
		{
			name:  "unclosed paren in block",
			input: "fn void f()\n{\n\ta = 1;\n\tfoo(;\n\tb = 2;\n}\nfn void g() {}\n",
			top:   []NodeKind{KindFuncDefinition, KindFuncDefinition},
			body:  []NodeKind{KindExprStmt, KindError, KindExprStmt},
			diags: 1,
		},
		{
			name:  "unclosed bracket in block",
			input: "fn void f()\n{\n\ta[1 = 2;\n\tb = 3;\n}\n",
			top:   []NodeKind{KindFuncDefinition},
			body:  []NodeKind{KindError, KindExprStmt},
			diags: 1,
		},
		{
			name:  "unclosed paren before closing brace",
			input: "fn void f()\n{\n\tfoo(1, 2\n}\nfn void g() {}\n",
			top:   []NodeKind{KindFuncDefinition, KindFuncDefinition},
			body:  []NodeKind{KindError},
			diags: 1,
		},
		{
			name:  "unclosed paren around a block",
			input: "fn void f()\n{\n\tcall(fn () { x = 1; };\n\ty = 2;\n}\n",
			top:   []NodeKind{KindFuncDefinition},
			body:  []NodeKind{KindError, KindExprStmt},
			diags: 1,
		},
		{
			name:  "unclosed brace in call arguments",
			input: "fn void f()\n{\n\ta = 1;\n\tfoo(x, {;\n\tb = 2;\n}\nfn void g() {}\n",
			top:   []NodeKind{KindFuncDefinition, KindFuncDefinition},
			body:  []NodeKind{KindExprStmt, KindError},
			diags: 2,
		},
		{
			name:  "unclosed brace before struct",
			input: "fn void f()\n{\n\tx = foo({1, 2;\n}\nstruct Foo { int a; }\n",
			top:   []NodeKind{KindFuncDefinition, KindStructDeclaration},
			body:  []NodeKind{KindError},
			diags: 2,
		},
		{
			name:  "missing semicolon keeps statement",
			input: "fn void main()\n{\n\tx = 1\n}\n",
			top:   []NodeKind{KindFuncDefinition},
			body:  []NodeKind{KindExprStmt},
			diags: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := Parse([]byte(tt.input))
			if got := kindsOf(tree.Root.Children); !equalNodeKinds(got, tt.top) {
				t.Fatalf("top level = %v, want %v\n%s", got, tt.top, tree.Root)
			}
			if tt.body != nil {
				body := tree.Root.Children[0].ChildByField(FieldBody)
				if got := kindsOf(body.Children); !equalNodeKinds(got, tt.body) {
					t.Errorf("body = %v, want %v\n%s", got, tt.body, body)
				}
			}
			if len(tree.Diagnostics) != tt.diags {
				t.Errorf("got %d diagnostics, want %d: %v", len(tree.Diagnostics), tt.diags, tree.Diagnostics)
			}
			for _, d := range tree.Diagnostics {
				if d.Kind != DiagSyntax {
					t.Errorf("Kind = %v, want syntax", d.Kind)
				}
			}
		})
	}
}

func TestRecoveryErrorNodeDetails(t *testing.T) {
	tree := Parse([]byte("fn void main()\n{\n\tint x = ;\n}\n"))
	body := tree.Root.Children[0].ChildByField(FieldBody)
	bad := body.Children[0]
	if !bad.IsError() {
		t.Fatalf("Kind = %v, want ERROR", bad.Kind)
	}
	if got, want := bad.Error.Message, `expected expression, got ";"`; got != want {
		t.Errorf("Message = %q, want %q", got, want)
	}
	if got := tree.Text(bad); got != "int x = ;" {
		t.Errorf("error node covers %q, want %q", got, "int x = ;")
	}
	if !tree.Root.HasError() {
		t.Error("HasError() = false")
	}
	d := tree.Diagnostics[0]
	if d.Span.Start.Line != 3 || d.Span.Start.Column != 10 {
		t.Errorf("diagnostic at %v, want 3:10", d.Span.Start)
	}
}

func TestRecoveryUnclosedParen(t *testing.T) {
	tree := Parse([]byte("fn void f()\n{\n\ta = 1;\n\tfoo(;\n\tb = 2;\n}\n"))
	if len(tree.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want one", tree.Diagnostics)
	}
	d := tree.Diagnostics[0]
	if got, want := d.Message, `expected ')', got ";"`; got != want {
		t.Errorf("Message = %q, want %q", got, want)
	}
	if d.Span.Start.Line != 4 || d.Span.Start.Column != 6 {
		t.Errorf("diagnostic at %v, want 4:6", d.Span.Start)
	}
	body := tree.Root.Children[0].ChildByField(FieldBody)
	if got := tree.Text(body.Children[1]); got != "foo(;" {
		t.Errorf("error node covers %q, want %q", got, "foo(;")
	}
	if got := tree.Text(body.Children[2]); got != "b = 2;" {
		t.Errorf("statement after the error = %q", got)
	}
}

func TestAssignToType(t *testing.T) {
	tree := Parse([]byte("fn void f()\n{\n\tint = 3;\n\tx = 1;\n}\n"))
	if len(tree.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want one", tree.Diagnostics)
	}
	d := tree.Diagnostics[0]
	if d.Message != "cannot assign to a type" || d.Span.Start.Line != 3 || d.Span.Start.Column != 6 {
		t.Errorf("diagnostic = %v", d)
	}
	body := tree.Root.Children[0].ChildByField(FieldBody)
	if got, want := kindsOf(body.Children), []NodeKind{KindError, KindExprStmt}; !equalNodeKinds(got, want) {
		t.Errorf("body = %v, want %v", got, want)
	}

	stmt := parseBody(t, "$Type = int;").Children[0]
	if assign := stmt.Children[0]; assign.Kind != KindAssignmentExpr {
		t.Errorf("$Type = int parsed as %s", sexp(stmt))
	}
}

func TestTrailingParamsNeedClosingParen(t *testing.T) {
	body := parseBody(t, "@each(list; int x) { x++; };")
	call := body.Children[0].Children[0]
	args := call.ChildByField(FieldArguments)
	if args == nil || len(args.ChildrenByField(FieldTrailing)) != 1 {
		t.Fatalf("call = %s", sexp(call))
	}
	if call.ChildByField(FieldTrailing) == nil {
		t.Errorf("call has no trailing body: %s", sexp(call))
	}
}

func TestRecoveryLexicalErrorReportedOnce(t *testing.T) {
	tree := Parse([]byte("int x = 12ab;"))
	if len(tree.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want one", tree.Diagnostics)
	}
	if tree.Diagnostics[0].Kind != DiagLexical {
		t.Errorf("Kind = %v, want lexical", tree.Diagnostics[0].Kind)
	}
	if !tree.Root.HasError() {
		t.Error("tree has no error node for the bad literal")
	}
}

func TestRecoveryDiagnosticsSorted(t *testing.T) {
	tree := Parse([]byte("int a = ;\nint b = 'x;\nint c = ;\n"))
	for i := 1; i < len(tree.Diagnostics); i++ {
		if tree.Diagnostics[i].Span.Start.Offset < tree.Diagnostics[i-1].Span.Start.Offset {
			t.Errorf("diagnostics out of order: %v", tree.Diagnostics)
		}
	}
	if len(tree.Diagnostics) < 3 {
		t.Errorf("got %d diagnostics, want at least 3", len(tree.Diagnostics))
	}
}

func TestResourceLimits(t *testing.T) {
	deep := "int x = " + strings.Repeat("(", 100) + "1" + strings.Repeat(")", 100) + ";"
	many := strings.Repeat("int x;\n", 50)
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		input   string
		opts    []Option
		aborted bool
	}{
		{"depth within default", deep, nil, false},
		{"depth exceeded", deep, []Option{WithMaxDepth(50)}, true},
		{"depth limit disabled", deep, []Option{WithMaxDepth(0)}, false},
		{"nodes within limit", many, []Option{WithMaxNodes(10000)}, false},
		{"nodes exceeded", many, []Option{WithMaxNodes(10)}, true},
		{"cancelled", many, []Option{WithContext(cancelled)}, true},
		{"live context", many, []Option{WithContext(context.Background())}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := Parse([]byte(tt.input), tt.opts...)
			if tree.Aborted != tt.aborted {
				t.Fatalf("Aborted = %v, want %v", tree.Aborted, tt.aborted)
			}
			resource := 0
			for _, d := range tree.Diagnostics {
				if d.Kind == DiagResource {
					resource++
				}
			}
			if tt.aborted && resource != 1 {
				t.Errorf("got %d resource diagnostics, want 1", resource)
			}
			if !tt.aborted && len(tree.Diagnostics) != 0 {
				t.Errorf("unexpected diagnostics: %v", tree.Diagnostics)
			}
		})
	}
}

func TestNestedTrialsStayLinear(t *testing.T) {
	tests := []struct {
		name  string
		unit  string
		close string
		count int
	}{
		{"cast or generic call", "(Foo{", "", 30},
		{"cast or subscript", "(Foo[", "", 30},
		{"deep cast or subscript", "(Foo[", "", 200},
		{"cast with array size", "(int[(", "", 30},
		{"generic argument slots", "(Foo{Foo{(", "", 15},
		{"closed subscripts", "(Foo[", "])", 200},
		{"closed array sizes", "(int[", "])", 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "fn void f() { x = " + strings.Repeat(tt.unit, tt.count) + "y" +
				strings.Repeat(tt.close, tt.count) + "; }"
			start := time.Now()
			tree := Parse([]byte(src))
			if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
				t.Errorf("parse took %v", elapsed)
			}
			if balanced := tt.close != ""; tree.HasErrors() == balanced {
				t.Errorf("diagnostics = %v", tree.Diagnostics)
			}
			checkSpans(t, tree.Root)
		})
	}
}

func countNodes(n *Node) int {
	total := 1
	for _, child := range n.Children {
		total += countNodes(child)
	}
	return total
}

func TestMaxNodesCountsUndoneTrials(t *testing.T) {
	// `(Foo)` is first tried as a cast and then parsed again as a
	// parenthesised expression.
	src := []byte("int x = (Foo);")
	tree := Parse(src)
	if tree.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", tree.Diagnostics)
	}
	limited := Parse(src, WithMaxNodes(countNodes(tree.Root)))
	if !limited.Aborted {
		t.Error("nodes built by an undone trial were not counted")
	}
}

func TestPathologicalNesting(t *testing.T) {
	src := "fn void f() { x = " + strings.Repeat("(", 100000) + " }"
	tree := Parse([]byte(src))
	if !tree.Aborted {
		t.Error("Aborted = false, want true")
	}
	if tree.Root == nil || tree.Root.Kind != KindSourceFile {
		t.Fatalf("Root = %v", tree.Root)
	}
}
