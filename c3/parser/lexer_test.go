package parser

import (
	"testing"
)

// lexKinds returns the kinds of the significant tokens in input, without
// the final EOF.
func lexKinds(input string) []TokenKind {
	lexer := NewLexer([]byte(input), "test.c3")
	var kinds []TokenKind
	for {
		tok := lexer.NextToken()
		if tok.Kind == TokenEOF {
			return kinds
		}
		if !tok.Trivia {
			kinds = append(kinds, tok.Kind)
		}
	}
}

func equalKinds(a, b []TokenKind) bool {
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

func TestLexerNewLexer(t *testing.T) {
	lexer := NewLexer([]byte("module foo;"), "foo.c3")
	pos := lexer.Position()

	if pos.File != "foo.c3" {
		t.Errorf("File = %q, want %q", pos.File, "foo.c3")
	}
	if pos.Line != 1 {
		t.Errorf("Line = %d, want %d", pos.Line, 1)
	}
	if pos.Column != 1 {
		t.Errorf("Column = %d, want %d", pos.Column, 1)
	}
	if pos.Offset != 0 {
		t.Errorf("Offset = %d, want %d", pos.Offset, 0)
	}
}

func TestLexerKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"fn", TokenFn},
		{"macro", TokenMacro},
		{"module", TokenModule},
		{"import", TokenImport},
		{"struct", TokenStruct},
		{"bitstruct", TokenBitstruct},
		{"faultdef", TokenFaultdef},
		{"foreach", TokenForeach},
		{"foreach_r", TokenForeachR},
		{"nextcase", TokenNextcase},
		{"tlocal", TokenTlocal},
		{"int", TokenBaseType},
		{"void", TokenBaseType},
		{"typeid", TokenBaseType},
		{"true", TokenTrue},
		{"null", TokenNull},
		{"$if", TokenCtIf},
		{"$endforeach", TokenCtEndforeach},
		{"$sizeof", TokenCtSizeof},
		{"$vaarg", TokenCtVaarg},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.c3")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.input)
			}
		})
	}
}

func TestLexerIdentifierClasses(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"foo", TokenIdent},
		{"_foo", TokenIdent},
		{"foo_bar2", TokenIdent},
		{"Foo", TokenTypeIdent},
		{"FooBar", TokenTypeIdent},
		{"_Foo", TokenTypeIdent},
		{"FOO", TokenConstIdent},
		{"FOO_BAR", TokenConstIdent},
		{"T", TokenConstIdent},
		{"$x", TokenCtIdent},
		{"$Type", TokenCtTypeIdent},
		{"$SIZE", TokenCtConstIdent},
		{"$$builtin", TokenBuiltin},
		{"@inline", TokenAtIdent},
		{"@Hot", TokenAtTypeIdent},
		{"#expr", TokenHashIdent},
		{"__", TokenError},
		{"@CONST", TokenError},
		{"#Foo", TokenError},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.c3")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.input)
			}
			if got := len(lexer.Diagnostics()) > 0; got != (tt.kind == TokenError) {
				t.Errorf("diagnostics = %v", lexer.Diagnostics())
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"0", TokenIntLiteral},
		{"42", TokenIntLiteral},
		{"1_000", TokenIntLiteral},
		{"0x1F", TokenIntLiteral},
		{"0o17", TokenIntLiteral},
		{"0b1010", TokenIntLiteral},
		{"1u8", TokenIntLiteral},
		{"10i128", TokenIntLiteral},
		{"3U", TokenIntLiteral},
		{"1.5", TokenRealLiteral},
		{"1e9", TokenRealLiteral},
		{"1.5e-3", TokenRealLiteral},
		{"2f", TokenRealLiteral},
		{"1.0f32", TokenRealLiteral},
		{"0x1.8p3", TokenRealLiteral},
		{"12ab", TokenError},
		{"0x", TokenError},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.c3")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.input {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.input)
			}
			if next := lexer.NextToken(); next.Kind != TokenEOF {
				t.Errorf("trailing token %v %q", next.Kind, next.Literal)
			}
		})
	}
}

func TestLexerSequences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenKind
	}{
		{"range not real", "1..2", []TokenKind{TokenIntLiteral, TokenDotDot, TokenIntLiteral}},
		{"member after int", "x[1].y", []TokenKind{TokenIdent, TokenLBracket, TokenIntLiteral, TokenRBracket, TokenDot, TokenIdent}},
		{"method on hex int", "0xFF.abs()", []TokenKind{TokenIntLiteral, TokenDot, TokenIdent, TokenLParen, TokenRParen}},
		{"ellipsis", "...args", []TokenKind{TokenEllipsis, TokenIdent}},
		{"elvis and orelse", "a ?: b ?? c", []TokenKind{TokenIdent, TokenElvis, TokenIdent, TokenOrElse, TokenIdent}},
		{"bang bang", "x!!", []TokenKind{TokenIdent, TokenBangBang}},
		{"vector brackets", "int[<4>]", []TokenKind{TokenBaseType, TokenLVector, TokenIntLiteral, TokenRVector}},
		{"compile-time operators", "a &&& b ||| c +++ d", []TokenKind{TokenIdent, TokenCtAndAnd, TokenIdent, TokenCtOrOr, TokenIdent, TokenCtConcat, TokenIdent}},
		{"shifts", "a <<= b >> c", []TokenKind{TokenIdent, TokenShlAssign, TokenIdent, TokenShr, TokenIdent}},
		{"implies", "=> == =", []TokenKind{TokenImplies, TokenEQ, TokenAssign}},
		{"scope", "std::io", []TokenKind{TokenIdent, TokenColonColon, TokenIdent}},
		{"bytes", `x"AB CD" b64"QQ=="`, []TokenKind{TokenBytesLiteral, TokenBytesLiteral}},
		{"ident starting with x", "xs", []TokenKind{TokenIdent}},
		{"raw string", "`a\\n``b`", []TokenKind{TokenRawStringLiteral}},
		{"char", `'a' '\n' '\x41'`, []TokenKind{TokenCharLiteral, TokenCharLiteral, TokenCharLiteral}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexKinds(tt.input)
			if !equalKinds(got, tt.want) {
				t.Errorf("kinds = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLexerComments(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		kind         TokenKind
		literal      string
		unterminated bool
	}{
		{"line", "// hello\nx", TokenLineComment, "// hello", false},
		{"block", "/* a */x", TokenBlockComment, "/* a */", false},
		{"nested block", "/* a /* b */ c */x", TokenBlockComment, "/* a /* b */ c */", false},
		{"unterminated block", "/* a /* b */", TokenBlockComment, "/* a /* b */", true},
		{"doc", "<* text *>x", TokenDocComment, "<* text *>", false},
		{"doc with contract", "<*\n @param x \"*> not here\"\n*>x", TokenDocComment, "<*\n @param x \"*> not here\"\n*>", false},
		{"doc closed on contract line", "<* @pure *>x", TokenDocComment, "<* @pure *>", false},
		{"unterminated doc", "<* text", TokenDocComment, "<* text", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.c3")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Fatalf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if tok.Literal != tt.literal {
				t.Errorf("Literal = %q, want %q", tok.Literal, tt.literal)
			}
			if !tok.Trivia {
				t.Error("comment not marked as trivia")
			}
			if tok.Unterminated != tt.unterminated {
				t.Errorf("Unterminated = %v, want %v", tok.Unterminated, tt.unterminated)
			}
			if tt.unterminated {
				diags := lexer.Diagnostics()
				if len(diags) != 1 || diags[0].Kind != DiagUnterminated {
					t.Errorf("diagnostics = %v, want one unterminated", diags)
				}
			}
		})
	}
}

func TestLexerUnterminatedLiterals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  TokenKind
	}{
		{"string at newline", "\"abc\nx", TokenStringLiteral},
		{"string at eof", "\"abc", TokenStringLiteral},
		{"char", "'a", TokenCharLiteral},
		{"raw string", "`abc", TokenRawStringLiteral},
		{"bytes", `x"AB`, TokenBytesLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.c3")
			tok := lexer.NextToken()
			if tok.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tok.Kind, tt.kind)
			}
			if !tok.Unterminated {
				t.Error("token not marked unterminated")
			}
		})
	}
}

func TestLexerLexicalErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty char", "''"},
		{"bad escape", `"\q"`},
		{"short hex escape", `"\x4"`},
		{"bad bytes", `x"GG"`},
		{"stray character", "a \\ b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.c3")
			for lexer.NextToken().Kind != TokenEOF {
			}
			diags := lexer.Diagnostics()
			if len(diags) == 0 {
				t.Fatal("no diagnostics")
			}
			if diags[0].Kind != DiagLexical {
				t.Errorf("Kind = %v, want %v", diags[0].Kind, DiagLexical)
			}
		})
	}
}

func TestLexerPositions(t *testing.T) {
	lexer := NewLexer([]byte("fn\n  int x;"), "pos.c3")
	tests := []struct {
		literal string
		line    int
		column  int
		offset  int
	}{
		{"fn", 1, 1, 0},
		{"int", 2, 3, 5},
		{"x", 2, 7, 9},
		{";", 2, 8, 10},
	}

	for _, tt := range tests {
		tok := lexer.NextToken()
		for tok.Trivia {
			tok = lexer.NextToken()
		}
		if tok.Literal != tt.literal {
			t.Fatalf("Literal = %q, want %q", tok.Literal, tt.literal)
		}
		start := tok.Span.Start
		if start.Line != tt.line || start.Column != tt.column || start.Offset != tt.offset {
			t.Errorf("%q at %d:%d (%d), want %d:%d (%d)", tt.literal, start.Line, start.Column, start.Offset, tt.line, tt.column, tt.offset)
		}
		if start.File != "pos.c3" {
			t.Errorf("File = %q", start.File)
		}
	}
}

func TestLexerEOFRepeats(t *testing.T) {
	lexer := NewLexer([]byte("x"), "")
	lexer.NextToken()
	for i := 0; i < 3; i++ {
		if tok := lexer.NextToken(); tok.Kind != TokenEOF {
			t.Fatalf("call %d: Kind = %v, want EOF", i, tok.Kind)
		}
	}
}

// countingScanner records which states the lexer asks for.
type countingScanner struct {
	states map[ScanState]int
}

func (s *countingScanner) Scan(state ScanState, src []byte, pos int) ScanResult {
	s.states[state]++
	return DefaultScanner.Scan(state, src, pos)
}

func TestLexerUsesContextScanner(t *testing.T) {
	scanner := &countingScanner{states: map[ScanState]int{}}
	lexer := NewLexer([]byte("/* a */ <* b\n@pure\n*> 1.5 2"), "")
	lexer.SetScanner(scanner)
	for lexer.NextToken().Kind != TokenEOF {
	}

	if scanner.states[ScanBlockComment] != 1 {
		t.Errorf("block comment scans = %d, want 1", scanner.states[ScanBlockComment])
	}
	if scanner.states[ScanDocComment] != 2 {
		t.Errorf("doc comment scans = %d, want 2", scanner.states[ScanDocComment])
	}
	if scanner.states[ScanRealLiteral] != 2 {
		t.Errorf("real literal scans = %d, want 2", scanner.states[ScanRealLiteral])
	}
}
