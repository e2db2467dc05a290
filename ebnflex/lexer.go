// Package ebnflex provides lexical scanning based on EBNF grammars.
package ebnflex

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

//go:embed c3.ebnf
var c3Grammar []byte

// Position represents a location in source code.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a lexical token with its position.
type Token struct {
	Kind     string
	Literal  string
	Position Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Position, t.Kind, t.Literal)
}

// Grammar is a verified EBNF grammar together with its token kinds: the
// alternatives of the start production, in declaration order.
type Grammar struct {
	productions ebnf.Grammar
	kinds       []string
}

// Load parses and verifies a grammar. The start production must be a
// name or an alternative of names; each name is a token kind.
func Load(filename string, r io.Reader, start string) (*Grammar, error) {
	productions, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := ebnf.Verify(productions, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}

	var kinds []string
	switch e := productions[start].Expr.(type) {
	case *ebnf.Name:
		kinds = []string{e.String}
	case ebnf.Alternative:
		for _, alt := range e {
			name, ok := alt.(*ebnf.Name)
			if !ok {
				return nil, fmt.Errorf("%s: start production %s must list token names", filename, start)
			}
			kinds = append(kinds, name.String)
		}
	default:
		return nil, fmt.Errorf("%s: start production %s must list token names", filename, start)
	}
	return &Grammar{productions: productions, kinds: kinds}, nil
}

// LoadFile loads a grammar from a file.
func LoadFile(filename, start string) (*Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return Load(filename, f, start)
}

// C3 returns the built-in grammar of C3 identifiers, whitespace and
// numeric literals.
func C3() (*Grammar, error) {
	return Load("c3.ebnf", bytes.NewReader(c3Grammar), "Token")
}

// Kinds returns the token kinds of g.
func (g *Grammar) Kinds() []string {
	return g.kinds
}

// HasKind reports whether kind is one of the token kinds of g.
func (g *Grammar) HasKind(kind string) bool {
	for _, k := range g.kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Matches reports whether the production named kind matches all of
// literal.
func (g *Grammar) Matches(kind, literal string) bool {
	if _, ok := g.productions[kind]; !ok {
		return false
	}
	m := newMatcher(g.productions, []byte(literal))
	return m.matchName(kind, 0) == len(literal)
}

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

// matcher matches expressions against input. Repetitions are greedy and
// never backtrack. A result of -1 means no match; 0 is an empty match.
type matcher struct {
	grammar  ebnf.Grammar
	input    []byte
	memo     map[memoKey]int
	visiting map[memoKey]bool
}

func newMatcher(grammar ebnf.Grammar, input []byte) *matcher {
	return &matcher{
		grammar:  grammar,
		input:    input,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
}

func (m *matcher) match(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case nil:
		return 0

	case *ebnf.Token:
		if bytes.HasPrefix(m.input[offset:], []byte(e.String)) {
			return len(e.String)
		}
		return -1

	case *ebnf.Range:
		return m.matchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := m.match(item, offset+total)
			if n < 0 {
				return -1
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := -1
		for _, alt := range e {
			if n := m.match(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := m.match(e.Body, offset+total)
			if n <= 0 {
				return total
			}
			total += n
		}

	case *ebnf.Option:
		return max(m.match(e.Body, offset), 0)

	case *ebnf.Group:
		return m.match(e.Body, offset)

	case *ebnf.Name:
		return m.matchName(e.String, offset)
	}
	return -1
}

// matchName matches a named production with memoization. Left recursion
// fails instead of looping.
func (m *matcher) matchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}
	if result, ok := m.memo[key]; ok {
		return result
	}
	if m.visiting[key] {
		return -1
	}

	prod, ok := m.grammar[name]
	if !ok {
		m.memo[key] = -1
		return -1
	}

	m.visiting[key] = true
	result := m.match(prod.Expr, offset)
	delete(m.visiting, key)

	m.memo[key] = result
	return result
}

// matchRange matches one character in a range (e.g., "a"…"z").
func (m *matcher) matchRange(begin, end string, offset int) int {
	if offset >= len(m.input) {
		return -1
	}
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	r, size := utf8.DecodeRune(m.input[offset:])
	if r >= lo && r <= hi {
		return size
	}
	return -1
}

// Lexer tokenizes input by the longest match among a grammar's token
// kinds. Ties go to the kind declared first.
type Lexer struct {
	grammar  *Grammar
	matcher  *matcher
	filename string
	pos      int
	line     int
	column   int
}

// NewLexer creates a lexer for the given grammar and input.
func (g *Grammar) NewLexer(input []byte, filename string) *Lexer {
	return &Lexer{
		grammar:  g,
		matcher:  newMatcher(g.productions, input),
		filename: filename,
		pos:      0,
		line:     1,
		column:   1,
	}
}

// Position returns the current position in the input.
func (l *Lexer) Position() Position {
	return Position{
		Filename: l.filename,
		Offset:   l.pos,
		Line:     l.line,
		Column:   l.column,
	}
}

func (l *Lexer) advance(n int) {
	for _, ch := range l.matcher.input[l.pos : l.pos+n] {
		if ch == '\n' {
			l.line++
			l.column = 1
		} else {
			l.column++
		}
	}
	l.pos += n
}

// NextToken returns the next token from the input, or io.EOF with an EOF
// token at the end. Input no kind matches becomes a one-character ERROR
// token.
func (l *Lexer) NextToken() (Token, error) {
	input := l.matcher.input
	if l.pos >= len(input) {
		return Token{Kind: "EOF", Position: l.Position()}, io.EOF
	}

	start := l.Position()
	bestKind, bestLen := "", 0
	for _, kind := range l.grammar.kinds {
		if n := l.matcher.matchName(kind, l.pos); n > bestLen {
			bestKind, bestLen = kind, n
		}
	}

	if bestLen == 0 {
		_, size := utf8.DecodeRune(input[l.pos:])
		literal := string(input[l.pos : l.pos+size])
		l.advance(size)
		return Token{Kind: "ERROR", Literal: literal, Position: start}, nil
	}

	literal := string(input[l.pos : l.pos+bestLen])
	l.advance(bestLen)
	return Token{Kind: bestKind, Literal: literal, Position: start}, nil
}

// Tokenize reads all tokens from input, ending with the EOF token.
func (l *Lexer) Tokenize() []Token {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		tokens = append(tokens, tok)
		if err == io.EOF {
			return tokens
		}
	}
}
