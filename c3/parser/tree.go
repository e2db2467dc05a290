package parser

import "sort"

type DiagnosticKind int

const (
	// DiagLexical is an input sequence that matches no token.
	DiagLexical DiagnosticKind = iota
	// DiagUnterminated is a comment or quoted literal cut off by end of input.
	DiagUnterminated
	// DiagSyntax is a token that no grammar alternative accepts here.
	DiagSyntax
	// DiagResource means parsing stopped early on a depth, node or
	// cancellation limit. The tree is incomplete.
	DiagResource
	// DiagInput means the source could not be read.
	DiagInput
)

var diagnosticKindNames = map[DiagnosticKind]string{
	DiagLexical:      "lexical",
	DiagUnterminated: "unterminated",
	DiagSyntax:       "syntax",
	DiagResource:     "resource",
	DiagInput:        "input",
}

func (k DiagnosticKind) String() string {
	if name, ok := diagnosticKindNames[k]; ok {
		return name
	}
	return "unknown"
}

type Diagnostic struct {
	Kind    DiagnosticKind
	Span    Span
	Message string
}

func (d Diagnostic) String() string {
	return d.Span.Start.String() + ": " + d.Kind.String() + ": " + d.Message
}

// Trivia is a whitespace or comment token together with the index in
// Tree.Tokens of the significant token it precedes. Doc comments also
// carry their parsed doc_comment node.
type Trivia struct {
	Token    Token
	Attached int
	Doc      *Node
}

// Tree is the result of parsing one compilation unit.
type Tree struct {
	Root        *Node
	Source      []byte
	Tokens      []Token
	Trivia      []Trivia
	Diagnostics []Diagnostic
	// Aborted is set when a resource limit stopped the parse.
	Aborted bool
}

// HasErrors reports whether any diagnostic was recorded.
func (t *Tree) HasErrors() bool {
	return len(t.Diagnostics) > 0
}

// Text returns the source text covered by n.
func (t *Tree) Text(n *Node) string {
	if n == nil {
		return ""
	}
	return t.slice(n.Span)
}

func (t *Tree) slice(s Span) string {
	start, end := s.Start.Offset, s.End.Offset
	if start < 0 || end > len(t.Source) || start > end {
		return ""
	}
	return string(t.Source[start:end])
}

// TriviaBefore returns the trivia attached to Tokens[tokenIndex], in
// source order.
func (t *Tree) TriviaBefore(tokenIndex int) []Trivia {
	first := sort.Search(len(t.Trivia), func(i int) bool {
		return t.Trivia[i].Attached >= tokenIndex
	})
	last := first
	for last < len(t.Trivia) && t.Trivia[last].Attached == tokenIndex {
		last++
	}
	return t.Trivia[first:last]
}

// TriviaAt returns the trivia covering the given byte offset.
func (t *Tree) TriviaAt(offset int) (Trivia, bool) {
	i := sort.Search(len(t.Trivia), func(i int) bool {
		return t.Trivia[i].Token.Span.End.Offset > offset
	})
	if i < len(t.Trivia) && t.Trivia[i].Token.Span.Start.Offset <= offset {
		return t.Trivia[i], true
	}
	return Trivia{}, false
}

// TokenIndex returns the index of the significant token starting at
// offset, or -1.
func (t *Tree) TokenIndex(offset int) int {
	i := sort.Search(len(t.Tokens), func(i int) bool {
		return t.Tokens[i].Span.Start.Offset >= offset
	})
	if i < len(t.Tokens) && t.Tokens[i].Span.Start.Offset == offset {
		return i
	}
	return -1
}

// DocComment returns the doc_comment node written directly before n, or
// nil when there is none. Only whitespace may separate the comment from n.
func (t *Tree) DocComment(n *Node) *Node {
	if n == nil {
		return nil
	}
	idx := t.TokenIndex(n.Span.Start.Offset)
	if idx < 0 {
		return nil
	}
	trivia := t.TriviaBefore(idx)
	for i := len(trivia) - 1; i >= 0; i-- {
		switch trivia[i].Token.Kind {
		case TokenWhitespace:
			continue
		case TokenDocComment:
			return trivia[i].Doc
		}
		return nil
	}
	return nil
}

// Comments returns every comment token in source order.
func (t *Tree) Comments() []Token {
	var result []Token
	for _, tr := range t.Trivia {
		if tr.Token.Kind != TokenWhitespace {
			result = append(result, tr.Token)
		}
	}
	return result
}
