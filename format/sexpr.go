package format

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dhamidi/c3kit/c3/parser"
)

// SExpr renders the tree in the S-expression form tree-sitter prints:
// named nodes only, fields as `name:` prefixes. Operator and keyword
// leaves appear only when they carry a field, as quoted text.
func SExpr(tree *parser.Tree) string {
	var sb strings.Builder
	writeSExpr(&sb, tree.Root, false)
	return sb.String()
}

// SExprWithPositions is SExpr with `[row, column] - [row, column]` ranges,
// zero-based as tree-sitter prints them.
func SExprWithPositions(tree *parser.Tree) string {
	var sb strings.Builder
	writeSExpr(&sb, tree.Root, true)
	return sb.String()
}

func isAnonymous(n *parser.Node) bool {
	return n.Kind == parser.KindOperator || n.Kind == parser.KindKeyword
}

func writeSExpr(sb *strings.Builder, n *parser.Node, positions bool) {
	if n.Field != "" {
		sb.WriteString(n.Field + ": ")
	}
	if isAnonymous(n) {
		sb.WriteString(strconv.Quote(n.TokenLiteral()))
		return
	}
	sb.WriteString("(" + n.Kind.String())
	if positions {
		fmt.Fprintf(sb, " [%d, %d] - [%d, %d]",
			n.Span.Start.Line-1, n.Span.Start.Column-1,
			n.Span.End.Line-1, n.Span.End.Column-1)
	}
	for _, child := range n.Children {
		if isAnonymous(child) && child.Field == "" {
			continue
		}
		sb.WriteString(" ")
		writeSExpr(sb, child, positions)
	}
	sb.WriteString(")")
}

type SExprEncoder struct {
	w         io.Writer
	Positions bool
}

func NewSExprEncoder(w io.Writer) *SExprEncoder {
	return &SExprEncoder{w: w}
}

func (e *SExprEncoder) Encode(tree *parser.Tree) error {
	text := SExpr(tree)
	if e.Positions {
		text = SExprWithPositions(tree)
	}
	_, err := io.WriteString(e.w, text+"\n")
	return err
}

// TreeEncoder writes the indented outline produced by Node.String.
type TreeEncoder struct {
	w         io.Writer
	Positions bool
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(tree *parser.Tree) error {
	text := tree.Root.String()
	if e.Positions {
		text = tree.Root.StringWithPositions()
	}
	_, err := io.WriteString(e.w, text)
	return err
}
