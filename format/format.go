// Package format writes parse trees and symbol tables in the textual forms
// used by the command line and by tests.
package format

import (
	"io"

	"github.com/dhamidi/c3kit/c3/parser"
)

// Encoder writes a parse tree to its underlying writer.
type Encoder interface {
	Encode(tree *parser.Tree) error
}

// NewEncoder returns the tree encoder for a -f/--format name: "sexp",
// "json" or "tree". It returns nil for unknown names.
func NewEncoder(name string, w io.Writer, positions bool) Encoder {
	switch name {
	case "sexp":
		return &SExprEncoder{w: w, Positions: positions}
	case "json":
		return NewJSONEncoder(w)
	case "tree":
		return &TreeEncoder{w: w, Positions: positions}
	}
	return nil
}
