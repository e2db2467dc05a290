package format

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/dhamidi/c3kit/c3/parser"
)

// Tokens writes one line per token, `line:col kind "text"`, ending with
// the EOF token. With trivia set, whitespace and comments are listed in
// their place too.
func Tokens(w io.Writer, tree *parser.Tree, trivia bool) error {
	bw := bufio.NewWriter(w)
	write := func(tok parser.Token) {
		fmt.Fprintf(bw, "%d:%d %s %s\n", tok.Span.Start.Line, tok.Span.Start.Column, tok.Kind, strconv.Quote(tok.Literal))
	}
	ti := 0
	for i, tok := range tree.Tokens {
		for ; ti < len(tree.Trivia) && tree.Trivia[ti].Attached <= i; ti++ {
			if trivia {
				write(tree.Trivia[ti].Token)
			}
		}
		write(tok)
	}
	return bw.Flush()
}
