package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/c3kit/c3/codebase"
)

// LineEncoder writes symbols one per line as tab-separated
// `kind name file:line:col`. Members follow their parent with the parent
// name as prefix.
type LineEncoder struct {
	w io.Writer
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(symbols []codebase.Symbol) error {
	text, err := e.MarshalText(symbols)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText(symbols []codebase.Symbol) ([]byte, error) {
	var sb strings.Builder
	writeSymbols(&sb, "", symbols)
	return []byte(sb.String()), nil
}

func writeSymbols(sb *strings.Builder, prefix string, symbols []codebase.Symbol) {
	for _, s := range symbols {
		name := prefix + s.Qualified()
		fmt.Fprintf(sb, "%s\t%s\t%s:%d:%d\n",
			s.Kind,
			name,
			s.File,
			s.NameSpan.Start.Line,
			s.NameSpan.Start.Column,
		)
		writeSymbols(sb, name+".", s.Children)
	}
}
