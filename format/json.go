package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/c3kit/c3/parser"
)

// JSONEncoder writes the root node, in the shape of parser.Node's JSON
// form, together with the diagnostics.
type JSONEncoder struct {
	w io.Writer
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(tree *parser.Tree) error {
	text, err := e.MarshalText(tree)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText(tree *parser.Tree) ([]byte, error) {
	return json.MarshalIndent(treeToJSON(tree), "", "  ")
}

type jsonTree struct {
	Root        *parser.Node     `json:"root"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
	Aborted     bool             `json:"aborted,omitempty"`
}

type jsonDiagnostic struct {
	Kind    string       `json:"kind"`
	Message string       `json:"message"`
	Start   jsonPosition `json:"start"`
	End     jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

func toJSONPosition(p parser.Position) jsonPosition {
	return jsonPosition{Offset: p.Offset, Line: p.Line, Column: p.Column}
}

func treeToJSON(tree *parser.Tree) jsonTree {
	jt := jsonTree{
		Root:        tree.Root,
		Diagnostics: make([]jsonDiagnostic, len(tree.Diagnostics)),
		Aborted:     tree.Aborted,
	}
	for i, d := range tree.Diagnostics {
		jt.Diagnostics[i] = jsonDiagnostic{
			Kind:    d.Kind.String(),
			Message: d.Message,
			Start:   toJSONPosition(d.Span.Start),
			End:     toJSONPosition(d.Span.End),
		}
	}
	return jt
}
