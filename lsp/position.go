package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/c3kit/c3/parser"
)

// toPosition converts a parser position to a zero-based LSP position with
// the character counted in UTF-16 code units.
func toPosition(src []byte, p parser.Position) protocol.Position {
	offset := min(max(p.Offset, 0), len(src))
	lineStart := offset
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	line := p.Line - 1
	if line < 0 {
		line = 0
	}
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(utf16Len(src[lineStart:offset])),
	}
}

func toRange(src []byte, s parser.Span) protocol.Range {
	return protocol.Range{Start: toPosition(src, s.Start), End: toPosition(src, s.End)}
}

// offsetAt converts an LSP position back to a byte offset in src. A
// character past the end of its line maps to the line end.
func offsetAt(src []byte, pos protocol.Position) int {
	offset := 0
	for line := protocol.UInteger(0); line < pos.Line; line++ {
		i := strings.IndexByte(string(src[offset:]), '\n')
		if i < 0 {
			return len(src)
		}
		offset += i + 1
	}
	units := 0
	for offset < len(src) && src[offset] != '\n' && protocol.UInteger(units) < pos.Character {
		r, size := utf8.DecodeRune(src[offset:])
		units += utf16Width(r)
		offset += size
	}
	return offset
}

func utf16Len(b []byte) int {
	n := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		n += utf16Width(r)
		b = b[size:]
	}
	return n
}

func utf16Width(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
