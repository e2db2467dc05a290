package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/c3kit/c3/codebase"
	"github.com/dhamidi/c3kit/c3/doc"
	"github.com/dhamidi/c3kit/c3/parser"
)

// Diagnostics converts the tree's diagnostics. Resource limits are
// warnings; everything else is an error.
func Diagnostics(tree *parser.Tree) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	source := lsName
	for _, d := range tree.Diagnostics {
		severity := protocol.DiagnosticSeverityError
		if d.Kind == parser.DiagResource {
			severity = protocol.DiagnosticSeverityWarning
		}
		code := protocol.IntegerOrString{Value: d.Kind.String()}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    toRange(tree.Source, d.Span),
			Severity: &severity,
			Code:     &code,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return diagnostics
}

func symbolKind(k codebase.SymbolKind) protocol.SymbolKind {
	switch k {
	case codebase.SymbolModule:
		return protocol.SymbolKindModule
	case codebase.SymbolFunction, codebase.SymbolMacro:
		return protocol.SymbolKindFunction
	case codebase.SymbolMethod:
		return protocol.SymbolKindMethod
	case codebase.SymbolStruct, codebase.SymbolUnion, codebase.SymbolBitstruct:
		return protocol.SymbolKindStruct
	case codebase.SymbolField:
		return protocol.SymbolKindField
	case codebase.SymbolEnum:
		return protocol.SymbolKindEnum
	case codebase.SymbolEnumConstant:
		return protocol.SymbolKindEnumMember
	case codebase.SymbolInterface:
		return protocol.SymbolKindInterface
	case codebase.SymbolAlias:
		return protocol.SymbolKindTypeParameter
	case codebase.SymbolTypedef:
		return protocol.SymbolKindClass
	case codebase.SymbolAttrdef:
		return protocol.SymbolKindProperty
	case codebase.SymbolFault, codebase.SymbolConstant:
		return protocol.SymbolKindConstant
	default:
		return protocol.SymbolKindVariable
	}
}

// DocumentSymbols builds the outline of one file.
func DocumentSymbols(tree *parser.Tree, symbols []codebase.Symbol) []protocol.DocumentSymbol {
	result := []protocol.DocumentSymbol{}
	for _, s := range symbols {
		detail := s.Kind.String()
		ds := protocol.DocumentSymbol{
			Name:           s.Qualified(),
			Detail:         &detail,
			Kind:           symbolKind(s.Kind),
			Range:          toRange(tree.Source, s.Span),
			SelectionRange: toRange(tree.Source, s.NameSpan),
		}
		if len(s.Children) > 0 {
			ds.Children = DocumentSymbols(tree, s.Children)
		}
		result = append(result, ds)
	}
	return result
}

var foldingKinds = map[parser.NodeKind]bool{
	parser.KindCompoundStmt:  true,
	parser.KindStructBody:    true,
	parser.KindBitstructBody: true,
	parser.KindEnumBody:      true,
	parser.KindInterfaceBody: true,
	parser.KindSwitchBody:    true,
	parser.KindAsmBlockStmt:  true,
	parser.KindCtStmtBody:    true,
}

// FoldingRanges returns a range for every block and for comments that
// span more than one line.
func FoldingRanges(tree *parser.Tree) []protocol.FoldingRange {
	ranges := []protocol.FoldingRange{}
	add := func(s parser.Span) {
		if s.End.Line > s.Start.Line {
			ranges = append(ranges, protocol.FoldingRange{
				StartLine: protocol.UInteger(s.Start.Line - 1),
				EndLine:   protocol.UInteger(s.End.Line - 1),
			})
		}
	}
	tree.Root.Walk(func(n *parser.Node) bool {
		if foldingKinds[n.Kind] {
			add(n.Span)
		}
		return true
	})
	for _, c := range tree.Comments() {
		if c.Kind != parser.TokenLineComment {
			add(c.Span)
		}
	}
	return ranges
}

// SymbolAt returns the symbol whose name covers offset, searching members
// too.
func SymbolAt(symbols []codebase.Symbol, offset int) *codebase.Symbol {
	for i := range symbols {
		s := &symbols[i]
		if s.NameSpan.Start.Offset <= offset && offset <= s.NameSpan.End.Offset {
			return s
		}
		if found := SymbolAt(s.Children, offset); found != nil {
			return found
		}
	}
	return nil
}

// Hover describes the declaration named at pos: its header line and the
// rendered doc comment. It returns nil when pos is not on a declaration
// name.
func Hover(tree *parser.Tree, symbols []codebase.Symbol, pos protocol.Position) *protocol.Hover {
	sym := SymbolAt(symbols, offsetAt(tree.Source, pos))
	if sym == nil {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("```c3\n" + declHeader(tree.Text(sym.Decl)) + "\n```")
	if n := tree.DocComment(sym.Decl); n != nil {
		if text := doc.Render(tree.Source, n); text != "" {
			sb.WriteString("\n\n" + text)
		}
	}

	r := toRange(tree.Source, sym.NameSpan)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: sb.String(),
		},
		Range: &r,
	}
}

// declHeader returns the first line of a declaration without an opening
// brace or `=>` body.
func declHeader(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if i := strings.Index(text, "=>"); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "{"))
}

// WorkspaceSymbols lists the symbols matching query across the codebase.
func WorkspaceSymbols(c *codebase.Codebase, query string) []protocol.SymbolInformation {
	result := []protocol.SymbolInformation{}
	for _, s := range c.FindSymbols(query) {
		info := c.GetFile(s.File)
		if info == nil || info.Tree == nil {
			continue
		}
		result = append(result, protocol.SymbolInformation{
			Name: s.Qualified(),
			Kind: symbolKind(s.Kind),
			Location: protocol.Location{
				URI:   protocol.DocumentUri(pathToURI(s.File)),
				Range: toRange(info.Tree.Source, s.NameSpan),
			},
		})
	}
	return result
}
