package codebase

import "github.com/dhamidi/c3kit/c3/parser"

type SymbolKind int

const (
	SymbolModule SymbolKind = iota
	SymbolFunction
	SymbolMethod
	SymbolMacro
	SymbolStruct
	SymbolUnion
	SymbolBitstruct
	SymbolField
	SymbolEnum
	SymbolEnumConstant
	SymbolFault
	SymbolInterface
	SymbolAlias
	SymbolTypedef
	SymbolAttrdef
	SymbolConstant
	SymbolVariable
)

var symbolKindNames = map[SymbolKind]string{
	SymbolModule:       "module",
	SymbolFunction:     "function",
	SymbolMethod:       "method",
	SymbolMacro:        "macro",
	SymbolStruct:       "struct",
	SymbolUnion:        "union",
	SymbolBitstruct:    "bitstruct",
	SymbolField:        "field",
	SymbolEnum:         "enum",
	SymbolEnumConstant: "enum_constant",
	SymbolFault:        "fault",
	SymbolInterface:    "interface",
	SymbolAlias:        "alias",
	SymbolTypedef:      "typedef",
	SymbolAttrdef:      "attrdef",
	SymbolConstant:     "constant",
	SymbolVariable:     "variable",
}

func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Symbol is a named declaration. Span covers the whole declaration,
// NameSpan just its name.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	File     string
	Span     parser.Span
	NameSpan parser.Span
	// Decl is the declaration node the symbol was taken from.
	Decl     *parser.Node
	// Receiver is the base type name of a method, e.g. "List" for
	// `fn void List{int}.push(...)`.
	Receiver string
	Children []Symbol
}

// Qualified returns the name prefixed by the receiver for methods.
func (s Symbol) Qualified() string {
	if s.Receiver != "" {
		return s.Receiver + "." + s.Name
	}
	return s.Name
}

// ExtractSymbols returns the top-level declarations of tree, each with its
// members, in source order.
func ExtractSymbols(file string, tree *parser.Tree) []Symbol {
	if tree == nil || tree.Root == nil {
		return nil
	}
	var result []Symbol
	for _, decl := range tree.Root.Children {
		result = append(result, declSymbols(file, tree, decl)...)
	}
	return result
}

func declSymbols(file string, tree *parser.Tree, decl *parser.Node) []Symbol {
	named := func(kind SymbolKind) []Symbol {
		var out []Symbol
		for _, name := range decl.ChildrenByField(parser.FieldName) {
			out = append(out, newSymbol(file, tree, decl, name, kind))
		}
		return out
	}

	switch decl.Kind {
	case parser.KindModuleDeclaration:
		path := decl.ChildByField(parser.FieldPath)
		if path == nil {
			return nil
		}
		return []Symbol{newSymbol(file, tree, decl, path, SymbolModule)}
	case parser.KindFuncDefinition, parser.KindFuncDeclaration:
		mt := decl.ChildByField(parser.FieldMethodType)
		if mt == nil {
			return named(SymbolFunction)
		}
		syms := named(SymbolMethod)
		for i := range syms {
			syms[i].Receiver = tree.Text(mt.Children[0])
		}
		return syms
	case parser.KindMacroDeclaration:
		return named(SymbolMacro)
	case parser.KindStructDeclaration, parser.KindUnionDeclaration:
		kind := SymbolStruct
		if decl.Kind == parser.KindUnionDeclaration {
			kind = SymbolUnion
		}
		syms := named(kind)
		if len(syms) == 1 {
			syms[0].Children = memberSymbols(file, tree, decl.ChildByField(parser.FieldBody))
		}
		return syms
	case parser.KindBitstructDeclaration:
		syms := named(SymbolBitstruct)
		if len(syms) == 1 {
			syms[0].Children = memberSymbols(file, tree, decl.ChildByField(parser.FieldBody))
		}
		return syms
	case parser.KindEnumDeclaration:
		syms := named(SymbolEnum)
		if len(syms) == 1 {
			if body := decl.ChildByField(parser.FieldBody); body != nil {
				for _, c := range body.ChildrenOfKind(parser.KindEnumConstant) {
					if name := c.ChildByField(parser.FieldName); name != nil {
						syms[0].Children = append(syms[0].Children, newSymbol(file, tree, c, name, SymbolEnumConstant))
					}
				}
			}
		}
		return syms
	case parser.KindFaultdefDeclaration:
		return named(SymbolFault)
	case parser.KindInterfaceDeclaration:
		syms := named(SymbolInterface)
		if len(syms) == 1 {
			if body := decl.ChildByField(parser.FieldBody); body != nil {
				for _, m := range body.Children {
					syms[0].Children = append(syms[0].Children, declSymbols(file, tree, m)...)
				}
			}
		}
		return syms
	case parser.KindAliasDeclaration:
		return named(SymbolAlias)
	case parser.KindTypedefDeclaration:
		return named(SymbolTypedef)
	case parser.KindAttrdefDeclaration:
		return named(SymbolAttrdef)
	case parser.KindConstDeclaration:
		return named(SymbolConstant)
	case parser.KindGlobalDeclaration:
		return named(SymbolVariable)
	}
	return nil
}

// memberSymbols lists the fields of a struct or bitstruct body. Anonymous
// nested structs contribute their fields directly.
func memberSymbols(file string, tree *parser.Tree, body *parser.Node) []Symbol {
	if body == nil {
		return nil
	}
	var result []Symbol
	for _, m := range body.Children {
		if m.Kind != parser.KindStructMemberDeclaration && m.Kind != parser.KindBitstructMemberDeclaration {
			continue
		}
		names := m.ChildrenByField(parser.FieldName)
		nested := memberSymbols(file, tree, m.ChildByField(parser.FieldBody))
		if len(names) == 0 {
			result = append(result, nested...)
			continue
		}
		for _, name := range names {
			sym := newSymbol(file, tree, m, name, SymbolField)
			sym.Children = nested
			result = append(result, sym)
		}
	}
	return result
}

func newSymbol(file string, tree *parser.Tree, decl, name *parser.Node, kind SymbolKind) Symbol {
	return Symbol{
		Name:     tree.Text(name),
		Kind:     kind,
		File:     file,
		Span:     decl.Span,
		NameSpan: name.Span,
		Decl:     decl,
	}
}
