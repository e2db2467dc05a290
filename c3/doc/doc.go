// Package doc turns parsed `<* ... *>` doc comments into text for tooling:
// Markdown for hovers, plain text for summaries and a flat list of
// contracts.
package doc

import (
	"strconv"
	"strings"

	"github.com/dhamidi/c3kit/c3/parser"
)

// Contract is one `@tag ...` line of a doc comment.
type Contract struct {
	Name string // tag including the `@`, e.g. "@param"
	// Ident is the parameter named by @param.
	Ident string
	// Mutability is the @param access mode: "in", "out", "inout", with a
	// leading "&" when written that way.
	Mutability string
	// Exprs holds @require/@ensure conditions and @return? faults.
	Exprs []string
	// Optional is set for `@return?`.
	Optional    bool
	Description string
}

// Contracts lists the contracts of a doc_comment node in source order.
func Contracts(src []byte, n *parser.Node) []Contract {
	if n == nil {
		return nil
	}
	var result []Contract
	for _, c := range n.ChildrenOfKind(parser.KindDocCommentContract) {
		result = append(result, contract(src, c))
	}
	return result
}

func contract(src []byte, n *parser.Node) Contract {
	name := n.ChildByField(parser.FieldName)
	c := Contract{Name: name.TokenLiteral()}
	if end := name.Span.End.Offset; c.Name == "@return" && end < len(src) && src[end] == '?' {
		c.Optional = true
	}
	if ident := n.ChildByField(parser.FieldIdent); ident != nil {
		c.Ident = text(src, ident)
	}
	if mut := n.ChildByField(parser.FieldMutabilityContract); mut != nil {
		if mut.FirstChildOfKind(parser.KindOperator) != nil {
			c.Mutability = "&"
		}
		c.Mutability += mut.ChildByField(parser.FieldName).TokenLiteral()
	}
	for _, v := range n.ChildrenByField(parser.FieldValue) {
		c.Exprs = append(c.Exprs, text(src, v))
	}
	var parts []string
	for _, d := range n.ChildrenByField(parser.FieldDescription) {
		parts = append(parts, description(src, d))
	}
	c.Description = strings.Join(parts, " ")
	return c
}

// description returns the text of a contract description: string
// literals are unquoted, free text is taken as written.
func description(src []byte, n *parser.Node) string {
	switch n.Kind {
	case parser.KindStringLiteral, parser.KindRawStringLiteral:
		return unquote(n.TokenLiteral())
	case parser.KindStringExpr:
		var sb strings.Builder
		for _, part := range n.Children {
			sb.WriteString(unquote(part.TokenLiteral()))
		}
		return sb.String()
	}
	return strings.TrimSpace(text(src, n))
}

func unquote(lit string) string {
	if s, err := strconv.Unquote(lit); err == nil {
		return s
	}
	if len(lit) >= 2 {
		return lit[1 : len(lit)-1]
	}
	return lit
}

// PlainText returns the description part of a doc_comment node without
// contracts or markup.
func PlainText(src []byte, n *parser.Node) string {
	if n == nil {
		return ""
	}
	var parts []string
	for _, t := range n.ChildrenOfKind(parser.KindDocCommentText) {
		parts = append(parts, stripLinePrefix(text(src, t)))
	}
	return strings.TrimSpace(normalizeWhitespace(strings.Join(parts, "\n\n")))
}

// Render formats a doc_comment node as Markdown: the description followed
// by one section per kind of contract.
func Render(src []byte, n *parser.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(PlainText(src, n))

	var params, requires, ensures, returns, other []string
	for _, c := range Contracts(src, n) {
		switch c.Name {
		case "@param":
			line := "`" + c.Ident + "`"
			if c.Mutability != "" {
				line += " [" + c.Mutability + "]"
			}
			params = append(params, withDescription(line, c.Description))
		case "@require":
			requires = append(requires, withDescription(codeList(c.Exprs, " && "), c.Description))
		case "@ensure":
			ensures = append(ensures, withDescription(codeList(c.Exprs, " && "), c.Description))
		case "@return":
			line := c.Description
			if c.Optional {
				line = withDescription("faults "+codeList(c.Exprs, ", "), c.Description)
			}
			returns = append(returns, line)
		default:
			other = append(other, withDescription("`"+c.Name+"`", c.Description))
		}
	}

	section(&sb, "Parameters", params)
	section(&sb, "Requires", requires)
	section(&sb, "Ensures", ensures)
	section(&sb, "Returns", returns)
	section(&sb, "Attributes", other)
	return strings.TrimSpace(sb.String())
}

func section(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	if sb.Len() > 0 {
		sb.WriteString("\n\n")
	}
	sb.WriteString("**" + title + "**\n")
	for _, item := range items {
		sb.WriteString("\n- " + item)
	}
}

func withDescription(head, desc string) string {
	if desc == "" {
		return head
	}
	if head == "" {
		return desc
	}
	return head + ": " + desc
}

func codeList(exprs []string, sep string) string {
	quoted := make([]string, len(exprs))
	for i, e := range exprs {
		quoted[i] = "`" + e + "`"
	}
	return strings.Join(quoted, sep)
}

func text(src []byte, n *parser.Node) string {
	start, end := n.Span.Start.Offset, n.Span.End.Offset
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return string(src[start:end])
}

// normalizeWhitespace collapses runs of blank lines to one.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	var result []string
	prevEmpty := false

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if !prevEmpty {
				result = append(result, "")
				prevEmpty = true
			}
			continue
		}
		result = append(result, line)
		prevEmpty = false
	}

	return strings.Join(result, "\n")
}

// stripLinePrefix removes leading blanks and the optional ` * ` margin
// from every line.
func stripLinePrefix(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		line = strings.TrimLeft(line, " \t")
		if strings.HasPrefix(line, "* ") {
			line = line[2:]
		} else if line == "*" {
			line = ""
		}
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.Join(lines, "\n")
}
