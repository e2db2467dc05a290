package parser

// attachDocComments gives every doc comment trivia its parsed structure.
func (p *Parser) attachDocComments() {
	for i := range p.trivia {
		if p.trivia[i].Token.Kind == TokenDocComment {
			p.trivia[i].Doc = p.parseDocComment(p.trivia[i].Token)
		}
	}
}

// docCursor walks the source keeping line and column current.
type docCursor struct {
	src []byte
	pos Position
}

func (c *docCursor) moveTo(offset int) {
	for c.pos.Offset < offset && c.pos.Offset < len(c.src) {
		if c.src[c.pos.Offset] == '\n' {
			c.pos.Line++
			c.pos.Column = 1
		} else {
			c.pos.Column++
		}
		c.pos.Offset++
	}
}

// parseDocComment splits a `<* ... *>` comment into free text and contract
// lines. The context scanner finds the boundaries; each contract line is
// parsed as its own token stream.
func (p *Parser) parseDocComment(tok Token) *Node {
	doc := &Node{Kind: KindDocComment, Span: tok.Span}
	end := tok.Span.End.Offset
	body := p.input[:end]
	cur := docCursor{src: body, pos: tok.Span.Start}
	cur.moveTo(tok.Span.Start.Offset + 2)
	for cur.pos.Offset < end {
		res := p.scanner.Scan(ScanDocComment, body, cur.pos.Offset)
		if res.End < cur.pos.Offset {
			break
		}
		textEnd := res.End
		if res.Outcome == ScanEmit {
			textEnd = max(res.End-2, cur.pos.Offset)
		}
		doc.AddChild(p.docText(&cur, textEnd))
		if res.Outcome != ScanContract {
			break
		}
		cur.moveTo(res.End)
		lineEnd := contractLineEnd(body, res.End)
		doc.AddChild(p.parseContractLine(cur.pos, lineEnd))
		cur.moveTo(lineEnd)
	}
	return doc
}

// docText returns a doc_comment_text node for the text between the cursor
// and to, with blank margins and leading `*` markers trimmed. It returns
// nil when nothing remains.
func (p *Parser) docText(cur *docCursor, to int) *Node {
	from := cur.pos.Offset
	for from < to && isDocMargin(cur.src[from]) {
		from++
	}
	for to > from && isWhitespace(cur.src[to-1]) {
		to--
	}
	if from == to {
		return nil
	}
	cur.moveTo(from)
	start := cur.pos
	cur.moveTo(to)
	return &Node{Kind: KindDocCommentText, Span: Span{Start: start, End: cur.pos}}
}

func isDocMargin(ch byte) bool {
	return isWhitespace(ch) || ch == '*'
}

// parseContractLine lexes and parses one `@tag ...` line of a doc comment.
// Problems are reported with the rest of the file's diagnostics.
func (p *Parser) parseContractLine(start Position, lineEnd int) *Node {
	lx := NewLexer(p.input[:lineEnd], p.file)
	lx.SetScanner(p.scanner)
	lx.pos, lx.line, lx.column = start.Offset, start.Line, start.Column

	var tokens []Token
	for {
		tok := lx.NextToken()
		if tok.Trivia {
			continue
		}
		// `return` names the result in postconditions.
		if tok.Kind == TokenReturn {
			tok.Kind = TokenIdent
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}

	sub := &Parser{
		file:     p.file,
		maxDepth: p.maxDepth,
		scanner:  p.scanner,
		input:    p.input,
		lexer:    lx,
		tokens:   tokens,
	}
	node := sub.parseContract()
	// Free text after the structured part is not C3, so its lexical
	// problems are dropped.
	textStart := lineEnd
	for _, rest := range node.ChildrenByField(FieldDescription) {
		if rest.Kind == KindDocCommentText {
			textStart = rest.Span.Start.Offset
		}
	}
	for _, d := range lx.Diagnostics() {
		if d.Span.Start.Offset < textStart {
			p.diags = append(p.diags, d)
		}
	}
	p.diags = append(p.diags, sub.diags...)
	return node
}

// parseContract parses `@param [&in] x "text"`, `@require a > 0, b : "text"`,
// `@ensure return != null`, `@return? NOT_FOUND "text"`, `@pure` and any
// other `@tag` followed by free text.
func (p *Parser) parseContract() *Node {
	node := p.startNode(KindDocCommentContract)
	name := p.peek().Literal
	node.AddField(FieldName, p.tokenLeaf())

	switch name {
	case "@param":
		if p.check(TokenLBracket) {
			node.AddField(FieldMutabilityContract, p.parseMutabilityContract())
		}
		switch p.peek().Kind {
		case TokenIdent, TokenCtIdent, TokenHashIdent, TokenCtTypeIdent:
			node.AddField(FieldIdent, p.tokenLeaf())
		case TokenAmp:
			node.AddField(FieldIdent, p.parseUnary())
		default:
			p.expect(TokenIdent)
		}
		p.accept(TokenColon)
	case "@require", "@ensure":
		for !p.match(TokenColon, TokenEOF) {
			progress := p.mustProgress()
			node.AddField(FieldValue, p.parseExpr())
			if !p.accept(TokenComma) {
				break
			}
			if !progress() {
				break
			}
		}
		p.accept(TokenColon)
	case "@return":
		if p.accept(TokenQuestion) {
			for p.match(TokenConstIdent, TokenIdent) {
				node.AddField(FieldValue, p.parsePrimary())
				if !p.accept(TokenComma) {
					break
				}
			}
		}
		p.accept(TokenColon)
	case "@pure":
	}

	if p.isStringToken(0) {
		node.AddField(FieldDescription, p.parseStringExpr())
	}
	if !p.check(TokenEOF) {
		rest := p.startNode(KindDocCommentText)
		for !p.check(TokenEOF) {
			p.advance()
		}
		node.AddField(FieldDescription, p.finishNode(rest))
	}
	return p.finishNode(node)
}

// parseMutabilityContract parses `[in]`, `[out]`, `[inout]` and their `&`
// forms.
func (p *Parser) parseMutabilityContract() *Node {
	node := p.startNode(KindMutabilityContract)
	p.expect(TokenLBracket)
	if p.check(TokenAmp) {
		node.AddChild(p.operator())
	}
	if tok := p.expect(TokenIdent); tok != nil {
		node.AddField(FieldName, p.leafFrom(*tok, KindIdent))
	}
	p.expect(TokenRBracket)
	return p.finishNode(node)
}
