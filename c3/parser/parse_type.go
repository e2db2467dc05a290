package parser

// isTypeStartAt reports whether the token n places ahead begins a type:
// a builtin type, a type name (optionally module qualified), a
// compile-time type variable or a type-producing compile-time builtin.
func (p *Parser) isTypeStartAt(n int) bool {
	switch p.peekN(n).Kind {
	case TokenBaseType, TokenTypeIdent, TokenCtTypeIdent,
		TokenCtTypeof, TokenCtTypefrom, TokenCtEvaltype, TokenCtVatype:
		return true
	case TokenIdent:
		for p.peekN(n).Kind == TokenIdent && p.peekN(n+1).Kind == TokenColonColon {
			n += 2
		}
		return p.peekN(n).Kind == TokenTypeIdent
	}
	return false
}

func (p *Parser) isTypeStart() bool {
	return p.isTypeStartAt(0)
}

// parseType parses a type with its pointer, array, slice and vector
// suffixes and a trailing `?` for optionals.
func (p *Parser) parseType() *Node {
	p.enter()
	defer p.leave()

	node := p.startNode(KindType)
	base := p.parseBaseType()
	node.AddChild(base)
	if p.check(TokenLBrace) && !p.noGenericBrace && (base.Kind == KindTypeIdent || base.Kind == KindQualifiedIdent) {
		node.AddField(FieldArguments, p.parseGenericArguments())
	}
	for {
		progress := p.mustProgress()
		switch p.peek().Kind {
		case TokenStar:
			suffix := p.startNode(KindTypeSuffix)
			p.advance()
			node.AddChild(p.finishNode(suffix))
		case TokenLBracket:
			node.AddChild(p.parseArraySuffix())
		case TokenLVector:
			node.AddChild(p.parseVectorSuffix())
		default:
			p.finishNode(node)
			if p.check(TokenQuestion) {
				opt := p.wrapNode(KindOptionalType, FieldType, node)
				p.advance()
				return p.finishNode(opt)
			}
			return node
		}
		if !progress() {
			return p.finishNode(node)
		}
	}
}

// parseBaseType parses the part of a type before any suffix.
func (p *Parser) parseBaseType() *Node {
	switch p.peek().Kind {
	case TokenBaseType:
		return p.leaf(KindBaseType)
	case TokenTypeIdent:
		return p.leaf(KindTypeIdent)
	case TokenCtTypeIdent:
		return p.leaf(KindCtTypeIdent)
	case TokenIdent:
		if p.peekN(1).Kind == TokenColonColon {
			node := p.startNode(KindQualifiedIdent)
			node.AddField(FieldPath, p.parsePathPrefix())
			if p.check(TokenTypeIdent) {
				node.AddField(FieldName, p.leaf(KindTypeIdent))
			} else {
				p.expect(TokenTypeIdent)
			}
			return p.finishNode(node)
		}
	case TokenCtTypeof, TokenCtTypefrom, TokenCtEvaltype:
		node := p.startNode(KindCtTypeExpr)
		node.AddField(FieldFunction, p.leaf(KindKeyword))
		p.expect(TokenLParen)
		node.AddField(FieldArgument, p.parseExpr())
		p.expect(TokenRParen)
		return p.finishNode(node)
	case TokenCtVatype:
		node := p.startNode(KindCtTypeExpr)
		node.AddField(FieldFunction, p.leaf(KindKeyword))
		closer := TokenRBracket
		if p.check(TokenLParen) {
			closer = TokenRParen
			p.advance()
		} else {
			p.expect(TokenLBracket)
		}
		node.AddField(FieldIndex, p.parseExpr())
		p.expect(closer)
		return p.finishNode(node)
	}
	return p.errorNode("expected type", TokenTypeIdent)
}

// parseArraySuffix parses `[]`, `[*]` and `[N]`.
func (p *Parser) parseArraySuffix() *Node {
	node := p.startNode(KindTypeSuffix)
	p.expect(TokenLBracket)
	switch {
	case p.check(TokenRBracket):
	case p.check(TokenStar) && p.peekN(1).Kind == TokenRBracket:
		node.AddChild(p.operator())
	default:
		node.AddField(FieldIndex, p.parseExpr())
	}
	p.expect(TokenRBracket)
	return p.finishNode(node)
}

// parseVectorSuffix parses `[<N>]` and `[<*>]`.
func (p *Parser) parseVectorSuffix() *Node {
	node := p.startNode(KindTypeSuffix)
	p.expect(TokenLVector)
	if p.check(TokenStar) && p.peekN(1).Kind == TokenRVector {
		node.AddChild(p.operator())
	} else {
		node.AddField(FieldIndex, p.parseBinary(PrecOr))
	}
	p.expect(TokenRVector)
	return p.finishNode(node)
}

// parsePathPrefix parses a module qualifier `a::b::` in front of a name.
func (p *Parser) parsePathPrefix() *Node {
	node := p.startNode(KindModulePath)
	for p.check(TokenIdent) && p.peekN(1).Kind == TokenColonColon {
		node.AddChild(p.leaf(KindIdent))
		p.advance()
	}
	return p.finishNode(node)
}

// parseModulePath parses a declared module name `a::b::c`.
func (p *Parser) parseModulePath() *Node {
	node := p.startNode(KindModulePath)
	if tok := p.expect(TokenIdent); tok != nil {
		node.AddChild(p.leafFrom(*tok, KindIdent))
	}
	for p.check(TokenColonColon) && p.peekN(1).Kind == TokenIdent {
		p.advance()
		node.AddChild(p.leaf(KindIdent))
	}
	return p.finishNode(node)
}

// leafFrom builds a leaf for a token that was already consumed.
func (p *Parser) leafFrom(tok Token, kind NodeKind) *Node {
	p.countNode()
	return &Node{Kind: kind, Token: &tok, Span: tok.Span}
}

// parseGenericArguments parses `{T, U, 3}`. Each argument is a type when
// it is shaped like one, otherwise a constant expression.
func (p *Parser) parseGenericArguments() *Node {
	node := p.startNode(KindGenericArguments)
	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseTypeOrExpr())
		if !p.accept(TokenComma) {
			break
		}
		if !progress() {
			break
		}
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

// parseTypeOrExpr parses a type when the tokens form one that ends the
// current slot, and an expression otherwise.
func (p *Parser) parseTypeOrExpr() *Node {
	if p.isTypeStart() && !p.isRejected(trialTypeSlot) {
		s := p.snapshot()
		if typ, ok := p.tryType(); ok && endsTypeSlot(p.peek().Kind) {
			return typ
		}
		p.reject(trialTypeSlot, s)
	}
	return p.parseExpr()
}

func endsTypeSlot(kind TokenKind) bool {
	switch kind {
	case TokenComma, TokenRParen, TokenRBrace, TokenRBracket, TokenSemicolon,
		TokenColon, TokenDotDot, TokenEOF:
		return true
	}
	return false
}

// isDeclarationStart reports whether a local or global declaration
// `Type name` starts here.
func (p *Parser) isDeclarationStart() bool {
	if !p.isTypeStart() || p.isRejected(trialDeclaration) {
		return false
	}
	s := p.snapshot()
	_, ok := p.tryType()
	ok = ok && p.match(TokenIdent, TokenCtIdent)
	if !ok {
		p.reject(trialDeclaration, s)
		return false
	}
	p.restore(s)
	return true
}
