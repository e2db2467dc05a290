package parser

func (p *Parser) parseExpr() *Node {
	return p.parseBinary(PrecAssignment)
}

// parseBinary parses operands joined by infix operators binding at least
// as tightly as minPrec. The optional suffixes `?` and `?!` bind at the
// ternary tier, so `a + b?` is `(a + b)?`.
func (p *Parser) parseBinary(minPrec int) *Node {
	p.enter()
	defer p.leave()

	left := p.parseUnary()
	for {
		info, ok := binaryOps[p.peek().Kind]
		if !ok || info.Prec < minPrec {
			return left
		}
		switch info.Kind {
		case KindTernaryExpr:
			if !p.isTernaryQuestion() {
				left = p.parseOptionalSuffix(left)
				continue
			}
			node := p.wrapNode(KindTernaryExpr, FieldCondition, left)
			p.advance()
			node.AddField(FieldConsequence, p.parseExpr())
			p.expect(TokenColon)
			node.AddField(FieldAlternative, p.parseBinary(PrecTernary))
			left = p.finishNode(node)
		case KindElvisOrelseExpr:
			node := p.wrapNode(KindElvisOrelseExpr, FieldCondition, left)
			node.AddChild(p.operator())
			node.AddField(FieldAlternative, p.parseBinary(nextMinPrec(info)))
			left = p.finishNode(node)
		default:
			if info.Kind == KindAssignmentExpr && isTypeOperand(left) {
				p.syntaxError(p.peek(), "cannot assign to a type")
			}
			node := p.wrapNode(info.Kind, FieldLeft, left)
			node.AddChild(p.operator())
			node.AddField(FieldRight, p.parseBinary(nextMinPrec(info)))
			left = p.finishNode(node)
		}
	}
}

// isTypeOperand reports whether n is a bare type in operand position.
// A `$Type` variable is a value that holds a type, so it may be assigned.
func isTypeOperand(n *Node) bool {
	if n.Kind != KindType {
		return false
	}
	return len(n.Children) == 0 || n.Children[0].Kind != KindCtTypeIdent
}

// parseOptionalSuffix wraps expr in an optional_expr for a `?` that opens
// no ternary. A `!` right after it makes the `?!` operator.
func (p *Parser) parseOptionalSuffix(expr *Node) *Node {
	node := p.wrapNode(KindOptionalExpr, FieldArgument, expr)
	node.AddChild(p.operator())
	if p.check(TokenBang) {
		node.AddChild(p.operator())
	}
	return p.finishNode(node)
}

// isTernaryQuestion decides whether the `?` at the current position opens a
// ternary. It does when an operand follows and a `:` closes it at the same
// nesting depth before the statement ends. Otherwise the `?` is the
// optional suffix of the preceding expression.
func (p *Parser) isTernaryQuestion() bool {
	if !p.check(TokenQuestion) || !canStartOperand(p.peekN(1).Kind) {
		return false
	}
	pending := 1
	depth := 0
	for i := 1; ; i++ {
		switch p.peekN(i).Kind {
		case TokenEOF, TokenSemicolon:
			return false
		case TokenLParen, TokenLBracket, TokenLBrace, TokenLVector:
			depth++
		case TokenRParen, TokenRBracket, TokenRBrace, TokenRVector:
			if depth == 0 {
				return false
			}
			depth--
		case TokenQuestion:
			if depth == 0 && canStartOperand(p.peekN(i+1).Kind) {
				pending++
			}
		case TokenColon:
			if depth == 0 {
				pending--
				if pending == 0 {
					return true
				}
			}
		}
	}
}

func canStartOperand(kind TokenKind) bool {
	switch kind {
	case TokenIdent, TokenConstIdent, TokenTypeIdent, TokenCtIdent,
		TokenCtConstIdent, TokenCtTypeIdent, TokenAtIdent, TokenHashIdent,
		TokenBuiltin, TokenBaseType, TokenIntLiteral, TokenRealLiteral,
		TokenCharLiteral, TokenStringLiteral, TokenRawStringLiteral,
		TokenBytesLiteral, TokenTrue, TokenFalse, TokenNull, TokenLParen,
		TokenLBrace, TokenFn, TokenBangBang:
		return true
	}
	return unaryOps[kind] || isCtExprKeyword(kind)
}

func isCtExprKeyword(kind TokenKind) bool {
	switch kind {
	case TokenCtAlignof, TokenCtAssignable, TokenCtDefined, TokenCtEmbed,
		TokenCtEval, TokenCtExtnameof, TokenCtFeature, TokenCtIsConst,
		TokenCtNameof, TokenCtOffsetof, TokenCtQnameof, TokenCtSizeof,
		TokenCtStringify, TokenCtTypeof, TokenCtTypefrom, TokenCtEvaltype,
		TokenCtVaarg, TokenCtVaconst, TokenCtVacount, TokenCtVaexpr,
		TokenCtVasplat, TokenCtVatype:
		return true
	}
	return false
}

func (p *Parser) parseUnary() *Node {
	p.enter()
	defer p.leave()

	if p.check(TokenBangBang) {
		p.splitToken(TokenBang, TokenBang)
	}
	if unaryOps[p.peek().Kind] {
		node := p.startNode(KindUnaryExpr)
		node.AddChild(p.operator())
		node.AddField(FieldArgument, p.parseUnary())
		return p.finishNode(node)
	}
	if p.check(TokenLParen) {
		if cast := p.tryCast(); cast != nil {
			return cast
		}
	}
	return p.parsePostfix(p.parsePrimary())
}

// tryCast handles `(Type)` in operand position. It yields a
// typed_initializer_list before `{`, a cast_expr before anything that can
// start an operand, and nil otherwise so the parentheses are parsed again
// as an ordinary expression.
func (p *Parser) tryCast() *Node {
	if !p.isTypeStartAt(1) || p.isRejected(trialCast) {
		return nil
	}
	s := p.snapshot()
	node := p.startNode(KindCastExpr)
	p.advance()
	typ, ok := p.tryType()
	if !ok || !p.check(TokenRParen) {
		p.reject(trialCast, s)
		return nil
	}
	p.advance()

	next := p.peek().Kind
	switch {
	case next == TokenLBrace:
		node.Kind = KindTypedInitializer
		node.AddField(FieldType, typ)
		node.AddField(FieldValue, p.parseInitializerList())
		return p.finishNode(node)
	case canStartOperand(next):
		node.AddField(FieldType, typ)
		node.AddField(FieldValue, p.parseUnary())
		return p.finishNode(node)
	}
	p.reject(trialCast, s)
	return nil
}

// parsePostfix applies calls, subscripts, field access, postfix updates,
// rethrow suffixes and trailing generic arguments to expr.
func (p *Parser) parsePostfix(expr *Node) *Node {
	for {
		progress := p.mustProgress()
		switch p.peek().Kind {
		case TokenLParen:
			expr = p.parseCall(expr)
		case TokenLBracket:
			expr = p.parseSubscript(expr)
		case TokenDot:
			node := p.wrapNode(KindFieldExpr, FieldArgument, expr)
			p.advance()
			node.AddField(FieldField, p.parseAccessIdent())
			expr = p.finishNode(node)
		case TokenIncrement, TokenDecrement:
			node := p.wrapNode(KindUpdateExpr, FieldArgument, expr)
			node.AddChild(p.operator())
			expr = p.finishNode(node)
		case TokenBang, TokenBangBang:
			node := p.wrapNode(KindRethrowExpr, FieldArgument, expr)
			node.AddChild(p.operator())
			expr = p.finishNode(node)
		case TokenLBrace:
			if !takesGenericArguments(expr) {
				return expr
			}
			args := p.tryGenericArguments()
			if args == nil {
				return expr
			}
			node := p.wrapNode(KindTrailingGenericExpr, FieldArgument, expr)
			node.AddField(FieldOperator, args)
			expr = p.finishNode(node)
		default:
			return expr
		}
		if !progress() {
			return expr
		}
	}
}

// takesGenericArguments reports whether a `{` after expr may open generic
// arguments rather than a block or initializer.
func takesGenericArguments(expr *Node) bool {
	switch expr.Kind {
	case KindIdent, KindConstIdent, KindAtIdent, KindQualifiedIdent,
		KindFieldExpr, KindSubscriptExpr:
		return true
	}
	return false
}

func (p *Parser) tryGenericArguments() *Node {
	if p.isRejected(trialGenericArguments) {
		return nil
	}
	s := p.snapshot()
	args := p.parseGenericArguments()
	if p.failedSince(s) {
		p.reject(trialGenericArguments, s)
		return nil
	}
	return args
}

func (p *Parser) parseCall(fn *Node) *Node {
	node := p.wrapNode(KindCallExpr, FieldFunction, fn)
	node.AddField(FieldArguments, p.parseArgList())
	if p.check(TokenAtIdent) && p.peekN(1).Kind != TokenLParen {
		attrs := p.startNode(KindAttributes)
		for p.check(TokenAtIdent) && p.peekN(1).Kind != TokenLParen {
			attr := p.startNode(KindAttribute)
			attr.AddField(FieldName, p.leaf(KindAtIdent))
			attrs.AddChild(p.finishNode(attr))
		}
		node.AddField(FieldAttributes, p.finishNode(attrs))
	}
	if p.check(TokenLBrace) {
		node.AddField(FieldTrailing, p.parseCompoundStmt())
	}
	return p.finishNode(node)
}

// parseArgList parses `(a, b: 1, ...c; int x)`. Parameters after `;` are
// those of a macro's trailing body. A `;` that the list's `)` does not
// follow ends the statement instead.
func (p *Parser) parseArgList() *Node {
	node := p.startNode(KindCallInvocation)
	p.expect(TokenLParen)
	for !p.match(TokenRParen, TokenSemicolon, TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseArg())
		if !p.accept(TokenComma) {
			break
		}
		if !progress() {
			break
		}
	}
	if p.check(TokenSemicolon) && p.closesGroupAt(1) {
		p.advance()
		for !p.match(TokenRParen, TokenEOF) {
			progress := p.mustProgress()
			node.AddField(FieldTrailing, p.parseParameter())
			if !p.accept(TokenComma) {
				break
			}
			if !progress() {
				break
			}
		}
	}
	p.expect(TokenRParen)
	return p.finishNode(node)
}

// closesGroupAt reports whether a `)` at the current nesting level comes
// n tokens ahead or later, before any `;` or brace.
func (p *Parser) closesGroupAt(n int) bool {
	depth := 0
	for i := n; ; i++ {
		switch p.peekN(i).Kind {
		case TokenEOF, TokenSemicolon, TokenLBrace, TokenRBrace:
			return false
		case TokenLParen, TokenLBracket, TokenLVector:
			depth++
		case TokenRBracket, TokenRVector:
			if depth > 0 {
				depth--
			}
		case TokenRParen:
			if depth == 0 {
				return true
			}
			depth--
		}
	}
}

func (p *Parser) parseArg() *Node {
	switch {
	case p.match(TokenIdent, TokenConstIdent, TokenCtIdent) && p.peekN(1).Kind == TokenColon:
		node := p.startNode(KindArg)
		node.AddField(FieldName, p.tokenLeaf())
		p.advance()
		node.AddField(FieldValue, p.parseTypeOrExpr())
		return p.finishNode(node)
	case p.check(TokenEllipsis):
		return p.parseSplat()
	}
	return p.parseTypeOrExpr()
}

func (p *Parser) parseSplat() *Node {
	node := p.startNode(KindSplatExpr)
	node.AddChild(p.operator())
	node.AddField(FieldArgument, p.parseExpr())
	return p.finishNode(node)
}

func (p *Parser) parseSubscript(expr *Node) *Node {
	node := p.wrapNode(KindSubscriptExpr, FieldArgument, expr)
	p.expect(TokenLBracket)
	if !p.check(TokenRBracket) {
		sub := p.parseIndexOrRange()
		if sub.Kind == KindRangeExpr {
			node.AddField(FieldRange, sub)
		} else {
			node.AddField(FieldIndex, sub)
		}
	}
	p.expect(TokenRBracket)
	return p.finishNode(node)
}

// parseIndexOrRange parses what goes between brackets: `i`, `^i`, `a..b`,
// `a:len`, `..b`, `a..` and `..`.
func (p *Parser) parseIndexOrRange() *Node {
	if p.match(TokenDotDot, TokenColon) {
		node := p.startNode(KindRangeExpr)
		p.parseRangeTail(node)
		return p.finishNode(node)
	}
	left := p.parseRangeBound()
	if !p.match(TokenDotDot, TokenColon) {
		return left
	}
	node := p.wrapNode(KindRangeExpr, FieldLeft, left)
	p.parseRangeTail(node)
	return p.finishNode(node)
}

func (p *Parser) parseRangeTail(node *Node) {
	node.AddChild(p.operator())
	if !p.match(TokenRBracket, TokenRParen, TokenAssign, TokenEOF) {
		node.AddField(FieldRight, p.parseRangeBound())
	}
}

// parseRangeBound parses an index that may count from the end with `^`.
func (p *Parser) parseRangeBound() *Node {
	if p.check(TokenCaret) {
		node := p.startNode(KindUnaryExpr)
		node.AddChild(p.operator())
		node.AddField(FieldArgument, p.parseBinary(PrecTernary))
		return p.finishNode(node)
	}
	return p.parseBinary(PrecTernary)
}

func isAccessIdentKind(kind TokenKind) bool {
	switch kind {
	case TokenIdent, TokenConstIdent, TokenTypeIdent, TokenAtIdent,
		TokenCtIdent, TokenHashIdent, TokenBaseType, TokenCtEval:
		return true
	}
	return false
}

// parseAccessIdent parses the name after `.`: a member, an enum
// constant, a method, a property such as `typeid` or `$eval(...)`.
func (p *Parser) parseAccessIdent() *Node {
	switch p.peek().Kind {
	case TokenCtEval:
		return p.parseCtCall()
	case TokenIdent, TokenConstIdent, TokenTypeIdent, TokenAtIdent,
		TokenCtIdent, TokenHashIdent, TokenBaseType:
		return p.tokenLeaf()
	}
	p.expect(TokenIdent)
	return nil
}

func (p *Parser) parsePrimary() *Node {
	switch p.peek().Kind {
	case TokenIdent:
		if p.peekN(1).Kind == TokenColonColon {
			if p.isTypeStart() {
				return p.parseTypeExpr()
			}
			return p.parseQualifiedIdent()
		}
		return p.leaf(KindIdent)
	case TokenConstIdent, TokenCtIdent, TokenCtConstIdent, TokenAtIdent,
		TokenAtTypeIdent, TokenHashIdent, TokenBuiltin, TokenIntLiteral,
		TokenRealLiteral, TokenCharLiteral, TokenTrue, TokenFalse, TokenNull:
		return p.tokenLeaf()
	case TokenStringLiteral, TokenRawStringLiteral:
		return p.parseStringExpr()
	case TokenBytesLiteral:
		return p.parseBytesExpr()
	case TokenBaseType, TokenTypeIdent, TokenCtTypeIdent, TokenCtTypeof,
		TokenCtTypefrom, TokenCtEvaltype, TokenCtVatype:
		return p.parseTypeExpr()
	case TokenLParen:
		return p.parseParenExpr()
	case TokenLBrace:
		return p.parseInitializerList()
	case TokenFn:
		return p.parseLambda()
	case TokenCtVacount:
		node := p.startNode(KindCtCallExpr)
		node.AddField(FieldFunction, p.leaf(KindKeyword))
		return p.finishNode(node)
	case TokenCtVaarg, TokenCtVaconst, TokenCtVaexpr:
		return p.parseCtArg()
	case TokenCtVasplat:
		node := p.startNode(KindCtArgExpr)
		node.AddField(FieldFunction, p.leaf(KindKeyword))
		if p.accept(TokenLBracket) {
			if !p.check(TokenRBracket) {
				node.AddField(FieldRange, p.parseIndexOrRange())
			}
			p.expect(TokenRBracket)
		}
		return p.finishNode(node)
	case TokenCtAlignof, TokenCtAssignable, TokenCtDefined, TokenCtEmbed,
		TokenCtEval, TokenCtExtnameof, TokenCtFeature, TokenCtIsConst,
		TokenCtNameof, TokenCtOffsetof, TokenCtQnameof, TokenCtSizeof,
		TokenCtStringify:
		return p.parseCtCall()
	}
	return p.missingExpr()
}

// missingExpr records a missing operand. The offending token is consumed
// unless it closes or separates the enclosing construct.
func (p *Parser) missingExpr() *Node {
	tok := p.peek()
	msg := "expected expression, got " + describeToken(tok)
	p.syntaxError(tok, msg)
	p.countNode()
	node := &Node{
		Kind:  KindError,
		Span:  Span{Start: tok.Span.Start, End: tok.Span.Start},
		Error: &Error{Message: msg, Got: &tok},
	}
	switch tok.Kind {
	case TokenRParen, TokenRBracket, TokenRBrace, TokenRVector, TokenSemicolon,
		TokenComma, TokenColon, TokenEOF:
		return node
	}
	p.advance()
	node.Span.End = tok.Span.End
	return node
}

// parseTypeExpr parses a type in operand position, such as `int.max`,
// `List{int}.new()` or `$typeof(x).sizeof`. Array and pointer suffixes are
// left to the postfix rules.
func (p *Parser) parseTypeExpr() *Node {
	typ := p.startNode(KindType)
	base := p.parseBaseType()
	typ.AddChild(base)
	if p.check(TokenLBrace) && (base.Kind == KindTypeIdent || base.Kind == KindQualifiedIdent) {
		typ.AddField(FieldArguments, p.tryGenericArguments())
	}
	p.finishNode(typ)
	if !p.check(TokenDot) {
		return typ
	}
	node := p.wrapNode(KindTypeAccessExpr, FieldArgument, typ)
	p.advance()
	node.AddField(FieldField, p.parseAccessIdent())
	return p.finishNode(node)
}

func (p *Parser) parseQualifiedIdent() *Node {
	node := p.startNode(KindQualifiedIdent)
	node.AddField(FieldPath, p.parsePathPrefix())
	switch p.peek().Kind {
	case TokenIdent, TokenConstIdent, TokenAtIdent:
		node.AddField(FieldName, p.tokenLeaf())
	default:
		p.expect(TokenIdent)
	}
	return p.finishNode(node)
}

func (p *Parser) parseParenExpr() *Node {
	return p.memoParen(func() *Node {
		node := p.startNode(KindParenExpr)
		p.expect(TokenLParen)
		node.AddChild(p.parseExpr())
		p.expect(TokenRParen)
		return p.finishNode(node)
	})
}

// parseStringExpr joins adjacent string literals into a string_expr.
func (p *Parser) parseStringExpr() *Node {
	if !p.isStringToken(1) {
		return p.tokenLeaf()
	}
	node := p.startNode(KindStringExpr)
	for p.isStringToken(0) {
		node.AddChild(p.tokenLeaf())
	}
	return p.finishNode(node)
}

func (p *Parser) isStringToken(n int) bool {
	kind := p.peekN(n).Kind
	return kind == TokenStringLiteral || kind == TokenRawStringLiteral
}

func (p *Parser) parseBytesExpr() *Node {
	if p.peekN(1).Kind != TokenBytesLiteral {
		return p.tokenLeaf()
	}
	node := p.startNode(KindBytesExpr)
	for p.check(TokenBytesLiteral) {
		node.AddChild(p.tokenLeaf())
	}
	return p.finishNode(node)
}

func (p *Parser) parseInitializerList() *Node {
	node := p.startNode(KindInitializerList)
	p.expect(TokenLBrace)
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseInitializerElement())
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

func (p *Parser) parseInitializerElement() *Node {
	switch {
	case p.check(TokenDot) && isAccessIdentKind(p.peekN(1).Kind), p.check(TokenLBracket):
		node := p.startNode(KindDesignatedInitializer)
		for p.check(TokenDot) || p.check(TokenLBracket) {
			progress := p.mustProgress()
			node.AddChild(p.parseDesignator())
			if !progress() {
				break
			}
		}
		p.expect(TokenAssign)
		node.AddField(FieldValue, p.parseExpr())
		return p.finishNode(node)
	case p.check(TokenEllipsis):
		return p.parseSplat()
	}
	return p.parseExpr()
}

// parseDesignator parses `.field`, `[index]` or `[a..b]`.
func (p *Parser) parseDesignator() *Node {
	node := p.startNode(KindDesignator)
	if p.accept(TokenDot) {
		node.AddField(FieldField, p.parseAccessIdent())
		return p.finishNode(node)
	}
	p.expect(TokenLBracket)
	sub := p.parseIndexOrRange()
	if sub.Kind == KindRangeExpr {
		node.AddField(FieldRange, sub)
	} else {
		node.AddField(FieldIndex, sub)
	}
	p.expect(TokenRBracket)
	return p.finishNode(node)
}

// parseLambda parses `fn [Type] (params) => expr` and
// `fn [Type] (params) { ... }` into a lambda_expr holding the
// lambda_declaration and the body.
func (p *Parser) parseLambda() *Node {
	node := p.startNode(KindLambdaExpr)
	decl := p.startNode(KindLambdaDeclaration)
	p.expect(TokenFn)
	if !p.check(TokenLParen) {
		decl.AddField(FieldReturnType, p.parseType())
	}
	decl.AddChild(p.parseFnParameterList())
	decl.AddField(FieldAttributes, p.parseAttributes())
	node.AddChild(p.finishNode(decl))
	switch {
	case p.check(TokenImplies):
		node.AddField(FieldLambdaBody, p.parseImpliesBody())
	default:
		node.AddField(FieldLambdaBody, p.parseCompoundStmt())
	}
	return p.finishNode(node)
}

func (p *Parser) parseImpliesBody() *Node {
	node := p.startNode(KindImpliesBody)
	p.expect(TokenImplies)
	node.AddField(FieldBody, p.parseExpr())
	return p.finishNode(node)
}

// parseCtCall parses `$sizeof(x)`, `$defined(a, b)`, `$feature(FOO)` and
// the other compile-time builtins taking a parenthesised argument list.
func (p *Parser) parseCtCall() *Node {
	node := p.startNode(KindCtCallExpr)
	node.AddField(FieldFunction, p.leaf(KindKeyword))
	node.AddField(FieldArguments, p.parseArgList())
	return p.finishNode(node)
}

// parseCtArg parses `$vaarg[i]` and friends. The older `$vaarg(i)` form is
// accepted too.
func (p *Parser) parseCtArg() *Node {
	node := p.startNode(KindCtArgExpr)
	node.AddField(FieldFunction, p.leaf(KindKeyword))
	closer := TokenRBracket
	if p.accept(TokenLParen) {
		closer = TokenRParen
	} else {
		p.expect(TokenLBracket)
	}
	node.AddField(FieldIndex, p.parseExpr())
	p.expect(closer)
	return p.finishNode(node)
}
