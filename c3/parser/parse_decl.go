package parser

// parseTopLevel parses one item of a compilation unit.
func (p *Parser) parseTopLevel() *Node {
	p.enter()
	defer p.leave()

	switch p.peek().Kind {
	case TokenModule:
		return p.statement(p.parseModuleDeclaration)
	case TokenImport:
		return p.statement(p.parseImportDeclaration)
	case TokenExtern:
		return p.parseExtern()
	case TokenFn:
		return p.parseFunction()
	case TokenMacro:
		return p.parseMacro()
	case TokenStruct, TokenUnion:
		return p.parseStructDeclaration()
	case TokenBitstruct:
		return p.parseBitstructDeclaration()
	case TokenEnum:
		return p.parseEnumDeclaration()
	case TokenFaultdef:
		return p.statement(p.parseFaultdefDeclaration)
	case TokenInterface:
		return p.parseInterfaceDeclaration()
	case TokenTypedef:
		return p.statement(p.parseTypedefDeclaration)
	case TokenAlias:
		return p.statement(p.parseAliasDeclaration)
	case TokenAttrdef:
		return p.statement(p.parseAttrdefDeclaration)
	case TokenConst:
		return p.statement(p.parseConstDeclaration)
	case TokenTlocal:
		return p.statement(p.parseGlobalDeclaration)
	}
	if isCtStatementKeyword(p.peek().Kind) {
		return p.parseCtStatement(true)
	}
	if p.isDeclarationStart() {
		return p.statement(p.parseGlobalDeclaration)
	}
	return p.errorNode("expected declaration")
}

// parseExtern parses the declaration after `extern` and puts the modifier
// in front of its children.
func (p *Parser) parseExtern() *Node {
	mod := p.leaf(KindModifier)
	decl := p.parseTopLevel()
	decl.Children = append([]*Node{mod}, decl.Children...)
	decl.Span.Start = mod.Span.Start
	return decl
}

// parseModuleDeclaration parses `module a::b {Type, SIZE} @attr`.
func (p *Parser) parseModuleDeclaration() *Node {
	node := p.startNode(KindModuleDeclaration)
	p.expect(TokenModule)
	node.AddField(FieldPath, p.parseModulePath())
	if p.check(TokenLBrace) {
		params := p.startNode(KindGenericModuleParameters)
		p.advance()
		for p.match(TokenConstIdent, TokenTypeIdent) {
			params.AddChild(p.tokenLeaf())
			if !p.accept(TokenComma) {
				break
			}
		}
		p.expect(TokenRBrace)
		node.AddChild(p.finishNode(params))
	}
	node.AddField(FieldAttributes, p.parseAttributes())
	return p.finishNode(node)
}

func (p *Parser) parseImportDeclaration() *Node {
	node := p.startNode(KindImportDeclaration)
	p.expect(TokenImport)
	for {
		node.AddField(FieldPath, p.parseModulePath())
		if !p.accept(TokenComma) {
			break
		}
	}
	node.AddField(FieldAttributes, p.parseAttributes())
	return p.finishNode(node)
}

// parseFunction parses a function with a body and turns into a
// func_declaration when the header ends in `;`.
func (p *Parser) parseFunction() *Node {
	node := p.startNode(KindFuncDefinition)
	p.expect(TokenFn)
	node.AddField(FieldReturnType, p.parseType())
	p.parseCallableName(node)
	node.AddChild(p.parseFnParameterList())
	node.AddField(FieldAttributes, p.parseAttributes())
	if p.accept(TokenSemicolon) {
		node.Kind = KindFuncDeclaration
		return p.finishNode(node)
	}
	p.parseCallableBody(node)
	return p.finishNode(node)
}

// parseCallableName parses `[MethodType.]name`.
func (p *Parser) parseCallableName(node *Node) {
	if p.isTypeStart() {
		node.AddField(FieldMethodType, p.parseType())
		p.expect(TokenDot)
	}
	switch p.peek().Kind {
	case TokenIdent, TokenAtIdent:
		node.AddField(FieldName, p.tokenLeaf())
	default:
		p.expect(TokenIdent)
	}
}

// parseCallableBody parses `=> expr;` or a compound statement.
func (p *Parser) parseCallableBody(node *Node) {
	if p.check(TokenImplies) {
		node.AddField(FieldBody, p.parseImpliesBody())
		p.expect(TokenSemicolon)
		return
	}
	node.AddField(FieldBody, p.parseCompoundStmt())
}

func (p *Parser) parseFnParameterList() *Node {
	node := p.startNode(KindFnParameterList)
	p.expect(TokenLParen)
	p.parseParameters(node)
	p.expect(TokenRParen)
	return p.finishNode(node)
}

// parseParameters parses a parameter list, allowing a trailing comma.
func (p *Parser) parseParameters(node *Node) {
	for !p.match(TokenRParen, TokenSemicolon, TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseParameter())
		if !p.accept(TokenComma) {
			break
		}
		if !progress() {
			break
		}
	}
}

// parseParameter parses typed parameters such as `int x = 1`, `int... xs`
// and `Foo #expr`, and untyped ones such as `x`, `&self`, `$T` and `...`.
func (p *Parser) parseParameter() *Node {
	node := p.startNode(KindParameter)
	tok := p.peek()
	next := p.peekN(1).Kind
	switch {
	case tok.Kind == TokenEllipsis:
		node.AddChild(p.leaf(KindEllipsis))
	case tok.Kind == TokenAmp:
		node.AddChild(p.operator())
		if t := p.expect(TokenIdent); t != nil {
			node.AddField(FieldName, p.leafFrom(*t, KindIdent))
		}
	case tok.Kind == TokenIdent && next != TokenColonColon,
		tok.Kind == TokenCtIdent, tok.Kind == TokenHashIdent,
		tok.Kind == TokenCtTypeIdent && next != TokenIdent && next != TokenCtIdent && next != TokenEllipsis:
		node.AddField(FieldName, p.tokenLeaf())
		if tok.Kind == TokenIdent && p.check(TokenEllipsis) {
			node.AddChild(p.leaf(KindEllipsis))
		}
	default:
		node.AddField(FieldType, p.parseType())
		if p.check(TokenEllipsis) {
			node.AddChild(p.leaf(KindEllipsis))
		}
		if p.match(TokenIdent, TokenCtIdent, TokenHashIdent) {
			node.AddField(FieldName, p.tokenLeaf())
		}
	}
	node.AddField(FieldAttributes, p.parseAttributes())
	if p.accept(TokenAssign) {
		node.AddField(FieldValue, p.parseTypeOrExpr())
	}
	return p.finishNode(node)
}

// parseMacro parses a macro. Its return type is optional, so the first
// type is the method type when a `.` follows it.
func (p *Parser) parseMacro() *Node {
	node := p.startNode(KindMacroDeclaration)
	p.expect(TokenMacro)
	named := p.match(TokenIdent, TokenAtIdent) && p.peekN(1).Kind == TokenLParen
	if !named {
		first := p.parseType()
		if p.accept(TokenDot) {
			node.AddField(FieldMethodType, first)
		} else {
			node.AddField(FieldReturnType, first)
			if p.isTypeStart() {
				node.AddField(FieldMethodType, p.parseType())
				p.expect(TokenDot)
			}
		}
	}
	switch p.peek().Kind {
	case TokenIdent, TokenAtIdent:
		node.AddField(FieldName, p.tokenLeaf())
	default:
		p.expect(TokenIdent)
	}
	node.AddChild(p.parseMacroParameterList())
	node.AddField(FieldAttributes, p.parseAttributes())
	p.parseCallableBody(node)
	return p.finishNode(node)
}

// parseMacroParameterList parses `(a, b; @body(x))`.
func (p *Parser) parseMacroParameterList() *Node {
	node := p.startNode(KindMacroParameterList)
	p.expect(TokenLParen)
	p.parseParameters(node)
	if p.accept(TokenSemicolon) {
		block := p.startNode(KindTrailingBlockParam)
		if tok := p.expect(TokenAtIdent); tok != nil {
			block.AddField(FieldName, p.leafFrom(*tok, KindAtIdent))
		}
		if p.check(TokenLParen) {
			block.AddChild(p.parseFnParameterList())
		}
		node.AddField(FieldTrailing, p.finishNode(block))
	}
	p.expect(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseStructDeclaration() *Node {
	kind := KindStructDeclaration
	if p.check(TokenUnion) {
		kind = KindUnionDeclaration
	}
	node := p.startNode(kind)
	p.advance()
	p.parseTypeName(node)
	if p.check(TokenLParen) {
		node.AddChild(p.parseInterfaceImpl())
	}
	node.AddField(FieldAttributes, p.parseAttributes())
	node.AddField(FieldBody, p.parseStructBody())
	return p.finishNode(node)
}

func (p *Parser) parseTypeName(node *Node) {
	if tok := p.expect(TokenTypeIdent); tok != nil {
		node.AddField(FieldName, p.leafFrom(*tok, KindTypeIdent))
	}
}

// parseInterfaceImpl parses the `(Iface, Other{int})` list of implemented
// interfaces.
func (p *Parser) parseInterfaceImpl() *Node {
	node := p.startNode(KindInterfaceImpl)
	p.expect(TokenLParen)
	for !p.match(TokenRParen, TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseType())
		if !p.accept(TokenComma) {
			break
		}
		if !progress() {
			break
		}
	}
	p.expect(TokenRParen)
	return p.finishNode(node)
}

func (p *Parser) parseStructBody() *Node {
	node := p.startNode(KindStructBody)
	if p.expect(TokenLBrace) == nil {
		return p.finishNode(node)
	}
	for !p.atMemberEnd() {
		progress := p.mustProgress()
		node.AddChild(p.parseStructMember())
		progress()
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

// atMemberEnd is atBlockEnd for struct bodies, where nested struct,
// union and bitstruct members are allowed.
func (p *Parser) atMemberEnd() bool {
	switch p.peek().Kind {
	case TokenStruct, TokenUnion, TokenBitstruct:
		return false
	}
	return p.atBlockEnd()
}

func (p *Parser) parseStructMember() *Node {
	p.enter()
	defer p.leave()

	switch p.peek().Kind {
	case TokenStruct, TokenUnion:
		node := p.startNode(KindStructMemberDeclaration)
		node.AddChild(p.leaf(KindKeyword))
		if p.check(TokenIdent) {
			node.AddField(FieldName, p.leaf(KindIdent))
		}
		node.AddField(FieldAttributes, p.parseAttributes())
		node.AddField(FieldBody, p.parseStructBody())
		return p.finishNode(node)
	case TokenBitstruct:
		node := p.startNode(KindStructMemberDeclaration)
		node.AddChild(p.leaf(KindKeyword))
		if p.check(TokenIdent) {
			node.AddField(FieldName, p.leaf(KindIdent))
		}
		p.parseBitstructTail(node)
		return p.finishNode(node)
	case TokenInline:
		return p.statement(func() *Node {
			node := p.startNode(KindStructMemberDeclaration)
			node.AddChild(p.leaf(KindModifier))
			node.AddField(FieldType, p.parseType())
			if p.check(TokenIdent) {
				node.AddField(FieldName, p.leaf(KindIdent))
			}
			node.AddField(FieldAttributes, p.parseAttributes())
			return p.finishNode(node)
		})
	}
	if !p.isTypeStart() {
		return p.errorNode("expected member declaration")
	}
	return p.statement(func() *Node {
		node := p.startNode(KindStructMemberDeclaration)
		node.AddField(FieldType, p.parseType())
		for {
			if tok := p.expect(TokenIdent); tok != nil {
				node.AddField(FieldName, p.leafFrom(*tok, KindIdent))
			}
			if !p.accept(TokenComma) {
				break
			}
		}
		node.AddField(FieldAttributes, p.parseAttributes())
		return p.finishNode(node)
	})
}

func (p *Parser) parseBitstructDeclaration() *Node {
	node := p.startNode(KindBitstructDeclaration)
	p.expect(TokenBitstruct)
	p.parseTypeName(node)
	if p.check(TokenLParen) {
		node.AddChild(p.parseInterfaceImpl())
	}
	p.parseBitstructTail(node)
	return p.finishNode(node)
}

// parseBitstructTail parses `: Type @attrs { members }`.
func (p *Parser) parseBitstructTail(node *Node) {
	p.expect(TokenColon)
	node.AddField(FieldType, p.parseBackingType())
	node.AddField(FieldAttributes, p.parseAttributes())
	node.AddField(FieldBody, p.parseBitstructBody())
}

// parseBackingType parses a type that is directly followed by a body, so a
// `{` never opens generic arguments.
func (p *Parser) parseBackingType() *Node {
	saved := p.noGenericBrace
	p.noGenericBrace = true
	defer func() { p.noGenericBrace = saved }()
	return p.parseType()
}

func (p *Parser) parseBitstructBody() *Node {
	node := p.startNode(KindBitstructBody)
	if p.expect(TokenLBrace) == nil {
		return p.finishNode(node)
	}
	for !p.atBlockEnd() {
		progress := p.mustProgress()
		if p.isTypeStart() {
			node.AddChild(p.statement(p.parseBitstructMember))
		} else {
			node.AddChild(p.errorNode("expected bitstruct member"))
		}
		progress()
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

// parseBitstructMember parses `bool flag : 3;` and `int value : 4..7;`.
func (p *Parser) parseBitstructMember() *Node {
	node := p.startNode(KindBitstructMemberDeclaration)
	node.AddField(FieldType, p.parseType())
	if tok := p.expect(TokenIdent); tok != nil {
		node.AddField(FieldName, p.leafFrom(*tok, KindIdent))
	}
	if p.accept(TokenColon) {
		bits := p.parseBinary(PrecTernary)
		if p.check(TokenDotDot) {
			r := p.wrapNode(KindRangeExpr, FieldLeft, bits)
			r.AddChild(p.operator())
			r.AddField(FieldRight, p.parseBinary(PrecTernary))
			bits = p.finishNode(r)
		}
		node.AddField(FieldValue, bits)
	}
	return p.finishNode(node)
}

func (p *Parser) parseEnumDeclaration() *Node {
	node := p.startNode(KindEnumDeclaration)
	p.expect(TokenEnum)
	p.parseTypeName(node)
	if p.check(TokenLParen) {
		node.AddChild(p.parseInterfaceImpl())
	}
	if p.check(TokenColon) {
		node.AddChild(p.parseEnumSpec())
	}
	node.AddField(FieldAttributes, p.parseAttributes())
	node.AddField(FieldBody, p.parseEnumBody())
	return p.finishNode(node)
}

// parseEnumSpec parses `: [inline] Type [(params)]` or `: (params)`.
func (p *Parser) parseEnumSpec() *Node {
	node := p.startNode(KindEnumSpec)
	p.expect(TokenColon)
	if !p.check(TokenLParen) {
		if p.check(TokenInline) {
			node.AddChild(p.leaf(KindModifier))
		}
		node.AddField(FieldType, p.parseBackingType())
	}
	if p.check(TokenLParen) {
		params := p.startNode(KindEnumParamList)
		p.advance()
		for !p.match(TokenRParen, TokenEOF) {
			progress := p.mustProgress()
			param := p.startNode(KindParameter)
			if p.check(TokenInline) {
				param.AddChild(p.leaf(KindModifier))
			}
			param.AddField(FieldType, p.parseType())
			if tok := p.expect(TokenIdent); tok != nil {
				param.AddField(FieldName, p.leafFrom(*tok, KindIdent))
			}
			params.AddChild(p.finishNode(param))
			if !p.accept(TokenComma) {
				break
			}
			if !progress() {
				break
			}
		}
		p.expect(TokenRParen)
		node.AddChild(p.finishNode(params))
	}
	return p.finishNode(node)
}

func (p *Parser) parseEnumBody() *Node {
	node := p.startNode(KindEnumBody)
	if p.expect(TokenLBrace) == nil {
		return p.finishNode(node)
	}
	for !p.atBlockEnd() {
		progress := p.mustProgress()
		if !p.check(TokenConstIdent) {
			node.AddChild(p.errorNode("expected enum constant", TokenConstIdent))
			progress()
			continue
		}
		c := p.startNode(KindEnumConstant)
		c.AddField(FieldName, p.leaf(KindConstIdent))
		c.AddField(FieldAttributes, p.parseAttributes())
		if p.accept(TokenAssign) {
			c.AddField(FieldArgs, p.parseExpr())
		}
		node.AddChild(p.finishNode(c))
		if !p.accept(TokenComma) {
			break
		}
		progress()
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

// parseFaultdefDeclaration parses `faultdef NOT_FOUND, BAD_INPUT`.
func (p *Parser) parseFaultdefDeclaration() *Node {
	node := p.startNode(KindFaultdefDeclaration)
	p.expect(TokenFaultdef)
	for {
		if tok := p.expect(TokenConstIdent); tok != nil {
			node.AddField(FieldName, p.leafFrom(*tok, KindConstIdent))
		}
		if !p.accept(TokenComma) {
			break
		}
	}
	node.AddField(FieldAttributes, p.parseAttributes())
	return p.finishNode(node)
}

func (p *Parser) parseInterfaceDeclaration() *Node {
	node := p.startNode(KindInterfaceDeclaration)
	p.expect(TokenInterface)
	p.parseTypeName(node)
	if p.check(TokenLParen) {
		node.AddChild(p.parseInterfaceImpl())
	}
	body := p.startNode(KindInterfaceBody)
	if p.expect(TokenLBrace) != nil {
		for !p.check(TokenRBrace) && !p.check(TokenEOF) {
			progress := p.mustProgress()
			if p.check(TokenFn) {
				body.AddChild(p.parseFunction())
			} else {
				body.AddChild(p.errorNode("expected method declaration", TokenFn))
			}
			progress()
		}
		p.expect(TokenRBrace)
	}
	node.AddField(FieldBody, p.finishNode(body))
	return p.finishNode(node)
}

// parseTypedefDeclaration parses `typedef Id (Iface) @attr = inline int`.
func (p *Parser) parseTypedefDeclaration() *Node {
	node := p.startNode(KindTypedefDeclaration)
	p.expect(TokenTypedef)
	p.parseTypeName(node)
	if p.check(TokenLParen) {
		node.AddChild(p.parseInterfaceImpl())
	}
	node.AddField(FieldAttributes, p.parseAttributes())
	p.expect(TokenAssign)
	if p.check(TokenInline) {
		node.AddChild(p.leaf(KindModifier))
	}
	node.AddField(FieldType, p.parseType())
	return p.finishNode(node)
}

// parseAliasDeclaration parses aliases of types, function signatures,
// modules, functions, macros, constants and generic instances.
func (p *Parser) parseAliasDeclaration() *Node {
	node := p.startNode(KindAliasDeclaration)
	p.expect(TokenAlias)
	nameKind := p.peek().Kind
	switch nameKind {
	case TokenIdent, TokenAtIdent, TokenConstIdent, TokenTypeIdent:
		node.AddField(FieldName, p.tokenLeaf())
	default:
		p.expect(TokenIdent)
	}
	node.AddField(FieldAttributes, p.parseAttributes())
	p.expect(TokenAssign)
	switch {
	case nameKind == TokenTypeIdent && p.check(TokenFn):
		node.AddField(FieldValue, p.parseFuncSignature())
	case nameKind == TokenTypeIdent:
		node.AddField(FieldValue, p.parseType())
	case p.check(TokenModule):
		node.AddChild(p.leaf(KindKeyword))
		node.AddField(FieldValue, p.parseModulePath())
	default:
		node.AddField(FieldValue, p.parseExpr())
	}
	return p.finishNode(node)
}

// parseFuncSignature parses `fn int (String)` on the right of a type alias.
func (p *Parser) parseFuncSignature() *Node {
	node := p.startNode(KindFuncSignature)
	p.expect(TokenFn)
	node.AddField(FieldReturnType, p.parseType())
	node.AddChild(p.parseFnParameterList())
	return p.finishNode(node)
}

// parseAttrdefDeclaration parses `attrdef @Name(x) = @inline, @align(x)`.
func (p *Parser) parseAttrdefDeclaration() *Node {
	node := p.startNode(KindAttrdefDeclaration)
	p.expect(TokenAttrdef)
	if tok := p.expect(TokenAtTypeIdent); tok != nil {
		node.AddField(FieldName, p.leafFrom(*tok, KindAtTypeIdent))
	}
	if p.check(TokenLParen) {
		node.AddChild(p.parseFnParameterList())
	}
	node.AddField(FieldAttributes, p.parseAttributes())
	if p.accept(TokenAssign) {
		list := p.startNode(KindAttributes)
		for {
			list.AddChild(p.parseAttribute())
			if !p.accept(TokenComma) {
				break
			}
		}
		node.AddField(FieldValue, p.finishNode(list))
	}
	return p.finishNode(node)
}

// parseConstDeclaration parses `const [Type] NAME [@attr] [= value]`.
func (p *Parser) parseConstDeclaration() *Node {
	node := p.startNode(KindConstDeclaration)
	p.expect(TokenConst)
	untyped := p.check(TokenConstIdent)
	switch p.peekN(1).Kind {
	case TokenAssign, TokenSemicolon, TokenAtIdent, TokenAtTypeIdent:
	default:
		untyped = false
	}
	if !untyped {
		node.AddField(FieldType, p.parseType())
	}
	if tok := p.expect(TokenConstIdent); tok != nil {
		node.AddField(FieldName, p.leafFrom(*tok, KindConstIdent))
	}
	node.AddField(FieldAttributes, p.parseAttributes())
	if p.accept(TokenAssign) {
		node.AddField(FieldValue, p.parseExpr())
	}
	return p.finishNode(node)
}

// parseGlobalDeclaration parses `[tlocal] Type a, b @attr` or
// `[tlocal] Type a @attr = value`.
func (p *Parser) parseGlobalDeclaration() *Node {
	node := p.startNode(KindGlobalDeclaration)
	if p.check(TokenTlocal) {
		node.AddChild(p.leaf(KindModifier))
	}
	node.AddField(FieldType, p.parseType())
	for {
		if tok := p.expect(TokenIdent); tok != nil {
			node.AddField(FieldName, p.leafFrom(*tok, KindIdent))
		}
		if !p.accept(TokenComma) {
			break
		}
	}
	node.AddField(FieldAttributes, p.parseAttributes())
	if p.accept(TokenAssign) {
		node.AddField(FieldValue, p.parseExpr())
	}
	return p.finishNode(node)
}

func (p *Parser) isAttributeStart() bool {
	switch p.peek().Kind {
	case TokenAtIdent, TokenAtTypeIdent:
		return true
	case TokenIdent:
		n := 0
		for p.peekN(n).Kind == TokenIdent && p.peekN(n+1).Kind == TokenColonColon {
			n += 2
		}
		kind := p.peekN(n).Kind
		return n > 0 && (kind == TokenAtIdent || kind == TokenAtTypeIdent)
	}
	return false
}

// parseAttributes returns nil when no attribute follows.
func (p *Parser) parseAttributes() *Node {
	if !p.isAttributeStart() {
		return nil
	}
	node := p.startNode(KindAttributes)
	for p.isAttributeStart() {
		progress := p.mustProgress()
		node.AddChild(p.parseAttribute())
		if !progress() {
			break
		}
	}
	return p.finishNode(node)
}

// parseAttribute parses `@name`, `@Custom(1)`, `path::@name` and the
// operator overload forms `@operator([]=)`.
func (p *Parser) parseAttribute() *Node {
	node := p.startNode(KindAttribute)
	var name string
	switch p.peek().Kind {
	case TokenAtIdent, TokenAtTypeIdent:
		name = p.peek().Literal
		node.AddField(FieldName, p.tokenLeaf())
	case TokenIdent:
		q := p.startNode(KindQualifiedIdent)
		q.AddField(FieldPath, p.parsePathPrefix())
		if p.match(TokenAtIdent, TokenAtTypeIdent) {
			q.AddField(FieldName, p.tokenLeaf())
		} else {
			p.expect(TokenAtIdent)
		}
		node.AddField(FieldName, p.finishNode(q))
	default:
		p.expect(TokenAtIdent)
		return p.finishNode(node)
	}
	if !p.check(TokenLParen) {
		return p.finishNode(node)
	}
	switch name {
	case "@operator", "@operator_r", "@operator_s":
		node.AddField(FieldArguments, p.parseOverloadOperator())
	default:
		node.AddField(FieldArguments, p.parseArgList())
	}
	return p.finishNode(node)
}

// parseOverloadOperator parses the parenthesised operator of an overload
// attribute, such as `([])`, `(&[])`, `(len)` or `(+=)`.
func (p *Parser) parseOverloadOperator() *Node {
	node := p.startNode(KindOverloadOperator)
	p.expect(TokenLParen)
	for !p.match(TokenRParen, TokenSemicolon, TokenLBrace, TokenEOF) {
		node.AddChild(p.operator())
	}
	if len(node.Children) == 0 {
		p.syntaxError(p.peek(), "expected operator, got "+describeToken(p.peek()))
	}
	p.expect(TokenRParen)
	return p.finishNode(node)
}
