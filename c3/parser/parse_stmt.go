package parser

func (p *Parser) parseStatement() *Node {
	p.enter()
	defer p.leave()

	switch p.peek().Kind {
	case TokenLBrace:
		return p.parseCompoundStmt()
	case TokenSemicolon:
		node := p.startNode(KindEmptyStmt)
		p.advance()
		return p.finishNode(node)
	case TokenIf:
		return p.parseIfStmt()
	case TokenSwitch:
		return p.parseSwitchStmt()
	case TokenFor:
		return p.parseForStmt()
	case TokenForeach, TokenForeachR:
		return p.parseForeachStmt()
	case TokenWhile:
		return p.parseWhileStmt()
	case TokenDo:
		return p.parseDoStmt()
	case TokenDefer:
		return p.parseDeferStmt()
	case TokenAsm:
		return p.parseAsmBlockStmt()
	case TokenReturn:
		return p.statement(p.parseReturnStmt)
	case TokenBreak:
		return p.statement(func() *Node { return p.parseJumpStmt(KindBreakStmt) })
	case TokenContinue:
		return p.statement(func() *Node { return p.parseJumpStmt(KindContinueStmt) })
	case TokenNextcase:
		return p.statement(p.parseNextcaseStmt)
	case TokenAssert:
		return p.statement(p.parseAssertStmt)
	case TokenVar:
		return p.statement(p.parseVarStmt)
	case TokenConst:
		return p.statement(p.parseConstDeclaration)
	case TokenStatic, TokenTlocal:
		return p.statement(p.parseDeclarationStmt)
	}
	if isCtStatementKeyword(p.peek().Kind) {
		return p.parseCtStatement(false)
	}
	if p.isDeclarationStart() {
		return p.statement(p.parseDeclarationStmt)
	}
	if canStartOperand(p.peek().Kind) {
		return p.statement(p.parseExprStmt)
	}
	return p.errorNode("expected statement")
}

// statement runs rule for a construct terminated by `;`. A construct that
// fails is re-parsed as a single error node reaching the next
// synchronizing token, carrying only its first diagnostic. A construct
// that parses but lacks its `;` is kept.
func (p *Parser) statement(rule func() *Node) *Node {
	s := p.snapshot()
	node := rule()
	if p.aborted != nil {
		return node
	}
	if p.failedSince(s) {
		diag := p.diags[s.diags]
		incomplete := p.incomplete
		p.restore(s)
		p.diags = append(p.diags, diag)
		p.incomplete = incomplete
		return p.recoverFrom(diag)
	}
	if p.expect(TokenSemicolon) != nil {
		p.finishNode(node)
	}
	return node
}

// recoverFrom builds the error node for a failed construct starting at the
// current token, whose diagnostic has already been recorded.
func (p *Parser) recoverFrom(diag Diagnostic) *Node {
	tok := p.peek()
	p.countNode()
	node := &Node{
		Kind:  KindError,
		Span:  Span{Start: tok.Span.Start, End: tok.Span.Start},
		Error: &Error{Message: diag.Message, Got: &tok},
	}
	start := p.pos
	p.synchronize()
	if p.pos > start {
		node.Span.End = p.tokens[p.pos-1].Span.End
	}
	return node
}

// atBlockEnd reports whether a statement list stops here: at its closing
// brace, at end of input, or at a top-level declaration keyword that
// signals a missing `}`.
func (p *Parser) atBlockEnd() bool {
	tok := p.peek()
	switch {
	case tok.Kind == TokenRBrace, tok.Kind == TokenEOF:
		return true
	case tok.Kind == TokenFn:
		return !p.isLambdaStart()
	}
	return isTopLevelStart(tok.Kind)
}

// isLambdaStart tells `fn int (x) => ...` from the start of a function.
func (p *Parser) isLambdaStart() bool {
	if p.peekN(1).Kind == TokenLParen {
		return true
	}
	if p.isRejected(trialLambda) {
		return false
	}
	s := p.snapshot()
	p.advance()
	_, ok := p.tryType()
	ok = ok && p.check(TokenLParen)
	if !ok {
		p.reject(trialLambda, s)
		return false
	}
	p.restore(s)
	return true
}

func (p *Parser) parseCompoundStmt() *Node {
	node := p.startNode(KindCompoundStmt)
	if p.expect(TokenLBrace) == nil {
		return p.finishNode(node)
	}
	for !p.atBlockEnd() {
		progress := p.mustProgress()
		node.AddChild(p.parseStatement())
		progress()
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

func (p *Parser) parseExprStmt() *Node {
	node := p.startNode(KindExprStmt)
	node.AddChild(p.parseExpr())
	return p.finishNode(node)
}

// parseDeclarationStmt parses `[static|tlocal] Type a = 1, b`.
func (p *Parser) parseDeclarationStmt() *Node {
	node := p.startNode(KindDeclarationStmt)
	for p.match(TokenStatic, TokenTlocal) {
		node.AddChild(p.leaf(KindModifier))
	}
	node.AddField(FieldType, p.parseType())
	for {
		node.AddChild(p.parseLocalDecl())
		if !p.accept(TokenComma) {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseLocalDecl() *Node {
	node := p.startNode(KindLocalDecl)
	p.parseLocalDeclTail(node)
	return p.finishNode(node)
}

func (p *Parser) parseLocalDeclTail(node *Node) {
	switch p.peek().Kind {
	case TokenIdent, TokenCtIdent:
		node.AddField(FieldName, p.tokenLeaf())
	default:
		p.expect(TokenIdent)
	}
	node.AddField(FieldAttributes, p.parseAttributes())
	if p.accept(TokenAssign) {
		node.AddField(FieldValue, p.parseExpr())
	}
}

// parseVarStmt wraps a var_decl used as a statement. The `;` closing it
// belongs to the var_stmt.
func (p *Parser) parseVarStmt() *Node {
	node := p.startNode(KindVarStmt)
	node.AddChild(p.parseVarDecl())
	return p.finishNode(node)
}

// parseVarDecl parses `var x = 1`, `var $x` and `var $Type = int`.
func (p *Parser) parseVarDecl() *Node {
	node := p.startNode(KindVarDecl)
	p.expect(TokenVar)
	switch p.peek().Kind {
	case TokenIdent, TokenCtIdent, TokenCtTypeIdent:
		node.AddField(FieldName, p.tokenLeaf())
	default:
		p.expect(TokenIdent)
	}
	if p.accept(TokenAssign) {
		node.AddField(FieldValue, p.parseTypeOrExpr())
	}
	return p.finishNode(node)
}

// parseLabel parses the `NAME:` that may follow a loop or branch keyword.
func (p *Parser) parseLabel() *Node {
	if !p.check(TokenConstIdent) || p.peekN(1).Kind != TokenColon {
		return nil
	}
	node := p.startNode(KindLabel)
	node.AddField(FieldName, p.leaf(KindConstIdent))
	p.advance()
	return p.finishNode(node)
}

func (p *Parser) parseIfStmt() *Node {
	node := p.startNode(KindIfStmt)
	p.expect(TokenIf)
	node.AddField(FieldLabel, p.parseLabel())
	node.AddField(FieldCondition, p.parseParenCond())
	node.AddField(FieldBody, p.parseStatement())
	if p.check(TokenElse) {
		node.AddChild(p.parseElsePart())
	}
	return p.finishNode(node)
}

// parseElsePart parses `else if ...` and `else body`.
func (p *Parser) parseElsePart() *Node {
	node := p.startNode(KindElsePart)
	p.expect(TokenElse)
	if p.check(TokenIf) {
		node.AddChild(p.parseIfStmt())
	} else {
		node.AddField(FieldBody, p.parseStatement())
	}
	return p.finishNode(node)
}

func (p *Parser) parseParenCond() *Node {
	node := p.startNode(KindParenCond)
	p.expect(TokenLParen)
	p.parseCondElements(node, TokenRParen)
	p.expect(TokenRParen)
	return p.finishNode(node)
}

// parseCondElements parses the comma separated declarations, expressions
// and unwraps of a condition up to end.
func (p *Parser) parseCondElements(node *Node, end TokenKind) {
	for !p.check(end) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseCondElement())
		if !p.accept(TokenComma) {
			break
		}
		if !progress() {
			break
		}
	}
}

func (p *Parser) parseCondElement() *Node {
	switch p.peek().Kind {
	case TokenTry:
		return p.parseTryUnwrapChain()
	case TokenCatch:
		return p.parseCatchUnwrap()
	}
	return p.parseDeclOrExpr()
}

// parseDeclOrExpr prefers a declaration when a type is followed by a name.
func (p *Parser) parseDeclOrExpr() *Node {
	if p.check(TokenVar) {
		return p.parseVarDecl()
	}
	if p.isDeclarationStart() {
		node := p.startNode(KindLocalDecl)
		node.AddField(FieldType, p.parseType())
		p.parseLocalDeclTail(node)
		return p.finishNode(node)
	}
	return p.parseExpr()
}

// unwrapBinding reports whether `[Type] name =` follows.
func (p *Parser) unwrapBinding() bool {
	if p.check(TokenIdent) && p.peekN(1).Kind == TokenAssign {
		return true
	}
	if !p.isTypeStart() || p.isRejected(trialUnwrapBinding) {
		return false
	}
	s := p.snapshot()
	_, ok := p.tryType()
	ok = ok && p.check(TokenIdent) && p.peekN(1).Kind == TokenAssign
	if !ok {
		p.reject(trialUnwrapBinding, s)
		return false
	}
	p.restore(s)
	return true
}

func (p *Parser) parseUnwrapBinding(node *Node) {
	if !p.unwrapBinding() {
		return
	}
	if !p.check(TokenIdent) {
		node.AddField(FieldType, p.parseType())
	}
	node.AddField(FieldName, p.leaf(KindIdent))
	p.expect(TokenAssign)
}

// parseTryUnwrapChain parses `try x = a() && try b() && c`. The unwrapped
// values bind tighter than `&&`.
func (p *Parser) parseTryUnwrapChain() *Node {
	first := p.parseTryUnwrap()
	if !p.check(TokenAndAnd) {
		return first
	}
	node := p.wrapNode(KindTryUnwrapChain, "", first)
	for p.check(TokenAndAnd) {
		node.AddChild(p.operator())
		if p.check(TokenTry) {
			node.AddChild(p.parseTryUnwrap())
		} else {
			node.AddChild(p.parseBinary(PrecRelational))
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseTryUnwrap() *Node {
	node := p.startNode(KindTryUnwrap)
	p.expect(TokenTry)
	p.parseUnwrapBinding(node)
	node.AddField(FieldValue, p.parseBinary(PrecRelational))
	return p.finishNode(node)
}

// parseCatchUnwrap parses `catch [Type] err = a(), b()`.
func (p *Parser) parseCatchUnwrap() *Node {
	node := p.startNode(KindCatchUnwrap)
	p.expect(TokenCatch)
	p.parseUnwrapBinding(node)
	for {
		node.AddField(FieldValue, p.parseExpr())
		if !p.accept(TokenComma) {
			break
		}
	}
	return p.finishNode(node)
}

func (p *Parser) parseSwitchStmt() *Node {
	node := p.startNode(KindSwitchStmt)
	p.expect(TokenSwitch)
	node.AddField(FieldLabel, p.parseLabel())
	if p.check(TokenLParen) {
		node.AddField(FieldCondition, p.parseParenCond())
	}
	if p.check(TokenAtIdent) {
		node.AddChild(p.parseAttribute())
	}
	node.AddField(FieldBody, p.parseSwitchBody())
	return p.finishNode(node)
}

func (p *Parser) parseSwitchBody() *Node {
	node := p.startNode(KindSwitchBody)
	if p.expect(TokenLBrace) == nil {
		return p.finishNode(node)
	}
	for !p.atBlockEnd() {
		progress := p.mustProgress()
		switch p.peek().Kind {
		case TokenCase:
			node.AddChild(p.parseCaseStmt())
		case TokenDefault:
			node.AddChild(p.parseDefaultStmt())
		default:
			node.AddChild(p.errorNode("expected case or default", TokenCase, TokenDefault))
		}
		progress()
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

// parseCaseStmt parses `case 1:`, `case 'a'..'z':` and `case int:`.
func (p *Parser) parseCaseStmt() *Node {
	node := p.startNode(KindCaseStmt)
	p.expect(TokenCase)
	value := p.parseTypeOrExpr()
	if p.check(TokenDotDot) {
		r := p.wrapNode(KindRangeExpr, FieldLeft, value)
		r.AddChild(p.operator())
		r.AddField(FieldRight, p.parseExpr())
		value = p.finishNode(r)
	}
	node.AddField(FieldValue, value)
	p.expect(TokenColon)
	p.parseCaseBody(node)
	return p.finishNode(node)
}

func (p *Parser) parseDefaultStmt() *Node {
	node := p.startNode(KindDefaultStmt)
	p.expect(TokenDefault)
	p.expect(TokenColon)
	p.parseCaseBody(node)
	return p.finishNode(node)
}

func (p *Parser) parseCaseBody(node *Node) {
	for !p.match(TokenCase, TokenDefault) && !p.atBlockEnd() {
		progress := p.mustProgress()
		node.AddChild(p.parseStatement())
		progress()
	}
}

func (p *Parser) parseForStmt() *Node {
	node := p.startNode(KindForStmt)
	p.expect(TokenFor)
	node.AddField(FieldLabel, p.parseLabel())
	p.expect(TokenLParen)
	p.parseForClauses(node, TokenRParen)
	p.expect(TokenRParen)
	node.AddField(FieldBody, p.parseStatement())
	return p.finishNode(node)
}

// parseForClauses parses `init; cond; update` up to end. Every clause may
// be empty.
func (p *Parser) parseForClauses(node *Node, end TokenKind) {
	if !p.check(TokenSemicolon) {
		node.AddField(FieldInitializer, p.parseExprList(TokenSemicolon))
	}
	p.expect(TokenSemicolon)
	if !p.check(TokenSemicolon) {
		node.AddField(FieldCondition, p.parseExprList(TokenSemicolon))
	}
	p.expect(TokenSemicolon)
	if !p.check(end) {
		node.AddField(FieldUpdate, p.parseExprList(end))
	}
}

func (p *Parser) parseExprList(end TokenKind) *Node {
	node := p.startNode(KindExprList)
	p.parseCondElements(node, end)
	return p.finishNode(node)
}

func (p *Parser) parseForeachStmt() *Node {
	node := p.startNode(KindForeachStmt)
	node.AddChild(p.leaf(KindKeyword))
	node.AddField(FieldLabel, p.parseLabel())
	p.expect(TokenLParen)
	first := p.parseForeachVar()
	if p.accept(TokenComma) {
		node.AddField(FieldIndex, first)
		node.AddField(FieldValue, p.parseForeachVar())
	} else {
		node.AddField(FieldValue, first)
	}
	p.expect(TokenColon)
	node.AddField(FieldCollection, p.parseExpr())
	p.expect(TokenRParen)
	node.AddField(FieldBody, p.parseStatement())
	return p.finishNode(node)
}

// parseForeachVar parses `x`, `&x`, `int x` and `Foo* &x`.
func (p *Parser) parseForeachVar() *Node {
	node := p.startNode(KindForeachVar)
	bare := p.check(TokenIdent) && (p.peekN(1).Kind == TokenComma || p.peekN(1).Kind == TokenColon)
	if !bare && !p.check(TokenAmp) {
		node.AddField(FieldType, p.parseType())
	}
	if p.check(TokenAmp) {
		node.AddChild(p.operator())
	}
	if tok := p.expect(TokenIdent); tok != nil {
		node.AddField(FieldName, p.leafFrom(*tok, KindIdent))
	}
	return p.finishNode(node)
}

func (p *Parser) parseWhileStmt() *Node {
	node := p.startNode(KindWhileStmt)
	p.expect(TokenWhile)
	node.AddField(FieldLabel, p.parseLabel())
	node.AddField(FieldCondition, p.parseParenCond())
	node.AddField(FieldBody, p.parseStatement())
	return p.finishNode(node)
}

// parseDoStmt parses `do { } while (x);` and the bare `do { };`.
func (p *Parser) parseDoStmt() *Node {
	node := p.startNode(KindDoStmt)
	p.expect(TokenDo)
	node.AddField(FieldLabel, p.parseLabel())
	node.AddField(FieldBody, p.parseCompoundStmt())
	if p.accept(TokenWhile) {
		node.AddField(FieldCondition, p.parseParenExpr())
	}
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseReturnStmt() *Node {
	node := p.startNode(KindReturnStmt)
	p.expect(TokenReturn)
	if !p.check(TokenSemicolon) {
		node.AddField(FieldValue, p.parseExpr())
	}
	return p.finishNode(node)
}

// parseJumpStmt parses break and continue with an optional target label.
func (p *Parser) parseJumpStmt(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	if p.check(TokenConstIdent) {
		node.AddField(FieldLabel, p.leaf(KindConstIdent))
	}
	return p.finishNode(node)
}

// parseNextcaseStmt parses `nextcase [LABEL:] [value | Type | default]`.
func (p *Parser) parseNextcaseStmt() *Node {
	node := p.startNode(KindNextcaseStmt)
	p.expect(TokenNextcase)
	if p.check(TokenConstIdent) && p.peekN(1).Kind == TokenColon {
		node.AddField(FieldLabel, p.leaf(KindConstIdent))
		p.advance()
	}
	switch {
	case p.check(TokenDefault):
		node.AddField(FieldTarget, p.leaf(KindKeyword))
	case !p.check(TokenSemicolon):
		node.AddField(FieldTarget, p.parseTypeOrExpr())
	}
	return p.finishNode(node)
}

// parseDeferStmt parses `defer stmt`, `defer try stmt`, `defer catch stmt`
// and `defer (catch err) stmt`.
func (p *Parser) parseDeferStmt() *Node {
	node := p.startNode(KindDeferStmt)
	p.expect(TokenDefer)
	switch {
	case p.match(TokenTry, TokenCatch):
		node.AddChild(p.leaf(KindModifier))
	case p.check(TokenLParen) && p.peekN(1).Kind == TokenCatch:
		p.advance()
		node.AddChild(p.leaf(KindModifier))
		if tok := p.expect(TokenIdent); tok != nil {
			node.AddField(FieldName, p.leafFrom(*tok, KindIdent))
		}
		p.expect(TokenRParen)
	}
	node.AddField(FieldBody, p.parseStatement())
	return p.finishNode(node)
}

func (p *Parser) parseAssertStmt() *Node {
	node := p.startNode(KindAssertStmt)
	p.expect(TokenAssert)
	node.AddField(FieldArguments, p.parseArgList())
	return p.finishNode(node)
}

// parseAsmBlockStmt parses `asm("...");` and `asm [@attr] { ... }`.
func (p *Parser) parseAsmBlockStmt() *Node {
	node := p.startNode(KindAsmBlockStmt)
	p.expect(TokenAsm)
	if p.accept(TokenLParen) {
		node.AddField(FieldArgument, p.parseExpr())
		p.expect(TokenRParen)
		if p.check(TokenAtIdent) {
			node.AddChild(p.leaf(KindAtIdent))
		}
		p.expect(TokenSemicolon)
		return p.finishNode(node)
	}
	if p.check(TokenAtIdent) {
		node.AddChild(p.leaf(KindAtIdent))
	}
	if p.expect(TokenLBrace) == nil {
		return p.finishNode(node)
	}
	for !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseAsmStmt())
		progress()
	}
	p.expect(TokenRBrace)
	return p.finishNode(node)
}

// parseAsmStmt parses one instruction such as `movq [rax + 8], $x;`.
func (p *Parser) parseAsmStmt() *Node {
	node := p.startNode(KindAsmStmt)
	switch p.peek().Kind {
	case TokenIdent, TokenBaseType:
		node.AddField(FieldName, p.tokenLeaf())
	default:
		return p.errorNode("expected instruction", TokenIdent)
	}
	if p.accept(TokenDot) {
		if tok := p.expect(TokenIdent); tok != nil {
			node.AddField(FieldField, p.leafFrom(*tok, KindIdent))
		}
	}
	for !p.check(TokenSemicolon) && !p.check(TokenRBrace) && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddField(FieldArgs, p.parseAsmExpr())
		if !p.accept(TokenComma) {
			break
		}
		if !progress() {
			break
		}
	}
	p.expect(TokenSemicolon)
	return p.finishNode(node)
}

func (p *Parser) parseAsmExpr() *Node {
	if !p.check(TokenLBracket) {
		return p.parseUnary()
	}
	node := p.startNode(KindAsmAddr)
	p.advance()
	node.AddChild(p.parseExpr())
	p.expect(TokenRBracket)
	return p.finishNode(node)
}

func isCtStatementKeyword(kind TokenKind) bool {
	switch kind {
	case TokenCtAssert, TokenCtError, TokenCtEcho, TokenCtInclude, TokenCtExec,
		TokenCtIf, TokenCtSwitch, TokenCtFor, TokenCtForeach:
		return true
	}
	return false
}

// parseCtStatement parses a compile-time statement. Inside top-level
// blocks the bodies hold declarations, elsewhere they hold statements.
func (p *Parser) parseCtStatement(top bool) *Node {
	switch p.peek().Kind {
	case TokenCtAssert:
		return p.statement(p.parseCtAssert)
	case TokenCtError:
		return p.statement(func() *Node { return p.parseCtUnary(KindCtErrorStmt) })
	case TokenCtEcho:
		return p.statement(func() *Node { return p.parseCtUnary(KindCtEchoStmt) })
	case TokenCtInclude:
		return p.statement(func() *Node { return p.parseCtUnary(KindCtIncludeStmt) })
	case TokenCtExec:
		return p.statement(p.parseCtExec)
	case TokenCtIf:
		return p.parseCtIf(top)
	case TokenCtSwitch:
		return p.parseCtSwitch(top)
	case TokenCtFor:
		return p.parseCtFor(top)
	case TokenCtForeach:
		return p.parseCtForeach(top)
	}
	return p.errorNode("expected compile-time statement")
}

func (p *Parser) parseCtAssert() *Node {
	node := p.startNode(KindCtAssertStmt)
	p.expect(TokenCtAssert)
	node.AddField(FieldCondition, p.parseExpr())
	if p.accept(TokenColon) {
		node.AddField(FieldValue, p.parseExpr())
	}
	return p.finishNode(node)
}

func (p *Parser) parseCtUnary(kind NodeKind) *Node {
	node := p.startNode(kind)
	p.advance()
	node.AddField(FieldArgument, p.parseExpr())
	return p.finishNode(node)
}

func (p *Parser) parseCtExec() *Node {
	node := p.startNode(KindCtExecStmt)
	p.expect(TokenCtExec)
	node.AddField(FieldArguments, p.parseArgList())
	node.AddField(FieldAttributes, p.parseAttributes())
	return p.finishNode(node)
}

// parseCtBody collects the items of a compile-time block until one of the
// closing keywords. It returns nil for an empty body.
func (p *Parser) parseCtBody(top bool, closers ...TokenKind) *Node {
	node := p.startNode(KindCtStmtBody)
	for !p.match(closers...) && !p.check(TokenEOF) {
		if !top && p.atBlockEnd() {
			break
		}
		progress := p.mustProgress()
		switch {
		case top && p.check(TokenRBrace):
			node.AddChild(p.strayToken())
		case top:
			node.AddChild(p.parseTopLevel())
		default:
			node.AddChild(p.parseStatement())
		}
		progress()
	}
	if len(node.Children) == 0 {
		return nil
	}
	return p.finishNode(node)
}

// parseCtIf parses `$if cond: ... [$else ...] $endif`.
func (p *Parser) parseCtIf(top bool) *Node {
	node := p.startNode(KindCtIfStmt)
	p.expect(TokenCtIf)
	node.AddField(FieldCondition, p.parseExpr())
	p.expect(TokenColon)
	node.AddField(FieldConsequence, p.parseCtBody(top, TokenCtElse, TokenCtEndif))
	if p.check(TokenCtElse) {
		alt := p.startNode(KindCtElseStmt)
		p.advance()
		alt.AddField(FieldBody, p.parseCtBody(top, TokenCtEndif))
		node.AddField(FieldAlternative, p.finishNode(alt))
	}
	p.expect(TokenCtEndif)
	return p.finishNode(node)
}

// parseCtSwitch parses `$switch [value]: $case x: ... $default: ... $endswitch`.
func (p *Parser) parseCtSwitch(top bool) *Node {
	node := p.startNode(KindCtSwitchStmt)
	p.expect(TokenCtSwitch)
	if !p.check(TokenColon) {
		node.AddField(FieldCondition, p.parseTypeOrExpr())
	}
	p.expect(TokenColon)
	for p.match(TokenCtCase, TokenCtDefault) {
		c := p.startNode(KindCtCaseStmt)
		if p.accept(TokenCtCase) {
			c.AddField(FieldValue, p.parseTypeOrExpr())
		} else {
			c.AddChild(p.leaf(KindKeyword))
		}
		p.expect(TokenColon)
		c.AddField(FieldBody, p.parseCtBody(top, TokenCtCase, TokenCtDefault, TokenCtEndswitch))
		node.AddChild(p.finishNode(c))
	}
	p.expect(TokenCtEndswitch)
	return p.finishNode(node)
}

// parseCtFor parses `$for var $i = 0; $i < 3; $i++: ... $endfor`.
func (p *Parser) parseCtFor(top bool) *Node {
	node := p.startNode(KindCtForStmt)
	p.expect(TokenCtFor)
	p.parseForClauses(node, TokenColon)
	p.expect(TokenColon)
	node.AddField(FieldBody, p.parseCtBody(top, TokenCtEndfor))
	p.expect(TokenCtEndfor)
	return p.finishNode(node)
}

// parseCtForeach parses `$foreach [$i,] $v : $list: ... $endforeach`.
func (p *Parser) parseCtForeach(top bool) *Node {
	node := p.startNode(KindCtForeachStmt)
	p.expect(TokenCtForeach)
	first := p.expect(TokenCtIdent)
	if p.accept(TokenComma) {
		if first != nil {
			node.AddField(FieldIndex, p.leafFrom(*first, KindCtIdent))
		}
		if tok := p.expect(TokenCtIdent); tok != nil {
			node.AddField(FieldValue, p.leafFrom(*tok, KindCtIdent))
		}
	} else if first != nil {
		node.AddField(FieldValue, p.leafFrom(*first, KindCtIdent))
	}
	p.expect(TokenColon)
	node.AddField(FieldCollection, p.parseExpr())
	p.expect(TokenColon)
	node.AddField(FieldBody, p.parseCtBody(top, TokenCtEndforeach))
	p.expect(TokenCtEndforeach)
	return p.finishNode(node)
}
