package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithStartLine(line int) Option {
	return func(p *Parser) {
		p.startLine = line
	}
}

// WithMaxDepth bounds the nesting of expressions, statements and types.
// Zero disables the limit.
func WithMaxDepth(n int) Option {
	return func(p *Parser) {
		p.maxDepth = n
	}
}

// WithMaxNodes bounds the number of nodes built. Zero disables the limit.
func WithMaxNodes(n int) Option {
	return func(p *Parser) {
		p.maxNodes = n
	}
}

// WithContext makes the parse stop with a resource diagnostic once ctx is
// done.
func WithContext(ctx context.Context) Option {
	return func(p *Parser) {
		p.ctx = ctx
	}
}

// WithScanner replaces the context scanner handed to the lexer.
func WithScanner(s ContextScanner) Option {
	return func(p *Parser) {
		p.scanner = s
	}
}

const (
	DefaultMaxDepth = 1000
	// checkInterval is how many tokens pass between context checks.
	checkInterval = 512
)

type parseFunc func(*Parser) *Node

type Parser struct {
	file       string
	startLine  int
	maxDepth   int
	maxNodes   int
	ctx        context.Context
	scanner    ContextScanner
	reader     io.Reader
	input      []byte
	lexer      *Lexer
	tokens     []Token
	trivia     []Trivia
	pos        int
	entry      parseFunc
	diags      []Diagnostic
	depth      int
	nodes      int
	steps      int
	aborted    *Diagnostic
	incomplete bool
	// rejected records trial parses that did not apply, so a second
	// attempt at the same token fails at once.
	rejected map[trialKey]bool
	// parens holds parenthesised expressions already parsed, so the
	// fallback of an undone trial does not parse them again.
	parens map[parenKey]parenResult

	// noGenericBrace is set while parsing a type that is directly followed
	// by a declaration body, such as an enum's backing type.
	noGenericBrace bool
}

func newParser(r io.Reader, entry parseFunc, opts []Option) *Parser {
	p := &Parser{
		startLine: 1,
		maxDepth:  DefaultMaxDepth,
		scanner:   DefaultScanner,
		reader:    r,
		entry:     entry,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseSourceFile prepares a parser for a whole compilation unit.
func ParseSourceFile(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseSourceFile, opts)
}

// ParseExpression prepares a parser for a single expression.
func ParseExpression(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseExpressionEntry, opts)
}

// Parse parses src as a compilation unit.
func Parse(src []byte, opts ...Option) *Tree {
	return ParseSourceFile(bytes.NewReader(src), opts...).Finish()
}

func (p *Parser) readAll() error {
	if p.input != nil {
		return nil
	}
	data, err := io.ReadAll(p.reader)
	if err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}
	p.input = data
	return nil
}

// IsComplete reports whether the input parses without running out
// mid-construct. "fn void f() {" is incomplete; "fn void f() {}" and
// "fn void f() }" are complete (the latter with errors).
func (p *Parser) IsComplete() bool {
	if err := p.readAll(); err != nil {
		return false
	}
	trial := *p
	trial.run()
	return !trial.incomplete
}

// Finish parses the input and returns the tree. It never returns nil.
func (p *Parser) Finish() *Tree {
	if err := p.readAll(); err != nil {
		return &Tree{
			Root:    &Node{Kind: KindSourceFile},
			Source:  []byte{},
			Tokens:  []Token{{Kind: TokenEOF}},
			Aborted: true,
			Diagnostics: []Diagnostic{{
				Kind:    DiagInput,
				Message: fmt.Sprintf("read %s: %v", p.displayName(), err),
			}},
		}
	}
	root := p.run()
	tree := &Tree{
		Root:    root,
		Source:  p.input,
		Tokens:  p.tokens,
		Trivia:  p.trivia,
		Aborted: p.aborted != nil,
	}
	diags := append([]Diagnostic{}, p.lexer.Diagnostics()...)
	diags = append(diags, p.diags...)
	if p.aborted != nil {
		diags = append(diags, *p.aborted)
	}
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Span.Start.Offset < diags[j].Span.Start.Offset
	})
	tree.Diagnostics = diags
	return tree
}

func (p *Parser) displayName() string {
	if p.file != "" {
		return p.file
	}
	return "input"
}

func (p *Parser) Reset(r io.Reader) {
	p.reader = r
	p.input = nil
	p.lexer = nil
	p.tokens = nil
	p.trivia = nil
	p.pos = 0
	p.diags = nil
	p.depth = 0
	p.nodes = 0
	p.steps = 0
	p.aborted = nil
	p.incomplete = false
	p.rejected = nil
	p.parens = nil
}

func (p *Parser) run() *Node {
	p.lexer = NewLexer(p.input, p.file)
	p.lexer.line = p.startLine
	p.lexer.SetScanner(p.scanner)
	p.tokens = nil
	p.trivia = nil
	p.pos = 0
	p.diags = nil
	p.depth = 0
	p.nodes = 0
	p.steps = 0
	p.aborted = nil
	p.incomplete = false
	p.rejected = nil
	p.parens = nil
	p.tokenize()
	root := p.entry(p)
	if p.lexer.unterminatedAtEOF() {
		p.incomplete = true
	}
	p.attachDocComments()
	return root
}

// tokenize splits the input into significant tokens and trivia. Each
// trivia token is attached to the significant token that follows it.
func (p *Parser) tokenize() {
	var pending []Token
	for {
		tok := p.lexer.NextToken()
		if tok.Trivia {
			pending = append(pending, tok)
			continue
		}
		if len(p.tokens)%checkInterval == 0 && p.cancelled() {
			end := p.lexer.Position()
			tok = Token{Kind: TokenEOF, Span: Span{Start: end, End: end}}
		}
		idx := len(p.tokens)
		for _, tr := range pending {
			p.trivia = append(p.trivia, Trivia{Token: tr, Attached: idx})
		}
		pending = pending[:0]
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) cancelled() bool {
	if p.ctx == nil || p.aborted != nil {
		return p.aborted != nil
	}
	if err := p.ctx.Err(); err != nil {
		p.abort("parse cancelled: %v", err)
		return true
	}
	return false
}

// abort stops the parse. From here on peek reports end of input, so every
// rule unwinds without consuming more tokens.
func (p *Parser) abort(format string, args ...any) {
	if p.aborted != nil {
		return
	}
	var span Span
	if len(p.tokens) > 0 {
		span = p.tokens[min(p.pos, len(p.tokens)-1)].Span
	}
	p.aborted = &Diagnostic{
		Kind:    DiagResource,
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *Parser) peek() Token {
	if p.aborted != nil || p.pos >= len(p.tokens) {
		return p.eofToken()
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekN(n int) Token {
	if p.aborted != nil || p.pos+n >= len(p.tokens) {
		return p.eofToken()
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) eofToken() Token {
	if len(p.tokens) > 0 {
		return p.tokens[len(p.tokens)-1]
	}
	return Token{Kind: TokenEOF}
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if tok.Kind != TokenEOF && p.pos < len(p.tokens) {
		p.pos++
		p.steps++
		if p.steps%checkInterval == 0 {
			p.cancelled()
		}
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...TokenKind) bool {
	for _, kind := range kinds {
		if p.check(kind) {
			return true
		}
	}
	return false
}

// accept consumes the current token when it has the given kind.
func (p *Parser) accept(kind TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of the given kind. When the current token is
// something else it records a syntax error and consumes nothing.
func (p *Parser) expect(kind TokenKind) *Token {
	tok := p.peek()
	if tok.Kind == kind {
		p.advance()
		return &tok
	}
	p.syntaxError(tok, fmt.Sprintf("expected %s, got %s", describeKind(kind), describeToken(tok)))
	return nil
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) syntaxError(tok Token, msg string) {
	if tok.Kind == TokenEOF {
		p.incomplete = true
	}
	if tok.Kind == TokenError {
		return
	}
	p.addDiagnostic(Diagnostic{Kind: DiagSyntax, Span: tok.Span, Message: msg})
}

// addDiagnostic records d unless the last diagnostic starts at the same
// offset.
func (p *Parser) addDiagnostic(d Diagnostic) {
	if n := len(p.diags); n > 0 && p.diags[n-1].Span.Start.Offset == d.Span.Start.Offset {
		return
	}
	p.diags = append(p.diags, d)
}

func describeKind(kind TokenKind) string {
	switch kind {
	case TokenEOF:
		return "end of input"
	case TokenIdent:
		return "identifier"
	case TokenConstIdent:
		return "constant name"
	case TokenTypeIdent:
		return "type name"
	}
	if name := kind.String(); len(name) > 0 && !isIdentStart(name[0]) {
		return "'" + name + "'"
	}
	return kind.String()
}

func describeToken(tok Token) string {
	if tok.Kind == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", tok.Literal)
}

func (p *Parser) countNode() {
	p.nodes++
	if p.maxNodes > 0 && p.nodes > p.maxNodes {
		p.abort("syntax tree exceeds %d nodes", p.maxNodes)
	}
}

// enter guards a recursive rule. Callers defer leave.
func (p *Parser) enter() {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		p.abort("nesting deeper than %d levels", p.maxDepth)
	}
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) startNode(kind NodeKind) *Node {
	p.countNode()
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

// wrapNode starts a node whose first child has already been parsed.
func (p *Parser) wrapNode(kind NodeKind, field string, first *Node) *Node {
	p.countNode()
	n := &Node{Kind: kind, Span: Span{Start: first.Span.Start}}
	n.AddField(field, first)
	return n
}

func (p *Parser) finishNode(n *Node) *Node {
	end := n.Span.Start
	if p.pos > 0 && p.pos <= len(p.tokens) {
		end = p.tokens[p.pos-1].Span.End
	}
	if end.Offset < n.Span.Start.Offset {
		end = n.Span.Start
	}
	// A zero-width error child sits at the next token, past the last one
	// consumed.
	if k := len(n.Children); k > 0 && n.Children[k-1].Span.End.Offset > end.Offset {
		end = n.Children[k-1].Span.End
	}
	n.Span.End = end
	return n
}

// leaf consumes the current token as a leaf of the given kind.
func (p *Parser) leaf(kind NodeKind) *Node {
	p.countNode()
	tok := p.advance()
	return &Node{Kind: kind, Token: &tok, Span: tok.Span}
}

// tokenLeaf consumes the current token, choosing the leaf kind from it.
func (p *Parser) tokenLeaf() *Node {
	return p.leaf(leafKind(p.peek().Kind))
}

func (p *Parser) operator() *Node {
	n := p.leaf(KindOperator)
	n.Field = FieldOperator
	return n
}

func leafKind(kind TokenKind) NodeKind {
	switch kind {
	case TokenIdent:
		return KindIdent
	case TokenConstIdent:
		return KindConstIdent
	case TokenTypeIdent:
		return KindTypeIdent
	case TokenCtIdent:
		return KindCtIdent
	case TokenCtConstIdent:
		return KindCtConstIdent
	case TokenCtTypeIdent:
		return KindCtTypeIdent
	case TokenAtIdent:
		return KindAtIdent
	case TokenAtTypeIdent:
		return KindAtTypeIdent
	case TokenHashIdent:
		return KindHashIdent
	case TokenBuiltin:
		return KindBuiltin
	case TokenIntLiteral:
		return KindIntegerLiteral
	case TokenRealLiteral:
		return KindRealLiteral
	case TokenCharLiteral:
		return KindCharLiteral
	case TokenStringLiteral:
		return KindStringLiteral
	case TokenRawStringLiteral:
		return KindRawStringLiteral
	case TokenBytesLiteral:
		return KindBytesLiteral
	case TokenTrue, TokenFalse:
		return KindBoolLiteral
	case TokenNull:
		return KindNullLiteral
	case TokenBaseType:
		return KindBaseType
	case TokenEllipsis:
		return KindEllipsis
	}
	return KindKeyword
}

// errorNode records a syntax error at the current token and skips ahead to
// a synchronizing token. The node spans the skipped tokens.
func (p *Parser) errorNode(msg string, expected ...TokenKind) *Node {
	tok := p.peek()
	p.syntaxError(tok, msg)
	p.countNode()
	node := &Node{
		Kind: KindError,
		Span: Span{Start: tok.Span.Start, End: tok.Span.Start},
		Error: &Error{
			Message:  msg,
			Expected: expected,
			Got:      &tok,
		},
	}
	start := p.pos
	p.synchronize()
	if p.pos > start {
		node.Span.End = p.tokens[p.pos-1].Span.End
	}
	return node
}

// synchronize skips tokens at the current nesting level. It stops after a
// `;`, before a `}` that closes the enclosing block, or before a token that
// starts a top-level declaration. The first token is always skipped unless
// it is such a `}`. Parentheses and brackets left open by the broken
// construct do not hide the `;` or `}` that ends it, and a declaration
// keyword at the start of a line ends the skip whatever is left open.
func (p *Parser) synchronize() {
	// groups counts open `(`, `[` and `[<`. outer saves it for each `{`
	// skipped so far.
	var outer []int
	groups := 0
	first := true
	for !p.check(TokenEOF) {
		tok := p.peek()
		switch tok.Kind {
		case TokenLParen, TokenLBracket, TokenLVector:
			groups++
		case TokenRParen, TokenRBracket, TokenRVector:
			if groups > 0 {
				groups--
			}
		case TokenLBrace:
			outer = append(outer, groups)
			groups = 0
		case TokenRBrace:
			if len(outer) == 0 {
				return
			}
			groups = outer[len(outer)-1]
			outer = outer[:len(outer)-1]
		case TokenSemicolon:
			if len(outer) == 0 {
				p.advance()
				return
			}
		default:
			if !first && isTopLevelStart(tok.Kind) &&
				(len(outer) == 0 && groups == 0 || tok.Span.Start.Column == 1) {
				return
			}
		}
		p.advance()
		first = false
	}
}

func isTopLevelStart(kind TokenKind) bool {
	switch kind {
	case TokenModule, TokenImport, TokenFn, TokenMacro, TokenStruct,
		TokenUnion, TokenBitstruct, TokenEnum, TokenFaultdef, TokenInterface,
		TokenTypedef, TokenAlias, TokenAttrdef, TokenExtern:
		return true
	}
	return false
}

type snapshot struct {
	pos        int
	diags      int
	incomplete bool
}

// snapshot marks the start of a trial parse. Nodes built by a trial that
// is undone still count against the node limit.
func (p *Parser) snapshot() snapshot {
	return snapshot{pos: p.pos, diags: len(p.diags), incomplete: p.incomplete}
}

func (p *Parser) restore(s snapshot) {
	p.pos = s.pos
	p.diags = p.diags[:s.diags]
	p.incomplete = s.incomplete
}

// failedSince reports whether a trial parse begun at s recorded errors.
func (p *Parser) failedSince(s snapshot) bool {
	return len(p.diags) > s.diags || p.aborted != nil
}

// trialRule names a speculative parse whose failure is remembered per
// token position.
type trialRule uint8

const (
	trialCast trialRule = iota
	trialType
	trialTypeSlot
	trialGenericArguments
	trialDeclaration
	trialLambda
	trialUnwrapBinding
)

type trialKey struct {
	rule           trialRule
	pos            int
	noGenericBrace bool
}

// isRejected reports whether rule already failed as a trial starting at
// the current token.
func (p *Parser) isRejected(rule trialRule) bool {
	return p.rejected[trialKey{rule, p.pos, p.noGenericBrace}]
}

// reject undoes the trial begun at s and remembers that rule does not
// apply there.
func (p *Parser) reject(rule trialRule, s snapshot) {
	p.restore(s)
	if p.rejected == nil {
		p.rejected = make(map[trialKey]bool)
	}
	p.rejected[trialKey{rule, s.pos, p.noGenericBrace}] = true
}

// tryType parses a type as part of a trial. It reports false, with the
// parser back where it started, when no valid type starts here.
func (p *Parser) tryType() (*Node, bool) {
	if p.isRejected(trialType) {
		return nil, false
	}
	s := p.snapshot()
	typ := p.parseType()
	if p.failedSince(s) {
		p.reject(trialType, s)
		return nil, false
	}
	return typ, true
}

// splitToken replaces the current two-character token with its first
// character and inserts the second as a separate token, for `!!` used as
// two prefix negations.
func (p *Parser) splitToken(first, second TokenKind) {
	tok := p.tokens[p.pos]
	mid := tok.Span.Start
	mid.Offset++
	mid.Column++
	left := Token{Kind: first, Span: Span{Start: tok.Span.Start, End: mid}, Literal: tok.Literal[:1]}
	right := Token{Kind: second, Span: Span{Start: mid, End: tok.Span.End}, Literal: tok.Literal[1:]}
	p.tokens = append(p.tokens[:p.pos+1], p.tokens[p.pos:]...)
	p.tokens[p.pos] = left
	p.tokens[p.pos+1] = right
	for i := range p.trivia {
		if p.trivia[i].Attached > p.pos {
			p.trivia[i].Attached++
		}
	}
	p.shiftRejected()
	p.parens = nil
}

// shiftRejected moves the remembered trial failures past a split token.
func (p *Parser) shiftRejected() {
	if len(p.rejected) == 0 {
		return
	}
	shifted := make(map[trialKey]bool, len(p.rejected))
	for key := range p.rejected {
		switch {
		case key.pos == p.pos:
			continue
		case key.pos > p.pos:
			key.pos++
		}
		shifted[key] = true
	}
	p.rejected = shifted
}

type parenKey struct {
	pos            int
	noGenericBrace bool
}

type parenResult struct {
	node       *Node
	end        int
	diags      []Diagnostic
	incomplete bool
}

// memoParen runs parse for the parenthesised expression at the current
// token, or replays its earlier result. A result is only ever reused after
// the trial that first built it was undone, so no node is shared by two
// live parents.
func (p *Parser) memoParen(parse func() *Node) *Node {
	key := parenKey{p.pos, p.noGenericBrace}
	if r, ok := p.parens[key]; ok {
		p.pos = r.end
		for _, d := range r.diags {
			p.addDiagnostic(d)
		}
		if r.incomplete {
			p.incomplete = true
		}
		r.node.Field = ""
		return r.node
	}
	diags := len(p.diags)
	incomplete := p.incomplete
	node := parse()
	if p.aborted != nil {
		return node
	}
	if p.parens == nil {
		p.parens = make(map[parenKey]parenResult)
	}
	p.parens[key] = parenResult{
		node:       node,
		end:        p.pos,
		diags:      append([]Diagnostic(nil), p.diags[diags:]...),
		incomplete: p.incomplete && !incomplete,
	}
	return node
}

func (p *Parser) parseSourceFile() *Node {
	node := p.startNode(KindSourceFile)
	node.Span.Start = Position{File: p.file, Line: p.startLine, Column: 1}
	for !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.check(TokenRBrace) {
			node.AddChild(p.strayToken())
		} else {
			node.AddChild(p.parseTopLevel())
		}
		if !progress() {
			continue
		}
	}
	p.finishNode(node)
	node.Span.End = p.eofToken().Span.End
	return node
}

// strayToken turns a single unexpected closing token into an error node.
func (p *Parser) strayToken() *Node {
	tok := p.peek()
	msg := fmt.Sprintf("unexpected %s", describeToken(tok))
	p.syntaxError(tok, msg)
	p.countNode()
	p.advance()
	return &Node{Kind: KindError, Span: tok.Span, Error: &Error{Message: msg, Got: &tok}}
}

func (p *Parser) parseExpressionEntry() *Node {
	expr := p.parseExpr()
	if !p.check(TokenEOF) {
		tok := p.peek()
		p.syntaxError(tok, fmt.Sprintf("unexpected %s after expression", describeToken(tok)))
	}
	return expr
}
