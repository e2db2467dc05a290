package parser

import "fmt"

type Lexer struct {
	input       []byte
	file        string
	pos         int
	line        int
	column      int
	scanner     ContextScanner
	diagnostics []Diagnostic
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:   input,
		file:    file,
		pos:     0,
		line:    1,
		column:  1,
		scanner: DefaultScanner,
	}
}

// SetScanner replaces the context scanner used for comments and reals.
func (l *Lexer) SetScanner(s ContextScanner) {
	l.scanner = s
}

// Diagnostics returns the lexical and unterminated-construct problems found
// so far.
func (l *Lexer) Diagnostics() []Diagnostic {
	return l.diagnostics
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

// advanceTo moves the lexer to offset end, keeping line and column current.
func (l *Lexer) advanceTo(end int) {
	for l.pos < end && l.pos < len(l.input) {
		l.advance()
	}
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: l.Position()},
		Literal: string(l.input[start.Offset:l.pos]),
		Trivia:  kind.IsTrivia(),
	}
}

func (l *Lexer) report(kind DiagnosticKind, span Span, format string, args ...any) {
	l.diagnostics = append(l.diagnostics, Diagnostic{
		Kind:    kind,
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	})
}

func (l *Lexer) errorToken(start Position, format string, args ...any) Token {
	tok := l.token(TokenError, start)
	l.report(DiagLexical, tok.Span, format, args...)
	return tok
}

func (l *Lexer) unterminated(tok Token, what string) Token {
	tok.Unterminated = true
	l.report(DiagUnterminated, tok.Span, "unterminated %s", what)
	return tok
}

// NextToken returns the next token, trivia included. At end of input it
// returns TokenEOF, and keeps doing so on further calls.
func (l *Lexer) NextToken() Token {
	startPos := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: startPos, End: startPos}}
	}

	ch := l.peek()

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(startPos)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(startPos)
	}
	if ch == '<' && l.peekN(1) == '*' {
		return l.scanDocComment(startPos)
	}

	if isWhitespace(ch) {
		return l.scanWhitespace(startPos)
	}

	if (ch == 'x' || ch == 'b') && l.isBytesPrefix() {
		return l.scanBytesLiteral(startPos)
	}

	if isIdentStart(ch) {
		return l.scanIdentOrKeyword(startPos)
	}

	if isDigit(ch) {
		return l.scanNumber(startPos)
	}

	switch ch {
	case '$':
		return l.scanDollar(startPos)
	case '@':
		return l.scanAt(startPos)
	case '#':
		return l.scanHash(startPos)
	case '\'':
		return l.scanCharLiteral(startPos)
	case '"':
		return l.scanStringLiteral(startPos)
	case '`':
		return l.scanRawString(startPos)
	}

	return l.scanOperator(startPos)
}

func (l *Lexer) scanWhitespace(start Position) Token {
	for isWhitespace(l.peek()) {
		l.advance()
	}
	return l.token(TokenWhitespace, start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	for l.pos < len(l.input) && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenLineComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	res := l.scanner.Scan(ScanBlockComment, l.input, l.pos)
	l.advanceTo(res.End)
	tok := l.token(TokenBlockComment, start)
	if res.Outcome == ScanUnterminated {
		return l.unterminated(tok, "block comment")
	}
	return tok
}

// scanDocComment lexes `<* ... *>` as a single trivia token. The context
// scanner stops at every contract line; those run to the end of their line
// and may close the comment.
func (l *Lexer) scanDocComment(start Position) Token {
	l.advanceN(2)
	for {
		res := l.scanner.Scan(ScanDocComment, l.input, l.pos)
		l.advanceTo(res.End)
		switch res.Outcome {
		case ScanContract:
			l.skipContractLine()
			if l.pos >= len(l.input) {
				return l.unterminated(l.token(TokenDocComment, start), "doc comment")
			}
			continue
		case ScanUnterminated:
			return l.unterminated(l.token(TokenDocComment, start), "doc comment")
		}
		return l.token(TokenDocComment, start)
	}
}

// skipContractLine advances to the next newline, or to a `*>` closer that
// ends the line, skipping over quoted strings.
func (l *Lexer) skipContractLine() {
	l.advanceTo(contractLineEnd(l.input, l.pos))
}

// contractLineEnd returns the offset where the contract line starting at
// pos ends: the next newline or `*>` outside a string literal.
func contractLineEnd(src []byte, pos int) int {
	for pos < len(src) {
		ch := src[pos]
		switch {
		case ch == '\n':
			return pos
		case ch == '*' && pos+1 < len(src) && src[pos+1] == '>':
			return pos
		case ch == '"':
			pos++
			for pos < len(src) && src[pos] != '"' && src[pos] != '\n' {
				if src[pos] == '\\' {
					pos++
				}
				pos++
			}
			if pos < len(src) && src[pos] == '"' {
				pos++
			}
		default:
			pos++
		}
	}
	return len(src)
}

// scanWord consumes [_a-zA-Z0-9]* and returns it.
func (l *Lexer) scanWord() string {
	start := l.pos
	for isIdentChar(l.peek()) {
		l.advance()
	}
	return string(l.input[start:l.pos])
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	word := l.scanWord()
	switch classifyWord(word) {
	case wordIdent:
		return l.token(LookupKeyword(word, TokenIdent), start)
	case wordType:
		return l.token(TokenTypeIdent, start)
	case wordConst:
		return l.token(TokenConstIdent, start)
	}
	return l.errorToken(start, "invalid identifier %q", word)
}

func (l *Lexer) scanDollar(start Position) Token {
	if l.peekN(1) == '$' {
		l.advanceN(2)
		word := l.scanWord()
		switch classifyWord(word) {
		case wordIdent, wordConst, wordType:
			return l.token(TokenBuiltin, start)
		}
		return l.errorToken(start, "invalid builtin name %q", "$$"+word)
	}
	l.advance()
	word := l.scanWord()
	if kw := LookupCtKeyword("$"+word, TokenError); kw != TokenError {
		return l.token(kw, start)
	}
	switch classifyWord(word) {
	case wordIdent:
		return l.token(TokenCtIdent, start)
	case wordType:
		return l.token(TokenCtTypeIdent, start)
	case wordConst:
		return l.token(TokenCtConstIdent, start)
	}
	return l.errorToken(start, "invalid compile-time identifier %q", "$"+word)
}

func (l *Lexer) scanAt(start Position) Token {
	l.advance()
	word := l.scanWord()
	switch classifyWord(word) {
	case wordIdent:
		return l.token(TokenAtIdent, start)
	case wordType:
		return l.token(TokenAtTypeIdent, start)
	}
	return l.errorToken(start, "invalid attribute name %q", "@"+word)
}

func (l *Lexer) scanHash(start Position) Token {
	l.advance()
	word := l.scanWord()
	if classifyWord(word) == wordIdent {
		return l.token(TokenHashIdent, start)
	}
	return l.errorToken(start, "invalid expression parameter name %q", "#"+word)
}

func (l *Lexer) scanNumber(start Position) Token {
	res := l.scanner.Scan(ScanRealLiteral, l.input, l.pos)
	if res.Outcome == ScanEmit {
		l.advanceTo(res.End)
		return l.finishNumber(TokenRealLiteral, start)
	}

	digit := isDigit
	if l.peek() == '0' {
		switch l.peekN(1) {
		case 'x', 'X':
			digit = isHexDigit
			l.advanceN(2)
		case 'o', 'O':
			digit = isOctalDigit
			l.advanceN(2)
		case 'b', 'B':
			digit = isBinaryDigit
			l.advanceN(2)
		}
	}
	digitsStart := l.pos
	l.advanceTo(skipDigits(l.input, l.pos, digit))
	if l.pos == digitsStart {
		l.scanWord()
		return l.errorToken(start, "malformed integer literal %q", string(l.input[start.Offset:l.pos]))
	}
	l.advanceTo(scanIntSuffix(l.input, l.pos))
	return l.finishNumber(TokenIntLiteral, start)
}

// finishNumber rejects numbers run together with identifier characters,
// such as `12ab`, consuming the whole run as one error token.
func (l *Lexer) finishNumber(kind TokenKind, start Position) Token {
	if isIdentChar(l.peek()) {
		l.scanWord()
		return l.errorToken(start, "malformed number %q", string(l.input[start.Offset:l.pos]))
	}
	return l.token(kind, start)
}

var intSuffixes = []string{
	"i128", "u128", "i16", "u16", "i32", "u32", "i64", "u64", "i8", "u8",
	"UL", "Ul", "uL", "ul", "U", "u", "L", "l",
}

func scanIntSuffix(src []byte, i int) int {
	for _, suffix := range intSuffixes {
		end := i + len(suffix)
		if end <= len(src) && string(src[i:end]) == suffix {
			return end
		}
	}
	return i
}

func (l *Lexer) scanCharLiteral(start Position) Token {
	l.advance()
	n := 0
	for {
		ch := l.peek()
		if l.pos >= len(l.input) || ch == '\n' {
			return l.unterminated(l.token(TokenCharLiteral, start), "character literal")
		}
		if ch == '\'' {
			l.advance()
			break
		}
		if ch == '\\' {
			l.scanEscape()
		} else {
			l.advance()
		}
		n++
	}
	tok := l.token(TokenCharLiteral, start)
	if n == 0 {
		l.report(DiagLexical, tok.Span, "empty character literal")
	}
	return tok
}

func (l *Lexer) scanStringLiteral(start Position) Token {
	l.advance()
	for {
		ch := l.peek()
		if l.pos >= len(l.input) || ch == '\n' {
			return l.unterminated(l.token(TokenStringLiteral, start), "string literal")
		}
		if ch == '"' {
			l.advance()
			return l.token(TokenStringLiteral, start)
		}
		if ch == '\\' {
			l.scanEscape()
		} else {
			l.advance()
		}
	}
}

// Raw strings have no escapes except a doubled backtick.
func (l *Lexer) scanRawString(start Position) Token {
	l.advance()
	for l.pos < len(l.input) {
		if l.peek() == '`' {
			if l.peekN(1) == '`' {
				l.advanceN(2)
				continue
			}
			l.advance()
			return l.token(TokenRawStringLiteral, start)
		}
		l.advance()
	}
	return l.unterminated(l.token(TokenRawStringLiteral, start), "raw string literal")
}

func (l *Lexer) scanEscape() {
	escStart := l.Position()
	l.advance()
	ch := l.peek()
	switch ch {
	case '0', 'a', 'b', 'e', 'f', 'n', 'r', 't', 'v', '\'', '"', '\\':
		l.advance()
		return
	case 'x':
		l.scanHexEscape(escStart, 2)
		return
	case 'u':
		l.scanHexEscape(escStart, 4)
		return
	case 'U':
		l.scanHexEscape(escStart, 8)
		return
	}
	if l.pos < len(l.input) && ch != '\n' {
		l.advance()
	}
	l.report(DiagLexical, Span{Start: escStart, End: l.Position()}, "invalid escape sequence %q", string(l.input[escStart.Offset:l.pos]))
}

func (l *Lexer) scanHexEscape(escStart Position, n int) {
	l.advance()
	for i := 0; i < n; i++ {
		if !isHexDigit(l.peek()) {
			l.report(DiagLexical, Span{Start: escStart, End: l.Position()}, "escape sequence needs %d hex digits", n)
			return
		}
		l.advance()
	}
}

func (l *Lexer) isBytesPrefix() bool {
	if l.peek() == 'x' {
		return isQuote(l.peekN(1))
	}
	return l.peekN(1) == '6' && l.peekN(2) == '4' && isQuote(l.peekN(3))
}

// scanBytesLiteral lexes `x"..."` hex payloads and `b64"..."` base64
// payloads, with any of the three quote characters.
func (l *Lexer) scanBytesLiteral(start Position) Token {
	valid := isHexDigit
	if l.peek() == 'b' {
		valid = isBase64Char
		l.advanceN(3)
	} else {
		l.advance()
	}
	quote := l.advance()
	bad := false
	for {
		if l.pos >= len(l.input) {
			return l.unterminated(l.token(TokenBytesLiteral, start), "bytes literal")
		}
		ch := l.peek()
		if ch == quote {
			l.advance()
			break
		}
		if !valid(ch) && !isWhitespace(ch) {
			bad = true
		}
		l.advance()
	}
	tok := l.token(TokenBytesLiteral, start)
	if bad {
		l.report(DiagLexical, tok.Span, "invalid character in bytes literal")
	}
	return tok
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.advance()
	switch ch {
	case '(':
		return l.token(TokenLParen, start)
	case ')':
		return l.token(TokenRParen, start)
	case '{':
		return l.token(TokenLBrace, start)
	case '}':
		return l.token(TokenRBrace, start)
	case '[':
		if l.peek() == '<' {
			l.advance()
			return l.token(TokenLVector, start)
		}
		return l.token(TokenLBracket, start)
	case ']':
		return l.token(TokenRBracket, start)
	case ';':
		return l.token(TokenSemicolon, start)
	case ',':
		return l.token(TokenComma, start)
	case '~':
		return l.token(TokenTilde, start)
	case '.':
		if l.peek() == '.' {
			l.advance()
			if l.peek() == '.' {
				l.advance()
				return l.token(TokenEllipsis, start)
			}
			return l.token(TokenDotDot, start)
		}
		return l.token(TokenDot, start)
	case ':':
		if l.peek() == ':' {
			l.advance()
			return l.token(TokenColonColon, start)
		}
		return l.token(TokenColon, start)
	case '=':
		switch l.peek() {
		case '=':
			l.advance()
			return l.token(TokenEQ, start)
		case '>':
			l.advance()
			return l.token(TokenImplies, start)
		}
		return l.token(TokenAssign, start)
	case '!':
		switch l.peek() {
		case '=':
			l.advance()
			return l.token(TokenNE, start)
		case '!':
			l.advance()
			return l.token(TokenBangBang, start)
		}
		return l.token(TokenBang, start)
	case '?':
		switch l.peek() {
		case ':':
			l.advance()
			return l.token(TokenElvis, start)
		case '?':
			l.advance()
			return l.token(TokenOrElse, start)
		}
		return l.token(TokenQuestion, start)
	case '<':
		switch l.peek() {
		case '=':
			l.advance()
			return l.token(TokenLE, start)
		case '<':
			l.advance()
			if l.peek() == '=' {
				l.advance()
				return l.token(TokenShlAssign, start)
			}
			return l.token(TokenShl, start)
		}
		return l.token(TokenLT, start)
	case '>':
		switch l.peek() {
		case '=':
			l.advance()
			return l.token(TokenGE, start)
		case '>':
			l.advance()
			if l.peek() == '=' {
				l.advance()
				return l.token(TokenShrAssign, start)
			}
			return l.token(TokenShr, start)
		case ']':
			l.advance()
			return l.token(TokenRVector, start)
		}
		return l.token(TokenGT, start)
	case '+':
		switch l.peek() {
		case '+':
			l.advance()
			if l.peek() == '+' {
				l.advance()
				return l.token(TokenCtConcat, start)
			}
			return l.token(TokenIncrement, start)
		case '=':
			l.advance()
			return l.token(TokenPlusAssign, start)
		}
		return l.token(TokenPlus, start)
	case '-':
		switch l.peek() {
		case '-':
			l.advance()
			return l.token(TokenDecrement, start)
		case '=':
			l.advance()
			return l.token(TokenMinusAssign, start)
		}
		return l.token(TokenMinus, start)
	case '*':
		if l.peek() == '=' {
			l.advance()
			return l.token(TokenStarAssign, start)
		}
		return l.token(TokenStar, start)
	case '/':
		if l.peek() == '=' {
			l.advance()
			return l.token(TokenSlashAssign, start)
		}
		return l.token(TokenSlash, start)
	case '%':
		if l.peek() == '=' {
			l.advance()
			return l.token(TokenPercentAssign, start)
		}
		return l.token(TokenPercent, start)
	case '^':
		if l.peek() == '=' {
			l.advance()
			return l.token(TokenCaretAssign, start)
		}
		return l.token(TokenCaret, start)
	case '&':
		switch l.peek() {
		case '&':
			l.advance()
			if l.peek() == '&' {
				l.advance()
				return l.token(TokenCtAndAnd, start)
			}
			return l.token(TokenAndAnd, start)
		case '=':
			l.advance()
			return l.token(TokenAmpAssign, start)
		}
		return l.token(TokenAmp, start)
	case '|':
		switch l.peek() {
		case '|':
			l.advance()
			if l.peek() == '|' {
				l.advance()
				return l.token(TokenCtOrOr, start)
			}
			return l.token(TokenOrOr, start)
		case '=':
			l.advance()
			return l.token(TokenPipeAssign, start)
		}
		return l.token(TokenPipe, start)
	}
	// Skip the rest of a multi-byte UTF-8 sequence so the error token covers
	// one whole character.
	for l.pos < len(l.input) && l.peek()&0xC0 == 0x80 {
		l.advance()
	}
	return l.errorToken(start, "unexpected character %q", string(l.input[start.Offset:l.pos]))
}

type wordClass int

const (
	wordInvalid wordClass = iota
	wordIdent
	wordType
	wordConst
)

// classifyWord applies the case rules shared by plain and sigil-prefixed
// identifiers once leading underscores are stripped: lowercase first letter
// is an identifier, uppercase with any lowercase letter later is a type
// name, and all-uppercase is a constant.
func classifyWord(word string) wordClass {
	i := 0
	for i < len(word) && word[i] == '_' {
		i++
	}
	if i == len(word) {
		return wordInvalid
	}
	first := word[i]
	switch {
	case first >= 'a' && first <= 'z':
		return wordIdent
	case first >= 'A' && first <= 'Z':
		for _, ch := range []byte(word[i+1:]) {
			if ch >= 'a' && ch <= 'z' {
				return wordType
			}
		}
		return wordConst
	}
	return wordInvalid
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == '\v'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isOctalDigit(ch byte) bool {
	return ch >= '0' && ch <= '7'
}

func isBinaryDigit(ch byte) bool {
	return ch == '0' || ch == '1'
}

func isBase64Char(ch byte) bool {
	return isIdentStart(ch) && ch != '_' || isDigit(ch) || ch == '+' || ch == '/' || ch == '='
}

func isQuote(ch byte) bool {
	return ch == '"' || ch == '\'' || ch == '`'
}

// unterminatedAtEOF reports whether a comment or literal ran into the end
// of input.
func (l *Lexer) unterminatedAtEOF() bool {
	for _, d := range l.diagnostics {
		if d.Kind == DiagUnterminated && d.Span.End.Offset == len(l.input) {
			return true
		}
	}
	return false
}
