package parser

// ScanState is the state the lexer hands to a ContextScanner. Each state
// corresponds to one construct that cannot be recognised from local context.
type ScanState int

const (
	ScanIdle ScanState = iota
	ScanBlockComment
	ScanDocComment
	ScanRealLiteral
)

var scanStateNames = map[ScanState]string{
	ScanIdle:         "idle",
	ScanBlockComment: "in-block-comment",
	ScanDocComment:   "in-doc-comment",
	ScanRealLiteral:  "scanning-real-literal",
}

func (s ScanState) String() string {
	if name, ok := scanStateNames[s]; ok {
		return name
	}
	return "unknown"
}

type ScanOutcome int

const (
	// ScanEmit means the construct is complete and ends at ScanResult.End.
	ScanEmit ScanOutcome = iota
	// ScanUnterminated means input ran out before the closing delimiter.
	ScanUnterminated
	// ScanContract means a doc comment contract line starts at ScanResult.End.
	ScanContract
	// ScanReject means the input is not a real literal; nothing is consumed.
	ScanReject
)

type ScanResult struct {
	End     int
	Next    ScanState
	Outcome ScanOutcome
}

// A ContextScanner recognises the bodies of block comments and doc comments
// and real literals. Scan starts at pos in src with the given state and
// commits every byte up to the returned End.
//
// For ScanBlockComment and ScanDocComment, pos points just past the opener
// (or, for doc comments, at the point where a previous call stopped).
// For ScanRealLiteral, pos points at the first digit of the number.
type ContextScanner interface {
	Scan(state ScanState, src []byte, pos int) ScanResult
}

// DefaultScanner is the ContextScanner used by NewLexer.
var DefaultScanner ContextScanner = contextScanner{}

type contextScanner struct{}

func (contextScanner) Scan(state ScanState, src []byte, pos int) ScanResult {
	switch state {
	case ScanBlockComment:
		return scanBlockCommentBody(src, pos)
	case ScanDocComment:
		return scanDocCommentBody(src, pos)
	case ScanRealLiteral:
		return scanRealLiteral(src, pos)
	}
	return ScanResult{End: pos, Next: ScanIdle, Outcome: ScanReject}
}

// Block comments nest: every `/*` inside the body needs its own `*/`.
func scanBlockCommentBody(src []byte, pos int) ScanResult {
	depth := 1
	for pos < len(src) {
		switch {
		case src[pos] == '/' && pos+1 < len(src) && src[pos+1] == '*':
			depth++
			pos += 2
		case src[pos] == '*' && pos+1 < len(src) && src[pos+1] == '/':
			depth--
			pos += 2
			if depth == 0 {
				return ScanResult{End: pos, Next: ScanIdle, Outcome: ScanEmit}
			}
		default:
			pos++
		}
	}
	return ScanResult{End: len(src), Next: ScanIdle, Outcome: ScanUnterminated}
}

// scanDocCommentBody consumes description text. It stops after `*>`, or at
// an `@` that is the first non-blank character of a line (optionally after
// a leading `*`), in which case the caller owns the contract line.
func scanDocCommentBody(src []byte, pos int) ScanResult {
	lineStart := pos == 0 || isContractLineStart(src, pos)
	for pos < len(src) {
		ch := src[pos]
		if ch == '*' && pos+1 < len(src) && src[pos+1] == '>' {
			return ScanResult{End: pos + 2, Next: ScanIdle, Outcome: ScanEmit}
		}
		if ch == '@' && lineStart {
			return ScanResult{End: pos, Next: ScanDocComment, Outcome: ScanContract}
		}
		switch ch {
		case '\n':
			lineStart = true
		case ' ', '\t', '\r':
		case '*':
			// A leading `*` column marker keeps the line start.
		default:
			lineStart = false
		}
		pos++
	}
	return ScanResult{End: len(src), Next: ScanIdle, Outcome: ScanUnterminated}
}

// isContractLineStart reports whether only blanks and `*` markers separate
// pos from the previous newline or from the `<*` opener.
func isContractLineStart(src []byte, pos int) bool {
	for i := pos - 1; i >= 0; i-- {
		switch src[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
		case '*':
			if i > 0 && src[i-1] == '<' {
				return true
			}
		default:
			return false
		}
	}
	return true
}

// scanRealLiteral accepts decimal reals (`1.5`, `1e9`, `1.5e-3`, `2f`,
// `1.0f32`) and hex reals (`0x1.8p3`). A `.` is only taken when a digit or
// exponent follows it and never when it starts `..`. A hex real needs its
// `p` exponent, so `0xFF.abs()` stays an integer followed by a member.
func scanRealLiteral(src []byte, pos int) ScanResult {
	reject := ScanResult{End: pos, Next: ScanIdle, Outcome: ScanReject}
	at := func(i int) byte {
		if i < len(src) {
			return src[i]
		}
		return 0
	}

	i := pos
	hex := at(i) == '0' && (at(i+1) == 'x' || at(i+1) == 'X')
	digit := isDigit
	if hex {
		i += 2
		digit = isHexDigit
	}
	start := i
	i = skipDigits(src, i, digit)
	if i == start {
		return reject
	}

	real := false
	if at(i) == '.' && at(i+1) != '.' {
		switch {
		case digit(at(i + 1)):
			i = skipDigits(src, i+1, digit)
			real = true
		case !hex && (at(i+1) == 'e' || at(i+1) == 'E') && exponentFollows(src, i+2):
			i++
		}
	}

	expLower, expUpper := byte('e'), byte('E')
	if hex {
		expLower, expUpper = 'p', 'P'
	}
	exponent := false
	if (at(i) == expLower || at(i) == expUpper) && exponentFollows(src, i+1) {
		i++
		if at(i) == '+' || at(i) == '-' {
			i++
		}
		i = skipDigits(src, i, isDigit)
		real = true
		exponent = true
	}
	if hex && !exponent {
		return reject
	}

	if end, ok := scanFloatSuffix(src, i); ok {
		i = end
		real = true
	}

	if !real {
		return reject
	}
	return ScanResult{End: i, Next: ScanIdle, Outcome: ScanEmit}
}

func exponentFollows(src []byte, i int) bool {
	if i < len(src) && (src[i] == '+' || src[i] == '-') {
		i++
	}
	return i < len(src) && isDigit(src[i])
}

func skipDigits(src []byte, i int, digit func(byte) bool) int {
	for i < len(src) {
		if digit(src[i]) {
			i++
			continue
		}
		if src[i] == '_' && i+1 < len(src) && digit(src[i+1]) && i > 0 && digit(src[i-1]) {
			i++
			continue
		}
		break
	}
	return i
}

var floatSuffixes = []string{"f128", "f16", "f32", "f64", "f", "d"}

func scanFloatSuffix(src []byte, i int) (int, bool) {
	for _, suffix := range floatSuffixes {
		end := i + len(suffix)
		if end > len(src) || string(src[i:end]) != suffix {
			continue
		}
		if end < len(src) && isIdentChar(src[end]) {
			continue
		}
		return end, true
	}
	return i, false
}
