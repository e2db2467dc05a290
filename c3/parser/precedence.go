package parser

// Precedence levels, lowest binding first.
const (
	PrecNone = iota
	PrecAssignment
	PrecTernary
	PrecOr
	PrecAnd
	PrecRelational
	PrecAdditive
	PrecBitwise
	PrecShift
	PrecMultiplicative
	PrecUnary
	PrecTrailing
	PrecField
	PrecSubscript
)

type Assoc int

const (
	AssocLeft Assoc = iota
	AssocRight
)

// OpInfo describes how an infix operator binds and which node it builds.
type OpInfo struct {
	Prec  int
	Assoc Assoc
	Kind  NodeKind
}

// binaryOps holds every infix operator. `?` is listed at the ternary tier
// even though it only builds a ternary_expr when a matching `:` follows;
// otherwise it is the optional suffix.
var binaryOps = map[TokenKind]OpInfo{
	TokenAssign:        {PrecAssignment, AssocRight, KindAssignmentExpr},
	TokenPlusAssign:    {PrecAssignment, AssocRight, KindAssignmentExpr},
	TokenMinusAssign:   {PrecAssignment, AssocRight, KindAssignmentExpr},
	TokenStarAssign:    {PrecAssignment, AssocRight, KindAssignmentExpr},
	TokenSlashAssign:   {PrecAssignment, AssocRight, KindAssignmentExpr},
	TokenPercentAssign: {PrecAssignment, AssocRight, KindAssignmentExpr},
	TokenAmpAssign:     {PrecAssignment, AssocRight, KindAssignmentExpr},
	TokenPipeAssign:    {PrecAssignment, AssocRight, KindAssignmentExpr},
	TokenCaretAssign:   {PrecAssignment, AssocRight, KindAssignmentExpr},
	TokenShlAssign:     {PrecAssignment, AssocRight, KindAssignmentExpr},
	TokenShrAssign:     {PrecAssignment, AssocRight, KindAssignmentExpr},

	TokenQuestion: {PrecTernary, AssocRight, KindTernaryExpr},
	TokenElvis:    {PrecTernary, AssocRight, KindElvisOrelseExpr},
	TokenOrElse:   {PrecTernary, AssocRight, KindElvisOrelseExpr},

	TokenOrOr:   {PrecOr, AssocLeft, KindBinaryExpr},
	TokenCtOrOr: {PrecOr, AssocLeft, KindBinaryExpr},

	TokenAndAnd:   {PrecAnd, AssocLeft, KindBinaryExpr},
	TokenCtAndAnd: {PrecAnd, AssocLeft, KindBinaryExpr},

	TokenEQ: {PrecRelational, AssocLeft, KindBinaryExpr},
	TokenNE: {PrecRelational, AssocLeft, KindBinaryExpr},
	TokenLT: {PrecRelational, AssocLeft, KindBinaryExpr},
	TokenLE: {PrecRelational, AssocLeft, KindBinaryExpr},
	TokenGT: {PrecRelational, AssocLeft, KindBinaryExpr},
	TokenGE: {PrecRelational, AssocLeft, KindBinaryExpr},

	TokenPlus:     {PrecAdditive, AssocLeft, KindBinaryExpr},
	TokenMinus:    {PrecAdditive, AssocLeft, KindBinaryExpr},
	TokenCtConcat: {PrecAdditive, AssocLeft, KindBinaryExpr},

	TokenAmp:   {PrecBitwise, AssocLeft, KindBinaryExpr},
	TokenPipe:  {PrecBitwise, AssocLeft, KindBinaryExpr},
	TokenCaret: {PrecBitwise, AssocLeft, KindBinaryExpr},

	TokenShl: {PrecShift, AssocLeft, KindBinaryExpr},
	TokenShr: {PrecShift, AssocLeft, KindBinaryExpr},

	TokenStar:    {PrecMultiplicative, AssocLeft, KindBinaryExpr},
	TokenSlash:   {PrecMultiplicative, AssocLeft, KindBinaryExpr},
	TokenPercent: {PrecMultiplicative, AssocLeft, KindBinaryExpr},
}

// unaryOps are the prefix operators. All bind at PrecUnary. A prefix `!!`
// is split into two `!` before lookup.
var unaryOps = map[TokenKind]bool{
	TokenAmp:       true,
	TokenAndAnd:    true,
	TokenStar:      true,
	TokenPlus:      true,
	TokenMinus:     true,
	TokenTilde:     true,
	TokenBang:      true,
	TokenIncrement: true,
	TokenDecrement: true,
}

// LookupBinary returns the binding of an infix operator token.
func LookupBinary(kind TokenKind) (OpInfo, bool) {
	info, ok := binaryOps[kind]
	return info, ok
}

// IsUnaryOp reports whether kind may start a prefix expression.
func IsUnaryOp(kind TokenKind) bool {
	return unaryOps[kind]
}

// nextMinPrec is the minimum level the right operand of op is parsed at.
func nextMinPrec(info OpInfo) int {
	if info.Assoc == AssocRight {
		return info.Prec
	}
	return info.Prec + 1
}
