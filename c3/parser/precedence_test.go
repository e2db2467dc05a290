package parser

import "testing"

func TestBinaryPrecedenceOrder(t *testing.T) {
	// Each operator binds tighter than the one before it.
	order := []TokenKind{
		TokenAssign,
		TokenQuestion,
		TokenOrOr,
		TokenAndAnd,
		TokenEQ,
		TokenPlus,
		TokenPipe,
		TokenShl,
		TokenStar,
	}
	for i := 1; i < len(order); i++ {
		lo, _ := LookupBinary(order[i-1])
		hi, _ := LookupBinary(order[i])
		if lo.Prec >= hi.Prec {
			t.Errorf("%v (%d) should bind looser than %v (%d)", order[i-1], lo.Prec, order[i], hi.Prec)
		}
	}
}

func TestBinaryOperatorTable(t *testing.T) {
	tests := []struct {
		kind  TokenKind
		prec  int
		assoc Assoc
		node  NodeKind
	}{
		{TokenShrAssign, PrecAssignment, AssocRight, KindAssignmentExpr},
		{TokenElvis, PrecTernary, AssocRight, KindElvisOrelseExpr},
		{TokenOrElse, PrecTernary, AssocRight, KindElvisOrelseExpr},
		{TokenCtOrOr, PrecOr, AssocLeft, KindBinaryExpr},
		{TokenCtAndAnd, PrecAnd, AssocLeft, KindBinaryExpr},
		{TokenGE, PrecRelational, AssocLeft, KindBinaryExpr},
		{TokenCtConcat, PrecAdditive, AssocLeft, KindBinaryExpr},
		{TokenCaret, PrecBitwise, AssocLeft, KindBinaryExpr},
		{TokenShr, PrecShift, AssocLeft, KindBinaryExpr},
		{TokenPercent, PrecMultiplicative, AssocLeft, KindBinaryExpr},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			info, ok := LookupBinary(tt.kind)
			if !ok {
				t.Fatal("not a binary operator")
			}
			if info.Prec != tt.prec || info.Assoc != tt.assoc || info.Kind != tt.node {
				t.Errorf("got %+v, want {%d %d %v}", info, tt.prec, tt.assoc, tt.node)
			}
		})
	}
}

func TestNotBinaryOperators(t *testing.T) {
	for _, kind := range []TokenKind{TokenDot, TokenDotDot, TokenColon, TokenBang, TokenIncrement, TokenTilde} {
		if _, ok := LookupBinary(kind); ok {
			t.Errorf("%v should not be a binary operator", kind)
		}
	}
}

func TestUnaryOperators(t *testing.T) {
	for _, kind := range []TokenKind{TokenAmp, TokenAndAnd, TokenStar, TokenPlus, TokenMinus, TokenTilde, TokenBang, TokenIncrement, TokenDecrement} {
		if !IsUnaryOp(kind) {
			t.Errorf("%v should be a prefix operator", kind)
		}
	}
	for _, kind := range []TokenKind{TokenSlash, TokenBangBang, TokenQuestion} {
		if IsUnaryOp(kind) {
			t.Errorf("%v should not be a prefix operator", kind)
		}
	}
}

func TestNextMinPrec(t *testing.T) {
	info, _ := LookupBinary(TokenAssign)
	if got := nextMinPrec(info); got != PrecAssignment {
		t.Errorf("right-associative next = %d, want %d", got, PrecAssignment)
	}
	info, _ = LookupBinary(TokenMinus)
	if got := nextMinPrec(info); got != PrecAdditive+1 {
		t.Errorf("left-associative next = %d, want %d", got, PrecAdditive+1)
	}
}
