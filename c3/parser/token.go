package parser

import "fmt"

type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Span struct {
	Start Position
	End   Position
}

// String formats the span as file:line:col-line:col, naming the file once.
func (s Span) String() string {
	if s.Start.File != "" {
		return s.Start.File + ":" + s.lineCols()
	}
	return s.lineCols()
}

func (s Span) lineCols() string {
	return fmt.Sprintf("%d:%d-%d:%d", s.Start.Line, s.Start.Column, s.End.Line, s.End.Column)
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return other.Start.Offset >= s.Start.Offset && other.End.Offset <= s.End.Offset
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError

	// Trivia
	TokenWhitespace
	TokenLineComment
	TokenBlockComment
	TokenDocComment

	// Identifiers
	TokenIdent
	TokenConstIdent
	TokenTypeIdent
	TokenCtIdent
	TokenCtConstIdent
	TokenCtTypeIdent
	TokenAtIdent
	TokenAtTypeIdent
	TokenHashIdent
	TokenBuiltin

	// Literals
	TokenIntLiteral
	TokenRealLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenRawStringLiteral
	TokenBytesLiteral
	TokenTrue
	TokenFalse
	TokenNull

	// Keywords
	TokenBaseType
	TokenAlias
	TokenAsm
	TokenAssert
	TokenAttrdef
	TokenBitstruct
	TokenBreak
	TokenCase
	TokenCatch
	TokenConst
	TokenContinue
	TokenDefault
	TokenDefer
	TokenDo
	TokenElse
	TokenEnum
	TokenExtern
	TokenFaultdef
	TokenFn
	TokenFor
	TokenForeach
	TokenForeachR
	TokenIf
	TokenImport
	TokenInline
	TokenInterface
	TokenMacro
	TokenModule
	TokenNextcase
	TokenReturn
	TokenStatic
	TokenStruct
	TokenSwitch
	TokenTlocal
	TokenTry
	TokenTypedef
	TokenUnion
	TokenVar
	TokenWhile

	// Compile-time keywords
	TokenCtAlignof
	TokenCtAssert
	TokenCtAssignable
	TokenCtCase
	TokenCtDefault
	TokenCtDefined
	TokenCtEcho
	TokenCtElse
	TokenCtEmbed
	TokenCtEndfor
	TokenCtEndforeach
	TokenCtEndif
	TokenCtEndswitch
	TokenCtError
	TokenCtEval
	TokenCtEvaltype
	TokenCtExec
	TokenCtExtnameof
	TokenCtFeature
	TokenCtFor
	TokenCtForeach
	TokenCtIf
	TokenCtInclude
	TokenCtIsConst
	TokenCtNameof
	TokenCtOffsetof
	TokenCtQnameof
	TokenCtSizeof
	TokenCtStringify
	TokenCtSwitch
	TokenCtTypefrom
	TokenCtTypeof
	TokenCtVaarg
	TokenCtVaconst
	TokenCtVacount
	TokenCtVaexpr
	TokenCtVasplat
	TokenCtVatype

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenLVector
	TokenRVector
	TokenSemicolon
	TokenComma
	TokenDot
	TokenDotDot
	TokenEllipsis
	TokenColon
	TokenColonColon
	TokenImplies

	TokenAssign
	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenAmp
	TokenPipe
	TokenCaret
	TokenTilde
	TokenBang
	TokenBangBang
	TokenQuestion
	TokenElvis
	TokenOrElse
	TokenAndAnd
	TokenOrOr
	TokenCtAndAnd
	TokenCtOrOr
	TokenCtConcat
	TokenShl
	TokenShr
	TokenIncrement
	TokenDecrement
	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenAmpAssign
	TokenPipeAssign
	TokenCaretAssign
	TokenShlAssign
	TokenShrAssign
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:              "EOF",
	TokenError:            "Error",
	TokenWhitespace:       "Whitespace",
	TokenLineComment:      "LineComment",
	TokenBlockComment:     "BlockComment",
	TokenDocComment:       "DocComment",
	TokenIdent:            "Ident",
	TokenConstIdent:       "ConstIdent",
	TokenTypeIdent:        "TypeIdent",
	TokenCtIdent:          "CtIdent",
	TokenCtConstIdent:     "CtConstIdent",
	TokenCtTypeIdent:      "CtTypeIdent",
	TokenAtIdent:          "AtIdent",
	TokenAtTypeIdent:      "AtTypeIdent",
	TokenHashIdent:        "HashIdent",
	TokenBuiltin:          "Builtin",
	TokenIntLiteral:       "IntLiteral",
	TokenRealLiteral:      "RealLiteral",
	TokenCharLiteral:      "CharLiteral",
	TokenStringLiteral:    "StringLiteral",
	TokenRawStringLiteral: "RawStringLiteral",
	TokenBytesLiteral:     "BytesLiteral",
	TokenTrue:             "true",
	TokenFalse:            "false",
	TokenNull:             "null",
	TokenBaseType:         "BaseType",
	TokenAlias:            "alias",
	TokenAsm:              "asm",
	TokenAssert:           "assert",
	TokenAttrdef:          "attrdef",
	TokenBitstruct:        "bitstruct",
	TokenBreak:            "break",
	TokenCase:             "case",
	TokenCatch:            "catch",
	TokenConst:            "const",
	TokenContinue:         "continue",
	TokenDefault:          "default",
	TokenDefer:            "defer",
	TokenDo:               "do",
	TokenElse:             "else",
	TokenEnum:             "enum",
	TokenExtern:           "extern",
	TokenFaultdef:         "faultdef",
	TokenFn:               "fn",
	TokenFor:              "for",
	TokenForeach:          "foreach",
	TokenForeachR:         "foreach_r",
	TokenIf:               "if",
	TokenImport:           "import",
	TokenInline:           "inline",
	TokenInterface:        "interface",
	TokenMacro:            "macro",
	TokenModule:           "module",
	TokenNextcase:         "nextcase",
	TokenReturn:           "return",
	TokenStatic:           "static",
	TokenStruct:           "struct",
	TokenSwitch:           "switch",
	TokenTlocal:           "tlocal",
	TokenTry:              "try",
	TokenTypedef:          "typedef",
	TokenUnion:            "union",
	TokenVar:              "var",
	TokenWhile:            "while",
	TokenCtAlignof:        "$alignof",
	TokenCtAssert:         "$assert",
	TokenCtAssignable:     "$assignable",
	TokenCtCase:           "$case",
	TokenCtDefault:        "$default",
	TokenCtDefined:        "$defined",
	TokenCtEcho:           "$echo",
	TokenCtElse:           "$else",
	TokenCtEmbed:          "$embed",
	TokenCtEndfor:         "$endfor",
	TokenCtEndforeach:     "$endforeach",
	TokenCtEndif:          "$endif",
	TokenCtEndswitch:      "$endswitch",
	TokenCtError:          "$error",
	TokenCtEval:           "$eval",
	TokenCtEvaltype:       "$evaltype",
	TokenCtExec:           "$exec",
	TokenCtExtnameof:      "$extnameof",
	TokenCtFeature:        "$feature",
	TokenCtFor:            "$for",
	TokenCtForeach:        "$foreach",
	TokenCtIf:             "$if",
	TokenCtInclude:        "$include",
	TokenCtIsConst:        "$is_const",
	TokenCtNameof:         "$nameof",
	TokenCtOffsetof:       "$offsetof",
	TokenCtQnameof:        "$qnameof",
	TokenCtSizeof:         "$sizeof",
	TokenCtStringify:      "$stringify",
	TokenCtSwitch:         "$switch",
	TokenCtTypefrom:       "$typefrom",
	TokenCtTypeof:         "$typeof",
	TokenCtVaarg:          "$vaarg",
	TokenCtVaconst:        "$vaconst",
	TokenCtVacount:        "$vacount",
	TokenCtVaexpr:         "$vaexpr",
	TokenCtVasplat:        "$vasplat",
	TokenCtVatype:         "$vatype",
	TokenLParen:           "(",
	TokenRParen:           ")",
	TokenLBrace:           "{",
	TokenRBrace:           "}",
	TokenLBracket:         "[",
	TokenRBracket:         "]",
	TokenLVector:          "[<",
	TokenRVector:          ">]",
	TokenSemicolon:        ";",
	TokenComma:            ",",
	TokenDot:              ".",
	TokenDotDot:           "..",
	TokenEllipsis:         "...",
	TokenColon:            ":",
	TokenColonColon:       "::",
	TokenImplies:          "=>",
	TokenAssign:           "=",
	TokenEQ:               "==",
	TokenNE:               "!=",
	TokenLT:               "<",
	TokenLE:               "<=",
	TokenGT:               ">",
	TokenGE:               ">=",
	TokenPlus:             "+",
	TokenMinus:            "-",
	TokenStar:             "*",
	TokenSlash:            "/",
	TokenPercent:          "%",
	TokenAmp:              "&",
	TokenPipe:             "|",
	TokenCaret:            "^",
	TokenTilde:            "~",
	TokenBang:             "!",
	TokenBangBang:         "!!",
	TokenQuestion:         "?",
	TokenElvis:            "?:",
	TokenOrElse:           "??",
	TokenAndAnd:           "&&",
	TokenOrOr:             "||",
	TokenCtAndAnd:         "&&&",
	TokenCtOrOr:           "|||",
	TokenCtConcat:         "+++",
	TokenShl:              "<<",
	TokenShr:              ">>",
	TokenIncrement:        "++",
	TokenDecrement:        "--",
	TokenPlusAssign:       "+=",
	TokenMinusAssign:      "-=",
	TokenStarAssign:       "*=",
	TokenSlashAssign:      "/=",
	TokenPercentAssign:    "%=",
	TokenAmpAssign:        "&=",
	TokenPipeAssign:       "|=",
	TokenCaretAssign:      "^=",
	TokenShlAssign:        "<<=",
	TokenShrAssign:        ">>=",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsTrivia reports whether tokens of this kind are carried for reproduction
// only and never take part in grammar decisions.
func (k TokenKind) IsTrivia() bool {
	switch k {
	case TokenWhitespace, TokenLineComment, TokenBlockComment, TokenDocComment:
		return true
	}
	return false
}

type Token struct {
	Kind    TokenKind
	Span    Span
	Literal string
	// Trivia is set for whitespace and comments.
	Trivia bool
	// Unterminated is set on comments and quoted literals that reached the
	// end of input without a closing delimiter.
	Unterminated bool
}

var keywords = map[string]TokenKind{
	"alias":     TokenAlias,
	"asm":       TokenAsm,
	"assert":    TokenAssert,
	"attrdef":   TokenAttrdef,
	"bitstruct": TokenBitstruct,
	"break":     TokenBreak,
	"case":      TokenCase,
	"catch":     TokenCatch,
	"const":     TokenConst,
	"continue":  TokenContinue,
	"default":   TokenDefault,
	"defer":     TokenDefer,
	"do":        TokenDo,
	"else":      TokenElse,
	"enum":      TokenEnum,
	"extern":    TokenExtern,
	"false":     TokenFalse,
	"faultdef":  TokenFaultdef,
	"fn":        TokenFn,
	"for":       TokenFor,
	"foreach":   TokenForeach,
	"foreach_r": TokenForeachR,
	"if":        TokenIf,
	"import":    TokenImport,
	"inline":    TokenInline,
	"interface": TokenInterface,
	"macro":     TokenMacro,
	"module":    TokenModule,
	"nextcase":  TokenNextcase,
	"null":      TokenNull,
	"return":    TokenReturn,
	"static":    TokenStatic,
	"struct":    TokenStruct,
	"switch":    TokenSwitch,
	"tlocal":    TokenTlocal,
	"true":      TokenTrue,
	"try":       TokenTry,
	"typedef":   TokenTypedef,
	"union":     TokenUnion,
	"var":       TokenVar,
	"while":     TokenWhile,

	"void":     TokenBaseType,
	"bool":     TokenBaseType,
	"char":     TokenBaseType,
	"ichar":    TokenBaseType,
	"short":    TokenBaseType,
	"ushort":   TokenBaseType,
	"int":      TokenBaseType,
	"uint":     TokenBaseType,
	"long":     TokenBaseType,
	"ulong":    TokenBaseType,
	"int128":   TokenBaseType,
	"uint128":  TokenBaseType,
	"float":    TokenBaseType,
	"double":   TokenBaseType,
	"float16":  TokenBaseType,
	"bfloat16": TokenBaseType,
	"float128": TokenBaseType,
	"iptr":     TokenBaseType,
	"uptr":     TokenBaseType,
	"isz":      TokenBaseType,
	"usz":      TokenBaseType,
	"fault":    TokenBaseType,
	"any":      TokenBaseType,
	"typeid":   TokenBaseType,
}

var ctKeywords = map[string]TokenKind{
	"$alignof":    TokenCtAlignof,
	"$assert":     TokenCtAssert,
	"$assignable": TokenCtAssignable,
	"$case":       TokenCtCase,
	"$default":    TokenCtDefault,
	"$defined":    TokenCtDefined,
	"$echo":       TokenCtEcho,
	"$else":       TokenCtElse,
	"$embed":      TokenCtEmbed,
	"$endfor":     TokenCtEndfor,
	"$endforeach": TokenCtEndforeach,
	"$endif":      TokenCtEndif,
	"$endswitch":  TokenCtEndswitch,
	"$error":      TokenCtError,
	"$eval":       TokenCtEval,
	"$evaltype":   TokenCtEvaltype,
	"$exec":       TokenCtExec,
	"$extnameof":  TokenCtExtnameof,
	"$feature":    TokenCtFeature,
	"$for":        TokenCtFor,
	"$foreach":    TokenCtForeach,
	"$if":         TokenCtIf,
	"$include":    TokenCtInclude,
	"$is_const":   TokenCtIsConst,
	"$nameof":     TokenCtNameof,
	"$offsetof":   TokenCtOffsetof,
	"$qnameof":    TokenCtQnameof,
	"$sizeof":     TokenCtSizeof,
	"$stringify":  TokenCtStringify,
	"$switch":     TokenCtSwitch,
	"$typefrom":   TokenCtTypefrom,
	"$typeof":     TokenCtTypeof,
	"$vaarg":      TokenCtVaarg,
	"$vaconst":    TokenCtVaconst,
	"$vacount":    TokenCtVacount,
	"$vaexpr":     TokenCtVaexpr,
	"$vasplat":    TokenCtVasplat,
	"$vatype":     TokenCtVatype,
}

// LookupKeyword returns the keyword kind for ident, or kind unchanged when
// ident is not reserved.
func LookupKeyword(ident string, kind TokenKind) TokenKind {
	if kw, ok := keywords[ident]; ok {
		return kw
	}
	return kind
}

// LookupCtKeyword resolves a `$`-prefixed word to its compile-time keyword.
func LookupCtKeyword(word string, kind TokenKind) TokenKind {
	if kw, ok := ctKeywords[word]; ok {
		return kw
	}
	return kind
}
