package syntax

import "strings"

// TokenKind classifies a terminal of the grammar.
type TokenKind uint16

const (
	TokenEOF TokenKind = iota
	TokenInvalid

	// Literals
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral

	// Keywords
	TokenBool
	TokenBreak
	TokenChar
	TokenConst
	TokenContinue
	TokenDo
	TokenDouble
	TokenElse
	TokenExtern
	TokenFloat
	TokenFor
	TokenIf
	TokenInt
	TokenLong
	TokenReturn
	TokenShort
	TokenSigned
	TokenSizeof
	TokenStatic
	TokenStruct
	TokenUnsigned
	TokenVoid
	TokenWhile

	// Operators and punctuation
	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenArrow
	TokenQuestion
	TokenColon

	TokenAssign
	TokenEQ
	TokenNE
	TokenLT
	TokenLE
	TokenGT
	TokenGE
	TokenAnd
	TokenOr
	TokenNot
	TokenBitAnd
	TokenBitOr
	TokenBitXor
	TokenBitNot
	TokenShl
	TokenShr
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenIncrement
	TokenDecrement

	TokenPlusAssign
	TokenMinusAssign
	TokenStarAssign
	TokenSlashAssign
	TokenPercentAssign
	TokenAndAssign
	TokenOrAssign
	TokenXorAssign
	TokenShlAssign
	TokenShrAssign

	tokenKindCount
)

//nolint:gochecknoglobals // Read-only lookup table.
var tokenKindNames = [tokenKindCount]string{
	TokenEOF:           "EOF",
	TokenInvalid:       "Invalid",
	TokenIdent:         "Identifier",
	TokenIntLiteral:    "IntLiteral",
	TokenFloatLiteral:  "FloatLiteral",
	TokenCharLiteral:   "CharLiteral",
	TokenStringLiteral: "StringLiteral",
	TokenBool:          "bool",
	TokenBreak:         "break",
	TokenChar:          "char",
	TokenConst:         "const",
	TokenContinue:      "continue",
	TokenDo:            "do",
	TokenDouble:        "double",
	TokenElse:          "else",
	TokenExtern:        "extern",
	TokenFloat:         "float",
	TokenFor:           "for",
	TokenIf:            "if",
	TokenInt:           "int",
	TokenLong:          "long",
	TokenReturn:        "return",
	TokenShort:         "short",
	TokenSigned:        "signed",
	TokenSizeof:        "sizeof",
	TokenStatic:        "static",
	TokenStruct:        "struct",
	TokenUnsigned:      "unsigned",
	TokenVoid:          "void",
	TokenWhile:         "while",
	TokenLParen:        "(",
	TokenRParen:        ")",
	TokenLBrace:        "{",
	TokenRBrace:        "}",
	TokenLBracket:      "[",
	TokenRBracket:      "]",
	TokenSemicolon:     ";",
	TokenComma:         ",",
	TokenDot:           ".",
	TokenEllipsis:      "...",
	TokenArrow:         "->",
	TokenQuestion:      "?",
	TokenColon:         ":",
	TokenAssign:        "=",
	TokenEQ:            "==",
	TokenNE:            "!=",
	TokenLT:            "<",
	TokenLE:            "<=",
	TokenGT:            ">",
	TokenGE:            ">=",
	TokenAnd:           "&&",
	TokenOr:            "||",
	TokenNot:           "!",
	TokenBitAnd:        "&",
	TokenBitOr:         "|",
	TokenBitXor:        "^",
	TokenBitNot:        "~",
	TokenShl:           "<<",
	TokenShr:           ">>",
	TokenPlus:          "+",
	TokenMinus:         "-",
	TokenStar:          "*",
	TokenSlash:         "/",
	TokenPercent:       "%",
	TokenIncrement:     "++",
	TokenDecrement:     "--",
	TokenPlusAssign:    "+=",
	TokenMinusAssign:   "-=",
	TokenStarAssign:    "*=",
	TokenSlashAssign:   "/=",
	TokenPercentAssign: "%=",
	TokenAndAssign:     "&=",
	TokenOrAssign:      "|=",
	TokenXorAssign:     "^=",
	TokenShlAssign:     "<<=",
	TokenShrAssign:     ">>=",
}

func (k TokenKind) String() string {
	if k < tokenKindCount {
		return tokenKindNames[k]
	}
	return "Unknown"
}

// Spelling returns the fixed source text of keywords and punctuation, or ""
// for kinds whose text varies (identifiers, literals, EOF, invalid).
func (k TokenKind) Spelling() string {
	if k.IsKeyword() || k.IsPunctuation() {
		return tokenKindNames[k]
	}
	return ""
}

// Describe returns a human-readable description for diagnostics,
// such as "';'" or "identifier".
func (k TokenKind) Describe() string {
	switch k {
	case TokenEOF:
		return "end of file"
	case TokenIdent:
		return "identifier"
	case TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral, TokenStringLiteral:
		return "literal"
	case TokenInvalid:
		return "invalid token"
	default:
		if s := k.Spelling(); s != "" {
			return "'" + s + "'"
		}
		return k.String()
	}
}

// IsKeyword reports whether k is a reserved word.
func (k TokenKind) IsKeyword() bool {
	return k >= TokenBool && k <= TokenWhile
}

// IsPunctuation reports whether k is an operator or punctuator.
func (k TokenKind) IsPunctuation() bool {
	return k >= TokenLParen && k < tokenKindCount
}

// IsLiteral reports whether k is a literal constant.
func (k TokenKind) IsLiteral() bool {
	return k >= TokenIntLiteral && k <= TokenStringLiteral
}

// IsTypeKeyword reports whether k can begin a declaration's type.
func (k TokenKind) IsTypeKeyword() bool {
	switch k {
	case TokenBool, TokenChar, TokenConst, TokenDouble, TokenExtern, TokenFloat, TokenInt,
		TokenLong, TokenShort, TokenSigned, TokenStatic, TokenStruct, TokenUnsigned, TokenVoid:
		return true
	default:
		return false
	}
}

// IsAssignment reports whether k is "=" or a compound assignment.
func (k TokenKind) IsAssignment() bool {
	return k == TokenAssign || (k >= TokenPlusAssign && k <= TokenShrAssign)
}

//nolint:gochecknoglobals // Read-only lookup table.
var keywords = map[string]TokenKind{
	"bool":     TokenBool,
	"break":    TokenBreak,
	"char":     TokenChar,
	"const":    TokenConst,
	"continue": TokenContinue,
	"do":       TokenDo,
	"double":   TokenDouble,
	"else":     TokenElse,
	"extern":   TokenExtern,
	"float":    TokenFloat,
	"for":      TokenFor,
	"if":       TokenIf,
	"int":      TokenInt,
	"long":     TokenLong,
	"return":   TokenReturn,
	"short":    TokenShort,
	"signed":   TokenSigned,
	"sizeof":   TokenSizeof,
	"static":   TokenStatic,
	"struct":   TokenStruct,
	"unsigned": TokenUnsigned,
	"void":     TokenVoid,
	"while":    TokenWhile,
}

// LookupKeyword returns the keyword kind for ident, or TokenIdent.
func LookupKeyword(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return TokenIdent
}

// TokenFlags records lexical anomalies on a token.
type TokenFlags uint8

const (
	// FlagUnterminatedComment marks a token whose leading trivia ends in a
	// block comment that runs to end of input.
	FlagUnterminatedComment TokenFlags = 1 << iota

	// FlagUnterminatedLiteral marks an invalid token produced by a string or
	// character literal with no closing quote.
	FlagUnterminatedLiteral
)

// Token is a terminal with its attached trivia. It carries no absolute
// position, so the same Token can be shared by trees of different versions.
// Text and trivia text are views into the source buffer.
type Token struct {
	Kind     TokenKind
	Text     string
	Leading  []Trivia
	Trailing []Trivia
	Flags    TokenFlags
}

// LeadingWidth returns the byte length of the leading trivia.
func (t *Token) LeadingWidth() int {
	return triviaWidth(t.Leading)
}

// TrailingWidth returns the byte length of the trailing trivia.
func (t *Token) TrailingWidth() int {
	return triviaWidth(t.Trailing)
}

// FullWidth returns the length of leading trivia, text and trailing trivia.
func (t *Token) FullWidth() int {
	return t.LeadingWidth() + len(t.Text) + t.TrailingWidth()
}

// FullText reproduces the exact source covered by the token.
func (t *Token) FullText() string {
	var sb strings.Builder
	sb.Grow(t.FullWidth())
	t.writeTo(&sb)
	return sb.String()
}

func (t *Token) writeTo(sb *strings.Builder) {
	for _, tr := range t.Leading {
		sb.WriteString(tr.Text)
	}
	sb.WriteString(t.Text)
	for _, tr := range t.Trailing {
		sb.WriteString(tr.Text)
	}
}

// Equal reports whether two tokens have the same kind, text, trivia and flags.
func (t *Token) Equal(other *Token) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	return t.Kind == other.Kind &&
		t.Text == other.Text &&
		t.Flags == other.Flags &&
		triviaEqual(t.Leading, other.Leading) &&
		triviaEqual(t.Trailing, other.Trailing)
}
