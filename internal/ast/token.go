package ast

import "janus/internal/source"

// TokenKind classifies the tokens the semantic core actually inspects. The
// front end produces a richer stream; everything it does not need to
// distinguish arrives as TokOther.
type TokenKind uint8

const (
	TokInvalid TokenKind = iota
	TokIdent
	TokIntLit
	TokFloatLit
	TokStringLit
	TokTrue
	TokFalse

	// operators
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokPercent
	TokEqEq
	TokNotEq
	TokLt
	TokLtEq
	TokGt
	TokGtEq
	TokAndAnd
	TokOrOr
	TokBang
	TokAssign
	TokAmp
	TokRange
	TokRangeEq
	TokDot

	TokOther
)

func (k TokenKind) String() string {
	switch k {
	case TokIdent:
		return "ident"
	case TokIntLit:
		return "int"
	case TokFloatLit:
		return "float"
	case TokStringLit:
		return "string"
	case TokTrue:
		return "true"
	case TokFalse:
		return "false"
	case TokPlus:
		return "+"
	case TokMinus:
		return "-"
	case TokStar:
		return "*"
	case TokSlash:
		return "/"
	case TokPercent:
		return "%"
	case TokEqEq:
		return "=="
	case TokNotEq:
		return "!="
	case TokLt:
		return "<"
	case TokLtEq:
		return "<="
	case TokGt:
		return ">"
	case TokGtEq:
		return ">="
	case TokAndAnd:
		return "&&"
	case TokOrOr:
		return "||"
	case TokBang:
		return "!"
	case TokAssign:
		return "="
	case TokAmp:
		return "&"
	case TokRange:
		return ".."
	case TokRangeEq:
		return "..="
	case TokDot:
		return "."
	case TokOther:
		return "other"
	default:
		return "invalid"
	}
}

// Token is one lexeme as stored in a unit. Text is interned and may be
// NoStringID for punctuation.
type Token struct {
	Kind TokenKind
	Text source.StringID
	Span source.Span
}
