package semtok

import (
	"github.com/mediafusion/streamtmpl/pkg/position"
)

// TokenType represents the semantic meaning of a token
type TokenType uint32

const (
	// TokenText is literal template text
	TokenText TokenType = iota + 1

	// TokenKeyword is a directive keyword (if, elif, else, /if)
	TokenKeyword

	// TokenVariable is a context path, in a variable or a condition
	TokenVariable

	// TokenFunction is a modifier name
	TokenFunction

	// TokenString is a modifier argument or a quoted condition operand
	TokenString

	// TokenNumber is a numeric condition operand
	TokenNumber

	// TokenOperator covers `|`, comparison operators and and/or/not
	TokenOperator
)

// TokenModifier represents additional characteristics of a token
type TokenModifier uint32

const (
	// ModifierNone indicates no special characteristics
	ModifierNone TokenModifier = 0

	// ModifierReadonly marks literal operands (quoted, numeric, true/false)
	ModifierReadonly TokenModifier = 1 << iota

	// ModifierDefaultLibrary marks modifiers found in the registry
	ModifierDefaultLibrary

	// ModifierDeprecated marks names that render as nothing: unknown
	// modifiers and blocked paths
	ModifierDeprecated
)

// Token represents a semantic token with its type, modifiers, and position
type Token struct {
	Type     TokenType
	Modifier TokenModifier
	Range    position.RawPosition
}

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "text"
	case TokenKeyword:
		return "keyword"
	case TokenVariable:
		return "variable"
	case TokenFunction:
		return "function"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenOperator:
		return "operator"
	default:
		return "unknown"
	}
}

func (m TokenModifier) String() string {
	switch m {
	case ModifierNone:
		return "none"
	case ModifierReadonly:
		return "readonly"
	case ModifierDefaultLibrary:
		return "defaultLibrary"
	case ModifierDeprecated:
		return "deprecated"
	default:
		return "unknown"
	}
}
