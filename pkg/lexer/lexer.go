// Package lexer scans display templates into a flat token stream.
//
// The scanner never fails: any brace content that is not a recognized directive
// comes back as literal text.
package lexer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mediafusion/streamtmpl/pkg/position"
	"github.com/mediafusion/streamtmpl/pkg/split"
)

type Kind int

const (
	KindText Kind = iota
	KindVariable
	KindIf
	KindElif
	KindElse
	KindEndif
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindVariable:
		return "variable"
	case KindIf:
		return "if"
	case KindElif:
		return "elif"
	case KindElse:
		return "else"
	case KindEndif:
		return "endif"
	default:
		return "unknown"
	}
}

// Modifier is a reference to a named transform, as written after a `|`.
type Modifier struct {
	Name string
	// Arg is the raw, unparsed text between the parentheses.
	Arg    string
	HasArg bool
	Pos    position.RawPosition
}

type Token struct {
	Kind Kind
	// Text holds the literal for text tokens.
	Text string
	// Path and Modifiers are set for variable tokens.
	Path      string
	Modifiers []Modifier
	// Condition is the raw condition of if and elif tokens.
	Condition string
	// Pos spans the whole token in the source.
	Pos position.RawPosition
}

var (
	ifPattern       = regexp.MustCompile(`(?i)^\{if\s+([^}]+)\}`)
	elifPattern     = regexp.MustCompile(`(?i)^\{elif\s+([^}]+)\}`)
	elsePattern     = regexp.MustCompile(`(?i)^\{else\}`)
	endifPattern    = regexp.MustCompile(`(?i)^\{/if\}`)
	variablePattern = regexp.MustCompile(`^\{([a-zA-Z_][a-zA-Z0-9_.]*(?:\|[^}]+)?)\}`)
	modifierPattern = regexp.MustCompile(`(?s)^(\w+)\((.*)\)$`)
)

// Lex scans the whole template. Control directives are tried first (if, elif,
// else, endif), then variables, then literal text.
func Lex(input string) []Token {
	var tokens []Token
	pos := 0

	for pos < len(input) {
		rest := input[pos:]

		if m := ifPattern.FindStringSubmatchIndex(rest); m != nil {
			tokens = append(tokens, Token{
				Kind:      KindIf,
				Condition: rest[m[2]:m[3]],
				Pos:       position.NewBasicPosition(rest[:m[1]], pos),
			})
			pos += m[1]
			continue
		}

		if m := elifPattern.FindStringSubmatchIndex(rest); m != nil {
			tokens = append(tokens, Token{
				Kind:      KindElif,
				Condition: rest[m[2]:m[3]],
				Pos:       position.NewBasicPosition(rest[:m[1]], pos),
			})
			pos += m[1]
			continue
		}

		if m := elsePattern.FindStringIndex(rest); m != nil {
			tokens = append(tokens, Token{Kind: KindElse, Pos: position.NewBasicPosition(rest[:m[1]], pos)})
			pos += m[1]
			continue
		}

		if m := endifPattern.FindStringIndex(rest); m != nil {
			tokens = append(tokens, Token{Kind: KindEndif, Pos: position.NewBasicPosition(rest[:m[1]], pos)})
			pos += m[1]
			continue
		}

		if m := variablePattern.FindStringSubmatchIndex(rest); m != nil {
			tokens = append(tokens, variableToken(rest[m[2]:m[3]], pos+m[2], position.NewBasicPosition(rest[:m[1]], pos)))
			pos += m[1]
			continue
		}

		if rest[0] == '{' {
			tokens = append(tokens, Token{Kind: KindText, Text: "{", Pos: position.NewBasicPosition("{", pos)})
			pos++
			continue
		}

		end := strings.IndexByte(rest, '{')
		if end < 0 {
			end = len(rest)
		}
		tokens = append(tokens, Token{Kind: KindText, Text: rest[:end], Pos: position.NewBasicPosition(rest[:end], pos)})
		pos += end
	}

	return tokens
}

// ConditionPos locates the condition of an if or elif token. The condition
// always ends right before the closing brace.
func (t Token) ConditionPos() position.RawPosition {
	return ConditionPos(t.Pos, t.Condition)
}

func ConditionPos(directive position.RawPosition, cond string) position.RawPosition {
	start := len(directive.Text) - 1 - len(cond)
	if start < 0 || cond == "" {
		return position.NewBasicPosition("", directive.Offset)
	}
	return position.NewBasicPosition(cond, directive.Offset+start)
}

// variableToken splits `path|mod|mod(arg)` content found at byte offset start.
func variableToken(content string, start int, whole position.RawPosition) Token {
	parts := split.Split(content, '|')
	tok := Token{Kind: KindVariable, Pos: whole}
	if len(parts) == 0 {
		return tok
	}

	tok.Path = strings.TrimSpace(parts[0])

	offset := start + len(parts[0]) + 1
	for _, part := range parts[1:] {
		trimmed := strings.TrimSpace(part)
		lead := len(part) - len(strings.TrimLeftFunc(part, unicode.IsSpace))
		mod := Modifier{
			Name: trimmed,
			Pos:  position.NewBasicPosition(trimmed, offset+lead),
		}
		if m := modifierPattern.FindStringSubmatch(trimmed); m != nil {
			mod.Name = m[1]
			mod.Arg = m[2]
			mod.HasArg = true
		}
		tok.Modifiers = append(tok.Modifiers, mod)
		offset += len(part) + 1
	}

	return tok
}
