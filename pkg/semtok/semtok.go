package semtok

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/mediafusion/streamtmpl/pkg/eval"
	"github.com/mediafusion/streamtmpl/pkg/lexer"
	"github.com/mediafusion/streamtmpl/pkg/modifier"
	"github.com/mediafusion/streamtmpl/pkg/position"
)

type Option func(*generator)

// WithModifiers sets the registry used to tell known modifiers from unknown
// ones. The built-in registry is used by default.
func WithModifiers(mods *modifier.Registry) Option {
	return func(g *generator) {
		if mods != nil {
			g.modifiers = mods
		}
	}
}

type generator struct {
	modifiers *modifier.Registry
	tokens    []Token
}

// GetTokensForText returns semantic tokens for the whole template, sorted by
// offset. Directive braces are left unclassified.
func GetTokensForText(ctx context.Context, content string, opts ...Option) []Token {
	g := &generator{modifiers: modifier.Builtins(), tokens: make([]Token, 0)}
	for _, opt := range opts {
		opt(g)
	}

	for _, tok := range lexer.Lex(content) {
		switch tok.Kind {
		case lexer.KindText:
			g.emit(TokenText, ModifierNone, tok.Pos)
		case lexer.KindVariable:
			g.variable(tok)
		case lexer.KindIf, lexer.KindElif:
			g.keyword(tok)
			g.condition(tok.ConditionPos())
		case lexer.KindElse, lexer.KindEndif:
			g.keyword(tok)
		}
	}

	sort.SliceStable(g.tokens, func(i, j int) bool {
		return g.tokens[i].Range.Offset < g.tokens[j].Range.Offset
	})

	zerolog.Ctx(ctx).Trace().Int("tokens", len(g.tokens)).Msg("generated semantic tokens")

	return g.tokens
}

// GetTokensForRange returns the tokens of content that overlap ranged.
func GetTokensForRange(ctx context.Context, content string, ranged position.RawPosition, opts ...Option) []Token {
	out := make([]Token, 0)
	for _, tok := range GetTokensForText(ctx, content, opts...) {
		if tok.Range.HasRangeOverlapWith(ranged) {
			out = append(out, tok)
		}
	}
	return out
}

func (g *generator) emit(typ TokenType, mod TokenModifier, pos position.RawPosition) {
	if pos.Text == "" {
		return
	}
	g.tokens = append(g.tokens, Token{Type: typ, Modifier: mod, Range: pos})
}

// keyword emits the directive word between the braces, minus the condition.
func (g *generator) keyword(tok lexer.Token) {
	text := strings.TrimSuffix(strings.TrimPrefix(tok.Pos.Text, "{"), "}")
	if tok.Kind == lexer.KindIf || tok.Kind == lexer.KindElif {
		text = strings.TrimRightFunc(text[:len(text)-len(tok.Condition)], unicode.IsSpace)
	}
	g.emit(TokenKeyword, ModifierNone, position.NewBasicPosition(text, tok.Pos.Offset+1))
}

func (g *generator) variable(tok lexer.Token) {
	g.emit(TokenVariable, pathModifier(tok.Path), position.NewBasicPosition(tok.Path, tok.Pos.Offset+1))

	for _, mod := range tok.Modifiers {
		rel := mod.Pos.Offset - tok.Pos.Offset
		if pipe := strings.LastIndex(tok.Pos.Text[:rel], "|"); pipe >= 0 {
			g.emit(TokenOperator, ModifierNone, position.NewBasicPosition("|", tok.Pos.Offset+pipe))
		}

		kind := ModifierDeprecated
		if _, ok := g.modifiers.Lookup(mod.Name); ok {
			kind = ModifierDefaultLibrary
		}
		g.emit(TokenFunction, kind, position.NewBasicPosition(mod.Name, mod.Pos.Offset))

		if mod.HasArg {
			g.emit(TokenString, ModifierNone, position.NewBasicPosition(mod.Arg, mod.Pos.Offset+len(mod.Name)+1))
		}
	}
}

func (g *generator) condition(cond position.RawPosition) {
	for _, part := range eval.Parts(cond.Text) {
		pos := position.NewBasicPosition(part.Text, cond.Offset+part.Offset)
		switch part.Kind {
		case eval.PartConnective, eval.PartOperator:
			g.emit(TokenOperator, ModifierNone, pos)
		case eval.PartOperand:
			switch eval.ClassifyOperand(part.Text) {
			case eval.OperandString:
				g.emit(TokenString, ModifierReadonly, pos)
			case eval.OperandNumber:
				g.emit(TokenNumber, ModifierReadonly, pos)
			case eval.OperandBool:
				g.emit(TokenKeyword, ModifierReadonly, pos)
			case eval.OperandPath:
				g.emit(TokenVariable, pathModifier(part.Text), pos)
			}
		}
	}
}

func pathModifier(path string) TokenModifier {
	if _, blocked := eval.BlockedSegment(path); blocked {
		return ModifierDeprecated
	}
	return ModifierNone
}
