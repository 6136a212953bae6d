// Package parser builds the conditional tree of a display template from its
// token stream.
//
// Parsing is deliberately permissive. An `{if}` without `{/if}` runs to the end
// of input, and `{elif}`, `{else}` or `{/if}` tokens that no open conditional is
// waiting for are dropped. Both cases are recorded in Skipped so tooling can
// report them, but the rendered output never depends on that report.
package parser

import (
	"strings"

	"github.com/mediafusion/streamtmpl/pkg/ast"
	"github.com/mediafusion/streamtmpl/pkg/lexer"
	"github.com/mediafusion/streamtmpl/pkg/position"
)

// DefaultMaxDepth bounds conditional nesting, and with it the recursion depth of
// both the parser and the renderer.
const DefaultMaxDepth = 64

type SkipReason int

const (
	// SkipOrphan marks an elif, else or endif with no conditional expecting it.
	SkipOrphan SkipReason = iota + 1
	// SkipTooDeep marks an if that would nest deeper than the configured limit.
	SkipTooDeep
)

func (r SkipReason) String() string {
	switch r {
	case SkipOrphan:
		return "orphan"
	case SkipTooDeep:
		return "too-deep"
	default:
		return "unknown"
	}
}

type Skipped struct {
	Token  lexer.Token
	Reason SkipReason
}

type Option func(*Parser)

// WithMaxDepth sets the nesting limit. Values below one keep the default.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

type Parser struct {
	tokens   []lexer.Token
	pos      int
	maxDepth int
	skipped  []Skipped
}

func New(tokens []lexer.Token, opts ...Option) *Parser {
	p := &Parser{tokens: tokens, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseString lexes and parses input in one step.
func ParseString(input string, opts ...Option) []ast.Node {
	return New(lexer.Lex(input), opts...).Parse()
}

// Parse consumes every token and returns the top-level node list.
func (p *Parser) Parse() []ast.Node {
	p.pos = 0
	p.skipped = nil
	return p.parseBlock(nil, 0)
}

// Skipped lists the control tokens dropped by the last Parse call.
func (p *Parser) Skipped() []Skipped {
	return p.skipped
}

var (
	branchEnd = []lexer.Kind{lexer.KindElif, lexer.KindElse, lexer.KindEndif}
	elseEnd   = []lexer.Kind{lexer.KindEndif}
)

func (p *Parser) parseBlock(stop []lexer.Kind, depth int) []ast.Node {
	var nodes []ast.Node

	for p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]

		switch tok.Kind {
		case lexer.KindText:
			nodes = append(nodes, &ast.TextNode{Text: tok.Text, Pos: tok.Pos})
			p.pos++
		case lexer.KindVariable:
			nodes = append(nodes, &ast.VariableNode{Path: tok.Path, Modifiers: tok.Modifiers, Pos: tok.Pos})
			p.pos++
		case lexer.KindIf:
			if depth >= p.maxDepth {
				p.skip(tok, SkipTooDeep)
				continue
			}
			nodes = append(nodes, p.parseConditional(depth+1))
		default:
			if expects(stop, tok.Kind) {
				return nodes
			}
			p.skip(tok, SkipOrphan)
		}
	}

	return nodes
}

// parseConditional is entered with p.pos on an if token.
func (p *Parser) parseConditional(depth int) *ast.ConditionalNode {
	start := p.pos
	open := p.tokens[p.pos]
	p.pos++

	cond := &ast.ConditionalNode{
		If: ast.Branch{
			Condition: open.Condition,
			Pos:       open.Pos,
			Body:      p.parseBlock(branchEnd, depth),
		},
	}

	for p.peek(lexer.KindElif) {
		tok := p.tokens[p.pos]
		p.pos++
		cond.Elifs = append(cond.Elifs, ast.Branch{
			Condition: tok.Condition,
			Pos:       tok.Pos,
			Body:      p.parseBlock(branchEnd, depth),
		})
	}

	if p.peek(lexer.KindElse) {
		p.pos++
		cond.Else = p.parseBlock(elseEnd, depth)
	}

	if p.peek(lexer.KindEndif) {
		p.pos++
		cond.Closed = true
	}

	cond.Pos = p.span(start, p.pos)
	return cond
}

func (p *Parser) peek(kind lexer.Kind) bool {
	return p.pos < len(p.tokens) && p.tokens[p.pos].Kind == kind
}

func (p *Parser) skip(tok lexer.Token, reason SkipReason) {
	p.skipped = append(p.skipped, Skipped{Token: tok, Reason: reason})
	p.pos++
}

// span rebuilds the source covered by tokens[from:to]. Tokens are contiguous,
// so concatenating their text reproduces the original input.
func (p *Parser) span(from, to int) position.RawPosition {
	if from >= to {
		return position.RawPosition{}
	}
	var sb strings.Builder
	for _, tok := range p.tokens[from:to] {
		sb.WriteString(tok.Pos.Text)
	}
	return position.NewBasicPosition(sb.String(), p.tokens[from].Pos.Offset)
}

func expects(stop []lexer.Kind, kind lexer.Kind) bool {
	for _, k := range stop {
		if k == kind {
			return true
		}
	}
	return false
}
