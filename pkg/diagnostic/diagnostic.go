// Package diagnostic reports problems in display templates.
//
// Rendering tolerates everything reported here; diagnostics exist so authors
// can see why a preview looks the way it does.
package diagnostic

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/mediafusion/streamtmpl/pkg/ast"
	"github.com/mediafusion/streamtmpl/pkg/eval"
	"github.com/mediafusion/streamtmpl/pkg/lexer"
	"github.com/mediafusion/streamtmpl/pkg/modifier"
	"github.com/mediafusion/streamtmpl/pkg/parser"
	"github.com/mediafusion/streamtmpl/pkg/position"
)

// Diagnostics groups findings by severity, each in source order.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Hints    []Diagnostic
}

type Diagnostic struct {
	Message  string
	Location position.RawPosition
	Range    position.Range
	Severity DiagnosticSeverity
}

type DiagnosticSeverity string

const (
	Error   DiagnosticSeverity = "error"
	Warning DiagnosticSeverity = "warning"
	Hint    DiagnosticSeverity = "hint"
)

type Option func(*generator)

func WithMaxDepth(depth int) Option {
	return func(g *generator) {
		if depth > 0 {
			g.maxDepth = depth
		}
	}
}

func WithModifiers(mods *modifier.Registry) Option {
	return func(g *generator) {
		if mods != nil {
			g.modifiers = mods
		}
	}
}

type generator struct {
	text      string
	maxDepth  int
	modifiers *modifier.Registry
	out       *Diagnostics
}

// Generate lints template.
func Generate(ctx context.Context, template string, opts ...Option) *Diagnostics {
	g := &generator{
		text:      template,
		maxDepth:  parser.DefaultMaxDepth,
		modifiers: modifier.Builtins(),
		out: &Diagnostics{
			Errors:   make([]Diagnostic, 0),
			Warnings: make([]Diagnostic, 0),
			Hints:    make([]Diagnostic, 0),
		},
	}
	for _, opt := range opts {
		opt(g)
	}

	tokens := lexer.Lex(template)
	for _, tok := range tokens {
		if tok.Kind == lexer.KindText && tok.Text == "{" {
			g.add(Hint, tok.Pos, "'{' does not start a directive and is printed as text")
		}
	}

	p := parser.New(tokens, parser.WithMaxDepth(g.maxDepth))
	nodes := p.Parse()

	for _, skipped := range p.Skipped() {
		switch skipped.Reason {
		case parser.SkipOrphan:
			g.add(Warning, skipped.Token.Pos, fmt.Sprintf("%s has no open {if} and is ignored", skipped.Token.Pos.Text))
		case parser.SkipTooDeep:
			g.add(Error, skipped.Token.Pos, fmt.Sprintf("conditional nesting deeper than %d; this {if} is ignored", g.maxDepth))
		}
	}

	ast.Walk(nodes, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.VariableNode:
			g.checkVariable(node)
		case *ast.ConditionalNode:
			if !node.Closed {
				g.add(Warning, node.If.Pos, "{if} is never closed and runs to the end of the template")
			}
			g.checkCondition(node.If)
			for _, elif := range node.Elifs {
				g.checkCondition(elif)
			}
		}
		return true
	})

	zerolog.Ctx(ctx).Debug().
		Int("errors", len(g.out.Errors)).
		Int("warnings", len(g.out.Warnings)).
		Int("hints", len(g.out.Hints)).
		Msg("linted template")

	return g.out
}

func (g *generator) checkVariable(node *ast.VariableNode) {
	if seg, ok := eval.BlockedSegment(node.Path); ok {
		loc, found := node.Pos.Sub(node.Path, 0)
		if !found {
			loc = node.Pos
		}
		g.add(Error, loc, fmt.Sprintf("path segment %q is blocked; %q always renders empty", seg, node.Path))
	}

	for _, mod := range node.Modifiers {
		if _, ok := g.modifiers.Lookup(mod.Name); !ok {
			g.add(Warning, mod.Pos, fmt.Sprintf("unknown modifier %q is ignored", mod.Name))
		}
	}
}

func (g *generator) checkCondition(branch ast.Branch) {
	condPos := branch.ConditionPos()
	for _, part := range eval.Parts(branch.Condition) {
		if part.Kind != eval.PartOperand {
			continue
		}
		loc := position.NewBasicPosition(part.Text, condPos.Offset+part.Offset)

		switch eval.ClassifyOperand(part.Text) {
		case eval.OperandEmpty:
			g.add(Warning, loc, "comparison is missing an operand")
		case eval.OperandPath:
			if seg, ok := eval.BlockedSegment(part.Text); ok {
				g.add(Error, loc, fmt.Sprintf("path segment %q is blocked; %q never reads the context", seg, part.Text))
			}
		}
	}
}

func (g *generator) add(severity DiagnosticSeverity, loc position.RawPosition, msg string) {
	d := Diagnostic{
		Message:  msg,
		Location: loc,
		Range:    loc.GetRange(g.text),
		Severity: severity,
	}
	switch severity {
	case Error:
		g.out.Errors = append(g.out.Errors, d)
	case Warning:
		g.out.Warnings = append(g.out.Warnings, d)
	default:
		g.out.Hints = append(g.out.Hints, d)
	}
}

// All returns every diagnostic, errors first.
func (d *Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Hints))
	out = append(out, d.Errors...)
	out = append(out, d.Warnings...)
	out = append(out, d.Hints...)
	return out
}

// Err folds the error-severity diagnostics into one error, or nil.
func (d *Diagnostics) Err() error {
	var result *multierror.Error
	for _, diag := range d.Errors {
		result = multierror.Append(result, errors.Errorf("%d:%d: %s", diag.Range.Start.Line+1, diag.Range.Start.Character, diag.Message))
	}
	return result.ErrorOrNil()
}
