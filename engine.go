// Package streamtmpl renders stream title and description templates.
//
// Templates mix literal text with `{path|modifier(arg)}` variables and
// `{if cond}...{elif cond}...{else}...{/if}` blocks. Rendering never fails:
// missing data prints nothing, malformed directives print as text, and
// unknown modifiers are ignored. Output must match the serving backend's
// renderer exactly, so operator precedence, the blocked path segments and the
// blank-line pass are fixed.
package streamtmpl

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/mediafusion/streamtmpl/pkg/ast"
	"github.com/mediafusion/streamtmpl/pkg/lexer"
	"github.com/mediafusion/streamtmpl/pkg/modifier"
	"github.com/mediafusion/streamtmpl/pkg/parser"
	"github.com/mediafusion/streamtmpl/pkg/render"
	"github.com/mediafusion/streamtmpl/pkg/value"
)

type Option func(*Engine)

// WithMaxDepth bounds conditional nesting. Deeper {if} directives are dropped.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// WithModifiers replaces the modifier registry. Output then no longer matches
// the serving backend unless it uses the same set.
func WithModifiers(mods *modifier.Registry) Option {
	return func(e *Engine) {
		if mods != nil {
			e.modifiers = mods
		}
	}
}

// Engine is immutable after New and safe for concurrent use.
type Engine struct {
	maxDepth  int
	modifiers *modifier.Registry
	renderer  *render.Renderer
}

func New(opts ...Option) *Engine {
	e := &Engine{
		maxDepth:  parser.DefaultMaxDepth,
		modifiers: modifier.Builtins(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.renderer = render.New(e.modifiers)
	return e
}

func (e *Engine) MaxDepth() int                { return e.maxDepth }
func (e *Engine) Modifiers() *modifier.Registry { return e.modifiers }

// Parse lexes and parses template, returning the tree and the control tokens
// that were dropped on the way.
func (e *Engine) Parse(template string) ([]ast.Node, []parser.Skipped) {
	p := parser.New(lexer.Lex(template), parser.WithMaxDepth(e.maxDepth))
	nodes := p.Parse()
	return nodes, p.Skipped()
}

// Render renders template against data.
func (e *Engine) Render(ctx context.Context, template string, data value.Value) string {
	nodes, skipped := e.Parse(template)

	out := e.renderer.Render(ctx, nodes, data)

	zerolog.Ctx(ctx).Trace().
		Int("template_len", len(template)).
		Int("nodes", len(nodes)).
		Int("skipped_tokens", len(skipped)).
		Int("output_len", len(out)).
		Msg("rendered template")

	return out
}

// RenderAny converts plain Go data (for example decoded JSON) before rendering.
func (e *Engine) RenderAny(ctx context.Context, template string, data any) string {
	return e.Render(ctx, template, value.FromAny(data))
}

var defaultEngine = New()

// Render renders template with the default engine.
func Render(ctx context.Context, template string, data any) string {
	return defaultEngine.RenderAny(ctx, template, data)
}
