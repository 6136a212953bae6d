// Package render walks a parsed template and produces the final display text.
package render

import (
	"context"
	"strings"

	"github.com/mediafusion/streamtmpl/pkg/ast"
	"github.com/mediafusion/streamtmpl/pkg/eval"
	"github.com/mediafusion/streamtmpl/pkg/modifier"
	"github.com/mediafusion/streamtmpl/pkg/value"
)

type Renderer struct {
	modifiers *modifier.Registry
}

// New returns a renderer using mods, or the built-in modifiers when mods is nil.
func New(mods *modifier.Registry) *Renderer {
	if mods == nil {
		mods = modifier.Builtins()
	}
	return &Renderer{modifiers: mods}
}

// Render renders nodes against data and collapses blank lines in the result.
func (r *Renderer) Render(ctx context.Context, nodes []ast.Node, data value.Value) string {
	var sb strings.Builder
	r.renderNodes(ctx, &sb, nodes, data)
	return CollapseBlankLines(sb.String())
}

func (r *Renderer) renderNodes(ctx context.Context, sb *strings.Builder, nodes []ast.Node, data value.Value) {
	for _, n := range nodes {
		switch node := n.(type) {
		case *ast.TextNode:
			sb.WriteString(node.Text)
		case *ast.VariableNode:
			v, _ := eval.ResolvePath(ctx, data, node.Path)
			v = r.modifiers.Apply(ctx, v, node.Modifiers)
			sb.WriteString(Display(v))
		case *ast.ConditionalNode:
			r.renderNodes(ctx, sb, selectBranch(ctx, node, data), data)
		}
	}
}

func selectBranch(ctx context.Context, node *ast.ConditionalNode, data value.Value) []ast.Node {
	if eval.Condition(ctx, data, node.If.Condition) {
		return node.If.Body
	}
	for _, elif := range node.Elifs {
		if eval.Condition(ctx, data, elif.Condition) {
			return elif.Body
		}
	}
	return node.Else
}

// Display is the printed form of a variable: booleans and null print nothing,
// lists are joined with ", ".
func Display(v value.Value) string {
	switch v.Kind() {
	case value.KindNull, value.KindBool:
		return ""
	default:
		return v.String()
	}
}

// CollapseBlankLines drops empty and whitespace-only lines. It runs once over
// the complete output, never per node.
func CollapseBlankLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
