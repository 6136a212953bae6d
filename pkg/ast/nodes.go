// Package ast holds the parsed form of a display template.
//
// A template parses into a list of nodes. Conditionals own their branch lists
// outright, so the tree has no parent links and is walked top-down only.
package ast

import (
	"github.com/mediafusion/streamtmpl/pkg/lexer"
	"github.com/mediafusion/streamtmpl/pkg/position"
)

// Node is one of *TextNode, *VariableNode or *ConditionalNode.
type Node interface {
	Position() position.RawPosition
	node()
}

type TextNode struct {
	Text string
	Pos  position.RawPosition
}

type VariableNode struct {
	Path      string
	Modifiers []lexer.Modifier
	Pos       position.RawPosition
}

// Branch is a guarded body: the `if` branch or one `elif`.
type Branch struct {
	Condition string
	Body      []Node
	Pos       position.RawPosition
}

// ConditionPos locates Condition in the template source.
func (b Branch) ConditionPos() position.RawPosition {
	return lexer.ConditionPos(b.Pos, b.Condition)
}

type ConditionalNode struct {
	If    Branch
	Elifs []Branch
	// Else is empty when no else branch was written.
	Else []Node
	// Closed reports whether a matching {/if} was found.
	Closed bool
	Pos    position.RawPosition
}

func (n *TextNode) Position() position.RawPosition        { return n.Pos }
func (n *VariableNode) Position() position.RawPosition    { return n.Pos }
func (n *ConditionalNode) Position() position.RawPosition { return n.Pos }

func (*TextNode) node()        {}
func (*VariableNode) node()    {}
func (*ConditionalNode) node() {}

// Walk calls fn for every node in depth-first order, branches in source order.
// Returning false from fn skips the children of that node.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		cond, ok := n.(*ConditionalNode)
		if !ok {
			continue
		}
		Walk(cond.If.Body, fn)
		for _, elif := range cond.Elifs {
			Walk(elif.Body, fn)
		}
		Walk(cond.Else, fn)
	}
}

// Depth returns the deepest conditional nesting level in nodes.
func Depth(nodes []Node) int {
	max := 0
	for _, n := range nodes {
		cond, ok := n.(*ConditionalNode)
		if !ok {
			continue
		}
		d := Depth(cond.If.Body)
		for _, elif := range cond.Elifs {
			if e := Depth(elif.Body); e > d {
				d = e
			}
		}
		if e := Depth(cond.Else); e > d {
			d = e
		}
		if d+1 > max {
			max = d + 1
		}
	}
	return max
}
