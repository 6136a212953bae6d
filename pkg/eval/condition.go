// Package eval resolves paths and literals against a render context and
// evaluates the conditions of {if} and {elif} directives.
//
// Every function here is total: malformed conditions and missing data fall
// back to false, null or the literal text, never to an error.
package eval

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/mediafusion/streamtmpl/pkg/value"
)

var (
	andSplit  = regexp.MustCompile(`(?i)\s+and\s+`)
	orSplit   = regexp.MustCompile(`(?i)\s+or\s+`)
	notPrefix = regexp.MustCompile(`(?i)^not\b`)
)

// Condition evaluates cond against data.
//
// `and` is split first and `or` second, so `a and b or c` reads as
// `a and (b or c)`. The serving backend binds them this way and stored
// templates rely on it.
func Condition(ctx context.Context, data value.Value, cond string) bool {
	cond = strings.TrimSpace(cond)

	if parts := andSplit.Split(cond, -1); len(parts) > 1 {
		for _, part := range parts {
			if !Condition(ctx, data, part) {
				return false
			}
		}
		return true
	}

	if parts := orSplit.Split(cond, -1); len(parts) > 1 {
		for _, part := range parts {
			if Condition(ctx, data, part) {
				return true
			}
		}
		return false
	}

	if m := notPrefix.FindStringIndex(cond); m != nil {
		return !Condition(ctx, data, cond[m[1]:])
	}

	if op, idx, ok := FindOperator(cond); ok {
		left := ResolveLiteral(ctx, data, cond[:idx])
		right := ResolveLiteral(ctx, data, cond[idx+len(op.Symbol):])
		result := op.Compare(left, right)
		zerolog.Ctx(ctx).Trace().
			Str("condition", cond).
			Str("operator", op.Symbol).
			Bool("result", result).
			Msg("compared operands")
		return result
	}

	return ResolveLiteral(ctx, data, cond).Truthy()
}

// PartKind classifies a piece of a decomposed condition.
type PartKind int

const (
	PartOperand PartKind = iota
	// PartConnective is an `and`, `or` or `not` keyword.
	PartConnective
	PartOperator
)

// Part is a piece of a condition with its byte offset inside the condition.
type Part struct {
	Kind   PartKind
	Text   string
	Offset int
}

// Parts decomposes cond the same way Condition evaluates it, in source order.
// Operands are trimmed; a missing operand comes back as an empty PartOperand.
func Parts(cond string) []Part {
	return appendParts(nil, cond, 0)
}

func appendParts(out []Part, cond string, base int) []Part {
	cond, lead := trimWithOffset(cond)
	base += lead

	if seps := andSplit.FindAllStringIndex(cond, -1); len(seps) > 0 {
		return appendSplit(out, cond, base, seps)
	}
	if seps := orSplit.FindAllStringIndex(cond, -1); len(seps) > 0 {
		return appendSplit(out, cond, base, seps)
	}
	if m := notPrefix.FindStringIndex(cond); m != nil {
		out = append(out, Part{Kind: PartConnective, Text: cond[:m[1]], Offset: base})
		return appendParts(out, cond[m[1]:], base+m[1])
	}
	if op, idx, ok := FindOperator(cond); ok {
		end := idx + len(op.Symbol)
		out = appendOperand(out, cond[:idx], base)
		out = append(out, Part{Kind: PartOperator, Text: op.Symbol, Offset: base + idx})
		return appendOperand(out, cond[end:], base+end)
	}
	return appendOperand(out, cond, base)
}

func appendSplit(out []Part, cond string, base int, seps [][]int) []Part {
	prev := 0
	for _, sep := range seps {
		out = appendParts(out, cond[prev:sep[0]], base+prev)
		word, lead := trimWithOffset(cond[sep[0]:sep[1]])
		out = append(out, Part{Kind: PartConnective, Text: word, Offset: base + sep[0] + lead})
		prev = sep[1]
	}
	return appendParts(out, cond[prev:], base+prev)
}

func appendOperand(out []Part, raw string, base int) []Part {
	text, lead := trimWithOffset(raw)
	return append(out, Part{Kind: PartOperand, Text: text, Offset: base + lead})
}

func trimWithOffset(s string) (string, int) {
	rest := strings.TrimLeftFunc(s, unicode.IsSpace)
	return strings.TrimRightFunc(rest, unicode.IsSpace), len(s) - len(rest)
}

// Operands returns the operand texts of cond's comparisons and bare values.
// Tooling uses it to inspect the paths a condition reads.
func Operands(cond string) []string {
	var out []string
	for _, part := range Parts(cond) {
		if part.Kind == PartOperand {
			out = append(out, part.Text)
		}
	}
	return out
}
