// Package hover explains what a template renders at a given spot: the value a
// variable resolves to and how each modifier changes it, or how a condition's
// operands resolve and which way it goes.
package hover

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/mediafusion/streamtmpl/pkg/eval"
	"github.com/mediafusion/streamtmpl/pkg/lexer"
	"github.com/mediafusion/streamtmpl/pkg/modifier"
	"github.com/mediafusion/streamtmpl/pkg/position"
	"github.com/mediafusion/streamtmpl/pkg/render"
	"github.com/mediafusion/streamtmpl/pkg/value"
)

// HoverInfo represents the information to be displayed in a hover tooltip
type HoverInfo struct {
	// Content is the markdown content to display
	Content []string
	// Position is the span of the template this hover applies to
	Position position.RawPosition
}

type Option func(*describer)

func WithModifiers(mods *modifier.Registry) Option {
	return func(d *describer) {
		if mods != nil {
			d.modifiers = mods
		}
	}
}

type describer struct {
	modifiers *modifier.Registry
}

// BuildHoverResponse describes the directive under hoverPosition. It returns
// nil when the position only covers literal text.
func BuildHoverResponse(ctx context.Context, template string, hoverPosition position.RawPosition, data value.Value, opts ...Option) (*HoverInfo, error) {
	if hoverPosition.Offset < 0 || hoverPosition.Offset > len(template) {
		return nil, errors.Errorf("hover offset %d outside template of length %d", hoverPosition.Offset, len(template))
	}

	d := &describer{modifiers: modifier.Builtins()}
	for _, opt := range opts {
		opt(d)
	}

	for _, tok := range lexer.Lex(template) {
		if !hoverPosition.HasRangeOverlapWith(tok.Pos) {
			continue
		}

		zerolog.Ctx(ctx).Debug().Str("kind", tok.Kind.String()).Int("offset", tok.Pos.Offset).Msg("hover hit token")

		switch tok.Kind {
		case lexer.KindVariable:
			return d.variable(ctx, tok, hoverPosition, data), nil
		case lexer.KindIf, lexer.KindElif:
			return d.condition(ctx, tok, data), nil
		}
	}

	return nil, nil
}

func (d *describer) variable(ctx context.Context, tok lexer.Token, hoverPosition position.RawPosition, data value.Value) *HoverInfo {
	info := &HoverInfo{Position: tok.Pos}
	for _, mod := range tok.Modifiers {
		if hoverPosition.HasRangeOverlapWith(mod.Pos) {
			info.Position = mod.Pos
		}
	}

	var sb strings.Builder
	sb.WriteString("### Variable\n\n")
	sb.WriteString(tok.Path + "\n")

	if seg, blocked := eval.BlockedSegment(tok.Path); blocked {
		fmt.Fprintf(&sb, "    │ blocked segment %q\n", seg)
	}

	v, found := eval.ResolvePath(ctx, data, tok.Path)
	if found {
		sb.WriteString("    │ " + describeValue(v) + "\n")
	} else {
		sb.WriteString("    │ missing\n")
	}

	for _, mod := range tok.Modifiers {
		sb.WriteString("    ▼\n")
		if _, ok := d.modifiers.Lookup(mod.Name); !ok {
			sb.WriteString(mod.Pos.Text + "\n    │ unknown, skipped\n")
			continue
		}
		v = d.modifiers.Apply(ctx, v, []lexer.Modifier{mod})
		sb.WriteString(mod.Pos.Text + "\n    │ " + describeValue(v) + "\n")
	}

	fmt.Fprintf(&sb, "\n### Output\n\n```\n%s\n```", render.Display(v))

	info.Content = []string{sb.String()}
	return info
}

func (d *describer) condition(ctx context.Context, tok lexer.Token, data value.Value) *HoverInfo {
	var sb strings.Builder
	sb.WriteString("### Condition\n\n")
	sb.WriteString("```\n" + tok.Condition + "\n```\n\n")

	for _, part := range eval.Parts(tok.Condition) {
		if part.Kind != eval.PartOperand || part.Text == "" {
			continue
		}
		fmt.Fprintf(&sb, "- `%s` = %s\n", part.Text, describeValue(eval.ResolveLiteral(ctx, data, part.Text)))
	}

	fmt.Fprintf(&sb, "\n**Result**: %t", eval.Condition(ctx, data, tok.Condition))

	return &HoverInfo{
		Content:  []string{sb.String()},
		Position: tok.Pos,
	}
}

func describeValue(v value.Value) string {
	switch v.Kind() {
	case value.KindNull:
		return "null"
	case value.KindString:
		return strconv.Quote(v.Str()) + " (string)"
	default:
		return v.String() + " (" + v.Kind().String() + ")"
	}
}
