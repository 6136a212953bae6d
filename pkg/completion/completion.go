// Package completion suggests context paths, modifier names and directive
// keywords while a template is being edited.
package completion

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mediafusion/streamtmpl/pkg/eval"
	"github.com/mediafusion/streamtmpl/pkg/modifier"
	"github.com/mediafusion/streamtmpl/pkg/value"
)

// CompletionItem represents a single completion suggestion
type CompletionItem struct {
	Label  string `json:"label"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

var keywords = []string{"if", "elif", "else", "/if"}

type Option func(*completer)

func WithModifiers(mods *modifier.Registry) Option {
	return func(c *completer) {
		if mods != nil {
			c.modifiers = mods
		}
	}
}

type completer struct {
	modifiers *modifier.Registry
}

// GetCompletions returns the suggestions for the cursor at offset. Paths come
// from data; blocked keys are never offered.
func GetCompletions(ctx context.Context, content string, offset int, data value.Value, opts ...Option) []CompletionItem {
	c := &completer{modifiers: modifier.Builtins()}
	for _, opt := range opts {
		opt(c)
	}

	cc := NewCompletionContext(content, offset)
	items := make([]CompletionItem, 0)

	switch cc.Kind {
	case ContextModifier:
		for _, name := range c.modifiers.Names() {
			if strings.HasPrefix(name, strings.ToLower(cc.Prefix)) {
				items = append(items, CompletionItem{Label: name, Kind: "function", Detail: "modifier"})
			}
		}
	case ContextDirective:
		for _, kw := range keywords {
			if strings.HasPrefix(kw, strings.ToLower(cc.Prefix)) {
				items = append(items, CompletionItem{Label: kw, Kind: "keyword"})
			}
		}
		items = append(items, fields(ctx, data, "", cc.Prefix)...)
	case ContextPath:
		items = append(items, fields(ctx, data, cc.Parent, cc.Prefix)...)
	}

	zerolog.Ctx(ctx).Debug().Int("kind", int(cc.Kind)).Str("prefix", cc.Prefix).Int("items", len(items)).Msg("completions")

	return items
}

func fields(ctx context.Context, data value.Value, parent, prefix string) []CompletionItem {
	target := data
	if parent != "" {
		v, ok := eval.ResolvePath(ctx, data, parent)
		if !ok {
			return nil
		}
		target = v
	}

	m := target.Map()
	if m == nil {
		return nil
	}

	var items []CompletionItem
	for _, key := range m.Keys() {
		if eval.IsUnsafeSegment(key) || !strings.HasPrefix(key, prefix) {
			continue
		}
		v, _ := m.Get(key)
		items = append(items, CompletionItem{Label: key, Kind: "field", Detail: v.Kind().String()})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Label < items[j].Label })
	return items
}
