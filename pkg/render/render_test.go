package render_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mediafusion/streamtmpl/pkg/modifier"
	"github.com/mediafusion/streamtmpl/pkg/parser"
	"github.com/mediafusion/streamtmpl/pkg/render"
	"github.com/mediafusion/streamtmpl/pkg/value"
)

func TestRender(t *testing.T) {
	data := value.FromAny(map[string]any{
		"stream": map[string]any{
			"name":      "Movie",
			"size":      1500000000,
			"cached":    true,
			"languages": []any{"en", "fr"},
			"seeders":   0,
		},
	})

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{name: "test_text", template: "plain", want: "plain"},
		{name: "test_variable", template: "{stream.name}", want: "Movie"},
		{name: "test_missing_variable", template: "[{stream.nope}]", want: "[]"},
		{name: "test_bool_prints_empty", template: "[{stream.cached}]", want: "[]"},
		{name: "test_list_joined", template: "{stream.languages}", want: "en, fr"},
		{name: "test_modifier_chain", template: "{stream.name|upper|truncate(3)}", want: "MOV..."},
		{name: "test_bytes", template: "{stream.size|bytes}", want: "1.5 GB"},
		{name: "test_unknown_modifier", template: "{stream.name|shout}", want: "Movie"},
		{name: "test_if_true", template: "{if stream.cached}C{else}N{/if}", want: "C"},
		{name: "test_elif", template: "{if stream.seeders > 0}S{elif stream.languages ~ fr}F{else}N{/if}", want: "F"},
		{name: "test_else", template: "{if stream.seeders}S{else}N{/if}", want: "N"},
		{name: "test_nested", template: "{if stream.cached}a{if stream.seeders}b{/if}c{/if}", want: "ac"},
		{name: "test_blank_lines_collapse", template: "{stream.name}\n{if stream.seeders}x{/if}\n  \nend", want: "Movie\nend"},
	}

	r := render.New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Render(context.Background(), parser.ParseString(tt.template), data)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderCustomModifiers(t *testing.T) {
	mods := modifier.NewRegistry(map[string]modifier.Func{
		"Shout": func(v value.Value, _ string, _ bool) value.Value {
			return value.String(v.String() + "!")
		},
	})

	r := render.New(mods)
	got := r.Render(context.Background(), parser.ParseString("{a|shout|upper}"), value.FromAny(map[string]any{"a": "hi"}))
	// upper is not in the custom registry and is skipped
	assert.Equal(t, "hi!", got)
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "", render.Display(value.Null()))
	assert.Equal(t, "", render.Display(value.Bool(true)))
	assert.Equal(t, "0", render.Display(value.Number(0)))
	assert.Equal(t, "a, b", render.Display(value.List(value.String("a"), value.String("b"))))
}

func TestCollapseBlankLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "test_empty", in: "", want: ""},
		{name: "test_only_blank", in: "\n \n\t\n", want: ""},
		{name: "test_keeps_indent", in: "  a\n\n  b", want: "  a\n  b"},
		{name: "test_crlf", in: "a\r\n\r\nb\rc", want: "a\nb\nc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render.CollapseBlankLines(tt.in))
		})
	}
}
