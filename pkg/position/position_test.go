package position_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediafusion/streamtmpl/pkg/position"
)

func TestLineAndColumn(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		offset   int
		wantLine int
		wantCol  int
	}{
		{name: "empty text", text: "", offset: 0, wantLine: 0, wantCol: 0},
		{name: "single line", text: "Hello, World!", offset: 7, wantLine: 0, wantCol: 7},
		{name: "second line", text: "Hello\nWorld\nTest", offset: 8, wantLine: 1, wantCol: 2},
		{name: "start of line", text: "ab\ncd", offset: 3, wantLine: 1, wantCol: 0},
		{name: "clamped", text: "ab\ncd", offset: 99, wantLine: 1, wantCol: 2},
		{
			name:     "directive on third line",
			text:     "{stream.name}\n{if cached}\n  {stream.size|bytes}{/if}",
			offset:   28,
			wantLine: 2,
			wantCol:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, col := position.LineAndColumn(tt.text, tt.offset)
			assert.Equal(t, tt.wantLine, line)
			assert.Equal(t, tt.wantCol, col)
		})
	}
}

func TestGetRange(t *testing.T) {
	text := "a\n{if x}b{/if}"
	pos := position.NewBasicPosition("{if x}", 2)

	assert.Equal(t, position.Range{
		Start: position.Place{Line: 1, Character: 1},
		End:   position.Place{Line: 1, Character: 6},
	}, pos.GetRange(text))
}

func TestSub(t *testing.T) {
	pos := position.NewBasicPosition("{size|bytes}", 10)

	sub, ok := pos.Sub("bytes", 0)
	require.True(t, ok)
	assert.Equal(t, position.NewBasicPosition("bytes", 16), sub)

	_, ok = pos.Sub("size", 3)
	assert.False(t, ok)

	_, ok = pos.Sub("x", 99)
	assert.False(t, ok)
}

func TestHasRangeOverlapWith(t *testing.T) {
	a := position.NewBasicPosition("abcd", 0)

	assert.True(t, a.HasRangeOverlapWith(position.NewBasicPosition("cd", 2)))
	assert.False(t, a.HasRangeOverlapWith(position.NewBasicPosition("ef", 4)))
	assert.True(t, a.HasRangeOverlapWith(position.NewBasicPosition("", 4)))
	assert.True(t, a.Contains(4))
	assert.False(t, a.Contains(5))
}
