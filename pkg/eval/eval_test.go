package eval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediafusion/streamtmpl/pkg/eval"
	"github.com/mediafusion/streamtmpl/pkg/value"
)

func testContext() value.Value {
	return value.FromAny(map[string]any{
		"name":      "Big Buck Bunny",
		"quality":   "4K",
		"size":      1500000,
		"seeders":   "42",
		"cached":    true,
		"debrid":    false,
		"blank":     "   ",
		"languages": []any{"en", "fr"},
		"none":      []any{},
		"missing":   nil,
		"_private":  "secret",
		"__class__": "object",
		"stream": map[string]any{
			"name":     "Movie.2024.2160p",
			"size":     0,
			"codec":    "HEVC",
			"__dict__": map[string]any{"x": 1},
		},
	})
}

func TestResolvePath(t *testing.T) {
	ctx := context.Background()
	data := testContext()

	tests := []struct {
		name   string
		path   string
		want   value.Value
		exists bool
	}{
		{name: "test_top_level", path: "quality", want: value.String("4K"), exists: true},
		{name: "test_nested", path: "stream.codec", want: value.String("HEVC"), exists: true},
		{name: "test_null_exists", path: "missing", want: value.Null(), exists: true},
		{name: "test_missing_segment", path: "stream.nope", want: value.Null(), exists: false},
		{name: "test_walk_through_scalar", path: "quality.len", want: value.Null(), exists: false},
		{name: "test_underscore_prefix", path: "_private", want: value.Null(), exists: false},
		{name: "test_denylisted_top", path: "__class__", want: value.Null(), exists: false},
		{name: "test_denylisted_nested", path: "stream.__dict__.x", want: value.Null(), exists: false},
		{name: "test_denylisted_plain_name", path: "mro", want: value.Null(), exists: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := eval.ResolvePath(ctx, data, tt.path)
			assert.Equal(t, tt.exists, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsUnsafeSegment(t *testing.T) {
	assert.True(t, eval.IsUnsafeSegment("__globals__"))
	assert.True(t, eval.IsUnsafeSegment("_anything"))
	assert.True(t, eval.IsUnsafeSegment("gi_frame"))
	assert.False(t, eval.IsUnsafeSegment("name"))
	assert.False(t, eval.IsUnsafeSegment("class"))
}

func TestResolveLiteral(t *testing.T) {
	ctx := context.Background()
	data := testContext()

	tests := []struct {
		name string
		expr string
		want value.Value
	}{
		{name: "test_empty", expr: "  ", want: value.String("")},
		{name: "test_double_quoted", expr: `"hello world"`, want: value.String("hello world")},
		{name: "test_single_quoted", expr: `'4k'`, want: value.String("4k")},
		{name: "test_quoted_number_stays_string", expr: `"10"`, want: value.String("10")},
		{name: "test_integer", expr: "10", want: value.Number(10)},
		{name: "test_negative_decimal", expr: "-1.25", want: value.Number(-1.25)},
		{name: "test_true", expr: "TRUE", want: value.Bool(true)},
		{name: "test_false", expr: "false", want: value.Bool(false)},
		{name: "test_dotted_path", expr: "stream.codec", want: value.String("HEVC")},
		{name: "test_dotted_missing", expr: "stream.nope", want: value.Null()},
		{name: "test_direct_key", expr: "quality", want: value.String("4K")},
		{name: "test_bare_word", expr: "HEVC", want: value.String("HEVC")},
		{name: "test_blocked_key_is_literal", expr: "__class__", want: value.String("__class__")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eval.ResolveLiteral(ctx, data, tt.expr))
		})
	}
}

func TestCondition(t *testing.T) {
	ctx := context.Background()
	data := testContext()

	tests := []struct {
		name string
		cond string
		want bool
	}{
		{name: "test_truthy_bool", cond: "cached", want: true},
		{name: "test_falsy_bool", cond: "debrid", want: false},
		{name: "test_blank_string", cond: "blank", want: false},
		{name: "test_non_empty_list", cond: "languages", want: true},
		{name: "test_empty_list", cond: "none", want: false},
		{name: "test_null", cond: "missing", want: false},
		{name: "test_zero_number", cond: "stream.size", want: false},
		{name: "test_missing_dotted", cond: "stream.nope", want: false},
		{name: "test_unknown_word_is_truthy_text", cond: "whatever", want: true},
		{name: "test_blocked_path", cond: "stream.__dict__", want: false},

		{name: "test_equal_case_insensitive", cond: "quality = '4k'", want: true},
		{name: "test_equal_no_spaces", cond: "quality=4K", want: true},
		{name: "test_not_equal", cond: "quality != 1080p", want: true},
		{name: "test_contains", cond: "stream.name ~ 2160P", want: true},
		{name: "test_starts_with", cond: "stream.name $ movie", want: true},
		{name: "test_ends_with", cond: "stream.name ^ 2160p", want: true},
		{name: "test_bool_equals_literal", cond: "cached = true", want: true},

		{name: "test_greater", cond: "size > 1000", want: true},
		{name: "test_less_equal", cond: "size <= 1500000", want: true},
		{name: "test_numeric_string", cond: "seeders >= 42", want: true},
		{name: "test_numeric_coercion_fails", cond: "quality > 1", want: false},
		{name: "test_numeric_null_fails", cond: "missing < 1", want: false},

		{name: "test_and", cond: "cached and size > 10", want: true},
		{name: "test_and_false", cond: "cached AND debrid", want: false},
		{name: "test_or", cond: "debrid or cached", want: true},
		{name: "test_or_false", cond: "debrid Or missing", want: false},
		{name: "test_not", cond: "not debrid", want: true},
		{name: "test_not_comparison", cond: "NOT quality = 4k", want: false},
		{name: "test_not_requires_word_boundary", cond: "nothing", want: true},

		{name: "test_priority_not_position", cond: "stream.codec ~ a=b", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eval.Condition(ctx, data, tt.cond))
		})
	}
}

func TestConditionAndBindsOutsideOr(t *testing.T) {
	ctx := context.Background()
	data := value.FromAny(map[string]any{"a": false, "b": true, "c": false})

	assert.False(t, eval.Condition(ctx, data, "a and b or c"))

	// (a and b) or c would be true here.
	data = value.FromAny(map[string]any{"a": false, "b": false, "c": true})
	assert.False(t, eval.Condition(ctx, data, "a and b or c"))
	assert.False(t, eval.Condition(ctx, data, "c or a and b"))
}

func TestFindOperator(t *testing.T) {
	op, idx, ok := eval.FindOperator("a >= 5")
	require.True(t, ok)
	assert.Equal(t, ">=", op.Symbol)
	assert.Equal(t, 2, idx)

	op, idx, ok = eval.FindOperator("title ~ x=y")
	require.True(t, ok)
	assert.Equal(t, "=", op.Symbol)
	assert.Equal(t, 9, idx)

	_, _, ok = eval.FindOperator("plain")
	assert.False(t, ok)
}

func TestOperands(t *testing.T) {
	assert.Equal(t, []string{"a"}, eval.Operands(" a "))
	assert.Equal(t, []string{"stream.size", "1000", "cached"}, eval.Operands("stream.size > 1000 and not cached"))
	assert.Equal(t, []string{"a", "b", "c", "'x'"}, eval.Operands("a and b or c = 'x'"))
}

func TestIsPathOperand(t *testing.T) {
	assert.True(t, eval.IsPathOperand("stream.name"))
	assert.True(t, eval.IsPathOperand("__class__"))
	assert.False(t, eval.IsPathOperand("'x'"))
	assert.False(t, eval.IsPathOperand("12.5"))
	assert.False(t, eval.IsPathOperand("False"))
	assert.False(t, eval.IsPathOperand(""))
}

func TestClassifyOperand(t *testing.T) {
	assert.Equal(t, eval.OperandString, eval.ClassifyOperand(`"a b"`))
	assert.Equal(t, eval.OperandNumber, eval.ClassifyOperand("-3"))
	assert.Equal(t, eval.OperandBool, eval.ClassifyOperand("TRUE"))
	assert.Equal(t, eval.OperandEmpty, eval.ClassifyOperand("  "))
	assert.Equal(t, eval.OperandPath, eval.ClassifyOperand("1.2.3"))
}

func TestParts(t *testing.T) {
	tests := []struct {
		name string
		cond string
		want []eval.Part
	}{
		{
			name: "test_bare",
			cond: "  cached ",
			want: []eval.Part{{Kind: eval.PartOperand, Text: "cached", Offset: 2}},
		},
		{
			name: "test_comparison",
			cond: "size >= 10",
			want: []eval.Part{
				{Kind: eval.PartOperand, Text: "size", Offset: 0},
				{Kind: eval.PartOperator, Text: ">=", Offset: 5},
				{Kind: eval.PartOperand, Text: "10", Offset: 8},
			},
		},
		{
			name: "test_connectives",
			cond: "a AND not b or c",
			want: []eval.Part{
				{Kind: eval.PartOperand, Text: "a", Offset: 0},
				{Kind: eval.PartConnective, Text: "AND", Offset: 2},
				{Kind: eval.PartConnective, Text: "not", Offset: 6},
				{Kind: eval.PartOperand, Text: "b", Offset: 10},
				{Kind: eval.PartConnective, Text: "or", Offset: 12},
				{Kind: eval.PartOperand, Text: "c", Offset: 15},
			},
		},
		{
			name: "test_missing_operand",
			cond: "a =",
			want: []eval.Part{
				{Kind: eval.PartOperand, Text: "a", Offset: 0},
				{Kind: eval.PartOperator, Text: "=", Offset: 2},
				{Kind: eval.PartOperand, Text: "", Offset: 3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eval.Parts(tt.cond)
			assert.Equal(t, tt.want, got)
			for _, part := range got {
				assert.Equal(t, part.Text, tt.cond[part.Offset:part.Offset+len(part.Text)])
			}
		})
	}
}

func TestBlockedSegment(t *testing.T) {
	seg, ok := eval.BlockedSegment("stream.__class__.mro")
	require.True(t, ok)
	assert.Equal(t, "__class__", seg)

	_, ok = eval.BlockedSegment("stream.name")
	assert.False(t, ok)
}
