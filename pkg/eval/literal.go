package eval

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/mediafusion/streamtmpl/pkg/value"
)

var (
	doubleQuoted = regexp.MustCompile(`(?s)^"(.*)"$`)
	singleQuoted = regexp.MustCompile(`(?s)^'(.*)'$`)
	numeral      = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	boolean      = regexp.MustCompile(`(?i)^(true|false)$`)
)

// ResolveLiteral turns one side of a comparison into a value. In order: empty
// text, a quoted string, a number, a boolean, a dotted path, a top-level key,
// and finally the text itself.
func ResolveLiteral(ctx context.Context, data value.Value, expr string) value.Value {
	expr = strings.TrimSpace(expr)

	if expr == "" {
		return value.String("")
	}

	if m := doubleQuoted.FindStringSubmatch(expr); m != nil {
		return value.String(m[1])
	}
	if m := singleQuoted.FindStringSubmatch(expr); m != nil {
		return value.String(m[1])
	}

	if numeral.MatchString(expr) {
		f, err := strconv.ParseFloat(expr, 64)
		if err == nil {
			return value.Number(f)
		}
	}

	if boolean.MatchString(expr) {
		return value.Bool(strings.EqualFold(expr, "true"))
	}

	if strings.Contains(expr, ".") {
		v, _ := ResolvePath(ctx, data, expr)
		return v
	}

	if v, ok := ResolvePath(ctx, data, expr); ok {
		return v
	}

	return value.String(expr)
}

// OperandKind tells how ResolveLiteral reads an operand.
type OperandKind int

const (
	OperandEmpty OperandKind = iota
	OperandString
	OperandNumber
	OperandBool
	// OperandPath operands are looked up in the context and fall back to
	// their own text.
	OperandPath
)

func ClassifyOperand(operand string) OperandKind {
	operand = strings.TrimSpace(operand)
	switch {
	case operand == "":
		return OperandEmpty
	case doubleQuoted.MatchString(operand), singleQuoted.MatchString(operand):
		return OperandString
	case numeral.MatchString(operand):
		return OperandNumber
	case boolean.MatchString(operand):
		return OperandBool
	default:
		return OperandPath
	}
}

// IsPathOperand reports whether ResolveLiteral would look operand up in the
// context rather than treat it as a quoted string, number or boolean.
func IsPathOperand(operand string) bool {
	return ClassifyOperand(operand) == OperandPath
}
