package eval

import (
	"strings"

	"github.com/mediafusion/streamtmpl/pkg/value"
)

// Operator is a binary comparison usable in conditions.
type Operator struct {
	Symbol string
	// Numeric operators coerce both sides to numbers; the rest compare
	// lower-cased string forms.
	Numeric bool

	numeric func(a, b float64) bool
	text    func(a, b string) bool
}

// Compare applies the operator. A numeric comparison with an operand that does
// not coerce to a number is false.
func (o Operator) Compare(left, right value.Value) bool {
	if o.Numeric {
		a, ok := left.ToNumber()
		if !ok {
			return false
		}
		b, ok := right.ToNumber()
		if !ok {
			return false
		}
		return o.numeric(a, b)
	}
	return o.text(strings.ToLower(left.String()), strings.ToLower(right.String()))
}

// Operators is the scan order used by FindOperator. Two-character operators
// come before their one-character prefixes.
var Operators = []Operator{
	{Symbol: ">=", Numeric: true, numeric: func(a, b float64) bool { return a >= b }},
	{Symbol: "<=", Numeric: true, numeric: func(a, b float64) bool { return a <= b }},
	{Symbol: "!=", text: func(a, b string) bool { return a != b }},
	{Symbol: "=", text: func(a, b string) bool { return a == b }},
	{Symbol: ">", Numeric: true, numeric: func(a, b float64) bool { return a > b }},
	{Symbol: "<", Numeric: true, numeric: func(a, b float64) bool { return a < b }},
	{Symbol: "~", text: strings.Contains},
	{Symbol: "$", text: strings.HasPrefix},
	{Symbol: "^", text: strings.HasSuffix},
}

// FindOperator returns the first operator in Operators order that occurs
// anywhere in cond, with the byte index of its first occurrence. Position in
// the text does not matter: `a ~ b=c` picks `=`.
func FindOperator(cond string) (Operator, int, bool) {
	for _, op := range Operators {
		if idx := strings.Index(cond, op.Symbol); idx >= 0 {
			return op, idx, true
		}
	}
	return Operator{}, -1, false
}
