// Package split breaks free-form directive text into fields on a delimiter while
// leaving quoted runs and parenthesized groups intact.
package split

// Split returns the substrings of input separated by delim, ignoring delimiters
// that appear inside single quotes, double quotes or parentheses. A quote only
// toggles its own flag, and only while the other quote kind is closed. A trailing
// empty field is dropped; empty fields elsewhere are kept.
func Split(input string, delim rune) []string {
	var (
		parts    []string
		start    int
		inSingle bool
		inDouble bool
		depth    int
	)

	for i, r := range input {
		switch {
		case r == '\'' && !inDouble:
			inSingle = !inSingle
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case inSingle || inDouble:
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		}

		if r == delim && depth == 0 && !inSingle && !inDouble {
			parts = append(parts, input[start:i])
			start = i + len(string(r))
		}
	}

	if start < len(input) {
		parts = append(parts, input[start:])
	}

	return parts
}
