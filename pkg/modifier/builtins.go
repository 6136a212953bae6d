package modifier

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mediafusion/streamtmpl/pkg/split"
	"github.com/mediafusion/streamtmpl/pkg/value"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// Bytes formats a size with 1000-based units and one decimal place.
func Bytes(v value.Value, _ string, _ bool) value.Value {
	n, ok := v.ToNumber()
	if !ok || n <= 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return value.String("0 B")
	}
	i := 0
	for n >= 1000 && i < len(byteUnits)-1 {
		n /= 1000
		i++
	}
	return value.String(fmt.Sprintf("%.1f %s", n, byteUnits[i]))
}

// Time formats seconds as HH:MM:SS, or MM:SS below one hour.
func Time(v value.Value, _ string, _ bool) value.Value {
	n, ok := v.ToNumber()
	if !ok || n <= 0 || math.IsNaN(n) || n >= math.MaxInt64 {
		return value.String("")
	}
	total := int64(n)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return value.String(fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds))
	}
	return value.String(fmt.Sprintf("%02d:%02d", minutes, seconds))
}

func Upper(v value.Value, _ string, _ bool) value.Value {
	return value.String(strings.ToUpper(v.String()))
}

func Lower(v value.Value, _ string, _ bool) value.Value {
	return value.String(strings.ToLower(v.String()))
}

// Title upper-cases the first letter of each whitespace-delimited word and
// leaves the rest of the word alone.
func Title(v value.Value, _ string, _ bool) value.Value {
	var sb strings.Builder
	atWordStart := true
	for _, r := range v.String() {
		if unicode.IsSpace(r) {
			atWordStart = true
			sb.WriteRune(r)
			continue
		}
		if atWordStart {
			r = unicode.ToUpper(r)
			atWordStart = false
		}
		sb.WriteRune(r)
	}
	return value.String(sb.String())
}

func First(v value.Value, _ string, _ bool) value.Value {
	items := v.Items()
	if len(items) == 0 {
		return value.String("")
	}
	return items[0]
}

func Last(v value.Value, _ string, _ bool) value.Value {
	items := v.Items()
	if len(items) == 0 {
		return value.String("")
	}
	return items[len(items)-1]
}

// Length counts list elements or string characters; anything else is 0.
func Length(v value.Value, _ string, _ bool) value.Value {
	switch v.Kind() {
	case value.KindList:
		return value.Number(float64(len(v.Items())))
	case value.KindString:
		return value.Number(float64(utf8.RuneCountInString(v.Str())))
	default:
		return value.Number(0)
	}
}

func Exists(v value.Value, _ string, _ bool) value.Value {
	return value.Bool(!v.IsNull())
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

func Escape(v value.Value, _ string, _ bool) value.Value {
	return value.String(htmlEscaper.Replace(v.String()))
}

// Join concatenates list elements with the argument (default ", "). Other
// values are returned as their string form.
func Join(v value.Value, arg string, hasArg bool) value.Value {
	if v.Kind() != value.KindList {
		return value.String(v.String())
	}
	sep := ", "
	if hasArg {
		sep = StripQuotes(arg)
	}
	items := v.Items()
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return value.String(strings.Join(parts, sep))
}

// Truncate cuts the string form to N characters followed by "...". A missing,
// malformed or non-positive N leaves the string as is.
func Truncate(v value.Value, arg string, _ bool) value.Value {
	s := v.String()
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n <= 0 {
		return value.String(s)
	}
	runes := []rune(s)
	if len(runes) <= n {
		return value.String(s)
	}
	return value.String(string(runes[:n]) + "...")
}

// Replace takes `old, new` and replaces every occurrence of old. Fewer than
// two arguments return the value's string form unchanged.
func Replace(v value.Value, arg string, _ bool) value.Value {
	parts := split.Split(arg, ',')
	if len(parts) < 2 {
		return value.String(v.String())
	}
	return value.String(strings.ReplaceAll(v.String(), StripQuotes(parts[0]), StripQuotes(parts[1])))
}

// StripQuotes trims whitespace, then drops one leading and one trailing quote
// character if present.
func StripQuotes(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if s != "" && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}
