package completion

import (
	"strings"
)

// ContextKind says what is being typed at the cursor.
type ContextKind int

const (
	// ContextNone is plain text outside any directive.
	ContextNone ContextKind = iota
	// ContextDirective is right after `{`: a path or a keyword.
	ContextDirective
	// ContextPath is a dotted path, in a variable or a condition.
	ContextPath
	// ContextModifier is a modifier name after `|`.
	ContextModifier
)

// CompletionContext holds information about the completion request context
type CompletionContext struct {
	Kind ContextKind
	// Parent is the path before the last dot, empty at the root.
	Parent string
	// Prefix is the partial word under the cursor.
	Prefix string
}

// NewCompletionContext inspects content up to the byte offset. Only the open
// directive the cursor sits in matters; a `}` before the cursor closes it.
func NewCompletionContext(content string, offset int) *CompletionContext {
	if offset < 0 {
		offset = 0
	}
	if offset > len(content) {
		offset = len(content)
	}
	before := content[:offset]

	open := strings.LastIndex(before, "{")
	if open < 0 || strings.Contains(before[open:], "}") {
		return &CompletionContext{Kind: ContextNone}
	}
	inner := before[open+1:]

	if pipe := strings.LastIndex(inner, "|"); pipe >= 0 && !isCondition(inner) {
		name := strings.TrimLeft(inner[pipe+1:], " \t")
		if strings.ContainsAny(name, "( ") {
			return &CompletionContext{Kind: ContextNone}
		}
		return &CompletionContext{Kind: ContextModifier, Prefix: name}
	}

	if isCondition(inner) {
		word := lastWord(inner)
		if strings.ContainsAny(word, `"'`) {
			return &CompletionContext{Kind: ContextNone}
		}
		return pathContext(word)
	}

	if !strings.Contains(inner, ".") {
		return &CompletionContext{Kind: ContextDirective, Prefix: inner}
	}
	return pathContext(inner)
}

func pathContext(word string) *CompletionContext {
	dot := strings.LastIndex(word, ".")
	if dot < 0 {
		return &CompletionContext{Kind: ContextPath, Prefix: word}
	}
	return &CompletionContext{Kind: ContextPath, Parent: word[:dot], Prefix: word[dot+1:]}
}

// isCondition reports whether inner starts an if or elif directive whose
// keyword is already complete.
func isCondition(inner string) bool {
	lower := strings.ToLower(inner)
	for _, kw := range []string{"if", "elif"} {
		if strings.HasPrefix(lower, kw) && len(lower) > len(kw) && isBlank(lower[len(kw)]) {
			return true
		}
	}
	return false
}

// lastWord returns the operand being typed: the text after the last blank or
// comparison operator character.
func lastWord(s string) string {
	idx := strings.LastIndexFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || strings.ContainsRune("=!<>~$^", r)
	})
	return s[idx+1:]
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
