// Package modifier implements the `|name(arg)` transforms applied to variable
// values before they are printed.
package modifier

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mediafusion/streamtmpl/pkg/lexer"
	"github.com/mediafusion/streamtmpl/pkg/value"
)

// Func transforms a value. arg is the raw text between the parentheses and
// hasArg is false when none were written.
type Func func(v value.Value, arg string, hasArg bool) value.Value

// Registry maps lower-cased modifier names to transforms. It is read-only
// once built and safe for concurrent use.
type Registry struct {
	funcs map[string]Func
}

func NewRegistry(funcs map[string]Func) *Registry {
	r := &Registry{funcs: make(map[string]Func, len(funcs))}
	for name, fn := range funcs {
		r.funcs[strings.ToLower(name)] = fn
	}
	return r
}

var builtins = NewRegistry(map[string]Func{
	"bytes":    Bytes,
	"time":     Time,
	"upper":    Upper,
	"lower":    Lower,
	"title":    Title,
	"first":    First,
	"last":     Last,
	"length":   Length,
	"exists":   Exists,
	"escape":   Escape,
	"e":        Escape,
	"join":     Join,
	"truncate": Truncate,
	"replace":  Replace,
})

// Builtins returns the registry shared with the serving backend.
func Builtins() *Registry {
	return builtins
}

func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[strings.ToLower(name)]
	return fn, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply runs mods left to right. Unknown names leave the value untouched.
func (r *Registry) Apply(ctx context.Context, v value.Value, mods []lexer.Modifier) value.Value {
	for _, mod := range mods {
		fn, ok := r.Lookup(mod.Name)
		if !ok {
			zerolog.Ctx(ctx).Debug().Str("modifier", mod.Name).Msg("skipping unknown modifier")
			continue
		}
		v = fn(v, mod.Arg, mod.HasArg)
	}
	return v
}
