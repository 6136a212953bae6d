package eval

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mediafusion/streamtmpl/pkg/value"
)

// UnsafeAttributes are path segments that never resolve, whatever the context
// holds under them. The set mirrors the serving backend's guard against
// templates reaching into object internals, and must stay in sync with it.
var UnsafeAttributes = map[string]struct{}{
	"__class__":          {},
	"__base__":           {},
	"__bases__":          {},
	"__mro__":            {},
	"__subclasses__":     {},
	"__dict__":           {},
	"__globals__":        {},
	"__builtins__":       {},
	"__init__":           {},
	"__new__":            {},
	"__code__":           {},
	"__func__":           {},
	"__self__":           {},
	"__module__":         {},
	"__import__":         {},
	"__getattribute__":   {},
	"__getattr__":        {},
	"__setattr__":        {},
	"__delattr__":        {},
	"__reduce__":         {},
	"__reduce_ex__":      {},
	"__closure__":        {},
	"__defaults__":       {},
	"__kwdefaults__":     {},
	"__qualname__":       {},
	"__weakref__":        {},
	"__annotations__":    {},
	"__loader__":         {},
	"__spec__":           {},
	"__file__":           {},
	"__table__":          {},
	"__mapper__":         {},
	"__tablename__":      {},
	"_sa_instance_state": {},
	"_sa_class_manager":  {},
	"_sa_registry":       {},
	"mro":                {},
	"func_globals":       {},
	"f_globals":          {},
	"f_locals":           {},
	"f_builtins":         {},
	"gi_frame":           {},
	"gi_code":            {},
	"cr_frame":           {},
	"ag_frame":           {},
	"tb_frame":           {},
	"co_code":            {},
}

// IsUnsafeSegment reports whether a single path segment is blocked.
func IsUnsafeSegment(segment string) bool {
	if strings.HasPrefix(segment, "_") {
		return true
	}
	_, ok := UnsafeAttributes[segment]
	return ok
}

// BlockedSegment returns the first blocked segment of a dotted path.
func BlockedSegment(path string) (string, bool) {
	for _, segment := range strings.Split(path, ".") {
		if IsUnsafeSegment(segment) {
			return segment, true
		}
	}
	return "", false
}

// ResolvePath walks a dotted path through nested maps. The second result is
// false when a segment is missing, is blocked, or the walk hits a non-map; the
// returned value is then null.
func ResolvePath(ctx context.Context, data value.Value, path string) (value.Value, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		if IsUnsafeSegment(segment) {
			zerolog.Ctx(ctx).Debug().Str("path", path).Str("segment", segment).Msg("blocked unsafe path segment")
			return value.Null(), false
		}
		next, ok := current.Get(segment)
		if !ok {
			return value.Null(), false
		}
		current = next
	}
	return current, true
}
