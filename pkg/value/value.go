// Package value models the data context a template is rendered against.
//
// A Value is a small tagged union (null, string, number, bool, list, map) so that
// path resolution, truthiness and string conversion behave the same no matter how
// the data was produced (JSON, YAML, or Go literals).
package value

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is an immutable context value. The zero Value is null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	list []Value
	m    *Map
}

// Map is an ordered string-keyed mapping.
type Map struct {
	keys   []string
	values map[string]Value
}

func NewMap() *Map {
	return &Map{values: make(map[string]Value)}
}

// Set adds or replaces key. Insertion order of new keys is preserved.
func (m *Map) Set(key string, v Value) *Map {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
	return m
}

func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Null(), false
	}
	v, ok := m.values[key]
	return v, ok
}

func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func Null() Value { return Value{} }
func String(s string) Value { return Value{kind: KindString, str: s} }
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }
func List(items ...Value) Value { return Value{kind: KindList, list: items} }

func FromMap(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindMap, m: m}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) Str() string { return v.str }
func (v Value) Float() float64 { return v.num }
func (v Value) Boolean() bool { return v.b }

// Items returns the list elements, or nil if v is not a list.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Map returns the underlying map, or nil if v is not a map.
func (v Value) Map() *Map {
	if v.kind != KindMap {
		return nil
	}
	return v.m
}

// Get looks up key on a map value.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Null(), false
	}
	return v.m.Get(key)
}

// Truthy reports the truthiness of v: null is false, bools are themselves,
// strings are true when non-blank, lists when non-empty, numbers when non-zero,
// and maps are always true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.b
	case KindString:
		return strings.TrimSpace(v.str) != ""
	case KindList:
		return len(v.list) > 0
	case KindNumber:
		return v.num != 0
	default:
		return true
	}
}

// ToNumber coerces v to a float. Strings are parsed after trimming, bools map to
// 1 and 0. Null, lists, maps and strings spelling NaN or infinity do not
// coerce.
func (v Value) ToNumber() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// String returns the natural string form of v. Null is empty, bools are
// "true"/"false", lists are joined with ", " and maps are rendered as JSON.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.str
	case KindNumber:
		return FormatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindList:
		parts := make([]string, len(v.list))
		for i, item := range v.list {
			parts[i] = item.String()
		}
		return strings.Join(parts, ", ")
	case KindMap:
		out, err := v.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(out)
	default:
		return ""
	}
}

// FormatNumber prints integral values without a fractional part.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FromAny converts plain Go data (as produced by encoding/json or yaml.v3 when
// decoding into any) into a Value. Keys of native maps are sorted since their
// order is not known.
func FromAny(in any) Value {
	switch t := in.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		return String(t)
	case []byte:
		return String(string(t))
	case bool:
		return Bool(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int8:
		return Number(float64(t))
	case int16:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint8:
		return Number(float64(t))
	case uint16:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case interface{ Float64() (float64, error) }:
		f, err := t.Float64()
		if err != nil {
			return String(fmt.Sprint(t))
		}
		return Number(f)
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = FromAny(item)
		}
		return List(items...)
	case []string:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = String(item)
		}
		return List(items...)
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			m.Set(k, FromAny(t[k]))
		}
		return FromMap(m)
	case map[string]string:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			m.Set(k, String(t[k]))
		}
		return FromMap(m)
	case map[any]any:
		keys := make([]string, 0, len(t))
		conv := make(map[string]any, len(t))
		for k, item := range t {
			ks := fmt.Sprint(k)
			keys = append(keys, ks)
			conv[ks] = item
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			m.Set(k, FromAny(conv[k]))
		}
		return FromMap(m)
	default:
		return String(fmt.Sprint(t))
	}
}
