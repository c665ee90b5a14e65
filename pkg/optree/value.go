package optree

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Kind identifies which member of the Value union is populated.
type Kind uint8

// Value kinds. The zero Value is KindNull.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindRaw
	KindMap
	KindList
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindNumber: "number",
	KindString: "string",
	KindRaw:    "raw",
	KindMap:    "map",
	KindList:   "list",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a node of an option tree: null, bool, number, string, raw code,
// map or list. Maps and lists are held by pointer, so copying a Value shares
// the container.
type Value struct {
	kind  Kind
	b     bool
	isInt bool
	i     int64
	f     float64
	s     string // string or raw payload
	m     *Map
	l     *List
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an integer number. Integers are kept exact on output.
func Int(i int64) Value { return Value{kind: KindNumber, isInt: true, i: i} }

// Number returns a floating point number.
func Number(f float64) Value { return Value{kind: KindNumber, f: f} }

// String returns an ordinary string value. It is never treated as code,
// whatever its content.
func String(s string) Value { return Value{kind: KindString, s: s} }

// MapValue wraps m as a Value. A nil m is null.
func MapValue(m *Map) Value {
	if m == nil {
		return Null()
	}
	return Value{kind: KindMap, m: m}
}

// ListValue wraps l as a Value. A nil l is null.
func ListValue(l *List) Value {
	if l == nil {
		return Null()
	}
	return Value{kind: KindList, l: l}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// ToBool returns the boolean held by v, or the supplied default (false if
// none) when v is not a bool.
func (v Value) ToBool(def ...bool) bool {
	if v.kind == KindBool {
		return v.b
	}
	if len(def) != 0 {
		return def[0]
	}
	return false
}

// ToFloat returns the number held by v as a float64, or the default.
func (v Value) ToFloat(def ...float64) float64 {
	if v.kind == KindNumber {
		if v.isInt {
			return float64(v.i)
		}
		return v.f
	}
	if len(def) != 0 {
		return def[0]
	}
	return 0
}

// ToInt returns the number held by v truncated to int64, or the default.
func (v Value) ToInt(def ...int64) int64 {
	if v.kind == KindNumber {
		if v.isInt {
			return v.i
		}
		return int64(v.f)
	}
	if len(def) != 0 {
		return def[0]
	}
	return 0
}

// ToString returns the string held by v, or the default. Raw values are not
// strings; use UnwrapRaw for those.
func (v Value) ToString(def ...string) string {
	if v.kind == KindString {
		return v.s
	}
	if len(def) != 0 {
		return def[0]
	}
	return ""
}

// ToMap returns the map held by v or nil.
func (v Value) ToMap() *Map {
	if v.kind == KindMap {
		return v.m
	}
	return nil
}

// ToList returns the list held by v or nil.
func (v Value) ToList() *List {
	if v.kind == KindList {
		return v.l
	}
	return nil
}

// Equal reports whether two values are structurally equal. Map equality
// ignores key order; list equality does not.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber:
		if v.isInt && o.isInt {
			return v.i == o.i
		}
		return v.ToFloat() == o.ToFloat()
	case KindString, KindRaw:
		return v.s == o.s
	case KindMap:
		return v.m.equal(o.m)
	case KindList:
		return v.l.equal(o.l)
	}
	return false
}

// Clone returns a deep copy of v. Scalars are returned as is.
func (v Value) Clone() Value {
	switch v.kind {
	case KindMap:
		return MapValue(v.m.clone())
	case KindList:
		return ListValue(v.l.clone())
	}
	return v
}

// own returns a deep copy of v that shares no container with the caller.
// active holds the containers on the current descent; meeting one again
// means v holds itself.
func own(v Value, path string, active map[any]bool) (Value, error) {
	switch v.kind {
	case KindMap:
		if active[v.m] {
			return Value{}, &UnserializableLeafError{Path: path, Kind: "cyclic map"}
		}
		active[v.m] = true
		defer delete(active, v.m)
		out := NewMap()
		for _, k := range v.m.keys {
			c, err := own(v.m.vals[k], joinPath(path, k), active)
			if err != nil {
				return Value{}, err
			}
			out.Set(k, c)
		}
		return MapValue(out), nil
	case KindList:
		if active[v.l] {
			return Value{}, &UnserializableLeafError{Path: path, Kind: "cyclic list"}
		}
		active[v.l] = true
		defer delete(active, v.l)
		out := &List{items: make([]Value, 0, len(v.l.items))}
		for i, item := range v.l.items {
			c, err := own(item, indexPath(path, i), active)
			if err != nil {
				return Value{}, err
			}
			out.items = append(out.items, c)
		}
		return ListValue(out), nil
	}
	return v, nil
}

// String renders v in compact insertion-order form. It is meant for
// debugging; unserializable numbers render as their Go formatting.
func (v Value) String() string {
	out, err := EncodeValue(v)
	if err != nil {
		return fmt.Sprintf("<%s: %v>", v.kind, err)
	}
	return string(out)
}

// ValueOf converts a native Go value into a Value.
//
// Supported inputs are nil, Value, *Map, *List, *Tree, bool, every integer
// and float width, json.Number, string, map[string]any, map[string]string,
// []any, []string, []float64, []int and []map[string]any. Strings in the
// marked form Sentinel+code+Sentinel become raw values (see Unmark). Keys of
// native Go maps are inserted in sorted order, since Go maps carry none.
//
// Anything else fails with *UnserializableLeafError.
func ValueOf(data any) (Value, error) {
	return valueOf(data, "")
}

func valueOf(data any, path string) (Value, error) {
	switch d := data.(type) {
	case nil:
		return Null(), nil
	case Value:
		return d, nil
	case *Map:
		if d == nil {
			return Null(), nil
		}
		return MapValue(d), nil
	case *List:
		if d == nil {
			return Null(), nil
		}
		return ListValue(d), nil
	case *Tree:
		if d == nil {
			return Null(), nil
		}
		return MapValue(d.root), nil
	case bool:
		return Bool(d), nil
	case string:
		v, _ := Unmark(d)
		return v, nil
	case int:
		return Int(int64(d)), nil
	case int8:
		return Int(int64(d)), nil
	case int16:
		return Int(int64(d)), nil
	case int32:
		return Int(int64(d)), nil
	case int64:
		return Int(d), nil
	case uint:
		return fromUint(uint64(d)), nil
	case uint8:
		return Int(int64(d)), nil
	case uint16:
		return Int(int64(d)), nil
	case uint32:
		return Int(int64(d)), nil
	case uint64:
		return fromUint(d), nil
	case float32:
		return Number(float64(d)), nil
	case float64:
		return Number(d), nil
	case json.Number:
		if i, err := d.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := d.Float64()
		if err != nil {
			return Value{}, &UnserializableLeafError{Path: path, Kind: "json.Number(" + d.String() + ")"}
		}
		return Number(f), nil
	case map[string]any:
		m := NewMap()
		for _, k := range sortedKeys(d) {
			v, err := valueOf(d[k], joinPath(path, k))
			if err != nil {
				return Value{}, err
			}
			m.Set(k, v)
		}
		return MapValue(m), nil
	case map[string]string:
		m := NewMap()
		for _, k := range sortedKeys(d) {
			v, _ := Unmark(d[k])
			m.Set(k, v)
		}
		return MapValue(m), nil
	case []any:
		l := &List{items: make([]Value, 0, len(d))}
		for i, item := range d {
			v, err := valueOf(item, indexPath(path, i))
			if err != nil {
				return Value{}, err
			}
			l.items = append(l.items, v)
		}
		return ListValue(l), nil
	case []map[string]any:
		l := &List{items: make([]Value, 0, len(d))}
		for i, item := range d {
			v, err := valueOf(item, indexPath(path, i))
			if err != nil {
				return Value{}, err
			}
			l.items = append(l.items, v)
		}
		return ListValue(l), nil
	case []string:
		l := &List{items: make([]Value, 0, len(d))}
		for _, s := range d {
			v, _ := Unmark(s)
			l.items = append(l.items, v)
		}
		return ListValue(l), nil
	case []float64:
		l := &List{items: make([]Value, 0, len(d))}
		for _, f := range d {
			l.items = append(l.items, Number(f))
		}
		return ListValue(l), nil
	case []int:
		l := &List{items: make([]Value, 0, len(d))}
		for _, i := range d {
			l.items = append(l.items, Int(int64(i)))
		}
		return ListValue(l), nil
	default:
		return Value{}, &UnserializableLeafError{Path: path, Kind: fmt.Sprintf("%T", data)}
	}
}

func fromUint(u uint64) Value {
	if u <= math.MaxInt64 {
		return Int(int64(u))
	}
	return Number(float64(u))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func joinPath(base, key string) string {
	if base == "" {
		return key
	}
	return base + "." + key
}

func indexPath(base string, i int) string {
	return base + "[" + strconv.Itoa(i) + "]"
}
