package optree

import (
	"slices"
	"sort"
)

// Map is a string-keyed map that remembers insertion order. Replacing the
// value of an existing key keeps its position.
type Map struct {
	keys []string
	vals map[string]Value
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{vals: make(map[string]Value)}
}

// Len returns the number of keys.
func (m *Map) Len() int { return len(m.keys) }

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string { return slices.Clone(m.keys) }

// SortedKeys returns the keys in byte-wise ascending order.
func (m *Map) SortedKeys() []string {
	keys := slices.Clone(m.keys)
	sort.Strings(keys)
	return keys
}

// Get returns the value at key and whether it was present.
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.vals[key]
	return ok
}

// Set associates v with key.
func (m *Map) Set(key string, v Value) {
	if m.vals == nil {
		m.vals = make(map[string]Value)
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	if _, ok := m.vals[key]; !ok {
		return false
	}
	delete(m.vals, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
	return true
}

// Range calls fn for every entry in insertion order until fn returns false.
func (m *Map) Range(fn func(key string, v Value) bool) {
	for _, k := range m.keys {
		if !fn(k, m.vals[k]) {
			return
		}
	}
}

func (m *Map) clone() *Map {
	out := &Map{
		keys: slices.Clone(m.keys),
		vals: make(map[string]Value, len(m.vals)),
	}
	for k, v := range m.vals {
		out.vals[k] = v.Clone()
	}
	return out
}

func (m *Map) equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}
	for k, v := range m.vals {
		ov, ok := o.vals[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// List is an ordered sequence of values. Its order is significant and is
// never changed by encoding.
type List struct {
	items []Value
}

// NewList creates a list holding vals.
func NewList(vals ...Value) *List {
	return &List{items: slices.Clone(vals)}
}

// Len returns the number of items.
func (l *List) Len() int { return len(l.items) }

// At returns the item at index i. It panics if i is out of range.
func (l *List) At(i int) Value { return l.items[i] }

// Append pushes v onto the end of the list.
func (l *List) Append(v Value) { l.items = append(l.items, v) }

// Values returns a copy of the items.
func (l *List) Values() []Value { return slices.Clone(l.items) }

// Range calls fn for every item in order until fn returns false.
func (l *List) Range(fn func(i int, v Value) bool) {
	for i, v := range l.items {
		if !fn(i, v) {
			return
		}
	}
}

func (l *List) clone() *List {
	out := &List{items: make([]Value, len(l.items))}
	for i, v := range l.items {
		out.items[i] = v.Clone()
	}
	return out
}

func (l *List) equal(o *List) bool {
	if l.Len() != o.Len() {
		return false
	}
	for i := range l.items {
		if !l.items[i].Equal(o.items[i]) {
			return false
		}
	}
	return true
}
