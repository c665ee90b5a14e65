package optree

import "fmt"

// Tree is an option tree rooted at a map. Trees are mutated in place and are
// owned by a single configuration pass.
type Tree struct {
	root *Map
}

// New creates an empty tree.
func New() *Tree {
	return &Tree{root: NewMap()}
}

// FromMap creates a tree from a native Go map. See ValueOf for the accepted
// leaf types.
func FromMap(in map[string]any) (*Tree, error) {
	v, err := owned(in, "")
	if err != nil {
		return nil, err
	}
	return &Tree{root: v.m}, nil
}

// FromValue creates a tree rooted at the map held by v. It shares v's map.
func FromValue(v Value) (*Tree, error) {
	if v.kind != KindMap {
		return nil, fmt.Errorf("tree root must be a map, got %s", v.kind)
	}
	return &Tree{root: v.m}, nil
}

// Root returns the root map.
func (t *Tree) Root() *Map { return t.root }

// Set assigns value at path, replacing whatever was there. Missing
// intermediate maps are created; sibling keys are left untouched. If an
// intermediate segment holds something other than a map, Set fails with
// *PathConflictError and the tree is not modified.
//
// Maps and lists are copied on the way in, so the tree never shares a
// container with the caller or with itself; t.Set("copy", t) stores a
// snapshot. A container that holds itself fails with
// *UnserializableLeafError.
func (t *Tree) Set(path string, value any) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	v, err := owned(value, path)
	if err != nil {
		return err
	}
	if err := t.check(path, segs[:len(segs)-1], false); err != nil {
		return err
	}
	parent := t.ensure(segs[:len(segs)-1])
	parent.Set(segs[len(segs)-1], v)
	return nil
}

// Append pushes value onto the list at path, creating the list (and any
// missing intermediate maps) on first use. Earlier items keep their order.
// If the terminal segment holds something other than a list, or an
// intermediate segment something other than a map, Append fails with
// *PathConflictError and the tree is not modified. value is copied as in
// Set.
func (t *Tree) Append(path string, value any) error {
	segs, err := splitPath(path)
	if err != nil {
		return err
	}
	v, err := owned(value, path)
	if err != nil {
		return err
	}
	if err := t.check(path, segs, true); err != nil {
		return err
	}
	parent := t.ensure(segs[:len(segs)-1])
	last := segs[len(segs)-1]
	cur, ok := parent.Get(last)
	if !ok {
		cur = ListValue(NewList())
		parent.Set(last, cur)
	}
	cur.l.Append(v)
	return nil
}

func owned(value any, path string) (Value, error) {
	v, err := valueOf(value, path)
	if err != nil {
		return Value{}, err
	}
	return own(v, path, make(map[any]bool))
}

// check walks the existing prefix of segs without modifying anything. Every
// existing segment must hold a map, except that with list set the final
// segment must hold a list.
func (t *Tree) check(path string, segs []string, list bool) error {
	m := t.root
	for i, seg := range segs {
		v, ok := m.Get(seg)
		if !ok {
			return nil
		}
		want := KindMap
		if list && i == len(segs)-1 {
			want = KindList
		}
		if v.kind != want {
			return &PathConflictError{Path: path, Segment: seg, Index: i, Found: v.kind, Want: want}
		}
		if v.kind == KindMap {
			m = v.m
		}
	}
	return nil
}

// ensure walks segs from the root, creating empty maps where missing, and
// returns the map at the end. Callers run check first.
func (t *Tree) ensure(segs []string) *Map {
	m := t.root
	for _, seg := range segs {
		v, ok := m.Get(seg)
		if !ok {
			child := NewMap()
			m.Set(seg, MapValue(child))
			m = child
			continue
		}
		m = v.m
	}
	return m
}

// Get returns the value at path, or def if any segment is absent. Get never
// creates structure.
func (t *Tree) Get(path string, def Value) Value {
	if v, ok := t.Lookup(path); ok {
		return v
	}
	return def
}

// Lookup returns the value at path and whether it exists.
func (t *Tree) Lookup(path string) (Value, bool) {
	segs, err := splitPath(path)
	if err != nil {
		return Value{}, false
	}
	m := t.root
	for _, seg := range segs[:len(segs)-1] {
		v, ok := m.Get(seg)
		if !ok || v.kind != KindMap {
			return Value{}, false
		}
		m = v.m
	}
	return m.Get(segs[len(segs)-1])
}

// Has reports whether path exists.
func (t *Tree) Has(path string) bool {
	_, ok := t.Lookup(path)
	return ok
}

// Delete removes the value at path and reports whether anything was removed.
// Emptied parent maps are kept.
func (t *Tree) Delete(path string) bool {
	segs, err := splitPath(path)
	if err != nil {
		return false
	}
	m := t.root
	for _, seg := range segs[:len(segs)-1] {
		v, ok := m.Get(seg)
		if !ok || v.kind != KindMap {
			return false
		}
		m = v.m
	}
	return m.Delete(segs[len(segs)-1])
}

// Range walks the tree depth-first in insertion order and calls fn for every
// node that is not a map: scalar leaves, raw values and whole lists. Empty
// maps are reported too, so that every Set is visible. Range stops when fn
// returns false.
func (t *Tree) Range(fn func(path string, v Value) bool) {
	rangeMap(t.root, "", fn)
}

func rangeMap(m *Map, prefix string, fn func(string, Value) bool) bool {
	cont := true
	m.Range(func(k string, v Value) bool {
		p := joinPath(prefix, k)
		if v.kind == KindMap && v.m.Len() > 0 {
			cont = rangeMap(v.m, p, fn)
		} else {
			cont = fn(p, v)
		}
		return cont
	})
	return cont
}

// Len returns the number of nodes Range would visit.
func (t *Tree) Len() int {
	var n int
	t.Range(func(string, Value) bool {
		n++
		return true
	})
	return n
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	return &Tree{root: t.root.clone()}
}

// Equal reports whether two trees hold structurally equal content.
func (t *Tree) Equal(o *Tree) bool {
	return t.root.equal(o.root)
}

// String returns the compact insertion-order encoding of the tree.
func (t *Tree) String() string {
	return MapValue(t.root).String()
}
