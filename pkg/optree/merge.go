package optree

// MergeDefaults deep-merges overrides onto defaults and returns a new tree.
//
// Maps present on both sides are merged key by key. For every other pairing
// the override wins when its key is present; default-only keys are kept.
// Lists and leaves are never merged internally: an override list replaces a
// default list outright.
//
// Neither input is modified, and the result owns all of its containers, so a
// defaults tree can be merged into any number of entities that are then
// mutated independently.
func MergeDefaults(defaults, overrides *Tree) *Tree {
	switch {
	case defaults == nil && overrides == nil:
		return New()
	case defaults == nil:
		return overrides.Clone()
	case overrides == nil:
		return defaults.Clone()
	}
	return &Tree{root: mergeMaps(defaults.root, overrides.root)}
}

func mergeMaps(def, over *Map) *Map {
	out := NewMap()
	def.Range(func(k string, dv Value) bool {
		if ov, ok := over.Get(k); ok {
			out.Set(k, mergeValues(dv, ov))
		} else {
			out.Set(k, dv.Clone())
		}
		return true
	})
	over.Range(func(k string, ov Value) bool {
		if !def.Has(k) {
			out.Set(k, ov.Clone())
		}
		return true
	})
	return out
}

func mergeValues(def, over Value) Value {
	if def.kind == KindMap && over.kind == KindMap {
		return MapValue(mergeMaps(def.m, over.m))
	}
	return over.Clone()
}

// Merge applies overrides onto t in place with the rules of MergeDefaults.
// Values taken from overrides are copied, so later mutation of either tree
// does not leak into the other.
func (t *Tree) Merge(overrides *Tree) {
	if overrides == nil {
		return
	}
	mergeInto(t.root, overrides.root)
}

func mergeInto(dst, src *Map) {
	src.Range(func(k string, sv Value) bool {
		dv, ok := dst.Get(k)
		if ok && dv.kind == KindMap && sv.kind == KindMap {
			mergeInto(dv.m, sv.m)
			return true
		}
		dst.Set(k, sv.Clone())
		return true
	})
}
