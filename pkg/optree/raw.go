package optree

import "strings"

// Sentinel is the reserved marker of the legacy string form of raw code. A
// raw payload may never contain it.
const Sentinel = "###FUNCTION###"

// WrapRaw returns a raw code value holding src. The encoder writes src
// verbatim; nothing checks that it is valid JavaScript.
func WrapRaw(src string) (Value, error) {
	if strings.Contains(src, Sentinel) {
		return Value{}, &RawCodeCollisionError{Payload: src}
	}
	return Value{kind: KindRaw, s: src}, nil
}

// MustRaw is like WrapRaw but panics on a collision. It is meant for code
// literals written in Go source.
func MustRaw(src string) Value {
	v, err := WrapRaw(src)
	if err != nil {
		panic(err)
	}
	return v
}

// IsRaw reports whether v is raw code.
func IsRaw(v Value) bool { return v.kind == KindRaw }

// UnwrapRaw returns the source held by a raw value. It returns "" for any
// other kind.
func UnwrapRaw(v Value) string {
	if v.kind != KindRaw {
		return ""
	}
	return v.s
}

// Mark returns the legacy string form of raw code, Sentinel+src+Sentinel, for
// storage layers that can only hold strings.
func Mark(src string) (string, error) {
	if strings.Contains(src, Sentinel) {
		return "", &RawCodeCollisionError{Payload: src}
	}
	return Sentinel + src + Sentinel, nil
}

// Unmark converts a marked string back into a raw value. Strings that are
// not in the marked form, or whose payload contains another Sentinel, come
// back as ordinary string values and ok is false.
func Unmark(s string) (v Value, ok bool) {
	n := len(Sentinel)
	if len(s) < 2*n || !strings.HasPrefix(s, Sentinel) || !strings.HasSuffix(s, Sentinel) {
		return String(s), false
	}
	payload := s[n : len(s)-n]
	if strings.Contains(payload, Sentinel) {
		return String(s), false
	}
	return Value{kind: KindRaw, s: payload}, true
}
