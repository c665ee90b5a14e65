package optree

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// maxDepth bounds encoding recursion; a deeper tree can only come from a
// value that was stored inside itself.
const maxDepth = 512

// EncodeOption configures encoding via [Encode] and [EncodeValue].
type EncodeOption func(*encoder)

// WithSortKeys emits map keys in ascending byte order at every level, so the
// output does not depend on the order builder methods were called in. List
// order is never changed.
func WithSortKeys() EncodeOption { return func(e *encoder) { e.sortKeys = true } }

// WithPretty breaks the output over lines, indenting each level with indent
// ("  " if empty). It only changes whitespace between punctuation; raw code
// is written exactly as stored.
func WithPretty(indent string) EncodeOption {
	return func(e *encoder) {
		if indent == "" {
			indent = "  "
		}
		e.pretty = true
		e.indent = indent
	}
}

type encoder struct {
	buf      bytes.Buffer
	sortKeys bool
	pretty   bool
	indent   string
}

// Encode writes t as a JavaScript object literal: JSON everywhere except at
// raw code values, which are written verbatim without quotes or escaping.
//
// Output is compact and in insertion order unless WithSortKeys or WithPretty
// is given. Strings are escaped like encoding/json does, including <, > and
// &, so the result can be inlined in a <script> element. Encode fails with
// *UnserializableLeafError on NaN or infinite numbers.
//
// Encode does not modify t and is safe to call concurrently on a tree that
// nobody is mutating.
func Encode(t *Tree, opts ...EncodeOption) ([]byte, error) {
	return EncodeValue(MapValue(t.root), opts...)
}

// EncodeValue encodes a single value with the rules of Encode.
func EncodeValue(v Value, opts ...EncodeOption) ([]byte, error) {
	e := &encoder{}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.encode(v, "", 0); err != nil {
		return nil, err
	}
	return e.buf.Bytes(), nil
}

func (e *encoder) encode(v Value, path string, depth int) error {
	if depth > maxDepth {
		return &UnserializableLeafError{Path: path, Kind: "cyclic " + v.kind.String()}
	}
	switch v.kind {
	case KindNull:
		e.buf.WriteString("null")
	case KindBool:
		e.buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		return e.number(v, path)
	case KindString:
		e.str(v.s)
	case KindRaw:
		e.buf.WriteString(v.s)
	case KindMap:
		return e.object(v.m, path, depth)
	case KindList:
		return e.array(v.l, path, depth)
	default:
		return &UnserializableLeafError{Path: path, Kind: v.kind.String()}
	}
	return nil
}

func (e *encoder) object(m *Map, path string, depth int) error {
	if m.Len() == 0 {
		e.buf.WriteString("{}")
		return nil
	}
	keys := m.keys
	if e.sortKeys {
		keys = m.SortedKeys()
	}
	e.buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		e.str(k)
		e.buf.WriteByte(':')
		if e.pretty {
			e.buf.WriteByte(' ')
		}
		if err := e.encode(m.vals[k], joinPath(path, k), depth+1); err != nil {
			return err
		}
	}
	e.newline(depth)
	e.buf.WriteByte('}')
	return nil
}

func (e *encoder) array(l *List, path string, depth int) error {
	if l.Len() == 0 {
		e.buf.WriteString("[]")
		return nil
	}
	e.buf.WriteByte('[')
	for i, item := range l.items {
		if i > 0 {
			e.buf.WriteByte(',')
		}
		e.newline(depth + 1)
		if err := e.encode(item, indexPath(path, i), depth+1); err != nil {
			return err
		}
	}
	e.newline(depth)
	e.buf.WriteByte(']')
	return nil
}

func (e *encoder) newline(depth int) {
	if !e.pretty {
		return
	}
	e.buf.WriteByte('\n')
	e.buf.WriteString(strings.Repeat(e.indent, depth))
}

// number follows encoding/json: integers exactly, floats in the shortest
// form, switching to exponent notation below 1e-6 and from 1e21.
func (e *encoder) number(v Value, path string) error {
	if v.isInt {
		e.buf.WriteString(strconv.FormatInt(v.i, 10))
		return nil
	}
	f := v.f
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return &UnserializableLeafError{Path: path, Kind: "number(" + strconv.FormatFloat(f, 'g', -1, 64) + ")"}
	}
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	e.buf.Write(b)
	return nil
}

func (e *encoder) str(s string) {
	// Marshalling a string cannot fail.
	b, _ := json.Marshal(s)
	e.buf.Write(b)
}
