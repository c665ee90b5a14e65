package optree

import (
	"fmt"

	errs "github.com/matzehuels/chartkit/pkg/errors"
)

// PathConflictError is returned when a segment of a path is occupied by a
// node of the wrong kind: a non-map where Set or Append needs to descend, or
// a non-list where Append needs to push.
type PathConflictError struct {
	Path    string // full path of the failed call
	Segment string // the offending segment
	Index   int    // position of Segment within Path
	Found   Kind   // kind found at Segment
	Want    Kind   // kind the operation needed
}

func (e *PathConflictError) Error() string {
	return fmt.Sprintf("path conflict at %q (segment %d of %q): found %s, want %s",
		e.Segment, e.Index, e.Path, e.Found, e.Want)
}

// Code returns the error code for this error type.
func (e *PathConflictError) Code() errs.Code { return errs.ErrCodePathConflict }

// RawCodeCollisionError is returned by WrapRaw when the payload contains the
// reserved Sentinel.
type RawCodeCollisionError struct {
	Payload string
}

func (e *RawCodeCollisionError) Error() string {
	return fmt.Sprintf("raw code payload contains reserved marker %q", Sentinel)
}

// Code returns the error code for this error type.
func (e *RawCodeCollisionError) Code() errs.Code { return errs.ErrCodeRawCodeCollision }

// UnserializableLeafError is returned when a value cannot be represented in
// the tree (at Set/Append time) or cannot be written (at Encode time).
type UnserializableLeafError struct {
	Path string
	Kind string
}

func (e *UnserializableLeafError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unserializable value of kind %s", e.Kind)
	}
	return fmt.Sprintf("unserializable value of kind %s at %q", e.Kind, e.Path)
}

// Code returns the error code for this error type.
func (e *UnserializableLeafError) Code() errs.Code { return errs.ErrCodeUnserializableLeaf }

// Ensure the tree errors take part in the pkg/errors taxonomy.
var (
	_ interface{ Code() errs.Code } = (*PathConflictError)(nil)
	_ interface{ Code() errs.Code } = (*RawCodeCollisionError)(nil)
	_ interface{ Code() errs.Code } = (*UnserializableLeafError)(nil)
)
