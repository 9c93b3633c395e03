// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import "fmt"

// ErrInvalidField reports a field that failed a structural check: empty
// where non-empty is required, or containing a forbidden byte.
type ErrInvalidField struct {
	Kind   Kind
	Field  string
	Reason string
}

func (e *ErrInvalidField) Error() string {
	return fmt.Sprintf("object: invalid %s field %s: %s", e.Kind, e.Field, e.Reason)
}

// ErrInvalidOrdering reports a Tree whose entries are not strictly
// ascending by name, or contain a duplicate name.
type ErrInvalidOrdering struct {
	Previous string
	Next     string
}

func (e *ErrInvalidOrdering) Error() string {
	return fmt.Sprintf("object: tree entries not strictly ordered: %q >= %q", e.Previous, e.Next)
}

// ErrSizeMismatch reports a Blob whose declared size disagrees with the
// length of its content.
type ErrSizeMismatch struct {
	Declared uint64
	Actual   uint64
}

func (e *ErrSizeMismatch) Error() string {
	return fmt.Sprintf("object: blob size mismatch: declared %d, actual %d", e.Declared, e.Actual)
}

// ErrModeKindMismatch reports a TreeEntry whose FileMode does not agree
// with its declared Kind (subtree mode iff Tree kind, the three file
// modes iff Blob kind).
type ErrModeKindMismatch struct {
	Name string
	Mode FileMode
	Kind Kind
}

func (e *ErrModeKindMismatch) Error() string {
	return fmt.Sprintf("object: entry %q: mode %s does not match kind %s", e.Name, e.Mode, e.Kind)
}

// IsInvalidField reports whether err is an *ErrInvalidField.
func IsInvalidField(err error) bool {
	_, ok := err.(*ErrInvalidField)
	return ok
}

// IsInvalidOrdering reports whether err is an *ErrInvalidOrdering.
func IsInvalidOrdering(err error) bool {
	_, ok := err.(*ErrInvalidOrdering)
	return ok
}

// IsSizeMismatch reports whether err is an *ErrSizeMismatch.
func IsSizeMismatch(err error) bool {
	_, ok := err.(*ErrSizeMismatch)
	return ok
}

// IsModeKindMismatch reports whether err is an *ErrModeKindMismatch.
func IsModeKindMismatch(err error) bool {
	_, ok := err.(*ErrModeKindMismatch)
	return ok
}
