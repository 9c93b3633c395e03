// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package storage

import (
	"fmt"

	"github.com/gitnext/core/object"
	"github.com/gitnext/core/refs"
)

// ErrObjectNotFound reports that no object is stored under id.
type ErrObjectNotFound struct {
	ID object.ID
}

func (e *ErrObjectNotFound) Error() string {
	return fmt.Sprintf("storage: object not found: %s", e.ID)
}

// ErrRefNotFound reports that no reference is stored under name.
type ErrRefNotFound struct {
	Name refs.Name
}

func (e *ErrRefNotFound) Error() string {
	return fmt.Sprintf("storage: reference not found: %s", e.Name)
}

// ErrHashMismatch reports that a Put's claimed id disagrees with the
// object's actual content address — an address-integrity violation.
type ErrHashMismatch struct {
	Expected object.ID
	Got      object.ID
}

func (e *ErrHashMismatch) Error() string {
	return fmt.Sprintf("storage: hash mismatch: claimed %s, computed %s", e.Expected, e.Got)
}

// ErrInvalidObject reports that stored bytes could not be decoded back
// into a valid object — an integrity error, not a validation error: the
// operation that discovered it fails, but the backend remains usable.
type ErrInvalidObject struct {
	ID     object.ID
	Reason string
}

func (e *ErrInvalidObject) Error() string {
	return fmt.Sprintf("storage: invalid object %s: %s", e.ID, e.Reason)
}

// ErrTransactionFailed reports use of a Transaction handle after it was
// already committed or rolled back, or a backend failure during commit.
type ErrTransactionFailed struct {
	Reason string
}

func (e *ErrTransactionFailed) Error() string {
	return fmt.Sprintf("storage: transaction failed: %s", e.Reason)
}

// ErrConcurrentModification reports a compare-and-swap reference update
// that lost a race to a concurrent writer.
type ErrConcurrentModification struct {
	Name refs.Name
}

func (e *ErrConcurrentModification) Error() string {
	return fmt.Sprintf("storage: concurrent modification of %s", e.Name)
}

// ErrBackendUnavailable reports an I/O or connection failure underneath
// the Store interface.
type ErrBackendUnavailable struct {
	Name   string
	Reason string
}

func (e *ErrBackendUnavailable) Error() string {
	return fmt.Sprintf("storage: backend %q unavailable: %s", e.Name, e.Reason)
}

func IsObjectNotFound(err error) bool {
	_, ok := err.(*ErrObjectNotFound)
	return ok
}

func IsRefNotFound(err error) bool {
	_, ok := err.(*ErrRefNotFound)
	return ok
}

func IsHashMismatch(err error) bool {
	_, ok := err.(*ErrHashMismatch)
	return ok
}
