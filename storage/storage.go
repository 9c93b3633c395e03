// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package storage defines the backend-agnostic storage contract: object
// put/get, reference update/delete/list, and transactional scope. Two
// backends (package storage/memory, package storage/sqlstore) implement
// it and MUST be behaviorally equivalent — any finite non-failing
// operation script run against both ends with equal get results for
// every id and equal reference snapshots (spec P6).
package storage

import (
	"github.com/gitnext/core/object"
	"github.com/gitnext/core/refs"
)

// Store is the narrow capability set every caller of storage depends on.
// It is a closed, small interface by design (§9: "dispatch via a narrow
// trait/vtable over an owning handle") so new backends are cheap to add
// and easy to verify against the conformance suite.
type Store interface {
	// Put verifies content_address(o) == id before persisting; re-putting
	// the same (id, o) is a no-op (write-once-by-address idempotence).
	Put(id object.ID, o object.Object) error
	// Get returns the object named id, or ErrObjectNotFound.
	Get(id object.ID) (object.Object, error)
	// UpdateRef creates or overwrites the named reference.
	UpdateRef(ref refs.Reference) error
	// DeleteRef removes the named reference, or ErrRefNotFound.
	DeleteRef(name refs.Name) error
	// ListRefs returns a snapshot of every stored reference, sorted by name.
	ListRefs() ([]refs.Reference, error)
	// Lookup satisfies refs.Lookup for symbolic-reference resolution.
	Lookup(name refs.Name) (refs.Reference, bool, error)
	// BeginTransaction opens a staging scope; its effects are invisible to
	// other callers of Store until Commit returns.
	BeginTransaction() (Transaction, error)
	// Close releases backend resources. After Close, all other methods fail.
	Close() error
}

// Transaction is a short-lived staging buffer: its effects become visible
// atomically on Commit, or are discarded entirely on Rollback. Once
// either returns, the handle is consumed; a further Put, UpdateRef,
// DeleteRef or Commit fails with ErrTransactionFailed, while a further
// Rollback is a no-op that returns nil. Concurrent use of a single handle from more than
// one goroutine is undefined (spec §5: "owned by at most one execution
// context").
type Transaction interface {
	Put(id object.ID, o object.Object) error
	UpdateRef(ref refs.Reference) error
	DeleteRef(name refs.Name) error
	Commit() error
	Rollback() error
}
