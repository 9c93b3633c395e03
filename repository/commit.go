// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"github.com/gitnext/core/object"
	"github.com/gitnext/core/oplog"
	"github.com/gitnext/core/refs"
	"github.com/gitnext/core/storage"
)

// Commit builds and stores a new Commit object, computes and persists its
// generation number, and advances HEAD — through the current branch ref
// if one is checked out, or directly for a detached HEAD. Grounded on
// original_source's Repository::commit (gitnext-operations/src/
// repository.rs), which performs the same generation-then-ref-update-
// then-log sequence.
func (r *Repository) Commit(tree object.ID, parents []object.ID, author, committer object.Signature, message string, meta oplog.UserMetadata, now int64) (object.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	commit := &object.Commit{Tree: tree, Parents: parents, Author: author, Committer: committer, Message: message}
	if err := commit.Validate(); err != nil {
		return object.ZeroID, err
	}
	id, err := object.ComputeID(commit)
	if err != nil {
		return object.ZeroID, err
	}

	generation := r.generations.computeGeneration(parents)
	r.generations.set(id, generation)

	beforeHead, err := r.currentHeadOrZero()
	if err != nil {
		return object.ZeroID, err
	}
	headRef, headSet, err := r.store.Lookup(refs.Head)
	if err != nil {
		return object.ZeroID, err
	}

	// The commit object, the generation side table, and the HEAD/branch
	// advance all land in one transaction: a failure partway through
	// (e.g. the ref update) must not leave a durable commit object with
	// no ref pointing at it, per the commit operation's atomicity
	// requirement.
	txn, err := r.store.BeginTransaction()
	if err != nil {
		return object.ZeroID, err
	}
	if err := txn.Put(id, commit); err != nil {
		_ = txn.Rollback()
		return object.ZeroID, err
	}
	if err := r.generations.persist(txn); err != nil {
		_ = txn.Rollback()
		return object.ZeroID, err
	}
	if err := advanceHeadIn(txn, headRef, headSet, id); err != nil {
		_ = txn.Rollback()
		return object.ZeroID, err
	}
	if err := txn.Commit(); err != nil {
		return object.ZeroID, err
	}

	op := oplog.CommitOperation{
		BeforeHead: beforeHeadPointer(beforeHead),
		AfterHead:  id,
		Tree:       tree,
		Parents:    parents,
		Message:    message,
	}
	if _, err := r.log.Record(op, oplog.CommandIntent{Command: "commit", Args: []string{"-m", message}}, meta, now); err != nil {
		return object.ZeroID, err
	}
	r.logger.WithField("commit", id).WithField("generation", generation).Info("committed")
	return id, nil
}

// advanceHeadIn moves HEAD to commitID within an in-flight transaction:
// through the checked-out branch ref when HEAD is symbolic (headRef,
// headSet as resolved by the caller before the transaction began), or
// directly when detached.
func advanceHeadIn(txn storage.Transaction, headRef refs.Reference, headSet bool, commitID object.ID) error {
	if headSet && headRef.IsSymbolic() {
		return txn.UpdateRef(refs.NewDirectReference(headRef.Symbolic, commitID))
	}
	return txn.UpdateRef(refs.NewDirectReference(refs.Head, commitID))
}

// currentHeadOrZero resolves HEAD, returning object.ZeroID when no HEAD
// reference exists yet (the very first commit in a freshly opened store
// that bypassed Init) rather than treating that as an error.
func (r *Repository) currentHeadOrZero() (object.ID, error) {
	if _, ok, err := r.store.Lookup(refs.Head); err != nil {
		return object.ZeroID, err
	} else if !ok {
		return object.ZeroID, nil
	}
	return refs.Resolve(r.store, refs.Head)
}

func beforeHeadPointer(id object.ID) *object.ID {
	if id == object.ZeroID {
		return nil
	}
	return &id
}
