// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package repository implements the operations layer —
// init/open/resolve/current_branch/create_branch/delete_branch/
// switch_branch/commit/is_ancestor/merge_base — atop a storage.Store and
// an oplog.Log, generalized from the teacher's pkg/zeta.Repository
// (stripped of its CLI die()/die_error() calls in favor of plain (T,
// error) returns) and from original_source's gitnext-operations
// Repository, which this package's method set and operation-logging
// discipline follow closely.
package repository

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/gitnext/core/internal/xlog"
	"github.com/gitnext/core/object"
	"github.com/gitnext/core/oplog"
	"github.com/gitnext/core/refs"
	"github.com/gitnext/core/storage"
)

// Repository binds a storage.Store to an operation log and a generation
// side table. The zero value is not usable; build one with Init or Open.
type Repository struct {
	store storage.Store
	log   *oplog.Log

	mu          sync.Mutex
	generations generationTable

	logger *logrus.Entry
}

// Init creates a fresh repository: an empty tree, an initial commit, a
// "main" branch, and a symbolic HEAD pointing at it — grounded on
// original_source's Repository::init. now is the commit timestamp (unix
// seconds); callers stamp it themselves since this package never calls
// time.Now() directly, keeping it deterministic for tests.
func Init(store storage.Store, now int64) (*Repository, error) {
	tree := object.NewTree(nil)
	treeID, err := object.ComputeID(tree)
	if err != nil {
		return nil, err
	}
	if err := store.Put(treeID, tree); err != nil {
		return nil, err
	}

	author := object.Signature{Name: "GitNext", Email: "gitnext@system", Timestamp: now}
	commit := &object.Commit{Tree: treeID, Author: author, Committer: author, Message: "Initial commit"}
	commitID, err := object.ComputeID(commit)
	if err != nil {
		return nil, err
	}
	if err := store.Put(commitID, commit); err != nil {
		return nil, err
	}

	main := refs.BranchRef("main")
	if err := store.UpdateRef(refs.NewDirectReference(main, commitID)); err != nil {
		return nil, err
	}
	if err := store.UpdateRef(refs.NewSymbolicReference(refs.Head, main)); err != nil {
		return nil, err
	}

	repo := &Repository{store: store, log: oplog.New(store), generations: generationTable{}, logger: xlog.For("repository")}
	repo.generations.set(commitID, 0)
	if err := repo.generations.persist(store); err != nil {
		return nil, err
	}

	op := oplog.CommitOperation{AfterHead: commitID, Tree: treeID, Message: "Initial commit"}
	if _, err := repo.log.Record(op, oplog.CommandIntent{Command: "init"}, oplog.UserMetadata{}, now); err != nil {
		return nil, err
	}
	repo.logger.WithField("commit", commitID).Info("initialized repository")
	return repo, nil
}

// Open reconstructs a Repository over an already-initialized store,
// restoring the operation log's cursor/chain and the generation table.
func Open(store storage.Store) (*Repository, error) {
	log, err := oplog.Load(store)
	if err != nil {
		return nil, err
	}
	generations, err := loadGenerations(store)
	if err != nil {
		return nil, err
	}
	return &Repository{store: store, log: log, generations: generations, logger: xlog.For("repository")}, nil
}

// Head resolves HEAD to its terminal commit ID.
func (r *Repository) Head() (object.ID, error) {
	return refs.Resolve(r.store, refs.Head)
}

// CurrentBranch reports the branch name HEAD symbolically points at, or
// (_, false, nil) for a detached HEAD (HEAD stored as a direct reference
// rather than symbolic). HEAD is the single source of truth (Open
// Question 2): refs/gitnext/current-branch is written for degrade-
// gracefully purposes but never consulted here.
func (r *Repository) CurrentBranch() (string, bool, error) {
	ref, ok, err := r.store.Lookup(refs.Head)
	if err != nil {
		return "", false, err
	}
	if !ok || !ref.IsSymbolic() || !ref.Symbolic.IsBranch() {
		return "", false, nil
	}
	return ref.Symbolic.BranchName(), true, nil
}

// writeCurrentBranchSideChannel updates the deprecated
// refs/gitnext/current-branch blob pointer whenever SwitchBranch (or an
// undo/redo of a switch onto a branch) repoints HEAD at a branch, so a
// reader that doesn't understand symbolic references can still recover
// the branch name. Init and commit-driven HEAD moves do not write it.
// See DESIGN.md Open Question 2.
func (r *Repository) writeCurrentBranchSideChannel(name string) error {
	blob := object.NewBlob([]byte(name))
	id, err := object.ComputeID(blob)
	if err != nil {
		return err
	}
	if err := r.store.Put(id, blob); err != nil {
		return err
	}
	return r.store.UpdateRef(refs.NewDirectReference(refs.Name(refs.CurrentBranch), id))
}
