// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"github.com/gitnext/core/object"
	"github.com/gitnext/core/oplog"
	"github.com/gitnext/core/refs"
)

// CreateBranch records a new refs/heads/<name> pointing at target. It
// validates name against the reference-name grammar (refs.Name.Validate),
// rejects a target that isn't in storage, and fails with ErrBranchExists
// if the name is already taken — grounded on the teacher's CreateBranch
// (pkg/zeta/branch.go).
func (r *Repository) CreateBranch(name string, target object.ID, meta oplog.UserMetadata, now int64) error {
	if err := refs.Name(name).Validate(); err != nil {
		return err
	}
	ref := refs.BranchRef(name)
	if _, ok, err := r.store.Lookup(ref); err != nil {
		return err
	} else if ok {
		return &ErrBranchExists{Name: name}
	}
	if _, err := r.store.Get(target); err != nil {
		return err
	}
	if err := r.store.UpdateRef(refs.NewDirectReference(ref, target)); err != nil {
		return err
	}
	op := oplog.CreateBranchOperation{Name: name, Target: target}
	if _, err := r.log.Record(op, oplog.CommandIntent{Command: "branch", Args: []string{name}}, meta, now); err != nil {
		return err
	}
	r.logger.WithField("branch", name).Info("created branch")
	return nil
}

// DeleteBranch removes refs/heads/<name>. Deleting the branch HEAD
// currently points at is rejected — grounded on the teacher's
// ErrNotAllowedRemoveCurrent (pkg/zeta/branch.go).
func (r *Repository) DeleteBranch(name string, meta oplog.UserMetadata, now int64) error {
	ref := refs.BranchRef(name)
	existing, ok, err := r.store.Lookup(ref)
	if err != nil {
		return err
	}
	if !ok {
		return &ErrBranchNotFound{Name: name}
	}
	if current, isBranch, err := r.CurrentBranch(); err != nil {
		return err
	} else if isBranch && current == name {
		return &ErrCannotDeleteCurrentBranch{Name: name}
	}

	if err := r.store.DeleteRef(ref); err != nil {
		return err
	}
	op := oplog.DeleteBranchOperation{Name: name, DeletedTarget: existing.Direct}
	if _, err := r.log.Record(op, oplog.CommandIntent{Command: "branch", Args: []string{"-d", name}}, meta, now); err != nil {
		return err
	}
	r.logger.WithField("branch", name).Info("deleted branch")
	return nil
}

// SwitchBranch moves HEAD to point symbolically at refs/heads/<name>.
// Grounded on the teacher's switch command (pkg/zeta/switch.go): HEAD is
// always updated; refs/gitnext/current-branch is written alongside it as
// the degrade-gracefully side channel (Open Question 2).
func (r *Repository) SwitchBranch(name string, meta oplog.UserMetadata, now int64) error {
	ref := refs.BranchRef(name)
	if _, ok, err := r.store.Lookup(ref); err != nil {
		return err
	} else if !ok {
		return &ErrBranchNotFound{Name: name}
	}

	beforeHead, err := r.Head()
	if err != nil {
		return err
	}
	fromBranch, _, err := r.CurrentBranch()
	if err != nil {
		return err
	}

	if err := r.store.UpdateRef(refs.NewSymbolicReference(refs.Head, ref)); err != nil {
		return err
	}
	if err := r.writeCurrentBranchSideChannel(name); err != nil {
		return err
	}

	afterHead, err := r.Head()
	if err != nil {
		return err
	}
	op := oplog.SwitchBranchOperation{FromBranch: fromBranch, ToBranch: name, BeforeHead: beforeHead, AfterHead: afterHead}
	if _, err := r.log.Record(op, oplog.CommandIntent{Command: "switch", Args: []string{name}}, meta, now); err != nil {
		return err
	}
	r.logger.WithField("branch", name).Info("switched branch")
	return nil
}
