// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"fmt"

	"github.com/gitnext/core/object"
)

// ErrBranchExists reports create_branch called against a name that is
// already taken.
type ErrBranchExists struct {
	Name string
}

func (e *ErrBranchExists) Error() string {
	return fmt.Sprintf("repository: branch %q already exists", e.Name)
}

// ErrBranchNotFound reports an operation against a branch name with no
// refs/heads/<name> reference.
type ErrBranchNotFound struct {
	Name string
}

func (e *ErrBranchNotFound) Error() string {
	return fmt.Sprintf("repository: branch %q not found", e.Name)
}

// ErrCannotDeleteCurrentBranch reports delete_branch called against the
// branch HEAD currently points at — grounded on the teacher's
// ErrNotAllowedRemoveCurrent (pkg/zeta/branch.go).
type ErrCannotDeleteCurrentBranch struct {
	Name string
}

func (e *ErrCannotDeleteCurrentBranch) Error() string {
	return fmt.Sprintf("repository: cannot delete current branch %q", e.Name)
}

// ErrNoCommitHistory reports that an operation requiring a HEAD commit
// found none. Commit does not return it: a missing HEAD is treated as
// "no prior HEAD" (see currentHeadOrZero).
type ErrNoCommitHistory struct{}

func (e *ErrNoCommitHistory) Error() string {
	return "repository: no commit history"
}

// ErrNotACommit reports that an ID resolved to an object whose Kind is
// not CommitKind where a commit was required.
type ErrNotACommit struct {
	ID object.ID
}

func (e *ErrNotACommit) Error() string {
	return fmt.Sprintf("repository: %s is not a commit", e.ID)
}

// ErrNothingToUndo / ErrNothingToRedo describe Undo/Redo called with an
// empty cursor in that direction. Repository.Undo and Repository.Redo do
// not return them: they report that case with ok == false and a nil
// error.
type ErrNothingToUndo struct{}

func (e *ErrNothingToUndo) Error() string { return "repository: nothing to undo" }

type ErrNothingToRedo struct{}

func (e *ErrNothingToRedo) Error() string { return "repository: nothing to redo" }

// ErrCannotUndoInitial reports an attempt to undo a CommitOperation whose
// BeforeHead is empty — the repository's very first commit. There is no
// prior HEAD to restore, so the undo is refused rather than silently
// leaving HEAD untouched while the log cursor still moves back as if a
// real state change had been reverted.
type ErrCannotUndoInitial struct{}

func (e *ErrCannotUndoInitial) Error() string {
	return "repository: cannot undo the initial commit"
}

func IsBranchExists(err error) bool {
	_, ok := err.(*ErrBranchExists)
	return ok
}

func IsBranchNotFound(err error) bool {
	_, ok := err.(*ErrBranchNotFound)
	return ok
}

func IsCannotDeleteCurrentBranch(err error) bool {
	_, ok := err.(*ErrCannotDeleteCurrentBranch)
	return ok
}

func IsCannotUndoInitial(err error) bool {
	_, ok := err.(*ErrCannotUndoInitial)
	return ok
}
