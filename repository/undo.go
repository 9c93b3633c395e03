// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"fmt"

	"github.com/gitnext/core/object"
	"github.com/gitnext/core/oplog"
	"github.com/gitnext/core/refs"
)

var _ oplog.Applier = (*Repository)(nil)

// Undo reverts the most recently applied operation, delegating the
// effect inversion to ApplyUndo. ok is false when there is nothing to
// undo (matches oplog.Log.Undo's own no-op-on-empty-chain behavior,
// rather than returning ErrNothingToUndo — callers that want the error
// form should check CanUndo first).
func (r *Repository) Undo() (oplog.Operation, bool, error) {
	return r.log.Undo(r)
}

// Redo reapplies the next undone operation.
func (r *Repository) Redo() (oplog.Operation, bool, error) {
	return r.log.Redo(r)
}

func (r *Repository) CanUndo() bool { return r.log.CanUndo() }
func (r *Repository) CanRedo() bool { return r.log.CanRedo() }

func (r *Repository) PeekUndo() (oplog.Operation, bool, error) { return r.log.PeekUndo() }
func (r *Repository) PeekRedo() (oplog.Operation, bool, error) { return r.log.PeekRedo() }

// ApplyUndo inverts op's effect on the repository's refs. It never
// touches the operation log itself — oplog.Log.Undo owns the cursor.
func (r *Repository) ApplyUndo(op oplog.Operation) error {
	switch o := op.(type) {
	case oplog.CommitOperation:
		return r.restoreHead(o.BeforeHead)
	case oplog.CreateBranchOperation:
		return r.store.DeleteRef(refs.BranchRef(o.Name))
	case oplog.DeleteBranchOperation:
		return r.store.UpdateRef(refs.NewDirectReference(refs.BranchRef(o.Name), o.DeletedTarget))
	case oplog.SwitchBranchOperation:
		return r.restoreSwitch(o.FromBranch, o.BeforeHead)
	case oplog.MergeOperation:
		return r.restoreHeadDirect(o.BeforeHead)
	default:
		return fmt.Errorf("repository: undo: unknown operation %T", op)
	}
}

// ApplyRedo reapplies op's effect.
func (r *Repository) ApplyRedo(op oplog.Operation) error {
	switch o := op.(type) {
	case oplog.CommitOperation:
		return r.restoreHeadDirect(o.AfterHead)
	case oplog.CreateBranchOperation:
		return r.store.UpdateRef(refs.NewDirectReference(refs.BranchRef(o.Name), o.Target))
	case oplog.DeleteBranchOperation:
		return r.store.DeleteRef(refs.BranchRef(o.Name))
	case oplog.SwitchBranchOperation:
		return r.restoreSwitch(o.ToBranch, o.AfterHead)
	case oplog.MergeOperation:
		return r.restoreHeadDirect(o.AfterHead)
	default:
		return fmt.Errorf("repository: redo: unknown operation %T", op)
	}
}

// restoreHead points HEAD back at *id, routing through the checked-out
// branch ref when one exists (mirroring advanceHeadIn's own routing), or —
// when id is nil, meaning the commit being undone was the repository's
// first — fails with ErrCannotUndoInitial, since there is no prior commit
// to fall back to and the log cursor must not move as if one existed.
func (r *Repository) restoreHead(id *object.ID) error {
	if id == nil {
		return &ErrCannotUndoInitial{}
	}
	return r.restoreHeadDirect(*id)
}

// restoreHeadDirect points HEAD (through the checked-out branch ref, if
// any) at id.
func (r *Repository) restoreHeadDirect(id object.ID) error {
	ref, ok, err := r.store.Lookup(refs.Head)
	if err != nil {
		return err
	}
	if ok && ref.IsSymbolic() {
		return r.store.UpdateRef(refs.NewDirectReference(ref.Symbolic, id))
	}
	return r.store.UpdateRef(refs.NewDirectReference(refs.Head, id))
}

// restoreSwitch points HEAD symbolically at branch (the pre- or post-
// switch branch) — mirroring what SwitchBranch actually changed: HEAD's
// symbolic target, not the branch ref's own commit, which SwitchBranch
// never moves. The head parameter is applied only when branch is empty
// (HEAD was detached), in which case HEAD is pointed directly at head;
// otherwise it is accepted for symmetry with the forward operation's
// recorded BeforeHead/AfterHead and not applied.
func (r *Repository) restoreSwitch(branch string, head object.ID) error {
	if branch == "" {
		return r.restoreHeadDirect(head)
	}
	if err := r.store.UpdateRef(refs.NewSymbolicReference(refs.Head, refs.BranchRef(branch))); err != nil {
		return err
	}
	return r.writeCurrentBranchSideChannel(branch)
}
