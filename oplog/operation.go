// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package oplog implements the append-only operation log: every mutating
// repository call is recorded as a LogEntry carrying enough before/after
// state to invert it, chained in commit order, with a movable undo/redo
// cursor — grounded on the teacher's modules/zeta/reflog.Reflog (an
// append-only, rewritable log of reference transitions) and on
// original_source's gitnext-operations::repository::OperationLog, which
// this package's Log and Operation types follow closely.
package oplog

import (
	"encoding/json"
	"fmt"

	"github.com/gitnext/core/object"
)

// Kind tags the five recordable operation variants. Closed union, same
// discipline as object.Kind: a command that doesn't fit one of these
// shapes doesn't get logged, and can't be undone.
type Kind int8

const (
	InvalidKind      Kind = 0
	CommitKind       Kind = 1
	CreateBranchKind Kind = 2
	DeleteBranchKind Kind = 3
	SwitchBranchKind Kind = 4
	MergeKind        Kind = 5
)

// Operation is the logged, invertible description of one repository
// mutation.
type Operation interface {
	Kind() Kind
}

// CommitOperation records a commit() call. BeforeHead is nil when the
// commit had no prior HEAD (the very first commit in an empty repository).
type CommitOperation struct {
	BeforeHead *object.ID
	AfterHead  object.ID
	Tree       object.ID
	Parents    []object.ID
	Message    string
}

func (CommitOperation) Kind() Kind { return CommitKind }

// CreateBranchOperation records a create_branch() call.
type CreateBranchOperation struct {
	Name   string
	Target object.ID
}

func (CreateBranchOperation) Kind() Kind { return CreateBranchKind }

// DeleteBranchOperation records a delete_branch() call; DeletedTarget is
// the branch's commit at the moment of deletion, needed to recreate it on
// undo.
type DeleteBranchOperation struct {
	Name          string
	DeletedTarget object.ID
}

func (DeleteBranchOperation) Kind() Kind { return DeleteBranchKind }

// SwitchBranchOperation records a switch_branch() call.
type SwitchBranchOperation struct {
	FromBranch string
	ToBranch   string
	BeforeHead object.ID
	AfterHead  object.ID
}

func (SwitchBranchOperation) Kind() Kind { return SwitchBranchKind }

// MergeStrategy enumerates the merge strategies a MergeOperation may record.
type MergeStrategy int8

const (
	StrategyThreeWay  MergeStrategy = 0
	StrategyOurs      MergeStrategy = 1
	StrategyTheirs    MergeStrategy = 2
	StrategyRecursive MergeStrategy = 3
)

// MergeOperation records a merge() call.
type MergeOperation struct {
	Branch     string
	BeforeHead object.ID
	AfterHead  object.ID
	Strategy   MergeStrategy
}

func (MergeOperation) Kind() Kind { return MergeKind }

// envelope is the JSON-on-the-wire shape for Operation: a Kind
// discriminant alongside the concrete payload. Plain encoding/json is used
// rather than a pack serialization library because this is an internal,
// single-process log format, not a config file (BurntSushi/toml's
// concern) or a wire object (object's own binary codec's concern) — see
// DESIGN.md.
type envelope struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

func toEnvelope(op Operation) (envelope, error) {
	payload, err := json.Marshal(op)
	if err != nil {
		return envelope{}, err
	}
	return envelope{Kind: op.Kind(), Payload: payload}, nil
}

func fromEnvelope(env envelope) (Operation, error) {
	switch env.Kind {
	case CommitKind:
		var op CommitOperation
		if err := json.Unmarshal(env.Payload, &op); err != nil {
			return nil, err
		}
		return op, nil
	case CreateBranchKind:
		var op CreateBranchOperation
		if err := json.Unmarshal(env.Payload, &op); err != nil {
			return nil, err
		}
		return op, nil
	case DeleteBranchKind:
		var op DeleteBranchOperation
		if err := json.Unmarshal(env.Payload, &op); err != nil {
			return nil, err
		}
		return op, nil
	case SwitchBranchKind:
		var op SwitchBranchOperation
		if err := json.Unmarshal(env.Payload, &op); err != nil {
			return nil, err
		}
		return op, nil
	case MergeKind:
		var op MergeOperation
		if err := json.Unmarshal(env.Payload, &op); err != nil {
			return nil, err
		}
		return op, nil
	default:
		return nil, fmt.Errorf("oplog: unknown operation kind %d", env.Kind)
	}
}
