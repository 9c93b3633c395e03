// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package oplog

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gitnext/core/object"
	"github.com/gitnext/core/refs"
	"github.com/gitnext/core/storage"
)

// CommandIntent records the command-line invocation that produced an
// Operation, for log/history display. It is informational only; undo/redo
// correctness never depends on it.
type CommandIntent struct {
	Command string
	Args    []string
}

// UserMetadata records who/what produced an Operation, alongside
// CommandIntent's what-was-run: the acting user's name/email and the
// calling session's id, when the caller has them. All fields are
// optional (empty string means "unknown"); like CommandIntent, undo/redo
// correctness never depends on it — it is display/audit metadata only.
type UserMetadata struct {
	UserName  string
	UserEmail string
	SessionID string
}

// LogEntry is one recorded, invertible mutation.
type LogEntry struct {
	ID        string
	Timestamp int64
	Operation Operation
	Intent    CommandIntent
	Metadata  UserMetadata
}

type logEntryWire struct {
	ID        string        `json:"id"`
	Timestamp int64         `json:"timestamp"`
	Operation envelope      `json:"operation"`
	Intent    CommandIntent `json:"intent"`
	Metadata  UserMetadata  `json:"metadata"`
}

func (e LogEntry) MarshalJSON() ([]byte, error) {
	env, err := toEnvelope(e.Operation)
	if err != nil {
		return nil, err
	}
	return json.Marshal(logEntryWire{ID: e.ID, Timestamp: e.Timestamp, Operation: env, Intent: e.Intent, Metadata: e.Metadata})
}

func (e *LogEntry) UnmarshalJSON(data []byte) error {
	var w logEntryWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	op, err := fromEnvelope(w.Operation)
	if err != nil {
		return err
	}
	e.ID = w.ID
	e.Timestamp = w.Timestamp
	e.Operation = op
	e.Intent = w.Intent
	e.Metadata = w.Metadata
	return nil
}

// chainState is the persisted shape of refs/logs/chain: the full ordered
// entry-id chain plus the undo/redo cursor's current position.
type chainState struct {
	Position int      `json:"position"`
	Chain    []string `json:"chain"`
}

// Log is the append-only operation log bound to a single store. A Log is
// safe for concurrent use.
type Log struct {
	mu       sync.Mutex
	store    storage.Store
	position int
	chain    []string
}

// New builds an empty, unpersisted Log. Callers resuming an existing
// repository should call Load instead.
func New(store storage.Store) *Log {
	return &Log{store: store}
}

// Load reconstructs a Log's cursor and chain from refs/logs/chain, or
// leaves a fresh (empty) Log if no chain has ever been recorded.
func Load(store storage.Store) (*Log, error) {
	l := New(store)
	ref, ok, err := store.Lookup(refs.Name(refs.LogChain))
	if err != nil {
		return nil, err
	}
	if !ok {
		return l, nil
	}
	o, err := store.Get(ref.Direct)
	if err != nil {
		return nil, err
	}
	blob, ok := o.(*object.Blob)
	if !ok {
		return nil, fmt.Errorf("oplog: refs/logs/chain does not reference a blob")
	}
	var state chainState
	if err := json.Unmarshal(blob.Content, &state); err != nil {
		return nil, err
	}
	l.position = state.Position
	l.chain = state.Chain
	return l, nil
}

// CurrentPosition returns the cursor's offset into the chain: the number
// of operations currently "done" (as opposed to undone).
func (l *Log) CurrentPosition() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

// TotalOperations returns the chain's full length, including any entries
// past the cursor that a prior undo has not yet been overwritten by a new
// Record.
func (l *Log) TotalOperations() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.chain)
}

func (l *Log) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position > 0
}

func (l *Log) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position < len(l.chain)
}

// Record appends a new entry at the cursor, discarding any redo tail —
// the same truncate-on-write rule an undo/redo text editor buffer uses.
// The entry's blob, its refs/logs/operations/<id> pointer, and the
// updated refs/logs/chain pointer are written inside one transaction.
// meta carries the acting user's identity, if the caller has one; its
// zero value is a valid "unknown" entry.
func (l *Log) Record(op Operation, intent CommandIntent, meta UserMetadata, timestamp int64) (LogEntry, error) {
	entry := LogEntry{ID: uuid.NewString(), Timestamp: timestamp, Operation: op, Intent: intent, Metadata: meta}
	payload, err := json.Marshal(entry)
	if err != nil {
		return LogEntry{}, err
	}
	blob := object.NewBlob(payload)
	blobID, err := object.ComputeID(blob)
	if err != nil {
		return LogEntry{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	newChain := append(append([]string{}, l.chain[:l.position]...), entry.ID)

	txn, err := l.store.BeginTransaction()
	if err != nil {
		return LogEntry{}, err
	}
	if err := txn.Put(blobID, blob); err != nil {
		_ = txn.Rollback()
		return LogEntry{}, err
	}
	if err := txn.UpdateRef(refs.NewDirectReference(refs.LogEntryRef(entry.ID), blobID)); err != nil {
		_ = txn.Rollback()
		return LogEntry{}, err
	}
	chainID, chainBlob, err := encodeChain(chainState{Position: len(newChain), Chain: newChain})
	if err != nil {
		_ = txn.Rollback()
		return LogEntry{}, err
	}
	if err := txn.Put(chainID, chainBlob); err != nil {
		_ = txn.Rollback()
		return LogEntry{}, err
	}
	if err := txn.UpdateRef(refs.NewDirectReference(refs.Name(refs.LogChain), chainID)); err != nil {
		_ = txn.Rollback()
		return LogEntry{}, err
	}
	if err := txn.Commit(); err != nil {
		return LogEntry{}, err
	}

	l.chain = newChain
	l.position = len(newChain)
	return entry, nil
}

func encodeChain(state chainState) (object.ID, *object.Blob, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return object.ZeroID, nil, err
	}
	blob := object.NewBlob(data)
	id, err := object.ComputeID(blob)
	if err != nil {
		return object.ZeroID, nil, err
	}
	return id, blob, nil
}

func (l *Log) loadEntry(entryID string) (LogEntry, error) {
	ref, ok, err := l.store.Lookup(refs.LogEntryRef(entryID))
	if err != nil {
		return LogEntry{}, err
	}
	if !ok {
		return LogEntry{}, fmt.Errorf("oplog: log entry %s not found", entryID)
	}
	o, err := l.store.Get(ref.Direct)
	if err != nil {
		return LogEntry{}, err
	}
	blob, ok := o.(*object.Blob)
	if !ok {
		return LogEntry{}, fmt.Errorf("oplog: log entry %s does not reference a blob", entryID)
	}
	var entry LogEntry
	if err := json.Unmarshal(blob.Content, &entry); err != nil {
		return LogEntry{}, err
	}
	return entry, nil
}

// PeekUndo returns the operation that Undo would apply next, without
// applying it.
func (l *Log) PeekUndo() (Operation, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.position == 0 {
		return nil, false, nil
	}
	entry, err := l.loadEntry(l.chain[l.position-1])
	if err != nil {
		return nil, false, err
	}
	return entry.Operation, true, nil
}

// PeekRedo returns the operation that Redo would apply next, without
// applying it.
func (l *Log) PeekRedo() (Operation, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.position >= len(l.chain) {
		return nil, false, nil
	}
	entry, err := l.loadEntry(l.chain[l.position])
	if err != nil {
		return nil, false, err
	}
	return entry.Operation, true, nil
}

// Applier applies an Operation's forward or inverse effect to the
// repository state. The repository package implements this; oplog itself
// knows nothing about HEAD, branches, or commits — only the cursor and
// chain bookkeeping every operation kind shares.
type Applier interface {
	ApplyUndo(op Operation) error
	ApplyRedo(op Operation) error
}

// Undo moves the cursor back one position, asking applier to invert the
// operation there. The chain itself is untouched — only the cursor moves
// — so a subsequent Redo can restore it and TotalOperations never shrinks
// from an undo alone.
func (l *Log) Undo(applier Applier) (Operation, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.position == 0 {
		return nil, false, nil
	}
	entry, err := l.loadEntry(l.chain[l.position-1])
	if err != nil {
		return nil, false, err
	}
	if err := applier.ApplyUndo(entry.Operation); err != nil {
		return nil, false, err
	}
	l.position--
	if err := l.persistCursor(); err != nil {
		return nil, false, err
	}
	return entry.Operation, true, nil
}

// Redo moves the cursor forward one position, asking applier to reapply
// the operation there.
func (l *Log) Redo(applier Applier) (Operation, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.position >= len(l.chain) {
		return nil, false, nil
	}
	entry, err := l.loadEntry(l.chain[l.position])
	if err != nil {
		return nil, false, err
	}
	if err := applier.ApplyRedo(entry.Operation); err != nil {
		return nil, false, err
	}
	l.position++
	if err := l.persistCursor(); err != nil {
		return nil, false, err
	}
	return entry.Operation, true, nil
}

func (l *Log) persistCursor() error {
	chainID, chainBlob, err := encodeChain(chainState{Position: l.position, Chain: l.chain})
	if err != nil {
		return err
	}
	if err := l.store.Put(chainID, chainBlob); err != nil {
		return err
	}
	return l.store.UpdateRef(refs.NewDirectReference(refs.Name(refs.LogChain), chainID))
}
