// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package memory implements storage.Store as two in-memory maps guarded
// by a multiple-reader/single-writer lock, with transactions staged in a
// local buffer and flushed inside a single critical section on commit —
// generalized from the teacher's modules/zeta/backend.Database map shape
// from a filesystem-object-store to a pure in-memory one.
package memory

import (
	"sync"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/gitnext/core/internal/xlog"
	"github.com/gitnext/core/object"
	"github.com/gitnext/core/refs"
	"github.com/gitnext/core/storage"
)

func nameComparator(a, b interface{}) int {
	an, bn := a.(refs.Name), b.(refs.Name)
	switch {
	case an < bn:
		return -1
	case an > bn:
		return 1
	default:
		return 0
	}
}

// Store is the in-memory backend. The zero value is not usable; build one
// with New.
type Store struct {
	mu         sync.RWMutex
	objects    map[object.ID]object.Object
	references *treemap.Map

	txnMu        sync.Mutex
	transactions map[string]*transaction

	group  singleflight.Group
	closed bool

	log *logrus.Entry
}

// New constructs an empty in-memory Store.
func New() *Store {
	return &Store{
		objects:      make(map[object.ID]object.Object),
		references:   treemap.NewWith(nameComparator),
		transactions: make(map[string]*transaction),
		log:          xlog.For("storage/memory"),
	}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) checkOpen() error {
	if s.closed {
		return &storage.ErrBackendUnavailable{Name: "memory", Reason: "store is closed"}
	}
	return nil
}

func (s *Store) Put(id object.ID, o object.Object) error {
	actual, err := object.ComputeID(o)
	if err != nil {
		return &storage.ErrInvalidObject{ID: id, Reason: err.Error()}
	}
	if actual != id {
		return &storage.ErrHashMismatch{Expected: id, Got: actual}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	// write-once by address: re-putting the same id is a no-op.
	s.objects[id] = o
	return nil
}

func (s *Store) Get(id object.ID) (object.Object, error) {
	v, err, _ := s.group.Do(id.String(), func() (interface{}, error) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if err := s.checkOpen(); err != nil {
			return nil, err
		}
		o, ok := s.objects[id]
		if !ok {
			return nil, &storage.ErrObjectNotFound{ID: id}
		}
		return o, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(object.Object), nil
}

func (s *Store) UpdateRef(ref refs.Reference) error {
	if err := ref.Name.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	s.references.Put(ref.Name, ref)
	return nil
}

func (s *Store) DeleteRef(name refs.Name) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}
	if _, ok := s.references.Get(name); !ok {
		return &storage.ErrRefNotFound{Name: name}
	}
	s.references.Remove(name)
	return nil
}

func (s *Store) ListRefs() ([]refs.Reference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	out := make([]refs.Reference, 0, s.references.Size())
	for _, v := range s.references.Values() {
		out = append(out, v.(refs.Reference))
	}
	return out, nil
}

func (s *Store) Lookup(name refs.Name) (refs.Reference, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(); err != nil {
		return refs.Reference{}, false, err
	}
	v, ok := s.references.Get(name)
	if !ok {
		return refs.Reference{}, false, nil
	}
	return v.(refs.Reference), true, nil
}

func (s *Store) BeginTransaction() (storage.Transaction, error) {
	s.mu.RLock()
	err := s.checkOpen()
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	t := &transaction{
		id:         id,
		store:      s,
		putObjects: make(map[object.ID]object.Object),
		updateRefs: make(map[refs.Name]refs.Reference),
		deleteRefs: make(map[refs.Name]struct{}),
	}
	s.txnMu.Lock()
	s.transactions[id] = t
	s.txnMu.Unlock()
	return t, nil
}

// activeTransactions exposes the leak-detection registry for diagnostics
// and graceful shutdown, mirroring the teacher's transaction-registry
// discipline.
func (s *Store) activeTransactions() []string {
	s.txnMu.Lock()
	defer s.txnMu.Unlock()
	ids := make([]string, 0, len(s.transactions))
	for id := range s.transactions {
		ids = append(ids, id)
	}
	return ids
}

func (s *Store) unregister(id string) {
	s.txnMu.Lock()
	delete(s.transactions, id)
	s.txnMu.Unlock()
}

type transaction struct {
	id    string
	store *Store

	mu         sync.Mutex
	done       bool
	putObjects map[object.ID]object.Object
	updateRefs map[refs.Name]refs.Reference
	deleteRefs map[refs.Name]struct{}
}

func (t *transaction) checkOpen() error {
	if t.done {
		return &storage.ErrTransactionFailed{Reason: "transaction already committed or rolled back"}
	}
	return nil
}

func (t *transaction) Put(id object.ID, o object.Object) error {
	actual, err := object.ComputeID(o)
	if err != nil {
		return &storage.ErrInvalidObject{ID: id, Reason: err.Error()}
	}
	if actual != id {
		return &storage.ErrHashMismatch{Expected: id, Got: actual}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkOpen(); err != nil {
		return err
	}
	t.putObjects[id] = o
	return nil
}

func (t *transaction) UpdateRef(ref refs.Reference) error {
	if err := ref.Name.Validate(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkOpen(); err != nil {
		return err
	}
	delete(t.deleteRefs, ref.Name)
	t.updateRefs[ref.Name] = ref
	return nil
}

func (t *transaction) DeleteRef(name refs.Name) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkOpen(); err != nil {
		return err
	}
	delete(t.updateRefs, name)
	t.deleteRefs[name] = struct{}{}
	return nil
}

// Commit applies the staged buffer inside a single critical section so
// partial visibility is impossible: either every staged effect becomes
// visible, or (on an earlier error) none does.
func (t *transaction) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.checkOpen(); err != nil {
		return err
	}
	t.done = true
	defer t.store.unregister(t.id)

	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if err := t.store.checkOpen(); err != nil {
		return err
	}
	for id, o := range t.putObjects {
		t.store.objects[id] = o
	}
	for name, ref := range t.updateRefs {
		t.store.references.Put(name, ref)
	}
	for name := range t.deleteRefs {
		t.store.references.Remove(name)
	}
	return nil
}

func (t *transaction) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil
	}
	t.done = true
	t.store.unregister(t.id)
	return nil
}
