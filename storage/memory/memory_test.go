// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitnext/core/object"
	"github.com/gitnext/core/refs"
	"github.com/gitnext/core/storage"
)

func mustBlob(t *testing.T, content string) (object.ID, *object.Blob) {
	t.Helper()
	b := object.NewBlob([]byte(content))
	id, err := object.ComputeID(b)
	require.NoError(t, err)
	return id, b
}

func TestPutGetRoundTrip(t *testing.T) {
	s := New()
	id, b := mustBlob(t, "hello world")
	require.NoError(t, s.Put(id, b))

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestPutRejectsHashMismatch(t *testing.T) {
	s := New()
	_, b := mustBlob(t, "hello world")
	err := s.Put(object.ZeroID, b)
	require.Error(t, err)
	assert.True(t, storage.IsHashMismatch(err))
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s := New()
	_, err := s.Get(object.ZeroID)
	require.Error(t, err)
	assert.True(t, storage.IsObjectNotFound(err))
}

func TestPutIsIdempotent(t *testing.T) {
	s := New()
	id, b := mustBlob(t, "idempotent")
	require.NoError(t, s.Put(id, b))
	require.NoError(t, s.Put(id, b))
	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestRefLifecycle(t *testing.T) {
	s := New()
	id, b := mustBlob(t, "ref target")
	require.NoError(t, s.Put(id, b))

	main := refs.BranchRef("main")
	require.NoError(t, s.UpdateRef(refs.NewDirectReference(main, id)))

	ref, ok, err := s.Lookup(main)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, ref.Direct)

	require.NoError(t, s.DeleteRef(main))
	_, ok, err = s.Lookup(main)
	require.NoError(t, err)
	assert.False(t, ok)

	err = s.DeleteRef(main)
	require.Error(t, err)
	assert.True(t, storage.IsRefNotFound(err))
}

func TestListRefsSorted(t *testing.T) {
	s := New()
	id, _ := mustBlob(t, "x")
	_, b := mustBlob(t, "x")
	require.NoError(t, s.Put(id, b))

	names := []refs.Name{refs.BranchRef("zeta"), refs.BranchRef("alpha"), refs.BranchRef("mid")}
	for _, n := range names {
		require.NoError(t, s.UpdateRef(refs.NewDirectReference(n, id)))
	}
	list, err := s.ListRefs()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, refs.BranchRef("alpha"), list[0].Name)
	assert.Equal(t, refs.BranchRef("mid"), list[1].Name)
	assert.Equal(t, refs.BranchRef("zeta"), list[2].Name)
}

func TestTransactionCommitIsAtomic(t *testing.T) {
	s := New()
	id, b := mustBlob(t, "txn content")

	txn, err := s.BeginTransaction()
	require.NoError(t, err)
	require.NoError(t, txn.Put(id, b))
	require.NoError(t, txn.UpdateRef(refs.NewDirectReference(refs.BranchRef("main"), id)))

	// staged effects are invisible until commit.
	_, err = s.Get(id)
	require.Error(t, err)

	require.NoError(t, txn.Commit())

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	ref, ok, err := s.Lookup(refs.BranchRef("main"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, ref.Direct)
}

func TestTransactionRollbackDiscardsEffects(t *testing.T) {
	s := New()
	id, b := mustBlob(t, "rolled back")

	txn, err := s.BeginTransaction()
	require.NoError(t, err)
	require.NoError(t, txn.Put(id, b))
	require.NoError(t, txn.Rollback())

	_, err = s.Get(id)
	require.Error(t, err)
	assert.True(t, storage.IsObjectNotFound(err))
}

func TestTransactionReuseAfterCommitFails(t *testing.T) {
	s := New()
	id, b := mustBlob(t, "reuse")

	txn, err := s.BeginTransaction()
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	err = txn.Put(id, b)
	require.Error(t, err)
}

func TestCloseRejectsFurtherOperations(t *testing.T) {
	s := New()
	require.NoError(t, s.Close())
	id, b := mustBlob(t, "after close")
	err := s.Put(id, b)
	require.Error(t, err)
}

func TestConcurrentGetsOfSameObjectSucceed(t *testing.T) {
	s := New()
	id, b := mustBlob(t, "shared")
	require.NoError(t, s.Put(id, b))

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.Get(id)
			assert.NoError(t, err)
			assert.Equal(t, b, got)
		}()
	}
	wg.Wait()
}
