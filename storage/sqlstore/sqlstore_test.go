// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package sqlstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitnext/core/object"
	"github.com/gitnext/core/refs"
	"github.com/gitnext/core/storage"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "objects.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustBlob(t *testing.T, content string) (object.ID, *object.Blob) {
	t.Helper()
	b := object.NewBlob([]byte(content))
	id, err := object.ComputeID(b)
	require.NoError(t, err)
	return id, b
}

func TestSQLitePutGetRoundTrip(t *testing.T) {
	s := openTemp(t)
	id, b := mustBlob(t, "hello sqlite")
	require.NoError(t, s.Put(id, b))

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestSQLiteGetMissing(t *testing.T) {
	s := openTemp(t)
	_, err := s.Get(object.ZeroID)
	require.Error(t, err)
	assert.True(t, storage.IsObjectNotFound(err))
}

func TestSQLitePutRejectsHashMismatch(t *testing.T) {
	s := openTemp(t)
	_, b := mustBlob(t, "mismatch")
	err := s.Put(object.ZeroID, b)
	require.Error(t, err)
	assert.True(t, storage.IsHashMismatch(err))
}

func TestSQLiteRefLifecycle(t *testing.T) {
	s := openTemp(t)
	id, b := mustBlob(t, "ref target")
	require.NoError(t, s.Put(id, b))

	main := refs.BranchRef("main")
	require.NoError(t, s.UpdateRef(refs.NewDirectReference(main, id)))

	ref, ok, err := s.Lookup(main)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, ref.Direct)

	other, _ := mustBlob(t, "different")
	require.NoError(t, s.UpdateRef(refs.NewDirectReference(main, other)))
	ref, ok, err = s.Lookup(main)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, other, ref.Direct)

	require.NoError(t, s.DeleteRef(main))
	_, ok, err = s.Lookup(main)
	require.NoError(t, err)
	assert.False(t, ok)

	err = s.DeleteRef(main)
	require.Error(t, err)
	assert.True(t, storage.IsRefNotFound(err))
}

func TestSQLiteSymbolicRef(t *testing.T) {
	s := openTemp(t)
	main := refs.BranchRef("main")
	require.NoError(t, s.UpdateRef(refs.NewSymbolicReference(refs.Head, main)))

	ref, ok, err := s.Lookup(refs.Head)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, ref.IsSymbolic())
	assert.Equal(t, main, ref.Symbolic)
}

func TestSQLiteListRefsSorted(t *testing.T) {
	s := openTemp(t)
	id, b := mustBlob(t, "x")
	require.NoError(t, s.Put(id, b))

	for _, n := range []refs.Name{refs.BranchRef("zeta"), refs.BranchRef("alpha"), refs.BranchRef("mid")} {
		require.NoError(t, s.UpdateRef(refs.NewDirectReference(n, id)))
	}
	list, err := s.ListRefs()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, refs.BranchRef("alpha"), list[0].Name)
	assert.Equal(t, refs.BranchRef("mid"), list[1].Name)
	assert.Equal(t, refs.BranchRef("zeta"), list[2].Name)
}

func TestSQLiteTransactionCommit(t *testing.T) {
	s := openTemp(t)
	id, b := mustBlob(t, "txn content")

	txn, err := s.BeginTransaction()
	require.NoError(t, err)
	require.NoError(t, txn.Put(id, b))
	require.NoError(t, txn.UpdateRef(refs.NewDirectReference(refs.BranchRef("main"), id)))
	require.NoError(t, txn.Commit())

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestSQLiteTransactionRollback(t *testing.T) {
	s := openTemp(t)
	id, b := mustBlob(t, "rolled back")

	txn, err := s.BeginTransaction()
	require.NoError(t, err)
	require.NoError(t, txn.Put(id, b))
	require.NoError(t, txn.Rollback())

	_, err = s.Get(id)
	require.Error(t, err)
	assert.True(t, storage.IsObjectNotFound(err))
}

func TestSQLiteTransactionReuseAfterCommitFails(t *testing.T) {
	s := openTemp(t)
	txn, err := s.BeginTransaction()
	require.NoError(t, err)
	require.NoError(t, txn.Commit())

	id, b := mustBlob(t, "reuse")
	err = txn.Put(id, b)
	require.Error(t, err)
}
