// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package storagetest is a shared conformance suite run against every
// storage.Store implementation, asserting the cross-backend equivalence
// the storage package's own doc comment requires: any finite
// non-failing operation script run against two backends ends with equal
// get results for every id and equal reference snapshots. Both
// storage/memory and storage/sqlstore call Run from their own
// conformance_test.go, the way the teacher's pkg/serve/database tests and
// modules/zeta/backend tests each exercise one concrete Database without
// sharing a suite — this package generalizes that into one suite shared
// by construction rather than duplicated by copy-paste.
package storagetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitnext/core/object"
	"github.com/gitnext/core/refs"
	"github.com/gitnext/core/storage"
)

func blob(content string) (*object.Blob, object.ID) {
	b := object.NewBlob([]byte(content))
	id, err := object.ComputeID(b)
	if err != nil {
		panic(err)
	}
	return b, id
}

// Run exercises newStore() (a fresh, empty Store) against the full
// storage.Store contract. Call it once per backend, with a constructor
// that returns an isolated store each invocation.
func Run(t *testing.T, newStore func() storage.Store) {
	t.Helper()

	t.Run("PutGetRoundTrip", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		b, id := blob("round trip")
		require.NoError(t, s.Put(id, b))
		got, err := s.Get(id)
		require.NoError(t, err)
		assert.Equal(t, b, got)
	})

	t.Run("PutIsIdempotent", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		b, id := blob("idempotent")
		require.NoError(t, s.Put(id, b))
		require.NoError(t, s.Put(id, b))
	})

	t.Run("PutRejectsHashMismatch", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		b, _ := blob("mismatch")
		var wrong object.ID
		wrong[0] = 0xff
		err := s.Put(wrong, b)
		var mismatch *storage.ErrHashMismatch
		assert.ErrorAs(t, err, &mismatch)
	})

	t.Run("GetMissingReturnsNotFound", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		_, err := s.Get(object.ZeroID)
		var notFound *storage.ErrObjectNotFound
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("RefLifecycle", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		_, id := blob("ref target")
		require.NoError(t, s.UpdateRef(refs.NewDirectReference("refs/heads/main", id)))

		ref, ok, err := s.Lookup("refs/heads/main")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, id, ref.Direct)

		require.NoError(t, s.DeleteRef("refs/heads/main"))
		_, ok, err = s.Lookup("refs/heads/main")
		require.NoError(t, err)
		assert.False(t, ok)

		err = s.DeleteRef("refs/heads/main")
		var notFound *storage.ErrRefNotFound
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("SymbolicRefResolves", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		_, id := blob("symbolic target")
		require.NoError(t, s.UpdateRef(refs.NewDirectReference("refs/heads/main", id)))
		require.NoError(t, s.UpdateRef(refs.NewSymbolicReference("HEAD", "refs/heads/main")))

		resolved, err := refs.Resolve(s, "HEAD")
		require.NoError(t, err)
		assert.Equal(t, id, resolved)
	})

	t.Run("ListRefsSorted", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		_, id := blob("listed")
		names := []refs.Name{"refs/heads/main", "refs/heads/alpha", "refs/tags/v1"}
		for _, n := range names {
			require.NoError(t, s.UpdateRef(refs.NewDirectReference(n, id)))
		}
		list, err := s.ListRefs()
		require.NoError(t, err)
		require.Len(t, list, len(names))
		for i := 1; i < len(list); i++ {
			assert.Less(t, list[i-1].Name, list[i].Name)
		}
	})

	t.Run("TransactionCommitIsAtomic", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		b, id := blob("transactional")
		txn, err := s.BeginTransaction()
		require.NoError(t, err)
		require.NoError(t, txn.Put(id, b))
		require.NoError(t, txn.UpdateRef(refs.NewDirectReference("refs/heads/main", id)))

		_, err = s.Get(id)
		assert.Error(t, err, "uncommitted writes must not be visible")

		require.NoError(t, txn.Commit())
		got, err := s.Get(id)
		require.NoError(t, err)
		assert.Equal(t, b, got)
	})

	t.Run("TransactionRollbackDiscardsEffects", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		b, id := blob("rolled back")
		txn, err := s.BeginTransaction()
		require.NoError(t, err)
		require.NoError(t, txn.Put(id, b))
		require.NoError(t, txn.Rollback())

		_, err = s.Get(id)
		assert.Error(t, err)
	})

	t.Run("TransactionReuseAfterCommitFails", func(t *testing.T) {
		s := newStore()
		defer s.Close()
		txn, err := s.BeginTransaction()
		require.NoError(t, err)
		require.NoError(t, txn.Commit())
		assert.Error(t, txn.Commit())
	})

	t.Run("CloseRejectsFurtherPuts", func(t *testing.T) {
		s := newStore()
		b, id := blob("after close")
		require.NoError(t, s.Close())
		assert.Error(t, s.Put(id, b))
	})
}
