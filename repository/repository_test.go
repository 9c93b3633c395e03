// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitnext/core/object"
	"github.com/gitnext/core/oplog"
	"github.com/gitnext/core/storage/memory"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	store := memory.New()
	repo, err := Init(store, 1000)
	require.NoError(t, err)
	return repo
}

func sig(name string) object.Signature {
	return object.Signature{Name: name, Email: name + "@example.com", Timestamp: 1000}
}

func meta(name string) oplog.UserMetadata {
	return oplog.UserMetadata{UserName: name, UserEmail: name + "@example.com"}
}

func TestInitCreatesMainBranchAndHead(t *testing.T) {
	repo := newTestRepo(t)

	branch, ok, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "main", branch)

	head, err := repo.Head()
	require.NoError(t, err)
	assert.NotEqual(t, object.ZeroID, head)
}

func TestCommitAdvancesCurrentBranch(t *testing.T) {
	repo := newTestRepo(t)
	before, err := repo.Head()
	require.NoError(t, err)

	tree := object.NewTree(nil)
	treeID, err := object.ComputeID(tree)
	require.NoError(t, err)
	require.NoError(t, repo.store.Put(treeID, tree))

	id, err := repo.Commit(treeID, []object.ID{before}, sig("alice"), sig("alice"), "second commit", meta("alice"), 2000)
	require.NoError(t, err)

	after, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, id, after)
	assert.NotEqual(t, before, after)

	gen, ok := repo.generations.get(id)
	require.True(t, ok)
	assert.Equal(t, uint64(1), gen)
}

func TestCreateAndDeleteBranch(t *testing.T) {
	repo := newTestRepo(t)
	head, err := repo.Head()
	require.NoError(t, err)

	require.NoError(t, repo.CreateBranch("feature", head, meta("alice"), 2000))
	err = repo.CreateBranch("feature", head, meta("alice"), 2001)
	assert.True(t, IsBranchExists(err))

	require.NoError(t, repo.DeleteBranch("feature", meta("alice"), 2002))
	err = repo.DeleteBranch("feature", meta("alice"), 2003)
	assert.True(t, IsBranchNotFound(err))
}

func TestCreateBranchRejectsInvalidName(t *testing.T) {
	repo := newTestRepo(t)
	head, err := repo.Head()
	require.NoError(t, err)

	for _, name := range []string{"", "has space", "has..dots", "-leading-dash"} {
		err := repo.CreateBranch(name, head, meta("alice"), 2000)
		assert.Error(t, err, "name %q should be rejected", name)
	}
}

func TestCreateBranchRejectsMissingTarget(t *testing.T) {
	repo := newTestRepo(t)
	var bogus object.ID
	bogus[0] = 0xaa

	err := repo.CreateBranch("feature", bogus, meta("alice"), 2000)
	assert.Error(t, err)
}

func TestCannotDeleteCurrentBranch(t *testing.T) {
	repo := newTestRepo(t)
	err := repo.DeleteBranch("main", meta("alice"), 2000)
	assert.True(t, IsCannotDeleteCurrentBranch(err))
}

func TestSwitchBranchMovesHead(t *testing.T) {
	repo := newTestRepo(t)
	head, err := repo.Head()
	require.NoError(t, err)
	require.NoError(t, repo.CreateBranch("feature", head, meta("alice"), 2000))

	require.NoError(t, repo.SwitchBranch("feature", meta("alice"), 2001))
	branch, ok, err := repo.CurrentBranch()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "feature", branch)

	err = repo.SwitchBranch("missing", meta("alice"), 2002)
	assert.True(t, IsBranchNotFound(err))
}

func TestUndoRedoCommit(t *testing.T) {
	repo := newTestRepo(t)
	before, err := repo.Head()
	require.NoError(t, err)

	tree := object.NewTree(nil)
	treeID, err := object.ComputeID(tree)
	require.NoError(t, err)
	require.NoError(t, repo.store.Put(treeID, tree))
	after, err := repo.Commit(treeID, []object.ID{before}, sig("alice"), sig("alice"), "second commit", meta("alice"), 2000)
	require.NoError(t, err)

	_, ok, err := repo.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, before, head)

	_, ok, err = repo.Redo()
	require.NoError(t, err)
	require.True(t, ok)
	head, err = repo.Head()
	require.NoError(t, err)
	assert.Equal(t, after, head)
}

func TestUndoInitialCommitFails(t *testing.T) {
	repo := newTestRepo(t)
	before, err := repo.Head()
	require.NoError(t, err)

	_, ok, err := repo.Undo()
	assert.False(t, ok)
	assert.True(t, IsCannotUndoInitial(err))

	// the cursor must not have moved: the log still has one undoable entry.
	assert.True(t, repo.CanUndo())
	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, before, head)
}

func TestUndoCreateBranchRemovesRef(t *testing.T) {
	repo := newTestRepo(t)
	head, err := repo.Head()
	require.NoError(t, err)
	require.NoError(t, repo.CreateBranch("feature", head, meta("alice"), 2000))

	_, ok, err := repo.Undo()
	require.NoError(t, err)
	require.True(t, ok)

	err = repo.DeleteBranch("feature", meta("alice"), 2001)
	assert.True(t, IsBranchNotFound(err))
}

func TestIsAncestorAndMergeBase(t *testing.T) {
	repo := newTestRepo(t)
	root, err := repo.Head()
	require.NoError(t, err)

	tree := object.NewTree(nil)
	treeID, err := object.ComputeID(tree)
	require.NoError(t, err)
	require.NoError(t, repo.store.Put(treeID, tree))

	c1, err := repo.Commit(treeID, []object.ID{root}, sig("alice"), sig("alice"), "c1", meta("alice"), 2000)
	require.NoError(t, err)

	require.NoError(t, repo.CreateBranch("feature", c1, meta("alice"), 2001))
	require.NoError(t, repo.SwitchBranch("feature", meta("alice"), 2001))
	c2, err := repo.Commit(treeID, []object.ID{c1}, sig("alice"), sig("alice"), "c2-on-feature", meta("alice"), 2002)
	require.NoError(t, err)

	require.NoError(t, repo.SwitchBranch("main", meta("bob"), 2003))
	c3, err := repo.Commit(treeID, []object.ID{c1}, sig("bob"), sig("bob"), "c3-on-main", meta("bob"), 2004)
	require.NoError(t, err)

	isAnc, err := repo.IsAncestor(root, c2)
	require.NoError(t, err)
	assert.True(t, isAnc)

	isAnc, err = repo.IsAncestor(c2, c3)
	require.NoError(t, err)
	assert.False(t, isAnc)

	base, ok, err := repo.MergeBase(c2, c3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, c1, base)
}
