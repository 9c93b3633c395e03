// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package legacy

import (
	"crypto/sha1"
	"testing"

	"github.com/gitnext/core/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource map[object.ID]object.Object

func (f fakeSource) Get(id object.ID) (object.Object, error) {
	o, ok := f[id]
	if !ok {
		return nil, assertNotFound{id}
	}
	return o, nil
}

type assertNotFound struct{ id object.ID }

func (e assertNotFound) Error() string { return "not found: " + e.id.String() }

func mustID(t *testing.T, o object.Object) object.ID {
	t.Helper()
	id, err := object.ComputeID(o)
	require.NoError(t, err)
	return id
}

func TestBlobLegacyDigestMatchesGitFormat(t *testing.T) {
	blob := object.NewBlob([]byte("hello world"))
	src := fakeSource{}

	b, err := ToLegacyBytes(blob, SHA1, src)
	require.NoError(t, err)
	assert.Equal(t, "blob 11\x00hello world", string(b))

	want := sha1.Sum([]byte("blob 11\x00hello world"))
	digest, err := ComputeDigest(blob, SHA1, src)
	require.NoError(t, err)
	assert.Equal(t, want[:], digest.Bytes)
}

func TestTreeLegacyDigestIsRecursive(t *testing.T) {
	blob := object.NewBlob([]byte("hi"))
	blobID := mustID(t, blob)

	tree := object.NewTree([]object.TreeEntry{
		{Name: "a.txt", Mode: object.Regular, Kind: object.BlobKind, ID: blobID},
	})

	src := fakeSource{blobID: blob}

	blobDigest, err := ComputeDigest(blob, SHA1, src)
	require.NoError(t, err)

	treeBytes, err := ToLegacyBytes(tree, SHA1, src)
	require.NoError(t, err)

	expectedEntry := "100644 a.txt\x00" + string(blobDigest.Bytes)
	assert.Contains(t, string(treeBytes), expectedEntry)
}

func TestCommitLegacyFormat(t *testing.T) {
	tree := object.NewTree(nil)
	treeID := mustID(t, tree)

	src := fakeSource{treeID: tree}

	c := &object.Commit{
		Tree:      treeID,
		Author:    object.Signature{Name: "John Doe", Email: "john@example.com", Timestamp: 1700000000, TimezoneOffset: 0},
		Committer: object.Signature{Name: "Jane Doe", Email: "jane@example.com", Timestamp: 1700000000, TimezoneOffset: 0},
		Message:   "initial commit",
	}

	treeDigest, err := ComputeDigest(tree, SHA1, src)
	require.NoError(t, err)

	b, err := ToLegacyBytes(c, SHA1, src)
	require.NoError(t, err)

	s := string(b)
	assert.Contains(t, s, "tree "+treeDigest.String()+"\n")
	assert.Contains(t, s, "author John Doe <john@example.com> 1700000000 +0000\n")
	assert.Contains(t, s, "committer Jane Doe <jane@example.com> 1700000000 +0000\n")
	assert.Contains(t, s, "\n\ninitial commit")
}

func TestDigestDeterministic(t *testing.T) {
	blob := object.NewBlob([]byte("same"))
	src := fakeSource{}
	d1, err := ComputeDigest(blob, SHA256, src)
	require.NoError(t, err)
	d2, err := ComputeDigest(blob, SHA256, src)
	require.NoError(t, err)
	assert.Equal(t, d1.Bytes, d2.Bytes)
}
