// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSig() Signature {
	return Signature{Name: "Jane Doe", Email: "jane@example.com", Timestamp: 1700000000, TimezoneOffset: -300}
}

func TestBlobRoundTrip(t *testing.T) {
	b := NewBlob([]byte("hello world"))
	require.NoError(t, b.Validate())

	id1, err := ComputeID(b)
	require.NoError(t, err)
	id2, err := ComputeID(b)
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "canonical hashing must be deterministic")

	encoded, err := Encode(b)
	require.NoError(t, err)

	decoded, err := Decode(bytes.NewReader(encoded))
	require.NoError(t, err)
	db, ok := decoded.(*Blob)
	require.True(t, ok)
	assert.Equal(t, b.Content, db.Content)
	assert.Equal(t, b.Size, db.Size)
}

func TestBlobSizeMismatch(t *testing.T) {
	b := &Blob{Content: []byte("hi"), Size: 99}
	err := b.Validate()
	require.Error(t, err)
	assert.True(t, IsSizeMismatch(err))
}

func TestTreeSortedness(t *testing.T) {
	id := MustParseID("af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262")
	tr := &Tree{Entries: []TreeEntry{
		{Name: "b.txt", Mode: Regular, Kind: BlobKind, ID: id},
		{Name: "a.txt", Mode: Regular, Kind: BlobKind, ID: id},
	}}
	err := tr.Validate()
	require.Error(t, err)
	assert.True(t, IsInvalidOrdering(err))
}

func TestTreeModeKindMismatch(t *testing.T) {
	id := MustParseID("af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262")
	tr := &Tree{Entries: []TreeEntry{
		{Name: "dir", Mode: Subtree, Kind: BlobKind, ID: id},
	}}
	err := tr.Validate()
	require.Error(t, err)
	assert.True(t, IsModeKindMismatch(err))
}

func TestNewTreeSortsEntries(t *testing.T) {
	id := MustParseID("af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262")
	tr := NewTree([]TreeEntry{
		{Name: "zeta.txt", Mode: Regular, Kind: BlobKind, ID: id},
		{Name: "alpha.txt", Mode: Regular, Kind: BlobKind, ID: id},
	})
	require.NoError(t, tr.Validate())
	assert.Equal(t, "alpha.txt", tr.Entries[0].Name)
	assert.Equal(t, "zeta.txt", tr.Entries[1].Name)
}

func TestTreeRoundTrip(t *testing.T) {
	childID := MustParseID("af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262")
	tr := NewTree([]TreeEntry{
		{Name: "a.txt", Mode: Regular, Kind: BlobKind, ID: childID},
		{Name: "sub", Mode: Subtree, Kind: TreeKind, ID: childID},
	})
	encoded, err := Encode(tr)
	require.NoError(t, err)
	decoded, err := Decode(bytes.NewReader(encoded))
	require.NoError(t, err)
	dt, ok := decoded.(*Tree)
	require.True(t, ok)
	assert.Equal(t, tr.Entries, dt.Entries)
}

func TestCommitValidation(t *testing.T) {
	c := &Commit{Tree: ZeroID, Author: validSig(), Committer: validSig(), Message: ""}
	err := c.Validate()
	require.Error(t, err)
	assert.True(t, IsInvalidField(err))
}

func TestCommitRoundTrip(t *testing.T) {
	treeID := MustParseID("af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262")
	c := &Commit{
		Tree:      treeID,
		Parents:   []ID{treeID},
		Author:    validSig(),
		Committer: validSig(),
		Message:   "initial commit",
	}
	require.NoError(t, c.Validate())
	encoded, err := Encode(c)
	require.NoError(t, err)
	decoded, err := Decode(bytes.NewReader(encoded))
	require.NoError(t, err)
	dc, ok := decoded.(*Commit)
	require.True(t, ok)
	assert.Equal(t, c.Tree, dc.Tree)
	assert.Equal(t, c.Parents, dc.Parents)
	assert.Equal(t, c.Message, dc.Message)
	assert.Equal(t, c.Author, dc.Author)
}

func TestSignatureString(t *testing.T) {
	s := Signature{Name: "A U Thor", Email: "author@example.com", Timestamp: 1257894000, TimezoneOffset: -420}
	assert.Equal(t, "A U Thor <author@example.com> 1257894000 -0700", s.String())
}

func TestSignatureValidation(t *testing.T) {
	bad := Signature{Name: "X", Email: "no-at-sign", TimezoneOffset: 0}
	err := bad.Validate()
	require.Error(t, err)
}

func TestTagValidation(t *testing.T) {
	tag := &Tag{Target: ZeroID, TargetKind: CommitKind, Name: "", Tagger: validSig(), Message: "release"}
	err := tag.Validate()
	require.Error(t, err)
}

func TestCanonicalDeterminismAcrossInstances(t *testing.T) {
	b := NewBlob([]byte("same content"))
	idA, err := ComputeID(b)
	require.NoError(t, err)
	idB, err := ComputeID(NewBlob([]byte("same content")))
	require.NoError(t, err)
	assert.Equal(t, idA, idB)
}
