// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package object implements the canonical object model: the closed,
// content-addressed tagged union of Blob, Tree, Commit and Tag, their
// deterministic binary encoding, and the validation rules enforced on
// construction and on deserialization.
package object

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
	"sort"

	"github.com/zeebo/blake3"
)

const (
	idSize    = 32
	idHexSize = idSize * 2
)

// ID is a 256-bit content address: the BLAKE3 hash of an object's
// canonical serialization. Two IDs are equal iff their bytes are equal.
type ID [idSize]byte

// ZeroID is the ID with all bytes zero; it never names a real object.
var ZeroID ID

func (id ID) IsZero() bool {
	return id == ZeroID
}

func (id ID) String() string {
	return hex.EncodeToString(id[:])
}

func (id ID) Bytes() []byte {
	return id[:]
}

// Compare orders IDs by byte sequence, matching the storage layer's
// ordering guarantees for deterministic reference and object listings.
func (id ID) Compare(other ID) int {
	return bytes.Compare(id[:], other[:])
}

func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseID decodes a lowercase hex ObjectId string.
func ParseID(s string) (ID, error) {
	if len(s) != idHexSize {
		return ZeroID, fmt.Errorf("object: invalid id length %d", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return ZeroID, fmt.Errorf("object: invalid id %q: %w", s, err)
	}
	var id ID
	copy(id[:], b)
	return id, nil
}

// MustParseID is ParseID for literal callers (tests, constants); it panics
// on malformed input.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IDSlice attaches sort.Interface to []ID in ascending byte order.
type IDSlice []ID

func (s IDSlice) Len() int           { return len(s) }
func (s IDSlice) Less(i, j int) bool { return s[i].Compare(s[j]) < 0 }
func (s IDSlice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

func SortIDs(ids []ID) { sort.Sort(IDSlice(ids)) }

// idHasher wraps a BLAKE3 hash.Hash and yields an ID.
type idHasher struct {
	hash.Hash
}

func newIDHasher() idHasher {
	return idHasher{Hash: blake3.New()}
}

func (h idHasher) sum() (id ID) {
	copy(id[:], h.Hash.Sum(nil))
	return
}

// ComputeID returns the content address of an Encoder's canonical bytes.
func ComputeID(e Encoder) (ID, error) {
	h := newIDHasher()
	if err := e.Encode(h); err != nil {
		return ZeroID, err
	}
	return h.sum(), nil
}
