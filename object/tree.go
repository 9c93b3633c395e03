// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"io"
	"sort"
	"strings"
)

// TreeEntry is one (name, mode, childId, childKind) member of a Tree.
type TreeEntry struct {
	Name string
	Mode FileMode
	ID   ID
	Kind Kind
}

// Validate checks the entry in isolation: non-empty name free of '/' and
// NUL, and mode-kind agreement. Sortedness/uniqueness against siblings is
// a Tree-level check, not an entry-level one.
func (e TreeEntry) Validate() error {
	if e.Name == "" {
		return &ErrInvalidField{Kind: TreeKind, Field: "name", Reason: "must not be empty"}
	}
	if strings.ContainsRune(e.Name, '/') || strings.ContainsRune(e.Name, 0) {
		return &ErrInvalidField{Kind: TreeKind, Field: "name", Reason: "must not contain '/' or NUL"}
	}
	if !validFileMode(e.Mode) {
		return &ErrInvalidField{Kind: TreeKind, Field: "mode", Reason: "unrecognized file mode"}
	}
	want, _ := e.Mode.kindFor()
	if want != e.Kind {
		return &ErrModeKindMismatch{Name: e.Name, Mode: e.Mode, Kind: e.Kind}
	}
	return nil
}

func (e TreeEntry) Clone() TreeEntry {
	return e
}

// Tree is an ordered sequence of entries, sorted ascending by name with
// no duplicates.
type Tree struct {
	Entries []TreeEntry
}

// NewTree sorts entries by name before returning the Tree; callers that
// already have sorted, de-duplicated input may also construct a Tree
// literal directly.
func NewTree(entries []TreeEntry) *Tree {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Tree{Entries: sorted}
}

func (t *Tree) Kind() Kind { return TreeKind }

func (t *Tree) Validate() error {
	for i, e := range t.Entries {
		if err := e.Validate(); err != nil {
			return err
		}
		if i > 0 && t.Entries[i-1].Name >= e.Name {
			return &ErrInvalidOrdering{Previous: t.Entries[i-1].Name, Next: e.Name}
		}
	}
	return nil
}

func (t *Tree) Encode(w io.Writer) error {
	if _, err := w.Write(treeMagic[:]); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(t.Entries))); err != nil {
		return err
	}
	for _, e := range t.Entries {
		if err := writeUint32(w, uint32(e.Mode)); err != nil {
			return err
		}
		if _, err := w.Write([]byte{byte(e.Kind)}); err != nil {
			return err
		}
		if err := writeID(w, e.ID); err != nil {
			return err
		}
		if err := writeString(w, e.Name); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) decodeBody(r io.Reader) error {
	count, err := readUint32(r)
	if err != nil {
		return err
	}
	entries := make([]TreeEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		mode, err := readUint32(r)
		if err != nil {
			return err
		}
		var kindByte [1]byte
		if _, err := io.ReadFull(r, kindByte[:]); err != nil {
			return err
		}
		id, err := readID(r)
		if err != nil {
			return err
		}
		name, err := readString(r)
		if err != nil {
			return err
		}
		entries = append(entries, TreeEntry{
			Name: name,
			Mode: FileMode(mode),
			ID:   id,
			Kind: Kind(kindByte[0]),
		})
	}
	t.Entries = entries
	return nil
}
