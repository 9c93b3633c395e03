// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"encoding/json"

	"github.com/gitnext/core/object"
	"github.com/gitnext/core/refs"
	"github.com/gitnext/core/storage"
)

// generationRef is the side-table reference: commit generation numbers
// live here, outside the canonical Commit struct (see object.Commit's doc
// comment), so that content-addressing never depends on ancestry-
// discovery order. Grounded on original_source's
// Commit::compute_generation (gitnext-core/src/lib.rs): generation(c) =
// 1 + max(generation(p) for p in c.Parents), or 0 for a root commit.
const generationRef = refs.Name("refs/gitnext/generations")

type generationTable map[string]uint64

func loadGenerations(store storage.Store) (generationTable, error) {
	ref, ok, err := store.Lookup(generationRef)
	if err != nil {
		return nil, err
	}
	if !ok {
		return generationTable{}, nil
	}
	o, err := store.Get(ref.Direct)
	if err != nil {
		return nil, err
	}
	blob, ok := o.(*object.Blob)
	if !ok {
		return generationTable{}, nil
	}
	table := generationTable{}
	if err := json.Unmarshal(blob.Content, &table); err != nil {
		return nil, err
	}
	return table, nil
}

// putUpdater is the narrow slice of storage.Store (and storage.Transaction,
// which shares the same two method signatures) that persist needs —
// letting a caller stage the generation table inside an in-flight
// transaction instead of writing directly to the store.
type putUpdater interface {
	Put(id object.ID, o object.Object) error
	UpdateRef(ref refs.Reference) error
}

func (t generationTable) persist(store putUpdater) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	blob := object.NewBlob(data)
	id, err := object.ComputeID(blob)
	if err != nil {
		return err
	}
	if err := store.Put(id, blob); err != nil {
		return err
	}
	return store.UpdateRef(refs.NewDirectReference(generationRef, id))
}

func (t generationTable) get(id object.ID) (uint64, bool) {
	g, ok := t[id.String()]
	return g, ok
}

func (t generationTable) set(id object.ID, generation uint64) {
	t[id.String()] = generation
}

// computeGeneration derives a new commit's generation number from its
// parents' already-known generations. A parent absent from the table
// (shouldn't happen for commits created through this package) contributes
// generation 0, matching the original's fallback for an unrecorded parent.
func (t generationTable) computeGeneration(parents []object.ID) uint64 {
	var max uint64
	for _, p := range parents {
		g, _ := t.get(p)
		if g+1 > max {
			max = g + 1
		}
	}
	return max
}
