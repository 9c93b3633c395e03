// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package repository

import "github.com/gitnext/core/object"

// loadCommit fetches and type-asserts a commit, returning ErrNotACommit
// for any other object kind.
func (r *Repository) loadCommit(id object.ID) (*object.Commit, error) {
	o, err := r.store.Get(id)
	if err != nil {
		return nil, err
	}
	commit, ok := o.(*object.Commit)
	if !ok {
		return nil, &ErrNotACommit{ID: id}
	}
	return commit, nil
}

// generationOf returns the commit's known generation, computing and
// caching it on the fly if it predates the generation table (e.g. a
// commit written directly to the store outside this package).
func (r *Repository) generationOf(id object.ID) (uint64, error) {
	if g, ok := r.generations.get(id); ok {
		return g, nil
	}
	commit, err := r.loadCommit(id)
	if err != nil {
		return 0, err
	}
	g := r.generations.computeGeneration(commit.Parents)
	r.generations.set(id, g)
	return g, nil
}

// IsAncestor reports whether candidate is a (non-strict) ancestor of
// commit — true when candidate == commit too, matching the original's
// reflexive definition. Generation numbers prune the walk: a commit
// whose generation is below candidate's can never reach it.
func (r *Repository) IsAncestor(candidate, commit object.ID) (bool, error) {
	if candidate == commit {
		return true, nil
	}
	candidateGen, err := r.generationOf(candidate)
	if err != nil {
		return false, err
	}

	visited := map[object.ID]bool{}
	frontier := []object.ID{commit}
	for len(frontier) > 0 {
		next := make([]object.ID, 0, len(frontier))
		for _, id := range frontier {
			if id == candidate {
				return true, nil
			}
			if visited[id] {
				continue
			}
			visited[id] = true
			c, err := r.loadCommit(id)
			if err != nil {
				return false, err
			}
			for _, p := range c.Parents {
				g, err := r.generationOf(p)
				if err != nil {
					return false, err
				}
				if g < candidateGen {
					continue
				}
				next = append(next, p)
			}
		}
		frontier = next
	}
	return false, nil
}

// MergeBase finds a lowest common ancestor of a and b by walking both
// histories breadth-first in lockstep, one parent step of a's frontier
// then one of b's, and returning the first commit reached from both
// sides. Generation numbers are not consulted.
func (r *Repository) MergeBase(a, b object.ID) (object.ID, bool, error) {
	if a == b {
		return a, true, nil
	}

	ancestorsOfA := map[object.ID]bool{a: true}
	ancestorsOfB := map[object.ID]bool{b: true}
	frontierA := []object.ID{a}
	frontierB := []object.ID{b}

	for len(frontierA) > 0 || len(frontierB) > 0 {
		if found, ok, err := advanceFrontier(r, &frontierA, ancestorsOfA, ancestorsOfB); err != nil {
			return object.ZeroID, false, err
		} else if ok {
			return found, true, nil
		}
		if found, ok, err := advanceFrontier(r, &frontierB, ancestorsOfB, ancestorsOfA); err != nil {
			return object.ZeroID, false, err
		} else if ok {
			return found, true, nil
		}
	}
	return object.ZeroID, false, nil
}

// advanceFrontier steps every commit in *frontier back to its parents,
// recording them in mine, and reports the first parent already present
// in theirs (a common ancestor).
func advanceFrontier(r *Repository, frontier *[]object.ID, mine, theirs map[object.ID]bool) (object.ID, bool, error) {
	next := make([]object.ID, 0, len(*frontier))
	for _, id := range *frontier {
		c, err := r.loadCommit(id)
		if err != nil {
			return object.ZeroID, false, err
		}
		for _, p := range c.Parents {
			if theirs[p] {
				return p, true, nil
			}
			if mine[p] {
				continue
			}
			mine[p] = true
			next = append(next, p)
		}
	}
	*frontier = next
	return object.ZeroID, false, nil
}
