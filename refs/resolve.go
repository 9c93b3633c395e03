// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package refs

import (
	"fmt"

	"github.com/gitnext/core/object"
)

// MaxResolveRecursion bounds symbolic-reference chasing, matching the
// cycle-guard depth the teacher's modules/zeta/refs.Backend uses for its
// own ReferenceResolve.
const MaxResolveRecursion = 1024

// ErrCyclicReference is returned when resolution exceeds MaxResolveRecursion.
type ErrCyclicReference struct {
	Name Name
}

func (e *ErrCyclicReference) Error() string {
	return fmt.Sprintf("refs: cyclic or too-deep symbolic reference starting at %q", e.Name)
}

// Lookup fetches the Reference stored under name, or (false, nil) if it
// does not exist.
type Lookup interface {
	Lookup(name Name) (Reference, bool, error)
}

// Resolve follows name to its terminal ObjectId, chasing symbolic
// references with a cycle guard. It returns the resolved Reference's
// owning name is not tracked; callers that need the direct Reference
// itself should stop one level early.
func Resolve(l Lookup, name Name) (object.ID, error) {
	current := name
	for depth := 0; depth < MaxResolveRecursion; depth++ {
		ref, ok, err := l.Lookup(current)
		if err != nil {
			return object.ZeroID, err
		}
		if !ok {
			return object.ZeroID, fmt.Errorf("refs: %q not found", current)
		}
		if ref.TargetKind == Direct {
			return ref.Direct, nil
		}
		current = ref.Symbolic
	}
	return object.ZeroID, &ErrCyclicReference{Name: name}
}
