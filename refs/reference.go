// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package refs defines the reference namespace — HEAD, refs/heads/*,
// refs/tags/*, refs/logs/operations/*, refs/logs/chain — and the
// cycle-guarded symbolic-reference resolution every Storage backend's
// get/resolve path relies on.
package refs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gitnext/core/object"
)

const (
	Head          = "HEAD"
	HeadsPrefix   = "refs/heads/"
	TagsPrefix    = "refs/tags/"
	LogEntryPrefix = "refs/logs/operations/"
	LogChain      = "refs/logs/chain"
	CurrentBranch = "refs/gitnext/current-branch" // deprecated side channel; see DESIGN.md Open Question 2
)

// Name is a slash-delimited reference name validated against the
// namespace rules in spec §6: non-empty, no ASCII control characters, no
// space, no "..", no leading '-', no trailing '/'.
type Name string

func (n Name) String() string { return string(n) }

// Validate enforces the reference-name grammar. HEAD is exempt from the
// slash-delimited-path shape but still subject to the character rules.
func (n Name) Validate() error {
	s := string(n)
	if s == "" {
		return fmt.Errorf("refs: name must not be empty")
	}
	if strings.Contains(s, "..") {
		return fmt.Errorf("refs: name %q must not contain '..'", s)
	}
	if strings.HasSuffix(s, "/") {
		return fmt.Errorf("refs: name %q must not end with '/'", s)
	}
	if strings.HasPrefix(s, "-") {
		return fmt.Errorf("refs: name %q must not start with '-'", s)
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("refs: name %q must not contain control characters", s)
		}
		if r == ' ' {
			return fmt.Errorf("refs: name %q must not contain a space", s)
		}
	}
	return nil
}

// IsBranch reports whether n names a branch under refs/heads/.
func (n Name) IsBranch() bool { return strings.HasPrefix(string(n), HeadsPrefix) }

// BranchName strips the refs/heads/ prefix; callers must check IsBranch first.
func (n Name) BranchName() string { return strings.TrimPrefix(string(n), HeadsPrefix) }

// IsTag reports whether n names a tag under refs/tags/.
func (n Name) IsTag() bool { return strings.HasPrefix(string(n), TagsPrefix) }

func (n Name) TagName() string { return strings.TrimPrefix(string(n), TagsPrefix) }

// BranchRef builds the refs/heads/<name> reference name.
func BranchRef(name string) Name { return Name(HeadsPrefix + name) }

// TagRef builds the refs/tags/<name> reference name.
func TagRef(name string) Name { return Name(TagsPrefix + name) }

// LogEntryRef builds the refs/logs/operations/<entryID> reference name.
func LogEntryRef(entryID string) Name { return Name(LogEntryPrefix + entryID) }

// TargetKind distinguishes a Reference's two possible target forms.
type TargetKind uint8

const (
	Direct   TargetKind = 0
	Symbolic TargetKind = 1
)

// Reference is a named pointer: direct (an ObjectId) or symbolic (the
// textual name of another reference).
type Reference struct {
	Name       Name
	TargetKind TargetKind
	Direct     object.ID // valid iff TargetKind == Direct
	Symbolic   Name      // valid iff TargetKind == Symbolic
}

// NewDirectReference builds a direct reference pointing at id.
func NewDirectReference(name Name, id object.ID) Reference {
	return Reference{Name: name, TargetKind: Direct, Direct: id}
}

// NewSymbolicReference builds a symbolic reference pointing at target.
func NewSymbolicReference(name, target Name) Reference {
	return Reference{Name: name, TargetKind: Symbolic, Symbolic: target}
}

func (r Reference) IsSymbolic() bool { return r.TargetKind == Symbolic }

// Slice attaches sort.Interface to []Reference in ascending name order,
// the order list_refs() is required to return for deterministic
// snapshots (spec §4.4's in-memory backend, §8 P6).
type Slice []Reference

func (s Slice) Len() int           { return len(s) }
func (s Slice) Less(i, j int) bool { return s[i].Name < s[j].Name }
func (s Slice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

func SortReferences(refs []Reference) { sort.Sort(Slice(refs)) }
