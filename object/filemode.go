// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import "fmt"

// FileMode is a Tree entry's mode, constrained to the four values the
// canonical model recognizes. Unlike a filesystem mode it carries no
// permission bits beyond what distinguishes these four kinds.
type FileMode uint32

const (
	// Regular is a normal (non-executable) file.
	Regular FileMode = 0o100644
	// Executable is an executable file.
	Executable FileMode = 0o100755
	// Symlink is a symbolic link whose blob content is the link target.
	Symlink FileMode = 0o120000
	// Subtree is a nested Tree.
	Subtree FileMode = 0o040000
)

func (m FileMode) String() string {
	switch m {
	case Regular:
		return "regular"
	case Executable:
		return "executable"
	case Symlink:
		return "symlink"
	case Subtree:
		return "subtree"
	default:
		return fmt.Sprintf("filemode(%o)", uint32(m))
	}
}

// LegacyOctal renders the mode the way the legacy re-serializer embeds it:
// 6-digit octal for the three file modes, 5-digit (no leading zero) for
// a subtree.
func (m FileMode) LegacyOctal() string {
	if m == Subtree {
		return "40000"
	}
	return fmt.Sprintf("%06o", uint32(m))
}

// kindFor returns the Kind a valid entry with this mode must carry.
func (m FileMode) kindFor() (Kind, bool) {
	switch m {
	case Subtree:
		return TreeKind, true
	case Regular, Executable, Symlink:
		return BlobKind, true
	default:
		return InvalidKind, false
	}
}

func validFileMode(m FileMode) bool {
	switch m {
	case Regular, Executable, Symlink, Subtree:
		return true
	default:
		return false
	}
}
