// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package legacy

import (
	"bytes"
	"fmt"

	"github.com/gitnext/core/object"
)

// ObjectSource resolves an ObjectId to its canonical object, so the Tree
// exporter can recompute each child's legacy digest recursively. Any
// Storage implementation (package storage) satisfies a narrower form of
// this; repository-layer callers pass the backing store directly.
type ObjectSource interface {
	Get(id object.ID) (object.Object, error)
}

// ToLegacyBytes renders o in the historical "<type> <len>\0<payload>"
// format. For a Tree, each entry's child value is the recursive legacy
// digest of the child (resolved through src), never the child's
// canonical ObjectId — see DESIGN.md's Open Question 1 resolution.
func ToLegacyBytes(o object.Object, algo Algorithm, src ObjectSource) ([]byte, error) {
	payload, err := legacyPayload(o, algo, src)
	if err != nil {
		return nil, err
	}
	header := fmt.Sprintf("%s %d\x00", o.Kind(), len(payload))
	out := make([]byte, 0, len(header)+len(payload))
	out = append(out, header...)
	out = append(out, payload...)
	return out, nil
}

// ComputeDigest computes the legacy digest of o: the hash (by algo) of
// ToLegacyBytes(o, algo, src).
func ComputeDigest(o object.Object, algo Algorithm, src ObjectSource) (Digest, error) {
	b, err := ToLegacyBytes(o, algo, src)
	if err != nil {
		return Digest{}, err
	}
	h, err := newHasher(algo)
	if err != nil {
		return Digest{}, err
	}
	if _, err := h.Write(b); err != nil {
		return Digest{}, err
	}
	return Digest{Algorithm: algo, Bytes: h.Sum(nil)}, nil
}

func legacyPayload(o object.Object, algo Algorithm, src ObjectSource) ([]byte, error) {
	switch v := o.(type) {
	case *object.Blob:
		return v.Content, nil
	case *object.Tree:
		return legacyTreePayload(v, algo, src)
	case *object.Commit:
		return legacyCommitPayload(v, algo, src)
	case *object.Tag:
		return legacyTagPayload(v, algo, src)
	default:
		return nil, fmt.Errorf("legacy: unsupported object kind %T", o)
	}
}

// childLegacyHex resolves id through src and returns the hex form of its
// own legacy digest. Real Git has no notion of a canonical-vs-legacy
// split: every embedded 32-byte reference a legacy-format object carries
// (a tree's child, a commit's tree and parents, a tag's target) names the
// referenced object's own legacy digest, recursively. Substituting the
// canonical ObjectId at any of these positions would reproduce the same
// bug the Open Question flags for tree entries, just relocated — so this
// re-serializer applies the recursive substitution uniformly.
func childLegacyHex(id object.ID, algo Algorithm, src ObjectSource) (string, error) {
	child, err := src.Get(id)
	if err != nil {
		return "", fmt.Errorf("legacy: resolving %s: %w", id, err)
	}
	digest, err := ComputeDigest(child, algo, src)
	if err != nil {
		return "", fmt.Errorf("legacy: digesting %s: %w", id, err)
	}
	return digest.String(), nil
}

func legacyTreePayload(t *object.Tree, algo Algorithm, src ObjectSource) ([]byte, error) {
	var buf bytes.Buffer
	for _, e := range t.Entries {
		child, err := src.Get(e.ID)
		if err != nil {
			return nil, fmt.Errorf("legacy: resolving tree entry %q: %w", e.Name, err)
		}
		childDigest, err := ComputeDigest(child, algo, src)
		if err != nil {
			return nil, fmt.Errorf("legacy: digesting tree entry %q: %w", e.Name, err)
		}
		buf.WriteString(e.Mode.LegacyOctal())
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(childDigest.Bytes)
	}
	return buf.Bytes(), nil
}

func legacyCommitPayload(c *object.Commit, algo Algorithm, src ObjectSource) ([]byte, error) {
	var buf bytes.Buffer
	treeHex, err := childLegacyHex(c.Tree, algo, src)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, "tree %s\n", treeHex)
	for _, p := range c.Parents {
		parentHex, err := childLegacyHex(p, algo, src)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "parent %s\n", parentHex)
	}
	fmt.Fprintf(&buf, "author %s\n", c.Author.String())
	fmt.Fprintf(&buf, "committer %s\n", c.Committer.String())
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes(), nil
}

func legacyTagPayload(t *object.Tag, algo Algorithm, src ObjectSource) ([]byte, error) {
	var buf bytes.Buffer
	targetHex, err := childLegacyHex(t.Target, algo, src)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(&buf, "object %s\n", targetHex)
	fmt.Fprintf(&buf, "type %s\n", t.TargetKind)
	fmt.Fprintf(&buf, "tag %s\n", t.Name)
	fmt.Fprintf(&buf, "tagger %s\n", t.Tagger.String())
	buf.WriteByte('\n')
	buf.WriteString(t.Message)
	return buf.Bytes(), nil
}
