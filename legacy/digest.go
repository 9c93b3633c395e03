// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package legacy re-serializes canonical objects (package object) into
// the historical Git wire format and computes SHA-1/SHA-256 digests over
// that format. It is not a hash-function converter: it recomputes a
// digest by emitting the exact legacy bytes and hashing those, the same
// way the teacher's modules/git/gitobj package hashes loose objects.
package legacy

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
)

// Algorithm names the hash function used for legacy digests.
type Algorithm string

const (
	SHA1   Algorithm = "sha1"
	SHA256 Algorithm = "sha256"
)

func newHasher(algo Algorithm) (hash.Hash, error) {
	switch algo {
	case SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("legacy: unsupported algorithm %q", algo)
	}
}

// Digest is a 160- or 256-bit legacy hash, exported only — never a
// storage key.
type Digest struct {
	Algorithm Algorithm
	Bytes     []byte
}

func (d Digest) String() string {
	return hex.EncodeToString(d.Bytes)
}

func (d Digest) IsZero() bool {
	return len(d.Bytes) == 0
}
