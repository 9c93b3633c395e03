// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package legacy

import (
	"fmt"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/gitnext/core/object"
)

// cacheKey combines an ObjectId and Algorithm since the same object may be
// digested under both SHA-1 and SHA-256.
type cacheKey struct {
	id   object.ID
	algo Algorithm
}

// Cache amortizes the cost of recursive legacy-digest computation.
// Content-addressing makes invalidation unnecessary: an (id, algo) pair's
// digest, once computed, never changes — the same discipline the
// teacher's ristretto-backed metadata cache
// (modules/zeta/backend.Database.metaLRU) relies on for its own
// write-once object metadata.
type Cache struct {
	inner *ristretto.Cache[cacheKey, Digest]
}

// NewCache builds a Cache sized for roughly maxObjects entries.
func NewCache(maxObjects int64) (*Cache, error) {
	inner, err := ristretto.NewCache(&ristretto.Config[cacheKey, Digest]{
		NumCounters: maxObjects * 10,
		MaxCost:     maxObjects,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("legacy: constructing cache: %w", err)
	}
	return &Cache{inner: inner}, nil
}

// CachedSource wraps an ObjectSource with a Cache so a repeated Digest
// call for the same (id, algo) returns the memoized value. Only the
// object passed to Digest is memoized: the children resolved during its
// recursive walk are digested through ComputeDigest directly, so their
// subtrees are re-walked on every miss.
type CachedSource struct {
	Source ObjectSource
	Cache  *Cache
}

func (c *CachedSource) Get(id object.ID) (object.Object, error) {
	return c.Source.Get(id)
}

// Digest is ComputeDigest with caching: a hit returns the memoized value;
// a miss computes, stores, and returns it.
func (c *CachedSource) Digest(o object.Object, id object.ID, algo Algorithm) (Digest, error) {
	key := cacheKey{id: id, algo: algo}
	if d, ok := c.Cache.inner.Get(key); ok {
		return d, nil
	}
	d, err := ComputeDigest(o, algo, c)
	if err != nil {
		return Digest{}, err
	}
	c.Cache.inner.Set(key, d, 1)
	return d, nil
}
