// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package sqlstore

import (
	"path/filepath"
	"testing"

	"github.com/gitnext/core/storage"
	"github.com/gitnext/core/storage/storagetest"
)

func TestConformance(t *testing.T) {
	storagetest.Run(t, func() storage.Store {
		dir := t.TempDir()
		s, err := Open(filepath.Join(dir, "conformance.db"))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		return s
	})
}
