// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package memory

import (
	"testing"

	"github.com/gitnext/core/storage"
	"github.com/gitnext/core/storage/storagetest"
)

func TestConformance(t *testing.T) {
	storagetest.Run(t, func() storage.Store { return New() })
}
