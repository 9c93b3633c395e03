// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Backend)
}

func TestEncodeThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitnext.toml")
	cfg := &Config{
		Backend: BackendSQLite,
		SQLite:  SQLiteConfig{Path: "/var/lib/gitnext/store.db"},
		Archive: ArchiveConfig{Bucket: "gitnext-archive", Region: "us-east-1", Prefix: "objects/"},
	}
	require.NoError(t, Encode(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Backend, loaded.Backend)
	assert.Equal(t, cfg.SQLite, loaded.SQLite)
	assert.Equal(t, cfg.Archive, loaded.Archive)
	assert.True(t, loaded.Archive.Enabled())
}

func TestEncodeRejectsNilConfig(t *testing.T) {
	err := Encode(filepath.Join(t.TempDir(), "x.toml"), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
