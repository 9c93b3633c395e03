// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package config loads and atomically writes the TOML-backed
// configuration (storage backend selection, SQLite DSN, archive-mirror
// bucket), generalized from the teacher's modules/zeta/config package.
package config

import (
	"errors"
)

// BackendKind selects which storage.Store implementation a repository
// opens against.
type BackendKind string

const (
	BackendMemory BackendKind = "memory"
	BackendSQLite BackendKind = "sqlite"
)

// ArchiveConfig configures the optional S3-compatible write-behind
// mirror (§10.4). Bucket empty means the mirror is disabled.
type ArchiveConfig struct {
	Bucket string `toml:"bucket,omitempty"`
	Region string `toml:"region,omitempty"`
	Prefix string `toml:"prefix,omitempty"`
}

func (a ArchiveConfig) Enabled() bool { return a.Bucket != "" }

// Config is the repository's on-disk configuration. The object-hashing
// algorithm is fixed at BLAKE3 (spec non-goal: no pluggable hash), so
// Config has no field for it.
type Config struct {
	Backend BackendKind   `toml:"backend,omitempty"`
	SQLite  SQLiteConfig  `toml:"sqlite,omitempty"`
	Archive ArchiveConfig `toml:"archive,omitempty"`
}

// SQLiteConfig configures the storage/sqlstore backend.
type SQLiteConfig struct {
	Path string `toml:"path,omitempty"`
}

// ErrInvalidArgument reports a nil Config or empty path passed to Encode.
var ErrInvalidArgument = errors.New("config: invalid argument")

// Default returns the configuration a freshly initialized repository
// uses when no config file is present: the in-memory backend, matching
// the teacher's own zero-config-file default behavior.
func Default() *Config {
	return &Config{Backend: BackendMemory}
}
