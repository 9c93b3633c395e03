// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// atomicEncode writes a to a temp file beside path and renames it into
// place, so a crash mid-write never leaves a truncated config file —
// grounded on the teacher's config.atomicEncode (modules/zeta/config/encode.go).
func atomicEncode(path string, a any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".gitnext-%d.toml", time.Now().UnixNano()))
	fd, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := toml.NewEncoder(fd)
	enc.Indent = ""
	encErr := enc.Encode(a)
	closeErr := fd.Close()
	if encErr != nil {
		_ = os.Remove(tmp)
		return encErr
	}
	if closeErr != nil {
		_ = os.Remove(tmp)
		return closeErr
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Encode writes cfg to path using the atomic write-temp-then-rename
// discipline.
func Encode(path string, cfg *Config) error {
	if cfg == nil || path == "" {
		return ErrInvalidArgument
	}
	return atomicEncode(path, cfg)
}

// Load reads a Config from path. A missing file is not an error: Load
// returns Default() instead, matching the teacher's LoadGlobal
// zero-config-file behavior.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
