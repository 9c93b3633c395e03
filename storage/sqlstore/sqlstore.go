// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package sqlstore implements storage.Store over an embedded SQLite
// database, generalized from the teacher's pkg/serve/database package:
// a transaction is a native BeginTx handle held until Commit or Rollback,
// moved from a remote MySQL driver to an embedded, file-backed one so a
// Store can be opened with no server process. Reference updates are
// unconditional upserts; no compare-and-swap against the current value is
// made. Object payloads are zstd-compressed before storage
// (github.com/klauspost/compress/zstd).
package sqlstore

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/gitnext/core/internal/xlog"
	"github.com/gitnext/core/object"
	"github.com/gitnext/core/refs"
	"github.com/gitnext/core/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS objects (
	id   BLOB PRIMARY KEY,
	kind INTEGER NOT NULL,
	data BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS refs (
	name         TEXT PRIMARY KEY,
	target_kind  INTEGER NOT NULL,
	target_value BLOB NOT NULL
);
`

// Store is the SQLite-backed storage.Store implementation.
type Store struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
	log *logrus.Entry
}

// Open opens (creating if absent) a SQLite database at path and ensures
// its schema exists. With path ":memory:" every pooled connection opens
// its own separate, empty in-memory database, so reads issued while a
// transaction holds another connection do not see its schema or data.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open: %w", err)
	}
	// WAL mode lets readers proceed on their own connection while a writer
	// holds a transaction open on another; capping at 1 would make any
	// Get/ListRefs called during an in-flight transaction block until that
	// transaction ends, even from the same goroutine that would otherwise
	// go on to commit it. A handful of connections is plenty for a single
	// embedded database — sqlite3 itself still serializes writers.
	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: schema: %w", err)
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlstore: zstd decoder: %w", err)
	}
	return &Store{db: db, enc: enc, dec: dec, log: xlog.For("storage/sqlstore")}, nil
}

var _ storage.Store = (*Store)(nil)

func (s *Store) Close() error {
	s.dec.Close()
	return s.db.Close()
}

func (s *Store) Put(id object.ID, o object.Object) error {
	actual, err := object.ComputeID(o)
	if err != nil {
		return &storage.ErrInvalidObject{ID: id, Reason: err.Error()}
	}
	if actual != id {
		return &storage.ErrHashMismatch{Expected: id, Got: actual}
	}
	raw, err := object.Encode(o)
	if err != nil {
		return &storage.ErrInvalidObject{ID: id, Reason: err.Error()}
	}
	compressed := s.enc.EncodeAll(raw, nil)
	_, err = s.db.Exec(
		"INSERT OR IGNORE INTO objects(id, kind, data) VALUES (?, ?, ?)",
		id.Bytes(), int(o.Kind()), compressed,
	)
	if err != nil {
		s.log.WithError(err).Error("put failed")
		return &storage.ErrBackendUnavailable{Name: "sqlstore", Reason: err.Error()}
	}
	return nil
}

func (s *Store) Get(id object.ID) (object.Object, error) {
	var compressed []byte
	err := s.db.QueryRow("SELECT data FROM objects WHERE id = ?", id.Bytes()).Scan(&compressed)
	if err == sql.ErrNoRows {
		return nil, &storage.ErrObjectNotFound{ID: id}
	}
	if err != nil {
		s.log.WithError(err).Error("get failed")
		return nil, &storage.ErrBackendUnavailable{Name: "sqlstore", Reason: err.Error()}
	}
	raw, err := s.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, &storage.ErrInvalidObject{ID: id, Reason: err.Error()}
	}
	o, err := object.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, &storage.ErrInvalidObject{ID: id, Reason: err.Error()}
	}
	return o, nil
}

func (s *Store) UpdateRef(ref refs.Reference) error {
	if err := ref.Name.Validate(); err != nil {
		return err
	}
	value, kind := refValue(ref)
	_, err := s.db.Exec(
		`INSERT INTO refs(name, target_kind, target_value) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET target_kind = excluded.target_kind, target_value = excluded.target_value`,
		string(ref.Name), kind, value,
	)
	if err != nil {
		return &storage.ErrBackendUnavailable{Name: "sqlstore", Reason: err.Error()}
	}
	return nil
}

func (s *Store) DeleteRef(name refs.Name) error {
	result, err := s.db.Exec("DELETE FROM refs WHERE name = ?", string(name))
	if err != nil {
		return &storage.ErrBackendUnavailable{Name: "sqlstore", Reason: err.Error()}
	}
	n, err := result.RowsAffected()
	if err != nil {
		return &storage.ErrBackendUnavailable{Name: "sqlstore", Reason: err.Error()}
	}
	if n == 0 {
		return &storage.ErrRefNotFound{Name: name}
	}
	return nil
}

func (s *Store) ListRefs() ([]refs.Reference, error) {
	rows, err := s.db.Query("SELECT name, target_kind, target_value FROM refs ORDER BY name ASC")
	if err != nil {
		return nil, &storage.ErrBackendUnavailable{Name: "sqlstore", Reason: err.Error()}
	}
	defer rows.Close()
	var out []refs.Reference
	for rows.Next() {
		ref, err := scanRef(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

func (s *Store) Lookup(name refs.Name) (refs.Reference, bool, error) {
	row := s.db.QueryRow("SELECT name, target_kind, target_value FROM refs WHERE name = ?", string(name))
	ref, err := scanRef(row)
	if err == sql.ErrNoRows {
		return refs.Reference{}, false, nil
	}
	if err != nil {
		return refs.Reference{}, false, &storage.ErrBackendUnavailable{Name: "sqlstore", Reason: err.Error()}
	}
	return ref, true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRef(r rowScanner) (refs.Reference, error) {
	var name string
	var kind int
	var value []byte
	if err := r.Scan(&name, &kind, &value); err != nil {
		return refs.Reference{}, err
	}
	ref := refs.Reference{Name: refs.Name(name), TargetKind: refs.TargetKind(kind)}
	switch ref.TargetKind {
	case refs.Direct:
		var id object.ID
		copy(id[:], value)
		ref.Direct = id
	case refs.Symbolic:
		ref.Symbolic = refs.Name(value)
	}
	return ref, nil
}

func refValue(ref refs.Reference) ([]byte, int) {
	if ref.TargetKind == refs.Symbolic {
		return []byte(ref.Symbolic), int(refs.Symbolic)
	}
	return ref.Direct.Bytes(), int(refs.Direct)
}

func (s *Store) BeginTransaction() (storage.Transaction, error) {
	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return nil, &storage.ErrBackendUnavailable{Name: "sqlstore", Reason: err.Error()}
	}
	return &transaction{store: s, tx: tx}, nil
}

// transaction wraps a *sql.Tx directly: SQLite's native transactions give
// us the atomic-commit guarantee the in-memory backend achieves with a
// staging buffer, so no separate buffering layer is needed here.
type transaction struct {
	store *Store
	tx    *sql.Tx
	done  bool
}

func (t *transaction) Put(id object.ID, o object.Object) error {
	if t.done {
		return &storage.ErrTransactionFailed{Reason: "transaction already committed or rolled back"}
	}
	actual, err := object.ComputeID(o)
	if err != nil {
		return &storage.ErrInvalidObject{ID: id, Reason: err.Error()}
	}
	if actual != id {
		return &storage.ErrHashMismatch{Expected: id, Got: actual}
	}
	raw, err := object.Encode(o)
	if err != nil {
		return &storage.ErrInvalidObject{ID: id, Reason: err.Error()}
	}
	compressed := t.store.enc.EncodeAll(raw, nil)
	_, err = t.tx.Exec(
		"INSERT OR IGNORE INTO objects(id, kind, data) VALUES (?, ?, ?)",
		id.Bytes(), int(o.Kind()), compressed,
	)
	if err != nil {
		return &storage.ErrBackendUnavailable{Name: "sqlstore", Reason: err.Error()}
	}
	return nil
}

func (t *transaction) UpdateRef(ref refs.Reference) error {
	if t.done {
		return &storage.ErrTransactionFailed{Reason: "transaction already committed or rolled back"}
	}
	if err := ref.Name.Validate(); err != nil {
		return err
	}
	value, kind := refValue(ref)
	_, err := t.tx.Exec(
		`INSERT INTO refs(name, target_kind, target_value) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET target_kind = excluded.target_kind, target_value = excluded.target_value`,
		string(ref.Name), kind, value,
	)
	if err != nil {
		return &storage.ErrBackendUnavailable{Name: "sqlstore", Reason: err.Error()}
	}
	return nil
}

func (t *transaction) DeleteRef(name refs.Name) error {
	if t.done {
		return &storage.ErrTransactionFailed{Reason: "transaction already committed or rolled back"}
	}
	result, err := t.tx.Exec("DELETE FROM refs WHERE name = ?", string(name))
	if err != nil {
		return &storage.ErrBackendUnavailable{Name: "sqlstore", Reason: err.Error()}
	}
	n, err := result.RowsAffected()
	if err != nil {
		return &storage.ErrBackendUnavailable{Name: "sqlstore", Reason: err.Error()}
	}
	if n == 0 {
		_ = t.tx.Rollback()
		t.done = true
		return &storage.ErrRefNotFound{Name: name}
	}
	return nil
}

func (t *transaction) Commit() error {
	if t.done {
		return &storage.ErrTransactionFailed{Reason: "transaction already committed or rolled back"}
	}
	t.done = true
	if err := t.tx.Commit(); err != nil {
		return &storage.ErrTransactionFailed{Reason: err.Error()}
	}
	return nil
}

func (t *transaction) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	return t.tx.Rollback()
}
