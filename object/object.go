// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Kind tags the four object variants. The union is closed: no fifth kind
// will ever be added to the canonical model (contrast with the teacher's
// ObjectType, which reserves room for delta and fragment variants this
// model has no use for).
type Kind int8

const (
	InvalidKind Kind = 0
	BlobKind    Kind = 1
	TreeKind    Kind = 2
	CommitKind  Kind = 3
	TagKind     Kind = 4
)

func (k Kind) String() string {
	switch k {
	case BlobKind:
		return "blob"
	case TreeKind:
		return "tree"
	case CommitKind:
		return "commit"
	case TagKind:
		return "tag"
	default:
		return "invalid"
	}
}

// Magic values tag the canonical encoding of each variant, mirroring the
// teacher's 4-byte object-header convention (COMMIT_MAGIC / TREE_MAGIC)
// but under this model's own namespace.
var (
	blobMagic   = [4]byte{'G', 'N', 'B', 'L'}
	treeMagic   = [4]byte{'G', 'N', 'T', 'R'}
	commitMagic = [4]byte{'G', 'N', 'C', 'M'}
	tagMagic    = [4]byte{'G', 'N', 'T', 'G'}
)

var ErrUnsupportedObject = errors.New("object: unsupported or truncated encoding")

// Encoder writes an object's canonical bytes.
type Encoder interface {
	Encode(w io.Writer) error
}

// Object is implemented by *Blob, *Tree, *Commit and *Tag.
type Object interface {
	Encoder
	Kind() Kind
	Validate() error
}

// Decode reads one canonically-encoded object from r, dispatching on its
// 4-byte magic header.
func Decode(r io.Reader) (Object, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, err
	}
	switch magic {
	case blobMagic:
		b := &Blob{}
		if err := b.decodeBody(r); err != nil {
			return nil, err
		}
		return b, nil
	case treeMagic:
		t := &Tree{}
		if err := t.decodeBody(r); err != nil {
			return nil, err
		}
		return t, nil
	case commitMagic:
		c := &Commit{}
		if err := c.decodeBody(r); err != nil {
			return nil, err
		}
		return c, nil
	case tagMagic:
		t := &Tag{}
		if err := t.decodeBody(r); err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, ErrUnsupportedObject
	}
}

// Encode is a convenience wrapper returning an object's canonical bytes.
func Encode(o Object) ([]byte, error) {
	var buf bytes.Buffer
	if err := o.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// --- little-endian, length-prefixed primitive codecs shared by all four
// variants. Kept free functions (not methods) since none of them need
// variant-specific state. ---

func writeUint32(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func writeUint64(w io.Writer, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func writeInt64(w io.Writer, v int64) error {
	return writeUint64(w, uint64(v))
}

func readInt64(r io.Reader) (int64, error) {
	v, err := readUint64(r)
	return int64(v), err
}

func writeInt32(w io.Writer, v int32) error {
	return writeUint32(w, uint32(v))
}

func readInt32(r io.Reader) (int32, error) {
	v, err := readUint32(r)
	return int32(v), err
}

func writeBytes(w io.Writer, b []byte) error {
	if err := writeUint32(w, uint32(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

const maxFieldLength = 1 << 30 // guards against a corrupt length prefix driving an unbounded allocation

func readBytes(r io.Reader) ([]byte, error) {
	n, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	if n > maxFieldLength {
		return nil, fmt.Errorf("object: field length %d exceeds maximum", n)
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func writeString(w io.Writer, s string) error {
	return writeBytes(w, []byte(s))
}

func readString(r io.Reader) (string, error) {
	b, err := readBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeID(w io.Writer, id ID) error {
	_, err := w.Write(id[:])
	return err
}

func readID(r io.Reader) (ID, error) {
	var id ID
	if _, err := io.ReadFull(r, id[:]); err != nil {
		return ZeroID, err
	}
	return id, nil
}

func writeSignature(w io.Writer, s Signature) error {
	if err := writeString(w, s.Name); err != nil {
		return err
	}
	if err := writeString(w, s.Email); err != nil {
		return err
	}
	if err := writeInt64(w, s.Timestamp); err != nil {
		return err
	}
	return writeInt32(w, s.TimezoneOffset)
}

func readSignature(r io.Reader) (Signature, error) {
	var s Signature
	var err error
	if s.Name, err = readString(r); err != nil {
		return s, err
	}
	if s.Email, err = readString(r); err != nil {
		return s, err
	}
	if s.Timestamp, err = readInt64(r); err != nil {
		return s, err
	}
	if s.TimezoneOffset, err = readInt32(r); err != nil {
		return s, err
	}
	return s, nil
}
