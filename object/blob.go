// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import "io"

// Blob is an opaque byte sequence with its declared length. Size is
// stored (not merely derived) so validation can catch a caller that
// truncated content without updating Size, or vice versa.
type Blob struct {
	Content []byte
	Size    uint64
}

// NewBlob builds a Blob with Size set from len(content).
func NewBlob(content []byte) *Blob {
	return &Blob{Content: content, Size: uint64(len(content))}
}

func (b *Blob) Kind() Kind { return BlobKind }

func (b *Blob) Validate() error {
	if uint64(len(b.Content)) != b.Size {
		return &ErrSizeMismatch{Declared: b.Size, Actual: uint64(len(b.Content))}
	}
	return nil
}

func (b *Blob) Encode(w io.Writer) error {
	if _, err := w.Write(blobMagic[:]); err != nil {
		return err
	}
	if err := writeUint64(w, b.Size); err != nil {
		return err
	}
	return writeBytes(w, b.Content)
}

func (b *Blob) decodeBody(r io.Reader) error {
	size, err := readUint64(r)
	if err != nil {
		return err
	}
	content, err := readBytes(r)
	if err != nil {
		return err
	}
	b.Size = size
	b.Content = content
	return nil
}
