// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import "io"

// Tag is a named, signed-off pointer to another object.
type Tag struct {
	Target     ID
	TargetKind Kind
	Name       string
	Tagger     Signature
	Message    string
}

func (t *Tag) Kind() Kind { return TagKind }

func (t *Tag) Validate() error {
	if t.Name == "" {
		return &ErrInvalidField{Kind: TagKind, Field: "name", Reason: "must not be empty"}
	}
	if t.Message == "" {
		return &ErrInvalidField{Kind: TagKind, Field: "message", Reason: "must not be empty"}
	}
	return t.Tagger.Validate()
}

func (t *Tag) Encode(w io.Writer) error {
	if _, err := w.Write(tagMagic[:]); err != nil {
		return err
	}
	if err := writeID(w, t.Target); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(t.TargetKind)}); err != nil {
		return err
	}
	if err := writeString(w, t.Name); err != nil {
		return err
	}
	if err := writeSignature(w, t.Tagger); err != nil {
		return err
	}
	return writeString(w, t.Message)
}

func (t *Tag) decodeBody(r io.Reader) error {
	target, err := readID(r)
	if err != nil {
		return err
	}
	var kindByte [1]byte
	if _, err := io.ReadFull(r, kindByte[:]); err != nil {
		return err
	}
	name, err := readString(r)
	if err != nil {
		return err
	}
	tagger, err := readSignature(r)
	if err != nil {
		return err
	}
	message, err := readString(r)
	if err != nil {
		return err
	}
	t.Target = target
	t.TargetKind = Kind(kindByte[0])
	t.Name = name
	t.Tagger = tagger
	t.Message = message
	return nil
}
