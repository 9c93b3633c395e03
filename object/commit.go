// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package object

import "io"

// Commit is a point in history: the tree it records, its parents (order
// significant — the first parent is the mainline), and who/when/why.
//
// Generation numbers are deliberately absent from this struct: they are
// maintained in a side table by the repository layer (see package
// repository), not part of the content-addressed canonical form, so that
// two commits with identical logical content always produce the same ID
// regardless of how their ancestry was discovered.
type Commit struct {
	Tree      ID
	Parents   []ID
	Author    Signature
	Committer Signature
	Message   string
}

func (c *Commit) Kind() Kind { return CommitKind }

func (c *Commit) Validate() error {
	if c.Message == "" {
		return &ErrInvalidField{Kind: CommitKind, Field: "message", Reason: "must not be empty"}
	}
	if err := c.Author.Validate(); err != nil {
		return err
	}
	if err := c.Committer.Validate(); err != nil {
		return err
	}
	return nil
}

func (c *Commit) Encode(w io.Writer) error {
	if _, err := w.Write(commitMagic[:]); err != nil {
		return err
	}
	if err := writeID(w, c.Tree); err != nil {
		return err
	}
	if err := writeUint32(w, uint32(len(c.Parents))); err != nil {
		return err
	}
	for _, p := range c.Parents {
		if err := writeID(w, p); err != nil {
			return err
		}
	}
	if err := writeSignature(w, c.Author); err != nil {
		return err
	}
	if err := writeSignature(w, c.Committer); err != nil {
		return err
	}
	return writeString(w, c.Message)
}

func (c *Commit) decodeBody(r io.Reader) error {
	tree, err := readID(r)
	if err != nil {
		return err
	}
	parentCount, err := readUint32(r)
	if err != nil {
		return err
	}
	parents := make([]ID, 0, parentCount)
	for i := uint32(0); i < parentCount; i++ {
		p, err := readID(r)
		if err != nil {
			return err
		}
		parents = append(parents, p)
	}
	author, err := readSignature(r)
	if err != nil {
		return err
	}
	committer, err := readSignature(r)
	if err != nil {
		return err
	}
	message, err := readString(r)
	if err != nil {
		return err
	}
	c.Tree = tree
	c.Parents = parents
	c.Author = author
	c.Committer = committer
	c.Message = message
	return nil
}
