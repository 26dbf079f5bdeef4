// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/codec"
	"github.com/openregistry/registryd/fault"
)

// Class - a namespace for records
//
// permissioned classes are gated by a credential account supplied at
// record creation; the credential address itself is not persisted here
type Class struct {
	Authority      solana.PublicKey
	IsPermissioned bool
	IsFrozen       bool
	Name           string
	Metadata       string
}

// layout: kind(1) + authority(32) + is_permissioned(1) + is_frozen(1) +
// name_len(1) + name + metadata(remainder)
const classMinimumSize = 1 + 32 + 1 + 1 + 1

// EncodedSize - bytes the current field values need
func (c *Class) EncodedSize() int {
	return classMinimumSize + len(c.Name) + len(c.Metadata)
}

func (c *Class) validate() error {
	if len(c.Name) > MaxNameLength {
		return fault.ErrNameTooLong
	}
	if len(c.Metadata) > MaxMetadataLength {
		return fault.ErrMetadataTooLong
	}
	if !utf8.ValidString(c.Name) || !utf8.ValidString(c.Metadata) {
		return fault.ErrInvalidEncoding
	}
	return nil
}

func (c *Class) encode(buffer []byte) error {
	if err := c.validate(); nil != err {
		return err
	}
	if len(buffer) != c.EncodedSize() {
		return fault.ErrOutOfBounds
	}

	w := codec.NewWriter(buffer)
	if err := w.WriteByte(byte(KindClass)); nil != err {
		return err
	}
	if err := w.WritePublicKey(c.Authority); nil != err {
		return err
	}
	if err := w.WriteBool(c.IsPermissioned); nil != err {
		return err
	}
	if err := w.WriteBool(c.IsFrozen); nil != err {
		return err
	}
	if err := w.WriteStringWithLength(c.Name); nil != err {
		return err
	}
	return w.WriteString(c.Metadata)
}

// Initialise - first write into a fresh zeroed buffer
func (c *Class) Initialise(buffer []byte) error {
	if err := checkUninitialised(buffer); nil != err {
		return err
	}
	return c.encode(buffer)
}

// Encode - rewrite an already live class account
func (c *Class) Encode(buffer []byte) error {
	return c.encode(buffer)
}

// DecodeClass - parse and validate a class account buffer
func DecodeClass(buffer []byte) (*Class, error) {
	if err := checkKind(buffer, KindClass); nil != err {
		return nil, err
	}
	r, err := codec.NewReaderWithMinimumSize(buffer, classMinimumSize)
	if nil != err {
		return nil, err
	}
	_, err = r.ReadByte() // kind already checked
	if nil != err {
		return nil, err
	}

	c := &Class{}
	c.Authority, err = r.ReadPublicKey()
	if nil != err {
		return nil, err
	}
	c.IsPermissioned, err = r.ReadBool()
	if nil != err {
		return nil, err
	}
	c.IsFrozen, err = r.ReadBool()
	if nil != err {
		return nil, err
	}
	c.Name, err = r.ReadStringWithLength()
	if nil != err {
		return nil, err
	}
	c.Metadata, err = r.ReadRemainderString()
	if nil != err {
		return nil, err
	}
	if err := c.validate(); nil != err {
		return nil, err
	}
	return c, nil
}
