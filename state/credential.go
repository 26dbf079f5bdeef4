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

// Credential - a named set of signers that may approve records under
// permissioned classes
type Credential struct {
	Authority         solana.PublicKey
	Name              string
	AuthorizedSigners []solana.PublicKey
}

// layout: kind(1) + authority(32) + name_len(1) + name + count(1) + 32×n
const credentialMinimumSize = 1 + 32 + 1 + 1

// EncodedSize - bytes the current field values need
func (c *Credential) EncodedSize() int {
	return credentialMinimumSize + len(c.Name) + solana.PublicKeyLength*len(c.AuthorizedSigners)
}

func (c *Credential) validate() error {
	if len(c.Name) > MaxNameLength {
		return fault.ErrNameTooLong
	}
	if !utf8.ValidString(c.Name) {
		return fault.ErrInvalidEncoding
	}
	if len(c.AuthorizedSigners) > MaxCredentialKeys {
		return fault.ErrTooManySigners
	}
	seen := make(map[solana.PublicKey]bool, len(c.AuthorizedSigners))
	for _, key := range c.AuthorizedSigners {
		if seen[key] {
			return fault.ErrInvalidAccountData
		}
		seen[key] = true
	}
	return nil
}

func (c *Credential) encode(buffer []byte) error {
	if err := c.validate(); nil != err {
		return err
	}
	if len(buffer) != c.EncodedSize() {
		return fault.ErrOutOfBounds
	}

	w := codec.NewWriter(buffer)
	if err := w.WriteByte(byte(KindCredential)); nil != err {
		return err
	}
	if err := w.WritePublicKey(c.Authority); nil != err {
		return err
	}
	if err := w.WriteStringWithLength(c.Name); nil != err {
		return err
	}
	if err := w.WriteByte(byte(len(c.AuthorizedSigners))); nil != err {
		return err
	}
	for _, key := range c.AuthorizedSigners {
		if err := w.WritePublicKey(key); nil != err {
			return err
		}
	}
	return nil
}

// Initialise - first write into a fresh zeroed buffer
func (c *Credential) Initialise(buffer []byte) error {
	if err := checkUninitialised(buffer); nil != err {
		return err
	}
	return c.encode(buffer)
}

// Encode - rewrite an already live credential account
func (c *Credential) Encode(buffer []byte) error {
	return c.encode(buffer)
}

// DecodeCredential - parse and validate a credential account buffer
func DecodeCredential(buffer []byte) (*Credential, error) {
	if err := checkKind(buffer, KindCredential); nil != err {
		return nil, err
	}
	r, err := codec.NewReaderWithMinimumSize(buffer, credentialMinimumSize)
	if nil != err {
		return nil, err
	}
	_, err = r.ReadByte() // kind already checked
	if nil != err {
		return nil, err
	}

	c := &Credential{}
	c.Authority, err = r.ReadPublicKey()
	if nil != err {
		return nil, err
	}
	c.Name, err = r.ReadStringWithLength()
	if nil != err {
		return nil, err
	}
	count, err := r.ReadByte()
	if nil != err {
		return nil, err
	}
	c.AuthorizedSigners = make([]solana.PublicKey, count)
	for i := range c.AuthorizedSigners {
		c.AuthorizedSigners[i], err = r.ReadPublicKey()
		if nil != err {
			return nil, err
		}
	}
	if 0 != r.RemainingBytes() {
		return nil, fault.ErrInvalidAccountData
	}
	if err := c.validate(); nil != err {
		return nil, err
	}
	return c, nil
}

// IsAuthorized - the authority or any listed signer
func (c *Credential) IsAuthorized(signer solana.PublicKey) bool {
	if signer == c.Authority {
		return true
	}
	for _, key := range c.AuthorizedSigners {
		if signer == key {
			return true
		}
	}
	return false
}

// ToggleSigner - add the key if absent, remove it if present
//
// removal keeps the remaining order; adding past the cap fails
func (c *Credential) ToggleSigner(key solana.PublicKey) error {
	for i, existing := range c.AuthorizedSigners {
		if key == existing {
			c.AuthorizedSigners = append(c.AuthorizedSigners[:i], c.AuthorizedSigners[i+1:]...)
			return nil
		}
	}
	if len(c.AuthorizedSigners) >= MaxCredentialKeys {
		return fault.ErrTooManySigners
	}
	c.AuthorizedSigners = append(c.AuthorizedSigners, key)
	return nil
}
