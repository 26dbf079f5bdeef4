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

// record flags byte at offset 66
//
// bit 0 keeps the legacy 0/1 has-delegate values for native records,
// bit 1 tags token backed ownership
const (
	recordFlagHasDelegate = 0x01
	recordFlagTokenOwned  = 0x02
	recordFlagsMask       = recordFlagHasDelegate | recordFlagTokenOwned
)

// Record - one named entry under a class
type Record struct {
	Class                solana.PublicKey
	Owner                Owner
	IsFrozen             bool
	HasAuthorityDelegate bool
	Expiry               int64 // unix seconds, 0 = no expiry
	Name                 string
	Data                 string
}

// layout: kind(1) + class(32) + owner(32) + is_frozen(1) + flags(1) +
// expiry(8) + name_len(1) + name + data(remainder)
const recordMinimumSize = 1 + 32 + 32 + 1 + 1 + 8 + 1

// EncodedSize - bytes the current field values need
func (r *Record) EncodedSize() int {
	return recordMinimumSize + len(r.Name) + len(r.Data)
}

func (r *Record) validate() error {
	if len(r.Name) > MaxNameLength {
		return fault.ErrNameTooLong
	}
	if !utf8.ValidString(r.Name) || !utf8.ValidString(r.Data) {
		return fault.ErrInvalidEncoding
	}
	return nil
}

func (r *Record) encode(buffer []byte) error {
	if err := r.validate(); nil != err {
		return err
	}
	if len(buffer) != r.EncodedSize() {
		return fault.ErrOutOfBounds
	}

	flags := byte(0)
	if r.HasAuthorityDelegate {
		flags |= recordFlagHasDelegate
	}
	if OwnerToken == r.Owner.Kind {
		flags |= recordFlagTokenOwned
	}

	w := codec.NewWriter(buffer)
	if err := w.WriteByte(byte(KindRecord)); nil != err {
		return err
	}
	if err := w.WritePublicKey(r.Class); nil != err {
		return err
	}
	if err := w.WritePublicKey(r.Owner.Key); nil != err {
		return err
	}
	if err := w.WriteBool(r.IsFrozen); nil != err {
		return err
	}
	if err := w.WriteByte(flags); nil != err {
		return err
	}
	if err := w.WriteInt64(r.Expiry); nil != err {
		return err
	}
	if err := w.WriteStringWithLength(r.Name); nil != err {
		return err
	}
	return w.WriteString(r.Data)
}

// Initialise - first write into a fresh zeroed buffer
func (r *Record) Initialise(buffer []byte) error {
	if err := checkUninitialised(buffer); nil != err {
		return err
	}
	return r.encode(buffer)
}

// Encode - rewrite an already live record account
func (r *Record) Encode(buffer []byte) error {
	return r.encode(buffer)
}

// DecodeRecord - parse and validate a record account buffer
func DecodeRecord(buffer []byte) (*Record, error) {
	if err := checkKind(buffer, KindRecord); nil != err {
		return nil, err
	}
	reader, err := codec.NewReaderWithMinimumSize(buffer, recordMinimumSize)
	if nil != err {
		return nil, err
	}
	_, err = reader.ReadByte() // kind already checked
	if nil != err {
		return nil, err
	}

	r := &Record{}
	r.Class, err = reader.ReadPublicKey()
	if nil != err {
		return nil, err
	}
	ownerKey, err := reader.ReadPublicKey()
	if nil != err {
		return nil, err
	}
	r.IsFrozen, err = reader.ReadBool()
	if nil != err {
		return nil, err
	}
	flags, err := reader.ReadByte()
	if nil != err {
		return nil, err
	}
	if 0 != flags&^byte(recordFlagsMask) {
		return nil, fault.ErrInvalidAccountData
	}
	r.HasAuthorityDelegate = 0 != flags&recordFlagHasDelegate
	if 0 != flags&recordFlagTokenOwned {
		r.Owner = TokenOwner(ownerKey)
	} else {
		r.Owner = WalletOwner(ownerKey)
	}
	r.Expiry, err = reader.ReadInt64()
	if nil != err {
		return nil, err
	}
	r.Name, err = reader.ReadStringWithLength()
	if nil != err {
		return nil, err
	}
	r.Data, err = reader.ReadRemainderString()
	if nil != err {
		return nil, err
	}
	if err := r.validate(); nil != err {
		return nil, err
	}
	return r, nil
}

// HasExpired - a zero expiry never expires
func (r *Record) HasExpired(now int64) bool {
	return 0 != r.Expiry && r.Expiry < now
}
