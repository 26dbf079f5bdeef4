// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/codec"
	"github.com/openregistry/registryd/fault"
)

// RecordDelegate - narrow per-capability authorities attached to one
// record, at most one delegate account per record
type RecordDelegate struct {
	Record            solana.PublicKey
	UpdateAuthority   solana.PublicKey
	FreezeAuthority   solana.PublicKey
	TransferAuthority solana.PublicKey
	BurnAuthority     solana.PublicKey

	// zero key = no program restriction
	AuthorityProgram solana.PublicKey
}

// RecordDelegateSize - the layout is entirely fixed width
const RecordDelegateSize = 1 + 6*32

// EncodedSize - always the fixed size
func (d *RecordDelegate) EncodedSize() int {
	return RecordDelegateSize
}

func (d *RecordDelegate) encode(buffer []byte) error {
	if len(buffer) != RecordDelegateSize {
		return fault.ErrOutOfBounds
	}

	w := codec.NewWriter(buffer)
	if err := w.WriteByte(byte(KindRecordDelegate)); nil != err {
		return err
	}
	for _, key := range []solana.PublicKey{
		d.Record,
		d.UpdateAuthority,
		d.FreezeAuthority,
		d.TransferAuthority,
		d.BurnAuthority,
		d.AuthorityProgram,
	} {
		if err := w.WritePublicKey(key); nil != err {
			return err
		}
	}
	return nil
}

// Initialise - first write into a fresh zeroed buffer
func (d *RecordDelegate) Initialise(buffer []byte) error {
	if err := checkUninitialised(buffer); nil != err {
		return err
	}
	return d.encode(buffer)
}

// Encode - rewrite an already live delegate account
func (d *RecordDelegate) Encode(buffer []byte) error {
	return d.encode(buffer)
}

// DecodeRecordDelegate - parse and validate a delegate account buffer
func DecodeRecordDelegate(buffer []byte) (*RecordDelegate, error) {
	if err := checkKind(buffer, KindRecordDelegate); nil != err {
		return nil, err
	}
	if RecordDelegateSize != len(buffer) {
		return nil, fault.ErrInvalidAccountData
	}
	r := codec.NewReader(buffer)
	_, err := r.ReadByte() // kind already checked
	if nil != err {
		return nil, err
	}

	d := &RecordDelegate{}
	for _, key := range []*solana.PublicKey{
		&d.Record,
		&d.UpdateAuthority,
		&d.FreezeAuthority,
		&d.TransferAuthority,
		&d.BurnAuthority,
		&d.AuthorityProgram,
	} {
		*key, err = r.ReadPublicKey()
		if nil != err {
			return nil, err
		}
	}
	return d, nil
}

// HasAuthorityProgram - whether a delegate program restriction is set
func (d *RecordDelegate) HasAuthorityProgram() bool {
	return !d.AuthorityProgram.IsZero()
}
