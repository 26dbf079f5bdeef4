// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"github.com/openregistry/registryd/fault"
)

// Kind - account kind tag, the first byte of every entity buffer
type Kind byte

const (
	KindUninitialised  Kind = 0x00
	KindCredential     Kind = 0x01
	KindClass          Kind = 0x02
	KindRecord         Kind = 0x03
	KindRecordDelegate Kind = 0x04
	KindTombstone      Kind = 0xff
)

// entity field limits
const (
	MaxNameLength     = 32
	MaxMetadataLength = 255
	MaxCredentialKeys = 16
)

// DecodeKind - strict tag decode, unknown values are rejected
func DecodeKind(b byte) (Kind, error) {
	switch k := Kind(b); k {
	case KindUninitialised, KindCredential, KindClass, KindRecord, KindRecordDelegate, KindTombstone:
		return k, nil
	default:
		return KindUninitialised, fault.ErrUnknownDiscriminator
	}
}

// check the buffer carries one specific live entity kind
func checkKind(buffer []byte, expected Kind) error {
	if 0 == len(buffer) {
		return fault.ErrOutOfBounds
	}
	kind, err := DecodeKind(buffer[0])
	if nil != err {
		return err
	}
	if expected != kind {
		return fault.ErrInvalidAccountData
	}
	return nil
}

// refuse to initialise anything but an untouched zero buffer
func checkUninitialised(buffer []byte) error {
	if 0 == len(buffer) {
		return fault.ErrOutOfBounds
	}
	if KindUninitialised != Kind(buffer[0]) {
		return fault.ErrAlreadyInitialised
	}
	return nil
}

// Tombstone - mark a closed account buffer
//
// the caller shrinks the account to a single byte first; whatever is
// left is overwritten so no stale entity bytes survive
func Tombstone(buffer []byte) {
	for i := range buffer {
		buffer[i] = 0
	}
	if len(buffer) > 0 {
		buffer[0] = byte(KindTombstone)
	}
}
