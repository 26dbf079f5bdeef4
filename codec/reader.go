// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/fault"
)

// Reader - cursor over a byte buffer
type Reader struct {
	data   []byte
	offset int
}

// NewReader - create a reader positioned at the start of the buffer
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// NewReaderWithMinimumSize - create a reader after checking the buffer
// holds at least the fixed-size part of a structure
func NewReaderWithMinimumSize(data []byte, minimum int) (*Reader, error) {
	if len(data) < minimum {
		return nil, fault.ErrOutOfBounds
	}
	return &Reader{data: data}, nil
}

// Offset - the current cursor position
func (r *Reader) Offset() int {
	return r.offset
}

// RemainingBytes - bytes left from the cursor to the end of the buffer
func (r *Reader) RemainingBytes() int {
	return len(r.data) - r.offset
}

func (r *Reader) ensure(n int) error {
	if r.offset+n > len(r.data) {
		return fault.ErrOutOfBounds
	}
	return nil
}

// ReadByte - a single byte at the cursor
func (r *Reader) ReadByte() (byte, error) {
	if err := r.ensure(1); nil != err {
		return 0, err
	}
	b := r.data[r.offset]
	r.offset += 1
	return b, nil
}

// ReadBool - a strict boolean byte, anything other than 0 or 1 is an error
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	if nil != err {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fault.ErrInvalidAccountData
	}
}

// ReadUint32 - little-endian 32 bit unsigned
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.ensure(4); nil != err {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.offset:])
	r.offset += 4
	return v, nil
}

// ReadUint64 - little-endian 64 bit unsigned
func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.ensure(8); nil != err {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.offset:])
	r.offset += 8
	return v, nil
}

// ReadInt64 - little-endian 64 bit signed
func (r *Reader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadPublicKey - 32 byte key copied out of the buffer
func (r *Reader) ReadPublicKey() (solana.PublicKey, error) {
	var key solana.PublicKey
	if err := r.ensure(solana.PublicKeyLength); nil != err {
		return key, err
	}
	copy(key[:], r.data[r.offset:])
	r.offset += solana.PublicKeyLength
	return key, nil
}

// ReadBytes - exactly n bytes copied out of the buffer
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fault.ErrOutOfBounds
	}
	if err := r.ensure(n); nil != err {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, r.data[r.offset:])
	r.offset += n
	return b, nil
}

// ReadString - exactly n bytes interpreted as UTF-8
func (r *Reader) ReadString(n int) (string, error) {
	b, err := r.ReadBytes(n)
	if nil != err {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fault.ErrInvalidEncoding
	}
	return string(b), nil
}

// ReadStringWithLength - a single length byte followed by that many
// bytes of UTF-8
func (r *Reader) ReadStringWithLength() (string, error) {
	n, err := r.ReadByte()
	if nil != err {
		return "", err
	}
	return r.ReadString(int(n))
}

// ReadRemainderString - everything from the cursor to the end of the
// buffer as UTF-8
func (r *Reader) ReadRemainderString() (string, error) {
	return r.ReadString(r.RemainingBytes())
}

// ReadOptionalInt64 - presence byte followed by a zero-filled payload
func (r *Reader) ReadOptionalInt64() (int64, bool, error) {
	present, err := r.ReadBool()
	if nil != err {
		return 0, false, err
	}
	v, err := r.ReadInt64()
	if nil != err {
		return 0, false, err
	}
	if !present {
		return 0, false, nil
	}
	return v, true, nil
}

// ReadOptionalPublicKey - presence byte followed by a zero-filled payload
func (r *Reader) ReadOptionalPublicKey() (solana.PublicKey, bool, error) {
	present, err := r.ReadBool()
	if nil != err {
		return solana.PublicKey{}, false, err
	}
	key, err := r.ReadPublicKey()
	if nil != err {
		return solana.PublicKey{}, false, err
	}
	if !present {
		return solana.PublicKey{}, false, nil
	}
	return key, true, nil
}
