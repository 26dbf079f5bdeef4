// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/fault"
)

// Writer - cursor over a preallocated byte buffer
//
// the buffer must already be the correct total size: account buffers
// are sized by the account lifecycle before any field is written
type Writer struct {
	data   []byte
	offset int
}

// NewWriter - create a writer positioned at the start of the buffer
func NewWriter(data []byte) *Writer {
	return &Writer{data: data}
}

// Offset - the current cursor position
func (w *Writer) Offset() int {
	return w.offset
}

// RemainingBytes - writable bytes left in the buffer
func (w *Writer) RemainingBytes() int {
	return len(w.data) - w.offset
}

func (w *Writer) ensure(n int) error {
	if w.offset+n > len(w.data) {
		return fault.ErrOutOfBounds
	}
	return nil
}

// WriteByte - a single byte at the cursor
func (w *Writer) WriteByte(b byte) error {
	if err := w.ensure(1); nil != err {
		return err
	}
	w.data[w.offset] = b
	w.offset += 1
	return nil
}

// WriteBool - 0 or 1
func (w *Writer) WriteBool(v bool) error {
	b := byte(0)
	if v {
		b = 1
	}
	return w.WriteByte(b)
}

// WriteUint32 - little-endian 32 bit unsigned
func (w *Writer) WriteUint32(v uint32) error {
	if err := w.ensure(4); nil != err {
		return err
	}
	binary.LittleEndian.PutUint32(w.data[w.offset:], v)
	w.offset += 4
	return nil
}

// WriteUint64 - little-endian 64 bit unsigned
func (w *Writer) WriteUint64(v uint64) error {
	if err := w.ensure(8); nil != err {
		return err
	}
	binary.LittleEndian.PutUint64(w.data[w.offset:], v)
	w.offset += 8
	return nil
}

// WriteInt64 - little-endian 64 bit signed
func (w *Writer) WriteInt64(v int64) error {
	return w.WriteUint64(uint64(v))
}

// WritePublicKey - 32 byte key
func (w *Writer) WritePublicKey(key solana.PublicKey) error {
	if err := w.ensure(solana.PublicKeyLength); nil != err {
		return err
	}
	copy(w.data[w.offset:], key[:])
	w.offset += solana.PublicKeyLength
	return nil
}

// WriteBytes - raw bytes at the cursor
func (w *Writer) WriteBytes(b []byte) error {
	if err := w.ensure(len(b)); nil != err {
		return err
	}
	copy(w.data[w.offset:], b)
	w.offset += len(b)
	return nil
}

// WriteString - raw string bytes at the cursor
func (w *Writer) WriteString(s string) error {
	return w.WriteBytes([]byte(s))
}

// WriteStringWithLength - a single length byte followed by the bytes;
// strings longer than 255 bytes cannot be represented
func (w *Writer) WriteStringWithLength(s string) error {
	if len(s) > 255 {
		return fault.ErrArithmeticOverflow
	}
	if err := w.WriteByte(byte(len(s))); nil != err {
		return err
	}
	return w.WriteString(s)
}

// WriteOptionalInt64 - presence byte then payload, zero-filled when absent
func (w *Writer) WriteOptionalInt64(v int64, present bool) error {
	if err := w.WriteBool(present); nil != err {
		return err
	}
	if !present {
		v = 0
	}
	return w.WriteInt64(v)
}

// WriteOptionalPublicKey - presence byte then payload, zero-filled when absent
func (w *Writer) WriteOptionalPublicKey(key solana.PublicKey, present bool) error {
	if err := w.WriteBool(present); nil != err {
		return err
	}
	if !present {
		key = solana.PublicKey{}
	}
	return w.WritePublicKey(key)
}
