// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package token2022

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/fault"
)

// base mint field offsets, 4 byte option tag before each authority
const (
	mintAuthorityOffset       = 0
	mintSupplyOffset          = 36
	mintDecimalsOffset        = 44
	mintInitialisedOffset     = 45
	mintFreezeAuthorityOffset = 46
)

// token account field offsets
const (
	tokenMintOffset   = 0
	tokenOwnerOffset  = 32
	tokenAmountOffset = 64
	tokenStateOffset  = 108
)

// Mint - decoded base mint fields
//
// a zero authority key means the option is not set
type Mint struct {
	MintAuthority   solana.PublicKey
	Supply          uint64
	Decimals        byte
	IsInitialised   bool
	FreezeAuthority solana.PublicKey
}

// TokenAccount - decoded token holding account
type TokenAccount struct {
	Mint     solana.PublicKey
	Owner    solana.PublicKey
	Amount   uint64
	IsFrozen bool
}

// Metadata - token metadata extension payload
type Metadata struct {
	UpdateAuthority solana.PublicKey
	Mint            solana.PublicKey
	Name            string
	Symbol          string
	URI             string
}

// IsMintAccount - a base or extended mint buffer
func IsMintAccount(data []byte) bool {
	if BaseMintSize == len(data) {
		return true
	}
	return len(data) >= extendedMintMinimumSize && accountTypeMint == data[accountTypeOffset]
}

// IsTokenAccount - a token holding account buffer
func IsTokenAccount(data []byte) bool {
	return TokenAccountSize == len(data)
}

func readOptionKey(data []byte, offset int) solana.PublicKey {
	var key solana.PublicKey
	if 1 == binary.LittleEndian.Uint32(data[offset:]) {
		copy(key[:], data[offset+4:])
	}
	return key
}

func writeOptionKey(data []byte, offset int, key solana.PublicKey) {
	tag := uint32(0)
	if !key.IsZero() {
		tag = 1
	}
	binary.LittleEndian.PutUint32(data[offset:], tag)
	copy(data[offset+4:], key[:])
}

// DecodeMint - base fields of a mint buffer
func DecodeMint(data []byte) (*Mint, error) {
	if !IsMintAccount(data) {
		return nil, fault.ErrInvalidAccountData
	}
	return &Mint{
		MintAuthority:   readOptionKey(data, mintAuthorityOffset),
		Supply:          binary.LittleEndian.Uint64(data[mintSupplyOffset:]),
		Decimals:        data[mintDecimalsOffset],
		IsInitialised:   1 == data[mintInitialisedOffset],
		FreezeAuthority: readOptionKey(data, mintFreezeAuthorityOffset),
	}, nil
}

func writeBaseMint(data []byte, m *Mint) {
	writeOptionKey(data, mintAuthorityOffset, m.MintAuthority)
	binary.LittleEndian.PutUint64(data[mintSupplyOffset:], m.Supply)
	data[mintDecimalsOffset] = m.Decimals
	if m.IsInitialised {
		data[mintInitialisedOffset] = 1
	} else {
		data[mintInitialisedOffset] = 0
	}
	writeOptionKey(data, mintFreezeAuthorityOffset, m.FreezeAuthority)
}

// DecodeTokenAccount - fields of a token holding account buffer
func DecodeTokenAccount(data []byte) (*TokenAccount, error) {
	if !IsTokenAccount(data) {
		return nil, fault.ErrInvalidAccountData
	}
	if accountStateUninitialised == data[tokenStateOffset] {
		return nil, fault.ErrNotInitialised
	}
	account := &TokenAccount{
		Amount:   binary.LittleEndian.Uint64(data[tokenAmountOffset:]),
		IsFrozen: accountStateFrozen == data[tokenStateOffset],
	}
	copy(account.Mint[:], data[tokenMintOffset:])
	copy(account.Owner[:], data[tokenOwnerOffset:])
	return account, nil
}

// TLV extension entries live after the account type byte
type extensionEntry struct {
	Type  ExtensionType
	Value []byte
}

func parseExtensions(data []byte) ([]extensionEntry, error) {
	if len(data) < extendedMintMinimumSize {
		return nil, nil
	}
	entries := []extensionEntry(nil)
	offset := accountTypeOffset + 1
	for offset+4 <= len(data) {
		extensionType := ExtensionType(binary.LittleEndian.Uint16(data[offset:]))
		length := int(binary.LittleEndian.Uint16(data[offset+2:]))
		if 0 == extensionType {
			break // zeroed tail: no further entries
		}
		if offset+4+length > len(data) {
			return nil, fault.ErrInvalidAccountData
		}
		value := make([]byte, length)
		copy(value, data[offset+4:])
		entries = append(entries, extensionEntry{Type: extensionType, Value: value})
		offset += 4 + length
	}
	return entries, nil
}

func extensionsSize(entries []extensionEntry) int {
	size := 0
	for _, entry := range entries {
		size += 4 + len(entry.Value)
	}
	return size
}

// rewrite the whole TLV region, zeroing whatever tail is left
func writeExtensions(data []byte, entries []extensionEntry) error {
	if len(data) < extendedMintMinimumSize {
		return fault.ErrOutOfBounds
	}
	if accountTypeOffset+1+extensionsSize(entries) > len(data) {
		return fault.ErrOutOfBounds
	}
	data[accountTypeOffset] = accountTypeMint
	offset := accountTypeOffset + 1
	for _, entry := range entries {
		binary.LittleEndian.PutUint16(data[offset:], uint16(entry.Type))
		binary.LittleEndian.PutUint16(data[offset+2:], uint16(len(entry.Value)))
		copy(data[offset+4:], entry.Value)
		offset += 4 + len(entry.Value)
	}
	for i := offset; i < len(data); i += 1 {
		data[i] = 0
	}
	return nil
}

func findExtension(entries []extensionEntry, extensionType ExtensionType) []byte {
	for _, entry := range entries {
		if extensionType == entry.Type {
			return entry.Value
		}
	}
	return nil
}

// GetExtension - raw payload of one extension of a mint buffer
func GetExtension(data []byte, extensionType ExtensionType) ([]byte, error) {
	entries, err := parseExtensions(data)
	if nil != err {
		return nil, err
	}
	value := findExtension(entries, extensionType)
	if nil == value {
		return nil, fault.ErrAccountNotFound
	}
	return value, nil
}

// borsh style string: u32 length then bytes
func appendString(buffer []byte, s string) []byte {
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(s)))
	buffer = append(buffer, length[:]...)
	return append(buffer, s...)
}

func readString(data []byte, offset int) (string, int, error) {
	if offset+4 > len(data) {
		return "", 0, fault.ErrOutOfBounds
	}
	length := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	if offset+length > len(data) {
		return "", 0, fault.ErrOutOfBounds
	}
	s := data[offset : offset+length]
	if !utf8.Valid(s) {
		return "", 0, fault.ErrInvalidEncoding
	}
	return string(s), offset + length, nil
}

// EncodeMetadata - TLV payload of the token metadata extension
func EncodeMetadata(m *Metadata) []byte {
	buffer := make([]byte, 0, 64+3*4+len(m.Name)+len(m.Symbol)+len(m.URI)+4)
	buffer = append(buffer, m.UpdateAuthority[:]...)
	buffer = append(buffer, m.Mint[:]...)
	buffer = appendString(buffer, m.Name)
	buffer = appendString(buffer, m.Symbol)
	buffer = appendString(buffer, m.URI)
	// no additional key/value entries
	buffer = append(buffer, 0, 0, 0, 0)
	return buffer
}

// DecodeMetadata - parse a token metadata extension payload
func DecodeMetadata(value []byte) (*Metadata, error) {
	if len(value) < 64 {
		return nil, fault.ErrInvalidAccountData
	}
	m := &Metadata{}
	copy(m.UpdateAuthority[:], value[0:])
	copy(m.Mint[:], value[32:])

	offset := 64
	var err error
	m.Name, offset, err = readString(value, offset)
	if nil != err {
		return nil, err
	}
	m.Symbol, offset, err = readString(value, offset)
	if nil != err {
		return nil, err
	}
	m.URI, _, err = readString(value, offset)
	if nil != err {
		return nil, err
	}
	return m, nil
}

// MetadataSize - TLV payload size for the given contents
func MetadataSize(name string, symbol string, uri string) int {
	return 64 + 4 + len(name) + 4 + len(symbol) + 4 + len(uri) + 4
}

// RecordMintSize - full account size of a record mint: base layout,
// padding, account type byte and every extension the registry
// initialises, with the metadata payload sized for its contents
func RecordMintSize(name string, symbol string, uri string) int {
	return extendedMintMinimumSize +
		4 + mintCloseAuthoritySize +
		4 + permanentDelegateSize +
		4 + pointerSize + // metadata pointer
		4 + pointerSize + // group member pointer
		4 + MetadataSize(name, symbol, uri) +
		4 + tokenGroupMemberSize
}

// GroupMintSize - full account size of a class group mint
func GroupMintSize() int {
	return extendedMintMinimumSize +
		4 + pointerSize + // group pointer
		4 + tokenGroupSize
}

// AssociatedTokenAddress - the canonical holding account of a wallet
// for one mint
func AssociatedTokenAddress(wallet solana.PublicKey, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress(
		[][]byte{wallet[:], ProgramID[:], mint[:]},
		AssociatedTokenProgramID,
	)
}
