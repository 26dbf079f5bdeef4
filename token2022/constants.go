// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package token2022

import (
	"github.com/gagliardetto/solana-go"
)

// ProgramID - the token-extension program
var ProgramID = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")

// AssociatedTokenProgramID - the associated token account program
var AssociatedTokenProgramID = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

// account sizes
const (
	// base mint layout
	BaseMintSize = 82

	// token holding account layout, also the padded offset at which
	// the account type byte of an extended mint lives
	TokenAccountSize = 165

	// account type byte offset for any extended account
	accountTypeOffset = TokenAccountSize

	// minimum size of a mint that carries extensions
	extendedMintMinimumSize = accountTypeOffset + 1
)

// account type byte values
const (
	accountTypeUninitialised = 0
	accountTypeMint          = 1
	accountTypeTokenAccount  = 2
)

// token account state values
const (
	accountStateUninitialised = 0
	accountStateInitialised   = 1
	accountStateFrozen        = 2
)

// ExtensionType - TLV extension type tags
type ExtensionType uint16

const (
	ExtensionMintCloseAuthority ExtensionType = 3
	ExtensionPermanentDelegate  ExtensionType = 12
	ExtensionMetadataPointer    ExtensionType = 18
	ExtensionTokenMetadata      ExtensionType = 19
	ExtensionGroupPointer       ExtensionType = 20
	ExtensionTokenGroup         ExtensionType = 21
	ExtensionGroupMemberPointer ExtensionType = 22
	ExtensionTokenGroupMember   ExtensionType = 23
)

// fixed extension payload sizes
const (
	mintCloseAuthoritySize = 32
	permanentDelegateSize  = 32
	pointerSize            = 64 // authority + address
	tokenGroupSize         = 80 // update authority + mint + size + max size
	tokenGroupMemberSize   = 72 // mint + group + member number
)

// single byte instruction discriminators
const (
	instructionCloseAccount                 = 9
	instructionFreezeAccount                = 10
	instructionThawAccount                  = 11
	instructionTransferChecked              = 12
	instructionMintToChecked                = 14
	instructionBurnChecked                  = 15
	instructionInitializeAccount3           = 18
	instructionInitializeMint2              = 20
	instructionInitializeMintCloseAuthority = 25
	instructionInitializePermanentDelegate  = 35
	instructionMetadataPointerExtension     = 39
	instructionGroupPointerExtension        = 40
	instructionGroupMemberPointerExtension  = 41
)

// pointer extension sub-instruction
const pointerSubInitialize = 0

// 8 byte interface discriminators
var (
	initializeGroupDiscriminator     = [8]byte{0x79, 0x71, 0x6c, 0x27, 0x36, 0x33, 0x00, 0x04}
	initializeMemberDiscriminator    = [8]byte{0x98, 0x20, 0xde, 0xb0, 0xdf, 0xed, 0x74, 0x86}
	initializeMetadataDiscriminator  = [8]byte{0xd2, 0xe1, 0x1e, 0xa2, 0x58, 0xb8, 0x4d, 0x8d}
	updateMetadataFieldDiscriminator = [8]byte{0xdd, 0xe9, 0x31, 0x2d, 0xb5, 0xca, 0xdc, 0xc8}
)

// metadata field selector for UpdateMetadataField
type MetadataField byte

const (
	MetadataFieldName   MetadataField = 0
	MetadataFieldSymbol MetadataField = 1
	MetadataFieldURI    MetadataField = 2
)
