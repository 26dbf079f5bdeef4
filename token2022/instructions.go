// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package token2022

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/host"
)

// instruction data builders: every token call is a fixed layout byte
// buffer, built here and issued as a single cross-program call

func u64Bytes(v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return b[:]
}

// NewInitializeMint2Instruction - write the base mint parameters
func NewInitializeMint2Instruction(mint solana.PublicKey, decimals byte, mintAuthority solana.PublicKey, freezeAuthority solana.PublicKey) host.Instruction {
	data := []byte{instructionInitializeMint2, decimals}
	data = append(data, mintAuthority[:]...)
	if freezeAuthority.IsZero() {
		data = append(data, 0)
	} else {
		data = append(data, 1)
		data = append(data, freezeAuthority[:]...)
	}
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts:  []host.AccountMeta{host.WritableMeta(mint)},
		Data:      data,
	}
}

// NewInitializeMintCloseAuthorityInstruction - close authority
// extension, must run before the base mint initialisation
func NewInitializeMintCloseAuthorityInstruction(mint solana.PublicKey, closeAuthority solana.PublicKey) host.Instruction {
	data := []byte{instructionInitializeMintCloseAuthority, 1}
	data = append(data, closeAuthority[:]...)
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts:  []host.AccountMeta{host.WritableMeta(mint)},
		Data:      data,
	}
}

// NewInitializePermanentDelegateInstruction - permanent delegate
// extension, must run before the base mint initialisation
func NewInitializePermanentDelegateInstruction(mint solana.PublicKey, delegate solana.PublicKey) host.Instruction {
	data := []byte{instructionInitializePermanentDelegate}
	data = append(data, delegate[:]...)
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts:  []host.AccountMeta{host.WritableMeta(mint)},
		Data:      data,
	}
}

func newPointerInstruction(discriminator byte, mint solana.PublicKey, authority solana.PublicKey, address solana.PublicKey) host.Instruction {
	data := []byte{discriminator, pointerSubInitialize}
	data = append(data, authority[:]...)
	data = append(data, address[:]...)
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts:  []host.AccountMeta{host.WritableMeta(mint)},
		Data:      data,
	}
}

// NewInitializeMetadataPointerInstruction - points at the mint itself
// when the metadata lives in the mint's own TLV space
func NewInitializeMetadataPointerInstruction(mint solana.PublicKey, authority solana.PublicKey, metadataAddress solana.PublicKey) host.Instruction {
	return newPointerInstruction(instructionMetadataPointerExtension, mint, authority, metadataAddress)
}

// NewInitializeGroupPointerInstruction - group pointer extension
func NewInitializeGroupPointerInstruction(mint solana.PublicKey, authority solana.PublicKey, groupAddress solana.PublicKey) host.Instruction {
	return newPointerInstruction(instructionGroupPointerExtension, mint, authority, groupAddress)
}

// NewInitializeGroupMemberPointerInstruction - member pointer extension
func NewInitializeGroupMemberPointerInstruction(mint solana.PublicKey, authority solana.PublicKey, memberAddress solana.PublicKey) host.Instruction {
	return newPointerInstruction(instructionGroupMemberPointerExtension, mint, authority, memberAddress)
}

// NewInitializeGroupInstruction - group extension on an initialised
// group mint
func NewInitializeGroupInstruction(group solana.PublicKey, mint solana.PublicKey, mintAuthority solana.PublicKey, updateAuthority solana.PublicKey, maxSize uint64) host.Instruction {
	data := append([]byte{}, initializeGroupDiscriminator[:]...)
	data = append(data, updateAuthority[:]...)
	data = append(data, u64Bytes(maxSize)...)
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableMeta(group),
			host.Meta(mint),
			host.SignerMeta(mintAuthority),
		},
		Data: data,
	}
}

// NewInitializeMemberInstruction - bind a member mint into a group
func NewInitializeMemberInstruction(member solana.PublicKey, memberMint solana.PublicKey, memberMintAuthority solana.PublicKey, group solana.PublicKey, groupUpdateAuthority solana.PublicKey) host.Instruction {
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableMeta(member),
			host.Meta(memberMint),
			host.SignerMeta(memberMintAuthority),
			host.WritableMeta(group),
			host.SignerMeta(groupUpdateAuthority),
		},
		Data: append([]byte{}, initializeMemberDiscriminator[:]...),
	}
}

// NewInitializeMetadataInstruction - metadata extension contents
func NewInitializeMetadataInstruction(metadata solana.PublicKey, updateAuthority solana.PublicKey, mint solana.PublicKey, mintAuthority solana.PublicKey, name string, symbol string, uri string) host.Instruction {
	data := append([]byte{}, initializeMetadataDiscriminator[:]...)
	data = appendString(data, name)
	data = appendString(data, symbol)
	data = appendString(data, uri)
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableMeta(metadata),
			host.Meta(updateAuthority),
			host.Meta(mint),
			host.SignerMeta(mintAuthority),
		},
		Data: data,
	}
}

// NewUpdateMetadataFieldInstruction - rewrite one metadata field; the
// mint must already hold lamports for any size growth
func NewUpdateMetadataFieldInstruction(metadata solana.PublicKey, updateAuthority solana.PublicKey, field MetadataField, value string) host.Instruction {
	data := append([]byte{}, updateMetadataFieldDiscriminator[:]...)
	data = append(data, byte(field))
	data = appendString(data, value)
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableMeta(metadata),
			host.SignerMeta(updateAuthority),
		},
		Data: data,
	}
}

// NewInitializeAccount3Instruction - initialise a token holding account
func NewInitializeAccount3Instruction(account solana.PublicKey, mint solana.PublicKey, owner solana.PublicKey) host.Instruction {
	data := []byte{instructionInitializeAccount3}
	data = append(data, owner[:]...)
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableMeta(account),
			host.Meta(mint),
		},
		Data: data,
	}
}

// NewMintToCheckedInstruction - mint units to a holding account
func NewMintToCheckedInstruction(mint solana.PublicKey, destination solana.PublicKey, authority solana.PublicKey, amount uint64, decimals byte) host.Instruction {
	data := []byte{instructionMintToChecked}
	data = append(data, u64Bytes(amount)...)
	data = append(data, decimals)
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableMeta(mint),
			host.WritableMeta(destination),
			host.SignerMeta(authority),
		},
		Data: data,
	}
}

// NewBurnCheckedInstruction - burn units from a holding account
func NewBurnCheckedInstruction(source solana.PublicKey, mint solana.PublicKey, authority solana.PublicKey, amount uint64, decimals byte) host.Instruction {
	data := []byte{instructionBurnChecked}
	data = append(data, u64Bytes(amount)...)
	data = append(data, decimals)
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableMeta(source),
			host.WritableMeta(mint),
			host.SignerMeta(authority),
		},
		Data: data,
	}
}

// NewTransferCheckedInstruction - move units between holding accounts
func NewTransferCheckedInstruction(source solana.PublicKey, mint solana.PublicKey, destination solana.PublicKey, authority solana.PublicKey, amount uint64, decimals byte) host.Instruction {
	data := []byte{instructionTransferChecked}
	data = append(data, u64Bytes(amount)...)
	data = append(data, decimals)
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableMeta(source),
			host.Meta(mint),
			host.WritableMeta(destination),
			host.SignerMeta(authority),
		},
		Data: data,
	}
}

// NewFreezeAccountInstruction - freeze a holding account
func NewFreezeAccountInstruction(account solana.PublicKey, mint solana.PublicKey, freezeAuthority solana.PublicKey) host.Instruction {
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableMeta(account),
			host.Meta(mint),
			host.SignerMeta(freezeAuthority),
		},
		Data: []byte{instructionFreezeAccount},
	}
}

// NewThawAccountInstruction - thaw a frozen holding account
func NewThawAccountInstruction(account solana.PublicKey, mint solana.PublicKey, freezeAuthority solana.PublicKey) host.Instruction {
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableMeta(account),
			host.Meta(mint),
			host.SignerMeta(freezeAuthority),
		},
		Data: []byte{instructionThawAccount},
	}
}

// NewCloseAccountInstruction - close an emptied mint or holding
// account and reclaim its lamports
func NewCloseAccountInstruction(account solana.PublicKey, destination solana.PublicKey, authority solana.PublicKey) host.Instruction {
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableMeta(account),
			host.WritableMeta(destination),
			host.SignerMeta(authority),
		},
		Data: []byte{instructionCloseAccount},
	}
}

// NewCreateAssociatedTokenAccountInstruction - create the canonical
// holding account of a wallet for one mint
func NewCreateAssociatedTokenAccountInstruction(payer solana.PublicKey, associatedAccount solana.PublicKey, wallet solana.PublicKey, mint solana.PublicKey) host.Instruction {
	return host.Instruction{
		ProgramID: AssociatedTokenProgramID,
		Accounts: []host.AccountMeta{
			host.WritableSignerMeta(payer),
			host.WritableMeta(associatedAccount),
			host.Meta(wallet),
			host.Meta(mint),
		},
		Data: nil,
	}
}
