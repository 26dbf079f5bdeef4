// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package instructions

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/host"
	"github.com/openregistry/registryd/token2022"
)

// client side builders: each produces the exact byte layout and account
// order the matching handler expects

func appendLengthString(data []byte, s string) []byte {
	data = append(data, byte(len(s)))
	return append(data, s...)
}

// presence byte always followed by the full 32 byte payload, zero
// filled when absent
func appendOptionalKey(data []byte, key solana.PublicKey) []byte {
	if key.IsZero() {
		var zero solana.PublicKey
		data = append(data, 0)
		return append(data, zero[:]...)
	}
	data = append(data, 1)
	return append(data, key[:]...)
}

func appendInt64(data []byte, v int64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	return append(data, b[:]...)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func appendReadOnly(metas []host.AccountMeta, keys []solana.PublicKey) []host.AccountMeta {
	for _, key := range keys {
		metas = append(metas, host.Meta(key))
	}
	return metas
}

func appendWritable(metas []host.AccountMeta, keys []solana.PublicKey) []host.AccountMeta {
	for _, key := range keys {
		metas = append(metas, host.WritableMeta(key))
	}
	return metas
}

// NewCreateClassInstruction - create a class account at its derived
// address, funded by the authority
func NewCreateClassInstruction(classAuthority solana.PublicKey, class solana.PublicKey, isPermissioned bool, isFrozen bool, name string, metadata string) host.Instruction {
	data := []byte{instructionCreateClass, boolByte(isPermissioned), boolByte(isFrozen)}
	data = appendLengthString(data, name)
	data = append(data, metadata...)
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableSignerMeta(classAuthority),
			host.WritableMeta(class),
		},
		Data: data,
	}
}

// NewUpdateClassMetadataInstruction - replace the class metadata,
// resizing the account either way
func NewUpdateClassMetadataInstruction(classAuthority solana.PublicKey, class solana.PublicKey, metadata string) host.Instruction {
	data := []byte{instructionUpdateClassMetadata}
	data = append(data, metadata...)
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableSignerMeta(classAuthority),
			host.WritableMeta(class),
		},
		Data: data,
	}
}

// NewUpdateClassFrozenInstruction - set the class frozen flag
func NewUpdateClassFrozenInstruction(classAuthority solana.PublicKey, class solana.PublicKey, isFrozen bool) host.Instruction {
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.SignerMeta(classAuthority),
			host.WritableMeta(class),
		},
		Data: []byte{instructionUpdateClassFrozen, boolByte(isFrozen)},
	}
}

// NewFreezeClassInstruction - freeze the class permanently
func NewFreezeClassInstruction(classAuthority solana.PublicKey, class solana.PublicKey) host.Instruction {
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.SignerMeta(classAuthority),
			host.WritableMeta(class),
		},
		Data: []byte{instructionFreezeClass},
	}
}

// NewCreateRecordInstruction - create a record under an open class
func NewCreateRecordInstruction(owner solana.PublicKey, payer solana.PublicKey, class solana.PublicKey, record solana.PublicKey, expiry int64, name string, content string) host.Instruction {
	data := []byte{instructionCreateRecord}
	data = appendInt64(data, expiry)
	data = appendLengthString(data, name)
	data = append(data, content...)
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.Meta(owner),
			host.WritableSignerMeta(payer),
			host.Meta(class),
			host.WritableMeta(record),
		},
		Data: data,
	}
}

// NewPermissionedCreateRecordInstruction - create a record under a
// permissioned class: the permit signer must be the class authority, or
// be authorised by the supplied credential
func NewPermissionedCreateRecordInstruction(owner solana.PublicKey, payer solana.PublicKey, class solana.PublicKey, record solana.PublicKey, permit solana.PublicKey, credential solana.PublicKey, expiry int64, name string, content string) host.Instruction {
	instr := NewCreateRecordInstruction(owner, payer, class, record, expiry, name, content)
	instr.Accounts = append(instr.Accounts, host.SignerMeta(permit))
	if !credential.IsZero() {
		instr.Accounts = append(instr.Accounts, host.Meta(credential))
	}
	return instr
}

// NewUpdateRecordInstruction - replace the record data; an optional
// delegate account backs a non-owner authority
func NewUpdateRecordInstruction(recordAuthority solana.PublicKey, record solana.PublicKey, content string, delegate ...solana.PublicKey) host.Instruction {
	data := []byte{instructionUpdateRecord}
	data = append(data, content...)
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: appendReadOnly([]host.AccountMeta{
			host.WritableSignerMeta(recordAuthority),
			host.WritableMeta(record),
		}, delegate),
		Data: data,
	}
}

// NewTransferRecordInstruction - hand the record to a new wallet owner
func NewTransferRecordInstruction(recordAuthority solana.PublicKey, record solana.PublicKey, newOwner solana.PublicKey, delegate ...solana.PublicKey) host.Instruction {
	data := []byte{instructionTransferRecord}
	data = append(data, newOwner[:]...)
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: appendReadOnly([]host.AccountMeta{
			host.SignerMeta(recordAuthority),
			host.WritableMeta(record),
		}, delegate),
		Data: data,
	}
}

// NewDeleteRecordInstruction - tombstone the record, deposit to payer
func NewDeleteRecordInstruction(recordAuthority solana.PublicKey, payer solana.PublicKey, record solana.PublicKey, delegate ...solana.PublicKey) host.Instruction {
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: appendWritable([]host.AccountMeta{
			host.SignerMeta(recordAuthority),
			host.WritableMeta(payer),
			host.WritableMeta(record),
		}, delegate),
		Data: []byte{instructionDeleteRecord},
	}
}

// NewFreezeRecordInstruction - set the record frozen flag
func NewFreezeRecordInstruction(recordAuthority solana.PublicKey, record solana.PublicKey, isFrozen bool, delegate ...solana.PublicKey) host.Instruction {
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: appendReadOnly([]host.AccountMeta{
			host.SignerMeta(recordAuthority),
			host.WritableMeta(record),
		}, delegate),
		Data: []byte{instructionFreezeRecord, boolByte(isFrozen)},
	}
}

func delegateAuthorityData(discriminator byte, update, freeze, transfer, burn, program solana.PublicKey) []byte {
	data := []byte{discriminator}
	data = append(data, update[:]...)
	data = append(data, freeze[:]...)
	data = append(data, transfer[:]...)
	data = append(data, burn[:]...)
	return appendOptionalKey(data, program)
}

// NewCreateRecordAuthorityDelegateInstruction - attach per-capability
// delegates to a record; a zero authority key grants nothing for that
// capability, a zero program means no program restriction
func NewCreateRecordAuthorityDelegateInstruction(owner solana.PublicKey, record solana.PublicKey, delegate solana.PublicKey, update, freeze, transfer, burn, program solana.PublicKey) host.Instruction {
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableSignerMeta(owner),
			host.WritableMeta(record),
			host.WritableMeta(delegate),
		},
		Data: delegateAuthorityData(instructionCreateRecordAuthorityDelegate, update, freeze, transfer, burn, program),
	}
}

// NewUpdateRecordAuthorityDelegateInstruction - rewrite the delegation
func NewUpdateRecordAuthorityDelegateInstruction(owner solana.PublicKey, record solana.PublicKey, delegate solana.PublicKey, update, freeze, transfer, burn, program solana.PublicKey) host.Instruction {
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.SignerMeta(owner),
			host.Meta(record),
			host.WritableMeta(delegate),
		},
		Data: delegateAuthorityData(instructionUpdateRecordAuthorityDelegate, update, freeze, transfer, burn, program),
	}
}

// NewDeleteRecordAuthorityDelegateInstruction - detach and close the
// delegation, deposit back to the owner
func NewDeleteRecordAuthorityDelegateInstruction(owner solana.PublicKey, record solana.PublicKey, delegate solana.PublicKey) host.Instruction {
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableSignerMeta(owner),
			host.WritableMeta(record),
			host.WritableMeta(delegate),
		},
		Data: []byte{instructionDeleteRecordAuthorityDelegate},
	}
}

// NewMintTokenizedRecordInstruction - move the record's ownership into
// a single-unit token mint held by the owner's associated account
func NewMintTokenizedRecordInstruction(owner solana.PublicKey, recordAuthority solana.PublicKey, record solana.PublicKey, mint solana.PublicKey, groupMint solana.PublicKey, tokenAccount solana.PublicKey, delegate ...solana.PublicKey) host.Instruction {
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: appendReadOnly([]host.AccountMeta{
			host.Meta(owner),
			host.WritableSignerMeta(recordAuthority),
			host.WritableMeta(record),
			host.WritableMeta(mint),
			host.WritableMeta(groupMint),
			host.WritableMeta(tokenAccount),
			host.Meta(token2022.ProgramID),
			host.Meta(solana.SystemProgramID),
		}, delegate),
		Data: []byte{instructionMintTokenizedRecord},
	}
}

// NewBurnTokenizedRecordInstruction - burn the unit, close the mint and
// return the record to the last holder
func NewBurnTokenizedRecordInstruction(recordAuthority solana.PublicKey, payer solana.PublicKey, mint solana.PublicKey, tokenAccount solana.PublicKey, record solana.PublicKey, delegate ...solana.PublicKey) host.Instruction {
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: appendWritable([]host.AccountMeta{
			host.SignerMeta(recordAuthority),
			host.WritableMeta(payer),
			host.WritableMeta(mint),
			host.WritableMeta(tokenAccount),
			host.WritableMeta(record),
		}, delegate),
		Data: []byte{instructionBurnTokenizedRecord},
	}
}

// NewTransferTokenizedRecordInstruction - move the unit between token
// accounts, changing the effective record owner
func NewTransferTokenizedRecordInstruction(recordAuthority solana.PublicKey, mint solana.PublicKey, tokenAccount solana.PublicKey, newTokenAccount solana.PublicKey, record solana.PublicKey, delegate ...solana.PublicKey) host.Instruction {
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: appendReadOnly([]host.AccountMeta{
			host.SignerMeta(recordAuthority),
			host.Meta(mint),
			host.WritableMeta(tokenAccount),
			host.WritableMeta(newTokenAccount),
			host.Meta(record),
		}, delegate),
		Data: []byte{instructionTransferTokenizedRecord},
	}
}

// NewFreezeTokenizedRecordInstruction - freeze or thaw the holding
// account through the mint
func NewFreezeTokenizedRecordInstruction(recordAuthority solana.PublicKey, mint solana.PublicKey, tokenAccount solana.PublicKey, record solana.PublicKey, isFrozen bool, delegate ...solana.PublicKey) host.Instruction {
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: appendReadOnly([]host.AccountMeta{
			host.SignerMeta(recordAuthority),
			host.Meta(mint),
			host.WritableMeta(tokenAccount),
			host.Meta(record),
		}, delegate),
		Data: []byte{instructionFreezeTokenizedRecord, boolByte(isFrozen)},
	}
}

// NewUpdateTokenizedRecordInstruction - rewrite record data and mirror
// it into the mint metadata uri
func NewUpdateTokenizedRecordInstruction(recordAuthority solana.PublicKey, mint solana.PublicKey, tokenAccount solana.PublicKey, record solana.PublicKey, content string, delegate ...solana.PublicKey) host.Instruction {
	data := []byte{instructionUpdateTokenizedRecord}
	data = append(data, content...)
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: appendReadOnly([]host.AccountMeta{
			host.WritableSignerMeta(recordAuthority),
			host.WritableMeta(mint),
			host.Meta(tokenAccount),
			host.WritableMeta(record),
		}, delegate),
		Data: data,
	}
}

// NewCreateCredentialInstruction - create a named signer set
func NewCreateCredentialInstruction(credentialAuthority solana.PublicKey, credential solana.PublicKey, name string, signers []solana.PublicKey) host.Instruction {
	data := []byte{instructionCreateCredential}
	data = appendLengthString(data, name)
	data = append(data, byte(len(signers)))
	for _, key := range signers {
		data = append(data, key[:]...)
	}
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableSignerMeta(credentialAuthority),
			host.WritableMeta(credential),
		},
		Data: data,
	}
}

// NewUpdateCredentialInstruction - toggle signer keys in and out
func NewUpdateCredentialInstruction(signer solana.PublicKey, credential solana.PublicKey, toggles []solana.PublicKey) host.Instruction {
	data := []byte{instructionUpdateCredential}
	data = append(data, byte(len(toggles)))
	for _, key := range toggles {
		data = append(data, key[:]...)
	}
	return host.Instruction{
		ProgramID: ProgramID,
		Accounts: []host.AccountMeta{
			host.WritableSignerMeta(signer),
			host.WritableMeta(credential),
		},
		Data: data,
	}
}
