// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package host

import (
	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/codec"
	"github.com/openregistry/registryd/fault"
)

// system program instruction discriminators
const (
	systemCreateAccount = 0
	systemAssign        = 1
	systemTransfer      = 2
	systemAllocate      = 8
)

// NewCreateAccountInstruction - fund and allocate a fresh account and
// hand it to a program
func NewCreateAccountInstruction(funder solana.PublicKey, newAccount solana.PublicKey, lamports uint64, space uint64, owner solana.PublicKey) Instruction {
	data := make([]byte, 4+8+8+32)
	w := codec.NewWriter(data)
	_ = w.WriteUint32(systemCreateAccount)
	_ = w.WriteUint64(lamports)
	_ = w.WriteUint64(space)
	_ = w.WritePublicKey(owner)
	return Instruction{
		ProgramID: solana.SystemProgramID,
		Accounts: []AccountMeta{
			WritableSignerMeta(funder),
			WritableSignerMeta(newAccount),
		},
		Data: data,
	}
}

// NewAssignInstruction - hand a system owned account to a program
func NewAssignInstruction(account solana.PublicKey, owner solana.PublicKey) Instruction {
	data := make([]byte, 4+32)
	w := codec.NewWriter(data)
	_ = w.WriteUint32(systemAssign)
	_ = w.WritePublicKey(owner)
	return Instruction{
		ProgramID: solana.SystemProgramID,
		Accounts: []AccountMeta{
			WritableSignerMeta(account),
		},
		Data: data,
	}
}

// NewTransferInstruction - move lamports between system owned accounts
func NewTransferInstruction(from solana.PublicKey, to solana.PublicKey, lamports uint64) Instruction {
	data := make([]byte, 4+8)
	w := codec.NewWriter(data)
	_ = w.WriteUint32(systemTransfer)
	_ = w.WriteUint64(lamports)
	return Instruction{
		ProgramID: solana.SystemProgramID,
		Accounts: []AccountMeta{
			WritableSignerMeta(from),
			WritableMeta(to),
		},
		Data: data,
	}
}

// NewAllocateInstruction - size the data of a system owned account
func NewAllocateInstruction(account solana.PublicKey, space uint64) Instruction {
	data := make([]byte, 4+8)
	w := codec.NewWriter(data)
	_ = w.WriteUint32(systemAllocate)
	_ = w.WriteUint64(space)
	return Instruction{
		ProgramID: solana.SystemProgramID,
		Accounts: []AccountMeta{
			WritableSignerMeta(account),
		},
		Data: data,
	}
}

// the built-in system program: account creation, assignment and
// lamport transfers
func processSystemInstruction(ctx *Context) error {
	r := codec.NewReader(ctx.Data)
	discriminator, err := r.ReadUint32()
	if nil != err {
		return fault.ErrInvalidInstructionData
	}

	switch discriminator {

	case systemCreateAccount:
		lamports, err := r.ReadUint64()
		if nil != err {
			return fault.ErrInvalidInstructionData
		}
		space, err := r.ReadUint64()
		if nil != err {
			return fault.ErrInvalidInstructionData
		}
		owner, err := r.ReadPublicKey()
		if nil != err {
			return fault.ErrInvalidInstructionData
		}

		funder, err := ctx.Account(0)
		if nil != err {
			return err
		}
		newAccount, err := ctx.Account(1)
		if nil != err {
			return err
		}
		if !funder.IsSigner || !newAccount.IsSigner {
			return fault.ErrMissingSignature
		}
		if newAccount.account.IsInUse() {
			return fault.ErrAccountInUse
		}
		if funder.Lamports() < lamports {
			return fault.ErrInsufficientLamports
		}
		if err := funder.SetLamports(funder.Lamports() - lamports); nil != err {
			return err
		}
		if err := newAccount.SetLamports(lamports); nil != err {
			return err
		}
		if err := newAccount.Resize(int(space), false); nil != err {
			return err
		}
		return newAccount.SetOwner(owner)

	case systemAssign:
		owner, err := r.ReadPublicKey()
		if nil != err {
			return fault.ErrInvalidInstructionData
		}
		account, err := ctx.Account(0)
		if nil != err {
			return err
		}
		if !account.IsSigner {
			return fault.ErrMissingSignature
		}
		return account.SetOwner(owner)

	case systemTransfer:
		lamports, err := r.ReadUint64()
		if nil != err {
			return fault.ErrInvalidInstructionData
		}
		from, err := ctx.Account(0)
		if nil != err {
			return err
		}
		to, err := ctx.Account(1)
		if nil != err {
			return err
		}
		if !from.IsSigner {
			return fault.ErrMissingSignature
		}
		if from.Owner() != solana.SystemProgramID {
			return fault.ErrIncorrectOwner
		}
		if from.Lamports() < lamports {
			return fault.ErrInsufficientLamports
		}
		if err := from.SetLamports(from.Lamports() - lamports); nil != err {
			return err
		}
		return to.SetLamports(to.Lamports() + lamports)

	case systemAllocate:
		space, err := r.ReadUint64()
		if nil != err {
			return fault.ErrInvalidInstructionData
		}
		account, err := ctx.Account(0)
		if nil != err {
			return err
		}
		if !account.IsSigner {
			return fault.ErrMissingSignature
		}
		if account.account.IsInUse() {
			return fault.ErrAccountInUse
		}
		return account.Resize(int(space), false)

	default:
		return fault.ErrInvalidInstructionData
	}
}
