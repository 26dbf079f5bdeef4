// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package instructions

import (
	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/host"
	"github.com/openregistry/registryd/rent"
	"github.com/openregistry/registryd/state"
)

// decode a class account that must belong to this program
func loadClass(ctx *host.Context, index int) (*state.Class, *host.AccountInfo, error) {
	info, err := ctx.Account(index)
	if nil != err {
		return nil, nil, err
	}
	if ctx.ProgramID != info.Owner() {
		return nil, nil, fault.ErrIncorrectOwner
	}
	data, release, err := info.BorrowData()
	if nil != err {
		return nil, nil, err
	}
	class, err := state.DecodeClass(data)
	release()
	if nil != err {
		return nil, nil, err
	}
	return class, info, nil
}

func loadRecord(ctx *host.Context, index int) (*state.Record, *host.AccountInfo, error) {
	info, err := ctx.Account(index)
	if nil != err {
		return nil, nil, err
	}
	if ctx.ProgramID != info.Owner() {
		return nil, nil, fault.ErrIncorrectOwner
	}
	data, release, err := info.BorrowData()
	if nil != err {
		return nil, nil, err
	}
	record, err := state.DecodeRecord(data)
	release()
	if nil != err {
		return nil, nil, err
	}
	return record, info, nil
}

func loadCredential(ctx *host.Context, index int) (*state.Credential, *host.AccountInfo, error) {
	info, err := ctx.Account(index)
	if nil != err {
		return nil, nil, err
	}
	if ctx.ProgramID != info.Owner() {
		return nil, nil, fault.ErrIncorrectOwner
	}
	data, release, err := info.BorrowData()
	if nil != err {
		return nil, nil, err
	}
	credential, err := state.DecodeCredential(data)
	release()
	if nil != err {
		return nil, nil, err
	}
	return credential, info, nil
}

// the delegate account slot after the fixed accounts, nil when absent
func optionalAccount(ctx *host.Context, index int) *host.AccountInfo {
	if index >= ctx.AccountCount() {
		return nil
	}
	info, err := ctx.Account(index)
	if nil != err {
		return nil
	}
	return info
}

// create a rent exempt program-derived account via the system program,
// the address proof is the seed group including the bump
func createDerivedAccount(ctx *host.Context, payer *host.AccountInfo, target *host.AccountInfo, seeds [][]byte, space int, owner solana.PublicKey) error {
	create := host.NewCreateAccountInstruction(
		payer.Key,
		target.Key,
		rent.MinimumBalance(space),
		uint64(space),
		owner,
	)
	return ctx.Invoke(create, [][][]byte{seeds})
}

// rewrite an already sized account with freshly encoded state
func storeEncoded(info *host.AccountInfo, encode func([]byte) error) error {
	data, release, err := info.BorrowMutData()
	if nil != err {
		return err
	}
	defer release()
	return encode(data)
}

// tombstone a program account: the data collapses to the single 0xFF
// marker byte, the deposit above the one byte floor flows to the payer
func closeToTombstone(info *host.AccountInfo, payer *host.AccountInfo) error {
	data, release, err := info.BorrowMutData()
	if nil != err {
		return err
	}
	state.Tombstone(data)
	release()

	if err := info.Resize(1, false); nil != err {
		return err
	}

	floor := rent.MinimumBalance(1)
	balance := info.Lamports()
	if balance < floor {
		return fault.ErrInsufficientLamports
	}
	if !payer.IsWritable {
		return fault.ErrAccountNotWritable
	}
	if err := payer.SetLamports(payer.Lamports() + balance - floor); nil != err {
		return err
	}
	return info.SetLamports(floor)
}

// verify the supplied delegate account sits at the record's delegate
// address and close it, refunding the payer
func closeDelegate(ctx *host.Context, recordInfo *host.AccountInfo, delegateInfo *host.AccountInfo, payer *host.AccountInfo) error {
	if nil == delegateInfo {
		return fault.ErrNotEnoughAccounts
	}
	expected, _, err := state.DelegateAddress(ctx.ProgramID, recordInfo.Key)
	if nil != err {
		return fault.ErrInvalidSeeds
	}
	if expected != delegateInfo.Key || ctx.ProgramID != delegateInfo.Owner() {
		return fault.ErrInvalidAccountData
	}
	return closeToTombstone(delegateInfo, payer)
}
