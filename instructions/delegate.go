// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package instructions

import (
	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/authority"
	"github.com/openregistry/registryd/codec"
	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/host"
	"github.com/openregistry/registryd/state"
)

func readDelegateAuthorities(data []byte) (update, freeze, transfer, burn, program solana.PublicKey, err error) {
	r := codec.NewReader(data)
	if update, err = r.ReadPublicKey(); nil != err {
		return
	}
	if freeze, err = r.ReadPublicKey(); nil != err {
		return
	}
	if transfer, err = r.ReadPublicKey(); nil != err {
		return
	}
	if burn, err = r.ReadPublicKey(); nil != err {
		return
	}
	// an absent program reads back as the zero key, which already
	// means no program restriction
	program, _, err = r.ReadOptionalPublicKey()
	return
}

// only the wallet owner of a live native record, as a signer
func requireRecordOwner(ownerInfo *host.AccountInfo, record *state.Record) error {
	if !ownerInfo.IsSigner {
		return fault.ErrMissingSignature
	}
	if state.OwnerWallet != record.Owner.Kind {
		return fault.ErrInvalidAccountData
	}
	if ownerInfo.Key != record.Owner.Key {
		return fault.ErrMissingSignature
	}
	return nil
}

// accounts: owner(signer, funds the account), record, delegate
func createRecordAuthorityDelegate(ctx *host.Context, data []byte) error {
	ownerInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	record, recordInfo, err := loadRecord(ctx, 1)
	if nil != err {
		return err
	}
	delegateInfo, err := ctx.Account(2)
	if nil != err {
		return err
	}
	if err := requireRecordOwner(ownerInfo, record); nil != err {
		return err
	}
	if record.HasAuthorityDelegate {
		return fault.ErrAlreadyInitialised
	}

	update, freeze, transfer, burn, program, err := readDelegateAuthorities(data)
	if nil != err {
		return err
	}

	address, bump, err := state.DelegateAddress(ctx.ProgramID, recordInfo.Key)
	if nil != err {
		return fault.ErrInvalidSeeds
	}
	if address != delegateInfo.Key {
		return fault.ErrInvalidSeeds
	}

	delegate := &state.RecordDelegate{
		Record:            recordInfo.Key,
		UpdateAuthority:   update,
		FreezeAuthority:   freeze,
		TransferAuthority: transfer,
		BurnAuthority:     burn,
		AuthorityProgram:  program,
	}

	seeds := state.DelegateSeeds(recordInfo.Key, bump)
	if err := createDerivedAccount(ctx, ownerInfo, delegateInfo, seeds, state.RecordDelegateSize, ctx.ProgramID); nil != err {
		return err
	}
	if err := storeEncoded(delegateInfo, delegate.Initialise); nil != err {
		return err
	}

	record.HasAuthorityDelegate = true
	return storeEncoded(recordInfo, record.Encode)
}

// accounts: owner(signer), record, delegate
//
// the update-authority delegate may rewrite the delegation itself, the
// owner always can
func updateRecordAuthorityDelegate(ctx *host.Context, data []byte) error {
	ownerInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	record, recordInfo, err := loadRecord(ctx, 1)
	if nil != err {
		return err
	}
	delegateInfo, err := ctx.Account(2)
	if nil != err {
		return err
	}

	if _, err := authority.CheckRecord(ctx.ProgramID, ownerInfo, recordInfo, record, authority.Update, delegateInfo); nil != err {
		return err
	}

	// the authority check accepts the owner without consulting the
	// delegate account, so the address still needs verifying here
	address, _, err := state.DelegateAddress(ctx.ProgramID, recordInfo.Key)
	if nil != err {
		return fault.ErrInvalidSeeds
	}
	if address != delegateInfo.Key || ctx.ProgramID != delegateInfo.Owner() {
		return fault.ErrInvalidAccountData
	}

	update, freeze, transfer, burn, program, err := readDelegateAuthorities(data)
	if nil != err {
		return err
	}

	delegate := &state.RecordDelegate{
		Record:            recordInfo.Key,
		UpdateAuthority:   update,
		FreezeAuthority:   freeze,
		TransferAuthority: transfer,
		BurnAuthority:     burn,
		AuthorityProgram:  program,
	}
	return storeEncoded(delegateInfo, delegate.Encode)
}

// accounts: owner(signer, receives the deposit), record, delegate
func deleteRecordAuthorityDelegate(ctx *host.Context, _ []byte) error {
	ownerInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	record, recordInfo, err := loadRecord(ctx, 1)
	if nil != err {
		return err
	}
	delegateInfo, err := ctx.Account(2)
	if nil != err {
		return err
	}
	if err := requireRecordOwner(ownerInfo, record); nil != err {
		return err
	}
	if !record.HasAuthorityDelegate {
		return fault.ErrInvalidAccountData
	}

	if err := closeDelegate(ctx, recordInfo, delegateInfo, ownerInfo); nil != err {
		return err
	}

	record.HasAuthorityDelegate = false
	return storeEncoded(recordInfo, record.Encode)
}
