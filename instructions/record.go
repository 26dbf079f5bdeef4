// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package instructions

import (
	"github.com/openregistry/registryd/authority"
	"github.com/openregistry/registryd/codec"
	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/host"
	"github.com/openregistry/registryd/state"
)

// record creation permission under a permissioned class: the extra
// signer must be the class authority itself, or be authorised by the
// credential account supplied alongside it
func checkCreationPermission(ctx *host.Context, class *state.Class, permitIndex int) error {
	if !class.IsPermissioned {
		return nil
	}
	permit := optionalAccount(ctx, permitIndex)
	if nil == permit || !permit.IsSigner {
		return fault.ErrMissingSignature
	}
	if permit.Key == class.Authority {
		return nil
	}
	credential, _, err := loadCredential(ctx, permitIndex+1)
	if nil != err {
		return fault.ErrMissingSignature
	}
	if !credential.IsAuthorized(permit.Key) {
		return fault.ErrMissingSignature
	}
	return nil
}

// accounts: owner, payer(signer), class, record, [permit(signer)], [credential]
func createRecord(ctx *host.Context, data []byte) error {
	ownerInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	payerInfo, err := ctx.Account(1)
	if nil != err {
		return err
	}
	if !payerInfo.IsSigner {
		return fault.ErrMissingSignature
	}
	class, classInfo, err := loadClass(ctx, 2)
	if nil != err {
		return err
	}
	recordInfo, err := ctx.Account(3)
	if nil != err {
		return err
	}

	if err := authority.CheckRecordCreation(ctx.ProgramID, classInfo, class); nil != err {
		return err
	}
	if err := checkCreationPermission(ctx, class, 4); nil != err {
		return err
	}

	r := codec.NewReader(data)
	expiry, err := r.ReadInt64()
	if nil != err {
		return err
	}
	name, err := r.ReadStringWithLength()
	if nil != err {
		return err
	}
	content, err := r.ReadRemainderString()
	if nil != err {
		return err
	}

	address, bump, err := state.RecordAddress(ctx.ProgramID, classInfo.Key, name)
	if nil != err {
		return fault.ErrInvalidSeeds
	}
	if address != recordInfo.Key {
		return fault.ErrInvalidSeeds
	}

	record := &state.Record{
		Class:  classInfo.Key,
		Owner:  state.WalletOwner(ownerInfo.Key),
		Expiry: expiry,
		Name:   name,
		Data:   content,
	}

	seeds := state.RecordSeeds(classInfo.Key, name, bump)
	if err := createDerivedAccount(ctx, payerInfo, recordInfo, seeds, record.EncodedSize(), ctx.ProgramID); nil != err {
		return err
	}

	return storeEncoded(recordInfo, record.Initialise)
}

// accounts: authority(signer), record, [delegate]
func updateRecord(ctx *host.Context, data []byte) error {
	authorityInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	record, recordInfo, err := loadRecord(ctx, 1)
	if nil != err {
		return err
	}
	delegateInfo := optionalAccount(ctx, 2)

	if _, err := authority.CheckRecord(ctx.ProgramID, authorityInfo, recordInfo, record, authority.Update, delegateInfo); nil != err {
		return err
	}

	content, err := codec.NewReader(data).ReadRemainderString()
	if nil != err {
		return err
	}
	record.Data = content

	if err := host.ResizeAccount(ctx, recordInfo, authorityInfo, record.EncodedSize(), false); nil != err {
		return err
	}
	return storeEncoded(recordInfo, record.Encode)
}

// accounts: authority(signer), record, [delegate]
func transferRecord(ctx *host.Context, data []byte) error {
	authorityInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	record, recordInfo, err := loadRecord(ctx, 1)
	if nil != err {
		return err
	}
	delegateInfo := optionalAccount(ctx, 2)

	if _, err := authority.CheckRecord(ctx.ProgramID, authorityInfo, recordInfo, record, authority.Transfer, delegateInfo); nil != err {
		return err
	}

	newOwner, err := codec.NewReader(data).ReadPublicKey()
	if nil != err {
		return err
	}
	record.Owner = state.WalletOwner(newOwner)
	return storeEncoded(recordInfo, record.Encode)
}

// accounts: authority(signer), payer, record, [delegate]
//
// the record collapses to a tombstone so the address can never be
// reinitialised, the deposit flows to the payer
func deleteRecord(ctx *host.Context, _ []byte) error {
	authorityInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	payerInfo, err := ctx.Account(1)
	if nil != err {
		return err
	}
	record, recordInfo, err := loadRecord(ctx, 2)
	if nil != err {
		return err
	}
	delegateInfo := optionalAccount(ctx, 3)

	decision, err := authority.CheckRecord(ctx.ProgramID, authorityInfo, recordInfo, record, authority.Burn, delegateInfo)
	if nil != err {
		return err
	}
	if authority.CleanupCloseDelegate == decision.Cleanup {
		if err := closeDelegate(ctx, recordInfo, delegateInfo, payerInfo); nil != err {
			return err
		}
	}

	return closeToTombstone(recordInfo, payerInfo)
}

// accounts: authority(signer), record, [delegate]
//
// unlike classes, re-asserting the current frozen state is an error
func freezeRecord(ctx *host.Context, data []byte) error {
	authorityInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	record, recordInfo, err := loadRecord(ctx, 1)
	if nil != err {
		return err
	}
	delegateInfo := optionalAccount(ctx, 2)

	if _, err := authority.CheckRecord(ctx.ProgramID, authorityInfo, recordInfo, record, authority.Freeze, delegateInfo); nil != err {
		return err
	}

	isFrozen, err := codec.NewReader(data).ReadBool()
	if nil != err {
		return err
	}
	if record.IsFrozen == isFrozen {
		return fault.ErrInvalidAccountData
	}
	record.IsFrozen = isFrozen
	return storeEncoded(recordInfo, record.Encode)
}
