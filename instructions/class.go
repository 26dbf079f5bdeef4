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

// accounts: authority(signer, funds the account), class
func createClass(ctx *host.Context, data []byte) error {
	authorityInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	classInfo, err := ctx.Account(1)
	if nil != err {
		return err
	}
	if !authorityInfo.IsSigner {
		return fault.ErrMissingSignature
	}

	r := codec.NewReader(data)
	isPermissioned, err := r.ReadBool()
	if nil != err {
		return err
	}
	isFrozen, err := r.ReadBool()
	if nil != err {
		return err
	}
	name, err := r.ReadStringWithLength()
	if nil != err {
		return err
	}
	metadata, err := r.ReadRemainderString()
	if nil != err {
		return err
	}

	address, bump, err := state.ClassAddress(ctx.ProgramID, authorityInfo.Key, name)
	if nil != err {
		return fault.ErrInvalidSeeds
	}
	if address != classInfo.Key {
		return fault.ErrInvalidSeeds
	}

	class := &state.Class{
		Authority:      authorityInfo.Key,
		IsPermissioned: isPermissioned,
		IsFrozen:       isFrozen,
		Name:           name,
		Metadata:       metadata,
	}

	seeds := state.ClassSeeds(authorityInfo.Key, name, bump)
	if err := createDerivedAccount(ctx, authorityInfo, classInfo, seeds, class.EncodedSize(), ctx.ProgramID); nil != err {
		return err
	}

	return storeEncoded(classInfo, class.Initialise)
}

// accounts: authority(signer), class
func updateClassMetadata(ctx *host.Context, data []byte) error {
	authorityInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	class, classInfo, err := loadClass(ctx, 1)
	if nil != err {
		return err
	}
	if err := authority.CheckClass(ctx.ProgramID, authorityInfo, classInfo, class); nil != err {
		return err
	}

	metadata, err := codec.NewReader(data).ReadRemainderString()
	if nil != err {
		return err
	}
	class.Metadata = metadata

	if err := host.ResizeAccount(ctx, classInfo, authorityInfo, class.EncodedSize(), false); nil != err {
		return err
	}
	return storeEncoded(classInfo, class.Encode)
}

// accounts: authority(signer), class
//
// setting the current value again is a no-op success
func updateClassFrozen(ctx *host.Context, data []byte) error {
	authorityInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	class, classInfo, err := loadClass(ctx, 1)
	if nil != err {
		return err
	}
	if err := authority.CheckClass(ctx.ProgramID, authorityInfo, classInfo, class); nil != err {
		return err
	}

	isFrozen, err := codec.NewReader(data).ReadBool()
	if nil != err {
		return err
	}
	if class.IsFrozen == isFrozen {
		return nil
	}
	class.IsFrozen = isFrozen
	return storeEncoded(classInfo, class.Encode)
}

// accounts: authority(signer), class
//
// the one-way form: freezes and never thaws, idempotent
func freezeClass(ctx *host.Context, _ []byte) error {
	authorityInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	class, classInfo, err := loadClass(ctx, 1)
	if nil != err {
		return err
	}
	if err := authority.CheckClass(ctx.ProgramID, authorityInfo, classInfo, class); nil != err {
		return err
	}

	if class.IsFrozen {
		return nil
	}
	class.IsFrozen = true
	return storeEncoded(classInfo, class.Encode)
}
