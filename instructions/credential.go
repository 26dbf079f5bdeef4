// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package instructions

import (
	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/codec"
	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/host"
	"github.com/openregistry/registryd/state"
)

func readSignerList(r *codec.Reader) ([]solana.PublicKey, error) {
	count, err := r.ReadByte()
	if nil != err {
		return nil, err
	}
	if int(count) > state.MaxCredentialKeys {
		return nil, fault.ErrTooManySigners
	}
	keys := make([]solana.PublicKey, count)
	for i := range keys {
		keys[i], err = r.ReadPublicKey()
		if nil != err {
			return nil, err
		}
	}
	return keys, nil
}

// accounts: authority(signer, funds the account), credential
func createCredential(ctx *host.Context, data []byte) error {
	authorityInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	credentialInfo, err := ctx.Account(1)
	if nil != err {
		return err
	}
	if !authorityInfo.IsSigner {
		return fault.ErrMissingSignature
	}

	r := codec.NewReader(data)
	name, err := r.ReadStringWithLength()
	if nil != err {
		return err
	}
	signers, err := readSignerList(r)
	if nil != err {
		return err
	}
	if 0 != r.RemainingBytes() {
		return fault.ErrInvalidInstructionData
	}

	address, bump, err := state.CredentialAddress(ctx.ProgramID, authorityInfo.Key, name)
	if nil != err {
		return fault.ErrInvalidSeeds
	}
	if address != credentialInfo.Key {
		return fault.ErrInvalidSeeds
	}

	credential := &state.Credential{
		Authority:         authorityInfo.Key,
		Name:              name,
		AuthorizedSigners: signers,
	}

	seeds := state.CredentialSeeds(authorityInfo.Key, name, bump)
	if err := createDerivedAccount(ctx, authorityInfo, credentialInfo, seeds, credential.EncodedSize(), ctx.ProgramID); nil != err {
		return err
	}

	return storeEncoded(credentialInfo, credential.Initialise)
}

// accounts: signer(signer, settles the deposit), credential
//
// each listed key is toggled: present keys drop out, absent keys join.
// the credential authority or any currently authorised signer may do it
func updateCredential(ctx *host.Context, data []byte) error {
	signerInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	credential, credentialInfo, err := loadCredential(ctx, 1)
	if nil != err {
		return err
	}
	if !signerInfo.IsSigner || !credential.IsAuthorized(signerInfo.Key) {
		return fault.ErrMissingSignature
	}

	r := codec.NewReader(data)
	toggles, err := readSignerList(r)
	if nil != err {
		return err
	}
	if 0 != r.RemainingBytes() {
		return fault.ErrInvalidInstructionData
	}

	for _, key := range toggles {
		if err := credential.ToggleSigner(key); nil != err {
			return err
		}
	}

	if err := host.ResizeAccount(ctx, credentialInfo, signerInfo, credential.EncodedSize(), false); nil != err {
		return err
	}
	return storeEncoded(credentialInfo, credential.Encode)
}
