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
	"github.com/openregistry/registryd/rent"
	"github.com/openregistry/registryd/state"
	"github.com/openregistry/registryd/token2022"
)

// ticker shared by every record mint
const recordTicker = "REG"

// derive the record mint address and its signing seeds, verifying the
// supplied account sits there
func recordMintSeeds(ctx *host.Context, recordKey solana.PublicKey, mintInfo *host.AccountInfo) ([][]byte, error) {
	address, bump, err := state.MintAddress(ctx.ProgramID, recordKey)
	if nil != err {
		return nil, fault.ErrInvalidSeeds
	}
	if address != mintInfo.Key {
		return nil, fault.ErrInvalidSeeds
	}
	return state.MintSeeds(recordKey, bump), nil
}

func decodeTokenInfo(tokenInfo *host.AccountInfo) (*token2022.TokenAccount, error) {
	data, release, err := tokenInfo.BorrowData()
	if nil != err {
		return nil, err
	}
	defer release()
	return token2022.DecodeTokenAccount(data)
}

// create the per-class group mint when the first record under the
// class is tokenized; later records join the existing group
func ensureGroupMint(ctx *host.Context, payer *host.AccountInfo, groupInfo *host.AccountInfo, classKey solana.PublicKey) ([][]byte, error) {
	address, bump, err := state.GroupMintAddress(ctx.ProgramID, classKey)
	if nil != err {
		return nil, fault.ErrInvalidSeeds
	}
	if address != groupInfo.Key {
		return nil, fault.ErrInvalidSeeds
	}
	seeds := state.GroupMintSeeds(classKey, bump)

	if groupInfo.DataLen() > 0 {
		if token2022.ProgramID != groupInfo.Owner() {
			return nil, fault.ErrIncorrectOwner
		}
		return seeds, nil
	}

	size := token2022.GroupMintSize()
	if err := createDerivedAccount(ctx, payer, groupInfo, seeds, size, token2022.ProgramID); nil != err {
		return nil, err
	}

	group := groupInfo.Key
	steps := []host.Instruction{
		token2022.NewInitializeGroupPointerInstruction(group, group, group),
		token2022.NewInitializeMint2Instruction(group, 0, group, group),
		token2022.NewInitializeGroupInstruction(group, group, group, group, 100),
	}
	for _, step := range steps {
		if err := ctx.Invoke(step, [][][]byte{seeds}); nil != err {
			return nil, err
		}
	}
	return seeds, nil
}

// accounts: owner, authority(signer, funds everything), record, mint,
// group_mint, token_account, token2022 program, system program,
// [delegate]
//
// the record stays at its address; ownership moves into a single-unit
// token-extension mint whose holder is the effective owner from here on
func mintTokenizedRecord(ctx *host.Context, _ []byte) error {
	ownerInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	authorityInfo, err := ctx.Account(1)
	if nil != err {
		return err
	}
	record, recordInfo, err := loadRecord(ctx, 2)
	if nil != err {
		return err
	}
	mintInfo, err := ctx.Account(3)
	if nil != err {
		return err
	}
	groupInfo, err := ctx.Account(4)
	if nil != err {
		return err
	}
	tokenInfo, err := ctx.Account(5)
	if nil != err {
		return err
	}
	delegateInfo := optionalAccount(ctx, 8)

	if _, err := authority.CheckRecord(ctx.ProgramID, authorityInfo, recordInfo, record, authority.Update, delegateInfo); nil != err {
		return err
	}
	if ownerInfo.Key != record.Owner.Key {
		return fault.ErrInvalidAccountData
	}

	mintSeeds, err := recordMintSeeds(ctx, recordInfo.Key, mintInfo)
	if nil != err {
		return err
	}
	expectedToken, _, err := token2022.AssociatedTokenAddress(ownerInfo.Key, mintInfo.Key)
	if nil != err {
		return fault.ErrInvalidSeeds
	}
	if expectedToken != tokenInfo.Key {
		return fault.ErrInvalidSeeds
	}

	groupSeeds, err := ensureGroupMint(ctx, authorityInfo, groupInfo, record.Class)
	if nil != err {
		return err
	}

	mint := mintInfo.Key
	size := token2022.RecordMintSize(record.Name, recordTicker, record.Data)
	if err := createDerivedAccount(ctx, authorityInfo, mintInfo, mintSeeds, size, token2022.ProgramID); nil != err {
		return err
	}

	setup := []host.Instruction{
		token2022.NewInitializeMintCloseAuthorityInstruction(mint, mint),
		token2022.NewInitializePermanentDelegateInstruction(mint, mint),
		token2022.NewInitializeMetadataPointerInstruction(mint, mint, mint),
		token2022.NewInitializeGroupMemberPointerInstruction(mint, mint, mint),
		token2022.NewInitializeMint2Instruction(mint, 0, mint, mint),
		token2022.NewInitializeMetadataInstruction(mint, mint, mint, mint, record.Name, recordTicker, record.Data),
	}
	for _, step := range setup {
		if err := ctx.Invoke(step, [][][]byte{mintSeeds}); nil != err {
			return err
		}
	}

	member := token2022.NewInitializeMemberInstruction(mint, mint, mint, groupInfo.Key, groupInfo.Key)
	if err := ctx.Invoke(member, [][][]byte{mintSeeds, groupSeeds}); nil != err {
		return err
	}

	ata := token2022.NewCreateAssociatedTokenAccountInstruction(authorityInfo.Key, tokenInfo.Key, ownerInfo.Key, mint)
	if err := ctx.Invoke(ata, nil); nil != err {
		return err
	}

	mintTo := token2022.NewMintToCheckedInstruction(mint, tokenInfo.Key, mint, 1, 0)
	if err := ctx.Invoke(mintTo, [][][]byte{mintSeeds}); nil != err {
		return err
	}

	// the record level frozen flag is parked on true: the live frozen
	// state is the token account's from now on
	record.IsFrozen = true
	record.Owner = state.TokenOwner(mint)
	return storeEncoded(recordInfo, record.Encode)
}

// accounts: authority(signer), payer, mint, token_account, record,
// [delegate]
//
// burns the unit, closes the mint to the payer and hands the record
// back to whoever held the token last
func burnTokenizedRecord(ctx *host.Context, _ []byte) error {
	authorityInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	payerInfo, err := ctx.Account(1)
	if nil != err {
		return err
	}
	mintInfo, err := ctx.Account(2)
	if nil != err {
		return err
	}
	tokenInfo, err := ctx.Account(3)
	if nil != err {
		return err
	}
	record, recordInfo, err := loadRecord(ctx, 4)
	if nil != err {
		return err
	}
	delegateInfo := optionalAccount(ctx, 5)

	decision, err := authority.CheckTokenizedRecord(ctx.ProgramID, authorityInfo, recordInfo, record, authority.Burn, mintInfo, tokenInfo, delegateInfo)
	if nil != err {
		return err
	}

	mintSeeds, err := recordMintSeeds(ctx, recordInfo.Key, mintInfo)
	if nil != err {
		return err
	}

	token, err := decodeTokenInfo(tokenInfo)
	if nil != err {
		return err
	}
	holder := token.Owner

	if token.IsFrozen {
		thaw := token2022.NewThawAccountInstruction(tokenInfo.Key, mintInfo.Key, mintInfo.Key)
		if err := ctx.Invoke(thaw, [][][]byte{mintSeeds}); nil != err {
			return err
		}
	}

	burn := token2022.NewBurnCheckedInstruction(tokenInfo.Key, mintInfo.Key, mintInfo.Key, 1, 0)
	if err := ctx.Invoke(burn, [][][]byte{mintSeeds}); nil != err {
		return err
	}
	closeMint := token2022.NewCloseAccountInstruction(mintInfo.Key, payerInfo.Key, mintInfo.Key)
	if err := ctx.Invoke(closeMint, [][][]byte{mintSeeds}); nil != err {
		return err
	}

	if authority.CleanupCloseDelegate == decision.Cleanup {
		if err := closeDelegate(ctx, recordInfo, delegateInfo, payerInfo); nil != err {
			return err
		}
		record.HasAuthorityDelegate = false
	}

	record.IsFrozen = false
	record.Owner = state.WalletOwner(holder)
	return storeEncoded(recordInfo, record.Encode)
}

// accounts: authority(signer), mint, token_account, new_token_account,
// record, [delegate]
//
// the holder transfers directly; a transfer delegate moves the unit
// through the mint's permanent delegate power
func transferTokenizedRecord(ctx *host.Context, _ []byte) error {
	authorityInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	mintInfo, err := ctx.Account(1)
	if nil != err {
		return err
	}
	tokenInfo, err := ctx.Account(2)
	if nil != err {
		return err
	}
	newTokenInfo, err := ctx.Account(3)
	if nil != err {
		return err
	}
	record, recordInfo, err := loadRecord(ctx, 4)
	if nil != err {
		return err
	}
	delegateInfo := optionalAccount(ctx, 5)

	if _, err := authority.CheckTokenizedRecord(ctx.ProgramID, authorityInfo, recordInfo, record, authority.Transfer, mintInfo, tokenInfo, delegateInfo); nil != err {
		return err
	}

	token, err := decodeTokenInfo(tokenInfo)
	if nil != err {
		return err
	}

	if authorityInfo.Key == token.Owner {
		transfer := token2022.NewTransferCheckedInstruction(tokenInfo.Key, mintInfo.Key, newTokenInfo.Key, authorityInfo.Key, 1, 0)
		return ctx.Invoke(transfer, nil)
	}

	mintSeeds, err := recordMintSeeds(ctx, recordInfo.Key, mintInfo)
	if nil != err {
		return err
	}
	transfer := token2022.NewTransferCheckedInstruction(tokenInfo.Key, mintInfo.Key, newTokenInfo.Key, mintInfo.Key, 1, 0)
	return ctx.Invoke(transfer, [][][]byte{mintSeeds})
}

// accounts: authority(signer), mint, token_account, record, [delegate]
//
// freezes or thaws the token account through the mint's freeze
// authority; asking for the state it is already in is an error
func freezeTokenizedRecord(ctx *host.Context, data []byte) error {
	authorityInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	mintInfo, err := ctx.Account(1)
	if nil != err {
		return err
	}
	tokenInfo, err := ctx.Account(2)
	if nil != err {
		return err
	}
	record, recordInfo, err := loadRecord(ctx, 3)
	if nil != err {
		return err
	}
	delegateInfo := optionalAccount(ctx, 4)

	if _, err := authority.CheckTokenizedRecord(ctx.ProgramID, authorityInfo, recordInfo, record, authority.Freeze, mintInfo, tokenInfo, delegateInfo); nil != err {
		return err
	}

	isFrozen, err := codec.NewReader(data).ReadBool()
	if nil != err {
		return err
	}
	token, err := decodeTokenInfo(tokenInfo)
	if nil != err {
		return err
	}
	if token.IsFrozen == isFrozen {
		return fault.ErrInvalidAccountData
	}

	mintSeeds, err := recordMintSeeds(ctx, recordInfo.Key, mintInfo)
	if nil != err {
		return err
	}

	var instr host.Instruction
	if isFrozen {
		instr = token2022.NewFreezeAccountInstruction(tokenInfo.Key, mintInfo.Key, mintInfo.Key)
	} else {
		instr = token2022.NewThawAccountInstruction(tokenInfo.Key, mintInfo.Key, mintInfo.Key)
	}
	return ctx.Invoke(instr, [][][]byte{mintSeeds})
}

// accounts: authority(signer, funds growth), mint, token_account,
// record, [delegate]
//
// rewrites the record data and mirrors it into the mint's metadata uri
func updateTokenizedRecord(ctx *host.Context, data []byte) error {
	authorityInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	mintInfo, err := ctx.Account(1)
	if nil != err {
		return err
	}
	tokenInfo, err := ctx.Account(2)
	if nil != err {
		return err
	}
	record, recordInfo, err := loadRecord(ctx, 3)
	if nil != err {
		return err
	}
	delegateInfo := optionalAccount(ctx, 4)

	if _, err := authority.CheckTokenizedRecord(ctx.ProgramID, authorityInfo, recordInfo, record, authority.Update, mintInfo, tokenInfo, delegateInfo); nil != err {
		return err
	}

	content, err := codec.NewReader(data).ReadRemainderString()
	if nil != err {
		return err
	}

	mintSeeds, err := recordMintSeeds(ctx, recordInfo.Key, mintInfo)
	if nil != err {
		return err
	}

	// the metadata rewrite may grow the mint account, which the token
	// program only allows when the deposit is already in place
	oldURI, err := currentMetadataURI(mintInfo)
	if nil != err {
		return err
	}
	if growth := len(content) - len(oldURI); growth > 0 {
		required := rent.MinimumBalance(mintInfo.DataLen() + growth)
		if balance := mintInfo.Lamports(); required > balance {
			fund := host.NewTransferInstruction(authorityInfo.Key, mintInfo.Key, required-balance)
			if err := ctx.Invoke(fund, nil); nil != err {
				return err
			}
		}
	}

	updateURI := token2022.NewUpdateMetadataFieldInstruction(mintInfo.Key, mintInfo.Key, token2022.MetadataFieldURI, content)
	if err := ctx.Invoke(updateURI, [][][]byte{mintSeeds}); nil != err {
		return err
	}

	record.Data = content
	if err := host.ResizeAccount(ctx, recordInfo, authorityInfo, record.EncodedSize(), false); nil != err {
		return err
	}
	return storeEncoded(recordInfo, record.Encode)
}

func currentMetadataURI(mintInfo *host.AccountInfo) (string, error) {
	data, release, err := mintInfo.BorrowData()
	if nil != err {
		return "", err
	}
	defer release()

	payload, err := token2022.GetExtension(data, token2022.ExtensionTokenMetadata)
	if nil != err {
		return "", err
	}
	metadata, err := token2022.DecodeMetadata(payload)
	if nil != err {
		return "", err
	}
	return metadata.URI, nil
}
