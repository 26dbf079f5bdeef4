// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package token2022

import (
	"bytes"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/host"
	"github.com/openregistry/registryd/rent"
)

// Register - add the token-extension program and the associated token
// account program to a runtime
func Register(runtime *host.Runtime) {
	runtime.Register(ProgramID, processTokenInstruction)
	runtime.Register(AssociatedTokenProgramID, processAssociatedTokenInstruction)
}

func processTokenInstruction(ctx *host.Context) error {
	data := ctx.Data
	if 0 == len(data) {
		return fault.ErrInvalidInstructionData
	}

	if len(data) >= 8 {
		var discriminator [8]byte
		copy(discriminator[:], data)
		switch discriminator {
		case initializeGroupDiscriminator:
			return initializeGroup(ctx, data[8:])
		case initializeMemberDiscriminator:
			return initializeMember(ctx)
		case initializeMetadataDiscriminator:
			return initializeMetadata(ctx, data[8:])
		case updateMetadataFieldDiscriminator:
			return updateMetadataField(ctx, data[8:])
		}
	}

	switch data[0] {
	case instructionInitializeMint2:
		return initializeMint2(ctx, data[1:])
	case instructionInitializeMintCloseAuthority:
		return initializeMintCloseAuthority(ctx, data[1:])
	case instructionInitializePermanentDelegate:
		return initializePermanentDelegate(ctx, data[1:])
	case instructionMetadataPointerExtension:
		return initializePointer(ctx, data[1:], ExtensionMetadataPointer)
	case instructionGroupPointerExtension:
		return initializePointer(ctx, data[1:], ExtensionGroupPointer)
	case instructionGroupMemberPointerExtension:
		return initializePointer(ctx, data[1:], ExtensionGroupMemberPointer)
	case instructionInitializeAccount3:
		return initializeAccount3(ctx, data[1:])
	case instructionMintToChecked:
		return mintToChecked(ctx, data[1:])
	case instructionBurnChecked:
		return burnChecked(ctx, data[1:])
	case instructionTransferChecked:
		return transferChecked(ctx, data[1:])
	case instructionFreezeAccount:
		return freezeOrThaw(ctx, true)
	case instructionThawAccount:
		return freezeOrThaw(ctx, false)
	case instructionCloseAccount:
		return closeAccount(ctx)
	default:
		return fault.ErrInvalidInstructionData
	}
}

func programAccount(ctx *host.Context, i int) (*host.AccountInfo, error) {
	info, err := ctx.Account(i)
	if nil != err {
		return nil, err
	}
	if ProgramID != info.Owner() {
		return nil, fault.ErrIncorrectOwner
	}
	return info, nil
}

// run fn over a mutable borrow of one account's data
func withMutData(info *host.AccountInfo, fn func(data []byte) error) error {
	data, release, err := info.BorrowMutData()
	if nil != err {
		return err
	}
	defer release()
	return fn(data)
}

func initializeMint2(ctx *host.Context, args []byte) error {
	if len(args) < 1+32+1 {
		return fault.ErrInvalidInstructionData
	}
	decimals := args[0]
	var mintAuthority, freezeAuthority solana.PublicKey
	copy(mintAuthority[:], args[1:])
	if 1 == args[33] {
		if len(args) < 1+32+1+32 {
			return fault.ErrInvalidInstructionData
		}
		copy(freezeAuthority[:], args[34:])
	} else if 0 != args[33] {
		return fault.ErrInvalidInstructionData
	}

	mintInfo, err := programAccount(ctx, 0)
	if nil != err {
		return err
	}
	return withMutData(mintInfo, func(data []byte) error {
		if len(data) < BaseMintSize {
			return fault.ErrInvalidAccountData
		}
		if 0 != data[mintInitialisedOffset] {
			return fault.ErrAlreadyInitialised
		}
		writeBaseMint(data, &Mint{
			MintAuthority:   mintAuthority,
			Decimals:        decimals,
			IsInitialised:   true,
			FreezeAuthority: freezeAuthority,
		})
		if len(data) >= extendedMintMinimumSize {
			data[accountTypeOffset] = accountTypeMint
		}
		return nil
	})
}

// add one extension entry to a mint that has not been base-initialised
// yet; extension space is laid out strictly before the mint goes live
func appendPreInitExtension(ctx *host.Context, extensionType ExtensionType, value []byte) error {
	mintInfo, err := programAccount(ctx, 0)
	if nil != err {
		return err
	}
	return withMutData(mintInfo, func(data []byte) error {
		if len(data) < extendedMintMinimumSize {
			return fault.ErrInvalidAccountData
		}
		if 0 != data[mintInitialisedOffset] {
			return fault.ErrAlreadyInitialised
		}
		entries, err := parseExtensions(data)
		if nil != err {
			return err
		}
		if nil != findExtension(entries, extensionType) {
			return fault.ErrAlreadyInitialised
		}
		entries = append(entries, extensionEntry{Type: extensionType, Value: value})
		return writeExtensions(data, entries)
	})
}

func initializeMintCloseAuthority(ctx *host.Context, args []byte) error {
	if len(args) < 1 {
		return fault.ErrInvalidInstructionData
	}
	value := make([]byte, mintCloseAuthoritySize)
	if 1 == args[0] {
		if len(args) < 1+32 {
			return fault.ErrInvalidInstructionData
		}
		copy(value, args[1:])
	}
	return appendPreInitExtension(ctx, ExtensionMintCloseAuthority, value)
}

func initializePermanentDelegate(ctx *host.Context, args []byte) error {
	if len(args) < 32 {
		return fault.ErrInvalidInstructionData
	}
	value := make([]byte, permanentDelegateSize)
	copy(value, args)
	return appendPreInitExtension(ctx, ExtensionPermanentDelegate, value)
}

func initializePointer(ctx *host.Context, args []byte, extensionType ExtensionType) error {
	if len(args) < 1+64 {
		return fault.ErrInvalidInstructionData
	}
	if pointerSubInitialize != args[0] {
		return fault.ErrInvalidInstructionData
	}
	value := make([]byte, pointerSize)
	copy(value, args[1:])
	return appendPreInitExtension(ctx, extensionType, value)
}

// fetch the base mint plus extension entries of one live mint account
func liveMint(info *host.AccountInfo) (*Mint, []extensionEntry, error) {
	data, release, err := info.BorrowData()
	if nil != err {
		return nil, nil, err
	}
	defer release()

	mint, err := DecodeMint(data)
	if nil != err {
		return nil, nil, err
	}
	if !mint.IsInitialised {
		return nil, nil, fault.ErrNotInitialised
	}
	entries, err := parseExtensions(data)
	if nil != err {
		return nil, nil, err
	}
	return mint, entries, nil
}

func requireSignerKey(info *host.AccountInfo, expected solana.PublicKey) error {
	if !info.IsSigner || expected != info.Key || expected.IsZero() {
		return fault.ErrMissingSignature
	}
	return nil
}

func initializeGroup(ctx *host.Context, args []byte) error {
	if len(args) < 32+8 {
		return fault.ErrInvalidInstructionData
	}
	var updateAuthority solana.PublicKey
	copy(updateAuthority[:], args)
	maxSize := binary.LittleEndian.Uint64(args[32:])

	groupInfo, err := programAccount(ctx, 0)
	if nil != err {
		return err
	}
	mintInfo, err := programAccount(ctx, 1)
	if nil != err {
		return err
	}
	authorityInfo, err := ctx.Account(2)
	if nil != err {
		return err
	}

	// the group lives in the mint's own extension space
	if groupInfo.Key != mintInfo.Key {
		return fault.ErrInvalidAccountData
	}

	mint, entries, err := liveMint(mintInfo)
	if nil != err {
		return err
	}
	if err := requireSignerKey(authorityInfo, mint.MintAuthority); nil != err {
		return err
	}

	pointer := findExtension(entries, ExtensionGroupPointer)
	if nil == pointer || !bytes.Equal(pointer[32:], groupInfo.Key[:]) {
		return fault.ErrInvalidAccountData
	}
	if nil != findExtension(entries, ExtensionTokenGroup) {
		return fault.ErrAlreadyInitialised
	}

	value := make([]byte, tokenGroupSize)
	copy(value, updateAuthority[:])
	copy(value[32:], mintInfo.Key[:])
	binary.LittleEndian.PutUint64(value[64:], 0) // current size
	binary.LittleEndian.PutUint64(value[72:], maxSize)
	entries = append(entries, extensionEntry{Type: ExtensionTokenGroup, Value: value})

	return withMutData(groupInfo, func(data []byte) error {
		return writeExtensions(data, entries)
	})
}

func initializeMember(ctx *host.Context) error {
	memberInfo, err := programAccount(ctx, 0)
	if nil != err {
		return err
	}
	memberMintInfo, err := programAccount(ctx, 1)
	if nil != err {
		return err
	}
	memberAuthorityInfo, err := ctx.Account(2)
	if nil != err {
		return err
	}
	groupInfo, err := programAccount(ctx, 3)
	if nil != err {
		return err
	}
	groupAuthorityInfo, err := ctx.Account(4)
	if nil != err {
		return err
	}
	if memberInfo.Key != memberMintInfo.Key {
		return fault.ErrInvalidAccountData
	}

	memberMint, memberEntries, err := liveMint(memberMintInfo)
	if nil != err {
		return err
	}
	if err := requireSignerKey(memberAuthorityInfo, memberMint.MintAuthority); nil != err {
		return err
	}
	pointer := findExtension(memberEntries, ExtensionGroupMemberPointer)
	if nil == pointer || !bytes.Equal(pointer[32:], memberInfo.Key[:]) {
		return fault.ErrInvalidAccountData
	}
	if nil != findExtension(memberEntries, ExtensionTokenGroupMember) {
		return fault.ErrAlreadyInitialised
	}

	_, groupEntries, err := liveMint(groupInfo)
	if nil != err {
		return err
	}
	group := findExtension(groupEntries, ExtensionTokenGroup)
	if nil == group {
		return fault.ErrInvalidAccountData
	}
	var groupUpdateAuthority solana.PublicKey
	copy(groupUpdateAuthority[:], group)
	if err := requireSignerKey(groupAuthorityInfo, groupUpdateAuthority); nil != err {
		return err
	}

	size := binary.LittleEndian.Uint64(group[64:])
	maxSize := binary.LittleEndian.Uint64(group[72:])
	if size >= maxSize {
		return fault.ErrInvalidAccountData
	}
	size += 1
	binary.LittleEndian.PutUint64(group[64:], size)

	if err := withMutData(groupInfo, func(data []byte) error {
		return writeExtensions(data, groupEntries)
	}); nil != err {
		return err
	}

	value := make([]byte, tokenGroupMemberSize)
	copy(value, memberMintInfo.Key[:])
	copy(value[32:], groupInfo.Key[:])
	binary.LittleEndian.PutUint64(value[64:], size)
	memberEntries = append(memberEntries, extensionEntry{Type: ExtensionTokenGroupMember, Value: value})

	return withMutData(memberInfo, func(data []byte) error {
		return writeExtensions(data, memberEntries)
	})
}

func initializeMetadata(ctx *host.Context, args []byte) error {
	name, offset, err := readString(args, 0)
	if nil != err {
		return fault.ErrInvalidInstructionData
	}
	symbol, offset, err := readString(args, offset)
	if nil != err {
		return fault.ErrInvalidInstructionData
	}
	uri, _, err := readString(args, offset)
	if nil != err {
		return fault.ErrInvalidInstructionData
	}

	metadataInfo, err := programAccount(ctx, 0)
	if nil != err {
		return err
	}
	updateAuthorityInfo, err := ctx.Account(1)
	if nil != err {
		return err
	}
	mintInfo, err := programAccount(ctx, 2)
	if nil != err {
		return err
	}
	authorityInfo, err := ctx.Account(3)
	if nil != err {
		return err
	}
	if metadataInfo.Key != mintInfo.Key {
		return fault.ErrInvalidAccountData
	}

	mint, entries, err := liveMint(mintInfo)
	if nil != err {
		return err
	}
	if err := requireSignerKey(authorityInfo, mint.MintAuthority); nil != err {
		return err
	}
	pointer := findExtension(entries, ExtensionMetadataPointer)
	if nil == pointer || !bytes.Equal(pointer[32:], metadataInfo.Key[:]) {
		return fault.ErrInvalidAccountData
	}
	if nil != findExtension(entries, ExtensionTokenMetadata) {
		return fault.ErrAlreadyInitialised
	}

	entries = append(entries, extensionEntry{
		Type: ExtensionTokenMetadata,
		Value: EncodeMetadata(&Metadata{
			UpdateAuthority: updateAuthorityInfo.Key,
			Mint:            mintInfo.Key,
			Name:            name,
			Symbol:          symbol,
			URI:             uri,
		}),
	})

	return withMutData(metadataInfo, func(data []byte) error {
		return writeExtensions(data, entries)
	})
}

func updateMetadataField(ctx *host.Context, args []byte) error {
	if len(args) < 1 {
		return fault.ErrInvalidInstructionData
	}
	field := MetadataField(args[0])
	value, _, err := readString(args, 1)
	if nil != err {
		return fault.ErrInvalidInstructionData
	}

	metadataInfo, err := programAccount(ctx, 0)
	if nil != err {
		return err
	}
	authorityInfo, err := ctx.Account(1)
	if nil != err {
		return err
	}

	_, entries, err := liveMint(metadataInfo)
	if nil != err {
		return err
	}
	payload := findExtension(entries, ExtensionTokenMetadata)
	if nil == payload {
		return fault.ErrAccountNotFound
	}
	metadata, err := DecodeMetadata(payload)
	if nil != err {
		return err
	}
	if err := requireSignerKey(authorityInfo, metadata.UpdateAuthority); nil != err {
		return err
	}

	switch field {
	case MetadataFieldName:
		metadata.Name = value
	case MetadataFieldSymbol:
		metadata.Symbol = value
	case MetadataFieldURI:
		metadata.URI = value
	default:
		return fault.ErrInvalidInstructionData
	}

	for i := range entries {
		if ExtensionTokenMetadata == entries[i].Type {
			entries[i].Value = EncodeMetadata(metadata)
		}
	}

	// growth must already be funded; the account never shrinks back
	newSize := extendedMintMinimumSize + extensionsSize(entries)
	if newSize > metadataInfo.DataLen() {
		if metadataInfo.Lamports() < rent.MinimumBalance(newSize) {
			return fault.ErrInsufficientLamports
		}
		if err := metadataInfo.Resize(newSize, false); nil != err {
			return err
		}
	}

	return withMutData(metadataInfo, func(data []byte) error {
		return writeExtensions(data, entries)
	})
}

func initializeAccount3(ctx *host.Context, args []byte) error {
	if len(args) < 32 {
		return fault.ErrInvalidInstructionData
	}
	var owner solana.PublicKey
	copy(owner[:], args)

	accountInfo, err := programAccount(ctx, 0)
	if nil != err {
		return err
	}
	mintInfo, err := programAccount(ctx, 1)
	if nil != err {
		return err
	}
	if _, _, err := liveMint(mintInfo); nil != err {
		return err
	}

	return withMutData(accountInfo, func(data []byte) error {
		if TokenAccountSize != len(data) {
			return fault.ErrInvalidAccountData
		}
		if accountStateUninitialised != data[tokenStateOffset] {
			return fault.ErrAlreadyInitialised
		}
		copy(data[tokenMintOffset:], mintInfo.Key[:])
		copy(data[tokenOwnerOffset:], owner[:])
		binary.LittleEndian.PutUint64(data[tokenAmountOffset:], 0)
		data[tokenStateOffset] = accountStateInitialised
		return nil
	})
}

func checkedAmountArgs(args []byte) (uint64, byte, error) {
	if len(args) < 8+1 {
		return 0, 0, fault.ErrInvalidInstructionData
	}
	return binary.LittleEndian.Uint64(args), args[8], nil
}

func mintToChecked(ctx *host.Context, args []byte) error {
	amount, decimals, err := checkedAmountArgs(args)
	if nil != err {
		return err
	}

	mintInfo, err := programAccount(ctx, 0)
	if nil != err {
		return err
	}
	destinationInfo, err := programAccount(ctx, 1)
	if nil != err {
		return err
	}
	authorityInfo, err := ctx.Account(2)
	if nil != err {
		return err
	}

	mint, _, err := liveMint(mintInfo)
	if nil != err {
		return err
	}
	if decimals != mint.Decimals {
		return fault.ErrInvalidInstructionData
	}
	if err := requireSignerKey(authorityInfo, mint.MintAuthority); nil != err {
		return err
	}
	if mint.Supply+amount < mint.Supply {
		return fault.ErrArithmeticOverflow
	}

	err = withMutData(destinationInfo, func(data []byte) error {
		account, err := DecodeTokenAccount(data)
		if nil != err {
			return err
		}
		if mintInfo.Key != account.Mint {
			return fault.ErrInvalidAccountData
		}
		if account.IsFrozen {
			return fault.ErrInvalidAccountData
		}
		if account.Amount+amount < account.Amount {
			return fault.ErrArithmeticOverflow
		}
		binary.LittleEndian.PutUint64(data[tokenAmountOffset:], account.Amount+amount)
		return nil
	})
	if nil != err {
		return err
	}

	return withMutData(mintInfo, func(data []byte) error {
		binary.LittleEndian.PutUint64(data[mintSupplyOffset:], mint.Supply+amount)
		return nil
	})
}

// the signer entitled to move or burn: the holder, or the mint's
// permanent delegate
func checkSpendAuthority(authorityInfo *host.AccountInfo, holder solana.PublicKey, entries []extensionEntry) error {
	if nil == requireSignerKey(authorityInfo, holder) {
		return nil
	}
	delegate := findExtension(entries, ExtensionPermanentDelegate)
	if nil != delegate {
		var key solana.PublicKey
		copy(key[:], delegate)
		if nil == requireSignerKey(authorityInfo, key) {
			return nil
		}
	}
	return fault.ErrMissingSignature
}

func burnChecked(ctx *host.Context, args []byte) error {
	amount, decimals, err := checkedAmountArgs(args)
	if nil != err {
		return err
	}

	sourceInfo, err := programAccount(ctx, 0)
	if nil != err {
		return err
	}
	mintInfo, err := programAccount(ctx, 1)
	if nil != err {
		return err
	}
	authorityInfo, err := ctx.Account(2)
	if nil != err {
		return err
	}

	mint, entries, err := liveMint(mintInfo)
	if nil != err {
		return err
	}
	if decimals != mint.Decimals {
		return fault.ErrInvalidInstructionData
	}
	if mint.Supply < amount {
		return fault.ErrInsufficientLamports
	}

	err = withMutData(sourceInfo, func(data []byte) error {
		account, err := DecodeTokenAccount(data)
		if nil != err {
			return err
		}
		if mintInfo.Key != account.Mint {
			return fault.ErrInvalidAccountData
		}
		if account.IsFrozen {
			return fault.ErrInvalidAccountData
		}
		if err := checkSpendAuthority(authorityInfo, account.Owner, entries); nil != err {
			return err
		}
		if account.Amount < amount {
			return fault.ErrInsufficientLamports
		}
		binary.LittleEndian.PutUint64(data[tokenAmountOffset:], account.Amount-amount)
		return nil
	})
	if nil != err {
		return err
	}

	return withMutData(mintInfo, func(data []byte) error {
		binary.LittleEndian.PutUint64(data[mintSupplyOffset:], mint.Supply-amount)
		return nil
	})
}

func transferChecked(ctx *host.Context, args []byte) error {
	amount, decimals, err := checkedAmountArgs(args)
	if nil != err {
		return err
	}

	sourceInfo, err := programAccount(ctx, 0)
	if nil != err {
		return err
	}
	mintInfo, err := programAccount(ctx, 1)
	if nil != err {
		return err
	}
	destinationInfo, err := programAccount(ctx, 2)
	if nil != err {
		return err
	}
	authorityInfo, err := ctx.Account(3)
	if nil != err {
		return err
	}

	mint, entries, err := liveMint(mintInfo)
	if nil != err {
		return err
	}
	if decimals != mint.Decimals {
		return fault.ErrInvalidInstructionData
	}

	err = withMutData(sourceInfo, func(data []byte) error {
		account, err := DecodeTokenAccount(data)
		if nil != err {
			return err
		}
		if mintInfo.Key != account.Mint {
			return fault.ErrInvalidAccountData
		}
		if account.IsFrozen {
			return fault.ErrInvalidAccountData
		}
		if err := checkSpendAuthority(authorityInfo, account.Owner, entries); nil != err {
			return err
		}
		if account.Amount < amount {
			return fault.ErrInsufficientLamports
		}
		binary.LittleEndian.PutUint64(data[tokenAmountOffset:], account.Amount-amount)
		return nil
	})
	if nil != err {
		return err
	}

	return withMutData(destinationInfo, func(data []byte) error {
		account, err := DecodeTokenAccount(data)
		if nil != err {
			return err
		}
		if mintInfo.Key != account.Mint {
			return fault.ErrInvalidAccountData
		}
		if account.IsFrozen {
			return fault.ErrInvalidAccountData
		}
		if account.Amount+amount < account.Amount {
			return fault.ErrArithmeticOverflow
		}
		binary.LittleEndian.PutUint64(data[tokenAmountOffset:], account.Amount+amount)
		return nil
	})
}

func freezeOrThaw(ctx *host.Context, freeze bool) error {
	accountInfo, err := programAccount(ctx, 0)
	if nil != err {
		return err
	}
	mintInfo, err := programAccount(ctx, 1)
	if nil != err {
		return err
	}
	authorityInfo, err := ctx.Account(2)
	if nil != err {
		return err
	}

	mint, _, err := liveMint(mintInfo)
	if nil != err {
		return err
	}
	if err := requireSignerKey(authorityInfo, mint.FreezeAuthority); nil != err {
		return err
	}

	return withMutData(accountInfo, func(data []byte) error {
		account, err := DecodeTokenAccount(data)
		if nil != err {
			return err
		}
		if mintInfo.Key != account.Mint {
			return fault.ErrInvalidAccountData
		}
		// setting the state it is already in is an error
		if freeze == account.IsFrozen {
			return fault.ErrInvalidAccountData
		}
		if freeze {
			data[tokenStateOffset] = accountStateFrozen
		} else {
			data[tokenStateOffset] = accountStateInitialised
		}
		return nil
	})
}

func closeAccount(ctx *host.Context) error {
	accountInfo, err := programAccount(ctx, 0)
	if nil != err {
		return err
	}
	destinationInfo, err := ctx.Account(1)
	if nil != err {
		return err
	}
	authorityInfo, err := ctx.Account(2)
	if nil != err {
		return err
	}

	data, release, err := accountInfo.BorrowData()
	if nil != err {
		return err
	}

	switch {
	case IsTokenAccount(data):
		account, err := DecodeTokenAccount(data)
		if nil != err {
			release()
			return err
		}
		if 0 != account.Amount {
			release()
			return fault.ErrInvalidAccountData
		}
		if err := requireSignerKey(authorityInfo, account.Owner); nil != err {
			release()
			return err
		}

	case IsMintAccount(data):
		mint, err := DecodeMint(data)
		if nil != err {
			release()
			return err
		}
		if 0 != mint.Supply {
			release()
			return fault.ErrInvalidAccountData
		}
		entries, err := parseExtensions(data)
		if nil != err {
			release()
			return err
		}
		closeAuthority := findExtension(entries, ExtensionMintCloseAuthority)
		if nil == closeAuthority {
			release()
			return fault.ErrMissingSignature
		}
		var key solana.PublicKey
		copy(key[:], closeAuthority)
		if err := requireSignerKey(authorityInfo, key); nil != err {
			release()
			return err
		}

	default:
		release()
		return fault.ErrInvalidAccountData
	}
	release()

	lamports := accountInfo.Lamports()
	if err := accountInfo.Resize(0, true); nil != err {
		return err
	}
	if err := accountInfo.SetLamports(0); nil != err {
		return err
	}
	return destinationInfo.SetLamports(destinationInfo.Lamports() + lamports)
}

// the associated token account program: derive, fund and initialise
// the canonical holding account
func processAssociatedTokenInstruction(ctx *host.Context) error {
	payerInfo, err := ctx.Account(0)
	if nil != err {
		return err
	}
	associatedInfo, err := ctx.Account(1)
	if nil != err {
		return err
	}
	walletInfo, err := ctx.Account(2)
	if nil != err {
		return err
	}
	mintInfo, err := ctx.Account(3)
	if nil != err {
		return err
	}
	if !payerInfo.IsSigner {
		return fault.ErrMissingSignature
	}

	expected, bump, err := AssociatedTokenAddress(walletInfo.Key, mintInfo.Key)
	if nil != err {
		return fault.ErrInvalidSeeds
	}
	if expected != associatedInfo.Key {
		return fault.ErrInvalidSeeds
	}

	seeds := [][]byte{walletInfo.Key[:], ProgramID[:], mintInfo.Key[:], {bump}}

	create := host.NewCreateAccountInstruction(
		payerInfo.Key,
		associatedInfo.Key,
		rent.MinimumBalance(TokenAccountSize),
		TokenAccountSize,
		ProgramID,
	)
	if err := ctx.Invoke(create, [][][]byte{seeds}); nil != err {
		return err
	}

	initialize := NewInitializeAccount3Instruction(associatedInfo.Key, mintInfo.Key, walletInfo.Key)
	return ctx.Invoke(initialize, nil)
}
