// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"github.com/gagliardetto/solana-go"
)

// program-derived address seed tags
const (
	classSeed      = "class"
	credentialSeed = "credential"
	recordSeed     = "record"
	delegateSeed   = "authority"
	mintSeed       = "mint"
	groupMintSeed  = "group"
)

// ClassAddress - PDA("class", authority, name)
func ClassAddress(programID solana.PublicKey, authority solana.PublicKey, name string) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(classSeed), authority[:], []byte(name)}, programID)
}

// CredentialAddress - PDA("credential", authority, name)
func CredentialAddress(programID solana.PublicKey, authority solana.PublicKey, name string) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(credentialSeed), authority[:], []byte(name)}, programID)
}

// RecordAddress - PDA("record", class, name)
func RecordAddress(programID solana.PublicKey, class solana.PublicKey, name string) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(recordSeed), class[:], []byte(name)}, programID)
}

// DelegateAddress - PDA("authority", record)
func DelegateAddress(programID solana.PublicKey, record solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(delegateSeed), record[:]}, programID)
}

// MintAddress - PDA("mint", record)
func MintAddress(programID solana.PublicKey, record solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(mintSeed), record[:]}, programID)
}

// GroupMintAddress - PDA("group", class)
func GroupMintAddress(programID solana.PublicKey, class solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(groupMintSeed), class[:]}, programID)
}

// ClassSeeds - signing seeds for the class PDA including the bump
func ClassSeeds(authority solana.PublicKey, name string, bump uint8) [][]byte {
	return [][]byte{[]byte(classSeed), authority[:], []byte(name), {bump}}
}

// CredentialSeeds - signing seeds for the credential PDA including the bump
func CredentialSeeds(authority solana.PublicKey, name string, bump uint8) [][]byte {
	return [][]byte{[]byte(credentialSeed), authority[:], []byte(name), {bump}}
}

// RecordSeeds - signing seeds for the record PDA including the bump
func RecordSeeds(class solana.PublicKey, name string, bump uint8) [][]byte {
	return [][]byte{[]byte(recordSeed), class[:], []byte(name), {bump}}
}

// DelegateSeeds - signing seeds for the delegate PDA including the bump
func DelegateSeeds(record solana.PublicKey, bump uint8) [][]byte {
	return [][]byte{[]byte(delegateSeed), record[:], {bump}}
}

// MintSeeds - signing seeds for the mint PDA including the bump
func MintSeeds(record solana.PublicKey, bump uint8) [][]byte {
	return [][]byte{[]byte(mintSeed), record[:], {bump}}
}

// GroupMintSeeds - signing seeds for the group mint PDA including the bump
func GroupMintSeeds(class solana.PublicKey, bump uint8) [][]byte {
	return [][]byte{[]byte(groupMintSeed), class[:], {bump}}
}
