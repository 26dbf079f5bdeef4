// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state

import (
	"github.com/gagliardetto/solana-go"
)

// OwnerKind - how a record's owner field is to be read
type OwnerKind byte

const (
	// the owner field is a wallet public key
	OwnerWallet OwnerKind = iota

	// the owner field is a token mint address; whoever holds the
	// single token of that mint owns the record
	OwnerToken
)

// Owner - record ownership as an explicit sum type
//
// every call site has to branch on the kind, the raw key alone is
// never enough to authorise anything
type Owner struct {
	Kind OwnerKind
	Key  solana.PublicKey
}

// WalletOwner - native representation
func WalletOwner(key solana.PublicKey) Owner {
	return Owner{Kind: OwnerWallet, Key: key}
}

// TokenOwner - tokenized representation
func TokenOwner(mint solana.PublicKey) Owner {
	return Owner{Kind: OwnerToken, Key: mint}
}
