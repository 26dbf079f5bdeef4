// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package host

import (
	"github.com/gagliardetto/solana-go"
)

// Ledger - persistent account store
//
// the runtime only reads and writes whole accounts; iteration order is
// by ascending key bytes
type Ledger interface {

	// fetch one account, fault.ErrAccountNotFound when absent
	Get(key solana.PublicKey) (*Account, error)

	// store one account, overwriting any previous value
	Put(key solana.PublicKey, account *Account) error

	// remove one account, absent keys are not an error
	Delete(key solana.PublicKey) error

	// walk all accounts until the callback returns false
	Range(fn func(key solana.PublicKey, account *Account) bool) error
}
