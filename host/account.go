// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package host

import (
	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/fault"
)

// Account - one ledger entry
//
// borrow counters are transient execution state and are never persisted
type Account struct {
	Lamports   uint64
	Owner      solana.PublicKey
	Data       []byte
	Executable bool

	readers int
	writing bool
}

// Clone - deep copy with the borrow state reset
func (account *Account) Clone() *Account {
	data := make([]byte, len(account.Data))
	copy(data, account.Data)
	return &Account{
		Lamports:   account.Lamports,
		Owner:      account.Owner,
		Data:       data,
		Executable: account.Executable,
	}
}

// IsInUse - an account exists on the ledger when it holds lamports,
// carries data or has been assigned away from the system program
func (account *Account) IsInUse() bool {
	return account.Lamports > 0 ||
		len(account.Data) > 0 ||
		account.Owner != solana.SystemProgramID
}

// AccountInfo - one account as seen by an executing program
//
// the signer and writable flags come from the instruction, the
// underlying account is shared with every other view of the same key
// inside one transaction
type AccountInfo struct {
	Key        solana.PublicKey
	IsSigner   bool
	IsWritable bool

	account *Account
}

// NewAccountInfo - wrap an account in an instruction level view
func NewAccountInfo(key solana.PublicKey, isSigner bool, isWritable bool, account *Account) *AccountInfo {
	return &AccountInfo{
		Key:        key,
		IsSigner:   isSigner,
		IsWritable: isWritable,
		account:    account,
	}
}

// Lamports - current balance
func (info *AccountInfo) Lamports() uint64 {
	return info.account.Lamports
}

// SetLamports - set the balance, the account must be writable
func (info *AccountInfo) SetLamports(lamports uint64) error {
	if !info.IsWritable {
		return fault.ErrAccountNotWritable
	}
	info.account.Lamports = lamports
	return nil
}

// Owner - program that owns the account
func (info *AccountInfo) Owner() solana.PublicKey {
	return info.account.Owner
}

// SetOwner - assign the account to another program
func (info *AccountInfo) SetOwner(owner solana.PublicKey) error {
	if !info.IsWritable {
		return fault.ErrAccountNotWritable
	}
	info.account.Owner = owner
	return nil
}

// Executable - true for registered program accounts
func (info *AccountInfo) Executable() bool {
	return info.account.Executable
}

// DataLen - current data size without borrowing the data
func (info *AccountInfo) DataLen() int {
	return len(info.account.Data)
}

// BorrowData - shared read access to the account data
//
// the release function must be called before any other borrow of the
// same account is taken out
func (info *AccountInfo) BorrowData() ([]byte, func(), error) {
	a := info.account
	if a.writing {
		return nil, nil, fault.ErrAccountBorrowed
	}
	a.readers += 1
	released := false
	release := func() {
		if !released {
			released = true
			a.readers -= 1
		}
	}
	return a.Data, release, nil
}

// BorrowMutData - exclusive write access to the account data
func (info *AccountInfo) BorrowMutData() ([]byte, func(), error) {
	if !info.IsWritable {
		return nil, nil, fault.ErrAccountNotWritable
	}
	a := info.account
	if a.writing || a.readers > 0 {
		return nil, nil, fault.ErrAccountBorrowed
	}
	a.writing = true
	released := false
	release := func() {
		if !released {
			released = true
			a.writing = false
		}
	}
	return a.Data, release, nil
}

// Resize - reallocate the account data buffer
//
// growth is zero filled; on shrink the cut-off tail is only discarded,
// unless zeroOnShrink asks for the retained buffer to be wiped first
func (info *AccountInfo) Resize(newSize int, zeroOnShrink bool) error {
	if !info.IsWritable {
		return fault.ErrAccountNotWritable
	}
	a := info.account
	if a.writing || a.readers > 0 {
		return fault.ErrAccountBorrowed
	}
	if newSize < 0 {
		return fault.ErrOutOfBounds
	}
	if newSize == len(a.Data) {
		return nil
	}
	data := make([]byte, newSize)
	if newSize > len(a.Data) || !zeroOnShrink {
		copy(data, a.Data)
	}
	a.Data = data
	return nil
}
