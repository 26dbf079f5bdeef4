// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"bytes"
	"sort"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/host"
)

// MemoryLedger - map backed ledger with the same contract as the
// persistent one
type MemoryLedger struct {
	sync.RWMutex
	accounts map[solana.PublicKey]*host.Account
}

// NewMemoryLedger - create an empty ledger
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		accounts: make(map[solana.PublicKey]*host.Account),
	}
}

// Get - fetch one account
func (l *MemoryLedger) Get(key solana.PublicKey) (*host.Account, error) {
	l.RLock()
	defer l.RUnlock()

	account, ok := l.accounts[key]
	if !ok {
		return nil, fault.ErrAccountNotFound
	}
	return account.Clone(), nil
}

// Put - store one account
func (l *MemoryLedger) Put(key solana.PublicKey, account *host.Account) error {
	l.Lock()
	l.accounts[key] = account.Clone()
	l.Unlock()
	return nil
}

// Delete - remove one account
func (l *MemoryLedger) Delete(key solana.PublicKey) error {
	l.Lock()
	delete(l.accounts, key)
	l.Unlock()
	return nil
}

// Range - walk all accounts in ascending key order
func (l *MemoryLedger) Range(fn func(key solana.PublicKey, account *host.Account) bool) error {
	l.RLock()
	keys := make([]solana.PublicKey, 0, len(l.accounts))
	for key := range l.accounts {
		keys = append(keys, key)
	}
	l.RUnlock()

	sort.Slice(keys, func(i int, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})

	for _, key := range keys {
		l.RLock()
		account, ok := l.accounts[key]
		if ok {
			account = account.Clone()
		}
		l.RUnlock()
		if !ok {
			continue
		}
		if !fn(key, account) {
			return nil
		}
	}
	return nil
}
