// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/gagliardetto/solana-go"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/openregistry/registryd/codec"
	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/host"
)

// serialised account header: lamports + owner + executable flag
const accountHeaderSize = 8 + 32 + 1

func packAccount(account *host.Account) []byte {
	buffer := make([]byte, accountHeaderSize+len(account.Data))
	w := codec.NewWriter(buffer)
	_ = w.WriteUint64(account.Lamports)
	_ = w.WritePublicKey(account.Owner)
	_ = w.WriteBool(account.Executable)
	_ = w.WriteBytes(account.Data)
	return buffer
}

func unpackAccount(buffer []byte) (*host.Account, error) {
	r, err := codec.NewReaderWithMinimumSize(buffer, accountHeaderSize)
	if nil != err {
		return nil, err
	}
	lamports, err := r.ReadUint64()
	if nil != err {
		return nil, err
	}
	owner, err := r.ReadPublicKey()
	if nil != err {
		return nil, err
	}
	executable, err := r.ReadBool()
	if nil != err {
		return nil, err
	}
	data, err := r.ReadBytes(r.RemainingBytes())
	if nil != err {
		return nil, err
	}
	return &host.Account{
		Lamports:   lamports,
		Owner:      owner,
		Data:       data,
		Executable: executable,
	}, nil
}

// accountLedger - LevelDB backed ledger
type accountLedger struct {
	database *leveldb.DB
}

// Get - fetch one account
func (l *accountLedger) Get(key solana.PublicKey) (*host.Account, error) {
	value, err := l.database.Get(key[:], nil)
	if leveldb.ErrNotFound == err {
		return nil, fault.ErrAccountNotFound
	} else if nil != err {
		return nil, err
	}
	return unpackAccount(value)
}

// Put - store one account
func (l *accountLedger) Put(key solana.PublicKey, account *host.Account) error {
	return l.database.Put(key[:], packAccount(account), nil)
}

// Delete - remove one account
func (l *accountLedger) Delete(key solana.PublicKey) error {
	return l.database.Delete(key[:], nil)
}

// Range - walk all accounts in ascending key order
func (l *accountLedger) Range(fn func(key solana.PublicKey, account *host.Account) bool) error {
	iterator := l.database.NewIterator(nil, nil)
	defer iterator.Release()

	for iterator.Next() {
		// bookkeeping entries such as the version tag are not accounts
		if solana.PublicKeyLength != len(iterator.Key()) {
			continue
		}
		key := solana.PublicKeyFromBytes(iterator.Key())
		account, err := unpackAccount(iterator.Value())
		if nil != err {
			return err
		}
		if !fn(key, account) {
			break
		}
	}
	return iterator.Error()
}
