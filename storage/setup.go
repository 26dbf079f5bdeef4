// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/logger"

	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/host"
)

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentAccountDBVersion = 0x100

// holds the database handle
var globalData struct {
	sync.RWMutex
	database *leveldb.DB
	ledger   *accountLedger
	log      *logger.L
}

// Initialise - open up the database connection
//
// this must be called before the ledger is accessed
func Initialise(database string) error {
	globalData.Lock()
	defer globalData.Unlock()

	if nil != globalData.database {
		return fault.ErrAlreadyInitialised
	}

	globalData.log = logger.New("storage")
	globalData.log.Info("starting…")

	accountDatabase := database + "-accounts.leveldb"

	db, version, err := openDB(accountDatabase)
	if nil != err {
		return err
	}

	// ensure no database downgrade
	if version > currentAccountDBVersion {
		globalData.log.Criticalf("account database version: %d > current version: %d", version, currentAccountDBVersion)
		_ = db.Close()
		return fault.ErrInvalidAccountData
	}

	// database was empty so tag as current version
	if 0 == version {
		if err := putVersion(db, currentAccountDBVersion); nil != err {
			_ = db.Close()
			return err
		}
	}

	globalData.database = db
	globalData.ledger = &accountLedger{database: db}
	return nil
}

// Finalise - flush and close the database
func Finalise() {
	globalData.Lock()
	defer globalData.Unlock()

	if nil == globalData.database {
		return
	}

	globalData.log.Info("shutting down…")
	_ = globalData.database.Close()
	globalData.database = nil
	globalData.ledger = nil
	globalData.log.Flush()
}

// Ledger - the persistent account ledger
//
// nil before Initialise or after Finalise
func Ledger() host.Ledger {
	globalData.RLock()
	defer globalData.RUnlock()

	if nil == globalData.ledger {
		return nil
	}
	return globalData.ledger
}

func openDB(name string) (*leveldb.DB, int, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: false,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		_ = db.Close()
		return nil, 0, err
	}
	if 4 != len(versionValue) {
		_ = db.Close()
		return nil, 0, fault.ErrInvalidAccountData
	}
	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	versionValue := make([]byte, 4)
	binary.BigEndian.PutUint32(versionValue, uint32(version))
	return db.Put(versionKey, versionValue, nil)
}
