// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - persistent account ledger
//
// accounts are stored in a single LevelDB database keyed directly by
// the 32 byte account public key, which makes the natural iteration
// order the ascending key order the ledger interface requires.  the
// value is a fixed header of balance, owner and executable flag
// followed by the raw account data.
//
// a memory backed ledger with the same behaviour is provided for tests
// and for the throwaway ledgers used by local tooling.
package storage
