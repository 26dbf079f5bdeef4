// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rent - storage deposit arithmetic
//
// every live account must carry a lamport balance proportional to its
// data size; the balance is reclaimed when the account is closed
package rent

const (
	// lamports charged per byte-year of storage
	lamportsPerByteYear = 3480

	// years of storage an exempt deposit must cover
	exemptionYears = 2

	// bookkeeping bytes charged on top of the data itself
	accountStorageOverhead = 128
)

// MinimumBalance - lamports an account of the given data size must
// hold to be exempt from collection
func MinimumBalance(dataSize int) uint64 {
	return uint64(dataSize+accountStorageOverhead) * lamportsPerByteYear * exemptionYears
}
