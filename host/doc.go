// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package host - account ledger runtime that executes registry programs
//
// the runtime owns a ledger of accounts keyed by 32 byte public keys
// and a table of registered program entry points.  a transaction is a
// batch of instructions signed over a sha3-256 digest; all of its
// instructions execute against a single in-memory working set that is
// committed to the ledger only if every instruction succeeds, so a
// failed instruction leaves no partial state behind.
//
// account data may only be accessed through borrows so that two live
// views of the same buffer cannot exist; cross-program invocations run
// in the caller's working set and may carry program-derived signing
// proofs in place of private key signatures.
package host
