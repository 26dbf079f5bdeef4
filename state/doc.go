// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package state - the persisted registry entities
//
// four entity kinds live in program owned accounts: Credential, Class,
// Record and RecordDelegate.  each is a single byte buffer starting
// with a one byte kind tag; 0xFF tombstones a closed account and is
// rejected by every decode, a zero tag marks a fresh buffer that only
// Initialise may write to.
//
// mutation is never done in place: decode to an owned value, change
// the fields, size the account for the new encoding, then encode the
// whole entity back.  the encoders enforce the same limits the
// decoders do, so an encoded buffer always round-trips.
package state
