// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package token2022 - the token-extension program
//
// two halves: instruction encoders that build the fixed byte layouts
// the token program expects (this is all a caller ever needs), and an
// executing implementation of the subset the registry drives, so a
// runtime can settle tokenized-record flows end to end.
//
// mints carry typed TLV extensions after the base layout: close
// authority, permanent delegate, the metadata/group/member pointers
// and their payloads.  extension space is fixed at account creation;
// only the metadata payload may grow afterwards and then only while
// the account balance covers the larger size.
package token2022
