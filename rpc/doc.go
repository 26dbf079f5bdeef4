// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - the daemon's HTTP surface
//
// one submit endpoint accepts signed transactions and feeds them to the
// runtime; the read endpoints decode ledger accounts into JSON.  reads
// go through a short lived cache that is flushed on every successful
// submit, the submit endpoint is rate limited.
package rpc
