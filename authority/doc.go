// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package authority - who may do what to a record or class
//
// a pure decision procedure evaluated per call against current
// account bytes, nothing here is persisted and nothing here mutates.
// a successful check can carry a cleanup obligation back to the
// caller (closing a stale delegate on an owner burn); the caller
// executes it, the check only names it.
package authority
