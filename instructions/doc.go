// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package instructions - the registry program itself
//
// a flat single byte discriminator selects the operation, the rest of
// the instruction data is the operation's own fixed layout.  handlers
// never trust account addresses: every program-derived account is
// re-derived from its seeds before use and every state mutation runs
// through the authority checks.
//
// the package also carries the client side builders that produce the
// matching instruction byte layouts, so tests and the RPC front end
// drive the program exactly the way an external caller would.
package instructions
