// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package host

import (
	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/fault"
)

// Context - everything one program invocation can see
type Context struct {
	ProgramID solana.PublicKey
	Data      []byte

	accounts  []*AccountInfo
	ws        *workingSet
	depth     int
	snapshots map[solana.PublicKey]accountSnapshot
}

// Account - the i'th account passed to the instruction
func (ctx *Context) Account(i int) (*AccountInfo, error) {
	if i < 0 || i >= len(ctx.accounts) {
		return nil, fault.ErrNotEnoughAccounts
	}
	return ctx.accounts[i], nil
}

// AccountCount - number of accounts passed to the instruction
func (ctx *Context) AccountCount() int {
	return len(ctx.accounts)
}

// UnixTimestamp - ledger time visible to the program
func (ctx *Context) UnixTimestamp() int64 {
	return ctx.ws.runtime.clock()
}

// Invoke - call another program from inside this one
//
// signerSeeds carries seed groups proving control of program-derived
// addresses: each group must derive to one of the invoked instruction's
// signer accounts under the calling program's id.  account privileges
// can never escalate across the call: the callee only sees signer or
// writable flags the caller itself holds.
func (ctx *Context) Invoke(instr Instruction, signerSeeds [][][]byte) error {

	derived := make(map[solana.PublicKey]bool, len(signerSeeds))
	for _, seeds := range signerSeeds {
		key, err := solana.CreateProgramAddress(seeds, ctx.ProgramID)
		if nil != err {
			return fault.ErrInvalidSeeds
		}
		derived[key] = true
	}

	callerInfo := make(map[solana.PublicKey]*AccountInfo, len(ctx.accounts))
	for _, info := range ctx.accounts {
		existing, ok := callerInfo[info.Key]
		if !ok {
			copied := *info
			callerInfo[info.Key] = &copied
			continue
		}
		existing.IsSigner = existing.IsSigner || info.IsSigner
		existing.IsWritable = existing.IsWritable || info.IsWritable
	}

	signers := make(map[solana.PublicKey]bool)
	for _, meta := range instr.Accounts {
		caller, ok := callerInfo[meta.Key]
		if !ok {
			return fault.ErrAccountNotFound
		}
		if meta.IsWritable && !caller.IsWritable {
			return fault.ErrAccountNotWritable
		}
		if meta.IsSigner {
			if !caller.IsSigner && !derived[meta.Key] {
				return fault.ErrMissingSignature
			}
			signers[meta.Key] = true
		}
	}

	// changes made by this program so far must already be legal, then
	// the baseline moves past whatever the callee legitimately did
	if err := ctx.ws.verifyOwnership(ctx.ProgramID, ctx.snapshots); nil != err {
		return err
	}
	if err := ctx.ws.execute(instr, signers, ctx.depth+1); nil != err {
		return err
	}

	keys := make([]solana.PublicKey, 0, len(ctx.snapshots))
	for key := range ctx.snapshots {
		keys = append(keys, key)
	}
	ctx.snapshots = ctx.ws.snapshot(keys)
	return nil
}
