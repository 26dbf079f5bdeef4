// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package host

import (
	"bytes"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/fault"
)

// limit on nested cross-program invocations
const maximumInvokeDepth = 4

// ProcessFunc - entry point of a registered program
type ProcessFunc func(ctx *Context) error

// Runtime - program registry plus the ledger the programs operate on
//
// transactions are serialised: only one executes at a time
type Runtime struct {
	sync.Mutex

	ledger   Ledger
	programs map[solana.PublicKey]ProcessFunc
	clock    func() int64
	log      *logger.L
}

// NewRuntime - create a runtime over a ledger
//
// the system program is always registered; the logger must already be
// initialised
func NewRuntime(ledger Ledger) *Runtime {
	r := &Runtime{
		ledger:   ledger,
		programs: make(map[solana.PublicKey]ProcessFunc),
		clock:    func() int64 { return time.Now().Unix() },
		log:      logger.New("runtime"),
	}
	r.programs[solana.SystemProgramID] = processSystemInstruction
	return r
}

// Register - add a program entry point
func (r *Runtime) Register(programID solana.PublicKey, fn ProcessFunc) {
	r.Lock()
	r.programs[programID] = fn
	r.Unlock()
}

// SetClock - override the timestamp source, for testing expiry
func (r *Runtime) SetClock(fn func() int64) {
	r.Lock()
	r.clock = fn
	r.Unlock()
}

// Ledger - the backing account store
func (r *Runtime) Ledger() Ledger {
	return r.ledger
}

// ExecuteInstruction - run one instruction as its own transaction
//
// the signers list stands in for verified signatures; all-or-nothing
// commit applies just as for a full transaction
func (r *Runtime) ExecuteInstruction(instr Instruction, signers []solana.PublicKey) error {
	r.Lock()
	defer r.Unlock()

	signerSet := make(map[solana.PublicKey]bool, len(signers))
	for _, key := range signers {
		signerSet[key] = true
	}

	ws := newWorkingSet(r)
	if err := ws.execute(instr, signerSet, 0); nil != err {
		r.log.Debugf("instruction failed: program: %s  error: %s", instr.ProgramID, err)
		return err
	}
	return ws.commit()
}

// working set - transaction scratch copy of every touched account
type workingSet struct {
	runtime     *Runtime
	accounts    map[solana.PublicKey]*Account
	loadedTotal uint64
}

func newWorkingSet(r *Runtime) *workingSet {
	return &workingSet{
		runtime:  r,
		accounts: make(map[solana.PublicKey]*Account),
	}
}

// fetch an account copy, creating a fresh system-owned entry for keys
// that are not on the ledger yet
func (ws *workingSet) load(key solana.PublicKey) (*Account, error) {
	if account, ok := ws.accounts[key]; ok {
		return account, nil
	}

	account, err := ws.runtime.ledger.Get(key)
	switch {
	case nil == err:
		account = account.Clone()
	case fault.IsErrNotFound(err):
		account = &Account{Owner: solana.SystemProgramID}
	default:
		return nil, err
	}
	ws.accounts[key] = account
	ws.loadedTotal += account.Lamports
	return account, nil
}

// point-in-time view of one account used for the ownership rule
type accountSnapshot struct {
	lamports uint64
	owner    solana.PublicKey
	data     []byte
}

func (ws *workingSet) snapshot(keys []solana.PublicKey) map[solana.PublicKey]accountSnapshot {
	snapshots := make(map[solana.PublicKey]accountSnapshot, len(keys))
	for _, key := range keys {
		if _, ok := snapshots[key]; ok {
			continue
		}
		account := ws.accounts[key]
		data := make([]byte, len(account.Data))
		copy(data, account.Data)
		snapshots[key] = accountSnapshot{
			lamports: account.Lamports,
			owner:    account.Owner,
			data:     data,
		}
	}
	return snapshots
}

// a program may modify only accounts it owns; foreign accounts can
// only gain lamports
func (ws *workingSet) verifyOwnership(programID solana.PublicKey, snapshots map[solana.PublicKey]accountSnapshot) error {
	for key, snap := range snapshots {
		if snap.owner == programID {
			continue
		}
		account := ws.accounts[key]
		if account.Owner != snap.owner ||
			account.Lamports < snap.lamports ||
			!bytes.Equal(account.Data, snap.data) {
			return fault.ErrModifiedByWrongProgram
		}
	}
	return nil
}

func (ws *workingSet) execute(instr Instruction, signers map[solana.PublicKey]bool, depth int) error {
	if depth > maximumInvokeDepth {
		return fault.ErrCallDepthExceeded
	}

	fn, ok := ws.runtime.programs[instr.ProgramID]
	if !ok {
		return fault.ErrProgramNotFound
	}

	keys := make([]solana.PublicKey, len(instr.Accounts))
	infos := make([]*AccountInfo, len(instr.Accounts))
	for i, meta := range instr.Accounts {
		if meta.IsSigner && !signers[meta.Key] {
			return fault.ErrMissingSignature
		}
		account, err := ws.load(meta.Key)
		if nil != err {
			return err
		}
		keys[i] = meta.Key
		infos[i] = &AccountInfo{
			Key:        meta.Key,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			account:    account,
		}
	}

	ctx := &Context{
		ProgramID: instr.ProgramID,
		Data:      instr.Data,
		accounts:  infos,
		ws:        ws,
		depth:     depth,
		snapshots: ws.snapshot(keys),
	}

	if err := fn(ctx); nil != err {
		return err
	}
	return ws.verifyOwnership(instr.ProgramID, ctx.snapshots)
}

// write the working set back to the ledger, purging drained accounts
func (ws *workingSet) commit() error {
	total := uint64(0)
	for _, account := range ws.accounts {
		total += account.Lamports
	}
	if total != ws.loadedTotal {
		return fault.ErrLamportsNotConserved
	}

	for key, account := range ws.accounts {
		if 0 == account.Lamports {
			if err := ws.runtime.ledger.Delete(key); nil != err {
				return err
			}
			continue
		}
		if err := ws.runtime.ledger.Put(key, account); nil != err {
			return err
		}
	}
	return nil
}
