// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package host_test

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/host"
	"github.com/openregistry/registryd/rent"
	"github.com/openregistry/registryd/storage"
)

const testingDirName = "testing"

func TestMain(m *testing.M) {
	_ = os.RemoveAll(testingDirName)
	if err := os.MkdirAll(testingDirName, 0o700); nil != err {
		panic(fmt.Sprintf("cannot create directory: %s", err))
	}

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      50000,
		Count:     10,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	if err := logger.Initialise(logging); nil != err {
		panic(fmt.Sprintf("logger initialisation failed: %s", err))
	}

	rc := m.Run()

	logger.Finalise()
	_ = os.RemoveAll(testingDirName)
	os.Exit(rc)
}

func testKey(b byte) solana.PublicKey {
	var key solana.PublicKey
	key[0] = b
	return key
}

func fundedLedger(accounts map[solana.PublicKey]uint64) *storage.MemoryLedger {
	ledger := storage.NewMemoryLedger()
	for key, lamports := range accounts {
		_ = ledger.Put(key, &host.Account{
			Lamports: lamports,
			Owner:    solana.SystemProgramID,
		})
	}
	return ledger
}

func balance(t *testing.T, ledger host.Ledger, key solana.PublicKey) uint64 {
	t.Helper()
	account, err := ledger.Get(key)
	if fault.IsErrNotFound(err) {
		return 0
	}
	if nil != err {
		t.Fatalf("get error: %s", err)
	}
	return account.Lamports
}

func TestSystemTransfer(t *testing.T) {
	from := testKey(1)
	to := testKey(2)
	ledger := fundedLedger(map[solana.PublicKey]uint64{from: 1000})
	runtime := host.NewRuntime(ledger)

	transfer := host.NewTransferInstruction(from, to, 400)
	if err := runtime.ExecuteInstruction(transfer, []solana.PublicKey{from}); nil != err {
		t.Fatalf("execute error: %s", err)
	}

	if 600 != balance(t, ledger, from) || 400 != balance(t, ledger, to) {
		t.Fatalf("balances: from: %d  to: %d", balance(t, ledger, from), balance(t, ledger, to))
	}
}

func TestSystemTransferUnsigned(t *testing.T) {
	from := testKey(1)
	to := testKey(2)
	ledger := fundedLedger(map[solana.PublicKey]uint64{from: 1000})
	runtime := host.NewRuntime(ledger)

	transfer := host.NewTransferInstruction(from, to, 400)
	err := runtime.ExecuteInstruction(transfer, nil)
	if fault.ErrMissingSignature != err {
		t.Fatalf("unexpected error: %v  expected: %v", err, fault.ErrMissingSignature)
	}
	if 1000 != balance(t, ledger, from) {
		t.Fatal("failed instruction modified the ledger")
	}
}

func TestSystemCreateAccount(t *testing.T) {
	funder := testKey(1)
	fresh := testKey(3)
	programID := testKey(0x50)
	ledger := fundedLedger(map[solana.PublicKey]uint64{funder: 10000000})
	runtime := host.NewRuntime(ledger)

	create := host.NewCreateAccountInstruction(funder, fresh, rent.MinimumBalance(100), 100, programID)
	signers := []solana.PublicKey{funder, fresh}
	if err := runtime.ExecuteInstruction(create, signers); nil != err {
		t.Fatalf("execute error: %s", err)
	}

	account, err := ledger.Get(fresh)
	if nil != err {
		t.Fatalf("get error: %s", err)
	}
	if programID != account.Owner {
		t.Errorf("owner: actual: %s  expected: %s", account.Owner, programID)
	}
	if 100 != len(account.Data) {
		t.Errorf("size: actual: %d  expected: 100", len(account.Data))
	}

	// the address is now in use
	err = runtime.ExecuteInstruction(create, signers)
	if fault.ErrAccountInUse != err {
		t.Fatalf("unexpected error: %v  expected: %v", err, fault.ErrAccountInUse)
	}
}

func TestBorrowDiscipline(t *testing.T) {
	key := testKey(7)
	programID := testKey(0x50)
	ledger := storage.NewMemoryLedger()
	_ = ledger.Put(key, &host.Account{Lamports: 1, Owner: programID, Data: make([]byte, 4)})
	runtime := host.NewRuntime(ledger)

	checked := false
	runtime.Register(programID, func(ctx *host.Context) error {
		account, err := ctx.Account(0)
		if nil != err {
			return err
		}

		data, release, err := account.BorrowMutData()
		if nil != err {
			return err
		}

		// second borrow while the first is live must fail
		if _, _, err := account.BorrowData(); fault.ErrAccountBorrowed != err {
			t.Errorf("unexpected error: %v  expected: %v", err, fault.ErrAccountBorrowed)
		}
		if err := account.Resize(8, false); fault.ErrAccountBorrowed != err {
			t.Errorf("unexpected error: %v  expected: %v", err, fault.ErrAccountBorrowed)
		}

		data[0] = 0xaa
		release()

		// released, so borrowing works again
		data, release, err = account.BorrowData()
		if nil != err {
			return err
		}
		if 0xaa != data[0] {
			t.Errorf("write through borrow lost: %v", data)
		}
		release()

		checked = true
		return nil
	})

	instr := host.Instruction{
		ProgramID: programID,
		Accounts:  []host.AccountMeta{host.WritableMeta(key)},
	}
	if err := runtime.ExecuteInstruction(instr, nil); nil != err {
		t.Fatalf("execute error: %s", err)
	}
	if !checked {
		t.Fatal("test program never ran")
	}

	account, _ := ledger.Get(key)
	if 0xaa != account.Data[0] {
		t.Fatal("data change was not committed")
	}
}

func TestReadOnlyAccount(t *testing.T) {
	key := testKey(7)
	programID := testKey(0x50)
	ledger := storage.NewMemoryLedger()
	_ = ledger.Put(key, &host.Account{Lamports: 1, Owner: programID, Data: make([]byte, 4)})
	runtime := host.NewRuntime(ledger)

	runtime.Register(programID, func(ctx *host.Context) error {
		account, err := ctx.Account(0)
		if nil != err {
			return err
		}
		_, _, err = account.BorrowMutData()
		return err
	})

	instr := host.Instruction{
		ProgramID: programID,
		Accounts:  []host.AccountMeta{host.Meta(key)},
	}
	err := runtime.ExecuteInstruction(instr, nil)
	if fault.ErrAccountNotWritable != err {
		t.Fatalf("unexpected error: %v  expected: %v", err, fault.ErrAccountNotWritable)
	}
}

// a program cannot touch data of an account it does not own
func TestOwnershipRule(t *testing.T) {
	key := testKey(7)
	owner := testKey(0x50)
	intruder := testKey(0x51)
	ledger := storage.NewMemoryLedger()
	_ = ledger.Put(key, &host.Account{Lamports: 1, Owner: owner, Data: make([]byte, 4)})
	runtime := host.NewRuntime(ledger)

	runtime.Register(intruder, func(ctx *host.Context) error {
		account, err := ctx.Account(0)
		if nil != err {
			return err
		}
		data, release, err := account.BorrowMutData()
		if nil != err {
			return err
		}
		data[0] = 0xff
		release()
		return nil
	})

	instr := host.Instruction{
		ProgramID: intruder,
		Accounts:  []host.AccountMeta{host.WritableMeta(key)},
	}
	err := runtime.ExecuteInstruction(instr, nil)
	if fault.ErrModifiedByWrongProgram != err {
		t.Fatalf("unexpected error: %v  expected: %v", err, fault.ErrModifiedByWrongProgram)
	}
}

// cross-program invoke cannot grant privileges the caller lacks
func TestInvokePrivilegeEscalation(t *testing.T) {
	from := testKey(1)
	to := testKey(2)
	programID := testKey(0x50)
	ledger := fundedLedger(map[solana.PublicKey]uint64{from: 1000})
	runtime := host.NewRuntime(ledger)

	runtime.Register(programID, func(ctx *host.Context) error {
		// the caller never held a signature for the source account
		return ctx.Invoke(host.NewTransferInstruction(from, to, 10), nil)
	})

	instr := host.Instruction{
		ProgramID: programID,
		Accounts: []host.AccountMeta{
			host.WritableMeta(from),
			host.WritableMeta(to),
		},
	}
	err := runtime.ExecuteInstruction(instr, nil)
	if fault.ErrMissingSignature != err {
		t.Fatalf("unexpected error: %v  expected: %v", err, fault.ErrMissingSignature)
	}
}

// program-derived addresses sign through seed proofs
func TestInvokeWithSeeds(t *testing.T) {
	programID := testKey(0x50)
	seeds := [][]byte{[]byte("vault"), {42}}
	vault, bump, err := solana.FindProgramAddress(seeds, programID)
	if nil != err {
		t.Fatalf("derive error: %s", err)
	}
	signingSeeds := append(append([][]byte{}, seeds...), []byte{bump})

	to := testKey(2)
	ledger := fundedLedger(map[solana.PublicKey]uint64{vault: 1000})
	runtime := host.NewRuntime(ledger)

	runtime.Register(programID, func(ctx *host.Context) error {
		return ctx.Invoke(
			host.NewTransferInstruction(vault, to, 300),
			[][][]byte{signingSeeds},
		)
	})

	instr := host.Instruction{
		ProgramID: programID,
		Accounts: []host.AccountMeta{
			host.WritableMeta(vault),
			host.WritableMeta(to),
		},
	}
	if err := runtime.ExecuteInstruction(instr, nil); nil != err {
		t.Fatalf("execute error: %s", err)
	}
	if 700 != balance(t, ledger, vault) || 300 != balance(t, ledger, to) {
		t.Fatalf("balances: vault: %d  to: %d", balance(t, ledger, vault), balance(t, ledger, to))
	}
}

func TestResizeAccount(t *testing.T) {
	payer := testKey(1)
	target := testKey(9)
	programID := testKey(0x50)

	ledger := fundedLedger(map[solana.PublicKey]uint64{payer: 100000000})
	_ = ledger.Put(target, &host.Account{
		Lamports: rent.MinimumBalance(10),
		Owner:    programID,
		Data:     make([]byte, 10),
	})
	runtime := host.NewRuntime(ledger)

	newSize := 0
	runtime.Register(programID, func(ctx *host.Context) error {
		targetInfo, err := ctx.Account(0)
		if nil != err {
			return err
		}
		payerInfo, err := ctx.Account(1)
		if nil != err {
			return err
		}
		return host.ResizeAccount(ctx, targetInfo, payerInfo, newSize, true)
	})

	instr := host.Instruction{
		ProgramID: programID,
		Accounts: []host.AccountMeta{
			host.WritableMeta(target),
			host.WritableSignerMeta(payer),
		},
	}

	// grow: payer funds the larger deposit
	newSize = 100
	payerBefore := balance(t, ledger, payer)
	if err := runtime.ExecuteInstruction(instr, []solana.PublicKey{payer}); nil != err {
		t.Fatalf("execute error: %s", err)
	}
	account, _ := ledger.Get(target)
	if 100 != len(account.Data) {
		t.Fatalf("size: actual: %d  expected: 100", len(account.Data))
	}
	if rent.MinimumBalance(100) != account.Lamports {
		t.Fatalf("deposit: actual: %d  expected: %d", account.Lamports, rent.MinimumBalance(100))
	}
	paid := payerBefore - balance(t, ledger, payer)
	if rent.MinimumBalance(100)-rent.MinimumBalance(10) != paid {
		t.Fatalf("paid: actual: %d", paid)
	}

	// shrink: surplus deposit flows back
	newSize = 20
	payerBefore = balance(t, ledger, payer)
	if err := runtime.ExecuteInstruction(instr, []solana.PublicKey{payer}); nil != err {
		t.Fatalf("execute error: %s", err)
	}
	account, _ = ledger.Get(target)
	if 20 != len(account.Data) {
		t.Fatalf("size: actual: %d  expected: 20", len(account.Data))
	}
	refund := balance(t, ledger, payer) - payerBefore
	if rent.MinimumBalance(100)-rent.MinimumBalance(20) != refund {
		t.Fatalf("refund: actual: %d", refund)
	}
}

func TestTransactionAtomicity(t *testing.T) {
	public, private, err := ed25519.GenerateKey(nil)
	if nil != err {
		t.Fatalf("key generation error: %s", err)
	}
	payer := solana.PublicKeyFromBytes(public)
	to := testKey(2)

	ledger := fundedLedger(map[solana.PublicKey]uint64{payer: 1000})
	runtime := host.NewRuntime(ledger)

	// second transfer overdraws, so the first must be rolled back
	tx := &host.Transaction{
		FeePayer: payer,
		Instructions: []host.Instruction{
			host.NewTransferInstruction(payer, to, 400),
			host.NewTransferInstruction(payer, to, 100000),
		},
	}
	tx.Sign(private)

	if err := runtime.ExecuteTransaction(tx); fault.ErrInsufficientLamports != err {
		t.Fatalf("unexpected error: %v  expected: %v", err, fault.ErrInsufficientLamports)
	}
	if 1000 != balance(t, ledger, payer) || 0 != balance(t, ledger, to) {
		t.Fatal("aborted transaction modified the ledger")
	}

	tx = &host.Transaction{
		FeePayer: payer,
		Instructions: []host.Instruction{
			host.NewTransferInstruction(payer, to, 400),
			host.NewTransferInstruction(payer, to, 100),
		},
	}
	tx.Sign(private)

	if err := runtime.ExecuteTransaction(tx); nil != err {
		t.Fatalf("execute error: %s", err)
	}
	if 500 != balance(t, ledger, payer) || 500 != balance(t, ledger, to) {
		t.Fatalf("balances: payer: %d  to: %d", balance(t, ledger, payer), balance(t, ledger, to))
	}
}

func TestTransactionSignatures(t *testing.T) {
	public, private, err := ed25519.GenerateKey(nil)
	if nil != err {
		t.Fatalf("key generation error: %s", err)
	}
	payer := solana.PublicKeyFromBytes(public)
	to := testKey(2)

	tx := &host.Transaction{
		FeePayer: payer,
		Instructions: []host.Instruction{
			host.NewTransferInstruction(payer, to, 1),
		},
	}

	// unsigned
	if err := tx.Verify(); fault.ErrMissingSignature != err {
		t.Fatalf("unexpected error: %v  expected: %v", err, fault.ErrMissingSignature)
	}

	// signed, then tampered with
	tx.Sign(private)
	if err := tx.Verify(); nil != err {
		t.Fatalf("verify error: %s", err)
	}
	tx.Instructions[0].Data[4] ^= 0x01
	if err := tx.Verify(); fault.ErrInvalidSignature != err {
		t.Fatalf("unexpected error: %v  expected: %v", err, fault.ErrInvalidSignature)
	}
}

func TestTransactionSizeLimit(t *testing.T) {
	public, private, err := ed25519.GenerateKey(nil)
	if nil != err {
		t.Fatalf("key generation error: %s", err)
	}
	payer := solana.PublicKeyFromBytes(public)

	tx := &host.Transaction{
		FeePayer: payer,
		Instructions: []host.Instruction{
			{
				ProgramID: testKey(0x50),
				Data:      make([]byte, 2000),
			},
		},
	}
	tx.Sign(private)

	if err := tx.Verify(); fault.ErrTransactionTooLarge != err {
		t.Fatalf("unexpected error: %v  expected: %v", err, fault.ErrTransactionTooLarge)
	}
}

func TestClockOverride(t *testing.T) {
	programID := testKey(0x50)
	runtime := host.NewRuntime(storage.NewMemoryLedger())
	runtime.SetClock(func() int64 { return 1700000000 })

	var seen int64
	runtime.Register(programID, func(ctx *host.Context) error {
		seen = ctx.UnixTimestamp()
		return nil
	})

	if err := runtime.ExecuteInstruction(host.Instruction{ProgramID: programID}, nil); nil != err {
		t.Fatalf("execute error: %s", err)
	}
	if 1700000000 != seen {
		t.Fatalf("timestamp: actual: %d  expected: 1700000000", seen)
	}
}
