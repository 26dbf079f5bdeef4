// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package token2022_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/host"
	"github.com/openregistry/registryd/rent"
	"github.com/openregistry/registryd/storage"
	"github.com/openregistry/registryd/token2022"
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
	key[31] = b
	return key
}

type fixture struct {
	t       *testing.T
	runtime *host.Runtime
	ledger  *storage.MemoryLedger
	payer   solana.PublicKey
}

func newFixture(t *testing.T) *fixture {
	ledger := storage.NewMemoryLedger()
	payer := testKey(0x01)
	_ = ledger.Put(payer, &host.Account{
		Lamports: 10_000_000_000,
		Owner:    solana.SystemProgramID,
	})
	runtime := host.NewRuntime(ledger)
	token2022.Register(runtime)
	return &fixture{t: t, runtime: runtime, ledger: ledger, payer: payer}
}

func (f *fixture) run(instr host.Instruction, signers ...solana.PublicKey) {
	f.t.Helper()
	if err := f.runtime.ExecuteInstruction(instr, signers); nil != err {
		f.t.Fatalf("execute error: %s", err)
	}
}

func (f *fixture) runExpecting(expected error, instr host.Instruction, signers ...solana.PublicKey) {
	f.t.Helper()
	if err := f.runtime.ExecuteInstruction(instr, signers); expected != err {
		f.t.Fatalf("unexpected error: %v  expected: %v", err, expected)
	}
}

func (f *fixture) data(key solana.PublicKey) []byte {
	f.t.Helper()
	account, err := f.ledger.Get(key)
	if nil != err {
		f.t.Fatalf("get error: %s", err)
	}
	return account.Data
}

// create and fully initialise a record style mint: close authority,
// permanent delegate, metadata pointer and metadata
func (f *fixture) makeExtendedMint(mint solana.PublicKey, authority solana.PublicKey, name string, uri string) {
	f.t.Helper()
	size := token2022.RecordMintSize(name, "REG", uri)

	f.run(host.NewCreateAccountInstruction(
		f.payer, mint, rent.MinimumBalance(size), uint64(size), token2022.ProgramID,
	), f.payer, mint)

	f.run(token2022.NewInitializeMintCloseAuthorityInstruction(mint, authority))
	f.run(token2022.NewInitializePermanentDelegateInstruction(mint, authority))
	f.run(token2022.NewInitializeMetadataPointerInstruction(mint, authority, mint))
	f.run(token2022.NewInitializeGroupMemberPointerInstruction(mint, authority, mint))
	f.run(token2022.NewInitializeMint2Instruction(mint, 0, authority, authority))
	f.run(token2022.NewInitializeMetadataInstruction(mint, authority, mint, authority, name, "REG", uri), authority)
}

func (f *fixture) makeATA(wallet solana.PublicKey, mint solana.PublicKey) solana.PublicKey {
	f.t.Helper()
	ata, _, err := token2022.AssociatedTokenAddress(wallet, mint)
	if nil != err {
		f.t.Fatalf("derive error: %s", err)
	}
	f.run(token2022.NewCreateAssociatedTokenAccountInstruction(f.payer, ata, wallet, mint), f.payer)
	return ata
}

func TestMintLifecycle(t *testing.T) {
	f := newFixture(t)
	mint := testKey(0x10)
	authority := testKey(0x20)
	wallet := testKey(0x30)
	other := testKey(0x31)

	f.makeExtendedMint(mint, authority, "alice", "1.2.3.4")

	decoded, err := token2022.DecodeMint(f.data(mint))
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	if !decoded.IsInitialised || 0 != decoded.Decimals || authority != decoded.MintAuthority {
		t.Fatalf("mint: %+v", decoded)
	}

	payload, err := token2022.GetExtension(f.data(mint), token2022.ExtensionTokenMetadata)
	if nil != err {
		t.Fatalf("extension error: %s", err)
	}
	metadata, err := token2022.DecodeMetadata(payload)
	if nil != err {
		t.Fatalf("metadata error: %s", err)
	}
	if "alice" != metadata.Name || "REG" != metadata.Symbol || "1.2.3.4" != metadata.URI {
		t.Fatalf("metadata: %+v", metadata)
	}

	// one unit to the holder
	ata := f.makeATA(wallet, mint)
	f.run(token2022.NewMintToCheckedInstruction(mint, ata, authority, 1, 0), authority)

	account, err := token2022.DecodeTokenAccount(f.data(ata))
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	if 1 != account.Amount || wallet != account.Owner || mint != account.Mint {
		t.Fatalf("token account: %+v", account)
	}

	// move it to another wallet
	otherATA := f.makeATA(other, mint)
	f.run(token2022.NewTransferCheckedInstruction(ata, mint, otherATA, wallet, 1, 0), wallet)

	account, _ = token2022.DecodeTokenAccount(f.data(otherATA))
	if 1 != account.Amount {
		t.Fatalf("transfer lost the unit: %+v", account)
	}

	// the permanent delegate may also move it, without the holder
	f.run(token2022.NewTransferCheckedInstruction(otherATA, mint, ata, authority, 1, 0), authority)

	// burn and close
	f.run(token2022.NewBurnCheckedInstruction(ata, mint, wallet, 1, 0), wallet)
	payerBefore := func() uint64 {
		a, _ := f.ledger.Get(f.payer)
		return a.Lamports
	}()
	f.run(token2022.NewCloseAccountInstruction(mint, f.payer, authority), authority)

	if _, err := f.ledger.Get(mint); !fault.IsErrNotFound(err) {
		t.Fatalf("closed mint still present: %v", err)
	}
	payerAfter, _ := f.ledger.Get(f.payer)
	if payerAfter.Lamports <= payerBefore {
		t.Fatal("mint rent was not reclaimed")
	}
}

func TestFreezeThaw(t *testing.T) {
	f := newFixture(t)
	mint := testKey(0x10)
	authority := testKey(0x20)
	wallet := testKey(0x30)

	f.makeExtendedMint(mint, authority, "r", "d")
	ata := f.makeATA(wallet, mint)
	f.run(token2022.NewMintToCheckedInstruction(mint, ata, authority, 1, 0), authority)

	f.run(token2022.NewFreezeAccountInstruction(ata, mint, authority), authority)

	account, _ := token2022.DecodeTokenAccount(f.data(ata))
	if !account.IsFrozen {
		t.Fatal("account not frozen")
	}

	// freezing twice is an error, as is transferring while frozen
	f.runExpecting(fault.ErrInvalidAccountData,
		token2022.NewFreezeAccountInstruction(ata, mint, authority), authority)
	f.runExpecting(fault.ErrInvalidAccountData,
		token2022.NewBurnCheckedInstruction(ata, mint, wallet, 1, 0), wallet)

	f.run(token2022.NewThawAccountInstruction(ata, mint, authority), authority)
	account, _ = token2022.DecodeTokenAccount(f.data(ata))
	if account.IsFrozen {
		t.Fatal("account still frozen")
	}

	// only the freeze authority may freeze
	f.runExpecting(fault.ErrMissingSignature,
		token2022.NewFreezeAccountInstruction(ata, mint, wallet), wallet)
}

func TestGroupMembership(t *testing.T) {
	f := newFixture(t)
	authority := testKey(0x20)
	group := testKey(0x11)

	size := token2022.GroupMintSize()
	f.run(host.NewCreateAccountInstruction(
		f.payer, group, rent.MinimumBalance(size), uint64(size), token2022.ProgramID,
	), f.payer, group)
	f.run(token2022.NewInitializeGroupPointerInstruction(group, authority, group))
	f.run(token2022.NewInitializeMint2Instruction(group, 0, authority, authority))
	f.run(token2022.NewInitializeGroupInstruction(group, group, authority, authority, 100), authority)

	member := testKey(0x12)
	f.makeExtendedMint(member, authority, "m", "d")
	f.run(token2022.NewInitializeMemberInstruction(member, member, authority, group, authority), authority)

	payload, err := token2022.GetExtension(f.data(member), token2022.ExtensionTokenGroupMember)
	if nil != err {
		t.Fatalf("extension error: %s", err)
	}
	if 72 != len(payload) {
		t.Fatalf("member payload size: %d", len(payload))
	}
	// member number 1, little-endian at offset 64
	if 1 != payload[64] {
		t.Fatalf("member number: %d", payload[64])
	}
}

func TestUpdateMetadataGrowth(t *testing.T) {
	f := newFixture(t)
	mint := testKey(0x10)
	authority := testKey(0x20)
	group := testKey(0x11)

	size := token2022.GroupMintSize()
	f.run(host.NewCreateAccountInstruction(
		f.payer, group, rent.MinimumBalance(size), uint64(size), token2022.ProgramID,
	), f.payer, group)
	f.run(token2022.NewInitializeGroupPointerInstruction(group, authority, group))
	f.run(token2022.NewInitializeMint2Instruction(group, 0, authority, authority))
	f.run(token2022.NewInitializeGroupInstruction(group, group, authority, authority, 100), authority)

	// joining the group fills the member slack, so any uri growth
	// needs a larger account
	f.makeExtendedMint(mint, authority, "r", "short")
	f.run(token2022.NewInitializeMemberInstruction(mint, mint, authority, group, authority), authority)

	longURI := "a much longer uri value that will not fit in the original space"

	// without extra lamports the growth is refused
	f.runExpecting(fault.ErrInsufficientLamports,
		token2022.NewUpdateMetadataFieldInstruction(mint, authority, token2022.MetadataFieldURI, longURI),
		authority)

	// fund the mint for the larger size, then it succeeds
	f.run(host.NewTransferInstruction(f.payer, mint, 1_000_000), f.payer)
	f.run(token2022.NewUpdateMetadataFieldInstruction(mint, authority, token2022.MetadataFieldURI, longURI), authority)

	payload, err := token2022.GetExtension(f.data(mint), token2022.ExtensionTokenMetadata)
	if nil != err {
		t.Fatalf("extension error: %s", err)
	}
	metadata, err := token2022.DecodeMetadata(payload)
	if nil != err {
		t.Fatalf("metadata error: %s", err)
	}
	if longURI != metadata.URI {
		t.Fatalf("uri: %q", metadata.URI)
	}
}

func TestExtensionAfterMintInitRejected(t *testing.T) {
	f := newFixture(t)
	mint := testKey(0x10)
	authority := testKey(0x20)

	size := token2022.RecordMintSize("r", "REG", "d")
	f.run(host.NewCreateAccountInstruction(
		f.payer, mint, rent.MinimumBalance(size), uint64(size), token2022.ProgramID,
	), f.payer, mint)
	f.run(token2022.NewInitializeMint2Instruction(mint, 0, authority, authority))

	// extension space must be laid out before the mint goes live
	f.runExpecting(fault.ErrAlreadyInitialised,
		token2022.NewInitializePermanentDelegateInstruction(mint, authority))
}
