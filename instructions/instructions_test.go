// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package instructions_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/host"
	"github.com/openregistry/registryd/instructions"
	"github.com/openregistry/registryd/state"
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
	t         *testing.T
	runtime   *host.Runtime
	ledger    *storage.MemoryLedger
	authority solana.PublicKey // class authority, funds everything
	owner     solana.PublicKey
	other     solana.PublicKey
}

func newFixture(t *testing.T) *fixture {
	ledger := storage.NewMemoryLedger()
	f := &fixture{
		t:         t,
		ledger:    ledger,
		authority: testKey(0x01),
		owner:     testKey(0x02),
		other:     testKey(0x03),
	}
	for _, key := range []solana.PublicKey{f.authority, f.owner, f.other} {
		_ = ledger.Put(key, &host.Account{
			Lamports: 100_000_000_000,
			Owner:    solana.SystemProgramID,
		})
	}
	f.runtime = host.NewRuntime(ledger)
	instructions.Register(f.runtime)
	return f
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

func (f *fixture) account(key solana.PublicKey) *host.Account {
	f.t.Helper()
	account, err := f.ledger.Get(key)
	if nil != err {
		f.t.Fatalf("get error: %s", err)
	}
	return account
}

func (f *fixture) classAddress(name string) solana.PublicKey {
	f.t.Helper()
	address, _, err := state.ClassAddress(instructions.ProgramID, f.authority, name)
	if nil != err {
		f.t.Fatalf("derive error: %s", err)
	}
	return address
}

func (f *fixture) recordAddress(class solana.PublicKey, name string) solana.PublicKey {
	f.t.Helper()
	address, _, err := state.RecordAddress(instructions.ProgramID, class, name)
	if nil != err {
		f.t.Fatalf("derive error: %s", err)
	}
	return address
}

func (f *fixture) delegateAddress(record solana.PublicKey) solana.PublicKey {
	f.t.Helper()
	address, _, err := state.DelegateAddress(instructions.ProgramID, record)
	if nil != err {
		f.t.Fatalf("derive error: %s", err)
	}
	return address
}

func (f *fixture) makeClass(name string, permissioned bool) solana.PublicKey {
	f.t.Helper()
	class := f.classAddress(name)
	f.run(instructions.NewCreateClassInstruction(
		f.authority, class, permissioned, false, name, "v1",
	), f.authority)
	return class
}

func (f *fixture) makeRecord(class solana.PublicKey, name string, content string) solana.PublicKey {
	f.t.Helper()
	record := f.recordAddress(class, name)
	f.run(instructions.NewCreateRecordInstruction(
		f.owner, f.owner, class, record, 0, name, content,
	), f.owner)
	return record
}

func (f *fixture) readRecord(key solana.PublicKey) *state.Record {
	f.t.Helper()
	record, err := state.DecodeRecord(f.account(key).Data)
	if nil != err {
		f.t.Fatalf("decode error: %s", err)
	}
	return record
}

func TestClassLifecycle(t *testing.T) {
	f := newFixture(t)
	class := f.makeClass("names", false)

	decoded, err := state.DecodeClass(f.account(class).Data)
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	if f.authority != decoded.Authority || "names" != decoded.Name || "v1" != decoded.Metadata {
		t.Fatalf("class: %+v", decoded)
	}

	// metadata growth and shrink both resize the account
	f.run(instructions.NewUpdateClassMetadataInstruction(f.authority, class, "a considerably longer metadata value"), f.authority)
	f.run(instructions.NewUpdateClassMetadataInstruction(f.authority, class, "v2"), f.authority)
	decoded, _ = state.DecodeClass(f.account(class).Data)
	if "v2" != decoded.Metadata {
		t.Fatalf("metadata: %q", decoded.Metadata)
	}

	// only the class authority may touch it
	f.runExpecting(fault.ErrMissingSignature,
		instructions.NewUpdateClassMetadataInstruction(f.other, class, "x"), f.other)

	// setting the current frozen state again is a silent no-op
	f.run(instructions.NewUpdateClassFrozenInstruction(f.authority, class, false), f.authority)

	f.run(instructions.NewFreezeClassInstruction(f.authority, class), f.authority)
	f.run(instructions.NewFreezeClassInstruction(f.authority, class), f.authority)

	// a frozen class rejects record creation
	record := f.recordAddress(class, "blocked")
	f.runExpecting(fault.ErrClassIsFrozen,
		instructions.NewCreateRecordInstruction(f.owner, f.owner, class, record, 0, "blocked", "x"),
		f.owner)
}

func TestRecordLifecycle(t *testing.T) {
	f := newFixture(t)
	class := f.makeClass("names", false)
	record := f.makeRecord(class, "alice", "1.2.3.4")

	decoded := f.readRecord(record)
	if class != decoded.Class || state.OwnerWallet != decoded.Owner.Kind || f.owner != decoded.Owner.Key {
		t.Fatalf("record: %+v", decoded)
	}
	if "alice" != decoded.Name || "1.2.3.4" != decoded.Data {
		t.Fatalf("record: %+v", decoded)
	}

	// update grows the account
	f.run(instructions.NewUpdateRecordInstruction(f.owner, record, "a far longer payload than before"), f.owner)
	if "a far longer payload than before" != f.readRecord(record).Data {
		t.Fatal("update lost")
	}

	// transfer, then the old owner is locked out
	f.run(instructions.NewTransferRecordInstruction(f.owner, record, f.other), f.owner)
	if f.other != f.readRecord(record).Owner.Key {
		t.Fatal("transfer lost")
	}
	f.runExpecting(fault.ErrMissingSignature,
		instructions.NewUpdateRecordInstruction(f.owner, record, "stale"), f.owner)

	// freeze bars transfer, re-freezing the same state is an error
	f.run(instructions.NewFreezeRecordInstruction(f.other, record, true), f.other)
	f.runExpecting(fault.ErrRecordIsFrozen,
		instructions.NewTransferRecordInstruction(f.other, record, f.owner), f.other)
	f.runExpecting(fault.ErrInvalidAccountData,
		instructions.NewFreezeRecordInstruction(f.other, record, true), f.other)
	f.run(instructions.NewFreezeRecordInstruction(f.other, record, false), f.other)

	// delete tombstones the account and refunds the payer
	payerBefore := f.account(f.other).Lamports
	f.run(instructions.NewDeleteRecordInstruction(f.other, f.other, record), f.other)

	remains := f.account(record)
	if 1 != len(remains.Data) || 0xFF != remains.Data[0] {
		t.Fatalf("tombstone: %x", remains.Data)
	}
	if f.account(f.other).Lamports <= payerBefore {
		t.Fatal("deposit not refunded")
	}

	// the tombstoned address can never be reinitialised
	f.runExpecting(fault.ErrAccountInUse,
		instructions.NewCreateRecordInstruction(f.owner, f.owner, class, record, 0, "alice", "again"),
		f.owner)
}

func TestRecordDelegates(t *testing.T) {
	f := newFixture(t)
	delegateKey := testKey(0x10)
	_ = f.ledger.Put(delegateKey, &host.Account{Lamports: 1_000_000_000, Owner: solana.SystemProgramID})

	class := f.makeClass("names", false)
	record := f.makeRecord(class, "alice", "d")
	delegate := f.delegateAddress(record)

	f.run(instructions.NewCreateRecordAuthorityDelegateInstruction(
		f.owner, record, delegate,
		solana.PublicKey{}, delegateKey, solana.PublicKey{}, solana.PublicKey{}, solana.PublicKey{},
	), f.owner)
	if !f.readRecord(record).HasAuthorityDelegate {
		t.Fatal("delegate flag not set")
	}

	// the freeze delegate may freeze but nothing else
	f.run(instructions.NewFreezeRecordInstruction(delegateKey, record, true, delegate), delegateKey)
	f.runExpecting(fault.ErrMissingSignature,
		instructions.NewUpdateRecordInstruction(delegateKey, record, "x", delegate), delegateKey)
	f.runExpecting(fault.ErrRecordIsFrozen,
		instructions.NewTransferRecordInstruction(delegateKey, record, f.other, delegate), delegateKey)
	f.run(instructions.NewFreezeRecordInstruction(delegateKey, record, false, delegate), delegateKey)

	// the owner widens the delegation, then the delegate may transfer
	f.run(instructions.NewUpdateRecordAuthorityDelegateInstruction(
		f.owner, record, delegate,
		solana.PublicKey{}, delegateKey, delegateKey, solana.PublicKey{}, solana.PublicKey{},
	), f.owner)
	f.run(instructions.NewTransferRecordInstruction(delegateKey, record, f.other, delegate), delegateKey)
	if f.other != f.readRecord(record).Owner.Key {
		t.Fatal("delegate transfer lost")
	}

	// only the current owner may detach the delegation
	f.runExpecting(fault.ErrMissingSignature,
		instructions.NewDeleteRecordAuthorityDelegateInstruction(f.owner, record, delegate), f.owner)
	f.run(instructions.NewDeleteRecordAuthorityDelegateInstruction(f.other, record, delegate), f.other)
	if f.readRecord(record).HasAuthorityDelegate {
		t.Fatal("delegate flag not cleared")
	}
}

func TestDelegateProgramEncoding(t *testing.T) {
	f := newFixture(t)
	programKey := testKey(0x12)

	class := f.makeClass("names", false)
	record := f.makeRecord(class, "alice", "d")
	delegate := f.delegateAddress(record)

	// the common case: no program restriction
	f.run(instructions.NewCreateRecordAuthorityDelegateInstruction(
		f.owner, record, delegate,
		f.other, f.other, f.other, f.other, solana.PublicKey{},
	), f.owner)

	decoded, err := state.DecodeRecordDelegate(f.account(delegate).Data)
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	if decoded.HasAuthorityProgram() {
		t.Fatalf("unexpected program restriction: %s", decoded.AuthorityProgram)
	}

	// a present program survives the round trip
	f.run(instructions.NewUpdateRecordAuthorityDelegateInstruction(
		f.owner, record, delegate,
		f.other, f.other, f.other, f.other, programKey,
	), f.owner)

	decoded, err = state.DecodeRecordDelegate(f.account(delegate).Data)
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	if programKey != decoded.AuthorityProgram {
		t.Fatalf("program: %s", decoded.AuthorityProgram)
	}
}

func TestDeleteRecordClosesDelegate(t *testing.T) {
	f := newFixture(t)
	class := f.makeClass("names", false)
	record := f.makeRecord(class, "alice", "d")
	delegate := f.delegateAddress(record)

	f.run(instructions.NewCreateRecordAuthorityDelegateInstruction(
		f.owner, record, delegate,
		f.other, f.other, f.other, f.other, solana.PublicKey{},
	), f.owner)

	f.run(instructions.NewDeleteRecordInstruction(f.owner, f.owner, record, delegate), f.owner)

	remains := f.account(delegate)
	if 1 != len(remains.Data) || 0xFF != remains.Data[0] {
		t.Fatalf("delegate not tombstoned: %x", remains.Data)
	}
}

func TestPermissionedClass(t *testing.T) {
	f := newFixture(t)
	class := f.makeClass("members", true)
	signerKey := testKey(0x11)
	_ = f.ledger.Put(signerKey, &host.Account{Lamports: 1_000_000_000, Owner: solana.SystemProgramID})

	// without a permit the creation is refused
	record := f.recordAddress(class, "alice")
	f.runExpecting(fault.ErrMissingSignature,
		instructions.NewCreateRecordInstruction(f.owner, f.owner, class, record, 0, "alice", "d"),
		f.owner)

	// the class authority may permit directly
	f.run(instructions.NewPermissionedCreateRecordInstruction(
		f.owner, f.owner, class, record, f.authority, solana.PublicKey{}, 0, "alice", "d",
	), f.owner, f.authority)

	// a credential signer may permit too
	credential, _, err := state.CredentialAddress(instructions.ProgramID, f.authority, "issuers")
	if nil != err {
		t.Fatalf("derive error: %s", err)
	}
	f.run(instructions.NewCreateCredentialInstruction(
		f.authority, credential, "issuers", []solana.PublicKey{signerKey},
	), f.authority)

	second := f.recordAddress(class, "bob")
	f.run(instructions.NewPermissionedCreateRecordInstruction(
		f.owner, f.owner, class, second, signerKey, credential, 0, "bob", "d",
	), f.owner, signerKey)

	// toggling the signer out revokes the permission
	f.run(instructions.NewUpdateCredentialInstruction(
		f.authority, credential, []solana.PublicKey{signerKey},
	), f.authority)
	third := f.recordAddress(class, "carol")
	f.runExpecting(fault.ErrMissingSignature,
		instructions.NewPermissionedCreateRecordInstruction(
			f.owner, f.owner, class, third, signerKey, credential, 0, "carol", "d",
		), f.owner, signerKey)
}

func TestCredentialToggle(t *testing.T) {
	f := newFixture(t)
	credential, _, err := state.CredentialAddress(instructions.ProgramID, f.authority, "issuers")
	if nil != err {
		t.Fatalf("derive error: %s", err)
	}
	a := testKey(0x21)
	b := testKey(0x22)

	f.run(instructions.NewCreateCredentialInstruction(
		f.authority, credential, "issuers", []solana.PublicKey{a},
	), f.authority)

	// one call removes a and adds b
	f.run(instructions.NewUpdateCredentialInstruction(
		f.authority, credential, []solana.PublicKey{a, b},
	), f.authority)

	decoded, err := state.DecodeCredential(f.account(credential).Data)
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	if 1 != len(decoded.AuthorizedSigners) || b != decoded.AuthorizedSigners[0] {
		t.Fatalf("signers: %v", decoded.AuthorizedSigners)
	}

	// an outsider may not toggle
	f.runExpecting(fault.ErrMissingSignature,
		instructions.NewUpdateCredentialInstruction(f.other, credential, []solana.PublicKey{a}),
		f.other)
}

// tokenize helpers

type tokenized struct {
	class  solana.PublicKey
	record solana.PublicKey
	mint   solana.PublicKey
	group  solana.PublicKey
	token  solana.PublicKey
}

func (f *fixture) tokenize(class solana.PublicKey, record solana.PublicKey) tokenized {
	f.t.Helper()
	mint, _, err := state.MintAddress(instructions.ProgramID, record)
	if nil != err {
		f.t.Fatalf("derive error: %s", err)
	}
	recordState := f.readRecord(record)
	group, _, err := state.GroupMintAddress(instructions.ProgramID, recordState.Class)
	if nil != err {
		f.t.Fatalf("derive error: %s", err)
	}
	token, _, err := token2022.AssociatedTokenAddress(recordState.Owner.Key, mint)
	if nil != err {
		f.t.Fatalf("derive error: %s", err)
	}

	f.run(instructions.NewMintTokenizedRecordInstruction(
		recordState.Owner.Key, recordState.Owner.Key, record, mint, group, token,
	), recordState.Owner.Key)

	return tokenized{class: class, record: record, mint: mint, group: group, token: token}
}

func (f *fixture) makeATA(wallet solana.PublicKey, mint solana.PublicKey) solana.PublicKey {
	f.t.Helper()
	ata, _, err := token2022.AssociatedTokenAddress(wallet, mint)
	if nil != err {
		f.t.Fatalf("derive error: %s", err)
	}
	f.run(token2022.NewCreateAssociatedTokenAccountInstruction(f.authority, ata, wallet, mint), f.authority)
	return ata
}

func TestTokenizedLifecycle(t *testing.T) {
	f := newFixture(t)
	class := f.makeClass("names", false)
	record := f.makeRecord(class, "alice", "1.2.3.4")
	tk := f.tokenize(class, record)

	decoded := f.readRecord(record)
	if state.OwnerToken != decoded.Owner.Kind || tk.mint != decoded.Owner.Key || !decoded.IsFrozen {
		t.Fatalf("record after mint: %+v", decoded)
	}

	// the holder's token account carries the single unit
	token, err := token2022.DecodeTokenAccount(f.account(tk.token).Data)
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	if 1 != token.Amount || f.owner != token.Owner {
		t.Fatalf("token account: %+v", token)
	}

	// the mint metadata mirrors the record
	payload, err := token2022.GetExtension(f.account(tk.mint).Data, token2022.ExtensionTokenMetadata)
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

	// transferring the unit changes the effective owner
	otherToken := f.makeATA(f.other, tk.mint)
	f.run(instructions.NewTransferTokenizedRecordInstruction(
		f.owner, tk.mint, tk.token, otherToken, record,
	), f.owner)

	// the previous holder can no longer act on the record
	f.runExpecting(fault.ErrMissingSignature,
		instructions.NewUpdateTokenizedRecordInstruction(f.owner, tk.mint, otherToken, record, "x"),
		f.owner)

	// burn hands the record to the current holder as a plain wallet owner
	f.run(instructions.NewBurnTokenizedRecordInstruction(
		f.other, f.other, tk.mint, otherToken, record,
	), f.other)

	decoded = f.readRecord(record)
	if state.OwnerWallet != decoded.Owner.Kind || f.other != decoded.Owner.Key || decoded.IsFrozen {
		t.Fatalf("record after burn: %+v", decoded)
	}
	if _, err := f.ledger.Get(tk.mint); !fault.IsErrNotFound(err) {
		t.Fatalf("mint not closed: %v", err)
	}
}

func TestTokenizedGroupReuse(t *testing.T) {
	f := newFixture(t)
	class := f.makeClass("names", false)

	first := f.makeRecord(class, "alice", "d")
	tk := f.tokenize(class, first)

	second := f.makeRecord(class, "bob", "d")
	f.tokenize(class, second)

	// both mints joined the one group created for the class
	groupPayload, err := token2022.GetExtension(f.account(tk.group).Data, token2022.ExtensionTokenGroup)
	if nil != err {
		t.Fatalf("extension error: %s", err)
	}
	// size u64 at offset 64 of the group payload
	if 2 != groupPayload[64] {
		t.Fatalf("group size: %d", groupPayload[64])
	}
}

func TestTokenizedFreeze(t *testing.T) {
	f := newFixture(t)
	class := f.makeClass("names", false)
	record := f.makeRecord(class, "alice", "d")
	tk := f.tokenize(class, record)

	// thawing an already thawed token account is refused
	f.runExpecting(fault.ErrInvalidAccountData,
		instructions.NewFreezeTokenizedRecordInstruction(f.owner, tk.mint, tk.token, record, false),
		f.owner)

	f.run(instructions.NewFreezeTokenizedRecordInstruction(f.owner, tk.mint, tk.token, record, true), f.owner)

	// frozen unit cannot move
	otherToken := f.makeATA(f.other, tk.mint)
	f.runExpecting(fault.ErrRecordIsFrozen,
		instructions.NewTransferTokenizedRecordInstruction(f.owner, tk.mint, tk.token, otherToken, record),
		f.owner)

	f.run(instructions.NewFreezeTokenizedRecordInstruction(f.owner, tk.mint, tk.token, record, false), f.owner)
	f.run(instructions.NewTransferTokenizedRecordInstruction(f.owner, tk.mint, tk.token, otherToken, record), f.owner)
}

func TestTokenizedUpdate(t *testing.T) {
	f := newFixture(t)
	class := f.makeClass("names", false)
	record := f.makeRecord(class, "alice", "short")
	tk := f.tokenize(class, record)

	longData := "a considerably longer data value that forces both accounts to grow"
	f.run(instructions.NewUpdateTokenizedRecordInstruction(
		f.owner, tk.mint, tk.token, record, longData,
	), f.owner)

	if longData != f.readRecord(record).Data {
		t.Fatal("record data not updated")
	}

	payload, err := token2022.GetExtension(f.account(tk.mint).Data, token2022.ExtensionTokenMetadata)
	if nil != err {
		t.Fatalf("extension error: %s", err)
	}
	metadata, err := token2022.DecodeMetadata(payload)
	if nil != err {
		t.Fatalf("metadata error: %s", err)
	}
	if longData != metadata.URI {
		t.Fatalf("uri: %q", metadata.URI)
	}
}
