// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package state_test

import (
	"bytes"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/state"
)

func patternKey(b byte) solana.PublicKey {
	var key solana.PublicKey
	for i := range key {
		key[i] = b
	}
	return key
}

func TestClassPack(t *testing.T) {
	class := &state.Class{
		Authority:      patternKey(0x11),
		IsPermissioned: true,
		IsFrozen:       false,
		Name:           "abc",
		Metadata:       "md",
	}

	expected := []byte{
		0x02, // class
		0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11,
		0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11,
		0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11,
		0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11, 0x11,
		0x01,             // is_permissioned
		0x00,             // is_frozen
		0x03, 'a', 'b', 'c', // name
		'm', 'd', // metadata
	}

	buffer := make([]byte, class.EncodedSize())
	if err := class.Initialise(buffer); nil != err {
		t.Fatalf("initialise error: %s", err)
	}
	if !bytes.Equal(expected, buffer) {
		t.Fatalf("pack: actual: %x  expected: %x", buffer, expected)
	}

	decoded, err := state.DecodeClass(buffer)
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	if *class != *decoded {
		t.Fatalf("round trip: actual: %+v  expected: %+v", decoded, class)
	}
}

func TestRecordPack(t *testing.T) {
	record := &state.Record{
		Class:                patternKey(0x22),
		Owner:                state.WalletOwner(patternKey(0x33)),
		IsFrozen:             false,
		HasAuthorityDelegate: true,
		Expiry:               0x0102030405060708,
		Name:                 "r",
		Data:                 "1.2.3.4",
	}

	buffer := make([]byte, record.EncodedSize())
	if err := record.Initialise(buffer); nil != err {
		t.Fatalf("initialise error: %s", err)
	}

	// spot check the fixed offsets from the layout table
	if 0x03 != buffer[0] {
		t.Errorf("kind: actual: 0x%02x", buffer[0])
	}
	if 0x22 != buffer[1] || 0x33 != buffer[33] {
		t.Error("class/owner offsets wrong")
	}
	if 0x00 != buffer[65] {
		t.Errorf("is_frozen: actual: 0x%02x", buffer[65])
	}
	if 0x01 != buffer[66] {
		t.Errorf("flags: actual: 0x%02x", buffer[66])
	}
	expectedExpiry := []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	if !bytes.Equal(expectedExpiry, buffer[67:75]) {
		t.Errorf("expiry: actual: %x", buffer[67:75])
	}
	if 0x01 != buffer[75] || 'r' != buffer[76] {
		t.Error("name offsets wrong")
	}
	if "1.2.3.4" != string(buffer[77:]) {
		t.Errorf("data: actual: %q", buffer[77:])
	}

	decoded, err := state.DecodeRecord(buffer)
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	if *record != *decoded {
		t.Fatalf("round trip: actual: %+v  expected: %+v", decoded, record)
	}
}

func TestRecordTokenOwner(t *testing.T) {
	mint := patternKey(0x44)
	record := &state.Record{
		Class:    patternKey(0x22),
		Owner:    state.TokenOwner(mint),
		IsFrozen: true,
		Name:     "t",
	}

	buffer := make([]byte, record.EncodedSize())
	if err := record.Initialise(buffer); nil != err {
		t.Fatalf("initialise error: %s", err)
	}
	if 0x02 != buffer[66] {
		t.Errorf("flags: actual: 0x%02x  expected: 0x02", buffer[66])
	}

	decoded, err := state.DecodeRecord(buffer)
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	if state.OwnerToken != decoded.Owner.Kind || mint != decoded.Owner.Key {
		t.Fatalf("owner: actual: %+v", decoded.Owner)
	}

	// undefined flag bits must be rejected
	buffer[66] |= 0x80
	if _, err := state.DecodeRecord(buffer); fault.ErrInvalidAccountData != err {
		t.Fatalf("unexpected error: %v  expected: %v", err, fault.ErrInvalidAccountData)
	}
}

func TestCredentialRoundTrip(t *testing.T) {
	credential := &state.Credential{
		Authority: patternKey(0x55),
		Name:      "ops",
		AuthorizedSigners: []solana.PublicKey{
			patternKey(0x66),
			patternKey(0x77),
		},
	}

	buffer := make([]byte, credential.EncodedSize())
	if err := credential.Initialise(buffer); nil != err {
		t.Fatalf("initialise error: %s", err)
	}

	decoded, err := state.DecodeCredential(buffer)
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	if credential.Authority != decoded.Authority ||
		credential.Name != decoded.Name ||
		2 != len(decoded.AuthorizedSigners) ||
		credential.AuthorizedSigners[0] != decoded.AuthorizedSigners[0] ||
		credential.AuthorizedSigners[1] != decoded.AuthorizedSigners[1] {
		t.Fatalf("round trip: actual: %+v  expected: %+v", decoded, credential)
	}

	if !decoded.IsAuthorized(patternKey(0x55)) || !decoded.IsAuthorized(patternKey(0x77)) {
		t.Error("authority or signer not authorised")
	}
	if decoded.IsAuthorized(patternKey(0x99)) {
		t.Error("stranger is authorised")
	}
}

func TestCredentialToggleSigner(t *testing.T) {
	credential := &state.Credential{
		Authority: patternKey(0x55),
		Name:      "ops",
	}

	key := patternKey(0x66)
	if err := credential.ToggleSigner(key); nil != err {
		t.Fatalf("toggle error: %s", err)
	}
	if 1 != len(credential.AuthorizedSigners) {
		t.Fatalf("signers: actual: %d  expected: 1", len(credential.AuthorizedSigners))
	}

	// toggling the same key removes it
	if err := credential.ToggleSigner(key); nil != err {
		t.Fatalf("toggle error: %s", err)
	}
	if 0 != len(credential.AuthorizedSigners) {
		t.Fatalf("signers: actual: %d  expected: 0", len(credential.AuthorizedSigners))
	}

	for i := 0; i < state.MaxCredentialKeys; i += 1 {
		if err := credential.ToggleSigner(patternKey(byte(i + 1))); nil != err {
			t.Fatalf("%d: toggle error: %s", i, err)
		}
	}
	if err := credential.ToggleSigner(patternKey(0xaa)); fault.ErrTooManySigners != err {
		t.Fatalf("unexpected error: %v  expected: %v", err, fault.ErrTooManySigners)
	}
}

func TestDelegateRoundTrip(t *testing.T) {
	delegate := &state.RecordDelegate{
		Record:            patternKey(0x01),
		UpdateAuthority:   patternKey(0x02),
		FreezeAuthority:   patternKey(0x03),
		TransferAuthority: patternKey(0x04),
		BurnAuthority:     patternKey(0x05),
	}

	buffer := make([]byte, state.RecordDelegateSize)
	if err := delegate.Initialise(buffer); nil != err {
		t.Fatalf("initialise error: %s", err)
	}

	// fixed offsets from the layout table
	if 0x04 != buffer[0] {
		t.Errorf("kind: actual: 0x%02x", buffer[0])
	}
	for i, expected := range []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x00} {
		offset := 1 + 32*i
		if expected != buffer[offset] {
			t.Errorf("offset %d: actual: 0x%02x  expected: 0x%02x", offset, buffer[offset], expected)
		}
	}

	decoded, err := state.DecodeRecordDelegate(buffer)
	if nil != err {
		t.Fatalf("decode error: %s", err)
	}
	if *delegate != *decoded {
		t.Fatalf("round trip: actual: %+v  expected: %+v", decoded, delegate)
	}
	if decoded.HasAuthorityProgram() {
		t.Error("zero authority program reported present")
	}
}

func TestReinitialise(t *testing.T) {
	class := &state.Class{Authority: patternKey(1), Name: "x"}
	buffer := make([]byte, class.EncodedSize())
	if err := class.Initialise(buffer); nil != err {
		t.Fatalf("initialise error: %s", err)
	}
	if err := class.Initialise(buffer); fault.ErrAlreadyInitialised != err {
		t.Fatalf("unexpected error: %v  expected: %v", err, fault.ErrAlreadyInitialised)
	}

	// a tombstoned buffer can never be initialised either
	state.Tombstone(buffer)
	if err := class.Initialise(buffer); fault.ErrAlreadyInitialised != err {
		t.Fatalf("unexpected error: %v  expected: %v", err, fault.ErrAlreadyInitialised)
	}
}

// a tombstoned buffer is rejected by every decode
func TestTombstoneRejected(t *testing.T) {
	buffer := make([]byte, 256)
	state.Tombstone(buffer)

	if _, err := state.DecodeClass(buffer); !fault.IsErrInvalid(err) {
		t.Errorf("class: unexpected error: %v", err)
	}
	if _, err := state.DecodeRecord(buffer); !fault.IsErrInvalid(err) {
		t.Errorf("record: unexpected error: %v", err)
	}
	if _, err := state.DecodeCredential(buffer); !fault.IsErrInvalid(err) {
		t.Errorf("credential: unexpected error: %v", err)
	}
	if _, err := state.DecodeRecordDelegate(buffer[:state.RecordDelegateSize]); !fault.IsErrInvalid(err) {
		t.Errorf("delegate: unexpected error: %v", err)
	}
}

func TestTombstoneClearsBuffer(t *testing.T) {
	buffer := []byte{0x03, 0xaa, 0xbb, 0xcc}
	state.Tombstone(buffer)
	if 0xff != buffer[0] || 0 != buffer[1] || 0 != buffer[2] || 0 != buffer[3] {
		t.Fatalf("tombstone left stale bytes: %x", buffer)
	}
}

func TestNameTooLong(t *testing.T) {
	class := &state.Class{
		Authority: patternKey(1),
		Name:      "0123456789012345678901234567890123456789",
	}
	buffer := make([]byte, class.EncodedSize())
	if err := class.Initialise(buffer); fault.ErrNameTooLong != err {
		t.Fatalf("unexpected error: %v  expected: %v", err, fault.ErrNameTooLong)
	}
}

func TestInvalidEncodingRejected(t *testing.T) {
	record := &state.Record{
		Class: patternKey(1),
		Owner: state.WalletOwner(patternKey(2)),
		Name:  "n",
		Data:  string([]byte{0xff, 0xfe}),
	}
	buffer := make([]byte, record.EncodedSize())
	if err := record.Initialise(buffer); fault.ErrInvalidEncoding != err {
		t.Fatalf("unexpected error: %v  expected: %v", err, fault.ErrInvalidEncoding)
	}
}

func TestRecordExpiry(t *testing.T) {
	record := &state.Record{Expiry: 0}
	if record.HasExpired(1000) {
		t.Error("zero expiry expired")
	}
	record.Expiry = 999
	if !record.HasExpired(1000) {
		t.Error("past expiry not expired")
	}
	record.Expiry = 1001
	if record.HasExpired(1000) {
		t.Error("future expiry expired")
	}
}

// the derived addresses must be deterministic and distinct per seed tag
func TestDerivedAddresses(t *testing.T) {
	programID := patternKey(0x50)
	authority := patternKey(0x01)

	class, classBump, err := state.ClassAddress(programID, authority, "domains")
	if nil != err {
		t.Fatalf("derive error: %s", err)
	}
	again, _, _ := state.ClassAddress(programID, authority, "domains")
	if class != again {
		t.Fatal("derivation is not deterministic")
	}

	credential, _, err := state.CredentialAddress(programID, authority, "domains")
	if nil != err {
		t.Fatalf("derive error: %s", err)
	}
	if class == credential {
		t.Fatal("distinct seed tags collided")
	}

	// the signing seeds must reproduce the derived address exactly
	derived, err := solana.CreateProgramAddress(state.ClassSeeds(authority, "domains", classBump), programID)
	if nil != err {
		t.Fatalf("create error: %s", err)
	}
	if class != derived {
		t.Fatalf("seeds do not reproduce the address: %s != %s", derived, class)
	}
}
