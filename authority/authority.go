// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package authority

import (
	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/host"
	"github.com/openregistry/registryd/state"
	"github.com/openregistry/registryd/token2022"
)

// Capability - the action a signer wants to perform
type Capability byte

const (
	Update Capability = iota
	Freeze
	Transfer
	Burn
)

func (c Capability) String() string {
	switch c {
	case Update:
		return "update"
	case Freeze:
		return "freeze"
	case Transfer:
		return "transfer"
	case Burn:
		return "burn"
	default:
		return "unknown"
	}
}

// Cleanup - an obligation the caller must execute after a granted check
type Cleanup byte

const (
	CleanupNone Cleanup = iota

	// the record's delegate account is stale and must be closed
	CleanupCloseDelegate
)

// Decision - outcome of a granted capability check
type Decision struct {
	Cleanup Cleanup
}

// the delegate field that answers for one capability
func delegateAuthority(delegate *state.RecordDelegate, capability Capability) solana.PublicKey {
	switch capability {
	case Update:
		return delegate.UpdateAuthority
	case Freeze:
		return delegate.FreezeAuthority
	case Transfer:
		return delegate.TransferAuthority
	case Burn:
		return delegate.BurnAuthority
	default:
		return solana.PublicKey{}
	}
}

// common record checks: program ownership and the frozen transfer bar
func checkRecordCommon(programID solana.PublicKey, recordInfo *host.AccountInfo, record *state.Record, capability Capability) error {
	if programID != recordInfo.Owner() {
		return fault.ErrIncorrectOwner
	}
	// frozen records cannot change hands regardless of who asks
	if record.IsFrozen && Transfer == capability {
		return fault.ErrRecordIsFrozen
	}
	return nil
}

// owner burn with a delegate still attached obliges the caller to
// close the stale delegate; no other capability triggers it
func ownerDecision(record *state.Record, capability Capability) Decision {
	if Burn == capability && record.HasAuthorityDelegate {
		return Decision{Cleanup: CleanupCloseDelegate}
	}
	return Decision{}
}

// fall through to the delegate account when the signer is not the owner
func checkDelegate(programID solana.PublicKey, signer *host.AccountInfo, recordInfo *host.AccountInfo, record *state.Record, capability Capability, delegateInfo *host.AccountInfo) (Decision, error) {
	if !record.HasAuthorityDelegate {
		return Decision{}, fault.ErrMissingSignature
	}
	if nil == delegateInfo {
		return Decision{}, fault.ErrMissingSignature
	}

	// a wrong delegate account is treated exactly like no delegate
	expected, _, err := state.DelegateAddress(programID, recordInfo.Key)
	if nil != err {
		return Decision{}, fault.ErrInvalidSeeds
	}
	if expected != delegateInfo.Key || programID != delegateInfo.Owner() {
		return Decision{}, fault.ErrMissingSignature
	}

	data, release, err := delegateInfo.BorrowData()
	if nil != err {
		return Decision{}, err
	}
	delegate, err := state.DecodeRecordDelegate(data)
	release()
	if nil != err {
		return Decision{}, err
	}
	if recordInfo.Key != delegate.Record {
		return Decision{}, fault.ErrInvalidAccountData
	}
	if delegateAuthority(delegate, capability) != signer.Key {
		return Decision{}, fault.ErrMissingSignature
	}
	return Decision{}, nil
}

// CheckRecord - may the signer exercise one capability on a native
// (wallet owned) record
//
// the signer account must actually have signed; the optional delegate
// account is only consulted when the signer is not the owner
func CheckRecord(programID solana.PublicKey, signer *host.AccountInfo, recordInfo *host.AccountInfo, record *state.Record, capability Capability, delegateInfo *host.AccountInfo) (Decision, error) {
	if !signer.IsSigner {
		return Decision{}, fault.ErrMissingSignature
	}
	if err := checkRecordCommon(programID, recordInfo, record, capability); nil != err {
		return Decision{}, err
	}
	if state.OwnerWallet != record.Owner.Kind {
		return Decision{}, fault.ErrInvalidAccountData
	}

	if signer.Key == record.Owner.Key {
		return ownerDecision(record, capability), nil
	}
	return checkDelegate(programID, signer, recordInfo, record, capability, delegateInfo)
}

// CheckTokenizedRecord - the tokenized variant: ownership is whoever
// currently holds the single unit of the record's mint
//
// the token account's stored owner field is read fresh on every check,
// a cached holder is never trusted.  a tokenized record carries
// is_frozen permanently, the live frozen state is the token account's
func CheckTokenizedRecord(programID solana.PublicKey, signer *host.AccountInfo, recordInfo *host.AccountInfo, record *state.Record, capability Capability, mintInfo *host.AccountInfo, tokenInfo *host.AccountInfo, delegateInfo *host.AccountInfo) (Decision, error) {
	if !signer.IsSigner {
		return Decision{}, fault.ErrMissingSignature
	}
	if programID != recordInfo.Owner() {
		return Decision{}, fault.ErrIncorrectOwner
	}
	if state.OwnerToken != record.Owner.Kind {
		return Decision{}, fault.ErrInvalidAccountData
	}
	if mintInfo.Key != record.Owner.Key {
		return Decision{}, fault.ErrInvalidAccountData
	}
	if token2022.ProgramID != mintInfo.Owner() {
		return Decision{}, fault.ErrIncorrectOwner
	}

	mintData, release, err := mintInfo.BorrowData()
	if nil != err {
		return Decision{}, err
	}
	isMint := token2022.IsMintAccount(mintData)
	release()
	if !isMint {
		return Decision{}, fault.ErrInvalidAccountData
	}

	if token2022.ProgramID != tokenInfo.Owner() {
		return Decision{}, fault.ErrIncorrectOwner
	}
	tokenData, release, err := tokenInfo.BorrowData()
	if nil != err {
		return Decision{}, err
	}
	token, err := token2022.DecodeTokenAccount(tokenData)
	release()
	if nil != err {
		return Decision{}, err
	}
	if mintInfo.Key != token.Mint {
		return Decision{}, fault.ErrInvalidAccountData
	}
	if token.IsFrozen && Transfer == capability {
		return Decision{}, fault.ErrRecordIsFrozen
	}

	if 1 == token.Amount && signer.Key == token.Owner {
		return ownerDecision(record, capability), nil
	}
	return checkDelegate(programID, signer, recordInfo, record, capability, delegateInfo)
}

// CheckClass - may the signer act on the class at all
func CheckClass(programID solana.PublicKey, signer *host.AccountInfo, classInfo *host.AccountInfo, class *state.Class) error {
	if programID != classInfo.Owner() {
		return fault.ErrIncorrectOwner
	}
	if !signer.IsSigner || signer.Key != class.Authority {
		return fault.ErrMissingSignature
	}
	return nil
}

// CheckRecordCreation - may records be created under the class right
// now; a frozen class rejects every creation regardless of signer
func CheckRecordCreation(programID solana.PublicKey, classInfo *host.AccountInfo, class *state.Class) error {
	if programID != classInfo.Owner() {
		return fault.ErrIncorrectOwner
	}
	if class.IsFrozen {
		return fault.ErrClassIsFrozen
	}
	return nil
}
