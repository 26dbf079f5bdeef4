// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type (
	ExistsError   GenericError
	InvalidError  GenericError
	NotFoundError GenericError
	ProcessError  GenericError
)

// common errors - keep in alphabetic order
var (
	ErrAccountBorrowed            = ProcessError("account data already borrowed")
	ErrAccountInUse               = ExistsError("account already in use")
	ErrAccountNotFound            = NotFoundError("account not found")
	ErrAccountNotWritable         = InvalidError("account is not writable")
	ErrAlreadyInitialised         = ExistsError("already initialised")
	ErrArithmeticOverflow         = InvalidError("arithmetic overflow")
	ErrCallDepthExceeded          = ProcessError("cross-program call depth exceeded")
	ErrClassIsFrozen              = InvalidError("class is frozen")
	ErrDataTooLong                = InvalidError("data too long")
	ErrIncorrectOwner             = InvalidError("account owner is incorrect")
	ErrInsufficientLamports       = ProcessError("insufficient lamports")
	ErrInvalidAccountData         = InvalidError("invalid account data")
	ErrInvalidEncoding            = InvalidError("invalid utf-8 encoding")
	ErrInvalidInstructionData     = InvalidError("invalid instruction data")
	ErrInvalidSeeds               = InvalidError("invalid program address seeds")
	ErrInvalidSignature           = InvalidError("invalid signature")
	ErrInvalidTransactionEncoding = InvalidError("invalid transaction encoding")
	ErrLamportsNotConserved       = ProcessError("instruction changed the total lamport balance")
	ErrMetadataTooLong            = InvalidError("metadata too long")
	ErrMissingSignature           = InvalidError("missing required signature")
	ErrModifiedByWrongProgram     = InvalidError("account modified by a program that does not own it")
	ErrNameTooLong                = InvalidError("name too long")
	ErrNotEnoughAccounts          = InvalidError("not enough accounts")
	ErrNotInitialised             = ProcessError("not initialised")
	ErrOutOfBounds                = InvalidError("read or write out of bounds")
	ErrProgramNotFound            = NotFoundError("program not found")
	ErrRecordIsFrozen             = InvalidError("record is frozen")
	ErrTooManySigners             = InvalidError("too many authorised signers")
	ErrTransactionTooLarge        = InvalidError("transaction too large")
	ErrUnknownDiscriminator       = InvalidError("unknown account discriminator")
	ErrWrongNetworkForPublicKey   = InvalidError("wrong network for public key")
)

// Error - the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// IsErrExists - determine the class of an error
func IsErrExists(e error) bool { _, ok := e.(ExistsError); return ok }

// IsErrInvalid - determine the class of an error
func IsErrInvalid(e error) bool { _, ok := e.(InvalidError); return ok }

// IsErrNotFound - determine the class of an error
func IsErrNotFound(e error) bool { _, ok := e.(NotFoundError); return ok }

// IsErrProcess - determine the class of an error
func IsErrProcess(e error) bool { _, ok := e.(ProcessError); return ok }
