// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package host

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/crypto/sha3"

	"github.com/openregistry/registryd/fault"
)

// wire limit on the encoded transaction including signatures
const maximumTransactionSize = 1232

// TransactionSignature - one signature over the message digest
type TransactionSignature struct {
	Key       solana.PublicKey
	Signature [ed25519.SignatureSize]byte
}

// Transaction - a signed batch of instructions
//
// the fee payer must always sign, every account flagged as a signer in
// any instruction must sign too
type Transaction struct {
	FeePayer     solana.PublicKey
	Instructions []Instruction
	Signatures   []TransactionSignature
}

// canonical message bytes covered by all signatures
func (tx *Transaction) message() []byte {
	m := make([]byte, 0, 256)
	u32 := func(v uint32) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		m = append(m, b[:]...)
	}

	m = append(m, tx.FeePayer[:]...)
	u32(uint32(len(tx.Instructions)))
	for _, instr := range tx.Instructions {
		m = append(m, instr.ProgramID[:]...)
		u32(uint32(len(instr.Accounts)))
		for _, meta := range instr.Accounts {
			m = append(m, meta.Key[:]...)
			flags := byte(0)
			if meta.IsSigner {
				flags |= 0x01
			}
			if meta.IsWritable {
				flags |= 0x02
			}
			m = append(m, flags)
		}
		u32(uint32(len(instr.Data)))
		m = append(m, instr.Data...)
	}
	return m
}

// Digest - sha3-256 over the canonical message
func (tx *Transaction) Digest() [32]byte {
	return sha3.Sum256(tx.message())
}

// Size - encoded size including attached signatures
func (tx *Transaction) Size() int {
	perSignature := solana.PublicKeyLength + ed25519.SignatureSize
	return len(tx.message()) + 1 + perSignature*len(tx.Signatures)
}

// Sign - attach one signature over the current digest
func (tx *Transaction) Sign(private ed25519.PrivateKey) {
	digest := tx.Digest()
	entry := TransactionSignature{
		Key: solana.PublicKeyFromBytes(private.Public().(ed25519.PublicKey)),
	}
	copy(entry.Signature[:], ed25519.Sign(private, digest[:]))
	tx.Signatures = append(tx.Signatures, entry)
}

// the fee payer plus every signer meta of every instruction
func (tx *Transaction) requiredSigners() []solana.PublicKey {
	seen := map[solana.PublicKey]bool{tx.FeePayer: true}
	required := []solana.PublicKey{tx.FeePayer}
	for _, instr := range tx.Instructions {
		for _, meta := range instr.Accounts {
			if meta.IsSigner && !seen[meta.Key] {
				seen[meta.Key] = true
				required = append(required, meta.Key)
			}
		}
	}
	return required
}

// Verify - check the size limit and that every required signer has a
// valid signature over the digest
func (tx *Transaction) Verify() error {
	if tx.Size() > maximumTransactionSize {
		return fault.ErrTransactionTooLarge
	}

	digest := tx.Digest()
	attached := make(map[solana.PublicKey][ed25519.SignatureSize]byte, len(tx.Signatures))
	for _, entry := range tx.Signatures {
		attached[entry.Key] = entry.Signature
	}

	for _, key := range tx.requiredSigners() {
		signature, ok := attached[key]
		if !ok {
			return fault.ErrMissingSignature
		}
		if !ed25519.Verify(ed25519.PublicKey(key[:]), digest[:], signature[:]) {
			return fault.ErrInvalidSignature
		}
	}
	return nil
}

// ExecuteTransaction - verify and run a transaction atomically
//
// every instruction executes against one working set; the first error
// discards all changes
func (r *Runtime) ExecuteTransaction(tx *Transaction) error {
	if err := tx.Verify(); nil != err {
		return err
	}

	r.Lock()
	defer r.Unlock()

	signers := make(map[solana.PublicKey]bool)
	for _, entry := range tx.Signatures {
		signers[entry.Key] = true
	}

	ws := newWorkingSet(r)
	for i, instr := range tx.Instructions {
		if err := ws.execute(instr, signers, 0); nil != err {
			r.log.Debugf("transaction aborted: instruction: %d  program: %s  error: %s", i, instr.ProgramID, err)
			return err
		}
	}
	return ws.commit()
}
