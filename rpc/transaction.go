// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"encoding/base64"

	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/host"
)

// AccountMetaPayload - one account reference on the wire
type AccountMetaPayload struct {
	Key        string `json:"key"`
	IsSigner   bool   `json:"is_signer"`
	IsWritable bool   `json:"is_writable"`
}

// InstructionPayload - one instruction on the wire
type InstructionPayload struct {
	ProgramID string               `json:"program_id"`
	Accounts  []AccountMetaPayload `json:"accounts"`
	Data      string               `json:"data"`
}

// SignaturePayload - one ed25519 signature on the wire
type SignaturePayload struct {
	Key       string `json:"key"`
	Signature string `json:"signature"`
}

// TransactionPayload - the submit request body
type TransactionPayload struct {
	FeePayer     string               `json:"fee_payer"`
	Instructions []InstructionPayload `json:"instructions"`
	Signatures   []SignaturePayload   `json:"signatures"`
}

// NewTransactionPayload - encode a signed transaction for submission
func NewTransactionPayload(tx *host.Transaction) *TransactionPayload {
	payload := &TransactionPayload{
		FeePayer: tx.FeePayer.String(),
	}
	for _, instr := range tx.Instructions {
		encoded := InstructionPayload{
			ProgramID: instr.ProgramID.String(),
			Data:      base64.StdEncoding.EncodeToString(instr.Data),
		}
		for _, meta := range instr.Accounts {
			encoded.Accounts = append(encoded.Accounts, AccountMetaPayload{
				Key:        meta.Key.String(),
				IsSigner:   meta.IsSigner,
				IsWritable: meta.IsWritable,
			})
		}
		payload.Instructions = append(payload.Instructions, encoded)
	}
	for _, signature := range tx.Signatures {
		payload.Signatures = append(payload.Signatures, SignaturePayload{
			Key:       signature.Key.String(),
			Signature: base64.StdEncoding.EncodeToString(signature.Signature[:]),
		})
	}
	return payload
}

func (payload *TransactionPayload) transaction() (*host.Transaction, error) {
	feePayer, err := solana.PublicKeyFromBase58(payload.FeePayer)
	if nil != err {
		return nil, fault.ErrInvalidTransactionEncoding
	}
	tx := &host.Transaction{FeePayer: feePayer}

	for _, encoded := range payload.Instructions {
		programID, err := solana.PublicKeyFromBase58(encoded.ProgramID)
		if nil != err {
			return nil, fault.ErrInvalidTransactionEncoding
		}
		data, err := base64.StdEncoding.DecodeString(encoded.Data)
		if nil != err {
			return nil, fault.ErrInvalidTransactionEncoding
		}
		instr := host.Instruction{ProgramID: programID, Data: data}
		for _, meta := range encoded.Accounts {
			key, err := solana.PublicKeyFromBase58(meta.Key)
			if nil != err {
				return nil, fault.ErrInvalidTransactionEncoding
			}
			instr.Accounts = append(instr.Accounts, host.AccountMeta{
				Key:        key,
				IsSigner:   meta.IsSigner,
				IsWritable: meta.IsWritable,
			})
		}
		tx.Instructions = append(tx.Instructions, instr)
	}

	for _, encoded := range payload.Signatures {
		key, err := solana.PublicKeyFromBase58(encoded.Key)
		if nil != err {
			return nil, fault.ErrInvalidTransactionEncoding
		}
		raw, err := base64.StdEncoding.DecodeString(encoded.Signature)
		if nil != err || 64 != len(raw) {
			return nil, fault.ErrInvalidTransactionEncoding
		}
		signature := host.TransactionSignature{Key: key}
		copy(signature.Signature[:], raw)
		tx.Signatures = append(tx.Signatures, signature)
	}

	return tx, nil
}
