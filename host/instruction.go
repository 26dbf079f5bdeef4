// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package host

import (
	"github.com/gagliardetto/solana-go"
)

// AccountMeta - one account reference inside an instruction
type AccountMeta struct {
	Key        solana.PublicKey
	IsSigner   bool
	IsWritable bool
}

// Instruction - one call into a registered program
type Instruction struct {
	ProgramID solana.PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// Meta - read-only account reference
func Meta(key solana.PublicKey) AccountMeta {
	return AccountMeta{Key: key}
}

// WritableMeta - writable account reference
func WritableMeta(key solana.PublicKey) AccountMeta {
	return AccountMeta{Key: key, IsWritable: true}
}

// SignerMeta - read-only reference that must carry a signature
func SignerMeta(key solana.PublicKey) AccountMeta {
	return AccountMeta{Key: key, IsSigner: true}
}

// WritableSignerMeta - writable reference that must carry a signature
func WritableSignerMeta(key solana.PublicKey) AccountMeta {
	return AccountMeta{Key: key, IsSigner: true, IsWritable: true}
}
