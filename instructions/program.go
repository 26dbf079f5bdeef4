// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package instructions

import (
	"github.com/bitmark-inc/logger"
	"github.com/gagliardetto/solana-go"

	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/host"
	"github.com/openregistry/registryd/token2022"
)

// ProgramID - the registry program address
var ProgramID = solana.MustPublicKeyFromBase58("srsUi2TVUUCyGcZdopxJauk8ZBzgAaHHZCVUhm5ifPa")

// instruction discriminators
const (
	instructionCreateClass byte = iota
	instructionUpdateClassMetadata
	instructionUpdateClassFrozen
	instructionFreezeClass
	instructionCreateRecord
	instructionUpdateRecord
	instructionTransferRecord
	instructionDeleteRecord
	instructionFreezeRecord
	instructionCreateRecordAuthorityDelegate
	instructionUpdateRecordAuthorityDelegate
	instructionDeleteRecordAuthorityDelegate
	instructionMintTokenizedRecord
	instructionBurnTokenizedRecord
	instructionTransferTokenizedRecord
	instructionFreezeTokenizedRecord
	instructionUpdateTokenizedRecord
	instructionCreateCredential
	instructionUpdateCredential
)

var log *logger.L

// Register - install the registry program and the token programs it
// calls into a runtime
func Register(runtime *host.Runtime) {
	if nil == log {
		log = logger.New("registry")
	}
	token2022.Register(runtime)
	runtime.Register(ProgramID, process)
}

func process(ctx *host.Context) error {
	if 0 == len(ctx.Data) {
		return fault.ErrInvalidInstructionData
	}

	discriminator := ctx.Data[0]
	data := ctx.Data[1:]

	switch discriminator {
	case instructionCreateClass:
		log.Debug("create class")
		return createClass(ctx, data)
	case instructionUpdateClassMetadata:
		log.Debug("update class metadata")
		return updateClassMetadata(ctx, data)
	case instructionUpdateClassFrozen:
		log.Debug("update class frozen")
		return updateClassFrozen(ctx, data)
	case instructionFreezeClass:
		log.Debug("freeze class")
		return freezeClass(ctx, data)
	case instructionCreateRecord:
		log.Debug("create record")
		return createRecord(ctx, data)
	case instructionUpdateRecord:
		log.Debug("update record")
		return updateRecord(ctx, data)
	case instructionTransferRecord:
		log.Debug("transfer record")
		return transferRecord(ctx, data)
	case instructionDeleteRecord:
		log.Debug("delete record")
		return deleteRecord(ctx, data)
	case instructionFreezeRecord:
		log.Debug("freeze record")
		return freezeRecord(ctx, data)
	case instructionCreateRecordAuthorityDelegate:
		log.Debug("create record authority delegate")
		return createRecordAuthorityDelegate(ctx, data)
	case instructionUpdateRecordAuthorityDelegate:
		log.Debug("update record authority delegate")
		return updateRecordAuthorityDelegate(ctx, data)
	case instructionDeleteRecordAuthorityDelegate:
		log.Debug("delete record authority delegate")
		return deleteRecordAuthorityDelegate(ctx, data)
	case instructionMintTokenizedRecord:
		log.Debug("mint tokenized record")
		return mintTokenizedRecord(ctx, data)
	case instructionBurnTokenizedRecord:
		log.Debug("burn tokenized record")
		return burnTokenizedRecord(ctx, data)
	case instructionTransferTokenizedRecord:
		log.Debug("transfer tokenized record")
		return transferTokenizedRecord(ctx, data)
	case instructionFreezeTokenizedRecord:
		log.Debug("freeze tokenized record")
		return freezeTokenizedRecord(ctx, data)
	case instructionUpdateTokenizedRecord:
		log.Debug("update tokenized record")
		return updateTokenizedRecord(ctx, data)
	case instructionCreateCredential:
		log.Debug("create credential")
		return createCredential(ctx, data)
	case instructionUpdateCredential:
		log.Debug("update credential")
		return updateCredential(ctx, data)
	default:
		return fault.ErrInvalidInstructionData
	}
}
