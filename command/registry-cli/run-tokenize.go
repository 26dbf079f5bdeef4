// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/urfave/cli"

	"github.com/openregistry/registryd/instructions"
	"github.com/openregistry/registryd/state"
	"github.com/openregistry/registryd/token2022"
)

func runTokenize(c *cli.Context) error {
	cl, err := newClient(c, true)
	if nil != err {
		return err
	}

	class, record, err := cl.resolveRecord(c)
	if nil != err {
		return err
	}

	// the token goes to the current record owner's associated account
	live, err := cl.fetchRecord(c)
	if nil != err {
		return err
	}
	if "wallet" != live.OwnerKind {
		return fmt.Errorf("record is already tokenized, mint: %s", live.Owner)
	}
	owner, err := solana.PublicKeyFromBase58(live.Owner)
	if nil != err {
		return err
	}

	mint, _, err := state.MintAddress(instructions.ProgramID, record)
	if nil != err {
		return err
	}
	group, _, err := state.GroupMintAddress(instructions.ProgramID, class)
	if nil != err {
		return err
	}
	token, _, err := token2022.AssociatedTokenAddress(owner, mint)
	if nil != err {
		return err
	}

	err = cl.submit(instructions.NewMintTokenizedRecordInstruction(
		owner, cl.public, record, mint, group, token,
	))
	if nil != err {
		return err
	}

	return printJSON(cl.w, map[string]string{
		"mint":  mint.String(),
		"token": token.String(),
	})
}

func runDetokenize(c *cli.Context) error {
	cl, err := newClient(c, true)
	if nil != err {
		return err
	}

	_, record, err := cl.resolveRecord(c)
	if nil != err {
		return err
	}
	mint, _, err := state.MintAddress(instructions.ProgramID, record)
	if nil != err {
		return err
	}

	// the identity must hold the token
	token, _, err := token2022.AssociatedTokenAddress(cl.public, mint)
	if nil != err {
		return err
	}

	return cl.submit(instructions.NewBurnTokenizedRecordInstruction(
		cl.public, cl.public, mint, token, record,
	))
}

func runTransferToken(c *cli.Context) error {
	cl, err := newClient(c, true)
	if nil != err {
		return err
	}

	_, record, err := cl.resolveRecord(c)
	if nil != err {
		return err
	}
	receiver, err := requiredKey(c, "receiver")
	if nil != err {
		return err
	}

	mint, _, err := state.MintAddress(instructions.ProgramID, record)
	if nil != err {
		return err
	}
	source, _, err := token2022.AssociatedTokenAddress(cl.public, mint)
	if nil != err {
		return err
	}
	destination, _, err := token2022.AssociatedTokenAddress(receiver, mint)
	if nil != err {
		return err
	}

	// create the receiver's associated account in the same transaction
	err = cl.submit(
		token2022.NewCreateAssociatedTokenAccountInstruction(cl.public, destination, receiver, mint),
		instructions.NewTransferTokenizedRecordInstruction(cl.public, mint, source, destination, record),
	)
	if nil != err {
		return err
	}

	return printJSON(cl.w, map[string]string{"token": destination.String()})
}
