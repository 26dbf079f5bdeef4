// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/openregistry/registryd/instructions"
	"github.com/openregistry/registryd/state"
)

func runDerive(c *cli.Context) error {
	cl, err := newClient(c, c.String("authority") == "")
	if nil != err {
		return err
	}

	authority, err := cl.authorityKey(c)
	if nil != err {
		return err
	}
	className, err := requiredString(c, "class")
	if nil != err {
		return err
	}

	class, _, err := state.ClassAddress(instructions.ProgramID, authority, className)
	if nil != err {
		return err
	}
	group, _, err := state.GroupMintAddress(instructions.ProgramID, class)
	if nil != err {
		return err
	}

	addresses := map[string]string{
		"class":      class.String(),
		"group_mint": group.String(),
	}

	if recordName := c.String("record"); "" != recordName {
		record, _, err := state.RecordAddress(instructions.ProgramID, class, recordName)
		if nil != err {
			return err
		}
		delegate, _, err := state.DelegateAddress(instructions.ProgramID, record)
		if nil != err {
			return err
		}
		mint, _, err := state.MintAddress(instructions.ProgramID, record)
		if nil != err {
			return err
		}
		addresses["record"] = record.String()
		addresses["delegate"] = delegate.String()
		addresses["mint"] = mint.String()
	}

	return printJSON(cl.w, addresses)
}
