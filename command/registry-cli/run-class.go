// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/openregistry/registryd/instructions"
	"github.com/openregistry/registryd/rpc"
	"github.com/openregistry/registryd/state"
)

func runCreateClass(c *cli.Context) error {
	cl, err := newClient(c, true)
	if nil != err {
		return err
	}

	name, err := requiredString(c, "name")
	if nil != err {
		return err
	}
	class, _, err := state.ClassAddress(instructions.ProgramID, cl.public, name)
	if nil != err {
		return err
	}

	err = cl.submit(instructions.NewCreateClassInstruction(
		cl.public, class, c.Bool("permissioned"), false, name, c.String("metadata"),
	))
	if nil != err {
		return err
	}

	return printJSON(cl.w, map[string]string{"class": class.String()})
}

func runShowClass(c *cli.Context) error {
	cl, err := newClient(c, c.String("authority") == "")
	if nil != err {
		return err
	}

	authority, err := cl.authorityKey(c)
	if nil != err {
		return err
	}
	name, err := requiredString(c, "name")
	if nil != err {
		return err
	}

	class := rpc.ClassResponse{}
	if err := cl.getJSON(&class, "v1", "classes", authority.String(), name); nil != err {
		return err
	}
	return printJSON(cl.w, class)
}

func runFreezeClass(c *cli.Context) error {
	cl, err := newClient(c, true)
	if nil != err {
		return err
	}

	name, err := requiredString(c, "name")
	if nil != err {
		return err
	}
	class, _, err := state.ClassAddress(instructions.ProgramID, cl.public, name)
	if nil != err {
		return err
	}

	return cl.submit(instructions.NewFreezeClassInstruction(cl.public, class))
}
