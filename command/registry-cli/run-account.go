// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/openregistry/registryd/rpc"
)

func runAccount(c *cli.Context) error {
	cl, err := newClient(c, false)
	if nil != err {
		return err
	}

	key, err := requiredKey(c, "key")
	if nil != err {
		return err
	}

	account := rpc.AccountResponse{}
	if err := cl.getJSON(&account, "v1", "accounts", key.String()); nil != err {
		return err
	}
	return printJSON(cl.w, account)
}
