// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/ed25519"
	"crypto/rand"

	"github.com/mr-tron/base58"
	"github.com/urfave/cli"
)

func runGenerate(c *cli.Context) error {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if nil != err {
		return err
	}

	return printJSON(c.App.Writer, map[string]string{
		"public": base58.Encode(public),
		"seed":   base58.Encode(private.Seed()),
	})
}
