// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {

	app := cli.NewApp()
	app.Name = "registry-cli"
	app.Usage = "command line client for registryd"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "connect, c",
			Value: "http://127.0.0.1:8130",
			Usage: " registryd API endpoint `URL`",
		},
		cli.StringFlag{
			Name:  "identity, i",
			Value: "registryd.seed",
			Usage: " base58 ed25519 seed `FILE`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "generate",
			Usage:     "generate key pair, will not store in a file",
			ArgsUsage: "\n   (* = required)",
			Action:    runGenerate,
		},
		{
			Name:      "derive",
			Usage:     "derive the program addresses for a class and record",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "authority, a",
					Value: "",
					Usage: " class authority `KEY` [default identity]",
				},
				cli.StringFlag{
					Name:  "class, C",
					Value: "",
					Usage: "*class name `STRING`",
				},
				cli.StringFlag{
					Name:  "record, r",
					Value: "",
					Usage: " record name `STRING`",
				},
			},
			Action: runDerive,
		},
		{
			Name:      "create-class",
			Usage:     "create a new class",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*class name `STRING`",
				},
				cli.StringFlag{
					Name:  "metadata, m",
					Value: "",
					Usage: " class metadata `STRING`",
				},
				cli.BoolFlag{
					Name:  "permissioned, p",
					Usage: " gate record creation on the class authority or a credential",
				},
			},
			Action: runCreateClass,
		},
		{
			Name:      "class",
			Usage:     "display a class",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "authority, a",
					Value: "",
					Usage: " class authority `KEY` [default identity]",
				},
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*class name `STRING`",
				},
			},
			Action: runShowClass,
		},
		{
			Name:      "freeze-class",
			Usage:     "freeze a class permanently, no further records can be created",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*class name `STRING`",
				},
			},
			Action: runFreezeClass,
		},
		{
			Name:      "create-record",
			Usage:     "create a record under a class",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "authority, a",
					Value: "",
					Usage: " class authority `KEY` [default identity]",
				},
				cli.StringFlag{
					Name:  "class, C",
					Value: "",
					Usage: "*class name `STRING`",
				},
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*record name `STRING`",
				},
				cli.StringFlag{
					Name:  "data, d",
					Value: "",
					Usage: " record data `STRING`",
				},
				cli.StringFlag{
					Name:  "owner, o",
					Value: "",
					Usage: " record owner `KEY` [default identity]",
				},
				cli.Int64Flag{
					Name:  "expiry, e",
					Value: 0,
					Usage: " expiry unix seconds `TIME`, 0 = never",
				},
			},
			Action: runCreateRecord,
		},
		{
			Name:      "record",
			Usage:     "display a record",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "authority, a",
					Value: "",
					Usage: " class authority `KEY` [default identity]",
				},
				cli.StringFlag{
					Name:  "class, C",
					Value: "",
					Usage: "*class name `STRING`",
				},
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*record name `STRING`",
				},
			},
			Action: runShowRecord,
		},
		{
			Name:      "update-record",
			Usage:     "replace the data of a record",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "authority, a",
					Value: "",
					Usage: " class authority `KEY` [default identity]",
				},
				cli.StringFlag{
					Name:  "class, C",
					Value: "",
					Usage: "*class name `STRING`",
				},
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*record name `STRING`",
				},
				cli.StringFlag{
					Name:  "data, d",
					Value: "",
					Usage: "*new record data `STRING`",
				},
			},
			Action: runUpdateRecord,
		},
		{
			Name:      "transfer-record",
			Usage:     "transfer a record to another owner",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "authority, a",
					Value: "",
					Usage: " class authority `KEY` [default identity]",
				},
				cli.StringFlag{
					Name:  "class, C",
					Value: "",
					Usage: "*class name `STRING`",
				},
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*record name `STRING`",
				},
				cli.StringFlag{
					Name:  "receiver, r",
					Value: "",
					Usage: "*new owner `KEY`",
				},
			},
			Action: runTransferRecord,
		},
		{
			Name:      "freeze-record",
			Usage:     "freeze or thaw a record",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "authority, a",
					Value: "",
					Usage: " class authority `KEY` [default identity]",
				},
				cli.StringFlag{
					Name:  "class, C",
					Value: "",
					Usage: "*class name `STRING`",
				},
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*record name `STRING`",
				},
				cli.BoolFlag{
					Name:  "thaw, t",
					Usage: " thaw instead of freeze",
				},
			},
			Action: runFreezeRecord,
		},
		{
			Name:      "delete-record",
			Usage:     "delete a record, reclaiming its rent",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "authority, a",
					Value: "",
					Usage: " class authority `KEY` [default identity]",
				},
				cli.StringFlag{
					Name:  "class, C",
					Value: "",
					Usage: "*class name `STRING`",
				},
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*record name `STRING`",
				},
			},
			Action: runDeleteRecord,
		},
		{
			Name:      "tokenize",
			Usage:     "mint a record into a single token whose holder owns it",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "authority, a",
					Value: "",
					Usage: " class authority `KEY` [default identity]",
				},
				cli.StringFlag{
					Name:  "class, C",
					Value: "",
					Usage: "*class name `STRING`",
				},
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*record name `STRING`",
				},
			},
			Action: runTokenize,
		},
		{
			Name:      "detokenize",
			Usage:     "burn the record token, the holder becomes the native owner",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "authority, a",
					Value: "",
					Usage: " class authority `KEY` [default identity]",
				},
				cli.StringFlag{
					Name:  "class, C",
					Value: "",
					Usage: "*class name `STRING`",
				},
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*record name `STRING`",
				},
			},
			Action: runDetokenize,
		},
		{
			Name:      "transfer-token",
			Usage:     "move the record token to another holder",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "authority, a",
					Value: "",
					Usage: " class authority `KEY` [default identity]",
				},
				cli.StringFlag{
					Name:  "class, C",
					Value: "",
					Usage: "*class name `STRING`",
				},
				cli.StringFlag{
					Name:  "name, n",
					Value: "",
					Usage: "*record name `STRING`",
				},
				cli.StringFlag{
					Name:  "receiver, r",
					Value: "",
					Usage: "*new holder `KEY`",
				},
			},
			Action: runTransferToken,
		},
		{
			Name:      "account",
			Usage:     "display a raw ledger account",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: "*base58 account `KEY`",
				},
			},
			Action: runAccount,
		},
		{
			Name:  "version",
			Usage: "display registry-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}
