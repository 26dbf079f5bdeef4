// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/mr-tron/base58"
)

const identityKeyFilename = "registryd.seed"

// setup command handler
//
// commands that run without the configuration file or any access to
// the account database
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "generate-identity", "identity":
		fileName := identityKeyFilename
		if len(arguments) > 0 && "" != arguments[0] {
			fileName = arguments[0]
		}

		if _, err := os.Stat(fileName); nil == err {
			fmt.Printf("generate identity: %q error: file already exists\n", fileName)
			exitwithstatus.Exit(1)
		}

		public, private, err := ed25519.GenerateKey(rand.Reader)
		if nil != err {
			fmt.Printf("generate identity: error: %s\n", err)
			exitwithstatus.Exit(1)
		}

		seed := base58.Encode(private.Seed())
		if err := os.WriteFile(fileName, []byte(seed+"\n"), 0o600); nil != err {
			_ = os.Remove(fileName)
			fmt.Printf("generate identity: %q error: %s\n", fileName, err)
			exitwithstatus.Exit(1)
		}

		fmt.Printf("generated identity: %q\n", fileName)
		fmt.Printf("public key: %s\n", base58.Encode(public))

	case "version":
		fmt.Printf("%s\n", version)

	case "help", "h", "?":
		fmt.Printf("usage: %s [--help] [--version] [--quiet] [--config-file=FILE] [command]\n", program)
		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)       - display this message\n\n")
		fmt.Printf("  version                    (v)       - display version\n\n")
		fmt.Printf("  generate-identity [FILE]   (identity)\n")
		fmt.Printf("    create a new base58 ed25519 seed file (default: %q)\n", identityKeyFilename)
		fmt.Printf("    and display the matching public key\n\n")
		fmt.Printf("  start without a command to run the daemon\n")

	default:
		return false
	}

	// indicate processed
	return true
}
