// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/urfave/cli"

	"github.com/openregistry/registryd/host"
	"github.com/openregistry/registryd/instructions"
	"github.com/openregistry/registryd/rpc"
	"github.com/openregistry/registryd/state"
)

// client - per invocation connection and signing state
type client struct {
	endpoint string
	verbose  bool
	public   solana.PublicKey
	private  ed25519.PrivateKey
	e        io.Writer
	w        io.Writer
}

// read the global flags; identity is only loaded when signing is needed
func newClient(c *cli.Context, needIdentity bool) (*client, error) {
	cl := &client{
		endpoint: strings.TrimRight(c.GlobalString("connect"), "/"),
		verbose:  c.GlobalBool("verbose"),
		e:        c.App.ErrWriter,
		w:        c.App.Writer,
	}

	if !needIdentity {
		return cl, nil
	}

	fileName := c.GlobalString("identity")
	text, err := os.ReadFile(fileName)
	if nil != err {
		return nil, fmt.Errorf("identity: %q error: %s", fileName, err)
	}
	seed, err := base58.Decode(strings.TrimSpace(string(text)))
	if nil != err {
		return nil, fmt.Errorf("identity: %q is not a base58 seed: %s", fileName, err)
	}
	if ed25519.SeedSize != len(seed) {
		return nil, fmt.Errorf("identity: %q seed is %d bytes, expected %d", fileName, len(seed), ed25519.SeedSize)
	}

	cl.private = ed25519.NewKeyFromSeed(seed)
	cl.public = solana.PublicKeyFromBytes(cl.private.Public().(ed25519.PublicKey))
	if cl.verbose {
		fmt.Fprintf(cl.e, "identity: %s\n", cl.public)
	}
	return cl, nil
}

// the class authority defaults to the identity
func (cl *client) authorityKey(c *cli.Context) (solana.PublicKey, error) {
	text := c.String("authority")
	if "" == text {
		return cl.public, nil
	}
	return solana.PublicKeyFromBase58(text)
}

func requiredKey(c *cli.Context, name string) (solana.PublicKey, error) {
	text := c.String(name)
	if "" == text {
		return solana.PublicKey{}, fmt.Errorf("%s is required", name)
	}
	return solana.PublicKeyFromBase58(text)
}

func requiredString(c *cli.Context, name string) (string, error) {
	text := c.String(name)
	if "" == text {
		return "", fmt.Errorf("%s is required", name)
	}
	return text, nil
}

// derive the class and record addresses for the common flag set
func (cl *client) resolveRecord(c *cli.Context) (class solana.PublicKey, record solana.PublicKey, err error) {
	authority, err := cl.authorityKey(c)
	if nil != err {
		return
	}
	className, err := requiredString(c, "class")
	if nil != err {
		return
	}
	recordName, err := requiredString(c, "name")
	if nil != err {
		return
	}
	class, _, err = state.ClassAddress(instructions.ProgramID, authority, className)
	if nil != err {
		return
	}
	record, _, err = state.RecordAddress(instructions.ProgramID, class, recordName)
	return
}

// submit - sign and post one transaction
func (cl *client) submit(instrs ...host.Instruction) error {
	tx := &host.Transaction{
		FeePayer:     cl.public,
		Instructions: instrs,
	}
	tx.Sign(cl.private)

	encoded, err := json.Marshal(rpc.NewTransactionPayload(tx))
	if nil != err {
		return err
	}

	response, err := http.Post(cl.endpoint+"/v1/transactions", "application/json", bytes.NewReader(encoded))
	if nil != err {
		return err
	}
	defer response.Body.Close()

	body := &bytes.Buffer{}
	_, _ = body.ReadFrom(response.Body)
	if http.StatusOK != response.StatusCode {
		return fmt.Errorf("submit failed: %s: %s", response.Status, strings.TrimSpace(body.String()))
	}
	if cl.verbose {
		fmt.Fprintf(cl.e, "response: %s", body.String())
	}
	return nil
}

// getJSON - read one API endpoint, the path segments are escaped
func (cl *client) getJSON(out interface{}, segments ...string) error {
	path := cl.endpoint
	for _, segment := range segments {
		path += "/" + url.PathEscape(segment)
	}

	response, err := http.Get(path)
	if nil != err {
		return err
	}
	defer response.Body.Close()

	body := &bytes.Buffer{}
	_, _ = body.ReadFrom(response.Body)
	if http.StatusOK != response.StatusCode {
		return fmt.Errorf("request failed: %s: %s", response.Status, strings.TrimSpace(body.String()))
	}
	return json.Unmarshal(body.Bytes(), out)
}

func printJSON(w io.Writer, v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if nil != err {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", encoded)
	return err
}
