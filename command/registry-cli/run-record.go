// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/gagliardetto/solana-go"
	"github.com/urfave/cli"

	"github.com/openregistry/registryd/instructions"
	"github.com/openregistry/registryd/rpc"
	"github.com/openregistry/registryd/state"
)

func runCreateRecord(c *cli.Context) error {
	cl, err := newClient(c, true)
	if nil != err {
		return err
	}

	class, record, err := cl.resolveRecord(c)
	if nil != err {
		return err
	}

	owner := cl.public
	if text := c.String("owner"); "" != text {
		owner, err = solana.PublicKeyFromBase58(text)
		if nil != err {
			return err
		}
	}

	err = cl.submit(instructions.NewCreateRecordInstruction(
		owner, cl.public, class, record,
		c.Int64("expiry"), c.String("name"), c.String("data"),
	))
	if nil != err {
		return err
	}

	return printJSON(cl.w, map[string]string{"record": record.String()})
}

// look the record up through the API, needed to decide whether a
// delegate account must accompany a mutation
func (cl *client) fetchRecord(c *cli.Context) (*rpc.RecordResponse, error) {
	authority, err := cl.authorityKey(c)
	if nil != err {
		return nil, err
	}
	className, err := requiredString(c, "class")
	if nil != err {
		return nil, err
	}
	recordName, err := requiredString(c, "name")
	if nil != err {
		return nil, err
	}

	record := &rpc.RecordResponse{}
	err = cl.getJSON(record, "v1", "classes", authority.String(), className, "records", recordName)
	if nil != err {
		return nil, err
	}
	return record, nil
}

func runShowRecord(c *cli.Context) error {
	cl, err := newClient(c, c.String("authority") == "")
	if nil != err {
		return err
	}

	record, err := cl.fetchRecord(c)
	if nil != err {
		return err
	}
	return printJSON(cl.w, record)
}

func runUpdateRecord(c *cli.Context) error {
	cl, err := newClient(c, true)
	if nil != err {
		return err
	}

	_, record, err := cl.resolveRecord(c)
	if nil != err {
		return err
	}
	data, err := requiredString(c, "data")
	if nil != err {
		return err
	}

	return cl.submit(instructions.NewUpdateRecordInstruction(cl.public, record, data))
}

func runTransferRecord(c *cli.Context) error {
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

	return cl.submit(instructions.NewTransferRecordInstruction(cl.public, record, receiver))
}

func runFreezeRecord(c *cli.Context) error {
	cl, err := newClient(c, true)
	if nil != err {
		return err
	}

	_, record, err := cl.resolveRecord(c)
	if nil != err {
		return err
	}

	return cl.submit(instructions.NewFreezeRecordInstruction(cl.public, record, !c.Bool("thaw")))
}

func runDeleteRecord(c *cli.Context) error {
	cl, err := newClient(c, true)
	if nil != err {
		return err
	}

	_, record, err := cl.resolveRecord(c)
	if nil != err {
		return err
	}

	// deletion must close an attached delegate account in the same call
	live, err := cl.fetchRecord(c)
	if nil != err {
		return err
	}

	var extra []solana.PublicKey
	if live.HasAuthorityDelegate {
		delegate, _, err := state.DelegateAddress(instructions.ProgramID, record)
		if nil != err {
			return err
		}
		extra = append(extra, delegate)
	}

	return cl.submit(instructions.NewDeleteRecordInstruction(cl.public, cl.public, record, extra...))
}
