// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package host

import (
	"github.com/openregistry/registryd/fault"
	"github.com/openregistry/registryd/rent"
)

// ResizeAccount - change the data size of a program owned account,
// settling the storage deposit either way
//
// growth is funded by the payer through a system transfer so that the
// payer's signature is enforced; on shrink the surplus deposit flows
// back to the payer directly, which the runtime permits because the
// executing program owns the target.  a same-size call does nothing,
// not even deposit settlement.
func ResizeAccount(ctx *Context, target *AccountInfo, payer *AccountInfo, newSize int, zeroOnShrink bool) error {
	if newSize == target.DataLen() {
		return nil
	}

	required := rent.MinimumBalance(newSize)
	current := target.Lamports()

	switch {
	case required > current:
		transfer := NewTransferInstruction(payer.Key, target.Key, required-current)
		if err := ctx.Invoke(transfer, nil); nil != err {
			return err
		}

	case current > required:
		if !payer.IsWritable {
			return fault.ErrAccountNotWritable
		}
		if err := target.SetLamports(required); nil != err {
			return err
		}
		if err := payer.SetLamports(payer.Lamports() + current - required); nil != err {
			return err
		}
	}

	return target.Resize(newSize, zeroOnShrink)
}
