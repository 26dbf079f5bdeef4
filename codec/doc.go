// SPDX-License-Identifier: ISC
// Copyright (c) 2023-2026 Open Registry Developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package codec - cursor based binary reader and writer
//
// All persisted registry accounts are a single contiguous byte buffer
// of little-endian fixed width fields followed by length prefixed or
// remainder-of-buffer UTF-8 strings.  The reader and writer here are
// the only way account bytes are interpreted: every access is bounds
// checked and every string is validated as UTF-8, there is no aliasing
// of the underlying buffer as another type.
//
// Optional fixed width fields are encoded as a presence byte (0 or 1)
// followed by the zero-filled payload so that the offsets of later
// fields do not move when the option is empty.
package codec
