// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
	"strings"
)

// SigHashType represents hash type bits at the end of a signature.
type SigHashType byte

// Hash type bits from the end of a signature.
const (
	SigHashAll    SigHashType = 0x1
	SigHashNone   SigHashType = 0x2
	SigHashSingle SigHashType = 0x3

	// SigHashUtxos commits the signature to every coin spent by the
	// transaction.  It is only defined once tokens are enabled.
	SigHashUtxos SigHashType = 0x20

	// SigHashForkID selects the replay protected signature hash algorithm.
	SigHashForkID SigHashType = 0x40

	SigHashAnyOneCanPay SigHashType = 0x80

	// sigHashMask defines the number of bits of the hash type which is used
	// to identify which outputs are signed.
	sigHashMask = 0x1f
)

// BaseType returns the part of the hash type which selects the signed
// outputs.  Values other than SigHashAll, SigHashNone and SigHashSingle are
// valid in legacy signatures and behave like SigHashAll.
func (t SigHashType) BaseType() SigHashType {
	return t & sigHashMask
}

// HasForkID returns whether the fork id bit is set.
func (t SigHashType) HasForkID() bool {
	return t&SigHashForkID != 0
}

// HasAnyOneCanPay returns whether the anyone-can-pay bit is set.
func (t SigHashType) HasAnyOneCanPay() bool {
	return t&SigHashAnyOneCanPay != 0
}

// HasUtxos returns whether the utxos bit is set.
func (t SigHashType) HasUtxos() bool {
	return t&SigHashUtxos != 0
}

// IsDefined returns whether the hash type is one of the defined base types
// combined with any of the fork id, anyone-can-pay and utxos bits.
func (t SigHashType) IsDefined() bool {
	base := t &^ (SigHashForkID | SigHashAnyOneCanPay | SigHashUtxos)
	return base >= SigHashAll && base <= SigHashSingle
}

// String returns the hash type in human-readable form, such as
// "ALL|FORKID|ANYONECANPAY".
func (t SigHashType) String() string {
	var parts []string
	switch t.BaseType() {
	case SigHashAll:
		parts = append(parts, "ALL")
	case SigHashNone:
		parts = append(parts, "NONE")
	case SigHashSingle:
		parts = append(parts, "SINGLE")
	default:
		parts = append(parts, fmt.Sprintf("UNDEFINED(0x%02x)",
			byte(t.BaseType())))
	}
	if t.HasUtxos() {
		parts = append(parts, "UTXOS")
	}
	if t.HasForkID() {
		parts = append(parts, "FORKID")
	}
	if t.HasAnyOneCanPay() {
		parts = append(parts, "ANYONECANPAY")
	}
	return strings.Join(parts, "|")
}

// sigHashTypeOf returns the hash type carried by the last byte of a
// transaction signature.  An empty signature has hash type zero.
func sigHashTypeOf(sig []byte) SigHashType {
	if len(sig) == 0 {
		return 0
	}
	return SigHashType(sig[len(sig)-1])
}
