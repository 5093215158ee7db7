// Copyright (c) 2019 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
)

// maxBitfieldKeys is the largest number of public keys a Schnorr
// OP_CHECKMULTISIG bitfield can address.
const maxBitfieldKeys = 32

// decodeBitfield decodes the little-endian dummy element of a Schnorr mode
// OP_CHECKMULTISIG into a bitfield selecting which of the nKeys public keys
// are checked.  The dummy must be exactly as long as needed to hold nKeys bits
// and no bit at or beyond nKeys may be set.
func decodeBitfield(dummy []byte, nKeys int) (uint32, error) {
	if nKeys > maxBitfieldKeys {
		str := fmt.Sprintf("bitfield cannot address %d keys", nKeys)
		return 0, scriptError(ErrInvalidBitfieldSize, str)
	}

	wantLen := (nKeys + 7) / 8
	if len(dummy) != wantLen {
		str := fmt.Sprintf("bitfield of %d bytes does not match the %d "+
			"bytes needed for %d keys", len(dummy), wantLen, nKeys)
		return 0, scriptError(ErrInvalidBitfieldSize, str)
	}

	var bitfield uint32
	for i, b := range dummy {
		bitfield |= uint32(b) << (8 * uint(i))
	}

	mask := uint32((uint64(1) << uint(nKeys)) - 1)
	if bitfield&^mask != 0 {
		str := fmt.Sprintf("bitfield %#x sets bits beyond the %d keys",
			bitfield, nKeys)
		return 0, scriptError(ErrInvalidBitRange, str)
	}
	return bitfield, nil
}
