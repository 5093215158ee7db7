// Copyright (c) 2013-2022 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package schnorr implements the Bitcoin Cash Schnorr signature scheme over
// the secp256k1 curve.
//
// Signatures are 64 bytes, r || s, and commit to the full compressed public
// key.  Verification follows the consensus rules.  Signing derives the nonce
// deterministically and is meant for tooling and tests.
package schnorr
