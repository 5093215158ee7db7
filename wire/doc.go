// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the Bitcoin Cash transaction encoding.

It provides the transaction, input, output and outpoint types along with the
token payload an output may carry, and their legacy consensus serialization.
Only transactions are covered; there are no network messages.

# Token Payloads

An output carrying tokens has its payload written ahead of the locking script,
behind the TokenPrefix byte:

	0xef | category (32) | bitfield (1) | [commitment] | [amount] | script

TxOut keeps the payload in TokenData and the real locking script in PkScript.
ReadTxOut and WriteTxOut split and merge the two.  A blob starting with the
prefix but holding a malformed payload is kept whole as the locking script.

# Errors

Errors returned by this package are either the raw errors provided by
underlying calls to read/write from streams such as io.EOF,
io.ErrUnexpectedEOF, and io.ErrShortWrite, or of type wire.MessageError.  This
allows the caller to differentiate between general IO errors and malformed
data.
*/
package wire
