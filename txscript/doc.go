// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2019 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txscript implements the Bitcoin Cash transaction script language.

This package provides data structures and functions to parse and execute
Bitcoin Cash transaction scripts, compute the signature hashes they commit to
and verify the scripts of a transaction input.

# Script Overview

Bitcoin Cash transaction scripts are written in a stack-based, FORTH-like
language.

The script language consists of a number of opcodes which fall into several
categories such as pushing and popping data to and from the stack, performing
basic and bitwise arithmetic, splicing byte strings, conditional branching,
comparing hashes, checking cryptographic signatures and inspecting the
transaction being validated.  Scripts are processed from left to right and
intentionally do not provide loops.

Numeric operands are limited to 4 bytes by default.  ScriptVerify64BitIntegers
widens them to 8 bytes and ScriptVerifyBigIntegers to a width configured with
WithBigIntSize, 258 bytes unless specified.

# Signatures

Both ECDSA and Schnorr signatures are accepted by OP_CHECKSIG,
OP_CHECKDATASIG and OP_CHECKMULTISIG.  A 64-byte signature body is always a
Schnorr signature.  Transaction signatures end with a hash type byte which
selects either the legacy signature hash or, with SigHashForkID, the replay
protected one committing to the value of the spent output.

# Verification

VerifyScript runs the unlocking script of an input, then the locking script of
the spent output on the resulting stack and, for pay-to-script-hash outputs,
the redeem script.  The transaction dependent checks are supplied by a
SignatureChecker, normally a TransactionSignatureChecker bound to a
ScriptExecutionContext.

# Errors

Errors returned by this package are of type txscript.Error.  This allows the
caller to programmatically determine the specific error by examining the
ErrorCode field of the type asserted txscript.Error while still providing rich
error messages with contextual information.  A convenience function named
IsErrorCode is also provided to allow callers to easily check for a specific
error code.  See ErrorCode in the package documentation for a full list.
*/
package txscript
