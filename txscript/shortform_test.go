// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cashsuite/bchscript/wire"
)

// hexToBytes converts the passed hex string into bytes and will panic if there
// is an error.  This is only provided for the hard-coded constants so errors in
// the source code can be detected.  It will only (and must only) be called with
// hard-coded values.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

// shortFormOps holds a map of opcode names to values for use in short form
// parsing.  It is declared here so it only needs to be created once.
var shortFormOps map[string]byte

// parseHex parses a hex string token into raw bytes.  A trailing {N}
// repeats the decoded bytes N times, so 0x01{3} is 0x010101.
func parseHex(tok string) ([]byte, error) {
	if !strings.HasPrefix(tok, "0x") {
		return nil, errors.New("not a hex number")
	}

	repeat := 1
	if open := strings.IndexByte(tok, '{'); open != -1 {
		if !strings.HasSuffix(tok, "}") {
			return nil, errors.New("unterminated repetition")
		}
		n, err := strconv.Atoi(tok[open+1 : len(tok)-1])
		if err != nil {
			return nil, err
		}
		repeat = n
		tok = tok[:open]
	}

	b, err := hex.DecodeString(tok[2:])
	if err != nil {
		return nil, err
	}
	return bytes.Repeat(b, repeat), nil
}

// parseShortForm parses a string as used in the script tests into a script.
//
// The format used for these tests is pretty simple if ad-hoc:
//   - Opcodes other than the push opcodes and unknown are present as
//     either OP_NAME or just NAME
//   - Plain numbers are made into push operations
//   - Numbers beginning with 0x are inserted into the []byte as-is (so
//     0x14 is OP_DATA_20), optionally repeated with a {N} suffix
//   - Single quoted strings are pushed as data
//   - Anything else is an error
func parseShortForm(script string) ([]byte, error) {
	// Only create the short form opcode map once.
	if shortFormOps == nil {
		ops := make(map[string]byte)
		for opcodeName, opcodeValue := range OpcodeByName {
			if strings.Contains(opcodeName, "OP_UNKNOWN") {
				continue
			}
			ops[opcodeName] = opcodeValue

			// The opcodes named OP_# can't have the OP_ prefix
			// stripped or they would conflict with the plain
			// numbers.  Also, since OP_FALSE and OP_TRUE are
			// aliases for the OP_0, and OP_1, respectively, they
			// have the same value, so detect those by name and
			// allow them.
			if (opcodeName == "OP_FALSE" || opcodeName == "OP_TRUE") ||
				(opcodeValue != OP_0 && (opcodeValue < OP_1 ||
					opcodeValue > OP_16)) {

				ops[strings.TrimPrefix(opcodeName, "OP_")] = opcodeValue
			}
		}
		shortFormOps = ops
	}

	// Split only does one separator so convert all \n and tab into space.
	script = strings.Replace(script, "\n", " ", -1)
	script = strings.Replace(script, "\t", " ", -1)
	tokens := strings.Split(script, " ")
	builder := NewScriptBuilder()

	for _, tok := range tokens {
		if len(tok) == 0 {
			continue
		}

		// if parses as a plain number
		if num, err := strconv.ParseInt(tok, 10, 64); err == nil {
			builder.AddInt64(num)
			continue
		} else if bts, err := parseHex(tok); err == nil {
			// Concatenate the bytes manually since the test code
			// intentionally creates scripts that are too large and
			// would cause the builder to error otherwise.
			if builder.err == nil {
				builder.script = append(builder.script, bts...)
			}
		} else if len(tok) >= 2 &&
			tok[0] == '\'' && tok[len(tok)-1] == '\'' {
			builder.AddFullData([]byte(tok[1 : len(tok)-1]))
		} else if opcode, ok := shortFormOps[tok]; ok {
			builder.AddOp(opcode)
		} else {
			return nil, fmt.Errorf("bad token %q", tok)
		}
	}
	return builder.Script()
}

// mustParseShortForm parses the passed short form script and returns the
// resulting bytes.  It panics if an error occurs.  This is only used in the
// tests as a helper since the only way it can fail is if there is an error in
// the test source code.
func mustParseShortForm(script string) []byte {
	s, err := parseShortForm(script)
	if err != nil {
		panic("invalid short form script in test source: err " +
			err.Error() + ", script: " + script)
	}
	return s
}

// testKey returns a deterministic private key derived from the passed seed
// byte.
func testKey(seed byte) *btcec.PrivateKey {
	var keyBytes [32]byte
	for i := range keyBytes {
		keyBytes[i] = seed
	}
	key, _ := btcec.PrivKeyFromBytes(keyBytes[:])
	return key
}

// testTx returns a version 2 transaction with one input per coin and the
// passed outputs.  Each input spends a distinct outpoint.
func testTx(numInputs int, outputs ...*wire.TxOut) *wire.MsgTx {
	tx := wire.NewMsgTx(2)
	for i := 0; i < numInputs; i++ {
		hash := chainhash.Hash{byte(i + 1), 0xaa}
		prevOut := wire.NewOutPoint(&hash, uint32(i))
		txIn := wire.NewTxIn(prevOut, nil)
		txIn.Sequence = wire.MaxTxInSequenceNum - 1
		tx.AddTxIn(txIn)
	}
	for _, txOut := range outputs {
		tx.AddTxOut(txOut)
	}
	tx.LockTime = 100
	return tx
}

// mustContexts returns full contexts for every input of tx.
func mustContexts(t *testing.T, tx *wire.MsgTx, coins []*wire.TxOut) []*ScriptExecutionContext {
	t.Helper()

	contexts, err := NewContextForAllInputs(tx, coins)
	if err != nil {
		t.Fatalf("unable to create contexts: %v", err)
	}
	return contexts
}
