// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2019 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/binary"
	"strings"
)

const (
	// p2sh20ScriptLen is the length of a pay-to-script-hash script that
	// commits to a 20-byte hash: OP_HASH160 OP_DATA_20 <hash> OP_EQUAL.
	p2sh20ScriptLen = 23

	// p2sh32ScriptLen is the length of a pay-to-script-hash script that
	// commits to a 32-byte hash: OP_HASH256 OP_DATA_32 <hash> OP_EQUAL.
	p2sh32ScriptLen = 35

	// minWitnessProgramLen and maxWitnessProgramLen bound the length of a
	// script with the shape of a segregated witness program.
	minWitnessProgramLen = 4
	maxWitnessProgramLen = 42
)

// isScriptHash20 returns whether the script is a pay-to-script-hash script
// committing to a 20-byte HASH160.
func isScriptHash20(script []byte) bool {
	return len(script) == p2sh20ScriptLen &&
		script[0] == OP_HASH160 &&
		script[1] == OP_DATA_20 &&
		script[22] == OP_EQUAL
}

// isScriptHash32 returns whether the script is a pay-to-script-hash script
// committing to a 32-byte HASH256.
func isScriptHash32(script []byte) bool {
	return len(script) == p2sh32ScriptLen &&
		script[0] == OP_HASH256 &&
		script[1] == OP_DATA_32 &&
		script[34] == OP_EQUAL
}

// IsPayToScriptHash returns true if the script is in the standard
// pay-to-script-hash format.  The 32-byte form is only recognized when
// ScriptEnableP2SH32 is set in the flags.
func IsPayToScriptHash(script []byte, flags ScriptFlags) bool {
	if isScriptHash20(script) {
		return true
	}
	return flags.HasFlag(ScriptEnableP2SH32) && isScriptHash32(script)
}

// isWitnessProgram returns whether the script has the shape of a segregated
// witness program: a version opcode followed by a single direct push of 2 to
// 40 bytes.
func isWitnessProgram(script []byte) bool {
	if len(script) < minWitnessProgramLen ||
		len(script) > maxWitnessProgramLen {

		return false
	}
	if script[0] != OP_0 && (script[0] < OP_1 || script[0] > OP_16) {
		return false
	}
	return int(script[1])+2 == len(script)
}

// IsPushOnlyScript returns whether or not the passed script only pushes data
// according to the consensus definition of pushing data.  OP_RESERVED counts
// as a push.  A script that fails to parse is not push only.
func IsPushOnlyScript(script []byte) bool {
	tokenizer := MakeScriptTokenizer(script)
	for tokenizer.Next() {
		if tokenizer.Opcode() > OP_16 {
			return false
		}
	}
	return tokenizer.Err() == nil
}

// pushOf returns the raw push encoding of data.  Unlike the script builder it
// never substitutes the small integer opcodes, so the result matches the bytes
// a signature push would occupy in a script.
func pushOf(data []byte) []byte {
	dataLen := len(data)
	var script []byte
	switch {
	case dataLen < OP_PUSHDATA1:
		script = make([]byte, 0, 1+dataLen)
		script = append(script, byte(dataLen))
	case dataLen <= 0xff:
		script = make([]byte, 0, 2+dataLen)
		script = append(script, OP_PUSHDATA1, byte(dataLen))
	case dataLen <= 0xffff:
		script = make([]byte, 3, 3+dataLen)
		script[0] = OP_PUSHDATA2
		binary.LittleEndian.PutUint16(script[1:], uint16(dataLen))
	default:
		script = make([]byte, 5, 5+dataLen)
		script[0] = OP_PUSHDATA4
		binary.LittleEndian.PutUint32(script[1:], uint32(dataLen))
	}
	return append(script, data...)
}

// findAndDelete removes every occurrence of pattern that starts on an opcode
// boundary of script.  Consecutive occurrences are all removed.  Bytes after a
// parse failure are kept as is.  The original script is returned unmodified
// when nothing matched.
func findAndDelete(script, pattern []byte) []byte {
	if len(pattern) == 0 {
		return script
	}

	var result []byte
	var found bool
	pc, copied := 0, 0
	for {
		result = append(result, script[copied:pc]...)
		for len(script)-pc >= len(pattern) &&
			bytes.Equal(script[pc:pc+len(pattern)], pattern) {

			pc += len(pattern)
			found = true
		}
		copied = pc

		tokenizer := MakeScriptTokenizer(script[pc:])
		if !tokenizer.Next() {
			break
		}
		pc += int(tokenizer.ByteIndex())
	}

	if !found {
		return script
	}
	return append(result, script[copied:]...)
}

// cleanupScriptCode removes pushes of the signature from the script code
// before it is hashed.  Signatures committing to the fork id are exempt once
// the fork id is enabled.
func cleanupScriptCode(scriptCode, sig []byte, flags ScriptFlags) []byte {
	if flags.HasFlag(ScriptEnableSighashForkID) &&
		sigHashTypeOf(sig).HasForkID() {

		return scriptCode
	}
	return findAndDelete(scriptCode, pushOf(sig))
}

// removeCodeSeparators returns the script with every OP_CODESEPARATOR that
// starts on an opcode boundary removed.  Bytes after a parse failure are kept
// as is.
func removeCodeSeparators(script []byte) []byte {
	var result []byte
	var found bool
	copied := 0
	tokenizer := MakeScriptTokenizer(script)
	for tokenizer.Next() {
		if tokenizer.Opcode() != OP_CODESEPARATOR {
			continue
		}
		end := int(tokenizer.ByteIndex())
		result = append(result, script[copied:end-1]...)
		copied = end
		found = true
	}

	if !found {
		return script
	}
	return append(result, script[copied:]...)
}

// DisasmString formats a disassembled script for one line printing.  When the
// script fails to parse, the returned string will contain the disassembled
// script up to the point the failure occurred along with the string '[error]'
// appended.  In addition, the reason the script failed to parse is returned
// if the caller wants more information about the failure.
func DisasmString(script []byte) (string, error) {
	var disbuf strings.Builder
	tokenizer := MakeScriptTokenizer(script)
	if tokenizer.Next() {
		disasmOpcode(&disbuf, tokenizer.op, tokenizer.Data(), true)
	}
	for tokenizer.Next() {
		disbuf.WriteByte(' ')
		disasmOpcode(&disbuf, tokenizer.op, tokenizer.Data(), true)
	}
	if tokenizer.Err() != nil {
		if tokenizer.ByteIndex() != 0 {
			disbuf.WriteByte(' ')
		}
		disbuf.WriteString("[error]")
	}
	return disbuf.String(), tokenizer.Err()
}

// PushedData returns the data pushed by a push only script.
func PushedData(script []byte) ([][]byte, error) {
	var data [][]byte
	tokenizer := MakeScriptTokenizer(script)
	for tokenizer.Next() {
		switch op := tokenizer.Opcode(); {
		case op > OP_16:
			return nil, scriptError(ErrSigPushOnly, "script is not "+
				"push only")

		case tokenizer.Data() != nil:
			data = append(data, tokenizer.Data())

		case op == OP_0:
			data = append(data, nil)
		}
	}
	if err := tokenizer.Err(); err != nil {
		return nil, err
	}
	return data, nil
}
