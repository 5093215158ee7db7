// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
	"sort"
	"strings"
)

// ScriptFlags is a bitmask defining additional operations or tests that will
// be done when executing a script pair.
type ScriptFlags uint32

// New flags are appended at the end so existing bits never move.
const (
	// ScriptVerifyP2SH defines whether to evaluate the redeem script of
	// pay-to-script-hash outputs.
	ScriptVerifyP2SH ScriptFlags = 1 << iota

	// ScriptVerifyStrictEncoding defines that signature scripts and
	// public keys must follow the strict encoding requirements.
	ScriptVerifyStrictEncoding

	// ScriptVerifyDERSignatures defines that signatures are required to
	// comply with the DER format.
	ScriptVerifyDERSignatures

	// ScriptVerifyLowS defines that signatures are required to comply with
	// the DER format and whose S value is <= order / 2.
	ScriptVerifyLowS

	// ScriptVerifyNullDummy defines that the dummy element of a legacy
	// OP_CHECKMULTISIG must be empty.
	ScriptVerifyNullDummy

	// ScriptVerifySigPushOnly defines that signature scripts must contain
	// only pushed data.
	ScriptVerifySigPushOnly

	// ScriptVerifyMinimalData defines that signatures must use the
	// smallest push operator and that numeric operands are minimally
	// encoded.
	ScriptVerifyMinimalData

	// ScriptDiscourageUpgradableNops defines whether to verify that
	// NOP1 and NOP4 through NOP10 are reserved for future soft-fork
	// upgrades.
	ScriptDiscourageUpgradableNops

	// ScriptVerifyCleanStack defines that the stack must contain only
	// one stack element after evaluation and that the element must be
	// true if interpreted as a boolean.  This flag requires P2SH.
	ScriptVerifyCleanStack

	// ScriptVerifyCheckLockTimeVerify defines whether to verify that
	// a transaction output is spendable based on the locktime.
	ScriptVerifyCheckLockTimeVerify

	// ScriptVerifyCheckSequenceVerify defines whether to allow execution
	// pathways of a script to be restricted based on the age of the output
	// being spent.
	ScriptVerifyCheckSequenceVerify

	// ScriptVerifyMinimalIf makes a script with an OP_IF/OP_NOTIF whose
	// operand is anything other than empty vector or [0x01] fail.
	ScriptVerifyMinimalIf

	// ScriptVerifyNullFail defines that signatures must be empty if
	// a CHECKSIG or CHECKMULTISIG operation fails.
	ScriptVerifyNullFail

	// ScriptVerifyCompressedPubKeyType defines that public keys must be
	// in compressed form.
	ScriptVerifyCompressedPubKeyType

	// ScriptEnableSighashForkID enables the replay protected signature hash
	// algorithm and requires signatures to commit to it.
	ScriptEnableSighashForkID

	// ScriptDisallowSegwitRecovery disables the exemption that lets coins
	// sent to p2sh-wrapped witness programs be recovered.
	ScriptDisallowSegwitRecovery

	// ScriptEnableSchnorrMultisig enables the bitfield driven Schnorr mode
	// of OP_CHECKMULTISIG.
	ScriptEnableSchnorrMultisig

	// ScriptVerifyInputSigChecks limits the number of signature checks of
	// an input relative to the size of its signature script.
	ScriptVerifyInputSigChecks

	// ScriptVerify64BitIntegers widens numeric operands to 8 bytes and
	// enables OP_MUL.
	ScriptVerify64BitIntegers

	// ScriptEnableNativeIntrospection enables the transaction introspection
	// opcodes.
	ScriptEnableNativeIntrospection

	// ScriptEnableP2SH32 enables recognition of pay-to-script-hash outputs
	// committing to a 32-byte hash.
	ScriptEnableP2SH32

	// ScriptEnableTokens enables the token introspection opcodes, token
	// aware signature hashing and the SIGHASH_UTXOS hash type.
	ScriptEnableTokens

	// ScriptVerifyBigIntegers widens numeric operands to a configurable
	// width, 258 bytes by default.  It implies the 64-bit opcode set.
	ScriptVerifyBigIntegers
)

const (
	// MandatoryScriptVerifyFlags are the flags that are always enforced
	// by consensus.
	MandatoryScriptVerifyFlags = ScriptVerifyP2SH |
		ScriptVerifyStrictEncoding |
		ScriptEnableSighashForkID |
		ScriptVerifyLowS |
		ScriptVerifyNullFail

	// StandardVerifyFlags are the script flags which are used when
	// executing transaction scripts to enforce additional checks which
	// are required for the script to be considered standard.  These checks
	// help reduce issues related to transaction malleability as well as
	// allow pay-to-script hash transactions.
	StandardVerifyFlags = MandatoryScriptVerifyFlags |
		ScriptVerifyDERSignatures |
		ScriptVerifyMinimalData |
		ScriptDiscourageUpgradableNops |
		ScriptVerifyCleanStack |
		ScriptVerifyCheckLockTimeVerify |
		ScriptVerifyCheckSequenceVerify |
		ScriptVerifyMinimalIf |
		ScriptDisallowSegwitRecovery |
		ScriptEnableSchnorrMultisig |
		ScriptVerifyInputSigChecks |
		ScriptVerify64BitIntegers |
		ScriptEnableNativeIntrospection |
		ScriptEnableP2SH32 |
		ScriptEnableTokens
)

// flagNames maps the stable names of the flags to their values.
var flagNames = map[string]ScriptFlags{
	"P2SH":                       ScriptVerifyP2SH,
	"STRICTENC":                  ScriptVerifyStrictEncoding,
	"DERSIG":                     ScriptVerifyDERSignatures,
	"LOW_S":                      ScriptVerifyLowS,
	"NULLDUMMY":                  ScriptVerifyNullDummy,
	"SIGPUSHONLY":                ScriptVerifySigPushOnly,
	"MINIMALDATA":                ScriptVerifyMinimalData,
	"DISCOURAGE_UPGRADABLE_NOPS": ScriptDiscourageUpgradableNops,
	"CLEANSTACK":                 ScriptVerifyCleanStack,
	"CHECKLOCKTIMEVERIFY":        ScriptVerifyCheckLockTimeVerify,
	"CHECKSEQUENCEVERIFY":        ScriptVerifyCheckSequenceVerify,
	"MINIMALIF":                  ScriptVerifyMinimalIf,
	"NULLFAIL":                   ScriptVerifyNullFail,
	"COMPRESSED_PUBKEYTYPE":      ScriptVerifyCompressedPubKeyType,
	"SIGHASH_FORKID":             ScriptEnableSighashForkID,
	"DISALLOW_SEGWIT_RECOVERY":   ScriptDisallowSegwitRecovery,
	"SCHNORR_MULTISIG":           ScriptEnableSchnorrMultisig,
	"INPUT_SIGCHECKS":            ScriptVerifyInputSigChecks,
	"64_BIT_INTEGERS":            ScriptVerify64BitIntegers,
	"NATIVE_INTROSPECTION":       ScriptEnableNativeIntrospection,
	"P2SH_32":                    ScriptEnableP2SH32,
	"ENABLE_TOKENS":              ScriptEnableTokens,
	"BIG_INTEGERS":               ScriptVerifyBigIntegers,
}

// HasFlag returns whether the flags have the passed flag set.
func (f ScriptFlags) HasFlag(flag ScriptFlags) bool {
	return f&flag == flag
}

// String returns the comma separated names of the set flags in ascending bit
// order.
func (f ScriptFlags) String() string {
	if f == 0 {
		return "NONE"
	}

	type namedFlag struct {
		name string
		flag ScriptFlags
	}
	set := make([]namedFlag, 0, len(flagNames))
	for name, flag := range flagNames {
		if f.HasFlag(flag) {
			set = append(set, namedFlag{name, flag})
		}
	}
	sort.Slice(set, func(i, j int) bool { return set[i].flag < set[j].flag })

	names := make([]string, 0, len(set))
	var known ScriptFlags
	for _, nf := range set {
		names = append(names, nf.name)
		known |= nf.flag
	}
	if unknown := f &^ known; unknown != 0 {
		names = append(names, fmt.Sprintf("0x%x", uint32(unknown)))
	}
	return strings.Join(names, ",")
}

// ParseScriptFlags parses a comma separated list of flag names, such as
// "P2SH,STRICTENC".  The names "NONE" and "STANDARD" are also recognized, the
// latter expanding to StandardVerifyFlags.
func ParseScriptFlags(s string) (ScriptFlags, error) {
	var flags ScriptFlags
	for _, word := range strings.Split(s, ",") {
		word = strings.TrimSpace(word)
		switch word {
		case "", "NONE":
			continue
		case "STANDARD":
			flags |= StandardVerifyFlags
			continue
		case "MANDATORY":
			flags |= MandatoryScriptVerifyFlags
			continue
		}

		flag, ok := flagNames[word]
		if !ok {
			str := fmt.Sprintf("unknown verification flag %q", word)
			return 0, scriptError(ErrInvalidFlags, str)
		}
		flags |= flag
	}
	return flags, nil
}
