// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2019 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"
)

const (
	// sigChecksDensityFactor and sigChecksDensityBonus define the minimum
	// signature script length of an input performing n signature checks
	// as n*sigChecksDensityFactor - sigChecksDensityBonus.
	sigChecksDensityFactor = 43
	sigChecksDensityBonus  = 60
)

// verifyTopTrue returns ErrEvalFalse unless the stack holds a true value on
// top.
func verifyTopTrue(stk [][]byte, what string) error {
	if len(stk) == 0 {
		str := fmt.Sprintf("stack empty at end of %s execution", what)
		return scriptError(ErrEvalFalse, str)
	}
	if !asBool(stk[len(stk)-1]) {
		str := fmt.Sprintf("false stack entry at end of %s execution", what)
		return scriptError(ErrEvalFalse, str)
	}
	return nil
}

// VerifyScript verifies that scriptSig satisfies scriptPubKey under the given
// flags.  The signature script is executed first, then the public key script
// on the resulting stack and, for pay-to-script-hash outputs, the redeem
// script pushed last by the signature script.  The accumulated execution
// metrics are returned on success.
func VerifyScript(scriptSig, scriptPubKey []byte, flags ScriptFlags,
	checker SignatureChecker, opts ...EngineOption) (ScriptExecutionMetrics, error) {

	var metrics ScriptExecutionMetrics

	// Replay protected signatures are only sound with strict encoding.
	if flags.HasFlag(ScriptEnableSighashForkID) {
		flags |= ScriptVerifyStrictEncoding
	}

	// The clean stack flag requires P2SH since switching from clean stack
	// to P2SH and clean stack would otherwise not be a soft fork.
	if flags.HasFlag(ScriptVerifyCleanStack) &&
		!flags.HasFlag(ScriptVerifyP2SH) {

		return metrics, scriptError(ErrInvalidFlags, "invalid flags "+
			"combination: CLEANSTACK requires P2SH")
	}

	if flags.HasFlag(ScriptVerifySigPushOnly) && !IsPushOnlyScript(scriptSig) {
		return metrics, scriptError(ErrSigPushOnly, "signature script "+
			"is not push only")
	}

	stk, err := EvalScript(nil, scriptSig, flags, checker, &metrics, opts...)
	if err != nil {
		log.Debugf("signature script failed: %v", err)
		return metrics, err
	}

	// EvalScript returns a fresh copy of the stack, so the signature
	// script result can be kept as is for the redeem script.
	var savedStack [][]byte
	if flags.HasFlag(ScriptVerifyP2SH) {
		savedStack = stk
	}

	stk, err = EvalScript(stk, scriptPubKey, flags, checker, &metrics,
		opts...)
	if err != nil {
		log.Debugf("public key script failed: %v", err)
		return metrics, err
	}
	if err := verifyTopTrue(stk, "public key script"); err != nil {
		return metrics, err
	}

	if flags.HasFlag(ScriptVerifyP2SH) &&
		IsPayToScriptHash(scriptPubKey, flags) {

		// The signature script of a pay-to-script-hash spend may only
		// push data.
		if !IsPushOnlyScript(scriptSig) {
			return metrics, scriptError(ErrSigPushOnly, "pay to script "+
				"hash signature script is not push only")
		}

		// The public key script ran successfully on the saved stack, so
		// it holds at least the redeem script.
		redeemScript := savedStack[len(savedStack)-1]
		stk = savedStack[:len(savedStack)-1]

		// Coins sent to a pay-to-script-hash wrapped witness program
		// can be recovered by anyone revealing the program.
		if !flags.HasFlag(ScriptDisallowSegwitRecovery) &&
			isScriptHash20(scriptPubKey) && len(stk) == 0 &&
			isWitnessProgram(redeemScript) {

			log.Tracef("accepting segwit recovery spend of %x",
				redeemScript)
			return metrics, nil
		}

		stk, err = EvalScript(stk, redeemScript, flags, checker,
			&metrics, opts...)
		if err != nil {
			log.Debugf("redeem script failed: %v", err)
			return metrics, err
		}
		if err := verifyTopTrue(stk, "redeem script"); err != nil {
			return metrics, err
		}
	}

	// The clean stack check runs after any redeem script so the redeem
	// script arguments are consumed first.
	if flags.HasFlag(ScriptVerifyCleanStack) && len(stk) != 1 {
		str := fmt.Sprintf("stack must contain exactly one item (contains "+
			"%d)", len(stk))
		return metrics, scriptError(ErrCleanStack, str)
	}

	if flags.HasFlag(ScriptVerifyInputSigChecks) {
		minLen := metrics.SigChecks*sigChecksDensityFactor -
			sigChecksDensityBonus
		if len(scriptSig) < minLen {
			str := fmt.Sprintf("signature script of %d bytes is too "+
				"short for %d signature checks", len(scriptSig),
				metrics.SigChecks)
			return metrics, scriptError(ErrInputSigChecks, str)
		}
	}

	return metrics, nil
}
