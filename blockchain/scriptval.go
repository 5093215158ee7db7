// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"context"
	"fmt"
	"runtime"

	"github.com/cashsuite/bchscript/txscript"
	"github.com/cashsuite/bchscript/wire"
)

// txValidateItem holds a transaction along with which input to validate.
type txValidateItem struct {
	txInIndex int
	txIn      *wire.TxIn
	tx        *wire.MsgTx
	coin      *wire.TxOut
	ctx       *txscript.ScriptExecutionContext
	txData    *txscript.PrecomputedTxData
	txLimiter *SigChecksLimiter
}

// txValidateResult is the outcome of validating a single input.
type txValidateResult struct {
	sigChecks int
	err       error
}

// txValidator provides a type which asynchronously validates transaction
// inputs.  It provides several channels for communication and a processing
// function that is intended to be in run multiple goroutines.
type txValidator struct {
	validateChan chan *txValidateItem
	quitChan     chan struct{}
	resultChan   chan txValidateResult
	flags        txscript.ScriptFlags
	sigCache     *txscript.SigCache
	blockLimiter *SigChecksLimiter
	opts         []txscript.EngineOption
}

// sendResult sends the result of a script pair validation on the internal
// result channel while respecting the quit channel.  This allows orderly
// shutdown when the validation process is aborted early due to a validation
// error in one of the other goroutines.
func (v *txValidator) sendResult(result txValidateResult) {
	select {
	case v.resultChan <- result:
	case <-v.quitChan:
	}
}

// validateInput runs the scripts of a single input and charges the signature
// checks it performed to the transaction and block budgets.
func (v *txValidator) validateInput(txVI *txValidateItem) txValidateResult {
	txIn := txVI.txIn
	sigScript := txIn.SignatureScript
	pkScript := txVI.coin.PkScript
	checker := txscript.NewTransactionSignatureChecker(txVI.ctx,
		txVI.txData, v.sigCache)

	metrics, err := txscript.VerifyScript(sigScript, pkScript, v.flags,
		checker, v.opts...)
	if err != nil {
		str := fmt.Sprintf("failed to validate input %s:%d which "+
			"references output %v - %v (input script bytes %x, prev "+
			"output script bytes %x)", txVI.tx.TxHash(),
			txVI.txInIndex, txIn.PreviousOutPoint, err, sigScript,
			pkScript)
		rerr := ruleError(ErrScriptValidation, str)
		rerr.Err = err
		return txValidateResult{err: rerr}
	}

	sigChecks := int64(metrics.SigChecks)
	if !txVI.txLimiter.Consume(sigChecks) {
		str := fmt.Sprintf("transaction %s exceeds the limit of %d "+
			"signature checks", txVI.tx.TxHash(), MaxTxSigChecks)
		return txValidateResult{err: ruleError(ErrTxSigChecks, str)}
	}
	if v.blockLimiter != nil && !v.blockLimiter.Consume(sigChecks) {
		str := fmt.Sprintf("input %s:%d exceeds the signature check "+
			"budget of the block", txVI.tx.TxHash(), txVI.txInIndex)
		return txValidateResult{err: ruleError(ErrBlockSigChecks, str)}
	}

	return txValidateResult{sigChecks: metrics.SigChecks}
}

// validateHandler consumes items to validate from the internal validate channel
// and returns the result of the validation on the internal result channel. It
// must be run as a goroutine.
func (v *txValidator) validateHandler() {
out:
	for {
		select {
		case txVI := <-v.validateChan:
			result := v.validateInput(txVI)
			v.sendResult(result)
			if result.err != nil {
				break out
			}

		case <-v.quitChan:
			break out
		}
	}
}

// Validate validates the scripts for all of the passed transaction inputs using
// multiple goroutines and returns the signature checks they performed.
// Cancelling ctx aborts the validation with the context error.
func (v *txValidator) Validate(ctx context.Context, items []*txValidateItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	// Limit the number of goroutines to do script validation based on the
	// number of processor cores.  This help ensure the system stays
	// reasonably responsive under heavy load.
	maxGoRoutines := runtime.NumCPU() * 3
	if maxGoRoutines <= 0 {
		maxGoRoutines = 1
	}
	if maxGoRoutines > len(items) {
		maxGoRoutines = len(items)
	}

	// Start up validation handlers that are used to asynchronously
	// validate each transaction input.
	for i := 0; i < maxGoRoutines; i++ {
		go v.validateHandler()
	}

	// Validate each of the inputs.  The quit channel is closed when any
	// errors occur so all processing goroutines exit regardless of which
	// input had the validation error.
	numInputs := len(items)
	currentItem := 0
	processedItems := 0
	sigChecks := 0
	for processedItems < numInputs {
		// Only send items while there are still items that need to
		// be processed.  The select statement will never select a nil
		// channel.
		var validateChan chan *txValidateItem
		var item *txValidateItem
		if currentItem < numInputs {
			validateChan = v.validateChan
			item = items[currentItem]
		}

		select {
		case validateChan <- item:
			currentItem++

		case result := <-v.resultChan:
			processedItems++
			if result.err != nil {
				close(v.quitChan)
				return 0, result.err
			}
			sigChecks += result.sigChecks

		case <-ctx.Done():
			close(v.quitChan)
			return 0, ctx.Err()
		}
	}

	close(v.quitChan)
	return sigChecks, nil
}

// newTxValidator returns a new instance of txValidator to be used for
// validating transaction scripts asynchronously.  The block limiter may be
// nil when only a single transaction is validated.
func newTxValidator(flags txscript.ScriptFlags, sigCache *txscript.SigCache,
	blockLimiter *SigChecksLimiter, opts []txscript.EngineOption) *txValidator {

	return &txValidator{
		validateChan: make(chan *txValidateItem),
		quitChan:     make(chan struct{}),
		resultChan:   make(chan txValidateResult),
		flags:        flags,
		sigCache:     sigCache,
		blockLimiter: blockLimiter,
		opts:         opts,
	}
}

// txValidateItems builds the validation items of every input of tx.  The
// midstates of the transaction are computed once here, or taken from the hash
// cache when one is passed, and then shared by all the items.
func txValidateItems(tx *wire.MsgTx, view CoinView, hashCache *txscript.HashCache,
	txLimiter *SigChecksLimiter) ([]*txValidateItem, error) {

	if len(tx.TxIn) == 0 {
		return nil, nil
	}

	coins, err := fetchInputCoins(tx, view)
	if err != nil {
		return nil, err
	}
	contexts, err := txscript.NewContextForAllInputs(tx, coins)
	if err != nil {
		str := fmt.Sprintf("unable to build execution contexts for "+
			"transaction %s: %v", tx.TxHash(), err)
		return nil, ruleError(ErrBadTxInput, str)
	}

	var txData *txscript.PrecomputedTxData
	if hashCache != nil {
		txData = hashCache.AddTxData(contexts[0])
	} else {
		txData = txscript.NewPrecomputedTxData(contexts[0])
	}

	items := make([]*txValidateItem, 0, len(tx.TxIn))
	for txInIdx, txIn := range tx.TxIn {
		items = append(items, &txValidateItem{
			txInIndex: txInIdx,
			txIn:      txIn,
			tx:        tx,
			coin:      coins[txInIdx],
			ctx:       contexts[txInIdx],
			txData:    txData,
			txLimiter: txLimiter,
		})
	}
	return items, nil
}

// ValidateTransactionScripts validates the scripts for the passed transaction
// using multiple goroutines and returns the signature checks performed by its
// inputs.  The coins spent by the transaction are looked up in view.  Both the
// signature cache and the hash cache are optional.
func ValidateTransactionScripts(ctx context.Context, tx *wire.MsgTx,
	view CoinView, flags txscript.ScriptFlags, sigCache *txscript.SigCache,
	hashCache *txscript.HashCache, opts ...txscript.EngineOption) (int, error) {

	return validateTransactionScripts(ctx, tx, view, flags, sigCache,
		hashCache, NewSigChecksLimiter(MaxTxSigChecks), opts)
}

// validateTransactionScripts is ValidateTransactionScripts with an explicit
// transaction limiter.
func validateTransactionScripts(ctx context.Context, tx *wire.MsgTx,
	view CoinView, flags txscript.ScriptFlags, sigCache *txscript.SigCache,
	hashCache *txscript.HashCache, txLimiter *SigChecksLimiter,
	opts []txscript.EngineOption) (int, error) {

	items, err := txValidateItems(tx, view, hashCache, txLimiter)
	if err != nil {
		return 0, err
	}

	validator := newTxValidator(flags, sigCache, nil, opts)
	sigChecks, err := validator.Validate(ctx, items)
	if err != nil {
		return 0, err
	}

	log.Tracef("Validated %d inputs of transaction %s performing %d "+
		"signature checks", len(items), tx.TxHash(), sigChecks)
	return sigChecks, nil
}

// CheckBlockScripts validates the scripts of every transaction of a block
// using multiple goroutines and returns the signature checks performed.  The
// first transaction is skipped when it is a coinbase.  Inputs may spend the
// outputs of earlier transactions of the block; the remaining coins are looked
// up in view.
//
// Every transaction is held to MaxTxSigChecks and the block as a whole to the
// budget derived from maxBlockSize.
func CheckBlockScripts(ctx context.Context, txs []*wire.MsgTx, view CoinView,
	flags txscript.ScriptFlags, maxBlockSize uint64,
	sigCache *txscript.SigCache, hashCache *txscript.HashCache,
	opts ...txscript.EngineOption) (int, error) {

	blockView := &blockCoinView{created: make(CoinMap), base: view}
	var items []*txValidateItem
	for i, tx := range txs {
		if i == 0 && IsCoinBaseTx(tx) {
			blockView.created.AddTxOuts(tx)
			continue
		}

		txItems, err := txValidateItems(tx, blockView, hashCache,
			NewSigChecksLimiter(MaxTxSigChecks))
		if err != nil {
			return 0, err
		}
		items = append(items, txItems...)
		blockView.created.AddTxOuts(tx)
	}

	blockLimiter := NewSigChecksLimiter(MaxBlockSigChecks(maxBlockSize))
	validator := newTxValidator(flags, sigCache, blockLimiter, opts)
	sigChecks, err := validator.Validate(ctx, items)
	if err != nil {
		return 0, err
	}

	// The midstates of the block transactions are not needed anymore.
	if hashCache != nil {
		for _, tx := range txs {
			txHash := tx.TxHash()
			hashCache.PurgeTxData(&txHash)
		}
	}

	log.Debugf("Validated %d inputs of %d transactions performing %d "+
		"signature checks", len(items), len(txs), sigChecks)
	return sigChecks, nil
}
