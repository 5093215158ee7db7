// Copyright (c) 2022 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/cashsuite/bchscript/wire"
)

// ScriptExecutionContext describes the input being verified: the spending
// transaction, the index of the input within it and the coins it spends.
//
// A full context, as created by NewContextForAllInputs, shares the coins of
// every input of the transaction with its siblings.  A limited context only
// knows the coin of its own input, which is enough for signature checking but
// not for introspecting the coins of other inputs or for hashing the spent
// outputs.
type ScriptExecutionContext struct {
	inputIndex int
	tx         *wire.MsgTx
	coins      []*wire.TxOut
	limited    bool
}

// NewContextForAllInputs returns one full context per input of the
// transaction.  The contexts share the passed coins, which must hold the
// output spent by each input in input order.
func NewContextForAllInputs(tx *wire.MsgTx, coins []*wire.TxOut) ([]*ScriptExecutionContext, error) {
	if len(coins) != len(tx.TxIn) {
		str := fmt.Sprintf("transaction has %d inputs but %d coins were "+
			"provided", len(tx.TxIn), len(coins))
		return nil, scriptError(ErrInvalidIndex, str)
	}
	for i, coin := range coins {
		if coin == nil {
			str := fmt.Sprintf("missing coin for input %d", i)
			return nil, scriptError(ErrInvalidIndex, str)
		}
	}

	contexts := make([]*ScriptExecutionContext, len(tx.TxIn))
	for i := range tx.TxIn {
		contexts[i] = &ScriptExecutionContext{
			inputIndex: i,
			tx:         tx,
			coins:      coins,
		}
	}
	return contexts, nil
}

// NewLimitedContext returns a context for a single input which only knows the
// coin spent by that input.
func NewLimitedContext(tx *wire.MsgTx, inputIndex int, coin *wire.TxOut) (*ScriptExecutionContext, error) {
	if inputIndex < 0 || inputIndex >= len(tx.TxIn) {
		str := fmt.Sprintf("input index %d is out of range for %d inputs",
			inputIndex, len(tx.TxIn))
		return nil, scriptError(ErrInvalidIndex, str)
	}
	if coin == nil {
		str := fmt.Sprintf("missing coin for input %d", inputIndex)
		return nil, scriptError(ErrInvalidIndex, str)
	}

	return &ScriptExecutionContext{
		inputIndex: inputIndex,
		tx:         tx,
		coins:      []*wire.TxOut{coin},
		limited:    true,
	}, nil
}

// Tx returns the spending transaction.
func (c *ScriptExecutionContext) Tx() *wire.MsgTx {
	return c.tx
}

// InputIndex returns the index of the input being verified.
func (c *ScriptExecutionContext) InputIndex() int {
	return c.inputIndex
}

// IsLimited returns whether only the coin of the verified input is known.
func (c *ScriptExecutionContext) IsLimited() bool {
	return c.limited
}

// Coin returns the output spent by input i.  For a limited context only the
// verified input is known and nil is returned for its siblings.
func (c *ScriptExecutionContext) Coin(i int) *wire.TxOut {
	if c.limited {
		if i != c.inputIndex {
			return nil
		}
		return c.coins[0]
	}
	if i < 0 || i >= len(c.coins) {
		return nil
	}
	return c.coins[i]
}

// CoinAmount returns the value in satoshis of the output spent by input i.
func (c *ScriptExecutionContext) CoinAmount(i int) int64 {
	if coin := c.Coin(i); coin != nil {
		return coin.Value
	}
	return 0
}

// CoinTokenData returns the token payload of the output spent by input i, or
// nil when it carries none.
func (c *ScriptExecutionContext) CoinTokenData(i int) *wire.TokenData {
	if coin := c.Coin(i); coin != nil {
		return coin.TokenData
	}
	return nil
}

// ScriptSig returns the unlocking script of input i.
func (c *ScriptExecutionContext) ScriptSig(i int) []byte {
	return c.tx.TxIn[i].SignatureScript
}

// coinsForAllInputs returns the coins of every input, or nil for a limited
// context.
func (c *ScriptExecutionContext) coinsForAllInputs() []*wire.TxOut {
	if c.limited {
		return nil
	}
	return c.coins
}
