// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package blockchain validates the input scripts of transactions and blocks in
parallel.

Every input is verified on its own by a pool of goroutines sharing the read
only midstates of its transaction.  The signature checks performed by the
inputs are charged to two budgets held by atomic counters: one per
transaction, MaxTxSigChecks, and one per block derived from the maximum block
size.  Exhausting either budget, or any script failure, stops the remaining
work.

# Errors

Failures are reported as RuleError.  When a script failed, the underlying
txscript.Error is reachable with errors.As.
*/
package blockchain
