// Copyright (c) 2022 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "sync/atomic"

const (
	// MaxTxSigChecks is the maximum number of signature checks the inputs
	// of a single transaction may perform.
	MaxTxSigChecks = 3000

	// BlockSizeToSigChecksRatio is the number of bytes of maximum block
	// size granting one signature check to the block.
	BlockSizeToSigChecksRatio = 141
)

// MaxBlockSigChecks returns the maximum number of signature checks allowed in
// a block given the maximum block size.
func MaxBlockSigChecks(maxBlockSize uint64) int64 {
	return int64(maxBlockSize / BlockSizeToSigChecksRatio)
}

// SigChecksLimiter is a budget of signature checks shared by concurrently
// validated inputs.  It is safe for concurrent use.
type SigChecksLimiter struct {
	remaining atomic.Int64
}

// NewSigChecksLimiter returns a limiter allowing limit signature checks.
func NewSigChecksLimiter(limit int64) *SigChecksLimiter {
	var l SigChecksLimiter
	l.remaining.Store(limit)
	return &l
}

// Consume takes n signature checks from the budget and returns whether the
// budget still holds.  Once exceeded, every later call fails as well.
func (l *SigChecksLimiter) Consume(n int64) bool {
	return l.remaining.Add(-n) >= 0
}

// Remaining returns the signature checks left in the budget.  It is negative
// once the budget has been exceeded.
func (l *SigChecksLimiter) Remaining() int64 {
	return l.remaining.Load()
}
