// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package randomx

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// PoolHasher adapts a Pool to the pow.RandomXHasher interface at a fixed
// Priority, so callers in the pow/blockchain packages need not juggle
// Acquire/Release themselves. Validation code should use a PoolHasher over
// a ModeLight pool at PriorityConsensusCritical; mining code should use one
// over a ModeFull pool at PriorityHigh.
type PoolHasher struct {
	Pool     *Pool
	Priority Priority
}

// Hash acquires a context keyed for keyHash at the configured priority,
// computes the RandomX hash of input, and releases the context before
// returning.
func (h PoolHasher) Hash(keyHash chainhash.Hash, input []byte) (chainhash.Hash, error) {
	guard, err := h.Pool.Acquire(keyHash, h.Priority)
	if err != nil {
		return chainhash.Hash{}, err
	}
	defer guard.Release()
	return guard.Hash(input), nil
}
