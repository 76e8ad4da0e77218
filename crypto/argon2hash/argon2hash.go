// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package argon2hash implements the Argon2id emergency proof-of-work
// fallback hasher. It wraps golang.org/x/crypto/argon2
// with consensus-fixed parameters and the block-header salting rule: the
// previous block's hash salts the header hash, so no two blocks share an
// input/salt pair and precomputation across blocks is impossible.
package argon2hash

import (
	"errors"
	"fmt"
	"sync"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btclog"
	"golang.org/x/crypto/argon2"

	"github.com/sylmnetwork/sylmd/wire"
)

// log is the package-level logger used throughout argon2hash. It is
// disabled by default until UseLogger is called.
var log = btclog.Disabled

// UseLogger uses a specified Logger to output package logging info.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// DisableLog disables all library log output. Logging output is disabled
// by default until UseLogger is called.
func DisableLog() {
	log = btclog.Disabled
}

// MaxInputSize is the largest input this hasher will accept. Block headers
// are 80 bytes; the limit exists purely as a DoS guard against a caller
// mistakenly feeding it unbounded data.
const MaxInputSize = 4 * 1024 * 1024

// ErrParameterInvalid is returned by New when constructed with cost
// parameters below the consensus minimums.
var ErrParameterInvalid = errors.New("argon2hash: invalid parameter")

// ErrInputTooLarge is returned by Hash/HashBlock when the input exceeds
// MaxInputSize.
var ErrInputTooLarge = errors.New("argon2hash: input exceeds maximum size")

// Params bundles the Argon2id cost parameters. These must match
// byte-for-byte across every validator on a network: a mismatched Params
// produces a different PoW hash for the same header and forks the chain.
type Params struct {
	// MemoryKiB is the memory cost `m`, in KiB.
	MemoryKiB uint32

	// Time is the number of passes `t`.
	Time uint32

	// Parallelism is the lane count `p`.
	Parallelism uint8
}

func (p Params) validate() error {
	if p.MemoryKiB < 8 {
		return fmt.Errorf("%w: memory cost %d KiB below minimum 8 KiB", ErrParameterInvalid, p.MemoryKiB)
	}
	if p.Time < 1 {
		return fmt.Errorf("%w: time cost %d below minimum 1", ErrParameterInvalid, p.Time)
	}
	if p.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism %d below minimum 1", ErrParameterInvalid, p.Parallelism)
	}
	return nil
}

// Hasher is a mutex-guarded Argon2id hasher holding one immutable set of
// consensus parameters. A single hash call costs roughly 100ms at the
// mainnet 2 GiB memory cost, so the mutex effectively
// serializes emergency-fallback PoW checks through this instance; callers
// needing more throughput may construct additional independent Hashers, each
// consensus-equivalent since Params is immutable after New returns.
type Hasher struct {
	mu     sync.Mutex
	params Params
}

// New constructs a Hasher with the given parameters, validating them against
// the consensus minimums. The returned Hasher's parameters never change.
func New(params Params) (*Hasher, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &Hasher{params: params}, nil
}

// Params returns the hasher's immutable cost parameters.
func (h *Hasher) Params() Params {
	return h.params
}

// Hash computes the Argon2id hash of data salted with salt, using the
// hasher's fixed parameters. salt must be consensus-specified by the
// caller; reusing salts defeats the precomputation resistance the block
// hasher relies on. Concurrent callers serialize on the hasher's mutex;
// identical (data, salt, Params) always produce identical output regardless
// of call order.
func (h *Hasher) Hash(data, salt []byte) (chainhash.Hash, error) {
	if len(data) > MaxInputSize {
		return chainhash.Hash{}, fmt.Errorf("%w: %d bytes", ErrInputTooLarge, len(data))
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	out := argon2.IDKey(data, salt, h.params.Time, h.params.MemoryKiB,
		h.params.Parallelism, chainhash.HashSize)

	var result chainhash.Hash
	copy(result[:], out)
	return result, nil
}

// HashBlock computes the Argon2id proof-of-work hash of a block header,
// serializing it to its canonical 80-byte wire form and salting with the
// header's own PrevBlock hash. Using the predecessor's
// hash as salt means every block's salt is determined entirely by its
// position in the chain, so no precomputation across distinct chain
// histories is possible.
func (h *Hasher) HashBlock(header *wire.BlockHeader) (chainhash.Hash, error) {
	return h.Hash(header.Bytes(), header.PrevBlock[:])
}

var (
	defaultMu     sync.Mutex
	defaultHasher *Hasher
	defaultParams Params
)

// InitDefault lazily constructs (or replaces, if params differ) the
// package-level default Hasher singleton other packages may share instead
// of threading a *Hasher through every call site. Call sites that prefer explicit
// dependency injection should use New directly instead; the two are
// interchangeable as long as all callers on a given network agree on
// Params.
func InitDefault(params Params) (*Hasher, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultHasher != nil && defaultParams == params {
		return defaultHasher, nil
	}

	h, err := New(params)
	if err != nil {
		return nil, err
	}
	log.Infof("Argon2id emergency hasher initialized: memory=%dKiB time=%d parallelism=%d",
		params.MemoryKiB, params.Time, params.Parallelism)
	defaultHasher = h
	defaultParams = params
	return h, nil
}

// Default returns the current package-level default Hasher, or nil if
// InitDefault has never been called.
func Default() *Hasher {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultHasher
}
