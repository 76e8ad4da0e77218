// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pow

import (
	"errors"
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/sylmnetwork/sylmd/chaincfg"
	"github.com/sylmnetwork/sylmd/wire"
)

// ErrInvalidTarget is returned when a block's Bits field decodes to zero,
// a negative value, or a value above the active proof-of-work limit for its
// height.
var ErrInvalidTarget = errors.New("pow: invalid target")

// ErrBelowTarget is returned when a block's proof-of-work hash exceeds its
// own target.
var ErrBelowTarget = errors.New("pow: hash does not satisfy target")

// GetAlgorithm returns the proof-of-work algorithm that must validate a
// block at the given height under params:
//
//	if height == 0                          -> SHA256d (the genesis block)
//	elif height >= Argon2EmergencyHeight >= 0 -> Argon2id
//	elif height >= RandomXForkHeight        -> RandomX
//	else                                    -> SHA256d
//
// Height 0 (genesis) always returns AlgoSHA256D regardless of fork
// configuration: a network may legitimately set RandomXForkHeight (or, on
// regtest, even Argon2EmergencyHeight) to 0 so every block after genesis
// uses that algorithm, and the genesis block's own proof of work is always
// mined and checked under SHA256d (see chaincfg/genesis.go).
func GetAlgorithm(height int32, params *chaincfg.Params) chaincfg.PowAlgorithm {
	if height == 0 {
		return chaincfg.AlgoSHA256D
	}
	if params.Argon2EmergencyHeight >= 0 && height >= params.Argon2EmergencyHeight {
		return chaincfg.AlgoArgon2id
	}
	if height >= params.RandomXForkHeight {
		return chaincfg.AlgoRandomX
	}
	return chaincfg.AlgoSHA256D
}

// IsArgon2EmergencyActive reports whether the Argon2id emergency fallback is
// active at the given height.
func IsArgon2EmergencyActive(height int32, params *chaincfg.Params) bool {
	return params.Argon2EmergencyHeight >= 0 && height >= params.Argon2EmergencyHeight
}

// GetActivePowLimit returns the proof-of-work limit that applies at height.
// The networks this module registers define all three per-algorithm limits,
// but Params.GetActivePowLimit also handles a custom Params value that
// leaves PowLimitRandomX or PowLimitArgon2 nil by falling back one
// algorithm at a time (Argon2id to RandomX to SHA256d).
func GetActivePowLimit(height int32, params *chaincfg.Params) *big.Int {
	return params.GetActivePowLimit(GetAlgorithm(height, params))
}

// GetRandomXKeyBlockHeight computes k(h), the height of the block whose
// hash seeds the RandomX VM's cache/dataset at height h:
//
//	k(h) = max(0, floor(h/I)*I - I)   where I = interval
//
// The result is always a non-negative multiple of interval and never
// exceeds h.
func GetRandomXKeyBlockHeight(height int32, interval int32) int32 {
	if interval <= 0 {
		return 0
	}
	k := (height/interval)*interval - interval
	if k < 0 {
		return 0
	}
	return k
}

// RandomXHasher computes a RandomX hash over input using the VM keyed by
// keyHash. Implementations (the mining/randomx context pool, through a
// guard) own all key management and reuse policy; this interface is the
// only contract pow needs from them.
type RandomXHasher interface {
	Hash(keyHash chainhash.Hash, input []byte) (chainhash.Hash, error)
}

// Argon2Hasher computes the Argon2id emergency proof-of-work hash of a
// block header, salted by the block's own predecessor hash.
type Argon2Hasher interface {
	HashBlock(header *wire.BlockHeader) (chainhash.Hash, error)
}

// KeyBlockLookup resolves the hash of the block at the given height. The
// caller (typically the block index) is the only component that knows the
// active chain, so key-block resolution is injected rather than owned by
// this package.
type KeyBlockLookup func(height int32) (chainhash.Hash, error)

// ComputeBlockPowHash computes the proof-of-work hash of header at height
// under the algorithm GetAlgorithm dispatches to. SHA256d needs nothing
// beyond the header; RandomX resolves its key block via lookup and delegates
// to randomX; Argon2id delegates to argon2.
func ComputeBlockPowHash(header *wire.BlockHeader, height int32, params *chaincfg.Params,
	randomX RandomXHasher, argon2 Argon2Hasher, lookup KeyBlockLookup) (chainhash.Hash, error) {

	switch GetAlgorithm(height, params) {
	case chaincfg.AlgoRandomX:
		keyHeight := GetRandomXKeyBlockHeight(height, params.RandomXKeyBlockInterval)
		keyHash, err := lookup(keyHeight)
		if err != nil {
			return chainhash.Hash{}, err
		}
		return randomX.Hash(keyHash, header.Bytes())
	case chaincfg.AlgoArgon2id:
		log.Warnf("computing proof of work for height %d under Argon2id emergency fallback", height)
		return argon2.HashBlock(header)
	default:
		return header.BlockHash(), nil
	}
}

// CheckProofOfWork validates that powHash (the hash already computed for
// header's algorithm at height, e.g. via ComputeBlockPowHash) satisfies
// bits:
//
//  1. Decode bits as a target T; reject zero, negative, or T above the
//     active powLimit for height.
//  2. Accept iff powHash <= T, both interpreted as 256-bit big-endian
//     integers.
func CheckProofOfWork(powHash chainhash.Hash, bits uint32, height int32, params *chaincfg.Params) error {
	target := CompactToBig(bits)

	if target.Sign() <= 0 {
		return ErrInvalidTarget
	}
	limit := GetActivePowLimit(height, params)
	if target.Cmp(limit) > 0 {
		return ErrInvalidTarget
	}

	hashNum := HashToBig(&powHash)
	if hashNum.Cmp(target) > 0 {
		return ErrBelowTarget
	}
	return nil
}
