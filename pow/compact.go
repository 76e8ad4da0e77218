// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package pow implements proof-of-work algorithm dispatch, the compact
// target codec, and RandomX key-block derivation for the Sylm consensus
// core.
package pow

import (
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// CompactToBig converts a compact representation of a 256-bit unsigned
// integer ("nBits" in Bitcoin-lineage terminology) into a *big.Int. The
// representation packs an 8-bit exponent and a 24-bit mantissa (with the
// high mantissa bit reserved as a sign flag), base 256, so the expanded
// value is:
//
//	mantissa * 256^(exponent-3)
//
// A negative result (sign bit set) is a valid decode but never a valid
// target; callers must reject it the way CheckProofOfWork does.
func CompactToBig(compact uint32) *big.Int {
	mantissa := compact & 0x007fffff
	isNegative := compact&0x00800000 != 0
	exponent := compact >> 24

	var bn *big.Int
	if exponent <= 3 {
		mantissa >>= 8 * (3 - exponent)
		bn = big.NewInt(int64(mantissa))
	} else {
		bn = big.NewInt(int64(mantissa))
		bn.Lsh(bn, uint(8*(exponent-3)))
	}

	if isNegative {
		bn = bn.Neg(bn)
	}
	return bn
}

// BigToCompact converts a *big.Int into its compact representation, the
// inverse of CompactToBig. It is used by the difficulty retargeter to
// re-encode a newly computed target back into a block header's Bits field.
func BigToCompact(n *big.Int) uint32 {
	if n.Sign() == 0 {
		return 0
	}

	var mantissa uint32
	exponent := uint(len(n.Bytes()))
	if exponent <= 3 {
		mantissa = uint32(n.Bits()[0])
		mantissa <<= 8 * (3 - exponent)
	} else {
		tn := new(big.Int).Set(n)
		mantissa = uint32(tn.Rsh(tn, 8*(exponent-3)).Bits()[0])
	}

	// The mantissa's high bit is reserved as a sign flag; if setting it
	// would make the mantissa look negative, shift one more byte into the
	// exponent instead.
	if mantissa&0x00800000 != 0 {
		mantissa >>= 8
		exponent++
	}

	compact := uint32(exponent<<24) | mantissa
	if n.Sign() < 0 {
		compact |= 0x00800000
	}
	return compact
}

// HashToBig converts a Hash, which is stored in little-endian wire order,
// into a *big.Int treating the bytes as a big-endian arithmetic integer.
// This conversion is required before a proof-of-work hash can be compared
// numerically against a target.
func HashToBig(hash *chainhash.Hash) *big.Int {
	var buf [chainhash.HashSize]byte
	for i := 0; i < chainhash.HashSize; i++ {
		buf[i] = hash[chainhash.HashSize-1-i]
	}
	return new(big.Int).SetBytes(buf[:])
}
