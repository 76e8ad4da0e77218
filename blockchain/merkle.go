// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/sylmnetwork/sylmd/wire"
)

const (
	// CoinbaseWitnessDataLen is the required length of the only element
	// within the coinbase's witness data if the coinbase transaction
	// contains a witness commitment.
	CoinbaseWitnessDataLen = 32

	// CoinbaseWitnessPkScriptLength is the length of the public key
	// script containing an OP_RETURN, WitnessMagicBytes, and the witness
	// commitment itself.
	CoinbaseWitnessPkScriptLength = 38
)

// WitnessMagicBytes is the prefix marker within the public key script of a
// coinbase output that indicates the output holds a block's witness
// commitment: OP_RETURN, a 36-byte push, then the four-byte commitment
// header bytes inherited unchanged from BIP0141.
var WitnessMagicBytes = []byte{
	0x6a, // OP_RETURN
	0x24, // OP_DATA_36
	0xaa, 0x21, 0xa9, 0xed,
}

// nextPowerOfTwo returns the next highest power of two from a given number
// if it is not already a power of two.
func nextPowerOfTwo(n int) int {
	if n&(n-1) == 0 {
		return n
	}
	exponent := uint(math.Log2(float64(n))) + 1
	return 1 << exponent
}

// HashMerkleBranches takes two hashes, treated as left and right tree nodes,
// and returns the hash of their concatenation.
func HashMerkleBranches(left, right *chainhash.Hash) chainhash.Hash {
	var hash [chainhash.HashSize * 2]byte
	copy(hash[:chainhash.HashSize], left[:])
	copy(hash[chainhash.HashSize:], right[:])

	return chainhash.DoubleHashRaw(func(w io.Writer) error {
		_, err := w.Write(hash[:])
		return err
	})
}

// BuildMerkleTreeStore creates a merkle tree from a slice of transactions,
// stores it using a linear array, and returns a slice of the backing array.
// The merkle root is always the last element in the returned slice.
//
// The witness parameter indicates whether the tree is built over wtxids
// rather than txids; when true, the coinbase's leaf is the all-zero hash per
// BIP0141 rather than its actual wtxid.
func BuildMerkleTreeStore(transactions []*wire.MsgTx, witness bool) []*chainhash.Hash {
	nextPoT := nextPowerOfTwo(len(transactions))
	arraySize := nextPoT*2 - 1
	merkles := make([]*chainhash.Hash, arraySize)

	for i, tx := range transactions {
		switch {
		case witness && i == 0:
			var zeroHash chainhash.Hash
			merkles[i] = &zeroHash
		case witness:
			h := tx.WitnessHash()
			merkles[i] = &h
		default:
			h := tx.TxHash()
			merkles[i] = &h
		}
	}

	offset := nextPoT
	for i := 0; i < arraySize-1; i += 2 {
		switch {
		case merkles[i] == nil:
			merkles[offset] = nil
		case merkles[i+1] == nil:
			newHash := HashMerkleBranches(merkles[i], merkles[i])
			merkles[offset] = &newHash
		default:
			newHash := HashMerkleBranches(merkles[i], merkles[i+1])
			merkles[offset] = &newHash
		}
		offset++
	}

	return merkles
}

// CalcMerkleRoot computes the merkle root over a set of transactions without
// retaining the full tree, which BuildMerkleTreeStore does.
func CalcMerkleRoot(transactions []*wire.MsgTx, witness bool) chainhash.Hash {
	if len(transactions) == 0 {
		return chainhash.Hash{}
	}
	tree := BuildMerkleTreeStore(transactions, witness)
	return *tree[len(tree)-1]
}

// ExtractWitnessCommitment attempts to locate, and return the witness
// commitment for a block. It additionally returns a boolean indicating
// whether a commitment was found in any of the coinbase's outputs.
func ExtractWitnessCommitment(tx *wire.MsgTx) ([]byte, bool) {
	if !tx.IsCoinBase() {
		return nil, false
	}

	for i := len(tx.TxOut) - 1; i >= 0; i-- {
		pkScript := tx.TxOut[i].PkScript
		if len(pkScript) >= CoinbaseWitnessPkScriptLength &&
			bytes.HasPrefix(pkScript, WitnessMagicBytes) {

			start := len(WitnessMagicBytes)
			end := CoinbaseWitnessPkScriptLength
			return pkScript[start:end], true
		}
	}

	return nil, false
}

// ValidateWitnessCommitment validates the witness commitment (if any) found
// within the coinbase transaction of the passed block.
func ValidateWitnessCommitment(blk *wire.MsgBlock) error {
	if len(blk.Transactions) == 0 {
		return ruleError(ErrNoTransactions,
			"cannot validate witness commitment of block without transactions")
	}

	coinbaseTx := blk.Transactions[0]
	if len(coinbaseTx.TxIn) == 0 {
		return ruleError(ErrNoTxInputs, "transaction has no inputs")
	}

	witnessCommitment, witnessFound := ExtractWitnessCommitment(coinbaseTx)

	if !witnessFound {
		for _, tx := range blk.Transactions {
			if tx.HasWitness() {
				return ruleError(ErrUnexpectedWitness,
					"block contains transaction with witness data, yet no witness commitment present")
			}
		}
		return nil
	}

	coinbaseWitness := coinbaseTx.TxIn[0].Witness
	if len(coinbaseWitness) != 1 {
		return ruleError(ErrInvalidWitnessCommitment, fmt.Sprintf(
			"the coinbase transaction has %d items in its witness stack when only one is allowed",
			len(coinbaseWitness)))
	}
	witnessNonce := coinbaseWitness[0]
	if len(witnessNonce) != CoinbaseWitnessDataLen {
		return ruleError(ErrInvalidWitnessCommitment, fmt.Sprintf(
			"the coinbase transaction witness nonce has %d bytes when it must be %d bytes",
			len(witnessNonce), CoinbaseWitnessDataLen))
	}

	witnessMerkleRoot := CalcMerkleRoot(blk.Transactions, true)

	var witnessPreimage [chainhash.HashSize * 2]byte
	copy(witnessPreimage[:], witnessMerkleRoot[:])
	copy(witnessPreimage[chainhash.HashSize:], witnessNonce)

	computedCommitment := chainhash.DoubleHashB(witnessPreimage[:])
	if !bytes.Equal(computedCommitment, witnessCommitment) {
		return ruleError(ErrWitnessCommitmentMismatch, fmt.Sprintf(
			"witness commitment does not match: computed %x, coinbase includes %x",
			computedCommitment, witnessCommitment))
	}

	return nil
}

// CheckMerkleRoot recomputes the non-witness merkle root of a block's
// transactions and compares it against the value recorded in the header.
func CheckMerkleRoot(blk *wire.MsgBlock) error {
	if len(blk.Transactions) == 0 {
		return ruleError(ErrNoTransactions, "block has no transactions")
	}
	calculated := CalcMerkleRoot(blk.Transactions, false)
	if calculated != blk.Header.MerkleRoot {
		return ruleError(ErrBadMerkleRoot, fmt.Sprintf(
			"block merkle root is invalid - block header indicates %v, but calculated value is %v",
			blk.Header.MerkleRoot, calculated))
	}
	return nil
}
