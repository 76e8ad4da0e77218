// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "fmt"

// ErrorCode identifies a kind of error encountered while validating a block
// or transaction against consensus rules.
type ErrorCode int

const (
	// ErrNoTransactions indicates a block contains no transactions.
	ErrNoTransactions ErrorCode = iota

	// ErrNoTxInputs indicates a transaction has no inputs.
	ErrNoTxInputs

	// ErrNoTxOutputs indicates a transaction has no outputs.
	ErrNoTxOutputs

	// ErrFirstTxNotCoinbase indicates the first transaction in a block
	// is not a coinbase transaction.
	ErrFirstTxNotCoinbase

	// ErrMultipleCoinbases indicates a block contains more than one
	// coinbase transaction.
	ErrMultipleCoinbases

	// ErrBadMerkleRoot indicates the calculated merkle root does not
	// match the one recorded in the block header.
	ErrBadMerkleRoot

	// ErrUnexpectedWitness indicates a block contains a transaction with
	// witness data but no witness commitment in its coinbase.
	ErrUnexpectedWitness

	// ErrInvalidWitnessCommitment indicates the shape of a purported
	// witness commitment (element count or length) is invalid.
	ErrInvalidWitnessCommitment

	// ErrWitnessCommitmentMismatch indicates the computed witness root
	// commitment does not match the one recorded in the coinbase.
	ErrWitnessCommitmentMismatch

	// ErrMissingTxOut indicates a transaction input references an output
	// that is not found in the UTXO set and is not created by an earlier
	// transaction within the same block.
	ErrMissingTxOut

	// ErrImmatureSpend indicates a transaction attempts to spend a
	// coinbase output before it has reached CoinbaseMaturity
	// confirmations.
	ErrImmatureSpend

	// ErrBadTxOutValue indicates a transaction output's value is
	// negative or exceeds the maximum representable amount.
	ErrBadTxOutValue

	// ErrInvalidTxInputAmount indicates a referenced input's amount is
	// negative or exceeds the maximum representable amount.
	ErrInvalidTxInputAmount

	// ErrSpendTooHigh indicates the sum of a transaction's output values
	// exceeds the sum of its input values.
	ErrSpendTooHigh

	// ErrTotalTxOutOverflow indicates accumulating a transaction's output
	// values overflowed the maximum representable amount.
	ErrTotalTxOutOverflow

	// ErrTotalTxInOverflow indicates accumulating a transaction's input
	// values overflowed the maximum representable amount.
	ErrTotalTxInOverflow

	// ErrBadFees indicates computed transaction fees are negative.
	ErrBadFees

	// ErrBadPoW indicates a block's proof of work does not satisfy its
	// own recorded difficulty target.
	ErrBadPoW

	// ErrHighHash indicates a block's hash exceeds the applicable
	// proof-of-work limit for its algorithm.
	ErrHighHash

	// ErrUnexpectedDifficulty indicates a block's difficulty bits do not
	// match the value the retargeting algorithm computed for its height.
	ErrUnexpectedDifficulty

	// ErrNegativeDifficultyTarget indicates a decoded compact difficulty
	// target is zero or negative.
	ErrNegativeDifficultyTarget

	// ErrDifficultyTooLow indicates a decoded compact difficulty target
	// exceeds the applicable proof-of-work limit.
	ErrDifficultyTooLow

	// ErrBadCoinbaseValue indicates a coinbase transaction creates more
	// value than the allowed subsidy plus collected fees.
	ErrBadCoinbaseValue

	// ErrBadCoinbaseScriptLen indicates a coinbase signature script's
	// length falls outside the allowed bounds.
	ErrBadCoinbaseScriptLen

	// ErrRetargetUnderflow indicates the difficulty retargeter could not
	// resolve the first block of its window, implying the block index
	// passed to it is shorter or otherwise inconsistent with the height
	// being validated.
	ErrRetargetUnderflow

	// ErrMissingParentNode indicates a BlockNode was not supplied to a
	// function that must walk ancestors to validate the next block.
	ErrMissingParentNode
)

var errorCodeStrings = map[ErrorCode]string{
	ErrNoTransactions:            "ErrNoTransactions",
	ErrNoTxInputs:                "ErrNoTxInputs",
	ErrNoTxOutputs:               "ErrNoTxOutputs",
	ErrFirstTxNotCoinbase:        "ErrFirstTxNotCoinbase",
	ErrMultipleCoinbases:         "ErrMultipleCoinbases",
	ErrBadMerkleRoot:             "ErrBadMerkleRoot",
	ErrUnexpectedWitness:         "ErrUnexpectedWitness",
	ErrInvalidWitnessCommitment:  "ErrInvalidWitnessCommitment",
	ErrWitnessCommitmentMismatch: "ErrWitnessCommitmentMismatch",
	ErrMissingTxOut:              "ErrMissingTxOut",
	ErrImmatureSpend:             "ErrImmatureSpend",
	ErrBadTxOutValue:             "ErrBadTxOutValue",
	ErrInvalidTxInputAmount:      "ErrInvalidTxInputAmount",
	ErrSpendTooHigh:              "ErrSpendTooHigh",
	ErrTotalTxOutOverflow:        "ErrTotalTxOutOverflow",
	ErrTotalTxInOverflow:         "ErrTotalTxInOverflow",
	ErrBadFees:                   "ErrBadFees",
	ErrBadPoW:                    "ErrBadPoW",
	ErrHighHash:                  "ErrHighHash",
	ErrUnexpectedDifficulty:      "ErrUnexpectedDifficulty",
	ErrNegativeDifficultyTarget:  "ErrNegativeDifficultyTarget",
	ErrDifficultyTooLow:          "ErrDifficultyTooLow",
	ErrBadCoinbaseValue:          "ErrBadCoinbaseValue",
	ErrBadCoinbaseScriptLen:      "ErrBadCoinbaseScriptLen",
	ErrRetargetUnderflow:         "ErrRetargetUnderflow",
	ErrMissingParentNode:         "ErrMissingParentNode",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// RuleError identifies a rule violation. It carries both a machine-readable
// ErrorCode callers can switch on and a human-readable description for logs
// and error messages.
type RuleError struct {
	ErrorCode   ErrorCode
	Description string
}

// Error satisfies the error interface.
func (e RuleError) Error() string {
	return e.Description
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(c ErrorCode, desc string) RuleError {
	return RuleError{ErrorCode: c, Description: desc}
}
