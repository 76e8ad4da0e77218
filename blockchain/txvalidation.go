// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"

	"github.com/sylmnetwork/sylmd/chaincfg"
	"github.com/sylmnetwork/sylmd/wire"
)

// MaxMoney is the maximum transaction amount allowed, in qirsh: the total
// supply cap, 21e9 SYL * 1e8 qirsh/SYL.
const MaxMoney = 21_000_000_000 * 1e8

// CheckTxInputs validates a non-coinbase transaction's inputs against view
// at the block height it is being spent, and returns the transaction's fee
// (sum of input values minus sum of output values) on success.
//
// Rules enforced, in order:
//  1. Every input's PreviousOutPoint resolves in view and is unspent
//     (ErrMissingTxOut).
//  2. Every input whose source coin is a coinbase requires
//     height - coin.Height >= params.CoinbaseMaturity (ErrImmatureSpend).
//     Non-coinbase sources have no maturity window.
//  3. Sum of input values and sum of output values are each accumulated
//     and individually bounds-checked into [0, MaxMoney], rejecting
//     overflow as it happens rather than after the fact
//     (ErrInvalidTxInputAmount / ErrBadTxOutValue /
//     ErrTotalTxInOverflow / ErrTotalTxOutOverflow).
//  4. sum_out <= sum_in (ErrSpendTooHigh).
//  5. fee = sum_in - sum_out, itself bounds-checked into [0, MaxMoney]
//     (ErrBadFees).
//
// CheckTxInputs must not be called on a coinbase transaction: coinbase
// outputs are bounded by CalcBlockSubsidy plus the block's aggregate fees
// instead, a rule enforced at the block level, not here.
func CheckTxInputs(tx *wire.MsgTx, height int32, view *UtxoViewpoint, params *chaincfg.Params) (int64, error) {
	var totalIn int64

	for _, txIn := range tx.TxIn {
		coin := view.LookupEntry(txIn.PreviousOutPoint)
		if coin == nil {
			return 0, ruleError(ErrMissingTxOut, fmt.Sprintf(
				"output %v referenced from transaction %s either "+
					"does not exist or has already been spent",
				txIn.PreviousOutPoint, tx.TxHash()))
		}

		if coin.IsCoinBase {
			originHeight := coin.Height
			blocksSinceCreation := height - originHeight
			if blocksSinceCreation < int32(params.CoinbaseMaturity) {
				return 0, ruleError(ErrImmatureSpend, fmt.Sprintf(
					"tried to spend coinbase transaction output %v from "+
						"height %v at height %v before required maturity "+
						"of %v blocks", txIn.PreviousOutPoint, originHeight,
					height, params.CoinbaseMaturity))
			}
		}

		if coin.Amount < 0 || coin.Amount > MaxMoney {
			return 0, ruleError(ErrInvalidTxInputAmount, fmt.Sprintf(
				"transaction output has invalid value of %v", coin.Amount))
		}

		lastIn := totalIn
		totalIn += coin.Amount
		if totalIn < lastIn || totalIn > MaxMoney {
			return 0, ruleError(ErrTotalTxInOverflow,
				"total value of all transaction inputs overflows "+
					"or exceeds max allowed value")
		}
	}

	var totalOut int64
	for _, txOut := range tx.TxOut {
		if txOut.Value < 0 || txOut.Value > MaxMoney {
			return 0, ruleError(ErrBadTxOutValue, fmt.Sprintf(
				"transaction output has invalid value of %v", txOut.Value))
		}

		lastOut := totalOut
		totalOut += txOut.Value
		if totalOut < lastOut || totalOut > MaxMoney {
			return 0, ruleError(ErrTotalTxOutOverflow,
				"total value of all transaction outputs overflows "+
					"or exceeds max allowed value")
		}
	}

	if totalOut > totalIn {
		return 0, ruleError(ErrSpendTooHigh, fmt.Sprintf(
			"total value of outputs spending transaction %s is %v "+
				"which exceeds the input value of %v belowout",
			tx.TxHash(), totalOut, totalIn))
	}

	fee := totalIn - totalOut
	if fee < 0 || fee > MaxMoney {
		return 0, ruleError(ErrBadFees,
			"total fees for transaction are not in valid range")
	}

	return fee, nil
}

// CheckCoinbaseValue validates that a coinbase's total output value does
// not exceed the block subsidy plus the aggregate fees collected from the
// rest of the block's transactions. Maturity and value-conservation rules
// do not apply to the coinbase itself; only this ceiling does.
func CheckCoinbaseValue(coinbase *wire.MsgTx, height int32, totalFees int64, params *chaincfg.Params) error {
	var totalOut int64
	for _, txOut := range coinbase.TxOut {
		lastOut := totalOut
		totalOut += txOut.Value
		if totalOut < lastOut {
			return ruleError(ErrTotalTxOutOverflow,
				"total value of coinbase outputs overflows")
		}
	}

	expectedMax := CalcBlockSubsidy(height, params) + totalFees
	if totalOut > expectedMax {
		return ruleError(ErrBadCoinbaseValue, fmt.Sprintf(
			"coinbase transaction for block pays %v which is more "+
				"than expected value of %v", totalOut, expectedMax))
	}
	return nil
}
