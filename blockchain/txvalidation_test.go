// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/sylmnetwork/sylmd/chaincfg"
	"github.com/sylmnetwork/sylmd/wire"
)

const oneSyl = 1e8

func testParams() *chaincfg.Params {
	p := chaincfg.MainNetParams
	return &p
}

func spendTx(outpoints []wire.OutPoint, outValues []int64) *wire.MsgTx {
	tx := &wire.MsgTx{Version: wire.TxVersion}
	for _, op := range outpoints {
		tx.TxIn = append(tx.TxIn, &wire.TxIn{PreviousOutPoint: op})
	}
	for _, v := range outValues {
		tx.TxOut = append(tx.TxOut, &wire.TxOut{Value: v, PkScript: []byte{0x51}})
	}
	return tx
}

func fakeOutpoint(b byte) wire.OutPoint {
	var h chainhash.Hash
	h[0] = b
	return wire.OutPoint{Hash: h, Index: 0}
}

func TestCheckTxInputsMissingOutput(t *testing.T) {
	params := testParams()
	view := NewUtxoViewpoint()
	tx := spendTx([]wire.OutPoint{fakeOutpoint(1)}, []int64{oneSyl})

	_, err := CheckTxInputs(tx, 500, view, params)
	require.Error(t, err)
	var ruleErr RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, ErrMissingTxOut, ruleErr.ErrorCode)
}

// Coinbase maturity boundary: a coinbase created at height 100 cannot
// be spent at height 199 (only 99 confirmations under CoinbaseMaturity=100)
// but can be spent at height 200 (exactly 100 confirmations).
func TestCheckTxInputsCoinbaseMaturityBoundary(t *testing.T) {
	params := testParams()
	op := fakeOutpoint(2)

	view := NewUtxoViewpoint()
	view.AddEntry(op, &UtxoEntry{Amount: 10_000 * oneSyl, Height: 100, IsCoinBase: true})
	tx := spendTx([]wire.OutPoint{op}, []int64{10_000 * oneSyl})

	_, err := CheckTxInputs(tx, 199, view, params)
	require.Error(t, err)
	var ruleErr RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, ErrImmatureSpend, ruleErr.ErrorCode)

	fee, err := CheckTxInputs(tx, 200, view, params)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fee)

	underpay := spendTx([]wire.OutPoint{op}, []int64{9_999 * oneSyl})
	fee, err = CheckTxInputs(underpay, 200, view, params)
	require.NoError(t, err)
	assert.Equal(t, int64(oneSyl), fee)
}

func TestCheckTxInputsNonCoinbaseHasNoMaturityWindow(t *testing.T) {
	params := testParams()
	op := fakeOutpoint(3)

	view := NewUtxoViewpoint()
	view.AddEntry(op, &UtxoEntry{Amount: 5 * oneSyl, Height: 500, IsCoinBase: false})
	tx := spendTx([]wire.OutPoint{op}, []int64{5 * oneSyl})

	fee, err := CheckTxInputs(tx, 501, view, params)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fee)
}

// Spending more than the input total ("belowout") is rejected even when
// the overspend is tiny: 10,000 SYL in, 10,001 SYL out.
func TestCheckTxInputsSpendTooHigh(t *testing.T) {
	params := testParams()
	op := fakeOutpoint(4)

	view := NewUtxoViewpoint()
	view.AddEntry(op, &UtxoEntry{Amount: 10_000 * oneSyl, Height: 1, IsCoinBase: false})
	tx := spendTx([]wire.OutPoint{op}, []int64{10_001 * oneSyl})

	_, err := CheckTxInputs(tx, 500, view, params)
	require.Error(t, err)
	var ruleErr RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, ErrSpendTooHigh, ruleErr.ErrorCode)
}

func TestCheckTxInputsZeroFee(t *testing.T) {
	params := testParams()
	op := fakeOutpoint(5)

	view := NewUtxoViewpoint()
	view.AddEntry(op, &UtxoEntry{Amount: 10 * oneSyl, Height: 1, IsCoinBase: false})
	tx := spendTx([]wire.OutPoint{op}, []int64{10 * oneSyl})

	fee, err := CheckTxInputs(tx, 500, view, params)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fee)
}

func TestCheckTxInputsRejectsOutOfRangeOutputValue(t *testing.T) {
	params := testParams()
	op := fakeOutpoint(6)

	view := NewUtxoViewpoint()
	view.AddEntry(op, &UtxoEntry{Amount: oneSyl, Height: 1, IsCoinBase: false})
	tx := spendTx([]wire.OutPoint{op}, []int64{-1})

	_, err := CheckTxInputs(tx, 500, view, params)
	require.Error(t, err)
	var ruleErr RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, ErrBadTxOutValue, ruleErr.ErrorCode)
}

// Two inputs of MaxMoney/2 summing to exactly MaxMoney are valid; the
// accumulator must hold the sum without tripping the overflow guard.
func TestCheckTxInputsHalfMaxMoneyInputsValid(t *testing.T) {
	params := testParams()
	op1, op2 := fakeOutpoint(7), fakeOutpoint(8)

	view := NewUtxoViewpoint()
	view.AddEntry(op1, &UtxoEntry{Amount: MaxMoney / 2, Height: 1, IsCoinBase: false})
	view.AddEntry(op2, &UtxoEntry{Amount: MaxMoney / 2, Height: 1, IsCoinBase: false})
	tx := spendTx([]wire.OutPoint{op1, op2}, []int64{MaxMoney})

	fee, err := CheckTxInputs(tx, 500, view, params)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fee)
}

func TestCheckTxInputsRejectsTotalInOverflow(t *testing.T) {
	params := testParams()
	op1, op2 := fakeOutpoint(7), fakeOutpoint(8)

	view := NewUtxoViewpoint()
	view.AddEntry(op1, &UtxoEntry{Amount: MaxMoney, Height: 1, IsCoinBase: false})
	view.AddEntry(op2, &UtxoEntry{Amount: 1, Height: 1, IsCoinBase: false})
	tx := spendTx([]wire.OutPoint{op1, op2}, []int64{oneSyl})

	_, err := CheckTxInputs(tx, 500, view, params)
	require.Error(t, err, "tx whose inputs exceed MaxMoney was accepted:\n%s", spew.Sdump(tx))
	var ruleErr RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, ErrTotalTxInOverflow, ruleErr.ErrorCode, "unexpected error code for tx:\n%s", spew.Sdump(tx))
}

func TestCheckTxInputsRejectsTotalOutOverflow(t *testing.T) {
	params := testParams()
	op1, op2 := fakeOutpoint(7), fakeOutpoint(8)

	view := NewUtxoViewpoint()
	view.AddEntry(op1, &UtxoEntry{Amount: MaxMoney / 2, Height: 1, IsCoinBase: false})
	view.AddEntry(op2, &UtxoEntry{Amount: MaxMoney / 2, Height: 1, IsCoinBase: false})
	tx := spendTx([]wire.OutPoint{op1, op2}, []int64{MaxMoney, MaxMoney})

	_, err := CheckTxInputs(tx, 500, view, params)
	require.Error(t, err, "tx that should overflow MaxMoney was accepted:\n%s", spew.Sdump(tx))
	var ruleErr RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, ErrTotalTxOutOverflow, ruleErr.ErrorCode, "unexpected error code for tx:\n%s", spew.Sdump(tx))
}

func TestCheckCoinbaseValueRejectsOverpay(t *testing.T) {
	params := testParams()
	coinbase := &wire.MsgTx{
		Version: wire.TxVersion,
		TxIn:    []*wire.TxIn{{PreviousOutPoint: wire.OutPoint{Index: 0xffffffff}}},
		TxOut:   []*wire.TxOut{{Value: CalcBlockSubsidy(0, params) + oneSyl}},
	}
	require.True(t, coinbase.IsCoinBase())

	err := CheckCoinbaseValue(coinbase, 0, 0, params)
	require.Error(t, err)
	var ruleErr RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, ErrBadCoinbaseValue, ruleErr.ErrorCode)
}

func TestCheckCoinbaseValueAllowsSubsidyPlusFees(t *testing.T) {
	params := testParams()
	const fees = 3 * oneSyl
	coinbase := &wire.MsgTx{
		Version: wire.TxVersion,
		TxIn:    []*wire.TxIn{{PreviousOutPoint: wire.OutPoint{Index: 0xffffffff}}},
		TxOut:   []*wire.TxOut{{Value: CalcBlockSubsidy(0, params) + fees}},
	}
	require.NoError(t, CheckCoinbaseValue(coinbase, 0, fees, params))
}

// For any accepted transaction, fee = sum_in - sum_out >= 0,
// and sum_in, sum_out, fee are all within [0, MaxMoney].
func TestCheckTxInputsFeeConservation(t *testing.T) {
	params := testParams()

	rapid.Check(t, func(rt *rapid.T) {
		numIn := rapid.IntRange(1, 4).Draw(rt, "numIn")
		numOut := rapid.IntRange(1, 4).Draw(rt, "numOut")

		view := NewUtxoViewpoint()
		var outpoints []wire.OutPoint
		var sumIn int64
		for i := 0; i < numIn; i++ {
			amount := rapid.Int64Range(0, MaxMoney/8).Draw(rt, "amount")
			op := fakeOutpoint(byte(i + 1))
			view.AddEntry(op, &UtxoEntry{Amount: amount, Height: 1, IsCoinBase: false})
			outpoints = append(outpoints, op)
			sumIn += amount
		}

		var outValues []int64
		var sumOut int64
		for i := 0; i < numOut; i++ {
			upper := sumIn - sumOut
			if upper < 0 {
				upper = 0
			}
			v := rapid.Int64Range(0, upper).Draw(rt, "outValue")
			outValues = append(outValues, v)
			sumOut += v
		}

		tx := spendTx(outpoints, outValues)
		fee, err := CheckTxInputs(tx, 500, view, params)
		require.NoError(rt, err)

		assert.GreaterOrEqual(rt, fee, int64(0))
		assert.LessOrEqual(rt, fee, int64(MaxMoney))
		assert.Equal(rt, sumIn-sumOut, fee)
		assert.GreaterOrEqual(rt, sumIn, int64(0))
		assert.LessOrEqual(rt, sumIn, int64(MaxMoney))
		assert.GreaterOrEqual(rt, sumOut, int64(0))
		assert.LessOrEqual(rt, sumOut, int64(MaxMoney))
	})
}
