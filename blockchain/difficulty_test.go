// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sylmnetwork/sylmd/chaincfg"
	"github.com/sylmnetwork/sylmd/pow"
)

var bigFour = big.NewInt(4)

// smallIntervalParams gives a cheap-to-construct retarget window (16
// blocks) while keeping the same spacing/timespan ratio semantics as
// mainnet, so tests can build a whole window's worth of BlockNodes quickly.
func smallIntervalParams() *chaincfg.Params {
	p := chaincfg.MainNetParams
	p.PowTargetSpacing = 120 * time.Second
	p.PowTargetTimespan = 16 * 120 * time.Second // interval = 16
	p.EnforceBIP94 = false
	return &p
}

// buildWindow constructs a chain of `count` nodes, each spacingSecs apart,
// all sharing bits, rooted at genesis (height 0).
func buildWindow(count int, bits uint32, spacingSecs int64) *BlockNode {
	start := time.Unix(1_700_000_000, 0)
	var node *BlockNode
	for h := 0; h < count; h++ {
		node = NewBlockNode(chainhash.Hash{}, int32(h), start.Add(time.Duration(h)*time.Duration(spacingSecs)*time.Second), bits, node)
	}
	return node
}

func TestRetargetIntervalDerivesFromTimespanAndSpacing(t *testing.T) {
	params := smallIntervalParams()
	assert.Equal(t, int32(16), RetargetInterval(params))
}

func TestNoRetargetBetweenIntervals(t *testing.T) {
	params := smallIntervalParams()
	tip := buildWindow(5, 0x1e00ffff, 120)

	bits, err := CalcNextRequiredDifficulty(tip, params)
	require.NoError(t, err)
	assert.Equal(t, tip.Bits, bits)
}

func TestPowNoRetargetingAlwaysInherits(t *testing.T) {
	params := smallIntervalParams()
	params.PowNoRetargeting = true
	tip := buildWindow(16, 0x1e00ffff, 30) // would otherwise retarget at height 16
	bits, err := CalcNextRequiredDifficulty(tip, params)
	require.NoError(t, err)
	assert.Equal(t, tip.Bits, bits)
}

// Difficulty rises by at most a factor of 4 even when blocks are mined
// much faster than target spacing.
func TestRetargetClampsToFourX(t *testing.T) {
	params := smallIntervalParams()
	interval := RetargetInterval(params)

	// Blocks arrive 8x faster than the target spacing throughout the
	// window (15s instead of 120s), which would imply a >4x difficulty
	// increase absent clamping.
	fastSpacing := int64(params.PowTargetSpacing.Seconds()) / 8
	tip := buildWindow(int(interval), 0x1e00ffff, fastSpacing)

	oldTarget := pow.CompactToBig(tip.Bits)
	bits, err := CalcNextRequiredDifficulty(tip, params)
	require.NoError(t, err)

	newTarget := pow.CompactToBig(bits)
	minAllowed := new(big.Int).Div(oldTarget, bigFour)
	assert.GreaterOrEqual(t, newTarget.Cmp(minAllowed), 0,
		"new target must not be tighter than old/4")
}

// Over any retarget window, 1/4 <= new_target/old_target <= 4.
func TestRetargetBoundsInvariant(t *testing.T) {
	params := smallIntervalParams()
	interval := RetargetInterval(params)

	spacings := []int64{1, 5, 30, 120, 480, 3600}
	for _, spacing := range spacings {
		tip := buildWindow(int(interval), 0x1e00ffff, spacing)
		oldTarget := pow.CompactToBig(tip.Bits)

		bits, err := CalcNextRequiredDifficulty(tip, params)
		require.NoError(t, err)
		newTarget := pow.CompactToBig(bits)

		lower := new(big.Int).Div(oldTarget, bigFour)
		upper := new(big.Int).Mul(oldTarget, bigFour)
		// The result is further capped at the powLimit, which can pull
		// newTarget below the naive 4x upper bound but never above it,
		// and never below the 1/4 lower bound since powLimit only
		// caps from above.
		assert.True(t, newTarget.Cmp(lower) >= 0, "spacing=%d: %s below lower bound %s", spacing, newTarget, lower)
		assert.True(t, newTarget.Cmp(upper) <= 0, "spacing=%d: %s above upper bound %s", spacing, newTarget, upper)
	}
}

func TestBIP94ChangesWindowAnchor(t *testing.T) {
	params := smallIntervalParams()
	interval := RetargetInterval(params)

	// Two full windows deep, so the second retarget (at height 32) anchors
	// well away from the genesis clamp: the classic anchor is the last
	// block of the previous window (height 15), the BIP94 anchor the first
	// block of the current one (height 16).
	tip := buildWindow(2*int(interval), 0x1e00ffff, 60)
	require.Equal(t, 2*interval-1, tip.Height)

	classicAnchor := firstWindowHeight(tip.Height+1, interval, false)
	bip94Anchor := firstWindowHeight(tip.Height+1, interval, true)
	assert.Equal(t, classicAnchor+1, bip94Anchor)

	paramsBIP94 := *params
	paramsBIP94.EnforceBIP94 = true

	bitsClassic, err := CalcNextRequiredDifficulty(tip, params)
	require.NoError(t, err)
	bitsBIP94, err := CalcNextRequiredDifficulty(tip, &paramsBIP94)
	require.NoError(t, err)

	// With uniform 60s spacing the classic window spans one more block's
	// worth of time than the BIP94 window, so the two anchors must yield
	// different retarget results.
	assert.NotEqual(t, bitsClassic, bitsBIP94)
}

func TestPowLimitSwitchAtRandomXFork(t *testing.T) {
	params := smallIntervalParams()
	params.RandomXForkHeight = 16
	interval := RetargetInterval(params) // == 16, so height 16 retargets

	tip := buildWindow(int(interval), 0x1e00ffff, 120)
	bits, err := CalcNextRequiredDifficulty(tip, params)
	require.NoError(t, err)

	newTarget := pow.CompactToBig(bits)
	assert.True(t, newTarget.Cmp(params.PowLimitRandomX) <= 0)
}
