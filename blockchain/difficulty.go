// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"

	"github.com/sylmnetwork/sylmd/chaincfg"
	"github.com/sylmnetwork/sylmd/pow"
)

// RetargetInterval returns the number of blocks between difficulty
// retargets for params: PowTargetTimespan / PowTargetSpacing. The interval
// is always derived from the timespan and spacing, never hard-coded, so the
// two values can never silently disagree in this implementation (see
// DESIGN.md for the reasoning behind that choice).
func RetargetInterval(params *chaincfg.Params) int32 {
	return int32(params.PowTargetTimespan / params.PowTargetSpacing)
}

// firstWindowHeight returns the height of the block whose timestamp anchors
// the actual-time-elapsed computation for a retarget at newHeight. With
// BIP94 enforced, that is the first block of the window that just elapsed;
// without it, the last block of the window before that (the classic
// off-by-one the mitigation closes).
func firstWindowHeight(newHeight, interval int32, enforceBIP94 bool) int32 {
	if enforceBIP94 {
		return newHeight - interval
	}
	return newHeight - interval - 1
}

// CalcNextRequiredDifficulty computes the Bits value a block at height
// tip.Height+1, timestamped newBlockTime, must satisfy. tip is the current
// chain tip (the parent of the block being validated).
//
// Between retargets, the result is simply tip.Bits (inherited). At a
// retarget height, the window's actual elapsed time is clamped to
// [timespan/4, timespan*4], the target is scaled by actual/timespan, and
// the result is capped at the powLimit active for the new height, which
// may differ from the limit active at tip.Height, since the RandomX and
// Argon2 forks each switch the active powLimit.
func CalcNextRequiredDifficulty(tip *BlockNode, params *chaincfg.Params) (uint32, error) {
	if tip == nil {
		return 0, ruleError(ErrMissingParentNode, "CalcNextRequiredDifficulty requires a non-nil tip")
	}

	newHeight := tip.Height + 1

	if params.PowNoRetargeting {
		return tip.Bits, nil
	}

	interval := RetargetInterval(params)
	if interval <= 0 || newHeight%interval != 0 {
		return tip.Bits, nil
	}

	firstHeight := firstWindowHeight(newHeight, interval, params.EnforceBIP94)
	if firstHeight < 0 {
		firstHeight = 0
	}
	firstNode := tip.Ancestor(firstHeight)
	if firstNode == nil {
		return 0, ruleError(ErrRetargetUnderflow,
			"difficulty retarget could not resolve first block of window")
	}

	actual := tip.Timestamp.Sub(firstNode.Timestamp)
	minTimespan := params.PowTargetTimespan / 4
	maxTimespan := params.PowTargetTimespan * 4
	if actual < minTimespan {
		actual = minTimespan
	} else if actual > maxTimespan {
		actual = maxTimespan
	}

	oldTarget := pow.CompactToBig(tip.Bits)
	newTarget := new(big.Int).Mul(oldTarget, big.NewInt(int64(actual)))
	newTarget.Div(newTarget, big.NewInt(int64(params.PowTargetTimespan)))

	limit := pow.GetActivePowLimit(newHeight, params)
	if newTarget.Cmp(limit) > 0 {
		newTarget.Set(limit)
	}

	newBits := pow.BigToCompact(newTarget)
	log.Debugf("difficulty retarget at height %d: actual timespan %s, old bits %08x, new bits %08x",
		newHeight, actual, tip.Bits, newBits)
	return newBits, nil
}
