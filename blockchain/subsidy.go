// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "github.com/sylmnetwork/sylmd/chaincfg"

// maxHalvings is the era at which the subsidy permanently reaches zero:
// initial_reward >> 64 is zero for any int64 initial
// reward, so halving beyond era 64 would be a no-op even without this
// explicit cutoff, but the cutoff documents the intent and avoids relying
// on shift-by-width-or-more being well-defined.
const maxHalvings = 64

// CalcBlockSubsidy returns the block subsidy, in qirsh, for a block at
// height under params: era = height / SubsidyHalvingInterval; subsidy is
// InitialSubsidy >> era, or zero once era reaches 64. Total
// supply asymptotes to 2 * InitialSubsidy * SubsidyHalvingInterval.
func CalcBlockSubsidy(height int32, params *chaincfg.Params) int64 {
	if params.SubsidyHalvingInterval <= 0 {
		return params.InitialSubsidy
	}

	era := height / params.SubsidyHalvingInterval
	if era >= maxHalvings {
		return 0
	}
	return params.InitialSubsidy >> uint(era)
}
