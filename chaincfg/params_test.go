// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sylmnetwork/sylmd/wire"
)

// Magic values of networks Sylm must never be mistaken for on the wire.
var upstreamMagics = map[string]wire.BitcoinNet{
	"bitcoin-mainnet":  0xd9b4bef9,
	"bitcoin-testnet3": 0x0709110b,
	"bitcoin-regtest":  0xdab5bffa,
	"litecoin-mainnet": 0xdbb6c0fb,
	"dogecoin-mainnet": 0xc0c0c0c0,
}

// HRPs of networks Sylm addresses must never be mistaken for.
var upstreamHRPs = []string{"bc", "tb", "bcrt", "ltc", "tltc"}

func allParams() []*Params {
	return []*Params{&MainNetParams, &TestNetParams, &RegressionNetParams}
}

func TestNetworkMagicsPairwiseDistinct(t *testing.T) {
	seen := make(map[wire.BitcoinNet]string)
	for _, p := range allParams() {
		if prev, ok := seen[p.Net]; ok {
			t.Fatalf("networks %s and %s share magic 0x%08x", prev, p.Name, uint32(p.Net))
		}
		seen[p.Net] = p.Name
	}
}

func TestNetworkMagicsDistinctFromUpstream(t *testing.T) {
	for _, p := range allParams() {
		for name, magic := range upstreamMagics {
			assert.NotEqual(t, magic, p.Net, "%s collides with %s", p.Name, name)
		}
	}
}

func TestMainNetMagicSpellsSYLM(t *testing.T) {
	assert.Equal(t, wire.BitcoinNet(0x53594C4D), MainNetParams.Net)
	assert.Equal(t, wire.BitcoinNet(0x53594C54), TestNetParams.Net)
}

func TestBech32HRPsDistinct(t *testing.T) {
	seen := make(map[string]string)
	for _, p := range allParams() {
		if prev, ok := seen[p.Bech32HRPSegwit]; ok {
			t.Fatalf("networks %s and %s share HRP %q", prev, p.Name, p.Bech32HRPSegwit)
		}
		seen[p.Bech32HRPSegwit] = p.Name

		for _, hrp := range upstreamHRPs {
			assert.NotEqual(t, hrp, p.Bech32HRPSegwit, "%s collides with upstream HRP", p.Name)
		}
	}
}

// The RandomX limit must be numerically larger (easier) than the SHA256d
// limit so difficulty resets downward at the fork, and the Argon2 limit
// larger still.
func TestPowLimitOrdering(t *testing.T) {
	for _, p := range allParams() {
		if p.Name == "regtest" {
			// Regtest deliberately shares one loose limit across all
			// three algorithms.
			continue
		}
		assert.Equal(t, 1, p.PowLimitRandomX.Cmp(p.PowLimitSHA256D), "%s", p.Name)
		assert.Equal(t, 1, p.PowLimitArgon2.Cmp(p.PowLimitRandomX), "%s", p.Name)
	}
}

// A nil algorithm-specific limit falls back one algorithm at a time:
// RandomX to SHA256d, Argon2id to RandomX and through it to SHA256d.
func TestGetActivePowLimitFallback(t *testing.T) {
	p := MainNetParams

	assert.Equal(t, 0, p.GetActivePowLimit(AlgoSHA256D).Cmp(p.PowLimitSHA256D))
	assert.Equal(t, 0, p.GetActivePowLimit(AlgoRandomX).Cmp(p.PowLimitRandomX))
	assert.Equal(t, 0, p.GetActivePowLimit(AlgoArgon2id).Cmp(p.PowLimitArgon2))

	p.PowLimitArgon2 = nil
	assert.Equal(t, 0, p.GetActivePowLimit(AlgoArgon2id).Cmp(p.PowLimitRandomX))

	p.PowLimitRandomX = nil
	assert.Equal(t, 0, p.GetActivePowLimit(AlgoRandomX).Cmp(p.PowLimitSHA256D))
	assert.Equal(t, 0, p.GetActivePowLimit(AlgoArgon2id).Cmp(p.PowLimitSHA256D))
}

func TestGenesisHashesPairwiseDistinct(t *testing.T) {
	main := MainNetParams.GenesisHash
	test := TestNetParams.GenesisHash
	reg := RegressionNetParams.GenesisHash

	assert.False(t, main.IsEqual(test))
	assert.False(t, main.IsEqual(reg))
	assert.False(t, test.IsEqual(reg))
}

func TestGenesisHashMatchesBlock(t *testing.T) {
	for _, p := range allParams() {
		hash := p.GenesisBlock.BlockHash()
		assert.True(t, p.GenesisHash.IsEqual(&hash), "%s", p.Name)
	}
}

func TestArgon2DormantOnAllNetworks(t *testing.T) {
	for _, p := range allParams() {
		assert.Negative(t, p.Argon2EmergencyHeight, "%s", p.Name)
	}
}

func TestMainNetConsensusConstants(t *testing.T) {
	p := &MainNetParams

	assert.Equal(t, int32(32), p.RandomXKeyBlockInterval)
	assert.Equal(t, uint16(100), p.CoinbaseMaturity)
	assert.Equal(t, int32(1050000), p.SubsidyHalvingInterval)
	assert.Equal(t, int64(10000*1e8), p.InitialSubsidy)
	assert.Equal(t, uint32(2*1024*1024), p.Argon2Params.MemoryCostKiB)
	assert.Equal(t, uint32(1), p.Argon2Params.TimeCost)
	assert.Equal(t, uint8(1), p.Argon2Params.Parallelism)
	assert.Equal(t, "9633", p.DefaultP2PPort)
	assert.Equal(t, "9632", p.DefaultRPCPort)
	assert.Equal(t, byte(35), p.PubKeyHashAddrID)
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	// The standard networks are registered by init; registering any of
	// them again must fail.
	err := Register(&MainNetParams)
	require.ErrorIs(t, err, ErrDuplicateNet)
}

func TestParamsForNet(t *testing.T) {
	assert.Equal(t, &MainNetParams, ParamsForNet(wire.SylmMainNet))
	assert.Equal(t, &TestNetParams, ParamsForNet(wire.SylmTestNet))
	assert.Nil(t, ParamsForNet(wire.BitcoinNet(0xffffffff)))
}
