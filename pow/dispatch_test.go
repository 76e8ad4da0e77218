// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package pow

import (
	"math/big"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/sylmnetwork/sylmd/chaincfg"
)

func testParams(randomXFork, argon2Height int32) *chaincfg.Params {
	p := chaincfg.MainNetParams
	p.RandomXForkHeight = randomXFork
	p.Argon2EmergencyHeight = argon2Height
	return &p
}

// Fork boundary: the first RandomX height switches both the algorithm and
// the active powLimit.
func TestGetAlgorithmForkBoundary(t *testing.T) {
	params := testParams(57500, -1)

	assert.Equal(t, chaincfg.AlgoSHA256D, GetAlgorithm(57499, params))
	assert.Equal(t, chaincfg.AlgoRandomX, GetAlgorithm(57500, params))

	assert.True(t, GetActivePowLimit(57499, params).Cmp(params.PowLimitSHA256D) == 0)
	assert.True(t, GetActivePowLimit(57500, params).Cmp(params.PowLimitRandomX) == 0)
}

func TestGetAlgorithmGenesisAlwaysSHA256D(t *testing.T) {
	params := testParams(0, 0)
	assert.Equal(t, chaincfg.AlgoSHA256D, GetAlgorithm(0, params))
}

// Argon2 stays dormant while the emergency height is negative.
func TestArgon2DormantByDefault(t *testing.T) {
	params := testParams(100000, -1)
	for _, h := range []int32{0, 1, 1000} {
		assert.False(t, IsArgon2EmergencyActive(h, params))
		assert.NotEqual(t, chaincfg.AlgoArgon2id, GetAlgorithm(h, params))
	}
}

func TestArgon2EmergencyActivation(t *testing.T) {
	params := testParams(100, 200)
	assert.Equal(t, chaincfg.AlgoSHA256D, GetAlgorithm(50, params))
	assert.Equal(t, chaincfg.AlgoRandomX, GetAlgorithm(150, params))
	assert.Equal(t, chaincfg.AlgoArgon2id, GetAlgorithm(200, params))
	assert.Equal(t, chaincfg.AlgoArgon2id, GetAlgorithm(300, params))
}

// Key rotation across the bootstrap window and the first rotations.
func TestGetRandomXKeyBlockHeight(t *testing.T) {
	cases := []struct {
		height, want int32
	}{
		{31, 0}, {32, 0}, {63, 0}, {64, 32}, {95, 32}, {96, 64},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, GetRandomXKeyBlockHeight(c.height, 32), "height=%d", c.height)
	}
}

// k(h) is always a non-negative multiple of the interval and <= h.
func TestGetRandomXKeyBlockHeightInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		height := rapid.Int32Range(0, 10_000_000).Draw(t, "height")
		interval := rapid.Int32Range(1, 10_000).Draw(t, "interval")

		k := GetRandomXKeyBlockHeight(height, interval)
		assert.GreaterOrEqual(t, k, int32(0))
		assert.LessOrEqual(t, k, height)
		assert.Zero(t, k%interval)
	})
}

// GetAlgorithm always returns one of the three values and obeys
// the dispatch order.
func TestGetAlgorithmInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		height := rapid.Int32Range(0, 1<<30).Draw(t, "height")
		fork := rapid.Int32Range(0, 1<<30).Draw(t, "fork")
		emergency := rapid.Int32Range(-1, 1<<30).Draw(t, "emergency")
		params := testParams(fork, emergency)

		algo := GetAlgorithm(height, params)
		switch {
		case height == 0:
			assert.Equal(t, chaincfg.AlgoSHA256D, algo)
		case emergency >= 0 && height >= emergency:
			assert.Equal(t, chaincfg.AlgoArgon2id, algo)
		case height >= fork:
			assert.Equal(t, chaincfg.AlgoRandomX, algo)
		default:
			assert.Equal(t, chaincfg.AlgoSHA256D, algo)
		}
	})
}

// Max-hash fails every realistic target; zero-hash passes any non-zero
// target.
func TestCheckProofOfWorkEdgeHashes(t *testing.T) {
	params := testParams(100000, -1)

	var maxHash chainhash.Hash
	for i := range maxHash {
		maxHash[i] = 0xff
	}
	err := CheckProofOfWork(maxHash, 0x1d00ffff, 0, params)
	assert.ErrorIs(t, err, ErrBelowTarget)

	var zeroHash chainhash.Hash
	err = CheckProofOfWork(zeroHash, 0x1d00ffff, 0, params)
	assert.NoError(t, err)
}

func TestCheckProofOfWorkInvalidTarget(t *testing.T) {
	params := testParams(100000, -1)

	var hash chainhash.Hash
	// bits decoding to zero.
	require.ErrorIs(t, CheckProofOfWork(hash, 0, 0, params), ErrInvalidTarget)

	// bits with the sign bit set decodes to a negative target.
	require.ErrorIs(t, CheckProofOfWork(hash, 0x04800001, 0, params), ErrInvalidTarget)

	// bits above the active powLimit (encode PowLimitSHA256D shifted up by
	// one byte, i.e. a compact exponent one larger).
	huge := new(big.Int).Lsh(params.PowLimitSHA256D, 8)
	require.ErrorIs(t, CheckProofOfWork(hash, BigToCompact(huge), 0, params), ErrInvalidTarget)
}

// The compact form keeps only a 3-byte mantissa, so round-tripping is exact
// precisely for values with at most three significant bytes; the generator
// below constructs mantissa * 256^k values, the full set of exactly
// representable targets.
func TestCompactRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mantissa := rapid.Int64Range(0, 0x7fffff).Draw(t, "mantissa")
		shift := rapid.UintRange(0, 28).Draw(t, "shift")

		big1 := new(big.Int).Lsh(big.NewInt(mantissa), 8*shift)
		compact := BigToCompact(big1)
		back := CompactToBig(compact)
		assert.Equal(t, 0, big1.Cmp(back))
	})
}

// The mainnet genesis block hashes to the recorded genesis hash under
// SHA256d and satisfies its own recorded difficulty at height 0.
func TestGenesisProofOfWork(t *testing.T) {
	params := &chaincfg.MainNetParams
	genesis := params.GenesisBlock

	hash := genesis.Header.BlockHash()
	assert.Equal(t, *params.GenesisHash, hash)

	assert.Equal(t, chaincfg.AlgoSHA256D, GetAlgorithm(0, params))
	require.NoError(t, CheckProofOfWork(hash, genesis.Header.Bits, 0, params))
}
