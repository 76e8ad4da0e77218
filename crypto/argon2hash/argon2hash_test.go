// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package argon2hash

import (
	"sync"
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sylmnetwork/sylmd/wire"
)

// testParams uses a tiny memory cost so the unit tests run fast; consensus
// correctness does not depend on the specific cost values, only on every
// caller agreeing on them.
var testParams = Params{MemoryKiB: 64, Time: 1, Parallelism: 1}

func TestNewValidatesParams(t *testing.T) {
	_, err := New(Params{MemoryKiB: 7, Time: 1, Parallelism: 1})
	assert.ErrorIs(t, err, ErrParameterInvalid)

	_, err = New(Params{MemoryKiB: 64, Time: 0, Parallelism: 1})
	assert.ErrorIs(t, err, ErrParameterInvalid)

	_, err = New(Params{MemoryKiB: 64, Time: 1, Parallelism: 0})
	assert.ErrorIs(t, err, ErrParameterInvalid)

	h, err := New(testParams)
	require.NoError(t, err)
	require.NotNil(t, h)
}

func TestHashInputTooLarge(t *testing.T) {
	h, err := New(testParams)
	require.NoError(t, err)

	big := make([]byte, MaxInputSize+1)
	_, err = h.Hash(big, []byte("salt"))
	assert.ErrorIs(t, err, ErrInputTooLarge)
}

// Identical (input, salt, params) yield identical output across calls and goroutines.
func TestHashDeterministic(t *testing.T) {
	h, err := New(testParams)
	require.NoError(t, err)

	data := []byte("sylm header bytes")
	salt := []byte("sylm salt")

	want, err := h.Hash(data, salt)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]chainhash.Hash, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := h.Hash(data, salt)
			require.NoError(t, err)
			results[i] = got
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

// Two headers identical except PrevBlock produce different Argon2 block hashes.
func TestHashBlockSaltUniqueness(t *testing.T) {
	h, err := New(testParams)
	require.NoError(t, err)

	base := wire.BlockHeader{
		Version:    1,
		MerkleRoot: chainhash.HashH([]byte("merkle")),
		Timestamp:  time.Unix(1700000000, 0),
		Bits:       0x1d00ffff,
		Nonce:      7,
	}

	h1 := base
	h1.PrevBlock = chainhash.HashH([]byte("prev-a"))
	h2 := base
	h2.PrevBlock = chainhash.HashH([]byte("prev-b"))

	hash1, err := h.HashBlock(&h1)
	require.NoError(t, err)
	hash2, err := h.HashBlock(&h2)
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}

func TestInitDefaultReusesSameParams(t *testing.T) {
	h1, err := InitDefault(testParams)
	require.NoError(t, err)
	h2, err := InitDefault(testParams)
	require.NoError(t, err)
	assert.Same(t, h1, h2)
	assert.Same(t, h1, Default())
}
