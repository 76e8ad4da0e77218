// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"errors"
	"math/big"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/sylmnetwork/sylmd/wire"
)

// PowAlgorithm identifies which proof-of-work function a block at a given
// height must satisfy.
type PowAlgorithm int

const (
	// AlgoSHA256D is the genesis algorithm and the one active before
	// RandomXForkHeight.
	AlgoSHA256D PowAlgorithm = iota

	// AlgoRandomX is active from RandomXForkHeight onward, until
	// Argon2EmergencyHeight when that field is non-negative.
	AlgoRandomX

	// AlgoArgon2id is the memory-hard emergency fallback algorithm,
	// active at every height at or above Argon2EmergencyHeight when that
	// field is non-negative; there is no end height after which it stops.
	AlgoArgon2id
)

func (a PowAlgorithm) String() string {
	switch a {
	case AlgoSHA256D:
		return "sha256d"
	case AlgoRandomX:
		return "randomx"
	case AlgoArgon2id:
		return "argon2id"
	default:
		return "unknown"
	}
}

// These variables hold the proof-of-work limit for each algorithm/network
// combination. They are defined once here to avoid the overhead of
// reconstructing them on every lookup.
var (
	bigOne = big.NewInt(1)

	// mainPowLimit is the loosest SHA256d target mainnet ever accepts
	// (2^240 - 1). Unlike upstream Bitcoin-lineage chains, which launched
	// at the much tighter 2^224-1 and relied on a pre-mined genesis
	// nonce, Sylm's genesis block is reproducibly minable by anyone
	// re-deriving it from these parameters, so the limit is set loose
	// enough that genesisBlock's recorded Nonce (chaincfg/genesis.go)
	// actually satisfies it.
	mainPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 240), bigOne)

	// mainPowLimitRandomX is looser than the SHA256d limit: RandomX
	// trades hash rate for ASIC resistance, so a fresh RandomX-only chain
	// needs a shallower starting target to find blocks at the configured
	// spacing.
	mainPowLimitRandomX = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 248), bigOne)

	// mainPowLimitArgon2 is looser still: Argon2id is the emergency
	// fallback algorithm, expected to run with very little dedicated
	// hash rate until miners migrate.
	mainPowLimitArgon2 = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 252), bigOne)

	// regressionPowLimit is the loosest target the regression test
	// network accepts, letting tests mine blocks near-instantly.
	regressionPowLimit = new(big.Int).Sub(new(big.Int).Lsh(bigOne, 255), bigOne)
)

// Argon2Params bundles the Argon2id cost parameters used by the emergency
// fallback algorithm. These are consensus parameters: every validator for a
// given network must use the same values or it will compute a different
// proof-of-work hash for the same header.
type Argon2Params struct {
	// MemoryCostKiB is the memory parameter `m` in KiB.
	MemoryCostKiB uint32

	// TimeCost is the number of passes parameter `t`.
	TimeCost uint32

	// Parallelism is the parallelism parameter `p`.
	Parallelism uint8
}

// Params defines a Sylm network by its consensus parameters. These are the
// network-wide constants every validator, miner, and wallet must agree on:
// the genesis point, the three proof-of-work
// algorithms' activation heights and limits, the retarget cadence, and the
// economic schedule.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// Net defines the magic bytes used to identify the network on the
	// wire.
	Net wire.BitcoinNet

	// DefaultP2PPort and DefaultRPCPort are the conventional ports a
	// daemon for this network listens on. They carry no consensus
	// meaning.
	DefaultP2PPort string
	DefaultRPCPort string

	// GenesisBlock defines the first block of the chain. Its proof of
	// work is always validated against AlgoSHA256D regardless of
	// RandomXForkHeight.
	GenesisBlock *wire.MsgBlock

	// GenesisHash is the precomputed hash of GenesisBlock, exposed so
	// callers need not hash the (potentially large) genesis block to
	// confirm chain identity.
	GenesisHash *chainhash.Hash

	// PowLimitSHA256D, PowLimitRandomX, and PowLimitArgon2 define the
	// loosest target each algorithm ever accepts. PowLimitSHA256D must be
	// set; the other two may be nil, in which case GetActivePowLimit
	// falls back per algorithm (Argon2id to RandomX to SHA256d).
	PowLimitSHA256D *big.Int
	PowLimitRandomX *big.Int
	PowLimitArgon2  *big.Int

	// RandomXForkHeight is the first height validated under AlgoRandomX.
	// Genesis (height 0) is always AlgoSHA256D regardless of this value.
	RandomXForkHeight int32

	// RandomXKeyBlockInterval is the interval I in the key-block formula
	// k(h) = max(0, floor(h/I)*I - I), which selects the height whose
	// hash seeds a RandomX VM's cache for a given height h.
	RandomXKeyBlockInterval int32

	// Argon2EmergencyHeight is the height at which the chain falls back
	// to AlgoArgon2id as an emergency measure (for example, in response
	// to a catastrophic RandomX ASIC break). A negative value means the
	// fallback has never been activated.
	Argon2EmergencyHeight int32

	// Argon2Params are the Argon2id cost parameters used whenever
	// AlgoArgon2id is active.
	Argon2Params Argon2Params

	// EnforceBIP94 specifies whether BIP94 timewarp mitigation should be
	// applied during difficulty retargeting.
	EnforceBIP94 bool

	// PowNoRetargeting disables difficulty retargeting entirely. This
	// must only be set for regtest-like networks: a real network needs
	// the retarget to track actual hash rate.
	PowNoRetargeting bool

	// PowTargetSpacing is the desired interval between blocks.
	PowTargetSpacing time.Duration

	// PowTargetTimespan is the window over which the retargeter measures
	// actual block production before adjusting the target. The retarget
	// interval in blocks is PowTargetTimespan / PowTargetSpacing.
	PowTargetTimespan time.Duration

	// RetargetAdjustmentFactor records how much the target can move in a
	// single retarget. Every network sets it to 4. The retargeter
	// (blockchain.CalcNextRequiredDifficulty) does not read this field: it
	// always clamps the new target to [old/4, old*4].
	RetargetAdjustmentFactor int64

	// CoinbaseMaturity is the number of confirmations required before a
	// coinbase output may be spent.
	CoinbaseMaturity uint16

	// SubsidyHalvingInterval is the number of blocks between subsidy
	// halvings. era = height / SubsidyHalvingInterval; subsidy is zero
	// once era reaches 64.
	SubsidyHalvingInterval int32

	// InitialSubsidy is the block reward at era 0, denominated in qirsh
	// (10^-8 SYL).
	InitialSubsidy int64

	// Bech32HRPSegwit is the human-readable part for Bech32-encoded
	// segwit addresses on this network.
	Bech32HRPSegwit string

	// PubKeyHashAddrID is the version byte prepended to a legacy
	// Base58Check-encoded pay-to-pubkey-hash address. Address encoding
	// itself lives outside this module's scope (see DESIGN.md), but the
	// version byte is a network-identity constant other implementations
	// must agree on to recognize a Sylm address, so it is registered here
	// alongside the other prefix/magic constants.
	PubKeyHashAddrID byte

	// MinChainWork is a floor on accumulated chain work below which a
	// candidate best chain is not considered, guarding initial sync
	// against a low-work alternate history.
	MinChainWork *big.Int

	// AssumeValid is a block hash below which script/signature checks may
	// be skipped during initial sync, since every block up to a
	// widely-agreed checkpoint has already been validated by the network.
	// The zero hash disables the optimization.
	AssumeValid chainhash.Hash
}

// GetActivePowLimit returns the proof-of-work limit in effect for algo. A
// nil algorithm-specific limit falls back one algorithm at a time: RandomX
// falls back to the SHA256d limit, and Argon2id to the RandomX limit (and
// through it to SHA256d), so a Params value that predates the emergency
// fork, or a custom network that never sets the optional limits, still
// yields a usable ceiling rather than a nil target.
func (p *Params) GetActivePowLimit(algo PowAlgorithm) *big.Int {
	switch algo {
	case AlgoRandomX:
		if p.PowLimitRandomX != nil {
			return p.PowLimitRandomX
		}
	case AlgoArgon2id:
		if p.PowLimitArgon2 != nil {
			return p.PowLimitArgon2
		}
		if p.PowLimitRandomX != nil {
			return p.PowLimitRandomX
		}
	}
	return p.PowLimitSHA256D
}

// MainNetParams defines the consensus parameters for the main Sylm network.
var MainNetParams = Params{
	Name:           "mainnet",
	Net:            wire.SylmMainNet,
	DefaultP2PPort: wire.MainNetP2PPort,
	DefaultRPCPort: wire.MainNetRPCPort,

	GenesisBlock: &genesisBlock,
	GenesisHash:  &genesisHash,

	PowLimitSHA256D: mainPowLimit,
	PowLimitRandomX: mainPowLimitRandomX,
	PowLimitArgon2:  mainPowLimitArgon2,

	RandomXForkHeight:       100000,
	RandomXKeyBlockInterval: 32,
	Argon2EmergencyHeight:   -1,
	Argon2Params: Argon2Params{
		MemoryCostKiB: 2 * 1024 * 1024, // 2 GiB
		TimeCost:      1,
		Parallelism:   1,
	},

	EnforceBIP94:     false,
	PowNoRetargeting: false,

	PowTargetSpacing:         120 * time.Second,
	PowTargetTimespan:        14 * 24 * time.Hour, // 1,209,600 seconds
	RetargetAdjustmentFactor: 4,

	CoinbaseMaturity:       100,
	SubsidyHalvingInterval: 1050000,
	InitialSubsidy:         10000 * 1e8,

	Bech32HRPSegwit:  "syl",
	PubKeyHashAddrID: 35, // 'F'

	MinChainWork: new(big.Int),
	AssumeValid:  chainhash.Hash{},
}

// TestNetParams defines the consensus parameters for the Sylm test network.
// It enforces BIP94 (the scenario BIP94 mitigates is most likely to be
// exercised by a low-hash-rate public testnet) and reaches the RandomX fork
// much sooner so the algorithm dispatch path gets exercised without waiting
// for 100,000 SHA256d blocks.
var TestNetParams = Params{
	Name:           "testnet",
	Net:            wire.SylmTestNet,
	DefaultP2PPort: wire.TestNetP2PPort,
	DefaultRPCPort: wire.TestNetRPCPort,

	GenesisBlock: &testNetGenesisBlock,
	GenesisHash:  &testNetGenesisHash,

	PowLimitSHA256D: mainPowLimit,
	PowLimitRandomX: mainPowLimitRandomX,
	PowLimitArgon2:  mainPowLimitArgon2,

	RandomXForkHeight:       2000,
	RandomXKeyBlockInterval: 32,
	Argon2EmergencyHeight:   -1,
	Argon2Params: Argon2Params{
		MemoryCostKiB: 2 * 1024 * 1024,
		TimeCost:      1,
		Parallelism:   1,
	},

	EnforceBIP94:     true,
	PowNoRetargeting: false,

	PowTargetSpacing:         120 * time.Second,
	PowTargetTimespan:        14 * 24 * time.Hour,
	RetargetAdjustmentFactor: 4,

	CoinbaseMaturity:       100,
	SubsidyHalvingInterval: 1050000,
	InitialSubsidy:         10000 * 1e8,

	Bech32HRPSegwit: "tsyl",

	MinChainWork: new(big.Int),
	AssumeValid:  chainhash.Hash{},
}

// RegressionNetParams defines the consensus parameters for the Sylm
// regression test network: retargeting is disabled and the powLimit is very
// loose, so tests can mine blocks instantly at a fixed difficulty.
var RegressionNetParams = Params{
	Name:           "regtest",
	Net:            wire.SylmRegNet,
	DefaultP2PPort: "19444",
	DefaultRPCPort: "19443",

	GenesisBlock: &regNetGenesisBlock,
	GenesisHash:  &regNetGenesisHash,

	PowLimitSHA256D: regressionPowLimit,
	PowLimitRandomX: regressionPowLimit,
	PowLimitArgon2:  regressionPowLimit,

	RandomXForkHeight:       0,
	RandomXKeyBlockInterval: 32,
	Argon2EmergencyHeight:   -1,
	Argon2Params: Argon2Params{
		MemoryCostKiB: 8,
		TimeCost:      1,
		Parallelism:   1,
	},

	EnforceBIP94:     false,
	PowNoRetargeting: true,

	PowTargetSpacing:         120 * time.Second,
	PowTargetTimespan:        14 * 24 * time.Hour,
	RetargetAdjustmentFactor: 4,

	CoinbaseMaturity:       100,
	SubsidyHalvingInterval: 150,
	InitialSubsidy:         10000 * 1e8,

	Bech32HRPSegwit: "rsyl",

	MinChainWork: new(big.Int),
	AssumeValid:  chainhash.Hash{},
}

// ErrDuplicateNet describes an error where the parameters for a network
// could not be registered because the network magic is already registered.
var ErrDuplicateNet = errors.New("duplicate network")

var registeredNets = make(map[wire.BitcoinNet]*Params)

// Register registers the consensus parameters for a network so library code
// can look them up by network magic without importing this package's
// concrete Params values directly.
func Register(params *Params) error {
	if _, ok := registeredNets[params.Net]; ok {
		return ErrDuplicateNet
	}
	registeredNets[params.Net] = params
	return nil
}

// mustRegister performs the same function as Register except it panics if
// there is an error. This should only be called from package init.
func mustRegister(params *Params) {
	if err := Register(params); err != nil {
		panic("failed to register network: " + err.Error())
	}
}

// ParamsForNet returns the registered Params for the given network magic, or
// nil if no network with that magic has been registered.
func ParamsForNet(net wire.BitcoinNet) *Params {
	return registeredNets[net]
}

func init() {
	mustRegister(&MainNetParams)
	mustRegister(&TestNetParams)
	mustRegister(&RegressionNetParams)
}
