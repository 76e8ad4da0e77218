// Copyright (c) 2013-2024 The btcsuite developers
// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import "fmt"

// ProtocolVersion is the latest protocol version this package supports. It
// has no consensus meaning for Sylm (block/transaction validity never
// depends on it) but peers exchange it during the handshake the P2P layer
// (out of scope for this module) performs.
const ProtocolVersion uint32 = 1

// BitcoinNet represents which network a message belongs to. The name is
// kept for familiarity with the Bitcoin-lineage wire format this type
// encodes; Sylm registers its own magics below.
type BitcoinNet uint32

// Network magic values. Each is the big-endian ASCII rendering of a short
// mnemonic. All three (main/test/regtest) are pairwise
// distinct, and distinct from every well-known upstream network magic
// (Bitcoin main/test/regtest, Litecoin, Dogecoin).
const (
	// SylmMainNet is the main Sylm network. 0x53 0x59 0x4C 0x4D = "SYLM".
	SylmMainNet BitcoinNet = 0x53594C4D

	// SylmTestNet is the Sylm test network. 0x53 0x59 0x4C 0x54 = "SYLT".
	SylmTestNet BitcoinNet = 0x53594C54

	// SylmRegNet is the Sylm regression test network. 0x53 0x59 0x4C 0x52 =
	// "SYLR".
	SylmRegNet BitcoinNet = 0x53594C52
)

var bnStrings = map[BitcoinNet]string{
	SylmMainNet: "SylmMainNet",
	SylmTestNet: "SylmTestNet",
	SylmRegNet:  "SylmRegNet",
}

// String returns the BitcoinNet in human-readable form.
func (n BitcoinNet) String() string {
	if s, ok := bnStrings[n]; ok {
		return s
	}
	return fmt.Sprintf("Unknown BitcoinNet (0x%08x)", uint32(n))
}

// Default peer-to-peer and RPC ports. These are defaults
// only; every daemon built on this core must allow override, not
// consensus constants.
const (
	MainNetP2PPort = "9633"
	MainNetRPCPort = "9632"
	TestNetP2PPort = "19633"
	TestNetRPCPort = "19632"
)

// ServiceFlag identifies services supported by a Sylm peer. Kept for
// wire-format compatibility with Bitcoin-lineage handshakes performed by the
// (out-of-scope) P2P layer.
type ServiceFlag uint64

const (
	// SFNodeNetwork indicates a peer is a full node.
	SFNodeNetwork ServiceFlag = 1 << iota

	// SFNodeWitness indicates a peer supports segwit blocks/transactions.
	SFNodeWitness

	// SFNodeNetworkLimited indicates a peer serves only a recent window of
	// blocks.
	SFNodeNetworkLimited
)

// HasFlag returns whether the service flag set has the given flag.
func (f ServiceFlag) HasFlag(s ServiceFlag) bool {
	return f&s == s
}
