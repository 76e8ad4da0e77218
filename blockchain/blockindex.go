// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/sylmnetwork/sylmd/pow"
)

// oneLsh256 is 2^256, used by CalcWork to convert a target into the amount
// of work a hash at that target represents.
var oneLsh256 = new(big.Int).Lsh(big.NewInt(1), 256)

// CalcWork calculates the amount of work implied by a block with the given
// difficulty bits, as 2^256 / (target+1). Lower targets (harder difficulty)
// imply proportionally more work; this is the quantity chain-work
// accumulates so the retargeter and the best-chain selection the P2P layer
// performs outside this module's scope can compare two histories.
func CalcWork(bits uint32) *big.Int {
	target := pow.CompactToBig(bits)
	if target.Sign() <= 0 {
		return big.NewInt(0)
	}
	denominator := new(big.Int).Add(target, big.NewInt(1))
	return new(big.Int).Div(oneLsh256, denominator)
}

// BlockNode represents a block in the tree of known blocks rooted at
// genesis. It carries just enough header
// metadata for the difficulty retargeter to walk back a window and for
// chain-work comparisons: height, time, bits, and the accumulated work of
// every ancestor up to and including this node.
type BlockNode struct {
	Parent    *BlockNode
	Hash      chainhash.Hash
	Height    int32
	Timestamp time.Time
	Bits      uint32
	ChainWork *big.Int
}

// NewBlockNode creates a BlockNode linked to parent (nil for genesis),
// computing ChainWork as parent.ChainWork + CalcWork(bits). ChainWork is
// monotone non-decreasing along any ancestor chain: CalcWork is always
// non-negative, so a child's work is never less than its parent's.
func NewBlockNode(hash chainhash.Hash, height int32, timestamp time.Time, bits uint32, parent *BlockNode) *BlockNode {
	work := CalcWork(bits)
	if parent != nil {
		work = new(big.Int).Add(parent.ChainWork, work)
	}
	return &BlockNode{
		Parent:    parent,
		Hash:      hash,
		Height:    height,
		Timestamp: timestamp,
		Bits:      bits,
		ChainWork: work,
	}
}

// Ancestor returns the ancestor of this node at the given height, or nil if
// height is negative or greater than this node's height. It walks parent
// pointers, which is adequate for the bounded retarget-window lookups this
// module performs; a full chain index serving arbitrary random access would
// want a skip-list structure instead, which is out of scope here.
func (n *BlockNode) Ancestor(height int32) *BlockNode {
	if height < 0 || height > n.Height {
		return nil
	}
	node := n
	for node != nil && node.Height > height {
		node = node.Parent
	}
	if node == nil || node.Height != height {
		return nil
	}
	return node
}

// RelativeAncestor returns the ancestor distance blocks before this node,
// equivalent to n.Ancestor(n.Height - distance).
func (n *BlockNode) RelativeAncestor(distance int32) *BlockNode {
	return n.Ancestor(n.Height - distance)
}
