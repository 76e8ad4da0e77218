// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "github.com/sylmnetwork/sylmd/wire"

// UtxoEntry is one unspent transaction output: the
// amount it carries, the script that locks it, the height of the block
// that created it, and whether it came from a coinbase transaction
// (coinbase outputs are subject to the maturity rule in CheckTxInputs).
type UtxoEntry struct {
	Amount     int64
	PkScript   []byte
	Height     int32
	IsCoinBase bool
}

// UtxoViewpoint is an in-memory view of the UTXO set: a map from outpoint
// to the coin it refers to. Entries are added when a transaction's outputs
// are connected and removed when a later transaction spends them; there is
// no tombstone for a spent coin: spent coins are simply removed from the
// active view. This type is a minimal, from-scratch implementation
// following the map-of-outpoint-to-entry shape
// the btcsuite family's UtxoViewpoint uses (see DESIGN.md): the retrieved
// pack referenced that type by name without including its body.
type UtxoViewpoint struct {
	entries map[wire.OutPoint]*UtxoEntry
}

// NewUtxoViewpoint returns an empty view.
func NewUtxoViewpoint() *UtxoViewpoint {
	return &UtxoViewpoint{entries: make(map[wire.OutPoint]*UtxoEntry)}
}

// LookupEntry returns the coin at outpoint, or nil if it is unknown or
// already spent.
func (v *UtxoViewpoint) LookupEntry(outpoint wire.OutPoint) *UtxoEntry {
	return v.entries[outpoint]
}

// AddEntry records a newly created coin. It is a programming error to add
// an outpoint twice without an intervening SpendEntry; this method
// overwrites silently rather than panicking, since detecting that
// specific misuse is a caller responsibility outside consensus scope.
func (v *UtxoViewpoint) AddEntry(outpoint wire.OutPoint, entry *UtxoEntry) {
	v.entries[outpoint] = entry
}

// SpendEntry removes outpoint from the active view, modeling a coin being
// consumed by a later transaction.
func (v *UtxoViewpoint) SpendEntry(outpoint wire.OutPoint) {
	delete(v.entries, outpoint)
}

// AddTxOuts adds every output of tx, which was included in a block at
// height, as a new coin in the view.
func (v *UtxoViewpoint) AddTxOuts(tx *wire.MsgTx, height int32) {
	isCoinBase := tx.IsCoinBase()
	txHash := tx.TxHash()
	for i, txOut := range tx.TxOut {
		outpoint := wire.OutPoint{Hash: txHash, Index: uint32(i)}
		v.AddEntry(outpoint, &UtxoEntry{
			Amount:     txOut.Value,
			PkScript:   txOut.PkScript,
			Height:     height,
			IsCoinBase: isCoinBase,
		})
	}
}
