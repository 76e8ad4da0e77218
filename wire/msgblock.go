// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MaxBlockTransactions bounds the tx-count varint decoded from a serialized
// block, guarding against a length prefix that would force an absurd
// allocation before the real per-transaction size limits apply.
const MaxBlockTransactions = 1_000_000

// MsgBlock implements a block header plus its list of transactions, matching
// the Bitcoin-lineage layout this network is built on.
type MsgBlock struct {
	Header       BlockHeader
	Transactions []*MsgTx
}

// AddTransaction adds a transaction to the message.
func (msg *MsgBlock) AddTransaction(tx *MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// Serialize encodes the block to w including witness data for every
// transaction.
func (msg *MsgBlock) Serialize(w io.Writer) error {
	if err := msg.Header.Serialize(w); err != nil {
		return err
	}
	if err := WriteVarInt(w, uint64(len(msg.Transactions))); err != nil {
		return err
	}
	for _, tx := range msg.Transactions {
		if err := tx.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize decodes a block from r.
func (msg *MsgBlock) Deserialize(r io.Reader) error {
	if err := msg.Header.Deserialize(r); err != nil {
		return err
	}

	txCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if txCount > MaxBlockTransactions {
		return errTooManyTransactions(txCount)
	}

	msg.Transactions = make([]*MsgTx, txCount)
	for i := range msg.Transactions {
		tx := new(MsgTx)
		if err := tx.Deserialize(r); err != nil {
			return err
		}
		msg.Transactions[i] = tx
	}

	return nil
}

func errTooManyTransactions(count uint64) error {
	return &tooManyTransactionsError{count}
}

type tooManyTransactionsError struct{ count uint64 }

func (e *tooManyTransactionsError) Error() string {
	return "block contains more transactions than allowed"
}

// BlockHash returns the block's identifying hash, which is simply the hash
// of its header.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}
