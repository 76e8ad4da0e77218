// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/sylmnetwork/sylmd/wire"
)

// genesisCoinbaseMessage is embedded in the genesis block's coinbase
// signature script. Its only consensus purpose is uniqueness: it guarantees
// the genesis coinbase txid (and therefore the genesis merkle root and
// block hash) cannot collide with another chain's genesis block.
const genesisCoinbaseMessage = "Sylm genesis 2026-01-01: fair launch, no premine, SYL/qirsh"

// genesisCoinbaseTx is the coinbase transaction for the genesis block on
// every network. Its single output carries a value of zero to a provably
// unspendable OP_RETURN script, so the genesis block mints no
// spendable coin, consistent with every other block's coinbase obeying the
// ordinary subsidy schedule starting at height 1.
var genesisCoinbaseTx = wire.MsgTx{
	Version: 2,
	TxIn: []*wire.TxIn{
		{
			PreviousOutPoint: wire.OutPoint{
				Hash:  chainhash.Hash{},
				Index: 0xffffffff,
			},
			SignatureScript: []byte(genesisCoinbaseMessage),
			Sequence:        0xffffffff,
		},
	},
	TxOut: []*wire.TxOut{
		{
			Value:    0,
			PkScript: []byte{0x6a}, // OP_RETURN
		},
	},
	LockTime: 0,
}

// genesisMerkleRoot is the merkle root of the genesis block, which for a
// single-transaction block is just that transaction's txid.
var genesisMerkleRoot = genesisCoinbaseTx.TxHash()

// genesisBlock defines the genesis block of the main Sylm network. Height 0
// always uses SHA256d regardless of the configured RandomX fork height, so
// Bits here is expressed against mainPowLimit rather than any
// algorithm-specific limit. Bits 0x1f00ffff is mainPowLimit's own compact
// encoding (the loosest target mainnet ever accepts) and Nonce 0xb519 is the
// smallest nonce that actually satisfies it for this header, mined offline
// against the exact serialization wire.BlockHeader.Bytes produces, so
// CheckProofOfWork(GetHash(genesisBlock), ...) holds the way it must for any
// other block on the chain.
var genesisBlock = wire.MsgBlock{
	Header: wire.BlockHeader{
		Version:    2,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: genesisMerkleRoot,
		Timestamp:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Bits:       0x1f00ffff,
		Nonce:      0x0000b519,
	},
	Transactions: []*wire.MsgTx{&genesisCoinbaseTx},
}

// genesisHash is the hash of the first block in the main network.
var genesisHash = genesisBlock.Header.BlockHash()

// testNetGenesisBlock defines the genesis block of the Sylm test network. It
// differs from mainnet only in timestamp and nonce, as is conventional; the
// nonce below is likewise mined to actually satisfy Bits at this timestamp.
var testNetGenesisBlock = wire.MsgBlock{
	Header: wire.BlockHeader{
		Version:    2,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: genesisMerkleRoot,
		Timestamp:  time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
		Bits:       0x1f00ffff,
		Nonce:      0x00011a99,
	},
	Transactions: []*wire.MsgTx{&genesisCoinbaseTx},
}

var testNetGenesisHash = testNetGenesisBlock.Header.BlockHash()

// regNetGenesisBlock defines the genesis block of the Sylm regression test
// network. Its powLimit is far looser than mainnet's (see RegressionNetParams
// in params.go), so the nonce required to satisfy it is trivially small.
var regNetGenesisBlock = wire.MsgBlock{
	Header: wire.BlockHeader{
		Version:    2,
		PrevBlock:  chainhash.Hash{},
		MerkleRoot: genesisMerkleRoot,
		Timestamp:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Bits:       0x207fffff,
		Nonce:      0,
	},
	Transactions: []*wire.MsgTx{&genesisCoinbaseTx},
}

var regNetGenesisHash = regNetGenesisBlock.Header.BlockHash()
