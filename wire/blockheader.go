// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// BlockHeaderLen is the number of bytes in a canonical serialized block
// header: 4 (version) + 32 (prev hash) + 32 (merkle root) + 4 (time) +
// 4 (bits) + 4 (nonce).
const BlockHeaderLen = 80

// BlockHeader defines information about a block and is used in the bitcoin
// block (MsgBlock) and headers (MsgHeaders) messages. Field order and width
// are consensus: every implementation must reproduce this exact 80-byte
// layout byte for byte.
type BlockHeader struct {
	// Version is the block version information.
	Version int32

	// PrevBlock is the hash of the previous block header in the block chain.
	PrevBlock chainhash.Hash

	// MerkleRoot is the merkle tree reference to hash of all transactions
	// for the block.
	MerkleRoot chainhash.Hash

	// Timestamp is the time the miner started hashing the block header.
	Timestamp time.Time

	// Bits is the difficulty target for the block in compact form.
	Bits uint32

	// Nonce is used to generate the block.
	Nonce uint32
}

// BlockHash computes the SHA256d (double SHA256) hash of the header. This is
// the hash used for SHA256d-algorithm blocks (height 0 always, and any
// height below the RandomX fork); RandomX and Argon2id blocks use
// algorithm-specific hashing over the same serialized bytes, computed by the
// pow package rather than here, since that requires a keyed VM or a hasher
// singleton this package has no business owning.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	buf := bytes.NewBuffer(make([]byte, 0, BlockHeaderLen))
	// Serialize errors only on writer failure, which bytes.Buffer never
	// does.
	_ = h.Serialize(buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// Deserialize decodes a block header from r into the receiver. It is the
// inverse of Serialize: re-serializing the result must reproduce the
// original 80 bytes exactly.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	version, err := readInt32LE(r)
	if err != nil {
		return err
	}
	h.Version = version

	if err := readHash(r, &h.PrevBlock); err != nil {
		return err
	}
	if err := readHash(r, &h.MerkleRoot); err != nil {
		return err
	}

	ts, err := readUint32LE(r)
	if err != nil {
		return err
	}
	h.Timestamp = time.Unix(int64(ts), 0)

	bits, err := readUint32LE(r)
	if err != nil {
		return err
	}
	h.Bits = bits

	nonce, err := readUint32LE(r)
	if err != nil {
		return err
	}
	h.Nonce = nonce

	return nil
}

// Serialize encodes a block header into the canonical 80-byte wire format.
func (h *BlockHeader) Serialize(w io.Writer) error {
	if err := writeInt32LE(w, h.Version); err != nil {
		return err
	}
	if err := writeHash(w, &h.PrevBlock); err != nil {
		return err
	}
	if err := writeHash(w, &h.MerkleRoot); err != nil {
		return err
	}
	if err := writeUint32LE(w, uint32(h.Timestamp.Unix())); err != nil {
		return err
	}
	if err := writeUint32LE(w, h.Bits); err != nil {
		return err
	}
	if err := writeUint32LE(w, h.Nonce); err != nil {
		return err
	}
	return nil
}

// Bytes returns the canonical 80-byte serialization of the header. This is
// the exact byte string every PoW algorithm (SHA256d, RandomX, Argon2id)
// hashes.
func (h *BlockHeader) Bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, BlockHeaderLen))
	_ = h.Serialize(buf)
	return buf.Bytes()
}

// NewBlockHeader returns a new BlockHeader using the provided version,
// previous block hash, merkle root hash, difficulty bits, and nonce used to
// generate the block with defaults for the remaining fields.
func NewBlockHeader(version int32, prevHash, merkleRootHash *chainhash.Hash,
	bits uint32, nonce uint32) *BlockHeader {

	return &BlockHeader{
		Version:    version,
		PrevBlock:  *prevHash,
		MerkleRoot: *merkleRootHash,
		Timestamp:  time.Unix(time.Now().Unix(), 0),
		Bits:       bits,
		Nonce:      nonce,
	}
}
