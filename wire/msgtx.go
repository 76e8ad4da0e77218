// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// TxVersion is the current latest supported transaction version.
const TxVersion = 2

// MaxTxInSequenceNum is the maximum sequence number the sequence field of a
// transaction input can be.
const MaxTxInSequenceNum uint32 = 0xffffffff

// witnessMarkerByte and witnessFlagByte are the two bytes inserted after a
// transaction's version field to signal the presence of witness data,
// exactly as BIP0144 defines; segwit is active from genesis on this
// network. A marker of 0x00 could never be a valid varint tx-in count, so
// the encoding is unambiguous and backward compatible with non-witness
// parsers that understand only the legacy layout.
const (
	witnessMarkerByte = 0x00
	witnessFlagByte   = 0x01
)

// MaxWitnessItemsPerInput and MaxWitnessItemSize bound how much a malicious
// peer can force a parser to allocate decoding a single input's witness
// stack.
const (
	MaxWitnessItemsPerInput = 100000
	MaxWitnessItemSize      = 4_000_000
)

// OutPoint defines a combination of a transaction hash and an index n into
// its vout, used as a unique identifier for an individual transaction
// output.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// NewOutPoint returns a new outpoint.
func NewOutPoint(hash *chainhash.Hash, index uint32) *OutPoint {
	return &OutPoint{Hash: *hash, Index: index}
}

func (o OutPoint) serialize(w io.Writer) error {
	if err := writeHash(w, &o.Hash); err != nil {
		return err
	}
	return writeUint32LE(w, o.Index)
}

func (o *OutPoint) deserialize(r io.Reader) error {
	if err := readHash(r, &o.Hash); err != nil {
		return err
	}
	idx, err := readUint32LE(r)
	if err != nil {
		return err
	}
	o.Index = idx
	return nil
}

// TxIn defines a transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Witness          [][]byte
	Sequence         uint32
}

// SerializeSizeStripped returns the number of bytes the input takes up when
// serialized without witness data, which is what a transaction's legacy
// `txid` is computed over.
func (t *TxIn) SerializeSizeStripped() int {
	return 40 + VarIntSerializeSize(uint64(len(t.SignatureScript))) + len(t.SignatureScript)
}

func (t *TxIn) serialize(w io.Writer) error {
	if err := t.PreviousOutPoint.serialize(w); err != nil {
		return err
	}
	if err := WriteVarBytes(w, t.SignatureScript); err != nil {
		return err
	}
	return writeUint32LE(w, t.Sequence)
}

func (t *TxIn) deserialize(r io.Reader) error {
	if err := t.PreviousOutPoint.deserialize(r); err != nil {
		return err
	}
	script, err := ReadVarBytes(r, MaxWitnessItemSize, "signature script")
	if err != nil {
		return err
	}
	t.SignatureScript = script
	seq, err := readUint32LE(r)
	if err != nil {
		return err
	}
	t.Sequence = seq
	return nil
}

func (t *TxIn) serializeWitness(w io.Writer) error {
	if err := WriteVarInt(w, uint64(len(t.Witness))); err != nil {
		return err
	}
	for _, item := range t.Witness {
		if err := WriteVarBytes(w, item); err != nil {
			return err
		}
	}
	return nil
}

func (t *TxIn) deserializeWitness(r io.Reader) error {
	count, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	if count > MaxWitnessItemsPerInput {
		return errTooManyWitnessItems(count)
	}
	witness := make([][]byte, count)
	for i := range witness {
		item, err := ReadVarBytes(r, MaxWitnessItemSize, "witness item")
		if err != nil {
			return err
		}
		witness[i] = item
	}
	t.Witness = witness
	return nil
}

func errTooManyWitnessItems(count uint64) error {
	return &witnessCountError{count}
}

type witnessCountError struct{ count uint64 }

func (e *witnessCountError) Error() string {
	return "too many witness items in input"
}

// TxOut defines a transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

func (t *TxOut) serialize(w io.Writer) error {
	if err := writeInt64LE(w, t.Value); err != nil {
		return err
	}
	return WriteVarBytes(w, t.PkScript)
}

func (t *TxOut) deserialize(r io.Reader) error {
	value, err := readInt64LE(r)
	if err != nil {
		return err
	}
	t.Value = value
	script, err := ReadVarBytes(r, MaxWitnessItemSize, "pk script")
	if err != nil {
		return err
	}
	t.PkScript = script
	return nil
}

// MsgTx implements the UTXO/segwit transaction model inherited unchanged
// from the Bitcoin lineage: two varint-prefixed
// vectors of inputs and outputs, a lock time, and an optional witness stack
// per input flagged by the BIP0144 marker/flag bytes.
type MsgTx struct {
	Version  int32
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
}

// HasWitness reports whether any input of the transaction carries witness
// data.
func (msg *MsgTx) HasWitness() bool {
	for _, txIn := range msg.TxIn {
		if len(txIn.Witness) > 0 {
			return true
		}
	}
	return false
}

// IsCoinBase determines whether the transaction is a coinbase transaction.
// A coinbase is a special transaction created by miners that has no
// inputs other than a single input with a previous output transaction
// index set to the maximum value along with a zero hash.
func (msg *MsgTx) IsCoinBase() bool {
	if len(msg.TxIn) != 1 {
		return false
	}
	prevOut := &msg.TxIn[0].PreviousOutPoint
	return prevOut.Index == 0xffffffff && prevOut.Hash == chainhash.Hash{}
}

// Serialize encodes the transaction including witness data, if any.
func (msg *MsgTx) Serialize(w io.Writer) error {
	return msg.encode(w, msg.HasWitness())
}

// SerializeNoWitness encodes the transaction without witness data. This is
// the form whose double-SHA256 is the transaction's legacy `txid`.
func (msg *MsgTx) SerializeNoWitness(w io.Writer) error {
	return msg.encode(w, false)
}

func (msg *MsgTx) encode(w io.Writer, withWitness bool) error {
	if err := writeInt32LE(w, msg.Version); err != nil {
		return err
	}

	if withWitness {
		if _, err := w.Write([]byte{witnessMarkerByte, witnessFlagByte}); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(msg.TxIn))); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := ti.serialize(w); err != nil {
			return err
		}
	}

	if err := WriteVarInt(w, uint64(len(msg.TxOut))); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := to.serialize(w); err != nil {
			return err
		}
	}

	if withWitness {
		for _, ti := range msg.TxIn {
			if err := ti.serializeWitness(w); err != nil {
				return err
			}
		}
	}

	return writeUint32LE(w, msg.LockTime)
}

// Deserialize decodes a transaction from r, auto-detecting the presence of
// witness data via the BIP0144 marker/flag bytes.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	version, err := readInt32LE(r)
	if err != nil {
		return err
	}
	msg.Version = version

	// Peek the next byte to detect the witness marker. A legitimate
	// tx-in-count varint's first byte is never 0x00 (an empty input vector
	// is disallowed for any transaction with outputs, and count-encoding
	// rules make 0x00 ambiguous only with the marker, which is why BIP0144
	// reserved it).
	peek := make([]byte, 1)
	if _, err := io.ReadFull(r, peek); err != nil {
		return err
	}

	hasWitness := false
	var countByte byte
	if peek[0] == witnessMarkerByte {
		flag := make([]byte, 1)
		if _, err := io.ReadFull(r, flag); err != nil {
			return err
		}
		if flag[0] != witnessFlagByte {
			return errInvalidWitnessFlag(flag[0])
		}
		hasWitness = true
		cb := make([]byte, 1)
		if _, err := io.ReadFull(r, cb); err != nil {
			return err
		}
		countByte = cb[0]
	} else {
		countByte = peek[0]
	}

	txInCount, err := readVarIntFromFirstByte(r, countByte)
	if err != nil {
		return err
	}
	msg.TxIn = make([]*TxIn, txInCount)
	for i := range msg.TxIn {
		ti := new(TxIn)
		if err := ti.deserialize(r); err != nil {
			return err
		}
		msg.TxIn[i] = ti
	}

	txOutCount, err := ReadVarInt(r)
	if err != nil {
		return err
	}
	msg.TxOut = make([]*TxOut, txOutCount)
	for i := range msg.TxOut {
		to := new(TxOut)
		if err := to.deserialize(r); err != nil {
			return err
		}
		msg.TxOut[i] = to
	}

	if hasWitness {
		for _, ti := range msg.TxIn {
			if err := ti.deserializeWitness(r); err != nil {
				return err
			}
		}
	}

	lockTime, err := readUint32LE(r)
	if err != nil {
		return err
	}
	msg.LockTime = lockTime

	return nil
}

func errInvalidWitnessFlag(flag byte) error {
	return &invalidWitnessFlagError{flag}
}

type invalidWitnessFlagError struct{ flag byte }

func (e *invalidWitnessFlagError) Error() string {
	return "invalid witness flag byte"
}

// readVarIntFromFirstByte reads the remainder of a varint given its already
// consumed first byte, following the same discriminant rules as ReadVarInt.
func readVarIntFromFirstByte(r io.Reader, first byte) (uint64, error) {
	prefixed := io.MultiReader(bytes.NewReader([]byte{first}), r)
	return ReadVarInt(prefixed)
}

// TxHash generates the legacy (non-witness) transaction hash, i.e. the
// `txid` used for outpoints and the non-witness merkle root.
func (msg *MsgTx) TxHash() chainhash.Hash {
	var buf bytes.Buffer
	_ = msg.SerializeNoWitness(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// WitnessHash generates the witness transaction hash (`wtxid`), used for the
// witness merkle root and witness commitment. For a coinbase transaction the
// caller must substitute the all-zero hash per BIP0141 (see
// blockchain.BuildMerkleTreeStore).
func (msg *MsgTx) WitnessHash() chainhash.Hash {
	var buf bytes.Buffer
	_ = msg.Serialize(&buf)
	return chainhash.DoubleHashH(buf.Bytes())
}

// Copy creates a deep copy of the transaction.
func (msg *MsgTx) Copy() *MsgTx {
	newTx := &MsgTx{
		Version:  msg.Version,
		TxIn:     make([]*TxIn, len(msg.TxIn)),
		TxOut:    make([]*TxOut, len(msg.TxOut)),
		LockTime: msg.LockTime,
	}
	for i, ti := range msg.TxIn {
		newIn := *ti
		newIn.SignatureScript = append([]byte(nil), ti.SignatureScript...)
		if ti.Witness != nil {
			newIn.Witness = make([][]byte, len(ti.Witness))
			for j, item := range ti.Witness {
				newIn.Witness[j] = append([]byte(nil), item...)
			}
		}
		newTx.TxIn[i] = &newIn
	}
	for i, to := range msg.TxOut {
		newOut := *to
		newOut.PkScript = append([]byte(nil), to.PkScript...)
		newTx.TxOut[i] = &newOut
	}
	return newTx
}
