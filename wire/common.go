// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2025 The Sylm developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MaxVarIntPayload is the maximum payload size for a variable length integer.
const MaxVarIntPayload = 9

// errNonCanonicalVarInt is returned when a variable length integer is not
// minimally encoded.
func errNonCanonicalVarInt(val uint64, discriminant byte, min uint64) error {
	return fmt.Errorf("non-canonical varint %x - discriminant %x must "+
		"encode a value greater than %x", val, discriminant, min)
}

// ReadVarInt reads a variable length integer from r and returns it as a
// uint64, using the Bitcoin-lineage compact encoding: values under 0xfd are
// stored as a single byte; 0xfd/0xfe/0xff prefix a following 2/4/8 byte
// little-endian value, and the encoding must be minimal. Minimality is
// consensus-critical: a non-canonical encoding must be rejected, or two
// implementations could disagree on transaction bytes and hence on `txid`.
func ReadVarInt(r io.Reader) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}

	var rv uint64
	switch prefix[0] {
	case 0xff:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		rv = binary.LittleEndian.Uint64(b[:])
		if rv < 0x100000000 {
			return 0, errNonCanonicalVarInt(rv, 0xff, 0x100000000)
		}

	case 0xfe:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		rv = uint64(binary.LittleEndian.Uint32(b[:]))
		if rv < 0x10000 {
			return 0, errNonCanonicalVarInt(rv, 0xfe, 0x10000)
		}

	case 0xfd:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		rv = uint64(binary.LittleEndian.Uint16(b[:]))
		if rv < 0xfd {
			return 0, errNonCanonicalVarInt(rv, 0xfd, 0xfd)
		}

	default:
		rv = uint64(prefix[0])
	}

	return rv, nil
}

// WriteVarInt writes val to w using the minimal compact encoding described
// in ReadVarInt.
func WriteVarInt(w io.Writer, val uint64) error {
	if val < 0xfd {
		_, err := w.Write([]byte{byte(val)})
		return err
	}

	if val <= 0xffff {
		var buf [3]byte
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:], uint16(val))
		_, err := w.Write(buf[:])
		return err
	}

	if val <= 0xffffffff {
		var buf [5]byte
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:], uint32(val))
		_, err := w.Write(buf[:])
		return err
	}

	var buf [9]byte
	buf[0] = 0xff
	binary.LittleEndian.PutUint64(buf[1:], val)
	_, err := w.Write(buf[:])
	return err
}

// VarIntSerializeSize returns the number of bytes it would take to serialize
// val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// ReadVarBytes reads a variable length byte array, bounded by maxAllowed to
// guard against a malicious or malformed length prefix forcing a huge
// allocation.
func ReadVarBytes(r io.Reader, maxAllowed uint64, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if count > maxAllowed {
		return nil, fmt.Errorf("%s is larger than the max allowed size "+
			"[count %d, max %d]", fieldName, count, maxAllowed)
	}

	b := make([]byte, count)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// WriteVarBytes writes a variable length byte array.
func WriteVarBytes(w io.Writer, b []byte) error {
	if err := WriteVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// readUint32LE reads the next four bytes from r as a little-endian
// uint32.
func readUint32LE(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func writeUint32LE(w io.Writer, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readInt32LE(r io.Reader) (int32, error) {
	v, err := readUint32LE(r)
	return int32(v), err
}

func writeInt32LE(w io.Writer, v int32) error {
	return writeUint32LE(w, uint32(v))
}

func readUint64LE(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

func writeUint64LE(w io.Writer, v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	_, err := w.Write(b[:])
	return err
}

func readInt64LE(r io.Reader) (int64, error) {
	v, err := readUint64LE(r)
	return int64(v), err
}

func writeInt64LE(w io.Writer, v int64) error {
	return writeUint64LE(w, uint64(v))
}

// readHash reads a chainhash.Hash from r. Hashes are stored little-endian on
// the wire, which matches the natural byte order chainhash.Hash keeps
// internally, so this is a plain copy.
func readHash(r io.Reader, h *chainhash.Hash) error {
	_, err := io.ReadFull(r, h[:])
	return err
}

func writeHash(w io.Writer, h *chainhash.Hash) error {
	_, err := w.Write(h[:])
	return err
}
