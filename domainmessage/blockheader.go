// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package domainmessage

import (
	"bytes"
	"encoding/binary"
	"io"
	"time"

	"github.com/emberchain/emberd/util/chainhash"
)

// BlockHeaderPayload is the number of bytes a block header can be:
// Version 4 bytes + ParentHash 32 bytes + MerkleRoot 32 bytes +
// Timestamp 8 bytes + Bits 4 bytes + Nonce 8 bytes.
const BlockHeaderPayload = 4 + (chainhash.HashSize * 2) + 8 + 4 + 8

// BlockHeader defines information about a block and is used in the
// block-tree core and over the wire.
type BlockHeader struct {
	// Version of the block. This is not the same as the protocol version.
	Version int32

	// Hash of the previous block in the tree. The zero hash for genesis.
	ParentHash chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	MerkleRoot chainhash.Hash

	// Time the block was created.
	Timestamp time.Time

	// Difficulty target for the block.
	Bits uint32

	// Nonce used to generate the block.
	Nonce uint64
}

// BlockHash computes the block identifier hash for the given block header.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	// Encode the header and double sha256 everything. Ignore the error
	// returns since there is no way the encode could fail except being out
	// of memory which would cause a run-time panic.
	buf := bytes.NewBuffer(make([]byte, 0, BlockHeaderPayload))
	_ = h.Serialize(buf)

	return chainhash.DoubleHashH(buf.Bytes())
}

// IsGenesis returns whether this header is of the genesis block, i.e. its
// parent hash is the zero hash.
func (h *BlockHeader) IsGenesis() bool {
	return h.ParentHash == chainhash.ZeroHash
}

// Serialize encodes a block header from w into the receiver using a format
// that is suitable for long-term storage such as a database.
func (h *BlockHeader) Serialize(w io.Writer) error {
	var scratch [8]byte

	binary.LittleEndian.PutUint32(scratch[:4], uint32(h.Version))
	if _, err := w.Write(scratch[:4]); err != nil {
		return err
	}
	if _, err := w.Write(h.ParentHash[:]); err != nil {
		return err
	}
	if _, err := w.Write(h.MerkleRoot[:]); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(scratch[:], uint64(h.Timestamp.Unix()))
	if _, err := w.Write(scratch[:]); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(scratch[:4], h.Bits)
	if _, err := w.Write(scratch[:4]); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(scratch[:], h.Nonce)
	if _, err := w.Write(scratch[:]); err != nil {
		return err
	}

	return nil
}

// Deserialize decodes a block header from r into the receiver using a format
// that is suitable for long-term storage such as a database.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	var buf [BlockHeaderPayload]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return err
	}

	offset := 0
	h.Version = int32(binary.LittleEndian.Uint32(buf[offset : offset+4]))
	offset += 4
	copy(h.ParentHash[:], buf[offset:offset+chainhash.HashSize])
	offset += chainhash.HashSize
	copy(h.MerkleRoot[:], buf[offset:offset+chainhash.HashSize])
	offset += chainhash.HashSize
	h.Timestamp = time.Unix(int64(binary.LittleEndian.Uint64(buf[offset:offset+8])), 0)
	offset += 8
	h.Bits = binary.LittleEndian.Uint32(buf[offset : offset+4])
	offset += 4
	h.Nonce = binary.LittleEndian.Uint64(buf[offset : offset+8])

	return nil
}

// NewBlockHeader returns a new BlockHeader using the provided parent hash,
// merkle root hash, difficulty bits, and nonce with the timestamp truncated
// to one second precision.
func NewBlockHeader(version int32, parentHash, merkleRoot *chainhash.Hash,
	bits uint32, nonce uint64) *BlockHeader {

	return &BlockHeader{
		Version:    version,
		ParentHash: *parentHash,
		MerkleRoot: *merkleRoot,
		Timestamp:  time.Unix(time.Now().Unix(), 0),
		Bits:       bits,
		Nonce:      nonce,
	}
}
