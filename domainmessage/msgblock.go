// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package domainmessage

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/emberchain/emberd/util/chainhash"
)

// maxPayloadSize is the maximum number of bytes a block payload can be.
// It is a sanity limit for deserialization.
const maxPayloadSize = 1 << 25 // 32MB

// MsgBlock implements a block message. The transaction contents are opaque
// to the block-tree core; external consensus checking interprets them and
// supplies a verdict.
type MsgBlock struct {
	Header  BlockHeader
	Payload []byte
}

// BlockHash computes the block identifier hash for this block.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// Serialize encodes the block to w using a format that is suitable for
// long-term storage such as a database.
func (msg *MsgBlock) Serialize(w io.Writer) error {
	if err := msg.Header.Serialize(w); err != nil {
		return err
	}

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(msg.Payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(msg.Payload)
	return err
}

// Deserialize decodes a block from r using a format that is suitable for
// long-term storage such as a database.
func (msg *MsgBlock) Deserialize(r io.Reader) error {
	if err := msg.Header.Deserialize(r); err != nil {
		return err
	}

	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return err
	}
	payloadLen := binary.LittleEndian.Uint32(lenBuf[:])
	if payloadLen > maxPayloadSize {
		return errors.Errorf("block payload of %d bytes is larger than "+
			"the allowed %d bytes", payloadLen, maxPayloadSize)
	}

	msg.Payload = make([]byte, payloadLen)
	_, err := io.ReadFull(r, msg.Payload)
	return err
}

// NewMsgBlock returns a new block message that conforms to the Message
// interface using the provided block header as its header.
func NewMsgBlock(header *BlockHeader) *MsgBlock {
	return &MsgBlock{Header: *header}
}
