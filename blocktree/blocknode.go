// Copyright (c) 2015-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

import (
	"fmt"
	"math/big"
	"time"

	"github.com/emberchain/emberd/domainmessage"
	"github.com/emberchain/emberd/util/chainhash"
)

// blockStatus is a bit field representing the validation state of the block.
type blockStatus byte

const (
	// statusDataStored indicates that the block's payload is stored on
	// disk, i.e. the full block and not just its header was received.
	statusDataStored blockStatus = 1 << iota

	// statusValid indicates that the block has been fully validated and
	// descends from the finality point.
	statusValid

	// statusValidateFailed indicates that the block has failed validation,
	// either by the externally supplied consensus verdict, by an explicit
	// invalidation call, or by forking the chain prior to the finality
	// point.
	statusValidateFailed

	// statusInvalidAncestor indicates that one of the block's ancestors
	// has failed validation, thus the block is also invalid.
	statusInvalidAncestor

	// statusNone indicates that the block has no validation state flags
	// set.
	//
	// NOTE: This must be defined last in order to avoid influencing iota.
	statusNone blockStatus = 0
)

// KnownValid returns whether the block is known to be valid. This will return
// false for a valid block that has not been fully validated yet.
func (status blockStatus) KnownValid() bool {
	return status&statusValid != 0
}

// KnownInvalid returns whether the block is known to be invalid. This may be
// because the block itself failed validation or any of its ancestors is
// invalid. This will return false for invalid blocks that have not been
// proven invalid yet.
func (status blockStatus) KnownInvalid() bool {
	return status&(statusValidateFailed|statusInvalidAncestor) != 0
}

// KnownStored returns whether the full block payload, and not just its
// header, was received and stored.
func (status blockStatus) KnownStored() bool {
	return status&statusDataStored != 0
}

// Status is the externally visible validation state of a block, derived from
// the internal status bit field. It is a closed set: exactly one of the
// values below describes any known block.
type Status byte

const (
	// StatusHeadersOnly means only the header of the block is known.
	StatusHeadersOnly Status = iota

	// StatusValidHeaders means the full block was received but it has not
	// been fully validated yet, e.g. because an ancestor's payload is
	// still missing.
	StatusValidHeaders

	// StatusValid means the block is fully validated and descends from
	// the finality point.
	StatusValid

	// StatusInvalid means the block itself failed validation or directly
	// conflicts with the finality point.
	StatusInvalid

	// StatusInvalidAncestor means the block is well-formed but some
	// ancestor of it is invalid.
	StatusInvalidAncestor
)

// String returns the Status as a human-readable name.
func (status Status) String() string {
	switch status {
	case StatusHeadersOnly:
		return "headers-only"
	case StatusValidHeaders:
		return "valid-headers"
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusInvalidAncestor:
		return "invalid-parent"
	}
	return fmt.Sprintf("Unknown Status (%d)", byte(status))
}

// blockNode represents a block within the block tree. The tree is stored
// into the block database.
type blockNode struct {
	// parent is the parent block for this node. It is nil only for the
	// genesis node.
	parent *blockNode

	// children are all the blocks that refer to this block as a parent.
	children []*blockNode

	// hash is the double sha256 of the block header.
	hash chainhash.Hash

	// workSum is the total amount of work in the tree up to and including
	// this node.
	workSum *big.Int

	// height is the position in the block tree.
	height uint64

	// sequenceNum is the order of arrival of this node relative to all
	// other nodes in the index. It is used as a deterministic tie-break
	// between equal-work fork-choice candidates: first seen wins.
	sequenceNum uint64

	// Some fields from block headers to aid in reconstructing headers
	// from memory. These must be treated as immutable and are
	// intentionally ordered to avoid padding on 64-bit platforms.
	version    int32
	bits       uint32
	nonce      uint64
	timestamp  int64
	merkleRoot chainhash.Hash

	// status is a bitfield representing the validation state of the
	// block. The status field, unlike the other fields, may be written to
	// and so should only be accessed using the concurrent-safe NodeStatus
	// method on blockIndex once the node has been added to the global
	// index.
	status blockStatus
}

// newBlockNode returns a new block node for the given block header and parent
// node. This function is NOT safe for concurrent access.
func newBlockNode(blockHeader *domainmessage.BlockHeader, parent *blockNode, sequenceNum uint64) *blockNode {
	node := &blockNode{
		parent:      parent,
		hash:        blockHeader.BlockHash(),
		workSum:     CalcWork(blockHeader.Bits),
		sequenceNum: sequenceNum,
		version:     blockHeader.Version,
		bits:        blockHeader.Bits,
		nonce:       blockHeader.Nonce,
		timestamp:   blockHeader.Timestamp.Unix(),
		merkleRoot:  blockHeader.MerkleRoot,
	}
	if parent != nil {
		node.height = parent.height + 1
		node.workSum = node.workSum.Add(parent.workSum, node.workSum)
	}
	return node
}

// updateParentChildren updates the node's parent to point to the new node.
func (node *blockNode) updateParentChildren() {
	if node.parent != nil {
		node.parent.children = append(node.parent.children, node)
	}
}

// Header constructs a block header from the node and returns it.
//
// This function is safe for concurrent access.
func (node *blockNode) Header() *domainmessage.BlockHeader {
	// No lock is needed because all accessed fields are immutable.
	parentHash := &chainhash.ZeroHash
	if node.parent != nil {
		parentHash = &node.parent.hash
	}
	return &domainmessage.BlockHeader{
		Version:    node.version,
		ParentHash: *parentHash,
		MerkleRoot: node.merkleRoot,
		Timestamp:  time.Unix(node.timestamp, 0),
		Bits:       node.bits,
		Nonce:      node.nonce,
	}
}

// Ancestor returns the ancestor block node at the provided height by
// following the chain backwards from this node. The returned block will be
// nil when a height is requested that is after the height of the passed
// node.
//
// This function is safe for concurrent access.
func (node *blockNode) Ancestor(height uint64) *blockNode {
	if height > node.height {
		return nil
	}

	n := node
	for ; n != nil && n.height != height; n = n.parent {
		// Intentionally left blank
	}

	return n
}

// RelativeAncestor returns the ancestor block node a relative 'distance' of
// blocks before this node. This is equivalent to calling Ancestor with the
// node's height minus provided distance.
//
// This function is safe for concurrent access.
func (node *blockNode) RelativeAncestor(distance uint64) *blockNode {
	if distance > node.height {
		return nil
	}
	return node.Ancestor(node.height - distance)
}

// IsAncestorOf returns whether node is an ancestor-or-equal of the given
// other node, i.e. node lies on other's path to genesis.
//
// This function is safe for concurrent access.
func (node *blockNode) IsAncestorOf(other *blockNode) bool {
	return other.Ancestor(node.height) == node
}

// AreOnTheSameFork returns whether two nodes lie on a single path from
// genesis, i.e. either one is an ancestor-or-equal of the other.
func AreOnTheSameFork(a, b *blockNode) bool {
	return a.IsAncestorOf(b) || b.IsAncestorOf(a)
}

// LastCommonAncestor returns the deepest node that is an ancestor-or-equal
// of both given nodes. Since both nodes descend from the same genesis, a
// common ancestor always exists.
func LastCommonAncestor(a, b *blockNode) *blockNode {
	if a.height > b.height {
		a = a.Ancestor(b.height)
	} else if b.height > a.height {
		b = b.Ancestor(a.height)
	}

	for a != b {
		a = a.parent
		b = b.parent
	}
	return a
}

// isGenesis returns if the current block is the genesis block.
func (node *blockNode) isGenesis() bool {
	return node.parent == nil
}

// viewStatus derives the externally visible Status of the node from its
// internal status bit field.
func (node *blockNode) viewStatus() Status {
	status := node.status
	switch {
	case status&statusValidateFailed != 0:
		return StatusInvalid
	case status&statusInvalidAncestor != 0:
		return StatusInvalidAncestor
	case status.KnownValid():
		return StatusValid
	case status.KnownStored():
		return StatusValidHeaders
	}
	return StatusHeadersOnly
}

// String returns a string that contains the block hash and height.
func (node blockNode) String() string {
	return fmt.Sprintf("%s (%d)", node.hash, node.height)
}
