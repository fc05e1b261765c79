// Copyright (c) 2013-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

import (
	"bytes"
	"fmt"

	"github.com/emberchain/emberd/dbaccess"
	"github.com/emberchain/emberd/domainmessage"
	"github.com/emberchain/emberd/util/chainhash"
)

// ProcessHeader accepts a new block header into the block tree. The header's
// parent must already be known. The new block starts out in headers-only
// status, unless its parent forks the chain below the finality point, in
// which case it is stored in invalid status and ErrForkPriorFinalized is
// returned.
//
// This function is safe for concurrent access.
func (tree *BlockTree) ProcessHeader(header *domainmessage.BlockHeader) error {
	tree.processLock.Lock()
	defer tree.processLock.Unlock()

	tree.treeLock.Lock()
	node, err := tree.acceptHeader(header)
	tree.treeLock.Unlock()

	if node != nil {
		if flushErr := tree.flushState(); flushErr != nil {
			return flushErr
		}
	}
	if err != nil {
		return err
	}

	log.Debugf("Accepted header %s", node)
	return nil
}

// acceptHeader performs the admission checks on a new header and, when they
// pass, adds a node for it to the index. A node is created and stored even
// when the header forks the chain below the finality point, so that the
// offending block shows up in the tree as invalid. The returned node is
// non-nil whenever a node was added, including in that error case.
//
// This function MUST be called with the tree lock held for writes.
func (tree *BlockTree) acceptHeader(header *domainmessage.BlockHeader) (*blockNode, error) {
	blockHash := header.BlockHash()
	if _, ok := tree.index.LookupNode(&blockHash); ok {
		return nil, ruleError(ErrDuplicateBlock, fmt.Sprintf(
			"already have block %s", blockHash))
	}

	parent, ok := tree.index.LookupNode(&header.ParentHash)
	if !ok {
		return nil, ruleError(ErrPreviousBlockUnknown, fmt.Sprintf(
			"parent block %s is unknown", header.ParentHash))
	}
	if tree.index.NodeStatus(parent).KnownInvalid() {
		return nil, ruleError(ErrInvalidAncestorBlock, fmt.Sprintf(
			"parent block %s is known to be invalid", header.ParentHash))
	}

	node := newBlockNode(header, parent, tree.sequence)
	tree.sequence++
	tree.addNodeToIndex(node)

	if !AreOnTheSameFork(parent, tree.finalityPoint) {
		tree.index.SetStatusFlags(node, statusValidateFailed)
		return node, ruleError(ErrForkPriorFinalized, fmt.Sprintf(
			"block %s forks the chain before the last finalized "+
				"block %s", blockHash, tree.finalityPoint.hash))
	}

	return node, nil
}

// ProcessBlock accepts a full block into the block tree. If the block's
// header is not yet known it is accepted first, subject to the same admission
// checks as ProcessHeader. The block's payload is then stored and judged by
// the configured validator. A passing block becomes a fork-choice candidate
// and may promote descendant blocks whose payloads arrived earlier; the
// selected tip and the finality point are re-resolved afterwards.
//
// This function is safe for concurrent access.
func (tree *BlockTree) ProcessBlock(block *domainmessage.MsgBlock) error {
	tree.processLock.Lock()
	defer tree.processLock.Unlock()

	blockHash := block.BlockHash()

	tree.treeLock.Lock()
	node, ok := tree.index.LookupNode(&blockHash)
	if ok {
		status := tree.index.NodeStatus(node)
		tree.treeLock.Unlock()
		switch {
		case status&statusValidateFailed != 0:
			return ruleError(ErrConsensusReject, fmt.Sprintf(
				"block %s is known to be invalid", blockHash))
		case status&statusInvalidAncestor != 0:
			return ruleError(ErrInvalidAncestorBlock, fmt.Sprintf(
				"an ancestor of block %s is known to be invalid",
				blockHash))
		case status.KnownStored():
			return ruleError(ErrDuplicateBlock, fmt.Sprintf(
				"already have block %s", blockHash))
		}
	} else {
		var err error
		node, err = tree.acceptHeader(&block.Header)
		tree.treeLock.Unlock()
		if err != nil {
			if node != nil {
				if flushErr := tree.flushState(); flushErr != nil {
					return flushErr
				}
			}
			return err
		}
	}

	err := tree.storeBlockData(block)
	if err != nil {
		return err
	}

	// The verdict may take a while. It runs without the tree lock so that
	// readers are not starved while an expensive payload check runs.
	var verdictErr error
	if tree.validator != nil {
		verdictErr = tree.validator(block)
	}

	tree.treeLock.Lock()
	tree.index.SetStatusFlags(node, statusDataStored)

	if verdictErr != nil {
		tree.index.SetStatusFlags(node, statusValidateFailed)
		tree.markDescendantsInvalidAncestor(node)
		tree.treeLock.Unlock()

		if flushErr := tree.flushState(); flushErr != nil {
			return flushErr
		}
		log.Infof("Rejected block %s: %s", node, verdictErr)
		return ruleError(ErrConsensusReject, fmt.Sprintf(
			"block %s failed validation: %s", blockHash, verdictErr))
	}

	oldTip, oldFinality := tree.selectedTip, tree.finalityPoint
	tree.promoteValidBlocks(node)
	if tree.resolveSelectedTip() {
		tree.updateFinalityPoint()
	}
	newTip, newFinality := tree.selectedTip, tree.finalityPoint
	blockStatus := node.viewStatus()
	tree.treeLock.Unlock()

	if flushErr := tree.flushState(); flushErr != nil {
		return flushErr
	}

	log.Debugf("Accepted block %s (%s)", node, blockStatus)
	tree.sendNotification(NTBlockAdded, &BlockAddedNotificationData{
		Hash:   blockHash,
		Height: node.height,
		Status: blockStatus,
	})
	tree.notifyChainChanges(oldTip, newTip, oldFinality, newFinality)
	return nil
}

// storeBlockData persists the serialized block payload under its hash.
func (tree *BlockTree) storeBlockData(block *domainmessage.MsgBlock) error {
	blockHash := block.BlockHash()
	buf := &bytes.Buffer{}
	err := block.Serialize(buf)
	if err != nil {
		return err
	}
	return dbaccess.StoreBlock(tree.databaseContext, &blockHash, buf.Bytes())
}

// BlockByHash returns the full block identified by the given hash, if its
// payload was stored.
//
// This function is safe for concurrent access.
func (tree *BlockTree) BlockByHash(hash *chainhash.Hash) (*domainmessage.MsgBlock, error) {
	blockBytes, err := dbaccess.FetchBlock(tree.databaseContext, hash)
	if err != nil {
		if dbaccess.IsNotFoundError(err) {
			return nil, ruleError(ErrBlockNotFound, fmt.Sprintf(
				"block %s is not stored", hash))
		}
		return nil, err
	}

	block := &domainmessage.MsgBlock{}
	err = block.Deserialize(bytes.NewReader(blockBytes))
	if err != nil {
		return nil, err
	}
	return block, nil
}
