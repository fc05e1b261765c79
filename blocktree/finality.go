// Copyright (c) 2018-2019 The kaspanet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

import (
	"fmt"

	"github.com/emberchain/emberd/util/chainhash"
)

// updateFinalityPoint advances the finality point to the block that sits
// FinalizationDepth blocks behind the selected tip on the selected chain. The
// finality point only ever moves forward here. Moving it backwards is the
// exclusive business of InvalidateBlock and ReconsiderBlock.
//
// Callers run this only after the selected tip actually moved. A finality
// point that was deliberately retreated, or deliberately pinned by
// FinalizeBlock, must stay put while the tip stands still.
//
// This function MUST be called with the tree lock held for writes.
func (tree *BlockTree) updateFinalityPoint() {
	if tree.params.FinalizationDepth == 0 {
		return
	}
	candidate := tree.selectedTip.RelativeAncestor(tree.params.FinalizationDepth)
	if candidate == nil || candidate.height <= tree.finalityPoint.height {
		return
	}

	tree.finalityPoint = candidate
	log.Debugf("Finality point advanced to %s", candidate)
}

// FinalizeBlock marks the block identified by the given hash as finalized.
// The chain may no longer reorganize below it: branches that fork below the
// finality point are no longer fork-choice candidates, and new blocks
// extending such branches are rejected on arrival.
//
// The block must be fully valid and must not conflict with the current
// finality point. Finalizing an ancestor of the current finality point is a
// no-op, since every ancestor of a finalized block is already finalized.
// Finalizing a valid block off the selected chain invalidates every branch
// that competes with it and forces the chain onto it.
//
// This function is safe for concurrent access.
func (tree *BlockTree) FinalizeBlock(hash *chainhash.Hash) error {
	tree.processLock.Lock()
	defer tree.processLock.Unlock()

	tree.treeLock.Lock()
	node, ok := tree.index.LookupNode(hash)
	if !ok {
		tree.treeLock.Unlock()
		return ruleError(ErrBlockNotFound, fmt.Sprintf(
			"block %s is not known", hash))
	}

	// Ancestors of the finality point are finalized already.
	if node.IsAncestorOf(tree.finalityPoint) {
		tree.treeLock.Unlock()
		return nil
	}

	status := tree.index.NodeStatus(node)
	if status.KnownInvalid() {
		tree.treeLock.Unlock()
		return ruleError(ErrFinalizeInvalidBlock, fmt.Sprintf(
			"block %s is invalid and cannot be finalized", hash))
	}
	if !status.KnownValid() {
		tree.treeLock.Unlock()
		return ruleError(ErrFinalizeInvalidBlock, fmt.Sprintf(
			"block %s has not been fully validated and cannot be "+
				"finalized", hash))
	}
	if !AreOnTheSameFork(node, tree.finalityPoint) {
		tree.treeLock.Unlock()
		return ruleError(ErrForkPriorFinalized, fmt.Sprintf(
			"block %s conflicts with the last finalized block %s",
			hash, tree.finalityPoint.hash))
	}

	oldTip, oldFinality := tree.selectedTip, tree.finalityPoint

	// When the block is off the selected chain, every branch above the
	// old finality point that competes with it loses. Invalidating the
	// competing branches is what makes the reorganization stick.
	if tree.selectedTip.Ancestor(node.height) != node {
		tree.invalidateConflictingBranches(node)
	}

	tree.finalityPoint = node
	if tree.resolveSelectedTip() {
		tree.updateFinalityPoint()
	}
	newTip, newFinality := tree.selectedTip, tree.finalityPoint
	tree.treeLock.Unlock()

	if err := tree.flushState(); err != nil {
		return err
	}

	log.Infof("Finalized block %s", node)
	tree.notifyChainChanges(oldTip, newTip, oldFinality, newFinality)
	return nil
}

// invalidateConflictingBranches marks as invalid every branch that forks off
// the path between the finality point and the given node. The node is a
// descendant of the finality point.
//
// This function MUST be called with the tree lock held for writes.
func (tree *BlockTree) invalidateConflictingBranches(node *blockNode) {
	for n := node; n != tree.finalityPoint; n = n.parent {
		for _, sibling := range n.parent.children {
			if sibling == n {
				continue
			}
			tree.index.UnsetStatusFlags(sibling, statusValid)
			tree.index.SetStatusFlags(sibling, statusValidateFailed)
			tree.markDescendantsInvalidAncestor(sibling)
			log.Debugf("Invalidated competing branch at %s", sibling)
		}
	}
}
