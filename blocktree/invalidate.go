// Copyright (c) 2018-2019 The kaspanet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

import (
	"fmt"
	"sort"

	"github.com/emberchain/emberd/util/chainhash"
)

// InvalidateBlock marks the block identified by the given hash as if it had
// failed validation. All of its descendants are marked as having an invalid
// ancestor and the selected tip is re-resolved, which usually moves the chain
// onto a competing branch.
//
// Invalidating the finality point or one of its ancestors retreats the
// finality point to the nearest remaining valid ancestor. This is the only
// way, besides ReconsiderBlock, that the finality point moves backwards.
//
// This function is safe for concurrent access.
func (tree *BlockTree) InvalidateBlock(hash *chainhash.Hash) error {
	tree.processLock.Lock()
	defer tree.processLock.Unlock()

	tree.treeLock.Lock()
	node, ok := tree.index.LookupNode(hash)
	if !ok {
		tree.treeLock.Unlock()
		return ruleError(ErrBlockNotFound, fmt.Sprintf(
			"block %s is not known", hash))
	}
	if node.isGenesis() {
		tree.treeLock.Unlock()
		return ruleError(ErrInvalidateGenesis,
			"the genesis block cannot be invalidated")
	}

	oldTip, oldFinality := tree.selectedTip, tree.finalityPoint

	tree.index.UnsetStatusFlags(node, statusValid)
	tree.index.SetStatusFlags(node, statusValidateFailed)
	tree.markDescendantsInvalidAncestor(node)

	if node.IsAncestorOf(tree.finalityPoint) {
		tree.finalityPoint = tree.topmostValidAncestor(node.parent)
		log.Infof("Finality point retreated to %s", tree.finalityPoint)
	}

	if tree.resolveSelectedTip() {
		tree.updateFinalityPoint()
	}
	newTip, newFinality := tree.selectedTip, tree.finalityPoint
	tree.treeLock.Unlock()

	if err := tree.flushState(); err != nil {
		return err
	}

	log.Infof("Invalidated block %s", node)
	tree.notifyChainChanges(oldTip, newTip, oldFinality, newFinality)
	return nil
}

// ReconsiderBlock removes the invalidity marks from the block identified by
// the given hash, from all of its ancestors and from all of its descendants,
// and re-derives their statuses. Blocks whose payloads had actually failed
// the validator are judged again and fail again; blocks that were only
// invalidated by hand, or tainted by an invalid ancestor, become candidates
// once more.
//
// When the reconsidered block ends up valid on a branch that conflicts with
// the finality point, the finality point retreats to the last common ancestor
// of the two, so that the reconsidered branch may compete for the chain.
//
// This function is safe for concurrent access.
func (tree *BlockTree) ReconsiderBlock(hash *chainhash.Hash) error {
	tree.processLock.Lock()
	defer tree.processLock.Unlock()

	// Find the blocks that failed their own validation and have their
	// payload stored. Those must face the validator again before any flag
	// changes, so that readers never observe a consensus-failed block with
	// its failure flags cleared. The process lock keeps the set stable
	// while the payloads are judged.
	tree.treeLock.RLock()
	node, ok := tree.index.LookupNode(hash)
	if !ok {
		tree.treeLock.RUnlock()
		return ruleError(ErrBlockNotFound, fmt.Sprintf(
			"block %s is not known", hash))
	}
	var revalidate []*blockNode
	collect := func(n *blockNode) {
		status := tree.index.NodeStatus(n)
		if status&statusValidateFailed != 0 && status.KnownStored() {
			revalidate = append(revalidate, n)
		}
	}
	for n := node; n != nil; n = n.parent {
		collect(n)
	}
	queue := append([]*blockNode(nil), node.children...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		collect(current)
		queue = append(queue, current.children...)
	}
	tree.treeLock.RUnlock()

	// Judge the payloads lowest first, so that a failing ancestor taints
	// its descendants before they are looked at.
	sort.Slice(revalidate, func(i, j int) bool {
		return revalidate[i].height < revalidate[j].height
	})
	var failed []*blockNode
	if tree.validator != nil {
		for _, n := range revalidate {
			nodeHash := n.hash
			block, err := tree.BlockByHash(&nodeHash)
			if err != nil {
				return err
			}
			if verdictErr := tree.validator(block); verdictErr != nil {
				log.Debugf("Block %s failed validation again: %s",
					n, verdictErr)
				failed = append(failed, n)
			}
		}
	}

	// With the verdicts in hand, the flag clearing, the re-marking, the
	// fork choice and the finality moves all land in a single critical
	// section, so the tree goes from the fully-previous state to the
	// fully-new state in one step.
	tree.treeLock.Lock()
	oldTip, oldFinality := tree.selectedTip, tree.finalityPoint

	clearFlags := func(n *blockNode) {
		status := tree.index.NodeStatus(n)
		if status&(statusValidateFailed|statusInvalidAncestor) == 0 {
			return
		}
		tree.index.UnsetStatusFlags(n,
			statusValidateFailed|statusInvalidAncestor)
	}
	for n := node; n != nil; n = n.parent {
		clearFlags(n)
	}
	queue = append(queue[:0], node.children...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		clearFlags(current)
		queue = append(queue, current.children...)
	}

	for _, n := range failed {
		tree.index.SetStatusFlags(n, statusValidateFailed)
		tree.markDescendantsInvalidAncestor(n)
	}
	tree.promoteValidBlocks(tree.topmostValidAncestor(node))

	if !tree.index.NodeStatus(node).KnownInvalid() &&
		!AreOnTheSameFork(node, tree.finalityPoint) {

		tree.finalityPoint = LastCommonAncestor(node, tree.finalityPoint)
		log.Infof("Finality point retreated to %s", tree.finalityPoint)
	}

	if tree.resolveSelectedTip() {
		tree.updateFinalityPoint()
	}
	newTip, newFinality := tree.selectedTip, tree.finalityPoint
	tree.treeLock.Unlock()

	if err := tree.flushState(); err != nil {
		return err
	}

	log.Infof("Reconsidered block %s", node)
	tree.notifyChainChanges(oldTip, newTip, oldFinality, newFinality)
	return nil
}
