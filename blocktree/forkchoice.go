// Copyright (c) 2013-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

// betterCandidate returns whether node a is a better fork-choice candidate
// than node b. More accumulated work wins; between equal-work candidates the
// one that arrived first wins.
func betterCandidate(a, b *blockNode) bool {
	cmp := a.workSum.Cmp(b.workSum)
	if cmp != 0 {
		return cmp > 0
	}
	return a.sequenceNum < b.sequenceNum
}

// topmostValidAncestor returns the highest fully valid block on the path from
// the given node to genesis, which may be the node itself. It never returns
// nil because genesis is always valid.
func (tree *BlockTree) topmostValidAncestor(node *blockNode) *blockNode {
	n := node
	for !tree.index.NodeStatus(n).KnownValid() {
		n = n.parent
	}
	return n
}

// resolveSelectedTip recomputes the selected tip from scratch and returns
// whether it moved. The candidates are the topmost fully valid blocks of every
// branch that does not fork below the finality point. Among the candidates the
// one with the most accumulated work wins, with arrival order breaking ties.
// When no candidate beats genesis, genesis is the selected tip.
//
// This function MUST be called with the tree lock held for writes.
func (tree *BlockTree) resolveSelectedTip() bool {
	best := tree.genesis
	for tip := range tree.tips {
		candidate := tree.topmostValidAncestor(tip)
		if !AreOnTheSameFork(candidate, tree.finalityPoint) {
			continue
		}
		if betterCandidate(candidate, best) {
			best = candidate
		}
	}

	if best == tree.selectedTip {
		return false
	}
	log.Infof("Selected tip is now %s (was %s)", best, tree.selectedTip)
	tree.selectedTip = best
	return true
}
