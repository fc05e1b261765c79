// Copyright (c) 2018-2019 The kaspanet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

import (
	"sort"

	"github.com/emberchain/emberd/util/chainhash"
)

// ChainTip describes one tip of the block tree, i.e. a block without
// children. The selected tip is always reported, even when invalid
// descendants of it make it an inner node of the tree.
type ChainTip struct {
	// Hash is the hash of the tip block.
	Hash *chainhash.Hash

	// Height is the height of the tip block.
	Height uint64

	// BranchLen is the number of blocks on the branch that are not on the
	// selected chain. It is zero for the selected tip.
	BranchLen uint64

	// Status is the validation status of the tip block.
	Status Status

	// IsActive is true for the selected tip only.
	IsActive bool
}

// ChainTips returns a descriptor for every tip of the block tree, ordered by
// height descending with the hash as a tie-break, so the output is
// deterministic.
//
// This function is safe for concurrent access.
func (tree *BlockTree) ChainTips() []ChainTip {
	tree.treeLock.RLock()
	defer tree.treeLock.RUnlock()

	nodes := make([]*blockNode, 0, len(tree.tips)+1)
	selectedTipIsLeaf := false
	for tip := range tree.tips {
		nodes = append(nodes, tip)
		if tip == tree.selectedTip {
			selectedTipIsLeaf = true
		}
	}
	if !selectedTipIsLeaf {
		nodes = append(nodes, tree.selectedTip)
	}

	tips := make([]ChainTip, 0, len(nodes))
	for _, node := range nodes {
		fork := LastCommonAncestor(node, tree.selectedTip)
		hash := node.hash
		tips = append(tips, ChainTip{
			Hash:      &hash,
			Height:    node.height,
			BranchLen: node.height - fork.height,
			Status:    node.viewStatus(),
			IsActive:  node == tree.selectedTip,
		})
	}

	sort.Slice(tips, func(i, j int) bool {
		if tips[i].Height != tips[j].Height {
			return tips[i].Height > tips[j].Height
		}
		return tips[i].Hash.String() < tips[j].Hash.String()
	})
	return tips
}
