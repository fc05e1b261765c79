// Copyright (c) 2013-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

// promoteValidBlocks promotes the given node to fully valid status when its
// payload is stored, it has not failed validation and its parent is fully
// valid, and then walks down the subtree promoting every descendant that
// satisfies the same conditions. A stored payload that has not been marked
// failed is known to have passed the validator, so a promotion never needs to
// re-run it.
//
// This function MUST be called with the tree lock held for writes.
func (tree *BlockTree) promoteValidBlocks(node *blockNode) {
	if node.parent != nil && !tree.index.NodeStatus(node.parent).KnownValid() {
		return
	}

	queue := []*blockNode{node}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		status := tree.index.NodeStatus(current)
		if status.KnownInvalid() || !status.KnownStored() {
			continue
		}
		if !status.KnownValid() {
			tree.index.SetStatusFlags(current, statusValid)
			log.Debugf("Block %s is now fully valid", current)
		}
		queue = append(queue, current.children...)
	}
}

// markDescendantsInvalidAncestor marks the entire subtree below the given
// node as having an invalid ancestor. Any descendant that was previously
// valid loses that status.
//
// This function MUST be called with the tree lock held for writes.
func (tree *BlockTree) markDescendantsInvalidAncestor(node *blockNode) {
	queue := append([]*blockNode(nil), node.children...)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		tree.index.UnsetStatusFlags(current, statusValid)
		tree.index.SetStatusFlags(current, statusInvalidAncestor)
		queue = append(queue, current.children...)
	}
}
