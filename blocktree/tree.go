// Copyright (c) 2013-2018 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/emberchain/emberd/chainparams"
	"github.com/emberchain/emberd/dbaccess"
	"github.com/emberchain/emberd/domainmessage"
	"github.com/emberchain/emberd/util/chainhash"
)

// BlockValidator is the signature of the callback a BlockTree uses to judge
// block payloads. It is handed the full block when the block's data is first
// received. A nil return means the payload passed validation. A non-nil
// return means the block is permanently rejected and all of its current and
// future descendants are rejected with it.
//
// The callback is invoked without any tree locks held, so it is allowed to
// call read-only tree methods.
type BlockValidator func(block *domainmessage.MsgBlock) error

// Config is a descriptor which specifies the BlockTree instance configuration.
type Config struct {
	// DatabaseContext defines the database which houses the blocks and
	// the block index.
	//
	// This field is required.
	DatabaseContext *dbaccess.DatabaseContext

	// ChainParams identifies which network parameters the tree is
	// associated with.
	//
	// This field is required.
	ChainParams *chainparams.Params

	// Validator judges block payloads. If nil, every payload is accepted.
	Validator BlockValidator
}

// BlockTree provides functions for working with the tree of blocks that a
// node knows about. It accepts headers and blocks in any topological order,
// tracks the validation status of every block, selects the chain with the
// most proof of work among the valid candidates, and maintains a finality
// point below which the chain may no longer be reorganized.
//
// All mutations funnel through a single writer lock, so readers always
// observe a consistent tree.
type BlockTree struct {
	params          *chainparams.Params
	databaseContext *dbaccess.DatabaseContext
	validator       BlockValidator

	// processLock serializes all tree mutators. It is held across an
	// entire mutation, including the stretches where the validator runs
	// and treeLock is released, so writers never interleave.
	processLock sync.Mutex

	// treeLock protects all of the fields below it.
	treeLock      sync.RWMutex
	index         *blockIndex
	genesis       *blockNode
	selectedTip   *blockNode
	finalityPoint *blockNode
	tips          map[*blockNode]struct{}

	// sequence is the arrival counter handed to the next accepted header.
	// It breaks ties between branches of equal accumulated work.
	sequence uint64

	notificationsLock sync.RWMutex
	notifications     []NotificationCallback
}

// New returns a BlockTree instance using the provided configuration details.
func New(config *Config) (*BlockTree, error) {
	if config.DatabaseContext == nil {
		return nil, errors.New("blocktree.New database context is nil")
	}
	if config.ChainParams == nil {
		return nil, errors.New("blocktree.New chain parameters are nil")
	}

	tree := &BlockTree{
		params:          config.ChainParams,
		databaseContext: config.DatabaseContext,
		validator:       config.Validator,
		index:           newBlockIndex(),
		tips:            make(map[*blockNode]struct{}),
	}

	err := tree.initTreeState()
	if err != nil {
		return nil, err
	}

	log.Infof("Block tree ready (height %d, tip %s, finality point %s)",
		tree.selectedTip.height, tree.selectedTip.hash, tree.finalityPoint.hash)
	return tree, nil
}

// addNodeToIndex registers a freshly accepted node with the index and the tip
// set. The caller must hold the tree lock for writes.
func (tree *BlockTree) addNodeToIndex(node *blockNode) {
	tree.index.AddNode(node)
	node.updateParentChildren()
	if node.parent != nil {
		delete(tree.tips, node.parent)
	}
	tree.tips[node] = struct{}{}
}

// SelectedTipHash returns the hash of the current selected tip.
//
// This function is safe for concurrent access.
func (tree *BlockTree) SelectedTipHash() *chainhash.Hash {
	tree.treeLock.RLock()
	defer tree.treeLock.RUnlock()
	hash := tree.selectedTip.hash
	return &hash
}

// SelectedTipHeight returns the height of the current selected tip.
//
// This function is safe for concurrent access.
func (tree *BlockTree) SelectedTipHeight() uint64 {
	tree.treeLock.RLock()
	defer tree.treeLock.RUnlock()
	return tree.selectedTip.height
}

// FinalityPointHash returns the hash of the current finality point. The tree
// refuses to reorganize onto branches that fork below this block.
//
// This function is safe for concurrent access.
func (tree *BlockTree) FinalityPointHash() *chainhash.Hash {
	tree.treeLock.RLock()
	defer tree.treeLock.RUnlock()
	hash := tree.finalityPoint.hash
	return &hash
}

// BlockCount returns the number of blocks the tree knows about, including
// headers-only and invalid blocks.
//
// This function is safe for concurrent access.
func (tree *BlockTree) BlockCount() uint64 {
	return tree.index.BlockCount()
}

// HaveBlock returns whether the tree has knowledge of the given hash, in any
// status.
//
// This function is safe for concurrent access.
func (tree *BlockTree) HaveBlock(hash *chainhash.Hash) bool {
	return tree.index.HaveBlock(hash)
}

// BlockStatus returns the status of the block identified by the given hash.
//
// This function is safe for concurrent access.
func (tree *BlockTree) BlockStatus(hash *chainhash.Hash) (Status, error) {
	tree.treeLock.RLock()
	defer tree.treeLock.RUnlock()

	node, ok := tree.index.LookupNode(hash)
	if !ok {
		return 0, ruleError(ErrBlockNotFound, "block "+hash.String()+
			" is not known")
	}
	return node.viewStatus(), nil
}

// HeaderByHash returns the header of the block identified by the given hash.
//
// This function is safe for concurrent access.
func (tree *BlockTree) HeaderByHash(hash *chainhash.Hash) (*domainmessage.BlockHeader, error) {
	node, ok := tree.index.LookupNode(hash)
	if !ok {
		return nil, ruleError(ErrBlockNotFound, "block "+hash.String()+
			" is not known")
	}
	return node.Header(), nil
}

// BlockHeightByHash returns the height of the block identified by the given
// hash.
//
// This function is safe for concurrent access.
func (tree *BlockTree) BlockHeightByHash(hash *chainhash.Hash) (uint64, error) {
	node, ok := tree.index.LookupNode(hash)
	if !ok {
		return 0, ruleError(ErrBlockNotFound, "block "+hash.String()+
			" is not known")
	}
	return node.height, nil
}

// BlockConfirmations returns the number of confirmations of the block
// identified by the given hash. Blocks on the selected chain have one
// confirmation at the tip. Blocks off the selected chain report -1, following
// the convention of bitcoind's getblockheader.
//
// This function is safe for concurrent access.
func (tree *BlockTree) BlockConfirmations(hash *chainhash.Hash) (int64, error) {
	tree.treeLock.RLock()
	defer tree.treeLock.RUnlock()

	node, ok := tree.index.LookupNode(hash)
	if !ok {
		return 0, ruleError(ErrBlockNotFound, "block "+hash.String()+
			" is not known")
	}
	if tree.selectedTip.Ancestor(node.height) != node {
		return -1, nil
	}
	return int64(tree.selectedTip.height-node.height) + 1, nil
}

// SelectedChainHashByHeight returns the hash of the block at the given height
// on the selected chain.
//
// This function is safe for concurrent access.
func (tree *BlockTree) SelectedChainHashByHeight(height uint64) (*chainhash.Hash, error) {
	tree.treeLock.RLock()
	defer tree.treeLock.RUnlock()

	node := tree.selectedTip.Ancestor(height)
	if node == nil {
		return nil, ruleError(ErrBlockNotFound, "no block at the given "+
			"height on the selected chain")
	}
	hash := node.hash
	return &hash, nil
}

// IsInSelectedChain returns whether the block identified by the given hash is
// part of the current selected chain.
//
// This function is safe for concurrent access.
func (tree *BlockTree) IsInSelectedChain(hash *chainhash.Hash) (bool, error) {
	tree.treeLock.RLock()
	defer tree.treeLock.RUnlock()

	node, ok := tree.index.LookupNode(hash)
	if !ok {
		return false, ruleError(ErrBlockNotFound, "block "+hash.String()+
			" is not known")
	}
	return tree.selectedTip.Ancestor(node.height) == node, nil
}
