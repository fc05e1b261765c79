// Copyright (c) 2018-2019 The kaspanet developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blocktree

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/emberchain/emberd/dbaccess"
	"github.com/emberchain/emberd/domainmessage"
	"github.com/emberchain/emberd/logger"
	"github.com/emberchain/emberd/util/chainhash"
)

// blockIndexKey generates the binary key for an entry in the block index
// bucket. The key is the block height encoded big-endian followed by the
// block hash, so that a cursor over the bucket iterates parents before
// children.
func blockIndexKey(blockHash *chainhash.Hash, height uint64) []byte {
	indexKey := make([]byte, chainhash.HashSize+8)
	binary.BigEndian.PutUint64(indexKey[0:8], height)
	copy(indexKey[8:chainhash.HashSize+8], blockHash[:])
	return indexKey
}

// serializeBlockNode encodes a block index row: the block header followed by
// the node's status and its arrival sequence number.
func serializeBlockNode(node *blockNode) ([]byte, error) {
	w := bytes.NewBuffer(make([]byte, 0, domainmessage.BlockHeaderPayload+9))
	header := node.Header()
	err := header.Serialize(w)
	if err != nil {
		return nil, err
	}

	err = w.WriteByte(byte(node.status))
	if err != nil {
		return nil, err
	}

	var sequenceBuf [8]byte
	binary.LittleEndian.PutUint64(sequenceBuf[:], node.sequenceNum)
	_, err = w.Write(sequenceBuf[:])
	if err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// deserializeBlockNodeRow decodes a block index row into its header, status
// and sequence number parts.
func deserializeBlockNodeRow(row []byte) (*domainmessage.BlockHeader, blockStatus, uint64, error) {
	r := bytes.NewReader(row)
	header := &domainmessage.BlockHeader{}
	err := header.Deserialize(r)
	if err != nil {
		return nil, 0, 0, err
	}

	statusByte, err := r.ReadByte()
	if err != nil {
		return nil, 0, 0, err
	}

	var sequenceBuf [8]byte
	_, err = io.ReadFull(r, sequenceBuf[:])
	if err != nil {
		return nil, 0, 0, err
	}
	sequenceNum := binary.LittleEndian.Uint64(sequenceBuf[:])
	return header, blockStatus(statusByte), sequenceNum, nil
}

// serializeTreeState encodes the part of the tree state that cannot be
// recomputed from the block index, which is just the finality point hash.
func serializeTreeState(finalityHash *chainhash.Hash) []byte {
	stateBytes := make([]byte, chainhash.HashSize)
	copy(stateBytes, finalityHash[:])
	return stateBytes
}

// deserializeTreeState decodes the finality point hash from the serialized
// tree state.
func deserializeTreeState(stateBytes []byte) (*chainhash.Hash, error) {
	return chainhash.NewHash(stateBytes)
}

// flushState atomically writes all dirty block index entries and the tree
// state to the database.
func (tree *BlockTree) flushState() error {
	dbTx, err := tree.databaseContext.NewTx()
	if err != nil {
		return err
	}
	defer dbTx.RollbackUnlessClosed()

	err = tree.index.flushToDB(dbTx)
	if err != nil {
		return err
	}

	tree.treeLock.RLock()
	finalityHash := tree.finalityPoint.hash
	tree.treeLock.RUnlock()
	err = dbaccess.StoreTreeState(dbTx, serializeTreeState(&finalityHash))
	if err != nil {
		return err
	}

	err = dbTx.Commit()
	if err != nil {
		return err
	}

	tree.index.clearDirtyEntries()
	return nil
}

// initTreeState loads the tree from the database, or creates a fresh tree
// containing only the genesis block when the database is empty. It is called
// once, from New, before the tree is shared.
func (tree *BlockTree) initTreeState() error {
	stateBytes, err := dbaccess.FetchTreeState(tree.databaseContext)
	if dbaccess.IsNotFoundError(err) {
		return tree.createTreeState()
	}
	if err != nil {
		return err
	}

	finalityHash, err := deserializeTreeState(stateBytes)
	if err != nil {
		return err
	}
	return tree.restoreTreeState(finalityHash)
}

// createTreeState initializes the database for a first run. The genesis block
// of the configured network is stored fully validated and becomes both the
// selected tip and the finality point.
func (tree *BlockTree) createTreeState() error {
	log.Infof("Creating a fresh block tree for %s", tree.params.Name)

	genesisBlock := tree.params.GenesisBlock
	node := newBlockNode(&genesisBlock.Header, nil, 0)
	if node.hash != *tree.params.GenesisHash {
		return errors.Errorf("genesis block hash mismatch: got %s, "+
			"expected %s", node.hash, tree.params.GenesisHash)
	}
	node.status = statusDataStored | statusValid
	tree.sequence = 1

	tree.addNodeToIndex(node)
	tree.genesis = node
	tree.selectedTip = node
	tree.finalityPoint = node

	err := tree.storeBlockData(genesisBlock)
	if err != nil {
		return err
	}
	return tree.flushState()
}

// restoreTreeState rebuilds the in-memory tree from the block index bucket.
// The index keys order rows by height, so every row's parent is restored
// before the row itself.
func (tree *BlockTree) restoreTreeState(finalityHash *chainhash.Hash) error {
	defer logger.LogAndMeasureExecutionTime(log, "restoreTreeState")()
	log.Infof("Loading block index...")

	cursor, err := dbaccess.BlockIndexCursor(tree.databaseContext)
	if err != nil {
		return err
	}
	defer cursor.Close()

	var maxSequence uint64
	for ok := cursor.First(); ok; ok = cursor.Next() {
		row, err := cursor.Value()
		if err != nil {
			return err
		}
		header, status, sequenceNum, err := deserializeBlockNodeRow(row)
		if err != nil {
			return err
		}

		var parent *blockNode
		if !header.IsGenesis() {
			var ok bool
			parent, ok = tree.index.LookupNode(&header.ParentHash)
			if !ok {
				return errors.Errorf("block index is corrupted: "+
					"block %s references missing parent %s",
					header.BlockHash(), header.ParentHash)
			}
		}

		node := newBlockNode(header, parent, sequenceNum)
		node.status = status
		if sequenceNum >= maxSequence {
			maxSequence = sequenceNum + 1
		}

		tree.addNodeToIndex(node)
		if parent == nil {
			if node.hash != *tree.params.GenesisHash {
				return errors.Errorf("block index is corrupted: "+
					"genesis block hash mismatch: got %s, "+
					"expected %s", node.hash, tree.params.GenesisHash)
			}
			tree.genesis = node
		}
	}
	if tree.genesis == nil {
		return errors.New("block index is corrupted: no genesis block")
	}
	tree.sequence = maxSequence
	tree.index.clearDirtyEntries()

	finalityNode, ok := tree.index.LookupNode(finalityHash)
	if !ok {
		return errors.Errorf("tree state is corrupted: finality point "+
			"%s is not in the block index", finalityHash)
	}
	tree.finalityPoint = finalityNode

	tree.selectedTip = tree.genesis
	tree.resolveSelectedTip()

	log.Infof("Block index loaded (%d blocks)", tree.index.BlockCount())
	return nil
}
