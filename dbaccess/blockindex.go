package dbaccess

import (
	"github.com/emberchain/emberd/database"
)

var blockIndexBucket = database.MakeBucket([]byte("block-index"))

// StoreIndexBlock stores a block index row under the given key.
// Keys are expected to sort the index by block height so that
// a cursor over the bucket rebuilds the tree parents-first.
func StoreIndexBlock(context Context, blockIndexKey []byte, row []byte) error {
	accessor, err := context.accessor()
	if err != nil {
		return err
	}

	key := blockIndexBucket.Key(blockIndexKey)
	return accessor.Put(key, row)
}

// BlockIndexCursor opens a cursor over all the block index
// rows that have been previously added to the database.
func BlockIndexCursor(context Context) (database.Cursor, error) {
	accessor, err := context.accessor()
	if err != nil {
		return nil, err
	}

	return accessor.Cursor(blockIndexBucket)
}
