package dbaccess

import (
	"github.com/pkg/errors"

	"github.com/emberchain/emberd/database"
	"github.com/emberchain/emberd/util/chainhash"
)

var blocksBucket = database.MakeBucket([]byte("blocks"))

func blockKey(hash *chainhash.Hash) *database.Key {
	return blocksBucket.Key(hash[:])
}

// StoreBlock stores the given block in the database.
func StoreBlock(context Context, hash *chainhash.Hash, blockBytes []byte) error {
	accessor, err := context.accessor()
	if err != nil {
		return err
	}

	return accessor.Put(blockKey(hash), blockBytes)
}

// FetchBlock returns the block of the given hash. Returns
// ErrNotFound if the block had not been previously stored.
func FetchBlock(context Context, hash *chainhash.Hash) ([]byte, error) {
	accessor, err := context.accessor()
	if err != nil {
		return nil, err
	}

	blockBytes, err := accessor.Get(blockKey(hash))
	if database.IsNotFoundError(err) {
		return nil, errors.Wrapf(err, "block %s not found", hash)
	}
	return blockBytes, err
}

// HasBlock returns whether the block of the given hash has been
// previously stored in the database.
func HasBlock(context Context, hash *chainhash.Hash) (bool, error) {
	accessor, err := context.accessor()
	if err != nil {
		return false, err
	}

	return accessor.Has(blockKey(hash))
}
