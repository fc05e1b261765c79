package dbaccess

import (
	"github.com/emberchain/emberd/database"
)

var treeStateKey = database.MakeBucket().Key([]byte("tree-state"))

// StoreTreeState stores the serialized tree state (the finality
// point and related bookkeeping) in the database.
func StoreTreeState(context Context, treeStateBytes []byte) error {
	accessor, err := context.accessor()
	if err != nil {
		return err
	}

	return accessor.Put(treeStateKey, treeStateBytes)
}

// FetchTreeState retrieves the serialized tree state from the
// database. Returns ErrNotFound if the state is missing, as is
// the case on a first run.
func FetchTreeState(context Context) ([]byte, error) {
	accessor, err := context.accessor()
	if err != nil {
		return nil, err
	}

	return accessor.Get(treeStateKey)
}
