package rpc

import (
	"github.com/emberchain/emberd/rpcmodel"
)

// handleInvalidateBlock implements the invalidateBlock command.
func handleInvalidateBlock(s *Server, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	c := cmd.(*rpcmodel.InvalidateBlockCmd)

	hash, err := parseHash(c.Hash)
	if err != nil {
		return nil, err
	}

	err = s.blockTree.InvalidateBlock(hash)
	if err != nil {
		return nil, convertRuleError(err, "Could not invalidate block")
	}
	return nil, nil
}
