package rpc

import (
	"github.com/emberchain/emberd/rpcmodel"
)

// handleFinalizeBlock implements the finalizeBlock command.
func handleFinalizeBlock(s *Server, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	c := cmd.(*rpcmodel.FinalizeBlockCmd)

	hash, err := parseHash(c.Hash)
	if err != nil {
		return nil, err
	}

	err = s.blockTree.FinalizeBlock(hash)
	if err != nil {
		return nil, convertRuleError(err, "Could not finalize block")
	}
	return nil, nil
}
