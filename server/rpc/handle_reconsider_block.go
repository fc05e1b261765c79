package rpc

import (
	"github.com/emberchain/emberd/rpcmodel"
)

// handleReconsiderBlock implements the reconsiderBlock command.
func handleReconsiderBlock(s *Server, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	c := cmd.(*rpcmodel.ReconsiderBlockCmd)

	hash, err := parseHash(c.Hash)
	if err != nil {
		return nil, err
	}

	err = s.blockTree.ReconsiderBlock(hash)
	if err != nil {
		return nil, convertRuleError(err, "Could not reconsider block")
	}
	return nil, nil
}
