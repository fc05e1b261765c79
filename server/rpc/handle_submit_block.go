package rpc

import (
	"bytes"
	"encoding/hex"

	"github.com/emberchain/emberd/domainmessage"
	"github.com/emberchain/emberd/rpcmodel"
)

// handleSubmitBlock implements the submitBlock command.
func handleSubmitBlock(s *Server, cmd interface{}, closeChan <-chan struct{}) (interface{}, error) {
	c := cmd.(*rpcmodel.SubmitBlockCmd)

	// Deserialize the submitted block.
	hexStr := c.HexBlock
	if len(hexStr)%2 != 0 {
		hexStr = "0" + hexStr
	}
	serializedBlock, err := hex.DecodeString(hexStr)
	if err != nil {
		return nil, rpcDecodeHexError(hexStr)
	}

	block := &domainmessage.MsgBlock{}
	err = block.Deserialize(bytes.NewReader(serializedBlock))
	if err != nil {
		return nil, rpcmodel.NewRPCError(rpcmodel.ErrRPCDeserialization,
			"Block decode failed: "+err.Error())
	}

	err = s.blockTree.ProcessBlock(block)
	if err != nil {
		return nil, convertRuleError(err, "Could not process block")
	}

	blockHash := block.BlockHash()
	status, err := s.blockTree.BlockStatus(&blockHash)
	if err != nil {
		return nil, convertRuleError(err, "Could not query block status")
	}

	log.Infof("Accepted block %s via submitBlock", blockHash)
	return &rpcmodel.SubmitResult{
		Hash:   blockHash.String(),
		Status: status.String(),
	}, nil
}
